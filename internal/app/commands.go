package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"tripstay/internal/domain"
)

type IngestionService struct {
	inv   domain.InventoryClient
	repo  domain.HotelRepository
	cache domain.Cache
}

func NewIngestionService(c domain.InventoryClient, r domain.HotelRepository, cache domain.Cache) *IngestionService {
	return &IngestionService{inv: c, repo: r, cache: cache}
}

// missStatus classifies inventory errors that mean "this document is gone or
// hidden" rather than "the upstream is broken". Zero means unexpected.
func missStatus(err error) int {
	if errors.Is(err, domain.ErrNotFound) {
		return 404
	}
	low := strings.ToLower(err.Error())
	switch {
	case strings.Contains(low, "not found"):
		return 404
	case strings.Contains(low, "403") || strings.Contains(low, "forbidden"),
		strings.Contains(low, "401") || strings.Contains(low, "unauthorized"):
		return 403
	}
	return 0
}

func (s *IngestionService) IngestHotel(ctx context.Context, id string) error {
	// 1) Fetch the hotel document (parent first). Known misses are recorded, not returned.
	doc, err := s.inv.GetHotel(ctx, id)
	if err != nil {
		if st := missStatus(err); st != 0 {
			reason := "not found"
			if st == 403 {
				reason = "inactive"
			}
			_ = s.repo.LogMiss(ctx, id, st, reason)
			// Evict caches so we don't keep serving an old snapshot.
			s.invalidateHotel(ctx, id)
			return nil
		}
		return err
	}

	h := mapHotel(id, doc)
	if err := s.repo.UpsertHotel(ctx, h); err != nil {
		return err
	}
	if err := s.repo.ReplaceRooms(ctx, h.ID, h.RoomTypes); err != nil {
		return fmt.Errorf("replace rooms for %s: %w", h.ID, err)
	}

	// 2) Packages: the fetched list replaces the stored one, so packages the
	// inventory stopped offering disappear. Misses clear the set.
	raw, perr := s.inv.GetPackages(ctx, h.ID)
	var pkgs []domain.TourPackage
	switch {
	case perr == nil:
		pkgs = mapPackages(h.ID, raw)
	case missStatus(perr) != 0:
		_ = s.repo.LogMiss(ctx, h.ID, missStatus(perr), "packages")
	default:
		return perr
	}
	if err := s.repo.ReplacePackages(ctx, h.ID, pkgs); err != nil {
		// do not swallow this; surface so we know writes failed
		return fmt.Errorf("replace packages failed for %s: %w", h.ID, err)
	}

	s.invalidateHotel(ctx, h.ID)
	log.Debug().Str("hotel_id", h.ID).Int("rooms", len(h.RoomTypes)).Msg("hotel ingested")
	return nil
}

// invalidateHotel drops the per-hotel read caches. Recommendation pages are
// keyed by search, not hotel, and expire on their own shorter TTL.
func (s *IngestionService) invalidateHotel(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, hotelKey(id))
	_ = s.cache.Del(ctx, packagesKey(id))
}
