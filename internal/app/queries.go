package app

import (
	"context"
	"time"

	"tripstay/internal/domain"
)

func hotelKey(id string) string    { return "hotel:" + id }
func packagesKey(id string) string { return "packages:" + id }

type QueryService struct {
	repo     domain.HotelRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(r domain.HotelRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{repo: r, cache: c, cacheTTL: ttl}
}

func (s *QueryService) GetHotel(ctx context.Context, id string) (domain.Hotel, error) {
	key := hotelKey(id)
	var h domain.Hotel
	if ok, _ := s.cache.Get(ctx, key, &h); ok {
		return h, nil
	}
	h, err := s.repo.GetHotel(ctx, id)
	if err != nil {
		return domain.Hotel{}, err
	}
	_ = s.cache.Set(ctx, key, h, int(s.cacheTTL.Seconds()))
	return h, nil
}

func (s *QueryService) ListPackages(ctx context.Context, hotelID string) ([]domain.TourPackage, error) {
	// the hotel must exist even when it has no packages
	if _, err := s.GetHotel(ctx, hotelID); err != nil {
		return nil, err
	}

	key := packagesKey(hotelID)
	var out []domain.TourPackage
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}
	ps, err := s.repo.ListPackages(ctx, hotelID)
	if err != nil {
		return nil, err
	}

	// copy slice to avoid aliasing the repo's backing array
	out = make([]domain.TourPackage, len(ps))
	copy(out, ps)
	_ = s.cache.Set(ctx, key, out, int(s.cacheTTL.Seconds()))
	return out, nil
}
