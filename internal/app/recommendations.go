package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"tripstay/internal/adapters/observability"
	"tripstay/internal/domain"
	"tripstay/internal/recommend"
)

const (
	DefaultLimit = 10
	MaxLimit     = 50
)

// SortOrder selects how a recommendations page is ordered before truncation.
type SortOrder string

const (
	SortRecommended SortOrder = "recommended"
	SortPriceLow    SortOrder = "price_low"
	SortPriceHigh   SortOrder = "price_high"
	SortRating      SortOrder = "rating"
	SortPopularity  SortOrder = "popularity"
)

func (o SortOrder) valid() bool {
	switch o {
	case SortRecommended, SortPriceLow, SortPriceHigh, SortRating, SortPopularity:
		return true
	}
	return false
}

const dateLayout = "2006-01-02"

// RecommendRequest is one search. Preferences may be nil, in which case a
// profile is derived from Guests. CheckIn and CheckOut, when set, decide the
// number of nights.
type RecommendRequest struct {
	Preferences *domain.Preferences
	Guests      domain.Guests
	Nights      int
	CheckIn     time.Time
	CheckOut    time.Time
	City        string
	MinStars    *int
	Limit       int
	SortBy      SortOrder
}

// ScoreResult is the composite score of a single hotel with its breakdown.
type ScoreResult struct {
	HotelID    string             `json:"hotel_id"`
	Score      float64            `json:"score"`
	Scores     map[string]float64 `json:"scores"`
	Confidence domain.Confidence  `json:"confidence"`
}

type RecommendationService struct {
	repo          domain.HotelRepository
	cache         domain.Cache
	engine        *recommend.Engine
	workers       int
	maxCandidates int
	cacheTTL      time.Duration
}

func NewRecommendationService(r domain.HotelRepository, c domain.Cache, e *recommend.Engine,
	workers, maxCandidates int, ttl time.Duration) *RecommendationService {
	if workers <= 0 {
		workers = 1
	}
	if maxCandidates <= 0 {
		maxCandidates = 200
	}
	return &RecommendationService{
		repo:          r,
		cache:         c,
		engine:        e,
		workers:       workers,
		maxCandidates: maxCandidates,
		cacheTTL:      ttl,
	}
}

// resolve fills in defaults: preferences from guests, nights from the
// profile's trip duration (or the reverse), and the page limit.
func resolve(req RecommendRequest) (domain.Preferences, int, int) {
	var p domain.Preferences
	if req.Preferences != nil {
		p = *req.Preferences
	} else {
		p = recommend.DefaultPreferences(req.Guests)
	}
	nights := req.Nights
	if nights <= 0 {
		nights = p.TripDuration
	} else if p.TripDuration <= 0 || req.Preferences == nil {
		p.TripDuration = nights
	}

	limit := req.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return p, nights, limit
}

// stayNights counts calendar nights between two dates, ignoring time of day.
func stayNights(in, out time.Time) (int, error) {
	if in.IsZero() || out.IsZero() {
		return 0, fmt.Errorf("%w: check-in and check-out must be given together", recommend.ErrInvalidPreferences)
	}
	day := func(t time.Time) time.Time { return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC) }
	n := int(day(out).Sub(day(in)).Hours() / 24)
	if n <= 0 {
		return 0, fmt.Errorf("%w: check-out %s must be after check-in %s",
			recommend.ErrInvalidPreferences, out.Format(dateLayout), in.Format(dateLayout))
	}
	return n, nil
}

// sortItems orders the page; every order falls back to hotel ID so pages are stable.
func sortItems(items []domain.Recommendation, order SortOrder) {
	rating := func(r domain.Recommendation) float64 {
		if r.Hotel.AverageRating == nil {
			return -1
		}
		return *r.Hotel.AverageRating
	}
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		switch order {
		case SortPriceLow:
			if a.TotalPrice != b.TotalPrice {
				return a.TotalPrice < b.TotalPrice
			}
		case SortPriceHigh:
			if a.TotalPrice != b.TotalPrice {
				return a.TotalPrice > b.TotalPrice
			}
		case SortRating:
			if ra, rb := rating(a), rating(b); ra != rb {
				return ra > rb
			}
		case SortPopularity:
			if a.Hotel.ReviewCount != b.Hotel.ReviewCount {
				return a.Hotel.ReviewCount > b.Hotel.ReviewCount
			}
		default:
			if a.Score != b.Score {
				return a.Score > b.Score
			}
		}
		return a.Hotel.ID < b.Hotel.ID
	})
}

// searchKey fingerprints a normalized search so equal searches share a cache entry.
func searchKey(p domain.Preferences, nights, limit int, city string, minStars *int, order SortOrder) string {
	b, _ := json.Marshal(struct {
		P        domain.Preferences `json:"p"`
		Nights   int                `json:"n"`
		Limit    int                `json:"l"`
		City     string             `json:"c"`
		MinStars *int               `json:"s"`
		Sort     SortOrder          `json:"o"`
	}{p, nights, limit, strings.ToLower(strings.TrimSpace(city)), minStars, order})
	sum := sha1.Sum(b)
	return "recs:" + hex.EncodeToString(sum[:])
}

func (s *RecommendationService) Recommend(ctx context.Context, req RecommendRequest) (domain.RecommendationsPage, error) {
	if req.SortBy == "" {
		req.SortBy = SortRecommended
	}
	if !req.SortBy.valid() {
		return domain.RecommendationsPage{}, fmt.Errorf("%w: unknown sort order %q", recommend.ErrInvalidPreferences, req.SortBy)
	}
	if !req.CheckIn.IsZero() || !req.CheckOut.IsZero() {
		n, err := stayNights(req.CheckIn, req.CheckOut)
		if err != nil {
			return domain.RecommendationsPage{}, err
		}
		req.Nights = n
	}

	prefs, nights, limit := resolve(req)
	if nights <= 0 {
		return domain.RecommendationsPage{}, fmt.Errorf("%w: trip duration must be positive, got %d", recommend.ErrInvalidPreferences, nights)
	}
	if err := recommend.ValidatePreferences(prefs); err != nil {
		return domain.RecommendationsPage{}, err
	}

	key := searchKey(prefs, nights, limit, req.City, req.MinStars, req.SortBy)
	if s.cache != nil {
		var cached domain.RecommendationsPage
		if ok, _ := s.cache.Get(ctx, key, &cached); ok {
			return cached, nil
		}
	}

	q := domain.HotelsQuery{MinStars: req.MinStars, Limit: s.maxCandidates}
	if c := strings.TrimSpace(req.City); c != "" {
		q.City = &c
	}
	hotels, err := s.repo.ListHotels(ctx, q)
	if err != nil {
		return domain.RecommendationsPage{}, fmt.Errorf("load candidates: %w", err)
	}

	// Every hotel is scored independently; slots keep results addressable
	// without a lock.
	slots := make([]*domain.Recommendation, len(hotels))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i := range hotels {
		h := hotels[i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			pkgs, err := s.repo.ListPackages(gctx, h.ID)
			if err != nil {
				return fmt.Errorf("packages for %s: %w", h.ID, err)
			}
			rec, err := s.engine.Recommend(h, pkgs, prefs, nights)
			if errors.Is(err, recommend.ErrNoRooms) {
				observability.ObserveSkipped("no_rooms")
				log.Debug().Str("hotel_id", h.ID).Msg("skipping hotel without rooms")
				return nil
			}
			if err != nil {
				return err
			}
			slots[i] = &rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.RecommendationsPage{}, err
	}

	items := make([]domain.Recommendation, 0, len(slots))
	for _, r := range slots {
		if r != nil {
			items = append(items, *r)
		}
	}
	sortItems(items, req.SortBy)
	if len(items) > limit {
		items = items[:limit]
	}
	for _, r := range items {
		observability.ObserveRecommendation(string(r.BookingType), string(r.Confidence), r.Score)
	}

	page := domain.RecommendationsPage{
		SearchID:    uuid.NewString(),
		Preferences: prefs,
		Items:       items,
	}
	log.Info().
		Str("search_id", page.SearchID).
		Int("candidates", len(hotels)).
		Int("returned", len(items)).
		Str("sort", string(req.SortBy)).
		Msg("recommendations generated")

	if s.cache != nil {
		_ = s.cache.Set(ctx, key, page, int(s.cacheTTL.Seconds()))
	}
	return page, nil
}

// ScoreHotel scores one stored hotel without room or package selection.
func (s *RecommendationService) ScoreHotel(ctx context.Context, hotelID string, p domain.Preferences) (ScoreResult, error) {
	h, err := s.repo.GetHotel(ctx, hotelID)
	if err != nil {
		return ScoreResult{}, err
	}
	score, scores, err := s.engine.Breakdown(h, p)
	if err != nil {
		return ScoreResult{}, err
	}
	return ScoreResult{
		HotelID:    h.ID,
		Score:      score,
		Scores:     scores,
		Confidence: recommend.ConfidenceFor(score),
	}, nil
}
