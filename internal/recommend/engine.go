package recommend

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"tripstay/internal/domain"
)

var (
	ErrInvalidPreferences = errors.New("recommend: invalid preferences")
	ErrNoRooms            = errors.New("recommend: hotel has no rooms")
)

type factor struct {
	name   string
	weight float64
	score  func(domain.Hotel, domain.Preferences) float64
}

// Engine scores hotels and builds recommendations. It is immutable after
// construction and safe for concurrent use.
type Engine struct {
	cfg     Config
	logger  zerolog.Logger
	factors []factor
}

//nolint:gocritic // zerolog.Logger is passed by value by convention
func NewEngine(cfg Config, logger zerolog.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	w := cfg.Weights
	return &Engine{
		cfg:    cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
		factors: []factor{
			{FactorPrice, w.Price, priceScore},
			{FactorStarRating, w.StarRating, starScore},
			{FactorAmenities, w.Amenities, amenityScore},
			{FactorLocation, w.Location, locationScore},
			{FactorReviews, w.Reviews, reviewScore},
			{FactorAvailability, w.Availability, availabilityScore},
		},
	}, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// Score returns the composite score of h for p.
func (e *Engine) Score(h domain.Hotel, p domain.Preferences) (float64, error) {
	score, _, err := e.Breakdown(h, p)
	return score, err
}

// Breakdown returns the composite score together with every sub-score.
func (e *Engine) Breakdown(h domain.Hotel, p domain.Preferences) (float64, map[string]float64, error) {
	if err := ValidatePreferences(p); err != nil {
		return 0, nil, err
	}
	score, scores := e.composite(h, p)
	return score, scores, nil
}

func (e *Engine) composite(h domain.Hotel, p domain.Preferences) (float64, map[string]float64) {
	scores := make(map[string]float64, len(e.factors))
	total := 0.0
	for _, f := range e.factors {
		s := clamp01(f.score(h, p))
		scores[f.name] = s
		total += s * f.weight
	}
	return clamp01(total), scores
}

// Recommend scores h, picks a room, and bundles the best linked package when
// it is cheaper than 1.2x (BundlePriceCeiling) the hotel-only stay.
func (e *Engine) Recommend(h domain.Hotel, pkgs []domain.TourPackage, p domain.Preferences, nights int) (domain.Recommendation, error) {
	if nights <= 0 {
		return domain.Recommendation{}, fmt.Errorf("%w: trip duration must be positive, got %d", ErrInvalidPreferences, nights)
	}
	if err := ValidatePreferences(p); err != nil {
		return domain.Recommendation{}, err
	}
	if e.cfg.RequireRooms && len(h.RoomTypes) == 0 {
		return domain.Recommendation{}, fmt.Errorf("%w: hotel %s", ErrNoRooms, h.ID)
	}

	score, scores := e.composite(h, p)
	room := selectRoom(h, p)

	nightly := 0.0
	if h.BasePricePerNight != nil {
		nightly = *h.BasePricePerNight
	}
	hotelOnly := nightly * float64(nights)

	rec := domain.Recommendation{
		Hotel:       h,
		Room:        room,
		Score:       score,
		Scores:      scores,
		BookingType: domain.BookingHotelOnly,
		TotalPrice:  hotelOnly,
		Confidence:  ConfidenceFor(score),
	}

	if pkg := selectPackage(pkgs, score); pkg != nil && pkg.PackagePrice != nil &&
		*pkg.PackagePrice < hotelOnly*e.cfg.BundlePriceCeiling {
		rec.Package = pkg
		rec.BookingType = domain.BookingPackage
		rec.TotalPrice = *pkg.PackagePrice
	}
	rec.Reasoning = reasoning(h, p, score, scores, rec.Package)

	e.logger.Debug().
		Str("hotel_id", h.ID).
		Float64("score", score).
		Str("booking_type", string(rec.BookingType)).
		Interface("scores", scores).
		Msg("hotel recommended")

	return rec, nil
}

// ConfidenceFor maps a composite score onto a display tier.
func ConfidenceFor(score float64) domain.Confidence {
	switch {
	case score > 0.8:
		return domain.ConfidenceHigh
	case score > 0.6:
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}

// ValidatePreferences rejects profiles that violate the caller contract.
func ValidatePreferences(p domain.Preferences) error {
	switch {
	case p.GroupSize <= 0:
		return fmt.Errorf("%w: group size must be positive, got %d", ErrInvalidPreferences, p.GroupSize)
	case p.TripDuration <= 0:
		return fmt.Errorf("%w: trip duration must be positive, got %d", ErrInvalidPreferences, p.TripDuration)
	case p.BudgetRange.Min < 0 || p.BudgetRange.Min > p.BudgetRange.Max:
		return fmt.Errorf("%w: budget range [%g, %g] is invalid", ErrInvalidPreferences, p.BudgetRange.Min, p.BudgetRange.Max)
	}
	return nil
}
