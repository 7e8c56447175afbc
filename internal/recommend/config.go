package recommend

import (
	"fmt"
	"math"
)

// Sub-score names, used as keys of the score breakdown.
const (
	FactorPrice        = "price"
	FactorStarRating   = "star_rating"
	FactorAmenities    = "amenities"
	FactorLocation     = "location"
	FactorReviews      = "reviews"
	FactorAvailability = "availability"
)

const weightTolerance = 1e-9

// Weights is the relative contribution of each sub-score. Unlike a
// normalizing ensemble, the weights must already sum to 1.0.
type Weights struct {
	Price        float64 `json:"price"`
	StarRating   float64 `json:"star_rating"`
	Amenities    float64 `json:"amenities"`
	Location     float64 `json:"location"`
	Reviews      float64 `json:"reviews"`
	Availability float64 `json:"availability"`
}

// DefaultWeights returns the production weighting.
func DefaultWeights() Weights {
	return Weights{
		Price:        0.30,
		StarRating:   0.20,
		Amenities:    0.15,
		Location:     0.15,
		Reviews:      0.10,
		Availability: 0.10,
	}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Price + w.StarRating + w.Amenities + w.Location + w.Reviews + w.Availability
}

// ToMap returns the weights keyed by factor name.
func (w Weights) ToMap() map[string]float64 {
	return map[string]float64{
		FactorPrice:        w.Price,
		FactorStarRating:   w.StarRating,
		FactorAmenities:    w.Amenities,
		FactorLocation:     w.Location,
		FactorReviews:      w.Reviews,
		FactorAvailability: w.Availability,
	}
}

// Config holds everything that shapes an Engine. It is copied into the
// engine at construction and never changes afterwards.
type Config struct {
	Weights Weights `json:"weights"`

	// BundlePriceCeiling is the multiple of the hotel-only price a package
	// must stay strictly below to be recommended.
	// Default: 1.2.
	BundlePriceCeiling float64 `json:"bundle_price_ceiling"`

	// RequireRooms rejects hotels that declare no room types with ErrNoRooms
	// instead of recommending them without a room.
	// Default: false.
	RequireRooms bool `json:"require_rooms"`
}

// DefaultConfig returns the production configuration.
func DefaultConfig() Config {
	return Config{
		Weights:            DefaultWeights(),
		BundlePriceCeiling: 1.2,
	}
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	for name, w := range c.Weights.ToMap() {
		if w < 0 || w > 1 || math.IsNaN(w) {
			return fmt.Errorf("weights.%s must be in [0, 1], got %f", name, w)
		}
	}
	if sum := c.Weights.Sum(); math.Abs(sum-1.0) > weightTolerance {
		return fmt.Errorf("weights must sum to 1.0, got %f", sum)
	}
	if c.BundlePriceCeiling <= 0 {
		return fmt.Errorf("bundle_price_ceiling must be positive, got %f", c.BundlePriceCeiling)
	}
	return nil
}
