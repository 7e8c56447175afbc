package recommend

import (
	"math"
	"strings"

	"tripstay/internal/domain"
)

// Neutral values used when the input a calculator needs is absent.
const (
	neutralPrice     = 0.5
	neutralStars     = 0.7
	neutralAmenities = 0.7
	neutralLocation  = 0.7
	neutralReviews   = 0.5

	locationMiss = 0.3

	// reviews needed before a rating is trusted at face value
	reviewConfidenceVolume = 50.0
)

// priceScore rewards a nightly price inside the budget, mildly rewards one
// below it and penalizes overshoot linearly down to zero.
func priceScore(h domain.Hotel, p domain.Preferences) float64 {
	if h.BasePricePerNight == nil {
		return neutralPrice
	}
	price := *h.BasePricePerNight
	b := p.BudgetRange

	switch {
	case b.Contains(price):
		return 1.0
	case price < b.Min:
		if b.Min <= 0 {
			return 0.8
		}
		return clamp01(0.8 + (price/b.Min)*0.2)
	default:
		if b.Max <= 0 {
			return 0.0
		}
		return math.Max(0.0, 0.5-(price-b.Max)/b.Max)
	}
}

// starScore decays by 0.2 per star of distance from the nearest preferred rating.
func starScore(h domain.Hotel, p domain.Preferences) float64 {
	if h.StarRating == nil || len(p.PreferredStarRating) == 0 {
		return neutralStars
	}
	stars := *h.StarRating

	minDist := math.MaxInt
	for _, want := range p.PreferredStarRating {
		d := stars - want
		if d < 0 {
			d = -d
		}
		if d < minDist {
			minDist = d
		}
	}
	if minDist == 0 {
		return 1.0
	}
	return math.Max(0.0, 1.0-float64(minDist)*0.2)
}

// amenityScore is the share of preferred amenities found as a substring of
// at least one hotel amenity.
func amenityScore(h domain.Hotel, p domain.Preferences) float64 {
	wanted := nonBlankLower(p.PreferredAmenities)
	if len(h.Amenities) == 0 || len(wanted) == 0 {
		return neutralAmenities
	}
	have := nonBlankLower(h.Amenities)

	matched := 0
	for _, w := range wanted {
		for _, a := range have {
			if strings.Contains(a, w) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(wanted))
}

// locationScore is 1.0 when any location hint appears in the hotel city or
// address. A miss is a soft penalty, not an exclusion.
func locationScore(h domain.Hotel, p domain.Preferences) float64 {
	hints := nonBlankLower(p.LocationPreferences)
	if len(hints) == 0 {
		return neutralLocation
	}
	city := strings.ToLower(h.City)
	addr := strings.ToLower(h.Address)

	for _, hint := range hints {
		if strings.Contains(city, hint) || strings.Contains(addr, hint) {
			return 1.0
		}
	}
	return locationMiss
}

// reviewScore maps a 1..5 rating onto [0, 1] and pulls it towards the
// midpoint when it is backed by few reviews.
func reviewScore(h domain.Hotel, _ domain.Preferences) float64 {
	if h.AverageRating == nil || h.ReviewCount <= 0 {
		return neutralReviews
	}
	normalized := clamp01((*h.AverageRating - 1) / 4)
	confidence := math.Min(float64(h.ReviewCount)/reviewConfidenceVolume, 1.0)
	return confidence*normalized + (1-confidence)*0.5
}

// availabilityScore assumes two guests per room.
func availabilityScore(h domain.Hotel, p domain.Preferences) float64 {
	if h.AvailableRooms <= 0 {
		return 0.0
	}
	needed := roomsNeeded(p.GroupSize)

	switch {
	case h.AvailableRooms >= 2*needed:
		return 1.0
	case h.AvailableRooms >= needed:
		return 0.8
	default:
		return 0.3
	}
}

func roomsNeeded(groupSize int) int {
	if groupSize <= 0 {
		return 0
	}
	return (groupSize + 1) / 2
}

func nonBlankLower(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if t := strings.ToLower(strings.TrimSpace(s)); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v) || v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
