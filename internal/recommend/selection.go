package recommend

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"tripstay/internal/domain"
)

const (
	// rooms above this occupancy are never required, however large the group
	maxRequiredOccupancy = 4

	packageHotelWeight    = 0.8
	packageDiscountWeight = 0.2
)

// selectRoom picks the cheapest room that fits the party, preferring one
// priced inside the budget. When nothing fits, the hotel's first declared
// room is offered. Returns nil for hotels without rooms.
func selectRoom(h domain.Hotel, p domain.Preferences) *domain.Room {
	if len(h.RoomTypes) == 0 {
		return nil
	}
	need := min(p.GroupSize, maxRequiredOccupancy)

	fits := make([]domain.Room, 0, len(h.RoomTypes))
	for _, r := range h.RoomTypes {
		if r.MaxOccupancy >= need {
			fits = append(fits, r)
		}
	}
	if len(fits) == 0 {
		r := h.RoomTypes[0]
		return &r
	}

	sort.SliceStable(fits, func(i, j int) bool { return fits[i].PricePerNight < fits[j].PricePerNight })
	for i := range fits {
		if p.BudgetRange.Contains(fits[i].PricePerNight) {
			r := fits[i]
			return &r
		}
	}
	r := fits[0]
	return &r
}

func packageScore(hotelScore float64, pkg domain.TourPackage) float64 {
	return hotelScore*packageHotelWeight + (pkg.DiscountPercentage/100)*packageDiscountWeight
}

// selectPackage returns the package with the highest package score; ties go
// to the earliest in the list. Price is not considered here.
func selectPackage(pkgs []domain.TourPackage, hotelScore float64) *domain.TourPackage {
	var best *domain.TourPackage
	bestScore := 0.0
	for i := range pkgs {
		s := packageScore(hotelScore, pkgs[i])
		if best == nil || s > bestScore {
			pkg := pkgs[i]
			best, bestScore = &pkg, s
		}
	}
	return best
}

func reasoning(h domain.Hotel, p domain.Preferences, score float64, scores map[string]float64, pkg *domain.TourPackage) string {
	var parts []string
	switch {
	case score > 0.8:
		parts = append(parts, "This hotel is an excellent match for your preferences")
	case score > 0.6:
		parts = append(parts, "This hotel is a good match for your preferences")
	default:
		parts = append(parts, "This hotel meets your basic requirements")
	}

	if scores[FactorPrice] > 0.8 {
		parts = append(parts, "great value within your budget")
	}
	if scores[FactorAmenities] > 0.7 {
		parts = append(parts, "has most of your preferred amenities")
	}
	if h.AverageRating != nil && *h.AverageRating > 4.0 {
		parts = append(parts, "highly rated by previous guests")
	}
	if h.StarRating != nil && containsInt(p.PreferredStarRating, *h.StarRating) {
		parts = append(parts, "matches your preferred star rating")
	}

	text := strings.Join(parts, ", ") + "."
	if pkg != nil {
		text += fmt.Sprintf(" Book it with the %s package to save %s%%.",
			pkg.PackageName, strconv.FormatFloat(pkg.DiscountPercentage, 'f', -1, 64))
	}
	return text
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
