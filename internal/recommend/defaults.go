package recommend

import "tripstay/internal/domain"

// DefaultPreferences derives a baseline profile from party size alone, for
// searches where the traveler stated no preferences.
func DefaultPreferences(g domain.Guests) domain.Preferences {
	group := g.Adults + g.Children

	style := domain.StyleBusiness
	if group > 2 {
		style = domain.StyleFamily
	}

	return domain.Preferences{
		BudgetRange:         domain.BudgetRange{Min: 50, Max: 200},
		PreferredStarRating: []int{3, 4},
		PreferredAmenities:  []string{"wifi", "parking", "restaurant"},
		TravelStyle:         style,
		GroupSize:           group,
		TripDuration:        3,
		LocationPreferences: []string{},
	}
}
