package domain

type TravelStyle string

const (
	StyleFamily    TravelStyle = "family"
	StyleBusiness  TravelStyle = "business"
	StyleLeisure   TravelStyle = "leisure"
	StyleAdventure TravelStyle = "adventure"
)

type BudgetRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether price lies inside [Min, Max].
func (b BudgetRange) Contains(price float64) bool {
	return price >= b.Min && price <= b.Max
}

// Preferences is the traveler profile for one search. It is treated as
// read-only for the whole recommendation pass.
type Preferences struct {
	BudgetRange         BudgetRange `json:"budget_range"`
	PreferredStarRating []int       `json:"preferred_star_rating"`
	PreferredAmenities  []string    `json:"preferred_amenities"`
	TravelStyle         TravelStyle `json:"travel_style"`
	GroupSize           int         `json:"group_size"`
	TripDuration        int         `json:"trip_duration"`
	LocationPreferences []string    `json:"location_preferences"`
}

type Guests struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
}
