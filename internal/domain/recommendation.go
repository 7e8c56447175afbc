package domain

type BookingType string

const (
	BookingHotelOnly BookingType = "hotel_only"
	BookingPackage   BookingType = "package"
)

type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

type Recommendation struct {
	Hotel       Hotel              `json:"hotel"`
	Room        *Room              `json:"room,omitempty"`
	Package     *TourPackage       `json:"package,omitempty"`
	Score       float64            `json:"score"`
	Scores      map[string]float64 `json:"scores,omitempty"` // sub-score breakdown
	Reasoning   string             `json:"reasoning"`
	BookingType BookingType        `json:"booking_type"`
	TotalPrice  float64            `json:"total_price"`
	Confidence  Confidence         `json:"confidence"`
}

type RecommendationsPage struct {
	SearchID    string           `json:"search_id"`
	Preferences Preferences      `json:"preferences"`
	Items       []Recommendation `json:"items"`
}
