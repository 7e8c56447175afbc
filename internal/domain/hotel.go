package domain

type Hotel struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	BasePricePerNight *float64 `json:"base_price_per_night,omitempty"` // nil = unknown
	StarRating        *int     `json:"star_rating,omitempty"`
	Amenities         []string `json:"amenities,omitempty"`
	AverageRating     *float64 `json:"average_rating,omitempty"` // 1..5
	ReviewCount       int      `json:"review_count"`
	AvailableRooms    int      `json:"available_rooms"`
	City              string   `json:"city,omitempty"`
	Address           string   `json:"address,omitempty"`
	RoomTypes         []Room   `json:"room_types,omitempty"`
	RawJSON           []byte   `json:"-"` // full inventory document
}

type Room struct {
	ID            string  `json:"id"`
	HotelID       string  `json:"hotel_id"`
	Name          string  `json:"name,omitempty"`
	MaxOccupancy  int     `json:"max_occupancy"`
	PricePerNight float64 `json:"price_per_night"`
}

type TourPackage struct {
	ID                 string   `json:"id"`
	HotelID            string   `json:"hotel_id"`
	PackageName        string   `json:"package_name"`
	PackagePrice       *float64 `json:"package_price,omitempty"` // nil = no package price
	DiscountPercentage float64  `json:"discount_percentage"`     // 0..100
}
