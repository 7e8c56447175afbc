package recommend

import (
	"errors"
	"math"
	"testing"

	"github.com/rs/zerolog"

	"tripstay/internal/domain"
)

func newTestEngine(t *testing.T, cfg Config) *Engine {
	t.Helper()
	e, err := NewEngine(cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func referenceHotel() domain.Hotel {
	return domain.Hotel{
		ID:                "h-1",
		Name:              "Galle Face Residence",
		BasePricePerNight: pfloat(100),
		StarRating:        pint(4),
		Amenities:         []string{"wifi", "pool"},
		AverageRating:     pfloat(4.5),
		ReviewCount:       60,
		AvailableRooms:    10,
		City:              "Colombo",
		Address:           "1 Galle Face, Colombo",
		RoomTypes: []domain.Room{
			{ID: "std", HotelID: "h-1", Name: "Standard", MaxOccupancy: 2, PricePerNight: 100},
		},
	}
}

func referencePrefs() domain.Preferences {
	return domain.Preferences{
		BudgetRange:         domain.BudgetRange{Min: 50, Max: 200},
		PreferredStarRating: []int{3, 4},
		PreferredAmenities:  []string{"wifi"},
		TravelStyle:         domain.StyleLeisure,
		GroupSize:           2,
		TripDuration:        3,
		LocationPreferences: []string{"Colombo"},
	}
}

func TestBreakdown_ReferenceScenario(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())

	score, scores, err := e.Breakdown(referenceHotel(), referencePrefs())
	if err != nil {
		t.Fatalf("Breakdown: %v", err)
	}
	for _, f := range []string{FactorPrice, FactorStarRating, FactorAmenities, FactorLocation, FactorAvailability} {
		if scores[f] != 1.0 {
			t.Fatalf("%s sub-score = %v, want 1.0", f, scores[f])
		}
	}
	if !approx(scores[FactorReviews], 0.875) {
		t.Fatalf("reviews sub-score = %v, want 0.875", scores[FactorReviews])
	}
	if score <= 0.95 {
		t.Fatalf("composite = %v, want > 0.95", score)
	}
	if got := ConfidenceFor(score); got != domain.ConfidenceHigh {
		t.Fatalf("confidence = %s, want high", got)
	}
}

func TestScore_SoldOutDropsByAvailabilityWeight(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())
	prefs := referencePrefs()

	full, err := e.Score(referenceHotel(), prefs)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	soldOut := referenceHotel()
	soldOut.AvailableRooms = 0
	reduced, err := e.Score(soldOut, prefs)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if !approx(full-reduced, DefaultWeights().Availability) {
		t.Fatalf("drop = %v, want %v", full-reduced, DefaultWeights().Availability)
	}
}

func TestScore_AlwaysInUnitInterval(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())
	prefs := referencePrefs()

	hotels := []domain.Hotel{
		{},
		referenceHotel(),
		{BasePricePerNight: pfloat(0), StarRating: pint(1), AvailableRooms: 1},
		{BasePricePerNight: pfloat(1e9), StarRating: pint(5), ReviewCount: 1000, AverageRating: pfloat(1)},
		{BasePricePerNight: pfloat(-10), AverageRating: pfloat(9), ReviewCount: 500, AvailableRooms: 500},
		{Amenities: []string{"spa"}, City: "Kandy", AvailableRooms: 1},
	}
	for i, h := range hotels {
		score, scores, err := e.Breakdown(h, prefs)
		if err != nil {
			t.Fatalf("hotel %d: %v", i, err)
		}
		if score < 0 || score > 1 || math.IsNaN(score) {
			t.Fatalf("hotel %d: composite %v out of [0,1]", i, score)
		}
		for name, s := range scores {
			if s < 0 || s > 1 {
				t.Fatalf("hotel %d: %s sub-score %v out of [0,1]", i, name, s)
			}
		}
	}
}

func TestConfidenceFor_Boundaries(t *testing.T) {
	tests := []struct {
		score float64
		want  domain.Confidence
	}{
		{0.0, domain.ConfidenceLow},
		{0.6, domain.ConfidenceLow},
		{0.6000001, domain.ConfidenceMedium},
		{0.8, domain.ConfidenceMedium},
		{0.8000001, domain.ConfidenceHigh},
		{1.0, domain.ConfidenceHigh},
	}
	for _, tt := range tests {
		if got := ConfidenceFor(tt.score); got != tt.want {
			t.Fatalf("ConfidenceFor(%v) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestRecommend_Bundling(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())
	prefs := referencePrefs()
	const nights = 3 // hotel-only = 300, ceiling = 360

	tests := []struct {
		name      string
		pkgs      []domain.TourPackage
		wantType  domain.BookingType
		wantTotal float64
		wantPkgID string
	}{
		{
			name:      "no packages",
			pkgs:      nil,
			wantType:  domain.BookingHotelOnly,
			wantTotal: 300,
		},
		{
			name:      "package without price",
			pkgs:      []domain.TourPackage{{ID: "p1", PackageName: "Tea Trails", DiscountPercentage: 30}},
			wantType:  domain.BookingHotelOnly,
			wantTotal: 300,
		},
		{
			name:      "package within ceiling",
			pkgs:      []domain.TourPackage{{ID: "p1", PackageName: "Tea Trails", PackagePrice: pfloat(340), DiscountPercentage: 10}},
			wantType:  domain.BookingPackage,
			wantTotal: 340,
			wantPkgID: "p1",
		},
		{
			name:      "package exactly at ceiling",
			pkgs:      []domain.TourPackage{{ID: "p1", PackageName: "Tea Trails", PackagePrice: pfloat(360), DiscountPercentage: 10}},
			wantType:  domain.BookingHotelOnly,
			wantTotal: 300,
		},
		{
			name: "highest discount wins even when its price is rejected",
			pkgs: []domain.TourPackage{
				{ID: "cheap", PackageName: "City Walk", PackagePrice: pfloat(200), DiscountPercentage: 5},
				{ID: "pricey", PackageName: "Safari", PackagePrice: pfloat(900), DiscountPercentage: 40},
			},
			wantType:  domain.BookingHotelOnly,
			wantTotal: 300,
		},
		{
			name: "best discount is chosen",
			pkgs: []domain.TourPackage{
				{ID: "a", PackageName: "City Walk", PackagePrice: pfloat(250), DiscountPercentage: 5},
				{ID: "b", PackageName: "Cultural Triangle", PackagePrice: pfloat(320), DiscountPercentage: 15},
			},
			wantType:  domain.BookingPackage,
			wantTotal: 320,
			wantPkgID: "b",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := e.Recommend(referenceHotel(), tt.pkgs, prefs, nights)
			if err != nil {
				t.Fatalf("Recommend: %v", err)
			}
			if rec.BookingType != tt.wantType {
				t.Fatalf("booking type = %s, want %s", rec.BookingType, tt.wantType)
			}
			if rec.TotalPrice != tt.wantTotal {
				t.Fatalf("total = %v, want %v", rec.TotalPrice, tt.wantTotal)
			}
			if tt.wantPkgID == "" && rec.Package != nil {
				t.Fatalf("unexpected package %+v", rec.Package)
			}
			if tt.wantPkgID != "" && (rec.Package == nil || rec.Package.ID != tt.wantPkgID) {
				t.Fatalf("package = %+v, want %s", rec.Package, tt.wantPkgID)
			}
		})
	}
}

func TestRecommend_UnknownPriceNeverBundles(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())
	h := referenceHotel()
	h.BasePricePerNight = nil
	pkgs := []domain.TourPackage{{ID: "p1", PackageName: "Tea Trails", PackagePrice: pfloat(0), DiscountPercentage: 50}}

	rec, err := e.Recommend(h, pkgs, referencePrefs(), 3)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if rec.BookingType != domain.BookingHotelOnly || rec.TotalPrice != 0 {
		t.Fatalf("got %s at %v, want hotel_only at 0", rec.BookingType, rec.TotalPrice)
	}
}

func TestRecommend_ReasoningIsDeterministic(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())
	pkgs := []domain.TourPackage{{ID: "b", PackageName: "Cultural Triangle", PackagePrice: pfloat(320), DiscountPercentage: 15}}

	first, err := e.Recommend(referenceHotel(), pkgs, referencePrefs(), 3)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	want := "This hotel is an excellent match for your preferences, great value within your budget, " +
		"has most of your preferred amenities, highly rated by previous guests, matches your preferred star rating." +
		" Book it with the Cultural Triangle package to save 15%."
	if first.Reasoning != want {
		t.Fatalf("reasoning:\n got %q\nwant %q", first.Reasoning, want)
	}
	for i := 0; i < 5; i++ {
		again, _ := e.Recommend(referenceHotel(), pkgs, referencePrefs(), 3)
		if again.Reasoning != first.Reasoning {
			t.Fatalf("reasoning changed between runs: %q vs %q", again.Reasoning, first.Reasoning)
		}
	}
}

func TestRecommend_Room(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())

	rec, err := e.Recommend(domain.Hotel{ID: "bare", AvailableRooms: 3}, nil, referencePrefs(), 2)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if rec.Room != nil {
		t.Fatalf("room = %+v, want nil for a hotel without rooms", rec.Room)
	}

	rec, err = e.Recommend(referenceHotel(), nil, referencePrefs(), 2)
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if rec.Room == nil || rec.Room.ID != "std" {
		t.Fatalf("room = %+v, want std", rec.Room)
	}
}

func TestRecommend_RequireRooms(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RequireRooms = true
	e := newTestEngine(t, cfg)

	_, err := e.Recommend(domain.Hotel{ID: "bare"}, nil, referencePrefs(), 2)
	if !errors.Is(err, ErrNoRooms) {
		t.Fatalf("err = %v, want ErrNoRooms", err)
	}
}

func TestRecommend_ContractViolations(t *testing.T) {
	e := newTestEngine(t, DefaultConfig())

	noGroup := referencePrefs()
	noGroup.GroupSize = 0
	noDuration := referencePrefs()
	noDuration.TripDuration = -1
	inverted := referencePrefs()
	inverted.BudgetRange = domain.BudgetRange{Min: 300, Max: 100}

	tests := []struct {
		name   string
		prefs  domain.Preferences
		nights int
	}{
		{"zero group", noGroup, 3},
		{"negative duration", noDuration, 3},
		{"inverted budget", inverted, 3},
		{"zero nights", referencePrefs(), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := e.Recommend(referenceHotel(), nil, tt.prefs, tt.nights); !errors.Is(err, ErrInvalidPreferences) {
				t.Fatalf("err = %v, want ErrInvalidPreferences", err)
			}
		})
	}

	if _, err := e.Score(referenceHotel(), noGroup); !errors.Is(err, ErrInvalidPreferences) {
		t.Fatalf("Score err = %v, want ErrInvalidPreferences", err)
	}
}
