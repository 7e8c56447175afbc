package recommend

import (
	"testing"

	"tripstay/internal/domain"
)

func TestSelectRoom(t *testing.T) {
	rooms := []domain.Room{
		{ID: "suite", MaxOccupancy: 4, PricePerNight: 850},
		{ID: "family", MaxOccupancy: 4, PricePerNight: 180},
		{ID: "double", MaxOccupancy: 2, PricePerNight: 90},
		{ID: "single", MaxOccupancy: 1, PricePerNight: 40},
	}

	tests := []struct {
		name   string
		rooms  []domain.Room
		group  int
		budget domain.BudgetRange
		want   string
	}{
		{"cheapest fitting room in budget", rooms, 2, domain.BudgetRange{Min: 50, Max: 200}, "double"},
		{"skips cheaper room below budget", rooms, 1, domain.BudgetRange{Min: 50, Max: 200}, "double"},
		{"large group capped at four", rooms, 9, domain.BudgetRange{Min: 50, Max: 200}, "family"},
		{"nothing in budget takes cheapest fit", rooms, 3, domain.BudgetRange{Min: 10, Max: 20}, "family"},
		{"nothing fits falls back to first room", rooms[2:], 3, domain.BudgetRange{Min: 50, Max: 200}, "double"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := domain.Preferences{GroupSize: tt.group, BudgetRange: tt.budget}
			got := selectRoom(domain.Hotel{RoomTypes: tt.rooms}, p)
			if got == nil || got.ID != tt.want {
				t.Fatalf("selectRoom = %+v, want %s", got, tt.want)
			}
		})
	}

	if got := selectRoom(domain.Hotel{}, domain.Preferences{GroupSize: 2}); got != nil {
		t.Fatalf("no rooms: got %+v, want nil", got)
	}
}

func TestSelectRoom_DoesNotReorderHotelRooms(t *testing.T) {
	h := domain.Hotel{RoomTypes: []domain.Room{
		{ID: "b", MaxOccupancy: 2, PricePerNight: 200},
		{ID: "a", MaxOccupancy: 2, PricePerNight: 100},
	}}
	_ = selectRoom(h, domain.Preferences{GroupSize: 2, BudgetRange: domain.BudgetRange{Min: 0, Max: 500}})
	if h.RoomTypes[0].ID != "b" {
		t.Fatalf("room order mutated: %+v", h.RoomTypes)
	}
}

func TestSelectPackage(t *testing.T) {
	if got := selectPackage(nil, 0.9); got != nil {
		t.Fatalf("empty list: got %+v, want nil", got)
	}

	pkgs := []domain.TourPackage{
		{ID: "first", DiscountPercentage: 10},
		{ID: "second", DiscountPercentage: 25},
		{ID: "tie", DiscountPercentage: 25},
	}
	got := selectPackage(pkgs, 0.7)
	if got == nil || got.ID != "second" {
		t.Fatalf("selectPackage = %+v, want second", got)
	}
	if s := packageScore(0.5, pkgs[1]); !approx(s, 0.45) {
		t.Fatalf("packageScore = %v, want 0.45", s)
	}
}

func TestReasoning_Openings(t *testing.T) {
	h := domain.Hotel{}
	p := domain.Preferences{}
	tests := []struct {
		score float64
		want  string
	}{
		{0.9, "This hotel is an excellent match for your preferences."},
		{0.7, "This hotel is a good match for your preferences."},
		{0.6, "This hotel meets your basic requirements."},
	}
	for _, tt := range tests {
		if got := reasoning(h, p, tt.score, map[string]float64{}, nil); got != tt.want {
			t.Fatalf("reasoning(%v) = %q, want %q", tt.score, got, tt.want)
		}
	}
}
