package httpserver

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"tripstay/internal/app"
	"tripstay/internal/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type budgetDTO struct {
	Min float64 `json:"min" validate:"gte=0"`
	Max float64 `json:"max" validate:"gtefield=Min"`
}

type preferencesDTO struct {
	BudgetRange         budgetDTO `json:"budget_range"`
	PreferredStarRating []int     `json:"preferred_star_rating" validate:"max=5,dive,min=1,max=5"`
	PreferredAmenities  []string  `json:"preferred_amenities" validate:"max=50,dive,max=64"`
	TravelStyle         string    `json:"travel_style" validate:"omitempty,oneof=family business leisure adventure"`
	GroupSize           int       `json:"group_size" validate:"required,min=1,max=50"`
	TripDuration        int       `json:"trip_duration" validate:"omitempty,min=1,max=60"`
	LocationPreferences []string  `json:"location_preferences" validate:"max=20,dive,max=128"`
}

func (p preferencesDTO) toDomain() domain.Preferences {
	return domain.Preferences{
		BudgetRange:         domain.BudgetRange{Min: p.BudgetRange.Min, Max: p.BudgetRange.Max},
		PreferredStarRating: p.PreferredStarRating,
		PreferredAmenities:  p.PreferredAmenities,
		TravelStyle:         domain.TravelStyle(p.TravelStyle),
		GroupSize:           p.GroupSize,
		TripDuration:        p.TripDuration,
		LocationPreferences: p.LocationPreferences,
	}
}

type guestsDTO struct {
	Adults   int `json:"adults" validate:"min=0,max=50"`
	Children int `json:"children" validate:"min=0,max=50"`
}

const (
	dateLayout = "2006-01-02"
	maxNights  = 60
)

type recommendRequestDTO struct {
	Preferences *preferencesDTO `json:"preferences"`
	Guests      guestsDTO       `json:"guests"`
	Nights      int             `json:"nights" validate:"excluded_with=CheckIn,min=0,max=60"`
	CheckIn     string          `json:"check_in" validate:"omitempty,datetime=2006-01-02"`
	CheckOut    string          `json:"check_out" validate:"omitempty,datetime=2006-01-02"`
	City        string          `json:"city" validate:"max=128"`
	MinStars    *int            `json:"min_stars" validate:"omitempty,min=1,max=5"`
	Limit       int             `json:"limit" validate:"min=0,max=50"`
	SortBy      string          `json:"sort_by" validate:"omitempty,oneof=recommended price_low price_high rating popularity"`
}

func (d recommendRequestDTO) check() error {
	if err := validate.Struct(d); err != nil {
		return err
	}
	if d.Preferences == nil && d.Guests.Adults+d.Guests.Children <= 0 {
		return errors.New("either preferences or at least one guest is required")
	}
	if (d.CheckIn == "") != (d.CheckOut == "") {
		return errors.New("check_in and check_out must be given together")
	}
	if d.CheckIn != "" {
		in, out, err := d.stay()
		if err != nil {
			return err
		}
		if !out.After(in) {
			return errors.New("check_out must be after check_in")
		}
		if out.Sub(in) > maxNights*24*time.Hour {
			return fmt.Errorf("stay longer than %d nights", maxNights)
		}
	}
	return nil
}

func (d recommendRequestDTO) stay() (time.Time, time.Time, error) {
	in, err := time.Parse(dateLayout, d.CheckIn)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("check_in: %w", err)
	}
	out, err := time.Parse(dateLayout, d.CheckOut)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("check_out: %w", err)
	}
	return in, out, nil
}

// toRequest assumes check has passed.
func (d recommendRequestDTO) toRequest() app.RecommendRequest {
	req := app.RecommendRequest{
		Guests:   domain.Guests{Adults: d.Guests.Adults, Children: d.Guests.Children},
		Nights:   d.Nights,
		City:     d.City,
		MinStars: d.MinStars,
		Limit:    d.Limit,
		SortBy:   app.SortOrder(d.SortBy),
	}
	if d.CheckIn != "" {
		req.CheckIn, req.CheckOut, _ = d.stay()
	}
	if d.Preferences != nil {
		p := d.Preferences.toDomain()
		req.Preferences = &p
	}
	return req
}

// describeValidation flattens validator errors into "field: rule" pairs.
func describeValidation(err error) string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err.Error()
	}
	parts := make([]string, 0, len(ve))
	for _, fe := range ve {
		rule := fe.Tag()
		if fe.Param() != "" {
			rule += "=" + fe.Param()
		}
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Namespace(), rule))
	}
	return strings.Join(parts, "; ")
}
