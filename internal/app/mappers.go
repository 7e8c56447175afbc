package app

import (
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"tripstay/internal/domain"
)

/********** alias registries (single source of truth) **********/

var hotelAliases = map[string][]string{
	"id":        {"id", "hotel_id", "uuid"},
	"name":      {"name", "hotel_name", "title"},
	"city":      {"city.name", "city", "location.city", "address.city", "town"},
	"address":   {"address", "address.line", "full_address", "location.address", "street_address"},
	"price":     {"base_price_per_night", "price_per_night", "pricing.base", "price"},
	"stars":     {"star_rating", "stars", "rating.stars"},
	"avg":       {"average_rating", "rating.average", "avg_rating", "review_score"},
	"reviews":   {"review_count", "reviews_count", "rating.count", "total_reviews"},
	"available": {"available_rooms", "rooms_available", "availability.rooms"},
	"amenities": {"amenities", "facilities", "features"},
	"rooms":     {"room_types", "rooms"},
}

var roomAliases = map[string][]string{
	"id":        {"id", "room_id", "code"},
	"name":      {"name", "room_name", "type"},
	"occupancy": {"max_occupancy", "occupancy", "capacity", "max_guests"},
	"price":     {"price_per_night", "price", "rate"},
	"available": {"available_count", "available", "inventory"},
}

var packageAliases = map[string][]string{
	"id":       {"id", "package_id", "slug"},
	"hotel_id": {"hotel_id", "hotel.id", "property_id"},
	"name":     {"package_name", "name", "title"},
	"price":    {"package_price", "price", "pricing.total", "total_price"},
	"discount": {"discount_percentage", "discount", "discount_percent"},
}

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns the string at path, "" when absent. Integral numbers are
// rendered so numeric ids survive.
func lookupStr(m map[string]any, path string) string {
	switch v := lookupAny(m, path).(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
	}
	return ""
}

// firstAlias: first non-empty string for a named alias set.
func firstAlias(m map[string]any, aliases map[string][]string, key string) string {
	for _, p := range aliases[key] {
		if s := lookupStr(m, p); s != "" {
			return s
		}
	}
	return ""
}

// getFloatFlexible: number from several paths (float64/int/string like "8,0").
func getFloatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

// intFlexible rounds fractional values to the nearest integer, so 4.5 stars
// becomes 5 rather than 4.
func intFlexible(m map[string]any, paths ...string) (int, bool) {
	f := getFloatFlexible(m, paths...)
	if f == nil || math.IsNaN(*f) || math.IsInf(*f, 0) {
		return 0, false
	}
	n := math.Round(*f)
	if n != *f {
		log.Warn().Str("field", paths[0]).Float64("value", *f).Float64("rounded", n).Msg("non-integral value rounded")
	}
	return int(n), true
}

// firstSliceStrings: accept []any with either strings or {name/label}.
func firstSliceStrings(m map[string]any, paths ...string) []string {
	for _, k := range paths {
		if raw, ok := lookupAny(m, k).([]any); ok {
			out := make([]string, 0, len(raw))
			for _, it := range raw {
				switch t := it.(type) {
				case string:
					if s := strings.TrimSpace(t); s != "" {
						out = append(out, s)
					}
				case map[string]any:
					if n, ok := t["name"].(string); ok && n != "" {
						out = append(out, n)
						continue
					}
					if n, ok := t["label"].(string); ok && n != "" {
						out = append(out, n)
					}
				}
			}
			if len(out) > 0 {
				return out
			}
		}
	}
	return nil
}

func firstSliceMaps(m map[string]any, paths ...string) []map[string]any {
	for _, k := range paths {
		if raw, ok := lookupAny(m, k).([]any); ok {
			out := make([]map[string]any, 0, len(raw))
			for _, it := range raw {
				if obj, ok := it.(map[string]any); ok {
					out = append(out, obj)
				}
			}
			return out
		}
	}
	return nil
}

/********** hotel mapper **********/

// mapHotel converts an inventory document into a Hotel. fallbackID is used
// when the document carries no id of its own.
func mapHotel(fallbackID string, p map[string]any) domain.Hotel {
	id := firstAlias(p, hotelAliases, "id")
	if id == "" {
		id = fallbackID
	}

	raw, err := json.Marshal(p)
	if err != nil {
		log.Error().Err(err).
			Str("context", "mapHotel").
			Msg("failed to marshal hotel to JSON")
	}

	h := domain.Hotel{
		ID:                id,
		Name:              firstAlias(p, hotelAliases, "name"),
		BasePricePerNight: getFloatFlexible(p, hotelAliases["price"]...),
		AverageRating:     getFloatFlexible(p, hotelAliases["avg"]...),
		City:              firstAlias(p, hotelAliases, "city"),
		Address:           firstAlias(p, hotelAliases, "address"),
		Amenities:         firstSliceStrings(p, hotelAliases["amenities"]...),
		RawJSON:           raw,
	}
	if n, ok := intFlexible(p, hotelAliases["stars"]...); ok {
		h.StarRating = &n
	}
	if n, ok := intFlexible(p, hotelAliases["reviews"]...); ok && n > 0 {
		h.ReviewCount = n
	}

	// Rooms: per-type available_count sums into the hotel's availability when
	// the document has no explicit total.
	availSum, sawAvail := 0, false
	for i, r := range firstSliceMaps(p, hotelAliases["rooms"]...) {
		room := domain.Room{
			ID:      firstAlias(r, roomAliases, "id"),
			HotelID: id,
			Name:    firstAlias(r, roomAliases, "name"),
		}
		if room.ID == "" {
			room.ID = id + "-room-" + strconv.Itoa(i+1)
		}
		if n, ok := intFlexible(r, roomAliases["occupancy"]...); ok {
			room.MaxOccupancy = n
		}
		if f := getFloatFlexible(r, roomAliases["price"]...); f != nil {
			room.PricePerNight = *f
		}
		if room.MaxOccupancy <= 0 || room.PricePerNight < 0 {
			log.Warn().Str("hotel_id", id).Str("room_id", room.ID).Msg("skipping room with invalid occupancy or price")
			continue
		}
		if n, ok := intFlexible(r, roomAliases["available"]...); ok && n > 0 {
			availSum += n
			sawAvail = true
		}
		h.RoomTypes = append(h.RoomTypes, room)
	}

	if n, ok := intFlexible(p, hotelAliases["available"]...); ok && n > 0 {
		h.AvailableRooms = n
	} else if sawAvail {
		h.AvailableRooms = availSum
	}
	return h
}

/********** package mapper **********/

func mapPackages(hotelID string, in []map[string]any) []domain.TourPackage {
	out := make([]domain.TourPackage, 0, len(in))
	for _, p := range in {
		pkg := domain.TourPackage{
			ID:          firstAlias(p, packageAliases, "id"),
			HotelID:     firstAlias(p, packageAliases, "hotel_id"),
			PackageName: firstAlias(p, packageAliases, "name"),
		}
		if pkg.ID == "" {
			log.Warn().Str("hotel_id", hotelID).Msg("skipping package without id")
			continue
		}
		if pkg.HotelID == "" {
			pkg.HotelID = hotelID
		}
		if pkg.HotelID != hotelID {
			continue // listing endpoints may return other hotels' packages
		}
		if f := getFloatFlexible(p, packageAliases["price"]...); f != nil && *f >= 0 {
			pkg.PackagePrice = f
		}
		if f := getFloatFlexible(p, packageAliases["discount"]...); f != nil {
			pkg.DiscountPercentage = min(max(*f, 0), 100)
		}
		out = append(out, pkg)
	}
	return out
}
