package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"

	"tripstay/internal/domain"
)

const defaultListLimit = 200

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}
func valInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
func valJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) UpsertHotel(ctx context.Context, h domain.Hotel) error {
	amenities := h.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	amen, err := json.Marshal(amenities)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, upsertHotelSQL,
		h.ID,
		h.Name,
		valF64(h.BasePricePerNight),
		valInt(h.StarRating),
		string(amen),
		valF64(h.AverageRating),
		h.ReviewCount,
		h.AvailableRooms,
		valStr(h.City),
		valStr(h.Address),
		valJSON(h.RawJSON),
	)
	return err
}

// ReplaceRooms swaps the hotel's room set in one transaction so readers never
// see a half-written list. Rows keep their slice position for reads.
func (r *Repo) ReplaceRooms(ctx context.Context, hotelID string, rooms []domain.Room) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, deleteRoomsSQL, hotelID); err != nil {
		return err
	}
	if len(rooms) > 0 {
		values := make([]string, 0, len(rooms))
		args := make([]any, 0, len(rooms)*6)
		for i, rm := range rooms {
			values = append(values, "(?,?,?,?,?,?)")
			args = append(args, hotelID, rm.ID, i, rm.Name, rm.MaxOccupancy, rm.PricePerNight)
		}
		if _, err = tx.ExecContext(ctx, insertRoomsPrefix+strings.Join(values, ","), args...); err != nil {
			return fmt.Errorf("insert rooms for %s: %w", hotelID, err)
		}
	}
	return tx.Commit()
}

// ReplacePackages makes ps the hotel's whole package set; an empty ps clears it.
func (r *Repo) ReplacePackages(ctx context.Context, hotelID string, ps []domain.TourPackage) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, deletePackagesSQL, hotelID); err != nil {
		return err
	}
	if len(ps) > 0 {
		values := make([]string, 0, len(ps))
		args := make([]any, 0, len(ps)*5)
		for _, p := range ps {
			values = append(values, "(?,?,?,?,?)")
			args = append(args, p.ID, hotelID, p.PackageName, valF64(p.PackagePrice), p.DiscountPercentage)
		}
		// a package id that moved from another hotel is taken over, not duplicated
		if _, err = tx.ExecContext(ctx, insertPackagesPrefix+strings.Join(values, ",")+insertPackagesOnDup, args...); err != nil {
			return fmt.Errorf("insert packages for %s: %w", hotelID, err)
		}
	}
	return tx.Commit()
}

func (r *Repo) LogMiss(ctx context.Context, id string, status int, reason string) error {
	_, err := r.db.ExecContext(ctx, insertMissSQL, id, status, reason)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanHotel(s rowScanner) (domain.Hotel, error) {
	var h domain.Hotel
	var price, avg sql.NullFloat64
	var stars sql.NullInt64
	var city, addr sql.NullString
	var amenitiesJSON []byte
	if err := s.Scan(
		&h.ID,
		&h.Name,
		&price,
		&stars,
		&amenitiesJSON,
		&avg,
		&h.ReviewCount,
		&h.AvailableRooms,
		&city,
		&addr,
	); err != nil {
		return domain.Hotel{}, err
	}
	if price.Valid {
		f := price.Float64
		h.BasePricePerNight = &f
	}
	if stars.Valid {
		n := int(stars.Int64)
		h.StarRating = &n
	}
	if avg.Valid {
		f := avg.Float64
		h.AverageRating = &f
	}
	if len(amenitiesJSON) > 0 {
		if err := json.Unmarshal(amenitiesJSON, &h.Amenities); err != nil {
			return domain.Hotel{}, fmt.Errorf("amenities for %s: %w", h.ID, err)
		}
	}
	h.City = city.String
	h.Address = addr.String
	return h, nil
}

func (r *Repo) GetHotel(ctx context.Context, id string) (domain.Hotel, error) {
	h, err := scanHotel(r.db.QueryRowContext(ctx, getHotelSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Hotel{}, domain.ErrNotFound
		}
		return domain.Hotel{}, err
	}
	rooms, err := r.roomsFor(ctx, []string{h.ID})
	if err != nil {
		return domain.Hotel{}, err
	}
	h.RoomTypes = rooms[h.ID]
	return h, nil
}

func (r *Repo) ListHotels(ctx context.Context, q domain.HotelsQuery) ([]domain.Hotel, error) {
	var sb strings.Builder
	sb.WriteString(listHotelsSQL)
	var args []any
	if q.City != nil && strings.TrimSpace(*q.City) != "" {
		sb.WriteString(" AND LOWER(h.city) = LOWER(?)")
		args = append(args, strings.TrimSpace(*q.City))
	}
	if q.MinStars != nil {
		sb.WriteString(" AND h.star_rating >= ?")
		args = append(args, *q.MinStars)
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	sb.WriteString(" ORDER BY h.id LIMIT ?")
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Hotel
	for rows.Next() {
		h, err := scanHotel(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	ids := make([]string, len(out))
	for i := range out {
		ids[i] = out[i].ID
	}
	rooms, err := r.roomsFor(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].RoomTypes = rooms[out[i].ID]
	}
	return out, nil
}

// roomsFor loads the room types of several hotels in one round trip.
func (r *Repo) roomsFor(ctx context.Context, hotelIDs []string) (map[string][]domain.Room, error) {
	marks := strings.TrimSuffix(strings.Repeat("?,", len(hotelIDs)), ",")
	args := make([]any, len(hotelIDs))
	for i, id := range hotelIDs {
		args[i] = id
	}
	rows, err := r.db.QueryContext(ctx, roomsByHotelsPrefix+"("+marks+")"+roomsByHotelsOrder, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string][]domain.Room, len(hotelIDs))
	for rows.Next() {
		var rm domain.Room
		if err := rows.Scan(&rm.HotelID, &rm.ID, &rm.Name, &rm.MaxOccupancy, &rm.PricePerNight); err != nil {
			return nil, err
		}
		out[rm.HotelID] = append(out[rm.HotelID], rm)
	}
	return out, rows.Err()
}

func (r *Repo) ListPackages(ctx context.Context, hotelID string) ([]domain.TourPackage, error) {
	rows, err := r.db.QueryContext(ctx, listPackagesSQL, hotelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.TourPackage
	for rows.Next() {
		var p domain.TourPackage
		var price sql.NullFloat64
		if err := rows.Scan(&p.ID, &p.HotelID, &p.PackageName, &price, &p.DiscountPercentage); err != nil {
			return nil, err
		}
		if price.Valid {
			f := price.Float64
			p.PackagePrice = &f
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
