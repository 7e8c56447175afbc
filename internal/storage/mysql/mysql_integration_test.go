//go:build integration

package mysql_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"tripstay/internal/domain"
	mysqlrepo "tripstay/internal/storage/mysql"
)

// ---------- small helpers ----------
func pstr(s string) *string     { return &s }
func pint(i int) *int           { return &i }
func pfloat(f float64) *float64 { return &f }

func applyMigrations(t *testing.T, db *sql.DB) {
	t.Helper()
	dir := os.Getenv("MIGRATIONS_DIR")
	if dir == "" {
		dir = filepath.Join("..", "..", "..", "migrations")
	}

	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		t.Fatalf("MIGRATIONS_DIR=%s is not a directory or missing", dir)
	}

	ents, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read migrations dir: %v", err)
	}
	var files []string
	for _, e := range ents {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".sql" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	if len(files) == 0 {
		t.Fatalf("no .sql files in %s", dir)
	}
	sort.Strings(files)

	for _, f := range files {
		sqlBytes, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("read %s: %v", f, err)
		}
		if _, err := db.Exec(string(sqlBytes)); err != nil {
			t.Fatalf("exec %s: %v", f, err)
		}
	}
}

// ---------- the test ----------
func TestRepo_MySQL_UpsertAndQuery(t *testing.T) {
	// Start isolated MySQL; let Docker pick a free host port.
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}

	runOpts := &dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env: []string{
			"MYSQL_ROOT_PASSWORD=root",
			"MYSQL_DATABASE=tripstay",
		},
	}
	resource, err := pool.RunWithOptions(runOpts, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	hostPort := resource.GetPort("3306/tcp")
	dsn := fmt.Sprintf("root:%s@tcp(127.0.0.1:%s)/%s?parseTime=true&multiStatements=true&charset=utf8mb4,utf8&loc=UTC",
		"root", hostPort, "tripstay")

	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		db, e = sql.Open("mysql", dsn)
		if e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	applyMigrations(t, db)

	repo := mysqlrepo.New(db)
	ctx := context.Background()

	// Arrange
	h := domain.Hotel{
		ID:                "h-10001",
		Name:              "Ocean Breeze",
		BasePricePerNight: pfloat(150),
		StarRating:        pint(4),
		Amenities:         []string{"wifi", "pool"},
		AverageRating:     pfloat(4.5),
		ReviewCount:       120,
		AvailableRooms:    3,
		City:              "Colombo",
		Address:           "Galle Rd 1",
		RawJSON:           []byte(`{}`),
	}
	if err := repo.UpsertHotel(ctx, h); err != nil {
		t.Fatalf("UpsertHotel: %v", err)
	}
	rooms := []domain.Room{
		{ID: "r-1", Name: "Double", MaxOccupancy: 2, PricePerNight: 120},
		{ID: "r-2", Name: "Family", MaxOccupancy: 4, PricePerNight: 180},
	}
	if err := repo.ReplaceRooms(ctx, h.ID, rooms); err != nil {
		t.Fatalf("ReplaceRooms: %v", err)
	}
	// a second replace must not duplicate rows
	if err := repo.ReplaceRooms(ctx, h.ID, rooms[:1]); err != nil {
		t.Fatalf("ReplaceRooms (again): %v", err)
	}
	pkgs := []domain.TourPackage{
		{ID: "p-1", HotelID: h.ID, PackageName: "Cultural Triangle", PackagePrice: pfloat(340), DiscountPercentage: 15},
		{ID: "p-2", HotelID: h.ID, PackageName: "Price on request"},
	}
	if err := repo.ReplacePackages(ctx, h.ID, pkgs); err != nil {
		t.Fatalf("ReplacePackages: %v", err)
	}
	// a later sync that drops p-2 must remove it
	if err := repo.ReplacePackages(ctx, h.ID, pkgs[:1]); err != nil {
		t.Fatalf("ReplacePackages (again): %v", err)
	}
	if err := repo.LogMiss(ctx, "h-404", 404, "not found"); err != nil {
		t.Fatalf("LogMiss: %v", err)
	}

	// Assert
	got, err := repo.GetHotel(ctx, h.ID)
	if err != nil {
		t.Fatalf("GetHotel: %v", err)
	}
	if got.Name != "Ocean Breeze" || got.BasePricePerNight == nil || *got.BasePricePerNight != 150 {
		t.Fatalf("unexpected hotel: %+v", got)
	}
	if len(got.RoomTypes) != 1 || got.RoomTypes[0].ID != "r-1" {
		t.Fatalf("unexpected rooms: %+v", got.RoomTypes)
	}

	list, err := repo.ListHotels(ctx, domain.HotelsQuery{City: pstr("colombo"), MinStars: pint(4), Limit: 10})
	if err != nil {
		t.Fatalf("ListHotels: %v", err)
	}
	if len(list) != 1 || list[0].ID != h.ID {
		t.Fatalf("unexpected list: %+v", list)
	}

	ps, err := repo.ListPackages(ctx, h.ID)
	if err != nil {
		t.Fatalf("ListPackages: %v", err)
	}
	if len(ps) != 1 || ps[0].ID != "p-1" || ps[0].PackagePrice == nil {
		t.Fatalf("unexpected packages: %+v", ps)
	}

	// rooms come back in declared order, not price order
	declared := []domain.Room{
		{ID: "suite", Name: "Suite", MaxOccupancy: 4, PricePerNight: 300},
		{ID: "single", Name: "Single", MaxOccupancy: 1, PricePerNight: 80},
	}
	if err := repo.ReplaceRooms(ctx, h.ID, declared); err != nil {
		t.Fatalf("ReplaceRooms (declared order): %v", err)
	}
	got, err = repo.GetHotel(ctx, h.ID)
	if err != nil {
		t.Fatalf("GetHotel: %v", err)
	}
	if len(got.RoomTypes) != 2 || got.RoomTypes[0].ID != "suite" || got.RoomTypes[1].ID != "single" {
		t.Fatalf("rooms out of declared order: %+v", got.RoomTypes)
	}

	if _, err := repo.GetHotel(ctx, "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
