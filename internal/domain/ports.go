package domain

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

type HotelRepository interface {
	// Write paths
	UpsertHotel(ctx context.Context, h Hotel) error
	ReplaceRooms(ctx context.Context, hotelID string, rooms []Room) error
	// ReplacePackages makes ps the hotel's complete package set.
	ReplacePackages(ctx context.Context, hotelID string, ps []TourPackage) error
	LogMiss(ctx context.Context, id string, status int, reason string) error

	// Read paths
	GetHotel(ctx context.Context, id string) (Hotel, error)
	ListHotels(ctx context.Context, q HotelsQuery) ([]Hotel, error)
	ListPackages(ctx context.Context, hotelID string) ([]TourPackage, error)
}

type InventoryClient interface {
	ListHotelIDs(ctx context.Context) ([]string, error)
	GetHotel(ctx context.Context, id string) (map[string]any, error)
	GetPackages(ctx context.Context, hotelID string) ([]map[string]any, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// HotelsQuery selects the candidate set handed to the engine.
type HotelsQuery struct {
	City     *string
	MinStars *int
	Limit    int
}
