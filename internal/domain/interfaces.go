package domain

import (
	"context"

	"drfind/internal/models"
)

// KVStore is the durable key-value storage the stores persist through.
type KVStore interface {
	// Get returns false when the key has never been written.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

type PlaceSearchGateway interface {
	Search(ctx context.Context, query string, region models.Region) ([]models.PlaceResult, error)
}

type DirectionsGateway interface {
	Route(ctx context.Context, from, to models.Coordinate, mode string) (models.Polyline, error)
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

type BookingRepository interface {
	Add(ctx context.Context, booking models.Booking)
	RemoveByID(ctx context.Context, id string)
	Get(id string) (models.Booking, bool)
	List() []models.Booking
}

type RecentSearchRepository interface {
	Record(ctx context.Context, term string)
	Remove(ctx context.Context, term string)
	List() []string
}
