package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"drfind/internal/domain"
	"drfind/internal/metrics"
	"drfind/internal/models"

	"github.com/rs/zerolog"
)

// BookingsStore keeps bookings most recent first and persists the whole list
// as one JSON array on every change.
type BookingsStore struct {
	mu        sync.RWMutex
	items     []models.Booking
	persister Persister
	logger    *zerolog.Logger
}

// NewBookingsStore loads the persisted list once. Missing data starts empty;
// unreadable or corrupt data also starts empty and is logged.
func NewBookingsStore(ctx context.Context, kv domain.KVStore, persister Persister, logger *zerolog.Logger) *BookingsStore {
	s := &BookingsStore{
		persister: persister,
		logger:    logger,
	}

	data, ok := load(ctx, kv, models.KeyBookings, logger)
	if !ok {
		return s
	}
	items, err := DecodeBookings(data)
	if err != nil {
		metrics.IncLoadFailure(models.KeyBookings)
		logger.Warn().Err(err).Int("bytes", len(data)).Msg("Corrupt bookings data, starting empty")
		return s
	}
	s.items = items
	logger.Debug().Int("count", len(items)).Msg("Bookings loaded")
	return s
}

// EncodeBookings serializes a booking list in storage format.
func EncodeBookings(items []models.Booking) ([]byte, error) {
	if items == nil {
		items = []models.Booking{}
	}
	return json.Marshal(items)
}

// DecodeBookings parses the storage format.
func DecodeBookings(data []byte) ([]models.Booking, error) {
	var items []models.Booking
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Add inserts the booking at the front.
func (s *BookingsStore) Add(ctx context.Context, booking models.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = append([]models.Booking{booking}, s.items...)
	s.persistLocked(ctx)
}

// RemoveByID removes the booking with that id, if any.
func (s *BookingsStore) RemoveByID(ctx context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, b := range s.items {
		if b.ID == id {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			s.persistLocked(ctx)
			return
		}
	}
}

// RemoveAt removes the bookings at the given positions of the current list.
// Out-of-range and repeated positions are ignored.
func (s *BookingsStore) RemoveAt(ctx context.Context, indices []int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	drop := make(map[int]struct{}, len(indices))
	for _, i := range indices {
		if i >= 0 && i < len(s.items) {
			drop[i] = struct{}{}
		}
	}
	if len(drop) == 0 {
		return
	}

	kept := make([]models.Booking, 0, len(s.items)-len(drop))
	for i, b := range s.items {
		if _, ok := drop[i]; !ok {
			kept = append(kept, b)
		}
	}
	s.items = kept
	s.persistLocked(ctx)
}

// List returns a copy of all bookings, most recent first.
func (s *BookingsStore) List() []models.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Booking(nil), s.items...)
}

func (s *BookingsStore) Get(id string) (models.Booking, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.items {
		if b.ID == id {
			return b, true
		}
	}
	return models.Booking{}, false
}

func (s *BookingsStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Upcoming returns bookings dated at or after now, in list order.
func (s *BookingsStore) Upcoming(now time.Time) []models.Booking {
	return s.filter(func(b models.Booking) bool { return b.IsUpcoming(now) })
}

// Past returns bookings dated before now, in list order.
func (s *BookingsStore) Past(now time.Time) []models.Booking {
	return s.filter(func(b models.Booking) bool { return !b.IsUpcoming(now) })
}

func (s *BookingsStore) filter(keep func(models.Booking) bool) []models.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Booking
	for _, b := range s.items {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}

func (s *BookingsStore) persistLocked(ctx context.Context) {
	snapshot := append([]models.Booking(nil), s.items...)
	s.persister.Persist(ctx, models.KeyBookings, func() ([]byte, error) {
		return EncodeBookings(snapshot)
	})
}
