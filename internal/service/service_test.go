package service

import (
	"context"
	"sync"

	"drfind/internal/events"
	"drfind/internal/models"
	"drfind/internal/repository"
	"drfind/internal/store"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
)

type mockPlaces struct {
	mock.Mock
}

func (m *mockPlaces) Search(ctx context.Context, query string, region models.Region) ([]models.PlaceResult, error) {
	args := m.Called(ctx, query, region)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PlaceResult), args.Error(1)
}

type mockDirections struct {
	mock.Mock
}

func (m *mockDirections) Route(ctx context.Context, from, to models.Coordinate, mode string) (models.Polyline, error) {
	args := m.Called(ctx, from, to, mode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.Polyline), args.Error(1)
}

// eventLog collects event types published on a bus.
type eventLog struct {
	mu    sync.Mutex
	types []string
}

func newEventLog() (*events.EventBus, *eventLog) {
	bus := events.NewEventBus()
	log := &eventLog{}
	bus.SubscribeAll(func(e *events.Event) error {
		log.mu.Lock()
		defer log.mu.Unlock()
		log.types = append(log.types, e.Type)
		return nil
	})
	return bus, log
}

func (l *eventLog) all() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.types...)
}

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func newTestStores() (*store.BookingsStore, *store.RecentSearches, *repository.MemoryStore) {
	ctx := context.Background()
	kv := repository.NewMemoryStore()
	p := store.NewWriteThrough(kv, testLogger())
	return store.NewBookingsStore(ctx, kv, p, testLogger()),
		store.NewRecentSearches(ctx, kv, p, 0, testLogger()),
		kv
}

func strPtr(s string) *string { return &s }
