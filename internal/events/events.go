package events

import (
	"encoding/json"
	"sync"
	"time"

	"drfind/internal/models"
)

const (
	EventBookingCreated  = "booking_created"
	EventBookingRemoved  = "booking_removed"
	EventProfileUpdated  = "profile_updated"
	EventSearchCompleted = "search_completed"
	EventRouteBuilt      = "route_built"
)

// BookingEventPayload is the booking snapshot handed to event consumers.
type BookingEventPayload struct {
	BookingID string    `json:"booking_id"`
	PlaceID   string    `json:"place_id"`
	PlaceName string    `json:"place_name"`
	Date      time.Time `json:"date"`
	UserName  string    `json:"user_name,omitempty"`
	Note      string    `json:"note,omitempty"`
}

// NewBookingEventPayload copies the fields consumers care about.
func NewBookingEventPayload(b models.Booking) BookingEventPayload {
	return BookingEventPayload{
		BookingID: b.ID,
		PlaceID:   b.PlaceID,
		PlaceName: b.PlaceName,
		Date:      b.Date,
		UserName:  b.UserName,
		Note:      b.NoteText(),
	}
}

type ProfileEventPayload struct {
	Field string `json:"field"`
}

type SearchEventPayload struct {
	Query    string `json:"query"`
	Sequence uint64 `json:"sequence"`
	Results  int    `json:"results"`
}

type RouteEventPayload struct {
	From   models.Coordinate `json:"from"`
	To     models.Coordinate `json:"to"`
	Points int               `json:"points"`
}

// Event represents a lightweight domain event.
type Event struct {
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	any         []EventHandler
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// SubscribeAll registers a handler that sees every event type.
func (b *EventBus) SubscribeAll(handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.any = append(b.any, handler)
}

// Publish notifies subscribers of the event type. Handler errors are dropped.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	handlers = append(handlers, b.any...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	event, err := NewJSONEvent(eventType, payload)
	if err != nil {
		return err
	}

	b.Publish(&event)
	return nil
}

// NewJSONEvent builds an Event with JSON payload for manual publishing.
func NewJSONEvent(eventType string, payload interface{}) (Event, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}

	return Event{Type: eventType, Payload: raw, CreatedAt: time.Now()}, nil
}
