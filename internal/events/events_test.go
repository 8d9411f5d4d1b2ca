package events

import (
	"encoding/json"
	"testing"
	"time"

	"drfind/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus(t *testing.T) {
	bus := NewEventBus()

	var received *Event
	var callCount int

	bus.Subscribe(EventSearchCompleted, func(event *Event) error {
		received = event
		callCount++
		return nil
	})

	err := bus.PublishJSON(EventSearchCompleted, SearchEventPayload{Query: "Doctors", Sequence: 3, Results: 2})
	require.NoError(t, err)

	assert.Equal(t, 1, callCount)
	require.NotNil(t, received)
	assert.Equal(t, EventSearchCompleted, received.Type)
	assert.False(t, received.CreatedAt.IsZero())

	var decoded SearchEventPayload
	require.NoError(t, json.Unmarshal(received.Payload, &decoded))
	assert.Equal(t, "Doctors", decoded.Query)
	assert.Equal(t, uint64(3), decoded.Sequence)
}

func TestEventBusSubscribeAll(t *testing.T) {
	bus := NewEventBus()
	var typed, all []string

	bus.Subscribe(EventBookingCreated, func(e *Event) error { typed = append(typed, e.Type); return nil })
	bus.SubscribeAll(func(e *Event) error { all = append(all, e.Type); return nil })

	bus.Publish(&Event{Type: EventBookingCreated})
	bus.Publish(&Event{Type: EventBookingRemoved})

	assert.Equal(t, []string{EventBookingCreated}, typed)
	assert.Equal(t, []string{EventBookingCreated, EventBookingRemoved}, all)
}

func TestEventBusNoSubscribers(t *testing.T) {
	bus := NewEventBus()
	assert.NotPanics(t, func() { bus.Publish(&Event{Type: "unknown"}) })
	assert.NoError(t, bus.PublishJSON("unknown", nil))

	var nilBus *EventBus
	assert.NoError(t, nilBus.PublishJSON(EventBookingCreated, nil))
}

func TestPublishJSONMarshalError(t *testing.T) {
	bus := NewEventBus()
	err := bus.PublishJSON("bad", make(chan int))
	assert.Error(t, err)
}

func TestNewBookingEventPayload(t *testing.T) {
	note := "first visit"
	date := time.Date(2025, 3, 4, 9, 30, 0, 0, time.UTC)
	p := NewBookingEventPayload(models.Booking{
		ID: "b1", PlaceID: "p1", PlaceName: "Clinic X", Date: date, UserName: "Jane", Note: &note,
	})

	assert.Equal(t, "b1", p.BookingID)
	assert.Equal(t, "p1", p.PlaceID)
	assert.Equal(t, "Clinic X", p.PlaceName)
	assert.Equal(t, date, p.Date)
	assert.Equal(t, "first visit", p.Note)
}
