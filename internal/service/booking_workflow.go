package service

import (
	"context"
	"strings"
	"time"

	"drfind/internal/domain"
	"drfind/internal/events"
	"drfind/internal/metrics"
	"drfind/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// BookingWorkflow turns a chosen place and attendee details into a stored
// booking. It does not validate its input.
type BookingWorkflow struct {
	bookings domain.BookingRepository
	eventBus domain.EventPublisher
	logger   *zerolog.Logger
	newID    func() string
}

func NewBookingWorkflow(bookings domain.BookingRepository, eventBus domain.EventPublisher, logger *zerolog.Logger) *BookingWorkflow {
	return &BookingWorkflow{
		bookings: bookings,
		eventBus: eventBus,
		logger:   logger,
		newID:    uuid.NewString,
	}
}

// Submit creates a booking for place and adds it to the front of the list.
// Double-booking the same place and time is allowed.
func (w *BookingWorkflow) Submit(ctx context.Context, place models.Place, date time.Time, userName, userContact string, note *string) models.Booking {
	booking := models.Booking{
		ID:          w.newID(),
		PlaceID:     place.ID,
		PlaceName:   place.Name,
		Date:        date,
		UserName:    userName,
		UserContact: userContact,
		Note:        note,
	}

	w.bookings.Add(ctx, booking)
	metrics.IncBookingCreated()

	w.logger.Info().
		Str("booking_id", booking.ID).
		Str("place_id", booking.PlaceID).
		Time("date", booking.Date).
		Msg("Booking created")

	w.publishEvent(events.EventBookingCreated, booking)
	return booking
}

// Cancel removes the booking and reports whether it existed.
func (w *BookingWorkflow) Cancel(ctx context.Context, id string) bool {
	booking, ok := w.bookings.Get(id)
	if !ok {
		return false
	}

	w.bookings.RemoveByID(ctx, id)
	w.publishEvent(events.EventBookingRemoved, booking)
	return true
}

func (w *BookingWorkflow) publishEvent(eventType string, booking models.Booking) {
	if w.eventBus == nil {
		return
	}
	if err := w.eventBus.PublishJSON(eventType, events.NewBookingEventPayload(booking)); err != nil {
		w.logger.Error().Err(err).Str("event_type", eventType).Str("booking_id", booking.ID).Msg("publish event error")
	}
}

// ResolveAttendee picks the name and contact for a booking form. Booking for
// oneself uses the profile, with "Me" standing in for an empty name. Booking
// for someone else needs both fields; ok is false when either is blank.
func ResolveAttendee(profile models.Profile, forSelf bool, otherName, otherContact string) (name, contact string, ok bool) {
	if forSelf {
		name = profile.FullName
		if name == "" {
			name = models.AttendeeSelfName
		}
		return name, profile.Contact, true
	}

	if strings.TrimSpace(otherName) == "" || strings.TrimSpace(otherContact) == "" {
		return otherName, otherContact, false
	}
	return otherName, otherContact, true
}
