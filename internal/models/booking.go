package models

import "time"

// Booking is an appointment record. Place fields are a snapshot taken at
// booking time and do not follow later changes of the place.
type Booking struct {
	ID          string    `json:"id"`
	PlaceID     string    `json:"placeId"`
	PlaceName   string    `json:"placeName"`
	Date        time.Time `json:"date"`
	UserName    string    `json:"userName"`
	UserContact string    `json:"userContact"`
	Note        *string   `json:"note,omitempty"`
}

// IsUpcoming reports whether the appointment is scheduled at or after now.
func (b Booking) IsUpcoming(now time.Time) bool {
	return !b.Date.Before(now)
}

// NoteText returns the note or an empty string.
func (b Booking) NoteText() string {
	if b.Note == nil {
		return ""
	}
	return *b.Note
}

type Profile struct {
	FullName string `json:"fullName"`
	Contact  string `json:"contact"`
}
