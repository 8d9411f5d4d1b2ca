package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestNewPlace(t *testing.T) {
	t.Run("FullResult", func(t *testing.T) {
		r := PlaceResult{
			Name:                    "Clinic X",
			AddressComponents:       []string{"12", "Main St", "", "Springfield"},
			Coordinate:              Coordinate{Latitude: 1.5, Longitude: -2.25},
			PhoneNumber:             strPtr("555-1234"),
			PointOfInterestCategory: strPtr("MKPOICategoryHospital"),
		}

		p := NewPlace(r)
		assert.Equal(t, "1.5,-2.25|Clinic X", p.ID)
		assert.Equal(t, "Clinic X", p.Name)
		assert.Equal(t, "12, Main St, Springfield", p.Subtitle)
		assert.Equal(t, "555-1234", *p.PhoneNumber)
		assert.Nil(t, p.Hours)
		assert.Equal(t, "MKPOICategoryHospital", p.CategoryText())
	})

	t.Run("MissingName", func(t *testing.T) {
		p := NewPlace(PlaceResult{Coordinate: Coordinate{Latitude: 3, Longitude: 4}})
		assert.Equal(t, UnknownPlaceName, p.Name)
		assert.Equal(t, "3,4|", p.ID)
		assert.Equal(t, "", p.Subtitle)
		assert.Equal(t, "", p.CategoryText())
	})

	t.Run("SameNameSameSpotCollides", func(t *testing.T) {
		c := Coordinate{Latitude: 10, Longitude: 20}
		a := NewPlace(PlaceResult{Name: "Dr. Smith", Coordinate: c, AddressComponents: []string{"Suite 1"}})
		b := NewPlace(PlaceResult{Name: "Dr. Smith", Coordinate: c, AddressComponents: []string{"Suite 2"}})
		assert.Equal(t, a.ID, b.ID)
	})
}

func TestRegionBounds(t *testing.T) {
	r := NewRegion(Coordinate{Latitude: 10, Longitude: 20}, SearchSpan)
	sw, ne := r.Bounds()
	assert.InDelta(t, 9.95, sw.Latitude, 1e-9)
	assert.InDelta(t, 19.95, sw.Longitude, 1e-9)
	assert.InDelta(t, 10.05, ne.Latitude, 1e-9)
	assert.InDelta(t, 20.05, ne.Longitude, 1e-9)
}

func TestBookingHelpers(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	b := Booking{Date: now}
	assert.True(t, b.IsUpcoming(now))
	assert.Equal(t, "", b.NoteText())

	b.Date = now.Add(-time.Minute)
	b.Note = strPtr("bring referral")
	assert.False(t, b.IsUpcoming(now))
	assert.Equal(t, "bring referral", b.NoteText())
}
