package models

import (
	"fmt"
	"strings"
)

type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Region is a map rectangle centered on Center.
type Region struct {
	Center  Coordinate `json:"center"`
	SpanLat float64    `json:"spanLat"`
	SpanLon float64    `json:"spanLon"`
}

// NewRegion builds a region with the same span in both directions.
func NewRegion(center Coordinate, span float64) Region {
	return Region{Center: center, SpanLat: span, SpanLon: span}
}

// Bounds returns the south-west and north-east corners.
func (r Region) Bounds() (Coordinate, Coordinate) {
	sw := Coordinate{Latitude: r.Center.Latitude - r.SpanLat/2, Longitude: r.Center.Longitude - r.SpanLon/2}
	ne := Coordinate{Latitude: r.Center.Latitude + r.SpanLat/2, Longitude: r.Center.Longitude + r.SpanLon/2}
	return sw, ne
}

type Polyline []Coordinate

// PlaceResult is a raw local-search hit as returned by a search gateway.
type PlaceResult struct {
	Name                    string     `json:"name"`
	AddressComponents       []string   `json:"addressComponents"`
	Coordinate              Coordinate `json:"coordinate"`
	PhoneNumber             *string    `json:"phoneNumber,omitempty"`
	Hours                   *string    `json:"hours,omitempty"`
	PointOfInterestCategory *string    `json:"pointOfInterestCategory,omitempty"`
}

// Place is a transient provider location rebuilt from every search response.
type Place struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Subtitle    string     `json:"subtitle"`
	Coordinate  Coordinate `json:"coordinate"`
	PhoneNumber *string    `json:"phoneNumber,omitempty"`
	Hours       *string    `json:"hours,omitempty"`
	Category    *string    `json:"category,omitempty"`
}

// NewPlace converts a search hit. The id is derived from coordinate and
// name, so two providers with the same name at the same spot share an id.
func NewPlace(r PlaceResult) Place {
	name := r.Name
	if name == "" {
		name = UnknownPlaceName
	}

	parts := make([]string, 0, len(r.AddressComponents))
	for _, c := range r.AddressComponents {
		if c = strings.TrimSpace(c); c != "" {
			parts = append(parts, c)
		}
	}

	return Place{
		ID:          PlaceID(r.Coordinate, r.Name),
		Name:        name,
		Subtitle:    strings.Join(parts, ", "),
		Coordinate:  r.Coordinate,
		PhoneNumber: r.PhoneNumber,
		Hours:       r.Hours,
		Category:    r.PointOfInterestCategory,
	}
}

// PlaceID formats the "lat,lon|name" identifier.
func PlaceID(c Coordinate, name string) string {
	return fmt.Sprintf("%v,%v|%s", c.Latitude, c.Longitude, name)
}

// CategoryText returns the category or an empty string.
func (p Place) CategoryText() string {
	if p.Category == nil {
		return ""
	}
	return *p.Category
}
