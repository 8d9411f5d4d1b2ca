package gateway

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"drfind/internal/config"
	"drfind/internal/models"

	"github.com/rs/zerolog"
)

// NominatimClient searches OpenStreetMap data through a Nominatim server.
type NominatimClient struct {
	*httpClient
	maxResults int
}

func NewNominatimClient(cfg config.GatewayConfig, logger *zerolog.Logger) (*NominatimClient, error) {
	base, err := newHTTPClient(cfg.SearchURL, cfg, logger)
	if err != nil {
		return nil, err
	}
	return &NominatimClient{httpClient: base, maxResults: cfg.MaxResults}, nil
}

type nominatimPlace struct {
	Name     string `json:"name"`
	Lat      string `json:"lat"`
	Lon      string `json:"lon"`
	Category string `json:"category"`
	Type     string `json:"type"`
	Address  struct {
		HouseNumber string `json:"house_number"`
		Road        string `json:"road"`
		City        string `json:"city"`
		Town        string `json:"town"`
		Village     string `json:"village"`
	} `json:"address"`
	ExtraTags map[string]string `json:"extratags"`
}

// Search runs a free-text search bounded to region.
func (c *NominatimClient) Search(ctx context.Context, query string, region models.Region) ([]models.PlaceResult, error) {
	sw, ne := region.Bounds()

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "jsonv2")
	params.Set("viewbox", fmt.Sprintf("%s,%s,%s,%s",
		formatCoord(sw.Longitude), formatCoord(sw.Latitude),
		formatCoord(ne.Longitude), formatCoord(ne.Latitude)))
	params.Set("bounded", "1")
	params.Set("addressdetails", "1")
	params.Set("extratags", "1")
	if c.maxResults > 0 {
		params.Set("limit", strconv.Itoa(c.maxResults))
	}

	var raw []nominatimPlace
	if err := c.getJSON(ctx, "/search", params, &raw); err != nil {
		return nil, fmt.Errorf("nominatim search: %w", err)
	}

	results := make([]models.PlaceResult, 0, len(raw))
	for _, p := range raw {
		r, err := p.toResult()
		if err != nil {
			c.logger.Debug().Err(err).Str("name", p.Name).Msg("Skipping place with bad coordinates")
			continue
		}
		results = append(results, r)
	}
	return results, nil
}

func (p nominatimPlace) toResult() (models.PlaceResult, error) {
	lat, err := strconv.ParseFloat(p.Lat, 64)
	if err != nil {
		return models.PlaceResult{}, fmt.Errorf("parse lat %q: %w", p.Lat, err)
	}
	lon, err := strconv.ParseFloat(p.Lon, 64)
	if err != nil {
		return models.PlaceResult{}, fmt.Errorf("parse lon %q: %w", p.Lon, err)
	}

	locality := p.Address.City
	if locality == "" {
		locality = p.Address.Town
	}
	if locality == "" {
		locality = p.Address.Village
	}

	r := models.PlaceResult{
		Name:              p.Name,
		AddressComponents: []string{p.Address.HouseNumber, p.Address.Road, locality},
		Coordinate:        models.Coordinate{Latitude: lat, Longitude: lon},
		PhoneNumber:       optional(p.ExtraTags["phone"]),
		Hours:             optional(p.ExtraTags["opening_hours"]),
	}
	if p.Category != "" {
		category := p.Category
		if p.Type != "" {
			category += ":" + p.Type
		}
		r.PointOfInterestCategory = &category
	}
	return r, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
