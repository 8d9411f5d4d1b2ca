package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"drfind/internal/config"
	"drfind/internal/models"

	"github.com/rs/zerolog"
)

// OSRMClient asks an OSRM server for routes.
type OSRMClient struct {
	*httpClient
}

func NewOSRMClient(cfg config.GatewayConfig, logger *zerolog.Logger) (*OSRMClient, error) {
	base, err := newHTTPClient(cfg.DirectionsURL, cfg, logger)
	if err != nil {
		return nil, err
	}
	return &OSRMClient{httpClient: base}, nil
}

type osrmResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry struct {
			// [lon, lat] pairs
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

// Route returns the first route's geometry. mode is the OSRM profile;
// empty means driving.
func (c *OSRMClient) Route(ctx context.Context, from, to models.Coordinate, mode string) (models.Polyline, error) {
	if mode == "" {
		mode = models.TransportDriving
	}

	path := fmt.Sprintf("/route/v1/%s/%s,%s;%s,%s",
		mode,
		formatCoord(from.Longitude), formatCoord(from.Latitude),
		formatCoord(to.Longitude), formatCoord(to.Latitude))

	params := url.Values{}
	params.Set("geometries", "geojson")
	params.Set("overview", "full")

	var resp osrmResponse
	// OSRM reports NoRoute and similar as 400 with a JSON body
	if err := c.getJSON(ctx, path, params, &resp, http.StatusBadRequest); err != nil {
		return nil, fmt.Errorf("osrm route: %w", err)
	}

	if resp.Code != "Ok" || len(resp.Routes) == 0 {
		return nil, fmt.Errorf("%w: %s %s", ErrNoRoute, resp.Code, resp.Message)
	}

	coords := resp.Routes[0].Geometry.Coordinates
	line := make(models.Polyline, 0, len(coords))
	for _, pt := range coords {
		if len(pt) < 2 {
			continue
		}
		line = append(line, models.Coordinate{Latitude: pt[1], Longitude: pt[0]})
	}

	c.logger.Debug().
		Int("points", len(line)).
		Float64("distance_m", resp.Routes[0].Distance).
		Msg("Route received")
	return line, nil
}
