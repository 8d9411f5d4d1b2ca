package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"drfind/internal/config"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

var (
	ErrUnexpectedStatus = errors.New("unexpected status code")
	ErrNoRoute          = errors.New("no route found")
)

// maxErrorBody limits how much of an error response ends up in logs.
const maxErrorBody = 512

// httpClient holds what both map service adapters share: a base URL,
// a polite User-Agent and a client-side rate limit.
type httpClient struct {
	baseURL   *url.URL
	userAgent string
	client    *http.Client
	limiter   *rate.Limiter
	logger    *zerolog.Logger
}

func newHTTPClient(rawURL string, cfg config.GatewayConfig, logger *zerolog.Logger) (*httpClient, error) {
	base, err := url.Parse(strings.TrimRight(rawURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", rawURL, err)
	}

	limit := rate.Inf
	if cfg.RateLimitRPS > 0 {
		limit = rate.Limit(cfg.RateLimitRPS)
	}

	return &httpClient{
		baseURL:   base,
		userAgent: cfg.UserAgent,
		client:    &http.Client{Timeout: cfg.Timeout},
		limiter:   rate.NewLimiter(limit, 1),
		logger:    logger,
	}, nil
}

// getJSON waits for the limiter, performs a GET and decodes the response into
// out. Statuses other than 200 fail unless listed in decodeStatus.
func (c *httpClient) getJSON(ctx context.Context, path string, query url.Values, out interface{}, decodeStatus ...int) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	u := *c.baseURL
	u.Path = u.Path + path
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", u.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && !slices.Contains(decodeStatus, resp.StatusCode) {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Debug().
			Int("status", resp.StatusCode).
			Str("path", u.Path).
			Str("body", string(body)).
			Msg("Map service returned an error")
		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
