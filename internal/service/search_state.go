package service

import (
	"context"
	"sync"

	"drfind/internal/domain"
	"drfind/internal/events"
	"drfind/internal/metrics"
	"drfind/internal/models"

	"github.com/rs/zerolog"
)

// SearchViewState is the state behind the map screen: query, specialty,
// results, selection, visible region and route.
//
// Searches and route requests carry a sequence number. A response is applied
// only if no newer request was issued while it was in flight.
type SearchViewState struct {
	places     domain.PlaceSearchGateway
	directions domain.DirectionsGateway
	recent     domain.RecentSearchRepository
	eventBus   domain.EventPublisher
	logger     *zerolog.Logger

	mu        sync.RWMutex
	query     string
	specialty string
	results   []models.Place
	selected  *models.Place
	region    models.Region
	route     models.Polyline
	hasRoute  bool
	searchSeq uint64
	routeSeq  uint64
}

func NewSearchViewState(
	places domain.PlaceSearchGateway,
	directions domain.DirectionsGateway,
	recent domain.RecentSearchRepository,
	eventBus domain.EventPublisher,
	logger *zerolog.Logger,
) *SearchViewState {
	return &SearchViewState{
		places:     places,
		directions: directions,
		recent:     recent,
		eventBus:   eventBus,
		logger:     logger,
		specialty:  models.SpecialtyAll,
		region:     models.NewRegion(models.Coordinate{}, models.DisplaySpan),
	}
}

// Search looks for providers around origin and returns the places of this
// response. Without an origin nothing happens. Gateway errors clear the
// results and are only logged.
func (s *SearchViewState) Search(ctx context.Context, query, specialty string, origin *models.Coordinate) []models.Place {
	if origin == nil {
		s.logger.Debug().Msg("Search skipped: no location")
		return nil
	}

	composed := ComposeQuery(query, specialty)

	s.mu.Lock()
	s.query = query
	s.specialty = specialty
	s.searchSeq++
	seq := s.searchSeq
	region := models.NewRegion(*origin, models.SearchSpan)
	s.mu.Unlock()

	hits, err := s.places.Search(ctx, composed, region)

	s.mu.Lock()
	if seq != s.searchSeq {
		s.mu.Unlock()
		metrics.IncSearch(metrics.OutcomeStale)
		s.logger.Debug().Uint64("seq", seq).Str("query", composed).Msg("Discarding stale search response")
		if err != nil {
			return nil
		}
		return toPlaces(hits)
	}

	if err != nil {
		s.results = []models.Place{}
		s.mu.Unlock()
		metrics.IncSearch(metrics.OutcomeError)
		s.logger.Warn().Err(err).Str("query", composed).Msg("Search failed")
		return nil
	}

	places := toPlaces(hits)
	s.results = places
	s.mu.Unlock()

	metrics.IncSearch(metrics.OutcomeOK)
	s.recent.Record(ctx, composed)
	s.publish(events.EventSearchCompleted, events.SearchEventPayload{
		Query:    composed,
		Sequence: seq,
		Results:  len(places),
	})

	return append([]models.Place(nil), places...)
}

// SearchAt runs Search with the current query and specialty.
func (s *SearchViewState) SearchAt(ctx context.Context, origin *models.Coordinate) []models.Place {
	s.mu.RLock()
	query, specialty := s.query, s.specialty
	s.mu.RUnlock()
	return s.Search(ctx, query, specialty, origin)
}

func (s *SearchViewState) RecordRecentSearch(ctx context.Context, term string) {
	s.recent.Record(ctx, term)
}

func (s *SearchViewState) RemoveRecentSearch(ctx context.Context, term string) {
	s.recent.Remove(ctx, term)
}

func (s *SearchViewState) RecentSearches() []string {
	return s.recent.List()
}

// BuildRoute asks for a driving route. A failed or superseded request leaves
// the current route as it was.
func (s *SearchViewState) BuildRoute(ctx context.Context, from, to *models.Coordinate) (models.Polyline, bool) {
	if from == nil || to == nil {
		return nil, false
	}

	s.mu.Lock()
	s.routeSeq++
	seq := s.routeSeq
	s.mu.Unlock()

	line, err := s.directions.Route(ctx, *from, *to, models.TransportDriving)
	if err != nil {
		metrics.IncRoute(metrics.OutcomeError)
		s.logger.Warn().Err(err).Msg("Route calculation failed")
		return nil, false
	}

	s.mu.Lock()
	if seq != s.routeSeq {
		s.mu.Unlock()
		metrics.IncRoute(metrics.OutcomeStale)
		return nil, false
	}
	s.route = append(models.Polyline(nil), line...)
	s.hasRoute = true
	s.mu.Unlock()

	metrics.IncRoute(metrics.OutcomeOK)
	s.publish(events.EventRouteBuilt, events.RouteEventPayload{From: *from, To: *to, Points: len(line)})
	return line, true
}

// ClearRoute drops the route. Route requests still in flight are discarded.
func (s *SearchViewState) ClearRoute() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.route = nil
	s.hasRoute = false
	s.routeSeq++
}

func (s *SearchViewState) Route() (models.Polyline, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.hasRoute {
		return nil, false
	}
	return append(models.Polyline(nil), s.route...), true
}

func (s *SearchViewState) Select(place models.Place) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = &place
}

func (s *SearchViewState) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = nil
}

func (s *SearchViewState) Selected() (models.Place, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == nil {
		return models.Place{}, false
	}
	return *s.selected, true
}

func (s *SearchViewState) SetQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query = query
}

func (s *SearchViewState) Query() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

func (s *SearchViewState) SetSpecialty(specialty string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.specialty = specialty
}

func (s *SearchViewState) Specialty() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.specialty
}

func (s *SearchViewState) Results() []models.Place {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Place(nil), s.results...)
}

// FilteredResults returns the results matching the current specialty.
func (s *SearchViewState) FilteredResults() []models.Place {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Place, 0, len(s.results))
	for _, p := range s.results {
		if MatchesSpecialty(p, s.specialty) {
			out = append(out, p)
		}
	}
	return out
}

func (s *SearchViewState) SetRegion(center models.Coordinate, span float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.region = models.NewRegion(center, span)
}

// CenterOnUser moves the visible region to the user's location.
func (s *SearchViewState) CenterOnUser(location *models.Coordinate) {
	if location == nil {
		return
	}
	s.SetRegion(*location, models.DisplaySpan)
}

func (s *SearchViewState) Region() models.Region {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.region
}

func (s *SearchViewState) publish(eventType string, payload interface{}) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Msg("publish event error")
	}
}

func toPlaces(hits []models.PlaceResult) []models.Place {
	places := make([]models.Place, 0, len(hits))
	for _, h := range hits {
		places = append(places, models.NewPlace(h))
	}
	return places
}
