package store

import (
	"context"
	"encoding/json"
	"sync"

	"drfind/internal/domain"
	"drfind/internal/metrics"
	"drfind/internal/models"

	"github.com/rs/zerolog"
)

// RecentSearches is the most-recent-first list of distinct search terms.
type RecentSearches struct {
	mu        sync.RWMutex
	terms     []string
	limit     int
	persister Persister
	logger    *zerolog.Logger
}

// NewRecentSearches loads the stored history. limit <= 0 or above 10 means
// 10 entries.
func NewRecentSearches(ctx context.Context, kv domain.KVStore, persister Persister, limit int, logger *zerolog.Logger) *RecentSearches {
	if limit <= 0 || limit > models.RecentSearchLimit {
		limit = models.RecentSearchLimit
	}
	s := &RecentSearches{
		limit:     limit,
		persister: persister,
		logger:    logger,
	}

	data, ok := load(ctx, kv, models.KeyRecentSearches, logger)
	if !ok {
		return s
	}
	var terms []string
	if err := json.Unmarshal(data, &terms); err != nil {
		metrics.IncLoadFailure(models.KeyRecentSearches)
		logger.Warn().Err(err).Msg("Corrupt recent searches, starting empty")
		return s
	}
	if len(terms) > limit {
		terms = terms[:limit]
	}
	s.terms = terms
	return s
}

// Record moves term to the front, dropping the oldest entry past the limit.
func (s *RecentSearches) Record(ctx context.Context, term string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]string, 0, len(s.terms)+1)
	next = append(next, term)
	for _, t := range s.terms {
		if t != term {
			next = append(next, t)
		}
	}
	if len(next) > s.limit {
		next = next[:s.limit]
	}
	s.terms = next
	s.persistLocked(ctx)
}

// Remove deletes every occurrence of term.
func (s *RecentSearches) Remove(ctx context.Context, term string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]string, 0, len(s.terms))
	for _, t := range s.terms {
		if t != term {
			next = append(next, t)
		}
	}
	if len(next) == len(s.terms) {
		return
	}
	s.terms = next
	s.persistLocked(ctx)
}

func (s *RecentSearches) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.terms...)
}

func (s *RecentSearches) persistLocked(ctx context.Context) {
	snapshot := append([]string{}, s.terms...)
	s.persister.Persist(ctx, models.KeyRecentSearches, func() ([]byte, error) {
		return json.Marshal(snapshot)
	})
}
