package store

import (
	"context"
	"sync"

	"drfind/internal/domain"
	"drfind/internal/events"
	"drfind/internal/models"

	"github.com/rs/zerolog"
)

// ProfileStore holds the device user's name and contact. Every change writes
// both fields.
type ProfileStore struct {
	mu        sync.RWMutex
	profile   models.Profile
	persister Persister
	publisher domain.EventPublisher
	logger    *zerolog.Logger
}

func NewProfileStore(ctx context.Context, kv domain.KVStore, persister Persister, publisher domain.EventPublisher, logger *zerolog.Logger) *ProfileStore {
	s := &ProfileStore{
		persister: persister,
		publisher: publisher,
		logger:    logger,
	}
	if data, ok := load(ctx, kv, models.KeyProfileName, logger); ok {
		s.profile.FullName = string(data)
	}
	if data, ok := load(ctx, kv, models.KeyProfileContact, logger); ok {
		s.profile.Contact = string(data)
	}
	return s
}

func (s *ProfileStore) Profile() models.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile
}

func (s *ProfileStore) SetFullName(ctx context.Context, value string) {
	s.update(ctx, "fullName", func(p *models.Profile) { p.FullName = value })
}

func (s *ProfileStore) SetContact(ctx context.Context, value string) {
	s.update(ctx, "contact", func(p *models.Profile) { p.Contact = value })
}

// Update replaces both fields at once, for edit forms that save explicitly.
func (s *ProfileStore) Update(ctx context.Context, profile models.Profile) {
	s.update(ctx, "profile", func(p *models.Profile) { *p = profile })
}

func (s *ProfileStore) update(ctx context.Context, field string, apply func(*models.Profile)) {
	s.mu.Lock()
	apply(&s.profile)
	snapshot := s.profile
	s.persister.Persist(ctx, models.KeyProfileName, func() ([]byte, error) {
		return []byte(snapshot.FullName), nil
	})
	s.persister.Persist(ctx, models.KeyProfileContact, func() ([]byte, error) {
		return []byte(snapshot.Contact), nil
	})
	s.mu.Unlock()

	if s.publisher != nil {
		if err := s.publisher.PublishJSON(events.EventProfileUpdated, events.ProfileEventPayload{Field: field}); err != nil {
			s.logger.Error().Err(err).Str("event_type", events.EventProfileUpdated).Msg("publish event error")
		}
	}
}
