package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"drfind/internal/domain"
	"drfind/internal/metrics"

	"github.com/rs/zerolog"
)

// FailoverStore serves from primary until it errors, then from fallback.
// While the primary is down it is probed again on a backoff schedule.
// Writes made to the fallback are not copied back after recovery.
type FailoverStore struct {
	primary  domain.KVStore
	fallback domain.KVStore
	logger   *zerolog.Logger
	policy   BackoffPolicy
	now      func() time.Time

	isDown    atomic.Bool
	mu        sync.Mutex
	failures  int
	nextProbe time.Time
}

func NewFailoverStore(primary, fallback domain.KVStore, policy BackoffPolicy, logger *zerolog.Logger) *FailoverStore {
	return &FailoverStore{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
		policy:   policy,
		now:      time.Now,
	}
}

// IsDown reports whether requests currently go to the fallback.
func (r *FailoverStore) IsDown() bool {
	return r.isDown.Load()
}

func (r *FailoverStore) primaryAvailable() bool {
	if !r.isDown.Load() {
		return true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.now().Before(r.nextProbe)
}

func (r *FailoverStore) markDown(op, key string, err error) {
	r.mu.Lock()
	r.failures++
	delay := r.policy.NextDelay(r.failures)
	r.nextProbe = r.now().Add(delay)
	r.mu.Unlock()

	if !r.isDown.Swap(true) {
		metrics.IncStorageFailover()
		r.logger.Error().Err(err).Str("op", op).Str("key", key).Dur("retry_in", delay).
			Msg("Primary store failed, falling back")
		return
	}
	r.logger.Warn().Err(err).Str("op", op).Dur("retry_in", delay).Msg("Primary store still unavailable")
}

func (r *FailoverStore) markUp() {
	if !r.isDown.Load() {
		return
	}
	r.mu.Lock()
	r.failures = 0
	r.nextProbe = time.Time{}
	r.mu.Unlock()
	if r.isDown.Swap(false) {
		r.logger.Info().Msg("Primary store recovered")
	}
}

func (r *FailoverStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if r.primaryAvailable() {
		val, ok, err := r.primary.Get(ctx, key)
		if err == nil {
			r.markUp()
			return val, ok, nil
		}
		r.markDown("get", key, err)
	}
	return r.fallback.Get(ctx, key)
}

func (r *FailoverStore) Set(ctx context.Context, key string, value []byte) error {
	if r.primaryAvailable() {
		err := r.primary.Set(ctx, key, value)
		if err == nil {
			r.markUp()
			return nil
		}
		r.markDown("set", key, err)
	}
	return r.fallback.Set(ctx, key, value)
}

func (r *FailoverStore) Delete(ctx context.Context, key string) error {
	if r.primaryAvailable() {
		err := r.primary.Delete(ctx, key)
		if err == nil {
			r.markUp()
			return nil
		}
		r.markDown("delete", key, err)
	}
	return r.fallback.Delete(ctx, key)
}
