package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"drfind/internal/domain"
	"drfind/internal/metrics"

	"github.com/rs/zerolog"
)

// EncodeFunc produces the bytes to store for a key.
type EncodeFunc func() ([]byte, error)

// Persister decides when store snapshots reach the key-value storage.
// Persist never reports failures to the caller; they are logged and counted.
type Persister interface {
	Persist(ctx context.Context, key string, encode EncodeFunc)
	Flush(ctx context.Context) error
}

// WriteThroughPersister writes synchronously inside Persist.
type WriteThroughPersister struct {
	kv     domain.KVStore
	logger *zerolog.Logger
}

func NewWriteThrough(kv domain.KVStore, logger *zerolog.Logger) *WriteThroughPersister {
	return &WriteThroughPersister{kv: kv, logger: logger}
}

func (p *WriteThroughPersister) Persist(ctx context.Context, key string, encode EncodeFunc) {
	_ = write(ctx, p.kv, key, encode, p.logger)
}

func (p *WriteThroughPersister) Flush(context.Context) error {
	return nil
}

// DebouncedPersister coalesces writes per key and writes the latest snapshot
// once delay has passed since the first pending write.
type DebouncedPersister struct {
	kv     domain.KVStore
	delay  time.Duration
	logger *zerolog.Logger

	// flushMu keeps flushes from overlapping so an older snapshot is never
	// written after a newer one.
	flushMu sync.Mutex

	mu      sync.Mutex
	pending map[string]EncodeFunc
	order   []string
	timer   *time.Timer
}

func NewDebounced(kv domain.KVStore, delay time.Duration, logger *zerolog.Logger) *DebouncedPersister {
	return &DebouncedPersister{
		kv:      kv,
		delay:   delay,
		logger:  logger,
		pending: make(map[string]EncodeFunc),
	}
}

func (p *DebouncedPersister) Persist(_ context.Context, key string, encode EncodeFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.pending[key]; !ok {
		p.order = append(p.order, key)
	}
	p.pending[key] = encode

	if p.timer == nil {
		p.timer = time.AfterFunc(p.delay, func() {
			if err := p.Flush(context.Background()); err != nil {
				p.logger.Warn().Err(err).Msg("Debounced flush failed")
			}
		})
	}
}

// Pending returns how many keys wait for the next flush.
func (p *DebouncedPersister) Pending() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pending)
}

// Flush writes every pending key now, in first-scheduled order.
func (p *DebouncedPersister) Flush(ctx context.Context) error {
	p.flushMu.Lock()
	defer p.flushMu.Unlock()

	p.mu.Lock()
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	pending, order := p.pending, p.order
	p.pending = make(map[string]EncodeFunc)
	p.order = nil
	p.mu.Unlock()

	var errs []error
	for _, key := range order {
		if err := write(ctx, p.kv, key, pending[key], p.logger); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func write(ctx context.Context, kv domain.KVStore, key string, encode EncodeFunc, logger *zerolog.Logger) error {
	data, err := encode()
	if err != nil {
		metrics.IncPersistenceError(key, "encode")
		logger.Warn().Err(err).Str("key", key).Msg("Failed to encode value")
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := kv.Set(ctx, key, data); err != nil {
		metrics.IncPersistenceError(key, "set")
		logger.Warn().Err(err).Str("key", key).Msg("Failed to persist value")
		return fmt.Errorf("persist %s: %w", key, err)
	}
	return nil
}

// load reads key, treating read errors as absent. The error is logged and
// counted so lossy recovery stays visible.
func load(ctx context.Context, kv domain.KVStore, key string, logger *zerolog.Logger) ([]byte, bool) {
	data, ok, err := kv.Get(ctx, key)
	if err != nil {
		metrics.IncLoadFailure(key)
		logger.Warn().Err(err).Str("key", key).Msg("Failed to read persisted value, using default")
		return nil, false
	}
	return data, ok
}
