package store

import (
	"context"
	"errors"
	"sync"

	"drfind/internal/repository"

	"github.com/rs/zerolog"
)

var errStorage = errors.New("storage unavailable")

// flakyKV wraps a MemoryStore and can be told to fail reads or writes.
type flakyKV struct {
	*repository.MemoryStore

	mu       sync.Mutex
	failGet  bool
	failSet  bool
	setCalls map[string]int
}

func newFlakyKV() *flakyKV {
	return &flakyKV{MemoryStore: repository.NewMemoryStore(), setCalls: make(map[string]int)}
}

func (f *flakyKV) Get(ctx context.Context, key string) ([]byte, bool, error) {
	f.mu.Lock()
	fail := f.failGet
	f.mu.Unlock()
	if fail {
		return nil, false, errStorage
	}
	return f.MemoryStore.Get(ctx, key)
}

func (f *flakyKV) Set(ctx context.Context, key string, value []byte) error {
	f.mu.Lock()
	f.setCalls[key]++
	fail := f.failSet
	f.mu.Unlock()
	if fail {
		return errStorage
	}
	return f.MemoryStore.Set(ctx, key, value)
}

func (f *flakyKV) sets(key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.setCalls[key]
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) PublishJSON(eventType string, _ interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}

func nopLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}
