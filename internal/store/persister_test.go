package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func constant(s string) EncodeFunc {
	return func() ([]byte, error) { return []byte(s), nil }
}

func TestWriteThroughPersister(t *testing.T) {
	ctx := context.Background()
	kv := newFlakyKV()
	p := NewWriteThrough(kv, nopLogger())

	p.Persist(ctx, "k", constant("v1"))

	got, ok, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("v1"), got)
	assert.NoError(t, p.Flush(ctx))

	t.Run("EncodeErrorSkipsWrite", func(t *testing.T) {
		p.Persist(ctx, "bad", func() ([]byte, error) { return nil, errors.New("boom") })
		assert.Equal(t, 0, kv.sets("bad"))
	})

	t.Run("StorageErrorIsAbsorbed", func(t *testing.T) {
		kv.failSet = true
		defer func() { kv.failSet = false }()

		assert.NotPanics(t, func() { p.Persist(ctx, "k", constant("v2")) })
		got, _, _ := kv.Get(ctx, "k")
		assert.Equal(t, []byte("v1"), got)
	})
}

func TestDebouncedPersister(t *testing.T) {
	ctx := context.Background()

	t.Run("CoalescesAndFlushes", func(t *testing.T) {
		kv := newFlakyKV()
		p := NewDebounced(kv, time.Hour, nopLogger())

		p.Persist(ctx, "a", constant("1"))
		p.Persist(ctx, "a", constant("2"))
		p.Persist(ctx, "b", constant("x"))
		assert.Equal(t, 2, p.Pending())
		assert.Equal(t, 0, kv.sets("a"))

		require.NoError(t, p.Flush(ctx))
		assert.Equal(t, 0, p.Pending())
		assert.Equal(t, 1, kv.sets("a"))
		assert.Equal(t, 1, kv.sets("b"))

		got, _, _ := kv.Get(ctx, "a")
		assert.Equal(t, []byte("2"), got)
	})

	t.Run("TimerFires", func(t *testing.T) {
		kv := newFlakyKV()
		p := NewDebounced(kv, 10*time.Millisecond, nopLogger())

		p.Persist(ctx, "a", constant("late"))

		assert.Eventually(t, func() bool {
			got, ok, _ := kv.Get(ctx, "a")
			return ok && string(got) == "late"
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("FlushReportsErrors", func(t *testing.T) {
		kv := newFlakyKV()
		kv.failSet = true
		p := NewDebounced(kv, time.Hour, nopLogger())

		p.Persist(ctx, "a", constant("1"))
		err := p.Flush(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, errStorage)
	})

	t.Run("OverlappingFlushesKeepLatest", func(t *testing.T) {
		kv := &slowFirstSetKV{flakyKV: newFlakyKV(), entered: make(chan struct{}), release: make(chan struct{})}
		p := NewDebounced(kv, time.Hour, nopLogger())

		p.Persist(ctx, "k", constant("old"))
		firstDone := make(chan error, 1)
		go func() { firstDone <- p.Flush(ctx) }()
		<-kv.entered

		p.Persist(ctx, "k", constant("new"))
		secondDone := make(chan error, 1)
		go func() { secondDone <- p.Flush(ctx) }()

		close(kv.release)
		require.NoError(t, <-firstDone)
		require.NoError(t, <-secondDone)

		got, ok, err := kv.Get(ctx, "k")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, []byte("new"), got)
	})

	t.Run("FlushWithNothingPending", func(t *testing.T) {
		p := NewDebounced(newFlakyKV(), time.Hour, nopLogger())
		assert.NoError(t, p.Flush(ctx))
	})
}

// slowFirstSetKV blocks its first Set until release is closed.
type slowFirstSetKV struct {
	*flakyKV
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (s *slowFirstSetKV) Set(ctx context.Context, key string, value []byte) error {
	first := false
	s.once.Do(func() { first = true })
	if first {
		close(s.entered)
		<-s.release
	}
	return s.flakyKV.Set(ctx, key, value)
}
