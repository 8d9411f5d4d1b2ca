package repository

import (
	"context"
	"sync"
)

// MemoryStore is an in-process key-value store. Values are copied on the way
// in and out so callers cannot alias stored bytes.
type MemoryStore struct {
	values sync.Map
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (r *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, ok := r.values.Load(key)
	if !ok {
		return nil, false, nil
	}
	return cloneBytes(val.([]byte)), true, nil
}

func (r *MemoryStore) Set(ctx context.Context, key string, value []byte) error {
	r.values.Store(key, cloneBytes(value))
	return nil
}

func (r *MemoryStore) Delete(ctx context.Context, key string) error {
	r.values.Delete(key)
	return nil
}

func cloneBytes(b []byte) []byte {
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
