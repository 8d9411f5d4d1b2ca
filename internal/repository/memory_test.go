package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	repo := NewMemoryStore()
	ctx := context.Background()

	t.Run("GetMissing", func(t *testing.T) {
		val, ok, err := repo.Get(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Nil(t, val)
	})

	t.Run("SetAndGet", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "k", []byte("v1")))

		val, ok, err := repo.Get(ctx, "k")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []byte("v1"), val)
	})

	t.Run("ValuesAreCopied", func(t *testing.T) {
		in := []byte("abc")
		require.NoError(t, repo.Set(ctx, "copy", in))
		in[0] = 'X'

		out, _, _ := repo.Get(ctx, "copy")
		assert.Equal(t, []byte("abc"), out)
		out[1] = 'Y'

		again, _, _ := repo.Get(ctx, "copy")
		assert.Equal(t, []byte("abc"), again)
	})

	t.Run("EmptyValueIsPresent", func(t *testing.T) {
		require.NoError(t, repo.Set(ctx, "empty", []byte{}))
		val, ok, err := repo.Get(ctx, "empty")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Empty(t, val)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "k"))
		_, ok, _ := repo.Get(ctx, "k")
		assert.False(t, ok)
	})
}
