package resource

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrCreate(t *testing.T) {
	t.Run("creates on first reference and reuses afterwards", func(t *testing.T) {
		r := NewRegistry()
		assert.False(t, r.Restricted())

		db1, err := r.GetOrCreate("db")
		require.NoError(t, err)
		db2, err := r.GetOrCreate("db")
		require.NoError(t, err)

		assert.Same(t, db1, db2)
		assert.Equal(t, "db", db1.Name())
		assert.Equal(t, 2, db1.Refs())
		assert.Equal(t, 1, r.Len())
	})

	t.Run("restricted registry rejects undeclared names", func(t *testing.T) {
		r := NewRegistry("db", "cache", "db")
		assert.True(t, r.Restricted())
		assert.Equal(t, []string{"cache", "db"}, r.Names())

		_, err := r.GetOrCreate("db")
		require.NoError(t, err)

		_, err = r.GetOrCreate("files")
		require.ErrorIs(t, err, ErrUnknownResource)
		assert.ErrorContains(t, err, `"files"`)
		assert.Equal(t, 2, r.Len())
	})

	t.Run("empty name is rejected", func(t *testing.T) {
		_, err := NewRegistry().GetOrCreate("")
		require.ErrorIs(t, err, ErrUnknownResource)
	})

	t.Run("get does not create or count", func(t *testing.T) {
		r := NewRegistry()
		_, ok := r.Get("db")
		assert.False(t, ok)

		_, err := r.GetOrCreate("db")
		require.NoError(t, err)
		res, ok := r.Get("db")
		require.True(t, ok)
		assert.Equal(t, 1, res.Refs())
	})
}

func TestGetOrCreate_Concurrent(t *testing.T) {
	r := NewRegistry()

	const workers = 32
	got := make([]*Resource, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := r.GetOrCreate("shared")
			assert.NoError(t, err)
			got[i] = res
		}(i)
	}
	wg.Wait()

	for _, res := range got {
		assert.Same(t, got[0], res)
	}
	assert.Equal(t, workers, got[0].Refs())
}
