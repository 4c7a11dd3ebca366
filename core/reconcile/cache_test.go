package reconcile

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"offer-reconciler/core/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStates counts lookups against the wrapped store.
type countingStates struct {
	*memStore
	finds atomic.Int32
	err   error
}

func (c *countingStates) FindStateByAbbreviation(ctx context.Context, abbreviation string) (*models.State, error) {
	c.finds.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return c.memStore.FindStateByAbbreviation(ctx, abbreviation)
}

func TestStateResolver(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates On First Use", func(t *testing.T) {
		store := newMemStore()
		r := NewStateResolver(store, time.Hour)

		first, err := r.Resolve(ctx, "nj")
		require.NoError(t, err)
		second, err := r.Resolve(ctx, " NJ ")
		require.NoError(t, err)

		assert.Equal(t, "NJ", first.Abbreviation)
		assert.Equal(t, "New Jersey", first.Name)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, 1, store.stateInserts)
	})

	t.Run("Uses Existing State", func(t *testing.T) {
		store := newMemStore()
		store.states["s1"] = models.State{ID: "s1", Name: "Michigan", Abbreviation: "MI"}
		r := NewStateResolver(store, 0)

		state, err := r.Resolve(ctx, "mi")
		require.NoError(t, err)

		assert.Equal(t, "s1", state.ID)
		assert.Zero(t, store.stateInserts)
	})

	t.Run("Cache Expires", func(t *testing.T) {
		store := &countingStates{memStore: newMemStore()}
		r := NewStateResolver(store, time.Minute)
		now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
		r.now = func() time.Time { return now }

		_, err := r.Resolve(ctx, "NY")
		require.NoError(t, err)
		_, err = r.Resolve(ctx, "NY")
		require.NoError(t, err)
		assert.EqualValues(t, 1, store.finds.Load())

		now = now.Add(2 * time.Minute)
		_, err = r.Resolve(ctx, "NY")
		require.NoError(t, err)
		assert.EqualValues(t, 2, store.finds.Load())

		r.Invalidate()
		_, err = r.Resolve(ctx, "NY")
		require.NoError(t, err)
		assert.EqualValues(t, 3, store.finds.Load())
		assert.Equal(t, 1, store.stateInserts)
	})

	t.Run("Concurrent Resolution", func(t *testing.T) {
		store := newMemStore()
		r := NewStateResolver(store, time.Hour)

		var wg sync.WaitGroup
		results := make([]string, 16)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				state, err := r.Resolve(ctx, "PA")
				if err == nil {
					results[i] = state.ID
				}
			}(i)
		}
		wg.Wait()

		assert.Equal(t, 1, store.stateInserts)
		for _, id := range results {
			assert.Equal(t, results[0], id)
		}
	})

	t.Run("Store Error", func(t *testing.T) {
		store := &countingStates{memStore: newMemStore(), err: errors.New("too many connections")}
		r := NewStateResolver(store, time.Hour)

		_, err := r.Resolve(ctx, "OH")
		assert.ErrorContains(t, err, "too many connections")
		assert.Zero(t, store.stateInserts)
	})

	t.Run("Empty Abbreviation", func(t *testing.T) {
		r := NewStateResolver(newMemStore(), time.Hour)

		_, err := r.Resolve(ctx, "  ")
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestStateName(t *testing.T) {
	assert.Equal(t, "New Jersey", StateName("nj"))
	assert.Equal(t, "ON", StateName("on"))
}
