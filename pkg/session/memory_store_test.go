package session

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docgrounder-be/pkg/apperr"
)

func TestMemoryStore_CreateIsIdempotent(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, "s1"))
	require.NoError(t, store.SetStatus(ctx, "s1", StatusQueued))

	// A second Create must not reset status.
	require.NoError(t, store.Create(ctx, "s1"))

	status, err := store.GetStatus(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, StatusQueued, status)
}

func TestMemoryStore_MissingSessionReportsNotFound(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()

	_, err := store.GetStatus(ctx, "nope")
	assert.True(t, apperr.Is(err, apperr.KindSessionNotFound))

	err = store.SetStatus(ctx, "nope", StatusReady)
	assert.True(t, apperr.Is(err, apperr.KindSessionNotFound))

	err = store.AppendTurn(ctx, "nope", &Turn{Id: uuid.New()})
	assert.True(t, apperr.Is(err, apperr.KindSessionNotFound))

	_, err = store.GetHistory(ctx, "nope", 0)
	assert.True(t, apperr.Is(err, apperr.KindSessionNotFound))
}

func TestMemoryStore_HistoryPreservesAppendOrder(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, "s1"))

	for i := 0; i < 5; i++ {
		err := store.AppendTurn(ctx, "s1", &Turn{
			Id:       uuid.New(),
			Question: fmt.Sprintf("q%d", i),
			Answer:   fmt.Sprintf("a%d", i),
		})
		require.NoError(t, err)
	}

	turns, err := store.GetHistory(ctx, "s1", 0)
	require.NoError(t, err)
	require.Len(t, turns, 5)
	for i, turn := range turns {
		assert.Equal(t, fmt.Sprintf("q%d", i), turn.Question)
	}
}

func TestMemoryStore_HistoryWindowReturnsMostRecent(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, "s1"))

	for i := 0; i < 10; i++ {
		require.NoError(t, store.AppendTurn(ctx, "s1", &Turn{
			Id:       uuid.New(),
			Question: fmt.Sprintf("q%d", i),
		}))
	}

	turns, err := store.GetHistory(ctx, "s1", 3)
	require.NoError(t, err)
	require.Len(t, turns, 3)
	assert.Equal(t, "q7", turns[0].Question)
	assert.Equal(t, "q9", turns[2].Question)
}

func TestMemoryStore_ConcurrentAppendsLoseNothing(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, "s1"))

	const writers = 20
	const perWriter = 25

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				_ = store.AppendTurn(ctx, "s1", &Turn{
					Id:       uuid.New(),
					Question: fmt.Sprintf("w%d-q%d", w, i),
				})
			}
		}(w)
	}
	wg.Wait()

	turns, err := store.GetHistory(ctx, "s1", 0)
	require.NoError(t, err)
	assert.Len(t, turns, writers*perWriter)
}

func TestMemoryStore_DeleteRemovesSession(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	ctx := context.Background()
	require.NoError(t, store.Create(ctx, "s1"))
	require.NoError(t, store.Delete(ctx, "s1"))

	_, err := store.GetStatus(ctx, "s1")
	assert.True(t, apperr.Is(err, apperr.KindSessionNotFound))
}
