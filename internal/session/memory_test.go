package session

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_UnknownSessionIsEmpty(t *testing.T) {
	store := NewMemoryStore(40)

	turns, err := store.History(context.Background(), "CA123")
	require.NoError(t, err)
	assert.Empty(t, turns)
}

func TestMemoryStore_AppendPair(t *testing.T) {
	store := NewMemoryStore(40)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "CA123",
		Turn{Role: RoleUser, Content: "hello"},
		Turn{Role: RoleAssistant, Content: "hi there"},
	))

	turns, err := store.History(ctx, "CA123")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, RoleUser, turns[0].Role)
	assert.Equal(t, RoleAssistant, turns[1].Role)
}

func TestMemoryStore_SessionsAreIsolated(t *testing.T) {
	store := NewMemoryStore(40)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "CA1", Turn{Role: RoleUser, Content: "a"}))
	require.NoError(t, store.Append(ctx, "CA2", Turn{Role: RoleUser, Content: "b"}))

	turns, err := store.History(ctx, "CA1")
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "a", turns[0].Content)
}

func TestMemoryStore_CapsHistoryDroppingOldest(t *testing.T) {
	store := NewMemoryStore(4)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, store.Append(ctx, "CA1",
			Turn{Role: RoleUser, Content: fmt.Sprintf("q%d", i)},
			Turn{Role: RoleAssistant, Content: fmt.Sprintf("a%d", i)},
		))
	}

	turns, err := store.History(ctx, "CA1")
	require.NoError(t, err)
	require.Len(t, turns, 4)
	assert.Equal(t, "q3", turns[0].Content)
	assert.Equal(t, "a4", turns[3].Content)
}

func TestMemoryStore_HistoryReturnsCopy(t *testing.T) {
	store := NewMemoryStore(40)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "CA1", Turn{Role: RoleUser, Content: "original"}))

	turns, err := store.History(ctx, "CA1")
	require.NoError(t, err)
	turns[0].Content = "mutated"

	again, err := store.History(ctx, "CA1")
	require.NoError(t, err)
	assert.Equal(t, "original", again[0].Content)
}

func TestMemoryStore_ConcurrentAppendsKeepPairsIntact(t *testing.T) {
	store := NewMemoryStore(0) // no cap, so every pair survives
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			content := fmt.Sprintf("%d", i)
			_ = store.Append(ctx, "CA1",
				Turn{Role: RoleUser, Content: content},
				Turn{Role: RoleAssistant, Content: content},
			)
		}(i)
	}
	wg.Wait()

	turns, err := store.History(ctx, "CA1")
	require.NoError(t, err)
	require.Len(t, turns, 100)

	// Pairs are never split by a concurrent writer.
	for i := 0; i < len(turns); i += 2 {
		assert.Equal(t, RoleUser, turns[i].Role)
		assert.Equal(t, RoleAssistant, turns[i+1].Role)
		assert.Equal(t, turns[i].Content, turns[i+1].Content)
	}
}

func TestMemoryStore_Evict(t *testing.T) {
	store := NewMemoryStore(40)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, "CA1", Turn{Role: RoleUser, Content: "a"}))
	store.Evict("CA1")

	turns, err := store.History(ctx, "CA1")
	require.NoError(t, err)
	assert.Empty(t, turns)
}
