package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cypherlabdev/order-service/internal/models"
)

func TestMemoryOrderRepository_InsertAssignsSequentialIDs(t *testing.T) {
	repo := NewMemoryOrderRepository()
	ctx := context.Background()
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	first, err := repo.Insert(ctx, &models.Order{ID: 42, Name: "a", Description: "b", EntryDate: now})
	require.NoError(t, err)
	second, err := repo.Insert(ctx, &models.Order{Name: "c", Description: "d", EntryDate: now})
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
}

func TestMemoryOrderRepository_ListSince(t *testing.T) {
	repo := NewMemoryOrderRepository()
	ctx := context.Background()
	base := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	seed := []models.Order{
		{Name: "old", Description: "x", EntryDate: base.Add(-48 * time.Hour)},
		{Name: "edge", Description: "x", EntryDate: base.Add(-24 * time.Hour)},
		{Name: "recent", Description: "x", EntryDate: base.Add(-time.Hour)},
		{Name: "deleted", Description: "x", EntryDate: base.Add(-30 * time.Minute), IsDeleted: true},
		{Name: "tie", Description: "x", EntryDate: base.Add(-time.Hour)},
	}
	for i := range seed {
		_, err := repo.Insert(ctx, &seed[i])
		require.NoError(t, err)
	}

	t.Run("inclusive bound, newest first, deleted excluded", func(t *testing.T) {
		orders, err := repo.ListSince(ctx, base.Add(-24*time.Hour), false)
		require.NoError(t, err)

		names := make([]string, 0, len(orders))
		for _, o := range orders {
			names = append(names, o.Name)
		}
		assert.Equal(t, []string{"tie", "recent", "edge"}, names)
	})

	t.Run("include deleted", func(t *testing.T) {
		orders, err := repo.ListSince(ctx, base.Add(-24*time.Hour), true)
		require.NoError(t, err)
		require.Len(t, orders, 4)
		assert.Equal(t, "deleted", orders[0].Name)
	})

	t.Run("no match returns empty slice", func(t *testing.T) {
		orders, err := repo.ListSince(ctx, base.Add(time.Hour), false)
		require.NoError(t, err)
		assert.NotNil(t, orders)
		assert.Empty(t, orders)
	})
}

func TestMemoryOrderRepository_ReturnsCopies(t *testing.T) {
	repo := NewMemoryOrderRepository()
	ctx := context.Background()
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	stored, err := repo.Insert(ctx, &models.Order{Name: "a", Description: "b", EntryDate: now})
	require.NoError(t, err)
	stored.Name = "mutated"

	orders, err := repo.ListSince(ctx, now, false)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "a", orders[0].Name)
}

func TestMemoryOrderRepository_ConcurrentInsert(t *testing.T) {
	repo := NewMemoryOrderRepository()
	ctx := context.Background()
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	const n = 50
	var wg sync.WaitGroup
	ids := make(chan int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			o, err := repo.Insert(ctx, &models.Order{Name: "a", Description: "b", EntryDate: now})
			if err == nil {
				ids <- o.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
	assert.NoError(t, repo.Ping(ctx))
}
