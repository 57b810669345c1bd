package catalog

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() (*Service, *MemoryRepository) {
	repo := NewMemoryRepository()
	return NewService(repo), repo
}

func TestAddAssignsSequentialIDs(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	a, err := svc.Add(ctx, "A", "", 1)
	require.NoError(t, err)
	b, err := svc.Add(ctx, "B", "", 2)
	require.NoError(t, err)

	assert.Equal(t, int64(1), a)
	assert.Equal(t, int64(2), b)
}

func TestAddRejectsNegativePrice(t *testing.T) {
	svc, repo := newTestService()

	_, err := svc.Add(context.Background(), "A", "", -1)

	require.Error(t, err)
	items, _ := repo.ListAll(context.Background())
	assert.Empty(t, items)
}

func TestListKeepsInsertionOrder(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	for _, name := range []string{"A", "B", "C"} {
		_, err := svc.Add(ctx, name, "", 10)
		require.NoError(t, err)
	}

	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "A", items[0].Name)
	assert.Equal(t, "B", items[1].Name)
	assert.Equal(t, "C", items[2].Name)
}

func TestDeleteKeepsRemainingOrder(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	ids := make([]int64, 0, 3)
	for _, name := range []string{"A", "B", "C"} {
		id, err := svc.Add(ctx, name, "", 10)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	existed, err := svc.Delete(ctx, ids[1])
	require.NoError(t, err)
	assert.True(t, existed)

	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].Name)
	assert.Equal(t, "C", items[1].Name)
}

func TestDeleteMissingIDIsNoop(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Add(ctx, "A", "", 10)
	require.NoError(t, err)

	existed, err := svc.Delete(ctx, 999)
	require.NoError(t, err)
	assert.False(t, existed)

	items, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestConcurrentDeletesOfDistinctIDs(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	ids := make([]int64, 0, 4)
	for _, name := range []string{"A", "B", "C", "D"} {
		id, err := svc.Add(ctx, name, "", 10)
		require.NoError(t, err)
		ids = append(ids, id)
	}

	var wg sync.WaitGroup
	for _, id := range ids[1:3] {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			existed, err := svc.Delete(ctx, id)
			assert.NoError(t, err)
			assert.True(t, existed)
		}(id)
	}
	wg.Wait()

	items, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].Name)
	assert.Equal(t, "D", items[1].Name)
}

func TestStoreFailureSurfacesAsStoreError(t *testing.T) {
	svc, repo := newTestService()

	repo.FailNext = errors.New("connection refused")
	_, err := svc.Add(context.Background(), "A", "", 10)

	var storeErr *StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "STORE_UNAVAILABLE", storeErr.Code())
}
