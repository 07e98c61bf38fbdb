package flags

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   1, // Use different DB for tests
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}

	require.NoError(t, client.FlushDB(ctx).Err())

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.FlushDB(ctx).Err()
		_ = client.Close()
	})
	return client
}

func TestStore_Set(t *testing.T) {
	store, err := NewStore(setupTestRedis(t))
	require.NoError(t, err)
	ctx := context.Background()

	sw, err := store.Set(ctx, OpSwap, false, "  rpc degraded  ")
	require.NoError(t, err)
	assert.Equal(t, OpSwap, sw.Operation)
	assert.False(t, sw.Enabled)
	assert.Equal(t, "rpc degraded", sw.Reason)
	assert.NotZero(t, sw.UpdatedAt)

	got, err := store.Get(ctx, OpSwap)
	require.NoError(t, err)
	assert.Equal(t, sw.Enabled, got.Enabled)
	assert.Equal(t, sw.Reason, got.Reason)
	assert.True(t, sw.UpdatedAt.Equal(got.UpdatedAt))

	time.Sleep(time.Millisecond)
	sw2, err := store.Set(ctx, OpSwap, true, "")
	require.NoError(t, err)
	assert.True(t, sw2.UpdatedAt.After(sw.UpdatedAt))

	got, err = store.Get(ctx, OpSwap)
	require.NoError(t, err)
	assert.True(t, got.Enabled)
	assert.Empty(t, got.Reason)
}

func TestStore_Enabled(t *testing.T) {
	store, err := NewStore(setupTestRedis(t))
	require.NoError(t, err)
	ctx := context.Background()

	enabled, reason, err := store.Enabled(ctx, OpOpenOrder)
	require.NoError(t, err)
	assert.True(t, enabled, "missing switch means enabled")
	assert.Empty(t, reason)

	_, err = store.Set(ctx, OpOpenOrder, false, "maintenance")
	require.NoError(t, err)

	enabled, reason, err = store.Enabled(ctx, OpOpenOrder)
	require.NoError(t, err)
	assert.False(t, enabled)
	assert.Equal(t, "maintenance", reason)

	_, _, err = store.Enabled(ctx, "quote")
	assert.Error(t, err)
}

func TestStore_Delete(t *testing.T) {
	store, err := NewStore(setupTestRedis(t))
	require.NoError(t, err)
	ctx := context.Background()

	_, err = store.Set(ctx, OpCancelOrders, false, "")
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, OpCancelOrders))

	_, err = store.Get(ctx, OpCancelOrders)
	assert.Equal(t, ErrNotFound, err)

	// deleting a missing switch is not an error
	assert.NoError(t, store.Delete(ctx, OpCancelOrders))
}

func TestStore_List(t *testing.T) {
	store, err := NewStore(setupTestRedis(t))
	require.NoError(t, err)
	ctx := context.Background()

	items, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	want := map[string]bool{OpSwap: true, OpOpenOrder: false, OpCancelOrders: true}
	for op, enabled := range want {
		_, err := store.Set(ctx, op, enabled, "")
		require.NoError(t, err)
	}

	items, err = store.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 3)

	got := make(map[string]bool)
	for _, sw := range items {
		got[sw.Operation] = sw.Enabled
	}
	assert.Equal(t, want, got)
}

func TestStore_ConcurrentSets(t *testing.T) {
	store, err := NewStore(setupTestRedis(t))
	require.NoError(t, err)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_, err := store.Set(ctx, OpSwap, (id+j)%2 == 0, "")
				assert.NoError(t, err)
			}
		}(i)
	}
	wg.Wait()

	items, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestValidateOperation(t *testing.T) {
	for _, op := range []string{OpSwap, OpOpenOrder, OpCancelOrders} {
		assert.NoError(t, ValidateOperation(op))
	}
	for _, op := range []string{"", "quote", "query-open-orders", "swap ", strings.ToUpper(OpSwap)} {
		assert.Error(t, ValidateOperation(op), op)
	}
}

func TestNewStore_Nil(t *testing.T) {
	_, err := NewStore(nil)
	assert.Error(t, err)
}
