package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aman-zulfiqar/jupiter-solana/internal/constants"
	"github.com/aman-zulfiqar/jupiter-solana/internal/models"
)

func setupTestRedis(t *testing.T) *RedisCache {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   2, // keep away from the default db
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		t.Skipf("Redis not available: %v", err)
	}
	require.NoError(t, client.FlushDB(ctx).Err())

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	c, err := NewRedisCacheFromClient(client, logger)
	require.NoError(t, err)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.FlushDB(ctx).Err()
		_ = c.Close()
	})
	return c
}

func testExecution(i int) *models.Execution {
	return &models.Execution{
		ID:          fmt.Sprintf("exec-%d", i),
		Kind:        constants.ExecutionKindSwap,
		Signature:   fmt.Sprintf("sig-%d", i),
		Wallet:      "wallet",
		InputMint:   "So11111111111111111111111111111111111111112",
		OutputMint:  "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v",
		InAmount:    uint64(1000 + i),
		Quote:       json.RawMessage(`{"outAmount":"1"}`),
		SubmittedAt: time.Unix(1700000000+int64(i), 0).UTC(),
	}
}

func TestRedisCache_RecentExecutionsNewestFirst(t *testing.T) {
	c := setupTestRedis(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, c.AddExecution(ctx, testExecution(i)))
	}

	items, err := c.RecentExecutions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "exec-2", items[0].ID)
	assert.Equal(t, "exec-0", items[2].ID)
	assert.JSONEq(t, `{"outAmount":"1"}`, string(items[0].Quote))

	items, err = c.RecentExecutions(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestRedisCache_ListIsCapped(t *testing.T) {
	c := setupTestRedis(t)
	ctx := context.Background()

	for i := 0; i < constants.MaxRecentExecutions+5; i++ {
		require.NoError(t, c.AddExecution(ctx, testExecution(i)))
	}

	n, err := c.client.LLen(ctx, constants.RedisKeyRecentExecutions).Result()
	require.NoError(t, err)
	assert.Equal(t, int64(constants.MaxRecentExecutions), n)
}

func TestRedisCache_PublishSubscribe(t *testing.T) {
	c := setupTestRedis(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ch, err := c.SubscribeExecutions(ctx)
	require.NoError(t, err)

	require.NoError(t, c.PublishExecution(ctx, testExecution(7)))

	select {
	case got := <-ch:
		require.NotNil(t, got)
		assert.Equal(t, "exec-7", got.ID)
	case <-ctx.Done():
		t.Fatal("timed out waiting for execution")
	}

	cancel()
	for range ch {
	}
}

func TestNewRedisCacheFromClient_Nil(t *testing.T) {
	_, err := NewRedisCacheFromClient(nil, nil)
	assert.Error(t, err)
}
