package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/jupiter-solana/internal/constants"
	"github.com/aman-zulfiqar/jupiter-solana/internal/models"
)

// RedisCache keeps the most recent executions in a capped list and
// publishes each one on the executions channel.
type RedisCache struct {
	client redis.UniversalClient
	logger *logrus.Logger
}

// NewRedisCache connects to addr and verifies the connection.
func NewRedisCache(ctx context.Context, addr string, logger *logrus.Logger) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})
	c, err := NewRedisCacheFromClient(client, logger)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	if err := c.Ping(ctx); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	c.logger.WithField("addr", addr).Info("connected to redis")
	return c, nil
}

// NewRedisCacheFromClient wraps an existing client.
func NewRedisCacheFromClient(client redis.UniversalClient, logger *logrus.Logger) (*RedisCache, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &RedisCache{client: client, logger: logger}, nil
}

func (r *RedisCache) AddExecution(ctx context.Context, exec *models.Execution) error {
	b, err := json.Marshal(exec)
	if err != nil {
		return fmt.Errorf("marshal execution: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, constants.RedisKeyRecentExecutions, b)
	pipe.LTrim(ctx, constants.RedisKeyRecentExecutions, 0, constants.MaxRecentExecutions-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("add execution: %w", err)
	}
	return nil
}

func (r *RedisCache) RecentExecutions(ctx context.Context, limit int64) ([]*models.Execution, error) {
	if limit <= 0 || limit > constants.MaxRecentExecutions {
		limit = constants.MaxRecentExecutions
	}

	vals, err := r.client.LRange(ctx, constants.RedisKeyRecentExecutions, 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("list executions: %w", err)
	}

	out := make([]*models.Execution, 0, len(vals))
	for _, v := range vals {
		var e models.Execution
		if err := json.Unmarshal([]byte(v), &e); err != nil {
			r.logger.WithError(err).Debug("skipping unreadable execution")
			continue
		}
		out = append(out, &e)
	}
	return out, nil
}

func (r *RedisCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}
