// Package flags stores per-operation kill switches in Redis so execution
// can be paused without restarting the API.
package flags

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	indexKey    = "switches:index"
	valuePrefix = "switches:"
	maxReason   = 256
)

// Operations that submit transactions and can therefore be switched off.
const (
	OpSwap         = "swap"
	OpOpenOrder    = "open-order"
	OpCancelOrders = "cancel-orders"
)

var switchable = map[string]bool{
	OpSwap:         true,
	OpOpenOrder:    true,
	OpCancelOrders: true,
}

type Store struct {
	client redis.Cmdable
}

func NewStore(client redis.Cmdable) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	return &Store{client: client}, nil
}

func ValidateOperation(op string) error {
	if !switchable[op] {
		return fmt.Errorf("operation %q cannot be switched", op)
	}
	return nil
}

func (s *Store) Set(ctx context.Context, op string, enabled bool, reason string) (*Switch, error) {
	if err := ValidateOperation(op); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if len(reason) > maxReason {
		reason = reason[:maxReason]
	}

	sw := &Switch{Operation: op, Enabled: enabled, Reason: reason, UpdatedAt: time.Now().UTC()}
	b, err := json.Marshal(sw)
	if err != nil {
		return nil, fmt.Errorf("marshal switch: %w", err)
	}

	pipe := s.client.TxPipeline()
	pipe.Set(ctx, switchKey(op), b, 0)
	pipe.SAdd(ctx, indexKey, op)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("set switch: %w", err)
	}

	return sw, nil
}

func (s *Store) Get(ctx context.Context, op string) (*Switch, error) {
	if err := ValidateOperation(op); err != nil {
		return nil, err
	}

	val, err := s.client.Get(ctx, switchKey(op)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get switch: %w", err)
	}

	var sw Switch
	if err := json.Unmarshal([]byte(val), &sw); err != nil {
		return nil, fmt.Errorf("unmarshal switch: %w", err)
	}
	return &sw, nil
}

// Enabled reports whether op may run. A missing switch means enabled.
func (s *Store) Enabled(ctx context.Context, op string) (bool, string, error) {
	sw, err := s.Get(ctx, op)
	if err == ErrNotFound {
		return true, "", nil
	}
	if err != nil {
		return false, "", err
	}
	return sw.Enabled, sw.Reason, nil
}

func (s *Store) List(ctx context.Context) ([]*Switch, error) {
	ops, err := s.client.SMembers(ctx, indexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list switches index: %w", err)
	}

	keys := make([]string, 0, len(ops))
	for _, op := range ops {
		if ValidateOperation(op) != nil {
			continue
		}
		keys = append(keys, switchKey(op))
	}
	if len(keys) == 0 {
		return []*Switch{}, nil
	}

	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("mget switches: %w", err)
	}

	out := make([]*Switch, 0, len(vals))
	for _, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var sw Switch
		if err := json.Unmarshal([]byte(str), &sw); err != nil {
			continue
		}
		out = append(out, &sw)
	}

	return out, nil
}

func (s *Store) Delete(ctx context.Context, op string) error {
	if err := ValidateOperation(op); err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, switchKey(op))
	pipe.SRem(ctx, indexKey, op)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("delete switch: %w", err)
	}

	return nil
}

func switchKey(op string) string {
	return valuePrefix + op
}
