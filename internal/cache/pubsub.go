package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aman-zulfiqar/jupiter-solana/internal/constants"
	"github.com/aman-zulfiqar/jupiter-solana/internal/models"
)

// PublishExecution publishes exec on the executions channel.
func (r *RedisCache) PublishExecution(ctx context.Context, exec *models.Execution) error {
	data, err := json.Marshal(exec)
	if err != nil {
		return err
	}
	if err := r.client.Publish(ctx, constants.PubSubChannelExecutions, data).Err(); err != nil {
		return fmt.Errorf("publish execution: %w", err)
	}
	return nil
}

// SubscribeExecutions returns a channel of executions published after the
// subscription is confirmed. The channel closes when ctx is done.
func (r *RedisCache) SubscribeExecutions(ctx context.Context) (<-chan *models.Execution, error) {
	pubsub := r.client.Subscribe(ctx, constants.PubSubChannelExecutions)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe executions: %w", err)
	}

	r.logger.WithField("channel", constants.PubSubChannelExecutions).Info("subscribed to executions")

	out := make(chan *models.Execution, 16)
	go func() {
		defer close(out)
		defer pubsub.Close()

		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var exec models.Execution
				if err := json.Unmarshal([]byte(msg.Payload), &exec); err != nil {
					r.logger.WithError(err).Warn("error unmarshaling execution")
					continue
				}
				select {
				case out <- &exec:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
