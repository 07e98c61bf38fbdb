package storage

import (
	"context"
	"io"

	"github.com/aman-zulfiqar/jupiter-solana/internal/models"
)

// ExecutionCache keeps the latest executions for quick reads and fans them out to subscribers
type ExecutionCache interface {
	// AddExecution pushes an execution onto the recent list
	AddExecution(ctx context.Context, exec *models.Execution) error

	// RecentExecutions returns up to limit executions, newest first
	RecentExecutions(ctx context.Context, limit int64) ([]*models.Execution, error)

	// PublishExecution publishes an execution to the Pub/Sub channel
	PublishExecution(ctx context.Context, exec *models.Execution) error

	// SubscribeExecutions streams executions published after the call
	SubscribeExecutions(ctx context.Context) (<-chan *models.Execution, error)

	// Ping checks if the cache is reachable
	Ping(ctx context.Context) error

	// Close closes the cache connection
	io.Closer
}

// ExecutionStore defines the interface for persistent execution history
type ExecutionStore interface {
	// InsertExecution inserts an execution into the store
	InsertExecution(ctx context.Context, exec *models.Execution) error

	// Ping checks if the store is reachable
	Ping(ctx context.Context) error

	// Close closes the store connection
	io.Closer
}
