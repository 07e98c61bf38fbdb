package swapengine

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/aman-zulfiqar/jupiter-solana/internal/models"
)

const journalTimeout = 3 * time.Second

// journal records a submitted transaction. The transaction is already on its
// way to the ledger, so failures here are logged and never returned.
func (e *Engine) journal(ctx context.Context, exec *models.Execution) {
	if e.cache == nil && e.store == nil {
		return
	}

	// the caller's context may be cancelled right after submission
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), journalTimeout)
	defer cancel()

	log := e.logger.WithFields(logrus.Fields{
		"execution_id": exec.ID,
		"kind":         exec.Kind,
		"signature":    exec.Signature,
	})

	if e.cache != nil {
		if err := e.cache.AddExecution(ctx, exec); err != nil {
			log.WithError(err).Warn("failed to cache execution")
		}
		if err := e.cache.PublishExecution(ctx, exec); err != nil {
			log.WithError(err).Warn("failed to publish execution")
		}
	}

	if e.store != nil {
		if err := e.store.InsertExecution(ctx, exec); err != nil {
			log.WithError(err).Warn("failed to store execution")
		}
	}
}

// RecentExecutions returns the latest journal entries, newest first. It
// returns nil when no cache is configured.
func (e *Engine) RecentExecutions(ctx context.Context, limit int64) ([]*models.Execution, error) {
	if e.cache == nil {
		return nil, nil
	}
	return e.cache.RecentExecutions(ctx, limit)
}

// SubscribeExecutions streams executions journaled after the call, from any
// process sharing the cache.
func (e *Engine) SubscribeExecutions(ctx context.Context) (<-chan *models.Execution, error) {
	if e.cache == nil {
		return nil, ErrNoJournal
	}
	return e.cache.SubscribeExecutions(ctx)
}
