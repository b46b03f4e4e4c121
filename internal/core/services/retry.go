package services

import (
	"context"

	"github.com/sethvargo/go-retry"

	"github.com/praxos-ai/groundwork/internal/core/domain"
	"github.com/praxos-ai/groundwork/internal/logger"
)

// withRetry runs op, retrying transient provider failures with
// exponential backoff. Permanent failures are returned immediately.
func withRetry(ctx context.Context, cfg domain.RetrySettings, op func(ctx context.Context) error) error {
	if cfg.MaxAttempts <= 0 {
		return op(ctx)
	}

	backoff := retry.WithMaxRetries(uint64(cfg.MaxAttempts), retry.NewExponential(cfg.BaseDelay))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		err := op(ctx)
		if err != nil && domain.IsTransient(err) {
			logger.Debug("Transient provider failure, retrying: %v", err)
			return retry.RetryableError(err)
		}
		return err
	})
}
