package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praxos-ai/groundwork/internal/core/domain"
)

func transientErr() error {
	return &domain.ProviderError{
		Provider: "ollama", Op: "embed", Kind: domain.KindUnavailable, Err: assert.AnError,
	}
}

func permanentErr() error {
	return &domain.ProviderError{
		Provider: "ollama", Op: "embed", Kind: domain.KindAuth, Err: assert.AnError,
	}
}

func TestWithRetry_DisabledRunsOnce(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), domain.RetrySettings{}, func(context.Context) error {
		calls++
		return transientErr()
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_TransientFailureRecovers(t *testing.T) {
	calls := 0
	cfg := domain.RetrySettings{MaxAttempts: 3, BaseDelay: 1}
	err := withRetry(context.Background(), cfg, func(context.Context) error {
		calls++
		if calls < 3 {
			return transientErr()
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestWithRetry_TransientFailureExhausts(t *testing.T) {
	calls := 0
	cfg := domain.RetrySettings{MaxAttempts: 2, BaseDelay: 1}
	err := withRetry(context.Background(), cfg, func(context.Context) error {
		calls++
		return transientErr()
	})
	require.Error(t, err)
	assert.Equal(t, 3, calls, "initial call plus two retries")

	var pe *domain.ProviderError
	assert.ErrorAs(t, err, &pe)
}

func TestWithRetry_PermanentFailureNotRetried(t *testing.T) {
	calls := 0
	cfg := domain.RetrySettings{MaxAttempts: 5, BaseDelay: 1}
	err := withRetry(context.Background(), cfg, func(context.Context) error {
		calls++
		return permanentErr()
	})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_Success(t *testing.T) {
	cfg := domain.RetrySettings{MaxAttempts: 2, BaseDelay: 1}
	err := withRetry(context.Background(), cfg, func(context.Context) error {
		return nil
	})
	assert.NoError(t, err)
}
