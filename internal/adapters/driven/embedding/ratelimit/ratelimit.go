// Package ratelimit provides a client-side QPS cap for embedding providers.
// It is a decorator over driven.EmbeddingService, applied between the cache
// and the real provider so only cache misses consume the budget.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/praxos-ai/groundwork/internal/core/ports/driven"
)

// Ensure Limiter implements the interface.
var _ driven.EmbeddingService = (*Limiter)(nil)

// Limiter throttles provider calls to a configured rate.
type Limiter struct {
	provider driven.EmbeddingService
	limiter  *rate.Limiter
}

// Wrap caps provider calls at rps requests per second with a burst of one.
// A non-positive rps returns the provider unwrapped.
func Wrap(provider driven.EmbeddingService, rps float64) driven.EmbeddingService {
	if rps <= 0 {
		return provider
	}
	return &Limiter{
		provider: provider,
		limiter:  rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// Embed waits for the rate limiter, then delegates.
func (l *Limiter) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return l.provider.Embed(ctx, text)
}

// EmbedBatch waits for the rate limiter once per batch, then delegates.
func (l *Limiter) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if err := l.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return l.provider.EmbedBatch(ctx, texts)
}

// Dimensions returns the wrapped provider's vector size.
func (l *Limiter) Dimensions() int {
	return l.provider.Dimensions()
}

// ModelName returns the wrapped provider's model name.
func (l *Limiter) ModelName() string {
	return l.provider.ModelName()
}

// Ping validates the wrapped provider is reachable.
func (l *Limiter) Ping(ctx context.Context) error {
	return l.provider.Ping(ctx)
}

// Close releases the wrapped provider's resources.
func (l *Limiter) Close() error {
	return l.provider.Close()
}
