// Package embedcache memoises embedding computation behind the
// driven.EmbeddingService interface.
//
// The cache is a decorator: it wraps a real provider and can be injected
// anywhere a provider is expected. Entries are keyed by a fingerprint of the
// normalised text and the model id, bounded by a least-recently-used
// eviction policy, and duplicate concurrent misses for the same key are
// coalesced into a single provider call.
package embedcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/praxos-ai/groundwork/internal/core/ports/driven"
)

// DefaultCapacity is the default maximum number of cached embeddings.
const DefaultCapacity = 1000

// Ensure Cache implements the interface.
var _ driven.EmbeddingService = (*Cache)(nil)

// Cache is an LRU-bounded, single-flight embedding cache.
type Cache struct {
	provider driven.EmbeddingService
	entries  *lru.Cache[string, []float32]
	group    singleflight.Group
}

// New wraps provider with a cache holding at most capacity embeddings.
func New(provider driven.EmbeddingService, capacity int) (*Cache, error) {
	if provider == nil {
		return nil, fmt.Errorf("embedcache: provider is required")
	}
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	entries, err := lru.New[string, []float32](capacity)
	if err != nil {
		return nil, fmt.Errorf("embedcache: %w", err)
	}
	return &Cache{provider: provider, entries: entries}, nil
}

// Embed returns the cached embedding for text, computing and storing it on a
// miss. Concurrent callers for the same uncached key share one provider
// call; the provider is never called for a key already in flight. A failed
// provider call leaves no entry behind.
func (c *Cache) Embed(ctx context.Context, text string) ([]float32, error) {
	key := c.key(text)
	if vec, ok := c.entries.Get(key); ok {
		return clone(vec), nil
	}

	result, err, _ := c.group.Do(key, func() (any, error) {
		// A concurrent caller may have published the entry while this
		// call waited its turn.
		if vec, ok := c.entries.Get(key); ok {
			return vec, nil
		}
		vec, err := c.provider.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		c.entries.Add(key, vec)
		return vec, nil
	})
	if err != nil {
		return nil, err
	}
	return clone(result.([]float32)), nil
}

// EmbedBatch returns embeddings for all texts, issuing a single provider
// batch call covering only the uncached, deduplicated texts.
func (c *Cache) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	out := make([][]float32, len(texts))
	var missing []string
	missingKeys := make(map[string]int)

	for i, text := range texts {
		key := c.key(text)
		if vec, ok := c.entries.Get(key); ok {
			out[i] = clone(vec)
			continue
		}
		if _, seen := missingKeys[key]; !seen {
			missingKeys[key] = len(missing)
			missing = append(missing, text)
		}
	}

	if len(missing) > 0 {
		vectors, err := c.provider.EmbedBatch(ctx, missing)
		if err != nil {
			return nil, err
		}
		if len(vectors) != len(missing) {
			return nil, fmt.Errorf("embedcache: provider returned %d vectors for %d texts",
				len(vectors), len(missing))
		}
		for i, text := range missing {
			c.entries.Add(c.key(text), vectors[i])
		}
		for i, text := range texts {
			if out[i] != nil {
				continue
			}
			out[i] = clone(vectors[missingKeys[c.key(text)]])
		}
	}
	return out, nil
}

// Dimensions returns the wrapped provider's vector size.
func (c *Cache) Dimensions() int {
	return c.provider.Dimensions()
}

// ModelName returns the wrapped provider's model name.
func (c *Cache) ModelName() string {
	return c.provider.ModelName()
}

// Ping validates the wrapped provider is reachable.
func (c *Cache) Ping(ctx context.Context) error {
	return c.provider.Ping(ctx)
}

// Close releases the wrapped provider's resources.
func (c *Cache) Close() error {
	c.entries.Purge()
	return c.provider.Close()
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// key fingerprints the normalised text together with the model id, so that
// whitespace variations hit the same entry and model changes never collide.
func (c *Cache) key(text string) string {
	normalised := strings.Join(strings.Fields(text), " ")
	sum := sha256.Sum256([]byte(c.provider.ModelName() + "\x00" + normalised))
	return hex.EncodeToString(sum[:])
}

// clone copies a cached vector so callers cannot mutate shared entries.
func clone(vec []float32) []float32 {
	out := make([]float32, len(vec))
	copy(out, vec)
	return out
}
