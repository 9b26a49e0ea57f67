// Package embed resolves text to embedding vectors through the configured
// provider, with cache-through reuse of previously computed vectors.
package embed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/firebase/genkit/go/ai"

	"github.com/adityaaditya98/news-article-ai-backend/internal/cache"
)

// ErrNoEmbedding indicates the provider's response contained no usable
// vector. It aborts retrieval and any enclosing chat turn.
var ErrNoEmbedding = errors.New("embedding provider returned no vector")

// Resolver wraps an embedding provider with cache-through lookup.
// Embeddings of fixed text are a pure function of their input, so cached
// vectors are reused for a long TTL.
//
// Resolver is safe for concurrent use by multiple goroutines.
type Resolver struct {
	embedder ai.Embedder
	cache    *cache.Cache
	logger   *slog.Logger
}

// New creates a Resolver around the given provider and cache.
func New(embedder ai.Embedder, c *cache.Cache, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{embedder: embedder, cache: c, logger: logger}
}

// Embed returns the embedding vector for text.
//
// Empty or whitespace-only input returns (nil, nil) without calling the
// provider. Cache hits skip the provider entirely; misses make a single
// provider attempt (no retries) and cache the result for cache.EmbeddingTTL.
func (r *Resolver) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}

	key := cache.PrefixEmbed + cache.Fingerprint(text)

	var vec []float32
	hit, err := r.cache.Get(ctx, key, &vec)
	if err != nil {
		return nil, err
	}
	if hit {
		return vec, nil
	}

	resp, err := r.embedder.Embed(ctx, &ai.EmbedRequest{
		Input: []*ai.Document{ai.DocumentFromText(text, nil)},
	})
	if err != nil {
		return nil, fmt.Errorf("embed request: %w", err)
	}
	if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Embedding) == 0 {
		return nil, ErrNoEmbedding
	}

	vec = resp.Embeddings[0].Embedding
	if err := r.cache.Set(ctx, key, vec, cache.EmbeddingTTL); err != nil {
		return nil, err
	}

	r.logger.Debug("embedded text", "key", key, "dimension", len(vec))
	return vec, nil
}
