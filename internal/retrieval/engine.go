// Package retrieval finds passages semantically relevant to a query by
// embedding the query and searching the vector index, with cache-through
// reuse of recent result sets.
package retrieval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/adityaaditya98/news-article-ai-backend/internal/cache"
)

// DefaultTopK is the number of passages returned when the caller does not
// specify a limit.
const DefaultTopK = 3

// ErrBlankQuery indicates retrieval was asked to run on empty or
// whitespace-only text, which cannot be embedded.
var ErrBlankQuery = errors.New("blank retrieval query")

// Embedder resolves text to a vector. Satisfied by *embed.Resolver.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Searcher performs vector similarity search. Satisfied by *index.Index.
type Searcher interface {
	Search(ctx context.Context, vector []float32, limit int) ([]Passage, error)
}

// Engine wraps the vector index with query embedding and result caching.
//
// Engine is safe for concurrent use by multiple goroutines.
type Engine struct {
	embedder Embedder
	index    Searcher
	cache    *cache.Cache
	logger   *slog.Logger
}

// New creates an Engine.
func New(embedder Embedder, index Searcher, c *cache.Cache, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{embedder: embedder, index: index, cache: c, logger: logger}
}

// cacheKey builds the content-addressed key for a (query, k) pair. k is
// part of the key: result sets of different sizes must never share an
// entry.
func cacheKey(query string, k int) string {
	return fmt.Sprintf("%s%s:%d", cache.PrefixRetrieve, cache.Fingerprint(query), k)
}

// TopK returns the k most relevant passages for query, in the index's
// similarity-descending rank order (tie-break order is whatever the index
// returns; results are not re-sorted).
//
// Results are cached for cache.RetrievalTTL, which is short because
// ingestion keeps changing the underlying index. An embedding failure
// propagates;
// the engine never substitutes empty results for an error.
func (e *Engine) TopK(ctx context.Context, query string, k int) ([]Passage, error) {
	if k <= 0 {
		k = DefaultTopK
	}

	key := cacheKey(query, k)

	var passages []Passage
	hit, err := e.cache.Get(ctx, key, &passages)
	if err != nil {
		return nil, err
	}
	if hit {
		return passages, nil
	}

	vec, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("retrieve %q: %w", query, err)
	}
	if vec == nil {
		return nil, fmt.Errorf("retrieve: %w", ErrBlankQuery)
	}

	passages, err = e.index.Search(ctx, vec, k)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	if err := e.cache.Set(ctx, key, passages, cache.RetrievalTTL); err != nil {
		return nil, err
	}

	e.logger.Debug("retrieved passages", "k", k, "count", len(passages))
	return passages, nil
}
