package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/adityaaditya98/news-article-ai-backend/internal/index"
	"github.com/adityaaditya98/news-article-ai-backend/internal/retrieval"
)

// Embedder resolves text to a vector, satisfied by *embed.Resolver.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Upserter writes points into the vector index, satisfied by
// *index.Index.
type Upserter interface {
	Upsert(ctx context.Context, points []index.Point) error
}

// Indexer embeds articles and writes them into the vector index.
type Indexer struct {
	embedder Embedder
	index    Upserter
	logger   *slog.Logger
}

// NewIndexer creates an Indexer.
func NewIndexer(embedder Embedder, upserter Upserter, logger *slog.Logger) *Indexer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Indexer{embedder: embedder, index: upserter, logger: logger}
}

// IndexArticles embeds and upserts the given articles, returning the
// number actually indexed. Articles whose text embeds to nothing are
// skipped; an embedding or storage error aborts the batch.
func (ix *Indexer) IndexArticles(ctx context.Context, articles []Article) (int, error) {
	points := make([]index.Point, 0, len(articles))
	for _, a := range articles {
		vec, err := ix.embedder.Embed(ctx, embeddingText(a))
		if err != nil {
			return 0, fmt.Errorf("embed article %s: %w", a.ID, err)
		}
		if vec == nil {
			ix.logger.Warn("skipping article with empty text", "id", a.ID, "link", a.Link)
			continue
		}
		points = append(points, index.Point{
			ID:     a.ID,
			Vector: vec,
			Passage: retrieval.Passage{
				Title:   a.Title,
				Content: a.Content,
				Link:    a.Link,
			},
		})
	}

	if len(points) == 0 {
		return 0, nil
	}
	if err := ix.index.Upsert(ctx, points); err != nil {
		return 0, fmt.Errorf("upsert articles: %w", err)
	}

	ix.logger.Info("indexed articles", "count", len(points))
	return len(points), nil
}

// embeddingText is what gets vectorized for an article. Title and body
// together, so title-only matches still retrieve the article.
func embeddingText(a Article) string {
	if a.Title == "" {
		return a.Content
	}
	if a.Content == "" {
		return a.Title
	}
	return a.Title + "\n\n" + a.Content
}
