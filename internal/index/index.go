// Package index stores article embeddings in PostgreSQL with pgvector and
// serves cosine-similarity search over them.
//
// The collection schema (articles table, vector dimension, cosine operator
// class) is fixed at migration time; see db/migrations.
package index

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pgvector/pgvector-go"

	"github.com/adityaaditya98/news-article-ai-backend/internal/retrieval"
)

// Dimension is the embedding vector size the articles table is declared
// with. Embedder output must match; see config validation.
const Dimension = 768

// Point is one article plus its embedding, ready for upsert.
type Point struct {
	ID      string
	Vector  []float32
	Passage retrieval.Passage
}

// DB is the subset of pgxpool.Pool the index needs. pgvector types must be
// registered on the pool's connections (see app wiring).
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Index is the pgvector-backed article index.
//
// Index is safe for concurrent use by multiple goroutines.
type Index struct {
	db     DB
	logger *slog.Logger
}

// New creates an Index over the given database handle.
func New(db DB, logger *slog.Logger) *Index {
	if logger == nil {
		logger = slog.Default()
	}
	return &Index{db: db, logger: logger}
}

const upsertSQL = `
INSERT INTO articles (id, title, content, link, embedding)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (id) DO UPDATE
SET title = EXCLUDED.title,
    content = EXCLUDED.content,
    link = EXCLUDED.link,
    embedding = EXCLUDED.embedding`

// Upsert inserts or replaces the given points. Re-ingesting an article
// with the same ID overwrites its content and embedding.
func (ix *Index) Upsert(ctx context.Context, points []Point) error {
	for _, p := range points {
		if len(p.Vector) != Dimension {
			return fmt.Errorf("upsert %q: vector dimension %d, want %d", p.ID, len(p.Vector), Dimension)
		}

		var link *string
		if p.Passage.Link != "" {
			link = &p.Passage.Link
		}

		vec := pgvector.NewVector(p.Vector)
		if _, err := ix.db.Exec(ctx, upsertSQL, p.ID, p.Passage.Title, p.Passage.Content, link, vec); err != nil {
			return fmt.Errorf("upsert %q: %w", p.ID, err)
		}
	}

	ix.logger.Debug("upserted points", "count", len(points))
	return nil
}

const searchSQL = `
SELECT title, content, link
FROM articles
ORDER BY embedding <=> $1
LIMIT $2`

// Search returns up to limit passages ranked by cosine similarity to
// vector, most similar first. Tie-break order is whatever PostgreSQL
// returns.
func (ix *Index) Search(ctx context.Context, vector []float32, limit int) ([]retrieval.Passage, error) {
	vec := pgvector.NewVector(vector)

	rows, err := ix.db.Query(ctx, searchSQL, vec, limit)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	defer rows.Close()

	passages := make([]retrieval.Passage, 0, limit)
	for rows.Next() {
		var p retrieval.Passage
		var link *string
		if err := rows.Scan(&p.Title, &p.Content, &link); err != nil {
			return nil, fmt.Errorf("scan search row: %w", err)
		}
		if link != nil {
			p.Link = *link
		}
		passages = append(passages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("search rows: %w", err)
	}

	return passages, nil
}
