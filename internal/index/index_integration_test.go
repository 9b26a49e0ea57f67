package index

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxvector "github.com/pgvector/pgvector-go/pgx"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/adityaaditya98/news-article-ai-backend/db"
	"github.com/adityaaditya98/news-article-ai-backend/internal/log"
	"github.com/adityaaditya98/news-article-ai-backend/internal/retrieval"
)

// setupTestIndex starts a pgvector-enabled PostgreSQL container, runs the
// embedded migrations, and returns an Index over it.
func setupTestIndex(t *testing.T) *Index {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container-based integration test in short mode")
	}

	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"pgvector/pgvector:pg16",
		postgres.WithDatabase("news_test"),
		postgres.WithUsername("news_test"),
		postgres.WithPassword("test_password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("starting postgres container: %v", err)
	}
	t.Cleanup(func() { _ = pgContainer.Terminate(context.Background()) })

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("connection string: %v", err)
	}

	if err := db.Migrate(connStr); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	poolCfg, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("parsing pool config: %v", err)
	}
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvector.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		t.Fatalf("creating pool: %v", err)
	}
	t.Cleanup(pool.Close)

	return New(pool, log.NewNop())
}

// axisVector returns a unit vector along the given axis, padded to the
// index dimension, so cosine ordering in the test is exact.
func axisVector(axis int, lean float32) []float32 {
	v := make([]float32, Dimension)
	v[axis] = 1
	if lean != 0 {
		v[(axis+1)%Dimension] = lean
	}
	return v
}

func TestUpsertAndSearchOrdering(t *testing.T) {
	ix := setupTestIndex(t)
	ctx := context.Background()

	points := []Point{
		{ID: "a1", Vector: axisVector(0, 0), Passage: retrieval.Passage{Title: "Exact match", Content: "C1", Link: "https://example.com/a1"}},
		{ID: "a2", Vector: axisVector(0, 0.5), Passage: retrieval.Passage{Title: "Close match", Content: "C2"}},
		{ID: "a3", Vector: axisVector(1, 0), Passage: retrieval.Passage{Title: "Orthogonal", Content: "C3"}},
	}
	if err := ix.Upsert(ctx, points); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := ix.Search(ctx, axisVector(0, 0), 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Title != "Exact match" || got[1].Title != "Close match" {
		t.Errorf("rank order = [%s, %s], want [Exact match, Close match]", got[0].Title, got[1].Title)
	}
	if got[0].Link != "https://example.com/a1" {
		t.Errorf("link = %q, want preserved link", got[0].Link)
	}
	if got[1].Link != "" {
		t.Errorf("link = %q, want empty for NULL link", got[1].Link)
	}
}

func TestUpsertReplacesExisting(t *testing.T) {
	ix := setupTestIndex(t)
	ctx := context.Background()

	orig := Point{ID: "a1", Vector: axisVector(0, 0), Passage: retrieval.Passage{Title: "Old title", Content: "Old"}}
	if err := ix.Upsert(ctx, []Point{orig}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	updated := orig
	updated.Passage = retrieval.Passage{Title: "New title", Content: "New"}
	if err := ix.Upsert(ctx, []Point{updated}); err != nil {
		t.Fatalf("Upsert (replace): %v", err)
	}

	got, err := ix.Search(ctx, axisVector(0, 0), 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1 (same ID must not duplicate)", len(got))
	}
	if got[0].Title != "New title" {
		t.Errorf("title = %q, want replaced content", got[0].Title)
	}
}

func TestUpsertRejectsWrongDimension(t *testing.T) {
	ix := &Index{logger: log.NewNop()}

	err := ix.Upsert(context.Background(), []Point{{ID: "bad", Vector: []float32{1, 2, 3}}})
	if err == nil {
		t.Fatal("expected dimension error")
	}
	want := fmt.Sprintf("want %d", Dimension)
	if got := err.Error(); !strings.Contains(got, want) {
		t.Errorf("err = %q, want mention of expected dimension", got)
	}
}
