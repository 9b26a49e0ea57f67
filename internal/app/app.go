// Package app wires the application together: configuration, stores,
// the AI provider, the retrieval pipeline, and the ingestion service.
//
// Setup builds every component in dependency order and returns an App
// holding the wired graph. Call Close to release connections.
package app

import (
	"log/slog"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adityaaditya98/news-article-ai-backend/internal/cache"
	"github.com/adityaaditya98/news-article-ai-backend/internal/chat"
	"github.com/adityaaditya98/news-article-ai-backend/internal/config"
	"github.com/adityaaditya98/news-article-ai-backend/internal/embed"
	"github.com/adityaaditya98/news-article-ai-backend/internal/index"
	"github.com/adityaaditya98/news-article-ai-backend/internal/ingest"
	"github.com/adityaaditya98/news-article-ai-backend/internal/llm"
	"github.com/adityaaditya98/news-article-ai-backend/internal/retrieval"
	"github.com/adityaaditya98/news-article-ai-backend/internal/session"
	"github.com/adityaaditya98/news-article-ai-backend/internal/store"
)

// App is the core application container.
type App struct {
	Config *config.Config
	Logger *slog.Logger

	// Infrastructure
	Store  *store.Client
	DBPool *pgxpool.Pool
	Genkit *genkit.Genkit

	// Domain components
	Embedder  ai.Embedder
	Cache     *cache.Cache
	Resolver  *embed.Resolver
	Index     *index.Index
	Engine    *retrieval.Engine
	Generator *llm.Generator
	Sessions  *session.Store
	Chat      *chat.Orchestrator
	Ingest    *ingest.Service

	otelCleanup func()
}

// Close gracefully releases all resources. Safe to call on a partially
// initialized App.
func (a *App) Close() error {
	a.logger().Info("shutting down application")

	if a.DBPool != nil {
		a.DBPool.Close()
		a.logger().Info("database pool closed")
	}
	if a.Store != nil {
		if err := a.Store.Close(); err != nil {
			a.logger().Warn("closing key-value store", "error", err)
		}
	}
	if a.otelCleanup != nil {
		a.otelCleanup()
	}
	return nil
}

func (a *App) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.Default()
}
