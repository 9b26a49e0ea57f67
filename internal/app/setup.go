package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/firebase/genkit/go/genkit"
	"github.com/firebase/genkit/go/plugins/googlegenai"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxvector "github.com/pgvector/pgvector-go/pgx"

	"github.com/adityaaditya98/news-article-ai-backend/db"
	"github.com/adityaaditya98/news-article-ai-backend/internal/cache"
	"github.com/adityaaditya98/news-article-ai-backend/internal/chat"
	"github.com/adityaaditya98/news-article-ai-backend/internal/config"
	"github.com/adityaaditya98/news-article-ai-backend/internal/embed"
	"github.com/adityaaditya98/news-article-ai-backend/internal/index"
	"github.com/adityaaditya98/news-article-ai-backend/internal/ingest"
	"github.com/adityaaditya98/news-article-ai-backend/internal/llm"
	"github.com/adityaaditya98/news-article-ai-backend/internal/observability"
	"github.com/adityaaditya98/news-article-ai-backend/internal/retrieval"
	"github.com/adityaaditya98/news-article-ai-backend/internal/session"
	"github.com/adityaaditya98/news-article-ai-backend/internal/store"
)

// Setup creates and initializes the application.
// Returns an App with embedded cleanup — call Close() to release.
func Setup(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *App, retErr error) {
	if logger == nil {
		logger = slog.Default()
	}
	a := &App{Config: cfg, Logger: logger}

	// On error, clean up everything already initialized.
	defer func() {
		if retErr != nil {
			if err := a.Close(); err != nil {
				logger.Warn("cleanup during setup failure", "error", err)
			}
		}
	}()

	a.otelCleanup = provideOtelShutdown(ctx, cfg, logger)

	a.Store = store.New(store.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, logger)

	pool, err := provideDBPool(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.DBPool = pool

	g, err := provideGenkit(ctx, logger)
	if err != nil {
		return nil, err
	}
	a.Genkit = g

	a.Embedder = googlegenai.GoogleAIEmbedder(g, cfg.EmbedderModel)
	if a.Embedder == nil {
		return nil, fmt.Errorf("embedder %q not found", cfg.EmbedderModel)
	}

	a.Cache = cache.New(a.Store, logger)
	a.Resolver = embed.New(a.Embedder, a.Cache, logger)
	a.Index = index.New(pool, logger)
	a.Engine = retrieval.New(a.Resolver, a.Index, a.Cache, logger)
	a.Generator = llm.NewGenerator(g, cfg.FullModelName(), logger)
	a.Sessions = session.New(a.Store, cfg.SessionTTL(), logger)
	a.Chat = chat.New(a.Sessions, a.Engine, a.Generator, logger)

	fetcher := ingest.NewFetcher(ingest.FetcherConfig{
		PerSecond: cfg.FetchPerSecond,
		FullBody:  cfg.FullArticleBody,
	}, logger)
	indexer := ingest.NewIndexer(a.Resolver, a.Index, logger)
	a.Ingest = ingest.NewService(fetcher, indexer, cfg.FeedURLs, logger)

	return a, nil
}

// provideOtelShutdown sets up OTLP trace export before Genkit
// initialization. An empty endpoint disables export entirely.
func provideOtelShutdown(ctx context.Context, cfg *config.Config, logger *slog.Logger) func() {
	if cfg.OTLPEndpoint == "" {
		return func() {}
	}

	shutdown, err := observability.Setup(ctx, observability.Config{
		Endpoint:    cfg.OTLPEndpoint,
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		logger.Warn("setting up trace export, tracing disabled", "error", err)
		return func() {}
	}

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			logger.Warn("shutting down tracer provider", "error", err)
		}
	}
}

// provideGenkit initializes Genkit with the Google AI plugin. The
// GEMINI_API_KEY environment variable is read by the plugin itself.
func provideGenkit(ctx context.Context, logger *slog.Logger) (*genkit.Genkit, error) {
	g := genkit.Init(ctx, genkit.WithPlugins(&googlegenai.GoogleAI{}))
	if g == nil {
		return nil, errors.New("initializing genkit")
	}
	logger.Info("initialized Genkit with googleai provider")
	return g, nil
}

// provideDBPool runs migrations and creates a PostgreSQL connection
// pool with pgvector types registered on every connection.
func provideDBPool(ctx context.Context, cfg *config.Config) (*pgxpool.Pool, error) {
	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing connection config: %w", err)
	}

	poolCfg.MaxConns = 10
	poolCfg.MinConns = 2
	poolCfg.MaxConnLifetime = 30 * time.Minute
	poolCfg.MaxConnIdleTime = 5 * time.Minute
	poolCfg.HealthCheckPeriod = 1 * time.Minute
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvector.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	pingCtx, pingCancel := context.WithTimeout(ctx, 5*time.Second)
	defer pingCancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return pool, nil
}
