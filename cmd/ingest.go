package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/adityaaditya98/news-article-ai-backend/internal/app"
	"github.com/adityaaditya98/news-article-ai-backend/internal/config"
)

// runIngest performs one ingestion pass over the configured feeds and
// exits. Intended for cron-style scheduling.
func runIngest() error {
	logger := initLogger()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("shutdown error", "error", closeErr)
		}
	}()

	n, err := a.Ingest.IngestAll(ctx)
	if err != nil {
		return fmt.Errorf("ingesting feeds: %w", err)
	}

	logger.Info("ingestion complete", "indexed", n)
	fmt.Printf("indexed %d articles\n", n)
	return nil
}
