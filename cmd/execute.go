// Package cmd contains the command-line entry points: the HTTP API
// server, one-shot feed ingestion, and version/help output.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/adityaaditya98/news-article-ai-backend/internal/log"
)

// Version information (injected at build time via ldflags).
var (
	AppVersion = "0.1.0"
	BuildTime  = "unknown"
	GitCommit  = "unknown"
)

// Execute is the main entry point, called from main(). It routes the
// first argument to a subcommand; version and help work even when
// configuration is invalid.
func Execute() error {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version", "--version", "-v":
			printVersionInfo()
			return nil
		case "help", "--help", "-h":
			printHelp()
			return nil
		case "serve":
			return runServe()
		case "ingest":
			return runIngest()
		default:
			printHelp()
			return fmt.Errorf("unknown command %q", os.Args[1])
		}
	}

	printHelp()
	return nil
}

// initLogger builds the process-wide structured logger. The DEBUG
// environment variable (any value) lowers the level to debug.
func initLogger() *slog.Logger {
	logger := log.New(log.Config{
		Level: slog.LevelInfo,
		JSON:  os.Getenv("NEWSRAG_LOG_JSON") != "",
	})
	if os.Getenv("DEBUG") != "" {
		logger = log.New(log.Config{
			Level: slog.LevelDebug,
			JSON:  os.Getenv("NEWSRAG_LOG_JSON") != "",
		})
	}
	slog.SetDefault(logger)
	return logger
}

func printVersionInfo() {
	fmt.Printf("newsrag v%s\n", AppVersion)
	fmt.Printf("Build: %s\n", BuildTime)
	fmt.Printf("Commit: %s\n", GitCommit)
}

func printHelp() {
	fmt.Println("newsrag - news article RAG backend")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  newsrag serve      Start the HTTP API server")
	fmt.Println("  newsrag ingest     Fetch and index configured feeds, then exit")
	fmt.Println("  newsrag version    Show version information")
	fmt.Println("  newsrag help       Show this help")
	fmt.Println()
	fmt.Println("Environment Variables:")
	fmt.Println("  GEMINI_API_KEY            Required: Gemini API key")
	fmt.Println("  DATABASE_URL              PostgreSQL connection URL")
	fmt.Println("  NEWSRAG_REDIS_ADDR        Redis address (default localhost:6379)")
	fmt.Println("  NEWSRAG_FEED_URLS         Feed URLs for ingestion")
	fmt.Println("  DEBUG                     Optional: enable debug logging")
}
