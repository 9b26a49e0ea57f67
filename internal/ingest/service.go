package ingest

import (
	"context"
	"errors"
	"log/slog"
)

// ErrNoFeeds indicates the service was asked to ingest with no feeds
// configured.
var ErrNoFeeds = errors.New("no feeds configured")

// FeedSource fetches articles for one feed, satisfied by *Fetcher.
type FeedSource interface {
	FetchFeed(ctx context.Context, feedURL string) ([]Article, error)
}

// ArticleSink indexes a batch of articles, satisfied by *Indexer.
type ArticleSink interface {
	IndexArticles(ctx context.Context, articles []Article) (int, error)
}

// Service runs the full ingestion pass over a configured feed list.
type Service struct {
	source FeedSource
	sink   ArticleSink
	feeds  []string
	logger *slog.Logger
}

// NewService creates a Service over the given feed URLs.
func NewService(source FeedSource, sink ArticleSink, feeds []string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{source: source, sink: sink, feeds: feeds, logger: logger}
}

// IngestAll fetches and indexes every configured feed, returning the
// total number of articles indexed. A failing feed is logged and
// skipped; the error is returned only when every feed fails, so one
// dead source cannot starve the rest.
func (s *Service) IngestAll(ctx context.Context) (int, error) {
	if len(s.feeds) == 0 {
		return 0, ErrNoFeeds
	}

	total := 0
	var errs []error
	for _, feedURL := range s.feeds {
		articles, err := s.source.FetchFeed(ctx, feedURL)
		if err != nil {
			s.logger.Warn("skipping failed feed", "url", feedURL, "error", err)
			errs = append(errs, err)
			continue
		}
		n, err := s.sink.IndexArticles(ctx, articles)
		if err != nil {
			s.logger.Warn("indexing failed for feed", "url", feedURL, "error", err)
			errs = append(errs, err)
			continue
		}
		total += n
	}

	if len(errs) == len(s.feeds) {
		return 0, errors.Join(errs...)
	}
	return total, nil
}
