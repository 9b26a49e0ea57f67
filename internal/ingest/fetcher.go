package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	readability "github.com/go-shiori/go-readability"
	"github.com/mmcdole/gofeed"
	"golang.org/x/time/rate"
)

// ErrEmptyFeed indicates a feed parsed successfully but contained no
// usable entries.
var ErrEmptyFeed = errors.New("feed has no entries")

const fetchTimeout = 30 * time.Second

// FetcherConfig tunes feed fetching.
type FetcherConfig struct {
	// PerSecond caps outbound HTTP requests. Zero or negative selects
	// one request per second.
	PerSecond float64

	// FullBody fetches each entry's linked page and runs readability
	// extraction instead of relying on the feed's own body. Slower, but
	// recovers full text from summary-only feeds.
	FullBody bool
}

// Fetcher turns feed URLs into normalized articles.
type Fetcher struct {
	parser   *gofeed.Parser
	client   *http.Client
	limiter  *rate.Limiter
	fullBody bool
	logger   *slog.Logger
}

// NewFetcher creates a Fetcher.
func NewFetcher(cfg FetcherConfig, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	perSecond := cfg.PerSecond
	if perSecond <= 0 {
		perSecond = 1
	}
	client := &http.Client{Timeout: fetchTimeout}
	parser := gofeed.NewParser()
	parser.Client = client
	return &Fetcher{
		parser:   parser,
		client:   client,
		limiter:  rate.NewLimiter(rate.Limit(perSecond), 1),
		fullBody: cfg.FullBody,
		logger:   logger,
	}
}

// FetchFeed downloads and parses one feed, returning its entries as
// articles in feed order. Entries with neither body nor link are
// dropped. Per-entry extraction failures degrade to the feed's own body
// rather than failing the whole feed.
func (f *Fetcher) FetchFeed(ctx context.Context, feedURL string) ([]Article, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	feed, err := f.parser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		return nil, fmt.Errorf("parse feed %q: %w", feedURL, err)
	}
	if len(feed.Items) == 0 {
		return nil, fmt.Errorf("feed %q: %w", feedURL, ErrEmptyFeed)
	}

	articles := make([]Article, 0, len(feed.Items))
	for _, item := range feed.Items {
		a, ok := f.toArticle(ctx, item)
		if !ok {
			continue
		}
		articles = append(articles, a)
	}

	f.logger.Info("fetched feed",
		"url", feedURL,
		"entries", len(feed.Items),
		"articles", len(articles),
	)
	return articles, nil
}

func (f *Fetcher) toArticle(ctx context.Context, item *gofeed.Item) (Article, bool) {
	body := item.Content
	if body == "" {
		body = item.Description
	}

	if f.fullBody && item.Link != "" {
		if extracted, err := f.extract(ctx, item.Link); err != nil {
			f.logger.Warn("readability extraction failed, using feed body",
				"link", item.Link, "error", err)
		} else if extracted != "" {
			body = extracted
		}
	}

	content := htmlToText(body)
	if content == "" && item.Title == "" {
		return Article{}, false
	}

	return Article{
		ID:      articleID(item.GUID, item.Link),
		Title:   collapseWhitespace(item.Title),
		Content: content,
		Link:    item.Link,
	}, true
}

// extract fetches the linked page and pulls the main article text out of
// its markup.
func (f *Fetcher) extract(ctx context.Context, link string) (string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}

	pageURL, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("parse link: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, link, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			f.logger.Warn("closing response body", "link", link, "error", cerr)
		}
	}()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch page: status %d", resp.StatusCode)
	}

	article, err := readability.FromReader(resp.Body, pageURL)
	if err != nil {
		return "", fmt.Errorf("extract article: %w", err)
	}
	return article.TextContent, nil
}
