// Package ingest pulls articles from RSS/Atom feeds and pushes them into
// the vector index.
//
// The pipeline has two halves. Fetcher turns feed URLs into normalized
// Article values: it parses the feed, strips markup from entry bodies,
// and can optionally fetch the linked page and run readability
// extraction when feeds only carry summaries. Indexer embeds each
// article and upserts it into the index keyed by a stable ID, so
// re-ingesting a feed updates articles in place instead of duplicating
// them.
//
// Outbound HTTP is paced with a token-bucket limiter shared across all
// fetches, so bursts of feed entries do not hammer source sites.
package ingest
