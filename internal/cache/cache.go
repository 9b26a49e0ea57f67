// Package cache provides a TTL cache for expensive derived artifacts,
// backed by the same key-value store as session persistence but in its own
// key namespaces.
//
// Values are always JSON-encoded on write and JSON-decoded on read,
// regardless of input type. This keeps round-trips unambiguous: a cached
// string value comes back as a string, never reinterpreted as a number or
// other JSON literal.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"strconv"
	"time"

	"github.com/adityaaditya98/news-article-ai-backend/internal/store"
)

// Key namespace prefixes. Cache keys are content-addressed: a prefix plus a
// deterministic fingerprint of the input, so identical inputs always map to
// the same entry.
const (
	PrefixEmbed    = "embed:"
	PrefixRetrieve = "retrieve:"
)

// TTL policies per namespace. Embeddings of fixed text are a pure function
// of their input, so they keep for a day; retrieval results go stale as
// ingestion changes the index, so they keep for minutes.
const (
	EmbeddingTTL = 24 * time.Hour
	RetrievalTTL = 5 * time.Minute
)

// KV is the key-value contract the cache needs, satisfied by *store.Client.
type KV interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
}

// Cache stores JSON-serializable artifacts with per-entry TTLs.
//
// Cache is safe for concurrent use by multiple goroutines.
type Cache struct {
	kv     KV
	logger *slog.Logger
}

// New creates a Cache on top of the given key-value client.
func New(kv KV, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{kv: kv, logger: logger}
}

// Set serializes v to JSON and stores it under key with the given TTL.
func (c *Cache) Set(ctx context.Context, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal cache value for %q: %w", key, err)
	}

	if err := c.kv.Set(ctx, key, string(data), ttl); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}

	c.logger.Debug("cache set", "key", key, "ttl", ttl)
	return nil
}

// Get looks up key and decodes the cached JSON into dest. It reports
// whether the entry was present. A miss is not an error; store failures
// propagate. Reads never extend an entry's TTL.
func (c *Cache) Get(ctx context.Context, key string, dest any) (bool, error) {
	raw, err := c.kv.Get(ctx, key)
	if errors.Is(err, store.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get: %w", err)
	}

	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, fmt.Errorf("decode cache value for %q: %w", key, err)
	}

	c.logger.Debug("cache hit", "key", key)
	return true, nil
}

// Fingerprint returns a deterministic, order-sensitive digest of s as
// lowercase hex. It uses FNV-1a, which is fast and non-cryptographic;
// distinct inputs may collide with negligible probability, which is an
// accepted risk for cache addressing.
func Fingerprint(s string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s)) // never fails
	return strconv.FormatUint(h.Sum64(), 16)
}
