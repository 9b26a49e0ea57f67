// Package store provides the Redis-backed key-value client that underpins
// session persistence and derived-artifact caching.
//
// The client is the sole owner of the Redis connection. Session records and
// cache entries share the same database but occupy disjoint key namespaces
// by convention: session keys are bare identifiers, cache keys carry an
// "embed:" or "retrieve:" prefix. Callers must not break this convention,
// since a collision between a session ID and a cache key would corrupt
// either record.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Sentinel errors for store operations; check with errors.Is().
var (
	// ErrKeyNotFound indicates the requested key does not exist.
	ErrKeyNotFound = errors.New("key not found")

	// ErrStoreUnavailable indicates a connectivity or server failure.
	// Dependents must surface this rather than degrade to empty data,
	// and must not retry within the same request.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// Config holds Redis connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// Client wraps a Redis connection with TTL-aware get/set semantics.
//
// Client is safe for concurrent use by multiple goroutines.
type Client struct {
	rdb    *redis.Client
	logger *slog.Logger
}

// New creates a Client for the given Redis address.
// The connection is lazy; use HealthCheck to verify reachability.
func New(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		rdb: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		logger: logger,
	}
}

// Set stores value under key with the given TTL, replacing any prior value
// and expiry entirely. Every Set resets the key's expiry countdown.
func (c *Client) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := c.rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("set %q: %w: %w", key, ErrStoreUnavailable, err)
	}
	return nil
}

// Get returns the value stored under key, or ErrKeyNotFound if the key does
// not exist or has expired. Get does not extend the key's TTL.
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("get %q: %w", key, ErrKeyNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("get %q: %w: %w", key, ErrStoreUnavailable, err)
	}
	return val, nil
}

// Keys returns all currently live keys matching the glob pattern.
// Intended for administrative enumeration, not hot paths.
func (c *Client) Keys(ctx context.Context, pattern string) ([]string, error) {
	keys, err := c.rdb.Keys(ctx, pattern).Result()
	if err != nil {
		return nil, fmt.Errorf("keys %q: %w: %w", pattern, ErrStoreUnavailable, err)
	}
	return keys, nil
}

// healthProbeKey is reserved for HealthCheck round-trips. The "health:"
// prefix keeps it out of the administrative session-ID listing.
const healthProbeKey = "health:probe"

// HealthCheck verifies connectivity with a set/get round-trip of a probe
// value. It is an explicit operation invoked deliberately (at startup or
// from a health endpoint), never an implicit side effect.
func (c *Client) HealthCheck(ctx context.Context) error {
	probe := fmt.Sprintf("ok-%d", time.Now().UnixNano())

	if err := c.Set(ctx, healthProbeKey, probe, 10*time.Second); err != nil {
		return fmt.Errorf("health probe write: %w", err)
	}

	got, err := c.Get(ctx, healthProbeKey)
	if err != nil {
		return fmt.Errorf("health probe read: %w", err)
	}
	if got != probe {
		return fmt.Errorf("health probe mismatch: got %q, want %q", got, probe)
	}

	c.logger.Debug("store health check passed")
	return nil
}

// Close releases the underlying connection pool.
func (c *Client) Close() error {
	return c.rdb.Close()
}
