package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adityaaditya98/news-article-ai-backend/internal/cache"
	"github.com/adityaaditya98/news-article-ai-backend/internal/store"
)

// DefaultTTL is the session expiry measured from the most recent write.
const DefaultTTL = 1800 * time.Second

// minIDLength is the shortest key the administrative listing treats as a
// session ID. Shorter keys are assumed to be infrastructure keys.
const minIDLength = 5

// KV is the key-value contract the store needs, satisfied by *store.Client.
// Defined here, on the consumer side, so tests can substitute a double.
type KV interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Keys(ctx context.Context, pattern string) ([]string, error)
}

// Store manages conversation history records keyed by session ID.
//
// Store is safe for concurrent use, with the Append caveat documented in
// the package comment.
type Store struct {
	kv     KV
	ttl    time.Duration
	logger *slog.Logger
}

// New creates a Store with the given default TTL.
// ttl <= 0 selects DefaultTTL.
func New(kv KV, ttl time.Duration, logger *slog.Logger) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{kv: kv, ttl: ttl, logger: logger}
}

// effectiveTTL resolves a per-call TTL override against the store default.
func (s *Store) effectiveTTL(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return s.ttl
	}
	return ttl
}

// Create initializes a session with empty history and returns its ID.
// An empty id generates a fresh random token; collision probability is
// negligible by construction, so no uniqueness check is made against the
// store.
func (s *Store) Create(ctx context.Context, id string, ttl time.Duration) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}

	if err := s.kv.Set(ctx, id, "[]", s.effectiveTTL(ttl)); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}

	s.logger.Debug("created session", "id", id)
	return id, nil
}

// Get returns the session's history in conversation order.
// Returns ErrSessionNotFound if the ID has no live record, and
// ErrCorruptSession if the stored value is not a JSON array of turns.
func (s *Store) Get(ctx context.Context, id string) ([]Turn, error) {
	raw, err := s.kv.Get(ctx, id)
	if errors.Is(err, store.ErrKeyNotFound) {
		return nil, fmt.Errorf("session %q: %w", id, ErrSessionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load session %q: %w", id, err)
	}

	return decodeHistory(id, raw)
}

// Append loads the current history, appends turn at the end, and persists
// the result with a TTL refresh. A nonexistent session is treated as empty
// (it is created by the append). Returns the new full history.
//
// The read-modify-write is not atomic: concurrent appends to the same ID
// may lose updates (last-writer-wins).
func (s *Store) Append(ctx context.Context, id string, turn Turn, ttl time.Duration) ([]Turn, error) {
	history, err := s.Get(ctx, id)
	if errors.Is(err, ErrSessionNotFound) {
		history = []Turn{}
	} else if err != nil {
		return nil, err
	}

	history = append(history, turn)
	return s.Save(ctx, id, history, ttl)
}

// Save unconditionally overwrites the session's history and refreshes its
// TTL.
func (s *Store) Save(ctx context.Context, id string, turns []Turn, ttl time.Duration) ([]Turn, error) {
	if turns == nil {
		turns = []Turn{}
	}

	data, err := json.Marshal(turns)
	if err != nil {
		return nil, fmt.Errorf("encode session %q: %w", id, err)
	}

	if err := s.kv.Set(ctx, id, string(data), s.effectiveTTL(ttl)); err != nil {
		return nil, fmt.Errorf("save session %q: %w", id, err)
	}

	s.logger.Debug("saved session", "id", id, "turns", len(turns))
	return turns, nil
}

// Clear resets the session to an empty history. The ID remains valid and
// the TTL is refreshed.
func (s *Store) Clear(ctx context.Context, id string, ttl time.Duration) ([]Turn, error) {
	return s.Save(ctx, id, []Turn{}, ttl)
}

// ListIDs enumerates live session IDs for administrative inspection,
// filtering out cache entries and infrastructure keys.
func (s *Store) ListIDs(ctx context.Context) ([]string, error) {
	keys, err := s.kv.Keys(ctx, "*")
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return FilterSessionIDs(keys), nil
}

// FilterSessionIDs drops infrastructure keys from a raw key listing:
// cache entries (embed:/retrieve: prefixes), health probes, and keys
// shorter than five characters.
func FilterSessionIDs(keys []string) []string {
	ids := make([]string, 0, len(keys))
	for _, k := range keys {
		if len(k) < minIDLength {
			continue
		}
		if strings.HasPrefix(k, cache.PrefixEmbed) ||
			strings.HasPrefix(k, cache.PrefixRetrieve) ||
			strings.HasPrefix(k, "health:") {
			continue
		}
		ids = append(ids, k)
	}
	return ids
}

// decodeHistory parses a stored history value, distinguishing corruption
// from emptiness. The stored value must be a JSON array: json.Unmarshal
// alone would accept "null" silently, so the shape is checked explicitly.
func decodeHistory(id, raw string) ([]Turn, error) {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "[") {
		return nil, fmt.Errorf("session %q: stored value is not an array: %w", id, ErrCorruptSession)
	}

	var turns []Turn
	if err := json.Unmarshal([]byte(trimmed), &turns); err != nil {
		return nil, fmt.Errorf("session %q: %w: %w", id, ErrCorruptSession, err)
	}
	if turns == nil {
		turns = []Turn{}
	}
	return turns, nil
}
