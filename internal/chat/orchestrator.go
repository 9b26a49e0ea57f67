// Package chat orchestrates a single multi-turn conversation step:
// load history, retrieve relevant passages, assemble a grounded prompt,
// call the model, and persist the completed turn.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/adityaaditya98/news-article-ai-backend/internal/prompt"
	"github.com/adityaaditya98/news-article-ai-backend/internal/retrieval"
	"github.com/adityaaditya98/news-article-ai-backend/internal/session"
)

// Sentinel errors for chat turns; check with errors.Is().
var (
	// ErrEmptyQuery indicates a missing or whitespace-only query,
	// rejected before any I/O.
	ErrEmptyQuery = errors.New("empty query")

	// ErrGenerationFailed indicates the model call failed. The session is
	// never mutated when generation fails.
	ErrGenerationFailed = errors.New("generation failed")
)

// Sessions is the history contract the orchestrator needs, satisfied by
// *session.Store.
type Sessions interface {
	Get(ctx context.Context, id string) ([]session.Turn, error)
	Append(ctx context.Context, id string, turn session.Turn, ttl time.Duration) ([]session.Turn, error)
}

// Retriever finds passages for a query. Satisfied by *retrieval.Engine.
type Retriever interface {
	TopK(ctx context.Context, query string, k int) ([]retrieval.Passage, error)
}

// Generator produces a model response for an assembled prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Result is the outcome of a completed chat turn.
type Result struct {
	Answer  string         `json:"answer"`
	History []session.Turn `json:"history"`
}

// Orchestrator composes the session store, retrieval engine, prompt
// assembler, and model generation into one turn-taking operation.
//
// Orchestrator is safe for concurrent use across sessions. Concurrent
// turns against the same session are not serialized; the final append is
// last-writer-wins (see package session).
type Orchestrator struct {
	sessions  Sessions
	retriever Retriever
	generator Generator
	logger    *slog.Logger
}

// New creates an Orchestrator.
func New(sessions Sessions, retriever Retriever, generator Generator, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		sessions:  sessions,
		retriever: retriever,
		generator: generator,
		logger:    logger,
	}
}

// HandleTurn runs one chat turn for the given session.
//
// A nonexistent session is treated as empty history and created by the
// final append. Any retrieval or generation failure aborts the turn with
// the session untouched: the append is deliberately the last step, so a
// partial failure can never corrupt history.
func (o *Orchestrator) HandleTurn(ctx context.Context, sessionID, query string, k int) (Result, error) {
	if strings.TrimSpace(query) == "" {
		return Result{}, ErrEmptyQuery
	}

	history, err := o.sessions.Get(ctx, sessionID)
	if errors.Is(err, session.ErrSessionNotFound) {
		history = nil
	} else if err != nil {
		return Result{}, fmt.Errorf("loading history: %w", err)
	}

	passages, err := o.retriever.TopK(ctx, query, k)
	if err != nil {
		return Result{}, fmt.Errorf("retrieving passages: %w", err)
	}

	grounded := prompt.Build(history, query, passages)

	answer, err := o.generator.Generate(ctx, grounded)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	updated, err := o.sessions.Append(ctx, sessionID, session.NewTurn(query, answer), 0)
	if err != nil {
		return Result{}, fmt.Errorf("persisting turn: %w", err)
	}

	o.logger.Debug("chat turn completed",
		"session_id", sessionID, "passages", len(passages), "turns", len(updated))

	return Result{Answer: answer, History: updated}, nil
}
