// Package testutil provides shared test doubles for provider-facing
// interfaces.
package testutil

import (
	"context"
	"sync"

	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/core/api"
)

// FakeEmbedder implements ai.Embedder with a fixed response and call
// counting, so tests can assert how many provider calls were made.
type FakeEmbedder struct {
	mu sync.Mutex

	// Vector is returned for every input document.
	Vector []float32

	// Err, if set, is returned from every Embed call.
	Err error

	// Empty, if true, makes Embed return a response with no embeddings.
	Empty bool

	calls int
}

// Name implements ai.Embedder.
func (f *FakeEmbedder) Name() string { return "fake-embedder" }

// Register implements ai.Embedder. No-op for tests.
func (f *FakeEmbedder) Register(api.Registry) {}

// Embed implements ai.Embedder.
func (f *FakeEmbedder) Embed(_ context.Context, req *ai.EmbedRequest) (*ai.EmbedResponse, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	if f.Err != nil {
		return nil, f.Err
	}
	if f.Empty {
		return &ai.EmbedResponse{}, nil
	}

	embeddings := make([]*ai.Embedding, len(req.Input))
	for i := range req.Input {
		embeddings[i] = &ai.Embedding{Embedding: f.Vector}
	}
	return &ai.EmbedResponse{Embeddings: embeddings}, nil
}

// Calls returns the number of Embed invocations so far.
func (f *FakeEmbedder) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
