package embed

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/adityaaditya98/news-article-ai-backend/internal/cache"
	"github.com/adityaaditya98/news-article-ai-backend/internal/log"
	"github.com/adityaaditya98/news-article-ai-backend/internal/store"
	"github.com/adityaaditya98/news-article-ai-backend/internal/testutil"
)

func newTestResolver(t *testing.T, fake *testutil.FakeEmbedder) *Resolver {
	t.Helper()
	mr := miniredis.RunT(t)
	kv := store.New(store.Config{Addr: mr.Addr()}, log.NewNop())
	t.Cleanup(func() { _ = kv.Close() })
	return New(fake, cache.New(kv, log.NewNop()), log.NewNop())
}

func TestEmbedBlankInputSkipsProvider(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"spaces", "   "},
		{"tabs and newlines", "\t\n "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &testutil.FakeEmbedder{Vector: []float32{1}}
			r := newTestResolver(t, fake)

			vec, err := r.Embed(context.Background(), tt.text)
			if err != nil {
				t.Fatalf("Embed(%q): %v", tt.text, err)
			}
			if vec != nil {
				t.Errorf("Embed(%q) = %v, want nil", tt.text, vec)
			}
			if fake.Calls() != 0 {
				t.Errorf("provider called %d times for blank input, want 0", fake.Calls())
			}
		})
	}
}

func TestEmbedCacheThrough(t *testing.T) {
	fake := &testutil.FakeEmbedder{Vector: []float32{0.25, -1, 3}}
	r := newTestResolver(t, fake)
	ctx := context.Background()

	first, err := r.Embed(ctx, "central bank policy")
	if err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if len(first) != 3 {
		t.Fatalf("vector length = %d, want 3", len(first))
	}
	if fake.Calls() != 1 {
		t.Fatalf("provider calls = %d, want 1", fake.Calls())
	}

	second, err := r.Embed(ctx, "central bank policy")
	if err != nil {
		t.Fatalf("Embed (cached): %v", err)
	}
	if fake.Calls() != 1 {
		t.Errorf("provider calls = %d after cache hit, want still 1", fake.Calls())
	}
	for i := range first {
		if second[i] != first[i] {
			t.Errorf("cached vector[%d] = %v, want %v", i, second[i], first[i])
		}
	}

	// A different text misses the cache and reaches the provider.
	if _, err := r.Embed(ctx, "different text"); err != nil {
		t.Fatalf("Embed: %v", err)
	}
	if fake.Calls() != 2 {
		t.Errorf("provider calls = %d, want 2", fake.Calls())
	}
}

func TestEmbedNoVectorFromProvider(t *testing.T) {
	fake := &testutil.FakeEmbedder{Empty: true}
	r := newTestResolver(t, fake)

	_, err := r.Embed(context.Background(), "some text")
	if !errors.Is(err, ErrNoEmbedding) {
		t.Errorf("err = %v, want ErrNoEmbedding", err)
	}
}

func TestEmbedProviderErrorPropagates(t *testing.T) {
	provErr := errors.New("quota exceeded")
	fake := &testutil.FakeEmbedder{Err: provErr}
	r := newTestResolver(t, fake)

	_, err := r.Embed(context.Background(), "some text")
	if !errors.Is(err, provErr) {
		t.Errorf("err = %v, want wrapped provider error", err)
	}
	if fake.Calls() != 1 {
		t.Errorf("provider calls = %d, want exactly 1 (no retries)", fake.Calls())
	}
}
