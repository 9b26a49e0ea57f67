package app

import (
	"testing"

	"github.com/adityaaditya98/news-article-ai-backend/internal/log"
)

func TestClosePartiallyInitialized(t *testing.T) {
	// Setup cleans up via Close on failure, so Close must tolerate an
	// App where nothing was wired yet.
	a := &App{Logger: log.NewNop()}
	if err := a.Close(); err != nil {
		t.Errorf("Close() = %v, want nil", err)
	}
}

func TestCloseIdempotent(t *testing.T) {
	a := &App{Logger: log.NewNop()}
	if err := a.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
}
