package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/adityaaditya98/news-article-ai-backend/internal/session"
)

// ServerConfig contains the collaborators the API server routes to.
type ServerConfig struct {
	Logger       *slog.Logger
	SessionStore *session.Store // Required
	Chat         ChatService    // Required
	Ingest       IngestRunner   // Optional: nil disables the ingest route
	Store        StoreChecker   // Optional: nil skips the store readiness probe
	DB           Pinger         // Optional: nil skips the database readiness probe
	DefaultTopK  int            // 0 selects 3
}

// Server is the JSON API HTTP server.
type Server struct {
	mux *http.ServeMux
}

// NewServer creates an API server with all routes configured.
func NewServer(cfg ServerConfig) (*Server, error) {
	if cfg.SessionStore == nil {
		return nil, errors.New("session store is required")
	}
	if cfg.Chat == nil {
		return nil, errors.New("chat service is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	topK := cfg.DefaultTopK
	if topK <= 0 {
		topK = 3
	}

	sh := &sessionHandler{store: cfg.SessionStore, logger: logger}
	ch := &chatHandler{svc: cfg.Chat, defaultTopK: topK, logger: logger}

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/v1/sessions", sh.createSession)
	mux.HandleFunc("GET /api/v1/sessions", sh.listSessions)
	mux.HandleFunc("GET /api/v1/sessions/{id}", sh.getSession)
	mux.HandleFunc("DELETE /api/v1/sessions/{id}", sh.clearSession)

	mux.HandleFunc("POST /api/v1/chat", ch.send)

	if cfg.Ingest != nil {
		ih := &ingestHandler{runner: cfg.Ingest, logger: logger}
		mux.HandleFunc("POST /api/v1/ingest", ih.run)
	}

	// Middleware stack, outermost first:
	//   Recovery -> RequestID -> Logging -> Routes
	// RequestID precedes Logging so request_id is available in log
	// attributes.
	var handler http.Handler = mux
	handler = loggingMiddleware(logger)(handler)
	handler = requestIDMiddleware()(handler)
	handler = recoveryMiddleware(logger)(handler)

	// Health probes bypass the middleware stack.
	topMux := http.NewServeMux()
	topMux.HandleFunc("GET /health", health)
	topMux.Handle("GET /ready", readiness(cfg.Store, cfg.DB, logger))
	topMux.Handle("/", handler)

	return &Server{mux: topMux}, nil
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}
