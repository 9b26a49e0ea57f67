package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/adityaaditya98/news-article-ai-backend/internal/chat"
	"github.com/adityaaditya98/news-article-ai-backend/internal/retrieval"
)

// ChatService runs one conversational turn, satisfied by
// *chat.Orchestrator.
type ChatService interface {
	HandleTurn(ctx context.Context, sessionID, query string, k int) (chat.Result, error)
}

type chatHandler struct {
	svc         ChatService
	defaultTopK int
	logger      *slog.Logger
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	Query     string `json:"query"`
	TopK      int    `json:"top_k"`
}

// send runs a chat turn. An unknown session ID starts a fresh
// conversation under that ID rather than failing.
func (h *chatHandler) send(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body", h.logger)
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "session_id is required", h.logger)
		return
	}

	k := req.TopK
	if k <= 0 {
		k = h.defaultTopK
	}

	result, err := h.svc.HandleTurn(r.Context(), req.SessionID, req.Query, k)
	switch {
	case errors.Is(err, chat.ErrEmptyQuery), errors.Is(err, retrieval.ErrBlankQuery):
		writeError(w, http.StatusBadRequest, "invalid_request", "query must not be empty", h.logger)
		return
	case err != nil:
		h.logger.Error("chat turn failed", "session_id", req.SessionID, "error", err)
		writeError(w, http.StatusInternalServerError, "chat_error", "could not complete chat turn", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, result, h.logger)
}
