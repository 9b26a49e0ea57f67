package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/adityaaditya98/news-article-ai-backend/internal/session"
)

// sessionHandler serves session lifecycle routes.
type sessionHandler struct {
	store  *session.Store
	logger *slog.Logger
}

type createSessionRequest struct {
	SessionID string `json:"session_id"`
}

type sessionResponse struct {
	SessionID string         `json:"session_id"`
	History   []session.Turn `json:"history"`
}

// createSession provisions a session. The body is optional; a supplied
// session_id is honored, otherwise a fresh ID is generated.
func (h *sessionHandler) createSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed JSON body", h.logger)
		return
	}

	id, err := h.store.Create(r.Context(), req.SessionID, 0)
	if err != nil {
		h.logger.Error("session create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "store_error", "could not create session", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, sessionResponse{SessionID: id, History: []session.Turn{}}, h.logger)
}

// getSession returns the session's conversation history.
func (h *sessionHandler) getSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	history, err := h.store.Get(r.Context(), id)
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "session_not_found", "no such session", h.logger)
		return
	case err != nil:
		h.logger.Error("session load failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "store_error", "could not load session", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{SessionID: id, History: history}, h.logger)
}

// clearSession resets the session's history to empty. The ID stays
// valid.
func (h *sessionHandler) clearSession(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	if _, err := h.store.Clear(r.Context(), id, 0); err != nil {
		h.logger.Error("session clear failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "store_error", "could not clear session", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, sessionResponse{SessionID: id, History: []session.Turn{}}, h.logger)
}

type listSessionsResponse struct {
	Sessions []string `json:"sessions"`
}

// listSessions enumerates live session IDs for administrative
// inspection. Cache keys are filtered out by the store.
func (h *sessionHandler) listSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := h.store.ListIDs(r.Context())
	if err != nil {
		h.logger.Error("session listing failed", "error", err)
		writeError(w, http.StatusInternalServerError, "store_error", "could not list sessions", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, listSessionsResponse{Sessions: ids}, h.logger)
}
