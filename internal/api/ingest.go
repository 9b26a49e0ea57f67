package api

import (
	"context"
	"log/slog"
	"net/http"
)

// IngestRunner runs a full ingestion pass, satisfied by
// *ingest.Service.
type IngestRunner interface {
	IngestAll(ctx context.Context) (int, error)
}

type ingestHandler struct {
	runner IngestRunner
	logger *slog.Logger
}

type ingestResponse struct {
	Indexed int `json:"indexed"`
}

// run triggers a synchronous ingestion pass over the configured feeds.
func (h *ingestHandler) run(w http.ResponseWriter, r *http.Request) {
	n, err := h.runner.IngestAll(r.Context())
	if err != nil {
		h.logger.Error("ingestion failed", "error", err)
		writeError(w, http.StatusInternalServerError, "ingest_error", "ingestion failed", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, ingestResponse{Indexed: n}, h.logger)
}
