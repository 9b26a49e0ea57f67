package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

const readinessTimeout = 5 * time.Second

// StoreChecker probes the key-value store, satisfied by *store.Client.
type StoreChecker interface {
	HealthCheck(ctx context.Context) error
}

// Pinger probes the relational database, satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// health is the liveness probe: the process is up and serving.
func health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// readiness reports whether the backing stores are reachable. Either
// dependency may be nil, in which case its check is skipped.
func readiness(kv StoreChecker, db Pinger, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}
		healthy := true

		if kv != nil {
			if err := kv.HealthCheck(ctx); err != nil {
				logger.Warn("readiness: store probe failed", "error", err)
				checks["store"] = "unavailable"
				healthy = false
			} else {
				checks["store"] = "ok"
			}
		}
		if db != nil {
			if err := db.Ping(ctx); err != nil {
				logger.Warn("readiness: database ping failed", "error", err)
				checks["database"] = "unavailable"
				healthy = false
			} else {
				checks["database"] = "ok"
			}
		}

		status := http.StatusOK
		if !healthy {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, checks, logger)
	}
}
