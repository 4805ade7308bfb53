package httpd

import (
	"context"
	"net/http"
	"time"
)

// Pinger — проверка доступности зависимости (БД)
type Pinger interface {
	Ping(ctx context.Context) error
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":    "healthy",
		"service":   "educational-file-manager",
		"timestamp": time.Now().UTC(),
		"version":   "1.0.0",
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) ReadyCheck(w http.ResponseWriter, r *http.Request) {
	if h.pinger != nil {
		if err := h.pinger.Ping(r.Context()); err != nil {
			h.logger.Error().Err(err).Msg("Readiness check failed")
			writeError(w, http.StatusServiceUnavailable, "Database is not reachable")
			return
		}
	}

	response := map[string]interface{}{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, map[string]interface{}{
		"websocket_clients": h.hub.ClientCount(),
		"uptime_seconds":    int(time.Since(h.started).Seconds()),
	})
}
