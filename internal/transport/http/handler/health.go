package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

type readinessCheck interface {
	Verify(ctx context.Context) error
}

// HealthHandler handles health-check endpoints.
// "ping" only proves the process is up; "ready" also checks the mail transport.
type HealthHandler struct {
	mailer readinessCheck
}

func NewHealthHandler(mailer readinessCheck) *HealthHandler { return &HealthHandler{mailer: mailer} }

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	switch chi.URLParam(r, "action") {
	case "ping":
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "pong"})
	case "ready":
		if h.mailer == nil {
			writeError(w, http.StatusServiceUnavailable, "mail transport not configured")
			return
		}
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := h.mailer.Verify(ctx); err != nil {
			writeError(w, http.StatusServiceUnavailable, "mail transport unavailable: "+err.Error())
			return
		}
		writeJSON(w, http.StatusOK, MessageEnvelope{Message: "ready"})
	default:
		writeError(w, http.StatusBadRequest, "unknown action")
	}
}
