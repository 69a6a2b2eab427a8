package handler

import (
	"net/http"
	"time"

	"github.com/yndnr/corex-go/internal/core/domain"
)

// handleHealth handles GET /health.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleReady handles GET /ready.
func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	if h.ready != nil {
		if err := h.ready(r.Context()); err != nil {
			e := domain.ErrServiceUnavailable
			h.writeError(w, r, http.StatusServiceUnavailable, e.Code, e.Message, err.Error())
			return
		}
	}
	h.writeJSON(w, r, http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
