package handler

import (
	"net/http"
	"time"

	"github.com/yndnr/corex-go/internal/core/domain"
)

// handleCheckpoint handles POST /admin/v1/checkpoint.
//
// Only the minting authority may force a checkpoint.
func (h *Handler) handleCheckpoint(w http.ResponseWriter, r *http.Request) {
	caller := CallerFromContext(r.Context())

	authority, err := h.ledger.MintingAuthority(r.Context(), caller)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}
	if caller.IsReserved() || caller != authority {
		h.handleServiceError(w, r, domain.ErrNotTheMinter)
		return
	}

	start := time.Now()
	if err := h.ledger.Checkpoint(r.Context()); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.logger.InfoContext(r.Context(), "checkpoint written", "duration", time.Since(start))
	h.writeJSON(w, r, http.StatusOK, CheckpointResponse{
		Checkpointed: true,
		ElapsedMS:    time.Since(start).Milliseconds(),
	})
}
