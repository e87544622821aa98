package handler

import (
	"net/http"
	"time"
)

// DisplayPass handles GET /v1/attendees/{id}/pass.
//
// It returns the attendee's current rotating token plus the rotation
// schedule so the display client can pre-fetch the next code.
func (h *Handler) DisplayPass(w http.ResponseWriter, r *http.Request) {
	attendeeID := r.PathValue("id")

	pass, err := h.scans.IssueDisplayPass(r.Context(), attendeeID, time.Now())
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if h.metrics != nil {
		h.metrics.PassesIssued.Inc()
	}

	h.writeJSON(w, r, http.StatusOK, pass)
}
