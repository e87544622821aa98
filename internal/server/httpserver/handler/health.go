package handler

import (
	"net/http"

	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/infra/buildinfo"
)

// Health handles GET /health. Liveness only.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, &HealthResponse{
		Status:  "ok",
		Version: buildinfo.Get().Version,
	})
}

// Ready handles GET /ready. The service is ready once its stores are
// recovered and wired, which is before the listener starts, so this only
// confirms the process is serving.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, &HealthResponse{Status: "ready"})
}
