package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/core/domain"
	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/core/service"
)

// Scan handles POST /v1/scans.
//
// The operator comes from the authentication middleware; the body carries
// only the presented token. An accepted scan returns the decided action
// (ENTRY or EXIT), with dwell duration on EXIT.
func (h *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	operator := OperatorFromContext(r.Context())
	if operator == nil {
		h.writeError(w, r, domain.ErrOperatorSecretInvalid)
		return
	}

	var req ScanRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	if strings.TrimSpace(req.Token) == "" {
		h.writeError(w, r, domain.ErrBadRequest.WithDetails("token is required"))
		return
	}

	start := time.Now()
	result, err := h.scans.Scan(r.Context(), &service.ScanRequest{
		Token:      req.Token,
		OperatorID: operator.ID,
	})
	if err != nil {
		if h.metrics != nil {
			h.metrics.ScanFailures.WithLabelValues(domain.GetErrorCode(err)).Inc()
		}
		h.writeError(w, r, err)
		return
	}

	if h.metrics != nil {
		h.metrics.ScansTotal.WithLabelValues(string(result.Action)).Inc()
		h.metrics.ScanDuration.Observe(time.Since(start).Seconds())
		h.metrics.AttendeesInside.Set(float64(h.attendees.CountInside()))
	}

	h.writeJSON(w, r, http.StatusOK, result)
}
