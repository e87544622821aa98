package handler

import (
	"net/http"
	"strings"

	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/core/domain"
)

// ProvisionAttendee handles POST /v1/attendees.
func (h *Handler) ProvisionAttendee(w http.ResponseWriter, r *http.Request) {
	var req ProvisionAttendeeRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	req.ExternalID = strings.TrimSpace(req.ExternalID)
	req.FullName = strings.TrimSpace(req.FullName)
	if req.ExternalID == "" || req.FullName == "" {
		h.writeError(w, r, domain.ErrAttendeeValidation.WithDetails("external_id and full_name are required"))
		return
	}

	attendee, err := domain.NewAttendee(req.ExternalID, req.FullName)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.attendees.Provision(r.Context(), attendee); err != nil {
		h.writeError(w, r, err)
		return
	}

	if h.metrics != nil {
		h.metrics.AttendeesProvision.Inc()
	}

	h.log.Info("attendee provisioned",
		"attendee_id", attendee.ID,
		"external_id", attendee.ExternalID)

	h.writeJSON(w, r, http.StatusCreated, attendee)
}

// GetAttendee handles GET /v1/attendees/{id}.
func (h *Handler) GetAttendee(w http.ResponseWriter, r *http.Request) {
	attendee, err := h.attendees.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, attendee)
}

// ListAttendees handles GET /v1/attendees.
func (h *Handler) ListAttendees(w http.ResponseWriter, r *http.Request) {
	attendees := h.attendees.All()

	h.writeJSON(w, r, http.StatusOK, &AttendeeListResponse{
		Total:     len(attendees),
		Inside:    h.attendees.CountInside(),
		Attendees: attendees,
	})
}

// redactOperator strips the secret hash before an operator record leaves
// the service.
func redactOperator(operator *domain.Operator) *domain.Operator {
	clone := operator.Clone()
	clone.SecretHash = ""
	return clone
}

// CreateOperator handles POST /v1/operators.
//
// The generated device secret appears in this response and nowhere else;
// only its argon2id hash is retained.
func (h *Handler) CreateOperator(w http.ResponseWriter, r *http.Request) {
	var req CreateOperatorRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	req.FullName = strings.TrimSpace(req.FullName)
	if req.FullName == "" {
		h.writeError(w, r, domain.ErrOperatorValidation.WithDetails("full_name is required"))
		return
	}
	if !domain.IsValidRole(req.Role) {
		h.writeError(w, r, domain.ErrOperatorValidation.WithDetails("invalid role: "+req.Role))
		return
	}

	operator, secret, err := domain.NewOperator(req.FullName, domain.Role(req.Role))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.operators.Put(r.Context(), operator); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.log.Info("operator created",
		"operator_id", operator.ID,
		"role", string(operator.Role))

	h.writeJSON(w, r, http.StatusCreated, &CreateOperatorResponse{
		Operator:     redactOperator(operator),
		DeviceSecret: secret,
	})
}

// ListOperators handles GET /v1/operators.
func (h *Handler) ListOperators(w http.ResponseWriter, r *http.Request) {
	operators := h.operators.All()
	redacted := make([]*domain.Operator, 0, len(operators))
	for _, operator := range operators {
		redacted = append(redacted, redactOperator(operator))
	}
	h.writeJSON(w, r, http.StatusOK, redacted)
}

// SetOperatorStatus handles POST /v1/operators/{id}/enable and
// POST /v1/operators/{id}/disable.
func (h *Handler) SetOperatorStatus(status domain.OperatorStatus) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		operatorID := r.PathValue("id")

		if err := h.operators.SetStatus(r.Context(), operatorID, status); err != nil {
			h.writeError(w, r, err)
			return
		}

		operator, err := h.operators.Get(r.Context(), operatorID)
		if err != nil {
			h.writeError(w, r, err)
			return
		}

		h.log.Info("operator status changed",
			"operator_id", operatorID,
			"status", string(status))

		h.writeJSON(w, r, http.StatusOK, redactOperator(operator))
	}
}

// IssueAssetToken handles POST /v1/assets/tokens.
//
// Asset tokens are non-rotating; the returned value is what gets printed
// on the physical badge or sticker.
func (h *Handler) IssueAssetToken(w http.ResponseWriter, r *http.Request) {
	var req IssueAssetTokenRequest
	if err := decodeBody(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	req.AssetID = strings.TrimSpace(req.AssetID)
	if req.AssetID == "" {
		h.writeError(w, r, domain.ErrBadRequest.WithDetails("asset_id is required"))
		return
	}

	h.writeJSON(w, r, http.StatusCreated, &IssueAssetTokenResponse{
		AssetID: req.AssetID,
		Token:   h.static.Issue(req.AssetID),
	})
}
