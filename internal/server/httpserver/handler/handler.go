package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/core/domain"
	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/core/service"
	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/telemetry/logger"
	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/telemetry/metric"
)

// AttendeeDirectory is the attendee store surface the handlers need.
type AttendeeDirectory interface {
	Provision(ctx context.Context, attendee *domain.Attendee) error
	GetByID(ctx context.Context, id string) (*domain.Attendee, error)
	All() []*domain.Attendee
	Count() int
	CountInside() int
}

// OperatorRegistry is the operator store surface the handlers need.
type OperatorRegistry interface {
	Put(ctx context.Context, operator *domain.Operator) error
	Get(ctx context.Context, operatorID string) (*domain.Operator, error)
	SetStatus(ctx context.Context, operatorID string, status domain.OperatorStatus) error
	All() []*domain.Operator
}

// Handler holds the services the HTTP endpoints delegate to.
type Handler struct {
	scans     *service.ScanService
	static    *service.StaticService
	attendees AttendeeDirectory
	operators OperatorRegistry
	metrics   *metric.Registry
	log       logger.Logger
}

// New creates a handler. metrics may be nil in tests.
func New(scans *service.ScanService, static *service.StaticService, attendees AttendeeDirectory, operators OperatorRegistry, metrics *metric.Registry, log logger.Logger) *Handler {
	return &Handler{
		scans:     scans,
		static:    static,
		attendees: attendees,
		operators: operators,
		metrics:   metrics,
		log:       log,
	}
}

// writeJSON writes a success response.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	requestID := requestIDFrom(r)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-ID", requestID)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(NewResponse(requestID, data)); err != nil {
		h.log.Error("failed to encode response", "error", err, "request_id", requestID)
	}
}

// writeError writes an error response with the proper HTTP status.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	requestID := requestIDFrom(r)

	code := domain.ErrInternalServer.Code
	message := "internal server error"
	var details any

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		code = domainErr.Code
		message = domainErr.Message
		if domainErr.Details != "" {
			details = domainErr.Details
		}
	} else {
		h.log.Error("unexpected handler error", "error", err, "request_id", requestID)
	}

	status := errorCodeToHTTPStatus(code)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-ID", requestID)
	w.Header().Set("X-Error-Code", code)
	w.WriteHeader(status)

	if encErr := json.NewEncoder(w).Encode(NewErrorResponse(requestID, code, message, details)); encErr != nil {
		h.log.Error("failed to encode error response", "error", encErr, "request_id", requestID)
	}
}

// errorCodeToHTTPStatus maps a domain error code to an HTTP status by its
// numeric suffix.
func errorCodeToHTTPStatus(code string) int {
	switch {
	case strings.HasSuffix(code, "-4000"), strings.HasSuffix(code, "-4001"):
		return http.StatusBadRequest
	case strings.HasSuffix(code, "-4010"), strings.HasSuffix(code, "-4011"):
		return http.StatusUnauthorized
	case strings.HasSuffix(code, "-4030"):
		return http.StatusForbidden
	case strings.HasSuffix(code, "-4040"):
		return http.StatusNotFound
	case strings.HasSuffix(code, "-4090"):
		return http.StatusConflict
	case strings.HasSuffix(code, "-4220"):
		return http.StatusUnprocessableEntity
	case strings.HasSuffix(code, "-4290"):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// operatorContextKey keys the authenticated operator in a request context.
type operatorContextKey struct{}

// WithOperator returns a context carrying the authenticated operator.
func WithOperator(ctx context.Context, operator *domain.Operator) context.Context {
	return context.WithValue(ctx, operatorContextKey{}, operator)
}

// OperatorFromContext retrieves the authenticated operator, or nil.
func OperatorFromContext(ctx context.Context) *domain.Operator {
	if operator, ok := ctx.Value(operatorContextKey{}).(*domain.Operator); ok {
		return operator
	}
	return nil
}

// requestIDFrom reads the request ID propagated by the middleware.
func requestIDFrom(r *http.Request) string {
	return logger.RequestIDFromContext(r.Context())
}

// decodeBody decodes a JSON request body into dst.
func decodeBody(r *http.Request, dst any) error {
	if r.Body == nil {
		return domain.ErrBadRequest.WithDetails("empty request body")
	}
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return domain.ErrBadRequest.WithDetails("malformed JSON body").WithCause(err)
	}
	return nil
}
