package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/core/domain"
	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/core/service"
	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/server/httpserver/handler"
	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/telemetry/logger"
	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/telemetry/metric"
)

// RouterConfig holds the dependencies and settings for the HTTP router.
type RouterConfig struct {
	// ScanService processes gate scans and issues display passes.
	ScanService *service.ScanService

	// StaticService issues non-rotating asset tokens.
	StaticService *service.StaticService

	// Attendees is the attendee store.
	Attendees handler.AttendeeDirectory

	// Operators is the operator store. It must also satisfy Authenticator.
	Operators handler.OperatorRegistry

	// Auth validates operator device credentials.
	Auth Authenticator

	// Metrics is the application metric registry. Optional.
	Metrics *metric.Registry

	// Logger for request and handler logging.
	Logger logger.Logger

	// RateLimitPerOperator is the scan rate limit in requests per second
	// per authenticated operator. Zero disables limiting.
	RateLimitPerOperator float64
}

// NewRouter creates the HTTP router with all routes and middleware.
//
// The scan endpoint requires operator credentials and is rate limited per
// operator. Admin endpoints additionally require the admin role. The pass
// endpoint is open: it serves attendee display clients that hold no
// operator credentials.
func NewRouter(cfg *RouterConfig) http.Handler {
	h := handler.New(cfg.ScanService, cfg.StaticService, cfg.Attendees, cfg.Operators, cfg.Metrics, cfg.Logger)

	operatorOnly := func(route string, fn http.HandlerFunc) http.Handler {
		return Chain(cfg.instrument(route, fn),
			OperatorAuth(cfg.Auth),
			RateLimit(cfg.RateLimitPerOperator),
		)
	}
	adminOnly := func(route string, fn http.HandlerFunc) http.Handler {
		return Chain(cfg.instrument(route, fn),
			OperatorAuth(cfg.Auth),
			AdminOnly(),
		)
	}
	open := func(route string, fn http.HandlerFunc) http.Handler {
		return cfg.instrument(route, fn)
	}

	mux := http.NewServeMux()

	// Gate surface.
	mux.Handle("POST /v1/scans", operatorOnly("/v1/scans", h.Scan))
	mux.Handle("GET /v1/attendees/{id}/pass", open("/v1/attendees/{id}/pass", h.DisplayPass))

	// Admin surface.
	mux.Handle("POST /v1/attendees", adminOnly("/v1/attendees", h.ProvisionAttendee))
	mux.Handle("GET /v1/attendees", adminOnly("/v1/attendees", h.ListAttendees))
	mux.Handle("GET /v1/attendees/{id}", adminOnly("/v1/attendees/{id}", h.GetAttendee))
	mux.Handle("POST /v1/operators", adminOnly("/v1/operators", h.CreateOperator))
	mux.Handle("GET /v1/operators", adminOnly("/v1/operators", h.ListOperators))
	mux.Handle("POST /v1/operators/{id}/disable", adminOnly("/v1/operators/{id}/disable", h.SetOperatorStatus(domain.OperatorDisabled)))
	mux.Handle("POST /v1/operators/{id}/enable", adminOnly("/v1/operators/{id}/enable", h.SetOperatorStatus(domain.OperatorActive)))
	mux.Handle("POST /v1/assets/tokens", adminOnly("/v1/assets/tokens", h.IssueAssetToken))

	// Operational surface.
	mux.Handle("GET /health", open("/health", h.Health))
	mux.Handle("GET /ready", open("/ready", h.Ready))
	if cfg.Metrics != nil {
		mux.Handle("GET /metrics", cfg.Metrics.Handler())
	}

	return Chain(mux,
		Recover(cfg.Logger),
		RequestID(),
		Audit(cfg.Logger),
	)
}

// instrument records request count and latency for a route.
func (cfg *RouterConfig) instrument(route string, next http.Handler) http.Handler {
	if cfg.Metrics == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		cfg.Metrics.RequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(wrapped.statusCode)).Inc()
		cfg.Metrics.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
