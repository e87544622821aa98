package httpserver

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/core/domain"
	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/server/httpserver/handler"
	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/telemetry/logger"
	"github.com/Abhinandan-Sah/sgtu-event-v3/pkg/token"
)

// contextKey is a private type for context keys to avoid collisions.
type contextKey string

const (
	// ContextKeyRequestID is the context key for the request ID.
	ContextKeyRequestID contextKey = "request_id"

	// ContextKeyStartTime is the context key for the request start time.
	ContextKeyStartTime contextKey = "start_time"
)

// Middleware is a function that wraps an http.Handler.
type Middleware func(http.Handler) http.Handler

// Chain applies middlewares to a handler in order.
// The first middleware in the list is the outermost.
func Chain(h http.Handler, middlewares ...Middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// RequestID attaches a unique request ID to each request.
// An inbound X-Request-ID header is honored; otherwise one is generated.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				generated, err := token.GenerateWithLength(16)
				if err != nil {
					generated = "unknown"
				}
				requestID = "req-" + generated
			}

			ctx := context.WithValue(r.Context(), ContextKeyRequestID, requestID)
			ctx = context.WithValue(ctx, ContextKeyStartTime, time.Now())
			ctx = logger.WithRequestID(ctx, requestID)

			w.Header().Set("X-Request-ID", requestID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Authenticator validates operator device credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, operatorID, secret string) (*domain.Operator, error)
}

// OperatorAuth authenticates the scanning operator from request headers.
//
// Credentials are taken from Authorization: Bearer <operator_id>:<secret>
// or from the X-Operator-ID and X-Device-Secret headers. Unknown operator
// and wrong secret both surface as the same 401 so credentials cannot be
// probed one half at a time.
func OperatorAuth(auth Authenticator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			operatorID, secret := extractOperatorCredentials(r)
			if operatorID == "" || secret == "" {
				writeAuthError(w, domain.ErrOperatorSecretInvalid.Code, "operator credentials not provided")
				return
			}

			operator, err := auth.Authenticate(r.Context(), operatorID, secret)
			if err != nil {
				code := domain.GetErrorCode(err)
				if code == domain.ErrOperatorNotFound.Code {
					code = domain.ErrOperatorSecretInvalid.Code
				}
				writeAuthError(w, code, "operator authentication failed")
				return
			}

			ctx := handler.WithOperator(r.Context(), operator)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminOnly requires the authenticated operator to hold the admin role.
// It must run after OperatorAuth.
func AdminOnly() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			operator := GetOperatorFromContext(r.Context())
			if operator == nil {
				writeAuthError(w, domain.ErrOperatorSecretInvalid.Code, "operator credentials not provided")
				return
			}
			if operator.Role != domain.RoleAdmin {
				writeAuthError(w, domain.ErrOperatorForbidden.Code, "admin role required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RateLimit limits request rate per authenticated operator using a token
// bucket. Unauthenticated requests are keyed by client IP instead.
func RateLimit(perSecond float64) Middleware {
	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)

	burst := int(perSecond * 2)
	if burst < 1 {
		burst = 1
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if perSecond <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			key := getClientIP(r)
			if operator := GetOperatorFromContext(r.Context()); operator != nil {
				key = operator.ID
			}

			mu.Lock()
			limiter, ok := limiters[key]
			if !ok {
				limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
				limiters[key] = limiter
			}
			mu.Unlock()

			if !limiter.Allow() {
				w.Header().Set("Retry-After", "1")
				writeAuthError(w, domain.ErrRateLimited.Code, "too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Audit logs every request with its outcome.
func Audit(log logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			requestID := GetRequestIDFromContext(r.Context())
			startTime, _ := r.Context().Value(ContextKeyStartTime).(time.Time)
			duration := time.Since(startTime)

			attrs := []any{
				"request_id", requestID,
				"method", r.Method,
				"path", r.URL.Path,
				"status", wrapped.statusCode,
				"duration_ms", duration.Milliseconds(),
				"client_ip", getClientIP(r),
			}
			if operator := GetOperatorFromContext(r.Context()); operator != nil {
				attrs = append(attrs, "operator_id", operator.ID)
			}

			switch {
			case wrapped.statusCode >= 500:
				log.Error("request completed with error", attrs...)
			case wrapped.statusCode >= 400:
				log.Warn("request completed with client error", attrs...)
			default:
				log.Info("request completed", attrs...)
			}
		})
	}
}

// Recover recovers from panics and returns a 500 error.
func Recover(log logger.Logger) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.Error("panic recovered",
						"request_id", GetRequestIDFromContext(r.Context()),
						"error", err,
						"path", r.URL.Path,
					)

					w.Header().Set("Content-Type", "application/json")
					w.Header().Set("X-Error-Code", domain.ErrInternalServer.Code)
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"code":    domain.ErrInternalServer.Code,
						"message": "internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// extractOperatorCredentials extracts operator credentials from request
// headers. It supports two formats:
// 1. Authorization: Bearer <operator_id>:<device_secret>
// 2. X-Operator-ID + X-Device-Secret headers
func extractOperatorCredentials(r *http.Request) (operatorID, secret string) {
	authHeader := r.Header.Get("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		credentials := strings.TrimPrefix(authHeader, "Bearer ")
		parts := strings.SplitN(credentials, ":", 2)
		if len(parts) == 2 {
			return parts[0], parts[1]
		}
	}

	return r.Header.Get("X-Operator-ID"), r.Header.Get("X-Device-Secret")
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// GetOperatorFromContext retrieves the authenticated operator from context.
func GetOperatorFromContext(ctx context.Context) *domain.Operator {
	return handler.OperatorFromContext(ctx)
}

// GetRequestIDFromContext retrieves the request ID from context.
func GetRequestIDFromContext(ctx context.Context) string {
	if requestID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return requestID
	}
	return ""
}

// writeAuthError writes an authentication or throttling error response.
func writeAuthError(w http.ResponseWriter, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Error-Code", code)

	status := http.StatusUnauthorized
	if strings.HasSuffix(code, "-4030") {
		status = http.StatusForbidden
	} else if strings.HasSuffix(code, "-4290") {
		status = http.StatusTooManyRequests
	}

	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"code":    code,
		"message": message,
	})
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}

	// net.SplitHostPort handles IPv6 addresses like [::1]:8080.
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
