package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/core/domain"
	"github.com/Abhinandan-Sah/sgtu-event-v3/internal/telemetry/logger"
)

// fakeAuth authenticates a single known operator.
type fakeAuth struct {
	operator *domain.Operator
	secret   string
}

func (f *fakeAuth) Authenticate(_ context.Context, operatorID, secret string) (*domain.Operator, error) {
	if f.operator == nil || operatorID != f.operator.ID {
		return nil, domain.ErrOperatorNotFound
	}
	if secret != f.secret {
		return nil, domain.ErrOperatorSecretInvalid
	}
	if !f.operator.IsActive() {
		return nil, domain.ErrOperatorForbidden
	}
	return f.operator, nil
}

func newFakeAuth(t *testing.T, role domain.Role) *fakeAuth {
	t.Helper()
	operator, secret, err := domain.NewOperator("Gate Tester", role)
	if err != nil {
		t.Fatalf("NewOperator: %v", err)
	}
	return &fakeAuth{operator: operator, secret: secret}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequestIDGenerated(t *testing.T) {
	var seen string
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestIDFromContext(r.Context())
	}), RequestID())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if seen == "" {
		t.Fatal("expected request id in context")
	}
	if !strings.HasPrefix(seen, "req-") {
		t.Errorf("request id = %q, want req- prefix", seen)
	}
	if got := rec.Header().Get("X-Request-ID"); got != seen {
		t.Errorf("X-Request-ID header = %q, want %q", got, seen)
	}
}

func TestRequestIDHonorsInbound(t *testing.T) {
	var seen string
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestIDFromContext(r.Context())
	}), RequestID())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-upstream01")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if seen != "req-upstream01" {
		t.Errorf("request id = %q, want req-upstream01", seen)
	}
}

func TestOperatorAuthMissingCredentials(t *testing.T) {
	auth := newFakeAuth(t, domain.RoleOperator)
	h := Chain(okHandler(), OperatorAuth(auth))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/scans", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if got := rec.Header().Get("X-Error-Code"); got != domain.ErrOperatorSecretInvalid.Code {
		t.Errorf("X-Error-Code = %q, want %q", got, domain.ErrOperatorSecretInvalid.Code)
	}
}

func TestOperatorAuthUnknownOperatorCollapsesTo401(t *testing.T) {
	auth := newFakeAuth(t, domain.RoleOperator)
	h := Chain(okHandler(), OperatorAuth(auth))

	req := httptest.NewRequest(http.MethodPost, "/v1/scans", nil)
	req.Header.Set("X-Operator-ID", "egop-nosuchoperator")
	req.Header.Set("X-Device-Secret", "whatever")

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	// Unknown operator must not be distinguishable from a wrong secret.
	if got := rec.Header().Get("X-Error-Code"); got != domain.ErrOperatorSecretInvalid.Code {
		t.Errorf("X-Error-Code = %q, want %q", got, domain.ErrOperatorSecretInvalid.Code)
	}
}

func TestOperatorAuthHeadersAndBearer(t *testing.T) {
	auth := newFakeAuth(t, domain.RoleOperator)

	var authed *domain.Operator
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authed = GetOperatorFromContext(r.Context())
	}), OperatorAuth(auth))

	// Header form.
	req := httptest.NewRequest(http.MethodPost, "/v1/scans", nil)
	req.Header.Set("X-Operator-ID", auth.operator.ID)
	req.Header.Set("X-Device-Secret", auth.secret)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("header auth status = %d, want 200", rec.Code)
	}
	if authed == nil || authed.ID != auth.operator.ID {
		t.Fatal("expected operator in request context")
	}

	// Bearer form.
	authed = nil
	req = httptest.NewRequest(http.MethodPost, "/v1/scans", nil)
	req.Header.Set("Authorization", "Bearer "+auth.operator.ID+":"+auth.secret)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("bearer auth status = %d, want 200", rec.Code)
	}
	if authed == nil || authed.ID != auth.operator.ID {
		t.Fatal("expected operator in request context")
	}
}

func TestAdminOnly(t *testing.T) {
	scanner := newFakeAuth(t, domain.RoleOperator)
	h := Chain(okHandler(), OperatorAuth(scanner), AdminOnly())

	req := httptest.NewRequest(http.MethodPost, "/v1/attendees", nil)
	req.Header.Set("X-Operator-ID", scanner.operator.ID)
	req.Header.Set("X-Device-Secret", scanner.secret)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	if got := rec.Header().Get("X-Error-Code"); got != domain.ErrOperatorForbidden.Code {
		t.Errorf("X-Error-Code = %q, want %q", got, domain.ErrOperatorForbidden.Code)
	}

	admin := newFakeAuth(t, domain.RoleAdmin)
	h = Chain(okHandler(), OperatorAuth(admin), AdminOnly())
	req = httptest.NewRequest(http.MethodPost, "/v1/attendees", nil)
	req.Header.Set("X-Operator-ID", admin.operator.ID)
	req.Header.Set("X-Device-Secret", admin.secret)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("admin status = %d, want 200", rec.Code)
	}
}

func TestRateLimitPerOperator(t *testing.T) {
	auth := newFakeAuth(t, domain.RoleOperator)
	h := Chain(okHandler(), OperatorAuth(auth), RateLimit(1))

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v1/scans", nil)
		req.Header.Set("X-Operator-ID", auth.operator.ID)
		req.Header.Set("X-Device-Secret", auth.secret)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	// 1 rps with burst 2: the first two immediate requests pass, the
	// third is throttled.
	if rec := send(); rec.Code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", rec.Code)
	}
	if rec := send(); rec.Code != http.StatusOK {
		t.Fatalf("second request status = %d, want 200", rec.Code)
	}
	rec := send()
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third request status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header on throttled response")
	}
}

func TestRateLimitDisabled(t *testing.T) {
	h := Chain(okHandler(), RateLimit(0))

	for i := 0; i < 20; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i, rec.Code)
		}
	}
}

func TestRecoverReturns500(t *testing.T) {
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}), Recover(logger.Default()))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if got := rec.Header().Get("X-Error-Code"); got != domain.ErrInternalServer.Code {
		t.Errorf("X-Error-Code = %q, want %q", got, domain.ErrInternalServer.Code)
	}
}
