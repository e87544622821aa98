package metric

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func newTestGauge() prometheus.Gauge {
	g := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "test_gauge",
		Help:      "test",
	})
	g.Set(1)
	return g
}

func TestRegistryExposition(t *testing.T) {
	r := NewRegistry()

	r.ScansTotal.WithLabelValues("ENTRY").Inc()
	r.ScansTotal.WithLabelValues("EXIT").Inc()
	r.ScanFailures.WithLabelValues("EG-PASS-4010").Inc()
	r.AttendeesInside.Set(42)
	r.ScanDuration.Observe(0.012)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("metrics endpoint status = %d", rec.Code)
	}

	body := rec.Body.String()
	for _, want := range []string{
		`eventgate_scan_accepted_total{action="ENTRY"} 1`,
		`eventgate_scan_accepted_total{action="EXIT"} 1`,
		`eventgate_scan_refused_total{reason="EG-PASS-4010"} 1`,
		`eventgate_presence_attendees_inside 42`,
		"eventgate_scan_duration_seconds_bucket",
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}

func TestRegistryAllowsExternalCollectors(t *testing.T) {
	r := NewRegistry()

	// Storage components register their own gauges.
	g := newTestGauge()
	r.Prometheus().MustRegister(g)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "eventgate_test_gauge") {
		t.Error("externally registered collector not exposed")
	}
}
