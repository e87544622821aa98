// Package metric provides Prometheus metrics for the gate service.
package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "eventgate"

// Registry holds all application metrics plus the underlying Prometheus
// registry for exposition and for components that register their own
// collectors (the Badger store does).
type Registry struct {
	reg *prometheus.Registry

	// Scan metrics.
	ScansTotal   *prometheus.CounterVec
	ScanFailures *prometheus.CounterVec
	ScanDuration prometheus.Histogram

	// Presence metrics.
	AttendeesInside    prometheus.Gauge
	AttendeesProvision prometheus.Counter

	// Pass issuance.
	PassesIssued prometheus.Counter

	// HTTP metrics.
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewRegistry creates a registry with all gate metrics registered, along
// with the standard Go runtime and process collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		reg: reg,

		ScansTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "accepted_total",
			Help:      "Accepted scans by decided action (ENTRY or EXIT)",
		}, []string{"action"}),

		ScanFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "refused_total",
			Help:      "Refused scans by reason code",
		}, []string{"reason"}),

		ScanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "duration_seconds",
			Help:      "End-to-end scan processing latency",
			Buckets:   prometheus.DefBuckets,
		}),

		AttendeesInside: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "presence",
			Name:      "attendees_inside",
			Help:      "Attendees currently in the INSIDE state",
		}),

		AttendeesProvision: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "presence",
			Name:      "attendees_provisioned_total",
			Help:      "Attendees provisioned since start",
		}),

		PassesIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "pass",
			Name:      "issued_total",
			Help:      "Display pass tokens issued",
		}),

		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status code",
		}, []string{"method", "route", "code"}),

		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}

	reg.MustRegister(
		r.ScansTotal,
		r.ScanFailures,
		r.ScanDuration,
		r.AttendeesInside,
		r.AttendeesProvision,
		r.PassesIssued,
		r.RequestsTotal,
		r.RequestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

// Prometheus returns the underlying registry, for components that register
// their own collectors.
func (r *Registry) Prometheus() *prometheus.Registry {
	return r.reg
}

// Handler returns the HTTP handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
