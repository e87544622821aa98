// Package metric provides Prometheus metrics for the gate service.
//
// A single Registry owns every application metric: scan outcomes,
// presence occupancy, pass issuance, and HTTP request accounting. Storage
// components attach their own collectors through Prometheus().
package metric
