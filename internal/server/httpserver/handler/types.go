// Package handler provides HTTP request handlers for the gate service.
package handler

import "time"

// Response is the standard API response envelope.
// All JSON responses use this format (except /metrics which uses Prometheus
// exposition format).
type Response struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp int64  `json:"timestamp"`
	Data      any    `json:"data,omitempty"`
	Details   any    `json:"details,omitempty"`
}

// NewResponse creates a success response.
func NewResponse(requestID string, data any) *Response {
	return &Response{
		Code:      "OK",
		Message:   "Success",
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(requestID, code, message string, details any) *Response {
	return &Response{
		Code:      code,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now().UnixMilli(),
		Details:   details,
	}
}

// ScanRequest is the request body for POST /v1/scans.
type ScanRequest struct {
	Token string `json:"token"`
}

// ProvisionAttendeeRequest is the request body for POST /v1/attendees.
type ProvisionAttendeeRequest struct {
	ExternalID string `json:"external_id"`
	FullName   string `json:"full_name"`
}

// AttendeeListResponse is the response body for GET /v1/attendees.
type AttendeeListResponse struct {
	Total     int `json:"total"`
	Inside    int `json:"inside"`
	Attendees any `json:"attendees"`
}

// CreateOperatorRequest is the request body for POST /v1/operators.
type CreateOperatorRequest struct {
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// CreateOperatorResponse is the response body for POST /v1/operators.
// DeviceSecret is returned exactly once; only its hash is stored.
type CreateOperatorResponse struct {
	Operator     any    `json:"operator"`
	DeviceSecret string `json:"device_secret"`
}

// IssueAssetTokenRequest is the request body for POST /v1/assets/tokens.
type IssueAssetTokenRequest struct {
	AssetID string `json:"asset_id"`
}

// IssueAssetTokenResponse is the response body for POST /v1/assets/tokens.
type IssueAssetTokenResponse struct {
	AssetID string `json:"asset_id"`
	Token   string `json:"token"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
}
