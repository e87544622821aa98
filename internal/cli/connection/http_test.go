package connection

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewClientSchemeDefaulting(t *testing.T) {
	cases := map[string]string{
		"localhost:5080":         "http://localhost:5080",
		"http://gate.local":      "http://gate.local",
		"https://gate.example":   "https://gate.example",
		"127.0.0.1:5080":         "http://127.0.0.1:5080",
		"https://gate.test:9443": "https://gate.test:9443",
	}
	for in, want := range cases {
		if got := NewClient(in, "", "").BaseURL(); got != want {
			t.Errorf("NewClient(%q).BaseURL() = %q, want %q", in, got, want)
		}
	}
}

func TestClientSendsOperatorCredentials(t *testing.T) {
	var gotID, gotSecret, gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-Operator-ID")
		gotSecret = r.Header.Get("X-Device-Secret")
		gotAgent = r.Header.Get("User-Agent")
		json.NewEncoder(w).Encode(map[string]any{"code": "OK", "message": "Success"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "egop-test", "s3cret")
	resp, err := client.Get(context.Background(), "/health")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if err := ParseResponse(resp, nil); err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}

	if gotID != "egop-test" || gotSecret != "s3cret" {
		t.Errorf("credentials = %q/%q", gotID, gotSecret)
	}
	if gotAgent != "gate-admin/1.0" {
		t.Errorf("user agent = %q", gotAgent)
	}
}

func TestParseResponseUnwrapsData(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"code":    "OK",
			"message": "Success",
			"data":    map[string]any{"id": "egat-123", "full_name": "Someone"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "")
	resp, err := client.Post(context.Background(), "/v1/attendees", map[string]string{"external_id": "enr-1"})
	if err != nil {
		t.Fatalf("Post: %v", err)
	}

	var data struct {
		ID       string `json:"id"`
		FullName string `json:"full_name"`
	}
	if err := ParseResponse(resp, &data); err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if data.ID != "egat-123" || data.FullName != "Someone" {
		t.Errorf("data = %+v", data)
	}
}

func TestParseResponseErrorEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]any{
			"code":    "EG-ATTN-4040",
			"message": "attendee not found",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "")
	resp, err := client.Get(context.Background(), "/v1/attendees/egat-missing")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	err = ParseResponse(resp, nil)
	if err == nil {
		t.Fatal("expected error for 404 response")
	}
	if got := err.Error(); got != "[EG-ATTN-4040] attendee not found" {
		t.Errorf("error = %q", got)
	}
}

func TestParseResponseNonJSONError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream broke"))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", "")
	resp, err := client.Get(context.Background(), "/health")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	err = ParseResponse(resp, nil)
	if err == nil {
		t.Fatal("expected error for 502 response")
	}
}
