package command

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// fakeGate is a minimal in-memory stand-in for the gate service API.
type fakeGate struct {
	t         *testing.T
	server    *httptest.Server
	attendees []map[string]any
	operators []map[string]any

	// lastAuth records the credentials of the most recent request.
	lastOperatorID   string
	lastDeviceSecret string
}

func newFakeGate(t *testing.T) *fakeGate {
	t.Helper()

	g := &fakeGate{t: t}
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/attendees", func(w http.ResponseWriter, r *http.Request) {
		g.recordAuth(r)
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		attendee := map[string]any{
			"id":             "egat-test0001",
			"external_id":    body["external_id"],
			"full_name":      body["full_name"],
			"location_state": "OUTSIDE",
		}
		g.attendees = append(g.attendees, attendee)
		writeEnvelope(w, http.StatusCreated, attendee)
	})

	mux.HandleFunc("GET /v1/attendees", func(w http.ResponseWriter, r *http.Request) {
		g.recordAuth(r)
		writeEnvelope(w, http.StatusOK, map[string]any{
			"total":     len(g.attendees),
			"inside":    0,
			"attendees": g.attendees,
		})
	})

	mux.HandleFunc("GET /v1/attendees/{id}/pass", func(w http.ResponseWriter, r *http.Request) {
		g.recordAuth(r)
		writeEnvelope(w, http.StatusOK, map[string]any{
			"token": "egps_deadbeef",
			"rotation": map[string]any{
				"seconds_until_rotation": 12,
				"rotation_interval":      30,
				"grace_period_seconds":   60,
			},
		})
	})

	mux.HandleFunc("POST /v1/operators", func(w http.ResponseWriter, r *http.Request) {
		g.recordAuth(r)
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		operator := map[string]any{
			"id":     "egop-test0001",
			"name":   body["full_name"],
			"role":   body["role"],
			"status": "active",
		}
		g.operators = append(g.operators, operator)
		writeEnvelope(w, http.StatusCreated, map[string]any{
			"operator":      operator,
			"device_secret": "egds_secret_once",
		})
	})

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, http.StatusOK, map[string]any{"status": "ok", "version": "test"})
	})

	g.server = httptest.NewServer(mux)
	t.Cleanup(g.server.Close)
	return g
}

func (g *fakeGate) recordAuth(r *http.Request) {
	g.lastOperatorID = r.Header.Get("X-Operator-ID")
	g.lastDeviceSecret = r.Header.Get("X-Device-Secret")
}

func writeEnvelope(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"code":    "OK",
		"message": "Success",
		"data":    data,
	})
}

// runApp runs gate-admin with the given arguments against the fake gate
// and returns the captured stdout.
func runApp(t *testing.T, g *fakeGate, args ...string) (string, error) {
	t.Helper()

	app := App()
	var buf bytes.Buffer
	app.Writer = &buf

	full := append([]string{
		"gate-admin",
		"--server", g.server.URL,
		"--operator-id", "egop-admin",
		"--device-secret", "admin-secret",
	}, args...)

	err := app.Run(full)
	return buf.String(), err
}
