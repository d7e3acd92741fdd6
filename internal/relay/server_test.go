package relay

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func newTestRelay(t *testing.T, opts Options) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"http://localhost:3000"}
	}
	return NewServer(opts, zap.NewNop())
}

func (s *Server) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var data []byte
	if body != nil {
		var err error
		data, err = json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func parseJSONResponse(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return resp
}

func TestTelemetryPassthrough(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"temperature": 21.5, "online": true}`))
	}))
	defer upstream.Close()

	s := newTestRelay(t, Options{TelemetryURL: upstream.URL})

	w := s.do(t, http.MethodGet, "/api/telemetry", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	resp := parseJSONResponse(t, w)
	if resp["temperature"].(float64) != 21.5 {
		t.Errorf("temperature = %v", resp["temperature"])
	}
}

func TestTelemetryUpstreamDown(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close() // nothing is listening anymore

	s := newTestRelay(t, Options{TelemetryURL: upstream.URL})

	w := s.do(t, http.MethodGet, "/api/telemetry", nil)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
	resp := parseJSONResponse(t, w)
	if resp["error"] != "relay is unavailable" {
		t.Errorf("error = %v", resp["error"])
	}
}

func TestTelemetryNonJSONBody(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("plain text status"))
	}))
	defer upstream.Close()

	s := newTestRelay(t, Options{TelemetryURL: upstream.URL})

	w := s.do(t, http.MethodGet, "/api/telemetry", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	resp := parseJSONResponse(t, w)
	if resp["raw"] != "plain text status" {
		t.Errorf("raw = %v", resp["raw"])
	}
}

func TestTelemetryUpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"detail": "maintenance"}`))
	}))
	defer upstream.Close()

	s := newTestRelay(t, Options{TelemetryURL: upstream.URL})

	w := s.do(t, http.MethodGet, "/api/telemetry", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want passthrough 503", w.Code)
	}
	resp := parseJSONResponse(t, w)
	if resp["error"] != "relay returned an error" {
		t.Errorf("error = %v", resp["error"])
	}
	if resp["status"].(float64) != 503 {
		t.Errorf("status field = %v", resp["status"])
	}
}

func TestTelemetryNotConfigured(t *testing.T) {
	s := newTestRelay(t, Options{})

	w := s.do(t, http.MethodGet, "/api/telemetry", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
}

func TestCommandNotConfigured(t *testing.T) {
	s := newTestRelay(t, Options{})

	w := s.do(t, http.MethodPost, "/api/command", map[string]any{"type": "ping", "value": 1})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	resp := parseJSONResponse(t, w)
	if resp["error"] != "Server is not configured for command relay" {
		t.Errorf("error = %v", resp["error"])
	}
}

func TestCommandValidation(t *testing.T) {
	s := newTestRelay(t, Options{CommandURL: "http://127.0.0.1:1"})

	tests := []struct {
		name string
		body any
	}{
		{"missing type", map[string]any{"value": 42}},
		{"empty type", map[string]any{"type": "  ", "value": 42}},
		{"non-string type", map[string]any{"type": 7, "value": 42}},
		{"missing value", map[string]any{"type": "set_temperature"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/api/command", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (body %s)", w.Code, w.Body.String())
			}
		})
	}
}

func TestCommandForwarding(t *testing.T) {
	var received map[string]any
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&received)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"accepted": true}`))
	}))
	defer upstream.Close()

	s := newTestRelay(t, Options{CommandURL: upstream.URL})

	w := s.do(t, http.MethodPost, "/api/command", map[string]any{
		"type":  "  set_temperature  ",
		"value": 22,
		"extra": "not forwarded",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	if received["type"] != "set_temperature" {
		t.Errorf("forwarded type = %v, want trimmed", received["type"])
	}
	if received["value"].(float64) != 22 {
		t.Errorf("forwarded value = %v", received["value"])
	}
	if _, ok := received["extra"]; ok {
		t.Error("unexpected extra field forwarded upstream")
	}
}

func TestCommandUpstreamTimeout(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer upstream.Close()

	s := newTestRelay(t, Options{CommandURL: upstream.URL, Timeout: 50 * time.Millisecond})

	w := s.do(t, http.MethodPost, "/api/command", map[string]any{"type": "ping", "value": 1})
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502 on timeout", w.Code)
	}
	resp := parseJSONResponse(t, w)
	if resp["error"] != "relay is unavailable" {
		t.Errorf("error = %v", resp["error"])
	}
}

func TestCORSHeaders(t *testing.T) {
	s := newTestRelay(t, Options{
		TelemetryURL:   "http://127.0.0.1:1",
		AllowedOrigins: []string{"http://localhost:3000"},
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/command", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Allow-Origin = %q", got)
	}

	// A wildcard entry opens the allow-list to any origin.
	s = newTestRelay(t, Options{
		TelemetryURL:   "http://127.0.0.1:1",
		AllowedOrigins: []string{"http://localhost:3000", "*"},
	})
	req = httptest.NewRequest(http.MethodOptions, "/api/command", nil)
	req.Header.Set("Origin", "http://anywhere.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("wildcard Allow-Origin = %q, want *", got)
	}

	// Disallowed origins get no CORS headers.
	req = httptest.NewRequest(http.MethodOptions, "/api/command", nil)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Allow-Origin for disallowed origin = %q", got)
	}
}
