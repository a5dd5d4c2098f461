package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"voxd/internal/core"
	"voxd/internal/history"
	"voxd/internal/worker"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	pool := worker.NewPool(1, 4)
	t.Cleanup(pool.Close)

	handler := NewHandler(Deps{
		Adapter: &mockProvider{
			result: core.ChatResult{Response: "ok", Provider: "groq"},
			model:  "m", models: []string{"m"},
		},
		ProviderName: "groq",
		Log:          history.NewLog(),
		AutoSpeak:    history.NewAutoSpeak(true),
		Pool:         pool,
	})
	return New(handler, &Config{})
}

func TestRoutes(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{http.MethodGet, "/api/health", "", http.StatusOK},
		{http.MethodPost, "/api/process_text", `{"text": "hi"}`, http.StatusOK},
		{http.MethodPost, "/api/speak_toggle", `{}`, http.StatusOK},
		{http.MethodGet, "/api/tts/voices", "", http.StatusOK},
		{http.MethodGet, "/api/history", "", http.StatusOK},
		{http.MethodPost, "/api/clear_history", "", http.StatusOK},
		{http.MethodGet, "/api/models", "", http.StatusOK},
		{http.MethodPost, "/api/model/set", `{"model": "m"}`, http.StatusOK},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
		if tt.body != "" {
			req.Header.Set("Content-Type", "application/json")
		}
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		if rec.Code != tt.status {
			t.Errorf("%s %s: status = %d, want %d\n%s", tt.method, tt.path, rec.Code, tt.status, rec.Body.String())
		}
	}
}

// Unmatched paths answer with a JSON body, not echo's default error page.
func TestNotFoundIsJSON(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/no/such/path", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("404 body is not JSON: %s", rec.Body.String())
	}
	if body["error"] == nil {
		t.Errorf("404 body = %v, want an error field", body)
	}
}

func TestRequestIDHeader(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("response missing request ID header")
	}
}

func TestAssistantErrorRendering(t *testing.T) {
	err := core.NewCapabilityUnavailableError("no mic")

	srv := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := srv.echo.NewContext(req, rec)

	errorHandler(err, c)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
	var body map[string]interface{}
	if jsonErr := json.Unmarshal(rec.Body.Bytes(), &body); jsonErr != nil {
		t.Fatalf("body is not JSON: %s", rec.Body.String())
	}
	if body["error"] != "no mic" || body["response"] != "no mic" {
		t.Errorf("body = %v", body)
	}
}
