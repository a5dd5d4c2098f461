package core

import (
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestHTTPStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  *AssistantError
		want int
	}{
		{"configuration", NewConfigurationError("missing key", nil), http.StatusServiceUnavailable},
		{"upstream", NewUpstreamError("groq", 500, []byte("boom")), http.StatusBadGateway},
		{"transport", NewTransportError("groq", "connection refused", nil), http.StatusBadGateway},
		{"invalid input", NewInvalidInputError("no text"), http.StatusBadRequest},
		{"capability", NewCapabilityUnavailableError("no mic"), http.StatusServiceUnavailable},
		{"explicit code wins", &AssistantError{Type: ErrorTypeUpstream, StatusCode: 429}, 429},
		{"type fallback", &AssistantError{Type: ErrorTypeInvalidInput}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.HTTPStatusCode(); got != tt.want {
				t.Errorf("HTTPStatusCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestUpstreamErrorMessage(t *testing.T) {
	err := NewUpstreamError("groq", 500, []byte(`{"error":"internal"}`))
	want := `API Error 500: {"error":"internal"}`
	if err.Message != want {
		t.Errorf("Message = %q, want %q", err.Message, want)
	}
}

func TestUpstreamErrorTruncatesBody(t *testing.T) {
	body := []byte(strings.Repeat("x", 500))
	err := NewUpstreamError("groq", 502, body)

	want := "API Error 502: " + strings.Repeat("x", 200)
	if err.Message != want {
		t.Errorf("Message = %q, want 200-byte excerpt", err.Message)
	}
}

func TestTruncateBody(t *testing.T) {
	if got := TruncateBody([]byte("short")); got != "short" {
		t.Errorf("TruncateBody(short) = %q", got)
	}
	long := strings.Repeat("a", 201)
	if got := TruncateBody([]byte(long)); len(got) != 200 {
		t.Errorf("TruncateBody(long) returned %d bytes, want 200", len(got))
	}
}

func TestTransportErrorPrefix(t *testing.T) {
	err := NewTransportError("together", "request failed: connection refused", nil)
	if !strings.HasPrefix(err.Message, "together: ") {
		t.Errorf("Message = %q, want provider prefix", err.Message)
	}
}

func TestErrorString(t *testing.T) {
	withProvider := NewTransportError("groq", "timeout", nil)
	if got := withProvider.Error(); got != "[groq] transport_error: groq: timeout" {
		t.Errorf("Error() = %q", got)
	}

	withoutProvider := NewInvalidInputError("no text")
	if got := withoutProvider.Error(); got != "invalid_input_error: no text" {
		t.Errorf("Error() = %q", got)
	}
}

func TestUnwrap(t *testing.T) {
	inner := errors.New("dial tcp: refused")
	err := NewTransportError("groq", "request failed", inner)
	if !errors.Is(err, inner) {
		t.Error("expected errors.Is to find the wrapped error")
	}
}

func TestToJSON(t *testing.T) {
	err := NewInvalidInputError("No text provided")
	m := err.ToJSON()
	if m["error"] != "No text provided" || m["response"] != "No text provided" {
		t.Errorf("ToJSON() = %v", m)
	}
}
