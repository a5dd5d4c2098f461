package huggingface

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"voxd/internal/providers"
)

func newTestAdapter(t *testing.T, serverURL string) *Adapter {
	t.Helper()
	a, err := New(providers.Config{Kind: providers.KindHuggingFace, APIKey: "hf-token", BaseURL: serverURL})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return a
}

func TestProcessPromptShape(t *testing.T) {
	var gotPath string
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[{"generated_text": "Assistant: ok"}]`))
	}))
	defer server.Close()

	a := newTestAdapter(t, server.URL)
	a.Process(context.Background(), "what time is it", "You are terse.")

	if gotPath != "/models/mistralai/Mistral-7B-Instruct-v0.1" {
		t.Errorf("path = %q, want model-addressed endpoint", gotPath)
	}

	inputs, _ := gotBody["inputs"].(string)
	want := "You are terse.\n\nUser: what time is it\n\nAssistant:"
	if inputs != want {
		t.Errorf("inputs = %q, want %q", inputs, want)
	}

	params, _ := gotBody["parameters"].(map[string]interface{})
	if params["max_new_tokens"] != float64(512) {
		t.Errorf("max_new_tokens = %v, want 512", params["max_new_tokens"])
	}
}

func TestProcessListBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		// Model echoes the whole prompt back before its completion.
		_, _ = w.Write([]byte(`[{"generated_text": "system\n\nUser: hi\n\nAssistant: The answer is forty two.  "}]`))
	}))
	defer server.Close()

	a := newTestAdapter(t, server.URL)
	result := a.Process(context.Background(), "hi", "")

	if result.IsError {
		t.Fatalf("unexpected error result: %q", result.Response)
	}
	if result.Response != "The answer is forty two." {
		t.Errorf("Response = %q, want trimmed completion after marker", result.Response)
	}
	// Tokens are approximated by whitespace word count.
	if result.Tokens != 5 {
		t.Errorf("Tokens = %d, want 5", result.Tokens)
	}
}

// Bodies that are not JSON lists are stringified with a zero token count.
func TestProcessNonListBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"error": "model is loading", "estimated_time": 20}`))
	}))
	defer server.Close()

	a := newTestAdapter(t, server.URL)
	result := a.Process(context.Background(), "hi", "")

	if result.IsError {
		t.Fatal("non-list 200 body is not an error result")
	}
	if !strings.Contains(result.Response, "model is loading") {
		t.Errorf("Response = %q, want stringified body", result.Response)
	}
	if result.Tokens != 0 {
		t.Errorf("Tokens = %d, want 0", result.Tokens)
	}
}

func TestProcessUnauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error": "unauthorized"}`))
	}))
	defer server.Close()

	a := newTestAdapter(t, server.URL)
	result := a.Process(context.Background(), "hi", "")

	if !result.IsError {
		t.Fatal("expected error result")
	}
	if result.Response != "Invalid Hugging Face token." {
		t.Errorf("Response = %q, want fixed token message", result.Response)
	}
}

func TestExtractCompletion(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"single marker", "prompt\n\nAssistant: hello", "hello"},
		{"last marker wins", "Assistant: echo Assistant:  real reply ", "real reply"},
		{"no marker passes through", "plain completion", "plain completion"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractCompletion(tt.text); got != tt.want {
				t.Errorf("ExtractCompletion(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestSetModel(t *testing.T) {
	a := newTestAdapter(t, "http://unused")

	if !a.SetModel("meta-llama/Llama-2-7b-chat") {
		t.Error("SetModel rejected an allow-listed model")
	}
	if a.SetModel("gpt2") {
		t.Error("SetModel accepted a model outside the allow-list")
	}
	if a.Model() != "meta-llama/Llama-2-7b-chat" {
		t.Errorf("model = %q", a.Model())
	}
}
