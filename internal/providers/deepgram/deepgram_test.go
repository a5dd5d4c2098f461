package deepgram

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"voxd/internal/providers"
)

func newTestAdapter(t *testing.T, serverURL string) *Adapter {
	t.Helper()
	a, err := New(providers.Config{Kind: providers.KindDeepgram, APIKey: "dg-key", BaseURL: serverURL})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return a
}

// Text processing reports the fixed diagnostic without ever reaching the
// network.
func TestProcessMakesNoNetworkCall(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	a := newTestAdapter(t, server.URL)
	result := a.Process(context.Background(), "hello", "")

	if !result.IsError {
		t.Fatal("expected error result")
	}
	if result.Response != "Deepgram LLM support coming soon. Use speech-to-text instead." {
		t.Errorf("Response = %q, want fixed diagnostic", result.Response)
	}
	if result.Provider != "deepgram" {
		t.Errorf("Provider = %q", result.Provider)
	}
	if hits.Load() != 0 {
		t.Errorf("upstream was contacted %d times, want 0", hits.Load())
	}
}

func TestTranscribe(t *testing.T) {
	audio := []byte("RIFF....WAVEfmt fake")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/listen" {
			t.Errorf("path = %q, want /v1/listen", r.URL.Path)
		}
		if r.URL.Query().Get("model") != "nova-2" || r.URL.Query().Get("language") != "en" {
			t.Errorf("query = %q", r.URL.RawQuery)
		}
		if r.Header.Get("Authorization") != "Token dg-key" {
			t.Errorf("Authorization = %q, want Token scheme", r.Header.Get("Authorization"))
		}
		if r.Header.Get("Content-Type") != "audio/wav" {
			t.Errorf("Content-Type = %q", r.Header.Get("Content-Type"))
		}
		body := new(bytes.Buffer)
		_, _ = body.ReadFrom(r.Body)
		if !bytes.Equal(body.Bytes(), audio) {
			t.Error("audio bytes were not forwarded verbatim")
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{
			"results": {"channels": [{"alternatives": [{"transcript": "hello world", "confidence": 0.98}]}]}
		}`))
	}))
	defer server.Close()

	a := newTestAdapter(t, server.URL)
	text, err := a.Transcribe(context.Background(), audio, "audio/wav")
	if err != nil {
		t.Fatalf("Transcribe() failed: %v", err)
	}
	if text != "hello world" {
		t.Errorf("transcript = %q, want hello world", text)
	}
}

func TestTranscribeEmptyResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"results": {"channels": []}}`))
	}))
	defer server.Close()

	a := newTestAdapter(t, server.URL)
	text, err := a.Transcribe(context.Background(), []byte("audio"), "")
	if err != nil {
		t.Fatalf("Transcribe() failed: %v", err)
	}
	if text != "" {
		t.Errorf("transcript = %q, want empty", text)
	}
}

func TestTranscribeUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"err_msg": "unsupported encoding"}`))
	}))
	defer server.Close()

	a := newTestAdapter(t, server.URL)
	_, err := a.Transcribe(context.Background(), []byte("audio"), "")
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestSpeakRemote(t *testing.T) {
	wantAudio := []byte{0x52, 0x49, 0x46, 0x46, 0x00}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/speak" {
			t.Errorf("path = %q, want /v1/speak", r.URL.Path)
		}
		if r.URL.Query().Get("model") != DefaultVoice {
			t.Errorf("model = %q, want default voice", r.URL.Query().Get("model"))
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(wantAudio)
	}))
	defer server.Close()

	a := newTestAdapter(t, server.URL)
	audio, err := a.SpeakRemote(context.Background(), "hello", "")
	if err != nil {
		t.Fatalf("SpeakRemote() failed: %v", err)
	}
	if !bytes.Equal(audio, wantAudio) {
		t.Errorf("audio = %v, want raw upstream bytes", audio)
	}
}

func TestSetModel(t *testing.T) {
	a := newTestAdapter(t, "http://unused")

	if a.Model() != "deepgram-nova-2" {
		t.Errorf("default model = %q", a.Model())
	}
	if !a.SetModel("deepgram-base") {
		t.Error("SetModel rejected an allow-listed model")
	}
	if a.SetModel("whisper-1") {
		t.Error("SetModel accepted a model outside the allow-list")
	}
}
