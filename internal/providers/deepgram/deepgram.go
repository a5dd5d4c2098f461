// Package deepgram provides the Deepgram adapter. Deepgram is a speech
// service: the text contract is intentionally unsupported and reports a
// fixed diagnostic without touching the network, while the speech surface
// (remote TTS and transcription) is fully wired.
package deepgram

import (
	"context"
	"net/http"
	"sync"

	"github.com/tidwall/gjson"

	"voxd/internal/core"
	"voxd/internal/llmclient"
	"voxd/internal/providers"
)

const defaultBaseURL = "https://api.deepgram.com"

const defaultModel = "deepgram-nova-2"

var allowedModels = []string{
	"deepgram-nova-2",
	"deepgram-nova",
	"deepgram-base",
}

// sttModel is the recognition model used for /v1/listen.
const sttModel = "nova-2"

// DefaultVoice is the TTS voice used when none is requested.
const DefaultVoice = "aura-asteria-en"

// Voices is the fixed set of Deepgram aura TTS voices.
var Voices = []string{
	"aura-asteria-en",
	"aura-luna-en",
	"aura-stella-en",
	"aura-athena-en",
	"aura-hera-en",
	"aura-orion-en",
	"aura-arcas-en",
	"aura-perseus-en",
	"aura-angus-en",
}

func init() {
	providers.Register(providers.KindDeepgram, func(cfg providers.Config) (providers.TextProvider, error) {
		return New(cfg)
	})
}

// Adapter implements providers.TextProvider plus the remote speech surface.
type Adapter struct {
	client *llmclient.Client
	apiKey string

	mu    sync.RWMutex
	model string
}

// New creates a new Deepgram adapter. An empty credential fails construction.
func New(cfg providers.Config) (*Adapter, error) {
	if cfg.APIKey == "" {
		return nil, core.NewConfigurationError("API key not provided for deepgram", nil)
	}
	a := &Adapter{apiKey: cfg.APIKey, model: defaultModel}
	clientCfg := llmclient.DefaultConfig("deepgram", defaultBaseURL)
	clientCfg.Hooks = cfg.Hooks
	a.client = llmclient.New(clientCfg, a.setHeaders)
	if cfg.BaseURL != "" {
		a.client.SetBaseURL(cfg.BaseURL)
	}
	return a, nil
}

// SetBaseURL allows configuring a custom base URL for the adapter
func (a *Adapter) SetBaseURL(url string) {
	a.client.SetBaseURL(url)
}

// Deepgram authenticates with a Token scheme, not Bearer.
func (a *Adapter) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Token "+a.apiKey)
}

// Process always reports that Deepgram has no text-generation support.
// No network call is made.
func (a *Adapter) Process(_ context.Context, _, _ string) core.ChatResult {
	return core.ChatResult{
		Response: "Deepgram LLM support coming soon. Use speech-to-text instead.",
		IsError:  true,
		Tokens:   0,
		Provider: providers.KindDeepgram.String(),
	}
}

// SpeakRemote converts text to audio via /v1/speak, returning raw audio
// bytes. An empty voice selects DefaultVoice.
func (a *Adapter) SpeakRemote(ctx context.Context, text, voice string) ([]byte, error) {
	if voice == "" {
		voice = DefaultVoice
	}
	resp, err := a.client.Do(ctx, llmclient.Request{
		Method:   http.MethodPost,
		Endpoint: "/v1/speak?model=" + voice + "&encoding=linear16",
		Body:     map[string]string{"text": text},
	})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, core.NewUpstreamError(providers.KindDeepgram.String(), resp.StatusCode, resp.Body)
	}
	return resp.Body, nil
}

// Transcribe sends raw audio to /v1/listen and returns the transcript of
// the first alternative of the first channel.
func (a *Adapter) Transcribe(ctx context.Context, audio []byte, contentType string) (string, error) {
	if contentType == "" {
		contentType = "audio/wav"
	}
	resp, err := a.client.Do(ctx, llmclient.Request{
		Method:   http.MethodPost,
		Endpoint: "/v1/listen?model=" + sttModel + "&language=en",
		RawBody:  audio,
		Headers:  map[string]string{"Content-Type": contentType},
	})
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", core.NewUpstreamError(providers.KindDeepgram.String(), resp.StatusCode, resp.Body)
	}
	return gjson.GetBytes(resp.Body, "results.channels.0.alternatives.0.transcript").String(), nil
}

// Kind returns the provider kind
func (a *Adapter) Kind() providers.Kind {
	return providers.KindDeepgram
}

// Model returns the currently active model
func (a *Adapter) Model() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.model
}

// Models returns the fixed model allow-list
func (a *Adapter) Models() []string {
	out := make([]string, len(allowedModels))
	copy(out, allowedModels)
	return out
}

// SetModel activates an allow-listed model. Unknown names are a no-op
// reported as false.
func (a *Adapter) SetModel(name string) bool {
	for _, m := range allowedModels {
		if m == name {
			a.mu.Lock()
			a.model = name
			a.mu.Unlock()
			return true
		}
	}
	return false
}
