// Package huggingface provides the Hugging Face text-generation adapter.
//
// The inference API is not chat-shaped: the system prompt and user input
// are flattened into a single prompt string, and the model often echoes
// the prompt back, so the completion has to be recovered from the
// generated text.
package huggingface

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/tidwall/gjson"

	"voxd/internal/core"
	"voxd/internal/llmclient"
	"voxd/internal/providers"
)

const defaultBaseURL = "https://api-inference.huggingface.co"

const defaultModel = "mistralai/Mistral-7B-Instruct-v0.1"

var allowedModels = []string{
	"mistralai/Mistral-7B-Instruct-v0.1",
	"meta-llama/Llama-2-7b-chat",
}

// assistantMarker separates the prompt echo from the model's completion.
const assistantMarker = "Assistant:"

const maxNewTokens = 512

func init() {
	providers.Register(providers.KindHuggingFace, func(cfg providers.Config) (providers.TextProvider, error) {
		return New(cfg)
	})
}

// Adapter implements providers.TextProvider for the Hugging Face
// Inference API.
type Adapter struct {
	client *llmclient.Client
	apiKey string

	mu    sync.RWMutex
	model string
}

// New creates a new Hugging Face adapter. An empty credential fails construction.
func New(cfg providers.Config) (*Adapter, error) {
	if cfg.APIKey == "" {
		return nil, core.NewConfigurationError("API key not provided for huggingface", nil)
	}
	a := &Adapter{apiKey: cfg.APIKey, model: defaultModel}
	clientCfg := llmclient.DefaultConfig("huggingface", defaultBaseURL)
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

func (a *Adapter) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+a.apiKey)
}

// textGenerationRequest is the wire body for the inference API
type textGenerationRequest struct {
	Inputs     string `json:"inputs"`
	Parameters struct {
		MaxNewTokens int `json:"max_new_tokens"`
	} `json:"parameters"`
}

// Process sends a text-generation request to Hugging Face
func (a *Adapter) Process(ctx context.Context, userInput, systemPrompt string) core.ChatResult {
	var body textGenerationRequest
	body.Inputs = fmt.Sprintf("%s\n\nUser: %s\n\n%s", providers.OrDefaultPrompt(systemPrompt), userInput, assistantMarker)
	body.Parameters.MaxNewTokens = maxNewTokens

	resp, err := a.client.Do(ctx, llmclient.Request{
		Method:   http.MethodPost,
		Endpoint: "/models/" + a.Model(),
		Body:     body,
	})
	if err != nil {
		return providers.ErrorResult(providers.KindHuggingFace, err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return a.parseSuccess(resp.Body)
	case http.StatusUnauthorized:
		return core.ChatResult{
			Response: "Invalid Hugging Face token.",
			IsError:  true,
			Tokens:   0,
			Provider: providers.KindHuggingFace.String(),
		}
	default:
		return providers.ErrorResult(providers.KindHuggingFace,
			core.NewUpstreamError(providers.KindHuggingFace.String(), resp.StatusCode, resp.Body))
	}
}

// parseSuccess extracts the completion from a 200 body. List-shaped bodies
// yield element 0's generated_text with the prompt echo stripped; anything
// else is stringified with a zero token count.
func (a *Adapter) parseSuccess(body []byte) core.ChatResult {
	parsed := gjson.ParseBytes(body)
	if !parsed.IsArray() {
		return core.ChatResult{
			Response: parsed.String(),
			IsError:  false,
			Tokens:   0,
			Provider: providers.KindHuggingFace.String(),
		}
	}

	text := parsed.Get("0.generated_text").String()
	text = ExtractCompletion(text)
	return core.ChatResult{
		Response: text,
		IsError:  false,
		Tokens:   len(strings.Fields(text)),
		Provider: providers.KindHuggingFace.String(),
	}
}

// ExtractCompletion recovers the model's completion from a prompt-echoing
// response: everything after the last "Assistant:" marker, trimmed. Text
// without the marker passes through unchanged.
func ExtractCompletion(text string) string {
	if idx := strings.LastIndex(text, assistantMarker); idx >= 0 {
		return strings.TrimSpace(text[idx+len(assistantMarker):])
	}
	return text
}

// Kind returns the provider kind
func (a *Adapter) Kind() providers.Kind {
	return providers.KindHuggingFace
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
