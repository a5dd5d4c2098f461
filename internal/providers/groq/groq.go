// Package groq provides the Groq chat-completions adapter.
package groq

import (
	"context"
	"net/http"
	"sync"

	"voxd/internal/core"
	"voxd/internal/llmclient"
	"voxd/internal/providers"
)

const defaultBaseURL = "https://api.groq.com/openai/v1"

const defaultModel = "llama-3.3-70b-versatile"

// allowedModels is the fixed model allow-list for Groq.
var allowedModels = []string{
	"llama-3.3-70b-versatile",
	"llama-3.1-8b-instant",
	"qwen/qwen3-32b",
}

func init() {
	providers.Register(providers.KindGroq, func(cfg providers.Config) (providers.TextProvider, error) {
		return New(cfg)
	})
}

// Adapter implements providers.TextProvider for Groq
type Adapter struct {
	client *llmclient.Client
	apiKey string

	mu    sync.RWMutex
	model string
}

// New creates a new Groq adapter. An empty credential fails construction.
func New(cfg providers.Config) (*Adapter, error) {
	if cfg.APIKey == "" {
		return nil, core.NewConfigurationError("API key not provided for groq", nil)
	}
	a := &Adapter{apiKey: cfg.APIKey, model: defaultModel}
	clientCfg := llmclient.DefaultConfig("groq", defaultBaseURL)
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

// Process sends a chat completion request to Groq
func (a *Adapter) Process(ctx context.Context, userInput, systemPrompt string) core.ChatResult {
	return providers.ProcessChatCompletions(ctx, a.client, providers.KindGroq, core.ChatRequest{
		UserInput:    userInput,
		SystemPrompt: systemPrompt,
		Model:        a.Model(),
	})
}

// Kind returns the provider kind
func (a *Adapter) Kind() providers.Kind {
	return providers.KindGroq
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
