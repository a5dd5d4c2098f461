package core

// DefaultSystemPrompt is sent with every upstream call when the caller
// does not supply its own system prompt.
const DefaultSystemPrompt = "You are a helpful AI personal assistant. Be concise, friendly, and helpful. " +
	"Answer questions accurately and perform the requested tasks."

// ChatRequest represents a single normalized request to an upstream
// text-generation provider. Constructed per call, never persisted.
type ChatRequest struct {
	UserInput    string  `json:"user_input"`
	SystemPrompt string  `json:"system_prompt"`
	Model        string  `json:"model"`
	Temperature  float64 `json:"temperature"`
	MaxTokens    int     `json:"max_tokens"`
}

// Message represents a single message in a chat-completions payload
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResult is the normalized output of any provider call.
// IsError=true implies Response holds a human-readable diagnostic;
// raw upstream bodies are truncated before inclusion.
type ChatResult struct {
	Response string `json:"response"`
	IsError  bool   `json:"error"`
	Tokens   int    `json:"tokens"`
	Provider string `json:"provider,omitempty"`
}
