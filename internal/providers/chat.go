package providers

import (
	"context"
	"net/http"

	"voxd/internal/core"
	"voxd/internal/llmclient"
)

const (
	chatTemperature = 0.7
	chatMaxTokens   = 1024
)

// chatCompletionsRequest is the wire body for OpenAI-style chat APIs
type chatCompletionsRequest struct {
	Model       string         `json:"model"`
	Messages    []core.Message `json:"messages"`
	Temperature float64        `json:"temperature"`
	MaxTokens   int            `json:"max_tokens"`
}

// chatCompletionsResponse is the subset of the success body we consume
type chatCompletionsResponse struct {
	Choices []struct {
		Message core.Message `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// ProcessChatCompletions implements the shared request/response mapping for
// chat-completions style providers (groq, together). Zero Temperature and
// MaxTokens take the fixed defaults. Status mapping: 200 extracts
// choices[0].message.content and usage.total_tokens, 401 maps to a fixed
// invalid-credentials message regardless of body, anything else embeds the
// status code and a truncated body excerpt.
func ProcessChatCompletions(ctx context.Context, client *llmclient.Client, kind Kind, req core.ChatRequest) core.ChatResult {
	if req.Temperature == 0 {
		req.Temperature = chatTemperature
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = chatMaxTokens
	}

	body := chatCompletionsRequest{
		Model: req.Model,
		Messages: []core.Message{
			{Role: "system", Content: OrDefaultPrompt(req.SystemPrompt)},
			{Role: "user", Content: req.UserInput},
		},
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}

	resp, err := client.Do(ctx, llmclient.Request{
		Method:   http.MethodPost,
		Endpoint: "/chat/completions",
		Body:     body,
	})
	if err != nil {
		return ErrorResult(kind, err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		var parsed chatCompletionsResponse
		if err := client.DecodeJSON(resp.Body, &parsed); err != nil {
			return ErrorResult(kind, err)
		}
		if len(parsed.Choices) == 0 {
			return ErrorResult(kind, core.NewTransportError(kind.String(), "response contained no choices", nil))
		}
		return core.ChatResult{
			Response: parsed.Choices[0].Message.Content,
			IsError:  false,
			Tokens:   parsed.Usage.TotalTokens,
			Provider: kind.String(),
		}
	case http.StatusUnauthorized:
		return core.ChatResult{
			Response: "Invalid API key. Please check your credentials.",
			IsError:  true,
			Tokens:   0,
			Provider: kind.String(),
		}
	default:
		return ErrorResult(kind, core.NewUpstreamError(kind.String(), resp.StatusCode, resp.Body))
	}
}
