package providers

import (
	"context"
	"errors"

	"voxd/internal/core"
)

// TextProvider is the contract every adapter satisfies. Process never
// returns an error: all upstream and transport failures are folded into a
// ChatResult with IsError set, so nothing provider-related propagates to
// the HTTP layer as an unhandled fault.
type TextProvider interface {
	// Process sends the user input with the given system prompt upstream
	// and returns the normalized result. An empty systemPrompt substitutes
	// core.DefaultSystemPrompt.
	Process(ctx context.Context, userInput, systemPrompt string) core.ChatResult

	// Kind returns the provider kind this adapter was built for.
	Kind() Kind

	// Model returns the currently active model identifier.
	Model() string

	// Models returns the provider's fixed model allow-list.
	Models() []string

	// SetModel activates a model from the allow-list. Unknown names leave
	// the active model unchanged and report false.
	SetModel(name string) bool
}

// OrDefaultPrompt substitutes the default system prompt for empty input.
func OrDefaultPrompt(systemPrompt string) string {
	if systemPrompt == "" {
		return core.DefaultSystemPrompt
	}
	return systemPrompt
}

// ErrorResult folds an adapter-boundary error into the ChatResult shape.
// Typed errors contribute their message only; the taxonomy tag stays out of
// user-visible text.
func ErrorResult(kind Kind, err error) core.ChatResult {
	msg := err.Error()
	var ae *core.AssistantError
	if errors.As(err, &ae) {
		msg = ae.Message
	}
	return core.ChatResult{
		Response: msg,
		IsError:  true,
		Tokens:   0,
		Provider: kind.String(),
	}
}
