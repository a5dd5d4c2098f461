// Package core provides shared types and the error taxonomy for the assistant.
package core

import (
	"fmt"
	"net/http"
)

// ErrorType represents the type of error that occurred
type ErrorType string

const (
	// ErrorTypeConfiguration indicates a missing credential or unknown provider (fatal at construction)
	ErrorTypeConfiguration ErrorType = "configuration_error"
	// ErrorTypeUpstream indicates a non-200 response from a provider
	ErrorTypeUpstream ErrorType = "upstream_error"
	// ErrorTypeTransport indicates a network, timeout, or malformed-body failure
	ErrorTypeTransport ErrorType = "transport_error"
	// ErrorTypeInvalidInput indicates a client error (empty text, absent audio)
	ErrorTypeInvalidInput ErrorType = "invalid_input_error"
	// ErrorTypeCapabilityUnavailable indicates a degraded subsystem (no speech, no adapter)
	ErrorTypeCapabilityUnavailable ErrorType = "capability_unavailable"
)

// maxBodyExcerpt bounds how much of a raw upstream body may appear in a
// user-visible message.
const maxBodyExcerpt = 200

// AssistantError is the base error type for all assistant errors
type AssistantError struct {
	Type       ErrorType `json:"type"`
	Message    string    `json:"message"`
	StatusCode int       `json:"status_code"`
	Provider   string    `json:"provider,omitempty"`
	// Original error for debugging (not exposed to clients)
	Err error `json:"-"`
}

// Error implements the error interface
func (e *AssistantError) Error() string {
	if e.Provider != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Provider, e.Type, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap implements the error unwrapping interface
func (e *AssistantError) Unwrap() error {
	return e.Err
}

// HTTPStatusCode returns the appropriate HTTP status code for this error
func (e *AssistantError) HTTPStatusCode() int {
	if e.StatusCode != 0 {
		return e.StatusCode
	}
	switch e.Type {
	case ErrorTypeInvalidInput:
		return http.StatusBadRequest
	case ErrorTypeConfiguration, ErrorTypeCapabilityUnavailable:
		return http.StatusServiceUnavailable
	case ErrorTypeUpstream, ErrorTypeTransport:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ToJSON converts the error to a JSON-compatible map
func (e *AssistantError) ToJSON() map[string]interface{} {
	return map[string]interface{}{
		"error":    e.Message,
		"response": e.Message,
	}
}

// NewConfigurationError creates a configuration error (missing credential, unknown provider)
func NewConfigurationError(message string, err error) *AssistantError {
	return &AssistantError{
		Type:       ErrorTypeConfiguration,
		Message:    message,
		StatusCode: http.StatusServiceUnavailable,
		Err:        err,
	}
}

// NewUpstreamError creates an upstream error from a non-200 provider response.
// The body excerpt is truncated before inclusion.
func NewUpstreamError(provider string, statusCode int, body []byte) *AssistantError {
	return &AssistantError{
		Type:       ErrorTypeUpstream,
		Message:    fmt.Sprintf("API Error %d: %s", statusCode, TruncateBody(body)),
		StatusCode: http.StatusBadGateway,
		Provider:   provider,
	}
}

// NewTransportError creates a transport error prefixed with the provider name
func NewTransportError(provider, message string, err error) *AssistantError {
	return &AssistantError{
		Type:       ErrorTypeTransport,
		Message:    fmt.Sprintf("%s: %s", provider, message),
		StatusCode: http.StatusBadGateway,
		Provider:   provider,
		Err:        err,
	}
}

// NewInvalidInputError creates an invalid input error (400)
func NewInvalidInputError(message string) *AssistantError {
	return &AssistantError{
		Type:       ErrorTypeInvalidInput,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

// NewCapabilityUnavailableError creates a capability unavailable error (503)
func NewCapabilityUnavailableError(message string) *AssistantError {
	return &AssistantError{
		Type:       ErrorTypeCapabilityUnavailable,
		Message:    message,
		StatusCode: http.StatusServiceUnavailable,
	}
}

// TruncateBody bounds a raw upstream body to the excerpt limit for inclusion
// in user-visible messages.
func TruncateBody(body []byte) string {
	if len(body) > maxBodyExcerpt {
		return string(body[:maxBodyExcerpt])
	}
	return string(body)
}
