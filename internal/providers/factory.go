package providers

import (
	"fmt"

	"voxd/internal/core"
	"voxd/internal/llmclient"
)

// Config holds everything needed to construct an adapter instance. The
// resulting adapter binds to exactly one provider for its lifetime;
// switching provider means building a new adapter.
type Config struct {
	Kind    Kind
	APIKey  string
	BaseURL string // optional override, used by tests
	Hooks   llmclient.Hooks
}

// Builder creates an adapter instance from configuration
type Builder func(cfg Config) (TextProvider, error)

// registry holds all registered adapter builders, keyed by kind
var registry = make(map[Kind]Builder)

// Register allows provider packages to register themselves.
// Called from init() functions in provider packages.
func Register(kind Kind, builder Builder) {
	registry[kind] = builder
}

// Create instantiates an adapter for the configured kind. An empty
// credential is a hard construction precondition, not a per-call check.
func Create(cfg Config) (TextProvider, error) {
	if cfg.APIKey == "" {
		return nil, core.NewConfigurationError(
			fmt.Sprintf("API key not provided for %s", cfg.Kind), nil)
	}
	builder, ok := registry[cfg.Kind]
	if !ok {
		return nil, core.NewConfigurationError(
			fmt.Sprintf("no adapter registered for provider %q", cfg.Kind), nil)
	}
	return builder(cfg)
}

// ListRegistered returns all registered provider kinds
func ListRegistered() []Kind {
	kinds := make([]Kind, 0, len(registry))
	for k := range registry {
		kinds = append(kinds, k)
	}
	return kinds
}
