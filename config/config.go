// Package config provides environment-based configuration for the
// assistant. A .env file in the working directory is loaded first (and
// may be absent); real environment variables win over it.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Defaults applied when the environment does not say otherwise.
const (
	DefaultPort      = "8080"
	DefaultProvider  = "groq"
	DefaultStaticDir = "frontend"

	DefaultSpeechWorkers   = 2
	DefaultSpeechQueueSize = 16
)

// Config holds the application configuration
type Config struct {
	Server   ServerConfig
	Provider ProviderConfig
	Deepgram DeepgramConfig
	Speech   SpeechConfig
	Metrics  MetricsConfig
	// LogFormat selects the slog handler: "json" (default) or "pretty".
	LogFormat string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port      string
	StaticDir string
}

// ProviderConfig selects the active text provider and its credential.
// The provider-specific key env var wins over the generic LLM_API_KEY.
type ProviderConfig struct {
	Name    string
	APIKey  string
	BaseURL string
}

// DeepgramConfig holds the credential for the remote speech service,
// independent of the text provider selection.
type DeepgramConfig struct {
	APIKey  string
	BaseURL string
}

// SpeechConfig holds speech gateway settings.
type SpeechConfig struct {
	AutoSpeak bool
	Workers   int
	QueueSize int
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

// providerKeyEnvs maps provider names to their credential and base URL
// environment variables.
var providerKeyEnvs = map[string]struct {
	apiKeyEnv  string
	baseURLEnv string
}{
	"groq":        {"GROQ_API_KEY", "GROQ_BASE_URL"},
	"together":    {"TOGETHER_API_KEY", "TOGETHER_BASE_URL"},
	"huggingface": {"HF_API_KEY", "HF_BASE_URL"},
	"deepgram":    {"DEEPGRAM_API_KEY", "DEEPGRAM_BASE_URL"},
}

// Load reads configuration from .env and the environment.
func Load() (*Config, error) {
	// Missing .env is fine; explicit env vars are the source of truth.
	_ = godotenv.Load()

	providerName := getEnv("VOXD_PROVIDER", DefaultProvider)

	cfg := &Config{
		Server: ServerConfig{
			Port:      getEnv("PORT", DefaultPort),
			StaticDir: getEnv("VOXD_STATIC_DIR", DefaultStaticDir),
		},
		Provider: ProviderConfig{
			Name:   providerName,
			APIKey: os.Getenv("LLM_API_KEY"),
		},
		Deepgram: DeepgramConfig{
			APIKey:  os.Getenv("DEEPGRAM_API_KEY"),
			BaseURL: os.Getenv("DEEPGRAM_BASE_URL"),
		},
		Speech: SpeechConfig{
			AutoSpeak: getEnvBool("VOXD_AUTO_SPEAK", true),
			Workers:   getEnvInt("SPEECH_WORKERS", DefaultSpeechWorkers),
			QueueSize: getEnvInt("SPEECH_QUEUE_SIZE", DefaultSpeechQueueSize),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", false),
		},
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	// Provider-specific credentials override the generic key.
	if envs, ok := providerKeyEnvs[providerName]; ok {
		if key := os.Getenv(envs.apiKeyEnv); key != "" {
			cfg.Provider.APIKey = key
		}
		cfg.Provider.BaseURL = os.Getenv(envs.baseURLEnv)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
