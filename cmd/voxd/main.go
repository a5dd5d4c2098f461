// Package main is the entry point for the assistant backend.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/prometheus/client_golang/prometheus"

	"voxd/config"
	"voxd/internal/history"
	"voxd/internal/llmclient"
	"voxd/internal/observability"
	"voxd/internal/providers"
	"voxd/internal/speech"
	"voxd/internal/worker"

	// Import provider packages to trigger their init() registration
	_ "voxd/internal/providers/groq"
	_ "voxd/internal/providers/huggingface"
	_ "voxd/internal/providers/together"

	"voxd/internal/providers/deepgram"
	"voxd/internal/server"
	"voxd/internal/version"
)

func main() {
	versionFlag := flag.Bool("version", false, "Print version information")
	flag.Parse()

	if *versionFlag {
		fmt.Println(version.Info())
		os.Exit(0)
	}

	// Load configuration first: LOG_FORMAT decides the handler.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	setupLogging(cfg.LogFormat)

	slog.Info("starting voxd",
		"version", version.Version,
		"commit", version.Commit,
		"build_date", version.Date,
	)

	var hooks llmclient.Hooks
	if cfg.Metrics.Enabled {
		metrics := observability.NewMetrics(prometheus.DefaultRegisterer)
		hooks = metrics.Hooks()
		slog.Info("prometheus metrics enabled", "endpoint", "/metrics")
	}

	// A missing credential is a degraded mode, not a startup failure: the
	// server still serves the front end, history and speech settings.
	adapter := buildAdapter(cfg, hooks)

	// The speech provider is independent of the text provider selection.
	var transcriber speech.Transcriber
	if cfg.Deepgram.APIKey != "" {
		dg, err := deepgram.New(providers.Config{
			Kind:    providers.KindDeepgram,
			APIKey:  cfg.Deepgram.APIKey,
			BaseURL: cfg.Deepgram.BaseURL,
			Hooks:   hooks,
		})
		if err != nil {
			slog.Warn("deepgram not configured, speech recognition disabled", "error", err)
		} else {
			transcriber = dg
		}
	} else {
		slog.Warn("DEEPGRAM_API_KEY not set, speech recognition disabled")
	}

	synth := buildSynthesizer()
	recognizer := speech.NewRecognizer(speech.NewAlsaCapturer(), transcriber)

	pool := worker.NewPool(cfg.Speech.Workers, cfg.Speech.QueueSize)
	defer pool.Close()

	handler := server.NewHandler(server.Deps{
		Adapter:      adapter,
		ProviderName: cfg.Provider.Name,
		Synthesizer:  synth,
		Recognizer:   recognizer,
		Log:          history.NewLog(),
		AutoSpeak:    history.NewAutoSpeak(cfg.Speech.AutoSpeak),
		Pool:         pool,
	})

	srv := server.New(handler, &server.Config{
		StaticDir:      cfg.Server.StaticDir,
		MetricsEnabled: cfg.Metrics.Enabled,
	})

	// Handle graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		slog.Info("shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	addr := ":" + cfg.Server.Port
	slog.Info("starting server", "address", addr, "provider", cfg.Provider.Name)

	if err := srv.Start(addr); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

func setupLogging(format string) {
	var handler slog.Handler
	if format == "pretty" {
		handler = tint.NewHandler(os.Stdout, &tint.Options{TimeFormat: time.Kitchen})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	}
	slog.SetDefault(slog.New(handler))
}

// buildAdapter constructs the configured text provider, or returns nil
// when the provider name is unknown or the credential is missing.
func buildAdapter(cfg *config.Config, hooks llmclient.Hooks) providers.TextProvider {
	kind, err := providers.ParseKind(cfg.Provider.Name)
	if err != nil {
		slog.Warn("unknown provider, text processing disabled",
			"provider", cfg.Provider.Name, "error", err)
		return nil
	}

	adapter, err := providers.Create(providers.Config{
		Kind:    kind,
		APIKey:  cfg.Provider.APIKey,
		BaseURL: cfg.Provider.BaseURL,
		Hooks:   hooks,
	})
	if err != nil {
		slog.Warn("provider not configured, text processing disabled",
			"provider", cfg.Provider.Name, "error", err)
		return nil
	}

	slog.Info("provider ready", "provider", kind, "model", adapter.Model())
	return adapter
}

// buildSynthesizer sets up local TTS, or returns nil when no speech
// command exists on the system.
func buildSynthesizer() *speech.Synthesizer {
	engine, err := speech.NewSystemEngine()
	if err != nil {
		slog.Warn("speech synthesis disabled", "error", err)
		return nil
	}
	synth := speech.NewSynthesizer(engine)
	slog.Info("speech synthesis ready", "voices", len(synth.Voices()))
	return synth
}
