// Package server provides the HTTP surface of the assistant.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"voxd/internal/core"
)

// Config holds server configuration options
type Config struct {
	// StaticDir is served at the site root; empty disables static serving.
	StaticDir string

	// MetricsEnabled exposes Prometheus metrics at /metrics.
	MetricsEnabled bool

	// BodySizeLimit caps request bodies (echo syntax, e.g. "1M").
	BodySizeLimit string
}

// Server wraps the Echo server
type Server struct {
	echo    *echo.Echo
	handler *Handler
}

// New creates the HTTP server around an assembled handler.
func New(handler *Handler, cfg *Config) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(requestContext)
	e.Use(requestLogger)

	bodyLimit := "1M"
	if cfg != nil && cfg.BodySizeLimit != "" {
		bodyLimit = cfg.BodySizeLimit
	}
	e.Use(middleware.BodyLimit(bodyLimit))

	api := e.Group("/api")
	api.GET("/health", handler.Health)
	api.POST("/process_text", handler.ProcessText)
	api.POST("/process_speech", handler.ProcessSpeech)
	api.POST("/speak_toggle", handler.SpeakToggle)
	api.POST("/tts/settings", handler.TTSSettings)
	api.GET("/tts/voices", handler.Voices)
	api.GET("/history", handler.History)
	api.POST("/clear_history", handler.ClearHistory)
	api.GET("/models", handler.Models)
	api.POST("/model/set", handler.SetModel)
	api.POST("/test/speak", handler.TestSpeak)

	if cfg != nil && cfg.MetricsEnabled {
		e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}

	if cfg != nil && cfg.StaticDir != "" {
		if _, err := os.Stat(cfg.StaticDir); err == nil {
			e.Static("/", cfg.StaticDir)
		} else {
			slog.Warn("static directory not found, serving API only", "dir", cfg.StaticDir)
		}
	}

	return &Server{echo: e, handler: handler}
}

// Start starts the HTTP server on the given address
func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// ServeHTTP implements http.Handler, allowing Server to be used with httptest
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// requestContext attaches the echo request ID to the request context so
// provider clients can forward it upstream.
func requestContext(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Response().Header().Get(echo.HeaderXRequestID)
		if requestID != "" {
			ctx := core.WithRequestID(c.Request().Context(), requestID)
			c.SetRequest(c.Request().WithContext(ctx))
		}
		return next(c)
	}
}

// requestLogger emits one slog line per request.
func requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		slog.Info("request",
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"status", c.Response().Status,
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
		)
		return err
	}
}

// errorHandler renders every error as a JSON body, including 404s for
// unmatched paths when no static index exists.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var ae *core.AssistantError
	if errors.As(err, &ae) {
		_ = c.JSON(ae.HTTPStatusCode(), ae.ToJSON())
		return
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		_ = c.JSON(he.Code, map[string]interface{}{"error": he.Message})
		return
	}

	_ = c.JSON(http.StatusInternalServerError, map[string]interface{}{
		"error": "internal server error",
	})
}
