package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"voxd/internal/history"
	"voxd/internal/nlp"
	"voxd/internal/providers"
	"voxd/internal/speech"
	"voxd/internal/worker"
)

// Handler holds the assembled application components behind the routes.
// Adapter, Synthesizer and Recognizer may each be nil: that is the
// degraded mode in which the affected endpoints answer 503 while the
// rest of the API keeps working.
type Handler struct {
	adapter      providers.TextProvider
	providerName string
	synth        *speech.Synthesizer
	recognizer   *speech.Recognizer
	log          *history.Log
	autoSpeak    *history.AutoSpeak
	pool         *worker.Pool
}

// Deps carries the components a Handler is assembled from.
type Deps struct {
	Adapter      providers.TextProvider
	ProviderName string
	Synthesizer  *speech.Synthesizer
	Recognizer   *speech.Recognizer
	Log          *history.Log
	AutoSpeak    *history.AutoSpeak
	Pool         *worker.Pool
}

// NewHandler assembles the request handler.
func NewHandler(deps Deps) *Handler {
	return &Handler{
		adapter:      deps.Adapter,
		providerName: deps.ProviderName,
		synth:        deps.Synthesizer,
		recognizer:   deps.Recognizer,
		log:          deps.Log,
		autoSpeak:    deps.AutoSpeak,
		pool:         deps.Pool,
	}
}

// Health reports service status.
// GET /api/health
func (h *Handler) Health(c echo.Context) error {
	status := "ok"
	models := []string{}
	if h.adapter == nil {
		status = "error"
	} else {
		models = h.adapter.Models()
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":           status,
		"message":          "AI Assistant is running",
		"provider":         h.providerName,
		"auto_speak":       h.autoSpeak.Enabled(),
		"available_models": models,
	})
}

type processTextRequest struct {
	Text string `json:"text"`
}

// ProcessText runs one user utterance through the active provider.
// POST /api/process_text
func (h *Handler) ProcessText(c echo.Context) error {
	if h.adapter == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
			"error":    "API not configured",
			"response": "Please configure your LLM_API_KEY in .env file",
		})
	}

	var req processTextRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":    "No text provided",
			"response": "Please provide some text.",
		})
	}

	cmd := nlp.ParseCommand(text)
	slog.Debug("classified input",
		"intent", cmd.Intent,
		"confidence", cmd.Confidence,
		"numbers", len(cmd.Entities.Numbers),
	)

	result := h.adapter.Process(c.Request().Context(), text, "")

	h.log.Append(text, result.Response)
	h.enqueueSpeech(result.Response)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"response": result.Response,
		"error":    result.IsError,
		"provider": result.Provider,
	})
}

type processSpeechRequest struct {
	Timeout int `json:"timeout"`
}

// ProcessSpeech captures microphone input, recognizes it and runs the
// transcript through the active provider.
// POST /api/process_speech
func (h *Handler) ProcessSpeech(c echo.Context) error {
	if h.recognizer == nil || !h.recognizer.Available() {
		return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
			"error":    "Speech recognition not available",
			"response": "Speech recognition is not configured. Please use text input instead.",
		})
	}

	var req processSpeechRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	timeout := time.Duration(req.Timeout) * time.Second

	recognized := h.recognizer.Listen(c.Request().Context(), timeout, 0)
	if recognized == "" {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"error":    "No speech recognized",
			"response": "I did not hear anything. Please try again.",
		})
	}

	if h.adapter == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
			"error":    "API not configured",
			"response": "Please configure your LLM_API_KEY in .env file",
		})
	}

	result := h.adapter.Process(c.Request().Context(), recognized, "")

	h.log.Append(recognized, result.Response)
	h.enqueueSpeech(result.Response)

	return c.JSON(http.StatusOK, map[string]interface{}{
		"user_input": recognized,
		"response":   result.Response,
		"error":      result.IsError,
	})
}

type speakToggleRequest struct {
	Enabled *bool `json:"enabled"`
}

// SpeakToggle flips or sets the automatic voice response flag.
// POST /api/speak_toggle
func (h *Handler) SpeakToggle(c echo.Context) error {
	var req speakToggleRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	state := h.autoSpeak.Toggle(req.Enabled)

	message := "Auto speak disabled"
	if state {
		message = "Auto speak enabled"
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"auto_speak_enabled": state,
		"message":            message,
	})
}

type ttsSettingsRequest struct {
	Rate       *int     `json:"rate"`
	Volume     *float64 `json:"volume"`
	VoiceIndex *int     `json:"voice_index"`
}

// TTSSettings applies a partial update to the synthesizer settings.
// Out-of-range rates and volumes clamp; out-of-range voice indexes are
// ignored.
// POST /api/tts/settings
func (h *Handler) TTSSettings(c echo.Context) error {
	if h.synth == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
			"error": "Speech synthesis not available",
		})
	}

	var req ttsSettingsRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if req.Rate != nil {
		applied := h.synth.SetRate(*req.Rate)
		slog.Debug("tts rate updated", "requested", *req.Rate, "applied", applied)
	}
	if req.Volume != nil {
		applied := h.synth.SetVolume(*req.Volume)
		slog.Debug("tts volume updated", "requested", *req.Volume, "applied", applied)
	}
	if req.VoiceIndex != nil {
		h.synth.SetVoice(*req.VoiceIndex)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"message": "TTS settings updated",
	})
}

// Voices lists the enumerated synthesis voices.
// GET /api/tts/voices
func (h *Handler) Voices(c echo.Context) error {
	voices := []speech.Voice{}
	if h.synth != nil {
		voices = h.synth.Voices()
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"voices": voices,
		"count":  len(voices),
	})
}

// History returns the newest conversation entries.
// GET /api/history?limit=N
func (h *Handler) History(c echo.Context) error {
	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"history": h.log.Last(limit),
		"total":   h.log.Len(),
	})
}

// ClearHistory resets the conversation log.
// POST /api/clear_history
func (h *Handler) ClearHistory(c echo.Context) error {
	h.log.Clear()
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"message": "History cleared",
	})
}

// Models lists the active provider's model allow-list.
// GET /api/models
func (h *Handler) Models(c echo.Context) error {
	models := []string{}
	if h.adapter != nil {
		models = h.adapter.Models()
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"models":           models,
		"current_provider": h.providerName,
	})
}

type setModelRequest struct {
	Model string `json:"model"`
}

// SetModel activates a model from the provider's allow-list. Unknown
// models leave the active model unchanged and are reported explicitly
// rather than silently accepted.
// POST /api/model/set
func (h *Handler) SetModel(c echo.Context) error {
	if h.adapter == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
			"error":    "API not configured",
			"response": "Please configure your LLM_API_KEY in .env file",
		})
	}

	var req setModelRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	ok := req.Model != "" && h.adapter.SetModel(req.Model)
	message := fmt.Sprintf("Using %s model %s", h.providerName, h.adapter.Model())
	if !ok {
		message = fmt.Sprintf("Unknown model %q for provider %s", req.Model, h.providerName)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"current_provider": h.providerName,
		"model":            h.adapter.Model(),
		"ok":               ok,
		"message":          message,
	})
}

type testSpeakRequest struct {
	Text       string `json:"text"`
	VoiceIndex int    `json:"voice_index"`
}

// TestSpeak fires a test utterance through the worker pool, bypassing
// the auto-speak flag.
// POST /api/test/speak
func (h *Handler) TestSpeak(c echo.Context) error {
	if h.synth == nil {
		return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
			"error": "Speech synthesis not available",
		})
	}

	var req testSpeakRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if req.Text == "" {
		req.Text = "Hello, this is a test message!"
	}
	h.synth.SetVoice(req.VoiceIndex)

	text := req.Text
	h.pool.Submit(worker.Task{
		Name: "test-speak",
		Run: func() error {
			return h.synth.Speak(text)
		},
	})

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":      "speaking",
		"text":        req.Text,
		"voice_index": req.VoiceIndex,
		"message":     "Test speech started",
	})
}

// enqueueSpeech hands the reply to the worker pool. The auto-speak flag
// is read by the task when it runs, not when it is queued, so a toggle
// between enqueue and execution wins.
func (h *Handler) enqueueSpeech(text string) {
	if h.synth == nil || h.pool == nil {
		return
	}
	h.pool.Submit(worker.Task{
		Name: "speak-response",
		Run: func() error {
			if !h.autoSpeak.Enabled() {
				return nil
			}
			return h.synth.Speak(text)
		},
	})
}
