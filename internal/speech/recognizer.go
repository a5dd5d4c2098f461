package speech

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"
)

// Transcriber turns captured audio into text via a remote recognition
// service. Implemented by the deepgram adapter.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, contentType string) (string, error)
}

// Capturer records audio from the local microphone. Implementations
// block for up to the given duration and return raw WAV bytes.
type Capturer interface {
	// Available reports whether a capture device exists. Probed once at
	// recognizer construction.
	Available() bool

	// Record captures for the given duration.
	Record(ctx context.Context, duration time.Duration) ([]byte, error)
}

// calibrationDuration is the ambient-noise sampling window recorded and
// discarded before each capture.
const calibrationDuration = 1 * time.Second

// Recognizer captures microphone audio and delegates recognition to a
// remote service. Absent microphone hardware is a permanent degraded
// state detected once at construction: Listen then always returns ""
// without attempting capture.
type Recognizer struct {
	capturer    Capturer
	transcriber Transcriber
	degraded    bool
}

// NewRecognizer probes the capture device once and fixes the degraded
// state for the recognizer's lifetime.
func NewRecognizer(capturer Capturer, transcriber Transcriber) *Recognizer {
	degraded := capturer == nil || transcriber == nil || !capturer.Available()
	if degraded {
		slog.Warn("microphone not available, speech recognition degraded")
	}
	return &Recognizer{
		capturer:    capturer,
		transcriber: transcriber,
		degraded:    degraded,
	}
}

// Available reports whether the recognizer can capture at all.
func (r *Recognizer) Available() bool {
	return !r.degraded
}

// Listen captures speech and returns the recognized text. The phrase
// limit bounds the recording; the timeout bounds the whole operation
// including remote recognition. Unrecognizable audio and service errors
// yield "" rather than an error.
func (r *Recognizer) Listen(ctx context.Context, timeout, phraseLimit time.Duration) string {
	if r.degraded {
		return ""
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if phraseLimit <= 0 {
		phraseLimit = 5 * time.Second
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Ambient-noise calibration: sample and discard before the real take.
	if _, err := r.capturer.Record(ctx, calibrationDuration); err != nil {
		slog.Warn("ambient noise calibration failed", "error", err)
		return ""
	}

	audio, err := r.capturer.Record(ctx, phraseLimit)
	if err != nil {
		slog.Warn("audio capture failed", "error", err)
		return ""
	}

	text, err := r.transcriber.Transcribe(ctx, audio, "audio/wav")
	if err != nil {
		slog.Warn("speech recognition failed", "error", err)
		return ""
	}
	return text
}

// AlsaCapturer records from the default ALSA device via arecord.
type AlsaCapturer struct {
	binary string
}

// NewAlsaCapturer locates arecord. A missing binary or missing sound
// devices leave the capturer permanently unavailable.
func NewAlsaCapturer() *AlsaCapturer {
	path, err := exec.LookPath("arecord")
	if err != nil {
		return &AlsaCapturer{}
	}
	return &AlsaCapturer{binary: path}
}

// Available reports whether a capture device was found.
func (c *AlsaCapturer) Available() bool {
	if c.binary == "" {
		return false
	}
	_, err := os.Stat("/dev/snd")
	return err == nil
}

// Record captures a 16kHz mono WAV for the given duration.
func (c *AlsaCapturer) Record(ctx context.Context, duration time.Duration) ([]byte, error) {
	out := filepath.Join(os.TempDir(), "voxd-capture.wav")
	defer os.Remove(out)

	seconds := int(duration.Round(time.Second).Seconds())
	if seconds < 1 {
		seconds = 1
	}
	cmd := exec.CommandContext(ctx, c.binary,
		"-q", "-f", "S16_LE", "-r", "16000", "-c", "1",
		"-d", strconv.Itoa(seconds), out)
	if err := cmd.Run(); err != nil {
		return nil, err
	}
	return os.ReadFile(out)
}
