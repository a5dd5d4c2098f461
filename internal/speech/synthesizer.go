package speech

import (
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Setting bounds. Out-of-range rates and volumes clamp to these; the
// clamping is a documented contract, not an incidental side effect.
const (
	MinRate     = 50
	MaxRate     = 300
	DefaultRate = 150

	MinVolume     = 0.0
	MaxVolume     = 1.0
	DefaultVolume = 0.9
)

// flushDelay lets the output hardware drain after playback before the
// engine resource is released.
const flushDelay = 500 * time.Millisecond

// Synthesizer owns the TTS settings and drives an Engine. Settings are
// mutable and guarded; each Speak call snapshots them, so a settings
// update during playback affects only later utterances.
type Synthesizer struct {
	engine Engine
	voices []Voice

	mu         sync.RWMutex
	rate       int
	volume     float64
	voiceIndex int
}

// NewSynthesizer creates a synthesizer with default settings. The voice
// list is enumerated once at construction; enumeration failure leaves an
// empty list rather than failing the gateway.
func NewSynthesizer(engine Engine) *Synthesizer {
	voices, err := engine.Voices()
	if err != nil {
		slog.Warn("voice enumeration failed", "error", err)
		voices = nil
	}
	return &Synthesizer{
		engine: engine,
		voices: voices,
		rate:   DefaultRate,
		volume: DefaultVolume,
	}
}

// Speak blocks until the text has been synthesized and played. Empty or
// whitespace-only text is a no-op. The underlying engine acquires and
// releases its own playback resource per call; a short fixed delay after
// playback lets the audio hardware flush.
func (s *Synthesizer) Speak(text string) error {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	s.mu.RLock()
	settings := Settings{
		Rate:   s.rate,
		Volume: s.volume,
	}
	if s.voiceIndex < len(s.voices) {
		settings.VoiceID = s.voices[s.voiceIndex].ID
	}
	s.mu.RUnlock()

	if err := s.engine.Speak(text, settings); err != nil {
		return err
	}
	time.Sleep(flushDelay)
	return nil
}

// SetRate clamps and stores the speech rate. Returns the applied value.
func (s *Synthesizer) SetRate(rate int) int {
	if rate < MinRate {
		rate = MinRate
	}
	if rate > MaxRate {
		rate = MaxRate
	}
	s.mu.Lock()
	s.rate = rate
	s.mu.Unlock()
	return rate
}

// SetVolume clamps and stores the volume. Returns the applied value.
func (s *Synthesizer) SetVolume(volume float64) float64 {
	if volume < MinVolume {
		volume = MinVolume
	}
	if volume > MaxVolume {
		volume = MaxVolume
	}
	s.mu.Lock()
	s.volume = volume
	s.mu.Unlock()
	return volume
}

// SetVoice selects a voice by index. Out-of-range selections are
// silently ignored, preserving the current voice.
func (s *Synthesizer) SetVoice(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index >= 0 && index < len(s.voices) {
		s.voiceIndex = index
	}
}

// Rate returns the current rate.
func (s *Synthesizer) Rate() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rate
}

// Volume returns the current volume.
func (s *Synthesizer) Volume() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.volume
}

// VoiceIndex returns the current voice index.
func (s *Synthesizer) VoiceIndex() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.voiceIndex
}

// Voices returns the enumerated voice list.
func (s *Synthesizer) Voices() []Voice {
	if s.voices == nil {
		return []Voice{}
	}
	out := make([]Voice, len(s.voices))
	copy(out, s.voices)
	return out
}
