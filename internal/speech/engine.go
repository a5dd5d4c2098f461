// Package speech provides the speech gateway: local text-to-speech with
// clamped settings and microphone capture with remote recognition.
package speech

import (
	"fmt"
	"os/exec"
	"runtime"
	"strconv"
	"strings"

	"voxd/internal/core"
)

// Voice describes one synthesis voice enumerated from the engine.
type Voice struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Index int    `json:"index"`
}

// Settings are the per-utterance synthesis parameters. Values arriving
// here are already clamped by the Synthesizer.
type Settings struct {
	Rate    int     // words per minute, [50,300]
	Volume  float64 // [0.0,1.0]
	VoiceID string  // empty selects the engine default
}

// Engine converts text to audible speech. Implementations must acquire
// and fully release their own playback resource per Speak call; no
// session is reused across calls.
type Engine interface {
	// Voices enumerates the available voices.
	Voices() ([]Voice, error)

	// Speak blocks until playback of the text has finished.
	Speak(text string, settings Settings) error
}

// SystemEngine drives the operating system's speech command (espeak on
// Linux, say on macOS). Each Speak call spawns a fresh process, which
// gives the per-call acquire/release isolation the gateway wants at the
// cost of process startup overhead.
type SystemEngine struct {
	binary string
}

// NewSystemEngine locates the platform speech command. A missing binary
// is a capability error: the caller decides whether that degrades the
// gateway or aborts startup.
func NewSystemEngine() (*SystemEngine, error) {
	candidates := []string{"espeak-ng", "espeak"}
	if runtime.GOOS == "darwin" {
		candidates = []string{"say"}
	}
	for _, c := range candidates {
		if path, err := exec.LookPath(c); err == nil {
			return &SystemEngine{binary: path}, nil
		}
	}
	return nil, core.NewCapabilityUnavailableError("no speech synthesis command found on this system")
}

// Voices enumerates the engine's voice list. The say command has no
// stable machine-readable listing, so only espeak output is parsed;
// other engines report a single default voice.
func (e *SystemEngine) Voices() ([]Voice, error) {
	if !strings.Contains(e.binary, "espeak") {
		return []Voice{{ID: "default", Name: "default", Index: 0}}, nil
	}

	out, err := exec.Command(e.binary, "--voices=en").Output()
	if err != nil {
		return nil, core.NewCapabilityUnavailableError("failed to enumerate voices: " + err.Error())
	}

	var voices []Voice
	lines := strings.Split(string(out), "\n")
	for _, line := range lines[1:] { // skip header row
		fields := strings.Fields(line)
		if len(fields) < 4 {
			continue
		}
		voices = append(voices, Voice{
			ID:    fields[3],
			Name:  fields[3],
			Index: len(voices),
		})
	}
	return voices, nil
}

// Speak runs one synthesis process to completion.
func (e *SystemEngine) Speak(text string, settings Settings) error {
	args := e.buildArgs(settings)
	args = append(args, text)
	cmd := exec.Command(e.binary, args...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("speech command failed: %w", err)
	}
	return nil
}

func (e *SystemEngine) buildArgs(settings Settings) []string {
	if strings.Contains(e.binary, "espeak") {
		// espeak amplitude range is 0-200
		amplitude := int(settings.Volume * 200)
		args := []string{
			"-s", strconv.Itoa(settings.Rate),
			"-a", strconv.Itoa(amplitude),
		}
		if settings.VoiceID != "" {
			args = append(args, "-v", settings.VoiceID)
		}
		return args
	}
	// say accepts a rate but has no volume flag
	args := []string{"-r", strconv.Itoa(settings.Rate)}
	if settings.VoiceID != "" {
		args = append(args, "-v", settings.VoiceID)
	}
	return args
}
