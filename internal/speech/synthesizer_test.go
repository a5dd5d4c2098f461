package speech

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEngine records every Speak call with the settings it received.
type fakeEngine struct {
	voices    []Voice
	voicesErr error
	speakErr  error
	calls     []fakeCall
}

type fakeCall struct {
	text     string
	settings Settings
}

func (f *fakeEngine) Voices() ([]Voice, error) {
	return f.voices, f.voicesErr
}

func (f *fakeEngine) Speak(text string, settings Settings) error {
	f.calls = append(f.calls, fakeCall{text: text, settings: settings})
	return f.speakErr
}

func twoVoices() []Voice {
	return []Voice{
		{ID: "en-gb", Name: "english", Index: 0},
		{ID: "en-us", Name: "english-us", Index: 1},
	}
}

func TestNewSynthesizerDefaults(t *testing.T) {
	s := NewSynthesizer(&fakeEngine{voices: twoVoices()})

	assert.Equal(t, DefaultRate, s.Rate())
	assert.Equal(t, DefaultVolume, s.Volume())
	assert.Equal(t, 0, s.VoiceIndex())
	assert.Len(t, s.Voices(), 2)
}

func TestNewSynthesizerVoiceEnumerationFailure(t *testing.T) {
	s := NewSynthesizer(&fakeEngine{voicesErr: errors.New("no engine")})
	assert.Empty(t, s.Voices(), "enumeration failure leaves an empty list, not a nil gateway")
}

func TestSetRateClamps(t *testing.T) {
	s := NewSynthesizer(&fakeEngine{})

	tests := []struct {
		in   int
		want int
	}{
		{10, 50},
		{50, 50},
		{150, 150},
		{300, 300},
		{9000, 300},
		{-5, 50},
	}
	for _, tt := range tests {
		applied := s.SetRate(tt.in)
		assert.Equal(t, tt.want, applied, "SetRate(%d)", tt.in)
		assert.Equal(t, tt.want, s.Rate())
	}
}

func TestSetVolumeClamps(t *testing.T) {
	s := NewSynthesizer(&fakeEngine{})

	tests := []struct {
		in   float64
		want float64
	}{
		{1.5, 1.0},
		{1.0, 1.0},
		{0.5, 0.5},
		{0.0, 0.0},
		{-0.1, 0.0},
	}
	for _, tt := range tests {
		applied := s.SetVolume(tt.in)
		assert.Equal(t, tt.want, applied, "SetVolume(%v)", tt.in)
		assert.Equal(t, tt.want, s.Volume())
	}
}

func TestSetVoiceIgnoresOutOfRange(t *testing.T) {
	s := NewSynthesizer(&fakeEngine{voices: twoVoices()})

	s.SetVoice(1)
	assert.Equal(t, 1, s.VoiceIndex())

	// Out-of-range selections keep the current voice.
	s.SetVoice(7)
	assert.Equal(t, 1, s.VoiceIndex())
	s.SetVoice(-1)
	assert.Equal(t, 1, s.VoiceIndex())
}

func TestSpeakUsesCurrentSettings(t *testing.T) {
	engine := &fakeEngine{voices: twoVoices()}
	s := NewSynthesizer(engine)
	s.SetRate(200)
	s.SetVolume(0.5)
	s.SetVoice(1)

	require.NoError(t, s.Speak("hello"))

	require.Len(t, engine.calls, 1)
	call := engine.calls[0]
	assert.Equal(t, "hello", call.text)
	assert.Equal(t, 200, call.settings.Rate)
	assert.Equal(t, 0.5, call.settings.Volume)
	assert.Equal(t, "en-us", call.settings.VoiceID)
}

func TestSpeakEmptyTextIsNoOp(t *testing.T) {
	engine := &fakeEngine{}
	s := NewSynthesizer(engine)

	require.NoError(t, s.Speak(""))
	require.NoError(t, s.Speak("   \n\t  "))
	assert.Empty(t, engine.calls)
}

func TestSpeakPropagatesEngineError(t *testing.T) {
	engine := &fakeEngine{speakErr: errors.New("device busy")}
	s := NewSynthesizer(engine)

	assert.Error(t, s.Speak("hello"))
}

func TestVoicesReturnsCopy(t *testing.T) {
	s := NewSynthesizer(&fakeEngine{voices: twoVoices()})
	voices := s.Voices()
	voices[0].ID = "mutated"
	assert.Equal(t, "en-gb", s.Voices()[0].ID)
}
