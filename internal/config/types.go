// Package config resolves, parses, validates, and defaults monkeyai configuration.
package config

import (
	"fmt"
	"strings"
)

// Config is the fully materialized runtime configuration used by monkeyai.
type Config struct {
	Language          string
	VoiceVariant      VoiceVariant
	MaxHistoryEntries int
	MinVoiceBytes     int
	LLM               LLMConfig
	STT               STTConfig
	TTS               TTSConfig
	Speech            SpeechConfig
	Audio             AudioConfig
	Indicator         IndicatorConfig
	OpenCmd           CommandConfig
	Debug             DebugConfig
}

// VoiceVariant selects the Portuguese accent used for synthesized replies.
type VoiceVariant string

const (
	VoiceBrasil   VoiceVariant = "Brasil"
	VoicePortugal VoiceVariant = "Portugal"
)

// ParseVoiceVariant accepts a variant name case-insensitively.
func ParseVoiceVariant(raw string) (VoiceVariant, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "brasil", "brazil", "br":
		return VoiceBrasil, nil
	case "portugal", "pt":
		return VoicePortugal, nil
	default:
		return "", fmt.Errorf("voice_variant must be one of: Brasil, Portugal")
	}
}

// TLD returns the Google domain suffix that renders this accent.
func (v VoiceVariant) TLD() string {
	if v == VoicePortugal {
		return "pt"
	}
	return "com.br"
}

// LLMConfig controls the chat reply backend.
type LLMConfig struct {
	Provider    string
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int
	TimeoutMS   int
}

// STTConfig controls the transcription backend.
type STTConfig struct {
	Model     string
	BaseURL   string
	TimeoutMS int
}

// TTSConfig controls reply synthesis.
type TTSConfig struct {
	Enable    bool
	MaxChars  int
	TimeoutMS int
}

// SpeechConfig controls when replies are spoken.
type SpeechConfig struct {
	SpeakTextReplies bool
}

// AudioConfig controls preferred and fallback input-source selection.
type AudioConfig struct {
	Input            string
	Fallback         string
	MaxRecordSeconds int
}

// IndicatorConfig controls desktop toasts and audio cue behavior.
type IndicatorConfig struct {
	Enable         bool
	SoundEnable    bool
	DesktopAppName string
	ErrorTimeoutMS int
}

// CommandConfig stores a raw command string and its parsed argv form.
type CommandConfig struct {
	Raw  string
	Argv []string
}

// DebugConfig controls optional debug artifact output.
type DebugConfig struct {
	EnableAudioDump bool
}

// Warning is a non-fatal parse/validation message.
type Warning struct {
	Line    int
	Message string
}

// Secrets holds API credentials resolved from the environment.
type Secrets struct {
	GroqAPIKey   string
	GeminiAPIKey string
}

const (
	ProviderGroq   = "groq"
	ProviderGemini = "gemini"
)
