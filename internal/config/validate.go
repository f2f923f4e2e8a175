package config

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// wavHeaderBytes is the size of a canonical PCM WAV header.
const wavHeaderBytes = 44

// Validate enforces config invariants and returns non-fatal warnings.
func Validate(cfg Config) ([]Warning, error) {
	warnings := make([]Warning, 0)

	if strings.TrimSpace(cfg.Language) == "" {
		return nil, fmt.Errorf("language must not be empty")
	}
	if _, err := language.Parse(cfg.Language); err != nil {
		return nil, fmt.Errorf("language %q is not a valid BCP 47 tag: %w", cfg.Language, err)
	}
	if _, err := ParseVoiceVariant(string(cfg.VoiceVariant)); err != nil {
		return nil, err
	}
	if cfg.MaxHistoryEntries <= 0 {
		return nil, fmt.Errorf("max_history_entries must be > 0")
	}
	if cfg.MinVoiceBytes < 0 {
		return nil, fmt.Errorf("min_voice_bytes must be >= 0")
	}
	if cfg.MinVoiceBytes <= wavHeaderBytes {
		warnings = append(warnings, Warning{Message: fmt.Sprintf("min_voice_bytes=%d does not exceed a WAV header; empty captures will reach transcription", cfg.MinVoiceBytes)})
	}

	provider := strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	if provider != ProviderGroq && provider != ProviderGemini {
		return nil, fmt.Errorf("llm.provider must be one of: groq, gemini")
	}
	if strings.TrimSpace(cfg.LLM.Model) == "" {
		return nil, fmt.Errorf("llm.model must not be empty")
	}
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		return nil, fmt.Errorf("llm.temperature must be between 0 and 2")
	}
	if cfg.LLM.MaxTokens <= 0 {
		return nil, fmt.Errorf("llm.max_tokens must be > 0")
	}
	if cfg.LLM.TimeoutMS <= 0 {
		return nil, fmt.Errorf("llm.timeout_ms must be > 0")
	}
	if strings.TrimSpace(cfg.STT.Model) == "" {
		return nil, fmt.Errorf("stt.model must not be empty")
	}
	if cfg.STT.TimeoutMS <= 0 {
		return nil, fmt.Errorf("stt.timeout_ms must be > 0")
	}
	if cfg.TTS.MaxChars <= 0 {
		return nil, fmt.Errorf("tts.max_chars must be > 0")
	}
	if cfg.TTS.TimeoutMS <= 0 {
		return nil, fmt.Errorf("tts.timeout_ms must be > 0")
	}
	if cfg.Speech.SpeakTextReplies && !cfg.TTS.Enable {
		warnings = append(warnings, Warning{Message: "speech.speak_text_replies has no effect while tts.enable=false"})
	}
	if cfg.Audio.MaxRecordSeconds <= 0 {
		return nil, fmt.Errorf("audio.max_record_seconds must be > 0")
	}
	if cfg.Indicator.ErrorTimeoutMS < 0 {
		return nil, fmt.Errorf("indicator.error_timeout_ms must be >= 0")
	}
	if cfg.Indicator.Enable && strings.TrimSpace(cfg.Indicator.DesktopAppName) == "" {
		return nil, fmt.Errorf("indicator.desktop_app_name must not be empty when indicator.enable=true")
	}
	if len(cfg.OpenCmd.Argv) == 0 {
		return nil, fmt.Errorf("open_cmd must not be empty")
	}

	return warnings, nil
}
