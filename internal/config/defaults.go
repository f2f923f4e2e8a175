package config

// Default returns the canonical runtime configuration used when no file is present.
func Default() Config {
	openCmd := "xdg-open"

	return Config{
		Language:          "pt-BR",
		VoiceVariant:      VoiceBrasil,
		MaxHistoryEntries: 6,
		MinVoiceBytes:     2048,
		LLM: LLMConfig{
			Provider:    ProviderGroq,
			Model:       "llama-3.3-70b-versatile",
			Temperature: 0.3,
			MaxTokens:   150,
			TimeoutMS:   20000,
		},
		STT: STTConfig{
			Model:     "whisper-large-v3",
			TimeoutMS: 20000,
		},
		TTS: TTSConfig{
			Enable:    true,
			MaxChars:  250,
			TimeoutMS: 10000,
		},
		Audio: AudioConfig{
			Input:            "default",
			Fallback:         "default",
			MaxRecordSeconds: 30,
		},
		Indicator: IndicatorConfig{
			Enable:         true,
			SoundEnable:    true,
			DesktopAppName: "monkeyai",
			ErrorTimeoutMS: 1600,
		},
		OpenCmd: CommandConfig{Raw: openCmd, Argv: mustParseArgv(openCmd)},
		Debug:   DebugConfig{},
	}
}

// DefaultModel returns the model used when a provider switch leaves llm.model unset.
func DefaultModel(provider string) string {
	switch provider {
	case ProviderGemini:
		return "gemini-2.0-flash"
	default:
		return "llama-3.3-70b-versatile"
	}
}
