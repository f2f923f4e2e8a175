package config

import (
	"encoding/json"
	"fmt"
	"strings"
)

type jsoncConfig struct {
	Language          *string `json:"language"`
	VoiceVariant      *string `json:"voice_variant"`
	MaxHistoryEntries *int    `json:"max_history_entries"`
	MinVoiceBytes     *int    `json:"min_voice_bytes"`

	LLM       *jsoncLLM       `json:"llm"`
	STT       *jsoncSTT       `json:"stt"`
	TTS       *jsoncTTS       `json:"tts"`
	Speech    *jsoncSpeech    `json:"speech"`
	Audio     *jsoncAudio     `json:"audio"`
	Indicator *jsoncIndicator `json:"indicator"`

	OpenCmd *string     `json:"open_cmd"`
	Debug   *jsoncDebug `json:"debug"`
}

type jsoncLLM struct {
	Provider    *string  `json:"provider"`
	Model       *string  `json:"model"`
	BaseURL     *string  `json:"base_url"`
	Temperature *float64 `json:"temperature"`
	MaxTokens   *int     `json:"max_tokens"`
	TimeoutMS   *int     `json:"timeout_ms"`
}

type jsoncSTT struct {
	Model     *string `json:"model"`
	BaseURL   *string `json:"base_url"`
	TimeoutMS *int    `json:"timeout_ms"`
}

type jsoncTTS struct {
	Enable    *bool `json:"enable"`
	MaxChars  *int  `json:"max_chars"`
	TimeoutMS *int  `json:"timeout_ms"`
}

type jsoncSpeech struct {
	SpeakTextReplies *bool `json:"speak_text_replies"`
}

type jsoncAudio struct {
	Input            *string `json:"input"`
	Fallback         *string `json:"fallback"`
	MaxRecordSeconds *int    `json:"max_record_seconds"`
}

type jsoncIndicator struct {
	Enable         *bool   `json:"enable"`
	SoundEnable    *bool   `json:"sound_enable"`
	DesktopAppName *string `json:"desktop_app_name"`
	ErrorTimeoutMS *int    `json:"error_timeout_ms"`
}

type jsoncDebug struct {
	AudioDump *bool `json:"audio_dump"`
}

func parseJSONC(content string, base Config) (Config, []Warning, error) {
	normalized, err := normalizeJSONC(content)
	if err != nil {
		return Config{}, nil, err
	}

	decoder := json.NewDecoder(strings.NewReader(normalized))
	decoder.DisallowUnknownFields()

	var payload jsoncConfig
	if err := decoder.Decode(&payload); err != nil {
		return Config{}, nil, wrapJSONDecodeError(normalized, err)
	}
	if err := ensureSingleJSONValue(decoder); err != nil {
		return Config{}, nil, wrapJSONDecodeError(normalized, err)
	}

	cfg := base
	warnings, err := payload.applyTo(&cfg)
	if err != nil {
		return Config{}, nil, err
	}

	validatedWarnings, err := Validate(cfg)
	if err != nil {
		return Config{}, nil, err
	}
	return cfg, append(warnings, validatedWarnings...), nil
}

func (payload jsoncConfig) applyTo(cfg *Config) ([]Warning, error) {
	warnings := make([]Warning, 0)

	if payload.Language != nil {
		cfg.Language = strings.TrimSpace(*payload.Language)
	}
	if payload.VoiceVariant != nil {
		variant, err := ParseVoiceVariant(*payload.VoiceVariant)
		if err != nil {
			return nil, err
		}
		cfg.VoiceVariant = variant
	}
	if payload.MaxHistoryEntries != nil {
		cfg.MaxHistoryEntries = *payload.MaxHistoryEntries
	}
	if payload.MinVoiceBytes != nil {
		cfg.MinVoiceBytes = *payload.MinVoiceBytes
	}

	if llm := payload.LLM; llm != nil {
		if llm.Provider != nil {
			provider := strings.ToLower(strings.TrimSpace(*llm.Provider))
			if provider != cfg.LLM.Provider && llm.Model == nil {
				cfg.LLM.Model = DefaultModel(provider)
				warnings = append(warnings, Warning{Message: fmt.Sprintf("llm.model not set; using %s default %q", provider, cfg.LLM.Model)})
			}
			cfg.LLM.Provider = provider
		}
		if llm.Model != nil {
			cfg.LLM.Model = strings.TrimSpace(*llm.Model)
		}
		if llm.BaseURL != nil {
			cfg.LLM.BaseURL = strings.TrimSpace(*llm.BaseURL)
		}
		if llm.Temperature != nil {
			cfg.LLM.Temperature = *llm.Temperature
		}
		if llm.MaxTokens != nil {
			cfg.LLM.MaxTokens = *llm.MaxTokens
		}
		if llm.TimeoutMS != nil {
			cfg.LLM.TimeoutMS = *llm.TimeoutMS
		}
	}

	if stt := payload.STT; stt != nil {
		if stt.Model != nil {
			cfg.STT.Model = strings.TrimSpace(*stt.Model)
		}
		if stt.BaseURL != nil {
			cfg.STT.BaseURL = strings.TrimSpace(*stt.BaseURL)
		}
		if stt.TimeoutMS != nil {
			cfg.STT.TimeoutMS = *stt.TimeoutMS
		}
	}

	if tts := payload.TTS; tts != nil {
		if tts.Enable != nil {
			cfg.TTS.Enable = *tts.Enable
		}
		if tts.MaxChars != nil {
			cfg.TTS.MaxChars = *tts.MaxChars
		}
		if tts.TimeoutMS != nil {
			cfg.TTS.TimeoutMS = *tts.TimeoutMS
		}
	}

	if payload.Speech != nil && payload.Speech.SpeakTextReplies != nil {
		cfg.Speech.SpeakTextReplies = *payload.Speech.SpeakTextReplies
	}

	if audio := payload.Audio; audio != nil {
		if audio.Input != nil {
			cfg.Audio.Input = strings.TrimSpace(*audio.Input)
		}
		if audio.Fallback != nil {
			cfg.Audio.Fallback = strings.TrimSpace(*audio.Fallback)
		}
		if audio.MaxRecordSeconds != nil {
			cfg.Audio.MaxRecordSeconds = *audio.MaxRecordSeconds
		}
	}

	if ind := payload.Indicator; ind != nil {
		if ind.Enable != nil {
			cfg.Indicator.Enable = *ind.Enable
		}
		if ind.SoundEnable != nil {
			cfg.Indicator.SoundEnable = *ind.SoundEnable
		}
		if ind.DesktopAppName != nil {
			cfg.Indicator.DesktopAppName = strings.TrimSpace(*ind.DesktopAppName)
		}
		if ind.ErrorTimeoutMS != nil {
			cfg.Indicator.ErrorTimeoutMS = *ind.ErrorTimeoutMS
		}
	}

	if payload.OpenCmd != nil {
		raw := *payload.OpenCmd
		argv, err := parseArgv(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid open_cmd: %w", err)
		}
		cfg.OpenCmd = CommandConfig{Raw: raw, Argv: argv}
	}

	if payload.Debug != nil && payload.Debug.AudioDump != nil {
		cfg.Debug.EnableAudioDump = *payload.Debug.AudioDump
	}

	return warnings, nil
}
