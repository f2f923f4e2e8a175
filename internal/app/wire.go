package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/rbright/monkeyai/internal/audio"
	"github.com/rbright/monkeyai/internal/config"
	"github.com/rbright/monkeyai/internal/conversation"
	"github.com/rbright/monkeyai/internal/indicator"
	"github.com/rbright/monkeyai/internal/llm"
	"github.com/rbright/monkeyai/internal/logging"
	"github.com/rbright/monkeyai/internal/output"
	"github.com/rbright/monkeyai/internal/stt"
	"github.com/rbright/monkeyai/internal/tts"
	"github.com/rbright/monkeyai/internal/turn"
)

const (
	modeChat   = "chat"
	modeListen = "listen"
)

// sessionDeps are the adapters a session needs; nil fields fall back to the
// controller's placeholders.
type sessionDeps struct {
	transcriber turn.Transcriber
	generator   turn.Generator
	synthesizer turn.Synthesizer
	indicator   indicator.Controller
	opener      Opener
	play        Player
}

// buildDeps constructs the real provider adapters for mode.
func buildDeps(ctx context.Context, loaded config.Loaded, mode string, logger *slog.Logger) (sessionDeps, error) {
	cfg := loaded.Config

	generator, err := llm.New(ctx, cfg.LLM, loaded.Secrets)
	if err != nil {
		return sessionDeps{}, fmt.Errorf("llm: %w", err)
	}
	deps := sessionDeps{
		generator: generator,
		indicator: indicator.NewDesktop(cfg.Indicator, logger),
		opener:    output.NewOpener(cfg.OpenCmd, logger),
	}

	if mode == modeListen {
		key := loaded.Secrets.APIKeyFor(config.ProviderGroq)
		if strings.TrimSpace(key) == "" {
			return sessionDeps{}, fmt.Errorf("stt: %w: set %s", llm.ErrMissingAPIKey, config.EnvKeyFor(config.ProviderGroq))
		}
		deps.transcriber = stt.NewGroq(cfg.STT, key, &http.Client{Timeout: millis(cfg.STT.TimeoutMS)})
	}

	if cfg.TTS.Enable {
		deps.synthesizer = tts.NewGoogleTranslate(cfg.TTS, &http.Client{Timeout: millis(cfg.TTS.TimeoutMS)})
		deps.play = audio.PlayMP3
	}
	return deps, nil
}

// newSession assembles a Session around a fresh controller, state and log.
func newSession(cfg config.Config, mode string, deps sessionDeps, out io.Writer, logger *slog.Logger) *Session {
	controller := turn.NewController(
		turn.OptionsFromConfig(cfg),
		logger,
		conversation.NewLog(),
		deps.transcriber,
		deps.generator,
		deps.synthesizer,
	)

	s := &Session{
		Mode:       mode,
		Controller: controller,
		State:      turn.NewState(),
		Opener:     deps.opener,
		Indicator:  deps.indicator,
		Play:       deps.play,
		Out:        out,
		Logger:     logger,
		Text:       indicator.MessagesFromEnv(),
	}
	if cfg.Debug.EnableAudioDump {
		if dir, err := logging.StateDir(); err == nil {
			s.DumpDir = filepath.Join(dir, "audio")
		}
	}
	return s
}

type pulseCapturer struct {
	device      audio.Device
	maxDuration time.Duration
}

func (p pulseCapturer) Start(ctx context.Context) (Capture, error) {
	rec, err := audio.StartRecording(ctx, p.device, p.maxDuration)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
