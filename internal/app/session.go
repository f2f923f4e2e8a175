package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/rbright/monkeyai/internal/audio"
	"github.com/rbright/monkeyai/internal/indicator"
	"github.com/rbright/monkeyai/internal/ipc"
	"github.com/rbright/monkeyai/internal/turn"
)

// Opener hands a redirect URL to the desktop.
type Opener interface {
	Open(ctx context.Context, url string) error
}

// Player plays one synthesized MP3 reply.
type Player func(ctx context.Context, mp3 []byte) error

// Session is one running conversation owned by a chat or listen loop.
// It also answers IPC status/history/clear requests while the loop runs.
type Session struct {
	Mode       string
	Controller *turn.Controller
	State      *turn.State
	Opener     Opener
	Indicator  indicator.Controller
	Play       Player
	Out        io.Writer
	Logger     *slog.Logger
	Text       indicator.Messages
	DumpDir    string

	outMu sync.Mutex
}

// Handle implements ipc.Handler.
func (s *Session) Handle(_ context.Context, req ipc.Request) ipc.Response {
	switch req.Command {
	case ipc.CommandStatus:
		return ipc.Response{OK: true, State: string(s.State.Phase()), Mode: s.Mode}
	case ipc.CommandHistory:
		entries := s.Controller.Log().Entries()
		resp := ipc.Response{OK: true, Entries: make([]ipc.HistoryEntry, 0, len(entries))}
		for _, entry := range entries {
			resp.Entries = append(resp.Entries, ipc.HistoryEntry{Role: string(entry.Role), Text: entry.Content})
		}
		return resp
	case ipc.CommandClear:
		s.clear()
		return ipc.Response{OK: true, Message: s.Text.Cleared}
	default:
		return ipc.Failure("unsupported command %q", req.Command)
	}
}

func (s *Session) clear() {
	s.Controller.Log().Clear()
	s.logger().Info("conversation cleared", "mode", s.Mode)
}

// submit runs one turn and applies its side effects: terminal lines, toasts,
// cues, redirect opening, and reply playback.
func (s *Session) submit(ctx context.Context, u turn.Utterance) turn.Outcome {
	ind := s.toasts()
	ind.ShowThinking(ctx)

	out := s.Controller.Submit(ctx, s.State, u)

	switch out.Kind {
	case turn.Ignored:
		if errors.Is(out.Err, turn.ErrCaptureTooShort) {
			s.notice(s.Text.TooShort)
			ind.ShowError(ctx, s.Text.TooShort)
			ind.CueError(ctx)
			return out
		}
		ind.Hide(ctx)
	case turn.Duplicate:
		ind.Hide(ctx)
	case turn.TranscriptionFailed:
		s.notice(s.Text.NotUnderstood)
		ind.ShowError(ctx, s.Text.NotUnderstood)
		ind.CueError(ctx)
	case turn.GenerationFailed:
		if out.Source == turn.SourceVoice {
			s.printf("%s: %s\n", s.Text.You, out.Transcript)
		}
		s.notice(s.Text.ReplyFailed)
		ind.ShowError(ctx, s.Text.ReplyFailed)
		ind.CueError(ctx)
	case turn.Completed:
		s.complete(ctx, out)
	}
	return out
}

func (s *Session) complete(ctx context.Context, out turn.Outcome) {
	ind := s.toasts()
	if out.Source == turn.SourceVoice {
		s.printf("%s: %s\n", s.Text.You, out.Transcript)
	}
	s.printf("MonkeyAI: %s\n", out.Reply)
	ind.ShowReply(ctx, out.Reply)
	ind.CueComplete(ctx)

	if out.RedirectURL != "" && s.Opener != nil {
		if err := s.Opener.Open(ctx, out.RedirectURL); err != nil {
			s.notice(fmt.Sprintf("%s (%s)", s.Text.GenericError, out.RedirectURL))
			s.logger().Warn("redirect open failed", "turn_id", out.TurnID, "url", out.RedirectURL, "error", err.Error())
		}
	}

	if out.SynthesisErr != nil {
		s.notice(s.Text.SpeechFailed)
	}

	pending := s.State.TakePendingAudio()
	if len(pending) == 0 || s.Play == nil {
		return
	}
	if err := s.Play(ctx, pending); err != nil && ctx.Err() == nil {
		s.notice(s.Text.SpeechFailed)
		s.logger().Warn("reply playback failed", "turn_id", out.TurnID, "error", err.Error())
	}
}

// dump writes the captured WAV when debug audio dumps are enabled. Clips
// that do not parse back as WAV are logged and skipped.
func (s *Session) dump(wav []byte) {
	if s.DumpDir == "" {
		return
	}
	info, err := audio.InspectWAV(wav)
	if err != nil {
		s.logger().Warn("audio dump skipped", "error", err.Error())
		return
	}
	path, err := audio.WriteDump(s.DumpDir, wav, time.Now())
	if err != nil {
		s.logger().Warn("audio dump failed", "error", err.Error())
		return
	}
	s.logger().Debug("audio dumped",
		"path", path,
		"bytes", len(wav),
		"sample_rate", info.SampleRate,
		"channels", info.Channels,
		"duration_ms", info.Duration.Milliseconds(),
	)
}

func (s *Session) notice(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}
	s.printf("! %s\n", text)
}

func (s *Session) printf(format string, args ...any) {
	if s.Out == nil {
		return
	}
	s.outMu.Lock()
	defer s.outMu.Unlock()
	fmt.Fprintf(s.Out, format, args...)
}

func (s *Session) toasts() indicator.Controller {
	if s.Indicator == nil {
		return indicator.Noop{}
	}
	return s.Indicator
}

func (s *Session) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.Logger
}
