// Package turn runs one conversational turn at a time: dedup, transcription,
// classification, reply generation, and speech synthesis.
package turn

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rbright/monkeyai/internal/config"
	"github.com/rbright/monkeyai/internal/conversation"
	"github.com/rbright/monkeyai/internal/fsm"
	"github.com/rbright/monkeyai/internal/intent"
	"github.com/rbright/monkeyai/internal/speech"
)

// Options are the read-only settings the controller consults per turn.
type Options struct {
	Language          string
	VoiceVariant      config.VoiceVariant
	MaxHistoryEntries int
	MinVoiceBytes     int
	MaxSpeechChars    int
	Synthesize        bool
	SpeakTextReplies  bool
}

// OptionsFromConfig projects runtime config onto controller options.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Language:          cfg.Language,
		VoiceVariant:      cfg.VoiceVariant,
		MaxHistoryEntries: cfg.MaxHistoryEntries,
		MinVoiceBytes:     cfg.MinVoiceBytes,
		MaxSpeechChars:    cfg.TTS.MaxChars,
		Synthesize:        cfg.TTS.Enable,
		SpeakTextReplies:  cfg.Speech.SpeakTextReplies,
	}
}

// Controller owns the conversation log and decides when input becomes
// visible side effects. Submit is not safe for concurrent use on one State.
type Controller struct {
	opts   Options
	logger *slog.Logger
	log    *conversation.Log

	transcriber Transcriber
	generator   Generator
	synthesizer Synthesizer
	rules       []intent.Rule

	now   func() time.Time
	newID func() string
}

// NewController constructs a controller with safe fallbacks for nil collaborators.
func NewController(
	opts Options,
	logger *slog.Logger,
	log *conversation.Log,
	transcriber Transcriber,
	generator Generator,
	synthesizer Synthesizer,
) *Controller {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if log == nil {
		log = conversation.NewLog()
	}
	if transcriber == nil {
		transcriber = placeholder{}
	}
	if generator == nil {
		generator = placeholder{}
	}
	if synthesizer == nil {
		synthesizer = placeholder{}
	}

	return &Controller{
		opts:        opts,
		logger:      logger,
		log:         log,
		transcriber: transcriber,
		generator:   generator,
		synthesizer: synthesizer,
		rules:       intent.DefaultRules,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// Log exposes the conversation log for read-only display.
func (c *Controller) Log() *conversation.Log {
	return c.log
}

// Submit processes one utterance to completion and returns its outcome.
// The state is back in Idle whenever Submit returns.
func (c *Controller) Submit(ctx context.Context, st *State, u Utterance) (out Outcome) {
	out = Outcome{TurnID: c.newID(), Source: u.Source, StartedAt: c.now()}
	defer func() {
		out.FinishedAt = c.now()
		c.logOutcome(out)
	}()

	if st.resetStale() {
		c.logger.Warn("turn state found processing; reset to idle", "turn_id", out.TurnID)
	}

	switch u.Source {
	case SourceVoice:
		if len(u.Audio) < c.opts.MinVoiceBytes {
			out.Kind = Ignored
			out.Err = fmt.Errorf("%w: %d bytes, need %d", ErrCaptureTooShort, len(u.Audio), c.opts.MinVoiceBytes)
			return out
		}
		out.Fingerprint = FingerprintOf(u.Audio)
		if st.consumed(out.Fingerprint) {
			out.Kind = Duplicate
			return out
		}
	case SourceText:
		if strings.TrimSpace(u.Text) == "" {
			out.Kind = Ignored
			out.Err = ErrEmptyText
			return out
		}
	default:
		out.Kind = Ignored
		out.Err = fmt.Errorf("unknown utterance source %q", u.Source)
		return out
	}

	if err := st.transition(fsm.EventAccept); err != nil {
		out.Kind = Ignored
		out.Err = err
		return out
	}
	completed := false
	defer func() {
		event := fsm.EventFail
		if completed {
			event = fsm.EventComplete
		}
		if err := st.transition(event); err != nil {
			c.logger.Error("turn phase reset failed", "turn_id", out.TurnID, "error", err)
		}
	}()

	// Recorded before transcription so a clip that fails is not retried.
	if u.Source == SourceVoice {
		st.recordFingerprint(out.Fingerprint)
	}

	text, ok := c.resolveText(ctx, u, &out)
	if !ok {
		return out
	}
	out.Transcript = text
	out.Intent = intent.ClassifyWith(c.rules, text)

	if out.Intent.IsRedirect() {
		out.Reply = out.Intent.Confirmation()
		out.RedirectURL = out.Intent.URL()
	} else {
		reply, ok := c.generate(ctx, text, &out)
		if !ok {
			return out
		}
		out.Reply = reply
	}

	if c.shouldSpeak(u.Source) {
		c.synthesize(ctx, &out)
	}

	c.log.AppendExchange(text, out.Reply)
	if len(out.Audio) > 0 {
		st.setPendingAudio(out.Audio)
	}
	out.Kind = Completed
	completed = true
	return out
}

func (c *Controller) resolveText(ctx context.Context, u Utterance, out *Outcome) (string, bool) {
	if u.Source == SourceText {
		return strings.TrimSpace(u.Text), true
	}

	started := c.now()
	text, err := c.callTranscriber(ctx, u.Audio)
	out.Timings.Transcribe = c.now().Sub(started)
	if err != nil {
		out.Kind = TranscriptionFailed
		out.Err = fmt.Errorf("%w: %w", ErrTranscriptionFailed, err)
		return "", false
	}
	text = strings.TrimSpace(text)
	if text == "" {
		out.Kind = TranscriptionFailed
		out.Err = fmt.Errorf("%w: no speech recognized", ErrTranscriptionFailed)
		return "", false
	}
	return text, true
}

func (c *Controller) generate(ctx context.Context, text string, out *Outcome) (string, bool) {
	history := c.log.Window(c.opts.MaxHistoryEntries)

	started := c.now()
	reply, err := c.callGenerator(ctx, text, history)
	out.Timings.Generate = c.now().Sub(started)
	if err != nil {
		out.Kind = GenerationFailed
		out.Err = fmt.Errorf("%w: %w", ErrGenerationFailed, err)
		return "", false
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		out.Kind = GenerationFailed
		out.Err = fmt.Errorf("%w: empty reply", ErrGenerationFailed)
		return "", false
	}
	return reply, true
}

func (c *Controller) shouldSpeak(source Source) bool {
	if !c.opts.Synthesize {
		return false
	}
	return source == SourceVoice || c.opts.SpeakTextReplies
}

func (c *Controller) synthesize(ctx context.Context, out *Outcome) {
	out.SpokenText = speech.Prepare(out.Reply, c.opts.MaxSpeechChars)
	if out.SpokenText == "" {
		return
	}

	started := c.now()
	audio, err := c.callSynthesizer(ctx, out.SpokenText)
	out.Timings.Synthesize = c.now().Sub(started)
	switch {
	case err != nil:
		out.SynthesisErr = fmt.Errorf("%w: %w", ErrSynthesisFailed, err)
	case len(audio) == 0:
		out.SynthesisErr = fmt.Errorf("%w: no audio returned", ErrSynthesisFailed)
	default:
		out.Audio = audio
	}
}

func (c *Controller) logOutcome(out Outcome) {
	attrs := []any{
		"turn_id", out.TurnID,
		"source", string(out.Source),
		"outcome", out.Kind.String(),
		"duration_ms", out.Duration().Milliseconds(),
	}
	if !out.Fingerprint.IsZero() {
		attrs = append(attrs, "fingerprint", out.Fingerprint.String())
	}
	if out.Kind == Completed {
		attrs = append(attrs,
			"intent", out.Intent.Kind.String(),
			"reply_chars", len([]rune(out.Reply)),
			"audio_bytes", len(out.Audio),
			"transcribe_ms", out.Timings.Transcribe.Milliseconds(),
			"generate_ms", out.Timings.Generate.Milliseconds(),
			"synthesize_ms", out.Timings.Synthesize.Milliseconds(),
		)
		if out.RedirectURL != "" {
			attrs = append(attrs, "redirect_target", string(out.Intent.Target))
		}
	}
	if out.Err != nil {
		attrs = append(attrs, "error", out.Err.Error())
	}
	if out.SynthesisErr != nil {
		attrs = append(attrs, "synthesis_error", out.SynthesisErr.Error())
	}

	switch out.Kind {
	case Ignored, Duplicate:
		c.logger.Debug("turn skipped", attrs...)
	case Completed:
		c.logger.Info("turn completed", attrs...)
	default:
		c.logger.Warn("turn failed", attrs...)
	}
}
