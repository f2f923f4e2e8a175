package turn

import (
	"context"
	"errors"
	"fmt"

	"github.com/rbright/monkeyai/internal/config"
	"github.com/rbright/monkeyai/internal/conversation"
)

var (
	// ErrAdapterUnavailable indicates an adapter was not wired.
	ErrAdapterUnavailable = errors.New("adapter not configured")
	// ErrAdapterPanic wraps a panic recovered from an adapter call.
	ErrAdapterPanic = errors.New("adapter panicked")
)

// Transcriber turns raw audio into text. Empty text and errors are
// treated the same by the controller.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, languageTag string) (string, error)
}

// Generator produces a chat reply from the input and a bounded history.
type Generator interface {
	Generate(ctx context.Context, text string, history []conversation.Entry) (string, error)
}

// Synthesizer renders reply text to audio in the given accent.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, variant config.VoiceVariant) ([]byte, error)
}

// TranscriberFunc adapts a function to the Transcriber interface.
type TranscriberFunc func(context.Context, []byte, string) (string, error)

func (f TranscriberFunc) Transcribe(ctx context.Context, audio []byte, languageTag string) (string, error) {
	return f(ctx, audio, languageTag)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(context.Context, string, []conversation.Entry) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, text string, history []conversation.Entry) (string, error) {
	return f(ctx, text, history)
}

// SynthesizerFunc adapts a function to the Synthesizer interface.
type SynthesizerFunc func(context.Context, string, config.VoiceVariant) ([]byte, error)

func (f SynthesizerFunc) Synthesize(ctx context.Context, text string, variant config.VoiceVariant) ([]byte, error) {
	return f(ctx, text, variant)
}

// placeholder fails every call so unwired adapters surface as typed outcomes.
type placeholder struct{}

func (placeholder) Transcribe(context.Context, []byte, string) (string, error) {
	return "", ErrAdapterUnavailable
}

func (placeholder) Generate(context.Context, string, []conversation.Entry) (string, error) {
	return "", ErrAdapterUnavailable
}

func (placeholder) Synthesize(context.Context, string, config.VoiceVariant) ([]byte, error) {
	return nil, ErrAdapterUnavailable
}

// recoverAdapter must be deferred directly; it turns a panic in the adapter
// call into an error on *err.
func recoverAdapter(name string, err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%w: %s: %v", ErrAdapterPanic, name, r)
	}
}

func (c *Controller) callTranscriber(ctx context.Context, audio []byte) (text string, err error) {
	defer recoverAdapter("transcriber", &err)
	return c.transcriber.Transcribe(ctx, audio, c.opts.Language)
}

func (c *Controller) callGenerator(ctx context.Context, text string, history []conversation.Entry) (reply string, err error) {
	defer recoverAdapter("generator", &err)
	return c.generator.Generate(ctx, text, history)
}

func (c *Controller) callSynthesizer(ctx context.Context, text string) (audio []byte, err error) {
	defer recoverAdapter("synthesizer", &err)
	return c.synthesizer.Synthesize(ctx, text, c.opts.VoiceVariant)
}
