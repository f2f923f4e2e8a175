package turn

import (
	"errors"
	"time"

	"github.com/rbright/monkeyai/internal/intent"
)

var (
	// ErrCaptureTooShort rejects voice input below the configured minimum size.
	ErrCaptureTooShort = errors.New("voice capture too short")
	// ErrEmptyText rejects typed input that is blank after trimming.
	ErrEmptyText = errors.New("empty text input")
	// ErrTranscriptionFailed marks audio that produced no usable transcript.
	ErrTranscriptionFailed = errors.New("transcription failed")
	// ErrGenerationFailed marks a chat reply that could not be produced.
	ErrGenerationFailed = errors.New("reply generation failed")
	// ErrSynthesisFailed marks a reply that could not be spoken. Never fatal.
	ErrSynthesisFailed = errors.New("speech synthesis failed")
)

// Source tags where an utterance came from.
type Source string

const (
	SourceVoice Source = "voice"
	SourceText  Source = "text"
)

// Utterance is one input event. Audio is set only for SourceVoice.
type Utterance struct {
	Source Source
	Audio  []byte
	Text   string
}

// Voice builds a microphone utterance.
func Voice(audio []byte) Utterance {
	return Utterance{Source: SourceVoice, Audio: audio}
}

// Text builds a typed utterance.
func Text(text string) Utterance {
	return Utterance{Source: SourceText, Text: text}
}

// Kind classifies how a Submit call ended.
type Kind int

const (
	Ignored Kind = iota
	Duplicate
	Completed
	TranscriptionFailed
	GenerationFailed
)

func (k Kind) String() string {
	switch k {
	case Ignored:
		return "ignored"
	case Duplicate:
		return "duplicate"
	case Completed:
		return "completed"
	case TranscriptionFailed:
		return "transcription_failed"
	case GenerationFailed:
		return "generation_failed"
	default:
		return "unknown"
	}
}

// Timings records per-stage adapter latency for one turn.
type Timings struct {
	Transcribe time.Duration
	Generate   time.Duration
	Synthesize time.Duration
}

// Outcome is the complete result of one Submit call.
type Outcome struct {
	TurnID string
	Kind   Kind
	Source Source

	Transcript  string
	Intent      intent.Intent
	Reply       string
	SpokenText  string
	Audio       []byte
	RedirectURL string

	Fingerprint  Fingerprint
	Err          error
	SynthesisErr error

	Timings    Timings
	StartedAt  time.Time
	FinishedAt time.Time
}

// OK reports whether the turn produced a reply.
func (o Outcome) OK() bool {
	return o.Kind == Completed
}

// Duration is the wall time spent inside Submit.
func (o Outcome) Duration() time.Duration {
	return o.FinishedAt.Sub(o.StartedAt)
}
