// Package stt transcribes captured WAV audio through Groq's Whisper endpoint.
package stt

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/text/language"

	"github.com/rbright/monkeyai/internal/config"
	"github.com/rbright/monkeyai/internal/llm"
)

// ErrNoAudio rejects an empty buffer before any request is made.
var ErrNoAudio = errors.New("no audio to transcribe")

// Groq transcribes audio with a Whisper model hosted by Groq.
type Groq struct {
	client *openai.Client
	model  string
}

// NewGroq builds a transcriber sharing the Groq OpenAI-compatible client setup.
func NewGroq(cfg config.STTConfig, apiKey string, httpClient *http.Client) *Groq {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond}
	}
	return &Groq{
		client: llm.GroqClient(apiKey, cfg.BaseURL, httpClient),
		model:  cfg.Model,
	}
}

// Transcribe sends one WAV clip and returns the recognized text.
func (g *Groq) Transcribe(ctx context.Context, audio []byte, languageTag string) (string, error) {
	if len(audio) == 0 {
		return "", ErrNoAudio
	}

	resp, err := g.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    g.model,
		Reader:   bytes.NewReader(audio),
		FilePath: "utterance.wav",
		Language: BaseLanguage(languageTag),
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return "", fmt.Errorf("groq transcription: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}

// BaseLanguage reduces a BCP 47 tag to the ISO 639-1 code Whisper expects.
// Unparseable tags yield "" so the service auto-detects.
func BaseLanguage(tag string) string {
	parsed, err := language.Parse(strings.TrimSpace(tag))
	if err != nil {
		return ""
	}
	base, confidence := parsed.Base()
	if confidence == language.No {
		return ""
	}
	return base.String()
}
