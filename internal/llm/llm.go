// Package llm implements chat reply backends for Groq and Gemini.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rbright/monkeyai/internal/config"
	"github.com/rbright/monkeyai/internal/conversation"
)

// Persona is the system instruction sent with every chat request.
const Persona = "Você é o MonkeyAI. Responda de forma breve e direta."

var (
	// ErrMissingAPIKey indicates the provider credential is not set.
	ErrMissingAPIKey = errors.New("missing API key")
	// ErrEmptyResponse indicates the provider answered without any text.
	ErrEmptyResponse = errors.New("empty model response")
)

// Generator produces one short chat reply.
type Generator interface {
	Generate(ctx context.Context, text string, history []conversation.Entry) (string, error)
}

// New builds the generator selected by cfg.Provider.
func New(ctx context.Context, cfg config.LLMConfig, secrets config.Secrets) (Generator, error) {
	key := secrets.APIKeyFor(cfg.Provider)
	if strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("%w: set %s", ErrMissingAPIKey, config.EnvKeyFor(cfg.Provider))
	}

	httpClient := &http.Client{Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond}
	switch strings.ToLower(cfg.Provider) {
	case config.ProviderGroq:
		return NewGroq(cfg, key, httpClient), nil
	case config.ProviderGemini:
		return NewGemini(ctx, cfg, key, httpClient)
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.Provider)
	}
}

// prompt renders history and input as role-prefixed lines ending in the
// assistant prefix.
func prompt(text string, history []conversation.Entry) string {
	return conversation.FormatPrompt(history, text)
}
