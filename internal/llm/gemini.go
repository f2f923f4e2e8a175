package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/rbright/monkeyai/internal/config"
	"github.com/rbright/monkeyai/internal/conversation"
)

// Gemini generates replies through the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
	config *genai.GenerateContentConfig
}

// NewGemini builds a Gemini generator. A non-empty cfg.BaseURL overrides the API host.
func NewGemini(ctx context.Context, cfg config.LLMConfig, apiKey string, httpClient *http.Client) (*Gemini, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if strings.TrimSpace(cfg.BaseURL) != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &Gemini{
		client: client,
		model:  cfg.Model,
		config: &genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(Persona, genai.RoleUser),
			Temperature:       genai.Ptr(float32(cfg.Temperature)),
			MaxOutputTokens:   int32(cfg.MaxTokens),
		},
	}, nil
}

func (g *Gemini) Generate(ctx context.Context, text string, history []conversation.Entry) (string, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(prompt(text, history), genai.RoleUser),
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, g.config)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	reply := strings.TrimSpace(resp.Text())
	if reply == "" {
		return "", fmt.Errorf("gemini generate content: %w", ErrEmptyResponse)
	}
	return reply, nil
}

// Ping fetches the configured model's metadata.
func (g *Gemini) Ping(ctx context.Context) error {
	if _, err := g.client.Models.Get(ctx, g.model, nil); err != nil {
		return fmt.Errorf("gemini get model %s: %w", g.model, err)
	}
	return nil
}
