package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/rbright/monkeyai/internal/config"
	"github.com/rbright/monkeyai/internal/conversation"
)

// GroqBaseURL is the OpenAI-compatible Groq endpoint.
const GroqBaseURL = "https://api.groq.com/openai/v1"

// Groq generates replies through Groq's chat completions API.
type Groq struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

// NewGroq builds a Groq generator. An empty cfg.BaseURL uses GroqBaseURL.
func NewGroq(cfg config.LLMConfig, apiKey string, httpClient *http.Client) *Groq {
	return &Groq{
		client:      openai.NewClientWithConfig(groqClientConfig(apiKey, cfg.BaseURL, httpClient)),
		model:       cfg.Model,
		temperature: float32(cfg.Temperature),
		maxTokens:   cfg.MaxTokens,
	}
}

func groqClientConfig(apiKey, baseURL string, httpClient *http.Client) openai.ClientConfig {
	clientCfg := openai.DefaultConfig(apiKey)
	clientCfg.BaseURL = GroqBaseURL
	if strings.TrimSpace(baseURL) != "" {
		clientCfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if httpClient != nil {
		clientCfg.HTTPClient = httpClient
	}
	return clientCfg
}

// GroqClient exposes the configured OpenAI-compatible client for reuse by
// the Groq transcription adapter.
func GroqClient(apiKey, baseURL string, httpClient *http.Client) *openai.Client {
	return openai.NewClientWithConfig(groqClientConfig(apiKey, baseURL, httpClient))
}

func (g *Groq) Generate(ctx context.Context, text string, history []conversation.Entry) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: Persona},
			{Role: openai.ChatMessageRoleUser, Content: prompt(text, history)},
		},
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("groq chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("groq chat completion: %w", ErrEmptyResponse)
	}

	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	if reply == "" {
		return "", fmt.Errorf("groq chat completion: %w", ErrEmptyResponse)
	}
	return reply, nil
}
