package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
)

// OllamaEndpointConfig holds the configuration for a single Ollama endpoint.
type OllamaEndpointConfig struct {
	BaseURL string // e.g. http://localhost:11434 or https://api.ollama.com
	Model   string // e.g. qwen3, llama3.1
	Token   string // Bearer token for Ollama Cloud (empty = no auth)
}

// OllamaProvider implements port.CompletionProvider using the Ollama REST API.
type OllamaProvider struct {
	cfg    OllamaEndpointConfig
	client *resty.Client
}

// NewOllamaProvider creates a new Ollama-backed completion provider.
// Timeouts come from the caller's context.
func NewOllamaProvider(cfg OllamaEndpointConfig) *OllamaProvider {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.Token != "" {
		client.SetAuthToken(cfg.Token)
	}
	return &OllamaProvider{cfg: cfg, client: client}
}

// ModelName returns the chat model identifier.
func (o *OllamaProvider) ModelName() string {
	return o.cfg.Model
}

type ollamaMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ollamaChatRequest struct {
	Model    string          `json:"model"`
	Messages []ollamaMessage `json:"messages"`
	Stream   bool            `json:"stream"`
	Format   json.RawMessage `json:"format,omitempty"`
}

type ollamaChatResponse struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

// Complete sends the prompts and returns the complete response.
func (o *OllamaProvider) Complete(ctx context.Context, systemPrompt string, userPrompt string) (string, error) {
	content, err := o.chat(ctx, systemPrompt, userPrompt, nil)
	if err != nil {
		return "", fmt.Errorf("ollama chat: %w", err)
	}
	return content, nil
}

// CompleteJSON passes schema as the Ollama structured output format and decodes the reply.
func (o *OllamaProvider) CompleteJSON(ctx context.Context, systemPrompt string, userPrompt string, schema json.RawMessage, out any) error {
	content, err := o.chat(ctx, systemPrompt, userPrompt, schema)
	if err != nil {
		return fmt.Errorf("ollama structured chat: %w", err)
	}
	if err := json.Unmarshal([]byte(content), out); err != nil {
		return fmt.Errorf("ollama structured decode: %w", err)
	}
	return nil
}

func (o *OllamaProvider) chat(ctx context.Context, systemPrompt, userPrompt string, format json.RawMessage) (string, error) {
	payload := ollamaChatRequest{
		Model: o.cfg.Model,
		Messages: []ollamaMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Stream: false,
		Format: format,
	}

	var result ollamaChatResponse
	resp, err := o.client.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&result).
		Post("/api/chat")
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("ollama API error (%d): %s", resp.StatusCode(), resp.String())
	}
	if strings.TrimSpace(result.Message.Content) == "" {
		return "", fmt.Errorf("empty response")
	}
	return result.Message.Content, nil
}
