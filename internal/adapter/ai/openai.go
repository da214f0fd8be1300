package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/sashabaranov/go-openai"
)

// OpenAIConfig holds the configuration for the OpenAI chat completion API.
type OpenAIConfig struct {
	APIKey  string
	Model   string // e.g. gpt-4o-mini
	BaseURL string // empty = api.openai.com; set for compatible gateways
}

// OpenAIProvider implements port.CompletionProvider using go-openai.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

// NewOpenAIProvider creates a new OpenAI-backed completion provider.
func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is not set")
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	slog.Info("initializing OpenAI client", "model", cfg.Model)
	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
	}, nil
}

// ModelName returns the chat model identifier.
func (o *OpenAIProvider) ModelName() string {
	return o.model
}

// Complete sends the prompts and returns the first choice's content.
func (o *OpenAIProvider) Complete(ctx context.Context, systemPrompt string, userPrompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, o.request(systemPrompt, userPrompt))
	if err != nil {
		return "", fmt.Errorf("openai chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai chat: no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// CompleteJSON requests a strict JSON-schema response and decodes it into out.
func (o *OpenAIProvider) CompleteJSON(ctx context.Context, systemPrompt string, userPrompt string, schema json.RawMessage, out any) error {
	req := o.request(systemPrompt, userPrompt)
	req.ResponseFormat = &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
		JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
			Name:   "result",
			Schema: schema,
			Strict: true,
		},
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return fmt.Errorf("openai structured chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return fmt.Errorf("openai structured chat: no choices")
	}
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), out); err != nil {
		return fmt.Errorf("openai structured decode: %w", err)
	}
	return nil
}

func (o *OpenAIProvider) request(systemPrompt, userPrompt string) openai.ChatCompletionRequest {
	return openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	}
}
