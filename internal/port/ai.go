package port

import (
	"context"
	"encoding/json"
)

// CompletionProvider abstracts the hosted text-completion service.
// Implementations can target Ollama, OpenAI, or any compatible API.
type CompletionProvider interface {
	// ModelName returns the identifier of the model being used.
	ModelName() string

	// Complete sends a system and user prompt and returns the free-text completion.
	Complete(ctx context.Context, systemPrompt string, userPrompt string) (string, error)

	// CompleteJSON asks for output matching schema and decodes it into out.
	CompleteJSON(ctx context.Context, systemPrompt string, userPrompt string, schema json.RawMessage, out any) error
}
