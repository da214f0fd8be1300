package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var verdictSchema = json.RawMessage(`{"type":"object","properties":{"isHighRisk":{"type":"boolean"}},"required":["isHighRisk"]}`)

type verdict struct {
	IsHighRisk bool `json:"isHighRisk"`
}

func TestOllamaComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req ollamaChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama3.1", req.Model)
		assert.False(t, req.Stream)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "hello", req.Messages[1].Content)
		assert.Empty(t, req.Format)

		_, _ = w.Write([]byte(`{"message":{"role":"assistant","content":"hi there"}}`))
	}))
	defer srv.Close()

	p := NewOllamaProvider(OllamaEndpointConfig{BaseURL: srv.URL, Model: "llama3.1", Token: "secret"})
	out, err := p.Complete(context.Background(), "be kind", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hi there", out)
	assert.Equal(t, "llama3.1", p.ModelName())
}

func TestOllamaCompleteJSON_SendsSchemaAsFormat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.JSONEq(t, string(verdictSchema), string(req.Format))
		_, _ = w.Write([]byte(`{"message":{"content":"{\"isHighRisk\":true}"}}`))
	}))
	defer srv.Close()

	p := NewOllamaProvider(OllamaEndpointConfig{BaseURL: srv.URL, Model: "llama3.1"})
	var v verdict
	require.NoError(t, p.CompleteJSON(context.Background(), "sys", "usr", verdictSchema, &v))
	assert.True(t, v.IsHighRisk)
}

func TestOllamaErrors(t *testing.T) {
	t.Run("http error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "model not found", http.StatusNotFound)
		}))
		defer srv.Close()

		_, err := NewOllamaProvider(OllamaEndpointConfig{BaseURL: srv.URL}).Complete(context.Background(), "s", "u")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("empty content", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"message":{"content":"   "}}`))
		}))
		defer srv.Close()

		_, err := NewOllamaProvider(OllamaEndpointConfig{BaseURL: srv.URL}).Complete(context.Background(), "s", "u")
		assert.Error(t, err)
	})

	t.Run("context deadline", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(200 * time.Millisecond)
			_, _ = w.Write([]byte(`{"message":{"content":"late"}}`))
		}))
		defer srv.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err := NewOllamaProvider(OllamaEndpointConfig{BaseURL: srv.URL}).Complete(ctx, "s", "u")
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})
}

func TestOpenAIProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		content := "plain reply"
		if rf, ok := req["response_format"].(map[string]any); ok {
			assert.Equal(t, "json_schema", rf["type"])
			content = `{"isHighRisk":false}`
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "cmpl-1",
			"object":  "chat.completion",
			"choices": []map[string]any{{"index": 0, "message": map[string]any{"role": "assistant", "content": content}}},
		})
	}))
	defer srv.Close()

	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "sk-test", Model: "gpt-4o-mini", BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)

	out, err := p.Complete(context.Background(), "sys", "usr")
	require.NoError(t, err)
	assert.Equal(t, "plain reply", out)

	v := verdict{IsHighRisk: true}
	require.NoError(t, p.CompleteJSON(context.Background(), "sys", "usr", verdictSchema, &v))
	assert.False(t, v.IsHighRisk)
}

func TestNewOpenAIProvider_RequiresKey(t *testing.T) {
	_, err := NewOpenAIProvider(OpenAIConfig{Model: "gpt-4o-mini"})
	assert.Error(t, err)
}
