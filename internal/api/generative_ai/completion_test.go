package generativeAI

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

func TestGeminiRequest(t *testing.T) {
	contents, cfg := geminiRequest([]Message{
		SystemMessage("be brief"),
		UserMessage("plan a day"),
		AssistantMessage(`{"days":[]}`),
		UserMessage("add a museum"),
	}, Options{MaxTokens: 2500, Temperature: 0.7, Schema: &JSONSchema{Name: "itinerary"}})

	require.Len(t, contents, 3)
	assert.EqualValues(t, genai.RoleUser, contents[0].Role)
	assert.EqualValues(t, genai.RoleModel, contents[1].Role)
	assert.Equal(t, "add a museum", contents[2].Parts[0].Text)
	require.NotNil(t, cfg.SystemInstruction)
	assert.Equal(t, "be brief", cfg.SystemInstruction.Parts[0].Text)
	assert.Equal(t, "application/json", cfg.ResponseMIMEType)
	assert.InDelta(t, 0.7, float64(*cfg.Temperature), 0.001)
	assert.EqualValues(t, 2500, cfg.MaxOutputTokens)

	_, cfg = geminiRequest([]Message{UserMessage("hi")}, Options{})
	assert.Zero(t, cfg.MaxOutputTokens)
	assert.Empty(t, cfg.ResponseMIMEType)
}

func TestNewOpenAIClient_Validation(t *testing.T) {
	_, err := NewOpenAIClient(OpenAIConfig{Name: "xai", Model: "grok-3-mini"})
	assert.Error(t, err)
	_, err = NewOpenAIClient(OpenAIConfig{Name: "xai", APIKey: "k"})
	assert.Error(t, err)
}

func TestOpenAIClient_Complete(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var got map[string]any
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"grok-3-mini",
				"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"{\"ok\":true}"}}]}`))
		}))
		defer srv.Close()

		client, err := NewOpenAIClient(OpenAIConfig{Name: "xai", APIKey: "test-key", BaseURL: srv.URL + "/", Model: "grok-3-mini"})
		require.NoError(t, err)

		out, err := client.Complete(context.Background(), []Message{
			SystemMessage("json only"),
			UserMessage("hi"),
		}, Options{MaxTokens: 2500, Temperature: 0.7, Schema: &JSONSchema{Name: "itinerary", Schema: map[string]any{"type": "object"}}})
		require.NoError(t, err)
		assert.Equal(t, `{"ok":true}`, out.Content)
		assert.Equal(t, "grok-3-mini", out.Model)

		assert.Equal(t, "grok-3-mini", got["model"])
		assert.EqualValues(t, 2500, got["max_tokens"])
		msgs := got["messages"].([]any)
		require.Len(t, msgs, 2)
		assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
		format := got["response_format"].(map[string]any)
		assert.Equal(t, "json_schema", format["type"])
	})

	t.Run("provider error is a capability failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"message":"bad model","type":"invalid_request_error"}}`))
		}))
		defer srv.Close()

		client, err := NewOpenAIClient(OpenAIConfig{Name: "perplexity", APIKey: "k", BaseURL: srv.URL + "/", Model: "sonar"})
		require.NoError(t, err)

		_, err = client.Complete(context.Background(), []Message{UserMessage("hi")}, Options{})
		require.Error(t, err)
		assert.ErrorIs(t, err, types.ErrCapabilityFailure)
	})

	t.Run("empty choices", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"sonar","choices":[]}`))
		}))
		defer srv.Close()

		client, err := NewOpenAIClient(OpenAIConfig{Name: "perplexity", APIKey: "k", BaseURL: srv.URL + "/", Model: "sonar"})
		require.NoError(t, err)

		_, err = client.Complete(context.Background(), []Message{UserMessage("hi")}, Options{})
		assert.ErrorIs(t, err, types.ErrCapabilityFailure)
	})
}

func TestTextCompletionFunc(t *testing.T) {
	var fn TextCompletion = TextCompletionFunc(func(ctx context.Context, messages []Message, opts Options) (Completion, error) {
		return Completion{Content: messages[0].Content}, nil
	})
	out, err := fn.Complete(context.Background(), []Message{UserMessage("echo")}, Options{})
	require.NoError(t, err)
	assert.Equal(t, "echo", out.Content)
}
