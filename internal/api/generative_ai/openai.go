package generativeAI

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// OpenAIConfig points the client at any OpenAI-compatible chat completions API.
type OpenAIConfig struct {
	Name    string
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// OpenAIClient serves TextCompletion from an OpenAI-compatible endpoint such
// as xAI or Perplexity.
type OpenAIClient struct {
	client  openai.Client
	name    string
	model   string
	timeout time.Duration
}

func NewOpenAIClient(cfg OpenAIConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%s api key is not set", cfg.Name)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("%s model is not set", cfg.Name)
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	name := cfg.Name
	if name == "" {
		name = "openai"
	}
	return &OpenAIClient{
		client:  openai.NewClient(opts...),
		name:    name,
		model:   cfg.Model,
		timeout: cfg.Timeout,
	}, nil
}

func (o *OpenAIClient) Complete(ctx context.Context, messages []Message, opts Options) (Completion, error) {
	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "OpenAIClient.Complete", trace.WithAttributes(
		attribute.String("provider", o.name),
		attribute.String("model", o.model),
		attribute.Int("messages.count", len(messages)),
	))
	defer span.End()

	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := o.client.Chat.Completions.New(ctx, o.params(messages, opts))
	recordCall(ctx, o.name, o.model, start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Chat completion failed")
		return Completion{}, capabilityError(o.name, err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		err = fmt.Errorf("%s completion: %w: %w", o.name, types.ErrCapabilityFailure, errors.New("empty response"))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Empty response")
		return Completion{}, err
	}

	content := resp.Choices[0].Message.Content
	span.SetAttributes(attribute.Int("response.length", len(content)))
	span.SetStatus(codes.Ok, "Completion generated")
	return Completion{Content: content, Model: resp.Model, Latency: time.Since(start)}, nil
}

func (o *OpenAIClient) params(messages []Message, opts Options) openai.ChatCompletionNewParams {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case types.RoleSystem:
			msgs = append(msgs, openai.SystemMessage(m.Content))
		case types.RoleAssistant:
			msgs = append(msgs, openai.AssistantMessage(m.Content))
		default:
			msgs = append(msgs, openai.UserMessage(m.Content))
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(o.model),
		Messages:    msgs,
		Temperature: openai.Float(opts.Temperature),
	}
	if opts.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(opts.MaxTokens))
	}
	if opts.Schema != nil {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:   opts.Schema.Name,
					Schema: opts.Schema.Schema,
				},
			},
		}
	}
	return params
}
