package generativeAI

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/FACorreiaa/go-trip-planner/app/observability/metrics"
	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// Message is one turn of a completion conversation.
type Message struct {
	Role    types.MessageRole `json:"role"`
	Content string            `json:"content"`
}

func SystemMessage(content string) Message {
	return Message{Role: types.RoleSystem, Content: content}
}

func UserMessage(content string) Message {
	return Message{Role: types.RoleUser, Content: content}
}

func AssistantMessage(content string) Message {
	return Message{Role: types.RoleAssistant, Content: content}
}

// JSONSchema asks the provider for structured output matching Schema.
type JSONSchema struct {
	Name   string
	Schema map[string]any
}

type Options struct {
	MaxTokens   int
	Temperature float64
	Schema      *JSONSchema
}

type Completion struct {
	Content string
	Model   string
	Latency time.Duration
}

// TextCompletion is a chat-style text generation backend.
type TextCompletion interface {
	Complete(ctx context.Context, messages []Message, opts Options) (Completion, error)
}

// TextCompletionFunc adapts a function to TextCompletion.
type TextCompletionFunc func(ctx context.Context, messages []Message, opts Options) (Completion, error)

func (f TextCompletionFunc) Complete(ctx context.Context, messages []Message, opts Options) (Completion, error) {
	return f(ctx, messages, opts)
}

func capabilityError(provider string, err error) error {
	return fmt.Errorf("%s completion: %w: %w", provider, types.ErrCapabilityFailure, err)
}

func recordCall(ctx context.Context, provider, model string, start time.Time, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	attrs := metric.WithAttributes(
		attribute.String("provider", provider),
		attribute.String("model", model),
		attribute.String("outcome", outcome),
	)
	m := metrics.Get()
	m.AIRequestsTotal.Add(ctx, 1, attrs)
	m.AIRequestDurationSeconds.Record(ctx, time.Since(start).Seconds(), attrs)
}
