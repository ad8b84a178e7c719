package generativeAI

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

const defaultGeminiModel = "gemini-2.0-flash"

type GeminiConfig struct {
	APIKey  string
	Model   string
	Timeout time.Duration
}

// GeminiClient serves TextCompletion from the Gemini API. System messages
// become the system instruction; the remaining turns are replayed as contents.
type GeminiClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "NewGeminiClient")
	defer span.End()

	if cfg.APIKey == "" {
		err := errors.New("gemini api key is not set")
		span.RecordError(err)
		span.SetStatus(codes.Error, "API key not set")
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create Gemini client")
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultGeminiModel
	}
	span.SetStatus(codes.Ok, "AI client created successfully")
	return &GeminiClient{client: client, model: model, timeout: cfg.Timeout}, nil
}

func (g *GeminiClient) Complete(ctx context.Context, messages []Message, opts Options) (Completion, error) {
	ctx, span := otel.Tracer("GenerativeAI").Start(ctx, "GeminiClient.Complete", trace.WithAttributes(
		attribute.String("model", g.model),
		attribute.Int("messages.count", len(messages)),
	))
	defer span.End()

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	contents, config := geminiRequest(messages, opts)
	start := time.Now()
	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	recordCall(ctx, "gemini", g.model, start, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to generate content")
		return Completion{}, capabilityError("gemini", err)
	}

	text := result.Text()
	if strings.TrimSpace(text) == "" {
		err = fmt.Errorf("gemini completion: %w: empty response", types.ErrCapabilityFailure)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Empty response")
		return Completion{}, err
	}

	span.SetAttributes(attribute.Int("response.length", len(text)))
	span.SetStatus(codes.Ok, "Content generated successfully")
	return Completion{Content: text, Model: g.model, Latency: time.Since(start)}, nil
}

func geminiRequest(messages []Message, opts Options) ([]*genai.Content, *genai.GenerateContentConfig) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](float32(opts.Temperature)),
	}
	if opts.MaxTokens > 0 {
		config.MaxOutputTokens = int32(opts.MaxTokens)
	}
	if opts.Schema != nil {
		config.ResponseMIMEType = "application/json"
	}

	var system []string
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case types.RoleSystem:
			system = append(system, m.Content)
		case types.RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	if len(system) > 0 {
		config.SystemInstruction = genai.NewContentFromText(strings.Join(system, "\n\n"), genai.RoleUser)
	}
	return contents, config
}
