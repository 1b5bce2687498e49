package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"npcmind/internal/debug"
	"npcmind/internal/logging"
	"npcmind/internal/observability"
)

type contextKey string

const operationTypeKey contextKey = "operation_type"

// Service is the single client for the external text-completion collaborator.
// All cognition components go through CompleteText or CompleteJSON; failures
// are returned to the caller, which is expected to fall back rather than retry.
type Service struct {
	client      *openai.Client
	model       string
	debug       *debug.Logger
	tracer      trace.Tracer
	completions *logging.CompletionLogger
}

func NewService(apiKey string, dbg *debug.Logger) *Service {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Service{
		client: &client,
		model:  "gpt-5-2025-08-07",
		debug:  dbg,
		tracer: otel.Tracer("llm-service"),
	}
}

type TextCompletionRequest struct {
	SystemPrompt    string
	UserPrompt      string
	MaxTokens       int
	Model           string // optional override
	ReasoningEffort string // optional: minimal, low, medium, high
}

type JSONCompletionRequest struct {
	SystemPrompt    string
	UserPrompt      string
	MaxTokens       int
	Model           string // optional override
	ReasoningEffort string // optional: minimal, low, medium, high
}

// SetCompletionLogger turns on SQLite auditing of every round-trip.
func (s *Service) SetCompletionLogger(cl *logging.CompletionLogger) {
	s.completions = cl
}

// CompleteText submits a plain prompt and returns the raw reply text.
func (s *Service) CompleteText(ctx context.Context, req TextCompletionRequest) (string, error) {
	return s.complete(ctx, req.SystemPrompt, req.UserPrompt, req.MaxTokens, req.Model, req.ReasoningEffort, false)
}

// CompleteJSON submits a prompt with JSON-object response format requested.
// The reply is still free text as far as callers are concerned; they decode
// it leniently.
func (s *Service) CompleteJSON(ctx context.Context, req JSONCompletionRequest) (string, error) {
	return s.complete(ctx, req.SystemPrompt, req.UserPrompt, req.MaxTokens, req.Model, req.ReasoningEffort, true)
}

func (s *Service) complete(ctx context.Context, system, user string, maxTokens int, modelOverride, effort string, jsonMode bool) (string, error) {
	operationType := "completion"
	if opType := getOperationType(ctx); opType != "" {
		operationType = opType
	}

	model := s.model
	if strings.TrimSpace(modelOverride) != "" {
		model = modelOverride
	}

	ctx, span := s.tracer.Start(ctx, operationType,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			observability.CreateGenAIAttributes("openai", model)...,
		),
	)
	defer span.End()

	outputFormat := "text"
	if jsonMode {
		outputFormat = "json"
	}
	span.SetAttributes(
		attribute.Int("gen_ai.request.max_tokens", maxTokens),
		attribute.String("langfuse.observation.type", "generation"),
		attribute.String("response_format", outputFormat),
	)
	span.AddEvent("gen_ai.user.message", trace.WithAttributes(
		attribute.String("gen_ai.system", "openai"),
		attribute.String("content", user),
	))

	openaiReq := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		MaxCompletionTokens: openai.Int(int64(maxTokens)),
	}
	if jsonMode {
		p := shared.NewResponseFormatJSONObjectParam()
		openaiReq.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &p,
		}
	}
	if effort != "" {
		openaiReq.ReasoningEffort = shared.ReasoningEffort(effort)
	}

	s.debug.Printf("LLM %s - op=%s maxTokens=%d systemLen=%d", outputFormat, operationType, maxTokens, len(system))

	startTime := time.Now()
	resp, err := s.client.Chat.Completions.New(ctx, openaiReq)
	if err != nil {
		span.SetAttributes(attribute.String("error.type", "llm_completion_error"))
		span.RecordError(err)
		s.debug.Printf("LLM completion error (%s): %v", operationType, err)
		s.audit(ctx, operationType, system, user, "", model, maxTokens, time.Since(startTime), err)
		return "", fmt.Errorf("completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		err := fmt.Errorf("no completion choices returned")
		span.RecordError(err)
		return "", err
	}

	content := resp.Choices[0].Message.Content
	duration := time.Since(startTime)

	span.SetAttributes(
		attribute.Int64("gen_ai.usage.input_tokens", resp.Usage.PromptTokens),
		attribute.Int64("gen_ai.usage.output_tokens", resp.Usage.CompletionTokens),
		attribute.Int64("response_time_ms", duration.Milliseconds()),
		attribute.String("langfuse.observation.input", system+"\n\n"+user),
		attribute.String("langfuse.observation.output", content),
		attribute.String("langfuse.observation.output_format", outputFormat),
		attribute.String("langfuse.observation.model.name", model),
	)
	span.AddEvent("gen_ai.choice", trace.WithAttributes(
		attribute.String("gen_ai.system", "openai"),
		attribute.String("content", content),
	))

	s.debug.Printf("LLM completion op=%s responseLen=%d tokens=%d/%d duration=%v",
		operationType, len(content), resp.Usage.PromptTokens, resp.Usage.CompletionTokens, duration)

	s.audit(ctx, operationType, system, user, content, model, maxTokens, duration, nil)
	return content, nil
}

func (s *Service) audit(ctx context.Context, operation, system, user, response, model string, maxTokens int, elapsed time.Duration, callErr error) {
	if s.completions == nil {
		return
	}
	metadata := logging.CompletionMetadata{
		Model:        model,
		MaxTokens:    maxTokens,
		ResponseTime: elapsed,
	}
	if callErr != nil {
		msg := callErr.Error()
		metadata.Error = &msg
	}
	characterID := observability.CharacterIDFromContext(ctx)
	if err := s.completions.LogCompletion(characterID, operation, system+"\n\n"+user, response, metadata); err != nil {
		s.debug.Printf("failed to log completion: %v", err)
	}
}

// WithOperationType names the cognitive operation for span naming.
func WithOperationType(ctx context.Context, opType string) context.Context {
	return context.WithValue(ctx, operationTypeKey, opType)
}

func getOperationType(ctx context.Context) string {
	if opType, ok := ctx.Value(operationTypeKey).(string); ok {
		return opType
	}
	return ""
}
