package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/davidbz/tokenmeter/internal/observability"
)

var (
	// ErrNilRequest is returned when a chat request is missing.
	ErrNilRequest = errors.New("request cannot be nil")

	// ErrEmptyMessage is returned when a chat request has no message text.
	ErrEmptyMessage = errors.New("message cannot be empty")
)

// ChatService forwards chat turns to the backend and prices them.
type ChatService struct {
	backend  ChatBackend
	resolver *PricingResolver
	metrics  MetricsRecorder
}

// NewChatService creates a new chat service (DI constructor).
func NewChatService(backend ChatBackend, resolver *PricingResolver, metrics MetricsRecorder) *ChatService {
	return &ChatService{
		backend:  backend,
		resolver: resolver,
		metrics:  metrics,
	}
}

// Send forwards a message to the backend. When the backend reports token
// usage the response is annotated with a cost estimate.
func (s *ChatService) Send(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	if strings.TrimSpace(req.Message) == "" {
		return nil, ErrEmptyMessage
	}

	if req.ConversationHistory == nil {
		req.ConversationHistory = []Turn{}
	}

	response, err := s.backend.Chat(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("chat failed: %w", err)
	}

	if response.TokenUsage == nil {
		return response, nil
	}

	model := response.ModelUsed
	if model == "" {
		model = req.Model()
	}

	cost := s.Estimate(ctx, model, *response.TokenUsage)
	response.Cost = &cost

	if s.metrics != nil {
		s.metrics.RecordCost(model, *response.TokenUsage, cost)
	}

	observability.FromContext(ctx).Info("chat turn priced",
		observability.String("model", model),
		observability.Int("input_tokens", response.TokenUsage.InputTokens),
		observability.Int("output_tokens", response.TokenUsage.OutputTokens),
		observability.Float64("total_cost", cost.TotalCost))

	return response, nil
}

// Estimate prices a token usage for modelID. Directory prices are converted
// with the current rate; the fallback pair is used as is.
func (s *ChatService) Estimate(ctx context.Context, modelID string, usage TokenUsage) CostResult {
	pricing, listed := s.resolver.Resolve(ctx, modelID)
	return ComputeConvertedCost(usage.InputTokens, usage.OutputTokens, pricing, s.resolver.RateFor(listed))
}

// Health reports backend liveness.
func (s *ChatService) Health(ctx context.Context) (*HealthStatus, error) {
	status, err := s.backend.Health(ctx)
	if err != nil {
		return nil, fmt.Errorf("backend health check failed: %w", err)
	}
	return status, nil
}
