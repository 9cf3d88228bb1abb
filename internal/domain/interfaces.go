package domain

import "context"

// DirectorySource fetches the model directory from the backend.
type DirectorySource interface {
	// FetchDirectory performs one request for the current model directory.
	FetchDirectory(ctx context.Context) (*ModelDirectory, error)
}

// ChatBackend forwards chat turns to the backend.
type ChatBackend interface {
	// Chat sends a message and returns the assistant reply.
	Chat(ctx context.Context, req *ChatRequest) (*ChatResponse, error)

	// Health checks backend liveness.
	Health(ctx context.Context) (*HealthStatus, error)
}

// MetricsRecorder receives pricing and cost observations.
type MetricsRecorder interface {
	// RecordDirectoryFetch counts a directory fetch by outcome.
	RecordDirectoryFetch(outcome string)

	// RecordPricingFallback counts a resolution that fell back to defaults.
	RecordPricingFallback(reason string)

	// RecordCost accumulates the cost and tokens of a chat turn.
	RecordCost(model string, usage TokenUsage, cost CostResult)
}

// Fetch outcomes.
const (
	FetchOutcomeSuccess = "success"
	FetchOutcomeError   = "error"
)

// Fallback reasons.
const (
	FallbackNoModel      = "no_model"
	FallbackUnknownModel = "unknown_model"
	FallbackUnavailable  = "unavailable"
)
