package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/davidbz/tokenmeter/internal/backend"
	"github.com/davidbz/tokenmeter/internal/domain"
	"github.com/davidbz/tokenmeter/internal/observability"
)

const maxRequestBodySize = 1 << 20

// Handler handles HTTP requests.
type Handler struct {
	chat     *domain.ChatService
	resolver *domain.PricingResolver
}

// NewHandler creates a new HTTP handler (DI constructor).
func NewHandler(chat *domain.ChatService, resolver *domain.PricingResolver) *Handler {
	return &Handler{
		chat:     chat,
		resolver: resolver,
	}
}

type modelsResponse struct {
	Models         []domain.ModelInfo `json:"models"`
	ConversionRate float64            `json:"usd_to_eur_rate"`
	RateUpdatedAt  *time.Time         `json:"rate_updated_at,omitempty"`
}

type pricingResponse struct {
	ModelID        string             `json:"model_id"`
	Pricing        domain.PricingPair `json:"pricing"`
	ConversionRate float64            `json:"conversion_rate"`
}

type costRequest struct {
	ModelID      string `json:"model_id"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
}

// HandleChat forwards a chat turn to the backend and returns it with a cost estimate.
func (h *Handler) HandleChat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Early validation.
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// Parse request.
	var req domain.ChatRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodySize)).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	// Inject model into context for downstream logging.
	ctx = observability.WithModel(ctx, req.Model())

	logger := observability.FromContext(ctx)
	logger.Info("chat request received",
		observability.Int("history_length", len(req.ConversationHistory)),
	)

	response, err := h.chat.Send(ctx, &req)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyMessage) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		// Backend rejections of the request keep their status; everything
		// else is an upstream failure.
		var statusErr *backend.StatusError
		if errors.As(err, &statusErr) && statusErr.ClientError() {
			logger.Warn("chat rejected by backend", observability.Int("status", statusErr.Code))
			http.Error(w, statusErr.Body, statusErr.Code)
			return
		}

		logger.Error("chat failed", observability.Error(err))
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	writeJSON(w, r, http.StatusOK, response)
}

// HandleModels returns the cached model directory.
func (h *Handler) HandleModels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	directory, err := h.resolver.Directory(r.Context())
	if err != nil {
		observability.FromContext(r.Context()).Error("model directory unavailable", observability.Error(err))
		http.Error(w, "model directory unavailable", http.StatusBadGateway)
		return
	}

	h.writeDirectory(w, r, directory)
}

// HandleRefreshModels re-fetches the model directory.
func (h *Handler) HandleRefreshModels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := h.resolver.Refresh(r.Context()); err != nil {
		observability.FromContext(r.Context()).Error("model directory refresh failed", observability.Error(err))
		http.Error(w, "model directory refresh failed", http.StatusBadGateway)
		return
	}

	directory, err := h.resolver.Directory(r.Context())
	if err != nil {
		http.Error(w, "model directory unavailable", http.StatusBadGateway)
		return
	}

	h.writeDirectory(w, r, directory)
}

// HandlePricing resolves the pricing pair for the model_id query parameter.
// conversion_rate is the rate that applies to the returned pair.
func (h *Handler) HandlePricing(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	modelID := r.URL.Query().Get("model_id")
	ctx := observability.WithModel(r.Context(), modelID)

	pricing, listed := h.resolver.Resolve(ctx, modelID)

	writeJSON(w, r, http.StatusOK, pricingResponse{
		ModelID:        modelID,
		Pricing:        pricing,
		ConversionRate: h.resolver.RateFor(listed),
	})
}

// HandleCost estimates the cost of a token usage for a model.
func (h *Handler) HandleCost(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req costRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodySize)).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	if req.InputTokens < 0 || req.OutputTokens < 0 {
		http.Error(w, "token counts cannot be negative", http.StatusBadRequest)
		return
	}

	ctx := observability.WithModel(r.Context(), req.ModelID)
	result := h.chat.Estimate(ctx, req.ModelID, domain.TokenUsage{
		InputTokens:  req.InputTokens,
		OutputTokens: req.OutputTokens,
	})

	writeJSON(w, r, http.StatusOK, result)
}

// HandleBackendHealth reports backend liveness.
func (h *Handler) HandleBackendHealth(w http.ResponseWriter, r *http.Request) {
	status, err := h.chat.Health(r.Context())
	if err != nil {
		observability.FromContext(r.Context()).Warn("backend unhealthy", observability.Error(err))
		writeJSON(w, r, http.StatusBadGateway, domain.HealthStatus{Status: "unavailable"})
		return
	}

	writeJSON(w, r, http.StatusOK, status)
}

// HandleHealth handles health check requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

func (h *Handler) writeDirectory(w http.ResponseWriter, r *http.Request, directory *domain.ModelDirectory) {
	resp := modelsResponse{
		Models:         directory.Models,
		ConversionRate: h.resolver.ConversionRate(),
		RateUpdatedAt:  nil,
	}
	if resp.Models == nil {
		resp.Models = []domain.ModelInfo{}
	}
	if updatedAt, ok := h.resolver.RateUpdatedAt(); ok {
		resp.RateUpdatedAt = &updatedAt
	}

	writeJSON(w, r, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		// Already written status, can't change it, just log.
		observability.FromContext(r.Context()).Error("failed to encode response", observability.Error(err))
	}
}
