// Package backend is an HTTP client for the chat backend. It implements
// domain.DirectorySource and domain.ChatBackend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/davidbz/tokenmeter/internal/domain"
	"github.com/davidbz/tokenmeter/internal/observability"
)

const (
	defaultTimeout   = 30 * time.Second
	maxErrorBodySize = 4096
)

// ErrMalformedResponse indicates the backend returned a payload of unexpected shape.
var ErrMalformedResponse = errors.New("malformed backend response")

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("backend returned status %d: %s", e.Code, e.Body)
}

// ClientError reports whether the backend rejected the request itself.
func (e *StatusError) ClientError() bool {
	return e.Code >= http.StatusBadRequest && e.Code < http.StatusInternalServerError
}

// Client wraps the HTTP client for backend API calls.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new backend HTTP client.
func NewClient(config *Config) *Client {
	timeout := defaultTimeout
	baseURL := ""
	if config != nil {
		baseURL = config.BaseURL
		if config.Timeout > 0 {
			timeout = time.Duration(config.Timeout) * time.Second
		}
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Backend API response structures.
type modelsResponse struct {
	Models        *[]modelEntry `json:"models"`
	USDToEURRate  *float64      `json:"usd_to_eur_rate"`
	RateUpdatedAt *string       `json:"rate_updated_at"`
}

type modelEntry struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Pricing     *modelPricing `json:"pricing"`
	Current     *bool         `json:"current"`
}

type modelPricing struct {
	Input  *float64 `json:"input"`
	Output *float64 `json:"output"`
}

// Health checks backend liveness.
func (c *Client) Health(ctx context.Context) (*domain.HealthStatus, error) {
	var status domain.HealthStatus
	if err := c.do(ctx, http.MethodGet, "/health", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// FetchDirectory retrieves the model directory and the current conversion rate.
func (c *Client) FetchDirectory(ctx context.Context) (*domain.ModelDirectory, error) {
	logger := observability.FromContext(ctx)
	logger.Debug("fetching model directory")

	var resp modelsResponse
	if err := c.do(ctx, http.MethodGet, "/models", nil, &resp); err != nil {
		return nil, err
	}

	directory, err := toDirectory(&resp)
	if err != nil {
		logger.Warn("model directory rejected", observability.Error(err))
		return nil, err
	}

	return directory, nil
}

// Chat forwards a chat turn to the backend.
func (c *Client) Chat(ctx context.Context, req *domain.ChatRequest) (*domain.ChatResponse, error) {
	if req == nil {
		return nil, domain.ErrNilRequest
	}

	var resp domain.ChatResponse
	if err := c.do(ctx, http.MethodPost, "/chat", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		reqBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(reqBody)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if requestID := observability.GetRequestID(ctx); requestID != "" {
		httpReq.Header.Set("X-Request-Id", requestID)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodySize))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(errBody))}
	}

	if decodeErr := json.NewDecoder(resp.Body).Decode(out); decodeErr != nil {
		return fmt.Errorf("%w: %w", ErrMalformedResponse, decodeErr)
	}

	return nil
}

func toDirectory(resp *modelsResponse) (*domain.ModelDirectory, error) {
	if resp.Models == nil {
		return nil, fmt.Errorf("%w: missing models", ErrMalformedResponse)
	}

	models := make([]domain.ModelInfo, 0, len(*resp.Models))
	for i, entry := range *resp.Models {
		if entry.ID == "" {
			return nil, fmt.Errorf("%w: model %d has no id", ErrMalformedResponse, i)
		}
		if entry.Pricing == nil || entry.Pricing.Input == nil || entry.Pricing.Output == nil {
			return nil, fmt.Errorf("%w: model %s has no pricing", ErrMalformedResponse, entry.ID)
		}
		if *entry.Pricing.Input < 0 || *entry.Pricing.Output < 0 {
			return nil, fmt.Errorf("%w: model %s has negative pricing", ErrMalformedResponse, entry.ID)
		}

		current := true
		if entry.Current != nil {
			current = *entry.Current
		}

		models = append(models, domain.ModelInfo{
			ID:          entry.ID,
			Name:        entry.Name,
			Description: entry.Description,
			Pricing: domain.PricingPair{
				Input:  *entry.Pricing.Input,
				Output: *entry.Pricing.Output,
			},
			Current: current,
		})
	}

	directory := &domain.ModelDirectory{
		Models:         models,
		ConversionRate: nil,
		RateUpdatedAt:  nil,
	}

	if resp.USDToEURRate != nil && *resp.USDToEURRate > 0 {
		rate := *resp.USDToEURRate
		directory.ConversionRate = &rate
	}

	if resp.RateUpdatedAt != nil {
		if updatedAt, ok := parseTimestamp(*resp.RateUpdatedAt); ok {
			directory.RateUpdatedAt = &updatedAt
		}
	}

	return directory, nil
}

// Timestamps may come without a zone offset.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
}

func parseTimestamp(value string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
