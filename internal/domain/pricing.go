package domain

import "time"

const (
	// Hardcoded fallback pricing, currency per 1M tokens.
	defaultInputPerMillion  = 3.0
	defaultOutputPerMillion = 15.0

	// DefaultConversionRate is used until the backend reports a rate.
	DefaultConversionRate = 0.92
)

// PricingPair contains per-million-token pricing for a model.
type PricingPair struct {
	Input  float64 `json:"input"`  // currency per 1M input tokens
	Output float64 `json:"output"` // currency per 1M output tokens
}

// DefaultPricing returns the fallback pricing pair.
func DefaultPricing() PricingPair {
	return PricingPair{
		Input:  defaultInputPerMillion,
		Output: defaultOutputPerMillion,
	}
}

// ModelInfo describes one model in the backend's directory.
type ModelInfo struct {
	ID          string      `json:"id"`
	Name        string      `json:"name,omitempty"`
	Description string      `json:"description,omitempty"`
	Pricing     PricingPair `json:"pricing"`
	Current     bool        `json:"current"`
}

// ModelDirectory is the model list fetched from the backend.
// It is treated as immutable once fetched.
type ModelDirectory struct {
	Models         []ModelInfo `json:"models"`
	ConversionRate *float64    `json:"usd_to_eur_rate,omitempty"`
	RateUpdatedAt  *time.Time  `json:"rate_updated_at,omitempty"`
}

// Lookup returns the first model whose ID equals id.
func (d *ModelDirectory) Lookup(id string) (ModelInfo, bool) {
	if d == nil {
		return ModelInfo{}, false
	}

	for _, model := range d.Models {
		if model.ID == id {
			return model, true
		}
	}

	return ModelInfo{}, false
}
