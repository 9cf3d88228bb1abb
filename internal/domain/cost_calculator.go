package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

const (
	costDecimalPlaces = 6
	perMillionShift   = -6 // per-1M pricing
)

// CostResult is the cost of one exchange, each field rounded to six decimals.
type CostResult struct {
	InputCost  float64 `json:"input_cost"`
	OutputCost float64 `json:"output_cost"`
	TotalCost  float64 `json:"total_cost"`
}

// ComputeCost calculates the cost of a token exchange with no currency conversion.
func ComputeCost(inputTokens, outputTokens int, pricing PricingPair) CostResult {
	return ComputeConvertedCost(inputTokens, outputTokens, pricing, 1)
}

// ComputeConvertedCost calculates the cost of a token exchange and converts it
// with conversionRate.
//
// Negative, NaN and infinite inputs count as zero. Each component is rounded
// half away from zero to six places; TotalCost is the sum of the rounded
// components, so TotalCost == InputCost + OutputCost always holds.
func ComputeConvertedCost(inputTokens, outputTokens int, pricing PricingPair, conversionRate float64) CostResult {
	rate := decimal.NewFromFloat(nonNegative(conversionRate))

	inputCost := tokenCost(inputTokens, pricing.Input, rate)
	outputCost := tokenCost(outputTokens, pricing.Output, rate)
	totalCost := inputCost.Add(outputCost)

	return CostResult{
		InputCost:  inputCost.InexactFloat64(),
		OutputCost: outputCost.InexactFloat64(),
		TotalCost:  totalCost.InexactFloat64(),
	}
}

func tokenCost(tokens int, pricePerMillion float64, rate decimal.Decimal) decimal.Decimal {
	if tokens < 0 {
		tokens = 0
	}

	return decimal.NewFromInt(int64(tokens)).
		Mul(decimal.NewFromFloat(nonNegative(pricePerMillion))).
		Shift(perMillionShift).
		Mul(rate).
		Round(costDecimalPlaces)
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
