package main

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/davidbz/tokenmeter/internal/domain"
)

type estimateOutput struct {
	ModelID        string             `json:"model_id"`
	Pricing        domain.PricingPair `json:"pricing"`
	ConversionRate float64            `json:"conversion_rate"`
	Cost           domain.CostResult  `json:"cost"`
}

func estimateCmd() *cobra.Command {
	var (
		modelID      string
		inputTokens  int
		outputTokens int
		rate         float64
	)

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate the cost of a token usage",
		Long: `Resolve pricing for a model from the backend's model directory and
print the cost of the given token counts. Unknown models and an unreachable
backend fall back to the default pricing.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if inputTokens < 0 || outputTokens < 0 {
				return errors.New("token counts cannot be negative")
			}

			container, err := buildContainer()
			if err != nil {
				return err
			}

			return container.Invoke(func(resolver *domain.PricingResolver, logger *zap.Logger) error {
				defer func() { _ = logger.Sync() }()

				pricing, listed := resolver.Resolve(cmd.Context(), modelID)

				conversionRate := resolver.RateFor(listed)
				if cmd.Flags().Changed("rate") {
					conversionRate = rate
				}

				out := estimateOutput{
					ModelID:        modelID,
					Pricing:        pricing,
					ConversionRate: conversionRate,
					Cost:           domain.ComputeConvertedCost(inputTokens, outputTokens, pricing, conversionRate),
				}

				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(out)
			})
		},
	}

	cmd.Flags().StringVar(&modelID, "model", "", "model identifier (default pricing when empty)")
	cmd.Flags().IntVar(&inputTokens, "input", 0, "input token count")
	cmd.Flags().IntVar(&outputTokens, "output", 0, "output token count")
	cmd.Flags().Float64Var(&rate, "rate", 0, "override the conversion rate (backend rate when unset, 1 for default pricing)")

	return cmd
}
