package domain

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/davidbz/tokenmeter/internal/observability"
)

// ResolverOptions configures the fallbacks of a PricingResolver.
// A nil DefaultPricing selects the built-in pair; a non-positive rate selects
// DefaultConversionRate.
type ResolverOptions struct {
	DefaultPricing        *PricingPair
	DefaultConversionRate float64
}

// PricingResolver maps model identifiers to pricing using the backend's
// model directory. The directory is fetched at most once per resolver and
// cached for its lifetime unless Refresh is called.
type PricingResolver struct {
	source   DirectorySource
	defaults PricingPair
	metrics  MetricsRecorder

	// fetchMu serializes fetches; mu guards the cached state.
	fetchMu sync.Mutex
	mu      sync.RWMutex

	directory     *ModelDirectory
	rate          float64
	rateUpdatedAt time.Time
}

// NewPricingResolver creates a resolver (DI constructor). metrics may be nil.
func NewPricingResolver(source DirectorySource, opts ResolverOptions, metrics MetricsRecorder) *PricingResolver {
	defaults := DefaultPricing()
	if opts.DefaultPricing != nil {
		defaults = *opts.DefaultPricing
	}

	rate := opts.DefaultConversionRate
	if rate <= 0 {
		rate = DefaultConversionRate
	}

	return &PricingResolver{
		source:   source,
		defaults: defaults,
		metrics:  metrics,
		rate:     rate,
	}
}

// ResolvePricing returns the pricing pair for modelID.
// It never fails: an empty ID, an unknown ID, or an unavailable directory
// all yield the default pricing.
func (r *PricingResolver) ResolvePricing(ctx context.Context, modelID string) PricingPair {
	pricing, _ := r.Resolve(ctx, modelID)
	return pricing
}

// Resolve is ResolvePricing that also reports whether the pair came from the
// model directory. Directory prices are in the backend currency and need the
// conversion rate; the default pair is already in the display currency.
func (r *PricingResolver) Resolve(ctx context.Context, modelID string) (PricingPair, bool) {
	if modelID == "" {
		r.recordFallback(FallbackNoModel)
		return r.defaults, false
	}

	logger := observability.FromContext(ctx)

	directory, err := r.Directory(ctx)
	if err != nil {
		logger.Warn("model directory unavailable, using default pricing",
			observability.String("model_id", modelID),
			observability.Error(err))
		r.recordFallback(FallbackUnavailable)
		return r.defaults, false
	}

	model, found := directory.Lookup(modelID)
	if !found {
		logger.Warn("unknown model, using default pricing",
			observability.String("model_id", modelID))
		r.recordFallback(FallbackUnknownModel)
		return r.defaults, false
	}

	return model.Pricing, true
}

// RateFor returns the conversion rate to apply to a pair returned by Resolve.
func (r *PricingResolver) RateFor(listed bool) float64 {
	if !listed {
		return 1
	}
	return r.ConversionRate()
}

// Directory returns the cached model directory, fetching it on first use.
// Failed fetches are not cached.
func (r *PricingResolver) Directory(ctx context.Context) (*ModelDirectory, error) {
	if directory := r.cached(); directory != nil {
		return directory, nil
	}

	r.fetchMu.Lock()
	defer r.fetchMu.Unlock()

	// Another caller may have completed the fetch while we waited.
	if directory := r.cached(); directory != nil {
		return directory, nil
	}

	return r.fetch(ctx)
}

// Refresh re-fetches the directory and replaces the cache on success.
// On failure the previous directory stays in place.
func (r *PricingResolver) Refresh(ctx context.Context) error {
	r.fetchMu.Lock()
	defer r.fetchMu.Unlock()

	if _, err := r.fetch(ctx); err != nil {
		return err
	}
	return nil
}

// ConversionRate returns the current source-to-display currency rate.
func (r *PricingResolver) ConversionRate() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.rate
}

// RateUpdatedAt returns when the backend last reported the rate, if known.
func (r *PricingResolver) RateUpdatedAt() (time.Time, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.rateUpdatedAt, !r.rateUpdatedAt.IsZero()
}

// DefaultPricing returns the fallback pair this resolver uses.
func (r *PricingResolver) DefaultPricing() PricingPair {
	return r.defaults
}

func (r *PricingResolver) cached() *ModelDirectory {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.directory
}

// fetch must be called with fetchMu held.
func (r *PricingResolver) fetch(ctx context.Context) (*ModelDirectory, error) {
	if r.source == nil {
		r.recordFetch(FetchOutcomeError)
		return nil, errors.New("no directory source configured")
	}

	directory, err := r.source.FetchDirectory(ctx)
	if err == nil && directory == nil {
		err = errors.New("empty directory response")
	}
	if err != nil {
		r.recordFetch(FetchOutcomeError)
		return nil, fmt.Errorf("failed to fetch model directory: %w", err)
	}

	r.mu.Lock()
	r.directory = directory
	if directory.ConversionRate != nil && *directory.ConversionRate > 0 {
		r.rate = *directory.ConversionRate
		if directory.RateUpdatedAt != nil {
			r.rateUpdatedAt = *directory.RateUpdatedAt
		}
	}
	r.mu.Unlock()

	r.recordFetch(FetchOutcomeSuccess)
	observability.FromContext(ctx).Info("model directory fetched",
		observability.Int("models", len(directory.Models)),
		observability.Float64("conversion_rate", r.ConversionRate()))

	return directory, nil
}

func (r *PricingResolver) recordFetch(outcome string) {
	if r.metrics != nil {
		r.metrics.RecordDirectoryFetch(outcome)
	}
}

func (r *PricingResolver) recordFallback(reason string) {
	if r.metrics != nil {
		r.metrics.RecordPricingFallback(reason)
	}
}
