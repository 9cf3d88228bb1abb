package domain_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/davidbz/tokenmeter/internal/domain"
	"github.com/davidbz/tokenmeter/internal/metrics"
	"github.com/davidbz/tokenmeter/internal/mocks"
)

func ptr[T any](v T) *T {
	return &v
}

func testDirectory() *domain.ModelDirectory {
	return &domain.ModelDirectory{
		Models: []domain.ModelInfo{
			{ID: "claude-3-haiku", Pricing: domain.PricingPair{Input: 0.80, Output: 4.00}, Current: true},
			{ID: "claude-3-opus", Pricing: domain.PricingPair{Input: 15, Output: 75}, Current: true},
		},
		ConversionRate: ptr(0.913),
		RateUpdatedAt:  ptr(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)),
	}
}

func TestPricingResolver_ResolvePricing(t *testing.T) {
	ctx := context.Background()

	t.Run("empty model returns defaults without fetching", func(t *testing.T) {
		source := mocks.NewMockDirectorySource(t)
		resolver := domain.NewPricingResolver(source, domain.ResolverOptions{}, nil)

		pricing := resolver.ResolvePricing(ctx, "")

		require.Equal(t, domain.DefaultPricing(), pricing)
		source.AssertNotCalled(t, "FetchDirectory", mock.Anything)
	})

	t.Run("known model returns its pricing", func(t *testing.T) {
		source := mocks.NewMockDirectorySource(t)
		source.EXPECT().FetchDirectory(mock.Anything).Return(testDirectory(), nil).Once()
		resolver := domain.NewPricingResolver(source, domain.ResolverOptions{}, nil)

		pricing := resolver.ResolvePricing(ctx, "claude-3-haiku")

		require.Equal(t, domain.PricingPair{Input: 0.80, Output: 4.00}, pricing)
	})

	t.Run("unknown model returns defaults", func(t *testing.T) {
		source := mocks.NewMockDirectorySource(t)
		source.EXPECT().FetchDirectory(mock.Anything).Return(testDirectory(), nil).Once()
		resolver := domain.NewPricingResolver(source, domain.ResolverOptions{}, nil)

		pricing := resolver.ResolvePricing(ctx, "gpt-4")

		require.Equal(t, domain.DefaultPricing(), pricing)
	})

	t.Run("fetch failure returns defaults", func(t *testing.T) {
		source := mocks.NewMockDirectorySource(t)
		source.EXPECT().FetchDirectory(mock.Anything).Return(nil, errors.New("connection refused")).Once()
		resolver := domain.NewPricingResolver(source, domain.ResolverOptions{}, nil)

		pricing := resolver.ResolvePricing(ctx, "any-id")

		require.Equal(t, domain.DefaultPricing(), pricing)
		require.InDelta(t, domain.DefaultConversionRate, resolver.ConversionRate(), 1e-12)
	})

	t.Run("nil directory is treated as failure", func(t *testing.T) {
		source := mocks.NewMockDirectorySource(t)
		source.EXPECT().FetchDirectory(mock.Anything).Return(nil, nil).Once()
		resolver := domain.NewPricingResolver(source, domain.ResolverOptions{}, nil)

		require.Equal(t, domain.DefaultPricing(), resolver.ResolvePricing(ctx, "claude-3-haiku"))
	})

	t.Run("configured defaults are used for fallback", func(t *testing.T) {
		defaults := domain.PricingPair{Input: 1, Output: 2}
		resolver := domain.NewPricingResolver(nil, domain.ResolverOptions{DefaultPricing: &defaults}, nil)

		require.Equal(t, defaults, resolver.ResolvePricing(ctx, ""))
		require.Equal(t, defaults, resolver.ResolvePricing(ctx, "claude-3-haiku"))
		require.Equal(t, defaults, resolver.DefaultPricing())
	})

	t.Run("configured zero defaults are kept", func(t *testing.T) {
		free := domain.PricingPair{}
		resolver := domain.NewPricingResolver(nil, domain.ResolverOptions{DefaultPricing: &free}, nil)

		require.Equal(t, free, resolver.ResolvePricing(ctx, ""))
		require.Equal(t, free, resolver.DefaultPricing())
	})

	t.Run("resolve reports whether pricing is listed", func(t *testing.T) {
		source := mocks.NewMockDirectorySource(t)
		source.EXPECT().FetchDirectory(mock.Anything).Return(testDirectory(), nil).Once()
		resolver := domain.NewPricingResolver(source, domain.ResolverOptions{}, nil)

		pricing, listed := resolver.Resolve(ctx, "claude-3-haiku")
		require.True(t, listed)
		require.Equal(t, domain.PricingPair{Input: 0.80, Output: 4.00}, pricing)
		require.InDelta(t, 0.913, resolver.RateFor(listed), 1e-12)

		pricing, listed = resolver.Resolve(ctx, "gpt-unknown")
		require.False(t, listed)
		require.Equal(t, domain.DefaultPricing(), pricing)
		require.InDelta(t, 1.0, resolver.RateFor(listed), 1e-12)
	})

	t.Run("duplicate ids resolve to the first entry", func(t *testing.T) {
		directory := &domain.ModelDirectory{
			Models: []domain.ModelInfo{
				{ID: "dup", Pricing: domain.PricingPair{Input: 1, Output: 1}},
				{ID: "dup", Pricing: domain.PricingPair{Input: 9, Output: 9}},
			},
		}
		source := mocks.NewMockDirectorySource(t)
		source.EXPECT().FetchDirectory(mock.Anything).Return(directory, nil).Once()
		resolver := domain.NewPricingResolver(source, domain.ResolverOptions{}, nil)

		require.Equal(t, domain.PricingPair{Input: 1, Output: 1}, resolver.ResolvePricing(ctx, "dup"))
	})
}

func TestPricingResolver_Caching(t *testing.T) {
	ctx := context.Background()

	t.Run("sequential resolves fetch once", func(t *testing.T) {
		source := mocks.NewMockDirectorySource(t)
		source.EXPECT().FetchDirectory(mock.Anything).Return(testDirectory(), nil).Once()
		resolver := domain.NewPricingResolver(source, domain.ResolverOptions{}, nil)

		first := resolver.ResolvePricing(ctx, "claude-3-haiku")
		second := resolver.ResolvePricing(ctx, "claude-3-opus")

		require.Equal(t, domain.PricingPair{Input: 0.80, Output: 4.00}, first)
		require.Equal(t, domain.PricingPair{Input: 15, Output: 75}, second)
		source.AssertNumberOfCalls(t, "FetchDirectory", 1)
	})

	t.Run("concurrent first resolves fetch once", func(t *testing.T) {
		source := mocks.NewMockDirectorySource(t)
		source.EXPECT().FetchDirectory(mock.Anything).
			RunAndReturn(func(context.Context) (*domain.ModelDirectory, error) {
				time.Sleep(20 * time.Millisecond)
				return testDirectory(), nil
			}).Once()
		resolver := domain.NewPricingResolver(source, domain.ResolverOptions{}, nil)

		var wg sync.WaitGroup
		results := make([]domain.PricingPair, 8)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i] = resolver.ResolvePricing(ctx, "claude-3-haiku")
			}(i)
		}
		wg.Wait()

		for _, pricing := range results {
			require.Equal(t, domain.PricingPair{Input: 0.80, Output: 4.00}, pricing)
		}
		source.AssertNumberOfCalls(t, "FetchDirectory", 1)
	})

	t.Run("failed fetch is retried on next call", func(t *testing.T) {
		source := mocks.NewMockDirectorySource(t)
		source.EXPECT().FetchDirectory(mock.Anything).Return(nil, errors.New("timeout")).Once()
		source.EXPECT().FetchDirectory(mock.Anything).Return(testDirectory(), nil).Once()
		resolver := domain.NewPricingResolver(source, domain.ResolverOptions{}, nil)

		require.Equal(t, domain.DefaultPricing(), resolver.ResolvePricing(ctx, "claude-3-haiku"))
		require.Equal(t, domain.PricingPair{Input: 0.80, Output: 4.00}, resolver.ResolvePricing(ctx, "claude-3-haiku"))
		require.Equal(t, domain.PricingPair{Input: 0.80, Output: 4.00}, resolver.ResolvePricing(ctx, "claude-3-haiku"))
	})

	t.Run("directory returns the cached value", func(t *testing.T) {
		source := mocks.NewMockDirectorySource(t)
		source.EXPECT().FetchDirectory(mock.Anything).Return(testDirectory(), nil).Once()
		resolver := domain.NewPricingResolver(source, domain.ResolverOptions{}, nil)

		first, err := resolver.Directory(ctx)
		require.NoError(t, err)

		second, err := resolver.Directory(ctx)
		require.NoError(t, err)
		require.Same(t, first, second)
	})

	t.Run("directory surfaces fetch errors", func(t *testing.T) {
		source := mocks.NewMockDirectorySource(t)
		source.EXPECT().FetchDirectory(mock.Anything).Return(nil, errors.New("boom")).Once()
		resolver := domain.NewPricingResolver(source, domain.ResolverOptions{}, nil)

		directory, err := resolver.Directory(ctx)

		require.Error(t, err)
		require.Contains(t, err.Error(), "boom")
		require.Nil(t, directory)
	})
}

func TestPricingResolver_Refresh(t *testing.T) {
	ctx := context.Background()

	t.Run("refresh replaces the cached directory", func(t *testing.T) {
		updated := &domain.ModelDirectory{
			Models: []domain.ModelInfo{
				{ID: "claude-3-haiku", Pricing: domain.PricingPair{Input: 1, Output: 5}},
			},
		}
		source := mocks.NewMockDirectorySource(t)
		source.EXPECT().FetchDirectory(mock.Anything).Return(testDirectory(), nil).Once()
		source.EXPECT().FetchDirectory(mock.Anything).Return(updated, nil).Once()
		resolver := domain.NewPricingResolver(source, domain.ResolverOptions{}, nil)

		require.Equal(t, domain.PricingPair{Input: 0.80, Output: 4.00}, resolver.ResolvePricing(ctx, "claude-3-haiku"))
		require.NoError(t, resolver.Refresh(ctx))
		require.Equal(t, domain.PricingPair{Input: 1, Output: 5}, resolver.ResolvePricing(ctx, "claude-3-haiku"))

		// rate absent from the refreshed payload stays untouched
		require.InDelta(t, 0.913, resolver.ConversionRate(), 1e-12)
	})

	t.Run("failed refresh keeps the previous directory", func(t *testing.T) {
		source := mocks.NewMockDirectorySource(t)
		source.EXPECT().FetchDirectory(mock.Anything).Return(testDirectory(), nil).Once()
		source.EXPECT().FetchDirectory(mock.Anything).Return(nil, errors.New("down")).Once()
		resolver := domain.NewPricingResolver(source, domain.ResolverOptions{}, nil)

		require.Equal(t, domain.PricingPair{Input: 15, Output: 75}, resolver.ResolvePricing(ctx, "claude-3-opus"))
		require.Error(t, resolver.Refresh(ctx))
		require.Equal(t, domain.PricingPair{Input: 15, Output: 75}, resolver.ResolvePricing(ctx, "claude-3-opus"))
	})
}

func TestPricingResolver_ConversionRate(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults before any fetch", func(t *testing.T) {
		resolver := domain.NewPricingResolver(nil, domain.ResolverOptions{}, nil)

		require.InDelta(t, domain.DefaultConversionRate, resolver.ConversionRate(), 1e-12)
		_, known := resolver.RateUpdatedAt()
		require.False(t, known)
	})

	t.Run("configured default rate", func(t *testing.T) {
		resolver := domain.NewPricingResolver(nil, domain.ResolverOptions{DefaultConversionRate: 0.85}, nil)

		require.InDelta(t, 0.85, resolver.ConversionRate(), 1e-12)
	})

	t.Run("successful fetch stores the reported rate", func(t *testing.T) {
		source := mocks.NewMockDirectorySource(t)
		source.EXPECT().FetchDirectory(mock.Anything).Return(testDirectory(), nil).Once()
		resolver := domain.NewPricingResolver(source, domain.ResolverOptions{}, nil)

		resolver.ResolvePricing(ctx, "claude-3-haiku")

		require.InDelta(t, 0.913, resolver.ConversionRate(), 1e-12)
		updatedAt, known := resolver.RateUpdatedAt()
		require.True(t, known)
		require.Equal(t, 2025, updatedAt.Year())
	})

	t.Run("missing rate leaves the default", func(t *testing.T) {
		directory := testDirectory()
		directory.ConversionRate = nil
		source := mocks.NewMockDirectorySource(t)
		source.EXPECT().FetchDirectory(mock.Anything).Return(directory, nil).Once()
		resolver := domain.NewPricingResolver(source, domain.ResolverOptions{DefaultConversionRate: 0.9}, nil)

		resolver.ResolvePricing(ctx, "claude-3-haiku")

		require.InDelta(t, 0.9, resolver.ConversionRate(), 1e-12)
	})
}

func TestPricingResolver_RecordsMetrics(t *testing.T) {
	ctx := context.Background()
	collector := metrics.NewCollector(&metrics.Config{Enabled: true, Namespace: "resolver"})

	source := mocks.NewMockDirectorySource(t)
	source.EXPECT().FetchDirectory(mock.Anything).Return(nil, errors.New("down")).Once()
	source.EXPECT().FetchDirectory(mock.Anything).Return(testDirectory(), nil).Once()
	resolver := domain.NewPricingResolver(source, domain.ResolverOptions{}, collector)

	resolver.ResolvePricing(ctx, "")
	resolver.ResolvePricing(ctx, "claude-3-haiku")
	resolver.ResolvePricing(ctx, "claude-3-haiku")
	resolver.ResolvePricing(ctx, "unknown")

	families, err := collector.Registry().Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, family := range families {
		for _, m := range family.GetMetric() {
			values[family.GetName()+"/"+m.GetLabel()[0].GetValue()] = m.GetCounter().GetValue()
		}
	}

	require.InDelta(t, 1, values["resolver_directory_fetches_total/error"], 1e-9)
	require.InDelta(t, 1, values["resolver_directory_fetches_total/success"], 1e-9)
	require.InDelta(t, 1, values["resolver_pricing_fallbacks_total/no_model"], 1e-9)
	require.InDelta(t, 1, values["resolver_pricing_fallbacks_total/unavailable"], 1e-9)
	require.InDelta(t, 1, values["resolver_pricing_fallbacks_total/unknown_model"], 1e-9)
}
