package arbitrage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flipfinder/internal/product"
	"flipfinder/internal/sales"
)

func defaultRates() map[string]float64 {
	return map[string]float64{"£": 1.15, "$": 0.85, "€": 1.0}
}

func TestEvaluateExcellentOpportunity(t *testing.T) {
	e := NewEvaluator(defaultRates(), DefaultTiers())

	agg := product.Aggregate{
		Key:                 "iphone 16 128gb",
		RepresentativeTitle: "iPhone 16 128GB",
		AvgPrice:            100,
		MinPrice:            90,
		MaxPrice:            110,
		ListingCount:        2,
		Location:            "Dublin",
		URL:                 "https://site.test/ad/1",
	}
	sold := []sales.Record{
		{Price: 150, CurrencySymbol: "€", SourceDomain: "ie"},
	}

	result := e.Evaluate(agg, sold)

	require.NotNil(t, result.External)
	assert.Equal(t, 150.0, result.External.AvgPrice)
	assert.Equal(t, 1, result.External.SoldCount)
	assert.Equal(t, 50.0, result.ProfitAmount)
	assert.Equal(t, 50.0, result.ProfitPercentage)
	assert.Equal(t, "excellent", result.Tier)
	assert.Equal(t, "iphone 16 128gb", result.ProductKey)
	assert.Equal(t, 100.0, result.SourceAvg)
	assert.Equal(t, 2, result.SourceCount)
	assert.False(t, result.AnalyzedAt.IsZero())
}

func TestEvaluateTierBoundaries(t *testing.T) {
	e := NewEvaluator(defaultRates(), DefaultTiers())
	agg := product.Aggregate{Key: "k", AvgPrice: 100}

	tests := []struct {
		soldPrice float64
		tier      string
	}{
		{150, "excellent"}, // exactly 50%
		{149, "good"},
		{125, "good"}, // exactly 25%
		{124, "moderate"},
		{110, "moderate"}, // exactly 10%
		{109, "low"},
		{90, "low"}, // negative profit is still a scored tier
	}

	for _, tt := range tests {
		result := e.Evaluate(agg, []sales.Record{{Price: tt.soldPrice, CurrencySymbol: "€"}})
		assert.Equal(t, tt.tier, result.Tier, "sold at %.0f", tt.soldPrice)
	}
}

func TestEvaluateCurrencyConversion(t *testing.T) {
	e := NewEvaluator(defaultRates(), DefaultTiers())
	agg := product.Aggregate{Key: "k", AvgPrice: 100}

	sold := []sales.Record{
		{Price: 100, CurrencySymbol: "£"}, // 115.00
		{Price: 100, CurrencySymbol: "$"}, // 85.00
	}

	result := e.Evaluate(agg, sold)
	require.NotNil(t, result.External)
	assert.Equal(t, 100.0, result.External.AvgPrice)
	assert.Equal(t, 85.0, result.External.MinPrice)
	assert.Equal(t, 115.0, result.External.MaxPrice)
}

func TestEvaluateUnknownSymbolConvertsOneToOne(t *testing.T) {
	e := NewEvaluator(defaultRates(), DefaultTiers())
	agg := product.Aggregate{Key: "k", AvgPrice: 100}

	result := e.Evaluate(agg, []sales.Record{{Price: 120, CurrencySymbol: "¥"}})
	require.NotNil(t, result.External)
	assert.Equal(t, 120.0, result.External.AvgPrice)
}

func TestEvaluateNoSoldData(t *testing.T) {
	e := NewEvaluator(defaultRates(), DefaultTiers())

	agg := product.Aggregate{
		Key:      "iphone 13",
		AvgPrice: 300,
		MinPrice: 280,
		MaxPrice: 320,
	}

	result := e.Evaluate(agg, nil)

	assert.Nil(t, result.External)
	assert.Equal(t, "no data", result.Tier)
	assert.Equal(t, 0.0, result.ProfitAmount)
	assert.Equal(t, 0.0, result.ProfitPercentage)
	// Source statistics are still reported.
	assert.Equal(t, 300.0, result.SourceAvg)
	assert.Equal(t, 280.0, result.SourceMin)
	assert.Equal(t, 320.0, result.SourceMax)
}

func TestEvaluateZeroSourceMean(t *testing.T) {
	e := NewEvaluator(defaultRates(), DefaultTiers())
	agg := product.Aggregate{Key: "k", AvgPrice: 0}

	result := e.Evaluate(agg, []sales.Record{{Price: 50, CurrencySymbol: "€"}})

	assert.Equal(t, 50.0, result.ProfitAmount)
	assert.Equal(t, 0.0, result.ProfitPercentage)
	assert.Equal(t, "low", result.Tier)
}
