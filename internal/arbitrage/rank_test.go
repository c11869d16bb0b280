package arbitrage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankDescendingByProfitPercentage(t *testing.T) {
	results := []Result{
		{ProductKey: "a", ProfitPercentage: 12, External: &ExternalStats{SoldCount: 1}},
		{ProductKey: "b", ProfitPercentage: 55, External: &ExternalStats{SoldCount: 1}},
		{ProductKey: "c", ProfitPercentage: 30, External: &ExternalStats{SoldCount: 1}},
	}

	ranked := Rank(results)
	require.Len(t, ranked, 3)
	assert.Equal(t, "b", ranked[0].ProductKey)
	assert.Equal(t, "c", ranked[1].ProductKey)
	assert.Equal(t, "a", ranked[2].ProductKey)
}

func TestRankNoDataAlwaysLast(t *testing.T) {
	results := []Result{
		{ProductKey: "nodata", Tier: "no data"},
		// A negative scored result still ranks above any no-data result.
		{ProductKey: "loss", ProfitPercentage: -40, External: &ExternalStats{SoldCount: 2}},
	}

	ranked := Rank(results)
	require.Len(t, ranked, 2)
	assert.Equal(t, "loss", ranked[0].ProductKey)
	assert.Equal(t, "nodata", ranked[1].ProductKey)
}

func TestRankTiesKeepDiscoveryOrder(t *testing.T) {
	results := []Result{
		{ProductKey: "first", ProfitPercentage: 20, External: &ExternalStats{SoldCount: 1}},
		{ProductKey: "second", ProfitPercentage: 20, External: &ExternalStats{SoldCount: 1}},
		{ProductKey: "n1", Tier: "no data"},
		{ProductKey: "n2", Tier: "no data"},
	}

	ranked := Rank(results)
	require.Len(t, ranked, 4)
	assert.Equal(t, "first", ranked[0].ProductKey)
	assert.Equal(t, "second", ranked[1].ProductKey)
	assert.Equal(t, "n1", ranked[2].ProductKey)
	assert.Equal(t, "n2", ranked[3].ProductKey)
}

func TestRankDoesNotMutateInput(t *testing.T) {
	results := []Result{
		{ProductKey: "a", ProfitPercentage: 10, External: &ExternalStats{}},
		{ProductKey: "b", ProfitPercentage: 90, External: &ExternalStats{}},
	}

	_ = Rank(results)
	assert.Equal(t, "a", results[0].ProductKey)
}
