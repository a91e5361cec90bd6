package valuation

import (
	"testing"

	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	investments := []domain.Investment{
		{ID: "i1", Symbol: "AAPL", Shares: d("10"), AvgCost: d("100"), CurrentPrice: d("150"), AssetClass: domain.AssetStock},
		{ID: "i2", Symbol: "BTC", Shares: d("0.5"), AvgCost: d("1000"), CurrentPrice: d("1000"), AssetClass: domain.AssetCrypto},
		{ID: "i3", Symbol: "MSFT", Shares: d("1"), AvgCost: d("100"), CurrentPrice: d("0"), AssetClass: domain.AssetStock},
	}

	s, err := Summarize(investments)
	require.NoError(t, err)

	assert.True(t, s.TotalValue.Equal(d("2000")), "value %s", s.TotalValue)
	assert.True(t, s.TotalCost.Equal(d("1600")), "cost %s", s.TotalCost)
	assert.True(t, s.TotalGain.Equal(d("400")))
	assert.True(t, s.GainPercent.Equal(d("25")))

	require.Len(t, s.Holdings, 3)
	assert.Equal(t, "AAPL", s.Holdings[0].Symbol)
	assert.True(t, s.Holdings[0].AllocationPct.Equal(d("75")))
	assert.True(t, s.Holdings[0].GainPercent.Equal(d("50")))
	assert.True(t, s.Holdings[2].Gain.Equal(d("-100")))

	require.Len(t, s.ByAssetClass, 2)
	assert.Equal(t, domain.AssetStock, s.ByAssetClass[0].AssetClass)
	assert.True(t, s.ByAssetClass[0].Value.Equal(d("1500")))
	assert.True(t, s.ByAssetClass[1].AllocationPct.Equal(d("25")))
}

func TestSummarize_Empty(t *testing.T) {
	s, err := Summarize(nil)
	require.NoError(t, err)

	assert.True(t, s.TotalValue.IsZero())
	assert.True(t, s.GainPercent.IsZero())
	assert.NotNil(t, s.Holdings)
	assert.Empty(t, s.ByAssetClass)
}

func TestSummarize_ZeroValuePortfolio(t *testing.T) {
	s, err := Summarize([]domain.Investment{
		{ID: "i1", Symbol: "GLD", Shares: d("0"), AvgCost: d("10"), CurrentPrice: d("12"), AssetClass: domain.AssetGold},
	})
	require.NoError(t, err)

	assert.True(t, s.Holdings[0].AllocationPct.IsZero())
	assert.True(t, s.GainPercent.IsZero())
}

func TestSummarize_InvalidHolding(t *testing.T) {
	_, err := Summarize([]domain.Investment{{ID: "i1", Symbol: "X", Shares: d("1"), AssetClass: domain.AssetMutualFund}})
	assert.Error(t, err)
}
