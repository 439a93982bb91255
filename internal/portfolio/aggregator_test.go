package portfolio

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miguelfer1410/stocks-crypto-analizer/internal/model"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func TestBuildSnapshot(t *testing.T) {
	now := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)

	t.Run("priced holding", func(t *testing.T) {
		holdings := []model.Holding{
			{Symbol: "BTC", Kind: model.AssetCrypto, Quantity: 10, Invested: 100},
		}
		quotes := map[string]Quote{"BTC": {Last: 8, Prev: 10}}

		snap := BuildSnapshot(holdings, quotes, "EUR", now)
		require.Len(t, snap.Rows, 1)
		row := snap.Rows[0]

		assert.True(t, row.Priced)
		assert.True(t, row.Value.Equal(dec("80")))
		assert.True(t, row.ProfitEUR.Equal(dec("-20")))
		assert.True(t, row.ReturnPct.Equal(dec("-20")))
		assert.True(t, row.Change24h.Equal(dec("-20")))
	})

	t.Run("missing quote is a full loss, not an omitted row", func(t *testing.T) {
		holdings := []model.Holding{
			{Symbol: "GHOST", Kind: model.AssetCrypto, Quantity: 5, Invested: 40},
		}
		snap := BuildSnapshot(holdings, nil, "EUR", now)
		require.Len(t, snap.Rows, 1)
		row := snap.Rows[0]

		assert.False(t, row.Priced)
		assert.True(t, row.Price.IsZero())
		assert.True(t, row.Value.IsZero())
		assert.True(t, row.ProfitEUR.Equal(dec("-40")))
		assert.True(t, row.ReturnPct.Equal(dec("-100")))
	})

	t.Run("zero price quote treated the same as missing", func(t *testing.T) {
		holdings := []model.Holding{
			{Symbol: "X", Kind: model.AssetStock, Quantity: 1, Invested: 25},
		}
		quotes := map[string]Quote{"X": {Last: 0}}
		snap := BuildSnapshot(holdings, quotes, "EUR", now)
		assert.False(t, snap.Rows[0].Priced)
		assert.True(t, snap.Rows[0].ProfitEUR.Equal(dec("-25")))
	})

	t.Run("zero invested never divides", func(t *testing.T) {
		holdings := []model.Holding{
			{Symbol: "FREE", Kind: model.AssetCrypto, Quantity: 2, Invested: 0},
		}
		quotes := map[string]Quote{"FREE": {Last: 3}}
		snap := BuildSnapshot(holdings, quotes, "EUR", now)
		assert.True(t, snap.Rows[0].ReturnPct.IsZero())
		assert.True(t, snap.Rows[0].ProfitEUR.Equal(dec("6")))
	})

	t.Run("totals come from sums, not per-row averages", func(t *testing.T) {
		holdings := []model.Holding{
			{Symbol: "A", Kind: model.AssetStock, Quantity: 1, Invested: 100},
			{Symbol: "B", Kind: model.AssetStock, Quantity: 1, Invested: 100},
		}
		// A +50%, B -10%; naive average would be +20%
		quotes := map[string]Quote{
			"A": {Last: 150},
			"B": {Last: 90},
		}
		snap := BuildSnapshot(holdings, quotes, "EUR", now)
		assert.True(t, snap.TotalInvested.Equal(dec("200")))
		assert.True(t, snap.TotalValue.Equal(dec("240")))
		assert.True(t, snap.TotalProfit.Equal(dec("40")))
		assert.True(t, snap.TotalReturnPct.Equal(dec("20")))
	})

	t.Run("total invested survives fetch failures", func(t *testing.T) {
		holdings := []model.Holding{
			{Symbol: "OK", Kind: model.AssetCrypto, Quantity: 1, Invested: 30},
			{Symbol: "DOWN", Kind: model.AssetCrypto, Quantity: 1, Invested: 70},
		}
		quotes := map[string]Quote{"OK": {Last: 30}}
		snap := BuildSnapshot(holdings, quotes, "EUR", now)
		assert.True(t, snap.TotalInvested.Equal(dec("100")))
		assert.True(t, snap.TotalValue.Equal(dec("30")))
		assert.True(t, snap.TotalProfit.Equal(dec("-70")))
	})

	t.Run("no prev close leaves change empty", func(t *testing.T) {
		holdings := []model.Holding{
			{Symbol: "ONE", Kind: model.AssetStock, Quantity: 1, Invested: 10},
		}
		quotes := map[string]Quote{"ONE": {Last: 10}}
		snap := BuildSnapshot(holdings, quotes, "EUR", now)
		assert.True(t, snap.Rows[0].Change24h.IsZero())
	})

	t.Run("snapshot metadata", func(t *testing.T) {
		snap := BuildSnapshot([]model.Holding{{Symbol: "A", Kind: model.AssetStock}}, nil, "EUR", now)
		assert.Equal(t, "EUR", snap.Currency)
		assert.Equal(t, now, snap.GeneratedAt)
	})
}

func TestQuotesFromOutcomes(t *testing.T) {
	bars := []model.OHLCV{
		{Close: 100},
		{Close: 110},
	}
	outcomes := map[string]*model.PriceSeries{
		"BTC":   {Symbol: "BTC", Bars: bars},
		"EMPTY": {Symbol: "EMPTY"},
		"NIL":   nil,
	}
	quotes := QuotesFromOutcomes(outcomes)
	require.Len(t, quotes, 1)
	assert.Equal(t, 110.0, quotes["BTC"].Last)
	assert.Equal(t, 100.0, quotes["BTC"].Prev)
}
