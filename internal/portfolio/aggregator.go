// Package portfolio derives the valuation snapshot of the configured
// holdings from the latest known prices.
package portfolio

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/miguelfer1410/stocks-crypto-analizer/internal/model"
)

// Quote is the latest known display-currency price for one symbol.
// Prev is the close before Last, for the 24h change column; zero when
// fewer than two bars were available.
type Quote struct {
	Last float64
	Prev float64
}

var hundred = decimal.NewFromInt(100)

// BuildSnapshot aggregates holdings and quotes into a snapshot.
//
// A holding whose symbol has no usable quote is zero-filled as a full
// loss: price and value 0, profit −invested, return −100%. This is the
// one consistent degradation policy; rows are never silently omitted, so
// total invested is independent of fetch success. Total return is always
// derived from the summed totals, never averaged per row.
func BuildSnapshot(holdings []model.Holding, quotes map[string]Quote, currency string, now time.Time) *model.PortfolioSnapshot {
	snap := &model.PortfolioSnapshot{
		Rows:        make([]model.HoldingValuation, 0, len(holdings)),
		Currency:    currency,
		GeneratedAt: now,
	}

	for _, h := range holdings {
		invested := decimal.NewFromFloat(h.Invested)
		row := model.HoldingValuation{
			Symbol:   h.Symbol,
			Label:    h.Label,
			Quantity: h.Quantity,
			Invested: invested,
		}

		q, ok := quotes[h.Symbol]
		if !ok || q.Last <= 0 {
			row.Price = decimal.Zero
			row.Value = decimal.Zero
			row.ProfitEUR = invested.Neg()
			if invested.IsPositive() {
				row.ReturnPct = hundred.Neg()
			}
		} else {
			row.Priced = true
			row.Price = decimal.NewFromFloat(q.Last)
			row.Value = row.Price.Mul(decimal.NewFromFloat(h.Quantity))
			row.ProfitEUR = row.Value.Sub(invested)
			if invested.IsPositive() {
				row.ReturnPct = row.ProfitEUR.Div(invested).Mul(hundred).Round(2)
			}
			if q.Prev > 0 {
				prev := decimal.NewFromFloat(q.Prev)
				row.Change24h = row.Price.Sub(prev).Div(prev).Mul(hundred).Round(2)
			}
		}

		snap.TotalInvested = snap.TotalInvested.Add(row.Invested)
		snap.TotalValue = snap.TotalValue.Add(row.Value)
		snap.Rows = append(snap.Rows, row)
	}

	snap.TotalProfit = snap.TotalValue.Sub(snap.TotalInvested)
	if snap.TotalInvested.IsPositive() {
		snap.TotalReturnPct = snap.TotalProfit.Div(snap.TotalInvested).Mul(hundred).Round(2)
	}
	return snap
}

// QuotesFromOutcomes extracts last/previous closes from fetch outcomes.
// Empty and failed outcomes contribute no quote, which the aggregation
// turns into the zero-filled full-loss row.
func QuotesFromOutcomes(outcomes map[string]*model.PriceSeries) map[string]Quote {
	quotes := make(map[string]Quote, len(outcomes))
	for symbol, series := range outcomes {
		if series.Empty() {
			continue
		}
		quotes[symbol] = Quote{Last: series.LastClose(), Prev: series.PrevClose()}
	}
	return quotes
}
