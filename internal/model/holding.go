package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetKind selects the provider symbol convention and native currency.
type AssetKind string

const (
	AssetCrypto AssetKind = "crypto"
	AssetStock  AssetKind = "stock"
)

// Holding is one user-configured position. Loaded once at startup,
// read-only afterwards.
type Holding struct {
	Symbol   string    `yaml:"symbol" json:"symbol"`
	Label    string    `yaml:"label" json:"label"`
	Kind     AssetKind `yaml:"kind" json:"kind"`
	Quantity float64   `yaml:"quantity" json:"quantity"`
	Invested float64   `yaml:"invested" json:"invested"` // in display currency
}

// AvgCost returns the average purchase price, or 0 for a zero quantity.
func (h Holding) AvgCost() float64 {
	if h.Quantity == 0 {
		return 0
	}
	return h.Invested / h.Quantity
}

// HoldingValuation is one priced row of a portfolio snapshot. Monetary
// fields are decimals in the display currency.
type HoldingValuation struct {
	Symbol    string          `json:"symbol"`
	Label     string          `json:"label"`
	Quantity  float64         `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Value     decimal.Decimal `json:"value"`
	Invested  decimal.Decimal `json:"invested"`
	ProfitEUR decimal.Decimal `json:"profit"`
	ReturnPct decimal.Decimal `json:"return_pct"`
	Change24h decimal.Decimal `json:"change_24h"`
	Priced    bool            `json:"priced"` // false when the fetch failed and the row is a zero-filled full loss
}

// PortfolioSnapshot is the fully derived valuation of all holdings at one
// refresh. It is disposable: rebuilt from scratch on every refresh, never
// mutated.
type PortfolioSnapshot struct {
	Rows           []HoldingValuation `json:"rows"`
	TotalInvested  decimal.Decimal    `json:"total_invested"`
	TotalValue     decimal.Decimal    `json:"total_value"`
	TotalProfit    decimal.Decimal    `json:"total_profit"`
	TotalReturnPct decimal.Decimal    `json:"total_return_pct"`
	Currency       string             `json:"currency"`
	GeneratedAt    time.Time          `json:"generated_at"`
}
