package model

import "time"

// ForecastPoint is one forecast row: a predicted value with its 95%
// uncertainty bounds.
type ForecastPoint struct {
	Date  time.Time `json:"date"`
	Yhat  float64   `json:"yhat"`
	Lower float64   `json:"lower"`
	Upper float64   `json:"upper"`
}

// Forecast extends a symbol's history by Horizon daily periods. Points
// cover every historical date plus exactly Horizon future dates.
type Forecast struct {
	Symbol     string          `json:"symbol"`
	Horizon    int             `json:"horizon"`
	HistoryLen int             `json:"history_len"`
	Points     []ForecastPoint `json:"points"`
	FittedAt   time.Time       `json:"fitted_at"`
}
