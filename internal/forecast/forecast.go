// Package forecast fits a seasonal trend model to a symbol's daily close
// history and extends it by a fixed horizon with a 95% uncertainty band.
package forecast

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/miguelfer1410/stocks-crypto-analizer/internal/model"
)

const (
	// MinObservations is the minimum number of valid, de-duplicated daily
	// closes required before a fit is attempted.
	MinObservations = 30

	// DefaultHorizon is the number of future daily periods predicted.
	DefaultHorizon = 30

	zScore95 = 1.96
)

// Seasonal components: weekly and yearly seasonality plus a custom
// ~monthly term, matching a conservative additive decomposition. Daily
// seasonality is deliberately absent. A block only enters the design
// matrix when the history spans it meaningfully.
type seasonality struct {
	period  float64 // days
	order   int     // harmonic order
	minSpan float64 // days of history required to include the block
}

var seasonalities = []seasonality{
	{period: 7, order: 3, minSpan: 14},
	{period: 30.5, order: 5, minSpan: 61},
	{period: 365.25, order: 10, minSpan: 365},
}

// Fit fits the model to the symbol's close history and predicts one row
// per historical day plus exactly horizon future days. It returns nil
// (no forecast, not an error) when fewer than MinObservations usable
// observations remain after de-duplication and null filtering.
func Fit(symbol string, history []model.OHLCV, horizon int) *model.Forecast {
	if horizon <= 0 {
		horizon = DefaultHorizon
	}
	dates, closes := cleanDaily(history)
	n := len(closes)
	if n < MinObservations {
		return nil
	}

	origin := dates[0]
	days := make([]float64, n)
	for i, d := range dates {
		days[i] = d.Sub(origin).Hours() / 24
	}
	span := days[n-1]

	blocks := activeBlocks(span)
	cols := 2 + fourierCols(blocks)

	// Trend-only fallback when the seasonal basis would be wider than the
	// data allows.
	if cols >= n {
		blocks = nil
		cols = 2
	}

	a := mat.NewDense(n, cols, nil)
	b := mat.NewVecDense(n, closes)
	for i := 0; i < n; i++ {
		a.SetRow(i, designRow(days[i], span, blocks, cols))
	}

	var qr mat.QR
	qr.Factorize(a)
	coef := mat.NewVecDense(cols, nil)
	if err := qr.SolveVecTo(coef, false, b); err != nil {
		return nil // degenerate input, treat as no forecast
	}

	// Residual spread for the uncertainty band.
	var ssr float64
	for i := 0; i < n; i++ {
		r := closes[i] - dot(designRow(days[i], span, blocks, cols), coef)
		ssr += r * r
	}
	dof := n - cols
	if dof < 1 {
		dof = 1
	}
	sigma := math.Sqrt(ssr / float64(dof))

	points := make([]model.ForecastPoint, 0, n+horizon)
	for i := 0; i < n; i++ {
		yhat := dot(designRow(days[i], span, blocks, cols), coef)
		w := zScore95 * sigma
		points = append(points, model.ForecastPoint{
			Date: dates[i], Yhat: yhat, Lower: yhat - w, Upper: yhat + w,
		})
	}
	last := dates[n-1]
	for h := 1; h <= horizon; h++ {
		d := last.AddDate(0, 0, h)
		t := d.Sub(origin).Hours() / 24
		yhat := dot(designRow(t, span, blocks, cols), coef)
		// the band widens with distance from the fitted history
		w := zScore95 * sigma * math.Sqrt(1+float64(h)/float64(n))
		points = append(points, model.ForecastPoint{
			Date: d, Yhat: yhat, Lower: yhat - w, Upper: yhat + w,
		})
	}

	return &model.Forecast{
		Symbol:     symbol,
		Horizon:    horizon,
		HistoryLen: n,
		Points:     points,
		FittedAt:   time.Now(),
	}
}

// cleanDaily reduces bars to one observation per UTC day (last wins),
// drops non-positive and NaN closes, and returns dates and closes sorted
// ascending.
func cleanDaily(history []model.OHLCV) ([]time.Time, []float64) {
	byDay := make(map[string]model.OHLCV, len(history))
	for _, bar := range history {
		if math.IsNaN(bar.Close) || bar.Close <= 0 {
			continue
		}
		byDay[bar.Time.UTC().Format("2006-01-02")] = bar
	}
	keys := make([]string, 0, len(byDay))
	for k := range byDay {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	dates := make([]time.Time, len(keys))
	closes := make([]float64, len(keys))
	for i, k := range keys {
		d, _ := time.ParseInLocation("2006-01-02", k, time.UTC)
		dates[i] = d
		closes[i] = byDay[k].Close
	}
	return dates, closes
}

func activeBlocks(span float64) []seasonality {
	var blocks []seasonality
	for _, s := range seasonalities {
		if span >= s.minSpan {
			blocks = append(blocks, s)
		}
	}
	return blocks
}

func fourierCols(blocks []seasonality) int {
	total := 0
	for _, s := range blocks {
		total += 2 * s.order
	}
	return total
}

// designRow builds one row of the design matrix: intercept, normalized
// linear trend (conservative: no changepoints), then paired sin/cos
// harmonics for each active seasonal block.
func designRow(day, span float64, blocks []seasonality, cols int) []float64 {
	row := make([]float64, 0, cols)
	row = append(row, 1, day/math.Max(span, 1))
	for _, s := range blocks {
		for k := 1; k <= s.order; k++ {
			arg := 2 * math.Pi * float64(k) * day / s.period
			row = append(row, math.Sin(arg), math.Cos(arg))
		}
	}
	return row
}

func dot(row []float64, coef *mat.VecDense) float64 {
	var sum float64
	for i, v := range row {
		sum += v * coef.AtVec(i)
	}
	return sum
}

// Validate is a debugging helper that checks band ordering; a violated
// band indicates a broken sigma computation.
func Validate(f *model.Forecast) error {
	for i, p := range f.Points {
		if p.Lower > p.Yhat || p.Yhat > p.Upper {
			return fmt.Errorf("row %d: bounds out of order", i)
		}
	}
	return nil
}
