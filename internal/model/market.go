package model

import "time"

// OHLCV represents a single candlestick bar.
type OHLCV struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries holds the fetched bars for one symbol, ordered by timestamp
// ascending with unique timestamps. A series is immutable once fetched; a
// new fetch replaces it wholesale.
type PriceSeries struct {
	Symbol    string
	Currency  string // currency the prices are denominated in
	Bars      []OHLCV
	FetchedAt time.Time
}

// Len returns the number of bars.
func (s *PriceSeries) Len() int { return len(s.Bars) }

// Empty reports whether the series has no bars.
func (s *PriceSeries) Empty() bool { return s == nil || len(s.Bars) == 0 }

// LastClose returns the most recent close, or 0 if the series is empty.
func (s *PriceSeries) LastClose() float64 {
	if s.Empty() {
		return 0
	}
	return s.Bars[len(s.Bars)-1].Close
}

// PrevClose returns the close before the most recent one, or 0 if the
// series has fewer than two bars.
func (s *PriceSeries) PrevClose() float64 {
	if s == nil || len(s.Bars) < 2 {
		return 0
	}
	return s.Bars[len(s.Bars)-2].Close
}

// Closes extracts the close column.
func (s *PriceSeries) Closes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Close
	}
	return out
}

// Volumes extracts the volume column.
func (s *PriceSeries) Volumes() []float64 {
	out := make([]float64, len(s.Bars))
	for i, b := range s.Bars {
		out[i] = b.Volume
	}
	return out
}
