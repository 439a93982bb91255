package model

import "math"

// IndicatorSet holds the derived indicator columns for one price series.
// Columns are parallel to the series' bars; values before the rolling
// window fills are NaN. Every value at index i depends only on bars at or
// before i.
type IndicatorSet struct {
	MA20       []float64
	BBUpper    []float64
	BBLower    []float64
	MACD       []float64
	Signal     []float64
	Histogram  []float64
	RSI        []float64
	VolumeMA20 []float64
}

// Empty reports whether the set has no columns (zero-bar input).
func (s *IndicatorSet) Empty() bool { return s == nil || len(s.MA20) == 0 }

// Defined reports whether v is a computed value rather than a
// not-yet-defined NaN slot.
func Defined(v float64) bool { return !math.IsNaN(v) }
