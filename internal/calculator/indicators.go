// Package calculator derives the technical indicator columns of a price
// series. All functions are pure and causal: the value at index i
// depends only on bars at or before i.
package calculator

import (
	"github.com/miguelfer1410/stocks-crypto-analizer/internal/model"
)

// Window sizes, fixed.
const (
	maWindow       = 20
	bollingerDevs  = 2.0
	volumeMAWindow = 20
)

// Compute derives the full indicator set from a price series. A nil or
// empty series yields an empty set.
func Compute(s *model.PriceSeries) *model.IndicatorSet {
	if s.Empty() {
		return &model.IndicatorSet{}
	}
	closes := s.Closes()
	volumes := s.Volumes()

	set := &model.IndicatorSet{}
	set.MA20 = RollingMean(closes, maWindow)
	std := RollingStd(closes, maWindow)
	set.BBUpper = make([]float64, len(closes))
	set.BBLower = make([]float64, len(closes))
	for i := range closes {
		set.BBUpper[i] = set.MA20[i] + bollingerDevs*std[i]
		set.BBLower[i] = set.MA20[i] - bollingerDevs*std[i]
	}
	set.MACD, set.Signal, set.Histogram = MACD(closes)
	set.RSI = RSI(closes)
	set.VolumeMA20 = RollingMean(volumes, volumeMAWindow)
	return set
}
