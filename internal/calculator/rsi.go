package calculator

import "math"

const rsiWindow = 14

// RSI computes the 14-bar RSI from trailing rolling means of gains and
// losses: RSI = 100 − 100/(1+RS) with RS = avg gain / avg loss. The
// close-to-close delta at index 0 counts as zero change, so values are
// defined from index 13. A zero loss average yields 100 when any gain
// exists in the window and 50 when the window is completely flat.
func RSI(closes []float64) []float64 {
	out := nanSlice(len(closes))
	if len(closes) < rsiWindow {
		return out
	}
	gains := make([]float64, len(closes))
	losses := make([]float64, len(closes))
	for i := 1; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}
	avgGain := RollingMean(gains, rsiWindow)
	avgLoss := RollingMean(losses, rsiWindow)
	for i := rsiWindow - 1; i < len(closes); i++ {
		switch {
		case avgLoss[i] > 0:
			rs := avgGain[i] / avgLoss[i]
			out[i] = 100 - 100/(1+rs)
		case avgGain[i] > 0:
			out[i] = 100 // all gains, zero losses
		default:
			out[i] = 50 // flat window: no gains, no losses
		}
		out[i] = math.Min(100, math.Max(0, out[i]))
	}
	return out
}
