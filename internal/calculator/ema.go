package calculator

// EMA computes the recursive exponential moving average with smoothing
// factor 2/(span+1), seeded from the first value. This matches the
// unadjusted convention: ema[0] = x[0], ema[i] = α·x[i] + (1−α)·ema[i−1].
// Defined from index 0.
func EMA(values []float64, span int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 || span <= 0 {
		return out
	}
	alpha := 2.0 / float64(span+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}
