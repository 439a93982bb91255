package calculator

import "math"

// RollingMean computes the trailing arithmetic mean over the given
// window. Indices before the window fills are NaN; there is no
// back-filling.
func RollingMean(values []float64, window int) []float64 {
	out := nanSlice(len(values))
	if window <= 0 || len(values) < window {
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		if i >= window-1 {
			out[i] = sum / float64(window)
		}
	}
	return out
}

// RollingStd computes the trailing sample standard deviation (n−1
// divisor) over the given window, NaN before the window fills.
func RollingStd(values []float64, window int) []float64 {
	out := nanSlice(len(values))
	if window <= 1 || len(values) < window {
		return out
	}
	for i := window - 1; i < len(values); i++ {
		win := values[i-window+1 : i+1]
		var sum float64
		for _, v := range win {
			sum += v
		}
		mean := sum / float64(window)
		var sq float64
		for _, v := range win {
			d := v - mean
			sq += d * d
		}
		out[i] = math.Sqrt(sq / float64(window-1))
	}
	return out
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
