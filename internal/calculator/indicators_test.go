package calculator

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miguelfer1410/stocks-crypto-analizer/internal/model"
)

func seriesFromCloses(closes []float64) *model.PriceSeries {
	bars := make([]model.OHLCV, len(closes))
	t := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = model.OHLCV{
			Time: t.AddDate(0, 0, i),
			Open: c, High: c, Low: c, Close: c,
			Volume: 1000,
		}
	}
	return &model.PriceSeries{Symbol: "TEST", Currency: "EUR", Bars: bars}
}

func ramp(n int, start float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)
	}
	return out
}

func TestRollingMean(t *testing.T) {
	t.Run("NaN before window fills", func(t *testing.T) {
		out := RollingMean(ramp(25, 100), 20)
		for i := 0; i < 19; i++ {
			assert.True(t, math.IsNaN(out[i]), "index %d should be NaN", i)
		}
		assert.False(t, math.IsNaN(out[19]))
	})

	t.Run("trailing mean values", func(t *testing.T) {
		out := RollingMean(ramp(25, 100), 20)
		// mean of 100..119
		assert.InDelta(t, 109.5, out[19], 1e-9)
		// mean of 105..124
		assert.InDelta(t, 114.5, out[24], 1e-9)
	})

	t.Run("input shorter than window is all NaN", func(t *testing.T) {
		out := RollingMean(ramp(10, 0), 20)
		require.Len(t, out, 10)
		for _, v := range out {
			assert.True(t, math.IsNaN(v))
		}
	})
}

func TestRollingStd(t *testing.T) {
	t.Run("constant series has zero deviation", func(t *testing.T) {
		values := make([]float64, 25)
		for i := range values {
			values[i] = 42
		}
		out := RollingStd(values, 20)
		for i := 19; i < len(out); i++ {
			assert.InDelta(t, 0, out[i], 1e-12)
		}
	})

	t.Run("sample divisor", func(t *testing.T) {
		out := RollingStd([]float64{1, 2, 3, 4}, 3)
		assert.True(t, math.IsNaN(out[0]))
		assert.True(t, math.IsNaN(out[1]))
		// std of {1,2,3} and {2,3,4} with n-1 divisor
		assert.InDelta(t, 1.0, out[2], 1e-9)
		assert.InDelta(t, 1.0, out[3], 1e-9)
	})
}

func TestEMA(t *testing.T) {
	t.Run("seeded from first value", func(t *testing.T) {
		out := EMA([]float64{10, 20}, 3) // alpha = 0.5
		assert.InDelta(t, 10, out[0], 1e-9)
		assert.InDelta(t, 15, out[1], 1e-9)
	})

	t.Run("constant input stays constant", func(t *testing.T) {
		values := []float64{7, 7, 7, 7, 7}
		for _, v := range EMA(values, 12) {
			assert.InDelta(t, 7, v, 1e-12)
		}
	})
}

func TestMACD(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	closes := make([]float64, 60)
	price := 100.0
	for i := range closes {
		price *= 1 + (rng.Float64()-0.5)*0.02
		closes[i] = price
	}

	line, signal, histogram := MACD(closes)
	require.Len(t, line, 60)

	t.Run("histogram is line minus signal", func(t *testing.T) {
		for i := range closes {
			assert.InDelta(t, line[i]-signal[i], histogram[i], 1e-9)
		}
	})

	t.Run("first value is zero", func(t *testing.T) {
		// both EMAs seed from closes[0]
		assert.InDelta(t, 0, line[0], 1e-12)
	})
}

func TestRSI(t *testing.T) {
	t.Run("NaN until index 13", func(t *testing.T) {
		out := RSI(ramp(20, 100))
		for i := 0; i < 13; i++ {
			assert.True(t, math.IsNaN(out[i]), "index %d should be NaN", i)
		}
		assert.False(t, math.IsNaN(out[13]))
	})

	t.Run("all gains saturate at 100", func(t *testing.T) {
		out := RSI(ramp(20, 100))
		for i := 13; i < len(out); i++ {
			assert.InDelta(t, 100, out[i], 1e-9)
		}
	})

	t.Run("flat series reads 50", func(t *testing.T) {
		values := make([]float64, 20)
		for i := range values {
			values[i] = 100
		}
		out := RSI(values)
		for i := 13; i < len(out); i++ {
			assert.InDelta(t, 50, out[i], 1e-9)
		}
	})

	t.Run("all losses approach 0", func(t *testing.T) {
		values := make([]float64, 20)
		for i := range values {
			values[i] = 100 - float64(i)
		}
		out := RSI(values)
		for i := 13; i < len(out); i++ {
			assert.InDelta(t, 0, out[i], 1e-9)
		}
	})

	t.Run("bounded on a random walk", func(t *testing.T) {
		rng := rand.New(rand.NewSource(7))
		values := make([]float64, 200)
		price := 100.0
		for i := range values {
			price *= 1 + (rng.Float64()-0.5)*0.04
			values[i] = price
		}
		out := RSI(values)
		for i := 13; i < len(out); i++ {
			assert.GreaterOrEqual(t, out[i], 0.0)
			assert.LessOrEqual(t, out[i], 100.0)
		}
	})
}

func TestCompute(t *testing.T) {
	t.Run("empty series yields empty set", func(t *testing.T) {
		set := Compute(&model.PriceSeries{})
		assert.True(t, set.Empty())
	})

	t.Run("band ordering where defined", func(t *testing.T) {
		rng := rand.New(rand.NewSource(3))
		closes := make([]float64, 120)
		price := 50.0
		for i := range closes {
			price *= 1 + (rng.Float64()-0.5)*0.03
			closes[i] = price
		}
		set := Compute(seriesFromCloses(closes))
		for i := range closes {
			if !model.Defined(set.MA20[i]) {
				assert.False(t, model.Defined(set.BBUpper[i]))
				assert.False(t, model.Defined(set.BBLower[i]))
				continue
			}
			assert.GreaterOrEqual(t, set.BBUpper[i], set.MA20[i], "index %d", i)
			assert.LessOrEqual(t, set.BBLower[i], set.MA20[i], "index %d", i)
		}
	})

	t.Run("definedness thresholds", func(t *testing.T) {
		set := Compute(seriesFromCloses(ramp(40, 100)))
		assert.False(t, model.Defined(set.MA20[18]))
		assert.True(t, model.Defined(set.MA20[19]))
		assert.False(t, model.Defined(set.RSI[12]))
		assert.True(t, model.Defined(set.RSI[13]))
		assert.False(t, model.Defined(set.VolumeMA20[18]))
		assert.True(t, model.Defined(set.VolumeMA20[19]))
		// MACD columns are defined everywhere
		for i := range set.MACD {
			assert.True(t, model.Defined(set.MACD[i]))
		}
	})
}
