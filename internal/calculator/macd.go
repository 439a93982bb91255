package calculator

// MACD spans, fixed.
const (
	macdFastSpan   = 12
	macdSlowSpan   = 26
	macdSignalSpan = 9
)

// MACD computes the MACD line EMA(12)−EMA(26), its 9-span signal line and
// the histogram (line − signal), all with the recursive EMA convention.
func MACD(closes []float64) (line, signal, histogram []float64) {
	fast := EMA(closes, macdFastSpan)
	slow := EMA(closes, macdSlowSpan)

	line = make([]float64, len(closes))
	for i := range closes {
		line[i] = fast[i] - slow[i]
	}
	signal = EMA(line, macdSignalSpan)
	histogram = make([]float64, len(closes))
	for i := range closes {
		histogram[i] = line[i] - signal[i]
	}
	return line, signal, histogram
}
