package analyzer

import (
	"math"
	"time"

	"github.com/miguelfer1410/stocks-crypto-analizer/internal/model"
)

// RSI reference levels rendered as horizontal guides.
const (
	RSIOverbought = 70.0
	RSIOversold   = 30.0
)

// Figure is the renderable dataset bundle the presentation layer turns
// into the five stacked chart panels. Values that are not yet defined
// (rolling windows still filling) serialize as JSON null.
type Figure struct {
	Period      string         `json:"period"`
	Currency    string         `json:"currency"`
	Start       time.Time      `json:"start"`
	End         time.Time      `json:"end"`
	GeneratedAt time.Time      `json:"generated_at"`
	Symbols     []SymbolFigure `json:"symbols"`
}

// SymbolFigure carries one symbol's slice of every panel.
type SymbolFigure struct {
	Symbol   string         `json:"symbol"`
	Price    PricePanel     `json:"price"`
	MACD     MACDPanel      `json:"macd"`
	RSI      RSIPanel       `json:"rsi"`
	Volume   VolumePanel    `json:"volume"`
	Forecast *ForecastPanel `json:"forecast,omitempty"`
}

// PricePanel holds the candlesticks and the Bollinger overlay.
type PricePanel struct {
	Time    []time.Time `json:"time"`
	Open    []float64   `json:"open"`
	High    []float64   `json:"high"`
	Low     []float64   `json:"low"`
	Close   []float64   `json:"close"`
	MA20    []*float64  `json:"ma20"`
	BBUpper []*float64  `json:"bb_upper"`
	BBLower []*float64  `json:"bb_lower"`
}

// MACDPanel holds the MACD line, signal line and histogram.
type MACDPanel struct {
	Time      []time.Time `json:"time"`
	MACD      []float64   `json:"macd"`
	Signal    []float64   `json:"signal"`
	Histogram []float64   `json:"histogram"`
}

// RSIPanel holds the RSI line and its reference levels.
type RSIPanel struct {
	Time       []time.Time `json:"time"`
	RSI        []*float64  `json:"rsi"`
	Overbought float64     `json:"overbought"`
	Oversold   float64     `json:"oversold"`
}

// VolumePanel holds the volume bars and the volume moving average.
type VolumePanel struct {
	Time     []time.Time `json:"time"`
	Volume   []float64   `json:"volume"`
	VolumeMA []*float64  `json:"volume_ma"`
}

// ForecastPanel holds the prediction line and its uncertainty band.
type ForecastPanel struct {
	Time  []time.Time `json:"time"`
	Yhat  []float64   `json:"yhat"`
	Lower []float64   `json:"lower"`
	Upper []float64   `json:"upper"`
}

// BuildFigure assembles the bundle for the analyzer's fetched assets.
// Symbols whose fetch failed or returned nothing are simply absent.
func (a *Analyzer) BuildFigure(period model.Period, withForecast bool) *Figure {
	started := time.Now()
	start, end := displayWindow(period, started)
	fig := &Figure{
		Period:      period.String(),
		Currency:    "EUR",
		Start:       start,
		End:         end,
		GeneratedAt: started,
	}

	for _, asset := range a.assets {
		series := a.data[asset.Symbol]
		ind := a.indicators[asset.Symbol]
		if series.Empty() || ind.Empty() {
			continue
		}

		times := make([]time.Time, len(series.Bars))
		open := make([]float64, len(series.Bars))
		high := make([]float64, len(series.Bars))
		low := make([]float64, len(series.Bars))
		closes := make([]float64, len(series.Bars))
		volume := make([]float64, len(series.Bars))
		for i, b := range series.Bars {
			times[i] = b.Time
			open[i] = b.Open
			high[i] = b.High
			low[i] = b.Low
			closes[i] = b.Close
			volume[i] = b.Volume
		}

		sf := SymbolFigure{
			Symbol: asset.Symbol,
			Price: PricePanel{
				Time: times, Open: open, High: high, Low: low, Close: closes,
				MA20:    nullable(ind.MA20),
				BBUpper: nullable(ind.BBUpper),
				BBLower: nullable(ind.BBLower),
			},
			MACD: MACDPanel{
				Time: times, MACD: ind.MACD, Signal: ind.Signal, Histogram: ind.Histogram,
			},
			RSI: RSIPanel{
				Time: times, RSI: nullable(ind.RSI),
				Overbought: RSIOverbought, Oversold: RSIOversold,
			},
			Volume: VolumePanel{
				Time: times, Volume: volume, VolumeMA: nullable(ind.VolumeMA20),
			},
		}

		if withForecast {
			if f := a.ForecastFor(asset); f != nil {
				panel := &ForecastPanel{
					Time:  make([]time.Time, len(f.Points)),
					Yhat:  make([]float64, len(f.Points)),
					Lower: make([]float64, len(f.Points)),
					Upper: make([]float64, len(f.Points)),
				}
				for i, p := range f.Points {
					panel.Time[i] = p.Date
					panel.Yhat[i] = p.Yhat
					panel.Lower[i] = p.Lower
					panel.Upper[i] = p.Upper
				}
				sf.Forecast = panel
			}
		}

		fig.Symbols = append(fig.Symbols, sf)
	}

	if a.metrics != nil {
		a.metrics.FigureBuildDur.Observe(time.Since(started).Seconds())
	}
	return fig
}

// displayWindow derives the visible x-range from the period, snapping
// multi-month windows back to the first of the month.
func displayWindow(period model.Period, now time.Time) (time.Time, time.Time) {
	switch period {
	case model.Period1D:
		return now.AddDate(0, 0, -1), now
	case model.Period1Mo:
		return firstOfMonth(now), now
	case model.Period3Mo:
		return firstOfMonth(now.AddDate(0, 0, -90)), now
	case model.Period6Mo:
		return firstOfMonth(now.AddDate(0, 0, -180)), now
	case model.Period2Y:
		return firstOfMonth(now.AddDate(0, 0, -730)), now
	default: // 1y
		return firstOfMonth(now.AddDate(0, 0, -365)), now
	}
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// nullable converts a NaN-padded column into pointers so undefined
// slots marshal as JSON null.
func nullable(values []float64) []*float64 {
	out := make([]*float64, len(values))
	for i := range values {
		if !math.IsNaN(values[i]) {
			v := values[i]
			out[i] = &v
		}
	}
	return out
}
