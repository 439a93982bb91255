package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/miguelfer1410/stocks-crypto-analizer/internal/model"
)

// YahooFetcher implements Fetcher using the Yahoo Finance public chart API.
type YahooFetcher struct {
	Client  *http.Client
	BaseURL string
}

// NewYahooFetcher creates a new Yahoo Finance fetcher with optional proxy
// support.
func NewYahooFetcher(proxyURL string) *YahooFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &YahooFetcher{
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
		BaseURL: "https://query1.finance.yahoo.com",
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

// providerSymbol maps an internal symbol to the Yahoo ticker. Crypto
// tickers are quoted against USD and need the "-USD" suffix; stock and
// ETF tickers pass through unchanged (an ".L" suffix marks LSE listings,
// which matters for currency selection, not for the query).
func providerSymbol(asset model.Asset) string {
	if asset.Kind == model.AssetCrypto &&
		!strings.Contains(asset.Symbol, "-USD") && !strings.HasSuffix(asset.Symbol, "USD") {
		return asset.Symbol + "-USD"
	}
	return asset.Symbol
}

// yahooChart is the response structure from the Yahoo chart API. Quote
// columns use pointers because the API emits null for missing bars.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*float64 `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchBars fetches OHLCV bars for the asset over the given period.
func (f *YahooFetcher) FetchBars(asset model.Asset, period model.Period) ([]model.OHLCV, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		f.BaseURL, url.PathEscape(providerSymbol(asset)), period.Interval(), period)

	req, err := http.NewRequest("GET", u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s", chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 {
		return nil, nil // no data is not an error
	}
	result := chart.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, nil // missing required columns
	}
	quote := result.Indicators.Quote[0]

	bars := assembleBars(result.Timestamp, quote.Open, quote.High, quote.Low, quote.Close, quote.Volume)
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
	return bars, nil
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func at(col []*float64, i int) *float64 {
	if i < len(col) {
		return col[i]
	}
	return nil
}

// assembleBars builds bars from the column arrays, forward-filling
// missing values from the last valid bar. Bars before the first valid
// close are dropped; bars with no valid fields at all are skipped.
func assembleBars(ts []int64, open, high, low, closeCol, volume []*float64) []model.OHLCV {
	bars := make([]model.OHLCV, 0, len(ts))
	var last *model.OHLCV
	for i, t := range ts {
		c := at(closeCol, i)
		if c == nil && last == nil {
			continue // nothing to fill from yet
		}
		bar := model.OHLCV{Time: time.Unix(t, 0)}
		if c != nil {
			bar.Open = deref(at(open, i))
			bar.High = deref(at(high, i))
			bar.Low = deref(at(low, i))
			bar.Close = *c
			bar.Volume = deref(at(volume, i))
			if bar.Open == 0 {
				bar.Open = bar.Close
			}
			if bar.High == 0 {
				bar.High = bar.Close
			}
			if bar.Low == 0 {
				bar.Low = bar.Close
			}
		} else {
			// forward-fill the whole bar from the previous valid one
			bar.Open = last.Open
			bar.High = last.High
			bar.Low = last.Low
			bar.Close = last.Close
			bar.Volume = last.Volume
		}
		bars = append(bars, bar)
		last = &bars[len(bars)-1]
	}
	return bars
}
