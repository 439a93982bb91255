package forecast

import (
	"sync"
	"time"

	"github.com/miguelfer1410/stocks-crypto-analizer/internal/model"
)

// Cache memoizes fitted forecasts per (symbol, UTC day). The model input
// is always the same fixed daily lookback, so within one day a refit can
// only reproduce the same result; caching spares the expensive fit on
// every auto-refresh tick.
type Cache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	day      string
	forecast *model.Forecast
}

// NewCache creates an empty forecast cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry)}
}

// Get returns the cached forecast for the symbol if it was fitted today.
func (c *Cache) Get(symbol string, now time.Time) (*model.Forecast, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[symbol]
	if !ok || e.day != dayKey(now) {
		return nil, false
	}
	return e.forecast, true
}

// Put stores a fitted forecast (nil is cached too: a symbol without
// enough history will not gain it within the same day).
func (c *Cache) Put(symbol string, now time.Time, f *model.Forecast) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[symbol] = cacheEntry{day: dayKey(now), forecast: f}
}

func dayKey(t time.Time) string { return t.UTC().Format("2006-01-02") }
