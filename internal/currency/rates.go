// Package currency converts fetched price series into the display
// currency using a TTL'd exchange-rate cache with layered fallbacks.
package currency

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// Compiled-in approximate rates (EUR per unit), used when every provider
// fails. Updated manually.
var fallbackRates = map[string]float64{
	"USD": 0.9132,
	"GBP": 0.8561,
}

const defaultTTL = time.Hour

// RateCache maps currency codes to their EUR rate. Refreshes lazily on
// access once the cached rates are older than the TTL. A lookup never
// fails: provider errors fall back to the previous rates, then to the
// compiled-in constants.
type RateCache struct {
	mu        sync.Mutex
	client    *http.Client
	primary   string
	secondary string
	ttl       time.Duration
	rates     map[string]float64
	fetchedAt time.Time
}

// NewRateCache creates a cache backed by the ECB feed of exchangerate.host
// with frankfurter.app as the secondary provider.
func NewRateCache(proxyURL string) *RateCache {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &RateCache{
		client: &http.Client{
			Timeout:   15 * time.Second,
			Transport: transport,
		},
		primary:   "https://api.exchangerate.host/latest?base=EUR&source=ecb",
		secondary: "https://api.frankfurter.app/latest",
		ttl:       defaultTTL,
	}
}

// NewRateCacheWithProviders is used by tests to point at stub servers.
func NewRateCacheWithProviders(client *http.Client, primary, secondary string, ttl time.Duration) *RateCache {
	return &RateCache{client: client, primary: primary, secondary: secondary, ttl: ttl}
}

// Rate returns the EUR rate for the given currency, refreshing the cache
// first if it is stale. EUR is always 1.
func (c *RateCache) Rate(cur string) float64 {
	if cur == "EUR" || cur == "" {
		return 1
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.rates == nil || time.Since(c.fetchedAt) > c.ttl {
		c.refreshLocked()
	}
	if r, ok := c.rates[cur]; ok && r > 0 {
		return r
	}
	if r, ok := fallbackRates[cur]; ok {
		return r
	}
	return 1
}

// Stale reports whether the cache would refresh on the next lookup.
func (c *RateCache) Stale() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rates == nil || time.Since(c.fetchedAt) > c.ttl
}

func (c *RateCache) refreshLocked() {
	if rates, err := c.fetchPrimary(); err == nil {
		c.rates = rates
		c.fetchedAt = time.Now()
		return
	} else {
		log.Printf("[WARN] primary exchange-rate provider: %v", err)
	}
	if rates, err := c.fetchSecondary(); err == nil {
		c.rates = rates
		c.fetchedAt = time.Now()
		return
	} else {
		log.Printf("[WARN] secondary exchange-rate provider: %v", err)
	}
	if c.rates == nil {
		log.Printf("[WARN] all exchange-rate providers failed, using compiled-in rates")
		c.rates = fallbackRates
	}
	// keep the previous rates but retry on the next stale access
	c.fetchedAt = time.Now().Add(-c.ttl + 5*time.Minute)
}

// fetchPrimary queries the exchangerate.host ECB feed. The feed quotes
// units per EUR, so rates are inverted to EUR per unit.
func (c *RateCache) fetchPrimary() (map[string]float64, error) {
	var body struct {
		Success bool               `json:"success"`
		Rates   map[string]float64 `json:"rates"`
	}
	if err := c.getJSON(c.primary, &body); err != nil {
		return nil, err
	}
	if !body.Success {
		return nil, fmt.Errorf("provider reported failure")
	}
	return invertRates(body.Rates)
}

// fetchSecondary queries frankfurter.app, which quotes units per EUR as
// well.
func (c *RateCache) fetchSecondary() (map[string]float64, error) {
	var body struct {
		Rates map[string]float64 `json:"rates"`
	}
	if err := c.getJSON(c.secondary, &body); err != nil {
		return nil, err
	}
	return invertRates(body.Rates)
}

func invertRates(perEUR map[string]float64) (map[string]float64, error) {
	out := make(map[string]float64, len(fallbackRates))
	for cur := range fallbackRates {
		r, ok := perEUR[cur]
		if !ok || r == 0 {
			return nil, fmt.Errorf("rate for %s missing", cur)
		}
		out[cur] = 1 / r
	}
	return out, nil
}

func (c *RateCache) getJSON(u string, v interface{}) error {
	resp, err := c.client.Get(u)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}
