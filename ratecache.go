package stockwatch

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/rgould/stockwatch/date"
)

// RateCache memoizes foreign exchange rates by (currency, date) and persists
// them as JSON. Entries are append-only: once a rate is cached for a date it
// is never refreshed, even if the provider later restates it.
//
// The cache is an explicit object injected into the valuation, not shared
// module state.
type RateCache struct {
	path     string
	base     string
	provider RateProvider
	rates    map[string]map[string]float64 // currency -> ISO date -> rate
}

// LoadRateCache reads the rate cache file and binds it to a provider for
// misses. A missing file yields an empty cache.
func LoadRateCache(path, baseCurrency string, provider RateProvider) (*RateCache, error) {
	c := &RateCache{
		path:     path,
		base:     baseCurrency,
		provider: provider,
		rates:    make(map[string]map[string]float64),
	}
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open rate cache %q: %w", path, err)
	}
	if len(content) == 0 {
		return c, nil
	}
	if err := json.Unmarshal(content, &c.rates); err != nil {
		return nil, fmt.Errorf("format error in rate cache %q: %w", path, err)
	}
	return c, nil
}

// Len returns the number of cached rates.
func (c *RateCache) Len() int {
	n := 0
	for _, byDate := range c.rates {
		n += len(byDate)
	}
	return n
}

// Convert returns value expressed in the base currency using the rate for
// the exact day. On a cache miss the rate is fetched from the provider,
// memoized and written through to disk immediately.
func (c *RateCache) Convert(ctx context.Context, value float64, on date.Date, from string) (float64, error) {
	rate, err := c.rate(ctx, from, on)
	if err != nil {
		return 0, err
	}
	return value * rate, nil
}

func (c *RateCache) rate(ctx context.Context, from string, on date.Date) (float64, error) {
	key := on.String()
	if rate, ok := c.rates[from][key]; ok {
		return rate, nil
	}

	rate, err := c.provider.Rate(ctx, from, c.base, on)
	if err != nil {
		return 0, fmt.Errorf("cannot fetch %s/%s rate for %s: %w", from, c.base, on, err)
	}

	if c.rates[from] == nil {
		c.rates[from] = make(map[string]float64)
	}
	c.rates[from][key] = rate

	// Write-through. A failed write only degrades the next run.
	if err := c.save(); err != nil {
		slog.Warn("rate cache write failed", "path", c.path, "err", err)
	}
	return rate, nil
}

func (c *RateCache) save() error {
	content, err := json.Marshal(c.rates)
	if err != nil {
		return fmt.Errorf("cannot marshal rate cache: %w", err)
	}
	if err := os.WriteFile(c.path, content, 0644); err != nil {
		return fmt.Errorf("cannot write rate cache %q: %w", c.path, err)
	}
	return nil
}
