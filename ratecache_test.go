package stockwatch

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/rgould/stockwatch/date"
)

// countingRates is a RateProvider stub that serves one fixed rate and counts
// how often it is asked.
type countingRates struct {
	rate  float64
	calls int
	err   error
}

func (p *countingRates) Rate(ctx context.Context, from, to string, on date.Date) (float64, error) {
	p.calls++
	if p.err != nil {
		return 0, p.err
	}
	return p.rate, nil
}

func TestRateCacheMemoizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "currency_cache.json")
	provider := &countingRates{rate: 0.8}
	c, err := LoadRateCache(path, "GBP", provider)
	if err != nil {
		t.Fatalf("LoadRateCache() error = %v", err)
	}

	on := date.MustParse("2025-07-01")
	for i := 0; i < 3; i++ {
		got, err := c.Convert(context.Background(), 100, on, "USD")
		if err != nil {
			t.Fatalf("Convert() error = %v", err)
		}
		if got != 80 {
			t.Errorf("Convert(100) = %v, want 80", got)
		}
	}
	if provider.calls != 1 {
		t.Errorf("provider was asked %d times, want 1 (same pair, same day)", provider.calls)
	}

	// A different day is a different key.
	if _, err := c.Convert(context.Background(), 100, on.Add(1), "USD"); err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if provider.calls != 2 {
		t.Errorf("provider was asked %d times, want 2", provider.calls)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

func TestRateCachePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "currency_cache.json")
	on := date.MustParse("2025-07-01")

	c, err := LoadRateCache(path, "GBP", &countingRates{rate: 0.8})
	if err != nil {
		t.Fatalf("LoadRateCache() error = %v", err)
	}
	if _, err := c.Convert(context.Background(), 100, on, "USD"); err != nil {
		t.Fatalf("Convert() error = %v", err)
	}

	// A fresh cache on the same file must answer without the provider.
	broken := &countingRates{err: errors.New("provider must not be called")}
	c2, err := LoadRateCache(path, "GBP", broken)
	if err != nil {
		t.Fatalf("LoadRateCache() error = %v", err)
	}
	got, err := c2.Convert(context.Background(), 100, on, "USD")
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if got != 80 {
		t.Errorf("Convert(100) = %v, want 80 from disk", got)
	}
	if broken.calls != 0 {
		t.Errorf("provider was asked %d times, want 0", broken.calls)
	}
}

func TestRateCacheProviderError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "currency_cache.json")
	boom := errors.New("boom")
	c, err := LoadRateCache(path, "GBP", &countingRates{err: boom})
	if err != nil {
		t.Fatalf("LoadRateCache() error = %v", err)
	}
	if _, err := c.Convert(context.Background(), 100, date.MustParse("2025-07-01"), "USD"); !errors.Is(err, boom) {
		t.Errorf("Convert() error = %v, want wrapped provider error", err)
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0 (failed fetches are not cached)", c.Len())
	}
}

func TestLoadRateCacheMissingFile(t *testing.T) {
	c, err := LoadRateCache(filepath.Join(t.TempDir(), "none.json"), "GBP", &countingRates{})
	if err != nil {
		t.Fatalf("LoadRateCache() error = %v", err)
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
}
