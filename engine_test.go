package stockwatch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rgould/stockwatch/date"
)

func TestEngineRun(t *testing.T) {
	dir := t.TempDir()
	cachePath := filepath.Join(dir, "price_cache.csv")

	provider := &recordingPrices{prices: []DailyPrice{
		{Day: date.MustParse("2025-07-01"), Open: 105, Close: 110},
		{Day: date.MustParse("2025-07-02"), Open: 112, Close: 118},
		{Day: date.MustParse("2025-07-03"), Open: 120, Close: 125},
	}}
	now := func() time.Time { return at("2025-07-03", 18*time.Hour) }

	asset := validAsset()
	asset.DateSold = date.MustParse("2025-07-03")

	run := func() (*Portfolio, *recordingPrices) {
		cache, err := LoadPriceCache(cachePath)
		if err != nil {
			t.Fatalf("LoadPriceCache() error = %v", err)
		}
		e := &Engine{
			Base:   "GBP",
			Prices: provider,
			Rates:  testRates(t, 1),
			Cache:  cache,
			Now:    now,
		}
		positions, portfolio, err := e.Run(context.Background(), []*Asset{asset})
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		if len(positions) != 1 {
			t.Fatalf("got %d positions, want 1", len(positions))
		}
		return portfolio, provider
	}

	// Cold run: the full holding window is fetched and the cache is written.
	portfolio, _ := run()
	if len(provider.calls) != 1 {
		t.Fatalf("cold run made %d fetches, want 1", len(provider.calls))
	}
	if want := date.NewRange(asset.DateBought, asset.DateSold); provider.calls[0] != want {
		t.Errorf("cold run fetched %v, want the full window %v", provider.calls[0], want)
	}
	if _, err := os.Stat(cachePath); err != nil {
		t.Fatalf("price cache was not written: %v", err)
	}
	first, ok := portfolio.Last()
	if !ok {
		t.Fatal("cold run produced an empty portfolio")
	}

	// Warm run: only the tail from the last cached day is refetched, and
	// the merged result is unchanged.
	provider.calls = nil
	portfolio, _ = run()
	if len(provider.calls) != 1 {
		t.Fatalf("warm run made %d fetches, want 1", len(provider.calls))
	}
	if got := provider.calls[0].From; got != date.MustParse("2025-07-03") {
		t.Errorf("warm run refetched from %s, want the last cached day 2025-07-03", got)
	}
	second, _ := portfolio.Last()
	if second != first {
		t.Errorf("warm run changed the result: %+v, was %+v", second, first)
	}
}

func TestEngineRunWithDisposedAsset(t *testing.T) {
	dir := t.TempDir()
	cachePath := filepath.Join(dir, "price_cache.csv")

	provider := &recordingPrices{prices: []DailyPrice{
		{Day: date.MustParse("2025-07-01"), Open: 105, Close: 110},
		{Day: date.MustParse("2025-07-02"), Open: 112, Close: 118},
		{Day: date.MustParse("2025-07-03"), Open: 120, Close: 125},
		{Day: date.MustParse("2025-07-04"), Open: 130, Close: 135},
	}}
	now := func() time.Time { return at("2025-07-04", 18*time.Hour) }

	// sold is disposed of before kept's last cached day, so in the saved
	// wide table its column is padded with empty cells up to kept's rows.
	sold := validAsset()
	sold.DateSold = date.MustParse("2025-07-02")
	kept := validAsset()
	kept.Name, kept.Ticker = "Beta plc", "BETA.L"
	kept.DateSold = date.MustParse("2025-07-04")
	assets := []*Asset{sold, kept}

	run := func() *Portfolio {
		cache, err := LoadPriceCache(cachePath)
		if err != nil {
			t.Fatalf("LoadPriceCache() error = %v", err)
		}
		e := &Engine{
			Base:   "GBP",
			Prices: provider,
			Rates:  testRates(t, 1),
			Cache:  cache,
			Now:    now,
		}
		_, portfolio, err := e.Run(context.Background(), assets)
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
		return portfolio
	}

	first := run()

	// Warm run: the sold asset's fetch must start from its own last cached
	// day, not from the padding added by the other asset's longer column.
	provider.calls = nil
	second := run()
	if len(provider.calls) != 2 {
		t.Fatalf("warm run made %d fetches, want 2", len(provider.calls))
	}
	if got := provider.calls[0].From; got.After(sold.DateSold) {
		t.Errorf("sold asset refetched from %s, after its sell date %s", got, sold.DateSold)
	}
	if got := provider.calls[0].To; got != sold.DateSold {
		t.Errorf("sold asset refetched through %s, want its sell date %s", got, sold.DateSold)
	}

	// After disposal only the kept asset contributes value and book cost.
	for _, p := range []*Portfolio{first, second} {
		for row := range p.Rows() {
			if !row.Day.After(sold.DateSold) {
				continue
			}
			if row.BookCost != 100000 {
				t.Errorf("%s book cost = %v, want only the kept asset's 100000", row.Day, row.BookCost)
			}
		}
	}
	f, _ := first.Last()
	s, _ := second.Last()
	if f != s {
		t.Errorf("warm run changed the result: %+v, was %+v", s, f)
	}
}

func TestEngineRunFailsOnProviderError(t *testing.T) {
	dir := t.TempDir()
	cache, err := LoadPriceCache(filepath.Join(dir, "price_cache.csv"))
	if err != nil {
		t.Fatal(err)
	}
	provider := providerFunc(func(ctx context.Context, ticker string, from, to date.Date) ([]DailyPrice, error) {
		return nil, os.ErrDeadlineExceeded
	})
	e := &Engine{Base: "GBP", Prices: provider, Cache: cache}
	if _, _, err := e.Run(context.Background(), []*Asset{validAsset()}); err == nil {
		t.Error("Run() succeeded despite a failing provider")
	}
}
