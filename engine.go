package stockwatch

import (
	"context"
	"log/slog"
	"time"
)

// Engine runs one full portfolio valuation: per-asset price retrieval with
// incremental caching, currency normalization and the calendar-alignment
// merge. One run per process invocation; the engine holds no state between
// runs beyond its two on-disk caches.
type Engine struct {
	Base   string
	Prices PriceProvider
	Rates  *RateCache
	Cache  *PriceCache
	Now    func() time.Time // defaults to time.Now
}

// Run values every asset sequentially and merges the results.
//
// A fetch or conversion error for one asset fails the whole run: a single
// invalid asset must not produce a corrupted aggregate. The price cache
// rewrite is the one soft failure: it is logged and the run continues, at
// the cost of a fuller refetch next time.
func (e *Engine) Run(ctx context.Context, assets []*Asset) ([]Position, *Portfolio, error) {
	valuer := &Valuer{Prices: e.Prices, Rates: e.Rates, Base: e.Base, Now: e.Now}

	positions := make([]Position, 0, len(assets))
	for _, a := range assets {
		seed := e.Cache.Seed(a.Key())
		if seed == nil {
			slog.Debug("valuing asset", "ticker", a.Ticker, "path", "cold")
		} else {
			slog.Debug("valuing asset", "ticker", a.Ticker, "path", "warm", "cached", seed.Len())
		}

		values, err := valuer.Value(ctx, a, seed)
		if err != nil {
			return nil, nil, err
		}
		positions = append(positions, Position{Asset: a, Values: values})
		e.Cache.Put(a.Key(), values)
	}

	if err := e.Cache.Save(); err != nil {
		slog.Warn("price cache write failed", "err", err)
	}

	return positions, Merge(positions), nil
}
