package stockwatch

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/rgould/stockwatch/date"
)

// Valuer produces fully normalized, cost-anchored value series for assets.
type Valuer struct {
	Prices PriceProvider
	Rates  *RateCache
	Base   string           // base currency every value is normalized into
	Now    func() time.Time // defaults to time.Now
}

func (v *Valuer) now() time.Time {
	if v.Now != nil {
		return v.Now()
	}
	return time.Now()
}

// liveClock returns the instant stamped onto the live sample. A disposed
// asset has no live sample: its series ends at the sell-day session close,
// keeping every sample inside the holding window.
func (v *Valuer) liveClock(a *Asset, venue Venue) time.Time {
	now := v.now()
	if sell := a.SellDate(); sell.Before(date.FromTime(now)) {
		return sell.At(venue.Close)
	}
	return now
}

// Value computes the asset's value series. With a nil seed it takes the cold
// path: a full-range fetch, currency normalization, and book-cost anchoring.
// With a cached seed it takes the warm path: only the tail from the seed's
// last calendar day is refetched and appended.
//
// Either way the result is chronologically sorted with unique timestamps.
func (v *Valuer) Value(ctx context.Context, a *Asset, seed *Series) (*Series, error) {
	venue, ok := LookupVenue(a.Venue)
	if !ok {
		return nil, fmt.Errorf("asset %q: unknown venue %q", a.Name, a.Venue)
	}
	if seed == nil {
		return v.cold(ctx, a, venue)
	}
	return v.warm(ctx, a, venue, seed)
}

func (v *Valuer) cold(ctx context.Context, a *Asset, venue Venue) (*Series, error) {
	s, err := FetchValues(ctx, v.Prices, a.Ticker, a.DateBought, a.SellDate(), venue, v.liveClock(a, venue))
	if err != nil {
		return nil, err
	}
	if err := v.convert(ctx, a, s); err != nil {
		return nil, err
	}
	// Anchor the series on the per-unit book price instead of the market
	// open, so the day-zero return is exactly zero.
	if s.Len() > 0 {
		s.values[0] = a.UnitBookCost()
	}
	return s, nil
}

func (v *Valuer) warm(ctx context.Context, a *Asset, venue Venue, seed *Series) (*Series, error) {
	lastT, _ := seed.Last()
	lastDay := date.FromTime(lastT)
	sell := a.SellDate()

	// The cache already covers the whole holding window, so there is
	// nothing left to fetch. Happens when a disposal is recorded after the
	// history was cached.
	if lastDay.After(sell) {
		return seed.Clone(), nil
	}

	// The cached value for the last day may have been a stale live
	// snapshot: drop the whole day and refetch from it.
	s := seed.Clone().DropDay(lastDay)

	fetched, err := FetchValues(ctx, v.Prices, a.Ticker, lastDay, sell, venue, v.liveClock(a, venue))
	if err != nil {
		return nil, err
	}
	if err := v.convert(ctx, a, fetched); err != nil {
		return nil, err
	}

	// Append dedupes overlapping timestamps, the fresh fetch wins. The
	// book-cost anchor from the original cold fetch persists in the
	// retained rows and is not reapplied.
	for t, value := range fetched.Samples() {
		s.Append(t, value)
	}
	return s, nil
}

// convert normalizes every sample into the base currency using the sample's
// own date, then scales to minor units. Base-currency quotes are already
// minor units and are left untouched.
func (v *Valuer) convert(ctx context.Context, a *Asset, s *Series) error {
	if a.Currency == v.Base {
		return nil
	}
	for i, value := range s.values {
		if math.IsNaN(value) {
			continue
		}
		converted, err := v.Rates.Convert(ctx, value, date.FromTime(s.times[i]), a.Currency)
		if err != nil {
			return fmt.Errorf("asset %q: %w", a.Name, err)
		}
		s.values[i] = converted * minorUnitScale
	}
	return nil
}
