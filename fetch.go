package stockwatch

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rgould/stockwatch/date"
)

// minorUnitScale converts a major-unit quote into minor units.
const minorUnitScale = 100.0

// BuildSeries normalizes raw daily prices into a value series with two
// samples per trading day: one at the venue's session open holding the open
// price, one at the session close holding the close price.
//
// Missing prices are forward-filled from the prior sample. The final sample
// is re-timestamped to now, making it the live sample; when that would break
// chronology the final sample is stale and dropped. Crypto venue values are
// scaled to minor units.
func BuildSeries(prices []DailyPrice, v Venue, now time.Time) *Series {
	s := NewSeries()
	for _, p := range prices {
		s.Append(p.Day.At(v.Open), p.Open)
		s.Append(p.Day.At(v.Close), p.Close)
	}
	s.ForwardFill()
	s.MakeLive(now)
	if v.Crypto {
		s.Scale(minorUnitScale)
	}
	return s
}

// noDataSeries builds an all-missing series over [from, to], two samples per
// day like a real fetch. Downstream forward-fill and zero-fill absorb it.
func noDataSeries(from, to date.Date, v Venue, now time.Time) *Series {
	s := NewSeries()
	for day := from; !day.After(to); day = day.Add(1) {
		s.Append(day.At(v.Open), math.NaN())
		s.Append(day.At(v.Close), math.NaN())
	}
	s.MakeLive(now)
	return s
}

// FetchValues retrieves the asset's raw prices over [from, to] from the
// provider and normalizes them into a value series.
//
// A provider with no data at all for the range yields an all-missing series
// rather than an error; an unknown ticker is a configuration error and is
// returned as is.
func FetchValues(ctx context.Context, p PriceProvider, ticker string, from, to date.Date, v Venue, now time.Time) (*Series, error) {
	prices, err := p.DailyPrices(ctx, ticker, from, to)
	if errors.Is(err, ErrNoData) {
		return noDataSeries(from, to, v, now), nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot fetch prices for %q: %w", ticker, err)
	}
	return BuildSeries(prices, v, now), nil
}
