package stockwatch

import (
	"context"
	"errors"

	"github.com/rgould/stockwatch/date"
)

// ErrNoData reports that the market data provider has no data at all for a
// valid ticker over the requested range. It is tolerable: the caller
// substitutes an all-missing series.
var ErrNoData = errors.New("no market data for range")

// ErrUnknownTicker reports that the provider does not know the ticker. This
// is a configuration error and is fatal for the run.
var ErrUnknownTicker = errors.New("unknown ticker")

// DailyPrice holds one day of raw open/close prices from a market data
// provider. A NaN marks a quote the provider did not have.
type DailyPrice struct {
	Day   date.Date
	Open  float64
	Close float64
}

// PriceProvider retrieves daily open/close prices for one ticker.
type PriceProvider interface {
	// DailyPrices returns the daily prices for ticker over [from, to],
	// bounds included, in chronological order.
	//
	// It returns ErrNoData when the provider has no data for the range and
	// ErrUnknownTicker when the ticker does not exist.
	DailyPrices(ctx context.Context, ticker string, from, to date.Date) ([]DailyPrice, error)
}

// RateProvider retrieves a foreign exchange rate for one exact date.
type RateProvider interface {
	// Rate returns the rate converting one unit of the from currency into
	// the to currency on the given day.
	Rate(ctx context.Context, from, to string, on date.Date) (float64, error)
}
