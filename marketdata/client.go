// Package marketdata implements the market data provider client, serving
// daily open/close prices over the provider's chart API.
package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rgould/stockwatch"
	"github.com/rgould/stockwatch/config"
	"github.com/rgould/stockwatch/date"
)

type Client struct {
	client *resty.Client
}

func New(cfg *config.Config) *Client {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.MarketDataURL)
	return &Client{client: client}
}

// chartResponse is the provider's chart payload.
//
//	{"chart":{"result":[{"timestamp":[...],
//	  "indicators":{"quote":[{"open":[...],"close":[...]}]}}],"error":null}}
//
// Quote values are pointers: the provider reports a missing price as null.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open  []*float64 `json:"open"`
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// DailyPrices implements stockwatch.PriceProvider.
//
// The provider's range upper bound is exclusive, so it is queried with the
// day after `to` to cover `to` itself.
func (c *Client) DailyPrices(ctx context.Context, ticker string, from, to date.Date) ([]stockwatch.DailyPrice, error) {
	params := map[string]string{
		"period1":  strconv.FormatInt(from.At(0).Unix(), 10),
		"period2":  strconv.FormatInt(to.Add(1).At(0).Unix(), 10),
		"interval": "1d",
	}

	slog.Debug("fetching daily prices", "ticker", ticker, "from", from, "to", to)

	resp, err := c.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParams(params).
		Get("/v8/finance/chart/" + ticker)
	if err != nil {
		return nil, fmt.Errorf("cannot reach market data provider: %w", err)
	}

	var payload chartResponse
	if err := json.Unmarshal(resp.Body(), &payload); err != nil {
		return nil, fmt.Errorf("cannot parse market data response for %q: %w", ticker, err)
	}

	if payload.Chart.Error != nil {
		if resp.StatusCode() == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %q (%s)", stockwatch.ErrUnknownTicker, ticker, payload.Chart.Error.Description)
		}
		return nil, fmt.Errorf("market data provider error for %q: %s: %s", ticker, payload.Chart.Error.Code, payload.Chart.Error.Description)
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("cannot query market data provider for %q: %s", ticker, resp.Status())
	}

	// The provider answers a valid ticker with no data in range with an
	// empty result set. That quirk is tolerable, not an error.
	if len(payload.Chart.Result) == 0 {
		return nil, fmt.Errorf("%w: %q over %s..%s", stockwatch.ErrNoData, ticker, from, to)
	}
	result := payload.Chart.Result[0]
	if len(result.Timestamp) == 0 || len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w: %q over %s..%s", stockwatch.ErrNoData, ticker, from, to)
	}

	quote := result.Indicators.Quote[0]
	prices := make([]stockwatch.DailyPrice, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		p := stockwatch.DailyPrice{
			Day:   date.FromTime(time.Unix(ts, 0)),
			Open:  math.NaN(),
			Close: math.NaN(),
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			p.Open = *quote.Open[i]
		}
		if i < len(quote.Close) && quote.Close[i] != nil {
			p.Close = *quote.Close[i]
		}
		prices = append(prices, p)
	}
	return prices, nil
}

var _ stockwatch.PriceProvider = (*Client)(nil)
