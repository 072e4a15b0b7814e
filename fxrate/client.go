// Package fxrate implements the foreign exchange rate provider client.
package fxrate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/PaesslerAG/jsonpath"
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
		SetBaseURL(cfg.API.FXRateURL)
	return &Client{client: client}
}

// ratePath locates the rate inside the provider's conversion payload.
const ratePath = "$.info.rate"

// Rate implements stockwatch.RateProvider: the scalar from/to rate for that
// exact date.
func (c *Client) Rate(ctx context.Context, from, to string, on date.Date) (float64, error) {
	slog.Debug("fetching fx rate", "from", from, "to", to, "on", on)

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"from": from,
			"to":   to,
			"date": on.String(),
		}).
		Get("/convert")
	if err != nil {
		return 0, fmt.Errorf("cannot reach fx rate provider: %w", err)
	}
	if resp.StatusCode() != http.StatusOK {
		return 0, fmt.Errorf("cannot query fx rate provider for %s/%s: %s", from, to, resp.Status())
	}

	var jobj any
	if err := json.Unmarshal(resp.Body(), &jobj); err != nil {
		return 0, fmt.Errorf("cannot parse fx rate response for %s/%s: %w", from, to, err)
	}

	jval, err := jsonpath.Get(ratePath, jobj)
	if err != nil {
		return 0, fmt.Errorf("cannot find rate in fx response for %s/%s: %q %w", from, to, ratePath, err)
	}
	// jsonpath is never clear about whether it returns a list of one answer
	// or a single answer: keep the first one if any.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	rate, ok := jval.(float64)
	if !ok {
		return 0, fmt.Errorf("fx rate for %s/%s on %s is not a number: %v", from, to, on, jval)
	}
	return rate, nil
}

var _ stockwatch.RateProvider = (*Client)(nil)
