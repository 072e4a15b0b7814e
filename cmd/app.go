// Package cmd implements the CLI application to value a portfolio.
package cmd

import (
	"context"
	"flag"

	"github.com/google/subcommands"
	"github.com/rgould/stockwatch"
	"github.com/rgould/stockwatch/config"
	"github.com/rgould/stockwatch/fxrate"
	"github.com/rgould/stockwatch/marketdata"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander, cfg *config.Config) {
	c.Register(&valueCmd{cfg: cfg}, "portfolio")
	c.Register(&summaryCmd{cfg: cfg}, "portfolio")
	c.Register(&chartCmd{cfg: cfg}, "portfolio")
	c.Register(&reportCmd{cfg: cfg}, "portfolio")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var portfolioFile = flag.String("portfolio-file", "", "Path to the portfolio definition file (JSON). Defaults to <data-dir>/portfolio.json")

// runEngine performs one full valuation run: loads the portfolio definition
// and both caches, values every asset and merges them.
func runEngine(ctx context.Context, cfg *config.Config) ([]stockwatch.Position, *stockwatch.Portfolio, error) {
	file := *portfolioFile
	if file == "" {
		file = cfg.PortfolioFile()
	}
	assets, err := stockwatch.LoadAssets(file)
	if err != nil {
		return nil, nil, err
	}

	rates, err := stockwatch.LoadRateCache(cfg.RateCacheFile(), cfg.BaseCurrency, fxrate.New(cfg))
	if err != nil {
		return nil, nil, err
	}
	cache, err := stockwatch.LoadPriceCache(cfg.PriceCacheFile())
	if err != nil {
		return nil, nil, err
	}

	engine := &stockwatch.Engine{
		Base:   cfg.BaseCurrency,
		Prices: marketdata.New(cfg),
		Rates:  rates,
		Cache:  cache,
	}
	return engine.Run(ctx, assets)
}
