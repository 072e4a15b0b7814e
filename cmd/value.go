package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"
	"github.com/rgould/stockwatch"
	"github.com/rgould/stockwatch/config"
)

type valueCmd struct {
	cfg *config.Config
}

func (*valueCmd) Name() string     { return "value" }
func (*valueCmd) Synopsis() string { return "values the portfolio and prints the result" }
func (*valueCmd) Usage() string {
	return `sw value

Runs a full portfolio valuation: reads the portfolio definition, fetches the
missing price history (using the on-disk caches where possible), and prints
each position's current state and the portfolio totals.
`
}

func (c *valueCmd) SetFlags(f *flag.FlagSet) {}

func (c *valueCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	positions, portfolio, err := runEngine(ctx, c.cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not value portfolio: %v\n", err)
		return subcommands.ExitFailure
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tTICKER\tUNIT VALUE\tGAIN")
	for _, pos := range positions {
		_, last := pos.Values.Last()
		unitBook := pos.Asset.UnitBookCost()
		var gain stockwatch.Percent
		if unitBook != 0 {
			gain = stockwatch.Percent((last - unitBook) * 100 / unitBook)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			pos.Asset.Name,
			pos.Asset.Ticker,
			stockwatch.Amount(last, c.cfg.BaseCurrency),
			gain.SignedString(),
		)
	}
	w.Flush()

	row, ok := portfolio.Last()
	if !ok {
		fmt.Println("Portfolio is empty.")
		return subcommands.ExitSuccess
	}
	fmt.Println()
	fmt.Printf("Total value:   %s\n", stockwatch.Amount(row.Value, c.cfg.BaseCurrency))
	fmt.Printf("Book cost:     %s\n", stockwatch.Amount(row.BookCost, c.cfg.BaseCurrency))
	fmt.Printf("Loss/Gain:     %s (%s)\n",
		stockwatch.SignedAmount(row.ActualChange, c.cfg.BaseCurrency),
		row.PercentChange.SignedString(),
	)
	return subcommands.ExitSuccess
}
