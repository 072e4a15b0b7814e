package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/google/subcommands"
	"github.com/rgould/stockwatch"
	"github.com/rgould/stockwatch/config"
)

type summaryCmd struct {
	cfg *config.Config
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "renders a portfolio summary in the terminal" }
func (*summaryCmd) Usage() string {
	return `sw summary

Runs a full portfolio valuation and renders a summary: current value,
loss/gain, and the best and worst days of the merged series, followed by a
per-position table.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	positions, portfolio, err := runEngine(ctx, c.cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not value portfolio: %v\n", err)
		return subcommands.ExitFailure
	}

	md := c.markdown(positions, portfolio)
	out, err := glamour.Render(md, "dark")
	if err != nil {
		// Fall back to the raw markdown rather than losing the summary.
		fmt.Println(md)
		return subcommands.ExitSuccess
	}
	fmt.Print(out)
	return subcommands.ExitSuccess
}

func (c *summaryCmd) markdown(positions []stockwatch.Position, portfolio *stockwatch.Portfolio) string {
	cur := c.cfg.BaseCurrency
	var b strings.Builder

	fmt.Fprintf(&b, "# Portfolio\n\n")

	if row, ok := portfolio.Last(); ok {
		fmt.Fprintf(&b, "- **Current value**: %s\n", stockwatch.Amount(row.Value, cur))
		fmt.Fprintf(&b, "- **Book cost**: %s\n", stockwatch.Amount(row.BookCost, cur))
		fmt.Fprintf(&b, "- **Loss/Gain**: %s (%s)\n", stockwatch.SignedAmount(row.ActualChange, cur), row.PercentChange.SignedString())

		best, worst := row, row
		for r := range portfolio.Rows() {
			if r.PercentChange > best.PercentChange {
				best = r
			}
			if r.PercentChange < worst.PercentChange {
				worst = r
			}
		}
		fmt.Fprintf(&b, "- **Best day**: %s (%s)\n", best.Day, best.PercentChange.SignedString())
		fmt.Fprintf(&b, "- **Worst day**: %s (%s)\n", worst.Day, worst.PercentChange.SignedString())
	}

	fmt.Fprintf(&b, "\n## Positions\n\n")
	fmt.Fprintf(&b, "| Name | Ticker | Unit value | Gain |\n")
	fmt.Fprintf(&b, "|---|---|---|---|\n")
	for _, pos := range positions {
		_, last := pos.Values.Last()
		unitBook := pos.Asset.UnitBookCost()
		var gain stockwatch.Percent
		if unitBook != 0 {
			gain = stockwatch.Percent((last - unitBook) * 100 / unitBook)
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			pos.Asset.Name, pos.Asset.Ticker, stockwatch.Amount(last, cur), gain.SignedString())
	}
	return b.String()
}
