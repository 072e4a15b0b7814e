package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/xuri/excelize/v2"

	"github.com/rgould/stockwatch"
	"github.com/rgould/stockwatch/config"
)

type reportCmd struct {
	cfg *config.Config
	out string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "writes a portfolio report as an xlsx workbook" }
func (*reportCmd) Usage() string {
	return `sw report [-o portfolio.xlsx]

Runs a full portfolio valuation and writes an xlsx workbook with a Portfolio
sheet holding the merged daily series, plus one sheet per position with its
raw valuation samples.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.out, "o", "portfolio.xlsx", "output xlsx file")
}

func (c *reportCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	positions, portfolio, err := runEngine(ctx, c.cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not value portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := c.write(positions, portfolio); err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not write report: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Wrote %s\n", c.out)
	return subcommands.ExitSuccess
}

func (c *reportCmd) write(positions []stockwatch.Position, portfolio *stockwatch.Portfolio) error {
	file := excelize.NewFile()
	defer file.Close()

	const portfolioSheet = "Portfolio"
	if err := file.SetSheetName("Sheet1", portfolioSheet); err != nil {
		return fmt.Errorf("cannot rename sheet: %w", err)
	}

	headerStyle, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("cannot create header style: %w", err)
	}

	headers := []any{"Date", "Value", "Book cost", "Loss/Gain", "Change %"}
	if err := file.SetSheetRow(portfolioSheet, "A1", &headers); err != nil {
		return fmt.Errorf("cannot write headers: %w", err)
	}
	if err := file.SetCellStyle(portfolioSheet, "A1", "E1", headerStyle); err != nil {
		return fmt.Errorf("cannot style headers: %w", err)
	}

	line := 2
	for row := range portfolio.Rows() {
		cell, _ := excelize.CoordinatesToCellName(1, line)
		values := []any{
			row.Day.String(),
			row.Value / 100,
			row.BookCost / 100,
			row.ActualChange / 100,
			float64(row.PercentChange),
		}
		if err := file.SetSheetRow(portfolioSheet, cell, &values); err != nil {
			return fmt.Errorf("cannot write row %d: %w", line, err)
		}
		line++
	}

	for _, pos := range positions {
		sheet := pos.Asset.Ticker
		if _, err := file.NewSheet(sheet); err != nil {
			return fmt.Errorf("cannot create sheet %q: %w", sheet, err)
		}
		headers := []any{"Time", "Unit value"}
		if err := file.SetSheetRow(sheet, "A1", &headers); err != nil {
			return fmt.Errorf("cannot write headers for %q: %w", sheet, err)
		}
		if err := file.SetCellStyle(sheet, "A1", "B1", headerStyle); err != nil {
			return fmt.Errorf("cannot style headers for %q: %w", sheet, err)
		}
		line := 2
		for t, v := range pos.Values.Samples() {
			cell, _ := excelize.CoordinatesToCellName(1, line)
			values := []any{t.Format("2006-01-02 15:04"), v / 100}
			if err := file.SetSheetRow(sheet, cell, &values); err != nil {
				return fmt.Errorf("cannot write row %d for %q: %w", line, sheet, err)
			}
			line++
		}
	}

	if err := file.SaveAs(c.out); err != nil {
		return fmt.Errorf("cannot save %q: %w", c.out, err)
	}
	return nil
}
