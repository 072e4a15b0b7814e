package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/rgould/stockwatch/config"
)

type chartCmd struct {
	cfg *config.Config
	out string
}

func (*chartCmd) Name() string     { return "chart" }
func (*chartCmd) Synopsis() string { return "renders the portfolio value history to a PNG" }
func (*chartCmd) Usage() string {
	return `sw chart [-o portfolio.png]

Runs a full portfolio valuation and renders the merged daily series (value
and book cost) as a PNG line chart.
`
}

func (c *chartCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.out, "o", "portfolio.png", "output PNG file")
}

func (c *chartCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	_, portfolio, err := runEngine(ctx, c.cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not value portfolio: %v\n", err)
		return subcommands.ExitFailure
	}
	if portfolio.Len() < 2 {
		fmt.Fprintf(os.Stderr, "Error: need at least 2 days of data, got %d\n", portfolio.Len())
		return subcommands.ExitFailure
	}

	xValues := make([]time.Time, 0, portfolio.Len())
	valueY := make([]float64, 0, portfolio.Len())
	costY := make([]float64, 0, portfolio.Len())
	for row := range portfolio.Rows() {
		xValues = append(xValues, row.Day.At(0))
		// chart in major units
		valueY = append(valueY, row.Value/100)
		costY = append(costY, row.BookCost/100)
	}

	graph := chart.Chart{
		Title:  "Portfolio value",
		Width:  900,
		Height: 400,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		XAxis: chart.XAxis{
			TickPosition: chart.TickPositionBetweenTicks,
			ValueFormatter: func(v interface{}) string {
				if t, ok := v.(float64); ok {
					return chart.TimeFromFloat64(t).Format("Jan 06")
				}
				return ""
			},
		},
		Series: []chart.Series{
			chart.TimeSeries{
				Name: "Value",
				Style: chart.Style{
					StrokeColor: drawing.ColorFromHex("2563eb"),
					StrokeWidth: 2.5,
				},
				XValues: xValues,
				YValues: valueY,
			},
			chart.TimeSeries{
				Name: "Book cost",
				Style: chart.Style{
					StrokeColor:     drawing.ColorFromHex("9ca3af"),
					StrokeWidth:     1.5,
					StrokeDashArray: []float64{5.0, 3.0},
				},
				XValues: xValues,
				YValues: costY,
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}

	out, err := os.Create(c.out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot create %q: %v\n", c.out, err)
		return subcommands.ExitFailure
	}
	defer out.Close()

	if err := graph.Render(chart.PNG, out); err != nil {
		fmt.Fprintf(os.Stderr, "Error: chart render failed: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Wrote %s\n", c.out)
	return subcommands.ExitSuccess
}
