package stockwatch

import (
	"iter"
	"math"
	"sort"

	"github.com/rgould/stockwatch/date"
)

// Position pairs an asset definition with its valued series for one run.
type Position struct {
	Asset  *Asset
	Values *Series
}

// PortfolioRow is the merged portfolio state on one calendar date. Value and
// BookCost are minor units of the base currency.
type PortfolioRow struct {
	Day           date.Date
	Value         float64
	BookCost      float64
	ActualChange  float64
	PercentChange Percent
}

// Portfolio is the daily merged series of all positions: aggregate value,
// aggregate book cost and the derived change metrics, indexed by date.
// It is read-only once merged; a fresh run recomputes it.
type Portfolio struct {
	rows []PortfolioRow
}

// Len returns the number of days in the portfolio series.
func (p *Portfolio) Len() int { return len(p.rows) }

// Row returns the i-th day of the portfolio series.
func (p *Portfolio) Row(i int) PortfolioRow { return p.rows[i] }

// Rows returns an iterator over the portfolio series in chronological order.
func (p *Portfolio) Rows() iter.Seq[PortfolioRow] {
	return func(yield func(PortfolioRow) bool) {
		for _, row := range p.rows {
			if !yield(row) {
				return
			}
		}
	}
}

// Last returns the most recent day, or false on an empty portfolio.
func (p *Portfolio) Last() (PortfolioRow, bool) {
	if len(p.rows) == 0 {
		return PortfolioRow{}, false
	}
	return p.rows[len(p.rows)-1], true
}

// Merge aligns all positions onto a common daily calendar and aggregates
// them into one portfolio series.
//
// Each position is forward-filled and averaged per calendar day, scaled by
// its holding, and paired with its fixed book cost; the book cost is zeroed
// on dates where the position has no recorded value (before purchase, after
// disposal, or a data gap the fill could not bridge). Positions missing a
// date entirely contribute zero to both columns on that date.
func Merge(positions []Position) *Portfolio {
	type accum struct{ value, bookCost float64 }
	byDay := make(map[date.Date]*accum)

	for _, pos := range positions {
		holding := pos.Asset.Holding.InexactFloat64()
		bookCost := pos.Asset.BookCost.InexactFloat64()

		days, means := pos.Values.Clone().ForwardFill().DailyMean()
		for i, day := range days {
			acc := byDay[day]
			if acc == nil {
				acc = &accum{}
				byDay[day] = acc
			}
			if math.IsNaN(means[i]) {
				continue // not held that day: zero value, zero book cost
			}
			acc.value += means[i] * holding
			acc.bookCost += bookCost
		}
	}

	days := make([]date.Date, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	p := &Portfolio{rows: make([]PortfolioRow, 0, len(days))}
	for _, day := range days {
		acc := byDay[day]
		row := PortfolioRow{
			Day:          day,
			Value:        acc.value,
			BookCost:     acc.bookCost,
			ActualChange: acc.value - acc.bookCost,
		}
		// A zero aggregate book cost (no active position yet) reports a
		// zero percent change rather than an undefined one.
		if acc.bookCost != 0 {
			row.PercentChange = Percent(row.ActualChange * 100 / acc.bookCost)
		}
		p.rows = append(p.rows, row)
	}
	return p
}
