package stockwatch

import (
	"fmt"
	"math"

	"github.com/Rhymond/go-money"
)

// Percent is a relative change, in percent of the book cost.
type Percent float64

// Equal reports whether two percentages agree within 0.0001 of a point,
// tighter than the two decimals anything renders at.
func (p Percent) Equal(q Percent) bool {
	return math.Abs(float64(p-q)) < 0.0001
}

func (p Percent) String() string { return fmt.Sprintf("%.2f%%", float64(p)) }

// SignedString renders the change with an explicit sign; a flat change
// renders as a dash.
func (p Percent) SignedString() string {
	if p.Equal(0) {
		return "-"
	}
	return fmt.Sprintf("%+.2f%%", float64(p))
}

// Amount formats a minor-unit amount in the given currency, e.g.
// Amount(123456, "GBP") is "£1,234.56". A NaN amount renders as "n/a".
func Amount(minor float64, currency string) string {
	if math.IsNaN(minor) {
		return "n/a"
	}
	return money.New(int64(math.Round(minor)), currency).Display()
}

// SignedAmount is like Amount with an explicit sign; a zero amount renders
// as "-".
func SignedAmount(minor float64, currency string) string {
	if minor == 0 {
		return "-"
	}
	if minor > 0 {
		return "+" + Amount(minor, currency)
	}
	return "-" + Amount(-minor, currency)
}
