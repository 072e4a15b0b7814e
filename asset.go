package stockwatch

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"github.com/rgould/stockwatch/date"
	"github.com/shopspring/decimal"
)

// currencyCodeRegex checks for the ISO 4217 format: 3 uppercase letters.
var currencyCodeRegex = regexp.MustCompile(`^[A-Z]{3}$`)

// ValidateCurrency checks if a string is a validly formatted currency code.
// It returns nil if valid, or a descriptive error if invalid.
func ValidateCurrency(code string) error {
	if !currencyCodeRegex.MatchString(code) {
		return fmt.Errorf("invalid currency format: must be 3 uppercase letters, got %q", code)
	}
	return nil
}

// Asset is one tracked portfolio position: a ticker plus holding and cost
// metadata, fixed at load time.
//
// Monetary fields are minor units of the base currency. The book cost is
// never recomputed from price history.
type Asset struct {
	Name       string          // display name, free to change between runs
	Ticker     string          // stable identifier, used as the cache key
	Currency   string          // ISO 4217 code of the venue's quotes
	Venue      string          // trading venue identifier, see LookupVenue
	Holding    decimal.Decimal // number of units held, > 0
	BookCost   decimal.Decimal // cost basis, minor units
	Commission decimal.Decimal // minor units
	FXCharge   decimal.Decimal // minor units
	DateBought date.Date
	DateSold   date.Date // zero for an open position
}

// Key returns the stable identifier under which this asset's series is
// cached. The display name is deliberately not part of it: renaming an asset
// must not lose its cached history.
func (a *Asset) Key() string { return a.Ticker }

// UnitBookCost returns the per-unit book price, in minor units. It anchors
// the first sample of the asset's value series so that the day-zero return
// is exactly zero.
func (a *Asset) UnitBookCost() float64 {
	return a.BookCost.Div(a.Holding).InexactFloat64()
}

// SellDate returns the disposal date, or today for an open position.
func (a *Asset) SellDate() date.Date {
	if a.DateSold.IsZero() {
		return date.Today()
	}
	return a.DateSold
}

// HoldingWindow returns the range of dates during which the asset is held.
func (a *Asset) HoldingWindow() date.Range {
	return date.NewRange(a.DateBought, a.SellDate())
}

// Validate checks the asset definition for configuration errors.
func (a *Asset) Validate() error {
	if a.Ticker == "" {
		return fmt.Errorf("asset %q: ticker cannot be empty", a.Name)
	}
	if err := ValidateCurrency(a.Currency); err != nil {
		return fmt.Errorf("asset %q: %w", a.Name, err)
	}
	if _, ok := LookupVenue(a.Venue); !ok {
		return fmt.Errorf("asset %q: unknown venue %q", a.Name, a.Venue)
	}
	if !a.Holding.IsPositive() {
		return fmt.Errorf("asset %q: holding must be positive, got %s", a.Name, a.Holding)
	}
	if a.BookCost.IsNegative() {
		return fmt.Errorf("asset %q: book cost cannot be negative, got %s", a.Name, a.BookCost)
	}
	if !a.DateSold.IsZero() && a.DateSold.Before(a.DateBought) {
		return fmt.Errorf("asset %q: sold on %s before bought on %s", a.Name, a.DateSold, a.DateBought)
	}
	return nil
}

// jasset is the asset definition as read from the portfolio file.
type jasset struct {
	Name       string           `json:"name"`
	Ticker     string           `json:"ticker"`
	Currency   string           `json:"currency"`
	Exchange   string           `json:"exchange"`
	Holding    decimal.Decimal  `json:"holding"`
	BookCost   decimal.Decimal  `json:"book_cost"`
	Commission decimal.Decimal  `json:"commission"`
	FXCharge   decimal.Decimal  `json:"fx_charge"`
	DateBought *date.Date       `json:"date_bought"`
	DateSold   *date.Date       `json:"date_sold"`
}

// DecodeAssets parses a portfolio definition: a JSON array of asset records.
// An omitted purchase date defaults to today; an omitted disposal date
// declares an open position. Every asset is validated, and duplicate tickers
// are rejected since the ticker keys the price cache.
func DecodeAssets(r []byte) ([]*Asset, error) {
	var defs []jasset
	if err := json.Unmarshal(r, &defs); err != nil {
		return nil, fmt.Errorf("format error in portfolio definition: %w", err)
	}

	assets := make([]*Asset, 0, len(defs))
	seen := make(map[string]struct{}, len(defs))
	for _, def := range defs {
		a := &Asset{
			Name:       def.Name,
			Ticker:     def.Ticker,
			Currency:   def.Currency,
			Venue:      def.Exchange,
			Holding:    def.Holding,
			BookCost:   def.BookCost,
			Commission: def.Commission,
			FXCharge:   def.FXCharge,
			DateBought: date.Today(),
		}
		if def.DateBought != nil {
			a.DateBought = *def.DateBought
		}
		if def.DateSold != nil {
			a.DateSold = *def.DateSold
		}
		if err := a.Validate(); err != nil {
			return nil, err
		}
		if _, dup := seen[a.Key()]; dup {
			return nil, fmt.Errorf("asset %q: ticker %q is already defined", a.Name, a.Ticker)
		}
		seen[a.Key()] = struct{}{}
		assets = append(assets, a)
	}
	return assets, nil
}

// LoadAssets reads and decodes the portfolio definition file.
func LoadAssets(filename string) ([]*Asset, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("cannot open portfolio file %q: %w", filename, err)
	}
	assets, err := DecodeAssets(content)
	if err != nil {
		return nil, fmt.Errorf("cannot load portfolio file %q: %w", filename, err)
	}
	return assets, nil
}
