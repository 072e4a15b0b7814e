package stockwatch

import (
	"strings"
	"testing"

	"github.com/rgould/stockwatch/date"
	"github.com/shopspring/decimal"
)

func validAsset() *Asset {
	return &Asset{
		Name:       "Acme plc",
		Ticker:     "ACME.L",
		Currency:   "GBP",
		Venue:      "LSE",
		Holding:    decimal.NewFromInt(10),
		BookCost:   decimal.NewFromInt(100000),
		DateBought: date.MustParse("2025-07-01"),
	}
}

func TestAssetValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(a *Asset)
		wantErr string
	}{
		{"valid", func(a *Asset) {}, ""},
		{"empty ticker", func(a *Asset) { a.Ticker = "" }, "ticker"},
		{"bad currency", func(a *Asset) { a.Currency = "pounds" }, "currency"},
		{"unknown venue", func(a *Asset) { a.Venue = "NYSE" }, "venue"},
		{"zero holding", func(a *Asset) { a.Holding = decimal.Zero }, "holding"},
		{"negative book cost", func(a *Asset) { a.BookCost = decimal.NewFromInt(-1) }, "book cost"},
		{"sold before bought", func(a *Asset) { a.DateSold = date.MustParse("2025-06-30") }, "before"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := validAsset()
			tt.mutate(a)
			err := a.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error mentioning %q", err, tt.wantErr)
			}
		})
	}
}

func TestAssetUnitBookCost(t *testing.T) {
	a := validAsset()
	if got := a.UnitBookCost(); got != 10000 {
		t.Errorf("UnitBookCost() = %v, want 10000", got)
	}
}

func TestAssetSellDate(t *testing.T) {
	a := validAsset()
	if got := a.SellDate(); got != date.Today() {
		t.Errorf("SellDate() for an open position = %s, want today", got)
	}
	a.DateSold = date.MustParse("2025-08-01")
	if got := a.SellDate(); got != a.DateSold {
		t.Errorf("SellDate() = %s, want %s", got, a.DateSold)
	}
}

func TestDecodeAssets(t *testing.T) {
	content := []byte(`[
		{"name": "Acme plc", "ticker": "ACME.L", "currency": "GBP", "exchange": "LSE",
		 "holding": "10", "book_cost": "100000", "date_bought": "2025-07-01"},
		{"name": "Bitcoin", "ticker": "BTC-GBP", "currency": "GBP", "exchange": "CRYPTO",
		 "holding": "0.5", "book_cost": "2500000"}
	]`)

	assets, err := DecodeAssets(content)
	if err != nil {
		t.Fatalf("DecodeAssets() error = %v", err)
	}
	if len(assets) != 2 {
		t.Fatalf("got %d assets, want 2", len(assets))
	}
	if got := assets[0].DateBought; got != date.MustParse("2025-07-01") {
		t.Errorf("DateBought = %s, want 2025-07-01", got)
	}
	if got := assets[1].DateBought; got != date.Today() {
		t.Errorf("omitted DateBought = %s, want today", got)
	}
	if !assets[1].DateSold.IsZero() {
		t.Errorf("omitted DateSold = %s, want zero (open position)", assets[1].DateSold)
	}
	if got := assets[0].Key(); got != "ACME.L" {
		t.Errorf("Key() = %q, want the ticker", got)
	}
}

func TestDecodeAssetsRejectsDuplicateTickers(t *testing.T) {
	content := []byte(`[
		{"name": "Acme", "ticker": "ACME.L", "currency": "GBP", "exchange": "LSE", "holding": "1", "book_cost": "100"},
		{"name": "Acme again", "ticker": "ACME.L", "currency": "GBP", "exchange": "LSE", "holding": "2", "book_cost": "200"}
	]`)
	_, err := DecodeAssets(content)
	if err == nil || !strings.Contains(err.Error(), "already defined") {
		t.Errorf("DecodeAssets() = %v, want a duplicate ticker error", err)
	}
}

func TestDecodeAssetsRejectsInvalid(t *testing.T) {
	content := []byte(`[{"name": "Broken", "ticker": "", "currency": "GBP", "exchange": "LSE", "holding": "1", "book_cost": "1"}]`)
	if _, err := DecodeAssets(content); err == nil {
		t.Error("DecodeAssets() accepted an invalid asset")
	}
}

func TestLoadAssetsMissingFile(t *testing.T) {
	if _, err := LoadAssets("does/not/exist.json"); err == nil {
		t.Error("LoadAssets() on a missing file returned no error")
	}
}
