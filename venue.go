package stockwatch

import "time"

// Venue describes the trading sessions of a market place. Session bounds are
// offsets from each trading day's midnight UTC, so a sample taken at the
// session close of day D is timestamped D+Close.
type Venue struct {
	Name  string
	Open  time.Duration
	Close time.Duration
	// Crypto venues quote in major units; their values are scaled by 100 to
	// match the minor-unit convention of the other venues.
	Crypto bool
}

// venues lists the supported trading venues and their session hours.
var venues = map[string]Venue{
	"LSE":    {Name: "LSE", Open: 8 * time.Hour, Close: 16*time.Hour + 30*time.Minute},
	"NASDAQ": {Name: "NASDAQ", Open: 14*time.Hour + 30*time.Minute, Close: 21 * time.Hour},
	// CRYPTO trades around the clock; its close sample is taken just before
	// midnight so it stays on its own calendar day instead of colliding with
	// the next day's open.
	"CRYPTO": {Name: "CRYPTO", Open: 0, Close: 23*time.Hour + 59*time.Minute, Crypto: true},
}

// LookupVenue returns the venue with the given identifier.
func LookupVenue(name string) (Venue, bool) {
	v, ok := venues[name]
	return v, ok
}
