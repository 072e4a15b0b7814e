package stockwatch

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"time"
)

// timeColumn is the reserved name of the timestamp column.
const timeColumn = "time"

// timestampFormat is the format used to persist sample timestamps.
const timestampFormat = time.RFC3339Nano

// PriceCache persists previously computed per-asset value series as one wide
// table: rows indexed by timestamp, one column per asset key. It only ever
// stores historical samples; each series' live sample is excluded before
// every write since it is provisional and must be refetched on the next run.
type PriceCache struct {
	path   string
	series map[string]*Series  // by asset key
	fresh  map[string]struct{} // keys revalued since the last load
}

// LoadPriceCache reads the wide table from disk. A missing or empty file
// yields an empty cache: every asset will take the cold fetch path.
func LoadPriceCache(path string) (*PriceCache, error) {
	c := &PriceCache{
		path:   path,
		series: make(map[string]*Series),
		fresh:  make(map[string]struct{}),
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot open price cache %q: %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("format error in price cache %q: %w", path, err)
	}
	if len(records) == 0 {
		return c, nil
	}

	header := records[0]
	if len(header) == 0 || header[0] != timeColumn {
		return nil, fmt.Errorf("format error in price cache %q: first column must be %q", path, timeColumn)
	}
	for col := 1; col < len(header); col++ {
		c.series[header[col]] = NewSeries()
	}

	for i, record := range records[1:] {
		if len(record) != len(header) {
			return nil, fmt.Errorf("format error in price cache %q: row %d has %d columns, want %d", path, i+2, len(record), len(header))
		}
		t, err := time.Parse(timestampFormat, record[0])
		if err != nil {
			return nil, fmt.Errorf("format error in price cache %q: row %d: %w", path, i+2, err)
		}
		for col := 1; col < len(header); col++ {
			v := math.NaN()
			if cell := record[col]; cell != "" {
				v, err = strconv.ParseFloat(cell, 64)
				if err != nil {
					return nil, fmt.Errorf("format error in price cache %q: row %d column %q: %w", path, i+2, header[col], err)
				}
			}
			c.series[header[col]].Append(t.UTC(), v)
		}
	}
	return c, nil
}

// Seed returns the cached series for the given asset key, forward-filled, to
// seed that asset's warm valuation path. Saving reindexes short columns onto
// the union of all timestamps; the padding cells are not samples of this
// asset and are trimmed off, so a seed never extends past the asset's own
// data. It returns nil when nothing usable is cached, which sends the asset
// down the cold path.
func (c *PriceCache) Seed(key string) *Series {
	s, ok := c.series[key]
	if !ok {
		return nil
	}
	seed := s.Clone().TrimTrailingMissing()
	if seed.Len() == 0 {
		return nil
	}
	return seed.ForwardFill()
}

// Put records the asset's freshly valued series for the next Save.
func (c *PriceCache) Put(key string, s *Series) {
	c.series[key] = s
	c.fresh[key] = struct{}{}
}

// Save rewrites the wide table: each freshly valued series loses its live
// sample, all remaining timestamps are unioned, and every series is
// reindexed onto that union with missing markers where it has no sample.
// Columns merely loaded from disk are already fully historical and keep
// every row, so an asset dropped from the portfolio does not erode.
func (c *PriceCache) Save() error {
	// Stable column order for a diff-friendly file.
	keys := make([]string, 0, len(c.series))
	for key := range c.series {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	historical := make(map[string]*Series, len(c.series))
	union := make(map[time.Time]struct{})
	for _, key := range keys {
		s := c.series[key].Clone()
		if _, ok := c.fresh[key]; ok {
			s.TrimLast()
		}
		historical[key] = s
		for t := range s.Samples() {
			union[t] = struct{}{}
		}
	}

	stamps := make([]time.Time, 0, len(union))
	for t := range union {
		stamps = append(stamps, t)
	}
	sort.Slice(stamps, func(i, j int) bool { return stamps[i].Before(stamps[j]) })

	f, err := os.Create(c.path)
	if err != nil {
		return fmt.Errorf("cannot create price cache %q: %w", c.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(append([]string{timeColumn}, keys...)); err != nil {
		return fmt.Errorf("cannot write price cache %q: %w", c.path, err)
	}

	// Index each series by timestamp for the reindexing pass.
	indexes := make(map[string]map[time.Time]float64, len(keys))
	for _, key := range keys {
		index := make(map[time.Time]float64, historical[key].Len())
		for t, v := range historical[key].Samples() {
			index[t] = v
		}
		indexes[key] = index
	}

	record := make([]string, len(keys)+1)
	for _, t := range stamps {
		record[0] = t.UTC().Format(timestampFormat)
		for i, key := range keys {
			record[i+1] = ""
			if v, ok := indexes[key][t]; ok && !math.IsNaN(v) {
				record[i+1] = strconv.FormatFloat(v, 'f', -1, 64)
			}
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("cannot write price cache %q: %w", c.path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("cannot write price cache %q: %w", c.path, err)
	}
	return nil
}
