package stockwatch

import (
	"iter"
	"math"
	"slices"
	"sort"
	"time"

	"github.com/rgould/stockwatch/date"
)

// Series stores a chronological sequence of value samples, each associated
// with a specific instant. Timestamps are unique and the sequence is always
// sorted. A NaN value marks a sample whose price is unknown.
type Series struct {
	times  []time.Time
	values []float64
}

// NewSeries returns a new empty series.
func NewSeries() *Series {
	return &Series{}
}

// Len returns the number of samples in the series.
func (s *Series) Len() int { return len(s.times) }

// Time returns the timestamp of the i-th sample.
func (s *Series) Time(i int) time.Time { return s.times[i] }

// Value returns the value of the i-th sample.
func (s *Series) Value(i int) float64 { return s.values[i] }

// First returns the first sample of the series.
// If the series is empty, it returns zero values.
func (s *Series) First() (t time.Time, value float64) {
	if len(s.times) == 0 {
		return time.Time{}, math.NaN()
	}
	return s.times[0], s.values[0]
}

// Last returns the last sample of the series.
// If the series is empty, it returns zero values.
func (s *Series) Last() (t time.Time, value float64) {
	last := len(s.times) - 1
	if last < 0 {
		return time.Time{}, math.NaN()
	}
	return s.times[last], s.values[last]
}

// chronological is a private implementation to make this series chronologically sorted.
type chronological struct{ *Series }

func (s chronological) Len() int           { return len(s.times) }
func (s chronological) Less(i, j int) bool { return s.times[i].Before(s.times[j]) }
func (s chronological) Swap(i, j int) {
	s.times[i], s.times[j] = s.times[j], s.times[i]
	s.values[i], s.values[j] = s.values[j], s.values[i]
}

func (s *Series) sort() { sort.Sort(chronological{s}) }

// Append adds a sample to the series, keeping it sorted.
//
// An existing value at that exact instant is overwritten: the last data wins.
func (s *Series) Append(t time.Time, v float64) *Series {
	if i := slices.IndexFunc(s.times, t.Equal); i >= 0 {
		s.values[i] = v
		return s
	}
	s.times, s.values = append(s.times, t), append(s.values, v)
	s.sort()
	return s
}

// Samples returns an iterator over all (time, value) pairs in chronological order.
func (s *Series) Samples() iter.Seq2[time.Time, float64] {
	return func(yield func(time.Time, float64) bool) {
		for i, t := range s.times {
			if !yield(t, s.values[i]) {
				return
			}
		}
	}
}

// Clone returns an independent copy of the series.
func (s *Series) Clone() *Series {
	return &Series{
		times:  slices.Clone(s.times),
		values: slices.Clone(s.values),
	}
}

// ForwardFill replaces, in place, every NaN value with the closest earlier
// non-NaN value. Leading NaN samples are left untouched.
func (s *Series) ForwardFill() *Series {
	prev := math.NaN()
	for i, v := range s.values {
		if math.IsNaN(v) {
			s.values[i] = prev
		} else {
			prev = v
		}
	}
	return s
}

// Scale multiplies every value by the given factor, in place.
func (s *Series) Scale(factor float64) *Series {
	for i := range s.values {
		s.values[i] *= factor
	}
	return s
}

// DropDay removes every sample dated on the given calendar day.
func (s *Series) DropDay(day date.Date) *Series {
	times := s.times[:0]
	values := s.values[:0]
	for i, t := range s.times {
		if date.FromTime(t) == day {
			continue
		}
		times = append(times, t)
		values = append(values, s.values[i])
	}
	s.times, s.values = times, values
	return s
}

// TrimLast removes the last sample. Used before persisting: the most recent
// sample is a provisional live value and must be refetched on the next run.
func (s *Series) TrimLast() *Series {
	if last := len(s.times) - 1; last >= 0 {
		s.times, s.values = s.times[:last], s.values[:last]
	}
	return s
}

// TrimTrailingMissing removes every trailing sample whose value is missing.
func (s *Series) TrimTrailingMissing() *Series {
	last := len(s.values)
	for last > 0 && math.IsNaN(s.values[last-1]) {
		last--
	}
	s.times, s.values = s.times[:last], s.values[:last]
	return s
}

// MakeLive replaces the last sample's timestamp with now. If that would make
// the series non-chronological the last sample is stale and is dropped instead.
func (s *Series) MakeLive(now time.Time) *Series {
	last := len(s.times) - 1
	if last < 0 {
		return s
	}
	if last > 0 && now.Before(s.times[last-1]) {
		return s.TrimLast()
	}
	s.times[last] = now
	return s
}

// DailyMean groups samples by calendar day and averages each day's known
// values, approximating a daily representative price. A day whose samples are
// all NaN averages to NaN.
func (s *Series) DailyMean() (days []date.Date, means []float64) {
	var sum float64
	var n int
	var current date.Date
	flush := func() {
		days = append(days, current)
		if n == 0 {
			means = append(means, math.NaN())
		} else {
			means = append(means, sum/float64(n))
		}
		sum, n = 0, 0
	}
	for i, t := range s.times {
		day := date.FromTime(t)
		if i == 0 {
			current = day
		} else if day != current {
			flush()
			current = day
		}
		if v := s.values[i]; !math.IsNaN(v) {
			sum += v
			n++
		}
	}
	if len(s.times) > 0 {
		flush()
	}
	return days, means
}
