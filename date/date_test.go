package date

import (
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name      string
		str       string
		want      Date
		expectErr bool
	}{
		{"Standard format", "2024-03-05", New(2024, time.March, 5), false},
		{"Permissive format", "2024-3-5", New(2024, time.March, 5), false},
		{"Invalid month", "2024-13-05", Date{}, true},
		{"Not a date", "yesterday", Date{}, true},
		{"Empty string", "", Date{}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.str)
			hasErr := err != nil
			if hasErr != tc.expectErr {
				t.Fatalf("Parse(%q) returned error: %v, want error: %v", tc.str, err, tc.expectErr)
			}
			if !hasErr && got != tc.want {
				t.Errorf("Parse(%q) = %v want %v", tc.str, got, tc.want)
			}
		})
	}
}

func TestAddNormalizes(t *testing.T) {
	d := New(2024, time.December, 31).Add(1)
	if want := New(2025, time.January, 1); d != want {
		t.Errorf("Add(1) = %v want %v", d, want)
	}
	d = New(2024, time.March, 1).Add(-1)
	if want := New(2024, time.February, 29); d != want {
		t.Errorf("Add(-1) = %v want %v", d, want)
	}
}

func TestAt(t *testing.T) {
	d := New(2024, time.June, 3)
	got := d.At(8 * time.Hour)
	want := time.Date(2024, time.June, 3, 8, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("At(8h) = %v want %v", got, want)
	}
}

func TestFromTime(t *testing.T) {
	// 23:30 in UTC+2 is 21:30 UTC, still the same day.
	loc := time.FixedZone("CEST", 2*3600)
	instant := time.Date(2024, time.June, 3, 23, 30, 0, 0, loc)
	if got, want := FromTime(instant), New(2024, time.June, 3); got != want {
		t.Errorf("FromTime(%v) = %v want %v", instant, got, want)
	}
}

func TestRange(t *testing.T) {
	r := NewRange(New(2024, time.June, 1), New(2024, time.June, 10))

	if !r.Contains(New(2024, time.June, 1)) {
		t.Error("Contains(from) = false want true")
	}
	if !r.Contains(New(2024, time.June, 10)) {
		t.Error("Contains(to) = false want true")
	}
	if r.Contains(New(2024, time.May, 31)) {
		t.Error("Contains(before from) = true want false")
	}
	if r.Contains(New(2024, time.June, 11)) {
		t.Error("Contains(after to) = true want false")
	}
	if got := r.Days(); got != 10 {
		t.Errorf("Days() = %d want 10", got)
	}
}
