package portfolio

import (
	"testing"
	"time"
)

func TestParseDateRange(t *testing.T) {
	testCases := []struct {
		in   string
		want DateRange
	}{
		{"1d", Range1D},
		{"YTD", RangeYTD},
		{" 1y ", Range1Y},
		{"5y", Range5Y},
		{"max", RangeMax},
		{"all", RangeMax},
		{"", RangeMax},
	}
	for _, tc := range testCases {
		if got := ParseDateRange(tc.in); got != tc.want {
			t.Errorf("ParseDateRange(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDateRange_AnchorDate(t *testing.T) {
	today := NewDate(2021, time.December, 18)
	minDate := NewDate(2015, time.January, 3)

	testCases := []struct {
		rng  DateRange
		want Date
	}{
		{Range1D, NewDate(2021, time.December, 17)},
		{RangeYTD, NewDate(2021, time.January, 1)},
		{Range1Y, NewDate(2020, time.December, 1)},
		{Range5Y, NewDate(2016, time.December, 1)},
		{RangeMax, NewDate(2015, time.January, 1)},
	}
	for _, tc := range testCases {
		t.Run(string(tc.rng), func(t *testing.T) {
			if got := tc.rng.AnchorDate(minDate, today); got != tc.want {
				t.Errorf("AnchorDate() = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestDateRange_AnchorDateClampsToHistory(t *testing.T) {
	today := NewDate(2021, time.December, 18)
	minDate := NewDate(2021, time.June, 15)
	want := NewDate(2021, time.June, 1)

	for _, rng := range []DateRange{Range1Y, Range5Y, RangeYTD, RangeMax} {
		if got := rng.AnchorDate(minDate, today); got != want {
			t.Errorf("AnchorDate(%q) = %s, want clamp to %s", rng, got, want)
		}
	}
}
