package portfolio

import (
	"encoding/json"
	"testing"
	"time"
)

func TestNewDate_Normalizes(t *testing.T) {
	testCases := []struct {
		name string
		got  Date
		want string
	}{
		{"plain", NewDate(2021, time.December, 18), "2021-12-18"},
		{"month overflow", NewDate(2021, time.Month(13), 1), "2022-01-01"},
		{"day overflow", NewDate(2021, time.November, 31), "2021-12-01"},
		{"day underflow", NewDate(2021, time.March, 0), "2021-02-28"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.got.String(); got != tc.want {
				t.Errorf("NewDate() = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestDate_Arithmetic(t *testing.T) {
	on := NewDate(2021, time.December, 18)

	if got := on.Add(-1); got != NewDate(2021, time.December, 17) {
		t.Errorf("Add(-1) = %s", got)
	}
	if got := on.AddMonth(-12); got != NewDate(2020, time.December, 18) {
		t.Errorf("AddMonth(-12) = %s", got)
	}
	if got := on.StartOfMonth(); got != NewDate(2021, time.December, 1) {
		t.Errorf("StartOfMonth() = %s", got)
	}
	if !on.SameMonth(NewDate(2021, time.December, 1)) {
		t.Error("SameMonth() = false, want true")
	}
	if on.SameMonth(NewDate(2020, time.December, 18)) {
		t.Error("SameMonth() across years = true, want false")
	}
	if !NewDate(2021, time.December, 17).Before(on) {
		t.Error("Before() = false, want true")
	}
	if !on.After(NewDate(2021, time.December, 17)) {
		t.Error("After() = false, want true")
	}
}

func TestParseDate(t *testing.T) {
	testCases := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{"2021-12-18", NewDate(2021, time.December, 18), false},
		{"2021-7-1", NewDate(2021, time.July, 1), false},
		{"18/12/2021", Date{}, true},
		{"", Date{}, true},
	}
	for _, tc := range testCases {
		got, err := ParseDate(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseDate(%q) error = %v, want error: %v", tc.in, err, tc.wantErr)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseDate(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestDate_JSONRoundTrip(t *testing.T) {
	on := NewDate(2021, time.December, 18)
	data, err := json.Marshal(on)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(data) != `"2021-12-18"` {
		t.Errorf("Marshal() = %s", data)
	}
	var back Date
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if back != on {
		t.Errorf("round trip = %s, want %s", back, on)
	}
}

func TestRange_Contains(t *testing.T) {
	r := NewRange(NewDate(2021, time.December, 1), NewDate(2021, time.December, 18))

	if !r.Contains(NewDate(2021, time.December, 1)) {
		t.Error("Contains(from) = false, want true")
	}
	if !r.Contains(NewDate(2021, time.December, 18)) {
		t.Error("Contains(to) = false, want true")
	}
	if r.Contains(NewDate(2021, time.November, 30)) {
		t.Error("Contains(before) = true, want false")
	}

	// NewRange swaps inverted boundaries.
	swapped := NewRange(NewDate(2021, time.December, 18), NewDate(2021, time.December, 1))
	if swapped != r {
		t.Errorf("NewRange(inverted) = %+v, want %+v", swapped, r)
	}
}
