package portfolio

import (
	"testing"
	"time"
)

func TestHistory_AppendKeepsChronologicalOrder(t *testing.T) {
	h := &History[float64]{}
	h.Append(NewDate(2021, time.December, 18), 3)
	h.Append(NewDate(2021, time.December, 1), 1)
	h.Append(NewDate(2021, time.December, 17), 2)

	var got []float64
	for _, v := range h.Values() {
		got = append(got, v)
	}
	want := []float64{1, 2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Values() = %v, want %v", got, want)
		}
	}
}

func TestHistory_AppendOverwritesSameDay(t *testing.T) {
	h := &History[float64]{}
	on := NewDate(2021, time.December, 18)
	h.Append(on, 1).Append(on, 2)

	if h.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", h.Len())
	}
	if v, _ := h.Get(on); v != 2 {
		t.Errorf("Get() = %v, want 2", v)
	}
}

func TestHistory_ValueAsOf(t *testing.T) {
	h := &History[float64]{}
	h.Append(NewDate(2021, time.December, 1), 1)
	h.Append(NewDate(2021, time.December, 10), 2)

	testCases := []struct {
		name   string
		on     Date
		want   float64
		wantOk bool
	}{
		{"exact", NewDate(2021, time.December, 10), 2, true},
		{"between", NewDate(2021, time.December, 5), 1, true},
		{"after last", NewDate(2021, time.December, 18), 2, true},
		{"before first", NewDate(2021, time.November, 30), 0, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := h.ValueAsOf(tc.on)
			if got != tc.want || ok != tc.wantOk {
				t.Errorf("ValueAsOf(%s) = %v, %v, want %v, %v", tc.on, got, ok, tc.want, tc.wantOk)
			}
		})
	}
}

func TestHistory_Latest(t *testing.T) {
	h := &History[float64]{}
	if day, v := h.Latest(); !day.IsZero() || v != 0 {
		t.Errorf("Latest() on empty = %s, %v", day, v)
	}
	h.Append(NewDate(2021, time.December, 1), 1)
	h.Append(NewDate(2021, time.December, 18), 2)
	if day, v := h.Latest(); day != NewDate(2021, time.December, 18) || v != 2 {
		t.Errorf("Latest() = %s, %v, want 2021-12-18, 2", day, v)
	}
}
