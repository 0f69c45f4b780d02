package portfolio

import (
	"strings"
	"time"
)

// DateRange identifies a performance comparison window ending today.
type DateRange string

const (
	Range1D  DateRange = "1d"
	RangeYTD DateRange = "ytd"
	Range1Y  DateRange = "1y"
	Range5Y  DateRange = "5y"
	RangeMax DateRange = "max"
)

// ParseDateRange parses a date range string. An unrecognized value falls back
// to RangeMax silently.
func ParseDateRange(s string) DateRange {
	switch DateRange(strings.ToLower(strings.TrimSpace(s))) {
	case Range1D:
		return Range1D
	case RangeYTD:
		return RangeYTD
	case Range1Y:
		return Range1Y
	case Range5Y:
		return Range5Y
	default:
		return RangeMax
	}
}

// AnchorDate resolves the range to the historical date used as the
// performance-comparison baseline. minDate is the earliest transaction date;
// anchors never precede its month start, so a range larger than the history
// collapses to max.
func (r DateRange) AnchorDate(minDate, today Date) Date {
	min := minDate.StartOfMonth()
	var anchor Date
	switch r {
	case Range1D:
		anchor = today.Add(-1)
	case RangeYTD:
		anchor = NewDate(today.Year(), time.January, 1)
	case Range1Y:
		anchor = today.StartOfMonth().AddMonth(-12)
	case Range5Y:
		anchor = today.StartOfMonth().AddMonth(-60)
	default: // RangeMax
		return min
	}
	if anchor.Before(min) {
		return min
	}
	return anchor
}
