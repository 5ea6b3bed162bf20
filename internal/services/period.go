package services

import (
	"fmt"
	"time"
)

// Period is the lookback window of a stats report.
type Period string

const (
	Period1d  Period = "1d"
	Period7d  Period = "7d"
	Period30d Period = "30d"
	Period90d Period = "90d"
	PeriodAll Period = "all"

	DefaultPeriod = Period7d
)

var periodWindows = map[Period]time.Duration{
	Period1d:  24 * time.Hour,
	Period7d:  7 * 24 * time.Hour,
	Period30d: 30 * 24 * time.Hour,
	Period90d: 90 * 24 * time.Hour,
	PeriodAll: 0,
}

// ParsePeriod maps the query value to a Period; "" yields DefaultPeriod.
func ParsePeriod(s string) (Period, error) {
	if s == "" {
		return DefaultPeriod, nil
	}
	p := Period(s)
	if _, ok := periodWindows[p]; !ok {
		return "", fmt.Errorf("%w: %q (want 1d, 7d, 30d, 90d or all)", ErrInvalidPeriod, s)
	}
	return p, nil
}

// Since is the start of the window ending at now. Zero for PeriodAll.
func (p Period) Since(now time.Time) time.Time {
	window := periodWindows[p]
	if window == 0 {
		return time.Time{}
	}
	return now.UTC().Add(-window)
}
