package models

import (
	"fmt"
	"time"
)

// Periods the dashboard offers, mirroring what market data providers accept
// for daily-bar history requests.
var periodDays = map[string]int{
	"1d":  1,
	"5d":  5,
	"1mo": 30,
	"3mo": 90,
	"6mo": 180,
	"1y":  365,
}

// -----------------------------------------------------------------------------

// ParsePeriod resolves a period string to the calendar-day span it covers.
func ParsePeriod(period string) (int, error) {
	days, ok := periodDays[period]
	if !ok {
		return 0, fmt.Errorf("unsupported period %q", period)
	}
	return days, nil
}

// -----------------------------------------------------------------------------

// PeriodStart returns the inclusive start of a period window ending at now.
func PeriodStart(period string, now time.Time) (time.Time, error) {
	days, err := ParsePeriod(period)
	if err != nil {
		return time.Time{}, err
	}
	return now.AddDate(0, 0, -days), nil
}

// -----------------------------------------------------------------------------

// ValidPeriods lists the supported period strings for config validation and
// the /api/config endpoint.
func ValidPeriods() []string {
	return []string{"1d", "5d", "1mo", "3mo", "6mo", "1y"}
}
