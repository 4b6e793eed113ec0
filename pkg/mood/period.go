package mood

import (
	"fmt"
	"strings"
	"time"
)

// Period labels the bounded window a trend is computed over.
type Period string

const (
	PeriodWeek    Period = "week"
	PeriodMonth   Period = "month"
	PeriodQuarter Period = "quarter"
)

// Days returns the window length in calendar days.
func (p Period) Days() int {
	switch p {
	case PeriodWeek:
		return 7
	case PeriodMonth:
		return 30
	case PeriodQuarter:
		return 90
	default:
		return 7
	}
}

// Window returns the [start,end] bounds ending at now.
func (p Period) Window(now time.Time) (time.Time, time.Time) {
	return now.AddDate(0, 0, -p.Days()), now
}

// ParsePeriod parses a period label, defaulting nothing: unknown labels error.
func ParsePeriod(s string) (Period, error) {
	switch Period(strings.ToLower(strings.TrimSpace(s))) {
	case PeriodWeek:
		return PeriodWeek, nil
	case PeriodMonth:
		return PeriodMonth, nil
	case PeriodQuarter:
		return PeriodQuarter, nil
	default:
		return "", fmt.Errorf("mood: unknown period %q (want week, month, or quarter)", s)
	}
}
