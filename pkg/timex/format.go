// Package timex holds the presentation-time helpers: absolute and relative
// timestamp formatting plus a lifecycle-scoped ticking clock.
package timex

import (
	"fmt"
	"time"
)

const (
	longDateLayout     = "January 2, 2006"
	longDateTimeLayout = "January 2, 2006, 3:04 PM"
	shortDateLayout    = "Jan 2, 2006"
	timeLayout         = "3:04 PM"

	// Ages beyond this many whole days render as an absolute short date.
	relativeWindowDays = 30
)

// FormatDate renders t as a long month/day/year date, optionally with the
// time of day appended. A zero time renders as "N/A".
func FormatDate(t time.Time, includeTime bool) string {
	if t.IsZero() {
		return "N/A"
	}
	if includeTime {
		return t.Format(longDateTimeLayout)
	}
	return t.Format(longDateLayout)
}

// FormatTime renders the time of day of t. A zero time renders as "N/A".
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format(timeLayout)
}

// FormatSmartDate renders t relative to now when it is recent, absolute
// otherwise: minutes ago under an hour, hours ago under a day, days ago up
// to and including 30 days, then a short absolute date.
func FormatSmartDate(now, t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}

	age := now.Sub(t)
	if age < 0 {
		age = 0
	}
	days := int(age.Hours() / 24)

	switch {
	case age < time.Hour:
		return plural(int(age.Minutes()), "min")
	case days < 1:
		return plural(int(age.Hours()), "hr")
	case days <= relativeWindowDays:
		return plural(days, "day")
	default:
		return t.Format(shortDateLayout)
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}
