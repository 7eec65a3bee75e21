package utils

import (
	"time"
)

const dateLayout = "2006-01-02"

// MonthsBetween returns the calendar-month index difference between two
// dates, ignoring the day of month. January to March is 2 regardless of days.
func MonthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}

// EndOfMonth returns the last calendar day of t's month, at midnight.
func EndOfMonth(t time.Time) time.Time {
	firstOfNext := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, -1)
}

// IsLastDayOfMonth reports whether t falls on the last calendar day of its month.
func IsLastDayOfMonth(t time.Time) bool {
	return t.AddDate(0, 0, 1).Day() == 1
}

// SameDay reports whether two dates fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// ParseDate parses a YYYY-MM-DD date string
func ParseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// FormatDate formats a date as YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}
