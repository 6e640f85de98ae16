package workouts

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string as a plain calendar date.
// Only the year/month/day components matter - no timezone conversion
// is performed, so a date string always round-trips to the same
// weekday, month and quarter regardless of the host timezone.
func ParseDate(dateStr string) (time.Time, error) {
	d, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date [%s]: %w", dateStr, err)
	}
	return d, nil
}

// FormatDate renders a calendar date back to its YYYY-MM-DD form.
func FormatDate(d time.Time) string {
	return d.Format(dateLayout)
}

// Month returns the 0-based month of the given date.
func Month(d time.Time) int {
	return int(d.Month()) - 1
}

// Quarter returns the 1-based quarter of the given date.
func Quarter(d time.Time) int {
	return Month(d)/3 + 1
}

// DayOfWeek returns the ISO day of week: Monday=0 ... Sunday=6.
func DayOfWeek(d time.Time) int {
	return (int(d.Weekday()) + 6) % 7
}

// StartOfWeek returns the Monday 00:00:00 on or before the given
// instant. Sunday maps to the previous Monday, not the next one.
func StartOfWeek(t time.Time) time.Time {
	d := t.AddDate(0, 0, -DayOfWeek(t))
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, t.Location())
}
