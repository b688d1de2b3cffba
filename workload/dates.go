package workload

import "time"

const (
	RiskWindowDays     = 7
	ReminderWindowDays = 3
)

// DateOf drops the time of day, keeping the calendar date as midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate reads a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(time.DateOnly, s)
}

// dueWithin reports whether deadline falls in [from, from+days], both ends inclusive.
func dueWithin(deadline, from time.Time, days int) bool {
	d := DateOf(deadline)
	to := from.AddDate(0, 0, days)
	return !d.Before(from) && !d.After(to)
}
