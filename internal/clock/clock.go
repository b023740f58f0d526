package clock

import "time"

// NowUTC returns the current instant in UTC. All economy math runs on UTC
// so that every user shares one unambiguous day boundary.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// DateOf truncates an instant to its UTC calendar date (midnight UTC).
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TodayUTC returns the current UTC calendar date.
func TodayUTC() time.Time {
	return DateOf(time.Now())
}
