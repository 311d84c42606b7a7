package utils

import (
	"time"
)

// TimeNowUTC returns the current time in UTC.
func TimeNowUTC() time.Time {
	return time.Now().UTC()
}

// TruncateToDay returns the UTC midnight of the given time. Digest rows are
// keyed by this value, one per calendar date.
func TruncateToDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// AgeInWholeDays returns the number of complete 24h periods between from and now.
func AgeInWholeDays(from, now time.Time) int {
	if now.Before(from) {
		return 0
	}
	return int(now.Sub(from).Hours() / 24)
}
