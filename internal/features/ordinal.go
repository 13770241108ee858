package features

import "time"

// unixEpochOrdinal is the ordinal of 1970-01-01.
const unixEpochOrdinal = 719163

const secondsPerDay = 24 * 60 * 60

// Ordinal returns the proleptic Gregorian ordinal of t's calendar date,
// where 0001-01-01 is day 1. The time of day and location are ignored.
func Ordinal(t time.Time) int64 {
	y, m, d := t.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return midnight.Unix()/secondsPerDay + unixEpochOrdinal
}
