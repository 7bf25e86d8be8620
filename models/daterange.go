package models

import (
	"math"
	"time"
)

// DateRange is a half-open interval [Start, End) over calendar dates.
// Time-of-day is ignored; callers normalize with NormalizeDay.
type DateRange struct {
	Start time.Time `json:"startDate"`
	End   time.Time `json:"endDate"`
}

// Overlaps reports whether two half-open ranges share at least one night.
// A checkout date equal to another booking's check-in date is not a conflict.
func (r DateRange) Overlaps(other DateRange) bool {
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// Nights returns the number of nights in the range, rounding partial days up.
func (r DateRange) Nights() int {
	return int(math.Ceil(r.End.Sub(r.Start).Hours() / 24))
}

// NormalizeDay truncates a timestamp to its date boundary in UTC.
func NormalizeDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
