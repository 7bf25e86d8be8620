package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(d int) time.Time {
	return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC)
}

func TestOverlapsHalfOpen(t *testing.T) {
	a := DateRange{Start: day(1), End: day(5)}

	// Checkout on another guest's check-in day is not a conflict.
	assert.False(t, a.Overlaps(DateRange{Start: day(5), End: day(8)}))
	assert.False(t, a.Overlaps(DateRange{Start: day(8), End: day(10)}))

	assert.True(t, a.Overlaps(DateRange{Start: day(4), End: day(8)}))
	assert.True(t, a.Overlaps(DateRange{Start: day(2), End: day(3)}))
	assert.True(t, a.Overlaps(DateRange{Start: day(1), End: day(5)}))
}

func TestOverlapsIsSymmetric(t *testing.T) {
	ranges := []DateRange{
		{Start: day(1), End: day(5)},
		{Start: day(4), End: day(8)},
		{Start: day(5), End: day(9)},
		{Start: day(2), End: day(3)},
	}

	for _, a := range ranges {
		for _, b := range ranges {
			assert.Equal(t, a.Overlaps(b), b.Overlaps(a))
		}
	}
}

func TestNights(t *testing.T) {
	assert.Equal(t, 4, DateRange{Start: day(1), End: day(5)}.Nights())
	assert.Equal(t, 1, DateRange{Start: day(1), End: day(2)}.Nights())

	// Partial days round up.
	partial := DateRange{
		Start: day(1),
		End:   day(2).Add(6 * time.Hour),
	}
	assert.Equal(t, 2, partial.Nights())
}

func TestNormalizeDay(t *testing.T) {
	noisy := time.Date(2026, time.March, 14, 17, 45, 12, 999, time.UTC)
	assert.Equal(t, day(14), NormalizeDay(noisy))
	assert.Equal(t, day(14), NormalizeDay(day(14)))
}

func TestBookingTerminal(t *testing.T) {
	b := Booking{Status: BookingStatusPending}
	assert.False(t, b.IsTerminal())

	b.Status = BookingStatusConfirmed
	assert.True(t, b.IsTerminal())

	b.Status = BookingStatusCanceled
	assert.True(t, b.IsTerminal())
}
