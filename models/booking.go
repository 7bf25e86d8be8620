package models

import (
	"time"
)

// Booking status values
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCanceled  = "canceled"
)

// Booking holds a guest's request for a listing over [StartDate, EndDate).
// Overlapping pending bookings from different guests may coexist; conflicts
// are resolved by the listing owner at confirmation time.
type Booking struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ListingID uint      `json:"listingId" gorm:"index"`
	Listing   Listing   `json:"listing" gorm:"foreignKey:ListingID"`
	UserID    string    `json:"userId" gorm:"index"` // guest identity id
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Status    string    `json:"status" gorm:"default:pending"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

// Range returns the booking's half-open date range.
func (b *Booking) Range() DateRange {
	return DateRange{Start: b.StartDate, End: b.EndDate}
}

// Nights returns the number of nights booked, rounding partial days up.
func (b *Booking) Nights() int {
	return b.Range().Nights()
}

// IsTerminal reports whether the booking can no longer transition.
func (b *Booking) IsTerminal() bool {
	return b.Status == BookingStatusConfirmed || b.Status == BookingStatusCanceled
}
