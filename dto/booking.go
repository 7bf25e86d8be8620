package dto

import "time"

type CreateBookingRequest struct {
	ListingID uint      `json:"listingId" binding:"required"`
	StartDate time.Time `json:"startDate" binding:"required" time_format:"2006-01-02"`
	EndDate   time.Time `json:"endDate" binding:"required" time_format:"2006-01-02"`
}

type UpdateBookingStatusRequest struct {
	BookingID uint   `json:"bookingId" binding:"required"`
	Status    string `json:"status" binding:"required,oneof=confirmed canceled"`
}

type BookingListingResponse struct {
	ID      uint     `json:"id"`
	UserID  string   `json:"userId"`
	Title   string   `json:"title"`
	City    string   `json:"city"`
	Country string   `json:"country"`
	Price   int      `json:"price"`
	Images  []string `json:"images"`
}

type BookingResponse struct {
	ID        uint                    `json:"id"`
	ListingID uint                    `json:"listingId"`
	Listing   *BookingListingResponse `json:"listing,omitempty"`
	User      *IdentityUser           `json:"user,omitempty"`
	UserID    string                  `json:"userId"`
	StartDate time.Time               `json:"startDate"`
	EndDate   time.Time               `json:"endDate"`
	Status    string                  `json:"status"`
	Nights    int                     `json:"nights"`
	CreatedAt time.Time               `json:"createdAt"`
}

type WithdrawBookingResponse struct {
	Deleted int64 `json:"deleted"`
}
