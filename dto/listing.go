package dto

import "time"

type CreateListingRequest struct {
	Title       string   `json:"title" binding:"required"`
	Description string   `json:"description"`
	Category    string   `json:"category" binding:"required,listing_category"`
	Price       int      `json:"price" binding:"required,min=1"`
	Beds        int      `json:"beds" binding:"required,min=1"`
	Baths       int      `json:"baths" binding:"min=0"`
	City        string   `json:"city" binding:"required"`
	Country     string   `json:"country" binding:"required"`
	Images      []string `json:"images"`
}

type UpdateListingRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Price       int      `json:"price"`
	Beds        int      `json:"beds"`
	Baths       int      `json:"baths"`
	City        string   `json:"city"`
	Country     string   `json:"country"`
	Images      []string `json:"images"`
}

type ListingResponse struct {
	ID          uint      `json:"id"`
	UserID      string    `json:"userId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Price       int       `json:"price"`
	Beds        int       `json:"beds"`
	Baths       int       `json:"baths"`
	City        string    `json:"city"`
	Country     string    `json:"country"`
	CreatedAt   time.Time `json:"createdAt"`
	Images      []string  `json:"images"`
}

// EnrichedListing is one search result: the listing plus its read-time
// derived metrics and author info.
type EnrichedListing struct {
	Listing       ListingResponse `json:"listing"`
	Author        *IdentityUser   `json:"author,omitempty"`
	Stars         *float64        `json:"stars,omitempty"`
	Favorites     int             `json:"favorites"`
	Favorite      bool            `json:"favorite"`
	BookingStatus *string         `json:"bookingStatus,omitempty"`
}

// SearchListingsResponse is a cursor-paginated search page. Suggestion is
// only set when the page came back empty for a text search.
type SearchListingsResponse struct {
	Items      []EnrichedListing `json:"items"`
	NextCursor *uint             `json:"nextCursor,omitempty"`
	TotalCount int               `json:"totalCount"`
	Suggestion string            `json:"suggestion,omitempty"`
}

// ListingDetailResponse adds what the listing page needs on top of the
// enriched listing: disabled dates for the picker and review stats.
type ListingDetailResponse struct {
	EnrichedListing
	BookedRanges []DateRangeResponse `json:"bookedRanges"`
	ReviewStats  ReviewStatsResponse `json:"reviewStats"`
}

type DateRangeResponse struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}
