package dto

import "time"

type CreateReviewRequest struct {
	ListingID uint   `json:"listingId" binding:"required"`
	Stars     int    `json:"stars" binding:"required,min=1,max=5"`
	Text      string `json:"text"`
}

type ReviewResponse struct {
	ID        uint          `json:"id"`
	ListingID uint          `json:"listingId"`
	Stars     int           `json:"stars"`
	Text      string        `json:"text"`
	CreatedAt time.Time     `json:"createdAt"`
	Author    *IdentityUser `json:"author,omitempty"`
}

type StarCount struct {
	Rating int   `json:"rating"`
	Count  int64 `json:"count"`
}

// ReviewStatsResponse aggregates a listing's (or host's) reviews.
// AverageStars is omitted entirely when there are no reviews; it is never 0.
type ReviewStatsResponse struct {
	TotalReviews  int64       `json:"totalReviews"`
	AverageStars  *float64    `json:"averageStars,omitempty"`
	CountForStars []StarCount `json:"countForStars"`
}

type ListingReviewsResponse struct {
	Reviews []ReviewResponse `json:"reviews"`
	ReviewStatsResponse
}
