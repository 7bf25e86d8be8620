package dto

import "time"

// IdentityUser is the enriched author shape returned by the identity
// provider. Lookups are batch and tolerant of partial results; a missing id
// simply yields no author on the enriched output.
type IdentityUser struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
}

// SearchListingsRequest carries the listing search filter. MinBeds matches
// the bed count exactly, except the sentinel value 5 which means "5 or more".
type SearchListingsRequest struct {
	Search    string     `form:"search"`
	Category  string     `form:"category"`
	MinBeds   int        `form:"minBeds"`
	StartDate *time.Time `form:"startDate" time_format:"2006-01-02"`
	EndDate   *time.Time `form:"endDate" time_format:"2006-01-02"`
	Cursor    *uint      `form:"cursor"`
	Limit     int        `form:"limit"`
}
