package models

import (
	"fmt"
	"time"
)

// Review is immutable once created; there is no update path.
type Review struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ListingID uint      `json:"listingId" gorm:"index"`
	Listing   Listing   `json:"listing" gorm:"foreignKey:ListingID"`
	UserID    string    `json:"userId"` // author identity id
	Stars     int       `json:"stars"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}

func (r *Review) ValidateStars() error {
	if r.Stars < 1 || r.Stars > 5 {
		return fmt.Errorf("invalid stars: %d, must be between 1 and 5", r.Stars)
	}
	return nil
}
