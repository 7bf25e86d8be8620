package models

import "time"

// Favorite is membership only: one row per (user, listing) pair.
type Favorite struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"userId" gorm:"uniqueIndex:idx_user_listing"`
	ListingID uint      `json:"listingId" gorm:"uniqueIndex:idx_user_listing"`
	Listing   Listing   `json:"listing" gorm:"foreignKey:ListingID"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime"`
}
