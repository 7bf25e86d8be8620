package models

import (
	"fmt"
	"time"
)

// Listing categories
const (
	CategoryApartment  = "apartment"
	CategoryHouse      = "house"
	CategoryHotel      = "hotel"
	CategoryGuesthouse = "guesthouse"
	CategoryHostel     = "hostel"
	CategoryBnb        = "bnb"
	CategoryOther      = "other"
)

var listingCategories = map[string]bool{
	CategoryApartment:  true,
	CategoryHouse:      true,
	CategoryHotel:      true,
	CategoryGuesthouse: true,
	CategoryHostel:     true,
	CategoryBnb:        true,
	CategoryOther:      true,
}

type Listing struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	UserID      string         `json:"userId" gorm:"index"` // identity provider id
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Category    string         `json:"category"`
	Price       int            `json:"price"` // per night, minor units
	Beds        int            `json:"beds"`
	Baths       int            `json:"baths"`
	City        string         `json:"city"`
	Country     string         `json:"country"`
	CreatedAt   time.Time      `json:"createdAt" gorm:"autoCreateTime"`
	UpdatedAt   time.Time      `json:"updatedAt" gorm:"autoUpdateTime"`
	Images      []ListingImage `json:"images" gorm:"foreignKey:ListingID;constraint:OnDelete:CASCADE"`
}

// ListingImage is one entry of a listing's ordered image list. Rows are
// removed together with their listing.
type ListingImage struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	ListingID uint   `json:"listingId" gorm:"index"`
	URL       string `json:"url"`
	Position  int    `json:"position"`
}

func (l *Listing) ValidateCategory() error {
	if !listingCategories[l.Category] {
		return fmt.Errorf("invalid category: %q", l.Category)
	}
	return nil
}

func (l *Listing) ValidatePrice() error {
	if l.Price <= 0 {
		return fmt.Errorf("invalid price: %d, must be positive", l.Price)
	}
	return nil
}
