package dto

type CreateFavoriteRequest struct {
	ListingID uint `json:"listingId" binding:"required"`
}

type FavoriteResponse struct {
	ID        uint   `json:"id"`
	UserID    string `json:"userId"`
	ListingID uint   `json:"listingId"`
}
