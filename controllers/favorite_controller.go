package controllers

import (
	"github.com/nader31/place-to-stay/dto"
	"github.com/nader31/place-to-stay/middleware"
	"github.com/nader31/place-to-stay/response"
	"github.com/nader31/place-to-stay/services"
	"github.com/nader31/place-to-stay/services/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type FavoriteController struct {
	favorites *services.FavoriteService
	rdb       *redis.Client
	logger    logger.Logger
}

type FavoriteControllerOptions struct {
	Favorites *services.FavoriteService
	Redis     *redis.Client
	Logger    logger.Logger
}

func NewFavoriteController(opts FavoriteControllerOptions) *FavoriteController {
	return &FavoriteController{
		favorites: opts.Favorites,
		rdb:       opts.Redis,
		logger:    opts.Logger,
	}
}

// Create marks a listing as a favorite of the caller.
func (ctrl *FavoriteController) Create(c *gin.Context) {
	var req dto.CreateFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid favorite data")
		return
	}

	favorite, err := ctrl.favorites.Create(middleware.CurrentUserID(c), req.ListingID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	// The detail payload embeds the favorite count.
	invalidateListingDetail(ctrl.rdb, ctrl.logger, favorite.ListingID)

	response.Created(c, dto.FavoriteResponse{
		ID:        favorite.ID,
		UserID:    favorite.UserID,
		ListingID: favorite.ListingID,
	})
}

// Delete removes the caller's favorite on a listing.
func (ctrl *FavoriteController) Delete(c *gin.Context) {
	listingID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "Invalid listing id")
		return
	}

	if err := ctrl.favorites.Delete(middleware.CurrentUserID(c), listingID); err != nil {
		handleServiceError(c, err)
		return
	}

	invalidateListingDetail(ctrl.rdb, ctrl.logger, listingID)
	response.Success(c, gin.H{"deleted": true})
}

// MyFavorites returns the caller's favorited listings, newest first, with
// the same enrichment the search results carry.
func (ctrl *FavoriteController) MyFavorites(c *gin.Context) {
	items, err := ctrl.favorites.ListByUser(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, items)
}
