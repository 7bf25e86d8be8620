package controllers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/nader31/place-to-stay/config"
	"github.com/nader31/place-to-stay/dto"
	"github.com/nader31/place-to-stay/middleware"
	"github.com/nader31/place-to-stay/response"
	"github.com/nader31/place-to-stay/services"
	"github.com/nader31/place-to-stay/services/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const listingDetailTTL = 10 * time.Minute

type ListingController struct {
	listings *services.ListingService
	search   *services.SearchService
	rdb      *redis.Client
	logger   logger.Logger
}

type ListingControllerOptions struct {
	Listings *services.ListingService
	Search   *services.SearchService
	Redis    *redis.Client
	Logger   logger.Logger
}

func NewListingController(opts ListingControllerOptions) *ListingController {
	return &ListingController{
		listings: opts.Listings,
		search:   opts.Search,
		rdb:      opts.Redis,
		logger:   opts.Logger,
	}
}

// Search runs the cursor-paginated listing search. Signed-in viewers get
// personalized results (own listings hidden, favorite flags set).
func (ctrl *ListingController) Search(c *gin.Context) {
	var req dto.SearchListingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, "Invalid search parameters")
		return
	}

	filter := services.SearchFilter{
		Text:      req.Search,
		Category:  req.Category,
		MinBeds:   req.MinBeds,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		ViewerID:  middleware.CurrentUserID(c),
	}

	result, err := ctrl.search.Search(c.Request.Context(), filter, req.Cursor, req.Limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	limit := req.Limit
	if limit <= 0 || limit > services.MaxPageSize {
		limit = services.DefaultPageSize
	}
	response.SuccessWithCursor(c, result, limit, result.TotalCount, result.NextCursor)
}

// GetDetail returns a listing page payload. Anonymous requests are cached;
// signed-in viewers always hit the database because the payload carries
// viewer-specific flags.
func (ctrl *ListingController) GetDetail(c *gin.Context) {
	listingID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "Invalid listing id")
		return
	}
	viewerID := middleware.CurrentUserID(c)

	cacheKey := fmt.Sprintf(listingDetailKeyFormat, listingID)
	if viewerID == "" && ctrl.rdb != nil {
		var cached dto.ListingDetailResponse
		if err := services.GetFromRedis(config.Ctx, ctrl.rdb, cacheKey, &cached); err == nil && cached.Listing.ID != 0 {
			response.Success(c, cached)
			return
		}
	}

	detail, err := ctrl.listings.GetDetail(c.Request.Context(), listingID, viewerID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if viewerID == "" && ctrl.rdb != nil {
		if err := services.SetToRedis(config.Ctx, ctrl.rdb, cacheKey, detail, listingDetailTTL); err != nil {
			ctrl.logger.Error("Cannot cache listing detail: %v", err)
		}
	}

	response.Success(c, detail)
}

func (ctrl *ListingController) Create(c *gin.Context) {
	var req dto.CreateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid listing data")
		return
	}

	listing, err := ctrl.listings.Create(middleware.CurrentUserID(c), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, services.ToListingResponse(*listing))
}

func (ctrl *ListingController) Update(c *gin.Context) {
	listingID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "Invalid listing id")
		return
	}

	var req dto.UpdateListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid listing data")
		return
	}

	listing, err := ctrl.listings.Update(listingID, middleware.CurrentUserID(c), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	ctrl.invalidateDetail(listingID)
	response.Success(c, services.ToListingResponse(*listing))
}

func (ctrl *ListingController) Delete(c *gin.Context) {
	listingID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "Invalid listing id")
		return
	}

	if err := ctrl.listings.Delete(listingID, middleware.CurrentUserID(c)); err != nil {
		handleServiceError(c, err)
		return
	}

	ctrl.invalidateDetail(listingID)
	response.Success(c, gin.H{"deleted": true})
}

// MyListings returns the caller's own listings, newest first.
func (ctrl *ListingController) MyListings(c *gin.Context) {
	ctrl.listByUser(c, middleware.CurrentUserID(c))
}

// ListByUser returns a user's listings for their public profile page.
func (ctrl *ListingController) ListByUser(c *gin.Context) {
	ctrl.listByUser(c, c.Param("id"))
}

func (ctrl *ListingController) listByUser(c *gin.Context, userID string) {
	listings, err := ctrl.listings.ListByUser(userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	items := make([]dto.ListingResponse, 0, len(listings))
	for _, listing := range listings {
		items = append(items, services.ToListingResponse(listing))
	}
	response.Success(c, items)
}

func (ctrl *ListingController) invalidateDetail(listingID uint) {
	invalidateListingDetail(ctrl.rdb, ctrl.logger, listingID)
}

func parseIDParam(c *gin.Context) (uint, error) {
	raw := c.Param("id")
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(parsed), nil
}
