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

type ReviewController struct {
	reviews *services.ReviewService
	rdb     *redis.Client
	logger  logger.Logger
}

type ReviewControllerOptions struct {
	Reviews *services.ReviewService
	Redis   *redis.Client
	Logger  logger.Logger
}

func NewReviewController(opts ReviewControllerOptions) *ReviewController {
	return &ReviewController{
		reviews: opts.Reviews,
		rdb:     opts.Redis,
		logger:  opts.Logger,
	}
}

// Create stores a star rating. Reviews are immutable once written.
func (ctrl *ReviewController) Create(c *gin.Context) {
	var req dto.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid review data")
		return
	}

	review, err := ctrl.reviews.Create(middleware.CurrentUserID(c), req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	// The detail payload embeds review stats.
	invalidateListingDetail(ctrl.rdb, ctrl.logger, review.ListingID)

	response.Created(c, dto.ReviewResponse{
		ID:        review.ID,
		ListingID: review.ListingID,
		Stars:     review.Stars,
		Text:      review.Text,
		CreatedAt: review.CreatedAt,
	})
}

// ListByListing returns a listing's reviews with the star histogram.
func (ctrl *ReviewController) ListByListing(c *gin.Context) {
	listingID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "Invalid listing id")
		return
	}

	result, err := ctrl.reviews.ListByListing(c.Request.Context(), listingID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, result)
}

// MyHostReviews aggregates reviews across all of the caller's listings.
func (ctrl *ReviewController) MyHostReviews(c *gin.Context) {
	ctrl.hostReviews(c, middleware.CurrentUserID(c))
}

// HostReviews is the public variant for a host's profile page.
func (ctrl *ReviewController) HostReviews(c *gin.Context) {
	ctrl.hostReviews(c, c.Param("id"))
}

func (ctrl *ReviewController) hostReviews(c *gin.Context, hostID string) {
	result, err := ctrl.reviews.ListForHost(c.Request.Context(), hostID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, result)
}
