package services

import (
	"context"
	stderrors "errors"

	"github.com/nader31/place-to-stay/dto"
	"github.com/nader31/place-to-stay/errors"
	"github.com/nader31/place-to-stay/models"
	"github.com/nader31/place-to-stay/services/logger"
	"github.com/nader31/place-to-stay/validator"

	"gorm.io/gorm"
)

// hostReviewPreview is how many text reviews a host profile shows.
const hostReviewPreview = 3

// ReviewService stores immutable star ratings. There is no update or delete
// path once a review is written.
type ReviewService struct {
	db          *gorm.DB
	aggregation *AggregationService
	identity    *IdentityService
	logger      logger.Logger
}

type ReviewServiceOptions struct {
	DB          *gorm.DB
	Aggregation *AggregationService
	Identity    *IdentityService
	Logger      logger.Logger
}

func NewReviewService(opts ReviewServiceOptions) *ReviewService {
	return &ReviewService{
		db:          opts.DB,
		aggregation: opts.Aggregation,
		identity:    opts.Identity,
		logger:      opts.Logger,
	}
}

// Create stores a review with stars in 1..5 and optional text.
func (s *ReviewService) Create(authorID string, req dto.CreateReviewRequest) (*models.Review, error) {
	var listing models.Listing
	if err := s.db.First(&listing, req.ListingID).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewAppError(errors.ErrCodeNotFound, "Listing not found", errors.ErrListingNotFound)
		}
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Cannot load listing", err)
	}

	review := models.Review{
		ListingID: req.ListingID,
		UserID:    authorID,
		Stars:     req.Stars,
		Text:      req.Text,
	}
	if err := validator.ValidateReview(&review); err != nil {
		return nil, err
	}

	if err := s.db.Create(&review).Error; err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Cannot create review", err)
	}
	return &review, nil
}

// ListByListing returns a listing's reviews, newest first, with aggregate
// stats and enriched authors.
func (s *ReviewService) ListByListing(ctx context.Context, listingID uint) (*dto.ListingReviewsResponse, error) {
	var reviews []models.Review
	err := s.db.Model(&models.Review{}).
		Where("listing_id = ?", listingID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Cannot load reviews", err)
	}

	stats, err := s.aggregation.ReviewStats([]uint{listingID})
	if err != nil {
		return nil, err
	}

	items, err := s.toResponses(ctx, reviews)
	if err != nil {
		return nil, err
	}

	return &dto.ListingReviewsResponse{
		Reviews:             items,
		ReviewStatsResponse: stats,
	}, nil
}

// ListForHost aggregates reviews across every listing a host owns: the full
// histogram plus a short preview of the newest reviews that carry text.
func (s *ReviewService) ListForHost(ctx context.Context, hostID string) (*dto.ListingReviewsResponse, error) {
	var listingIDs []uint
	err := s.db.Model(&models.Listing{}).Where("user_id = ?", hostID).Pluck("id", &listingIDs).Error
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Cannot load host listings", err)
	}

	stats, err := s.aggregation.ReviewStats(listingIDs)
	if err != nil {
		return nil, err
	}

	result := &dto.ListingReviewsResponse{
		Reviews:             []dto.ReviewResponse{},
		ReviewStatsResponse: stats,
	}
	if len(listingIDs) == 0 {
		return result, nil
	}

	var reviews []models.Review
	err = s.db.Model(&models.Review{}).
		Where("listing_id IN ? AND text <> ''", listingIDs).
		Order("created_at DESC").
		Limit(hostReviewPreview).
		Find(&reviews).Error
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Cannot load reviews", err)
	}

	items, err := s.toResponses(ctx, reviews)
	if err != nil {
		return nil, err
	}
	result.Reviews = items
	return result, nil
}

func (s *ReviewService) toResponses(ctx context.Context, reviews []models.Review) ([]dto.ReviewResponse, error) {
	authorIDs := make([]string, 0, len(reviews))
	for _, review := range reviews {
		authorIDs = append(authorIDs, review.UserID)
	}
	authors, err := s.identity.GetUsers(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	items := make([]dto.ReviewResponse, 0, len(reviews))
	for _, review := range reviews {
		item := dto.ReviewResponse{
			ID:        review.ID,
			ListingID: review.ListingID,
			Stars:     review.Stars,
			Text:      review.Text,
			CreatedAt: review.CreatedAt,
		}
		if author, ok := authors[review.UserID]; ok {
			authorCopy := author
			item.Author = &authorCopy
		}
		items = append(items, item)
	}
	return items, nil
}
