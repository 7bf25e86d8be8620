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

// ListingService owns the listing lifecycle: created by its owner, mutated
// only by its owner, deleted together with its images. Bookings, reviews and
// favorites are left in place as detached history.
type ListingService struct {
	db          *gorm.DB
	aggregation *AggregationService
	bookings    *BookingService
	identity    *IdentityService
	logger      logger.Logger
}

type ListingServiceOptions struct {
	DB          *gorm.DB
	Aggregation *AggregationService
	Bookings    *BookingService
	Identity    *IdentityService
	Logger      logger.Logger
}

func NewListingService(opts ListingServiceOptions) *ListingService {
	return &ListingService{
		db:          opts.DB,
		aggregation: opts.Aggregation,
		bookings:    opts.Bookings,
		identity:    opts.Identity,
		logger:      opts.Logger,
	}
}

// Create stores a new listing with its ordered images.
func (s *ListingService) Create(ownerID string, req dto.CreateListingRequest) (*models.Listing, error) {
	listing := models.Listing{
		UserID:      ownerID,
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Beds:        req.Beds,
		Baths:       req.Baths,
		City:        req.City,
		Country:     req.Country,
	}
	for i, url := range req.Images {
		listing.Images = append(listing.Images, models.ListingImage{URL: url, Position: i})
	}

	if err := validator.ValidateListing(&listing); err != nil {
		return nil, err
	}

	if err := s.db.Create(&listing).Error; err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Cannot create listing", err)
	}
	return &listing, nil
}

// Update mutates a listing's fields; only the owner may do this. A non-empty
// Images slice replaces the whole ordered image list.
func (s *ListingService) Update(listingID uint, callerID string, req dto.UpdateListingRequest) (*models.Listing, error) {
	var listing models.Listing
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Images").First(&listing, listingID).Error; err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return errors.NewAppError(errors.ErrCodeNotFound, "Listing not found", errors.ErrListingNotFound)
			}
			return errors.NewAppError(errors.ErrCodeDBError, "Cannot load listing", err)
		}

		if listing.UserID != callerID {
			return errors.NewAppError(errors.ErrCodeUnauthorized, "Only the owner can edit a listing", errors.ErrNotListingOwner)
		}

		if req.Title != "" {
			listing.Title = req.Title
		}
		if req.Description != "" {
			listing.Description = req.Description
		}
		if req.Category != "" {
			listing.Category = req.Category
		}
		if req.Price != 0 {
			listing.Price = req.Price
		}
		if req.Beds != 0 {
			listing.Beds = req.Beds
		}
		if req.Baths != 0 {
			listing.Baths = req.Baths
		}
		if req.City != "" {
			listing.City = req.City
		}
		if req.Country != "" {
			listing.Country = req.Country
		}

		if err := validator.ValidateListing(&listing); err != nil {
			return err
		}

		if req.Images != nil {
			if err := tx.Where("listing_id = ?", listing.ID).Delete(&models.ListingImage{}).Error; err != nil {
				return errors.NewAppError(errors.ErrCodeDBError, "Cannot replace images", err)
			}
			listing.Images = nil
			for i, url := range req.Images {
				listing.Images = append(listing.Images, models.ListingImage{ListingID: listing.ID, URL: url, Position: i})
			}
		}

		if err := tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(&listing).Error; err != nil {
			return errors.NewAppError(errors.ErrCodeDBError, "Cannot update listing", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// Delete removes a listing and eagerly its images. Only the owner may
// delete. Booking/review/favorite rows are detached, not cascaded.
func (s *ListingService) Delete(listingID uint, callerID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var listing models.Listing
		if err := tx.First(&listing, listingID).Error; err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return errors.NewAppError(errors.ErrCodeNotFound, "Listing not found", errors.ErrListingNotFound)
			}
			return errors.NewAppError(errors.ErrCodeDBError, "Cannot load listing", err)
		}

		if listing.UserID != callerID {
			return errors.NewAppError(errors.ErrCodeUnauthorized, "Only the owner can delete a listing", errors.ErrNotListingOwner)
		}

		if err := tx.Where("listing_id = ?", listing.ID).Delete(&models.ListingImage{}).Error; err != nil {
			return errors.NewAppError(errors.ErrCodeDBError, "Cannot delete images", err)
		}
		if err := tx.Delete(&listing).Error; err != nil {
			return errors.NewAppError(errors.ErrCodeDBError, "Cannot delete listing", err)
		}
		return nil
	})
}

// GetDetail returns everything the listing page needs: the enriched listing,
// the confirmed date ranges to disable in the picker, and review stats.
func (s *ListingService) GetDetail(ctx context.Context, listingID uint, viewerID string) (*dto.ListingDetailResponse, error) {
	var listing models.Listing
	if err := s.db.Preload("Images").First(&listing, listingID).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewAppError(errors.ErrCodeNotFound, "Listing not found", errors.ErrListingNotFound)
		}
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Cannot load listing", err)
	}

	agg, err := s.aggregation.ForListing(listing.ID, viewerID)
	if err != nil {
		return nil, err
	}

	ranges, err := s.bookings.ConfirmedDateRanges(listing.ID)
	if err != nil {
		return nil, err
	}

	stats, err := s.aggregation.ReviewStats([]uint{listing.ID})
	if err != nil {
		return nil, err
	}

	detail := &dto.ListingDetailResponse{
		EnrichedListing: dto.EnrichedListing{
			Listing:       ToListingResponse(listing),
			Stars:         agg.AverageStars,
			Favorites:     agg.FavoriteCount,
			Favorite:      agg.IsFavorited,
			BookingStatus: agg.ViewerBookingStatus,
		},
		BookedRanges: make([]dto.DateRangeResponse, 0, len(ranges)),
		ReviewStats:  stats,
	}
	for _, r := range ranges {
		detail.BookedRanges = append(detail.BookedRanges, dto.DateRangeResponse{StartDate: r.Start, EndDate: r.End})
	}

	authors, err := s.identity.GetUsers(ctx, []string{listing.UserID})
	if err != nil {
		return nil, err
	}
	if author, ok := authors[listing.UserID]; ok {
		detail.Author = &author
	}

	return detail, nil
}

// ListByUser returns a user's own listings, newest first.
func (s *ListingService) ListByUser(userID string) ([]models.Listing, error) {
	var listings []models.Listing
	err := s.db.Model(&models.Listing{}).
		Preload("Images").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&listings).Error
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Cannot load listings", err)
	}
	return listings, nil
}

// IDsByUser returns the ids of a user's listings.
func (s *ListingService) IDsByUser(userID string) ([]uint, error) {
	var ids []uint
	err := s.db.Model(&models.Listing{}).Where("user_id = ?", userID).Pluck("id", &ids).Error
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Cannot load listing ids", err)
	}
	return ids, nil
}
