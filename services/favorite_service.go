package services

import (
	"context"
	stderrors "errors"

	"github.com/nader31/place-to-stay/dto"
	"github.com/nader31/place-to-stay/errors"
	"github.com/nader31/place-to-stay/models"
	"github.com/nader31/place-to-stay/services/logger"

	"gorm.io/gorm"
)

// FavoriteService is the (user, listing) membership ledger feeding the
// aggregation engine.
type FavoriteService struct {
	db          *gorm.DB
	aggregation *AggregationService
	identity    *IdentityService
	logger      logger.Logger
}

type FavoriteServiceOptions struct {
	DB          *gorm.DB
	Aggregation *AggregationService
	Identity    *IdentityService
	Logger      logger.Logger
}

func NewFavoriteService(opts FavoriteServiceOptions) *FavoriteService {
	return &FavoriteService{
		db:          opts.DB,
		aggregation: opts.Aggregation,
		identity:    opts.Identity,
		logger:      opts.Logger,
	}
}

// Create adds a favorite; the (user, listing) pair is unique.
func (s *FavoriteService) Create(userID string, listingID uint) (*models.Favorite, error) {
	var listing models.Listing
	if err := s.db.First(&listing, listingID).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewAppError(errors.ErrCodeNotFound, "Listing not found", errors.ErrListingNotFound)
		}
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Cannot load listing", err)
	}

	var existing models.Favorite
	err := s.db.Where("user_id = ? AND listing_id = ?", userID, listingID).First(&existing).Error
	if err == nil {
		return nil, errors.NewAppError(errors.ErrCodeDBDuplicate, "Listing already favorited", errors.ErrFavoriteExists)
	}
	if !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Cannot check favorite", err)
	}

	favorite := models.Favorite{
		UserID:    userID,
		ListingID: listingID,
	}
	if err := s.db.Create(&favorite).Error; err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Cannot create favorite", err)
	}
	return &favorite, nil
}

// Delete removes a favorite; a missing membership row is NotFound.
func (s *FavoriteService) Delete(userID string, listingID uint) error {
	result := s.db.Where("user_id = ? AND listing_id = ?", userID, listingID).Delete(&models.Favorite{})
	if result.Error != nil {
		return errors.NewAppError(errors.ErrCodeDBError, "Cannot delete favorite", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewAppError(errors.ErrCodeNotFound, "Favorite not found", errors.ErrFavoriteNotFound)
	}
	return nil
}

// IsFavorited is the membership test for (user, listing).
func (s *FavoriteService) IsFavorited(userID string, listingID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.Favorite{}).
		Where("user_id = ? AND listing_id = ?", userID, listingID).
		Count(&count).Error
	if err != nil {
		return false, errors.NewAppError(errors.ErrCodeDBError, "Cannot check favorite", err)
	}
	return count > 0, nil
}

// CountByListing returns how many users favorited a listing.
func (s *FavoriteService) CountByListing(listingID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Favorite{}).Where("listing_id = ?", listingID).Count(&count).Error
	if err != nil {
		return 0, errors.NewAppError(errors.ErrCodeDBError, "Cannot count favorites", err)
	}
	return count, nil
}

// ListByUser returns the user's favorites as enriched listings for the
// favorites page, newest favorite first.
func (s *FavoriteService) ListByUser(ctx context.Context, userID string) ([]dto.EnrichedListing, error) {
	var favorites []models.Favorite
	err := s.db.Model(&models.Favorite{}).
		Preload("Listing").
		Preload("Listing.Images").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&favorites).Error
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Cannot load favorites", err)
	}

	// A favorite can outlive its listing; drop those rows from the page.
	kept := make([]models.Favorite, 0, len(favorites))
	listingIDs := make([]uint, 0, len(favorites))
	authorIDs := make([]string, 0, len(favorites))
	for _, favorite := range favorites {
		if favorite.Listing.ID == 0 {
			continue
		}
		kept = append(kept, favorite)
		listingIDs = append(listingIDs, favorite.ListingID)
		authorIDs = append(authorIDs, favorite.Listing.UserID)
	}
	favorites = kept

	aggregates, err := s.aggregation.ForListings(listingIDs, userID)
	if err != nil {
		return nil, err
	}
	authors, err := s.identity.GetUsers(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	items := make([]dto.EnrichedListing, 0, len(favorites))
	for _, favorite := range favorites {
		agg := aggregates[favorite.ListingID]
		item := dto.EnrichedListing{
			Listing:       ToListingResponse(favorite.Listing),
			Stars:         agg.AverageStars,
			Favorites:     agg.FavoriteCount,
			Favorite:      true,
			BookingStatus: agg.ViewerBookingStatus,
		}
		if author, ok := authors[favorite.Listing.UserID]; ok {
			authorCopy := author
			item.Author = &authorCopy
		}
		items = append(items, item)
	}
	return items, nil
}

// PurgeAnonymous deletes favorites left behind with an empty user id.
// Run from cron.
func (s *FavoriteService) PurgeAnonymous() (int64, error) {
	result := s.db.Where("user_id = ?", "").Delete(&models.Favorite{})
	if result.Error != nil {
		return 0, errors.NewAppError(errors.ErrCodeDBError, "Cannot purge favorites", result.Error)
	}
	if result.RowsAffected > 0 {
		s.logger.Info("purged %d anonymous favorite(s)", result.RowsAffected)
	}
	return result.RowsAffected, nil
}

// PurgeDangling deletes favorites whose listing no longer exists.
// Run from cron.
func (s *FavoriteService) PurgeDangling() (int64, error) {
	result := s.db.Where("listing_id NOT IN (?)",
		s.db.Model(&models.Listing{}).Select("id")).Delete(&models.Favorite{})
	if result.Error != nil {
		return 0, errors.NewAppError(errors.ErrCodeDBError, "Cannot purge favorites", result.Error)
	}
	if result.RowsAffected > 0 {
		s.logger.Info("purged %d dangling favorite(s)", result.RowsAffected)
	}
	return result.RowsAffected, nil
}
