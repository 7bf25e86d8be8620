package services

import (
	"github.com/nader31/place-to-stay/dto"
	"github.com/nader31/place-to-stay/errors"
	"github.com/nader31/place-to-stay/models"

	"gorm.io/gorm"
)

// ListingAggregates are the read-time derived metrics of one listing, as seen
// by an optional viewer. AverageStars is nil when the listing has no reviews;
// it is never reported as 0.
type ListingAggregates struct {
	AverageStars        *float64
	FavoriteCount       int
	IsFavorited         bool
	ViewerBookingStatus *string
}

// AggregationService recomputes per-listing metrics on every read. Nothing is
// cached or maintained as counters; the current store state is ground truth.
// Callers keep pages small (8 items) so the fan-out stays bounded.
type AggregationService struct {
	db *gorm.DB
}

func NewAggregationService(db *gorm.DB) *AggregationService {
	return &AggregationService{db: db}
}

type reviewAggRow struct {
	ListingID uint
	Total     int64
	Sum       int64
}

type favoriteCountRow struct {
	ListingID uint
	Total     int64
}

// ForListings computes aggregates for a batch of listings in a bounded number
// of grouped queries, keyed by listing id. viewerID may be empty.
func (s *AggregationService) ForListings(listingIDs []uint, viewerID string) (map[uint]ListingAggregates, error) {
	result := make(map[uint]ListingAggregates, len(listingIDs))
	if len(listingIDs) == 0 {
		return result, nil
	}
	for _, id := range listingIDs {
		result[id] = ListingAggregates{}
	}

	var reviewRows []reviewAggRow
	err := s.db.Model(&models.Review{}).
		Select("listing_id, COUNT(*) AS total, SUM(stars) AS sum").
		Where("listing_id IN ?", listingIDs).
		Group("listing_id").
		Scan(&reviewRows).Error
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Cannot aggregate reviews", err)
	}
	for _, row := range reviewRows {
		agg := result[row.ListingID]
		if row.Total > 0 {
			avg := float64(row.Sum) / float64(row.Total)
			agg.AverageStars = &avg
		}
		result[row.ListingID] = agg
	}

	var favoriteRows []favoriteCountRow
	err = s.db.Model(&models.Favorite{}).
		Select("listing_id, COUNT(*) AS total").
		Where("listing_id IN ?", listingIDs).
		Group("listing_id").
		Scan(&favoriteRows).Error
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Cannot count favorites", err)
	}
	for _, row := range favoriteRows {
		agg := result[row.ListingID]
		agg.FavoriteCount = int(row.Total)
		result[row.ListingID] = agg
	}

	if viewerID == "" {
		return result, nil
	}

	var favoritedIDs []uint
	err = s.db.Model(&models.Favorite{}).
		Where("user_id = ? AND listing_id IN ?", viewerID, listingIDs).
		Pluck("listing_id", &favoritedIDs).Error
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Cannot load viewer favorites", err)
	}
	for _, id := range favoritedIDs {
		agg := result[id]
		agg.IsFavorited = true
		result[id] = agg
	}

	var viewerBookings []models.Booking
	err = s.db.Model(&models.Booking{}).
		Where("user_id = ? AND listing_id IN ?", viewerID, listingIDs).
		Order("created_at DESC").
		Find(&viewerBookings).Error
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Cannot load viewer bookings", err)
	}
	for _, booking := range viewerBookings {
		agg := result[booking.ListingID]
		if agg.ViewerBookingStatus == nil {
			status := booking.Status
			agg.ViewerBookingStatus = &status
			result[booking.ListingID] = agg
		}
	}

	return result, nil
}

// FavoriteCounts returns favorite totals for a set of listings. The search
// engine orders whole result sets by popularity, so this stays a single
// grouped query rather than going through ForListings.
func (s *AggregationService) FavoriteCounts(listingIDs []uint) (map[uint]int, error) {
	counts := make(map[uint]int, len(listingIDs))
	if len(listingIDs) == 0 {
		return counts, nil
	}

	var rows []favoriteCountRow
	err := s.db.Model(&models.Favorite{}).
		Select("listing_id, COUNT(*) AS total").
		Where("listing_id IN ?", listingIDs).
		Group("listing_id").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Cannot count favorites", err)
	}
	for _, row := range rows {
		counts[row.ListingID] = int(row.Total)
	}
	return counts, nil
}

// ForListing computes aggregates for a single listing.
func (s *AggregationService) ForListing(listingID uint, viewerID string) (ListingAggregates, error) {
	aggregates, err := s.ForListings([]uint{listingID}, viewerID)
	if err != nil {
		return ListingAggregates{}, err
	}
	return aggregates[listingID], nil
}

// ReviewStats aggregates review counts, mean stars and the 1..5 histogram
// for a set of listings (one listing's page, or all of a host's listings).
func (s *AggregationService) ReviewStats(listingIDs []uint) (dto.ReviewStatsResponse, error) {
	stats := dto.ReviewStatsResponse{
		CountForStars: make([]dto.StarCount, 0, 5),
	}
	if len(listingIDs) == 0 {
		for i := 1; i <= 5; i++ {
			stats.CountForStars = append(stats.CountForStars, dto.StarCount{Rating: i})
		}
		return stats, nil
	}

	var totals reviewAggRow
	err := s.db.Model(&models.Review{}).
		Select("COUNT(*) AS total, COALESCE(SUM(stars), 0) AS sum").
		Where("listing_id IN ?", listingIDs).
		Scan(&totals).Error
	if err != nil {
		return stats, errors.NewAppError(errors.ErrCodeDBError, "Cannot aggregate reviews", err)
	}
	stats.TotalReviews = totals.Total
	if totals.Total > 0 {
		avg := float64(totals.Sum) / float64(totals.Total)
		stats.AverageStars = &avg
	}

	type starRow struct {
		Stars int
		Total int64
	}
	var starRows []starRow
	err = s.db.Model(&models.Review{}).
		Select("stars, COUNT(*) AS total").
		Where("listing_id IN ?", listingIDs).
		Group("stars").
		Scan(&starRows).Error
	if err != nil {
		return stats, errors.NewAppError(errors.ErrCodeDBError, "Cannot aggregate review histogram", err)
	}

	byStar := make(map[int]int64, len(starRows))
	for _, row := range starRows {
		byStar[row.Stars] = row.Total
	}
	for i := 1; i <= 5; i++ {
		stats.CountForStars = append(stats.CountForStars, dto.StarCount{Rating: i, Count: byStar[i]})
	}
	return stats, nil
}
