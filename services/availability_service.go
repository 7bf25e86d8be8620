package services

import (
	"time"

	"github.com/nader31/place-to-stay/errors"
	"github.com/nader31/place-to-stay/models"

	"gorm.io/gorm"
)

// AvailabilityService is the derived read path answering "which listings are
// taken for these dates". It is recomputed per request straight off the
// bookings table; there is no stored index to go stale.
type AvailabilityService struct {
	db *gorm.DB
}

func NewAvailabilityService(db *gorm.DB) *AvailabilityService {
	return &AvailabilityService{db: db}
}

// ExcludedListingIDs returns the ids of listings with at least one confirmed
// booking overlapping the half-open candidate range [start, end). Pending
// bookings never block availability. When either date is missing the search
// is unconstrained and the set is empty.
func (s *AvailabilityService) ExcludedListingIDs(start, end *time.Time) (map[uint]struct{}, error) {
	excluded := make(map[uint]struct{})
	if start == nil || end == nil {
		return excluded, nil
	}

	from := models.NormalizeDay(*start)
	to := models.NormalizeDay(*end)

	// start < to AND from < end is the half-open overlap predicate pushed
	// into SQL.
	var listingIDs []uint
	err := s.db.Model(&models.Booking{}).
		Distinct("listing_id").
		Where("status = ?", models.BookingStatusConfirmed).
		Where("start_date < ? AND end_date > ?", to, from).
		Pluck("listing_id", &listingIDs).Error
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Cannot compute availability", err)
	}

	for _, id := range listingIDs {
		excluded[id] = struct{}{}
	}
	return excluded, nil
}
