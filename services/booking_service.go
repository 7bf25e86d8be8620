package services

import (
	stderrors "errors"
	"time"

	"github.com/nader31/place-to-stay/errors"
	"github.com/nader31/place-to-stay/models"
	"github.com/nader31/place-to-stay/services/logger"
	"github.com/nader31/place-to-stay/validator"

	"gorm.io/gorm"
)

// BookingService owns booking records and their status state machine:
// pending -> confirmed, pending -> canceled, nothing out of a terminal state.
//
// Creation is optimistic: overlapping pending requests from different guests
// are accepted and the listing owner resolves them at confirmation time.
// Confirming one booking does not cancel competing pending ones; the window
// is logged (see LogPendingOverlaps) rather than raised as an error.
type BookingService struct {
	db     *gorm.DB
	logger logger.Logger
}

type BookingServiceOptions struct {
	DB     *gorm.DB
	Logger logger.Logger
}

func NewBookingService(opts BookingServiceOptions) *BookingService {
	return &BookingService{
		db:     opts.DB,
		logger: opts.Logger,
	}
}

// ListAll returns the newest bookings first.
func (s *BookingService) ListAll() ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.Model(&models.Booking{}).
		Preload("Listing").
		Preload("Listing.Images").
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Cannot load bookings", err)
	}
	return bookings, nil
}

// ListByListing returns a listing's bookings, newest first.
func (s *BookingService) ListByListing(listingID uint) ([]models.Booking, error) {
	var bookings []models.Booking
	err := s.db.Model(&models.Booking{}).
		Preload("Listing").
		Preload("Listing.Images").
		Where("listing_id = ?", listingID).
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Cannot load bookings", err)
	}
	return bookings, nil
}

// ListByUser returns a guest's bookings ordered by start date, optionally
// filtered by status.
func (s *BookingService) ListByUser(userID string, status string) ([]models.Booking, error) {
	tx := s.db.Model(&models.Booking{}).
		Preload("Listing").
		Preload("Listing.Images").
		Where("user_id = ?", userID).
		Order("start_date ASC")
	if status != "" {
		tx = tx.Where("status = ?", status)
	}

	var bookings []models.Booking
	if err := tx.Find(&bookings).Error; err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Cannot load bookings", err)
	}
	return bookings, nil
}

// ListByListingAuthor returns all bookings on listings owned by a host,
// newest first, optionally filtered by status.
func (s *BookingService) ListByListingAuthor(hostID string, status string) ([]models.Booking, error) {
	tx := s.db.Model(&models.Booking{}).
		Preload("Listing").
		Preload("Listing.Images").
		Where("listing_id IN (?)",
			s.db.Model(&models.Listing{}).Select("id").Where("user_id = ?", hostID)).
		Order("created_at DESC")
	if status != "" {
		tx = tx.Where("status = ?", status)
	}

	var bookings []models.Booking
	if err := tx.Find(&bookings).Error; err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Cannot load bookings", err)
	}
	return bookings, nil
}

// ConfirmedDateRanges returns the date ranges a date picker should disable.
// Only confirmed bookings block availability; pending ones do not.
func (s *BookingService) ConfirmedDateRanges(listingID uint) ([]models.DateRange, error) {
	var bookings []models.Booking
	err := s.db.Model(&models.Booking{}).
		Where("listing_id = ? AND status = ?", listingID, models.BookingStatusConfirmed).
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Cannot load booking dates", err)
	}

	ranges := make([]models.DateRange, 0, len(bookings))
	for _, booking := range bookings {
		ranges = append(ranges, booking.Range())
	}
	return ranges, nil
}

// GetForUserAndListing returns the guest's newest booking for a listing, or
// nil when there is none.
func (s *BookingService) GetForUserAndListing(userID string, listingID uint) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.Model(&models.Booking{}).
		Preload("Listing").
		Preload("Listing.Images").
		Where("user_id = ? AND listing_id = ?", userID, listingID).
		Order("created_at DESC").
		First(&booking).Error
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Cannot load booking", err)
	}
	return &booking, nil
}

// Create stores a pending booking for [start, end). Dates are normalized to
// day boundaries. The create path does not reject overlapping requests from
// other guests; it only rejects a second active booking by the same guest on
// the same listing.
func (s *BookingService) Create(listingID uint, guestID string, start, end time.Time) (*models.Booking, error) {
	start = models.NormalizeDay(start)
	end = models.NormalizeDay(end)

	if err := validator.ValidateBookingDates(start, end); err != nil {
		return nil, err
	}

	var listing models.Listing
	if err := s.db.First(&listing, listingID).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewAppError(errors.ErrCodeNotFound, "Listing not found", errors.ErrListingNotFound)
		}
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Cannot load listing", err)
	}

	var active int64
	err := s.db.Model(&models.Booking{}).
		Where("user_id = ? AND listing_id = ? AND status <> ?", guestID, listingID, models.BookingStatusCanceled).
		Count(&active).Error
	if err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Cannot check existing bookings", err)
	}
	if active > 0 {
		return nil, errors.NewAppError(errors.ErrCodeConflict, "You already have a booking for this listing", errors.ErrBookingExists)
	}

	booking := models.Booking{
		ListingID: listingID,
		UserID:    guestID,
		StartDate: start,
		EndDate:   end,
		Status:    models.BookingStatusPending,
	}
	if err := s.db.Create(&booking).Error; err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Cannot create booking", err)
	}

	return &booking, nil
}

// UpdateStatus transitions a pending booking to confirmed or canceled. Only
// the owner of the booked listing may do this. Confirming does not cancel
// competing pending bookings for overlapping dates; they are logged instead.
func (s *BookingService) UpdateStatus(bookingID uint, ownerID string, status string) (*models.Booking, error) {
	if status != models.BookingStatusConfirmed && status != models.BookingStatusCanceled {
		return nil, errors.NewAppError(errors.ErrCodeInvalidStatus, "Status must be confirmed or canceled", nil)
	}

	var booking models.Booking
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Preload("Listing").First(&booking, bookingID).Error; err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return errors.NewAppError(errors.ErrCodeNotFound, "Booking not found", errors.ErrBookingNotFound)
			}
			return errors.NewAppError(errors.ErrCodeDBError, "Cannot load booking", err)
		}

		if booking.Listing.UserID != ownerID {
			return errors.NewAppError(errors.ErrCodeUnauthorized, "Only the listing owner can update a booking", errors.ErrUnauthorized)
		}

		if booking.IsTerminal() {
			return errors.NewAppError(errors.ErrCodeInvalidOperation, "Booking already resolved", errors.ErrBookingTerminal)
		}

		booking.Status = status
		if err := tx.Model(&booking).Update("status", status).Error; err != nil {
			return errors.NewAppError(errors.ErrCodeDBError, "Cannot update booking", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if status == models.BookingStatusConfirmed {
		s.logOverlappingPending(&booking)
	}

	return &booking, nil
}

// logOverlappingPending records the accepted double-pending window for
// telemetry. It is informational only, never an error.
func (s *BookingService) logOverlappingPending(confirmed *models.Booking) {
	var overlapping int64
	err := s.db.Model(&models.Booking{}).
		Where("listing_id = ? AND id <> ? AND status = ?", confirmed.ListingID, confirmed.ID, models.BookingStatusPending).
		Where("start_date < ? AND end_date > ?", confirmed.EndDate, confirmed.StartDate).
		Count(&overlapping).Error
	if err != nil {
		s.logger.Error("conflict scan after confirm failed: %v", err)
		return
	}
	if overlapping > 0 {
		s.logger.Info("listing %d: booking %d confirmed with %d overlapping pending booking(s) left unresolved",
			confirmed.ListingID, confirmed.ID, overlapping)
	}
}

// Withdraw deletes the caller's own bookings for a listing and returns how
// many rows were removed. Zero is not an error.
func (s *BookingService) Withdraw(callerID, userID string, listingID uint) (int64, error) {
	if callerID != userID {
		return 0, errors.NewAppError(errors.ErrCodeUnauthorized, "Cannot withdraw another user's booking", errors.ErrUnauthorized)
	}

	result := s.db.Where("user_id = ? AND listing_id = ?", userID, listingID).Delete(&models.Booking{})
	if result.Error != nil {
		return 0, errors.NewAppError(errors.ErrCodeDBError, "Cannot withdraw booking", result.Error)
	}
	return result.RowsAffected, nil
}

// CountForUser returns the number of bookings a guest has made.
func (s *BookingService) CountForUser(userID string) (int64, error) {
	var count int64
	err := s.db.Model(&models.Booking{}).Where("user_id = ?", userID).Count(&count).Error
	if err != nil {
		return 0, errors.NewAppError(errors.ErrCodeDBError, "Cannot count bookings", err)
	}
	return count, nil
}

// CountByListing returns the number of bookings on a listing.
func (s *BookingService) CountByListing(listingID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Booking{}).Where("listing_id = ?", listingID).Count(&count).Error
	if err != nil {
		return 0, errors.NewAppError(errors.ErrCodeDBError, "Cannot count bookings", err)
	}
	return count, nil
}

// LogPendingOverlaps scans for listings where several pending bookings cover
// the same nights. Run from cron; the overlap window is designed behavior,
// the log line exists so operators can see how often it happens.
func (s *BookingService) LogPendingOverlaps() error {
	var pending []models.Booking
	err := s.db.Model(&models.Booking{}).
		Where("status = ?", models.BookingStatusPending).
		Order("listing_id ASC, start_date ASC").
		Find(&pending).Error
	if err != nil {
		return errors.NewAppError(errors.ErrCodeDBError, "Cannot scan pending bookings", err)
	}

	byListing := make(map[uint][]models.Booking)
	for _, booking := range pending {
		byListing[booking.ListingID] = append(byListing[booking.ListingID], booking)
	}

	for listingID, bookings := range byListing {
		overlaps := 0
		for i := 0; i < len(bookings); i++ {
			for j := i + 1; j < len(bookings); j++ {
				if bookings[i].Range().Overlaps(bookings[j].Range()) {
					overlaps++
				}
			}
		}
		if overlaps > 0 {
			s.logger.Info("listing %d has %d overlapping pending booking pair(s)", listingID, overlaps)
		}
	}
	return nil
}
