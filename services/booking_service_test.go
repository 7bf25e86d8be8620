package services

import (
	"testing"
	"time"

	"github.com/nader31/place-to-stay/errors"
	"github.com/nader31/place-to-stay/models"
	"github.com/nader31/place-to-stay/services/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func newBookingService(t *testing.T) (*BookingService, sqlmock.Sqlmock) {
	t.Helper()
	gormDB, mock := NewMockDB()
	svc := NewBookingService(BookingServiceOptions{
		DB:     gormDB,
		Logger: logger.NewDefaultLogger(logger.ErrorLevel),
	})
	return svc, mock
}

func TestCreateRejectsInvalidDates(t *testing.T) {
	svc, mock := newBookingService(t)

	start := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

	_, err := svc.Create(1, "guest-1", start, start)
	appErr := errors.GetAppError(err)
	if assert.NotNil(t, appErr) {
		assert.Equal(t, errors.ErrCodeInvalidDates, appErr.Code)
	}

	// Same-day times on different clocks normalize to the same date.
	_, err = svc.Create(1, "guest-1", start.Add(2*time.Hour), start.Add(9*time.Hour))
	appErr = errors.GetAppError(err)
	if assert.NotNil(t, appErr) {
		assert.Equal(t, errors.ErrCodeInvalidDates, appErr.Code)
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUnknownListing(t *testing.T) {
	svc, mock := newBookingService(t)

	mock.ExpectQuery(`SELECT \* FROM .listings.`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	start := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	_, err := svc.Create(99, "guest-1", start, start.AddDate(0, 0, 3))

	appErr := errors.GetAppError(err)
	if assert.NotNil(t, appErr) {
		assert.Equal(t, errors.ErrCodeNotFound, appErr.Code)
	}
	assert.ErrorIs(t, err, errors.ErrListingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRejectsSecondActiveBooking(t *testing.T) {
	svc, mock := newBookingService(t)

	mock.ExpectQuery(`SELECT \* FROM .listings.`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow(1, "host-1"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM .bookings.`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	start := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	_, err := svc.Create(1, "guest-1", start, start.AddDate(0, 0, 3))

	appErr := errors.GetAppError(err)
	if assert.NotNil(t, appErr) {
		assert.Equal(t, errors.ErrCodeConflict, appErr.Code)
	}
	assert.ErrorIs(t, err, errors.ErrBookingExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateStoresPendingBooking(t *testing.T) {
	svc, mock := newBookingService(t)

	mock.ExpectQuery(`SELECT \* FROM .listings.`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow(1, "host-1"))
	mock.ExpectQuery(`SELECT count\(\*\) FROM .bookings.`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO .bookings.`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(42))
	mock.ExpectCommit()

	start := time.Date(2026, time.March, 10, 18, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC)
	booking, err := svc.Create(1, "guest-1", start, end)

	assert.NoError(t, err)
	assert.Equal(t, models.BookingStatusPending, booking.Status)
	assert.Equal(t, models.NormalizeDay(start), booking.StartDate)
	assert.Equal(t, models.NormalizeDay(end), booking.EndDate)
	assert.Equal(t, 4, booking.Nights())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc, mock := newBookingService(t)

	_, err := svc.UpdateStatus(1, "host-1", "archived")
	appErr := errors.GetAppError(err)
	if assert.NotNil(t, appErr) {
		assert.Equal(t, errors.ErrCodeInvalidStatus, appErr.Code)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusOnlyOwner(t *testing.T) {
	svc, mock := newBookingService(t)

	start := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM .bookings.`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "listing_id", "user_id", "status", "start_date", "end_date"}).
			AddRow(5, 1, "guest-1", models.BookingStatusPending, start, start.AddDate(0, 0, 2)))
	mock.ExpectQuery(`SELECT \* FROM .listings.`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow(1, "host-1"))
	mock.ExpectRollback()

	_, err := svc.UpdateStatus(5, "someone-else", models.BookingStatusConfirmed)

	appErr := errors.GetAppError(err)
	if assert.NotNil(t, appErr) {
		assert.Equal(t, errors.ErrCodeUnauthorized, appErr.Code)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusTerminalIsFrozen(t *testing.T) {
	svc, mock := newBookingService(t)

	start := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM .bookings.`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "listing_id", "user_id", "status", "start_date", "end_date"}).
			AddRow(5, 1, "guest-1", models.BookingStatusCanceled, start, start.AddDate(0, 0, 2)))
	mock.ExpectQuery(`SELECT \* FROM .listings.`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow(1, "host-1"))
	mock.ExpectRollback()

	_, err := svc.UpdateStatus(5, "host-1", models.BookingStatusConfirmed)

	appErr := errors.GetAppError(err)
	if assert.NotNil(t, appErr) {
		assert.Equal(t, errors.ErrCodeInvalidOperation, appErr.Code)
	}
	assert.ErrorIs(t, err, errors.ErrBookingTerminal)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusConfirmKeepsCompetingPending(t *testing.T) {
	svc, mock := newBookingService(t)

	start := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM .bookings.`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "listing_id", "user_id", "status", "start_date", "end_date"}).
			AddRow(5, 1, "guest-1", models.BookingStatusPending, start, start.AddDate(0, 0, 2)))
	mock.ExpectQuery(`SELECT \* FROM .listings.`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id"}).AddRow(1, "host-1"))
	// A status change touches the bookings row only, never the preloaded
	// listing association.
	mock.ExpectExec(`UPDATE .bookings. SET .status.=\$1,.updated_at.=\$2 WHERE .id. = \$3`).
		WithArgs(models.BookingStatusConfirmed, sqlmock.AnyArg(), 5).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// The overlap scan after a confirm is telemetry, never a failure.
	mock.ExpectQuery(`SELECT count\(\*\) FROM .bookings.`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	booking, err := svc.UpdateStatus(5, "host-1", models.BookingStatusConfirmed)

	assert.NoError(t, err)
	assert.Equal(t, models.BookingStatusConfirmed, booking.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithdrawOnlyOwnBookings(t *testing.T) {
	svc, mock := newBookingService(t)

	_, err := svc.Withdraw("guest-1", "guest-2", 1)

	appErr := errors.GetAppError(err)
	if assert.NotNil(t, appErr) {
		assert.Equal(t, errors.ErrCodeUnauthorized, appErr.Code)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithdrawNothingIsNotAnError(t *testing.T) {
	svc, mock := newBookingService(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM .bookings.`).
		WithArgs("guest-1", 1).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	deleted, err := svc.Withdraw("guest-1", "guest-1", 1)

	assert.NoError(t, err)
	assert.Equal(t, int64(0), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithdrawReportsDeletedCount(t *testing.T) {
	svc, mock := newBookingService(t)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM .bookings.`).
		WithArgs("guest-1", 1).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	deleted, err := svc.Withdraw("guest-1", "guest-1", 1)

	assert.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
