package services

import (
	"testing"
	"time"

	"github.com/nader31/place-to-stay/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestExcludedListingIDsWithoutDates(t *testing.T) {
	gormDB, mock := NewMockDB()
	svc := NewAvailabilityService(gormDB)

	start := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)

	// No queries should run when either date is missing.
	excluded, err := svc.ExcludedListingIDs(nil, nil)
	assert.NoError(t, err)
	assert.Empty(t, excluded)

	excluded, err = svc.ExcludedListingIDs(&start, nil)
	assert.NoError(t, err)
	assert.Empty(t, excluded)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExcludedListingIDsConfirmedOverlapsOnly(t *testing.T) {
	gormDB, mock := NewMockDB()
	svc := NewAvailabilityService(gormDB)

	start := time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT DISTINCT .listing_id. FROM .bookings.`).
		WithArgs(models.BookingStatusConfirmed, end, start).
		WillReturnRows(sqlmock.NewRows([]string{"listing_id"}).AddRow(3).AddRow(7))

	excluded, err := svc.ExcludedListingIDs(&start, &end)
	assert.NoError(t, err)

	assert.Len(t, excluded, 2)
	assert.Contains(t, excluded, uint(3))
	assert.Contains(t, excluded, uint(7))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExcludedListingIDsNormalizesDates(t *testing.T) {
	gormDB, mock := NewMockDB()
	svc := NewAvailabilityService(gormDB)

	start := time.Date(2026, time.March, 10, 15, 30, 0, 0, time.UTC)
	end := time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT DISTINCT .listing_id. FROM .bookings.`).
		WithArgs(models.BookingStatusConfirmed, models.NormalizeDay(end), models.NormalizeDay(start)).
		WillReturnRows(sqlmock.NewRows([]string{"listing_id"}))

	excluded, err := svc.ExcludedListingIDs(&start, &end)
	assert.NoError(t, err)
	assert.Empty(t, excluded)
	assert.NoError(t, mock.ExpectationsWereMet())
}
