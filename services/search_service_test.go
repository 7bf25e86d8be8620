package services

import (
	"testing"

	"github.com/nader31/place-to-stay/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func catalog(ids ...uint) []models.Listing {
	listings := make([]models.Listing, 0, len(ids))
	for _, id := range ids {
		listings = append(listings, models.Listing{ID: id})
	}
	return listings
}

func TestSortByPopularity(t *testing.T) {
	listings := catalog(1, 2, 3, 4)
	counts := map[uint]int{1: 0, 2: 7, 3: 2, 4: 7}

	SortByPopularity(listings, counts)

	// Favorite count descending, ties broken by ascending id.
	assert.Equal(t, []uint{2, 4, 3, 1}, listingIDs(listings))
}

func TestSortByPopularityMissingCountsAsZero(t *testing.T) {
	listings := catalog(9, 3, 5)

	SortByPopularity(listings, map[uint]int{})

	assert.Equal(t, []uint{3, 5, 9}, listingIDs(listings))
}

func TestCursorWindowFirstPage(t *testing.T) {
	listings := catalog(10, 20, 30, 40, 50)

	page, next := CursorWindow(listings, nil, 2)

	assert.Equal(t, []uint{10, 20}, listingIDs(page))
	if assert.NotNil(t, next) {
		assert.Equal(t, uint(30), *next)
	}
}

func TestCursorWindowResumeIsInclusive(t *testing.T) {
	listings := catalog(10, 20, 30, 40, 50)
	cursor := uint(30)

	page, next := CursorWindow(listings, &cursor, 2)

	assert.Equal(t, []uint{30, 40}, listingIDs(page))
	if assert.NotNil(t, next) {
		assert.Equal(t, uint(50), *next)
	}
}

func TestCursorWindowLastPage(t *testing.T) {
	listings := catalog(10, 20, 30)
	cursor := uint(30)

	page, next := CursorWindow(listings, &cursor, 2)

	assert.Equal(t, []uint{30}, listingIDs(page))
	assert.Nil(t, next)
}

func TestCursorWindowExactFit(t *testing.T) {
	listings := catalog(10, 20)

	page, next := CursorWindow(listings, nil, 2)

	assert.Equal(t, []uint{10, 20}, listingIDs(page))
	assert.Nil(t, next)
}

func TestCursorWindowVanishedCursor(t *testing.T) {
	listings := catalog(10, 20, 30)
	cursor := uint(99)

	page, next := CursorWindow(listings, &cursor, 2)

	assert.Empty(t, page)
	assert.Nil(t, next)
}

func TestCursorWindowEmptyInput(t *testing.T) {
	page, next := CursorWindow(nil, nil, 8)

	assert.Empty(t, page)
	assert.Nil(t, next)
}

// Walking every page must visit each listing exactly once and terminate.
func TestCursorWindowCoversAllPages(t *testing.T) {
	listings := catalog(1, 2, 3, 4, 5, 6, 7)
	counts := map[uint]int{1: 3, 2: 9, 3: 1, 4: 9, 5: 0, 6: 4, 7: 1}
	SortByPopularity(listings, counts)

	var seen []uint
	var cursor *uint
	pages := 0
	for {
		page, next := CursorWindow(listings, cursor, 3)
		seen = append(seen, listingIDs(page)...)
		pages++
		if next == nil {
			break
		}
		cursor = next
	}

	assert.Equal(t, 3, pages)
	assert.ElementsMatch(t, []uint{1, 2, 3, 4, 5, 6, 7}, seen)
	assert.Len(t, seen, 7)
}

func newSearchService(t *testing.T) (*SearchService, sqlmock.Sqlmock) {
	t.Helper()
	gormDB, mock := NewMockDB()
	return NewSearchService(SearchServiceOptions{DB: gormDB}), mock
}

// Exactly 5 beds means "5 or more".
func TestQueryListingsBedsSentinel(t *testing.T) {
	svc, mock := newSearchService(t)

	mock.ExpectQuery(`SELECT \* FROM .listings. WHERE beds >= \$1`).
		WithArgs(MinBedsOrMore).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.queryListings(SearchFilter{MinBeds: 5}, nil)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQueryListingsBedsBelowSentinelIsExact(t *testing.T) {
	svc, mock := newSearchService(t)

	mock.ExpectQuery(`SELECT \* FROM .listings. WHERE beds = \$1`).
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.queryListings(SearchFilter{MinBeds: 3}, nil)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Values above the sentinel stay exact; 6 beds must not match 5-bed listings.
func TestQueryListingsBedsAboveSentinelIsExact(t *testing.T) {
	svc, mock := newSearchService(t)

	mock.ExpectQuery(`SELECT \* FROM .listings. WHERE beds = \$1`).
		WithArgs(6).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.queryListings(SearchFilter{MinBeds: 6}, nil)

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToListingResponseOrdersImages(t *testing.T) {
	listing := models.Listing{
		ID:    1,
		Title: "Loft with a view",
		Images: []models.ListingImage{
			{URL: "third.jpg", Position: 2},
			{URL: "first.jpg", Position: 0},
			{URL: "second.jpg", Position: 1},
		},
	}

	resp := ToListingResponse(listing)

	assert.Equal(t, []string{"first.jpg", "second.jpg", "third.jpg"}, resp.Images)
}
