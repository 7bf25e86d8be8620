package services

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeInput(t *testing.T) {
	assert.Equal(t, "sao paulo", normalizeInput("  São Paulo "))
	assert.Equal(t, "reykjavik", normalizeInput("Reykjavík"))
	assert.Equal(t, "", normalizeInput("   "))
}

func TestCalculateSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, calculateSimilarity("paris", "paris"), 1e-9)
	assert.InDelta(t, 1.0, calculateSimilarity("", ""), 1e-9)

	// A substitution costs 2 under the default options, an insertion 1.
	assert.InDelta(t, 4.0/6.0, calculateSimilarity("london", "londun"), 1e-9)
	assert.InDelta(t, 5.0/6.0, calculateSimilarity("paris", "pariss"), 1e-9)

	assert.Less(t, calculateSimilarity("tokyo", "buenos aires"), 0.5)
}

func TestSuggestPlace(t *testing.T) {
	gormDB, mock := NewMockDB()
	svc := NewSuggestionService(gormDB)

	mock.ExpectQuery(`SELECT DISTINCT .city. FROM .listings.`).
		WillReturnRows(sqlmock.NewRows([]string{"city"}).AddRow("Paris").AddRow("London"))
	mock.ExpectQuery(`SELECT DISTINCT .country. FROM .listings.`).
		WillReturnRows(sqlmock.NewRows([]string{"country"}).AddRow("France").AddRow("United Kingdom"))

	assert.Equal(t, "Paris", svc.SuggestPlace("pariss"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSuggestPlaceNothingClose(t *testing.T) {
	gormDB, mock := NewMockDB()
	svc := NewSuggestionService(gormDB)

	mock.ExpectQuery(`SELECT DISTINCT .city. FROM .listings.`).
		WillReturnRows(sqlmock.NewRows([]string{"city"}).AddRow("Paris"))
	mock.ExpectQuery(`SELECT DISTINCT .country. FROM .listings.`).
		WillReturnRows(sqlmock.NewRows([]string{"country"}).AddRow("France"))

	assert.Equal(t, "", svc.SuggestPlace("zzzzzzzzzz"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSuggestPlaceEmptyQuery(t *testing.T) {
	gormDB, mock := NewMockDB()
	svc := NewSuggestionService(gormDB)

	assert.Equal(t, "", svc.SuggestPlace("   "))
	assert.NoError(t, mock.ExpectationsWereMet())
}
