package services

import (
	"strings"

	"github.com/nader31/place-to-stay/models"

	"github.com/fiam/gounidecode/unidecode"
	"github.com/schollz/closestmatch"
	"github.com/texttheater/golang-levenshtein/levenshtein"
	"gorm.io/gorm"
)

// SuggestionService produces a "did you mean" hint when a text search comes
// back empty, matched against the cities and countries that actually exist
// in the catalog.
type SuggestionService struct {
	db *gorm.DB
}

func NewSuggestionService(db *gorm.DB) *SuggestionService {
	return &SuggestionService{db: db}
}

// normalizeInput strips accents and case so "São Paulo" and "sao paulo"
// compare equal.
func normalizeInput(input string) string {
	input = strings.TrimSpace(input)
	return strings.ToLower(unidecode.Unidecode(input))
}

func createMatcher(keywords []string) *closestmatch.ClosestMatch {
	return closestmatch.New(keywords, []int{2, 3})
}

func calculateSimilarity(a, b string) float64 {
	distance := levenshtein.DistanceForStrings([]rune(a), []rune(b), levenshtein.DefaultOptions)
	maxLen := float64(len(a))
	if float64(len(b)) > maxLen {
		maxLen = float64(len(b))
	}

	if maxLen == 0 {
		return 1.0
	}

	return 1.0 - float64(distance)/maxLen
}

// SuggestPlace returns the closest known city or country for query, or ""
// when nothing is close enough to be a plausible correction.
func (s *SuggestionService) SuggestPlace(query string) string {
	normalized := normalizeInput(query)
	if normalized == "" {
		return ""
	}

	var cities, countries []string
	if err := s.db.Model(&models.Listing{}).Distinct("city").Pluck("city", &cities).Error; err != nil {
		return ""
	}
	if err := s.db.Model(&models.Listing{}).Distinct("country").Pluck("country", &countries).Error; err != nil {
		return ""
	}

	places := make([]string, 0, len(cities)+len(countries))
	index := make(map[string]string, len(cities)+len(countries))
	for _, place := range append(cities, countries...) {
		if place == "" {
			continue
		}
		normalizedPlace := normalizeInput(place)
		places = append(places, normalizedPlace)
		index[normalizedPlace] = place
	}
	if len(places) == 0 {
		return ""
	}

	best := createMatcher(places).Closest(normalized)
	if best == "" || calculateSimilarity(normalized, best) < 0.5 {
		return ""
	}
	return index[best]
}
