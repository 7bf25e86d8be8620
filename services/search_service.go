package services

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/nader31/place-to-stay/dto"
	"github.com/nader31/place-to-stay/errors"
	"github.com/nader31/place-to-stay/models"
	"github.com/nader31/place-to-stay/services/logger"

	"gorm.io/gorm"
)

const (
	// DefaultPageSize keeps the per-page aggregation fan-out bounded.
	DefaultPageSize = 8
	MaxPageSize     = 50

	// MinBedsOrMore is the sentinel bed count meaning "5 or more"; every
	// other value matches exactly.
	MinBedsOrMore = 5
)

// SearchFilter is the normalized search input. Text matches case-insensitive
// substrings over city OR country OR title; the other fields AND together.
type SearchFilter struct {
	Text      string
	Category  string
	MinBeds   int
	StartDate *time.Time
	EndDate   *time.Time
	ViewerID  string
}

// SearchService combines the availability exclusion set, the catalog filter
// and per-listing aggregation into one cursor-paginated read path.
type SearchService struct {
	db           *gorm.DB
	availability *AvailabilityService
	aggregation  *AggregationService
	identity     *IdentityService
	suggestions  *SuggestionService
	logger       logger.Logger
}

type SearchServiceOptions struct {
	DB           *gorm.DB
	Availability *AvailabilityService
	Aggregation  *AggregationService
	Identity     *IdentityService
	Suggestions  *SuggestionService
	Logger       logger.Logger
}

func NewSearchService(opts SearchServiceOptions) *SearchService {
	return &SearchService{
		db:           opts.DB,
		availability: opts.Availability,
		aggregation:  opts.Aggregation,
		identity:     opts.Identity,
		suggestions:  opts.Suggestions,
		logger:       opts.Logger,
	}
}

// Search returns one page of enriched listings plus the cursor to resume
// from and the total match count. The total is computed under the same
// filter without the window; under concurrent writes it may drift from the
// page content, which is acceptable for "page X of Y" display.
func (s *SearchService) Search(ctx context.Context, filter SearchFilter, cursor *uint, limit int) (*dto.SearchListingsResponse, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	excluded, err := s.availability.ExcludedListingIDs(filter.StartDate, filter.EndDate)
	if err != nil {
		return nil, err
	}

	listings, err := s.queryListings(filter, excluded)
	if err != nil {
		return nil, err
	}

	matchedIDs := listingIDs(listings)
	favoriteCounts, err := s.aggregation.FavoriteCounts(matchedIDs)
	if err != nil {
		return nil, err
	}

	SortByPopularity(listings, favoriteCounts)
	totalCount := len(listings)

	page, nextCursor := CursorWindow(listings, cursor, limit)

	items, err := s.enrich(ctx, page, filter.ViewerID)
	if err != nil {
		return nil, err
	}

	result := &dto.SearchListingsResponse{
		Items:      items,
		NextCursor: nextCursor,
		TotalCount: totalCount,
	}

	if len(items) == 0 && filter.Text != "" {
		result.Suggestion = s.suggestions.SuggestPlace(filter.Text)
	}

	return result, nil
}

// queryListings pushes every filter the store can evaluate into SQL: text
// substring match, category and bed equality, owner exclusion, and the
// NOT IN availability exclusion set.
func (s *SearchService) queryListings(filter SearchFilter, excluded map[uint]struct{}) ([]models.Listing, error) {
	tx := s.db.Model(&models.Listing{}).Preload("Images")

	if filter.Text != "" {
		pattern := "%" + strings.ToLower(filter.Text) + "%"
		tx = tx.Where("LOWER(city) LIKE ? OR LOWER(country) LIKE ? OR LOWER(title) LIKE ?", pattern, pattern, pattern)
	}
	if filter.Category != "" {
		tx = tx.Where("category = ?", filter.Category)
	}
	if filter.MinBeds > 0 {
		if filter.MinBeds == MinBedsOrMore {
			tx = tx.Where("beds >= ?", MinBedsOrMore)
		} else {
			tx = tx.Where("beds = ?", filter.MinBeds)
		}
	}
	if filter.ViewerID != "" {
		tx = tx.Where("user_id <> ?", filter.ViewerID)
	}
	if len(excluded) > 0 {
		ids := make([]uint, 0, len(excluded))
		for id := range excluded {
			ids = append(ids, id)
		}
		tx = tx.Where("id NOT IN ?", ids)
	}

	var listings []models.Listing
	if err := tx.Find(&listings).Error; err != nil {
		return nil, errors.NewAppError(errors.ErrCodeDBError, "Cannot search listings", err)
	}
	return listings, nil
}

func (s *SearchService) enrich(ctx context.Context, page []models.Listing, viewerID string) ([]dto.EnrichedListing, error) {
	items := make([]dto.EnrichedListing, 0, len(page))
	if len(page) == 0 {
		return items, nil
	}

	pageIDs := listingIDs(page)
	aggregates, err := s.aggregation.ForListings(pageIDs, viewerID)
	if err != nil {
		return nil, err
	}

	authorIDs := make([]string, 0, len(page))
	for _, listing := range page {
		authorIDs = append(authorIDs, listing.UserID)
	}
	authors, err := s.identity.GetUsers(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	for _, listing := range page {
		agg := aggregates[listing.ID]
		item := dto.EnrichedListing{
			Listing:       ToListingResponse(listing),
			Stars:         agg.AverageStars,
			Favorites:     agg.FavoriteCount,
			Favorite:      agg.IsFavorited,
			BookingStatus: agg.ViewerBookingStatus,
		}
		if author, ok := authors[listing.UserID]; ok {
			authorCopy := author
			item.Author = &authorCopy
		}
		items = append(items, item)
	}
	return items, nil
}

// SortByPopularity orders listings by favorite count descending, ties broken
// by ascending id so pages are deterministic.
func SortByPopularity(listings []models.Listing, favoriteCounts map[uint]int) {
	sort.SliceStable(listings, func(i, j int) bool {
		ci, cj := favoriteCounts[listings[i].ID], favoriteCounts[listings[j].ID]
		if ci != cj {
			return ci > cj
		}
		return listings[i].ID < listings[j].ID
	})
}

// CursorWindow cuts one page out of the sorted result set. The cursor is the
// id of the first row of the page (inclusive resume). The window is limit+1
// wide; when it overflows, the extra row is popped and its id becomes the
// next cursor. A cursor pointing at a row that no longer matches yields an
// empty final page rather than drifting like a numeric offset would.
func CursorWindow(listings []models.Listing, cursor *uint, limit int) ([]models.Listing, *uint) {
	start := 0
	if cursor != nil {
		start = len(listings)
		for i, listing := range listings {
			if listing.ID == *cursor {
				start = i
				break
			}
		}
	}

	window := listings[min(start, len(listings)):]
	if len(window) > limit {
		next := window[limit].ID
		return window[:limit], &next
	}
	return window, nil
}

// ToListingResponse flattens a listing and its ordered images.
func ToListingResponse(listing models.Listing) dto.ListingResponse {
	images := make([]string, 0, len(listing.Images))
	sort.SliceStable(listing.Images, func(i, j int) bool {
		return listing.Images[i].Position < listing.Images[j].Position
	})
	for _, image := range listing.Images {
		images = append(images, image.URL)
	}

	return dto.ListingResponse{
		ID:          listing.ID,
		UserID:      listing.UserID,
		Title:       listing.Title,
		Description: listing.Description,
		Category:    listing.Category,
		Price:       listing.Price,
		Beds:        listing.Beds,
		Baths:       listing.Baths,
		City:        listing.City,
		Country:     listing.Country,
		CreatedAt:   listing.CreatedAt,
		Images:      images,
	}
}

func listingIDs(listings []models.Listing) []uint {
	ids := make([]uint, 0, len(listings))
	for _, listing := range listings {
		ids = append(ids, listing.ID)
	}
	return ids
}
