package validator

import (
	"time"

	"github.com/nader31/place-to-stay/errors"
	"github.com/nader31/place-to-stay/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterBindings adds the custom binding rules used in dto tags.
func RegisterBindings() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("listing_category", func(fl validator.FieldLevel) bool {
			listing := models.Listing{Category: fl.Field().String()}
			return listing.ValidateCategory() == nil
		})
	}
}

// ValidateListing checks the business rules on a listing before it is stored.
func ValidateListing(listing *models.Listing) error {
	if listing.Title == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "Title must not be empty", nil)
	}

	if err := listing.ValidateCategory(); err != nil {
		return errors.NewAppError(errors.ErrCodeValidation, "Unknown listing category", err)
	}

	if err := listing.ValidatePrice(); err != nil {
		return errors.NewAppError(errors.ErrCodeValidation, "Price per night must be positive", err)
	}

	if listing.Beds < 1 {
		return errors.NewAppError(errors.ErrCodeValidation, "A listing needs at least one bed", nil)
	}

	if listing.City == "" || listing.Country == "" {
		return errors.NewAppError(errors.ErrCodeRequiredField, "City and country must not be empty", nil)
	}

	return nil
}

// ValidateBookingDates enforces end > start on the half-open range.
func ValidateBookingDates(start, end time.Time) error {
	if !end.After(start) {
		return errors.NewAppError(errors.ErrCodeInvalidDates, "End date must be after start date", errors.ErrBookingInvalidDates)
	}
	return nil
}

// ValidateReview checks star bounds; text is optional.
func ValidateReview(review *models.Review) error {
	if err := review.ValidateStars(); err != nil {
		return errors.NewAppError(errors.ErrCodeInvalidStars, "Rating must be between 1 and 5", err)
	}
	return nil
}
