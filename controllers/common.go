package controllers

import (
	"fmt"

	"github.com/nader31/place-to-stay/config"
	"github.com/nader31/place-to-stay/errors"
	"github.com/nader31/place-to-stay/response"
	"github.com/nader31/place-to-stay/services"
	"github.com/nader31/place-to-stay/services/logger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const listingDetailKeyFormat = "listings:detail:%d"

// invalidateListingDetail drops the cached anonymous detail payload for a
// listing. The payload embeds booked dates, review stats and the favorite
// count, so every mutation that changes one of them calls this.
func invalidateListingDetail(rdb *redis.Client, log logger.Logger, listingID uint) {
	if rdb == nil {
		return
	}
	key := fmt.Sprintf(listingDetailKeyFormat, listingID)
	if err := services.DeleteFromRedis(config.Ctx, rdb, key); err != nil && log != nil {
		log.Error("Cannot invalidate listing cache: %v", err)
	}
}

// handleServiceError maps an AppError onto the matching HTTP response.
// Anything that is not an AppError is a server fault.
func handleServiceError(c *gin.Context, err error) {
	appErr := errors.GetAppError(err)
	if appErr == nil {
		response.ServerError(c)
		return
	}

	switch appErr.Code {
	case errors.ErrCodeNotFound, errors.ErrCodeDBNotFound:
		response.NotFound(c)
	case errors.ErrCodeUnauthorized, errors.ErrCodeInvalidToken, errors.ErrCodeMissingToken:
		response.Unauthorized(c)
	case errors.ErrCodeForbidden:
		response.Forbidden(c)
	case errors.ErrCodeConflict, errors.ErrCodeDBDuplicate:
		response.Conflict(c, appErr.Message)
	case errors.ErrCodeValidation, errors.ErrCodeRequiredField, errors.ErrCodeInvalidFormat,
		errors.ErrCodeInvalidDates, errors.ErrCodeInvalidStars,
		errors.ErrCodeInvalidOperation, errors.ErrCodeInvalidStatus:
		response.ValidationError(c, appErr.Message)
	default:
		response.ServerError(c)
	}
}
