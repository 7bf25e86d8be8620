package controllers

import (
	"context"
	"sort"

	"github.com/nader31/place-to-stay/dto"
	"github.com/nader31/place-to-stay/middleware"
	"github.com/nader31/place-to-stay/models"
	"github.com/nader31/place-to-stay/response"
	"github.com/nader31/place-to-stay/services"
	"github.com/nader31/place-to-stay/services/logger"
	"github.com/nader31/place-to-stay/services/notification"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

type BookingController struct {
	bookings      *services.BookingService
	identity      *services.IdentityService
	notifications notification.Service
	rdb           *redis.Client
	logger        logger.Logger
}

type BookingControllerOptions struct {
	Bookings      *services.BookingService
	Identity      *services.IdentityService
	Notifications notification.Service
	Redis         *redis.Client
	Logger        logger.Logger
}

func NewBookingController(opts BookingControllerOptions) *BookingController {
	return &BookingController{
		bookings:      opts.Bookings,
		identity:      opts.Identity,
		notifications: opts.Notifications,
		rdb:           opts.Redis,
		logger:        opts.Logger,
	}
}

// Create records a new pending booking for the caller.
func (ctrl *BookingController) Create(c *gin.Context) {
	var req dto.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid booking data")
		return
	}

	booking, err := ctrl.bookings.Create(req.ListingID, middleware.CurrentUserID(c), req.StartDate, req.EndDate)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Created(c, toBookingResponse(*booking, nil))
}

// UpdateStatus lets the listing owner confirm or cancel a pending booking
// and pushes the decision to connected clients.
func (ctrl *BookingController) UpdateStatus(c *gin.Context) {
	var req dto.UpdateBookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid status data")
		return
	}

	booking, err := ctrl.bookings.UpdateStatus(req.BookingID, middleware.CurrentUserID(c), req.Status)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	// A confirm changes the listing's booked dates.
	invalidateListingDetail(ctrl.rdb, ctrl.logger, booking.ListingID)

	if ctrl.notifications != nil {
		event := notification.NewBookingEvent(booking.ID, booking.ListingID, booking.UserID, booking.Status)
		if err := ctrl.notifications.SendMessage(event.Build()); err != nil {
			ctrl.logger.Error("Cannot broadcast booking event: %v", err)
		}
	}

	response.Success(c, toBookingResponse(*booking, nil))
}

// MyBookings returns the caller's bookings as guest, optionally filtered by
// status, ordered by check-in date.
func (ctrl *BookingController) MyBookings(c *gin.Context) {
	status := c.DefaultQuery("status", "")
	bookings, err := ctrl.bookings.ListByUser(middleware.CurrentUserID(c), status)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, ctrl.toResponses(c.Request.Context(), bookings, false))
}

// HostBookings returns bookings placed on any listing the caller owns, so a
// host can review pending requests with guest info attached.
func (ctrl *BookingController) HostBookings(c *gin.Context) {
	status := c.DefaultQuery("status", "")
	bookings, err := ctrl.bookings.ListByListingAuthor(middleware.CurrentUserID(c), status)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, ctrl.toResponses(c.Request.Context(), bookings, true))
}

// ListByListing returns a single listing's bookings, newest first.
func (ctrl *BookingController) ListByListing(c *gin.Context) {
	listingID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "Invalid listing id")
		return
	}

	bookings, err := ctrl.bookings.ListByListing(listingID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	response.Success(c, ctrl.toResponses(c.Request.Context(), bookings, true))
}

// GetForListing returns the caller's newest booking on a listing, or null.
func (ctrl *BookingController) GetForListing(c *gin.Context) {
	listingID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "Invalid listing id")
		return
	}

	booking, err := ctrl.bookings.GetForUserAndListing(middleware.CurrentUserID(c), listingID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	if booking == nil {
		response.Success(c, nil)
		return
	}

	response.Success(c, toBookingResponse(*booking, nil))
}

// Withdraw removes every booking the caller holds on a listing. Removing
// nothing is not an error.
func (ctrl *BookingController) Withdraw(c *gin.Context) {
	listingID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "Invalid listing id")
		return
	}

	callerID := middleware.CurrentUserID(c)
	deleted, err := ctrl.bookings.Withdraw(callerID, callerID, listingID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if deleted > 0 {
		invalidateListingDetail(ctrl.rdb, ctrl.logger, listingID)
	}
	response.Success(c, dto.WithdrawBookingResponse{Deleted: deleted})
}

// MyBookingCount returns how many bookings the caller has placed.
func (ctrl *BookingController) MyBookingCount(c *gin.Context) {
	count, err := ctrl.bookings.CountForUser(middleware.CurrentUserID(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"count": count})
}

// CountByListing returns how many bookings a listing has received.
func (ctrl *BookingController) CountByListing(c *gin.Context) {
	listingID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "Invalid listing id")
		return
	}

	count, err := ctrl.bookings.CountByListing(listingID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	response.Success(c, gin.H{"count": count})
}

// ConfirmedDates returns the date ranges a booking picker should disable.
func (ctrl *BookingController) ConfirmedDates(c *gin.Context) {
	listingID, err := parseIDParam(c)
	if err != nil {
		response.BadRequest(c, "Invalid listing id")
		return
	}

	ranges, err := ctrl.bookings.ConfirmedDateRanges(listingID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	items := make([]dto.DateRangeResponse, 0, len(ranges))
	for _, r := range ranges {
		items = append(items, dto.DateRangeResponse{StartDate: r.Start, EndDate: r.End})
	}
	response.Success(c, items)
}

func (ctrl *BookingController) toResponses(ctx context.Context, bookings []models.Booking, withGuests bool) []dto.BookingResponse {
	var guests map[string]dto.IdentityUser
	if withGuests && ctrl.identity != nil {
		guestIDs := make([]string, 0, len(bookings))
		for _, booking := range bookings {
			guestIDs = append(guestIDs, booking.UserID)
		}
		resolved, err := ctrl.identity.GetUsers(ctx, guestIDs)
		if err != nil {
			ctrl.logger.Error("Cannot resolve booking guests: %v", err)
		} else {
			guests = resolved
		}
	}

	items := make([]dto.BookingResponse, 0, len(bookings))
	for _, booking := range bookings {
		var guest *dto.IdentityUser
		if g, ok := guests[booking.UserID]; ok {
			guestCopy := g
			guest = &guestCopy
		}
		items = append(items, toBookingResponse(booking, guest))
	}
	return items
}

func toBookingResponse(booking models.Booking, guest *dto.IdentityUser) dto.BookingResponse {
	resp := dto.BookingResponse{
		ID:        booking.ID,
		ListingID: booking.ListingID,
		UserID:    booking.UserID,
		User:      guest,
		StartDate: booking.StartDate,
		EndDate:   booking.EndDate,
		Status:    booking.Status,
		Nights:    booking.Nights(),
		CreatedAt: booking.CreatedAt,
	}

	if booking.Listing.ID != 0 {
		images := append([]models.ListingImage(nil), booking.Listing.Images...)
		sort.Slice(images, func(i, j int) bool { return images[i].Position < images[j].Position })
		urls := make([]string, 0, len(images))
		for _, img := range images {
			urls = append(urls, img.URL)
		}
		resp.Listing = &dto.BookingListingResponse{
			ID:      booking.Listing.ID,
			UserID:  booking.Listing.UserID,
			Title:   booking.Listing.Title,
			City:    booking.Listing.City,
			Country: booking.Listing.Country,
			Price:   booking.Listing.Price,
			Images:  urls,
		}
	}
	return resp
}
