package routes

import (
	"context"
	"net/http"

	"github.com/nader31/place-to-stay/config"
	"github.com/nader31/place-to-stay/controllers"
	middlewares "github.com/nader31/place-to-stay/middleware"
	"github.com/nader31/place-to-stay/services"
	"github.com/nader31/place-to-stay/services/logger"
	"github.com/nader31/place-to-stay/services/notification"

	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"

	"github.com/redis/go-redis/v9"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"gorm.io/gorm"
)

func SetupRoutes(router *gin.Engine, db *gorm.DB, redisCli *redis.Client, cld *cloudinary.Cloudinary, m *melody.Melody) {

	appLogger := logger.NewDefaultLogger(logger.InfoLevel)

	identityService := services.NewIdentityService(services.IdentityServiceOptions{
		BaseURL: config.GetEnv("IDENTITY_API_URL"),
		Redis:   redisCli,
		Logger:  appLogger,
	})
	aggregationService := services.NewAggregationService(db)
	availabilityService := services.NewAvailabilityService(db)
	suggestionService := services.NewSuggestionService(db)
	bookingService := services.NewBookingService(services.BookingServiceOptions{
		DB:     db,
		Logger: appLogger,
	})
	searchService := services.NewSearchService(services.SearchServiceOptions{
		DB:           db,
		Availability: availabilityService,
		Aggregation:  aggregationService,
		Identity:     identityService,
		Suggestions:  suggestionService,
		Logger:       appLogger,
	})
	listingService := services.NewListingService(services.ListingServiceOptions{
		DB:          db,
		Aggregation: aggregationService,
		Bookings:    bookingService,
		Identity:    identityService,
		Logger:      appLogger,
	})
	favoriteService := services.NewFavoriteService(services.FavoriteServiceOptions{
		DB:          db,
		Aggregation: aggregationService,
		Identity:    identityService,
		Logger:      appLogger,
	})
	reviewService := services.NewReviewService(services.ReviewServiceOptions{
		DB:          db,
		Aggregation: aggregationService,
		Identity:    identityService,
		Logger:      appLogger,
	})

	listingController := controllers.NewListingController(controllers.ListingControllerOptions{
		Listings: listingService,
		Search:   searchService,
		Redis:    redisCli,
		Logger:   appLogger,
	})
	bookingController := controllers.NewBookingController(controllers.BookingControllerOptions{
		Bookings:      bookingService,
		Identity:      identityService,
		Notifications: notification.NewMelodyService(m),
		Redis:         redisCli,
		Logger:        appLogger,
	})
	reviewController := controllers.NewReviewController(controllers.ReviewControllerOptions{
		Reviews: reviewService,
		Redis:   redisCli,
		Logger:  appLogger,
	})
	favoriteController := controllers.NewFavoriteController(controllers.FavoriteControllerOptions{
		Favorites: favoriteService,
		Redis:     redisCli,
		Logger:    appLogger,
	})

	v1 := router.Group("/api/v1")

	v1.GET("/listings", middlewares.OptionalAuthMiddleware(), listingController.Search)
	v1.GET("/listings/:id", middlewares.OptionalAuthMiddleware(), listingController.GetDetail)
	v1.POST("/listings", middlewares.AuthMiddleware(), listingController.Create)
	v1.PUT("/listings/:id", middlewares.AuthMiddleware(), listingController.Update)
	v1.DELETE("/listings/:id", middlewares.AuthMiddleware(), listingController.Delete)
	v1.GET("/myListings", middlewares.AuthMiddleware(), listingController.MyListings)
	v1.GET("/userListings/:id", listingController.ListByUser)
	v1.GET("/listings/:id/reviews", reviewController.ListByListing)
	v1.GET("/listings/:id/bookings", middlewares.AuthMiddleware(), bookingController.ListByListing)
	v1.GET("/listings/:id/bookedDates", bookingController.ConfirmedDates)
	v1.GET("/listings/:id/bookingCount", bookingController.CountByListing)

	v1.POST("/bookings", middlewares.AuthMiddleware(), bookingController.Create)
	v1.PUT("/bookingStatus", middlewares.AuthMiddleware(), bookingController.UpdateStatus)
	v1.GET("/myBookings", middlewares.AuthMiddleware(), bookingController.MyBookings)
	v1.GET("/myBookingCount", middlewares.AuthMiddleware(), bookingController.MyBookingCount)
	v1.GET("/hostBookings", middlewares.AuthMiddleware(), bookingController.HostBookings)
	v1.GET("/myBooking/:id", middlewares.AuthMiddleware(), bookingController.GetForListing)
	v1.DELETE("/myBooking/:id", middlewares.AuthMiddleware(), bookingController.Withdraw)

	v1.POST("/reviews", middlewares.AuthMiddleware(), reviewController.Create)
	v1.GET("/hostReviews", middlewares.AuthMiddleware(), reviewController.MyHostReviews)
	v1.GET("/hostReviews/:id", reviewController.HostReviews)

	v1.POST("/favorites", middlewares.AuthMiddleware(), favoriteController.Create)
	v1.DELETE("/favorites/:id", middlewares.AuthMiddleware(), favoriteController.Delete)
	v1.GET("/myFavorites", middlewares.AuthMiddleware(), favoriteController.MyFavorites)

	v1.POST("/img/multi-upload", middlewares.AuthMiddleware(), func(c *gin.Context) {
		form, er := c.MultipartForm()
		if er != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No file"})
			return
		}
		files := form.File["files"]
		if len(files) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No file"})
			return
		}

		var urls []string
		for _, file := range files {
			src, err := file.Open()
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot open file"})
				return
			}
			defer src.Close()

			ctx := context.Background()
			resp, err := cld.Upload.Upload(ctx, src, uploader.UploadParams{Folder: "listings"})
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
				return
			}
			urls = append(urls, resp.SecureURL)
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Upload successful",
			"urls":    urls,
		})
	})

	v1.POST("/img/upload", middlewares.AuthMiddleware(), func(c *gin.Context) {
		file, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No file"})
			return
		}

		src, err := file.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot open file"})
			return
		}
		defer src.Close()

		ctx := context.Background()
		resp, err := cld.Upload.Upload(ctx, src, uploader.UploadParams{Folder: "listings"})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"message": "Upload successful",
			"url":     resp.SecureURL,
		})
	})
}
