package main

import (
	"log"
	"net/http"
	"os"

	"github.com/nader31/place-to-stay/config"
	"github.com/nader31/place-to-stay/jobs"
	"github.com/nader31/place-to-stay/models"
	"github.com/nader31/place-to-stay/routes"
	"github.com/nader31/place-to-stay/services"
	"github.com/nader31/place-to-stay/services/logger"
	"github.com/nader31/place-to-stay/validator"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func migrateTables() {
	if err := config.DB.AutoMigrate(&models.Listing{}, &models.ListingImage{}, &models.Booking{}, &models.Review{}, &models.Favorite{}); err != nil {
		panic("Failed to migrate tables: " + err.Error())
	}
}

func main() {

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: no .env file found, using existing environment: %v", err)
	}

	router, m, c, err := config.InitApp()
	if err != nil {
		log.Fatalf("Failed to initialize app: %v", err)
	}

	validator.RegisterBindings()

	appLogger := logger.NewDefaultLogger(logger.InfoLevel)
	bookingService := services.NewBookingService(services.BookingServiceOptions{
		DB:     config.DB,
		Logger: appLogger,
	})
	favoriteService := services.NewFavoriteService(services.FavoriteServiceOptions{
		DB:     config.DB,
		Logger: appLogger,
	})
	jobs.SetOverlapScanner(bookingService)
	jobs.SetFavoritePurger(favoriteService)

	migrateTables()

	if err := jobs.InitCronJobs(c); err != nil {
		log.Fatalf("Failed to initialize cron jobs: %v", err)
	}

	config.InitWebSocket(router, m)

	routes.SetupRoutes(router, config.DB, config.RedisClient, config.Cloudinary, m)

	router.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, "pong")
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8083"
	}

	log.Println("Server starting on port " + port + "...")
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
