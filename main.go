// File: maato/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"maato/config"
	"maato/cron"
	"maato/database"
	bookingRepoPkg "maato/database/repository/booking"
	expertRepoPkg "maato/database/repository/expert"
	notifRepoPkg "maato/database/repository/notification"
	"maato/handlers"
	"maato/middleware"
	"maato/routes"
	"maato/services/booking"
	"maato/services/notification"
	"maato/services/reminder"
	"maato/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	expertRepo := expertRepoPkg.NewMongoExpertRepo()
	notifRepo := notifRepoPkg.NewMongoNotificationRepo()

	// services.
	notificationService := &notification.DefaultNotificationService{
		Repo: notifRepo,
	}

	matchingServiceInstance := &booking.DefaultMatchingService{
		ExpertRepo: expertRepo,
	}

	bookingService := &booking.DefaultBookingService{
		Repo:        bookingRepo,
		MatchingSvc: matchingServiceInstance,
		NotifySvc:   notificationService,
		Reminders:   reminder.NewAsynqScheduler(),
		SlotCache:   &booking.RedisSlotCache{Client: utils.GetCacheClient()},
	}

	cron.InitReminderWorker(bookingRepo, notificationService)

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Booking:      handlers.NewBookingHandler(bookingService, logger),
		Expert:       handlers.NewExpertHandler(bookingService, logger),
		Admin:        handlers.NewAdminHandler(bookingService, logger),
		Notification: handlers.NewNotificationHandler(notificationService),
	}

	// Register routes with the assembled handler bundle.
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
