package routes

import (
	"net/http"
	"time"

	"maato/config"
	"maato/handlers"
	"maato/middleware"
	"maato/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterRoutes wires all endpoints onto the router.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	// Report PDFs referenced by bookings are served straight from disk.
	r.Static("/reports", config.AppConfig.ReportDir)

	RegisterHealthRoute(r)
	RegisterBookingRoutes(r, hb)
	RegisterExpertRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterNotificationRoutes(r, hb)
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Maato"})
	})
}

// RegisterBookingRoutes sets up the farmer-facing booking endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	{
		api.Use(middleware.AuthMiddleware())
		api.GET("/slots", hb.Booking.GetBookedSlots)
		api.GET("/my", middleware.RequireRole(models.RoleFarmer), hb.Booking.MyBookings)
		api.GET("/:id", hb.Booking.GetBooking)
		api.POST("", middleware.RequireRole(models.RoleFarmer), hb.Booking.CreateBooking)
	}
}

// RegisterExpertRoutes sets up the expert action endpoints.
func RegisterExpertRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/expert/bookings")
	{
		api.Use(middleware.AuthMiddleware())
		api.Use(middleware.RequireRole(models.RoleExpert))
		api.GET("", hb.Expert.AssignedBookings)
		api.POST("/:id/accept", hb.Expert.Accept)
		api.POST("/:id/reject", hb.Expert.Reject)
		api.POST("/:id/collect", hb.Expert.Collect)
		api.POST("/:id/report", hb.Expert.UploadReport)
		api.POST("/:id/complete", hb.Expert.Complete)
	}
}

// RegisterAdminRoutes sets up the admin booking management endpoints.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/admin/bookings")
	{
		api.Use(middleware.AuthMiddleware())
		api.Use(middleware.RequireRole(models.RoleAdmin))
		api.GET("", hb.Admin.ListBookings)
		api.PATCH("/:id/status", hb.Admin.SetStatus)
		api.DELETE("/:id", hb.Admin.DeleteBooking)
	}
}

// RegisterNotificationRoutes sets up the in-app notification endpoints.
func RegisterNotificationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/notifications")
	{
		api.Use(middleware.AuthMiddleware())
		api.GET("", hb.Notification.List)
		api.POST("/:id/read", hb.Notification.MarkRead)
	}
}
