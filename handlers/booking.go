package handlers

import (
	"net/http"

	"maato/middleware"
	"maato/models"
	"maato/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler serves the farmer-facing booking endpoints.
type BookingHandler struct {
	Service booking.BookingService
	Logger  *zap.Logger
}

// NewBookingHandler creates a BookingHandler.
func NewBookingHandler(svc booking.BookingService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Service: svc, Logger: logger}
}

// CreateBooking handles POST /api/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var in models.CreateBookingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	b, err := h.Service.CreateBooking(c.Request.Context(), middleware.ActorID(c), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.Logger.Info("booking created",
		zap.String("bookingId", b.ID),
		zap.String("status", string(b.Status)),
	)
	c.JSON(http.StatusCreated, gin.H{"booking": b})
}

// GetBookedSlots handles GET /api/bookings/slots.
func (h *BookingHandler) GetBookedSlots(c *gin.Context) {
	date := c.Query("date")
	municipality := c.Query("municipality")
	ward := c.Query("ward")

	slots, err := h.Service.GetBookedSlots(c.Request.Context(), date, municipality, ward)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if slots == nil {
		slots = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"bookedSlots": slots})
}

// MyBookings handles GET /api/bookings/my.
func (h *BookingHandler) MyBookings(c *gin.Context) {
	bookings, err := h.Service.ListFarmerBookings(c.Request.Context(), middleware.ActorID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// GetBooking handles GET /api/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	b, err := h.Service.GetBooking(c.Request.Context(), middleware.ActorID(c), middleware.ActorRole(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booking": b})
}
