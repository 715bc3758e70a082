package handlers

import (
	"net/http"

	"maato/models"
	"maato/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler serves the admin booking management endpoints.
type AdminHandler struct {
	Service booking.BookingService
	Logger  *zap.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(svc booking.BookingService, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{Service: svc, Logger: logger}
}

// ListBookings handles GET /api/admin/bookings.
func (h *AdminHandler) ListBookings(c *gin.Context) {
	status := models.BookingStatus(c.Query("status"))
	bookings, err := h.Service.ListAllBookings(c.Request.Context(), status)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// SetStatus handles PATCH /api/admin/bookings/:id/status.
func (h *AdminHandler) SetStatus(c *gin.Context) {
	var in struct {
		Status models.BookingStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	b, err := h.Service.AdminSetStatus(c.Request.Context(), c.Param("id"), in.Status)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.Logger.Info("admin status override",
		zap.String("bookingId", b.ID),
		zap.String("status", string(b.Status)),
	)
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

// DeleteBooking handles DELETE /api/admin/bookings/:id.
func (h *AdminHandler) DeleteBooking(c *gin.Context) {
	id := c.Param("id")
	if err := h.Service.AdminDeleteBooking(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}

	h.Logger.Info("admin deleted booking", zap.String("bookingId", id))
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}
