package handlers

import (
	"context"
	"net/http"

	"maato/middleware"
	"maato/models"
	"maato/services/booking"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ExpertHandler serves the expert-facing booking action endpoints.
type ExpertHandler struct {
	Service booking.BookingService
	Logger  *zap.Logger
}

// NewExpertHandler creates an ExpertHandler.
func NewExpertHandler(svc booking.BookingService, logger *zap.Logger) *ExpertHandler {
	return &ExpertHandler{Service: svc, Logger: logger}
}

// AssignedBookings handles GET /api/expert/bookings.
func (h *ExpertHandler) AssignedBookings(c *gin.Context) {
	bookings, err := h.Service.ListExpertBookings(c.Request.Context(), middleware.ActorID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// Accept handles POST /api/expert/bookings/:id/accept.
func (h *ExpertHandler) Accept(c *gin.Context) {
	h.act(c, "accept", h.Service.AcceptBooking)
}

// Reject handles POST /api/expert/bookings/:id/reject.
func (h *ExpertHandler) Reject(c *gin.Context) {
	h.act(c, "reject", h.Service.RejectBooking)
}

// Collect handles POST /api/expert/bookings/:id/collect.
func (h *ExpertHandler) Collect(c *gin.Context) {
	h.act(c, "collect", h.Service.CollectBooking)
}

// Complete handles POST /api/expert/bookings/:id/complete.
func (h *ExpertHandler) Complete(c *gin.Context) {
	h.act(c, "complete", h.Service.CompleteBooking)
}

// UploadReport handles POST /api/expert/bookings/:id/report.
func (h *ExpertHandler) UploadReport(c *gin.Context) {
	var in models.UploadReportInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	b, err := h.Service.UploadReport(c.Request.Context(), middleware.ActorID(c), c.Param("id"), in)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.Logger.Info("report uploaded", zap.String("bookingId", b.ID))
	c.JSON(http.StatusOK, gin.H{"booking": b})
}

func (h *ExpertHandler) act(c *gin.Context, name string, fn func(ctx context.Context, expertID, bookingID string) (*models.Booking, error)) {
	b, err := fn(c.Request.Context(), middleware.ActorID(c), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	h.Logger.Info("expert action applied",
		zap.String("action", name),
		zap.String("bookingId", b.ID),
		zap.String("status", string(b.Status)),
	)
	c.JSON(http.StatusOK, gin.H{"booking": b})
}
