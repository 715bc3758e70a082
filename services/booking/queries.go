package booking

import (
	"context"

	bookingRepo "maato/database/repository/booking"
	"maato/models"
)

// GetBooking returns a single booking, visible to its farmer, its assigned
// expert, and admins.
func (s *DefaultBookingService) GetBooking(ctx context.Context, actorID string, role models.Role, bookingID string) (*models.Booking, error) {
	b, err := s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		if err == bookingRepo.ErrNotFound {
			return nil, NewNotFoundError("booking not found")
		}
		return nil, err
	}

	switch role {
	case models.RoleAdmin:
		return b, nil
	case models.RoleFarmer:
		if b.FarmerID == actorID {
			return b, nil
		}
	case models.RoleExpert:
		if b.ExpertID != nil && *b.ExpertID == actorID {
			return b, nil
		}
	}
	return nil, NewAuthorizationError("you do not have access to this booking")
}

// ListFarmerBookings returns the farmer's bookings, newest first.
func (s *DefaultBookingService) ListFarmerBookings(ctx context.Context, farmerID string) ([]models.Booking, error) {
	return s.Repo.ListByFarmer(ctx, farmerID)
}

// ListExpertBookings returns the bookings currently assigned to the expert.
func (s *DefaultBookingService) ListExpertBookings(ctx context.Context, expertID string) ([]models.Booking, error) {
	return s.Repo.ListByExpert(ctx, expertID)
}

// ListAllBookings returns all bookings, optionally filtered by status.
// Admin surface.
func (s *DefaultBookingService) ListAllBookings(ctx context.Context, status models.BookingStatus) ([]models.Booking, error) {
	if status != "" && !status.IsValid() {
		return nil, NewValidationError("unknown booking status filter")
	}
	return s.Repo.List(ctx, status)
}
