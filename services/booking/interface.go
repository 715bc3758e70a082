package booking

import (
	"context"

	bookingRepo "maato/database/repository/booking"
	"maato/models"
	"maato/services/notification"
	"maato/services/reminder"
)

// MatchingService selects the expert who should receive a newly pending or
// re-pending booking. Pure selection: all effects are applied by the caller.
type MatchingService interface {
	// FindBestExpert returns the best candidate for the target location, or
	// nil when no approved expert qualifies.
	FindBestExpert(ctx context.Context, municipality, ward string, excludeIDs []string) (*models.User, error)
}

// BookingService owns booking creation, the lifecycle state machine and its
// side effects.
type BookingService interface {
	CreateBooking(ctx context.Context, farmerID string, in models.CreateBookingInput) (*models.Booking, error)
	GetBookedSlots(ctx context.Context, date, municipality, ward string) ([]string, error)
	GetBooking(ctx context.Context, actorID string, role models.Role, bookingID string) (*models.Booking, error)
	ListFarmerBookings(ctx context.Context, farmerID string) ([]models.Booking, error)
	ListExpertBookings(ctx context.Context, expertID string) ([]models.Booking, error)

	AcceptBooking(ctx context.Context, expertID, bookingID string) (*models.Booking, error)
	RejectBooking(ctx context.Context, expertID, bookingID string) (*models.Booking, error)
	CollectBooking(ctx context.Context, expertID, bookingID string) (*models.Booking, error)
	UploadReport(ctx context.Context, expertID, bookingID string, in models.UploadReportInput) (*models.Booking, error)
	CompleteBooking(ctx context.Context, expertID, bookingID string) (*models.Booking, error)

	ListAllBookings(ctx context.Context, status models.BookingStatus) ([]models.Booking, error)
	AdminSetStatus(ctx context.Context, bookingID string, to models.BookingStatus) (*models.Booking, error)
	AdminDeleteBooking(ctx context.Context, bookingID string) error
}

// DefaultBookingService implements BookingService.
type DefaultBookingService struct {
	Repo        bookingRepo.BookingRepository
	MatchingSvc MatchingService
	NotifySvc   notification.NotificationService
	Reminders   reminder.Scheduler // optional
	SlotCache   SlotCache          // optional
}
