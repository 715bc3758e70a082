package bookingRepo

import (
	"context"
	"errors"

	"maato/models"
)

// Sentinel errors surfaced to the service layer.
var (
	// ErrNotFound is returned when no booking matches the given id.
	ErrNotFound = errors.New("booking not found")

	// ErrStaleTransition is returned when a conditional update matched no
	// document, meaning the booking moved out of the expected status (or
	// away from the expected expert) concurrently.
	ErrStaleTransition = errors.New("booking state changed concurrently")

	// ErrDuplicateSlot is returned when an insert collides with the unique
	// slot index.
	ErrDuplicateSlot = errors.New("slot already booked")
)

// BookingRepository defines persistence for bookings. Methods that change
// an expert's active set perform the booking write and the counter update
// in a single transaction.
type BookingRepository interface {
	Create(ctx context.Context, b *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)

	// BookedSlots returns the occupied time slot codes for a slot tuple
	// prefix, considering only active (non-cancelled) bookings.
	BookedSlots(ctx context.Context, date, municipality, ward string) ([]string, error)
	// SlotTaken reports whether an active booking already holds the slot.
	SlotTaken(ctx context.Context, date, municipality, ward, timeSlot string) (bool, error)

	ListByFarmer(ctx context.Context, farmerID string) ([]models.Booking, error)
	ListByExpert(ctx context.Context, expertID string) ([]models.Booking, error)
	List(ctx context.Context, status models.BookingStatus) ([]models.Booking, error)

	// Assign moves a pending booking to assigned for the given expert and
	// increments the expert's active counter.
	Assign(ctx context.Context, bookingID, expertID string) (*models.Booking, error)

	// Transition performs a plain compare-and-swap status move guarded on
	// the assigned expert. Used for assigned→accepted and accepted→collected.
	Transition(ctx context.Context, bookingID, expertID string, from, to models.BookingStatus) (*models.Booking, error)

	// RejectAssignment returns an assigned or accepted booking to pending:
	// clears the expert and assignedAt, records the expert in
	// rejectedExperts and decrements their counter.
	RejectAssignment(ctx context.Context, bookingID, expertID string) (*models.Booking, error)

	// AttachReport stores the report reference on a collected booking.
	AttachReport(ctx context.Context, bookingID, expertID, reportFile string, results *models.SoilResults, recommendation string) (*models.Booking, error)

	// Complete moves a collected booking with a report to completed and
	// decrements the expert's counter. The report guard is part of the
	// update filter so the gate cannot be raced.
	Complete(ctx context.Context, bookingID, expertID string) (*models.Booking, error)

	// Override sets an arbitrary status, compare-and-swapped on the status
	// the caller read when computing its effects. counterDelta (-1, 0 or
	// +1) is applied to expertID's active counter in the same transaction;
	// clearExpert unsets the assignment (used for overrides back to
	// pending and regular cancellations).
	Override(ctx context.Context, bookingID string, from, to models.BookingStatus, expertID string, counterDelta int, clearExpert bool) (*models.Booking, error)

	// Delete removes the booking; when expertID is non-empty the expert's
	// counter is decremented in the same transaction.
	Delete(ctx context.Context, bookingID, expertID string) error
}
