package booking

import (
	"context"
	"fmt"
	"time"

	bookingRepo "maato/database/repository/booking"
	"maato/models"
	"maato/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateBooking validates the request, guards the slot, persists the
// booking as pending and immediately attempts expert assignment.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, farmerID string, in models.CreateBookingInput) (*models.Booking, error) {
	if err := validateCreateInput(in); err != nil {
		return nil, err
	}

	// Friendly pre-check. The unique_active_slot index remains the
	// authoritative guard for the race window between check and insert.
	taken, err := s.Repo.SlotTaken(ctx, in.CollectionDate, in.Municipality, in.Ward, in.TimeSlot)
	if err != nil {
		return nil, fmt.Errorf("failed to check slot availability: %w", err)
	}
	if taken {
		return nil, NewConflictError("this time slot is already booked for your ward")
	}

	b := &models.Booking{
		ID:             uuid.New().String(),
		FarmerID:       farmerID,
		FieldName:      in.FieldName,
		PhoneNumber:    in.PhoneNumber,
		Municipality:   in.Municipality,
		Ward:           in.Ward,
		District:       in.District,
		Province:       in.Province,
		CollectionDate: in.CollectionDate,
		TimeSlot:       in.TimeSlot,
		NepaliDate:     in.NepaliDate,
		Status:         models.StatusPending,
		Active:         true,
	}

	if err := s.Repo.Create(ctx, b); err != nil {
		if err == bookingRepo.ErrDuplicateSlot {
			return nil, NewConflictError("this time slot is already booked for your ward")
		}
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	s.invalidateSlotCache(ctx, b)

	// Auto-match. A matching failure leaves the booking pending; it never
	// undoes the creation.
	if assigned := s.tryAssign(ctx, b, nil); assigned != nil {
		return assigned, nil
	}
	return b, nil
}

// tryAssign runs the matcher and applies the pending→assigned effects for
// the winning expert, if any. Returns the updated booking or nil when the
// booking stayed pending.
func (s *DefaultBookingService) tryAssign(ctx context.Context, b *models.Booking, excludeIDs []string) *models.Booking {
	logger := utils.GetLogger()

	expert, err := s.MatchingSvc.FindBestExpert(ctx, b.Municipality, b.Ward, excludeIDs)
	if err != nil {
		logger.Warn("expert matching failed, booking stays pending",
			zap.String("bookingId", b.ID), zap.Error(err))
		return nil
	}
	if expert == nil {
		logger.Info("no expert available, booking stays pending",
			zap.String("bookingId", b.ID),
			zap.String("municipality", b.Municipality),
			zap.String("ward", b.Ward),
		)
		return nil
	}

	assigned, err := s.Repo.Assign(ctx, b.ID, expert.ID)
	if err != nil {
		// The booking left pending concurrently (admin override or a racing
		// assignment); treat as no-op.
		logger.Warn("assignment not applied",
			zap.String("bookingId", b.ID), zap.String("expertId", expert.ID), zap.Error(err))
		return nil
	}

	s.NotifySvc.Notify(ctx, expert.ID, models.NotifBookingAssigned,
		"New soil test assigned",
		fmt.Sprintf("A soil test in %s ward %s is scheduled for %s at %s.",
			assigned.Municipality, assigned.Ward, assigned.CollectionDate, assigned.TimeSlot),
		map[string]string{"bookingId": assigned.ID},
	)
	return assigned
}

// GetBookedSlots returns the occupied time slot codes for a slot tuple
// prefix, served from the cache when warm.
func (s *DefaultBookingService) GetBookedSlots(ctx context.Context, date, municipality, ward string) ([]string, error) {
	if date == "" || municipality == "" || ward == "" {
		return nil, NewValidationError("date, municipality and ward are required")
	}

	if s.SlotCache != nil {
		if slots, ok := s.SlotCache.Get(ctx, date, municipality, ward); ok {
			return slots, nil
		}
	}

	slots, err := s.Repo.BookedSlots(ctx, date, municipality, ward)
	if err != nil {
		return nil, err
	}
	if s.SlotCache != nil {
		s.SlotCache.Set(ctx, date, municipality, ward, slots)
	}
	return slots, nil
}

func (s *DefaultBookingService) invalidateSlotCache(ctx context.Context, b *models.Booking) {
	if s.SlotCache != nil {
		s.SlotCache.Invalidate(ctx, b.CollectionDate, b.Municipality, b.Ward)
	}
}

func validateCreateInput(in models.CreateBookingInput) error {
	switch {
	case in.FieldName == "":
		return NewValidationError("fieldName is required")
	case in.PhoneNumber == "":
		return NewValidationError("phoneNumber is required")
	case in.Municipality == "":
		return NewValidationError("municipality is required")
	case in.Ward == "":
		return NewValidationError("ward is required")
	case in.CollectionDate == "":
		return NewValidationError("collectionDate is required")
	case in.TimeSlot == "":
		return NewValidationError("timeSlot is required")
	}
	if _, err := time.Parse("2006-01-02", in.CollectionDate); err != nil {
		return NewValidationError("collectionDate must be in YYYY-MM-DD format")
	}
	if !models.IsValidTimeSlot(in.TimeSlot) {
		return NewValidationError("timeSlot is not a recognised collection slot")
	}
	return nil
}
