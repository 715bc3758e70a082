package booking

import (
	"context"
	"fmt"

	bookingRepo "maato/database/repository/booking"
	"maato/models"
)

// countsTowardLoad reports whether a booking in the given status with the
// given expert occupies a slot in that expert's active set.
func countsTowardLoad(status models.BookingStatus, expertID *string) bool {
	if expertID == nil {
		return false
	}
	return status == models.StatusAssigned || status == models.StatusAccepted || status == models.StatusCollected
}

// AdminSetStatus overrides a booking's status. The override is free-form
// but still honours the data invariants: expert-holding statuses require an
// assignment, completion requires a report, a pending booking holds no
// expert, and the expert's active counter moves with the booking's
// membership in the active set.
func (s *DefaultBookingService) AdminSetStatus(ctx context.Context, bookingID string, to models.BookingStatus) (*models.Booking, error) {
	if !to.IsValid() {
		return nil, NewValidationError(fmt.Sprintf("unknown booking status %q", to))
	}

	b, err := s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		if err == bookingRepo.ErrNotFound {
			return nil, NewNotFoundError("booking not found")
		}
		return nil, err
	}
	if b.Status == to {
		return b, nil
	}

	switch to {
	case models.StatusAssigned, models.StatusAccepted, models.StatusCollected:
		if b.ExpertID == nil {
			return nil, NewPreconditionError(fmt.Sprintf("cannot set status %q on a booking with no assigned expert", to))
		}
	case models.StatusCompleted:
		if b.ExpertID == nil {
			return nil, NewPreconditionError("cannot complete a booking with no assigned expert")
		}
		if b.ReportFile == nil || *b.ReportFile == "" {
			return nil, NewPreconditionError("cannot complete a booking without an uploaded report")
		}
	}

	wasCounting := countsTowardLoad(b.Status, b.ExpertID)
	willCount := countsTowardLoad(to, b.ExpertID)

	var expertID string
	var delta int
	if b.ExpertID != nil {
		expertID = *b.ExpertID
		if wasCounting && !willCount {
			delta = -1
		} else if !wasCounting && willCount {
			delta = +1
		}
	}
	clearExpert := to == models.StatusPending

	// CAS on the status the delta was computed from: if the booking moved
	// concurrently (say, the expert completed it mid-override) the write is
	// rejected rather than applying a stale counter delta.
	updated, err := s.Repo.Override(ctx, bookingID, b.Status, to, expertID, delta, clearExpert)
	if err != nil {
		return nil, s.mapTransitionErr(err, "override")
	}

	// Cancelling or reviving a booking changes its slot occupancy.
	if (b.Status == models.StatusCancelled) != (to == models.StatusCancelled) {
		s.invalidateSlotCache(ctx, updated)
	}
	if s.Reminders != nil && to.IsTerminal() {
		s.Reminders.CancelCollectionReminder(bookingID)
	}

	s.NotifySvc.Notify(ctx, updated.FarmerID, models.NotifStatusChanged,
		"Booking status updated",
		fmt.Sprintf("Your soil test booking is now %q.", to),
		map[string]string{"bookingId": updated.ID, "status": string(to)},
	)
	if expertID != "" && !clearExpert {
		s.NotifySvc.Notify(ctx, expertID, models.NotifStatusChanged,
			"Booking status updated",
			fmt.Sprintf("Booking %s is now %q.", updated.ID, to),
			map[string]string{"bookingId": updated.ID, "status": string(to)},
		)
	}
	return updated, nil
}

// AdminDeleteBooking removes a booking record. If the booking occupied a
// slot in its expert's active set, the counter is released in the same
// transaction as the delete.
func (s *DefaultBookingService) AdminDeleteBooking(ctx context.Context, bookingID string) error {
	b, err := s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		if err == bookingRepo.ErrNotFound {
			return NewNotFoundError("booking not found")
		}
		return err
	}

	var expertID string
	if countsTowardLoad(b.Status, b.ExpertID) {
		expertID = *b.ExpertID
	}

	if err := s.Repo.Delete(ctx, bookingID, expertID); err != nil {
		if err == bookingRepo.ErrNotFound {
			return NewNotFoundError("booking not found")
		}
		return err
	}

	if b.Active {
		s.invalidateSlotCache(ctx, b)
	}
	if s.Reminders != nil {
		s.Reminders.CancelCollectionReminder(bookingID)
	}
	return nil
}
