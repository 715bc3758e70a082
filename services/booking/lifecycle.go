package booking

import (
	"context"
	"fmt"

	bookingRepo "maato/database/repository/booking"
	"maato/models"
)

// loadForExpertAction fetches the booking and authorizes the acting expert.
// Only the currently assigned expert may drive expert transitions.
func (s *DefaultBookingService) loadForExpertAction(ctx context.Context, expertID, bookingID string) (*models.Booking, error) {
	b, err := s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		if err == bookingRepo.ErrNotFound {
			return nil, NewNotFoundError("booking not found")
		}
		return nil, err
	}
	if b.ExpertID == nil || *b.ExpertID != expertID {
		return nil, NewAuthorizationError("you are not the assigned expert for this booking")
	}
	return b, nil
}

// AcceptBooking moves an assigned booking to accepted.
func (s *DefaultBookingService) AcceptBooking(ctx context.Context, expertID, bookingID string) (*models.Booking, error) {
	b, err := s.loadForExpertAction(ctx, expertID, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != models.StatusAssigned {
		return nil, NewPreconditionError(fmt.Sprintf("booking cannot be accepted from status %q", b.Status))
	}

	updated, err := s.Repo.Transition(ctx, bookingID, expertID, models.StatusAssigned, models.StatusAccepted)
	if err != nil {
		return nil, s.mapTransitionErr(err, "accept")
	}

	s.NotifySvc.Notify(ctx, updated.FarmerID, models.NotifBookingAccepted,
		"Booking accepted",
		fmt.Sprintf("Your soil test on %s (%s) has been accepted by the expert.", updated.CollectionDate, updated.TimeSlot),
		map[string]string{"bookingId": updated.ID},
	)
	if s.Reminders != nil {
		s.Reminders.ScheduleCollectionReminder(updated)
	}
	return updated, nil
}

// RejectBooking returns an assigned or accepted booking to pending and
// immediately re-runs the matcher, excluding every expert who has declined
// this booking so far.
func (s *DefaultBookingService) RejectBooking(ctx context.Context, expertID, bookingID string) (*models.Booking, error) {
	b, err := s.loadForExpertAction(ctx, expertID, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != models.StatusAssigned && b.Status != models.StatusAccepted {
		return nil, NewPreconditionError(fmt.Sprintf("booking cannot be rejected from status %q", b.Status))
	}

	updated, err := s.Repo.RejectAssignment(ctx, bookingID, expertID)
	if err != nil {
		return nil, s.mapTransitionErr(err, "reject")
	}
	if s.Reminders != nil {
		s.Reminders.CancelCollectionReminder(bookingID)
	}

	// Re-match excluding all accumulated rejections.
	reassigned := s.tryAssign(ctx, updated, updated.RejectedExperts)
	if reassigned != nil {
		s.NotifySvc.Notify(ctx, reassigned.FarmerID, models.NotifBookingReassigned,
			"Booking reassigned",
			"Your soil test has been reassigned to another expert.",
			map[string]string{"bookingId": reassigned.ID},
		)
		return reassigned, nil
	}

	s.NotifySvc.Notify(ctx, updated.FarmerID, models.NotifBookingSearching,
		"Searching for an expert",
		"The assigned expert declined your soil test. We are searching for another expert.",
		map[string]string{"bookingId": updated.ID},
	)
	return updated, nil
}

// CollectBooking records that the expert has collected the soil sample.
func (s *DefaultBookingService) CollectBooking(ctx context.Context, expertID, bookingID string) (*models.Booking, error) {
	b, err := s.loadForExpertAction(ctx, expertID, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != models.StatusAccepted {
		return nil, NewPreconditionError(fmt.Sprintf("sample cannot be collected from status %q", b.Status))
	}

	updated, err := s.Repo.Transition(ctx, bookingID, expertID, models.StatusAccepted, models.StatusCollected)
	if err != nil {
		return nil, s.mapTransitionErr(err, "collect")
	}

	s.NotifySvc.Notify(ctx, updated.FarmerID, models.NotifSampleCollected,
		"Sample collected",
		"Your soil sample has been collected and is on its way to the lab.",
		map[string]string{"bookingId": updated.ID},
	)
	return updated, nil
}

// UploadReport attaches the report reference to a collected booking. An
// existing report is superseded.
func (s *DefaultBookingService) UploadReport(ctx context.Context, expertID, bookingID string, in models.UploadReportInput) (*models.Booking, error) {
	if in.ReportFile == "" {
		return nil, NewValidationError("reportFile is required")
	}

	b, err := s.loadForExpertAction(ctx, expertID, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != models.StatusCollected {
		return nil, NewPreconditionError(fmt.Sprintf("report cannot be uploaded from status %q", b.Status))
	}

	updated, err := s.Repo.AttachReport(ctx, bookingID, expertID, in.ReportFile, in.SoilResults, in.FertilizerRecommendation)
	if err != nil {
		return nil, s.mapTransitionErr(err, "upload report")
	}

	s.NotifySvc.Notify(ctx, updated.FarmerID, models.NotifReportUploaded,
		"Soil report ready",
		"Your soil test report has been uploaded. Completion is pending expert sign-off.",
		map[string]string{"bookingId": updated.ID},
	)
	return updated, nil
}

// CompleteBooking finishes a collected booking. The report gate applies:
// completion without an uploaded report is a precondition failure.
func (s *DefaultBookingService) CompleteBooking(ctx context.Context, expertID, bookingID string) (*models.Booking, error) {
	b, err := s.loadForExpertAction(ctx, expertID, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != models.StatusCollected {
		return nil, NewPreconditionError(fmt.Sprintf("booking cannot be completed from status %q", b.Status))
	}
	if b.ReportFile == nil || *b.ReportFile == "" {
		return nil, NewPreconditionError("a report must be uploaded before completing the booking")
	}

	updated, err := s.Repo.Complete(ctx, bookingID, expertID)
	if err != nil {
		return nil, s.mapTransitionErr(err, "complete")
	}
	if s.Reminders != nil {
		s.Reminders.CancelCollectionReminder(bookingID)
	}

	s.NotifySvc.Notify(ctx, updated.FarmerID, models.NotifBookingCompleted,
		"Soil test completed",
		"Your soil test is complete. The report and fertilizer recommendation are available.",
		map[string]string{"bookingId": updated.ID},
	)
	return updated, nil
}

// mapTransitionErr converts repository transition failures into service
// errors. A stale CAS means the booking moved concurrently; the caller
// should re-read and retry.
func (s *DefaultBookingService) mapTransitionErr(err error, action string) error {
	switch err {
	case bookingRepo.ErrStaleTransition:
		return NewPreconditionError(fmt.Sprintf("booking changed while trying to %s it, please retry", action))
	case bookingRepo.ErrNotFound:
		return NewNotFoundError("booking not found")
	default:
		return err
	}
}
