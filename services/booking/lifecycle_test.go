package booking

import (
	"context"
	"testing"

	"maato/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bookAssigned creates a booking that lands assigned to the given expert.
func bookAssigned(t *testing.T, svc *DefaultBookingService, store *fakeStore, expertID string) *models.Booking {
	t.Helper()
	store.addExpert(approvedExpert(expertID, "Kathmandu Metropolitan", "5", 0))
	b, err := svc.CreateBooking(context.Background(), "farmer-1", validInput())
	require.NoError(t, err)
	require.Equal(t, models.StatusAssigned, b.Status)
	require.NotNil(t, b.ExpertID)
	require.Equal(t, expertID, *b.ExpertID)
	return b
}

func advanceToCollected(t *testing.T, svc *DefaultBookingService, expertID, bookingID string) *models.Booking {
	t.Helper()
	_, err := svc.AcceptBooking(context.Background(), expertID, bookingID)
	require.NoError(t, err)
	b, err := svc.CollectBooking(context.Background(), expertID, bookingID)
	require.NoError(t, err)
	return b
}

func TestAcceptBooking(t *testing.T) {
	svc, store, notifier, reminders := newTestService()
	b := bookAssigned(t, svc, store, "e-1")

	accepted, err := svc.AcceptBooking(context.Background(), "e-1", b.ID)
	require.NoError(t, err)

	assert.Equal(t, models.StatusAccepted, accepted.Status)
	assert.Equal(t, []string{models.NotifBookingAccepted}, notifier.typesFor("farmer-1"))
	assert.Equal(t, []string{b.ID}, reminders.scheduled)
	// Accept does not re-increment the counter.
	assert.Equal(t, 1, store.experts["e-1"].ActiveBookings)
}

func TestAcceptBooking_WrongExpert(t *testing.T) {
	svc, store, _, _ := newTestService()
	b := bookAssigned(t, svc, store, "e-1")
	store.addExpert(approvedExpert("e-intruder", "Pokhara", "1", 0))

	_, err := svc.AcceptBooking(context.Background(), "e-intruder", b.ID)
	require.Error(t, err)
	assert.Equal(t, CodeUnauthorized, CodeOf(err))
}

func TestAcceptBooking_WrongStatus(t *testing.T) {
	svc, store, _, _ := newTestService()
	b := bookAssigned(t, svc, store, "e-1")

	_, err := svc.AcceptBooking(context.Background(), "e-1", b.ID)
	require.NoError(t, err)

	// Accepting twice is a precondition failure.
	_, err = svc.AcceptBooking(context.Background(), "e-1", b.ID)
	require.Error(t, err)
	assert.Equal(t, CodePrecondition, CodeOf(err))
}

func TestAcceptBooking_NotFound(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.AcceptBooking(context.Background(), "e-1", "no-such-booking")
	require.Error(t, err)
	assert.Equal(t, CodeNotFound, CodeOf(err))
}

func TestRejectBooking_Reassigns(t *testing.T) {
	svc, store, notifier, _ := newTestService()
	// e-1 at distance 0 wins the first match; e-2 remains for the re-match.
	store.addExpert(approvedExpert("e-1", "Kathmandu Metropolitan", "5", 0))
	store.addExpert(approvedExpert("e-2", "Kathmandu Metropolitan", "7", 0))

	b, err := svc.CreateBooking(context.Background(), "farmer-1", validInput())
	require.NoError(t, err)
	require.Equal(t, "e-1", *b.ExpertID)

	rejected, err := svc.RejectBooking(context.Background(), "e-1", b.ID)
	require.NoError(t, err)

	assert.Equal(t, models.StatusAssigned, rejected.Status)
	require.NotNil(t, rejected.ExpertID)
	assert.Equal(t, "e-2", *rejected.ExpertID)
	assert.Equal(t, []string{"e-1"}, rejected.RejectedExperts)

	assert.Equal(t, 0, store.experts["e-1"].ActiveBookings)
	assert.Equal(t, 1, store.experts["e-2"].ActiveBookings)

	assert.Equal(t, []string{models.NotifBookingAssigned}, notifier.typesFor("e-2"))
	assert.Equal(t, []string{models.NotifBookingReassigned}, notifier.typesFor("farmer-1"))
}

func TestRejectBooking_NoCandidateLeft(t *testing.T) {
	svc, store, notifier, _ := newTestService()
	b := bookAssigned(t, svc, store, "e-only")

	rejected, err := svc.RejectBooking(context.Background(), "e-only", b.ID)
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, rejected.Status)
	assert.Nil(t, rejected.ExpertID)
	assert.Nil(t, rejected.AssignedAt)
	assert.Equal(t, []string{"e-only"}, rejected.RejectedExperts)
	assert.Equal(t, 0, store.experts["e-only"].ActiveBookings)
	assert.Equal(t, []string{models.NotifBookingSearching}, notifier.typesFor("farmer-1"))
}

func TestRejectBooking_RejectionsAccumulate(t *testing.T) {
	svc, store, _, _ := newTestService()
	store.addExpert(approvedExpert("e-1", "Kathmandu Metropolitan", "5", 0))
	store.addExpert(approvedExpert("e-2", "Kathmandu Metropolitan", "6", 0))

	b, err := svc.CreateBooking(context.Background(), "farmer-1", validInput())
	require.NoError(t, err)
	require.Equal(t, "e-1", *b.ExpertID)

	b, err = svc.RejectBooking(context.Background(), "e-1", b.ID)
	require.NoError(t, err)
	require.Equal(t, "e-2", *b.ExpertID)

	// The second rejection must not bounce back to e-1.
	b, err = svc.RejectBooking(context.Background(), "e-2", b.ID)
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, b.Status)
	assert.Nil(t, b.ExpertID)
	assert.ElementsMatch(t, []string{"e-1", "e-2"}, b.RejectedExperts)
	assert.Equal(t, 0, store.experts["e-1"].ActiveBookings)
	assert.Equal(t, 0, store.experts["e-2"].ActiveBookings)
}

func TestRejectBooking_AfterAccept(t *testing.T) {
	svc, store, _, reminders := newTestService()
	b := bookAssigned(t, svc, store, "e-1")

	_, err := svc.AcceptBooking(context.Background(), "e-1", b.ID)
	require.NoError(t, err)

	rejected, err := svc.RejectBooking(context.Background(), "e-1", b.ID)
	require.NoError(t, err)

	assert.Equal(t, models.StatusPending, rejected.Status)
	assert.Contains(t, reminders.cancelled, b.ID)
}

func TestCollectBooking_RequiresAccepted(t *testing.T) {
	svc, store, _, _ := newTestService()
	b := bookAssigned(t, svc, store, "e-1")

	_, err := svc.CollectBooking(context.Background(), "e-1", b.ID)
	require.Error(t, err)
	assert.Equal(t, CodePrecondition, CodeOf(err))
}

func TestUploadReport(t *testing.T) {
	svc, store, notifier, _ := newTestService()
	b := bookAssigned(t, svc, store, "e-1")
	advanceToCollected(t, svc, "e-1", b.ID)

	updated, err := svc.UploadReport(context.Background(), "e-1", b.ID, models.UploadReportInput{
		ReportFile: "report-001.pdf",
		SoilResults: &models.SoilResults{
			PH:       "6.4",
			Nitrogen: "low",
		},
		FertilizerRecommendation: "Apply 30kg urea per ropani before transplanting.",
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusCollected, updated.Status)
	require.NotNil(t, updated.ReportFile)
	assert.Equal(t, "report-001.pdf", *updated.ReportFile)
	assert.NotNil(t, updated.ReportUploadedAt)
	assert.Contains(t, notifier.typesFor("farmer-1"), models.NotifReportUploaded)
}

func TestUploadReport_ReplacesExisting(t *testing.T) {
	svc, store, _, _ := newTestService()
	b := bookAssigned(t, svc, store, "e-1")
	advanceToCollected(t, svc, "e-1", b.ID)

	_, err := svc.UploadReport(context.Background(), "e-1", b.ID, models.UploadReportInput{ReportFile: "v1.pdf"})
	require.NoError(t, err)

	updated, err := svc.UploadReport(context.Background(), "e-1", b.ID, models.UploadReportInput{ReportFile: "v2.pdf"})
	require.NoError(t, err)
	assert.Equal(t, "v2.pdf", *updated.ReportFile)
}

func TestUploadReport_RequiresCollected(t *testing.T) {
	svc, store, _, _ := newTestService()
	b := bookAssigned(t, svc, store, "e-1")

	_, err := svc.UploadReport(context.Background(), "e-1", b.ID, models.UploadReportInput{ReportFile: "early.pdf"})
	require.Error(t, err)
	assert.Equal(t, CodePrecondition, CodeOf(err))
}

func TestCompleteBooking_WithoutReport(t *testing.T) {
	svc, store, _, _ := newTestService()
	b := bookAssigned(t, svc, store, "e-1")
	advanceToCollected(t, svc, "e-1", b.ID)

	_, err := svc.CompleteBooking(context.Background(), "e-1", b.ID)
	require.Error(t, err)
	assert.Equal(t, CodePrecondition, CodeOf(err))

	// Status must be left untouched at collected.
	current, err := svc.Repo.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCollected, current.Status)
}

func TestCompleteBooking(t *testing.T) {
	svc, store, notifier, reminders := newTestService()
	b := bookAssigned(t, svc, store, "e-1")
	advanceToCollected(t, svc, "e-1", b.ID)

	_, err := svc.UploadReport(context.Background(), "e-1", b.ID, models.UploadReportInput{ReportFile: "final.pdf"})
	require.NoError(t, err)

	completed, err := svc.CompleteBooking(context.Background(), "e-1", b.ID)
	require.NoError(t, err)

	assert.Equal(t, models.StatusCompleted, completed.Status)
	require.NotNil(t, completed.ReportFile)
	assert.Equal(t, 0, store.experts["e-1"].ActiveBookings)
	assert.Contains(t, notifier.typesFor("farmer-1"), models.NotifBookingCompleted)
	assert.Contains(t, reminders.cancelled, b.ID)
}

// The engine must never leave a booking in an expert-holding status without
// an expert, or completed without a report.
func TestLifecycle_InvariantsHold(t *testing.T) {
	svc, store, _, _ := newTestService()
	store.addExpert(approvedExpert("e-1", "Kathmandu Metropolitan", "5", 0))
	store.addExpert(approvedExpert("e-2", "Kathmandu Metropolitan", "6", 0))

	b, err := svc.CreateBooking(context.Background(), "farmer-1", validInput())
	require.NoError(t, err)

	steps := []func() (*models.Booking, error){
		func() (*models.Booking, error) { return svc.RejectBooking(context.Background(), "e-1", b.ID) },
		func() (*models.Booking, error) { return svc.AcceptBooking(context.Background(), "e-2", b.ID) },
		func() (*models.Booking, error) { return svc.CollectBooking(context.Background(), "e-2", b.ID) },
		func() (*models.Booking, error) {
			return svc.UploadReport(context.Background(), "e-2", b.ID, models.UploadReportInput{ReportFile: "r.pdf"})
		},
		func() (*models.Booking, error) { return svc.CompleteBooking(context.Background(), "e-2", b.ID) },
	}

	for _, step := range steps {
		updated, err := step()
		require.NoError(t, err)

		if updated.Status == models.StatusPending {
			assert.Nil(t, updated.ExpertID)
		} else {
			assert.NotNil(t, updated.ExpertID)
		}
		if updated.Status == models.StatusCompleted {
			assert.NotNil(t, updated.ReportFile)
		}
	}
}
