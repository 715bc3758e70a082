package booking

import (
	"context"
	"sort"
	"time"

	bookingRepo "maato/database/repository/booking"
	"maato/models"
)

// fakeStore backs the in-memory repositories so booking writes and expert
// counter updates observe the same data, mirroring the transactional
// coupling of the mongo implementation.
type fakeStore struct {
	bookings map[string]*models.Booking
	experts  map[string]*models.User
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		bookings: make(map[string]*models.Booking),
		experts:  make(map[string]*models.User),
	}
}

func (s *fakeStore) addExpert(u models.User) {
	cp := u
	s.experts[u.ID] = &cp
}

func copyBooking(b *models.Booking) *models.Booking {
	cp := *b
	cp.RejectedExperts = append([]string(nil), b.RejectedExperts...)
	return &cp
}

// fakeBookingRepo is an in-memory bookingRepo.BookingRepository.
type fakeBookingRepo struct {
	store *fakeStore
}

var _ bookingRepo.BookingRepository = (*fakeBookingRepo)(nil)

func (r *fakeBookingRepo) adjustLoad(expertID string, delta int) {
	if e, ok := r.store.experts[expertID]; ok {
		e.ActiveBookings += delta
	}
}

func (r *fakeBookingRepo) Create(ctx context.Context, b *models.Booking) error {
	for _, existing := range r.store.bookings {
		if existing.Active &&
			existing.CollectionDate == b.CollectionDate &&
			existing.Municipality == b.Municipality &&
			existing.Ward == b.Ward &&
			existing.TimeSlot == b.TimeSlot {
			return bookingRepo.ErrDuplicateSlot
		}
	}
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	b.Active = b.Status != models.StatusCancelled
	r.store.bookings[b.ID] = copyBooking(b)
	return nil
}

func (r *fakeBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	b, ok := r.store.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	return copyBooking(b), nil
}

func (r *fakeBookingRepo) BookedSlots(ctx context.Context, date, municipality, ward string) ([]string, error) {
	var slots []string
	for _, b := range r.store.bookings {
		if b.Active && b.CollectionDate == date && b.Municipality == municipality && b.Ward == ward {
			slots = append(slots, b.TimeSlot)
		}
	}
	sort.Strings(slots)
	return slots, nil
}

func (r *fakeBookingRepo) SlotTaken(ctx context.Context, date, municipality, ward, timeSlot string) (bool, error) {
	for _, b := range r.store.bookings {
		if b.Active && b.CollectionDate == date && b.Municipality == municipality && b.Ward == ward && b.TimeSlot == timeSlot {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookingRepo) ListByFarmer(ctx context.Context, farmerID string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.store.bookings {
		if b.FarmerID == farmerID {
			out = append(out, *copyBooking(b))
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) ListByExpert(ctx context.Context, expertID string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.store.bookings {
		if b.ExpertID != nil && *b.ExpertID == expertID {
			out = append(out, *copyBooking(b))
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) List(ctx context.Context, status models.BookingStatus) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.store.bookings {
		if status == "" || b.Status == status {
			out = append(out, *copyBooking(b))
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) Assign(ctx context.Context, bookingID, expertID string) (*models.Booking, error) {
	b, ok := r.store.bookings[bookingID]
	if !ok || b.Status != models.StatusPending {
		return nil, bookingRepo.ErrStaleTransition
	}
	now := time.Now()
	b.Status = models.StatusAssigned
	b.ExpertID = &expertID
	b.AssignedAt = &now
	b.UpdatedAt = now
	r.adjustLoad(expertID, +1)
	return copyBooking(b), nil
}

func (r *fakeBookingRepo) Transition(ctx context.Context, bookingID, expertID string, from, to models.BookingStatus) (*models.Booking, error) {
	b, ok := r.store.bookings[bookingID]
	if !ok || b.Status != from || b.ExpertID == nil || *b.ExpertID != expertID {
		return nil, bookingRepo.ErrStaleTransition
	}
	b.Status = to
	b.UpdatedAt = time.Now()
	return copyBooking(b), nil
}

func (r *fakeBookingRepo) RejectAssignment(ctx context.Context, bookingID, expertID string) (*models.Booking, error) {
	b, ok := r.store.bookings[bookingID]
	if !ok || (b.Status != models.StatusAssigned && b.Status != models.StatusAccepted) ||
		b.ExpertID == nil || *b.ExpertID != expertID {
		return nil, bookingRepo.ErrStaleTransition
	}
	b.Status = models.StatusPending
	b.ExpertID = nil
	b.AssignedAt = nil
	b.RejectedExperts = append(b.RejectedExperts, expertID)
	b.UpdatedAt = time.Now()
	r.adjustLoad(expertID, -1)
	return copyBooking(b), nil
}

func (r *fakeBookingRepo) AttachReport(ctx context.Context, bookingID, expertID, reportFile string, results *models.SoilResults, recommendation string) (*models.Booking, error) {
	b, ok := r.store.bookings[bookingID]
	if !ok || b.Status != models.StatusCollected || b.ExpertID == nil || *b.ExpertID != expertID {
		return nil, bookingRepo.ErrStaleTransition
	}
	now := time.Now()
	b.ReportFile = &reportFile
	b.ReportUploadedAt = &now
	if results != nil {
		b.SoilResults = results
	}
	if recommendation != "" {
		b.FertilizerRecommendation = recommendation
	}
	b.UpdatedAt = now
	return copyBooking(b), nil
}

func (r *fakeBookingRepo) Complete(ctx context.Context, bookingID, expertID string) (*models.Booking, error) {
	b, ok := r.store.bookings[bookingID]
	if !ok || b.Status != models.StatusCollected || b.ExpertID == nil || *b.ExpertID != expertID ||
		b.ReportFile == nil || *b.ReportFile == "" {
		return nil, bookingRepo.ErrStaleTransition
	}
	b.Status = models.StatusCompleted
	b.UpdatedAt = time.Now()
	r.adjustLoad(expertID, -1)
	return copyBooking(b), nil
}

func (r *fakeBookingRepo) Override(ctx context.Context, bookingID string, from, to models.BookingStatus, expertID string, counterDelta int, clearExpert bool) (*models.Booking, error) {
	b, ok := r.store.bookings[bookingID]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	if b.Status != from {
		return nil, bookingRepo.ErrStaleTransition
	}
	b.Status = to
	b.Active = to != models.StatusCancelled
	if clearExpert {
		b.ExpertID = nil
		b.AssignedAt = nil
	}
	b.UpdatedAt = time.Now()
	if expertID != "" && counterDelta != 0 {
		r.adjustLoad(expertID, counterDelta)
	}
	return copyBooking(b), nil
}

func (r *fakeBookingRepo) Delete(ctx context.Context, bookingID, expertID string) error {
	if _, ok := r.store.bookings[bookingID]; !ok {
		return bookingRepo.ErrNotFound
	}
	delete(r.store.bookings, bookingID)
	if expertID != "" {
		r.adjustLoad(expertID, -1)
	}
	return nil
}

// fakeExpertRepo is an in-memory expertRepo.ExpertRepository.
type fakeExpertRepo struct {
	store *fakeStore
}

func (r *fakeExpertRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if e, ok := r.store.experts[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeExpertRepo) FindApprovedByMunicipality(ctx context.Context, municipality string, excludeIDs []string) ([]models.User, error) {
	excluded := make(map[string]bool, len(excludeIDs))
	for _, id := range excludeIDs {
		excluded[id] = true
	}
	var out []models.User
	for _, e := range r.store.experts {
		if e.Role == models.RoleExpert && e.ExpertStatus == models.ExpertApproved &&
			e.LabMunicipality == municipality && !excluded[e.ID] {
			out = append(out, *e)
		}
	}
	// Deterministic order for ranking ties in tests.
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// recordingNotifier captures notifications issued by the engine.
type notifRecord struct {
	UserID string
	Type   string
}

type recordingNotifier struct {
	records []notifRecord
}

func (n *recordingNotifier) Notify(ctx context.Context, userID, notifType, title, body string, data map[string]string) {
	n.records = append(n.records, notifRecord{UserID: userID, Type: notifType})
}

func (n *recordingNotifier) ListForUser(ctx context.Context, userID string) ([]models.Notification, error) {
	return nil, nil
}

func (n *recordingNotifier) MarkRead(ctx context.Context, id, userID string) error {
	return nil
}

func (n *recordingNotifier) typesFor(userID string) []string {
	var out []string
	for _, rec := range n.records {
		if rec.UserID == userID {
			out = append(out, rec.Type)
		}
	}
	return out
}

// fakeReminders records reminder scheduling calls.
type fakeReminders struct {
	scheduled []string
	cancelled []string
}

func (f *fakeReminders) ScheduleCollectionReminder(b *models.Booking) {
	f.scheduled = append(f.scheduled, b.ID)
}

func (f *fakeReminders) CancelCollectionReminder(bookingID string) {
	f.cancelled = append(f.cancelled, bookingID)
}

// newTestService assembles a DefaultBookingService over fresh fakes.
func newTestService() (*DefaultBookingService, *fakeStore, *recordingNotifier, *fakeReminders) {
	store := newFakeStore()
	notifier := &recordingNotifier{}
	reminders := &fakeReminders{}
	svc := &DefaultBookingService{
		Repo:        &fakeBookingRepo{store: store},
		MatchingSvc: &DefaultMatchingService{ExpertRepo: &fakeExpertRepo{store: store}},
		NotifySvc:   notifier,
		Reminders:   reminders,
	}
	return svc, store, notifier, reminders
}

func approvedExpert(id, municipality, labWard string, load int) models.User {
	return models.User{
		ID:              id,
		Name:            "Expert " + id,
		Email:           id + "@example.com",
		Role:            models.RoleExpert,
		ExpertStatus:    models.ExpertApproved,
		LabMunicipality: municipality,
		LabWard:         labWard,
		ActiveBookings:  load,
	}
}

func validInput() models.CreateBookingInput {
	return models.CreateBookingInput{
		FieldName:      "North paddy field",
		PhoneNumber:    "9841000000",
		Municipality:   "Kathmandu Metropolitan",
		Ward:           "5",
		CollectionDate: "2024-01-10",
		TimeSlot:       "09:00",
	}
}
