package expertRepo

import (
	"context"
	"errors"

	"maato/models"
)

// ErrNotFound is returned when no user matches the given id.
var ErrNotFound = errors.New("user not found")

// ExpertRepository defines the user-directory lookups the booking engine
// consumes. Counter writes are not exposed here: an expert's activeBookings
// only changes inside booking repository transactions, so the counter can
// never drift from the bookings that reference the expert.
type ExpertRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)

	// FindApprovedByMunicipality returns approved experts whose lab sits in
	// the given municipality (exact string match), excluding the given ids.
	FindApprovedByMunicipality(ctx context.Context, municipality string, excludeIDs []string) ([]models.User, error)
}
