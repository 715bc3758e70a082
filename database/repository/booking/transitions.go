// File: database/repository/booking/transitions.go
package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"maato/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// casUpdate performs a conditional FindOneAndUpdate and returns the updated
// booking. A filter miss is reported as ErrStaleTransition: the booking
// either does not exist or left the expected state concurrently. The filter
// doubles as the optimistic concurrency control for racing transitions.
func (r *MongoBookingRepo) casUpdate(ctx context.Context, filter, update bson.M) (*models.Booking, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var b models.Booking
	if err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&b); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrStaleTransition
		}
		return nil, fmt.Errorf("failed to update booking: %w", err)
	}
	return &b, nil
}

// Assign moves a pending booking to assigned and increments the expert's
// active counter in one transaction.
func (r *MongoBookingRepo) Assign(ctx context.Context, bookingID, expertID string) (*models.Booking, error) {
	now := time.Now()
	var updated *models.Booking

	err := r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		b, err := r.casUpdate(sc,
			bson.M{"id": bookingID, "status": models.StatusPending},
			bson.M{"$set": bson.M{
				"status":     models.StatusAssigned,
				"expertId":   expertID,
				"assignedAt": now,
				"updatedAt":  now,
			}},
		)
		if err != nil {
			return err
		}
		updated = b
		return r.adjustExpertLoad(sc, expertID, +1)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Transition performs a plain status compare-and-swap guarded on the
// assigned expert. No counter changes.
func (r *MongoBookingRepo) Transition(ctx context.Context, bookingID, expertID string, from, to models.BookingStatus) (*models.Booking, error) {
	cctx, cancel := newContext(5 * time.Second)
	defer cancel()

	return r.casUpdate(cctx,
		bson.M{"id": bookingID, "status": from, "expertId": expertID},
		bson.M{"$set": bson.M{
			"status":    to,
			"updatedAt": time.Now(),
		}},
	)
}

// RejectAssignment returns an assigned or accepted booking to pending,
// clears the assignment, records the rejection and decrements the expert's
// counter, all in one transaction.
func (r *MongoBookingRepo) RejectAssignment(ctx context.Context, bookingID, expertID string) (*models.Booking, error) {
	now := time.Now()
	var updated *models.Booking

	err := r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		b, err := r.casUpdate(sc,
			bson.M{
				"id":       bookingID,
				"status":   bson.M{"$in": []models.BookingStatus{models.StatusAssigned, models.StatusAccepted}},
				"expertId": expertID,
			},
			bson.M{
				"$set":      bson.M{"status": models.StatusPending, "updatedAt": now},
				"$unset":    bson.M{"expertId": "", "assignedAt": ""},
				"$addToSet": bson.M{"rejectedExperts": expertID},
			},
		)
		if err != nil {
			return err
		}
		updated = b
		return r.adjustExpertLoad(sc, expertID, -1)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// AttachReport stores the report reference on a collected booking. An
// existing report is superseded by the new reference.
func (r *MongoBookingRepo) AttachReport(ctx context.Context, bookingID, expertID, reportFile string, results *models.SoilResults, recommendation string) (*models.Booking, error) {
	cctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	set := bson.M{
		"reportFile":       reportFile,
		"reportUploadedAt": now,
		"updatedAt":        now,
	}
	if results != nil {
		set["soilResults"] = results
	}
	if recommendation != "" {
		set["fertilizerRecommendation"] = recommendation
	}

	return r.casUpdate(cctx,
		bson.M{"id": bookingID, "status": models.StatusCollected, "expertId": expertID},
		bson.M{"$set": set},
	)
}

// Complete moves a collected booking to completed and decrements the
// expert's counter. The reportFile guard lives in the update filter, so a
// booking can never reach completed without a report even under races.
func (r *MongoBookingRepo) Complete(ctx context.Context, bookingID, expertID string) (*models.Booking, error) {
	now := time.Now()
	var updated *models.Booking

	err := r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		b, err := r.casUpdate(sc,
			bson.M{
				"id":         bookingID,
				"status":     models.StatusCollected,
				"expertId":   expertID,
				"reportFile": bson.M{"$exists": true, "$ne": ""},
			},
			bson.M{"$set": bson.M{
				"status":    models.StatusCompleted,
				"updatedAt": now,
			}},
		)
		if err != nil {
			return err
		}
		updated = b
		return r.adjustExpertLoad(sc, expertID, -1)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Override sets an arbitrary status on behalf of an admin. The filter
// matches the status the caller read when computing counterDelta, so a
// booking that moved concurrently surfaces as ErrStaleTransition instead of
// applying a delta computed from stale state. counterDelta is applied to
// expertID's active counter in the same transaction; clearExpert
// additionally unsets the assignment.
func (r *MongoBookingRepo) Override(ctx context.Context, bookingID string, from, to models.BookingStatus, expertID string, counterDelta int, clearExpert bool) (*models.Booking, error) {
	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"status":    to,
			"active":    to != models.StatusCancelled,
			"updatedAt": now,
		},
	}
	if clearExpert {
		update["$unset"] = bson.M{"expertId": "", "assignedAt": ""}
	}
	filter := bson.M{"id": bookingID, "status": from}

	if expertID == "" || counterDelta == 0 {
		cctx, cancel := newContext(5 * time.Second)
		defer cancel()
		return r.casUpdate(cctx, filter, update)
	}

	var updated *models.Booking
	err := r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		b, err := r.casUpdate(sc, filter, update)
		if err != nil {
			return err
		}
		updated = b
		return r.adjustExpertLoad(sc, expertID, counterDelta)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
