// File: database/repository/booking/bookingMongoCrud.go
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

// Create inserts a new booking document. A duplicate-key violation on the
// slot index is reported as ErrDuplicateSlot so two concurrent creates for
// the same slot cannot both succeed.
func (r *MongoBookingRepo) Create(ctx context.Context, b *models.Booking) error {
	cctx, cancel := newContext(5 * time.Second)
	defer cancel()

	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now
	b.Active = b.Status != models.StatusCancelled

	if _, err := r.coll.InsertOne(cctx, b); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateSlot
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// GetByID retrieves a booking by its unique ID.
func (r *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	cctx, cancel := newContext(5 * time.Second)
	defer cancel()

	var b models.Booking
	if err := r.coll.FindOne(cctx, bson.M{"id": id}).Decode(&b); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking with id %s: %w", id, err)
	}
	return &b, nil
}

// ListByFarmer retrieves a farmer's bookings, newest first.
func (r *MongoBookingRepo) ListByFarmer(ctx context.Context, farmerID string) ([]models.Booking, error) {
	return r.find(bson.M{"farmerId": farmerID})
}

// ListByExpert retrieves the bookings currently assigned to an expert.
func (r *MongoBookingRepo) ListByExpert(ctx context.Context, expertID string) ([]models.Booking, error) {
	return r.find(bson.M{"expertId": expertID})
}

// List retrieves all bookings, optionally filtered by status.
func (r *MongoBookingRepo) List(ctx context.Context, status models.BookingStatus) ([]models.Booking, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	return r.find(filter)
}

func (r *MongoBookingRepo) find(filter bson.M) ([]models.Booking, error) {
	ctx, cancel := newContext(10 * time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	for cursor.Next(ctx) {
		var b models.Booking
		if err := cursor.Decode(&b); err != nil {
			return nil, fmt.Errorf("failed to decode booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, nil
}

// Delete removes a booking document. When expertID is non-empty, the
// expert's active counter is decremented in the same transaction.
func (r *MongoBookingRepo) Delete(ctx context.Context, bookingID, expertID string) error {
	if expertID == "" {
		cctx, cancel := newContext(5 * time.Second)
		defer cancel()
		res, err := r.coll.DeleteOne(cctx, bson.M{"id": bookingID})
		if err != nil {
			return fmt.Errorf("failed to delete booking %s: %w", bookingID, err)
		}
		if res.DeletedCount == 0 {
			return ErrNotFound
		}
		return nil
	}

	return r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		res, err := r.coll.DeleteOne(sc, bson.M{"id": bookingID})
		if err != nil {
			return fmt.Errorf("failed to delete booking %s: %w", bookingID, err)
		}
		if res.DeletedCount == 0 {
			return ErrNotFound
		}
		return r.adjustExpertLoad(sc, expertID, -1)
	})
}
