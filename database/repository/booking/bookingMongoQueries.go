// File: database/repository/booking/bookingMongoQueries.go
package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// BookedSlots returns the occupied time slot codes for the given date,
// municipality and ward, considering only active bookings.
func (r *MongoBookingRepo) BookedSlots(ctx context.Context, date, municipality, ward string) ([]string, error) {
	cctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"collectionDate": date,
		"municipality":   municipality,
		"ward":           ward,
		"active":         true,
	}
	opts := options.Find().
		SetProjection(bson.M{"timeSlot": 1}).
		SetSort(bson.D{{Key: "timeSlot", Value: 1}})

	cursor, err := r.coll.Find(cctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query booked slots: %w", err)
	}
	defer cursor.Close(cctx)

	var slots []string
	for cursor.Next(cctx) {
		var doc struct {
			TimeSlot string `bson:"timeSlot"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode booked slot: %w", err)
		}
		slots = append(slots, doc.TimeSlot)
	}
	return slots, nil
}

// SlotTaken reports whether an active booking already occupies the slot.
// This is the friendly pre-check; the unique_active_slot index is the
// authoritative guard under concurrent creates.
func (r *MongoBookingRepo) SlotTaken(ctx context.Context, date, municipality, ward, timeSlot string) (bool, error) {
	cctx, cancel := newContext(5 * time.Second)
	defer cancel()

	filter := bson.M{
		"collectionDate": date,
		"municipality":   municipality,
		"ward":           ward,
		"timeSlot":       timeSlot,
		"active":         true,
	}
	count, err := r.coll.CountDocuments(cctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to check slot occupancy: %w", err)
	}
	return count > 0, nil
}
