package models

import "time"

// Notification type codes used by the booking engine.
const (
	NotifBookingAssigned   = "booking_assigned"
	NotifBookingAccepted   = "booking_accepted"
	NotifBookingReassigned = "booking_reassigned"
	NotifBookingSearching  = "booking_searching"
	NotifSampleCollected   = "sample_collected"
	NotifReportUploaded    = "report_uploaded"
	NotifBookingCompleted  = "booking_completed"
	NotifStatusChanged     = "status_changed"
	NotifCollectionDue     = "collection_due"
)

// Notification is an in-app notification record.
type Notification struct {
	ID        string            `bson:"id" json:"id"`
	UserID    string            `bson:"userId" json:"userId"`
	Type      string            `bson:"type" json:"type"`
	Title     string            `bson:"title" json:"title"`
	Body      string            `bson:"body" json:"body"`
	Data      map[string]string `bson:"data,omitempty" json:"data,omitempty"`
	Read      bool              `bson:"read" json:"read"`
	CreatedAt time.Time         `bson:"createdAt" json:"createdAt"`
}
