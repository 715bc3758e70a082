package notification

import (
	"context"

	"maato/models"
)

// NotificationService creates and serves in-app notification records.
//
// Notify deliberately returns nothing: notification creation is a side
// effect of booking transitions and its failure must never abort or roll
// back the primary operation. Failures are logged inside the service.
type NotificationService interface {
	Notify(ctx context.Context, userID, notifType, title, body string, data map[string]string)
	ListForUser(ctx context.Context, userID string) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
}
