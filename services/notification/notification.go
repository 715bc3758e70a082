package notification

import (
	"context"

	notifRepo "maato/database/repository/notification"
	"maato/models"
	"maato/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultNotificationService is the production implementation. It persists
// notifications to the notifications collection; delivery to any push or
// polling channel is outside this service.
type DefaultNotificationService struct {
	Repo notifRepo.NotificationRepository
}

// Notify stores a notification for the given user. Errors are logged and
// swallowed.
func (s *DefaultNotificationService) Notify(ctx context.Context, userID, notifType, title, body string, data map[string]string) {
	n := &models.Notification{
		ID:     uuid.New().String(),
		UserID: userID,
		Type:   notifType,
		Title:  title,
		Body:   body,
		Data:   data,
	}
	if err := s.Repo.Create(ctx, n); err != nil {
		utils.GetLogger().Warn("failed to create notification",
			zap.String("userId", userID),
			zap.String("type", notifType),
			zap.Error(err),
		)
	}
}

// ListForUser returns the user's notifications, newest first.
func (s *DefaultNotificationService) ListForUser(ctx context.Context, userID string) ([]models.Notification, error) {
	return s.Repo.ListByUser(ctx, userID)
}

// MarkRead marks one of the user's notifications as read.
func (s *DefaultNotificationService) MarkRead(ctx context.Context, id, userID string) error {
	return s.Repo.MarkRead(ctx, id, userID)
}
