// File: services/reminder/reminder.go
package reminder

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"maato/config"
	"maato/models"
	"maato/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeCollectionReminder = "reminder:collection"

// ReminderPayload is the asynq task payload for a collection-day reminder.
type ReminderPayload struct {
	BookingID string `json:"bookingId"`
}

// Scheduler schedules and cancels collection-day reminders. Like
// notifications, reminder scheduling is a best-effort side effect: failures
// are logged, never propagated to the booking transition.
type Scheduler interface {
	ScheduleCollectionReminder(b *models.Booking)
	CancelCollectionReminder(bookingID string)
}

// AsynqScheduler implements Scheduler on an asynq/Redis queue.
type AsynqScheduler struct {
	client    *asynq.Client
	inspector *asynq.Inspector
}

// NewAsynqScheduler creates a Scheduler backed by the configured Redis queue.
func NewAsynqScheduler() *AsynqScheduler {
	redisOpt := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}
	return &AsynqScheduler{
		client:    asynq.NewClient(redisOpt),
		inspector: asynq.NewInspector(redisOpt),
	}
}

// ScheduleCollectionReminder enqueues a reminder task for the morning of the
// booking's collection date. The task id is derived from the booking id so
// rescheduling replaces rather than duplicates.
func (s *AsynqScheduler) ScheduleCollectionReminder(b *models.Booking) {
	logger := utils.GetLogger()

	date, err := time.ParseInLocation("2006-01-02", b.CollectionDate, time.Local)
	if err != nil {
		logger.Warn("reminder: unparsable collection date",
			zap.String("bookingId", b.ID), zap.String("date", b.CollectionDate))
		return
	}
	// 6 AM on collection day; skip if already in the past.
	at := date.Add(6 * time.Hour)
	if at.Before(time.Now()) {
		return
	}

	payload, err := json.Marshal(ReminderPayload{BookingID: b.ID})
	if err != nil {
		logger.Warn("reminder: failed to marshal payload", zap.Error(err))
		return
	}

	task := asynq.NewTask(TypeCollectionReminder, payload)
	_, err = s.client.Enqueue(task,
		asynq.ProcessAt(at),
		asynq.TaskID(reminderTaskID(b.ID)),
		asynq.MaxRetry(3),
	)
	if err != nil && !errors.Is(err, asynq.ErrTaskIDConflict) {
		logger.Warn("reminder: failed to enqueue task",
			zap.String("bookingId", b.ID), zap.Error(err))
	}
}

// CancelCollectionReminder removes a scheduled reminder, if any.
func (s *AsynqScheduler) CancelCollectionReminder(bookingID string) {
	if err := s.inspector.DeleteTask("default", reminderTaskID(bookingID)); err != nil {
		if errors.Is(err, asynq.ErrTaskNotFound) || errors.Is(err, asynq.ErrQueueNotFound) {
			return
		}
		utils.GetLogger().Warn("reminder: failed to delete task",
			zap.String("bookingId", bookingID), zap.Error(err))
	}
}

func reminderTaskID(bookingID string) string {
	return fmt.Sprintf("%s:%s", TypeCollectionReminder, bookingID)
}
