package cron

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"maato/config"
	bookingRepo "maato/database/repository/booking"
	"maato/models"
	"maato/services/notification"
	"maato/services/reminder"

	"github.com/hibiken/asynq"
)

// InitReminderWorker runs the async reminder worker in the background.
func InitReminderWorker(repo bookingRepo.BookingRepository, notifSvc notification.NotificationService) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(reminder.TypeCollectionReminder, handleCollectionReminder(repo, notifSvc))

	go func() {
		log.Println("[ReminderWorker] starting async worker...")
		if err := srv.Run(mux); err != nil {
			log.Printf("[ReminderWorker] worker stopped: %v", err)
		}
	}()
}

// handleCollectionReminder notifies the parties of a collection happening
// today. Bookings that left the accept path since scheduling are skipped.
func handleCollectionReminder(repo bookingRepo.BookingRepository, notifSvc notification.NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload reminder.ReminderPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("invalid reminder payload: %w", err)
		}

		b, err := repo.GetByID(ctx, payload.BookingID)
		if err != nil {
			if err == bookingRepo.ErrNotFound {
				return nil
			}
			return fmt.Errorf("failed to load booking %s: %w", payload.BookingID, err)
		}
		if b.Status != models.StatusAccepted {
			return nil
		}

		notifSvc.Notify(ctx, b.FarmerID, models.NotifCollectionDue,
			"Soil collection today",
			fmt.Sprintf("Your soil sample is scheduled for collection today at %s.", b.TimeSlot),
			map[string]string{"bookingId": b.ID},
		)
		if b.ExpertID != nil {
			notifSvc.Notify(ctx, *b.ExpertID, models.NotifCollectionDue,
				"Collection visit today",
				fmt.Sprintf("You have a soil collection in %s ward %s today at %s.", b.Municipality, b.Ward, b.TimeSlot),
				map[string]string{"bookingId": b.ID},
			)
		}
		return nil
	}
}
