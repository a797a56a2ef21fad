package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"medibook/config"
	reservationRepo "medibook/database/repository/reservation"
	"medibook/models"
	"medibook/utils"
)

const TypeReminderSend = "reminder:send"

func redisOpts() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}
}

// ReminderScheduler enqueues appointment reminders to fire shortly before
// the reserved slot. Satisfies scheduling.ReminderScheduler.
type ReminderScheduler struct {
	client *asynq.Client
	lead   time.Duration
}

func NewReminderScheduler() *ReminderScheduler {
	return &ReminderScheduler{
		client: asynq.NewClient(redisOpts()),
		lead:   time.Duration(config.AppConfig.ReminderLeadMin) * time.Minute,
	}
}

func (s *ReminderScheduler) ScheduleReminder(ctx context.Context, res *models.Reservation) error {
	start, err := res.Slot().Start()
	if err != nil {
		return err
	}
	fireAt := start.Add(-s.lead)
	if fireAt.Before(time.Now()) {
		// Slot starts within the lead window; no reminder needed.
		return nil
	}

	payload, err := json.Marshal(models.ReminderPayload{
		ReservationID: res.ID,
		ProviderID:    res.ProviderID,
		PatientID:     res.PatientID,
		SlotDate:      res.SlotDate,
		SlotTime:      res.SlotTime,
	})
	if err != nil {
		return err
	}

	task := asynq.NewTask(TypeReminderSend, payload)
	_, err = s.client.EnqueueContext(ctx, task, asynq.ProcessAt(fireAt))
	return err
}

// InitReminderWorker runs the async worker in background.
func InitReminderWorker(reservations reservationRepo.ReservationRepository) {
	srv := asynq.NewServer(
		redisOpts(),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeReminderSend, handleReminderTask(reservations))

	go func() {
		log.Println("[ReminderWorker] starting async worker...")
		if err := srv.Run(mux); err != nil {
			log.Fatalf("[ReminderWorker] failed to start worker: %v", err)
		}
	}()
}

// handleReminderTask fires one reminder. Reservations that were cancelled or
// completed between enqueue and fire time are skipped silently.
func handleReminderTask(reservations reservationRepo.ReservationRepository) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()

		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("reminder: invalid payload", zap.Error(err))
			return err
		}

		res, err := reservations.GetByID(ctx, p.ReservationID)
		if err != nil {
			return err
		}
		if res == nil || res.Status != models.ReservationActive {
			logger.Debug("reminder skipped, reservation no longer active",
				zap.String("reservationID", p.ReservationID))
			return nil
		}

		logger.Info("appointment reminder",
			zap.String("reservationID", p.ReservationID),
			zap.String("providerID", p.ProviderID),
			zap.String("patientID", p.PatientID),
			zap.String("slotDate", p.SlotDate),
			zap.String("slotTime", p.SlotTime))
		return nil
	}
}
