package cron

import (
	"context"
	"encoding/json"
	"time"

	"saludagenda/config"
	"saludagenda/models"
	"saludagenda/utils"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

const TypeReminderSend = "reminder:send"

// ReminderQueue enqueues appointment reminders on the asynq queue. It
// satisfies the booking service's scheduler dependency.
type ReminderQueue struct {
	client *asynq.Client
}

func NewReminderQueue() *ReminderQueue {
	return &ReminderQueue{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisReminderDB,
		}),
	}
}

func (q *ReminderQueue) ScheduleReminder(ctx context.Context, payload models.ReminderPayload, fireAt time.Time) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	task := asynq.NewTask(TypeReminderSend, b)
	_, err = q.client.EnqueueContext(ctx, task, asynq.ProcessAt(fireAt))
	return err
}

func (q *ReminderQueue) Close() error {
	return q.client.Close()
}

// InitReminderWorker runs the async worker in background.
func InitReminderWorker() {
	logger := utils.GetLogger().Named("ReminderWorker")

	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderDB,
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
	mux.HandleFunc(TypeReminderSend, handleReminderTask)

	// Start Redis health monitor
	go monitorRedisConnection(logger)

	// Start async worker with retry logic
	go func() {
		logger.Info("Starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				logger.Error("Failed to start worker",
					zap.Int("attempt", attempts), zap.Int("max", maxAttempts), zap.Error(err))

				if attempts == maxAttempts {
					logger.Fatal("Max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleReminderTask(ctx context.Context, task *asynq.Task) error {
	logger := utils.GetLogger().Named("ReminderHandler")

	var p models.ReminderPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		logger.Error("Invalid payload", zap.Error(err))
		return err
	}

	// Delivery channel is log-only for now. The payload carries everything a
	// push or mail sender would need.
	logger.Info("Recordatorio de turno",
		zap.String("appointmentId", p.AppointmentID),
		zap.String("patientId", p.PatientID),
		zap.String("doctor", p.DoctorName),
		zap.String("date", p.Date),
		zap.String("time", p.Time),
	)
	return nil
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection(logger *zap.Logger) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("Redis connection lost", zap.Error(err))
		}
		time.Sleep(10 * time.Second)
	}
}
