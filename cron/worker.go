package cron

import (
	"context"
	"time"

	"bikereg/config"
	"bikereg/services/notification"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// QueueRedisOpt is the asynq connection for the confirmation queue.
func QueueRedisOpt(cfg config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisQueueDB,
	}
}

// InitConfirmationWorker runs the confirmation worker in background until ctx ends.
func InitConfirmationWorker(ctx context.Context, cfg config.Config, sender notification.Sender, logger *zap.Logger) *asynq.Server {
	srv := asynq.NewServer(
		QueueRedisOpt(cfg),
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(notification.TypeRegistrationConfirmation, HandleConfirmationTask(sender, logger))

	go monitorRedisConnection(ctx, cfg, logger)

	// Start with retry; Start returns once the worker is processing.
	go func() {
		const maxAttempts = 5
		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Start(mux)
			if err == nil {
				logger.Info("confirmation worker started")
				return
			}
			logger.Warn("confirmation worker failed to start",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Error("confirmation worker gave up; e-mails stay queued")
				return
			}
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Duration(attempts*2) * time.Second):
			}
		}
	}()
	return srv
}

// HandleConfirmationTask renders and sends one confirmation e-mail.
func HandleConfirmationTask(sender notification.Sender, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		p, err := notification.ParseConfirmationTask(task)
		if err != nil {
			logger.Error("dropping confirmation task", zap.Error(err))
			return asynq.SkipRetry
		}

		if err := sender.Send(ctx, notification.ComposeConfirmation(p)); err != nil {
			logger.Warn("failed to send confirmation",
				zap.String("registrationId", p.RegistrationID), zap.Error(err))
			return err
		}
		return nil
	}
}

// monitorRedisConnection pings the queue redis periodically to detect failures at runtime.
func monitorRedisConnection(ctx context.Context, cfg config.Config, logger *zap.Logger) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisQueueDB,
	})
	defer client.Close()

	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil {
				logger.Warn("queue redis connection lost", zap.Error(err))
			}
		}
	}
}
