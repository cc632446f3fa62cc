package notification

import (
	"context"
	"fmt"

	"bikereg/models"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Enqueuer is the part of *asynq.Client the queue needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Queue schedules confirmation e-mails on asynq.
type Queue struct {
	client Enqueuer
	logger *zap.Logger
}

func NewQueue(client Enqueuer, logger *zap.Logger) *Queue {
	return &Queue{client: client, logger: logger}
}

// NotifyRegistered enqueues the confirmation e-mail for a registration.
func (q *Queue) NotifyRegistered(ctx context.Context, payload models.ConfirmationEmailPayload) error {
	task, opts, err := NewConfirmationTask(payload)
	if err != nil {
		return err
	}
	info, err := q.client.EnqueueContext(ctx, task, opts...)
	if err != nil {
		return fmt.Errorf("failed to enqueue confirmation: %w", err)
	}
	q.logger.Info("confirmation email queued",
		zap.String("registrationId", payload.RegistrationID),
		zap.String("taskId", info.ID),
		zap.String("queue", info.Queue))
	return nil
}
