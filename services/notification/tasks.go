// Package notification queues and sends registration confirmation e-mails.
package notification

import (
	"encoding/json"
	"fmt"

	"bikereg/models"

	"github.com/hibiken/asynq"
)

const TypeRegistrationConfirmation = "registration:confirmation"

// NewConfirmationTask wraps payload into an asynq task.
func NewConfirmationTask(payload models.ConfirmationEmailPayload) (*asynq.Task, []asynq.Option, error) {
	if payload.Email == "" {
		return nil, nil, fmt.Errorf("confirmation task: email is required")
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeRegistrationConfirmation, b)
	opts := []asynq.Option{
		asynq.MaxRetry(5),
		asynq.TaskID("confirmation:" + payload.RegistrationID),
	}
	return task, opts, nil
}

// ParseConfirmationTask reads the payload back out of a task.
func ParseConfirmationTask(task *asynq.Task) (models.ConfirmationEmailPayload, error) {
	var p models.ConfirmationEmailPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return p, fmt.Errorf("confirmation task: invalid payload: %w", err)
	}
	return p, nil
}
