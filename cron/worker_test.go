package cron

import (
	"context"
	"errors"
	"testing"

	"bikereg/models"
	"bikereg/services/notification"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingSender struct {
	sent []notification.Message
	err  error
}

func (r *recordingSender) Send(_ context.Context, msg notification.Message) error {
	r.sent = append(r.sent, msg)
	return r.err
}

func TestHandleConfirmationTaskSends(t *testing.T) {
	sender := &recordingSender{}
	task, _, err := notification.NewConfirmationTask(models.ConfirmationEmailPayload{
		RegistrationID: "REG-0000001", Email: "a@b.co", FirstName: "A", SerialNumber: "S1",
	})
	require.NoError(t, err)

	require.NoError(t, HandleConfirmationTask(sender, zap.NewNop())(context.Background(), task))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "a@b.co", sender.sent[0].To)
}

func TestHandleConfirmationTaskSkipsBadPayload(t *testing.T) {
	sender := &recordingSender{}
	task := asynq.NewTask(notification.TypeRegistrationConfirmation, []byte("{"))

	err := HandleConfirmationTask(sender, zap.NewNop())(context.Background(), task)
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Empty(t, sender.sent)
}

func TestHandleConfirmationTaskRetriesSendFailure(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp down")}
	task, _, err := notification.NewConfirmationTask(models.ConfirmationEmailPayload{RegistrationID: "R", Email: "a@b.co"})
	require.NoError(t, err)

	err = HandleConfirmationTask(sender, zap.NewNop())(context.Background(), task)
	assert.EqualError(t, err, "smtp down")
}
