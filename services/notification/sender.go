package notification

import (
	"context"
	"fmt"
	"strings"

	"bikereg/models"

	"go.uber.org/zap"
)

// Message is a rendered confirmation e-mail.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers a rendered message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// ComposeConfirmation renders the confirmation e-mail for payload.
func ComposeConfirmation(p models.ConfirmationEmailPayload) Message {
	name := strings.TrimSpace(p.FirstName)
	if name == "" {
		name = "there"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s,\n\n", name)
	fmt.Fprintf(&b, "your %s (serial number %s) is now registered.\n", p.ModelDescription, p.SerialNumber)
	fmt.Fprintf(&b, "Registration reference: %s\n\n", p.RegistrationID)
	b.WriteString("Keep this e-mail for warranty claims.\n")
	return Message{
		To:      p.Email,
		Subject: "Bike registration " + p.RegistrationID,
		Body:    b.String(),
	}
}

// LogSender writes messages to the log instead of delivering them.
type LogSender struct {
	Logger *zap.Logger
}

func (s LogSender) Send(_ context.Context, msg Message) error {
	s.Logger.Info("confirmation email",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject),
		zap.Int("bodyLength", len(msg.Body)))
	return nil
}
