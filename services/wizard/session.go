package wizard

import (
	"time"

	"bikereg/models"
	"bikereg/services/registration"
	"bikereg/services/stepper"
)

// Session is one visitor's wizard: navigation, form record, attached field
// errors and, once submitted, the result.
type Session struct {
	ID        string                      `json:"id"`
	Stepper   *stepper.Stepper            `json:"stepper"`
	Record    models.RegistrationRecord   `json:"record"`
	Errors    registration.FieldErrors    `json:"errors,omitempty"`
	Result    *models.RegistrationOutcome `json:"result,omitempty"`
	Busy      bool                        `json:"busy"`
	UpdatedAt time.Time                   `json:"updatedAt"`
}

// NewSession starts a wizard on the serial step with an empty record.
func NewSession(id string) *Session {
	return &Session{
		ID:      id,
		Stepper: stepper.New(StepSerialEntry, StepLabels...),
		Record:  registration.Defaults(),
	}
}

// Step returns the active step, or -1 when the session has no stepper.
func (s *Session) Step() int {
	if s == nil || s.Stepper == nil {
		return -1
	}
	return s.Stepper.Current()
}

// FieldError returns the error attached to field, if any.
func (s *Session) FieldError(field string) string {
	return s.Errors[field]
}

func (s *Session) setError(field, msg string) {
	if s.Errors == nil {
		s.Errors = registration.FieldErrors{}
	}
	s.Errors[field] = msg
}

func (s *Session) clearError(field string) {
	delete(s.Errors, field)
}

// CanVerify mirrors the enabled state of the "find my bike" button.
func (s *Session) CanVerify() bool {
	return s.Record.SerialNumber != "" && !s.Busy
}

// CanConfirm mirrors the enabled state of the details "Next" button.
func (s *Session) CanConfirm() bool {
	return s.Record.DateOfPurchase != nil && !s.Record.DateOfPurchase.IsZero()
}

// CanSubmit mirrors the enabled state of the submit button.
func (s *Session) CanSubmit() bool {
	return !s.Busy && registration.Validate(s.Record) == nil
}
