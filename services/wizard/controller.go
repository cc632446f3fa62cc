package wizard

import (
	"context"
	"errors"
	"time"

	"bikereg/models"
	"bikereg/services/registration"
	"bikereg/services/stepper"

	"go.uber.org/zap"
)

var (
	ErrBusy                 = errors.New("wizard: a request is already in flight")
	ErrWrongStep            = errors.New("wizard: action not available on the current step")
	ErrSerialRequired       = errors.New("wizard: serial number is required")
	ErrPurchaseDateRequired = errors.New("wizard: date of purchase is required")
	ErrInvalidRecord        = errors.New("wizard: registration record is invalid")
	ErrIndicatorLocked      = errors.New("wizard: step indicators are not navigable")
)

// SerialVerifier looks a serial number up.
type SerialVerifier interface {
	VerifySerialNumber(ctx context.Context, serial string) (*models.BikeDetails, error)
}

// RegistrationSubmitter sends a validated record to the registration backend.
type RegistrationSubmitter interface {
	RegisterBike(ctx context.Context, rec models.RegistrationRecord) (*models.RegistrationOutcome, error)
}

// displayer is implemented by failures whose message may be shown as is.
type displayer interface {
	DisplayMessage() string
}

// Controller applies the wizard transitions to a Session.
type Controller struct {
	verifier   SerialVerifier
	submitter  RegistrationSubmitter
	logger     *zap.Logger
	checkpoint func(ctx context.Context, s *Session) error
	now        func() time.Time
}

type ControllerOption func(*Controller)

// WithCheckpoint persists the session right before each external call so
// the busy flag is visible to other requests.
func WithCheckpoint(fn func(ctx context.Context, s *Session) error) ControllerOption {
	return func(c *Controller) { c.checkpoint = fn }
}

func WithClock(now func() time.Time) ControllerOption {
	return func(c *Controller) { c.now = now }
}

func NewController(verifier SerialVerifier, submitter RegistrationSubmitter, logger *zap.Logger, opts ...ControllerOption) *Controller {
	c := &Controller{
		verifier:   verifier,
		submitter:  submitter,
		logger:     logger,
		checkpoint: func(context.Context, *Session) error { return nil },
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func stepperOf(s *Session) (*stepper.Stepper, error) {
	if s == nil || s.Stepper == nil {
		return nil, stepper.ErrOutsideProvider
	}
	return s.Stepper, nil
}

func (c *Controller) enter(s *Session, step int) (*stepper.Stepper, error) {
	st, err := stepperOf(s)
	if err != nil {
		return nil, err
	}
	if st.Current() != step {
		return nil, ErrWrongStep
	}
	if s.Busy {
		return nil, ErrBusy
	}
	return st, nil
}

// VerifySerial looks serial up and, on success, replaces the record with the
// defaults merged with the returned bike and advances. A failed lookup is
// attached to the serial number field and the step does not change.
func (c *Controller) VerifySerial(ctx context.Context, s *Session, serial string) error {
	st, err := c.enter(s, StepSerialEntry)
	if err != nil {
		return err
	}

	s.Record.SerialNumber = serial
	s.clearError(registration.FieldSerialNumber)
	if serial == "" {
		s.setError(registration.FieldSerialNumber, "Serial number is required")
		return ErrSerialRequired
	}

	if err := c.suspend(ctx, s); err != nil {
		return err
	}
	bike, err := c.verifier.VerifySerialNumber(ctx, serial)
	s.Busy = false

	if err != nil {
		c.logger.Warn("serial verification failed",
			zap.String("sessionId", s.ID), zap.String("serialNumber", serial), zap.Error(err))
		s.setError(registration.FieldSerialNumber, displayMessage(err, FallbackVerifyMessage))
		return nil
	}
	if bike == nil {
		c.logger.Warn("serial verification returned no bike",
			zap.String("sessionId", s.ID), zap.String("serialNumber", serial))
		s.setError(registration.FieldSerialNumber, FallbackVerifyMessage)
		return nil
	}

	s.Record = registration.MergeVerified(*bike)
	s.Errors = nil
	st.MarkCompleted(StepSerialEntry, true)
	st.Advance()
	return nil
}

// SetPurchaseDate records the date of purchase picked on the details step.
func (c *Controller) SetPurchaseDate(s *Session, raw string) error {
	if _, err := c.enter(s, StepDetailConfirmation); err != nil {
		return err
	}
	t, msg := parsePickerDate(raw, c.now())
	s.Record.DateOfPurchase = t
	if msg != "" {
		s.setError(registration.FieldDateOfPurchase, msg)
	} else {
		s.clearError(registration.FieldDateOfPurchase)
	}
	return nil
}

// ConfirmDetails completes the details step once a purchase date is set.
func (c *Controller) ConfirmDetails(s *Session) error {
	st, err := c.enter(s, StepDetailConfirmation)
	if err != nil {
		return err
	}
	if !s.CanConfirm() {
		if s.FieldError(registration.FieldDateOfPurchase) == "" {
			s.setError(registration.FieldDateOfPurchase, "Date of purchase is required")
		}
		return ErrPurchaseDateRequired
	}
	st.MarkCompleted(StepDetailConfirmation, true)
	st.Advance()
	return nil
}

// UpdatePersonal applies the personal form and refreshes the per-field
// errors of that form. Invalid fields never block editing.
func (c *Controller) UpdatePersonal(s *Session, in PersonalInput) error {
	if _, err := c.enter(s, StepPersonalInfo); err != nil {
		return err
	}
	s.Record.FirstName = in.FirstName
	s.Record.LastName = in.LastName
	s.Record.Email = in.Email
	s.Record.Country = in.Country
	s.Record.PreferredLanguage = in.PreferredLanguage
	s.Record.Gender = in.Gender
	s.Record.NewsOptIn = in.NewsOptIn
	s.Record.Consent = in.Consent

	dob, dobMsg := parsePickerDate(in.DateOfBirth, c.now())
	s.Record.DateOfBirth = dob

	for _, f := range personalFields {
		s.clearError(f)
	}
	for f, msg := range registration.ValidateFields(s.Record, personalFields...) {
		s.setError(f, msg)
	}
	if dobMsg != "" {
		s.setError(registration.FieldDateOfBirth, dobMsg)
	}
	return nil
}

// Submit sends the record once it validates as a whole and moves to the
// result step whatever the outcome. An invalid record is rejected without
// calling the backend.
func (c *Controller) Submit(ctx context.Context, s *Session) error {
	st, err := c.enter(s, StepPersonalInfo)
	if err != nil {
		return err
	}
	if errs := registration.Validate(s.Record); errs != nil {
		s.Errors = errs
		return ErrInvalidRecord
	}

	if err := c.suspend(ctx, s); err != nil {
		return err
	}
	outcome, err := c.submitter.RegisterBike(ctx, s.Record)
	s.Busy = false

	switch {
	case err != nil:
		c.logger.Warn("registration submission failed",
			zap.String("sessionId", s.ID), zap.Error(err))
		s.Result = &models.RegistrationOutcome{Success: false, Message: displayMessage(err, FallbackSubmitMessage)}
	case outcome == nil:
		s.Result = &models.RegistrationOutcome{Success: false, Message: FallbackSubmitMessage}
	default:
		s.Result = &models.RegistrationOutcome{Success: outcome.Success, Message: outcome.Message}
	}

	st.MarkCompleted(StepPersonalInfo, true)
	st.Advance()
	return nil
}

// Back returns to the previous step. Nothing is cleared. The result step
// has no way back.
func (c *Controller) Back(s *Session) error {
	st, err := stepperOf(s)
	if err != nil {
		return err
	}
	if st.IsLast() {
		return ErrWrongStep
	}
	if s.Busy {
		return ErrBusy
	}
	st.Retreat()
	return nil
}

// JumpTo follows a click on a progress indicator.
func (c *Controller) JumpTo(s *Session, index int, accessible bool) error {
	st, err := stepperOf(s)
	if err != nil {
		return err
	}
	if !accessible {
		return ErrIndicatorLocked
	}
	if s.Busy {
		return ErrBusy
	}
	st.JumpTo(index)
	return nil
}

// Reset discards everything and restarts on the serial step.
func (c *Controller) Reset(s *Session) {
	*s = *NewSession(s.ID)
}

func (c *Controller) suspend(ctx context.Context, s *Session) error {
	s.Busy = true
	if err := c.checkpoint(ctx, s); err != nil {
		s.Busy = false
		return err
	}
	return nil
}

func displayMessage(err error, fallback string) string {
	var d displayer
	if errors.As(err, &d) && d.DisplayMessage() != "" {
		return d.DisplayMessage()
	}
	return fallback
}
