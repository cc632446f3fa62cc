package registration

import (
	"context"
	"fmt"
	"time"

	"bikereg/models"

	"go.uber.org/zap"
)

const (
	// FailureMessage is returned for every simulated rejection.
	FailureMessage = "Registration failed (simulated). Please contact our Support."
	// SuccessMessage is returned with a new registration id.
	SuccessMessage = "Your bike has been successfully registered. You will receive a confirmation email shortly."
)

// Store persists successful registrations.
type Store interface {
	Create(ctx context.Context, reg models.StoredRegistration) error
}

// ConfirmationNotifier is told about every successful registration.
type ConfirmationNotifier interface {
	NotifyRegistered(ctx context.Context, payload models.ConfirmationEmailPayload) error
}

// Service is the simulated registration backend.
type Service struct {
	logger   *zap.Logger
	policy   FailurePolicy
	delay    time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
	newID    func() string
	now      func() time.Time
	store    Store
	notifier ConfirmationNotifier
}

type Option func(*Service)

func WithFailurePolicy(p FailurePolicy) Option { return func(s *Service) { s.policy = p } }

func WithDelay(d time.Duration) Option { return func(s *Service) { s.delay = d } }

func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(s *Service) { s.sleep = fn }
}

func WithIDGenerator(fn func() string) Option { return func(s *Service) { s.newID = fn } }

func WithStore(store Store) Option { return func(s *Service) { s.store = store } }

func WithNotifier(n ConfirmationNotifier) Option { return func(s *Service) { s.notifier = n } }

// NewService builds the backend. Without options it never fails on purpose,
// has no delay and stores nothing.
func NewService(logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		logger: logger,
		policy: NeverFail,
		sleep:  sleepContext,
		newID:  NewRegistrationID,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterPayload converts and validates a wire payload, then registers it.
func (s *Service) RegisterPayload(ctx context.Context, p Payload) (*models.RegistrationResponse, error) {
	rec, errs := p.Record()
	if errs != nil {
		return nil, &ValidationError{Fields: errs}
	}
	return s.Register(ctx, rec)
}

// Register validates rec, waits for the configured delay and returns the
// business outcome. A rejected registration is a response with Success
// false, not an error; errors are validation failures, cancellation and
// storage problems.
func (s *Service) Register(ctx context.Context, rec models.RegistrationRecord) (*models.RegistrationResponse, error) {
	if errs := Validate(rec); errs != nil {
		return nil, &ValidationError{Fields: errs}
	}

	shouldFail := s.policy.ShouldFail(rec)

	if s.delay > 0 {
		if err := s.sleep(ctx, s.delay); err != nil {
			return nil, err
		}
	}

	if shouldFail {
		s.logger.Info("registration rejected",
			zap.String("serialNumber", rec.SerialNumber))
		return &models.RegistrationResponse{Success: false, Message: FailureMessage}, nil
	}

	id := s.newID()
	if s.store != nil {
		err := s.store.Create(ctx, models.StoredRegistration{ID: id, Record: rec, CreatedAt: s.now()})
		if err != nil {
			return nil, fmt.Errorf("failed to store registration: %w", err)
		}
	}

	if s.notifier != nil {
		payload := models.ConfirmationEmailPayload{
			RegistrationID:   id,
			Email:            rec.Email,
			FirstName:        rec.FirstName,
			SerialNumber:     rec.SerialNumber,
			ModelDescription: rec.ModelDescription,
		}
		if err := s.notifier.NotifyRegistered(ctx, payload); err != nil {
			s.logger.Warn("failed to queue confirmation email",
				zap.String("registrationId", id), zap.Error(err))
		}
	}

	s.logger.Info("bike registered",
		zap.String("registrationId", id),
		zap.String("serialNumber", rec.SerialNumber))

	return &models.RegistrationResponse{
		Success: true,
		ID:      id,
		Message: SuccessMessage,
		Payload: &models.RegistrationPayloadEcho{SerialNumber: rec.SerialNumber, Email: rec.Email},
	}, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
