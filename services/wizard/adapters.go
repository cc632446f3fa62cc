package wizard

import (
	"context"

	"bikereg/models"
	"bikereg/services/registration"
	"bikereg/services/serial"
)

// LocalVerifier calls the serial verifier in-process.
type LocalVerifier struct {
	Verifier *serial.Verifier
}

func (l LocalVerifier) VerifySerialNumber(ctx context.Context, sn string) (*models.BikeDetails, error) {
	return l.Verifier.Verify(ctx, sn)
}

// LocalSubmitter calls the registration service in-process.
type LocalSubmitter struct {
	Service *registration.Service
}

func (l LocalSubmitter) RegisterBike(ctx context.Context, rec models.RegistrationRecord) (*models.RegistrationOutcome, error) {
	resp, err := l.Service.Register(ctx, rec)
	if err != nil {
		return nil, err
	}
	out := resp.Outcome()
	return &out, nil
}
