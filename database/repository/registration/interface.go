package registrationRepo

import (
	"context"
	"errors"

	"bikereg/models"
)

var ErrRegistrationNotFound = errors.New("registration not found")

type RegistrationRepository interface {
	Create(ctx context.Context, reg models.StoredRegistration) error
	GetByID(ctx context.Context, id string) (*models.StoredRegistration, error)
	ListBySerial(ctx context.Context, serial string) ([]models.StoredRegistration, error)
}
