package bikeRepo

import (
	"context"
	"errors"
	"strings"

	"bikereg/models"
)

// ErrBikeNotFound is returned when no bike carries the serial number.
var ErrBikeNotFound = errors.New("bike not found")

type BikeRepository interface {
	GetBySerial(ctx context.Context, serial string) (*models.Bike, error)
	Upsert(ctx context.Context, bike models.Bike) error
}

// NormalizeSerial is the lookup key of a serial number.
func NormalizeSerial(serial string) string {
	return strings.ToUpper(strings.TrimSpace(serial))
}
