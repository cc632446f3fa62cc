// Package serial looks bike serial numbers up in the catalog.
package serial

import (
	"context"
	"errors"
	"fmt"
	"strings"

	bikeRepo "bikereg/database/repository/bike"
	"bikereg/models"

	"go.uber.org/zap"
)

// LookupError is a lookup failure whose message can be shown to the user.
type LookupError struct {
	Message string
}

func (e *LookupError) Error() string { return e.Message }

func (e *LookupError) DisplayMessage() string { return e.Message }

var (
	ErrSerialRequired = &LookupError{Message: "Serial number is required"}
	ErrSerialNotFound = &LookupError{Message: "Serial number not found"}
)

// Verifier maps a serial number to bike attributes.
type Verifier struct {
	repo   bikeRepo.BikeRepository
	logger *zap.Logger
}

func NewVerifier(repo bikeRepo.BikeRepository, logger *zap.Logger) *Verifier {
	return &Verifier{repo: repo, logger: logger}
}

// Verify returns the catalog details of serial. Unknown serials yield ErrSerialNotFound.
func (v *Verifier) Verify(ctx context.Context, serial string) (*models.BikeDetails, error) {
	if strings.TrimSpace(serial) == "" {
		return nil, ErrSerialRequired
	}

	bike, err := v.repo.GetBySerial(ctx, serial)
	if errors.Is(err, bikeRepo.ErrBikeNotFound) {
		v.logger.Debug("serial number not found", zap.String("serialNumber", serial))
		return nil, ErrSerialNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("serial lookup failed: %w", err)
	}

	details := bike.BikeDetails
	return &details, nil
}
