package registration

import (
	"strings"
	"time"

	"bikereg/models"
)

// Defaults is the empty record every wizard starts from.
func Defaults() models.RegistrationRecord {
	return models.RegistrationRecord{}
}

// MergeVerified resets the record to Defaults and overlays the bike
// returned by serial verification. Anything the user entered before is dropped.
func MergeVerified(bike models.BikeDetails) models.RegistrationRecord {
	rec := Defaults()
	rec.SerialNumber = bike.SerialNumber
	rec.ModelDescription = bike.ModelDescription
	rec.ShopName = bike.ShopName
	return rec
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDate converts an ISO date string into a time. An empty string is a
// nil date; anything that does not parse is an error.
func ParseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var firstErr error
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return &t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}
