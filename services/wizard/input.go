package wizard

import (
	"time"

	"bikereg/services/registration"
)

// MessageDateRange is attached to picker dates outside [1900-01-01, today].
const MessageDateRange = "Date must be between 1900-01-01 and today"

var earliestPickerDate = time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC)

// PersonalInput carries the personal-information form fields.
type PersonalInput struct {
	FirstName         string `form:"firstName" json:"firstName"`
	LastName          string `form:"lastName" json:"lastName"`
	Email             string `form:"email" json:"email"`
	Country           string `form:"country" json:"country"`
	PreferredLanguage string `form:"preferredLanguage" json:"preferredLanguage"`
	Gender            string `form:"gender" json:"gender"`
	DateOfBirth       string `form:"dateOfBirth" json:"dateOfBirth"`
	NewsOptIn         bool   `form:"newsOptIn" json:"newsOptIn"`
	Consent           bool   `form:"consent" json:"consent"`
}

// personalFields are validated together when the personal form changes.
var personalFields = []string{
	registration.FieldFirstName,
	registration.FieldLastName,
	registration.FieldEmail,
	registration.FieldCountry,
	registration.FieldPreferredLanguage,
	registration.FieldGender,
	registration.FieldDateOfBirth,
	registration.FieldConsent,
}

// parsePickerDate parses a date coming from a date picker. It returns the
// date, or an error message when the input is unparsable or out of range.
// Picker dates are calendar days, so "today" is now's calendar day in its
// own location and any instant on that day is accepted.
func parsePickerDate(raw string, now time.Time) (*time.Time, string) {
	t, err := registration.ParseDate(raw)
	if err != nil {
		return nil, registration.MessageInvalidDate
	}
	if t == nil {
		return nil, ""
	}
	tomorrow := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, time.UTC)
	if t.Before(earliestPickerDate) || !t.UTC().Before(tomorrow) {
		return nil, MessageDateRange
	}
	return t, ""
}
