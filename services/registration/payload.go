package registration

import (
	"bytes"
	"encoding/json"
	"time"

	"bikereg/models"
)

// DateInput is a date as it arrives on the wire: an ISO string or a number
// of milliseconds since the epoch. Any other JSON value is kept verbatim so
// that conversion reports it as an invalid date instead of a bad body.
type DateInput string

func (d *DateInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*d = DateInput(s)
		return nil
	}
	var ms int64
	if err := json.Unmarshal(data, &ms); err == nil {
		*d = DateInput(time.UnixMilli(ms).UTC().Format(wireDateLayout))
		return nil
	}
	*d = DateInput(data)
	return nil
}

const wireDateLayout = "2006-01-02T15:04:05.000Z07:00"

func newDateInput(t *time.Time) *DateInput {
	if t == nil {
		return nil
	}
	d := DateInput(t.Format(wireDateLayout))
	return &d
}

// Payload is the JSON body accepted by the registration endpoint. Dates
// arrive as ISO strings or epoch milliseconds and booleans must be present.
type Payload struct {
	SerialNumber      string     `json:"serialNumber"`
	ModelDescription  string     `json:"modelDescription"`
	ShopName          string     `json:"shopName"`
	FirstName         string     `json:"firstName"`
	LastName          string     `json:"lastName"`
	Email             string     `json:"email"`
	Country           string     `json:"country"`
	DateOfPurchase    *DateInput `json:"dateOfPurchase"`
	PreferredLanguage string     `json:"preferredLanguage"`
	Gender            string     `json:"gender"`
	DateOfBirth       *DateInput `json:"dateOfBirth"`
	NewsOptIn         *bool      `json:"newsOptIn"`
	Consent           *bool      `json:"consent"`
}

// NewPayload is the wire form of rec.
func NewPayload(rec models.RegistrationRecord) Payload {
	p := Payload{
		SerialNumber:      rec.SerialNumber,
		ModelDescription:  rec.ModelDescription,
		ShopName:          rec.ShopName,
		FirstName:         rec.FirstName,
		LastName:          rec.LastName,
		Email:             rec.Email,
		Country:           rec.Country,
		PreferredLanguage: rec.PreferredLanguage,
		Gender:            rec.Gender,
		NewsOptIn:         &rec.NewsOptIn,
		Consent:           &rec.Consent,
		DateOfPurchase:    newDateInput(rec.DateOfPurchase),
		DateOfBirth:       newDateInput(rec.DateOfBirth),
	}
	return p
}

// Record converts the payload and validates the result. The returned
// FieldErrors combine conversion and schema failures; nil means valid.
func (p Payload) Record() (models.RegistrationRecord, FieldErrors) {
	rec := models.RegistrationRecord{
		SerialNumber:      p.SerialNumber,
		ModelDescription:  p.ModelDescription,
		ShopName:          p.ShopName,
		FirstName:         p.FirstName,
		LastName:          p.LastName,
		Email:             p.Email,
		Country:           p.Country,
		PreferredLanguage: p.PreferredLanguage,
		Gender:            p.Gender,
	}
	errs := FieldErrors{}

	if p.DateOfPurchase != nil {
		t, err := ParseDate(string(*p.DateOfPurchase))
		if err != nil {
			errs[FieldDateOfPurchase] = MessageInvalidDate
		}
		rec.DateOfPurchase = t
	}
	if p.DateOfBirth != nil {
		t, err := ParseDate(string(*p.DateOfBirth))
		if err != nil {
			errs[FieldDateOfBirth] = MessageInvalidDate
		}
		rec.DateOfBirth = t
	}
	if p.NewsOptIn == nil {
		errs[FieldNewsOptIn] = "Required"
	} else {
		rec.NewsOptIn = *p.NewsOptIn
	}
	if p.Consent == nil {
		errs[FieldConsent] = "Required"
	} else {
		rec.Consent = *p.Consent
	}

	for field, msg := range Validate(rec) {
		if _, ok := errs[field]; !ok {
			errs[field] = msg
		}
	}
	if len(errs) == 0 {
		return rec, nil
	}
	return rec, errs
}
