package models

import "time"

// RegistrationRecord is the form model shared by every wizard step.
type RegistrationRecord struct {
	SerialNumber      string     `json:"serialNumber" bson:"serialNumber" validate:"required"`
	ModelDescription  string     `json:"modelDescription" bson:"modelDescription" validate:"required"`
	ShopName          string     `json:"shopName" bson:"shopName" validate:"required"`
	FirstName         string     `json:"firstName" bson:"firstName" validate:"required"`
	LastName          string     `json:"lastName" bson:"lastName" validate:"required"`
	Email             string     `json:"email" bson:"email" validate:"required,email"`
	Country           string     `json:"country" bson:"country" validate:"required"`
	DateOfPurchase    *time.Time `json:"dateOfPurchase" bson:"dateOfPurchase" validate:"required"`
	PreferredLanguage string     `json:"preferredLanguage" bson:"preferredLanguage" validate:"required"`
	Gender            string     `json:"gender" bson:"gender" validate:"required"`
	DateOfBirth       *time.Time `json:"dateOfBirth" bson:"dateOfBirth" validate:"required"`
	NewsOptIn         bool       `json:"newsOptIn" bson:"newsOptIn"`
	Consent           bool       `json:"consent" bson:"consent" validate:"eq=true"`
}

// BikeDetails is what a successful serial lookup returns.
type BikeDetails struct {
	SerialNumber     string `json:"serialNumber" bson:"serialNumber"`
	ModelDescription string `json:"modelDescription" bson:"modelDescription"`
	ShopName         string `json:"shopName" bson:"shopName"`
}

// RegistrationOutcome is the business result of a submission.
type RegistrationOutcome struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// RegistrationPayloadEcho is echoed back on a successful registration.
type RegistrationPayloadEcho struct {
	SerialNumber string `json:"serialNumber"`
	Email        string `json:"email"`
}

// RegistrationResponse is the body of the registration endpoint.
type RegistrationResponse struct {
	Success bool                     `json:"success"`
	ID      string                   `json:"id,omitempty"`
	Message string                   `json:"message"`
	Payload *RegistrationPayloadEcho `json:"payload,omitempty"`
}

// Outcome drops the transport-only fields.
func (r RegistrationResponse) Outcome() RegistrationOutcome {
	return RegistrationOutcome{Success: r.Success, Message: r.Message}
}

// StoredRegistration is a persisted successful registration.
type StoredRegistration struct {
	ID        string             `json:"id" bson:"id"`
	Record    RegistrationRecord `json:"record" bson:"record"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}

// Bike is a catalog entry used by serial verification.
type Bike struct {
	BikeDetails `bson:",inline"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}
