package models

// ConfirmationEmailPayload is queued after a successful registration.
type ConfirmationEmailPayload struct {
	RegistrationID   string `json:"registrationId"`
	Email            string `json:"email"`
	FirstName        string `json:"firstName"`
	SerialNumber     string `json:"serialNumber"`
	ModelDescription string `json:"modelDescription"`
}
