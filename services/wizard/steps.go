// Package wizard drives the bike registration wizard: serial lookup,
// detail confirmation, personal information with submission, and result.
package wizard

// Step enumeration for the wizard flow.
const (
	StepSerialEntry        = 0 // Serial number lookup
	StepDetailConfirmation = 1 // Bike details + date of purchase
	StepPersonalInfo       = 2 // Personal information + submit
	StepResult             = 3 // Registration outcome
)

// StepLabels titles each step, in order.
var StepLabels = []string{
	"Serial number",
	"Bike information",
	"Personal information",
	"Registration confirmation",
}

// Messages shown when a failure carries nothing displayable.
const (
	FallbackVerifyMessage = "Failed to verify serial number"
	FallbackSubmitMessage = "Registration failed"
)
