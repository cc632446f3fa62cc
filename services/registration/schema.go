package registration

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"bikereg/models"

	"github.com/go-playground/validator/v10"
)

// Field names as they appear on the wire and in FieldErrors.
const (
	FieldSerialNumber      = "serialNumber"
	FieldModelDescription  = "modelDescription"
	FieldShopName          = "shopName"
	FieldFirstName         = "firstName"
	FieldLastName          = "lastName"
	FieldEmail             = "email"
	FieldCountry           = "country"
	FieldDateOfPurchase    = "dateOfPurchase"
	FieldPreferredLanguage = "preferredLanguage"
	FieldGender            = "gender"
	FieldDateOfBirth       = "dateOfBirth"
	FieldNewsOptIn         = "newsOptIn"
	FieldConsent           = "consent"
)

var fieldMessages = map[string]string{
	FieldSerialNumber:      "Serial number is required",
	FieldModelDescription:  "Model description is required",
	FieldShopName:          "Shop name is required",
	FieldFirstName:         "First name is required",
	FieldLastName:          "Last name is required",
	FieldEmail:             "Invalid email address",
	FieldCountry:           "Country is required",
	FieldDateOfPurchase:    "Date of purchase is required",
	FieldPreferredLanguage: "At least one language must be selected",
	FieldGender:            "Gender selection is required",
	FieldDateOfBirth:       "Date of birth is required",
	FieldConsent:           "You must provide consent to continue",
}

// MessageInvalidDate is reported for date inputs that do not parse.
const MessageInvalidDate = "Invalid date"

// FieldErrors maps a field name to its first error message.
type FieldErrors map[string]string

// Fields returns the failing field names in sorted order.
func (fe FieldErrors) Fields() []string {
	out := make([]string, 0, len(fe))
	for f := range fe {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Format renders the errors in the nested {"_errors": [...]} shape the
// frontend expects from the registration endpoint.
func (fe FieldErrors) Format() map[string]any {
	out := map[string]any{"_errors": []string{}}
	for field, msg := range fe {
		out[field] = map[string][]string{"_errors": {msg}}
	}
	return out
}

// ValidationError is a whole-record validation failure.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields.Fields(), ", ")
}

// AsValidationError unwraps err into a *ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	v.RegisterStructValidation(func(sl validator.StructLevel) {
		rec := sl.Current().Interface().(models.RegistrationRecord)
		if rec.DateOfPurchase != nil && rec.DateOfPurchase.IsZero() {
			sl.ReportError(rec.DateOfPurchase, FieldDateOfPurchase, "DateOfPurchase", "validdate", "")
		}
		if rec.DateOfBirth != nil && rec.DateOfBirth.IsZero() {
			sl.ReportError(rec.DateOfBirth, FieldDateOfBirth, "DateOfBirth", "validdate", "")
		}
	}, models.RegistrationRecord{})
	return v
}

// Validate checks the whole record and returns every failing field, or nil
// when the record is well-formed.
func Validate(rec models.RegistrationRecord) FieldErrors {
	err := validate.Struct(rec)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return FieldErrors{"_record": err.Error()}
	}
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		name := fe.Field()
		if _, seen := out[name]; seen {
			continue
		}
		out[name] = messageFor(name)
	}
	return out
}

// ValidateFields is Validate restricted to the named fields. It is what
// gates a single step while the rest of the record is still being edited.
func ValidateFields(rec models.RegistrationRecord, fields ...string) FieldErrors {
	all := Validate(rec)
	if all == nil {
		return nil
	}
	out := FieldErrors{}
	for _, f := range fields {
		if msg, ok := all[f]; ok {
			out[f] = msg
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func messageFor(field string) string {
	if msg, ok := fieldMessages[field]; ok {
		return msg
	}
	return "Invalid value"
}
