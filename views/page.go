// Package views renders the registration wizard pages.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"strings"
	"time"

	"bikereg/models"
	"bikereg/services/registration"
	"bikereg/services/stepper"
	"bikereg/services/wizard"
)

//go:embed templates/*.html
var templateFS embed.FS

const dateLayout = "2006-01-02"

// Option is one entry of a select input.
type Option struct {
	Value string
	Label string
}

var (
	Countries = []Option{
		{"CH", "Switzerland"}, {"DE", "Germany"}, {"AT", "Austria"}, {"FR", "France"},
		{"IT", "Italy"}, {"LI", "Liechtenstein"}, {"US", "United States"}, {"OTHER", "Other"},
	}
	Languages = []Option{
		{"en", "English"}, {"de", "Deutsch"}, {"fr", "Français"}, {"it", "Italiano"},
	}
	Genders = []Option{
		{"female", "Female"}, {"male", "Male"}, {"diverse", "Diverse"}, {"undisclosed", "Prefer not to say"},
	}
)

// Page is everything the wizard template needs for one render.
type Page struct {
	Step       int
	Title      string
	Indicators []stepper.Indicator
	Record     models.RegistrationRecord
	Errors     registration.FieldErrors
	Result     *models.RegistrationOutcome
	Busy       bool

	CanVerify  bool
	CanConfirm bool
	CanSubmit  bool

	ShowBike  bool
	BikeImage string

	PurchaseDate string
	BirthDate    string
	MinDate      string
	MaxDate      string

	Countries []Option
	Languages []Option
	Genders   []Option
}

// NewPage builds the view of s. accessible enables indicator navigation.
func NewPage(s *wizard.Session, accessible bool, now time.Time) (Page, error) {
	if s == nil || s.Stepper == nil {
		return Page{}, stepper.ErrOutsideProvider
	}
	indicators, err := stepper.Indicators(s.Stepper, wizard.StepLabels, accessible)
	if err != nil {
		return Page{}, err
	}

	step := s.Step()
	p := Page{
		Step:         step,
		Title:        StepTitle(step),
		Indicators:   indicators,
		Record:       s.Record,
		Errors:       s.Errors,
		Result:       s.Result,
		Busy:         s.Busy,
		CanVerify:    s.CanVerify(),
		CanConfirm:   s.CanConfirm(),
		CanSubmit:    s.CanSubmit(),
		PurchaseDate: formatDate(s.Record.DateOfPurchase),
		BirthDate:    formatDate(s.Record.DateOfBirth),
		MinDate:      "1900-01-01",
		MaxDate:      now.Format(dateLayout),
		Countries:    Countries,
		Languages:    Languages,
		Genders:      Genders,
	}
	if s.Record.SerialNumber != "" && s.Record.ModelDescription != "" {
		p.ShowBike = true
		p.BikeImage = "/assets/" + url.PathEscape(s.Record.SerialNumber) + ".jpg"
	}
	return p, nil
}

// StepTitle is the heading of a step, e.g. "STEP 1: SERIAL NUMBER".
func StepTitle(step int) string {
	if step < 0 || step >= len(wizard.StepLabels) {
		return ""
	}
	return fmt.Sprintf("STEP %d: %s", step+1, strings.ToUpper(wizard.StepLabels[step]))
}

func formatDate(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

// PageTemplate is the name to render a Page with.
const PageTemplate = "wizard"

// Templates parses the embedded wizard templates.
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.html"))
}
