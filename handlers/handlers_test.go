package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	bikeRepo "bikereg/database/repository/bike"
	registrationRepo "bikereg/database/repository/registration"
	"bikereg/handlers"
	"bikereg/middleware"
	"bikereg/routes"
	"bikereg/services/api"
	"bikereg/services/registration"
	"bikereg/services/serial"
	"bikereg/services/wizard"
	"bikereg/utils"
	"bikereg/views"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testApp struct {
	router *gin.Engine
	regs   *registrationRepo.MemoryRegistrationRepo
}

func newTestApp(t *testing.T, policy registration.FailurePolicy, accessible bool) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	regs := registrationRepo.NewMemoryRegistrationRepo()
	verifier := serial.NewVerifier(bikeRepo.NewMemoryBikeRepo(bikeRepo.DefaultCatalog()...), logger)
	service := registration.NewService(logger,
		registration.WithFailurePolicy(policy),
		registration.WithStore(regs))

	manager := wizard.NewManager(wizard.NewMemorySessionStore(time.Hour))
	controller := wizard.NewController(
		wizard.LocalVerifier{Verifier: verifier},
		wizard.LocalSubmitter{Service: service},
		logger,
		wizard.WithCheckpoint(manager.Checkpoint))

	serialHandler := handlers.NewSerialHandler(verifier)
	registrationHandler := handlers.NewRegistrationHandler(service, regs)
	wizardHandler := handlers.NewWizardHandler(manager, controller, accessible)

	hb := &handlers.HandlerBundle{
		GetSerialNumberHandler:         serialHandler.GetSerialNumberHandler,
		ListSerialRegistrationsHandler: registrationHandler.ListSerialRegistrationsHandler,
		RegisterBikeHandler:            registrationHandler.RegisterBikeHandler,
		GetRegistrationHandler:         registrationHandler.GetRegistrationHandler,
		GetWizardStateHandler:          wizardHandler.GetWizardStateHandler,
		DeleteWizardHandler:            wizardHandler.DeleteWizardHandler,
		HealthHandler:                  handlers.HealthHandler,
		ShowWizardHandler:              wizardHandler.ShowWizardHandler,
		VerifySerialHandler:            wizardHandler.VerifySerialHandler,
		DetailsHandler:                 wizardHandler.DetailsHandler,
		PersonalHandler:                wizardHandler.PersonalHandler,
		JumpToStepHandler:              wizardHandler.JumpToStepHandler,
		ResetWizardHandler:             wizardHandler.ResetWizardHandler,
	}

	r := gin.New()
	r.Use(utils.ErrorHandler())
	r.SetHTMLTemplate(views.Templates())
	session := middleware.SessionMiddleware(utils.NewSessionTokens("test-secret", time.Hour), 3600, false)
	routes.RegisterRoutes(r, hb, session)
	return &testApp{router: r, regs: regs}
}

func (a *testApp) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func validBody(email string) map[string]any {
	return map[string]any{
		"serialNumber":      "STN7736200",
		"modelDescription":  "SCOTT Spark RC 900 World Cup",
		"shopName":          "Velo Zurich",
		"firstName":         "Anna",
		"lastName":          "Muster",
		"email":             email,
		"country":           "CH",
		"dateOfPurchase":    "2025-06-01T00:00:00.000Z",
		"preferredLanguage": "de",
		"gender":            "female",
		"dateOfBirth":       "1990-04-01",
		"newsOptIn":         false,
		"consent":           true,
	}
}

func postJSON(t *testing.T, path string, body any) *http.Request {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(string(b)))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestGetSerialNumber(t *testing.T) {
	app := newTestApp(t, registration.NeverFail, false)

	w := app.do(httptest.NewRequest(http.MethodGet, "/api/serial-numbers/stn8823411", nil))
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, "STN8823411", data["serialNumber"])
	assert.Equal(t, "Cycles Lausanne", data["shopName"])

	w = app.do(httptest.NewRequest(http.MethodGet, "/api/serial-numbers/UNKNOWN", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Serial number not found", decode(t, w)["message"])
}

func TestRegisterForcedFailure(t *testing.T) {
	app := newTestApp(t, registration.NewSimulatedFailures(0, 1, "fail"), false)

	w := app.do(postJSON(t, "/api/register", validBody("fail@example.ch")))
	assert.Equal(t, http.StatusConflict, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Registration failed (simulated). Please contact our Support.", body["message"])
	stored, err := app.regs.ListBySerial(context.Background(), "STN7736200")
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestRegisterSuccess(t *testing.T) {
	app := newTestApp(t, registration.NeverFail, false)

	w := app.do(postJSON(t, "/api/register", validBody("anna@example.ch")))
	require.Equal(t, http.StatusCreated, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["success"])
	assert.Regexp(t, `^REG-[A-Z0-9]{7}$`, body["id"])
	assert.Equal(t, map[string]any{"serialNumber": "STN7736200", "email": "anna@example.ch"}, body["payload"])

	stored, err := app.regs.GetByID(context.Background(), body["id"].(string))
	require.NoError(t, err)
	assert.Equal(t, "Anna", stored.Record.FirstName)
}

func TestRegisterInvalidDate(t *testing.T) {
	app := newTestApp(t, registration.NeverFail, false)
	body := validBody("anna@example.ch")
	body["dateOfPurchase"] = "not-a-date"

	w := app.do(postJSON(t, "/api/register", body))
	require.Equal(t, http.StatusBadRequest, w.Code)
	errs := decode(t, w)["errors"].(map[string]any)
	assert.Contains(t, errs, "dateOfPurchase")
	assert.NotContains(t, errs, "email")
}

func TestRegisterAcceptsEpochMillisDates(t *testing.T) {
	app := newTestApp(t, registration.NeverFail, false)
	body := validBody("anna@example.ch")
	body["dateOfPurchase"] = 1748736000000

	w := app.do(postJSON(t, "/api/register", body))
	require.Equal(t, http.StatusCreated, w.Code)

	stored, err := app.regs.GetByID(context.Background(), decode(t, w)["id"].(string))
	require.NoError(t, err)
	assert.True(t, time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC).Equal(*stored.Record.DateOfPurchase))

	body["dateOfPurchase"] = true
	w = app.do(postJSON(t, "/api/register", body))
	require.Equal(t, http.StatusBadRequest, w.Code)
	errs := decode(t, w)["errors"].(map[string]any)
	assert.Equal(t, map[string]any{"_errors": []any{registration.MessageInvalidDate}}, errs["dateOfPurchase"])
}

func TestRegistrationLookups(t *testing.T) {
	app := newTestApp(t, registration.NeverFail, false)
	w := app.do(postJSON(t, "/api/register", validBody("anna@example.ch")))
	require.Equal(t, http.StatusCreated, w.Code)
	id := decode(t, w)["id"].(string)

	w = app.do(httptest.NewRequest(http.MethodGet, "/api/registrations/"+id, nil))
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]any)
	assert.Equal(t, id, data["id"])
	assert.Equal(t, "Anna", data["record"].(map[string]any)["firstName"])

	w = app.do(httptest.NewRequest(http.MethodGet, "/api/registrations/REG-ZZZZZZZ", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Registration not found", decode(t, w)["message"])

	w = app.do(httptest.NewRequest(http.MethodGet, "/api/serial-numbers/STN7736200/registrations", nil))
	require.Equal(t, http.StatusOK, w.Code)
	list := decode(t, w)["data"].([]any)
	require.Len(t, list, 1)
	assert.Equal(t, id, list[0].(map[string]any)["id"])

	w = app.do(httptest.NewRequest(http.MethodGet, "/api/serial-numbers/STN8823411/registrations", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{}, decode(t, w)["data"])
}

func TestRegisterRejectsMissingConsentAndBadEmail(t *testing.T) {
	app := newTestApp(t, registration.NeverFail, false)
	body := validBody("not-an-email")
	body["consent"] = false

	w := app.do(postJSON(t, "/api/register", body))
	require.Equal(t, http.StatusBadRequest, w.Code)
	errs := decode(t, w)["errors"].(map[string]any)
	assert.Equal(t, map[string]any{"_errors": []any{"Invalid email address"}}, errs["email"])
	assert.Equal(t, map[string]any{"_errors": []any{"You must provide consent to continue"}}, errs["consent"])
}

func TestRegisterMalformedBody(t *testing.T) {
	app := newTestApp(t, registration.NeverFail, false)
	req := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")

	w := app.do(req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, decode(t, w)["message"])
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, registration.NeverFail, false)
	w := app.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}

// browser replays the session cookie like a real client.
type browser struct {
	t      *testing.T
	app    *testApp
	cookie *http.Cookie
}

func (b *browser) send(req *http.Request) *httptest.ResponseRecorder {
	if b.cookie != nil {
		req.AddCookie(b.cookie)
	}
	w := b.app.do(req)
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookieName {
			b.cookie = c
		}
	}
	return w
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.send(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) post(path string, form url.Values) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := b.send(req)
	require.Equal(b.t, http.StatusSeeOther, w.Code)
	require.Equal(b.t, "/registration", w.Header().Get("Location"))
}

type wizardState struct {
	Data struct {
		Stepper struct {
			CurrentStep    int   `json:"currentStep"`
			CompletedSteps []int `json:"completedSteps"`
		} `json:"stepper"`
		Record struct {
			SerialNumber string `json:"serialNumber"`
			FirstName    string `json:"firstName"`
		} `json:"record"`
		Errors map[string]string `json:"errors"`
		Result *struct {
			Success bool   `json:"success"`
			Message string `json:"message"`
		} `json:"result"`
	} `json:"data"`
}

func (b *browser) state() wizardState {
	w := b.get("/api/wizard")
	require.Equal(b.t, http.StatusOK, w.Code)
	var st wizardState
	require.NoError(b.t, json.Unmarshal(w.Body.Bytes(), &st))
	return st
}

func personalForm(email, action string) url.Values {
	return url.Values{
		"firstName":         {"Anna"},
		"lastName":          {"Muster"},
		"email":             {email},
		"country":           {"CH"},
		"preferredLanguage": {"de"},
		"gender":            {"female"},
		"dateOfBirth":       {"1990-04-01"},
		"consent":           {"true"},
		"action":            {action},
	}
}

func TestWizardPagesHappyPath(t *testing.T) {
	b := &browser{t: t, app: newTestApp(t, registration.NeverFail, false)}

	w := b.get("/registration")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "STEP 1: SERIAL NUMBER")
	require.NotNil(t, b.cookie)

	b.post("/registration/verify", url.Values{"serialNumber": {"STN7736200"}})
	st := b.state()
	assert.Equal(t, 1, st.Data.Stepper.CurrentStep)
	assert.Equal(t, "STN7736200", st.Data.Record.SerialNumber)

	w = b.get("/registration")
	assert.Contains(t, w.Body.String(), "SCOTT Spark RC 900 World Cup")

	b.post("/registration/details", url.Values{"dateOfPurchase": {"2025-06-01"}, "action": {"next"}})
	assert.Equal(t, 2, b.state().Data.Stepper.CurrentStep)

	b.post("/registration/personal", personalForm("anna@example.ch", "submit"))
	st = b.state()
	assert.Equal(t, 3, st.Data.Stepper.CurrentStep)
	assert.Equal(t, []int{0, 1, 2}, st.Data.Stepper.CompletedSteps)
	require.NotNil(t, st.Data.Result)
	assert.True(t, st.Data.Result.Success)

	w = b.get("/registration")
	assert.Contains(t, w.Body.String(), "Registration Complete!")

	b.post("/registration/reset", nil)
	assert.Equal(t, 0, b.state().Data.Stepper.CurrentStep)
}

func TestWizardPagesFailureAndFieldErrors(t *testing.T) {
	b := &browser{t: t, app: newTestApp(t, registration.NewSimulatedFailures(0, 1, "fail"), false)}

	b.post("/registration/verify", url.Values{"serialNumber": {"NOPE"}})
	st := b.state()
	assert.Equal(t, 0, st.Data.Stepper.CurrentStep)
	assert.Equal(t, "Serial number not found", st.Data.Errors["serialNumber"])

	b.post("/registration/verify", url.Values{"serialNumber": {"STN7736200"}})
	b.post("/registration/details", url.Values{"dateOfPurchase": {"1800-01-01"}, "action": {"next"}})
	st = b.state()
	assert.Equal(t, 1, st.Data.Stepper.CurrentStep)
	assert.Equal(t, wizard.MessageDateRange, st.Data.Errors["dateOfPurchase"])

	b.post("/registration/details", url.Values{"dateOfPurchase": {"2025-06-01"}, "action": {"next"}})
	b.post("/registration/personal", personalForm("will.fail@example.ch", "submit"))
	st = b.state()
	assert.Equal(t, 3, st.Data.Stepper.CurrentStep)
	require.NotNil(t, st.Data.Result)
	assert.False(t, st.Data.Result.Success)
	assert.Equal(t, registration.FailureMessage, st.Data.Result.Message)
}

func TestWizardIndicatorNavigation(t *testing.T) {
	locked := &browser{t: t, app: newTestApp(t, registration.NeverFail, false)}
	locked.post("/registration/steps/2", nil)
	assert.Equal(t, 0, locked.state().Data.Stepper.CurrentStep)

	open := &browser{t: t, app: newTestApp(t, registration.NeverFail, true)}
	open.post("/registration/steps/2", nil)
	assert.Equal(t, 2, open.state().Data.Stepper.CurrentStep)
}

func TestWizardDeleteStartsOver(t *testing.T) {
	b := &browser{t: t, app: newTestApp(t, registration.NeverFail, false)}
	b.post("/registration/verify", url.Values{"serialNumber": {"STN7736200"}})
	require.Equal(t, 1, b.state().Data.Stepper.CurrentStep)

	w := b.send(httptest.NewRequest(http.MethodDelete, "/api/wizard", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["success"])

	st := b.state()
	assert.Equal(t, 0, st.Data.Stepper.CurrentStep)
	assert.Empty(t, st.Data.Record.SerialNumber)
}

func TestAPIClientAgainstServer(t *testing.T) {
	app := newTestApp(t, registration.NewSimulatedFailures(0, 1, "fail"), false)
	srv := httptest.NewServer(app.router)
	defer srv.Close()
	client := api.NewClient(srv.URL, srv.Client())
	ctx := context.Background()

	bike, err := client.VerifySerialNumber(ctx, "STN5521090")
	require.NoError(t, err)
	assert.Equal(t, "SCOTT Genius eRIDE 910", bike.ModelDescription)

	rec := registration.MergeVerified(*bike)
	purchased := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	born := time.Date(1990, 4, 1, 0, 0, 0, 0, time.UTC)
	rec.FirstName, rec.LastName, rec.Email = "Anna", "Muster", "anna@example.ch"
	rec.Country, rec.PreferredLanguage, rec.Gender = "CH", "de", "female"
	rec.DateOfPurchase, rec.DateOfBirth, rec.Consent = &purchased, &born, true

	out, err := client.RegisterBike(ctx, rec)
	require.NoError(t, err)
	assert.True(t, out.Success)

	rec.Email = "fail@example.ch"
	out, err = client.RegisterBike(ctx, rec)
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.Equal(t, registration.FailureMessage, out.Message)

	_, err = client.VerifySerialNumber(ctx, "NOPE")
	var reqErr *api.RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, "Serial number not found", reqErr.DisplayMessage())
}
