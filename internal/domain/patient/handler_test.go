package patient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/suivicare/suivicare/internal/platform/session"
)

type ownerPrincipal struct{ id uuid.UUID }

func (o *ownerPrincipal) PrincipalID() uuid.UUID { return o.id }

func postForm(e *echo.Echo, path string, form url.Values, owner session.Principal) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("principal", owner)
	return c, rec
}

func getRequest(e *echo.Echo, path string, owner session.Principal) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("principal", owner)
	return c, rec
}

func flashNotice(t *testing.T, rec *httptest.ResponseRecorder) *session.Notice {
	t.Helper()
	for _, ck := range rec.Result().Cookies() {
		if ck.Name == session.FlashCookieName && ck.Value != "" {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.AddCookie(ck)
			c := echo.New().NewContext(req, httptest.NewRecorder())
			return session.TakeFlash(c)
		}
	}
	return nil
}

func addPatientForm() url.Values {
	return url.Values{
		"ipp":         {"IPP-001"},
		"surname":     {"dupont"},
		"first_name":  {"marie"},
		"birth_day":   {"12"},
		"birth_month": {"04"},
		"birth_year":  {"1957"},
	}
}

func TestAddPatientHandler_Success(t *testing.T) {
	svc := NewService(newMockPatientRepo())
	h := NewHandler(svc)
	e := echo.New()
	owner := &ownerPrincipal{id: uuid.New()}

	c, rec := postForm(e, "/add-a-patient", addPatientForm(), owner)
	if err := h.AddPatient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/dashboard" {
		t.Errorf("expected redirect to /dashboard, got %d %q", rec.Code, rec.Header().Get("Location"))
	}

	patients, err := svc.ListPatients(context.Background(), owner.id, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(patients) != 1 || patients[0].Surname != "DUPONT" {
		t.Errorf("patient not stored normalized: %+v", patients)
	}
}

func TestAddPatientHandler_Duplicate(t *testing.T) {
	svc := NewService(newMockPatientRepo())
	h := NewHandler(svc)
	e := echo.New()
	owner := &ownerPrincipal{id: uuid.New()}

	c, _ := postForm(e, "/add-a-patient", addPatientForm(), owner)
	if err := h.AddPatient(c); err != nil {
		t.Fatalf("first creation failed: %v", err)
	}

	c2, rec2 := postForm(e, "/add-a-patient", addPatientForm(), owner)
	if err := h.AddPatient(c2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec2.Code != http.StatusFound || rec2.Header().Get("Location") != "/add-a-patient" {
		t.Errorf("expected redirect back to the form, got %d %q", rec2.Code, rec2.Header().Get("Location"))
	}
	n := flashNotice(t, rec2)
	if n == nil || n.Category != "error" || n.Message != "Le patient existe déjà" {
		t.Errorf("unexpected notice %+v", n)
	}
}

func TestAddPatientHandler_MissingField(t *testing.T) {
	svc := NewService(newMockPatientRepo())
	h := NewHandler(svc)
	e := echo.New()
	owner := &ownerPrincipal{id: uuid.New()}

	form := addPatientForm()
	form.Del("ipp")
	c, rec := postForm(e, "/add-a-patient", form, owner)
	if err := h.AddPatient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.Header().Get("Location") != "/add-a-patient" {
		t.Errorf("expected redirect back to the form, got %q", rec.Header().Get("Location"))
	}
	n := flashNotice(t, rec)
	if n == nil || n.Message != "Tous les champs sont requis." {
		t.Errorf("unexpected notice %+v", n)
	}
}

func TestDashboardHandler(t *testing.T) {
	svc := NewService(newMockPatientRepo())
	h := NewHandler(svc)
	e := echo.New()
	owner := &ownerPrincipal{id: uuid.New()}

	if _, err := svc.CreatePatient(context.Background(), owner.id, validCreateInput()); err != nil {
		t.Fatalf("creation failed: %v", err)
	}

	c, rec := getRequest(e, "/dashboard", owner)
	if err := h.Dashboard(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "DUPONT") {
		t.Error("expected the patient in the dashboard view")
	}
}

func TestDashboardHandler_Search(t *testing.T) {
	svc := NewService(newMockPatientRepo())
	h := NewHandler(svc)
	e := echo.New()
	owner := &ownerPrincipal{id: uuid.New()}

	if _, err := svc.CreatePatient(context.Background(), owner.id, validCreateInput()); err != nil {
		t.Fatalf("creation failed: %v", err)
	}

	c, rec := getRequest(e, "/dashboard?q=xyz", owner)
	if err := h.Dashboard(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(rec.Body.String(), "DUPONT") {
		t.Error("expected no match for the search term")
	}
}

func TestViewPatientHandler(t *testing.T) {
	svc := NewService(newMockPatientRepo())
	h := NewHandler(svc)
	e := echo.New()
	owner := &ownerPrincipal{id: uuid.New()}

	p, err := svc.CreatePatient(context.Background(), owner.id, validCreateInput())
	if err != nil {
		t.Fatalf("creation failed: %v", err)
	}

	c, rec := getRequest(e, "/view-patient/"+p.ID.String(), owner)
	c.SetParamNames("id")
	c.SetParamValues(p.ID.String())

	if err := h.ViewPatient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "12/04/1957") {
		t.Error("expected the birthday in the detail view")
	}
}

func TestViewPatientHandler_Missing(t *testing.T) {
	svc := NewService(newMockPatientRepo())
	h := NewHandler(svc)
	e := echo.New()
	owner := &ownerPrincipal{id: uuid.New()}

	c, rec := getRequest(e, "/view-patient/"+uuid.New().String(), owner)
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	if err := h.ViewPatient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/dashboard" {
		t.Errorf("expected redirect to /dashboard, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	n := flashNotice(t, rec)
	if n == nil || n.Message != "Patient introuvable" {
		t.Errorf("unexpected notice %+v", n)
	}
}

func TestViewPatientHandler_NotOwner(t *testing.T) {
	svc := NewService(newMockPatientRepo())
	h := NewHandler(svc)
	e := echo.New()
	owner := &ownerPrincipal{id: uuid.New()}

	p, err := svc.CreatePatient(context.Background(), owner.id, validCreateInput())
	if err != nil {
		t.Fatalf("creation failed: %v", err)
	}

	intruder := &ownerPrincipal{id: uuid.New()}
	c, rec := getRequest(e, "/view-patient/"+p.ID.String(), intruder)
	c.SetParamNames("id")
	c.SetParamValues(p.ID.String())

	if err := h.ViewPatient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/dashboard" {
		t.Errorf("another user's patient must surface as not found, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestViewPatientHandler_MalformedID(t *testing.T) {
	svc := NewService(newMockPatientRepo())
	h := NewHandler(svc)
	e := echo.New()
	owner := &ownerPrincipal{id: uuid.New()}

	c, rec := getRequest(e, "/view-patient/not-a-uuid", owner)
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	if err := h.ViewPatient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/dashboard" {
		t.Errorf("expected redirect to /dashboard, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestEditPatientHandler(t *testing.T) {
	svc := NewService(newMockPatientRepo())
	h := NewHandler(svc)
	e := echo.New()
	owner := &ownerPrincipal{id: uuid.New()}

	p, err := svc.CreatePatient(context.Background(), owner.id, validCreateInput())
	if err != nil {
		t.Fatalf("creation failed: %v", err)
	}

	form := url.Values{
		"ipp":                    {"IPP-001"},
		"surname":                {"dupont"},
		"first_name":             {"marie"},
		"birth_day":              {"12"},
		"birth_month":            {"04"},
		"birth_year":             {"1957"},
		"end_of_hospitalisation": {"1"},
		"follow_up_days":         {"7"},
		"follow_ups_per_day":     {"3"},
	}
	c, rec := postForm(e, "/edit-patient/"+p.ID.String(), form, owner)
	c.SetParamNames("id")
	c.SetParamValues(p.ID.String())

	if err := h.EditPatient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/dashboard" {
		t.Errorf("expected redirect to /dashboard, got %d %q", rec.Code, rec.Header().Get("Location"))
	}

	updated, err := svc.GetPatient(context.Background(), p.ID, owner.id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !updated.EndOfHospitalisation || updated.FollowUpDays != 7 || updated.FollowUpsPerDay != 3 {
		t.Errorf("edit not applied: %+v", updated)
	}
}

func TestEditPatientHandler_ValidationStaysOnForm(t *testing.T) {
	svc := NewService(newMockPatientRepo())
	h := NewHandler(svc)
	e := echo.New()
	owner := &ownerPrincipal{id: uuid.New()}

	p, err := svc.CreatePatient(context.Background(), owner.id, validCreateInput())
	if err != nil {
		t.Fatalf("creation failed: %v", err)
	}

	c, rec := postForm(e, "/edit-patient/"+p.ID.String(), url.Values{"ipp": {"IPP-001"}}, owner)
	c.SetParamNames("id")
	c.SetParamValues(p.ID.String())

	if err := h.EditPatient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "/edit-patient/" + p.ID.String()
	if rec.Header().Get("Location") != want {
		t.Errorf("expected redirect back to %s, got %q", want, rec.Header().Get("Location"))
	}
}

func TestDeletePatientHandler(t *testing.T) {
	svc := NewService(newMockPatientRepo())
	h := NewHandler(svc)
	e := echo.New()
	owner := &ownerPrincipal{id: uuid.New()}

	p, err := svc.CreatePatient(context.Background(), owner.id, validCreateInput())
	if err != nil {
		t.Fatalf("creation failed: %v", err)
	}

	c, rec := getRequest(e, "/delete-patient/"+p.ID.String(), owner)
	c.SetParamNames("id")
	c.SetParamValues(p.ID.String())

	if err := h.DeletePatient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/dashboard" {
		t.Errorf("expected redirect to /dashboard, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	n := flashNotice(t, rec)
	if n == nil || n.Category != "success" || n.Message != "Patient supprimé avec succès." {
		t.Errorf("unexpected notice %+v", n)
	}
}

func TestDeletePatientHandler_Missing(t *testing.T) {
	svc := NewService(newMockPatientRepo())
	h := NewHandler(svc)
	e := echo.New()
	owner := &ownerPrincipal{id: uuid.New()}

	c, rec := getRequest(e, "/delete-patient/"+uuid.New().String(), owner)
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	if err := h.DeletePatient(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	n := flashNotice(t, rec)
	if n == nil || n.Category != "error" || n.Message != "Patient introuvable" {
		t.Errorf("unexpected notice %+v", n)
	}
}
