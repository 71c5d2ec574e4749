package patient

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/suivicare/suivicare/internal/platform/apperr"
	"github.com/suivicare/suivicare/internal/platform/session"
)

// Handler maps the registry routes onto the service. All routes are session
// gated; GET routes answer with the view model the page template consumes,
// POST routes answer with a redirect plus a one-shot flash notice.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(e *echo.Echo, requireAuth echo.MiddlewareFunc) {
	g := e.Group("", requireAuth)
	g.GET("/dashboard", h.Dashboard)
	g.GET("/add-a-patient", h.AddPatientForm)
	g.POST("/add-a-patient", h.AddPatient)
	g.GET("/view-patient/:id", h.ViewPatient)
	g.GET("/edit-patient/:id", h.EditPatientForm)
	g.POST("/edit-patient/:id", h.EditPatient)
	g.GET("/delete-patient/:id", h.DeletePatient)
	g.POST("/delete-patient/:id", h.DeletePatient)
}

func redirectWithNotice(c echo.Context, err error, back string) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		session.SetFlash(c, "error", ae.Message)
		return c.Redirect(http.StatusFound, back)
	}
	return err
}

// patientID parses the :id path parameter. A malformed id behaves like a
// missing patient.
func patientID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperr.NotFound("Patient introuvable")
	}
	return id, nil
}

func (h *Handler) Dashboard(c echo.Context) error {
	owner := session.CurrentPrincipal(c)
	search := c.QueryParam("q")

	patients, err := h.svc.ListPatients(c.Request().Context(), owner.PrincipalID(), search)
	if err != nil {
		return err
	}

	views := make([]map[string]interface{}, len(patients))
	for i, p := range patients {
		views[i] = p.ToView()
	}

	return c.JSON(http.StatusOK, echo.Map{
		"page":     "dashboard",
		"user":     owner,
		"patients": views,
		"search":   search,
		"flash":    session.TakeFlash(c),
	})
}

func (h *Handler) AddPatientForm(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"page":  "add-a-patient",
		"user":  session.CurrentPrincipal(c),
		"flash": session.TakeFlash(c),
	})
}

func (h *Handler) AddPatient(c echo.Context) error {
	owner := session.CurrentPrincipal(c)
	_, err := h.svc.CreatePatient(c.Request().Context(), owner.PrincipalID(), CreateInput{
		IPP:        c.FormValue("ipp"),
		Surname:    c.FormValue("surname"),
		FirstName:  c.FormValue("first_name"),
		BirthDay:   c.FormValue("birth_day"),
		BirthMonth: c.FormValue("birth_month"),
		BirthYear:  c.FormValue("birth_year"),
	})
	if err != nil {
		return redirectWithNotice(c, err, "/add-a-patient")
	}
	return c.Redirect(http.StatusFound, "/dashboard")
}

func (h *Handler) ViewPatient(c echo.Context) error {
	id, err := patientID(c)
	if err != nil {
		return redirectWithNotice(c, err, "/dashboard")
	}

	detail, err := h.svc.GetPatientDetail(c.Request().Context(), id, session.CurrentPrincipal(c).PrincipalID())
	if err != nil {
		return redirectWithNotice(c, err, "/dashboard")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"page":        "view-patient",
		"patient":     detail.Patient.ToView(),
		"suivis":      detail.Suivis,
		"validations": detail.Validations,
		"flash":       session.TakeFlash(c),
	})
}

func (h *Handler) EditPatientForm(c echo.Context) error {
	id, err := patientID(c)
	if err != nil {
		return redirectWithNotice(c, err, "/dashboard")
	}

	p, err := h.svc.GetPatient(c.Request().Context(), id, session.CurrentPrincipal(c).PrincipalID())
	if err != nil {
		return redirectWithNotice(c, err, "/dashboard")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"page":    "edit-patient",
		"patient": p.ToView(),
		"flash":   session.TakeFlash(c),
	})
}

func (h *Handler) EditPatient(c echo.Context) error {
	id, err := patientID(c)
	if err != nil {
		return redirectWithNotice(c, err, "/dashboard")
	}

	_, err = h.svc.UpdatePatient(c.Request().Context(), id, session.CurrentPrincipal(c).PrincipalID(), EditInput{
		IPP:                  c.FormValue("ipp"),
		Surname:              c.FormValue("surname"),
		FirstName:            c.FormValue("first_name"),
		BirthDay:             c.FormValue("birth_day"),
		BirthMonth:           c.FormValue("birth_month"),
		BirthYear:            c.FormValue("birth_year"),
		EndOfHospitalisation: c.FormValue("end_of_hospitalisation"),
		FollowUpDays:         c.FormValue("follow_up_days"),
		FollowUpsPerDay:      c.FormValue("follow_ups_per_day"),
	})
	if err != nil {
		if apperr.IsValidation(err) {
			return redirectWithNotice(c, err, "/edit-patient/"+id.String())
		}
		return redirectWithNotice(c, err, "/dashboard")
	}
	return c.Redirect(http.StatusFound, "/dashboard")
}

func (h *Handler) DeletePatient(c echo.Context) error {
	id, err := patientID(c)
	if err != nil {
		return redirectWithNotice(c, err, "/dashboard")
	}

	err = h.svc.DeletePatient(c.Request().Context(), id, session.CurrentPrincipal(c).PrincipalID())
	if err != nil {
		if apperr.KindOf(err) == 0 {
			return err
		}
		session.SetFlash(c, "error", "Patient introuvable")
		return c.Redirect(http.StatusFound, "/dashboard")
	}

	session.SetFlash(c, "success", "Patient supprimé avec succès.")
	return c.Redirect(http.StatusFound, "/dashboard")
}
