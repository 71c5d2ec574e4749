package account

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/suivicare/suivicare/internal/platform/apperr"
	"github.com/suivicare/suivicare/internal/platform/session"
)

// Handler maps the authentication and profile routes onto the service. GET
// routes answer with the view model the page template consumes; POST routes
// answer with a redirect plus a one-shot flash notice.
type Handler struct {
	svc      *Service
	sessions *session.Manager
}

func NewHandler(svc *Service, sessions *session.Manager) *Handler {
	return &Handler{svc: svc, sessions: sessions}
}

// RegisterRoutes registers the public entry routes and the session-gated
// profile routes.
func (h *Handler) RegisterRoutes(e *echo.Echo, requireAuth echo.MiddlewareFunc) {
	e.GET("/", h.LoginForm)
	e.POST("/", h.Login)
	e.GET("/register", h.RegisterForm)
	e.POST("/register", h.Register)
	e.GET("/logout", h.Logout)

	protected := e.Group("", requireAuth)
	protected.GET("/profile", h.Profile)
	protected.GET("/edit-profile", h.EditProfileForm)
	protected.POST("/edit-profile", h.EditProfile)
	protected.GET("/delete-profile", h.DeleteProfile)
	protected.POST("/delete-profile", h.DeleteProfile)
}

// redirectWithNotice turns a recoverable error into a flash notice plus a
// redirect back to the originating form. Anything outside the taxonomy
// propagates and fails the request.
func redirectWithNotice(c echo.Context, err error, back string) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		session.SetFlash(c, "error", ae.Message)
		return c.Redirect(http.StatusFound, back)
	}
	return err
}

func (h *Handler) LoginForm(c echo.Context) error {
	// An already-authenticated visitor goes straight to the dashboard.
	if uid, err := h.sessions.CookieUserID(c); err == nil {
		if _, err := h.svc.ResolvePrincipal(c.Request().Context(), uid); err == nil {
			return c.Redirect(http.StatusFound, "/dashboard")
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"page":  "index",
		"flash": session.TakeFlash(c),
	})
}

func (h *Handler) Login(c echo.Context) error {
	u, err := h.svc.Authenticate(c.Request().Context(), c.FormValue("email"), c.FormValue("password"))
	if err != nil {
		return redirectWithNotice(c, err, "/")
	}
	if err := h.sessions.Issue(c, u.ID); err != nil {
		return err
	}
	return c.Redirect(http.StatusFound, "/dashboard")
}

func (h *Handler) RegisterForm(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"page":  "register",
		"flash": session.TakeFlash(c),
	})
}

func (h *Handler) Register(c echo.Context) error {
	_, err := h.svc.Register(c.Request().Context(), RegisterInput{
		Surname:      c.FormValue("surname"),
		FirstName:    c.FormValue("first_name"),
		Enterprise:   c.FormValue("enterprise"),
		Email:        c.FormValue("email"),
		Password:     c.FormValue("password"),
		Confirmation: c.FormValue("confirmation"),
	})
	if err != nil {
		return redirectWithNotice(c, err, "/register")
	}

	session.SetFlash(c, "success", "Compte créé avec succès ! Connectez-vous pour accéder à votre tableau de bord.")
	return c.Redirect(http.StatusFound, "/")
}

func (h *Handler) Logout(c echo.Context) error {
	h.sessions.Clear(c)
	return c.Redirect(http.StatusFound, "/")
}

func (h *Handler) Profile(c echo.Context) error {
	u, err := h.svc.GetProfile(c.Request().Context(), session.CurrentPrincipal(c).PrincipalID())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"page":  "profile",
		"user":  u,
		"flash": session.TakeFlash(c),
	})
}

func (h *Handler) EditProfileForm(c echo.Context) error {
	u, err := h.svc.GetProfile(c.Request().Context(), session.CurrentPrincipal(c).PrincipalID())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"page":  "edit-profile",
		"user":  u,
		"flash": session.TakeFlash(c),
	})
}

func (h *Handler) EditProfile(c echo.Context) error {
	_, err := h.svc.UpdateProfile(c.Request().Context(), session.CurrentPrincipal(c).PrincipalID(), ProfileInput{
		Surname:    c.FormValue("surname"),
		FirstName:  c.FormValue("first_name"),
		Enterprise: c.FormValue("enterprise"),
		Email:      c.FormValue("email"),
	})
	if err != nil {
		return redirectWithNotice(c, err, "/edit-profile")
	}
	return c.Redirect(http.StatusFound, "/profile")
}

// DeleteProfile deletes the account and everything it owns. The session
// cookie is left alone: the principal no longer resolves, so the next
// protected request redirects to the entry surface anyway.
func (h *Handler) DeleteProfile(c echo.Context) error {
	err := h.svc.DeleteAccount(c.Request().Context(), session.CurrentPrincipal(c).PrincipalID())
	if err != nil {
		if apperr.KindOf(err) == 0 {
			return err
		}
		session.SetFlash(c, "error", "Votre compte n'a pas pu être supprimé. Contactez le support technique.")
		return c.Redirect(http.StatusFound, "/")
	}

	session.SetFlash(c, "success", "Votre compte a été supprimé avec succès.")
	return c.Redirect(http.StatusFound, "/")
}
