// Package session implements the signed-cookie session principal and the
// one-shot flash notices shown on the next rendered page.
package session

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	CookieName = "suivicare_session"

	principalKey = "principal"
)

// Principal is the capability a logged-in entity must satisfy. The User
// entity implements it; auth state stays out of the entity itself.
type Principal interface {
	PrincipalID() uuid.UUID
}

// Resolver loads the principal for a session user id on every request.
// Returning an error invalidates the session (e.g., deleted account).
type Resolver func(ctx context.Context, userID uuid.UUID) (Principal, error)

// Manager issues and verifies the session cookie. The cookie value is an
// HS256 JWT signed with the process secret key.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl}
}

type sessionClaims struct {
	jwt.RegisteredClaims
}

// Issue establishes a session principal bound to userID.
func (m *Manager) Issue(c echo.Context, userID uuid.UUID) error {
	now := time.Now()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return fmt.Errorf("sign session token: %w", err)
	}

	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  now.Add(m.ttl),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear destroys the session cookie. Idempotent: clearing an absent session
// is not an error.
func (m *Manager) Clear(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// UserID verifies a session token and returns the user id it is bound to.
func (m *Manager) UserID(token string) (uuid.UUID, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse session token: %w", err)
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse session subject: %w", err)
	}
	return id, nil
}

// CookieUserID returns the user id bound to the request's session cookie, or
// an error when no valid session exists. It does not touch storage.
func (m *Manager) CookieUserID(c echo.Context) (uuid.UUID, error) {
	cookie, err := c.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return uuid.Nil, fmt.Errorf("no session cookie")
	}
	return m.UserID(cookie.Value)
}

// RequireAuthenticated gates protected routes. A missing, tampered or expired
// cookie, or a principal that no longer resolves, redirects to the entry
// surface without running the handler.
func (m *Manager) RequireAuthenticated(resolve Resolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			userID, err := m.CookieUserID(c)
			if err != nil {
				return c.Redirect(http.StatusFound, "/")
			}

			principal, err := resolve(c.Request().Context(), userID)
			if err != nil || principal == nil {
				m.Clear(c)
				return c.Redirect(http.StatusFound, "/")
			}

			c.Set(principalKey, principal)
			return next(c)
		}
	}
}

// CurrentPrincipal returns the principal established by RequireAuthenticated.
func CurrentPrincipal(c echo.Context) Principal {
	p, _ := c.Get(principalKey).(Principal)
	return p
}
