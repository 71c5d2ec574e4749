package session

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/labstack/echo/v4"
)

const FlashCookieName = "suivicare_flash"

// Notice is a transient categorized message shown exactly once on the next
// rendered page. Category is "error" or "success".
type Notice struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// SetFlash queues a notice for the next rendered page.
func SetFlash(c echo.Context, category, message string) {
	raw, err := json.Marshal(Notice{Category: category, Message: message})
	if err != nil {
		return
	}
	c.SetCookie(&http.Cookie{
		Name:     FlashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// TakeFlash consumes the pending notice, clearing it so it renders exactly
// once. Returns nil when nothing is pending.
func TakeFlash(c echo.Context) *Notice {
	cookie, err := c.Cookie(FlashCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	c.SetCookie(&http.Cookie{
		Name:     FlashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	raw, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}

	var n Notice
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil
	}
	return &n
}
