package httpx

import (
	"net/http"
	"time"
)

// CookieOptions controls the attributes of the session cookie.
type CookieOptions struct {
	Secure bool
	MaxAge time.Duration
}

// SetSessionCookie stores token in an HTTP-only cookie scoped to the whole site.
func SetSessionCookie(w http.ResponseWriter, token string, opts CookieOptions) {
	c := &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if opts.MaxAge > 0 {
		c.MaxAge = int(opts.MaxAge.Seconds())
		c.Expires = time.Now().Add(opts.MaxAge).UTC()
	}
	http.SetCookie(w, c)
}

// ClearSessionCookie instructs the client to drop the session cookie.
func ClearSessionCookie(w http.ResponseWriter, opts CookieOptions) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
}
