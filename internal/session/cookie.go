package session

import (
	"net/http"
	"time"
)

const CookieName = "sessionId"

// CookieOptions defines how session cookies are issued.
type CookieOptions struct {
	Path     string
	Secure   bool
	SameSite http.SameSite
	MaxAge   time.Duration
}

func (o CookieOptions) normalize() CookieOptions {
	if o.Path == "" {
		o.Path = "/"
	}
	if o.SameSite == 0 {
		o.SameSite = http.SameSiteLaxMode
	}
	return o
}

// SetCookie issues the session cookie to the client.
func SetCookie(w http.ResponseWriter, sessionID string, opts CookieOptions) {
	http.SetCookie(w, Cookie(sessionID, opts))
}

// Cookie builds the session cookie for sessionID.
func Cookie(sessionID string, opts CookieOptions) *http.Cookie {
	opts = opts.normalize()
	c := &http.Cookie{
		Name:     CookieName,
		Value:    sessionID,
		Path:     opts.Path,
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: opts.SameSite,
	}
	if opts.MaxAge > 0 {
		c.MaxAge = int(opts.MaxAge.Seconds())
	}
	return c
}
