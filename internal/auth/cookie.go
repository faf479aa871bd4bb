package auth

import (
	"net/http"
	"strings"
	"time"

	"boty-storefront/internal/model"
)

// SessionCookieName is the cookie carrying the admin session token.
const SessionCookieName = "admin_token"

type CookieOptions struct {
	Secure bool
	MaxAge time.Duration
}

// SetSessionCookie attaches token as an HttpOnly, SameSite=Lax cookie scoped
// to the whole site.
func SetSessionCookie(w http.ResponseWriter, token string, opts CookieOptions) {
	maxAge := opts.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultTokenTTL
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(maxAge / time.Second),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func ClearSessionCookie(w http.ResponseWriter, opts CookieOptions) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionToken reads the session cookie. A missing or empty cookie is the
// normal "no session" state and reports false.
func SessionToken(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return "", false
	}

	value := strings.TrimSpace(cookie.Value)
	if value == "" {
		return "", false
	}

	return value, true
}

type Verifier interface {
	Verify(token string) (model.AdminClaims, bool)
}

// AdminFromRequest derives the caller's identity from the session cookie.
// The route guard and every admin handler call it independently.
func AdminFromRequest(v Verifier, r *http.Request) (model.AdminClaims, bool) {
	if v == nil {
		return model.AdminClaims{}, false
	}

	token, ok := SessionToken(r)
	if !ok {
		return model.AdminClaims{}, false
	}

	return v.Verify(token)
}
