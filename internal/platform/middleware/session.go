package middleware

import (
	"net/http"
	"time"

	id "ddinvest/pkg/domain"
	"ddinvest/pkg/requestcontext"
)

// SessionCookieName is the cookie carrying the browser session ID.
const SessionCookieName = "sid"

// SessionCookie puts the session ID named by the request's cookie into the
// context. A missing or malformed cookie leaves the request anonymous.
func SessionCookie(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(SessionCookieName); err == nil {
			if sid, err := id.ParseSessionID(c.Value); err == nil {
				r = r.WithContext(requestcontext.WithSessionID(r.Context(), sid))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// SetSessionCookie issues the session cookie.
func SetSessionCookie(w http.ResponseWriter, sid id.SessionID, expires time.Time, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sid.String(),
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearSessionCookie tells the browser to drop the session cookie.
func ClearSessionCookie(w http.ResponseWriter, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
