package middleware

import (
	"net/http"
	"time"

	"ddinvest/pkg/requestcontext"
)

// RequestTime captures the start of the request so everything it touches
// agrees on "now".
func RequestTime(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
