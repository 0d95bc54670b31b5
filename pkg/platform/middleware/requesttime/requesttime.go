// Package requesttime pins one "now" per HTTP request so slip timestamps and
// location log rows written by the same request agree exactly.
package requesttime

import (
	"net/http"
	"time"

	"stocktrail/pkg/requestcontext"
)

// Middleware captures the current time at the start of the request.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now().UTC())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
