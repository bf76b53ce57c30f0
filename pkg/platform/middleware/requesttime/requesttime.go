// Package requesttime pins a single "now" per request so every timestamp a
// request writes (createdAt, reviewedAt, lastLogin) agrees.
package requesttime

import (
	"net/http"
	"time"

	"hireme/pkg/requestcontext"
)

func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
