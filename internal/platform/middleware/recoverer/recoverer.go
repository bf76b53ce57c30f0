// Package recoverer turns handler panics into the standard JSON error
// envelope.
package recoverer

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	dErrors "hireme/pkg/domain-errors"
	"hireme/pkg/platform/httputil"
	"hireme/pkg/requestcontext"
)

// Middleware recovers panics, logs them with a stack trace and answers 500
// with the failure envelope. http.ErrAbortHandler is re-raised so net/http
// can abort the connection.
func Middleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rvr := recover()
				if rvr == nil {
					return
				}
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}

				ctx := r.Context()
				logger.ErrorContext(ctx, "panic recovered",
					"panic", fmt.Sprint(rvr),
					"method", r.Method,
					"path", r.URL.Path,
					"request_id", requestcontext.RequestID(ctx),
					"stack", string(debug.Stack()),
				)
				if r.Header.Get("Connection") == "Upgrade" {
					return
				}
				httputil.WriteError(w, dErrors.Wrap(fmt.Errorf("panic: %v", rvr), dErrors.CodeInternal, "internal server error"))
			}()

			next.ServeHTTP(w, r)
		})
	}
}
