package testutil

import (
	"net/http"
	"time"

	id "hireme/pkg/domain"
	"hireme/pkg/requestcontext"
)

// WithCaller attaches an authenticated caller to the request context,
// simulating what the auth middleware does.
func WithCaller(req *http.Request, userID id.UserID, role id.Role) *http.Request {
	return req.WithContext(requestcontext.WithCaller(req.Context(), userID, role))
}

// WithTime pins the request-scoped clock.
func WithTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}
