package auth

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "hireme/pkg/domain"
	"hireme/pkg/platform/tokens"
	"hireme/pkg/requestcontext"
)

func newFixture(t *testing.T) (*tokens.JWTService, *slog.Logger) {
	t.Helper()
	return tokens.NewJWTService("secret", "hireme", time.Hour), slog.New(slog.NewTextHandler(io.Discard, nil))
}

func echoCaller(t *testing.T, wantUser id.UserID, wantRole id.Role) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, wantUser, requestcontext.UserID(r.Context()))
		assert.Equal(t, wantRole, requestcontext.Role(r.Context()))
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestRequireAuth(t *testing.T) {
	jwtSvc, logger := newFixture(t)
	userID := id.NewUserID()
	token, _, err := jwtSvc.Issue(userID, id.RoleEmployer)
	require.NoError(t, err)

	t.Run("valid token sets caller", func(t *testing.T) {
		h := RequireAuth(jwtSvc, logger)(echoCaller(t, userID, id.RoleEmployer))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("missing header", func(t *testing.T) {
		h := RequireAuth(jwtSvc, logger)(http.NotFoundHandler())
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("tampered token", func(t *testing.T) {
		h := RequireAuth(jwtSvc, logger)(http.NotFoundHandler())
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+token+"x")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestOptionalAuth(t *testing.T) {
	jwtSvc, logger := newFixture(t)

	t.Run("anonymous passes through", func(t *testing.T) {
		h := OptionalAuth(jwtSvc, logger)(echoCaller(t, id.UserID{}, ""))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})

	t.Run("invalid token is ignored", func(t *testing.T) {
		h := OptionalAuth(jwtSvc, logger)(echoCaller(t, id.UserID{}, ""))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer junk")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNoContent, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	_, logger := newFixture(t)
	h := RequireRole(logger, id.RoleEmployer)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	seeker := httptest.NewRequest(http.MethodPost, "/jobs", nil)
	seeker = seeker.WithContext(requestcontext.WithCaller(seeker.Context(), id.NewUserID(), id.RoleJobSeeker))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, seeker)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	employer := httptest.NewRequest(http.MethodPost, "/jobs", nil)
	employer = employer.WithContext(requestcontext.WithCaller(employer.Context(), id.NewUserID(), id.RoleEmployer))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, employer)
	assert.Equal(t, http.StatusOK, rec.Code)
}
