// Package auth authenticates bearer tokens and enforces caller roles.
package auth

import (
	"log/slog"
	"net/http"
	"slices"
	"strings"

	id "hireme/pkg/domain"
	dErrors "hireme/pkg/domain-errors"
	"hireme/pkg/platform/httputil"
	"hireme/pkg/platform/tokens"
	"hireme/pkg/requestcontext"
)

// JWTValidator validates an access token and returns its claims.
type JWTValidator interface {
	ValidateToken(tokenString string) (*tokens.Claims, error)
}

const bearerPrefix = "Bearer "

// RequireAuth rejects requests without a valid bearer token and stores the
// caller identity in the request context.
func RequireAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix)
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Access denied. No token provided."))
				return
			}

			userID, role, err := authenticate(validator, token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "Invalid or expired token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithCaller(ctx, userID, role)))
		})
	}
}

// OptionalAuth attaches the caller identity when a valid token is present and
// otherwise lets the request through anonymously.
func OptionalAuth(validator JWTValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), bearerPrefix)
			if !ok || token == "" {
				next.ServeHTTP(w, r)
				return
			}
			userID, role, err := authenticate(validator, token)
			if err != nil {
				logger.DebugContext(r.Context(), "ignoring invalid optional token", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(requestcontext.WithCaller(r.Context(), userID, role)))
		})
	}
}

// RequireRole must run after RequireAuth. Callers outside roles get 403.
func RequireRole(logger *slog.Logger, roles ...id.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			role := requestcontext.Role(ctx)
			if !slices.Contains(roles, role) {
				logger.WarnContext(ctx, "forbidden - role not permitted",
					"role", role,
					"path", r.URL.Path,
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "Access denied. Insufficient permissions."))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func authenticate(validator JWTValidator, token string) (id.UserID, id.Role, error) {
	claims, err := validator.ValidateToken(token)
	if err != nil {
		return id.UserID{}, "", err
	}
	userID, err := id.ParseUserID(claims.UserID)
	if err != nil {
		return id.UserID{}, "", err
	}
	return userID, id.Role(claims.Role), nil
}

// Guard bundles the auth middlewares so handlers can declare per-route
// requirements inside their Register methods.
type Guard struct {
	validator JWTValidator
	logger    *slog.Logger
}

func NewGuard(validator JWTValidator, logger *slog.Logger) *Guard {
	return &Guard{validator: validator, logger: logger}
}

func (g *Guard) Required() func(http.Handler) http.Handler {
	return RequireAuth(g.validator, g.logger)
}

func (g *Guard) Optional() func(http.Handler) http.Handler {
	return OptionalAuth(g.validator, g.logger)
}

func (g *Guard) Role(roles ...id.Role) func(http.Handler) http.Handler {
	return RequireRole(g.logger, roles...)
}
