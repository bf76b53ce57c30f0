package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"hireme/internal/users/models"
	"hireme/internal/users/service"
	id "hireme/pkg/domain"
	dErrors "hireme/pkg/domain-errors"
	"hireme/pkg/platform/httputil"
	"hireme/pkg/platform/middleware/auth"
	"hireme/pkg/requestcontext"
)

// Service is the user directory as seen by the transport layer.
type Service interface {
	Register(ctx context.Context, in service.RegisterInput) (*models.User, error)
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	GetProfile(ctx context.Context, userID id.UserID) (*models.User, error)
	UpdateProfile(ctx context.Context, userID id.UserID, patch models.ProfilePatch) (*models.User, error)
	Deactivate(ctx context.Context, userID id.UserID) error
}

// TokenIssuer signs access tokens for authenticated accounts.
type TokenIssuer interface {
	Issue(userID id.UserID, role id.Role) (string, time.Time, error)
}

type Handler struct {
	service Service
	tokens  TokenIssuer
	guard   *auth.Guard
	logger  *slog.Logger
}

func New(svc Service, tokens TokenIssuer, guard *auth.Guard, logger *slog.Logger) *Handler {
	return &Handler{service: svc, tokens: tokens, guard: guard, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/auth/register", h.handleRegister)
	r.Post("/auth/login", h.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(h.guard.Required())
		r.Get("/auth/profile", h.handleGetProfile)
		r.Put("/auth/profile", h.handleUpdateProfile)
		r.Delete("/auth/account", h.handleDeactivate)
	})
}

type sessionResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

type userResponse struct {
	User *models.User `json:"user"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := httputil.DecodeAndPrepare(w, r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	user, err := h.service.Register(r.Context(), req.toInput())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSession(w, r, http.StatusCreated, "User registered successfully", user)
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httputil.DecodeAndPrepare(w, r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	user, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeSession(w, r, http.StatusOK, "Login successful", user)
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.GetProfile(r.Context(), requestcontext.UserID(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Profile retrieved successfully", userResponse{User: user})
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := httputil.DecodeAndPrepare(w, r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	user, err := h.service.UpdateProfile(r.Context(), requestcontext.UserID(r.Context()), req.toPatch())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Profile updated successfully", userResponse{User: user})
}

func (h *Handler) handleDeactivate(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Deactivate(r.Context(), requestcontext.UserID(r.Context())); err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Account deactivated successfully", nil)
}

func (h *Handler) writeSession(w http.ResponseWriter, r *http.Request, status int, message string, user *models.User) {
	token, expiresAt, err := h.tokens.Issue(user.ID, user.Role)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, status, message, sessionResponse{Token: token, ExpiresAt: expiresAt, User: user})
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	level := slog.LevelInfo
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, "auth request failed",
		"error", err,
		"path", r.URL.Path,
		"request_id", requestcontext.RequestID(ctx),
	)
	httputil.WriteError(w, err)
}
