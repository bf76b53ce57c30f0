package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hireme/internal/stats/service"
	id "hireme/pkg/domain"
	dErrors "hireme/pkg/domain-errors"
	"hireme/pkg/platform/httputil"
	"hireme/pkg/platform/middleware/auth"
	"hireme/pkg/requestcontext"
)

type Service interface {
	Dashboard(ctx context.Context, userID id.UserID) (*service.Dashboard, error)
}

type Handler struct {
	service Service
	guard   *auth.Guard
	logger  *slog.Logger
}

func New(svc Service, guard *auth.Guard, logger *slog.Logger) *Handler {
	return &Handler{service: svc, guard: guard, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.With(h.guard.Required()).Get("/auth/stats", h.handleDashboard)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	d, err := h.service.Dashboard(ctx, requestcontext.UserID(ctx))
	if err != nil {
		level := slog.LevelInfo
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			level = slog.LevelError
		}
		h.logger.Log(ctx, level, "stats request failed",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "User statistics retrieved successfully", d)
}
