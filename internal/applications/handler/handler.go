package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hireme/internal/applications/models"
	"hireme/internal/applications/service"
	jobmodels "hireme/internal/jobs/models"
	id "hireme/pkg/domain"
	dErrors "hireme/pkg/domain-errors"
	"hireme/pkg/platform/httputil"
	"hireme/pkg/platform/middleware/auth"
	"hireme/pkg/platform/pagination"
	"hireme/pkg/requestcontext"
)

// Service is the application tracker as seen by the transport layer.
type Service interface {
	Apply(ctx context.Context, applicantID id.UserID, jobID id.JobID, sub models.Submission) (*models.Application, error)
	UpdateStatus(ctx context.Context, appID id.ApplicationID, employerID id.UserID, status models.Status, notes string) (*models.Application, error)
	Withdraw(ctx context.Context, appID id.ApplicationID, applicantID id.UserID) error
	Get(ctx context.Context, appID id.ApplicationID, callerID id.UserID) (*models.Application, error)
	ListForJob(ctx context.Context, jobID id.JobID, employerID id.UserID, q models.ListQuery) (*service.JobApplications, error)
	ListByApplicant(ctx context.Context, applicantID id.UserID, q models.ListQuery) (models.Page, error)
	Statistics(ctx context.Context, employerID id.UserID) (models.Statistics, error)
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
	r.Group(func(r chi.Router) {
		r.Use(h.guard.Required(), h.guard.Role(id.RoleJobSeeker))
		r.Post("/applications", h.handleApply)
		r.Get("/applications/user", h.handleMine)
		r.Delete("/applications/{id}/withdraw", h.handleWithdraw)
	})

	r.Group(func(r chi.Router) {
		r.Use(h.guard.Required(), h.guard.Role(id.RoleEmployer))
		r.Get("/applications/job/{jobId}", h.handleForJob)
		r.Put("/applications/{id}/status", h.handleUpdateStatus)
		r.Get("/applications/employer/stats", h.handleStatistics)
	})

	r.Group(func(r chi.Router) {
		r.Use(h.guard.Required())
		r.Get("/applications/{id}", h.handleGet)
	})
}

type applicationResponse struct {
	Application *models.Application `json:"application"`
}

type applicationListResponse struct {
	Job          *jobmodels.Summary    `json:"job,omitempty"`
	Applications []*models.Application `json:"applications"`
	Pagination   pagination.Meta       `json:"pagination"`
}

func (h *Handler) handleApply(w http.ResponseWriter, r *http.Request) {
	var req ApplyRequest
	if err := httputil.DecodeAndPrepare(w, r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	app, err := h.service.Apply(r.Context(), requestcontext.UserID(r.Context()), req.jobID, req.toSubmission())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusCreated, "Application submitted successfully", applicationResponse{Application: app})
}

func (h *Handler) handleMine(w http.ResponseWriter, r *http.Request) {
	q, err := parseListQuery(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.ListByApplicant(r.Context(), requestcontext.UserID(r.Context()), q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Applications retrieved successfully", applicationListResponse{
		Applications: nonNil(result.Applications),
		Pagination:   pagination.NewMeta(q.Page, result.Total),
	})
}

func (h *Handler) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	appID, err := id.ParseApplicationID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.Withdraw(r.Context(), appID, requestcontext.UserID(r.Context())); err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Application withdrawn successfully", nil)
}

func (h *Handler) handleForJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := id.ParseJobID(chi.URLParam(r, "jobId"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	q, err := parseListQuery(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.ListForJob(r.Context(), jobID, requestcontext.UserID(r.Context()), q)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Job applications retrieved successfully", applicationListResponse{
		Job:          &result.Job,
		Applications: nonNil(result.Applications),
		Pagination:   pagination.NewMeta(q.Page, result.Total),
	})
}

func (h *Handler) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	appID, err := id.ParseApplicationID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req UpdateStatusRequest
	if err := httputil.DecodeAndPrepare(w, r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	app, err := h.service.UpdateStatus(r.Context(), appID, requestcontext.UserID(r.Context()), models.Status(req.Status), req.Notes)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Application status updated successfully", applicationResponse{Application: app})
}

func (h *Handler) handleStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Statistics(r.Context(), requestcontext.UserID(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Application statistics retrieved successfully", stats)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	appID, err := id.ParseApplicationID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	app, err := h.service.Get(r.Context(), appID, requestcontext.UserID(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Application retrieved successfully", applicationResponse{Application: app})
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	level := slog.LevelInfo
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, "application request failed",
		"error", err,
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", requestcontext.RequestID(ctx),
	)
	httputil.WriteError(w, err)
}

func nonNil(apps []*models.Application) []*models.Application {
	if apps == nil {
		return []*models.Application{}
	}
	return apps
}
