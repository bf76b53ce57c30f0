package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"hireme/internal/jobs/models"
	"hireme/internal/jobs/service"
	id "hireme/pkg/domain"
	dErrors "hireme/pkg/domain-errors"
	"hireme/pkg/platform/httputil"
	"hireme/pkg/platform/middleware/auth"
	"hireme/pkg/platform/pagination"
	"hireme/pkg/requestcontext"
)

// Service is the job catalog as seen by the transport layer.
type Service interface {
	Search(ctx context.Context, filter models.SearchFilter, page pagination.Params, order pagination.Sort) (models.Page, error)
	Get(ctx context.Context, jobID id.JobID, viewerID id.UserID) (*models.Job, error)
	Create(ctx context.Context, employerID id.UserID, fields models.Fields) (*models.Job, error)
	Update(ctx context.Context, jobID id.JobID, employerID id.UserID, patch models.Patch) (*models.Job, error)
	Delete(ctx context.Context, jobID id.JobID, employerID id.UserID) error
	ListByEmployer(ctx context.Context, employerID id.UserID, status models.StatusFilter, page pagination.Params, order pagination.Sort) (models.Page, error)
	ListFeatured(ctx context.Context, limit int) ([]*models.Job, error)
	EmployerJobStats(ctx context.Context, employerID id.UserID) (*service.EmployerStats, error)
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
	r.Get("/jobs/featured", h.handleFeatured)

	r.Group(func(r chi.Router) {
		r.Use(h.guard.Optional())
		r.Get("/jobs", h.handleSearch)
		r.Get("/jobs/{id}", h.handleGet)
	})

	r.Group(func(r chi.Router) {
		r.Use(h.guard.Required(), h.guard.Role(id.RoleEmployer))
		r.Post("/jobs", h.handleCreate)
		r.Put("/jobs/{id}", h.handleUpdate)
		r.Delete("/jobs/{id}", h.handleDelete)
		r.Get("/jobs/employer/my-jobs", h.handleEmployerJobs)
		r.Get("/jobs/employer/stats", h.handleEmployerStats)
	})
}

type jobResponse struct {
	Job *models.Job `json:"job"`
}

type jobListResponse struct {
	Jobs       []*models.Job    `json:"jobs"`
	Pagination *pagination.Meta `json:"pagination,omitempty"`
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	q, err := parseSearchQuery(r.URL.Query())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.Search(r.Context(), q.filter, q.page, q.sort)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	meta := pagination.NewMeta(q.page, result.Total)
	httputil.WriteSuccess(w, http.StatusOK, "Jobs retrieved successfully", jobListResponse{
		Jobs:       nonNil(result.Jobs),
		Pagination: &meta,
	})
}

func (h *Handler) handleFeatured(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			httputil.WriteError(w, dErrors.NewValidation("Validation failed",
				dErrors.FieldError{Field: "limit", Message: "limit must be a positive integer"}))
			return
		}
		limit = n
	}

	jobs, err := h.service.ListFeatured(r.Context(), limit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Featured jobs retrieved successfully", jobListResponse{Jobs: nonNil(jobs)})
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	jobID, err := id.ParseJobID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	job, err := h.service.Get(r.Context(), jobID, requestcontext.UserID(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Job retrieved successfully", jobResponse{Job: job})
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateJobRequest
	if err := httputil.DecodeAndPrepare(w, r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	job, err := h.service.Create(r.Context(), requestcontext.UserID(r.Context()), req.toFields())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusCreated, "Job created successfully", jobResponse{Job: job})
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	jobID, err := id.ParseJobID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req UpdateJobRequest
	if err := httputil.DecodeAndPrepare(w, r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	job, err := h.service.Update(r.Context(), jobID, requestcontext.UserID(r.Context()), req.toPatch())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Job updated successfully", jobResponse{Job: job})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	jobID, err := id.ParseJobID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), jobID, requestcontext.UserID(r.Context())); err != nil {
		h.writeError(w, r, err)
		return
	}
	httputil.WriteSuccess(w, http.StatusOK, "Job deleted successfully", nil)
}

func (h *Handler) handleEmployerJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := pagination.Parse(q)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	sort, err := pagination.ParseSort(q.Get("sortBy"), models.SortFields, pagination.NewestFirst)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	status := models.StatusFilter(strings.TrimSpace(q.Get("status")))

	result, err := h.service.ListByEmployer(r.Context(), requestcontext.UserID(r.Context()), status, page, sort)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	meta := pagination.NewMeta(page, result.Total)
	httputil.WriteSuccess(w, http.StatusOK, "Employer jobs retrieved successfully", jobListResponse{
		Jobs:       nonNil(result.Jobs),
		Pagination: &meta,
	})
}

func (h *Handler) handleEmployerStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.EmployerJobStats(r.Context(), requestcontext.UserID(r.Context()))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	stats.RecentJobs = nonNil(stats.RecentJobs)
	httputil.WriteSuccess(w, http.StatusOK, "Job statistics retrieved successfully", stats)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	level := slog.LevelInfo
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		level = slog.LevelError
	}
	h.logger.Log(ctx, level, "job request failed",
		"error", err,
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", requestcontext.RequestID(ctx),
	)
	httputil.WriteError(w, err)
}

func nonNil(jobs []*models.Job) []*models.Job {
	if jobs == nil {
		return []*models.Job{}
	}
	return jobs
}
