package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	jobmetrics "hireme/internal/jobs/metrics"
	"hireme/internal/jobs/models"
	"hireme/internal/platform/metrics"
	id "hireme/pkg/domain"
	dErrors "hireme/pkg/domain-errors"
	"hireme/pkg/platform/pagination"
	"hireme/pkg/platform/sentinel"
	"hireme/pkg/requestcontext"
)

const (
	DefaultFeaturedLimit = 6
	MaxFeaturedLimit     = 50
	RecentJobsLimit      = 5
)

// Store persists postings. Lookups return sentinel.ErrNotFound. Increments
// bypass model validation and must be safe under concurrent callers.
type Store interface {
	Create(ctx context.Context, j *models.Job) error
	FindByID(ctx context.Context, jobID id.JobID) (*models.Job, error)
	Execute(ctx context.Context, jobID id.JobID, fn func(*models.Job) error) (*models.Job, error)
	IncrementViews(ctx context.Context, jobID id.JobID) error
	IncrementApplications(ctx context.Context, jobID id.JobID) error
	Search(ctx context.Context, filter models.SearchFilter, page pagination.Params, order pagination.Sort) (models.Page, error)
	ListByEmployer(ctx context.Context, employerID id.UserID, status models.StatusFilter, page pagination.Params, order pagination.Sort) (models.Page, error)
	ListFeatured(ctx context.Context, limit int) ([]*models.Job, error)
	EmployerSummary(ctx context.Context, employerID id.UserID) (models.EmployerSummary, error)
}

// Service is the job catalog: posting lifecycle, search and counters.
type Service struct {
	store    Store
	logger   *slog.Logger
	metrics  *jobmetrics.Metrics
	counters *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *jobmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithCounterMetrics records failed view increments.
func WithCounterMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.counters = m
	}
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Search returns one page of active jobs. Sorting by relevance needs a query.
func (s *Service) Search(ctx context.Context, filter models.SearchFilter, page pagination.Params, order pagination.Sort) (models.Page, error) {
	if order.Field == models.SortRelevance && len(filter.Terms()) == 0 {
		return models.Page{}, dErrors.NewValidation("invalid sort field",
			dErrors.FieldError{Field: "sortBy", Message: "relevance sorting requires a search query"})
	}
	start := time.Now()
	result, err := s.store.Search(ctx, filter, page, order)
	if err != nil {
		return models.Page{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to search jobs")
	}
	s.metrics.ObserveSearch(start, result.Total)
	return result, nil
}

// Get returns an active posting and counts the view unless viewerID owns it.
// A failed view increment is logged and never fails the read.
func (s *Service) Get(ctx context.Context, jobID id.JobID, viewerID id.UserID) (*models.Job, error) {
	job, err := s.store.FindByID(ctx, jobID)
	if err != nil {
		return nil, wrapJobErr(err)
	}
	if !job.IsActive {
		return nil, dErrors.New(dErrors.CodeNotFound, "Job not found or no longer available")
	}
	if !viewerID.IsNil() && job.OwnedBy(viewerID) {
		return job, nil
	}
	if err := s.store.IncrementViews(ctx, jobID); err != nil {
		s.counters.IncrementCounterFailures("views")
		s.logger.WarnContext(ctx, "failed to increment job views",
			"job_id", jobID,
			"error", err,
		)
		return job, nil
	}
	job.ViewsCount++
	return job, nil
}

// FindByID returns a posting regardless of its state; the application
// tracker applies its own rules on top.
func (s *Service) FindByID(ctx context.Context, jobID id.JobID) (*models.Job, error) {
	job, err := s.store.FindByID(ctx, jobID)
	if err != nil {
		return nil, wrapJobErr(err)
	}
	return job, nil
}

func (s *Service) Create(ctx context.Context, employerID id.UserID, fields models.Fields) (*models.Job, error) {
	job, err := models.NewJob(id.NewJobID(), employerID, fields, requestcontext.Now(ctx))
	if err != nil {
		return nil, wrapJobErr(err)
	}
	if err := s.store.Create(ctx, job); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create job")
	}

	s.metrics.IncrementJobsCreated()
	s.logger.InfoContext(ctx, "job_created",
		"log_type", "audit",
		"job_id", job.ID,
		"employer_id", employerID,
		"request_id", requestcontext.RequestID(ctx),
	)
	return job, nil
}

// Update applies patch when employerID owns the posting.
func (s *Service) Update(ctx context.Context, jobID id.JobID, employerID id.UserID, patch models.Patch) (*models.Job, error) {
	now := requestcontext.Now(ctx)
	job, err := s.store.Execute(ctx, jobID, func(j *models.Job) error {
		if !j.OwnedBy(employerID) {
			return dErrors.New(dErrors.CodeForbidden, "Access denied. You can only update your own jobs.")
		}
		return j.ApplyPatch(patch, now)
	})
	if err != nil {
		return nil, wrapJobErr(err)
	}
	s.logger.InfoContext(ctx, "job updated", "job_id", jobID, "employer_id", employerID)
	return job, nil
}

// Delete soft-deletes the posting. Applications to it are left as they are.
func (s *Service) Delete(ctx context.Context, jobID id.JobID, employerID id.UserID) error {
	now := requestcontext.Now(ctx)
	_, err := s.store.Execute(ctx, jobID, func(j *models.Job) error {
		if !j.OwnedBy(employerID) {
			return dErrors.New(dErrors.CodeForbidden, "Access denied. You can only delete your own jobs.")
		}
		j.Deactivate(now)
		return nil
	})
	if err != nil {
		return wrapJobErr(err)
	}
	s.metrics.IncrementJobsDeactivated()
	s.logger.InfoContext(ctx, "job_deactivated",
		"log_type", "audit",
		"job_id", jobID,
		"employer_id", employerID,
	)
	return nil
}

func (s *Service) IncrementViews(ctx context.Context, jobID id.JobID) error {
	if err := s.store.IncrementViews(ctx, jobID); err != nil {
		return wrapJobErr(err)
	}
	return nil
}

func (s *Service) IncrementApplications(ctx context.Context, jobID id.JobID) error {
	if err := s.store.IncrementApplications(ctx, jobID); err != nil {
		return wrapJobErr(err)
	}
	return nil
}

func (s *Service) ListByEmployer(ctx context.Context, employerID id.UserID, status models.StatusFilter, page pagination.Params, order pagination.Sort) (models.Page, error) {
	if status == "" {
		status = models.StatusAll
	}
	if !status.IsValid() {
		return models.Page{}, dErrors.NewValidation("invalid status filter",
			dErrors.FieldError{Field: "status", Message: "status must be one of all, active, inactive"})
	}
	if order.Field == models.SortRelevance {
		order = pagination.NewestFirst
	}
	result, err := s.store.ListByEmployer(ctx, employerID, status, page, order)
	if err != nil {
		return models.Page{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list employer jobs")
	}
	return result, nil
}

// ListFeatured returns active featured postings, newest first. A non-positive
// limit takes the default.
func (s *Service) ListFeatured(ctx context.Context, limit int) ([]*models.Job, error) {
	if limit <= 0 {
		limit = DefaultFeaturedLimit
	}
	limit = min(limit, MaxFeaturedLimit)
	jobs, err := s.store.ListFeatured(ctx, limit)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list featured jobs")
	}
	return jobs, nil
}

// EmployerStats is an employer's posting dashboard.
type EmployerStats struct {
	models.EmployerSummary
	RecentJobs []*models.Job `json:"recentJobs"`
}

func (s *Service) EmployerJobStats(ctx context.Context, employerID id.UserID) (*EmployerStats, error) {
	summary, err := s.store.EmployerSummary(ctx, employerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load job statistics")
	}
	recent, err := s.store.ListByEmployer(ctx, employerID, models.StatusActive,
		pagination.Params{Page: 1, Limit: RecentJobsLimit}, pagination.NewestFirst)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load recent jobs")
	}
	return &EmployerStats{EmployerSummary: summary, RecentJobs: recent.Jobs}, nil
}

// EmployerSummary exposes the raw counts for the statistics aggregator.
func (s *Service) EmployerSummary(ctx context.Context, employerID id.UserID) (models.EmployerSummary, error) {
	summary, err := s.store.EmployerSummary(ctx, employerID)
	if err != nil {
		return models.EmployerSummary{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load job statistics")
	}
	return summary, nil
}

func wrapJobErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "Job not found")
	case dErrors.HasCode(err, dErrors.CodeInvariantViolation):
		de, _ := dErrors.As(err)
		return dErrors.NewValidation(de.Message, de.Fields...)
	}
	if _, ok := dErrors.As(err); ok {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "job store failure")
}
