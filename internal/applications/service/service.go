package service

import (
	"context"
	"errors"
	"log/slog"

	appmetrics "hireme/internal/applications/metrics"
	"hireme/internal/applications/models"
	jobmodels "hireme/internal/jobs/models"
	"hireme/internal/platform/metrics"
	usermodels "hireme/internal/users/models"
	id "hireme/pkg/domain"
	dErrors "hireme/pkg/domain-errors"
	"hireme/pkg/platform/sentinel"
	"hireme/pkg/requestcontext"
)

// Store persists applications. Create returns sentinel.ErrAlreadyUsed when
// the (job, applicant) pair exists, and must decide that atomically.
type Store interface {
	Create(ctx context.Context, a *models.Application) error
	FindByID(ctx context.Context, appID id.ApplicationID) (*models.Application, error)
	Execute(ctx context.Context, appID id.ApplicationID, fn func(*models.Application) error) (*models.Application, error)
	ListByJob(ctx context.Context, jobID id.JobID, q models.ListQuery) (models.Page, error)
	ListByApplicant(ctx context.Context, applicantID id.UserID, q models.ListQuery) (models.Page, error)
	StatusCounts(ctx context.Context, employerID id.UserID) (map[models.Status]int, error)
	CountByEmployer(ctx context.Context, employerID id.UserID) (int, error)
	CountByApplicant(ctx context.Context, applicantID id.UserID, status models.Status) (int, error)
}

// JobReader is the slice of the job catalog the tracker depends on.
type JobReader interface {
	FindByID(ctx context.Context, jobID id.JobID) (*jobmodels.Job, error)
	IncrementApplications(ctx context.Context, jobID id.JobID) error
}

// UserReader resolves applicants so their stored resume can be attached.
type UserReader interface {
	FindByID(ctx context.Context, userID id.UserID) (*usermodels.User, error)
}

// Service tracks applications from submission through review.
type Service struct {
	store    Store
	jobs     JobReader
	users    UserReader
	logger   *slog.Logger
	metrics  *appmetrics.Metrics
	counters *metrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *appmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithCounterMetrics records failed applicationsCount increments.
func WithCounterMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.counters = m
	}
}

// WithUsers enables copying the applicant's stored resume onto new applications.
func WithUsers(users UserReader) Option {
	return func(s *Service) {
		s.users = users
	}
}

func New(store Store, jobs JobReader, opts ...Option) *Service {
	s := &Service{store: store, jobs: jobs}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Apply submits an application and then bumps the job's applicationsCount.
// The bump is a follow-up step: its failure is logged and counted but the
// application stands.
func (s *Service) Apply(ctx context.Context, applicantID id.UserID, jobID id.JobID, sub models.Submission) (*models.Application, error) {
	now := requestcontext.Now(ctx)

	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !job.IsActive {
		return nil, dErrors.New(dErrors.CodeInvalidState, "This job is no longer accepting applications")
	}
	if job.IsExpired(now) {
		return nil, dErrors.New(dErrors.CodeInvalidState, "Application deadline has passed")
	}
	if job.OwnedBy(applicantID) {
		return nil, dErrors.New(dErrors.CodeForbidden, "You cannot apply to your own job")
	}

	app, err := models.NewApplication(id.NewApplicationID(), jobID, applicantID, job.EmployerID, sub, s.resumeOf(ctx, applicantID), now)
	if err != nil {
		return nil, wrapApplicationErr(err)
	}
	if err := s.store.Create(ctx, app); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			s.metrics.IncrementDuplicates()
			return nil, dErrors.New(dErrors.CodeConflict, "You have already applied to this job")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to submit application")
	}

	if err := s.jobs.IncrementApplications(ctx, jobID); err != nil {
		s.counters.IncrementCounterFailures("applications")
		s.logger.WarnContext(ctx, "failed to increment job applications count",
			"job_id", jobID,
			"application_id", app.ID,
			"error", err,
		)
	}

	s.metrics.IncrementSubmitted()
	s.logger.InfoContext(ctx, "application_submitted",
		"log_type", "audit",
		"application_id", app.ID,
		"job_id", jobID,
		"applicant_id", applicantID,
		"request_id", requestcontext.RequestID(ctx),
	)
	return app, nil
}

func (s *Service) resumeOf(ctx context.Context, applicantID id.UserID) string {
	if s.users == nil {
		return ""
	}
	user, err := s.users.FindByID(ctx, applicantID)
	if err != nil {
		s.logger.WarnContext(ctx, "resume lookup failed", "applicant_id", applicantID, "error", err)
		return ""
	}
	return user.Resume
}

// UpdateStatus records an employer review. Only the employer who owns the
// job may change the status.
func (s *Service) UpdateStatus(ctx context.Context, appID id.ApplicationID, employerID id.UserID, status models.Status, notes string) (*models.Application, error) {
	now := requestcontext.Now(ctx)
	app, err := s.store.Execute(ctx, appID, func(a *models.Application) error {
		if a.EmployerID != employerID {
			return dErrors.New(dErrors.CodeForbidden, "Access denied. You can only update applications for your jobs.")
		}
		return a.ApplyReview(status, employerID, notes, now)
	})
	if err != nil {
		return nil, wrapApplicationErr(err)
	}

	s.metrics.IncrementStatusUpdates(string(status))
	s.logger.InfoContext(ctx, "application_status_updated",
		"log_type", "audit",
		"application_id", appID,
		"employer_id", employerID,
		"status", status,
	)
	return app, nil
}

// Withdraw deactivates the applicant's own application while it is still
// pending or reviewed.
func (s *Service) Withdraw(ctx context.Context, appID id.ApplicationID, applicantID id.UserID) error {
	now := requestcontext.Now(ctx)
	_, err := s.store.Execute(ctx, appID, func(a *models.Application) error {
		if a.ApplicantID != applicantID {
			return dErrors.New(dErrors.CodeForbidden, "Access denied. You can only withdraw your own applications.")
		}
		return a.Withdraw(now)
	})
	if err != nil {
		return wrapApplicationErr(err)
	}

	s.metrics.IncrementWithdrawals()
	s.logger.InfoContext(ctx, "application_withdrawn",
		"log_type", "audit",
		"application_id", appID,
		"applicant_id", applicantID,
	)
	return nil
}

// Get returns an application to its applicant or the owning employer.
func (s *Service) Get(ctx context.Context, appID id.ApplicationID, callerID id.UserID) (*models.Application, error) {
	app, err := s.store.FindByID(ctx, appID)
	if err != nil {
		return nil, wrapApplicationErr(err)
	}
	if !app.VisibleTo(callerID) {
		return nil, dErrors.New(dErrors.CodeForbidden, "Access denied")
	}
	return app, nil
}

// JobApplications is one page of a job's applications plus the job itself.
type JobApplications struct {
	Job jobmodels.Summary
	models.Page
}

// ListForJob lists a job's active applications for the employer who owns it.
func (s *Service) ListForJob(ctx context.Context, jobID id.JobID, employerID id.UserID, q models.ListQuery) (*JobApplications, error) {
	job, err := s.jobs.FindByID(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !job.OwnedBy(employerID) {
		return nil, dErrors.New(dErrors.CodeForbidden, "Access denied. You can only view applications for your jobs.")
	}
	page, err := s.ListByJob(ctx, jobID, q)
	if err != nil {
		return nil, err
	}
	return &JobApplications{Job: job.Summary(), Page: page}, nil
}

func (s *Service) ListByJob(ctx context.Context, jobID id.JobID, q models.ListQuery) (models.Page, error) {
	page, err := s.store.ListByJob(ctx, jobID, q)
	if err != nil {
		return models.Page{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list applications")
	}
	return page, nil
}

func (s *Service) ListByApplicant(ctx context.Context, applicantID id.UserID, q models.ListQuery) (models.Page, error) {
	page, err := s.store.ListByApplicant(ctx, applicantID, q)
	if err != nil {
		return models.Page{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list applications")
	}
	return page, nil
}

// Statistics groups the employer's active applications by status.
func (s *Service) Statistics(ctx context.Context, employerID id.UserID) (models.Statistics, error) {
	counts, err := s.store.StatusCounts(ctx, employerID)
	if err != nil {
		return models.Statistics{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load application statistics")
	}
	return models.NewStatistics(counts), nil
}

// CountForEmployer counts active applications to the employer's jobs.
func (s *Service) CountForEmployer(ctx context.Context, employerID id.UserID) (int, error) {
	n, err := s.store.CountByEmployer(ctx, employerID)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count applications")
	}
	return n, nil
}

// CountForApplicant counts the applicant's active applications; an empty
// status counts all of them.
func (s *Service) CountForApplicant(ctx context.Context, applicantID id.UserID, status models.Status) (int, error) {
	n, err := s.store.CountByApplicant(ctx, applicantID, status)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count applications")
	}
	return n, nil
}

func wrapApplicationErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "Application not found")
	case dErrors.HasCode(err, dErrors.CodeInvariantViolation):
		de, _ := dErrors.As(err)
		return dErrors.NewValidation(de.Message, de.Fields...)
	}
	if _, ok := dErrors.As(err); ok {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "application store failure")
}
