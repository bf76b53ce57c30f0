package service

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	appmodels "hireme/internal/applications/models"
	jobmodels "hireme/internal/jobs/models"
	usermodels "hireme/internal/users/models"
	id "hireme/pkg/domain"
)

const statsTimeout = 5 * time.Second

type JobCounter interface {
	EmployerSummary(ctx context.Context, employerID id.UserID) (jobmodels.EmployerSummary, error)
}

type ApplicationCounter interface {
	CountForEmployer(ctx context.Context, employerID id.UserID) (int, error)
	CountForApplicant(ctx context.Context, applicantID id.UserID, status appmodels.Status) (int, error)
}

type ProfileReader interface {
	GetProfile(ctx context.Context, userID id.UserID) (*usermodels.User, error)
}

type EmployerStats struct {
	TotalJobs         int `json:"totalJobs"`
	ActiveJobs        int `json:"activeJobs"`
	TotalApplications int `json:"totalApplications"`
}

type SeekerStats struct {
	TotalApplications              int `json:"totalApplications"`
	PendingApplications            int `json:"pendingApplications"`
	InterviewScheduledApplications int `json:"interviewScheduledApplications"`
}

// Dashboard is the account overview. Exactly one of Employer and JobSeeker
// is set, depending on the account's role.
type Dashboard struct {
	Profile    *usermodels.User `json:"profile"`
	JoinedDate time.Time        `json:"joinedDate"`
	LastLogin  *time.Time       `json:"lastLogin,omitempty"`
	Employer   *EmployerStats   `json:"employer,omitempty"`
	JobSeeker  *SeekerStats     `json:"jobseeker,omitempty"`
}

// Service composes live counts from the catalog and the tracker. Nothing is
// cached; every call reads the stores.
type Service struct {
	jobs     JobCounter
	apps     ApplicationCounter
	profiles ProfileReader
}

func New(jobs JobCounter, apps ApplicationCounter, profiles ProfileReader) *Service {
	return &Service{jobs: jobs, apps: apps, profiles: profiles}
}

func (s *Service) ForEmployer(ctx context.Context, employerID id.UserID) (*EmployerStats, error) {
	ctx, cancel := context.WithTimeout(ctx, statsTimeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	var stats EmployerStats

	g.Go(func() error {
		summary, err := s.jobs.EmployerSummary(ctx, employerID)
		if err != nil {
			return err
		}
		stats.TotalJobs = summary.TotalJobs
		stats.ActiveJobs = summary.ActiveJobs
		return nil
	})
	g.Go(func() error {
		n, err := s.apps.CountForEmployer(ctx, employerID)
		if err != nil {
			return err
		}
		stats.TotalApplications = n
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (s *Service) ForSeeker(ctx context.Context, seekerID id.UserID) (*SeekerStats, error) {
	ctx, cancel := context.WithTimeout(ctx, statsTimeout)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	var stats SeekerStats

	count := func(status appmodels.Status, dst *int) {
		g.Go(func() error {
			n, err := s.apps.CountForApplicant(ctx, seekerID, status)
			if err != nil {
				return err
			}
			*dst = n
			return nil
		})
	}
	count("", &stats.TotalApplications)
	count(appmodels.StatusPending, &stats.PendingApplications)
	count(appmodels.StatusInterviewScheduled, &stats.InterviewScheduledApplications)

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Dashboard loads the caller's profile and the role-specific counts.
func (s *Service) Dashboard(ctx context.Context, userID id.UserID) (*Dashboard, error) {
	user, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	d := &Dashboard{Profile: user, JoinedDate: user.CreatedAt, LastLogin: user.LastLogin}

	if user.IsEmployer() {
		d.Employer, err = s.ForEmployer(ctx, userID)
	} else {
		d.JobSeeker, err = s.ForSeeker(ctx, userID)
	}
	if err != nil {
		return nil, err
	}
	return d, nil
}
