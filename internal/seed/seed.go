package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	appmodels "hireme/internal/applications/models"
	jobmodels "hireme/internal/jobs/models"
	usermodels "hireme/internal/users/models"
	userservice "hireme/internal/users/service"
	id "hireme/pkg/domain"
	dErrors "hireme/pkg/domain-errors"
)

type Users interface {
	Register(ctx context.Context, in userservice.RegisterInput) (*usermodels.User, error)
	Authenticate(ctx context.Context, email, password string) (*usermodels.User, error)
}

type Jobs interface {
	Create(ctx context.Context, employerID id.UserID, fields jobmodels.Fields) (*jobmodels.Job, error)
}

type Applications interface {
	Apply(ctx context.Context, applicantID id.UserID, jobID id.JobID, sub appmodels.Submission) (*appmodels.Application, error)
	UpdateStatus(ctx context.Context, appID id.ApplicationID, employerID id.UserID, status appmodels.Status, notes string) (*appmodels.Application, error)
}

// Summary counts what a run created. Accounts that already existed are
// reused and counted separately.
type Summary struct {
	UsersCreated        int
	UsersReused         int
	JobsCreated         int
	ApplicationsCreated int
	ApplicationsSkipped int
}

type Seeder struct {
	users  Users
	jobs   Jobs
	apps   Applications
	logger *slog.Logger
}

func New(users Users, jobs Jobs, apps Applications, logger *slog.Logger) *Seeder {
	return &Seeder{users: users, jobs: jobs, apps: apps, logger: logger}
}

// Run replays f. Users are upserted by email; postings are always created,
// so running twice duplicates them. Duplicate applications are skipped.
func (s *Seeder) Run(ctx context.Context, f *File) (Summary, error) {
	var sum Summary

	accounts := make(map[string]*usermodels.User, len(f.Users))
	var employers []*usermodels.User
	for _, u := range f.Users {
		user, created, err := s.ensureUser(ctx, u)
		if err != nil {
			return sum, fmt.Errorf("seed user %s: %w", u.Email, err)
		}
		if created {
			sum.UsersCreated++
		} else {
			sum.UsersReused++
		}
		accounts[u.Email] = user
		if user.IsEmployer() {
			employers = append(employers, user)
		}
	}

	jobs := make([]*jobmodels.Job, 0, len(f.Jobs))
	for i, j := range f.Jobs {
		var owner *usermodels.User
		switch {
		case j.Employer != "":
			owner = accounts[j.Employer]
		case len(employers) > 0:
			owner = employers[i%len(employers)]
		default:
			return sum, fmt.Errorf("seed job %q: no employer accounts to own it", j.Title)
		}
		job, err := s.jobs.Create(ctx, owner.ID, j.fields())
		if err != nil {
			return sum, fmt.Errorf("seed job %q: %w", j.Title, err)
		}
		s.logger.Info("seeded job", "title", job.Title, "employer", owner.Email)
		jobs = append(jobs, job)
		sum.JobsCreated++
	}

	for _, a := range f.Applications {
		job := jobs[a.Job]
		applicant := accounts[a.Applicant]
		app, err := s.apps.Apply(ctx, applicant.ID, job.ID, a.submission())
		if dErrors.HasCode(err, dErrors.CodeConflict) {
			sum.ApplicationsSkipped++
			continue
		}
		if err != nil {
			return sum, fmt.Errorf("seed application %s -> %q: %w", a.Applicant, job.Title, err)
		}
		if a.Status != "" && appmodels.Status(a.Status) != appmodels.StatusPending {
			if _, err := s.apps.UpdateStatus(ctx, app.ID, job.EmployerID, appmodels.Status(a.Status), ""); err != nil {
				return sum, fmt.Errorf("seed application status %s: %w", a.Status, err)
			}
		}
		sum.ApplicationsCreated++
	}
	return sum, nil
}

func (s *Seeder) ensureUser(ctx context.Context, u User) (*usermodels.User, bool, error) {
	role := id.Role(u.Role)
	if role == "" {
		role = id.RoleJobSeeker
	}
	user, err := s.users.Register(ctx, userservice.RegisterInput{
		Name:     u.Name,
		Email:    u.Email,
		Password: u.Password,
		Role:     role,
		Profile: usermodels.Profile{
			Phone:    u.Phone,
			Location: u.Location,
			Bio:      u.Bio,
			Skills:   u.Skills,
			Company:  u.Company,
			Website:  u.Website,
		},
	})
	if err == nil {
		s.logger.Info("seeded user", "email", user.Email, "role", user.Role)
		return user, true, nil
	}
	if !dErrors.HasCode(err, dErrors.CodeConflict) {
		return nil, false, err
	}
	// already registered; the seed password must still match
	user, err = s.users.Authenticate(ctx, u.Email, u.Password)
	if err != nil {
		return nil, false, err
	}
	return user, false, nil
}

func (j Job) fields() jobmodels.Fields {
	f := jobmodels.Fields{
		Title:       j.Title,
		Description: strings.TrimSpace(j.Description),
		Company:     j.Company,
		Location:    j.Location,
		JobType:     jobmodels.JobType(j.JobType),
		WorkMode:    jobmodels.WorkMode(j.WorkMode),
		Requirements: jobmodels.Requirements{
			Experience: jobmodels.ExperienceRange{Min: j.Requirements.Experience.Min, Max: j.Requirements.Experience.Max},
			Education:  jobmodels.Education(j.Requirements.Education),
			Skills:     j.Requirements.Skills,
		},
		Benefits:   j.Benefits,
		Tags:       j.Tags,
		IsFeatured: j.Featured,
	}
	if j.Salary != nil {
		f.Salary = &jobmodels.Salary{
			Min:      j.Salary.Min,
			Max:      j.Salary.Max,
			Currency: id.Currency(j.Salary.Currency),
			Period:   id.PayPeriod(j.Salary.Period),
		}
	}
	return f
}

func (a Application) submission() appmodels.Submission {
	sub := appmodels.Submission{CoverLetter: strings.TrimSpace(a.CoverLetter)}
	if es := a.ExpectedSalary; es != nil {
		sub.ExpectedSalary = &appmodels.ExpectedSalary{
			Amount:   es.Amount,
			Currency: id.Currency(es.Currency),
			Period:   id.PayPeriod(es.Period),
		}
	}
	return sub
}
