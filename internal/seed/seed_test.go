package seed

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	appmodels "hireme/internal/applications/models"
	appservice "hireme/internal/applications/service"
	appstore "hireme/internal/applications/store"
	jobservice "hireme/internal/jobs/service"
	jobstore "hireme/internal/jobs/store"
	userservice "hireme/internal/users/service"
	userstore "hireme/internal/users/store"
	"hireme/pkg/requestcontext"
)

type SeedSuite struct {
	suite.Suite
	ctx    context.Context
	users  *userservice.Service
	jobs   *jobservice.Service
	apps   *appservice.Service
	seeder *Seeder
}

func TestSeedSuite(t *testing.T) {
	suite.Run(t, new(SeedSuite))
}

func (s *SeedSuite) SetupTest() {
	s.ctx = requestcontext.WithTime(context.Background(), time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.users = userservice.New(userstore.NewInMemoryUserStore(),
		userservice.WithLogger(logger), userservice.WithBcryptCost(bcrypt.MinCost))
	s.jobs = jobservice.New(jobstore.NewInMemoryJobStore(), jobservice.WithLogger(logger))
	s.apps = appservice.New(appstore.NewInMemoryApplicationStore(), s.jobs, appservice.WithLogger(logger))
	s.seeder = New(s.users, s.jobs, s.apps, logger)
}

func (s *SeedSuite) TestBundledFile() {
	f, err := Load(filepath.Join("..", "..", "cmd", "seed", "seed.yaml"))
	s.Require().NoError(err)

	sum, err := s.seeder.Run(s.ctx, f)
	s.Require().NoError(err)
	s.Equal(6, sum.UsersCreated)
	s.Equal(8, sum.JobsCreated)
	s.Equal(4, sum.ApplicationsCreated)

	seeker, err := s.users.Authenticate(s.ctx, "jobseeker@example.com", "password123")
	s.Require().NoError(err)
	page, err := s.apps.ListByApplicant(s.ctx, seeker.ID, appmodels.ListQuery{})
	s.Require().NoError(err)
	s.Equal(2, page.Total)
}

func (s *SeedSuite) TestRerunReusesAccountsAndSkipsApplications() {
	doc := []byte(`
users:
  - {name: Acme, email: hr@acme.test, password: secret123, role: employer, company: Acme}
  - {name: Pat, email: pat@example.com, password: secret123}
jobs:
  - {title: Go Developer, description: Write Go services, company: Acme, location: Remote}
applications:
  - applicant: pat@example.com
    job: 0
    coverLetter: I have written Go services for years and enjoy it a lot.
    status: shortlisted
`)
	f, err := Parse(doc)
	s.Require().NoError(err)

	first, err := s.seeder.Run(s.ctx, f)
	s.Require().NoError(err)
	s.Equal(Summary{UsersCreated: 2, JobsCreated: 1, ApplicationsCreated: 1}, first)

	second, err := s.seeder.Run(s.ctx, f)
	s.Require().NoError(err)
	s.Equal(2, second.UsersReused)
	s.Equal(0, second.UsersCreated)
	// a fresh posting is created, so the application goes through again
	s.Equal(1, second.ApplicationsCreated)
}

func (s *SeedSuite) TestParseRejectsBadReferences() {
	cases := map[string]string{
		"unknown employer": `
users: [{name: Pat, email: pat@example.com, password: secret123}]
jobs: [{employer: pat@example.com, title: T, description: D, company: C, location: L}]
`,
		"job index": `
users: [{name: Pat, email: pat@example.com, password: secret123}]
applications: [{applicant: pat@example.com, job: 2, coverLetter: hello}]
`,
		"unknown applicant": `
users: [{name: Acme, email: hr@acme.test, password: secret123, role: employer, company: Acme}]
jobs: [{title: T, description: D, company: C, location: L}]
applications: [{applicant: ghost@example.com, job: 0, coverLetter: hello}]
`,
		"malformed": "users: {",
	}
	for name, doc := range cases {
		s.Run(name, func() {
			_, err := Parse([]byte(doc))
			s.Error(err)
		})
	}
}

func (s *SeedSuite) TestLoadMissingFile() {
	_, err := Load(filepath.Join(os.TempDir(), "does-not-exist.yaml"))
	s.Error(err)
}
