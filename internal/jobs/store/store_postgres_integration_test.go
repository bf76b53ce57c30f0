//go:build integration

package store_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"hireme/internal/jobs/models"
	"hireme/internal/jobs/store"
	usermodels "hireme/internal/users/models"
	userstore "hireme/internal/users/store"
	id "hireme/pkg/domain"
	"hireme/pkg/platform/pagination"
	"hireme/pkg/platform/sentinel"
	"hireme/pkg/testutil/containers"
)

type PostgresJobStoreSuite struct {
	suite.Suite
	ctx      context.Context
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
	employer id.UserID
	now      time.Time
}

func TestPostgresJobStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresJobStoreSuite))
}

func (s *PostgresJobStoreSuite) SetupSuite() {
	s.ctx = context.Background()
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresJobStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(s.ctx, "applications", "jobs", "users"))
	s.now = time.Now().UTC().Truncate(time.Microsecond)

	employer, err := usermodels.NewUser(id.NewUserID(), "Acme Hiring", "hr@acme.test", "hash",
		id.RoleEmployer, usermodels.Profile{Company: "Acme"}, s.now)
	s.Require().NoError(err)
	s.Require().NoError(userstore.NewPostgres(s.postgres.DB).Create(s.ctx, employer))
	s.employer = employer.ID
}

func (s *PostgresJobStoreSuite) seed(title string, mode models.WorkMode, offset time.Duration, mutate ...func(*models.Fields)) *models.Job {
	f := models.Fields{
		Title:       title,
		Description: "Work on " + title,
		Company:     "Acme",
		Location:    "Berlin, Germany",
		WorkMode:    mode,
	}
	for _, m := range mutate {
		m(&f)
	}
	j, err := models.NewJob(id.NewJobID(), s.employer, f, s.now.Add(offset))
	s.Require().NoError(err)
	s.Require().NoError(s.store.Create(s.ctx, j))
	return j
}

func (s *PostgresJobStoreSuite) TestRoundTrip() {
	minSalary, maxSalary, maxExp := 80000.0, 120000.0, 5
	deadline := s.now.Add(72 * time.Hour)
	j := s.seed("Go Developer", models.WorkModeHybrid, 0, func(f *models.Fields) {
		f.Salary = &models.Salary{Min: &minSalary, Max: &maxSalary}
		f.Requirements = models.Requirements{
			Experience: models.ExperienceRange{Min: 2, Max: &maxExp},
			Education:  models.EducationBachelor,
			Skills:     []string{"Go", "SQL"},
		}
		f.Tags = []string{"Go", "Backend"}
		f.ApplicationDeadline = &deadline
	})

	found, err := s.store.FindByID(s.ctx, j.ID)
	s.Require().NoError(err)
	s.Equal(j.EmployerID, found.EmployerID)
	s.Require().NotNil(found.Salary)
	s.Equal(120000.0, *found.Salary.Max)
	s.Equal(id.CurrencyUSD, found.Salary.Currency)
	s.Equal(5, *found.Requirements.Experience.Max)
	s.Equal([]string{"go", "backend"}, found.Tags)
	s.True(deadline.Equal(*found.ApplicationDeadline))

	_, err = s.store.FindByID(s.ctx, id.NewJobID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresJobStoreSuite) TestSearch() {
	for i := range 3 {
		s.seed("Remote Go Engineer", models.WorkModeRemote, time.Duration(i)*time.Minute, func(f *models.Fields) {
			f.Tags = []string{"go"}
		})
	}
	s.seed("Office Chef", models.WorkModeOnSite, 10*time.Minute)
	s.seed("Office Barista", models.WorkModeOnSite, 11*time.Minute)

	s.Run("work mode filter with pagination", func() {
		page, err := s.store.Search(s.ctx, models.SearchFilter{WorkMode: models.WorkModeRemote},
			pagination.Params{Page: 1, Limit: 2}, pagination.NewestFirst)
		s.Require().NoError(err)
		s.Equal(3, page.Total)
		s.Len(page.Jobs, 2)
	})

	s.Run("full text query", func() {
		page, err := s.store.Search(s.ctx, models.SearchFilter{Query: "chef"},
			pagination.Params{Page: 1, Limit: 10}, pagination.Sort{Field: models.SortRelevance, Desc: true})
		s.Require().NoError(err)
		s.Require().Equal(1, page.Total)
		s.Equal("Office Chef", page.Jobs[0].Title)
	})

	s.Run("tags and location", func() {
		page, err := s.store.Search(s.ctx, models.SearchFilter{Tags: []string{"GO"}, Location: "berlin"},
			pagination.Params{Page: 1, Limit: 10}, pagination.NewestFirst)
		s.Require().NoError(err)
		s.Equal(3, page.Total)
	})
}

func (s *PostgresJobStoreSuite) TestExecuteAndCounters() {
	j := s.seed("Go Developer", models.WorkModeRemote, 0)

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.NoError(s.store.IncrementApplications(s.ctx, j.ID))
		}()
	}
	wg.Wait()

	title := "Senior Go Developer"
	updated, err := s.store.Execute(s.ctx, j.ID, func(j *models.Job) error {
		return j.ApplyPatch(models.Patch{Title: &title}, s.now.Add(time.Minute))
	})
	s.Require().NoError(err)
	s.Equal(title, updated.Title)
	s.Equal(20, updated.ApplicationsCount)

	sum, err := s.store.EmployerSummary(s.ctx, s.employer)
	s.Require().NoError(err)
	s.Equal(1, sum.ActiveJobs)
	s.Equal(20, sum.TotalApplications)
}
