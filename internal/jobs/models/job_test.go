package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "hireme/pkg/domain"
	dErrors "hireme/pkg/domain-errors"
	"hireme/pkg/platform/pagination"
)

var now = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

func validFields() Fields {
	return Fields{
		Title:       "  Backend Engineer ",
		Description: "Build APIs in Go",
		Company:     "Acme",
		Location:    "Berlin",
		Tags:        []string{" Go ", "SQL", "go"},
	}
}

func TestNewJob(t *testing.T) {
	t.Run("applies defaults and normalizes text", func(t *testing.T) {
		j, err := NewJob(id.NewJobID(), id.NewUserID(), validFields(), now)
		require.NoError(t, err)

		assert.Equal(t, "Backend Engineer", j.Title)
		assert.Equal(t, JobTypeFullTime, j.JobType)
		assert.Equal(t, WorkModeOnSite, j.WorkMode)
		assert.Equal(t, EducationNotSpecified, j.Requirements.Education)
		assert.Equal(t, []string{"go", "sql", "go"}, j.Tags)
		assert.True(t, j.IsActive)
		assert.Zero(t, j.ApplicationsCount)
		assert.Zero(t, j.ViewsCount)
		assert.Equal(t, now, j.CreatedAt)
	})

	t.Run("salary min above max is rejected", func(t *testing.T) {
		f := validFields()
		f.Salary = &Salary{Min: ptr(100.0), Max: ptr(50.0)}
		_, err := NewJob(id.NewJobID(), id.NewUserID(), f, now)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("salary defaults currency and period", func(t *testing.T) {
		f := validFields()
		f.Salary = &Salary{Min: ptr(50.0)}
		j, err := NewJob(id.NewJobID(), id.NewUserID(), f, now)
		require.NoError(t, err)
		assert.Equal(t, id.CurrencyUSD, j.Salary.Currency)
		assert.Equal(t, id.PayPeriodYearly, j.Salary.Period)
	})

	t.Run("deadline must be in the future", func(t *testing.T) {
		f := validFields()
		f.ApplicationDeadline = ptr(now)
		_, err := NewJob(id.NewJobID(), id.NewUserID(), f, now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("missing required text", func(t *testing.T) {
		f := validFields()
		f.Title = "   "
		_, err := NewJob(id.NewJobID(), id.NewUserID(), f, now)
		de, ok := dErrors.As(err)
		require.True(t, ok)
		assert.Equal(t, "title", de.Fields[0].Field)
	})

	t.Run("unknown enum values", func(t *testing.T) {
		f := validFields()
		f.WorkMode = "moon"
		_, err := NewJob(id.NewJobID(), id.NewUserID(), f, now)
		assert.Error(t, err)
	})
}

func TestApplyPatch(t *testing.T) {
	base := func(t *testing.T) *Job {
		f := validFields()
		f.Salary = &Salary{Min: ptr(80000.0), Max: ptr(120000.0)}
		j, err := NewJob(id.NewJobID(), id.NewUserID(), f, now)
		require.NoError(t, err)
		return j
	}
	later := now.Add(time.Hour)

	t.Run("only provided fields change", func(t *testing.T) {
		j := base(t)
		require.NoError(t, j.ApplyPatch(Patch{Location: ptr(" Remote ")}, later))
		assert.Equal(t, "Remote", j.Location)
		assert.Equal(t, "Backend Engineer", j.Title)
		assert.Equal(t, later, j.UpdatedAt)
		assert.Equal(t, now, j.CreatedAt)
	})

	t.Run("salary invariant is re-validated and job is untouched on failure", func(t *testing.T) {
		j := base(t)
		err := j.ApplyPatch(Patch{Salary: &Salary{Min: ptr(100.0), Max: ptr(50.0)}}, later)
		require.Error(t, err)
		assert.Equal(t, 80000.0, *j.Salary.Min)
		assert.Equal(t, now, j.UpdatedAt)
	})

	t.Run("clear salary", func(t *testing.T) {
		j := base(t)
		require.NoError(t, j.ApplyPatch(Patch{ClearSalary: true}, later))
		assert.Nil(t, j.Salary)
	})

	t.Run("new deadline must be in the future", func(t *testing.T) {
		j := base(t)
		err := j.ApplyPatch(Patch{ApplicationDeadline: ptr(now.Add(-time.Hour))}, later)
		assert.Error(t, err)
	})

	t.Run("reactivate", func(t *testing.T) {
		j := base(t)
		j.Deactivate(later)
		require.NoError(t, j.ApplyPatch(Patch{IsActive: ptr(true)}, later))
		assert.True(t, j.IsActive)
	})

	t.Run("empty patch", func(t *testing.T) {
		assert.True(t, Patch{}.IsEmpty())
		assert.False(t, Patch{ClearDeadline: true}.IsEmpty())
	})
}

func TestIsExpired(t *testing.T) {
	j := &Job{}
	assert.False(t, j.IsExpired(now))

	j.ApplicationDeadline = ptr(now.Add(-time.Second))
	assert.True(t, j.IsExpired(now))

	j.ApplicationDeadline = ptr(now)
	assert.False(t, j.IsExpired(now), "deadline equal to now is not yet past")
}

func TestDisplays(t *testing.T) {
	j := &Job{Salary: &Salary{Min: ptr(80000.0), Max: ptr(120000.0), Currency: id.CurrencyUSD, Period: id.PayPeriodYearly}}
	assert.Equal(t, "USD 80,000 - 120,000 per yearly", j.SalaryDisplay())

	j.Salary.Max = nil
	assert.Equal(t, "USD 80,000+ per yearly", j.SalaryDisplay())

	j.Salary = nil
	assert.Equal(t, "Salary not specified", j.SalaryDisplay())

	assert.Equal(t, "Entry level", j.ExperienceDisplay())
	j.Requirements.Experience = ExperienceRange{Min: 2, Max: ptr(5)}
	assert.Equal(t, "2-5 years", j.ExperienceDisplay())
	j.Requirements.Experience = ExperienceRange{Min: 3}
	assert.Equal(t, "3+ years", j.ExperienceDisplay())
}

func TestSearchFilterMatches(t *testing.T) {
	job := &Job{
		IsActive: true,
		Location: "San Francisco, CA",
		WorkMode: WorkModeRemote,
		JobType:  JobTypeFullTime,
		Salary:   &Salary{Min: ptr(90000.0), Max: ptr(130000.0)},
		Tags:     []string{"go", "kubernetes"},
		Requirements: Requirements{
			Experience: ExperienceRange{Min: 3},
		},
	}

	cases := []struct {
		name   string
		filter SearchFilter
		want   bool
	}{
		{"no filters", SearchFilter{}, true},
		{"location substring ignores case", SearchFilter{Location: "francisco"}, true},
		{"location miss", SearchFilter{Location: "London"}, false},
		{"work mode", SearchFilter{WorkMode: WorkModeOnSite}, false},
		{"job type", SearchFilter{JobType: JobTypeFullTime}, true},
		{"min salary reached by max", SearchFilter{MinSalary: ptr(120000.0)}, true},
		{"min salary above max", SearchFilter{MinSalary: ptr(200000.0)}, false},
		{"max salary or-combined", SearchFilter{MinSalary: ptr(200000.0), MaxSalary: ptr(95000.0)}, true},
		{"experience too low", SearchFilter{MaxExperience: ptr(2)}, false},
		{"experience enough", SearchFilter{MaxExperience: ptr(3)}, true},
		{"tag intersection", SearchFilter{Tags: []string{"Python", "GO"}}, true},
		{"tag miss", SearchFilter{Tags: []string{"python"}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.filter.Matches(job))
		})
	}

	t.Run("inactive jobs never match", func(t *testing.T) {
		inactive := *job
		inactive.IsActive = false
		assert.False(t, SearchFilter{}.Matches(&inactive))
	})

	t.Run("salary filter excludes jobs without salary", func(t *testing.T) {
		bare := *job
		bare.Salary = nil
		assert.False(t, SearchFilter{MinSalary: ptr(1.0)}.Matches(&bare))
	})
}

func TestRelevance(t *testing.T) {
	title := &Job{Title: "Go Developer", Description: "services"}
	desc := &Job{Title: "Engineer", Description: "we use go daily"}
	terms := SearchFilter{Query: "  GO "}.Terms()

	assert.Greater(t, Relevance(title, terms), Relevance(desc, terms))
	assert.Zero(t, Relevance(&Job{Title: "Chef"}, terms))
	assert.Zero(t, Relevance(title, nil))
}

func TestRelevanceStemsPlurals(t *testing.T) {
	job := &Job{Title: "Backend Engineer", Company: "Acme", Description: "a company building APIs", Tags: []string{"api"}}

	assert.Positive(t, Relevance(job, SearchFilter{Query: "engineers"}.Terms()))
	assert.Positive(t, Relevance(job, SearchFilter{Query: "companies"}.Terms()))
	assert.Equal(t, Relevance(job, []string{"api"}), Relevance(job, []string{"apis"}))
	assert.Zero(t, Relevance(&Job{Title: "Glass blower"}, []string{"glasses"}))
}

func TestLess(t *testing.T) {
	older := &Job{ID: id.NewJobID(), Title: "b", CreatedAt: now, ViewsCount: 9}
	newer := &Job{ID: id.NewJobID(), Title: "a", CreatedAt: now.Add(time.Minute), ViewsCount: 1}

	assert.True(t, Less(newer, older, pagination.NewestFirst))
	assert.True(t, Less(newer, older, pagination.Sort{Field: SortTitle}))
	assert.True(t, Less(older, newer, pagination.Sort{Field: SortViewsCount, Desc: true}))

	dated := &Job{ID: id.NewJobID(), ApplicationDeadline: ptr(now), CreatedAt: now}
	assert.True(t, Less(dated, older, pagination.Sort{Field: SortApplicationDeadline}))
}

func TestStatusFilter(t *testing.T) {
	assert.True(t, StatusAll.Includes(false))
	assert.True(t, StatusActive.Includes(true))
	assert.False(t, StatusActive.Includes(false))
	assert.True(t, StatusInactive.Includes(false))
	assert.False(t, StatusFilter("archived").IsValid())
}
