package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "hireme/pkg/domain"
	dErrors "hireme/pkg/domain-errors"
	"hireme/pkg/platform/pagination"
)

var now = time.Date(2026, 7, 10, 15, 30, 0, 0, time.UTC)

var coverLetter = strings.Repeat("I would love to join the team. ", 3)

func newApp(t *testing.T, sub Submission) *Application {
	t.Helper()
	a, err := NewApplication(id.NewApplicationID(), id.NewJobID(), id.NewUserID(), id.NewUserID(), sub, "", now)
	require.NoError(t, err)
	return a
}

func TestNewApplication(t *testing.T) {
	t.Run("starts pending and active", func(t *testing.T) {
		a := newApp(t, Submission{CoverLetter: coverLetter})
		assert.Equal(t, StatusPending, a.Status)
		assert.True(t, a.IsActive)
		assert.Nil(t, a.ReviewedAt)
		assert.Nil(t, a.ReviewedBy)
	})

	t.Run("cover letter length is enforced", func(t *testing.T) {
		_, err := NewApplication(id.NewApplicationID(), id.NewJobID(), id.NewUserID(), id.NewUserID(),
			Submission{CoverLetter: "too short"}, "", now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))

		_, err = NewApplication(id.NewApplicationID(), id.NewJobID(), id.NewUserID(), id.NewUserID(),
			Submission{CoverLetter: strings.Repeat("x", MaxCoverLetterLength+1)}, "", now)
		assert.Error(t, err)
	})

	t.Run("expected salary defaults", func(t *testing.T) {
		a := newApp(t, Submission{CoverLetter: coverLetter, ExpectedSalary: &ExpectedSalary{Amount: 95000}})
		assert.Equal(t, id.CurrencyUSD, a.ExpectedSalary.Currency)
		assert.Equal(t, id.PayPeriodYearly, a.ExpectedSalary.Period)
		assert.Equal(t, "USD 95,000 per yearly", a.ExpectedSalaryDisplay())
	})

	t.Run("available from earlier today is accepted", func(t *testing.T) {
		morning := time.Date(2026, 7, 10, 8, 0, 0, 0, time.UTC)
		a := newApp(t, Submission{CoverLetter: coverLetter, AvailableFrom: &morning})
		assert.Equal(t, morning, *a.AvailableFrom)
	})

	t.Run("available from yesterday is rejected", func(t *testing.T) {
		yesterday := now.Add(-24 * time.Hour)
		_, err := NewApplication(id.NewApplicationID(), id.NewJobID(), id.NewUserID(), id.NewUserID(),
			Submission{CoverLetter: coverLetter, AvailableFrom: &yesterday}, "", now)
		assert.Error(t, err)
	})
}

func TestWithdraw(t *testing.T) {
	cases := []struct {
		status Status
		ok     bool
	}{
		{StatusPending, true},
		{StatusReviewed, true},
		{StatusShortlisted, false},
		{StatusInterviewScheduled, false},
		{StatusRejected, false},
		{StatusHired, false},
	}
	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			a := newApp(t, Submission{CoverLetter: coverLetter})
			a.Status = tc.status
			assert.Equal(t, tc.ok, a.CanBeWithdrawn())

			err := a.Withdraw(now)
			if tc.ok {
				require.NoError(t, err)
				assert.False(t, a.IsActive)
			} else {
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidState))
				assert.True(t, a.IsActive)
			}
		})
	}

	t.Run("already withdrawn", func(t *testing.T) {
		a := newApp(t, Submission{CoverLetter: coverLetter})
		require.NoError(t, a.Withdraw(now))
		assert.Error(t, a.Withdraw(now))
	})
}

func TestApplyReview(t *testing.T) {
	reviewer := id.NewUserID()
	later := now.Add(time.Hour)

	t.Run("stamps reviewer and keeps notes when empty", func(t *testing.T) {
		a := newApp(t, Submission{CoverLetter: coverLetter})
		require.NoError(t, a.ApplyReview(StatusShortlisted, reviewer, "Strong portfolio", now))
		require.NoError(t, a.ApplyReview(StatusInterviewScheduled, reviewer, "  ", later))

		assert.Equal(t, StatusInterviewScheduled, a.Status)
		assert.Equal(t, "Strong portfolio", a.Notes)
		assert.Equal(t, later, *a.ReviewedAt)
		assert.Equal(t, reviewer, *a.ReviewedBy)
	})

	t.Run("any status may follow any other", func(t *testing.T) {
		a := newApp(t, Submission{CoverLetter: coverLetter})
		require.NoError(t, a.ApplyReview(StatusHired, reviewer, "", now))
		require.NoError(t, a.ApplyReview(StatusPending, reviewer, "", now))
		assert.Equal(t, StatusPending, a.Status)
	})

	t.Run("unknown status", func(t *testing.T) {
		a := newApp(t, Submission{CoverLetter: coverLetter})
		assert.Error(t, a.ApplyReview(Status("ghosted"), reviewer, "", now))
		assert.Equal(t, StatusPending, a.Status)
	})
}

func TestVisibleTo(t *testing.T) {
	a := newApp(t, Submission{CoverLetter: coverLetter})
	assert.True(t, a.VisibleTo(a.ApplicantID))
	assert.True(t, a.VisibleTo(a.EmployerID))
	assert.False(t, a.VisibleTo(id.NewUserID()))
}

func TestNewStatistics(t *testing.T) {
	stats := NewStatistics(map[Status]int{StatusHired: 1, StatusPending: 3})
	assert.Equal(t, 4, stats.TotalApplications)
	assert.Equal(t, []StatusCount{{StatusPending, 3}, {StatusHired, 1}}, stats.StatusCounts)

	empty := NewStatistics(nil)
	assert.Equal(t, []StatusCount{}, empty.StatusCounts)
}

func TestParseStatusFilter(t *testing.T) {
	s, ok := ParseStatusFilter("all")
	assert.True(t, ok)
	assert.Empty(t, s)

	s, ok = ParseStatusFilter("shortlisted")
	assert.True(t, ok)
	assert.Equal(t, StatusShortlisted, s)

	_, ok = ParseStatusFilter("archived")
	assert.False(t, ok)
}

func TestLessDefaultsToNewestFirst(t *testing.T) {
	older := &Application{ID: id.NewApplicationID(), CreatedAt: now}
	newer := &Application{ID: id.NewApplicationID(), CreatedAt: now.Add(time.Minute)}
	assert.True(t, Less(newer, older, pagination.NewestFirst))
	assert.True(t, Less(older, newer, pagination.Sort{Field: SortCreatedAt}))
}
