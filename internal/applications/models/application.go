package models

import (
	"fmt"
	"strings"
	"time"

	id "hireme/pkg/domain"
	dErrors "hireme/pkg/domain-errors"
)

const (
	MinCoverLetterLength = 50
	MaxCoverLetterLength = 2000
	MaxNotesLength       = 1000
)

// Status is the employer-facing review state of an application.
type Status string

const (
	StatusPending            Status = "pending"
	StatusReviewed           Status = "reviewed"
	StatusShortlisted        Status = "shortlisted"
	StatusInterviewScheduled Status = "interview-scheduled"
	StatusRejected           Status = "rejected"
	StatusHired              Status = "hired"
)

// Statuses lists every status in pipeline order.
var Statuses = []Status{
	StatusPending, StatusReviewed, StatusShortlisted,
	StatusInterviewScheduled, StatusRejected, StatusHired,
}

func (s Status) IsValid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

func (s Status) String() string { return string(s) }

// ExpectedSalary is the applicant's stated expectation.
type ExpectedSalary struct {
	Amount   float64      `json:"amount"`
	Currency id.Currency  `json:"currency"`
	Period   id.PayPeriod `json:"period"`
}

// Application is a seeker's application to one job.
//
// Invariants:
//   - (JobID, ApplicantID) is unique for ever, withdrawal included
//   - EmployerID is copied from the job at creation and never changes
//   - ReviewedAt and ReviewedBy are only set by ApplyReview
//   - IsActive=false means withdrawn
type Application struct {
	ID             id.ApplicationID `json:"id"`
	JobID          id.JobID         `json:"jobId"`
	ApplicantID    id.UserID        `json:"applicantId"`
	EmployerID     id.UserID        `json:"employerId"`
	CoverLetter    string           `json:"coverLetter"`
	Resume         string           `json:"resume,omitempty"`
	ExpectedSalary *ExpectedSalary  `json:"expectedSalary,omitempty"`
	AvailableFrom  *time.Time       `json:"availableFrom,omitempty"`
	Status         Status           `json:"status"`
	Notes          string           `json:"notes,omitempty"`
	IsActive       bool             `json:"isActive"`
	ReviewedAt     *time.Time       `json:"reviewedAt,omitempty"`
	ReviewedBy     *id.UserID       `json:"reviewedBy,omitempty"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

// Submission is what an applicant provides.
type Submission struct {
	CoverLetter    string
	ExpectedSalary *ExpectedSalary
	AvailableFrom  *time.Time
}

// NewApplication builds a pending application. availableFrom may be today but
// not earlier.
func NewApplication(appID id.ApplicationID, jobID id.JobID, applicantID, employerID id.UserID, sub Submission, resume string, now time.Time) (*Application, error) {
	a := &Application{
		ID:          appID,
		JobID:       jobID,
		ApplicantID: applicantID,
		EmployerID:  employerID,
		CoverLetter: strings.TrimSpace(sub.CoverLetter),
		Resume:      strings.TrimSpace(resume),
		Status:      StatusPending,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if sub.ExpectedSalary != nil {
		es := *sub.ExpectedSalary
		if es.Currency == "" {
			es.Currency = id.DefaultCurrency
		}
		if es.Period == "" {
			es.Period = id.DefaultPayPeriod
		}
		a.ExpectedSalary = &es
	}
	if sub.AvailableFrom != nil {
		t := *sub.AvailableFrom
		a.AvailableFrom = &t
	}

	var errs dErrors.FieldErrors
	if jobID.IsNil() || applicantID.IsNil() || employerID.IsNil() {
		errs.Add("jobId", "job, applicant and employer are required")
	}
	n := len([]rune(a.CoverLetter))
	if n < MinCoverLetterLength || n > MaxCoverLetterLength {
		errs.Add("coverLetter", fmt.Sprintf("Cover letter must be between %d and %d characters", MinCoverLetterLength, MaxCoverLetterLength))
	}
	if es := a.ExpectedSalary; es != nil {
		if es.Amount < 0 {
			errs.Add("expectedSalary.amount", "Expected salary cannot be negative")
		}
		if !es.Currency.IsValid() {
			errs.Add("expectedSalary.currency", "Invalid currency")
		}
		if !es.Period.IsValid() {
			errs.Add("expectedSalary.period", "Invalid salary period")
		}
	}
	if a.AvailableFrom != nil && a.AvailableFrom.Before(startOfDay(now)) {
		errs.Add("availableFrom", "Available from date cannot be in the past")
	}
	if len(errs) > 0 {
		return nil, &dErrors.Error{Code: dErrors.CodeInvariantViolation, Message: errs[0].Message, Fields: errs}
	}
	return a, nil
}

// CanBeWithdrawn reports whether the applicant may still pull out.
func (a *Application) CanBeWithdrawn() bool {
	return a.IsActive && (a.Status == StatusPending || a.Status == StatusReviewed)
}

// Withdraw deactivates the application. The (job, applicant) pair stays taken.
func (a *Application) Withdraw(now time.Time) error {
	if !a.CanBeWithdrawn() {
		return dErrors.New(dErrors.CodeInvalidState, "Application cannot be withdrawn at this stage")
	}
	a.IsActive = false
	a.UpdatedAt = now
	return nil
}

// ApplyReview moves the application to status and stamps the reviewer.
// Any status may follow any other; notes are only replaced when non-empty.
func (a *Application) ApplyReview(status Status, reviewer id.UserID, notes string, now time.Time) error {
	if !status.IsValid() {
		return dErrors.New(dErrors.CodeInvariantViolation, "Invalid application status")
	}
	notes = strings.TrimSpace(notes)
	if len([]rune(notes)) > MaxNotesLength {
		return dErrors.New(dErrors.CodeInvariantViolation, fmt.Sprintf("Notes cannot exceed %d characters", MaxNotesLength))
	}
	a.Status = status
	reviewedAt := now
	a.ReviewedAt = &reviewedAt
	r := reviewer
	a.ReviewedBy = &r
	if notes != "" {
		a.Notes = notes
	}
	a.UpdatedAt = now
	return nil
}

// VisibleTo reports whether userID is the applicant or the owning employer.
func (a *Application) VisibleTo(userID id.UserID) bool {
	return a.ApplicantID == userID || a.EmployerID == userID
}

// ExpectedSalaryDisplay renders e.g. "USD 95,000 per yearly".
func (a *Application) ExpectedSalaryDisplay() string {
	if a.ExpectedSalary == nil {
		return "Not specified"
	}
	es := a.ExpectedSalary
	return fmt.Sprintf("%s %s per %s", es.Currency, id.FormatAmount(es.Amount), es.Period)
}

// Clone returns a deep copy.
func (a *Application) Clone() *Application {
	c := *a
	if a.ExpectedSalary != nil {
		es := *a.ExpectedSalary
		c.ExpectedSalary = &es
	}
	if a.AvailableFrom != nil {
		t := *a.AvailableFrom
		c.AvailableFrom = &t
	}
	if a.ReviewedAt != nil {
		t := *a.ReviewedAt
		c.ReviewedAt = &t
	}
	if a.ReviewedBy != nil {
		r := *a.ReviewedBy
		c.ReviewedBy = &r
	}
	return &c
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
