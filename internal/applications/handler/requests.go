package handler

import (
	"net/url"
	"strings"
	"time"

	"hireme/internal/applications/models"
	id "hireme/pkg/domain"
	dErrors "hireme/pkg/domain-errors"
	"hireme/pkg/platform/pagination"
)

type ExpectedSalaryRequest struct {
	Amount   *float64 `json:"amount"`
	Currency string   `json:"currency"`
	Period   string   `json:"period"`
}

// ApplyRequest is the body of POST /applications.
type ApplyRequest struct {
	JobID          string                 `json:"jobId"`
	CoverLetter    string                 `json:"coverLetter"`
	ExpectedSalary *ExpectedSalaryRequest `json:"expectedSalary"`
	AvailableFrom  *time.Time             `json:"availableFrom"`

	jobID id.JobID
}

func (r *ApplyRequest) Normalize() {
	r.JobID = strings.TrimSpace(r.JobID)
	r.CoverLetter = strings.TrimSpace(r.CoverLetter)
	if es := r.ExpectedSalary; es != nil {
		es.Currency = strings.ToUpper(strings.TrimSpace(es.Currency))
		es.Period = strings.ToLower(strings.TrimSpace(es.Period))
	}
}

// Validate checks shape; cover letter length and the availability date are
// left to the model.
func (r *ApplyRequest) Validate() error {
	var errs dErrors.FieldErrors
	if r.JobID == "" {
		errs.Add("jobId", "Job ID is required")
	} else if jobID, err := id.ParseJobID(r.JobID); err != nil {
		errs.Add("jobId", "Invalid job ID")
	} else {
		r.jobID = jobID
	}
	if r.CoverLetter == "" {
		errs.Add("coverLetter", "Cover letter is required")
	}
	if r.ExpectedSalary != nil && r.ExpectedSalary.Amount == nil {
		errs.Add("expectedSalary.amount", "Expected salary amount is required")
	}
	return errs.Err("Validation failed")
}

func (r *ApplyRequest) toSubmission() models.Submission {
	sub := models.Submission{CoverLetter: r.CoverLetter, AvailableFrom: r.AvailableFrom}
	if es := r.ExpectedSalary; es != nil && es.Amount != nil {
		sub.ExpectedSalary = &models.ExpectedSalary{
			Amount:   *es.Amount,
			Currency: id.Currency(es.Currency),
			Period:   id.PayPeriod(es.Period),
		}
	}
	return sub
}

// UpdateStatusRequest is the body of PUT /applications/{id}/status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

func (r *UpdateStatusRequest) Normalize() {
	r.Status = strings.TrimSpace(r.Status)
	r.Notes = strings.TrimSpace(r.Notes)
}

func (r *UpdateStatusRequest) Validate() error {
	var errs dErrors.FieldErrors
	if r.Status == "" {
		errs.Add("status", "Status is required")
	} else if !models.Status(r.Status).IsValid() {
		errs.Add("status", "Invalid application status")
	}
	if len([]rune(r.Notes)) > models.MaxNotesLength {
		errs.Add("notes", "Notes cannot exceed 1000 characters")
	}
	return errs.Err("Validation failed")
}

// parseListQuery reads page, limit, sortBy and status.
func parseListQuery(q url.Values) (models.ListQuery, error) {
	page, err := pagination.Parse(q)
	if err != nil {
		return models.ListQuery{}, err
	}
	sort, err := pagination.ParseSort(q.Get("sortBy"), models.SortFields, pagination.NewestFirst)
	if err != nil {
		return models.ListQuery{}, err
	}
	status, ok := models.ParseStatusFilter(q.Get("status"))
	if !ok {
		return models.ListQuery{}, dErrors.NewValidation("Validation failed",
			dErrors.FieldError{Field: "status", Message: "Invalid application status"})
	}
	return models.ListQuery{Status: status, Page: page, Sort: sort}, nil
}
