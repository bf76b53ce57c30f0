package models

import (
	"fmt"
	"strings"
	"time"

	id "hireme/pkg/domain"
	dErrors "hireme/pkg/domain-errors"
	pstrings "hireme/pkg/platform/strings"
)

const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 5000
	MaxCompanyLength     = 100
	MaxLocationLength    = 100
	MaxSkillLength       = 50
	MaxBenefitLength     = 100
	MaxTagLength         = 30
)

type JobType string

const (
	JobTypeFullTime   JobType = "full-time"
	JobTypePartTime   JobType = "part-time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
	JobTypeTemporary  JobType = "temporary"
)

func (t JobType) IsValid() bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship, JobTypeTemporary:
		return true
	}
	return false
}

type WorkMode string

const (
	WorkModeRemote WorkMode = "remote"
	WorkModeOnSite WorkMode = "on-site"
	WorkModeHybrid WorkMode = "hybrid"
)

func (m WorkMode) IsValid() bool {
	return m == WorkModeRemote || m == WorkModeOnSite || m == WorkModeHybrid
}

type Education string

const (
	EducationHighSchool   Education = "high-school"
	EducationBachelor     Education = "bachelor"
	EducationMaster       Education = "master"
	EducationPhD          Education = "phd"
	EducationNotSpecified Education = "not-specified"
)

func (e Education) IsValid() bool {
	switch e {
	case EducationHighSchool, EducationBachelor, EducationMaster, EducationPhD, EducationNotSpecified:
		return true
	}
	return false
}

// Salary is an optional pay range. Either bound may be absent; when both are
// present Min <= Max.
type Salary struct {
	Min      *float64     `json:"min,omitempty"`
	Max      *float64     `json:"max,omitempty"`
	Currency id.Currency  `json:"currency"`
	Period   id.PayPeriod `json:"period"`
}

// ExperienceRange is years of experience; Max is open-ended when nil.
type ExperienceRange struct {
	Min int  `json:"min"`
	Max *int `json:"max,omitempty"`
}

type Requirements struct {
	Experience ExperienceRange `json:"experience"`
	Education  Education       `json:"education"`
	Skills     []string        `json:"skills"`
}

// Job is a posting owned by an employer.
//
// Invariants:
//   - EmployerID never changes after creation
//   - Salary.Min <= Salary.Max when both are set
//   - Tags are lowercased
//   - ApplicationsCount and ViewsCount only move through the store's
//     increment operations, never through a patch
//   - Jobs are never deleted; IsActive=false hides them
type Job struct {
	ID                  id.JobID     `json:"id"`
	Title               string       `json:"title"`
	Description         string       `json:"description"`
	Company             string       `json:"company"`
	Location            string       `json:"location"`
	JobType             JobType      `json:"jobType"`
	WorkMode            WorkMode     `json:"workMode"`
	Salary              *Salary      `json:"salary,omitempty"`
	Requirements        Requirements `json:"requirements"`
	Benefits            []string     `json:"benefits"`
	Tags                []string     `json:"tags"`
	ApplicationDeadline *time.Time   `json:"applicationDeadline,omitempty"`
	IsActive            bool         `json:"isActive"`
	IsFeatured          bool         `json:"isFeatured"`
	EmployerID          id.UserID    `json:"employerId"`
	ApplicationsCount   int          `json:"applicationsCount"`
	ViewsCount          int          `json:"viewsCount"`
	CreatedAt           time.Time    `json:"createdAt"`
	UpdatedAt           time.Time    `json:"updatedAt"`
}

// Fields is the employer-supplied content of a posting.
type Fields struct {
	Title               string
	Description         string
	Company             string
	Location            string
	JobType             JobType
	WorkMode            WorkMode
	Salary              *Salary
	Requirements        Requirements
	Benefits            []string
	Tags                []string
	ApplicationDeadline *time.Time
	IsFeatured          bool
}

// NewJob normalizes fields and builds an active posting with zeroed counters.
// The deadline, when set, must be strictly after now.
func NewJob(jobID id.JobID, employerID id.UserID, f Fields, now time.Time) (*Job, error) {
	if employerID.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "employer is required")
	}
	j := &Job{
		ID:                  jobID,
		Title:               f.Title,
		Description:         f.Description,
		Company:             f.Company,
		Location:            f.Location,
		JobType:             f.JobType,
		WorkMode:            f.WorkMode,
		Salary:              cloneSalary(f.Salary),
		Requirements:        f.Requirements,
		Benefits:            f.Benefits,
		Tags:                f.Tags,
		ApplicationDeadline: f.ApplicationDeadline,
		IsActive:            true,
		IsFeatured:          f.IsFeatured,
		EmployerID:          employerID,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	j.normalize()
	if err := j.validate(); err != nil {
		return nil, err
	}
	if err := checkDeadline(j.ApplicationDeadline, now); err != nil {
		return nil, err
	}
	return j, nil
}

// IsExpired reports whether the application deadline is set and strictly before now.
func (j *Job) IsExpired(now time.Time) bool {
	return j.ApplicationDeadline != nil && j.ApplicationDeadline.Before(now)
}

func (j *Job) OwnedBy(employerID id.UserID) bool {
	return j.EmployerID == employerID
}

// AcceptsApplications reports whether seekers may currently apply.
func (j *Job) AcceptsApplications(now time.Time) bool {
	return j.IsActive && !j.IsExpired(now)
}

// Deactivate soft-deletes the posting. Existing applications are untouched.
func (j *Job) Deactivate(now time.Time) {
	j.IsActive = false
	j.UpdatedAt = now
}

// SalaryDisplay renders the range the way listings show it,
// e.g. "USD 80,000 - 120,000 per yearly".
func (j *Job) SalaryDisplay() string {
	s := j.Salary
	if s == nil || (s.Min == nil && s.Max == nil) {
		return "Salary not specified"
	}
	switch {
	case s.Min != nil && s.Max != nil:
		return fmt.Sprintf("%s %s - %s per %s", s.Currency, id.FormatAmount(*s.Min), id.FormatAmount(*s.Max), s.Period)
	case s.Min != nil:
		return fmt.Sprintf("%s %s+ per %s", s.Currency, id.FormatAmount(*s.Min), s.Period)
	default:
		return fmt.Sprintf("Up to %s %s per %s", s.Currency, id.FormatAmount(*s.Max), s.Period)
	}
}

func (j *Job) ExperienceDisplay() string {
	exp := j.Requirements.Experience
	switch {
	case exp.Min == 0 && exp.Max == nil:
		return "Entry level"
	case exp.Max != nil:
		return fmt.Sprintf("%d-%d years", exp.Min, *exp.Max)
	default:
		return fmt.Sprintf("%d+ years", exp.Min)
	}
}

// SearchDocument is the text the full-text index covers: title, description,
// company and tags.
func (j *Job) SearchDocument() string {
	return strings.Join([]string{j.Title, j.Description, j.Company, strings.Join(j.Tags, " ")}, " ")
}

func (j *Job) normalize() {
	j.Title = strings.TrimSpace(j.Title)
	j.Description = strings.TrimSpace(j.Description)
	j.Company = strings.TrimSpace(j.Company)
	j.Location = strings.TrimSpace(j.Location)
	if j.JobType == "" {
		j.JobType = JobTypeFullTime
	}
	if j.WorkMode == "" {
		j.WorkMode = WorkModeOnSite
	}
	if j.Salary != nil {
		if j.Salary.Currency == "" {
			j.Salary.Currency = id.DefaultCurrency
		}
		if j.Salary.Period == "" {
			j.Salary.Period = id.DefaultPayPeriod
		}
	}
	if j.Requirements.Education == "" {
		j.Requirements.Education = EducationNotSpecified
	}
	j.Requirements.Skills = orEmpty(pstrings.TrimAll(j.Requirements.Skills))
	j.Benefits = orEmpty(pstrings.TrimAll(j.Benefits))
	j.Tags = orEmpty(pstrings.TrimLower(j.Tags))
}

func (j *Job) validate() error {
	var errs dErrors.FieldErrors
	checkText(&errs, "title", j.Title, MaxTitleLength)
	checkText(&errs, "description", j.Description, MaxDescriptionLength)
	checkText(&errs, "company", j.Company, MaxCompanyLength)
	checkText(&errs, "location", j.Location, MaxLocationLength)
	if !j.JobType.IsValid() {
		errs.Add("jobType", "Invalid job type")
	}
	if !j.WorkMode.IsValid() {
		errs.Add("workMode", "Invalid work mode")
	}
	if s := j.Salary; s != nil {
		if (s.Min != nil && *s.Min < 0) || (s.Max != nil && *s.Max < 0) {
			errs.Add("salary", "Salary cannot be negative")
		}
		if s.Min != nil && s.Max != nil && *s.Min > *s.Max {
			errs.Add("salary", "Minimum salary cannot be greater than maximum salary")
		}
		if !s.Currency.IsValid() {
			errs.Add("salary.currency", "Invalid currency")
		}
		if !s.Period.IsValid() {
			errs.Add("salary.period", "Invalid salary period")
		}
	}
	exp := j.Requirements.Experience
	if exp.Min < 0 || (exp.Max != nil && *exp.Max < 0) {
		errs.Add("requirements.experience", "Experience cannot be negative")
	}
	if exp.Max != nil && exp.Min > *exp.Max {
		errs.Add("requirements.experience", "Minimum experience cannot exceed maximum experience")
	}
	if !j.Requirements.Education.IsValid() {
		errs.Add("requirements.education", "Invalid education level")
	}
	if v, ok := pstrings.LongerThan(j.Requirements.Skills, MaxSkillLength); ok {
		errs.Add("requirements.skills", "Skill is too long: "+v)
	}
	if v, ok := pstrings.LongerThan(j.Benefits, MaxBenefitLength); ok {
		errs.Add("benefits", "Benefit is too long: "+v)
	}
	if v, ok := pstrings.LongerThan(j.Tags, MaxTagLength); ok {
		errs.Add("tags", "Tag is too long: "+v)
	}
	if len(errs) == 0 {
		return nil
	}
	return &dErrors.Error{Code: dErrors.CodeInvariantViolation, Message: errs[0].Message, Fields: errs}
}

func checkText(errs *dErrors.FieldErrors, field, value string, limit int) {
	switch {
	case value == "":
		errs.Add(field, field+" is required")
	case len([]rune(value)) > limit:
		errs.Add(field, fmt.Sprintf("%s cannot exceed %d characters", field, limit))
	}
}

func checkDeadline(deadline *time.Time, now time.Time) error {
	if deadline != nil && !deadline.After(now) {
		return &dErrors.Error{
			Code:    dErrors.CodeInvariantViolation,
			Message: "Application deadline must be in the future",
			Fields:  []dErrors.FieldError{{Field: "applicationDeadline", Message: "Application deadline must be in the future"}},
		}
	}
	return nil
}

func cloneSalary(s *Salary) *Salary {
	if s == nil {
		return nil
	}
	c := *s
	if s.Min != nil {
		v := *s.Min
		c.Min = &v
	}
	if s.Max != nil {
		v := *s.Max
		c.Max = &v
	}
	return &c
}

func orEmpty(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
