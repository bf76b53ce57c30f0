package handler

import (
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"hireme/internal/jobs/models"
	id "hireme/pkg/domain"
	dErrors "hireme/pkg/domain-errors"
	"hireme/pkg/platform/pagination"
)

type SalaryRequest struct {
	Min      *float64 `json:"min"`
	Max      *float64 `json:"max"`
	Currency string   `json:"currency"`
	Period   string   `json:"period"`
}

func (s *SalaryRequest) toModel() *models.Salary {
	if s == nil {
		return nil
	}
	return &models.Salary{
		Min:      s.Min,
		Max:      s.Max,
		Currency: id.Currency(strings.ToUpper(strings.TrimSpace(s.Currency))),
		Period:   id.PayPeriod(strings.ToLower(strings.TrimSpace(s.Period))),
	}
}

type ExperienceRequest struct {
	Min int  `json:"min"`
	Max *int `json:"max"`
}

type RequirementsRequest struct {
	Experience ExperienceRequest `json:"experience"`
	Education  string            `json:"education"`
	Skills     []string          `json:"skills"`
}

func (r *RequirementsRequest) toModel() models.Requirements {
	return models.Requirements{
		Experience: models.ExperienceRange{Min: r.Experience.Min, Max: r.Experience.Max},
		Education:  models.Education(strings.TrimSpace(r.Education)),
		Skills:     r.Skills,
	}
}

// CreateJobRequest is the body of POST /jobs.
type CreateJobRequest struct {
	Title               string              `json:"title"`
	Description         string              `json:"description"`
	Company             string              `json:"company"`
	Location            string              `json:"location"`
	JobType             string              `json:"jobType"`
	WorkMode            string              `json:"workMode"`
	Salary              *SalaryRequest      `json:"salary"`
	Requirements        RequirementsRequest `json:"requirements"`
	Benefits            []string            `json:"benefits"`
	Tags                []string            `json:"tags"`
	ApplicationDeadline *time.Time          `json:"applicationDeadline"`
	IsFeatured          bool                `json:"isFeatured"`
}

func (r *CreateJobRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Company = strings.TrimSpace(r.Company)
	r.Location = strings.TrimSpace(r.Location)
	r.JobType = strings.TrimSpace(r.JobType)
	r.WorkMode = strings.TrimSpace(r.WorkMode)
}

// Validate covers request shape only; length limits and the salary range are
// enforced by the model.
func (r *CreateJobRequest) Validate() error {
	var errs dErrors.FieldErrors
	if r.Title == "" {
		errs.Add("title", "Job title is required")
	}
	if r.Description == "" {
		errs.Add("description", "Job description is required")
	}
	if r.Company == "" {
		errs.Add("company", "Company name is required")
	}
	if r.Location == "" {
		errs.Add("location", "Location is required")
	}
	if r.JobType != "" && !models.JobType(r.JobType).IsValid() {
		errs.Add("jobType", "Invalid job type")
	}
	if r.WorkMode != "" && !models.WorkMode(r.WorkMode).IsValid() {
		errs.Add("workMode", "Invalid work mode")
	}
	return errs.Err("Validation failed")
}

func (r *CreateJobRequest) toFields() models.Fields {
	return models.Fields{
		Title:               r.Title,
		Description:         r.Description,
		Company:             r.Company,
		Location:            r.Location,
		JobType:             models.JobType(r.JobType),
		WorkMode:            models.WorkMode(r.WorkMode),
		Salary:              r.Salary.toModel(),
		Requirements:        r.Requirements.toModel(),
		Benefits:            r.Benefits,
		Tags:                r.Tags,
		ApplicationDeadline: r.ApplicationDeadline,
		IsFeatured:          r.IsFeatured,
	}
}

// UpdateJobRequest is the body of PUT /jobs/{id}. Omitted fields are kept.
type UpdateJobRequest struct {
	Title                    *string              `json:"title"`
	Description              *string              `json:"description"`
	Company                  *string              `json:"company"`
	Location                 *string              `json:"location"`
	JobType                  *string              `json:"jobType"`
	WorkMode                 *string              `json:"workMode"`
	Salary                   *SalaryRequest       `json:"salary"`
	ClearSalary              bool                 `json:"clearSalary"`
	Requirements             *RequirementsRequest `json:"requirements"`
	Benefits                 *[]string            `json:"benefits"`
	Tags                     *[]string            `json:"tags"`
	ApplicationDeadline      *time.Time           `json:"applicationDeadline"`
	ClearApplicationDeadline bool                 `json:"clearApplicationDeadline"`
	IsActive                 *bool                `json:"isActive"`
	IsFeatured               *bool                `json:"isFeatured"`
}

func (r *UpdateJobRequest) Normalize() {
	for _, f := range []*string{r.Title, r.Description, r.Company, r.Location, r.JobType, r.WorkMode} {
		if f != nil {
			*f = strings.TrimSpace(*f)
		}
	}
}

func (r *UpdateJobRequest) Validate() error {
	var errs dErrors.FieldErrors
	if r.JobType != nil && !models.JobType(*r.JobType).IsValid() {
		errs.Add("jobType", "Invalid job type")
	}
	if r.WorkMode != nil && !models.WorkMode(*r.WorkMode).IsValid() {
		errs.Add("workMode", "Invalid work mode")
	}
	if r.Salary != nil && r.ClearSalary {
		errs.Add("salary", "salary and clearSalary cannot both be set")
	}
	if r.ApplicationDeadline != nil && r.ClearApplicationDeadline {
		errs.Add("applicationDeadline", "applicationDeadline and clearApplicationDeadline cannot both be set")
	}
	return errs.Err("Validation failed")
}

func (r *UpdateJobRequest) toPatch() models.Patch {
	p := models.Patch{
		Title:               r.Title,
		Description:         r.Description,
		Company:             r.Company,
		Location:            r.Location,
		Salary:              r.Salary.toModel(),
		ClearSalary:         r.ClearSalary,
		Benefits:            r.Benefits,
		Tags:                r.Tags,
		ApplicationDeadline: r.ApplicationDeadline,
		ClearDeadline:       r.ClearApplicationDeadline,
		IsActive:            r.IsActive,
		IsFeatured:          r.IsFeatured,
	}
	if r.JobType != nil {
		t := models.JobType(*r.JobType)
		p.JobType = &t
	}
	if r.WorkMode != nil {
		m := models.WorkMode(*r.WorkMode)
		p.WorkMode = &m
	}
	if r.Requirements != nil {
		req := r.Requirements.toModel()
		p.Requirements = &req
	}
	return p
}

// searchQuery is the parsed query string of GET /jobs.
type searchQuery struct {
	filter models.SearchFilter
	page   pagination.Params
	sort   pagination.Sort
}

func parseSearchQuery(q url.Values) (searchQuery, error) {
	var errs dErrors.FieldErrors
	out := searchQuery{
		filter: models.SearchFilter{
			Query:    strings.TrimSpace(q.Get("search")),
			Location: strings.TrimSpace(q.Get("location")),
			WorkMode: models.WorkMode(strings.TrimSpace(q.Get("workMode"))),
			JobType:  models.JobType(strings.TrimSpace(q.Get("jobType"))),
		},
	}
	if out.filter.WorkMode != "" && !out.filter.WorkMode.IsValid() {
		errs.Add("workMode", "Invalid work mode")
	}
	if out.filter.JobType != "" && !out.filter.JobType.IsValid() {
		errs.Add("jobType", "Invalid job type")
	}
	out.filter.MinSalary = parseFloat(&errs, q, "minSalary")
	out.filter.MaxSalary = parseFloat(&errs, q, "maxSalary")
	if raw := strings.TrimSpace(q.Get("experience")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			errs.Add("experience", "experience must be a non-negative integer")
		} else {
			out.filter.MaxExperience = &n
		}
	}
	if raw := q.Get("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.ToLower(strings.TrimSpace(tag)); tag != "" {
				out.filter.Tags = append(out.filter.Tags, tag)
			}
		}
	}
	if err := errs.Err("Invalid search parameters"); err != nil {
		return searchQuery{}, err
	}

	page, err := pagination.Parse(q)
	if err != nil {
		return searchQuery{}, err
	}
	sort, err := pagination.ParseSort(q.Get("sortBy"), models.SortFields, pagination.NewestFirst)
	if err != nil {
		return searchQuery{}, err
	}
	out.page, out.sort = page, sort
	return out, nil
}

func parseFloat(errs *dErrors.FieldErrors, q url.Values, key string) *float64 {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		errs.Add(key, key+" must be a non-negative number")
		return nil
	}
	return &v
}
