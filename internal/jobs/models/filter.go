package models

import (
	"slices"
	"strings"
	"time"

	id "hireme/pkg/domain"
	"hireme/pkg/platform/pagination"
)

// Sort fields a listing may be ordered by.
const (
	SortCreatedAt           = "createdAt"
	SortUpdatedAt           = "updatedAt"
	SortTitle               = "title"
	SortCompany             = "company"
	SortApplicationsCount   = "applicationsCount"
	SortViewsCount          = "viewsCount"
	SortApplicationDeadline = "applicationDeadline"
	SortRelevance           = "relevance"
)

var SortFields = []string{
	SortCreatedAt, SortUpdatedAt, SortTitle, SortCompany,
	SortApplicationsCount, SortViewsCount, SortApplicationDeadline, SortRelevance,
}

// SearchFilter narrows the public catalog. Zero values mean "no constraint".
// Only active jobs are ever matched.
type SearchFilter struct {
	Query         string
	Location      string
	WorkMode      WorkMode
	JobType       JobType
	MinSalary     *float64
	MaxSalary     *float64
	MaxExperience *int
	Tags          []string
}

// Matches applies every structured filter. The text query is not checked here;
// see Relevance.
func (f SearchFilter) Matches(j *Job) bool {
	if !j.IsActive {
		return false
	}
	if f.Location != "" && !strings.Contains(strings.ToLower(j.Location), strings.ToLower(f.Location)) {
		return false
	}
	if f.WorkMode != "" && j.WorkMode != f.WorkMode {
		return false
	}
	if f.JobType != "" && j.JobType != f.JobType {
		return false
	}
	if !f.matchesSalary(j.Salary) {
		return false
	}
	if f.MaxExperience != nil && j.Requirements.Experience.Min > *f.MaxExperience {
		return false
	}
	if len(f.Tags) > 0 && !slices.ContainsFunc(f.Tags, func(t string) bool {
		return slices.Contains(j.Tags, strings.ToLower(t))
	}) {
		return false
	}
	return true
}

// matchesSalary keeps the catalog's OR semantics: a job qualifies when its
// max reaches minSalary or its min is within maxSalary. Jobs without a salary
// never match a salary filter.
func (f SearchFilter) matchesSalary(s *Salary) bool {
	if f.MinSalary == nil && f.MaxSalary == nil {
		return true
	}
	if s == nil {
		return false
	}
	if f.MinSalary != nil && s.Max != nil && *s.Max >= *f.MinSalary {
		return true
	}
	if f.MaxSalary != nil && s.Min != nil && *s.Min <= *f.MaxSalary {
		return true
	}
	return false
}

// Terms splits the query into lowercase search words.
func (f SearchFilter) Terms() []string {
	return strings.Fields(strings.ToLower(f.Query))
}

// Relevance scores a job against the query terms: title hits weigh most, then
// tags and company, then description. Zero means no term matched.
//
// Terms are matched as substrings after stripping a plural suffix, so
// "engineers" finds "engineer". This approximates the Postgres store's
// english text search, which stems every inflection ("hiring" matches
// "hire" there but not here).
func Relevance(j *Job, terms []string) float64 {
	if len(terms) == 0 {
		return 0
	}
	title := strings.ToLower(j.Title)
	company := strings.ToLower(j.Company)
	desc := strings.ToLower(j.Description)
	var score float64
	for _, term := range terms {
		term = stem(term)
		if strings.Contains(title, term) {
			score += 3
		}
		if slices.ContainsFunc(j.Tags, func(tag string) bool { return stem(tag) == term }) {
			score += 2
		}
		if strings.Contains(company, term) {
			score++
		}
		score += 0.5 * float64(strings.Count(desc, term))
	}
	return score
}

// stem drops a trailing plural "s" ("ies" becomes "y"). Short words and
// words ending in "ss" are left alone.
func stem(term string) string {
	switch {
	case len(term) <= 3 || strings.HasSuffix(term, "ss"):
		return term
	case strings.HasSuffix(term, "ies"):
		return strings.TrimSuffix(term, "ies") + "y"
	case strings.HasSuffix(term, "s"):
		return strings.TrimSuffix(term, "s")
	}
	return term
}

// StatusFilter selects an employer's own postings by activity.
type StatusFilter string

const (
	StatusAll      StatusFilter = "all"
	StatusActive   StatusFilter = "active"
	StatusInactive StatusFilter = "inactive"
)

func (s StatusFilter) IsValid() bool {
	return s == StatusAll || s == StatusActive || s == StatusInactive
}

// Includes reports whether a job with the given activity passes the filter.
func (s StatusFilter) Includes(active bool) bool {
	switch s {
	case StatusActive:
		return active
	case StatusInactive:
		return !active
	default:
		return true
	}
}

// Page is one page of a listing plus the total match count.
type Page struct {
	Jobs  []*Job
	Total int
}

// EmployerSummary aggregates an employer's postings.
type EmployerSummary struct {
	TotalJobs         int `json:"totalJobs"`
	ActiveJobs        int `json:"activeJobs"`
	InactiveJobs      int `json:"inactiveJobs"`
	TotalViews        int `json:"totalViews"`
	TotalApplications int `json:"totalApplications"`
}

// Less orders a before b under sort. Ties fall back to newest first so pages
// are stable. Relevance is handled by the caller.
func Less(a, b *Job, sort pagination.Sort) bool {
	cmp := compare(a, b, sort.Field)
	if cmp == 0 {
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID.String() < b.ID.String()
		}
		return a.CreatedAt.After(b.CreatedAt)
	}
	if sort.Desc {
		return cmp > 0
	}
	return cmp < 0
}

func compare(a, b *Job, field string) int {
	switch field {
	case SortUpdatedAt:
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case SortTitle:
		return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
	case SortCompany:
		return strings.Compare(strings.ToLower(a.Company), strings.ToLower(b.Company))
	case SortApplicationsCount:
		return a.ApplicationsCount - b.ApplicationsCount
	case SortViewsCount:
		return a.ViewsCount - b.ViewsCount
	case SortApplicationDeadline:
		return compareDeadline(a.ApplicationDeadline, b.ApplicationDeadline)
	default:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
}

// compareDeadline sorts open-ended postings after dated ones.
func compareDeadline(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return a.Compare(*b)
}

// Summary is the short form of a posting embedded in application listings.
type Summary struct {
	ID         id.JobID  `json:"id"`
	Title      string    `json:"title"`
	Company    string    `json:"company"`
	Location   string    `json:"location"`
	JobType    JobType   `json:"jobType"`
	WorkMode   WorkMode  `json:"workMode"`
	IsActive   bool      `json:"isActive"`
	EmployerID id.UserID `json:"employerId"`
}

func (j *Job) Summary() Summary {
	return Summary{
		ID:         j.ID,
		Title:      j.Title,
		Company:    j.Company,
		Location:   j.Location,
		JobType:    j.JobType,
		WorkMode:   j.WorkMode,
		IsActive:   j.IsActive,
		EmployerID: j.EmployerID,
	}
}
