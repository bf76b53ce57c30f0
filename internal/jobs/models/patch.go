package models

import (
	"time"
)

// Patch carries a partial update. Nil pointers leave a field untouched.
// ClearSalary and ClearDeadline remove the optional value outright; they win
// over Salary and ApplicationDeadline when both are given.
type Patch struct {
	Title               *string
	Description         *string
	Company             *string
	Location            *string
	JobType             *JobType
	WorkMode            *WorkMode
	Salary              *Salary
	ClearSalary         bool
	Requirements        *Requirements
	Benefits            *[]string
	Tags                *[]string
	ApplicationDeadline *time.Time
	ClearDeadline       bool
	IsActive            *bool
	IsFeatured          *bool
}

// IsEmpty reports whether the patch would change nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Company == nil && p.Location == nil &&
		p.JobType == nil && p.WorkMode == nil && p.Salary == nil && !p.ClearSalary &&
		p.Requirements == nil && p.Benefits == nil && p.Tags == nil &&
		p.ApplicationDeadline == nil && !p.ClearDeadline && p.IsActive == nil && p.IsFeatured == nil
}

// ApplyPatch updates only the provided fields and re-runs validation over the
// whole posting. On failure the job is left unchanged. A newly provided
// deadline must be in the future; an untouched one is not re-checked.
func (j *Job) ApplyPatch(p Patch, now time.Time) error {
	next := j.clone()
	if p.Title != nil {
		next.Title = *p.Title
	}
	if p.Description != nil {
		next.Description = *p.Description
	}
	if p.Company != nil {
		next.Company = *p.Company
	}
	if p.Location != nil {
		next.Location = *p.Location
	}
	if p.JobType != nil {
		next.JobType = *p.JobType
	}
	if p.WorkMode != nil {
		next.WorkMode = *p.WorkMode
	}
	if p.Salary != nil {
		next.Salary = cloneSalary(p.Salary)
	}
	if p.ClearSalary {
		next.Salary = nil
	}
	if p.Requirements != nil {
		next.Requirements = *p.Requirements
	}
	if p.Benefits != nil {
		next.Benefits = *p.Benefits
	}
	if p.Tags != nil {
		next.Tags = *p.Tags
	}
	if p.ApplicationDeadline != nil {
		d := *p.ApplicationDeadline
		next.ApplicationDeadline = &d
	}
	if p.ClearDeadline {
		next.ApplicationDeadline = nil
	}
	if p.IsActive != nil {
		next.IsActive = *p.IsActive
	}
	if p.IsFeatured != nil {
		next.IsFeatured = *p.IsFeatured
	}

	next.normalize()
	if err := next.validate(); err != nil {
		return err
	}
	if p.ApplicationDeadline != nil && !p.ClearDeadline {
		if err := checkDeadline(next.ApplicationDeadline, now); err != nil {
			return err
		}
	}
	next.UpdatedAt = now
	*j = *next
	return nil
}

// Clone returns a deep copy so stores never hand out shared slices.
func (j *Job) Clone() *Job {
	return j.clone()
}

func (j *Job) clone() *Job {
	c := *j
	c.Salary = cloneSalary(j.Salary)
	c.Requirements.Skills = copyStrings(j.Requirements.Skills)
	if j.Requirements.Experience.Max != nil {
		v := *j.Requirements.Experience.Max
		c.Requirements.Experience.Max = &v
	}
	c.Benefits = copyStrings(j.Benefits)
	c.Tags = copyStrings(j.Tags)
	if j.ApplicationDeadline != nil {
		d := *j.ApplicationDeadline
		c.ApplicationDeadline = &d
	}
	return &c
}

func copyStrings(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	copy(out, values)
	return out
}
