package store

import (
	"context"
	"sort"
	"sync"

	"hireme/internal/jobs/models"
	id "hireme/pkg/domain"
	"hireme/pkg/platform/pagination"
	"hireme/pkg/platform/sentinel"
)

// InMemoryJobStore keeps postings in a map guarded by a single RWMutex.
type InMemoryJobStore struct {
	mu   sync.RWMutex
	jobs map[id.JobID]*models.Job
}

func NewInMemoryJobStore() *InMemoryJobStore {
	return &InMemoryJobStore{jobs: make(map[id.JobID]*models.Job)}
}

func (s *InMemoryJobStore) Create(_ context.Context, j *models.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[j.ID]; exists {
		return sentinel.ErrAlreadyUsed
	}
	s.jobs[j.ID] = j.Clone()
	return nil
}

func (s *InMemoryJobStore) FindByID(_ context.Context, jobID id.JobID) (*models.Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	j, ok := s.jobs[jobID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return j.Clone(), nil
}

// Execute applies fn to a copy under the write lock and keeps the copy only
// when fn succeeds.
func (s *InMemoryJobStore) Execute(_ context.Context, jobID id.JobID, fn func(*models.Job) error) (*models.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.jobs[jobID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	s.jobs[jobID] = next
	return next.Clone(), nil
}

// IncrementViews bumps the counter without running model validation.
func (s *InMemoryJobStore) IncrementViews(_ context.Context, jobID id.JobID) error {
	return s.bump(jobID, func(j *models.Job) { j.ViewsCount++ })
}

// IncrementApplications bumps the counter without running model validation.
func (s *InMemoryJobStore) IncrementApplications(_ context.Context, jobID id.JobID) error {
	return s.bump(jobID, func(j *models.Job) { j.ApplicationsCount++ })
}

func (s *InMemoryJobStore) bump(jobID id.JobID, fn func(*models.Job)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[jobID]
	if !ok {
		return sentinel.ErrNotFound
	}
	fn(j)
	return nil
}

// Search returns one page of active jobs matching filter. With a non-blank
// query only jobs scoring above zero are kept.
func (s *InMemoryJobStore) Search(_ context.Context, filter models.SearchFilter, page pagination.Params, order pagination.Sort) (models.Page, error) {
	terms := filter.Terms()

	s.mu.RLock()
	type scored struct {
		job   *models.Job
		score float64
	}
	var matches []scored
	for _, j := range s.jobs {
		if !filter.Matches(j) {
			continue
		}
		score := models.Relevance(j, terms)
		if len(terms) > 0 && score == 0 {
			continue
		}
		matches = append(matches, scored{job: j.Clone(), score: score})
	}
	s.mu.RUnlock()

	sort.SliceStable(matches, func(a, b int) bool {
		if order.Field == models.SortRelevance && matches[a].score != matches[b].score {
			return matches[a].score > matches[b].score
		}
		return models.Less(matches[a].job, matches[b].job, order)
	})

	jobs := make([]*models.Job, 0, len(matches))
	for _, m := range matches {
		jobs = append(jobs, m.job)
	}
	return paginate(jobs, page), nil
}

func (s *InMemoryJobStore) ListByEmployer(_ context.Context, employerID id.UserID, status models.StatusFilter, page pagination.Params, order pagination.Sort) (models.Page, error) {
	jobs := s.collect(func(j *models.Job) bool {
		return j.EmployerID == employerID && status.Includes(j.IsActive)
	})
	sortJobs(jobs, order)
	return paginate(jobs, page), nil
}

// ListFeatured returns up to limit active featured jobs, newest first.
func (s *InMemoryJobStore) ListFeatured(_ context.Context, limit int) ([]*models.Job, error) {
	jobs := s.collect(func(j *models.Job) bool { return j.IsActive && j.IsFeatured })
	sortJobs(jobs, pagination.NewestFirst)
	if len(jobs) > limit {
		jobs = jobs[:limit]
	}
	return jobs, nil
}

func (s *InMemoryJobStore) EmployerSummary(_ context.Context, employerID id.UserID) (models.EmployerSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sum models.EmployerSummary
	for _, j := range s.jobs {
		if j.EmployerID != employerID {
			continue
		}
		sum.TotalJobs++
		if j.IsActive {
			sum.ActiveJobs++
		} else {
			sum.InactiveJobs++
		}
		sum.TotalViews += j.ViewsCount
		sum.TotalApplications += j.ApplicationsCount
	}
	return sum, nil
}

func (s *InMemoryJobStore) collect(keep func(*models.Job) bool) []*models.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Job
	for _, j := range s.jobs {
		if keep(j) {
			out = append(out, j.Clone())
		}
	}
	return out
}

func sortJobs(jobs []*models.Job, order pagination.Sort) {
	sort.SliceStable(jobs, func(a, b int) bool {
		return models.Less(jobs[a], jobs[b], order)
	})
}

func paginate(jobs []*models.Job, page pagination.Params) models.Page {
	total := len(jobs)
	start := min(max(page.Skip(), 0), total)
	end := min(start+page.Limit, total)
	return models.Page{Jobs: jobs[start:end], Total: total}
}
