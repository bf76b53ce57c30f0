package store

import (
	"context"
	"sort"
	"sync"

	"hireme/internal/applications/models"
	id "hireme/pkg/domain"
	"hireme/pkg/platform/sentinel"
)

type pairKey struct {
	job       id.JobID
	applicant id.UserID
}

// InMemoryApplicationStore keeps applications in maps guarded by one mutex.
// The (job, applicant) index is checked and written under the same lock, so
// concurrent duplicates resolve to exactly one winner.
type InMemoryApplicationStore struct {
	mu    sync.RWMutex
	apps  map[id.ApplicationID]*models.Application
	pairs map[pairKey]id.ApplicationID
}

func NewInMemoryApplicationStore() *InMemoryApplicationStore {
	return &InMemoryApplicationStore{
		apps:  make(map[id.ApplicationID]*models.Application),
		pairs: make(map[pairKey]id.ApplicationID),
	}
}

// Create returns sentinel.ErrAlreadyUsed when the applicant already has an
// application for the job, withdrawn or not.
func (s *InMemoryApplicationStore) Create(_ context.Context, a *models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey{job: a.JobID, applicant: a.ApplicantID}
	if _, taken := s.pairs[key]; taken {
		return sentinel.ErrAlreadyUsed
	}
	s.apps[a.ID] = a.Clone()
	s.pairs[key] = a.ID
	return nil
}

func (s *InMemoryApplicationStore) FindByID(_ context.Context, appID id.ApplicationID) (*models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.apps[appID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return a.Clone(), nil
}

func (s *InMemoryApplicationStore) Execute(_ context.Context, appID id.ApplicationID, fn func(*models.Application) error) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.apps[appID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	s.apps[appID] = next
	return next.Clone(), nil
}

func (s *InMemoryApplicationStore) ListByJob(_ context.Context, jobID id.JobID, q models.ListQuery) (models.Page, error) {
	return s.list(q, func(a *models.Application) bool { return a.JobID == jobID }), nil
}

func (s *InMemoryApplicationStore) ListByApplicant(_ context.Context, applicantID id.UserID, q models.ListQuery) (models.Page, error) {
	return s.list(q, func(a *models.Application) bool { return a.ApplicantID == applicantID }), nil
}

// StatusCounts groups the employer's active applications by status.
func (s *InMemoryApplicationStore) StatusCounts(_ context.Context, employerID id.UserID) (map[models.Status]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[models.Status]int)
	for _, a := range s.apps {
		if a.IsActive && a.EmployerID == employerID {
			counts[a.Status]++
		}
	}
	return counts, nil
}

func (s *InMemoryApplicationStore) CountByEmployer(_ context.Context, employerID id.UserID) (int, error) {
	return s.count(func(a *models.Application) bool { return a.EmployerID == employerID }), nil
}

// CountByApplicant counts active applications, optionally of one status.
func (s *InMemoryApplicationStore) CountByApplicant(_ context.Context, applicantID id.UserID, status models.Status) (int, error) {
	return s.count(func(a *models.Application) bool {
		return a.ApplicantID == applicantID && (status == "" || a.Status == status)
	}), nil
}

func (s *InMemoryApplicationStore) count(match func(*models.Application) bool) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, a := range s.apps {
		if a.IsActive && match(a) {
			n++
		}
	}
	return n
}

func (s *InMemoryApplicationStore) list(q models.ListQuery, match func(*models.Application) bool) models.Page {
	s.mu.RLock()
	var apps []*models.Application
	for _, a := range s.apps {
		if match(a) && q.Includes(a) {
			apps = append(apps, a.Clone())
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(apps, func(i, j int) bool {
		return models.Less(apps[i], apps[j], q.Sort)
	})
	total := len(apps)
	start := min(max(q.Page.Skip(), 0), total)
	end := min(start+q.Page.Limit, total)
	return models.Page{Applications: apps[start:end], Total: total}
}
