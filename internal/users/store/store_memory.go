package store

import (
	"context"
	"slices"
	"sync"

	"hireme/internal/users/models"
	id "hireme/pkg/domain"
	"hireme/pkg/platform/sentinel"
)

// InMemoryUserStore keeps accounts in maps guarded by a single RWMutex.
// Records are copied on the way in and out so callers never share state.
type InMemoryUserStore struct {
	mu      sync.RWMutex
	users   map[id.UserID]*models.User
	byEmail map[string]id.UserID
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{
		users:   make(map[id.UserID]*models.User),
		byEmail: make(map[string]id.UserID),
	}
}

// Create inserts u; returns sentinel.ErrAlreadyUsed when the email is taken.
func (s *InMemoryUserStore) Create(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[u.Email]; taken {
		return sentinel.ErrAlreadyUsed
	}
	s.users[u.ID] = clone(u)
	s.byEmail[u.Email] = u.ID
	return nil
}

func (s *InMemoryUserStore) FindByID(_ context.Context, userID id.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(u), nil
}

func (s *InMemoryUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	userID, ok := s.byEmail[email]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(s.users[userID]), nil
}

// Execute applies fn to a copy of the user under the write lock and stores
// the copy only when fn succeeds.
func (s *InMemoryUserStore) Execute(_ context.Context, userID id.UserID, fn func(*models.User) error) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.users[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	next := clone(current)
	if err := fn(next); err != nil {
		return nil, err
	}
	s.users[userID] = next
	return clone(next), nil
}

func clone(u *models.User) *models.User {
	c := *u
	c.Skills = slices.Clone(u.Skills)
	if u.LastLogin != nil {
		t := *u.LastLogin
		c.LastLogin = &t
	}
	return &c
}
