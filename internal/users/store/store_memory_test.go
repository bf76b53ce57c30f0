package store

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"hireme/internal/users/models"
	id "hireme/pkg/domain"
	dErrors "hireme/pkg/domain-errors"
	"hireme/pkg/platform/sentinel"
)

type InMemoryUserStoreSuite struct {
	suite.Suite
	store *InMemoryUserStore
}

func (s *InMemoryUserStoreSuite) SetupTest() {
	s.store = NewInMemoryUserStore()
}

func TestInMemoryUserStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryUserStoreSuite))
}

func newSeeker(email string) *models.User {
	now := time.Now()
	return &models.User{
		ID:           id.NewUserID(),
		Name:         "Jane Doe",
		Email:        email,
		PasswordHash: "hash",
		Role:         id.RoleJobSeeker,
		Skills:       []string{"go"},
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (s *InMemoryUserStoreSuite) TestLookup() {
	ctx := context.Background()
	user := newSeeker("jane.doe@example.com")
	s.Require().NoError(s.store.Create(ctx, user))

	s.Run("by id", func() {
		found, err := s.store.FindByID(ctx, user.ID)
		s.Require().NoError(err)
		s.Equal(user, found)
	})

	s.Run("by email", func() {
		found, err := s.store.FindByEmail(ctx, "jane.doe@example.com")
		s.Require().NoError(err)
		s.Equal(user.ID, found.ID)
	})

	s.Run("missing id", func() {
		_, err := s.store.FindByID(ctx, id.NewUserID())
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("missing email", func() {
		_, err := s.store.FindByEmail(ctx, "missing@example.com")
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returned copies are detached", func() {
		found, err := s.store.FindByID(ctx, user.ID)
		s.Require().NoError(err)
		found.Skills[0] = "mutated"
		again, err := s.store.FindByID(ctx, user.ID)
		s.Require().NoError(err)
		s.Equal("go", again.Skills[0])
	})
}

func (s *InMemoryUserStoreSuite) TestDuplicateEmail() {
	ctx := context.Background()
	s.Require().NoError(s.store.Create(ctx, newSeeker("dup@example.com")))
	err := s.store.Create(ctx, newSeeker("dup@example.com"))
	s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed)
}

func (s *InMemoryUserStoreSuite) TestConcurrentRegistrationSameEmail() {
	ctx := context.Background()
	const goroutines = 50

	var wg sync.WaitGroup
	var successCount, conflictCount atomic.Int32
	for range goroutines {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.store.Create(ctx, newSeeker("race@example.com"))
			switch {
			case err == nil:
				successCount.Add(1)
			case err == sentinel.ErrAlreadyUsed:
				conflictCount.Add(1)
			}
		}()
	}
	wg.Wait()

	s.Equal(int32(1), successCount.Load())
	s.Equal(int32(goroutines-1), conflictCount.Load())
}

func (s *InMemoryUserStoreSuite) TestExecute() {
	ctx := context.Background()
	user := newSeeker("exec@example.com")
	s.Require().NoError(s.store.Create(ctx, user))

	s.Run("persists successful mutation", func() {
		updated, err := s.store.Execute(ctx, user.ID, func(u *models.User) error {
			u.Location = "Berlin"
			return nil
		})
		s.Require().NoError(err)
		s.Equal("Berlin", updated.Location)

		found, err := s.store.FindByID(ctx, user.ID)
		s.Require().NoError(err)
		s.Equal("Berlin", found.Location)
	})

	s.Run("discards failed mutation", func() {
		_, err := s.store.Execute(ctx, user.ID, func(u *models.User) error {
			u.Location = "Paris"
			return dErrors.New(dErrors.CodeInvariantViolation, "nope")
		})
		s.Require().Error(err)

		found, err := s.store.FindByID(ctx, user.ID)
		s.Require().NoError(err)
		s.Equal("Berlin", found.Location)
	})

	s.Run("missing user", func() {
		_, err := s.store.Execute(ctx, id.NewUserID(), func(*models.User) error { return nil })
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})
}
