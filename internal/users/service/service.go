package service

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"hireme/internal/platform/metrics"
	"hireme/internal/users/models"
	id "hireme/pkg/domain"
	dErrors "hireme/pkg/domain-errors"
	"hireme/pkg/platform/sentinel"
	"hireme/pkg/requestcontext"
)

// UserStore persists accounts. Create returns sentinel.ErrAlreadyUsed for a
// taken email; lookups return sentinel.ErrNotFound.
type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Execute(ctx context.Context, userID id.UserID, fn func(*models.User) error) (*models.User, error)
}

// Service owns the user directory: registration, login and profile edits.
type Service struct {
	users      UserStore
	logger     *slog.Logger
	metrics    *metrics.Metrics
	bcryptCost int
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithBcryptCost overrides the hashing cost; tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		s.bcryptCost = cost
	}
}

func New(users UserStore, opts ...Option) *Service {
	s := &Service{users: users, bcryptCost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// RegisterInput is a validated registration request.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     id.Role
	Profile  models.Profile
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	hash, err := hashPassword(in.Password, s.bcryptCost)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeValidation) {
			return nil, err
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register user")
	}

	now := requestcontext.Now(ctx)
	user, err := models.NewUser(id.NewUserID(), in.Name, in.Email, hash, in.Role, in.Profile, now)
	if err != nil {
		return nil, wrapUserErr(err)
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "User already exists with this email")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register user")
	}

	s.metrics.IncrementUsersRegistered(string(user.Role))
	s.logger.InfoContext(ctx, "user registered",
		"user_id", user.ID,
		"role", user.Role,
		"request_id", requestcontext.RequestID(ctx),
	)
	return user, nil
}

// Authenticate checks credentials and stamps lastLogin. Unknown email, wrong
// password and deactivated accounts are all CodeUnauthorized.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.IncrementLoginFailures()
			return nil, dErrors.New(dErrors.CodeUnauthorized, "Invalid credentials")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}

	ok, err := verifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify credentials")
	}
	if !ok {
		s.metrics.IncrementLoginFailures()
		s.logger.WarnContext(ctx, "login rejected - bad password",
			"user_id", user.ID,
			"client_ip", requestcontext.ClientIP(ctx),
		)
		return nil, dErrors.New(dErrors.CodeUnauthorized, "Invalid credentials")
	}
	if !user.IsActive {
		s.metrics.IncrementLoginFailures()
		return nil, dErrors.New(dErrors.CodeUnauthorized, "Account is deactivated")
	}

	now := requestcontext.Now(ctx)
	updated, err := s.users.Execute(ctx, user.ID, func(u *models.User) error {
		u.RecordLogin(now)
		return nil
	})
	if err != nil {
		return nil, wrapUserErr(err)
	}
	return updated, nil
}

func (s *Service) GetProfile(ctx context.Context, userID id.UserID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, wrapUserErr(err)
	}
	return user, nil
}

// FindByID is the lookup other contexts use, e.g. to copy a resume reference.
func (s *Service) FindByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	return s.GetProfile(ctx, userID)
}

func (s *Service) UpdateProfile(ctx context.Context, userID id.UserID, patch models.ProfilePatch) (*models.User, error) {
	now := requestcontext.Now(ctx)
	user, err := s.users.Execute(ctx, userID, func(u *models.User) error {
		return u.ApplyProfile(patch, now)
	})
	if err != nil {
		return nil, wrapUserErr(err)
	}
	return user, nil
}

func (s *Service) Deactivate(ctx context.Context, userID id.UserID) error {
	now := requestcontext.Now(ctx)
	_, err := s.users.Execute(ctx, userID, func(u *models.User) error {
		u.Deactivate(now)
		return nil
	})
	if err != nil {
		return wrapUserErr(err)
	}
	s.logger.InfoContext(ctx, "account deactivated", "user_id", userID, "log_type", "audit")
	return nil
}

func wrapUserErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "User not found")
	case dErrors.HasCode(err, dErrors.CodeInvariantViolation):
		de, _ := dErrors.As(err)
		return dErrors.NewValidation(de.Message, de.Fields...)
	}
	if _, ok := dErrors.As(err); ok {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "user store failure")
}
