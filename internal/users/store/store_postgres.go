package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"hireme/internal/platform/postgres"
	"hireme/internal/users/models"
	id "hireme/pkg/domain"
	"hireme/pkg/platform/sentinel"
	"hireme/pkg/platform/tx"
)

const userColumns = `id, name, email, password_hash, role, company, website, phone, location, bio,
	skills, resume, is_active, last_login, created_at, updated_at`

// PostgresStore persists accounts in the users table.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Create inserts u. The users_email_key constraint turns a duplicate email
// into sentinel.ErrAlreadyUsed.
func (s *PostgresStore) Create(ctx context.Context, u *models.User) error {
	_, err := tx.Querier(ctx, s.db).ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		uuid.UUID(u.ID), u.Name, u.Email, u.PasswordHash, string(u.Role), u.Company, u.Website,
		u.Phone, u.Location, u.Bio, postgres.StringArray(u.Skills), u.Resume, u.IsActive,
		u.LastLogin, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err, "users_email_key") {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, userID id.UserID) (*models.User, error) {
	row := tx.Querier(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, uuid.UUID(userID))
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	row := tx.Querier(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	u, err := scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return u, nil
}

// Execute locks the row with FOR UPDATE, applies fn and writes the result
// back in the same transaction.
func (s *PostgresStore) Execute(ctx context.Context, userID id.UserID, fn func(*models.User) error) (*models.User, error) {
	var updated *models.User
	err := tx.RunInTx(ctx, s.db, func(ctx context.Context, q tx.DBTX) error {
		row := q.QueryRowContext(ctx,
			`SELECT `+userColumns+` FROM users WHERE id = $1 FOR UPDATE`, uuid.UUID(userID))
		u, err := scanUser(row)
		if err != nil {
			return err
		}
		if err := fn(u); err != nil {
			return err
		}
		_, err = q.ExecContext(ctx, `
			UPDATE users SET name = $2, phone = $3, location = $4, bio = $5, skills = $6,
				company = $7, website = $8, resume = $9, is_active = $10, last_login = $11, updated_at = $12
			WHERE id = $1`,
			uuid.UUID(u.ID), u.Name, u.Phone, u.Location, u.Bio, postgres.StringArray(u.Skills),
			u.Company, u.Website, u.Resume, u.IsActive, u.LastLogin, u.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		updated = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u         models.User
		rawID     uuid.UUID
		role      string
		lastLogin sql.NullTime
		skills    pq.StringArray
	)
	err := row.Scan(&rawID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.Company, &u.Website,
		&u.Phone, &u.Location, &u.Bio, &skills, &u.Resume, &u.IsActive, &lastLogin,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}
	u.ID = id.UserID(rawID)
	u.Role = id.Role(role)
	u.Skills = []string(skills)
	if u.Skills == nil {
		u.Skills = []string{}
	}
	if lastLogin.Valid {
		t := lastLogin.Time
		u.LastLogin = &t
	}
	return &u, nil
}
