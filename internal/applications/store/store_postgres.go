package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"hireme/internal/applications/models"
	"hireme/internal/platform/postgres"
	id "hireme/pkg/domain"
	"hireme/pkg/platform/pagination"
	"hireme/pkg/platform/sentinel"
	"hireme/pkg/platform/tx"
)

const applicationColumns = `id, job_id, applicant_id, employer_id, cover_letter, resume,
	expected_salary_amount, expected_salary_currency, expected_salary_period, available_from,
	status, notes, is_active, reviewed_at, reviewed_by, created_at, updated_at`

const pairConstraint = "applications_job_applicant_key"

var sortColumns = map[string]string{
	models.SortCreatedAt: "created_at",
	models.SortUpdatedAt: "updated_at",
	models.SortStatus:    "status",
}

// PostgresStore persists applications. The applications_job_applicant_key
// constraint is the single source of truth for duplicate detection.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, a *models.Application) error {
	_, err := tx.Querier(ctx, s.db).ExecContext(ctx, `
		INSERT INTO applications (`+applicationColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		applicationArgs(a)...,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err, pairConstraint) {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, appID id.ApplicationID) (*models.Application, error) {
	row := tx.Querier(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE id = $1`, uuid.UUID(appID))
	a, err := scanApplication(row)
	if err != nil {
		return nil, fmt.Errorf("find application: %w", err)
	}
	return a, nil
}

func (s *PostgresStore) Execute(ctx context.Context, appID id.ApplicationID, fn func(*models.Application) error) (*models.Application, error) {
	var updated *models.Application
	err := tx.RunInTx(ctx, s.db, func(ctx context.Context, q tx.DBTX) error {
		row := q.QueryRowContext(ctx,
			`SELECT `+applicationColumns+` FROM applications WHERE id = $1 FOR UPDATE`, uuid.UUID(appID))
		a, err := scanApplication(row)
		if err != nil {
			return err
		}
		if err := fn(a); err != nil {
			return err
		}
		var reviewedBy any
		if a.ReviewedBy != nil {
			reviewedBy = uuid.UUID(*a.ReviewedBy)
		}
		_, err = q.ExecContext(ctx, `
			UPDATE applications SET status = $2, notes = $3, is_active = $4,
				reviewed_at = $5, reviewed_by = $6, updated_at = $7
			WHERE id = $1`,
			uuid.UUID(a.ID), string(a.Status), a.Notes, a.IsActive, a.ReviewedAt, reviewedBy, a.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("update application: %w", err)
		}
		updated = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *PostgresStore) ListByJob(ctx context.Context, jobID id.JobID, q models.ListQuery) (models.Page, error) {
	return s.list(ctx, "job_id", uuid.UUID(jobID), q)
}

func (s *PostgresStore) ListByApplicant(ctx context.Context, applicantID id.UserID, q models.ListQuery) (models.Page, error) {
	return s.list(ctx, "applicant_id", uuid.UUID(applicantID), q)
}

func (s *PostgresStore) StatusCounts(ctx context.Context, employerID id.UserID) (map[models.Status]int, error) {
	rows, err := tx.Querier(ctx, s.db).QueryContext(ctx, `
		SELECT status, count(*) FROM applications
		WHERE employer_id = $1 AND is_active = TRUE
		GROUP BY status`, uuid.UUID(employerID))
	if err != nil {
		return nil, fmt.Errorf("count applications by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.Status]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[models.Status(status)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status counts: %w", err)
	}
	return counts, nil
}

func (s *PostgresStore) CountByEmployer(ctx context.Context, employerID id.UserID) (int, error) {
	var n int
	err := tx.Querier(ctx, s.db).QueryRowContext(ctx,
		`SELECT count(*) FROM applications WHERE employer_id = $1 AND is_active = TRUE`,
		uuid.UUID(employerID)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count employer applications: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) CountByApplicant(ctx context.Context, applicantID id.UserID, status models.Status) (int, error) {
	var n int
	err := tx.Querier(ctx, s.db).QueryRowContext(ctx, `
		SELECT count(*) FROM applications
		WHERE applicant_id = $1 AND is_active = TRUE AND ($2::text = '' OR status = $2::text)`,
		uuid.UUID(applicantID), string(status)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count applicant applications: %w", err)
	}
	return n, nil
}

func (s *PostgresStore) list(ctx context.Context, column string, owner uuid.UUID, q models.ListQuery) (models.Page, error) {
	db := tx.Querier(ctx, s.db)
	cond := column + ` = $1 AND is_active = TRUE AND ($2::text = '' OR status = $2::text)`
	args := []any{owner, string(q.Status)}

	var total int
	if err := db.QueryRowContext(ctx, `SELECT count(*) FROM applications WHERE `+cond, args...).Scan(&total); err != nil {
		return models.Page{}, fmt.Errorf("count applications: %w", err)
	}

	rows, err := db.QueryContext(ctx,
		`SELECT `+applicationColumns+` FROM applications WHERE `+cond+
			` ORDER BY `+orderClause(q.Sort)+` LIMIT $3 OFFSET $4`,
		append(args, q.Page.Limit, q.Page.Skip())...)
	if err != nil {
		return models.Page{}, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	apps := []*models.Application{}
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return models.Page{}, fmt.Errorf("scan application: %w", err)
		}
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		return models.Page{}, fmt.Errorf("iterate applications: %w", err)
	}
	return models.Page{Applications: apps, Total: total}, nil
}

func orderClause(order pagination.Sort) string {
	col, ok := sortColumns[order.Field]
	if !ok {
		col = "created_at"
	}
	dir := "ASC"
	if order.Desc {
		dir = "DESC"
	}
	return col + " " + dir + ", created_at DESC, id"
}

func applicationArgs(a *models.Application) []any {
	var (
		amount           sql.NullFloat64
		currency, period sql.NullString
		availableFrom    sql.NullTime
		reviewedAt       sql.NullTime
		reviewedBy       any
	)
	if es := a.ExpectedSalary; es != nil {
		amount = sql.NullFloat64{Float64: es.Amount, Valid: true}
		currency = sql.NullString{String: string(es.Currency), Valid: true}
		period = sql.NullString{String: string(es.Period), Valid: true}
	}
	if a.AvailableFrom != nil {
		availableFrom = sql.NullTime{Time: *a.AvailableFrom, Valid: true}
	}
	if a.ReviewedAt != nil {
		reviewedAt = sql.NullTime{Time: *a.ReviewedAt, Valid: true}
	}
	if a.ReviewedBy != nil {
		reviewedBy = uuid.UUID(*a.ReviewedBy)
	}
	return []any{
		uuid.UUID(a.ID), uuid.UUID(a.JobID), uuid.UUID(a.ApplicantID), uuid.UUID(a.EmployerID),
		a.CoverLetter, a.Resume, amount, currency, period, availableFrom, string(a.Status), a.Notes,
		a.IsActive, reviewedAt, reviewedBy, a.CreatedAt, a.UpdatedAt,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanApplication(row rowScanner) (*models.Application, error) {
	var (
		a                                   models.Application
		rawID, rawJob, rawApplicant, rawEmp uuid.UUID
		amount                              sql.NullFloat64
		currency, period                    sql.NullString
		availableFrom, reviewedAt           sql.NullTime
		reviewedBy                          uuid.NullUUID
		status                              string
	)
	err := row.Scan(&rawID, &rawJob, &rawApplicant, &rawEmp, &a.CoverLetter, &a.Resume,
		&amount, &currency, &period, &availableFrom, &status, &a.Notes, &a.IsActive,
		&reviewedAt, &reviewedBy, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}
	a.ID = id.ApplicationID(rawID)
	a.JobID = id.JobID(rawJob)
	a.ApplicantID = id.UserID(rawApplicant)
	a.EmployerID = id.UserID(rawEmp)
	a.Status = models.Status(status)
	if amount.Valid {
		a.ExpectedSalary = &models.ExpectedSalary{
			Amount:   amount.Float64,
			Currency: id.Currency(currency.String),
			Period:   id.PayPeriod(period.String),
		}
	}
	if availableFrom.Valid {
		t := availableFrom.Time
		a.AvailableFrom = &t
	}
	if reviewedAt.Valid {
		t := reviewedAt.Time
		a.ReviewedAt = &t
	}
	if reviewedBy.Valid {
		r := id.UserID(reviewedBy.UUID)
		a.ReviewedBy = &r
	}
	return &a, nil
}
