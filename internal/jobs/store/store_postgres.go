package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"hireme/internal/jobs/models"
	"hireme/internal/platform/postgres"
	id "hireme/pkg/domain"
	"hireme/pkg/platform/pagination"
	"hireme/pkg/platform/sentinel"
	"hireme/pkg/platform/tx"
)

const jobColumns = `id, employer_id, title, description, company, location, job_type, work_mode,
	salary_min, salary_max, salary_currency, salary_period, experience_min, experience_max,
	education, skills, benefits, tags, application_deadline, is_active, is_featured,
	applications_count, views_count, created_at, updated_at`

var sortColumns = map[string]string{
	models.SortCreatedAt:           "created_at",
	models.SortUpdatedAt:           "updated_at",
	models.SortTitle:               "lower(title)",
	models.SortCompany:             "lower(company)",
	models.SortApplicationsCount:   "applications_count",
	models.SortViewsCount:          "views_count",
	models.SortApplicationDeadline: "application_deadline",
}

// PostgresStore persists postings in the jobs table. Text search runs over the
// generated search_vector column.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, j *models.Job) error {
	args := append(jobArgs(j), j.ApplicationsCount, j.ViewsCount, j.CreatedAt, j.SearchDocument())
	_, err := tx.Querier(ctx, s.db).ExecContext(ctx, `
		INSERT INTO jobs (`+jobColumns+`, search_document)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
			$19, $20, $21, $23, $24, $25, $22, $26)`,
		args...,
	)
	if err != nil {
		if postgres.IsUniqueViolation(err, "") {
			return sentinel.ErrAlreadyUsed
		}
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByID(ctx context.Context, jobID id.JobID) (*models.Job, error) {
	row := tx.Querier(ctx, s.db).QueryRowContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id = $1`, uuid.UUID(jobID))
	j, err := scanJob(row)
	if err != nil {
		return nil, fmt.Errorf("find job: %w", err)
	}
	return j, nil
}

// Execute locks the row, applies fn and writes every mutable column back.
// Counters are left alone so concurrent increments are never overwritten.
func (s *PostgresStore) Execute(ctx context.Context, jobID id.JobID, fn func(*models.Job) error) (*models.Job, error) {
	var updated *models.Job
	err := tx.RunInTx(ctx, s.db, func(ctx context.Context, q tx.DBTX) error {
		row := q.QueryRowContext(ctx,
			`SELECT `+jobColumns+` FROM jobs WHERE id = $1 FOR UPDATE`, uuid.UUID(jobID))
		j, err := scanJob(row)
		if err != nil {
			return err
		}
		if err := fn(j); err != nil {
			return err
		}
		args := append(jobArgs(j), j.SearchDocument())
		_, err = q.ExecContext(ctx, `
			UPDATE jobs SET title = $3, description = $4, company = $5, location = $6,
				job_type = $7, work_mode = $8, salary_min = $9, salary_max = $10,
				salary_currency = $11, salary_period = $12, experience_min = $13,
				experience_max = $14, education = $15, skills = $16, benefits = $17, tags = $18,
				application_deadline = $19, is_active = $20, is_featured = $21,
				updated_at = $22, search_document = $23
			WHERE id = $1 AND employer_id = $2`,
			args...,
		)
		if err != nil {
			return fmt.Errorf("update job: %w", err)
		}
		updated = j
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *PostgresStore) IncrementViews(ctx context.Context, jobID id.JobID) error {
	return s.bump(ctx, jobID, "views_count")
}

func (s *PostgresStore) IncrementApplications(ctx context.Context, jobID id.JobID) error {
	return s.bump(ctx, jobID, "applications_count")
}

// bump is a single atomic UPDATE so concurrent increments are never lost.
func (s *PostgresStore) bump(ctx context.Context, jobID id.JobID, column string) error {
	res, err := tx.Querier(ctx, s.db).ExecContext(ctx,
		`UPDATE jobs SET `+column+` = `+column+` + 1 WHERE id = $1`, uuid.UUID(jobID))
	if err != nil {
		return fmt.Errorf("increment %s: %w", column, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("increment %s: %w", column, err)
	}
	if n == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Search(ctx context.Context, filter models.SearchFilter, page pagination.Params, order pagination.Sort) (models.Page, error) {
	w := where{}
	w.add("is_active = TRUE")
	query := strings.TrimSpace(filter.Query)
	var tsArg string
	if query != "" {
		tsArg = w.arg(query)
		w.add("search_vector @@ websearch_to_tsquery('english', " + tsArg + ")")
	}
	if filter.Location != "" {
		w.add("location ILIKE " + w.arg("%"+escapeLike(filter.Location)+"%"))
	}
	if filter.WorkMode != "" {
		w.add("work_mode = " + w.arg(string(filter.WorkMode)))
	}
	if filter.JobType != "" {
		w.add("job_type = " + w.arg(string(filter.JobType)))
	}
	switch {
	case filter.MinSalary != nil && filter.MaxSalary != nil:
		w.add("(salary_max >= " + w.arg(*filter.MinSalary) + " OR salary_min <= " + w.arg(*filter.MaxSalary) + ")")
	case filter.MinSalary != nil:
		w.add("salary_max >= " + w.arg(*filter.MinSalary))
	case filter.MaxSalary != nil:
		w.add("salary_min <= " + w.arg(*filter.MaxSalary))
	}
	if filter.MaxExperience != nil {
		w.add("experience_min <= " + w.arg(*filter.MaxExperience))
	}
	if len(filter.Tags) > 0 {
		tags := make([]string, len(filter.Tags))
		for i, t := range filter.Tags {
			tags[i] = strings.ToLower(strings.TrimSpace(t))
		}
		w.add("tags && " + w.arg(pq.Array(tags)))
	}

	orderBy := orderClause(order)
	if order.Field == models.SortRelevance && tsArg != "" {
		orderBy = "ts_rank(search_vector, websearch_to_tsquery('english', " + tsArg + ")) DESC, created_at DESC, id"
	}
	return s.page(ctx, w, orderBy, page)
}

func (s *PostgresStore) ListByEmployer(ctx context.Context, employerID id.UserID, status models.StatusFilter, page pagination.Params, order pagination.Sort) (models.Page, error) {
	w := where{}
	w.add("employer_id = " + w.arg(uuid.UUID(employerID)))
	switch status {
	case models.StatusActive:
		w.add("is_active = TRUE")
	case models.StatusInactive:
		w.add("is_active = FALSE")
	}
	return s.page(ctx, w, orderClause(order), page)
}

func (s *PostgresStore) ListFeatured(ctx context.Context, limit int) ([]*models.Job, error) {
	rows, err := tx.Querier(ctx, s.db).QueryContext(ctx, `
		SELECT `+jobColumns+` FROM jobs
		WHERE is_active = TRUE AND is_featured = TRUE
		ORDER BY created_at DESC, id
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list featured jobs: %w", err)
	}
	return scanJobs(rows)
}

func (s *PostgresStore) EmployerSummary(ctx context.Context, employerID id.UserID) (models.EmployerSummary, error) {
	var sum models.EmployerSummary
	err := tx.Querier(ctx, s.db).QueryRowContext(ctx, `
		SELECT count(*),
			count(*) FILTER (WHERE is_active),
			count(*) FILTER (WHERE NOT is_active),
			coalesce(sum(views_count), 0),
			coalesce(sum(applications_count), 0)
		FROM jobs WHERE employer_id = $1`, uuid.UUID(employerID),
	).Scan(&sum.TotalJobs, &sum.ActiveJobs, &sum.InactiveJobs, &sum.TotalViews, &sum.TotalApplications)
	if err != nil {
		return models.EmployerSummary{}, fmt.Errorf("employer job summary: %w", err)
	}
	return sum, nil
}

func (s *PostgresStore) page(ctx context.Context, w where, orderBy string, page pagination.Params) (models.Page, error) {
	q := tx.Querier(ctx, s.db)
	cond := w.String()

	var total int
	if err := q.QueryRowContext(ctx, `SELECT count(*) FROM jobs WHERE `+cond, w.args...).Scan(&total); err != nil {
		return models.Page{}, fmt.Errorf("count jobs: %w", err)
	}

	limitArg := w.arg(page.Limit)
	offsetArg := w.arg(page.Skip())
	rows, err := q.QueryContext(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE `+cond+` ORDER BY `+orderBy+` LIMIT `+limitArg+` OFFSET `+offsetArg,
		w.args...)
	if err != nil {
		return models.Page{}, fmt.Errorf("list jobs: %w", err)
	}
	jobs, err := scanJobs(rows)
	if err != nil {
		return models.Page{}, err
	}
	return models.Page{Jobs: jobs, Total: total}, nil
}

// where accumulates AND-ed conditions with positional arguments.
type where struct {
	conds []string
	args  []any
}

func (w *where) add(cond string) {
	w.conds = append(w.conds, cond)
}

func (w *where) arg(v any) string {
	w.args = append(w.args, v)
	return "$" + strconv.Itoa(len(w.args))
}

func (w *where) String() string {
	return strings.Join(w.conds, " AND ")
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
	nulls := ""
	if order.Field == models.SortApplicationDeadline {
		nulls = " NULLS LAST"
	}
	return col + " " + dir + nulls + ", created_at DESC, id"
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// jobArgs lists the columns $1..$22 shared by insert and update, ending with updated_at.
func jobArgs(j *models.Job) []any {
	var (
		salaryMin, salaryMax         sql.NullFloat64
		salaryCurrency, salaryPeriod sql.NullString
		expMax                       sql.NullInt64
	)
	if s := j.Salary; s != nil {
		if s.Min != nil {
			salaryMin = sql.NullFloat64{Float64: *s.Min, Valid: true}
		}
		if s.Max != nil {
			salaryMax = sql.NullFloat64{Float64: *s.Max, Valid: true}
		}
		salaryCurrency = sql.NullString{String: string(s.Currency), Valid: true}
		salaryPeriod = sql.NullString{String: string(s.Period), Valid: true}
	}
	if m := j.Requirements.Experience.Max; m != nil {
		expMax = sql.NullInt64{Int64: int64(*m), Valid: true}
	}
	var deadline sql.NullTime
	if j.ApplicationDeadline != nil {
		deadline = sql.NullTime{Time: *j.ApplicationDeadline, Valid: true}
	}
	return []any{
		uuid.UUID(j.ID), uuid.UUID(j.EmployerID), j.Title, j.Description, j.Company, j.Location,
		string(j.JobType), string(j.WorkMode), salaryMin, salaryMax, salaryCurrency, salaryPeriod,
		j.Requirements.Experience.Min, expMax, string(j.Requirements.Education),
		postgres.StringArray(j.Requirements.Skills), postgres.StringArray(j.Benefits),
		postgres.StringArray(j.Tags), deadline, j.IsActive, j.IsFeatured, j.UpdatedAt,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*models.Job, error) {
	var (
		j                            models.Job
		rawID, rawEmployer           uuid.UUID
		jobType, workMode, education string
		salaryMin, salaryMax         sql.NullFloat64
		salaryCurrency, salaryPeriod sql.NullString
		expMax                       sql.NullInt64
		skills, benefits, tags       pq.StringArray
		deadline                     sql.NullTime
	)
	err := row.Scan(&rawID, &rawEmployer, &j.Title, &j.Description, &j.Company, &j.Location,
		&jobType, &workMode, &salaryMin, &salaryMax, &salaryCurrency, &salaryPeriod,
		&j.Requirements.Experience.Min, &expMax, &education, &skills, &benefits, &tags,
		&deadline, &j.IsActive, &j.IsFeatured, &j.ApplicationsCount, &j.ViewsCount,
		&j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, err
	}
	j.ID = id.JobID(rawID)
	j.EmployerID = id.UserID(rawEmployer)
	j.JobType = models.JobType(jobType)
	j.WorkMode = models.WorkMode(workMode)
	j.Requirements.Education = models.Education(education)
	if salaryCurrency.Valid {
		j.Salary = &models.Salary{
			Currency: id.Currency(salaryCurrency.String),
			Period:   id.PayPeriod(salaryPeriod.String),
		}
		if salaryMin.Valid {
			v := salaryMin.Float64
			j.Salary.Min = &v
		}
		if salaryMax.Valid {
			v := salaryMax.Float64
			j.Salary.Max = &v
		}
	}
	if expMax.Valid {
		v := int(expMax.Int64)
		j.Requirements.Experience.Max = &v
	}
	if deadline.Valid {
		t := deadline.Time
		j.ApplicationDeadline = &t
	}
	j.Requirements.Skills = nonNil(skills)
	j.Benefits = nonNil(benefits)
	j.Tags = nonNil(tags)
	return &j, nil
}

func scanJobs(rows *sql.Rows) ([]*models.Job, error) {
	defer rows.Close()
	jobs := []*models.Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	return jobs, nil
}

func nonNil(values pq.StringArray) []string {
	if values == nil {
		return []string{}
	}
	return []string(values)
}
