// AngelaMos | 2026
// repository.go

package contest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/joonyo2/yugwan/internal/core"
)

type Repository interface {
	Create(ctx context.Context, app *Application) error
	Get(ctx context.Context, id int64) (*Application, error)
	GetForUpdate(ctx context.Context, id int64) (*Application, error)
	FindLatest(ctx context.Context, email, phone string) (*Application, error)
	List(ctx context.Context, f ListFilter) ([]Application, int, error)
	UpdateStatus(ctx context.Context, app *Application) error
}

const applicationColumns = `
	id, contest_year, name, birth_date, school_name, grade, division,
	speech_title, parent_name, contact_parent, teacher_name, email, address,
	script_file, status, admin_memo, reject_reason, rules_agreed,
	privacy_agreed, news_agreed, created_at, updated_at`

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, app *Application) error {
	query := `
		INSERT INTO contest_applications (
			contest_year, name, birth_date, school_name, grade, division,
			speech_title, parent_name, contact_parent, teacher_name, email,
			address, script_file, status, rules_agreed, privacy_agreed,
			news_agreed
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		app.ContestYear,
		app.Name,
		app.BirthDate,
		app.SchoolName,
		app.Grade,
		app.Division,
		app.SpeechTitle,
		app.ParentName,
		app.ContactParent,
		app.TeacherName,
		app.Email,
		app.Address,
		app.ScriptFile,
		app.Status,
		app.RulesAgreed,
		app.PrivacyAgreed,
		app.NewsAgreed,
	).Scan(&app.ID, &app.CreatedAt, &app.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create contest application: %w", err)
	}

	return nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Application, error) {
	query := `SELECT` + applicationColumns + `
		FROM contest_applications
		WHERE id = $1`

	var app Application
	err := r.db.GetContext(ctx, &app, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get contest application: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get contest application: %w", err)
	}

	return &app, nil
}

// GetForUpdate locks the row until the surrounding transaction ends.
func (r *repository) GetForUpdate(ctx context.Context, id int64) (*Application, error) {
	query := `SELECT` + applicationColumns + `
		FROM contest_applications
		WHERE id = $1
		FOR UPDATE`

	var app Application
	err := r.db.GetContext(ctx, &app, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("lock contest application: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("lock contest application: %w", err)
	}

	return &app, nil
}

func (r *repository) FindLatest(ctx context.Context, email, phone string) (*Application, error) {
	query := `SELECT` + applicationColumns + `
		FROM contest_applications
		WHERE email = $1 AND contact_parent = $2
		ORDER BY created_at DESC
		LIMIT 1`

	var app Application
	err := r.db.GetContext(ctx, &app, query, email, phone)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find contest application: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find contest application: %w", err)
	}

	return &app, nil
}

func (r *repository) List(ctx context.Context, f ListFilter) ([]Application, int, error) {
	where := sq.And{}
	if f.Year > 0 {
		where = append(where, sq.Eq{"contest_year": f.Year})
	}
	if f.Status != "" {
		where = append(where, sq.Eq{"status": f.Status})
	}
	if f.Division != "" {
		where = append(where, sq.Eq{"division": f.Division})
	}

	countQuery, args, err := core.Psql.
		Select("COUNT(*)").
		From("contest_applications").
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count contest applications: %w", err)
	}

	query, args, err := core.Psql.
		Select(applicationColumns).
		From("contest_applications").
		Where(where).
		OrderBy("created_at DESC").
		Limit(uint64(f.PageSize)).                 //nolint:gosec // normalized positive
		Offset(uint64((f.Page - 1) * f.PageSize)). //nolint:gosec // normalized positive
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list query: %w", err)
	}

	apps := []Application{}
	if err := r.db.SelectContext(ctx, &apps, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list contest applications: %w", err)
	}

	return apps, total, nil
}

func (r *repository) UpdateStatus(ctx context.Context, app *Application) error {
	query := `
		UPDATE contest_applications
		SET status = $2, admin_memo = $3, reject_reason = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		app.ID,
		app.Status,
		app.AdminMemo,
		app.RejectReason,
	).Scan(&app.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update contest status: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update contest status: %w", err)
	}

	return nil
}
