// AngelaMos | 2026
// repository.go

package popup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/joonyo2/yugwan/internal/core"
)

type Repository interface {
	ListVisible(ctx context.Context, now time.Time) ([]Popup, error)
	List(ctx context.Context) ([]Popup, error)
	Get(ctx context.Context, id int64) (*Popup, error)
	Create(ctx context.Context, p *Popup) error
	Update(ctx context.Context, p *Popup) error
	Delete(ctx context.Context, id int64) error
}

const popupColumns = `
	id, title, pc_image_url, mobile_image_url, link_url, start_at, end_at,
	is_active, created_at`

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) ListVisible(ctx context.Context, now time.Time) ([]Popup, error) {
	query := `SELECT` + popupColumns + `
		FROM popups
		WHERE is_active = TRUE AND start_at <= $1 AND end_at >= $1
		ORDER BY created_at DESC`

	popups := []Popup{}
	if err := r.db.SelectContext(ctx, &popups, query, now); err != nil {
		return nil, fmt.Errorf("list visible popups: %w", err)
	}

	return popups, nil
}

func (r *repository) List(ctx context.Context) ([]Popup, error) {
	query := `SELECT` + popupColumns + `
		FROM popups
		ORDER BY created_at DESC`

	popups := []Popup{}
	if err := r.db.SelectContext(ctx, &popups, query); err != nil {
		return nil, fmt.Errorf("list popups: %w", err)
	}

	return popups, nil
}

func (r *repository) Get(ctx context.Context, id int64) (*Popup, error) {
	query := `SELECT` + popupColumns + `
		FROM popups
		WHERE id = $1`

	var p Popup
	err := r.db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get popup: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get popup: %w", err)
	}

	return &p, nil
}

func (r *repository) Create(ctx context.Context, p *Popup) error {
	query := `
		INSERT INTO popups (
			title, pc_image_url, mobile_image_url, link_url, start_at, end_at,
			is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		p.Title,
		p.PCImageURL,
		p.MobileImageURL,
		p.LinkURL,
		p.StartAt,
		p.EndAt,
		p.IsActive,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("create popup: %w", err)
	}

	return nil
}

func (r *repository) Update(ctx context.Context, p *Popup) error {
	query := `
		UPDATE popups
		SET title = $2,
		    pc_image_url = $3,
		    mobile_image_url = $4,
		    link_url = $5,
		    start_at = $6,
		    end_at = $7,
		    is_active = $8
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Title,
		p.PCImageURL,
		p.MobileImageURL,
		p.LinkURL,
		p.StartAt,
		p.EndAt,
		p.IsActive,
	)
	if err != nil {
		return fmt.Errorf("update popup: %w", err)
	}

	return requireOneRow(result, "update popup")
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM popups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete popup: %w", err)
	}

	return requireOneRow(result, "delete popup")
}

func requireOneRow(result sql.Result, op string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	return nil
}
