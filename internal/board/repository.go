// AngelaMos | 2026
// repository.go

package board

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/joonyo2/yugwan/internal/core"
)

type Repository interface {
	Get(ctx context.Context, boardType string) (*Policy, error)
	List(ctx context.Context, activeOnly bool) ([]Policy, error)
	Upsert(ctx context.Context, policy *Policy) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Get(ctx context.Context, boardType string) (*Policy, error) {
	query := `
		SELECT board_type, read_permission, write_permission, is_active, updated_at
		FROM board_permissions
		WHERE board_type = $1`

	var policy Policy
	err := r.db.GetContext(ctx, &policy, query, boardType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get board policy: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get board policy: %w", err)
	}

	return &policy, nil
}

func (r *repository) List(ctx context.Context, activeOnly bool) ([]Policy, error) {
	q := core.Psql.
		Select("board_type", "read_permission", "write_permission", "is_active", "updated_at").
		From("board_permissions").
		OrderBy("board_type")

	if activeOnly {
		q = q.Where("is_active = TRUE")
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list board policies: %w", err)
	}

	policies := []Policy{}
	if err := r.db.SelectContext(ctx, &policies, query, args...); err != nil {
		return nil, fmt.Errorf("list board policies: %w", err)
	}

	return policies, nil
}

// Upsert relies on the board_type primary key so there is never more than
// one policy per board.
func (r *repository) Upsert(ctx context.Context, policy *Policy) error {
	query := `
		INSERT INTO board_permissions (
			board_type, read_permission, write_permission, is_active
		) VALUES ($1, $2, $3, $4)
		ON CONFLICT (board_type) DO UPDATE
		SET read_permission = EXCLUDED.read_permission,
		    write_permission = EXCLUDED.write_permission,
		    is_active = EXCLUDED.is_active,
		    updated_at = NOW()
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &policy.UpdatedAt, query,
		policy.BoardType,
		policy.ReadPermission,
		policy.WritePermission,
		policy.IsActive,
	)
	if err != nil {
		return fmt.Errorf("upsert board policy: %w", err)
	}

	return nil
}
