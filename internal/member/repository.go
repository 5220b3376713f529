// AngelaMos | 2026
// repository.go

package member

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/joonyo2/yugwan/internal/core"
)

type Repository interface {
	Create(ctx context.Context, m *Member) error
	GetByID(ctx context.Context, id string) (*Member, error)
	GetByLogin(ctx context.Context, login string) (*Member, error)
	GetForUpdate(ctx context.Context, id string) (*Member, error)
	Save(ctx context.Context, m *Member) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	IncrementTokenVersion(ctx context.Context, id string) error
	SoftDelete(ctx context.Context, id string) error
	List(ctx context.Context, params ListParams) ([]Member, int, error)
	Stats(ctx context.Context) (*Stats, error)
}

const memberColumns = `
	id, username, email, password_hash, name, tier, tier_approved_at,
	tier_approved_by, admin_level, is_superuser, is_staff, is_active, phone,
	address, birth_date, occupation, join_source, join_message,
	marketing_agreed, token_version, created_at, updated_at, deleted_at`

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, m *Member) error {
	m.syncAdminLevel()

	query := `
		INSERT INTO users (
			id, username, email, password_hash, name, tier, admin_level,
			is_superuser, is_staff, is_active, phone, address, birth_date,
			occupation, join_source, join_message, marketing_agreed
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17
		)
		RETURNING created_at, updated_at, token_version`

	err := r.db.QueryRowxContext(ctx, query,
		m.ID,
		m.Username,
		m.Email,
		m.PasswordHash,
		m.Name,
		m.Tier,
		m.AdminLevel,
		m.IsSuperuser,
		m.IsStaff,
		m.IsActive,
		m.Phone,
		m.Address,
		m.BirthDate,
		m.Occupation,
		m.JoinSource,
		m.JoinMessage,
		m.MarketingAgreed,
	).Scan(&m.CreatedAt, &m.UpdatedAt, &m.TokenVersion)
	if err != nil {
		return fmt.Errorf("create member: %w", translateDuplicate(err))
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Member, error) {
	query := `SELECT` + memberColumns + `
		FROM users
		WHERE id = $1 AND deleted_at IS NULL`

	return r.getOne(ctx, "get member", query, id)
}

// GetByLogin matches the handle exactly or the email case-insensitively.
func (r *repository) GetByLogin(ctx context.Context, login string) (*Member, error) {
	query := `SELECT` + memberColumns + `
		FROM users
		WHERE (username = $1 OR lower(email) = lower($1))
			AND deleted_at IS NULL
		LIMIT 1`

	return r.getOne(ctx, "get member by login", query, login)
}

// GetForUpdate locks the row until the surrounding transaction ends. It
// must be called on a transaction handle.
func (r *repository) GetForUpdate(ctx context.Context, id string) (*Member, error) {
	query := `SELECT` + memberColumns + `
		FROM users
		WHERE id = $1 AND deleted_at IS NULL
		FOR UPDATE`

	return r.getOne(ctx, "lock member", query, id)
}

func (r *repository) getOne(
	ctx context.Context,
	op, query string,
	args ...any,
) (*Member, error) {
	var m Member
	err := r.db.GetContext(ctx, &m, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &m, nil
}

// Save is the single write path for member state. The admin level is
// recomputed from the privilege flags before every write.
func (r *repository) Save(ctx context.Context, m *Member) error {
	m.syncAdminLevel()

	query := `
		UPDATE users
		SET email = $2,
		    name = $3,
		    tier = $4,
		    tier_approved_at = $5,
		    tier_approved_by = $6,
		    admin_level = $7,
		    is_superuser = $8,
		    is_staff = $9,
		    is_active = $10,
		    phone = $11,
		    address = $12,
		    birth_date = $13,
		    occupation = $14,
		    join_source = $15,
		    join_message = $16,
		    marketing_agreed = $17,
		    token_version = $18,
		    updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &m.UpdatedAt, query,
		m.ID,
		m.Email,
		m.Name,
		m.Tier,
		m.TierApprovedAt,
		m.TierApprovedBy,
		m.AdminLevel,
		m.IsSuperuser,
		m.IsStaff,
		m.IsActive,
		m.Phone,
		m.Address,
		m.BirthDate,
		m.Occupation,
		m.JoinSource,
		m.JoinMessage,
		m.MarketingAgreed,
		m.TokenVersion,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("save member: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("save member: %w", translateDuplicate(err))
	}

	return nil
}

func (r *repository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	query := `
		UPDATE users
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	return r.execOne(ctx, "update password", query, id, passwordHash)
}

func (r *repository) IncrementTokenVersion(ctx context.Context, id string) error {
	query := `
		UPDATE users
		SET token_version = token_version + 1, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	return r.execOne(ctx, "increment token version", query, id)
}

// SoftDelete deactivates the account and invalidates its tokens. The row
// stays so approval references from other members remain valid.
func (r *repository) SoftDelete(ctx context.Context, id string) error {
	query := `
		UPDATE users
		SET deleted_at = NOW(),
		    is_active = FALSE,
		    token_version = token_version + 1,
		    updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	return r.execOne(ctx, "delete member", query, id)
}

func (r *repository) execOne(ctx context.Context, op, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if rows == 0 {
		return fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}

	return nil
}

func (r *repository) List(ctx context.Context, params ListParams) ([]Member, int, error) {
	params.Normalize()

	where := sq.And{sq.Expr("deleted_at IS NULL")}

	if params.Tier != "" {
		where = append(where, sq.Eq{"tier": params.Tier})
	}

	if params.IsStaff != nil {
		where = append(where, sq.Eq{"is_staff": *params.IsStaff})
	}

	if params.Search != "" {
		pattern := "%" + core.EscapeLike(params.Search) + "%"
		where = append(where, sq.Or{
			sq.ILike{"username": pattern},
			sq.ILike{"email": pattern},
			sq.ILike{"name": pattern},
		})
	}

	countQuery, countArgs, err := core.Psql.
		Select("COUNT(*)").
		From("users").
		Where(where).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count members: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count members: %w", err)
	}

	query, args, err := core.Psql.
		Select(strings.TrimSpace(memberColumns)).
		From("users").
		Where(where).
		OrderBy("created_at DESC").
		Limit(uint64(params.PageSize)). //nolint:gosec // normalized to 1..100
		Offset(uint64(params.Offset())). //nolint:gosec // non-negative after Normalize
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list members: %w", err)
	}

	members := []Member{}
	if err := r.db.SelectContext(ctx, &members, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list members: %w", err)
	}

	return members, total, nil
}

func (r *repository) Stats(ctx context.Context) (*Stats, error) {
	query := `
		SELECT tier, admin_level, COUNT(*) AS count
		FROM users
		WHERE deleted_at IS NULL
		GROUP BY tier, admin_level`

	var rows []struct {
		Tier       Tier       `db:"tier"`
		AdminLevel AdminLevel `db:"admin_level"`
		Count      int        `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("member stats: %w", err)
	}

	stats := &Stats{
		ByTier:       map[Tier]int{TierFree: 0, TierSupporter: 0},
		ByAdminLevel: map[AdminLevel]int{AdminNone: 0, AdminStaff: 0, AdminSuper: 0},
	}
	for _, row := range rows {
		stats.Total += row.Count
		stats.ByTier[row.Tier] += row.Count
		stats.ByAdminLevel[row.AdminLevel] += row.Count
	}

	return stats, nil
}

func translateDuplicate(err error) error {
	if !core.IsDuplicateKeyError(err) {
		return err
	}

	switch core.DuplicateConstraint(err) {
	case "users_username_key":
		return ErrUsernameTaken
	case "users_email_key":
		return ErrEmailTaken
	default:
		return core.ErrDuplicateKey
	}
}
