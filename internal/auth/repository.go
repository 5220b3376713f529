// AngelaMos | 2026
// repository.go

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/joonyo2/yugwan/internal/core"
)

type Repository interface {
	Create(ctx context.Context, s *Session) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*Session, error)
	GetByID(ctx context.Context, id string) (*Session, error)
	Rotate(ctx context.Context, id, replacedBy string) error
	Revoke(ctx context.Context, id string) error
	RevokeFamily(ctx context.Context, familyID string) error
	RevokeAllForUser(ctx context.Context, memberID string) error
	ListActive(ctx context.Context, memberID string, now time.Time) ([]Session, error)
	PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

const sessionTable = "member_sessions"

var sessionColumns = []string{
	"id", "member_id", "token_hash", "family_id", "user_agent", "ip_address",
	"created_at", "expires_at", "rotated_at", "replaced_by", "revoked_at",
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, s *Session) error {
	query, args, err := core.Psql.Insert(sessionTable).
		Columns("id", "member_id", "token_hash", "family_id", "user_agent", "ip_address", "expires_at").
		Values(s.ID, s.MemberID, s.TokenHash, s.FamilyID, s.UserAgent, s.IPAddress, s.ExpiresAt).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build session insert: %w", err)
	}

	if err := r.db.GetContext(ctx, &s.CreatedAt, query, args...); err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	return nil
}

func (r *repository) GetByTokenHash(ctx context.Context, tokenHash string) (*Session, error) {
	return r.getOne(ctx, "get session by token", sq.Eq{"token_hash": tokenHash})
}

func (r *repository) GetByID(ctx context.Context, id string) (*Session, error) {
	return r.getOne(ctx, "get session", sq.Eq{"id": id})
}

// Rotate marks a session as exchanged for replacedBy. It fails with
// ErrNotFound if the session was already rotated.
func (r *repository) Rotate(ctx context.Context, id, replacedBy string) error {
	n, err := r.update(ctx,
		map[string]any{"rotated_at": sq.Expr("NOW()"), "replaced_by": replacedBy},
		sq.Eq{"id": id, "rotated_at": nil},
	)
	if err != nil {
		return fmt.Errorf("rotate session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("rotate session: %w", core.ErrNotFound)
	}
	return nil
}

func (r *repository) Revoke(ctx context.Context, id string) error {
	n, err := r.update(ctx, revokeNow(), sq.Eq{"id": id, "revoked_at": nil})
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("revoke session: %w", core.ErrNotFound)
	}
	return nil
}

func (r *repository) RevokeFamily(ctx context.Context, familyID string) error {
	if _, err := r.update(ctx, revokeNow(), sq.Eq{"family_id": familyID, "revoked_at": nil}); err != nil {
		return fmt.Errorf("revoke session family: %w", err)
	}
	return nil
}

// RevokeAllForUser implements member.SessionRevoker.
func (r *repository) RevokeAllForUser(ctx context.Context, memberID string) error {
	if _, err := r.update(ctx, revokeNow(), sq.Eq{"member_id": memberID, "revoked_at": nil}); err != nil {
		return fmt.Errorf("revoke member sessions: %w", err)
	}
	return nil
}

func (r *repository) ListActive(ctx context.Context, memberID string, now time.Time) ([]Session, error) {
	query, args, err := core.Psql.Select(sessionColumns...).
		From(sessionTable).
		Where(sq.Eq{"member_id": memberID, "revoked_at": nil, "rotated_at": nil}).
		Where(sq.Gt{"expires_at": now}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build session list: %w", err)
	}

	sessions := []Session{}
	if err := r.db.SelectContext(ctx, &sessions, query, args...); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	return sessions, nil
}

func (r *repository) PurgeExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	query, args, err := core.Psql.Delete(sessionTable).
		Where(sq.Lt{"expires_at": cutoff}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build session purge: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}

	return result.RowsAffected()
}

func (r *repository) getOne(ctx context.Context, op string, where sq.Eq) (*Session, error) {
	query, args, err := core.Psql.Select(sessionColumns...).
		From(sessionTable).
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var s Session
	err = r.db.GetContext(ctx, &s, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &s, nil
}

func (r *repository) update(ctx context.Context, set map[string]any, where sq.Eq) (int64, error) {
	query, args, err := core.Psql.Update(sessionTable).
		SetMap(set).
		Where(where).
		ToSql()
	if err != nil {
		return 0, err
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

func revokeNow() map[string]any {
	return map[string]any{"revoked_at": sq.Expr("NOW()")}
}
