// AngelaMos | 2026
// repository_test.go

package board

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joonyo2/yugwan/internal/core"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

var policyColumns = []string{
	"board_type", "read_permission", "write_permission", "is_active", "updated_at",
}

func TestRepositoryGet(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM board_permissions")).
		WithArgs(MemberNotice).
		WillReturnRows(sqlmock.NewRows(policyColumns).
			AddRow(MemberNotice, "FREE", "SUPPORTER", true, now))

	p, err := repo.Get(context.Background(), MemberNotice)
	require.NoError(t, err)

	assert.Equal(t, LevelFree, p.ReadPermission)
	assert.Equal(t, LevelSupporter, p.WritePermission)
	assert.True(t, p.IsActive)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryGetMissing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM board_permissions")).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows(policyColumns))

	_, err := repo.Get(context.Background(), "nope")
	require.ErrorIs(t, err, core.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryListActiveOnly(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta(
		"SELECT board_type, read_permission, write_permission, is_active, updated_at " +
			"FROM board_permissions WHERE is_active = TRUE ORDER BY board_type",
	)).WillReturnRows(sqlmock.NewRows(policyColumns).
		AddRow(Notice, "ALL", "ADMIN", true, time.Now()))

	policies, err := repo.List(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, policies, 1)
	assert.Equal(t, Notice, policies[0].BoardType)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryUpsert(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (board_type) DO UPDATE")).
		WithArgs(Gallery, LevelAll, LevelAdmin, true).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))

	p := DefaultPolicy(Gallery)
	require.NoError(t, repo.Upsert(context.Background(), p))

	assert.WithinDuration(t, now, p.UpdatedAt, time.Second)
	require.NoError(t, mock.ExpectationsWereMet())
}
