// AngelaMos | 2026
// repository_test.go

package popup

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

func TestRepositoryListVisible(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE is_active = TRUE AND start_at <= $1 AND end_at >= $1")).
		WithArgs(fixedNow).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "title", "pc_image_url", "mobile_image_url", "link_url",
			"start_at", "end_at", "is_active", "created_at",
		}).AddRow(1, "Now", "pc", "m", "", fixedNow.Add(-time.Hour), fixedNow.Add(time.Hour), true, fixedNow))

	popups, err := repo.ListVisible(context.Background(), fixedNow)
	require.NoError(t, err)
	require.Len(t, popups, 1)
	assert.Equal(t, "Now", popups[0].Title)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryDeleteMissing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM popups")).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.ErrorIs(t, repo.Delete(context.Background(), 9), core.ErrNotFound)
}
