// AngelaMos | 2026
// repository_test.go

package contest

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joonyo2/yugwan/internal/core"
)

var applicationRowColumns = []string{
	"id", "contest_year", "name", "birth_date", "school_name", "grade",
	"division", "speech_title", "parent_name", "contact_parent",
	"teacher_name", "email", "address", "script_file", "status",
	"admin_memo", "reject_reason", "rules_agreed", "privacy_agreed",
	"news_agreed", "created_at", "updated_at",
}

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestRepositoryFindLatest(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE email = $1 AND contact_parent = $2")).
		WithArgs("a@example.org", "01011112222").
		WillReturnRows(sqlmock.NewRows(applicationRowColumns).AddRow(
			12, 2026, "유관순", "2012-03-01", "병천초", "초6",
			"korean", "만세", "유중권", "01011112222",
			"", "a@example.org", "", "contest/scripts/2026/x.pdf", "SUBMITTED",
			"", "", true, true,
			false, fixedNow, fixedNow,
		))

	app, err := repo.FindLatest(context.Background(), "a@example.org", "01011112222")
	require.NoError(t, err)

	assert.Equal(t, "2026-0012", app.ReceiptNumber())
	assert.Equal(t, DivisionKorean, app.Division)
	assert.Equal(t, "2012-03-01", app.BirthDate.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryFindLatestMissing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM contest_applications")).
		WillReturnRows(sqlmock.NewRows(applicationRowColumns))

	_, err := repo.FindLatest(context.Background(), "x@example.org", "010")
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestRepositoryListFilters(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM contest_applications WHERE (contest_year = $1 AND status = $2)")).
		WithArgs(2026, "ACCEPTED").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC LIMIT 20 OFFSET 0")).
		WithArgs(2026, "ACCEPTED").
		WillReturnRows(sqlmock.NewRows(applicationRowColumns))

	apps, total, err := repo.List(context.Background(), ListFilter{
		Page: 1, PageSize: 20, Year: 2026, Status: StatusAccepted,
	})
	require.NoError(t, err)

	assert.Zero(t, total)
	assert.Empty(t, apps)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryUpdateStatusMissing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE contest_applications")).
		WithArgs(int64(3), "REJECTED", "", "late").
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}))

	err := repo.UpdateStatus(context.Background(), &Application{ID: 3, Status: StatusRejected, RejectReason: "late"})
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestRepositoryGetForUpdateLocksRow(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`WHERE id = \$1\s+FOR UPDATE`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(applicationRowColumns).AddRow(
			7, 2026, "유관순", "2012-03-01", "병천초", "초6",
			"korean", "만세", "유중권", "01011112222",
			"", "a@example.org", "", "contest/scripts/2026/x.pdf", "CHECKING",
			"", "", true, true,
			false, fixedNow, fixedNow,
		))

	app, err := repo.GetForUpdate(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, StatusChecking, app.Status)

	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows(applicationRowColumns))

	_, err = repo.GetForUpdate(context.Background(), 8)
	require.ErrorIs(t, err, core.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
