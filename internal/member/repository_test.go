// AngelaMos | 2026
// repository_test.go

package member

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
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

var rowColumns = []string{
	"id", "username", "email", "password_hash", "name", "tier", "tier_approved_at",
	"tier_approved_by", "admin_level", "is_superuser", "is_staff", "is_active", "phone",
	"address", "birth_date", "occupation", "join_source", "join_message",
	"marketing_agreed", "token_version", "created_at", "updated_at", "deleted_at",
}

func memberRows(ids ...string) *sqlmock.Rows {
	now := time.Now()
	rows := sqlmock.NewRows(rowColumns)
	for _, id := range ids {
		rows.AddRow(
			id, "user-"+id, id+"@yugwan.org", "hash", "Name", "FREE", nil,
			nil, "NONE", false, false, true, "01012345678",
			"", "1990-04-01", "", "search", "",
			false, 2, now, now, nil,
		)
	}
	return rows
}

func TestRepositoryGetByID(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users")).
		WithArgs("m1").
		WillReturnRows(memberRows("m1"))

	m, err := repo.GetByID(context.Background(), "m1")
	require.NoError(t, err)

	assert.Equal(t, "user-m1", m.Username)
	assert.Equal(t, TierFree, m.Tier)
	assert.Equal(t, 2, m.TokenVersion)
	require.NotNil(t, m.BirthDate)
	assert.Equal(t, "1990-04-01", m.BirthDate.String())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryGetByIDMissing(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users")).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows(rowColumns))

	_, err := repo.GetByID(context.Background(), "nope")
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestRepositoryGetForUpdateLocksRow(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs("m1").
		WillReturnRows(memberRows("m1"))

	_, err := repo.GetForUpdate(context.Background(), "m1")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryCreateTranslatesDuplicates(t *testing.T) {
	tests := []struct {
		constraint string
		want       error
	}{
		{"users_username_key", ErrUsernameTaken},
		{"users_email_key", ErrEmailTaken},
		{"some_other_key", core.ErrDuplicateKey},
	}

	for _, tt := range tests {
		t.Run(tt.constraint, func(t *testing.T) {
			repo, mock := newMockRepo(t)

			mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
				WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: tt.constraint})

			err := repo.Create(context.Background(), &Member{ID: "m1", Tier: TierFree})
			require.ErrorIs(t, err, tt.want)
			require.ErrorIs(t, err, core.ErrDuplicateKey)
		})
	}
}

func TestRepositoryCreateDerivesAdminLevel(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs(
			"m1", "admin", "admin@yugwan.org", "hash", "", "FREE", "SUPER",
			true, false, true, "", "", sqlmock.AnyArg(),
			"", "", "", false,
		).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at", "token_version"}).
			AddRow(now, now, 0))

	m := &Member{
		ID:           "m1",
		Username:     "admin",
		Email:        "admin@yugwan.org",
		PasswordHash: "hash",
		Tier:         TierFree,
		AdminLevel:   AdminNone,
		IsSuperuser:  true,
		IsActive:     true,
	}
	require.NoError(t, repo.Create(context.Background(), m))

	assert.Equal(t, AdminSuper, m.AdminLevel)
	assert.Equal(t, now, m.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositorySaveRecomputesAdminLevel(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	anyArg := sqlmock.AnyArg()
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE users")).
		WithArgs(
			"m1", anyArg, anyArg, "FREE", anyArg, anyArg, "STAFF",
			false, true, true, anyArg, anyArg, anyArg,
			anyArg, anyArg, anyArg, anyArg, 7,
		).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(now))

	m := &Member{ID: "m1", Tier: TierFree, AdminLevel: AdminNone, IsStaff: true, IsActive: true, TokenVersion: 7}
	require.NoError(t, repo.Save(context.Background(), m))

	assert.Equal(t, AdminStaff, m.AdminLevel)
	assert.Equal(t, now, m.UpdatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositorySaveMissingRow(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE users")).
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}))

	err := repo.Save(context.Background(), &Member{ID: "gone", Tier: TierFree})
	require.ErrorIs(t, err, core.ErrNotFound)
}

func TestRepositorySoftDelete(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("SET deleted_at = NOW()")).
		WithArgs("m1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("SET deleted_at = NOW()")).
		WithArgs("m1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.SoftDelete(context.Background(), "m1"))
	require.ErrorIs(t, repo.SoftDelete(context.Background(), "m1"), core.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryListFiltersAndPaginates(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users")).
		WithArgs("SUPPORTER", "%kim\\_%", "%kim\\_%", "%kim\\_%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY created_at DESC LIMIT 5 OFFSET 5")).
		WithArgs("SUPPORTER", "%kim\\_%", "%kim\\_%", "%kim\\_%").
		WillReturnRows(memberRows("a", "b"))

	members, total, err := repo.List(context.Background(), ListParams{
		Page:     2,
		PageSize: 5,
		Tier:     TierSupporter,
		Search:   "kim_",
	})
	require.NoError(t, err)

	assert.Equal(t, 12, total)
	assert.Len(t, members, 2)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryStats(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("GROUP BY tier, admin_level")).
		WillReturnRows(sqlmock.NewRows([]string{"tier", "admin_level", "count"}).
			AddRow("FREE", "NONE", 40).
			AddRow("SUPPORTER", "NONE", 7).
			AddRow("FREE", "STAFF", 2).
			AddRow("SUPPORTER", "SUPER", 1))

	stats, err := repo.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 50, stats.Total)
	assert.Equal(t, 42, stats.ByTier[TierFree])
	assert.Equal(t, 8, stats.ByTier[TierSupporter])
	assert.Equal(t, 47, stats.ByAdminLevel[AdminNone])
	assert.Equal(t, 1, stats.ByAdminLevel[AdminSuper])
}
