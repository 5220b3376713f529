// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joonyo2/yugwan/internal/core"
	"github.com/joonyo2/yugwan/internal/middleware"
)

type fakeSessionRepo struct {
	sessions map[string]*Session
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: map[string]*Session{}}
}

func (r *fakeSessionRepo) Create(_ context.Context, s *Session) error {
	s.CreatedAt = time.Now()
	cp := *s
	r.sessions[s.ID] = &cp
	return nil
}

func (r *fakeSessionRepo) GetByTokenHash(_ context.Context, hash string) (*Session, error) {
	for _, s := range r.sessions {
		if s.TokenHash == hash {
			cp := *s
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("get session by token: %w", core.ErrNotFound)
}

func (r *fakeSessionRepo) GetByID(_ context.Context, id string) (*Session, error) {
	s, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("get session: %w", core.ErrNotFound)
	}
	cp := *s
	return &cp, nil
}

func (r *fakeSessionRepo) Rotate(_ context.Context, id, replacedBy string) error {
	s, ok := r.sessions[id]
	if !ok || s.Rotated() {
		return core.ErrNotFound
	}
	now := time.Now()
	s.RotatedAt = &now
	s.ReplacedBy = &replacedBy
	return nil
}

func (r *fakeSessionRepo) Revoke(_ context.Context, id string) error {
	s, ok := r.sessions[id]
	if !ok || s.Revoked() {
		return core.ErrNotFound
	}
	now := time.Now()
	s.RevokedAt = &now
	return nil
}

func (r *fakeSessionRepo) revokeWhere(match func(*Session) bool) {
	now := time.Now()
	for _, s := range r.sessions {
		if match(s) && !s.Revoked() {
			s.RevokedAt = &now
		}
	}
}

func (r *fakeSessionRepo) RevokeFamily(_ context.Context, familyID string) error {
	r.revokeWhere(func(s *Session) bool { return s.FamilyID == familyID })
	return nil
}

func (r *fakeSessionRepo) RevokeAllForUser(_ context.Context, memberID string) error {
	r.revokeWhere(func(s *Session) bool { return s.MemberID == memberID })
	return nil
}

func (r *fakeSessionRepo) ListActive(_ context.Context, memberID string, now time.Time) ([]Session, error) {
	out := []Session{}
	for _, s := range r.sessions {
		if s.MemberID == memberID && s.UsableAt(now) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) PurgeExpired(_ context.Context, cutoff time.Time) (int64, error) {
	var n int64
	for id, s := range r.sessions {
		if s.ExpiresAt.Before(cutoff) {
			delete(r.sessions, id)
			n++
		}
	}
	return n, nil
}

type fakeUsers struct {
	users map[string]*UserInfo
}

func (f *fakeUsers) GetByLogin(_ context.Context, login string) (*UserInfo, error) {
	for _, u := range f.users {
		if u.Username == login || strings.EqualFold(u.Email, login) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("get member by login: %w", core.ErrNotFound)
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*UserInfo, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("get member: %w", core.ErrNotFound)
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) IncrementTokenVersion(_ context.Context, id string) error {
	f.users[id].TokenVersion++
	return nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, id, hash string) error {
	f.users[id].PasswordHash = hash
	return nil
}

type fakeBlacklist map[string]time.Time

func (b fakeBlacklist) Revoke(_ context.Context, jti string, exp time.Time) error {
	b[jti] = exp
	return nil
}

func (b fakeBlacklist) IsRevoked(_ context.Context, jti string) (bool, error) {
	_, ok := b[jti]
	return ok, nil
}

const testPassword = "correct-horse-42"

type authFixture struct {
	svc       *Service
	sessions  *fakeSessionRepo
	users     *fakeUsers
	blacklist fakeBlacklist
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	hash, err := core.HashPassword(testPassword)
	require.NoError(t, err)

	users := &fakeUsers{users: map[string]*UserInfo{
		"member-1": {
			ID:           "member-1",
			Username:     "hong",
			Email:        "hong@example.com",
			PasswordHash: hash,
			Tier:         "FREE",
			AdminLevel:   "NONE",
			IsActive:     true,
			TokenVersion: 2,
		},
	}}
	sessions := newFakeSessionRepo()
	blacklist := fakeBlacklist{}

	return &authFixture{
		svc:       NewService(sessions, newTestJWTManager(t), users, blacklist),
		sessions:  sessions,
		users:     users,
		blacklist: blacklist,
	}
}

func TestLoginByUsernameOrEmail(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	for _, login := range []string{"hong", "HONG@example.com"} {
		resp, err := f.svc.Login(ctx, LoginRequest{Login: login, Password: testPassword}, "ua", "127.0.0.1")
		require.NoError(t, err, login)

		assert.Equal(t, "member-1", resp.User.ID)
		assert.Equal(t, "Bearer", resp.Tokens.TokenType)
		assert.Equal(t, 3600, resp.Tokens.ExpiresIn)
		assert.NotEmpty(t, resp.Tokens.RefreshToken)
	}

	assert.Len(t, f.sessions.sessions, 2)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	_, err := f.svc.Login(ctx, LoginRequest{Login: "hong", Password: "wrong-password"}, "", "")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = f.svc.Login(ctx, LoginRequest{Login: "nobody", Password: testPassword}, "", "")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsInactiveMember(t *testing.T) {
	f := newAuthFixture(t)
	f.users.users["member-1"].IsActive = false

	_, err := f.svc.Login(context.Background(), LoginRequest{Login: "hong", Password: testPassword}, "", "")
	require.ErrorIs(t, err, ErrAccountDisabled)
}

func TestRefreshRotatesAndDetectsReuse(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	first, err := f.svc.Login(ctx, LoginRequest{Login: "hong", Password: testPassword}, "", "")
	require.NoError(t, err)

	second, err := f.svc.Refresh(ctx, first.Tokens.RefreshToken, "", "")
	require.NoError(t, err)
	assert.NotEqual(t, first.Tokens.RefreshToken, second.Tokens.RefreshToken)

	_, err = f.svc.Refresh(ctx, first.Tokens.RefreshToken, "", "")
	require.ErrorIs(t, err, ErrTokenReuse)

	_, err = f.svc.Refresh(ctx, second.Tokens.RefreshToken, "", "")
	require.ErrorIs(t, err, core.ErrTokenRevoked)
}

func TestRefreshUnknownToken(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.svc.Refresh(context.Background(), "nope", "", "")
	require.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestVerifyAccessTokenChecksVersion(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	resp, err := f.svc.Login(ctx, LoginRequest{Login: "hong", Password: testPassword}, "", "")
	require.NoError(t, err)

	claims, err := f.svc.VerifyAccessToken(ctx, resp.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, 2, claims.TokenVersion)

	f.users.users["member-1"].TokenVersion = 3

	_, err = f.svc.VerifyAccessToken(ctx, resp.Tokens.AccessToken)
	require.ErrorIs(t, err, core.ErrTokenRevoked)
}

func TestLogoutBlacklistsAccessToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	resp, err := f.svc.Login(ctx, LoginRequest{Login: "hong", Password: testPassword}, "", "")
	require.NoError(t, err)

	claims, err := f.svc.VerifyAccessToken(ctx, resp.Tokens.AccessToken)
	require.NoError(t, err)

	require.NoError(t, f.svc.Logout(ctx, resp.Tokens.RefreshToken, claims))

	assert.Contains(t, f.blacklist, claims.JTI)
	_, err = f.svc.VerifyAccessToken(ctx, resp.Tokens.AccessToken)
	require.ErrorIs(t, err, core.ErrTokenRevoked)

	_, err = f.svc.Refresh(ctx, resp.Tokens.RefreshToken, "", "")
	require.ErrorIs(t, err, core.ErrTokenRevoked)
}

func TestLogoutRejectsForeignRefreshToken(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	resp, err := f.svc.Login(ctx, LoginRequest{Login: "hong", Password: testPassword}, "", "")
	require.NoError(t, err)

	err = f.svc.Logout(ctx, resp.Tokens.RefreshToken, &middleware.AccessTokenClaims{UserID: "someone-else"})
	require.ErrorIs(t, err, core.ErrForbidden)
}

func TestChangePassword(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	err := f.svc.ChangePassword(ctx, "member-1", "wrong-password", "brand-new-pass-9")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	err = f.svc.ChangePassword(ctx, "member-1", testPassword, "hong1234")
	require.ErrorIs(t, err, core.ErrInvalidInput)

	require.NoError(t, f.svc.ChangePassword(ctx, "member-1", testPassword, "brand-new-pass-9"))
	assert.Equal(t, 3, f.users.users["member-1"].TokenVersion)

	_, err = f.svc.Login(ctx, LoginRequest{Login: "hong", Password: "brand-new-pass-9"}, "", "")
	require.NoError(t, err)
}

func TestSessionsCarryDevice(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	ua := "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36"
	_, err := f.svc.Login(ctx, LoginRequest{Login: "hong", Password: testPassword}, ua, "10.0.0.1")
	require.NoError(t, err)

	sessions, err := f.svc.GetActiveSessions(ctx, "member-1")
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, deviceDesktop, sessions[0].Device.Kind)
	assert.Equal(t, "10.0.0.1", sessions[0].IPAddress)

	err = f.svc.RevokeSession(ctx, "someone-else", sessions[0].ID)
	require.ErrorIs(t, err, core.ErrForbidden)
	require.NoError(t, f.svc.RevokeSession(ctx, "member-1", sessions[0].ID))
}

func TestPurgeExpiredSessions(t *testing.T) {
	f := newAuthFixture(t)
	f.sessions.sessions["old"] = &Session{ID: "old", ExpiresAt: time.Now().Add(-48 * time.Hour)}
	f.sessions.sessions["recent"] = &Session{ID: "recent", ExpiresAt: time.Now().Add(-time.Hour)}

	n, err := f.svc.PurgeExpiredSessions(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(1), n)
	assert.Contains(t, f.sessions.sessions, "recent")
}
