// AngelaMos | 2026
// entity_test.go

package member

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joonyo2/yugwan/internal/core"
)

func TestDeriveAdminLevel(t *testing.T) {
	tests := []struct {
		super, staff bool
		want         AdminLevel
	}{
		{false, false, AdminNone},
		{false, true, AdminStaff},
		{true, false, AdminSuper},
		{true, true, AdminSuper},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DeriveAdminLevel(tt.super, tt.staff))
	}
}

func TestApproveSupporterSetsApprovalPair(t *testing.T) {
	m := &Member{ID: "m1", Tier: TierFree}
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	require.NoError(t, m.ApproveSupporter("admin-1", at))

	assert.Equal(t, TierSupporter, m.Tier)
	require.NotNil(t, m.TierApprovedAt)
	require.NotNil(t, m.TierApprovedBy)
	assert.Equal(t, at, *m.TierApprovedAt)
	assert.Equal(t, "admin-1", *m.TierApprovedBy)
}

func TestApproveSupporterTwiceIsRejected(t *testing.T) {
	at := time.Now()
	approver := "admin-1"
	m := &Member{Tier: TierSupporter, TierApprovedAt: &at, TierApprovedBy: &approver}

	err := m.ApproveSupporter("admin-2", time.Now())

	require.ErrorIs(t, err, ErrAlreadySupporter)
	require.ErrorIs(t, err, core.ErrAlreadyInState)
	assert.Equal(t, "admin-1", *m.TierApprovedBy)
}

func TestRevokeSupporterClearsApprovalPair(t *testing.T) {
	at := time.Now()
	approver := "admin-1"
	m := &Member{Tier: TierSupporter, TierApprovedAt: &at, TierApprovedBy: &approver}

	require.NoError(t, m.RevokeSupporter())

	assert.Equal(t, TierFree, m.Tier)
	assert.Nil(t, m.TierApprovedAt)
	assert.Nil(t, m.TierApprovedBy)

	require.ErrorIs(t, m.RevokeSupporter(), ErrAlreadyFree)
}

func TestRevokeStaffProtectsSuperuser(t *testing.T) {
	m := &Member{IsSuperuser: true, IsStaff: true}

	err := m.RevokeStaff()

	require.ErrorIs(t, err, ErrSuperuserProtected)
	require.ErrorIs(t, err, core.ErrForbidden)
	assert.True(t, m.IsStaff)
}

func TestGrantAndRevokeStaff(t *testing.T) {
	m := &Member{}

	m.GrantStaff()
	m.syncAdminLevel()
	assert.True(t, m.IsAdmin())
	assert.Equal(t, AdminStaff, m.AdminLevel)

	require.NoError(t, m.RevokeStaff())
	m.syncAdminLevel()
	assert.False(t, m.IsAdmin())
	assert.Equal(t, AdminNone, m.AdminLevel)
}

func TestCallerReflectsMemberState(t *testing.T) {
	m := &Member{ID: "m1", Tier: TierSupporter, IsStaff: true}

	c := m.Caller()

	assert.True(t, c.Authenticated)
	assert.Equal(t, "m1", c.MemberID)
	assert.Equal(t, TierSupporter, c.Tier)
	assert.True(t, c.IsAdmin)
}
