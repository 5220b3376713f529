// AngelaMos | 2026
// evaluator_test.go

package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	anonymous = Anonymous
	freeUser  = Caller{Authenticated: true, MemberID: "m-free", Tier: TierFree}
	supporter = Caller{Authenticated: true, MemberID: "m-sup", Tier: TierSupporter}
	freeAdmin = Caller{Authenticated: true, MemberID: "m-admin", Tier: TierFree, IsAdmin: true}
)

func policyWith(read, write Level) *Policy {
	return &Policy{
		BoardType:       "test",
		ReadPermission:  read,
		WritePermission: write,
		IsActive:        true,
	}
}

func TestLevelMatrix(t *testing.T) {
	tests := []struct {
		level  Level
		caller Caller
		want   bool
	}{
		{LevelAll, anonymous, true},
		{LevelAll, freeUser, true},
		{LevelFree, anonymous, false},
		{LevelFree, freeUser, true},
		{LevelFree, supporter, true},
		{LevelSupporter, anonymous, false},
		{LevelSupporter, freeUser, false},
		{LevelSupporter, supporter, true},
		{LevelSupporter, freeAdmin, true},
		{LevelAdmin, anonymous, false},
		{LevelAdmin, freeUser, false},
		{LevelAdmin, supporter, false},
		{LevelAdmin, freeAdmin, true},
		{Level("BOGUS"), freeAdmin, false},
	}

	for _, tt := range tests {
		name := string(tt.level) + "/" + tt.caller.MemberID
		t.Run(name, func(t *testing.T) {
			p := policyWith(tt.level, tt.level)
			assert.Equal(t, tt.want, CanRead(p, tt.caller), "read")
			assert.Equal(t, tt.want, CanWrite(p, tt.caller), "write")
		})
	}
}

func TestAbsentPolicyDefaults(t *testing.T) {
	assert.True(t, CanRead(nil, anonymous))
	assert.True(t, CanRead(nil, freeUser))

	assert.False(t, CanWrite(nil, anonymous))
	assert.False(t, CanWrite(nil, freeUser))
	assert.False(t, CanWrite(nil, supporter))
	assert.True(t, CanWrite(nil, freeAdmin))
}

func TestAdminFlagWithoutAuthenticationIsIgnored(t *testing.T) {
	forged := Caller{IsAdmin: true, Tier: TierSupporter}

	assert.False(t, CanWrite(nil, forged))
	assert.False(t, CanRead(policyWith(LevelSupporter, LevelAdmin), forged))
}

func TestInactivePolicyKeepsStoredLevels(t *testing.T) {
	p := policyWith(LevelSupporter, LevelAll)
	p.BoardType = MemberNotice
	p.IsActive = false

	assert.False(t, CanRead(p, anonymous))
	assert.False(t, CanRead(p, freeUser))
	assert.True(t, CanRead(p, supporter))
	assert.True(t, CanWrite(p, freeUser))
}

func TestNoticeReadableAnonymously(t *testing.T) {
	assert.True(t, CanRead(nil, anonymous))
	assert.True(t, CanRead(policyWith(LevelAll, LevelAdmin), anonymous))
}

func TestMemberNoticeWriteDeniedToFreeTier(t *testing.T) {
	p := policyWith(LevelFree, LevelSupporter)
	p.BoardType = MemberNotice

	assert.False(t, CanWrite(p, freeUser))
	assert.True(t, CanWrite(p, supporter))
}

func TestGalleryWithoutPolicy(t *testing.T) {
	var gallery *Policy

	assert.True(t, CanRead(gallery, anonymous))
	assert.False(t, CanWrite(gallery, supporter))
	assert.True(t, CanWrite(gallery, freeAdmin))
}

func TestEvaluationIsDeterministic(t *testing.T) {
	p := policyWith(LevelSupporter, LevelAdmin)
	callers := []Caller{anonymous, freeUser, supporter, freeAdmin}

	for _, c := range callers {
		first := []bool{CanRead(p, c), CanWrite(p, c)}
		for range 50 {
			assert.Equal(t, first, []bool{CanRead(p, c), CanWrite(p, c)})
		}
	}
}

func TestTierAtLeast(t *testing.T) {
	assert.True(t, TierSupporter.AtLeast(TierFree))
	assert.True(t, TierSupporter.AtLeast(TierSupporter))
	assert.False(t, TierFree.AtLeast(TierSupporter))
	assert.False(t, Tier("").AtLeast(TierFree))
}
