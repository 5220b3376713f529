// AngelaMos | 2026
// entity.go

package board

import (
	"time"
)

// Tier is a membership tier as far as board visibility is concerned.
type Tier string

const (
	TierFree      Tier = "FREE"
	TierSupporter Tier = "SUPPORTER"
)

var tierRank = map[Tier]int{
	TierFree:      1,
	TierSupporter: 2,
}

func (t Tier) Valid() bool {
	_, ok := tierRank[t]
	return ok
}

// AtLeast reports whether t ranks at or above min. Unknown tiers rank
// below every known tier.
func (t Tier) AtLeast(minimum Tier) bool {
	return tierRank[t] >= tierRank[minimum] && tierRank[t] > 0
}

// Level is a read or write permission level stored on a policy.
type Level string

const (
	LevelAll       Level = "ALL"
	LevelFree      Level = "FREE"
	LevelSupporter Level = "SUPPORTER"
	LevelAdmin     Level = "ADMIN"
)

func (l Level) Valid() bool {
	switch l {
	case LevelAll, LevelFree, LevelSupporter, LevelAdmin:
		return true
	}
	return false
}

const (
	DefaultReadLevel  = LevelAll
	DefaultWriteLevel = LevelAdmin
)

// Known board identifiers. Policies for other identifiers may exist;
// unknown boards without a policy evaluate with the defaults.
const (
	Notice         = "notice"
	News           = "news"
	Gallery        = "gallery"
	Video          = "video"
	MemberNotice   = "member_notice"
	MemberResource = "member_resource"
)

var KnownBoards = []string{
	Notice,
	News,
	Gallery,
	Video,
	MemberNotice,
	MemberResource,
}

type Policy struct {
	BoardType       string    `db:"board_type"`
	ReadPermission  Level     `db:"read_permission"`
	WritePermission Level     `db:"write_permission"`
	IsActive        bool      `db:"is_active"`
	UpdatedAt       time.Time `db:"updated_at"`
}

// DefaultPolicy is what a board gets on first administrative configuration.
func DefaultPolicy(boardType string) *Policy {
	return &Policy{
		BoardType:       boardType,
		ReadPermission:  DefaultReadLevel,
		WritePermission: DefaultWriteLevel,
		IsActive:        true,
	}
}

// Caller is the identity a permission decision is made for. The zero
// value is an anonymous visitor.
type Caller struct {
	Authenticated bool
	MemberID      string
	Tier          Tier
	IsAdmin       bool
}

// Anonymous is the caller for requests without a valid token.
var Anonymous = Caller{}

type Mode string

const (
	ModeRead  Mode = "read"
	ModeWrite Mode = "write"
)
