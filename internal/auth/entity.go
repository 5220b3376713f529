// AngelaMos | 2026
// entity.go

package auth

import (
	"time"
)

// Session is one login on one device. Its refresh token is exchanged for
// a new session on every refresh; the chain shares FamilyID so reuse of a
// rotated token can revoke all of it.
type Session struct {
	ID         string     `db:"id"`
	MemberID   string     `db:"member_id"`
	TokenHash  string     `db:"token_hash"`
	FamilyID   string     `db:"family_id"`
	UserAgent  string     `db:"user_agent"`
	IPAddress  string     `db:"ip_address"`
	CreatedAt  time.Time  `db:"created_at"`
	ExpiresAt  time.Time  `db:"expires_at"`
	RotatedAt  *time.Time `db:"rotated_at"`
	ReplacedBy *string    `db:"replaced_by"`
	RevokedAt  *time.Time `db:"revoked_at"`
}

func (s *Session) Rotated() bool {
	return s.RotatedAt != nil
}

func (s *Session) Revoked() bool {
	return s.RevokedAt != nil
}

// UsableAt reports whether the session's refresh token may still be
// exchanged.
func (s *Session) UsableAt(now time.Time) bool {
	return !s.Rotated() && !s.Revoked() && now.Before(s.ExpiresAt)
}
