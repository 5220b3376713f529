// AngelaMos | 2026
// entity.go

package member

import (
	"errors"
	"fmt"
	"time"

	"github.com/joonyo2/yugwan/internal/board"
	"github.com/joonyo2/yugwan/internal/core"
)

type Tier = board.Tier

const (
	TierFree      = board.TierFree
	TierSupporter = board.TierSupporter
)

// AdminLevel mirrors the privilege flags and is stored for display and
// filtering only. It is never written independently of the flags.
type AdminLevel string

const (
	AdminNone  AdminLevel = "NONE"
	AdminStaff AdminLevel = "STAFF"
	AdminSuper AdminLevel = "SUPER"
)

func DeriveAdminLevel(isSuperuser, isStaff bool) AdminLevel {
	switch {
	case isSuperuser:
		return AdminSuper
	case isStaff:
		return AdminStaff
	default:
		return AdminNone
	}
}

var (
	ErrAlreadySupporter = fmt.Errorf("member is already a supporter: %w", core.ErrAlreadyInState)
	ErrAlreadyFree      = fmt.Errorf("member is already on the free tier: %w", core.ErrAlreadyInState)

	ErrAdminRequired      = fmt.Errorf("admin privileges required: %w", core.ErrForbidden)
	ErrSuperuserRequired  = fmt.Errorf("superuser privileges required: %w", core.ErrForbidden)
	ErrSuperuserProtected = fmt.Errorf("superuser accounts cannot lose staff status: %w", core.ErrForbidden)

	ErrInvalidPassword = errors.New("password does not match")
	ErrUsernameTaken   = fmt.Errorf("username already in use: %w", core.ErrDuplicateKey)
	ErrEmailTaken      = fmt.Errorf("email already registered: %w", core.ErrDuplicateKey)
)

type Member struct {
	ID              string     `db:"id"`
	Username        string     `db:"username"`
	Email           string     `db:"email"`
	PasswordHash    string     `db:"password_hash"`
	Name            string     `db:"name"`
	Tier            Tier       `db:"tier"`
	TierApprovedAt  *time.Time `db:"tier_approved_at"`
	TierApprovedBy  *string    `db:"tier_approved_by"`
	AdminLevel      AdminLevel `db:"admin_level"`
	IsSuperuser     bool       `db:"is_superuser"`
	IsStaff         bool       `db:"is_staff"`
	IsActive        bool       `db:"is_active"`
	Phone           string     `db:"phone"`
	Address         string     `db:"address"`
	BirthDate       *core.Date `db:"birth_date"`
	Occupation      string     `db:"occupation"`
	JoinSource      string     `db:"join_source"`
	JoinMessage     string     `db:"join_message"`
	MarketingAgreed bool       `db:"marketing_agreed"`
	TokenVersion    int        `db:"token_version"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
	DeletedAt       *time.Time `db:"deleted_at"`
}

// syncAdminLevel is called by every repository write.
func (m *Member) syncAdminLevel() {
	m.AdminLevel = DeriveAdminLevel(m.IsSuperuser, m.IsStaff)
}

func (m *Member) IsAdmin() bool {
	return m.IsStaff || m.IsSuperuser
}

func (m *Member) IsSupporter() bool {
	return m.Tier == TierSupporter
}

func (m *Member) IsDeleted() bool {
	return m.DeletedAt != nil
}

// Caller is the view of m used for board permission decisions.
func (m *Member) Caller() board.Caller {
	return board.Caller{
		Authenticated: true,
		MemberID:      m.ID,
		Tier:          m.Tier,
		IsAdmin:       m.IsAdmin(),
	}
}

// ApproveSupporter promotes m and records who approved it and when.
func (m *Member) ApproveSupporter(approverID string, at time.Time) error {
	if m.Tier == TierSupporter {
		return ErrAlreadySupporter
	}

	m.Tier = TierSupporter
	m.TierApprovedAt = &at
	m.TierApprovedBy = &approverID
	return nil
}

// RevokeSupporter returns m to the free tier and clears both approval
// fields together.
func (m *Member) RevokeSupporter() error {
	if m.Tier == TierFree {
		return ErrAlreadyFree
	}

	m.Tier = TierFree
	m.TierApprovedAt = nil
	m.TierApprovedBy = nil
	return nil
}

func (m *Member) GrantStaff() {
	m.IsStaff = true
}

func (m *Member) RevokeStaff() error {
	if m.IsSuperuser {
		return ErrSuperuserProtected
	}

	m.IsStaff = false
	return nil
}
