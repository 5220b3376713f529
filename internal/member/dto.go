// AngelaMos | 2026
// dto.go

package member

import (
	"time"

	"github.com/joonyo2/yugwan/internal/core"
)

type RegisterRequest struct {
	Username        string     `json:"username"         validate:"required,min=3,max=150,username"`
	Email           string     `json:"email"            validate:"required,email,max=255"`
	Password        string     `json:"password"         validate:"required,min=8,max=128"`
	PasswordConfirm string     `json:"password_confirm" validate:"required,eqfield=Password"`
	Name            string     `json:"name"             validate:"max=100"`
	Phone           string     `json:"phone"            validate:"required,phone"`
	Address         string     `json:"address"          validate:"max=500"`
	BirthDate       *core.Date `json:"birth_date"`
	Occupation      string     `json:"occupation"       validate:"max=100"`
	JoinSource      string     `json:"join_source"      validate:"omitempty,oneof=search sns recommend event news other"`
	JoinMessage     string     `json:"join_message"     validate:"max=2000"`
	MarketingAgreed bool       `json:"marketing_agreed"`
}

type RegisterResponse struct {
	Message string `json:"message"`
	UserID  string `json:"user_id"`
	Tier    Tier   `json:"tier"`
}

// UpdateProfileRequest covers only self-editable fields. Tier and staff
// status are absent on purpose so they cannot be set through it.
type UpdateProfileRequest struct {
	Name            *string    `json:"name,omitempty"             validate:"omitempty,max=100"`
	Email           *string    `json:"email,omitempty"            validate:"omitempty,email,max=255"`
	Phone           *string    `json:"phone,omitempty"            validate:"omitempty,phone"`
	Address         *string    `json:"address,omitempty"          validate:"omitempty,max=500"`
	BirthDate       *core.Date `json:"birth_date,omitempty"`
	Occupation      *string    `json:"occupation,omitempty"       validate:"omitempty,max=100"`
	JoinSource      *string    `json:"join_source,omitempty"      validate:"omitempty,oneof=search sns recommend event news other"`
	JoinMessage     *string    `json:"join_message,omitempty"     validate:"omitempty,max=2000"`
	MarketingAgreed *bool      `json:"marketing_agreed,omitempty"`
}

type DeleteAccountRequest struct {
	Password string `json:"password" validate:"required"`
}

type MemberResponse struct {
	ID              string     `json:"id"`
	Username        string     `json:"username"`
	Email           string     `json:"email"`
	Name            string     `json:"name"`
	Tier            Tier       `json:"tier"`
	TierApprovedAt  *time.Time `json:"tier_approved_at"`
	AdminLevel      AdminLevel `json:"admin_level"`
	IsStaff         bool       `json:"is_staff"`
	IsSuperuser     bool       `json:"is_superuser"`
	Phone           string     `json:"phone"`
	Address         string     `json:"address"`
	BirthDate       *core.Date `json:"birth_date"`
	Occupation      string     `json:"occupation"`
	JoinSource      string     `json:"join_source"`
	JoinMessage     string     `json:"join_message"`
	MarketingAgreed bool       `json:"marketing_agreed"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type AdminMemberResponse struct {
	MemberResponse
	TierApprovedBy *string `json:"tier_approved_by"`
	IsActive       bool    `json:"is_active"`
}

// TransitionResponse reports the fields a tier or staff transition
// touched. Fields that do not apply to the transition are omitted.
type TransitionResponse struct {
	Message    string     `json:"message"`
	UserID     string     `json:"user_id"`
	Tier       Tier       `json:"tier,omitempty"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
	IsStaff    *bool      `json:"is_staff,omitempty"`
	AdminLevel AdminLevel `json:"admin_level,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type ListParams struct {
	Page     int
	PageSize int
	Tier     Tier
	IsStaff  *bool
	Search   string
}

func (p *ListParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
}

func (p *ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Stats counts active members by tier and admin level.
type Stats struct {
	Total        int                `json:"total"`
	ByTier       map[Tier]int       `json:"by_tier"`
	ByAdminLevel map[AdminLevel]int `json:"by_admin_level"`
}

func ToMemberResponse(m *Member) MemberResponse {
	return MemberResponse{
		ID:              m.ID,
		Username:        m.Username,
		Email:           m.Email,
		Name:            m.Name,
		Tier:            m.Tier,
		TierApprovedAt:  m.TierApprovedAt,
		AdminLevel:      m.AdminLevel,
		IsStaff:         m.IsStaff,
		IsSuperuser:     m.IsSuperuser,
		Phone:           m.Phone,
		Address:         m.Address,
		BirthDate:       m.BirthDate,
		Occupation:      m.Occupation,
		JoinSource:      m.JoinSource,
		JoinMessage:     m.JoinMessage,
		MarketingAgreed: m.MarketingAgreed,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func ToAdminMemberResponse(m *Member) AdminMemberResponse {
	return AdminMemberResponse{
		MemberResponse: ToMemberResponse(m),
		TierApprovedBy: m.TierApprovedBy,
		IsActive:       m.IsActive,
	}
}

func ToAdminMemberResponseList(members []Member) []AdminMemberResponse {
	out := make([]AdminMemberResponse, 0, len(members))
	for i := range members {
		out = append(out, ToAdminMemberResponse(&members[i]))
	}
	return out
}
