// AngelaMos | 2026
// dto.go

package board

import (
	"time"
)

// UpsertPolicyRequest changes only the fields that are present.
type UpsertPolicyRequest struct {
	ReadPermission  *Level `json:"read_permission,omitempty"  validate:"omitempty,oneof=ALL FREE SUPPORTER ADMIN"`
	WritePermission *Level `json:"write_permission,omitempty" validate:"omitempty,oneof=ALL FREE SUPPORTER ADMIN"`
	IsActive        *bool  `json:"is_active,omitempty"`
}

type PolicyResponse struct {
	BoardType       string    `json:"board_type"`
	ReadPermission  Level     `json:"read_permission"`
	WritePermission Level     `json:"write_permission"`
	IsActive        bool      `json:"is_active"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type UpsertPolicyResponse struct {
	Message string         `json:"message"`
	Policy  PolicyResponse `json:"policy"`
}

// Decision is the outcome of evaluating one board for one caller.
type Decision struct {
	BoardType string `json:"board_type"`
	CanRead   bool   `json:"can_read"`
	CanWrite  bool   `json:"can_write"`
	UserTier  *Tier  `json:"user_tier"`
	IsAdmin   bool   `json:"is_admin"`
}

func ToPolicyResponse(p *Policy) PolicyResponse {
	return PolicyResponse{
		BoardType:       p.BoardType,
		ReadPermission:  p.ReadPermission,
		WritePermission: p.WritePermission,
		IsActive:        p.IsActive,
		UpdatedAt:       p.UpdatedAt,
	}
}

func ToPolicyResponseList(policies []Policy) []PolicyResponse {
	out := make([]PolicyResponse, 0, len(policies))
	for i := range policies {
		out = append(out, ToPolicyResponse(&policies[i]))
	}
	return out
}
