// AngelaMos | 2026
// service.go

package board

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/joonyo2/yugwan/internal/core"
	"github.com/joonyo2/yugwan/internal/metrics"
)

// CallerResolver loads the current tier and admin status of a member.
// Implementations return core.ErrNotFound for unknown or deleted members.
type CallerResolver interface {
	ResolveCaller(ctx context.Context, memberID string) (Caller, error)
}

type Service struct {
	repo     Repository
	resolver CallerResolver
}

func NewService(repo Repository, resolver CallerResolver) *Service {
	return &Service{repo: repo, resolver: resolver}
}

// CallerFor builds the caller for an authenticated member id, or the
// anonymous caller when memberID is empty or no longer resolves.
func (s *Service) CallerFor(ctx context.Context, memberID string) (Caller, error) {
	if memberID == "" || s.resolver == nil {
		return Anonymous, nil
	}

	caller, err := s.resolver.ResolveCaller(ctx, memberID)
	if errors.Is(err, core.ErrNotFound) {
		return Anonymous, nil
	}
	if err != nil {
		return Anonymous, fmt.Errorf("resolve caller: %w", err)
	}

	return caller, nil
}

// Policy returns the stored policy for boardType, or nil when the board
// has none.
func (s *Service) Policy(ctx context.Context, boardType string) (*Policy, error) {
	policy, err := s.repo.Get(ctx, boardType)
	if errors.Is(err, core.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return policy, nil
}

func (s *Service) Check(
	ctx context.Context,
	boardType string,
	caller Caller,
) (*Decision, error) {
	policy, err := s.Policy(ctx, boardType)
	if err != nil {
		return nil, fmt.Errorf("check %s: %w", boardType, err)
	}

	decision := &Decision{
		BoardType: boardType,
		CanRead:   CanRead(policy, caller),
		CanWrite:  CanWrite(policy, caller),
		IsAdmin:   caller.IsAdmin,
	}
	if caller.Authenticated {
		tier := caller.Tier
		decision.UserTier = &tier
	}

	recordCheck(boardType, ModeRead, decision.CanRead)
	recordCheck(boardType, ModeWrite, decision.CanWrite)

	return decision, nil
}

// Authorize returns nil when caller may access boardType in mode. Denials
// are ErrUnauthorized for anonymous callers and ErrForbidden otherwise.
func (s *Service) Authorize(
	ctx context.Context,
	boardType string,
	mode Mode,
	caller Caller,
) error {
	policy, err := s.Policy(ctx, boardType)
	if err != nil {
		return fmt.Errorf("authorize %s: %w", boardType, err)
	}

	allowed := Allowed(policy, mode, caller)
	recordCheck(boardType, mode, allowed)

	if allowed {
		return nil
	}

	if !caller.Authenticated {
		return fmt.Errorf("%s %s: %w", mode, boardType, core.ErrUnauthorized)
	}
	return fmt.Errorf("%s %s: %w", mode, boardType, core.ErrForbidden)
}

func (s *Service) List(ctx context.Context) ([]Policy, error) {
	return s.repo.List(ctx, false)
}

// Upsert creates the board's policy with defaults when absent, then
// applies whichever fields req carries.
func (s *Service) Upsert(
	ctx context.Context,
	boardType string,
	req UpsertPolicyRequest,
) (*Policy, bool, error) {
	boardType = strings.TrimSpace(boardType)
	if boardType == "" {
		return nil, false, fmt.Errorf("upsert policy: empty board type: %w", core.ErrInvalidInput)
	}

	created := false
	policy, err := s.repo.Get(ctx, boardType)
	switch {
	case errors.Is(err, core.ErrNotFound):
		policy = DefaultPolicy(boardType)
		created = true
	case err != nil:
		return nil, false, fmt.Errorf("upsert policy: %w", err)
	}

	if req.ReadPermission != nil {
		if !req.ReadPermission.Valid() {
			return nil, false, fmt.Errorf(
				"upsert policy: invalid read level %q: %w",
				*req.ReadPermission, core.ErrInvalidInput,
			)
		}
		policy.ReadPermission = *req.ReadPermission
	}

	if req.WritePermission != nil {
		if !req.WritePermission.Valid() {
			return nil, false, fmt.Errorf(
				"upsert policy: invalid write level %q: %w",
				*req.WritePermission, core.ErrInvalidInput,
			)
		}
		policy.WritePermission = *req.WritePermission
	}

	if req.IsActive != nil {
		policy.IsActive = *req.IsActive
	}

	if err := s.repo.Upsert(ctx, policy); err != nil {
		return nil, false, err
	}

	return policy, created, nil
}

func recordCheck(boardType string, mode Mode, allowed bool) {
	if !slices.Contains(KnownBoards, boardType) {
		boardType = "other"
	}
	metrics.PermissionChecksTotal.
		WithLabelValues(boardType, string(mode), strconv.FormatBool(allowed)).
		Inc()
}
