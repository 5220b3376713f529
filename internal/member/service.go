// AngelaMos | 2026
// service.go

package member

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/joonyo2/yugwan/internal/auth"
	"github.com/joonyo2/yugwan/internal/board"
	"github.com/joonyo2/yugwan/internal/core"
	"github.com/joonyo2/yugwan/internal/metrics"
)

// SessionRevoker ends every refresh session a member holds.
type SessionRevoker interface {
	RevokeAllForUser(ctx context.Context, userID string) error
}

type Service struct {
	repo     Repository
	tx       core.Transactor
	txRepo   func(core.DBTX) Repository
	sessions SessionRevoker
	now      func() time.Time
}

func NewService(
	repo Repository,
	tx core.Transactor,
	txRepo func(core.DBTX) Repository,
	sessions SessionRevoker,
) *Service {
	return &Service{
		repo:     repo,
		tx:       tx,
		txRepo:   txRepo,
		sessions: sessions,
		now:      time.Now,
	}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*Member, error) {
	if err := core.ValidatePasswordStrength(req.Password, req.Username, req.Email); err != nil {
		return nil, fmt.Errorf("register: %w: %w", core.ErrInvalidInput, err)
	}

	hash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	m := &Member{
		ID:              uuid.New().String(),
		Username:        req.Username,
		Email:           strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:    hash,
		Name:            strings.TrimSpace(req.Name),
		Tier:            TierFree,
		IsActive:        true,
		Phone:           core.NormalizePhone(req.Phone),
		Address:         req.Address,
		BirthDate:       req.BirthDate,
		Occupation:      req.Occupation,
		JoinSource:      req.JoinSource,
		JoinMessage:     req.JoinMessage,
		MarketingAgreed: req.MarketingAgreed,
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return nil, err
	}

	return m, nil
}

func (s *Service) GetMe(ctx context.Context, memberID string) (*Member, error) {
	if memberID == "" {
		return nil, fmt.Errorf("get me: %w", core.ErrUnauthorized)
	}
	return s.repo.GetByID(ctx, memberID)
}

func (s *Service) UpdateMe(
	ctx context.Context,
	memberID string,
	req UpdateProfileRequest,
) (*Member, error) {
	if memberID == "" {
		return nil, fmt.Errorf("update me: %w", core.ErrUnauthorized)
	}

	m, err := s.repo.GetByID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		m.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		m.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		m.Phone = core.NormalizePhone(*req.Phone)
	}
	if req.Address != nil {
		m.Address = *req.Address
	}
	if req.BirthDate != nil {
		m.BirthDate = req.BirthDate
	}
	if req.Occupation != nil {
		m.Occupation = *req.Occupation
	}
	if req.JoinSource != nil {
		m.JoinSource = *req.JoinSource
	}
	if req.JoinMessage != nil {
		m.JoinMessage = *req.JoinMessage
	}
	if req.MarketingAgreed != nil {
		m.MarketingAgreed = *req.MarketingAgreed
	}

	if err := s.repo.Save(ctx, m); err != nil {
		return nil, err
	}

	return m, nil
}

// DeleteMe re-verifies the password, soft-deletes the account and ends
// all of its sessions.
func (s *Service) DeleteMe(ctx context.Context, memberID, password string) error {
	if memberID == "" {
		return fmt.Errorf("delete me: %w", core.ErrUnauthorized)
	}

	m, err := s.repo.GetByID(ctx, memberID)
	if err != nil {
		return err
	}

	valid, err := core.VerifyPassword(password, m.PasswordHash)
	if err != nil {
		return fmt.Errorf("verify password: %w", err)
	}
	if !valid {
		return ErrInvalidPassword
	}

	if err := s.repo.SoftDelete(ctx, memberID); err != nil {
		return err
	}

	if s.sessions != nil {
		if err := s.sessions.RevokeAllForUser(ctx, memberID); err != nil {
			return fmt.Errorf("revoke sessions: %w", err)
		}
	}

	return nil
}

func (s *Service) List(ctx context.Context, params ListParams) ([]Member, int, error) {
	return s.repo.List(ctx, params)
}

func (s *Service) Get(ctx context.Context, id string) (*Member, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	return s.repo.Stats(ctx)
}

// ApproveSupporter promotes target to SUPPORTER on behalf of an admin.
func (s *Service) ApproveSupporter(ctx context.Context, actorID, targetID string) (*Member, error) {
	return s.transition(ctx, "approve_supporter", actorID, targetID,
		requireAdmin,
		func(actor, target *Member) error {
			return target.ApproveSupporter(actor.ID, s.now().UTC())
		},
	)
}

// RevokeSupporter returns target to FREE on behalf of an admin.
func (s *Service) RevokeSupporter(ctx context.Context, actorID, targetID string) (*Member, error) {
	return s.transition(ctx, "revoke_supporter", actorID, targetID,
		requireAdmin,
		func(_, target *Member) error {
			return target.RevokeSupporter()
		},
	)
}

// AssignStaff sets the staff flag. Only superusers may call it.
func (s *Service) AssignStaff(ctx context.Context, actorID, targetID string) (*Member, error) {
	return s.transition(ctx, "assign_staff", actorID, targetID,
		requireSuperuser,
		func(_, target *Member) error {
			target.GrantStaff()
			return nil
		},
	)
}

// RevokeStaff clears the staff flag. Only superusers may call it, and
// superuser targets are refused.
func (s *Service) RevokeStaff(ctx context.Context, actorID, targetID string) (*Member, error) {
	return s.transition(ctx, "revoke_staff", actorID, targetID,
		requireSuperuser,
		func(_, target *Member) error {
			return target.RevokeStaff()
		},
	)
}

// transition runs authorize, the guard in apply, and the write in one
// transaction with the target row locked. Either the whole change
// commits or nothing does.
func (s *Service) transition(
	ctx context.Context,
	name, actorID, targetID string,
	authorize func(actor *Member) error,
	apply func(actor, target *Member) error,
) (*Member, error) {
	ctx, span := core.StartSpan(ctx, "member."+name,
		attribute.String("member.actor_id", actorID),
		attribute.String("member.target_id", targetID),
	)

	var target *Member
	err := s.tx.WithinTx(ctx, func(tx core.DBTX) error {
		repo := s.txRepo(tx)

		actor, err := repo.GetByID(ctx, actorID)
		if errors.Is(err, core.ErrNotFound) {
			return fmt.Errorf("%s: unknown actor: %w", name, core.ErrForbidden)
		}
		if err != nil {
			return fmt.Errorf("%s: load actor: %w", name, err)
		}

		if err := authorize(actor); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}

		target, err = repo.GetForUpdate(ctx, targetID)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}

		if err := apply(actor, target); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}

		target.TokenVersion++
		if err := repo.Save(ctx, target); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}

		return nil
	})

	metrics.MemberTransitionsTotal.WithLabelValues(name, transitionOutcome(err)).Inc()
	if err == nil {
		core.AddSpanEvent(ctx, "member.transitioned",
			attribute.String("member.tier", string(target.Tier)),
			attribute.String("member.admin_level", string(target.AdminLevel)),
		)
	}
	core.EndSpan(span, err)

	if err != nil {
		return nil, err
	}
	return target, nil
}

func requireAdmin(actor *Member) error {
	if !actor.IsActive || !actor.IsAdmin() {
		return ErrAdminRequired
	}
	return nil
}

func requireSuperuser(actor *Member) error {
	if !actor.IsActive || !actor.IsSuperuser {
		return ErrSuperuserRequired
	}
	return nil
}

func transitionOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, core.ErrAlreadyInState),
		errors.Is(err, core.ErrForbidden),
		errors.Is(err, core.ErrNotFound):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeError
	}
}

// ResolveCaller implements board.CallerResolver with the member's current
// tier and flags. Inactive members resolve as not found.
func (s *Service) ResolveCaller(ctx context.Context, memberID string) (board.Caller, error) {
	m, err := s.repo.GetByID(ctx, memberID)
	if err != nil {
		return board.Anonymous, err
	}

	if !m.IsActive {
		return board.Anonymous, fmt.Errorf("resolve caller: inactive: %w", core.ErrNotFound)
	}

	return m.Caller(), nil
}

// GetByLogin implements auth.UserProvider.
func (s *Service) GetByLogin(ctx context.Context, login string) (*auth.UserInfo, error) {
	m, err := s.repo.GetByLogin(ctx, strings.TrimSpace(login))
	if err != nil {
		return nil, err
	}
	return toUserInfo(m), nil
}

// GetByID implements auth.UserProvider.
func (s *Service) GetByID(ctx context.Context, id string) (*auth.UserInfo, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toUserInfo(m), nil
}

func (s *Service) IncrementTokenVersion(ctx context.Context, memberID string) error {
	return s.repo.IncrementTokenVersion(ctx, memberID)
}

func (s *Service) UpdatePassword(ctx context.Context, memberID, passwordHash string) error {
	return s.repo.UpdatePassword(ctx, memberID, passwordHash)
}

func toUserInfo(m *Member) *auth.UserInfo {
	return &auth.UserInfo{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		Name:         m.Name,
		PasswordHash: m.PasswordHash,
		Tier:         string(m.Tier),
		AdminLevel:   string(m.AdminLevel),
		IsActive:     m.IsActive,
		TokenVersion: m.TokenVersion,
	}
}

var (
	_ auth.UserProvider    = (*Service)(nil)
	_ board.CallerResolver = (*Service)(nil)
)
