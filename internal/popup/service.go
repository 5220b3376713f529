// AngelaMos | 2026
// service.go

package popup

import (
	"context"
	"fmt"
	"time"

	"github.com/joonyo2/yugwan/internal/core"
)

var ErrInvalidWindow = fmt.Errorf("end_at must be after start_at: %w", core.ErrInvalidInput)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) Now() time.Time {
	return s.now()
}

func (s *Service) ListActive(ctx context.Context) ([]Popup, error) {
	return s.repo.ListVisible(ctx, s.now())
}

func (s *Service) List(ctx context.Context) ([]Popup, error) {
	return s.repo.List(ctx)
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*Popup, error) {
	p := &Popup{
		Title:          req.Title,
		PCImageURL:     req.PCImageURL,
		MobileImageURL: req.MobileImageURL,
		LinkURL:        req.LinkURL,
		StartAt:        req.StartAt,
		EndAt:          req.EndAt,
		IsActive:       true,
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}

	if !p.validWindow() {
		return nil, ErrInvalidWindow
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateRequest) (*Popup, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		p.Title = *req.Title
	}
	if req.PCImageURL != nil {
		p.PCImageURL = *req.PCImageURL
	}
	if req.MobileImageURL != nil {
		p.MobileImageURL = *req.MobileImageURL
	}
	if req.LinkURL != nil {
		p.LinkURL = *req.LinkURL
	}
	if req.StartAt != nil {
		p.StartAt = *req.StartAt
	}
	if req.EndAt != nil {
		p.EndAt = *req.EndAt
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}

	if !p.validWindow() {
		return nil, ErrInvalidWindow
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
