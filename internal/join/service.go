// AngelaMos | 2026
// service.go

package join

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joonyo2/yugwan/internal/core"
)

var (
	ErrPrivacyNotAgreed    = fmt.Errorf("privacy_agreed: you must consent to personal data collection: %w", core.ErrInvalidInput)
	ErrInvalidAmount       = fmt.Errorf("amount must be greater than zero: %w", core.ErrInvalidInput)
	ErrReceiptNameRequired = fmt.Errorf("receipt_name is required when a receipt is requested: %w", core.ErrInvalidInput)
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type Service struct {
	repo   Repository
	tx     core.Transactor
	txRepo func(core.DBTX) Repository
	now    func() time.Time
}

func NewService(
	repo Repository,
	tx core.Transactor,
	txRepo func(core.DBTX) Repository,
) *Service {
	return &Service{repo: repo, tx: tx, txRepo: txRepo, now: time.Now}
}

func (s *Service) ApplyVolunteer(ctx context.Context, req VolunteerRequest) (*Volunteer, error) {
	if !req.PrivacyAgreed {
		return nil, ErrPrivacyNotAgreed
	}

	v := &Volunteer{
		Name:           strings.TrimSpace(req.Name),
		BirthDate:      req.BirthDate,
		Phone:          core.NormalizePhone(req.Phone),
		Email:          strings.TrimSpace(req.Email),
		Occupation:     strings.TrimSpace(req.Occupation),
		Programs:       Programs(req.Programs),
		AvailableDates: req.AvailableDates,
		Experience:     req.Experience,
		Motivation:     req.Motivation,
		PrivacyAgreed:  true,
	}

	for _, p := range v.Programs {
		if ProgramLabel(p) == "" {
			return nil, fmt.Errorf("program %q: %w", p, core.ErrInvalidInput)
		}
	}

	if err := s.repo.CreateVolunteer(ctx, v); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "volunteer application received", "volunteer_id", v.ID)
	return v, nil
}

// Donate records a donation pledge. userID is empty for anonymous donors.
func (s *Service) Donate(ctx context.Context, userID string, req DonationRequest) (*Donation, error) {
	if req.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	receiptName := strings.TrimSpace(req.ReceiptName)
	if req.ReceiptRequested && receiptName == "" {
		return nil, ErrReceiptNameRequired
	}

	d := &Donation{
		DonationType:     req.DonationType,
		Amount:           req.Amount,
		DonorName:        strings.TrimSpace(req.DonorName),
		Phone:            core.NormalizePhone(req.Phone),
		Email:            strings.TrimSpace(req.Email),
		ReceiptRequested: req.ReceiptRequested,
	}
	if req.ReceiptRequested {
		d.ReceiptName = receiptName
		d.ReceiptID = strings.TrimSpace(req.ReceiptID)
	}
	if userID != "" {
		d.UserID = &userID
	}

	if err := s.repo.CreateDonation(ctx, d); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "donation received",
		"donation_id", d.ID,
		"type", d.DonationType,
		"member", userID != "",
	)
	return d, nil
}

func normalize(f ListFilter) ListFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 || f.PageSize > maxPageSize {
		f.PageSize = defaultPageSize
	}
	return f
}

func (s *Service) ListVolunteers(ctx context.Context, f ListFilter) ([]Volunteer, int, error) {
	return s.repo.ListVolunteers(ctx, normalize(f))
}

func (s *Service) ListDonations(ctx context.Context, f ListFilter) ([]Donation, int, error) {
	if f.DonationType != "" && f.DonationType.Label() == "" {
		return nil, 0, fmt.Errorf("donation type %q: %w", f.DonationType, core.ErrInvalidInput)
	}
	return s.repo.ListDonations(ctx, normalize(f))
}

func (s *Service) ConfirmVolunteer(ctx context.Context, id int64, memo *string) (*Volunteer, error) {
	var v *Volunteer
	err := s.tx.WithinTx(ctx, func(tx core.DBTX) error {
		repo := s.txRepo(tx)

		var err error
		v, err = repo.GetVolunteerForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := v.Confirm(memo); err != nil {
			return err
		}
		return repo.SaveVolunteer(ctx, v)
	})
	if err != nil {
		return nil, fmt.Errorf("confirm volunteer: %w", err)
	}

	return v, nil
}

func (s *Service) ConfirmDonation(ctx context.Context, id int64) (*Donation, error) {
	var d *Donation
	err := s.tx.WithinTx(ctx, func(tx core.DBTX) error {
		repo := s.txRepo(tx)

		var err error
		d, err = repo.GetDonationForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := d.Confirm(s.now().UTC()); err != nil {
			return err
		}
		return repo.SaveDonation(ctx, d)
	})
	if err != nil {
		return nil, fmt.Errorf("confirm donation: %w", err)
	}

	slog.InfoContext(ctx, "donation confirmed", "donation_id", d.ID)
	return d, nil
}
