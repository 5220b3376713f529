// AngelaMos | 2026
// service.go

package contest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/joonyo2/yugwan/internal/core"
)

var (
	ErrRulesNotAgreed   = fmt.Errorf("rules_agreed: you must accept the contest rules: %w", core.ErrInvalidInput)
	ErrPrivacyNotAgreed = fmt.Errorf("privacy_agreed: you must consent to personal data collection: %w", core.ErrInvalidInput)
	ErrLookupIncomplete = fmt.Errorf("email and phone are required: %w", core.ErrInvalidInput)
)

type ScriptStore interface {
	Save(year int, name string, src io.Reader) (string, error)
	Remove(rel string) error
}

type AcceptanceNotifier interface {
	NotifyAccepted(ctx context.Context, app *Application)
}

// ScriptUpload is the applicant's speech script as received.
type ScriptUpload struct {
	Name    string
	Size    int64
	Content io.Reader
}

type Service struct {
	repo     Repository
	tx       core.Transactor
	txRepo   func(core.DBTX) Repository
	store    ScriptStore
	notifier AcceptanceNotifier
	maxBytes int64
	now      func() time.Time
}

func NewService(
	repo Repository,
	tx core.Transactor,
	txRepo func(core.DBTX) Repository,
	store ScriptStore,
	notifier AcceptanceNotifier,
	maxBytes int64,
) *Service {
	return &Service{
		repo:     repo,
		tx:       tx,
		txRepo:   txRepo,
		store:    store,
		notifier: notifier,
		maxBytes: maxBytes,
		now:      time.Now,
	}
}

// Apply stores the script and records a SUBMITTED application. The file
// is removed again if the insert fails.
func (s *Service) Apply(
	ctx context.Context,
	req ApplyRequest,
	script ScriptUpload,
) (*Application, error) {
	if !req.RulesAgreed {
		return nil, ErrRulesNotAgreed
	}
	if !req.PrivacyAgreed {
		return nil, ErrPrivacyNotAgreed
	}

	if _, err := CheckScriptName(script.Name); err != nil {
		return nil, err
	}
	if script.Size > s.maxBytes {
		return nil, ErrFileTooLarge
	}

	year := req.ContestYear
	if year == 0 {
		year = s.now().Year()
	}

	rel, err := s.store.Save(year, script.Name, script.Content)
	if err != nil {
		return nil, err
	}

	app := &Application{
		ContestYear:   year,
		Name:          strings.TrimSpace(req.Name),
		BirthDate:     req.BirthDate,
		SchoolName:    strings.TrimSpace(req.SchoolName),
		Grade:         req.Grade,
		Division:      req.Division,
		SpeechTitle:   strings.TrimSpace(req.SpeechTitle),
		ParentName:    strings.TrimSpace(req.ParentName),
		ContactParent: core.NormalizePhone(req.ContactParent),
		TeacherName:   strings.TrimSpace(req.TeacherName),
		Email:         strings.TrimSpace(req.Email),
		Address:       strings.TrimSpace(req.Address),
		ScriptFile:    rel,
		Status:        StatusSubmitted,
		RulesAgreed:   true,
		PrivacyAgreed: true,
		NewsAgreed:    req.NewsAgreed,
	}

	if err := s.repo.Create(ctx, app); err != nil {
		if rmErr := s.store.Remove(rel); rmErr != nil {
			slog.ErrorContext(ctx, "orphaned contest script", "path", rel, "error", rmErr)
		}
		return nil, err
	}

	slog.InfoContext(ctx, "contest application submitted",
		"application_id", app.ID,
		"receipt", app.ReceiptNumber(),
	)

	return app, nil
}

// Lookup returns the applicant's most recent application.
func (s *Service) Lookup(ctx context.Context, email, phone string) (*Application, error) {
	email = strings.TrimSpace(email)
	phone = core.NormalizePhone(strings.TrimSpace(phone))
	if email == "" || phone == "" {
		return nil, ErrLookupIncomplete
	}

	return s.repo.FindLatest(ctx, email, phone)
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Application, int, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, fmt.Errorf("status %q: %w", f.Status, core.ErrInvalidInput)
	}
	if f.Division != "" && f.Division.Label() == "" {
		return nil, 0, fmt.Errorf("division %q: %w", f.Division, core.ErrInvalidInput)
	}
	return s.repo.List(ctx, f)
}

func (s *Service) Get(ctx context.Context, id int64) (*Application, error) {
	return s.repo.Get(ctx, id)
}

// UpdateStatus applies an admin review decision. The row is locked while
// it changes, so of two concurrent moves into ACCEPTED only the first sees
// a different previous status and notifies the guardian after commit.
func (s *Service) UpdateStatus(
	ctx context.Context,
	id int64,
	req UpdateStatusRequest,
) (*Application, error) {
	if !req.Status.Valid() {
		return nil, fmt.Errorf("status %q: %w", req.Status, core.ErrInvalidInput)
	}

	var (
		app      *Application
		previous Status
	)
	err := s.tx.WithinTx(ctx, func(tx core.DBTX) error {
		repo := s.txRepo(tx)

		var err error
		app, err = repo.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		previous = app.Status
		app.Status = req.Status
		if req.AdminMemo != nil {
			app.AdminMemo = *req.AdminMemo
		}
		if req.RejectReason != nil {
			app.RejectReason = *req.RejectReason
		}

		return repo.UpdateStatus(ctx, app)
	})
	if err != nil {
		return nil, fmt.Errorf("update contest status: %w", err)
	}

	slog.InfoContext(ctx, "contest application status changed",
		"application_id", app.ID,
		"from", previous,
		"to", app.Status,
	)

	if app.Status == StatusAccepted && previous != StatusAccepted {
		s.notifier.NotifyAccepted(ctx, app)
	}

	return app, nil
}

func (s *Service) MaxUploadBytes() int64 {
	return s.maxBytes
}
