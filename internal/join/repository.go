// AngelaMos | 2026
// repository.go

package join

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/joonyo2/yugwan/internal/core"
)

type Repository interface {
	CreateVolunteer(ctx context.Context, v *Volunteer) error
	ListVolunteers(ctx context.Context, f ListFilter) ([]Volunteer, int, error)
	GetVolunteerForUpdate(ctx context.Context, id int64) (*Volunteer, error)
	SaveVolunteer(ctx context.Context, v *Volunteer) error

	CreateDonation(ctx context.Context, d *Donation) error
	ListDonations(ctx context.Context, f ListFilter) ([]Donation, int, error)
	GetDonationForUpdate(ctx context.Context, id int64) (*Donation, error)
	SaveDonation(ctx context.Context, d *Donation) error
}

const (
	volunteerColumns = "id, name, birth_date, phone, email, occupation, programs, available_dates, " +
		"experience, motivation, privacy_agreed, is_confirmed, admin_memo, created_at"
	donationColumns = "id, user_id, donation_type, amount, donor_name, phone, email, " +
		"receipt_requested, receipt_name, receipt_id, is_confirmed, confirmed_at, created_at"
)

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) CreateVolunteer(ctx context.Context, v *Volunteer) error {
	query := `
		INSERT INTO volunteer_applications (
			name, birth_date, phone, email, occupation, programs,
			available_dates, experience, motivation, privacy_agreed
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		v.Name,
		v.BirthDate,
		v.Phone,
		v.Email,
		v.Occupation,
		v.Programs,
		v.AvailableDates,
		v.Experience,
		v.Motivation,
		v.PrivacyAgreed,
	).Scan(&v.ID, &v.CreatedAt)
	if err != nil {
		return fmt.Errorf("create volunteer application: %w", err)
	}

	return nil
}

func (r *repository) ListVolunteers(ctx context.Context, f ListFilter) ([]Volunteer, int, error) {
	where := sq.And{}
	if f.IsConfirmed != nil {
		where = append(where, sq.Eq{"is_confirmed": *f.IsConfirmed})
	}

	total, err := r.count(ctx, "volunteer_applications", where)
	if err != nil {
		return nil, 0, fmt.Errorf("count volunteer applications: %w", err)
	}

	query, args, err := pagedSelect(volunteerColumns, "volunteer_applications", where, f).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build volunteer query: %w", err)
	}

	volunteers := []Volunteer{}
	if err := r.db.SelectContext(ctx, &volunteers, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list volunteer applications: %w", err)
	}

	return volunteers, total, nil
}

func (r *repository) GetVolunteerForUpdate(ctx context.Context, id int64) (*Volunteer, error) {
	query := `SELECT ` + volunteerColumns + `
		FROM volunteer_applications
		WHERE id = $1
		FOR UPDATE`

	var v Volunteer
	err := r.db.GetContext(ctx, &v, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get volunteer application: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get volunteer application: %w", err)
	}

	return &v, nil
}

func (r *repository) SaveVolunteer(ctx context.Context, v *Volunteer) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE volunteer_applications
		SET is_confirmed = $2, admin_memo = $3
		WHERE id = $1`,
		v.ID, v.IsConfirmed, v.AdminMemo,
	)
	if err != nil {
		return fmt.Errorf("save volunteer application: %w", err)
	}
	return nil
}

func (r *repository) CreateDonation(ctx context.Context, d *Donation) error {
	query := `
		INSERT INTO donations (
			user_id, donation_type, amount, donor_name, phone, email,
			receipt_requested, receipt_name, receipt_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		d.UserID,
		d.DonationType,
		d.Amount,
		d.DonorName,
		d.Phone,
		d.Email,
		d.ReceiptRequested,
		d.ReceiptName,
		d.ReceiptID,
	).Scan(&d.ID, &d.CreatedAt)
	if err != nil {
		return fmt.Errorf("create donation: %w", err)
	}

	return nil
}

func (r *repository) ListDonations(ctx context.Context, f ListFilter) ([]Donation, int, error) {
	where := sq.And{}
	if f.IsConfirmed != nil {
		where = append(where, sq.Eq{"is_confirmed": *f.IsConfirmed})
	}
	if f.DonationType != "" {
		where = append(where, sq.Eq{"donation_type": f.DonationType})
	}

	total, err := r.count(ctx, "donations", where)
	if err != nil {
		return nil, 0, fmt.Errorf("count donations: %w", err)
	}

	query, args, err := pagedSelect(donationColumns, "donations", where, f).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build donation query: %w", err)
	}

	donations := []Donation{}
	if err := r.db.SelectContext(ctx, &donations, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list donations: %w", err)
	}

	return donations, total, nil
}

func (r *repository) GetDonationForUpdate(ctx context.Context, id int64) (*Donation, error) {
	query := `SELECT ` + donationColumns + `
		FROM donations
		WHERE id = $1
		FOR UPDATE`

	var d Donation
	err := r.db.GetContext(ctx, &d, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get donation: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get donation: %w", err)
	}

	return &d, nil
}

func (r *repository) SaveDonation(ctx context.Context, d *Donation) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE donations
		SET is_confirmed = $2, confirmed_at = $3
		WHERE id = $1`,
		d.ID, d.IsConfirmed, d.ConfirmedAt,
	)
	if err != nil {
		return fmt.Errorf("save donation: %w", err)
	}
	return nil
}

func (r *repository) count(ctx context.Context, table string, where sq.And) (int, error) {
	query, args, err := core.Psql.Select("COUNT(*)").From(table).Where(where).ToSql()
	if err != nil {
		return 0, err
	}

	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, err
	}
	return total, nil
}

func pagedSelect(columns, table string, where sq.And, f ListFilter) sq.SelectBuilder {
	return core.Psql.
		Select(columns).
		From(table).
		Where(where).
		OrderBy("created_at DESC").
		Limit(uint64(f.PageSize)).                 //nolint:gosec // normalized positive
		Offset(uint64((f.Page - 1) * f.PageSize)) //nolint:gosec // normalized positive
}
