// AngelaMos | 2026
// entity.go

package join

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/joonyo2/yugwan/internal/core"
)

var ErrAlreadyConfirmed = fmt.Errorf("already confirmed: %w", core.ErrAlreadyInState)

var programLabels = map[string]string{
	"contest":   "웅변대회 운영",
	"education": "역사교육 봉사",
	"memorial":  "추모행사 지원",
	"office":    "사무국 지원",
}

func ProgramLabel(p string) string { return programLabels[p] }

// Programs is the set of volunteer programs, stored as a JSONB array.
type Programs []string

func (p Programs) Value() (driver.Value, error) {
	if p == nil {
		p = Programs{}
	}
	b, err := json.Marshal([]string(p))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (p *Programs) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*p = Programs{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("scan programs: unsupported type %T", src)
	}

	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("scan programs: %w", err)
	}
	*p = out
	return nil
}

type Volunteer struct {
	ID             int64     `db:"id"`
	Name           string    `db:"name"`
	BirthDate      core.Date `db:"birth_date"`
	Phone          string    `db:"phone"`
	Email          string    `db:"email"`
	Occupation     string    `db:"occupation"`
	Programs       Programs  `db:"programs"`
	AvailableDates string    `db:"available_dates"`
	Experience     string    `db:"experience"`
	Motivation     string    `db:"motivation"`
	PrivacyAgreed  bool      `db:"privacy_agreed"`
	IsConfirmed    bool      `db:"is_confirmed"`
	AdminMemo      string    `db:"admin_memo"`
	CreatedAt      time.Time `db:"created_at"`
}

type DonationType string

const (
	DonationOnce    DonationType = "once"
	DonationMonthly DonationType = "monthly"
)

var donationTypeLabels = map[DonationType]string{
	DonationOnce:    "일시 후원",
	DonationMonthly: "정기 후원",
}

func (t DonationType) Label() string { return donationTypeLabels[t] }

type Donation struct {
	ID               int64        `db:"id"`
	UserID           *string      `db:"user_id"`
	DonationType     DonationType `db:"donation_type"`
	Amount           int          `db:"amount"`
	DonorName        string       `db:"donor_name"`
	Phone            string       `db:"phone"`
	Email            string       `db:"email"`
	ReceiptRequested bool         `db:"receipt_requested"`
	ReceiptName      string       `db:"receipt_name"`
	ReceiptID        string       `db:"receipt_id"`
	IsConfirmed      bool         `db:"is_confirmed"`
	ConfirmedAt      *time.Time   `db:"confirmed_at"`
	CreatedAt        time.Time    `db:"created_at"`
}

// Confirm marks the deposit as received. is_confirmed and confirmed_at
// always change together.
func (d *Donation) Confirm(now time.Time) error {
	if d.IsConfirmed {
		return ErrAlreadyConfirmed
	}
	d.IsConfirmed = true
	d.ConfirmedAt = &now
	return nil
}

func (v *Volunteer) Confirm(memo *string) error {
	if v.IsConfirmed {
		return ErrAlreadyConfirmed
	}
	v.IsConfirmed = true
	if memo != nil {
		v.AdminMemo = *memo
	}
	return nil
}
