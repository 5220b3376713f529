// AngelaMos | 2026
// dto.go

package join

import (
	"time"

	"github.com/joonyo2/yugwan/internal/core"
)

type VolunteerRequest struct {
	Name           string    `json:"name"            validate:"required,max=50"`
	BirthDate      core.Date `json:"birth_date"      validate:"required"`
	Phone          string    `json:"phone"           validate:"required,phone"`
	Email          string    `json:"email"           validate:"required,email,max=255"`
	Occupation     string    `json:"occupation"      validate:"required,max=100"`
	Programs       []string  `json:"programs"        validate:"required,min=1,unique,dive,oneof=contest education memorial office"`
	AvailableDates string    `json:"available_dates" validate:"required"`
	Experience     string    `json:"experience"`
	Motivation     string    `json:"motivation"      validate:"required"`
	PrivacyAgreed  bool      `json:"privacy_agreed"`
}

type DonationRequest struct {
	DonationType     DonationType `json:"donation_type"     validate:"required,oneof=once monthly"`
	Amount           int          `json:"amount"`
	DonorName        string       `json:"donor_name"        validate:"required,max=50"`
	Phone            string       `json:"phone"             validate:"required,phone"`
	Email            string       `json:"email"             validate:"required,email,max=255"`
	ReceiptRequested bool         `json:"receipt_requested"`
	ReceiptName      string       `json:"receipt_name"      validate:"max=50"`
	ReceiptID        string       `json:"receipt_id"        validate:"max=20"`
}

type ConfirmVolunteerRequest struct {
	AdminMemo *string `json:"admin_memo"`
}

type ListFilter struct {
	Page         int
	PageSize     int
	IsConfirmed  *bool
	DonationType DonationType
}

type VolunteerCreatedResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

type DonationCreatedResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
	Amount  int    `json:"amount"`
}

type ProgramResponse struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

type VolunteerResponse struct {
	ID             int64             `json:"id"`
	Name           string            `json:"name"`
	BirthDate      core.Date         `json:"birth_date"`
	Phone          string            `json:"phone"`
	Email          string            `json:"email"`
	Occupation     string            `json:"occupation"`
	Programs       []ProgramResponse `json:"programs"`
	AvailableDates string            `json:"available_dates"`
	Experience     string            `json:"experience"`
	Motivation     string            `json:"motivation"`
	IsConfirmed    bool              `json:"is_confirmed"`
	AdminMemo      string            `json:"admin_memo"`
	CreatedAt      time.Time         `json:"created_at"`
}

type DonationResponse struct {
	ID               int64        `json:"id"`
	UserID           *string      `json:"user_id"`
	DonationType     DonationType `json:"donation_type"`
	TypeDisplay      string       `json:"type_display"`
	Amount           int          `json:"amount"`
	DonorName        string       `json:"donor_name"`
	Phone            string       `json:"phone"`
	Email            string       `json:"email"`
	ReceiptRequested bool         `json:"receipt_requested"`
	ReceiptName      string       `json:"receipt_name"`
	ReceiptID        string       `json:"receipt_id"`
	IsConfirmed      bool         `json:"is_confirmed"`
	ConfirmedAt      *time.Time   `json:"confirmed_at"`
	CreatedAt        time.Time    `json:"created_at"`
}

func ToVolunteerResponse(v *Volunteer) VolunteerResponse {
	programs := make([]ProgramResponse, 0, len(v.Programs))
	for _, p := range v.Programs {
		programs = append(programs, ProgramResponse{Code: p, Label: ProgramLabel(p)})
	}

	return VolunteerResponse{
		ID:             v.ID,
		Name:           v.Name,
		BirthDate:      v.BirthDate,
		Phone:          v.Phone,
		Email:          v.Email,
		Occupation:     v.Occupation,
		Programs:       programs,
		AvailableDates: v.AvailableDates,
		Experience:     v.Experience,
		Motivation:     v.Motivation,
		IsConfirmed:    v.IsConfirmed,
		AdminMemo:      v.AdminMemo,
		CreatedAt:      v.CreatedAt,
	}
}

func ToVolunteerResponseList(vs []Volunteer) []VolunteerResponse {
	out := make([]VolunteerResponse, 0, len(vs))
	for i := range vs {
		out = append(out, ToVolunteerResponse(&vs[i]))
	}
	return out
}

func ToDonationResponse(d *Donation) DonationResponse {
	return DonationResponse{
		ID:               d.ID,
		UserID:           d.UserID,
		DonationType:     d.DonationType,
		TypeDisplay:      d.DonationType.Label(),
		Amount:           d.Amount,
		DonorName:        d.DonorName,
		Phone:            d.Phone,
		Email:            d.Email,
		ReceiptRequested: d.ReceiptRequested,
		ReceiptName:      d.ReceiptName,
		ReceiptID:        d.ReceiptID,
		IsConfirmed:      d.IsConfirmed,
		ConfirmedAt:      d.ConfirmedAt,
		CreatedAt:        d.CreatedAt,
	}
}

func ToDonationResponseList(ds []Donation) []DonationResponse {
	out := make([]DonationResponse, 0, len(ds))
	for i := range ds {
		out = append(out, ToDonationResponse(&ds[i]))
	}
	return out
}
