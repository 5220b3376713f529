// AngelaMos | 2026
// dto.go

package contest

import (
	"time"

	"github.com/joonyo2/yugwan/internal/core"
)

// ApplyRequest is decoded from the multipart form fields of an
// application. The script file travels separately.
type ApplyRequest struct {
	ContestYear   int       `form:"contest_year"`
	Name          string    `form:"name"           validate:"required,max=50"`
	BirthDate     core.Date `form:"birth_date"     validate:"required"`
	SchoolName    string    `form:"school_name"    validate:"required,max=100"`
	Grade         string    `form:"grade"          validate:"required,oneof=초4 초5 초6 중1 중2 중3 고1 고2 고3"`
	Division      Division  `form:"division"       validate:"required,oneof=korean english"`
	SpeechTitle   string    `form:"speech_title"   validate:"required,max=200"`
	ParentName    string    `form:"parent_name"    validate:"required,max=50"`
	ContactParent string    `form:"contact_parent" validate:"required,phone"`
	TeacherName   string    `form:"teacher_name"   validate:"max=50"`
	Email         string    `form:"email"          validate:"required,email,max=255"`
	Address       string    `form:"address"        validate:"max=200"`
	RulesAgreed   bool      `form:"rules_agreed"`
	PrivacyAgreed bool      `form:"privacy_agreed"`
	NewsAgreed    bool      `form:"news_agreed"`
}

type ListFilter struct {
	Page     int
	PageSize int
	Year     int
	Status   Status
	Division Division
}

type UpdateStatusRequest struct {
	Status       Status  `json:"status"        validate:"required,oneof=SUBMITTED CHECKING ACCEPTED REJECTED"`
	AdminMemo    *string `json:"admin_memo"`
	RejectReason *string `json:"reject_reason"`
}

type ApplyResponse struct {
	ID            int64  `json:"id"`
	Message       string `json:"message"`
	ReceiptNumber string `json:"receipt_number"`
}

type ApplicationResponse struct {
	ID              int64     `json:"id"`
	ContestYear     int       `json:"contest_year"`
	Name            string    `json:"name"`
	BirthDate       core.Date `json:"birth_date"`
	SchoolName      string    `json:"school_name"`
	Grade           string    `json:"grade"`
	GradeDisplay    string    `json:"grade_display"`
	Division        Division  `json:"division"`
	DivisionDisplay string    `json:"division_display"`
	SpeechTitle     string    `json:"speech_title"`
	ParentName      string    `json:"parent_name"`
	ContactParent   string    `json:"contact_parent"`
	TeacherName     string    `json:"teacher_name"`
	Email           string    `json:"email"`
	Address         string    `json:"address"`
	ScriptFile      string    `json:"script_file"`
	Status          Status    `json:"status"`
	StatusDisplay   string    `json:"status_display"`
	RulesAgreed     bool      `json:"rules_agreed"`
	PrivacyAgreed   bool      `json:"privacy_agreed"`
	NewsAgreed      bool      `json:"news_agreed"`
	CreatedAt       time.Time `json:"created_at"`
	ReceiptNumber   string    `json:"receipt_number"`
}

// AdminApplicationResponse adds the internal review fields.
type AdminApplicationResponse struct {
	ApplicationResponse
	AdminMemo    string    `json:"admin_memo"`
	RejectReason string    `json:"reject_reason"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func ToApplicationResponse(a *Application) ApplicationResponse {
	return ApplicationResponse{
		ID:              a.ID,
		ContestYear:     a.ContestYear,
		Name:            a.Name,
		BirthDate:       a.BirthDate,
		SchoolName:      a.SchoolName,
		Grade:           a.Grade,
		GradeDisplay:    GradeLabel(a.Grade),
		Division:        a.Division,
		DivisionDisplay: a.Division.Label(),
		SpeechTitle:     a.SpeechTitle,
		ParentName:      a.ParentName,
		ContactParent:   a.ContactParent,
		TeacherName:     a.TeacherName,
		Email:           a.Email,
		Address:         a.Address,
		ScriptFile:      a.ScriptFile,
		Status:          a.Status,
		StatusDisplay:   a.Status.Label(),
		RulesAgreed:     a.RulesAgreed,
		PrivacyAgreed:   a.PrivacyAgreed,
		NewsAgreed:      a.NewsAgreed,
		CreatedAt:       a.CreatedAt,
		ReceiptNumber:   a.ReceiptNumber(),
	}
}

func ToAdminApplicationResponse(a *Application) AdminApplicationResponse {
	return AdminApplicationResponse{
		ApplicationResponse: ToApplicationResponse(a),
		AdminMemo:           a.AdminMemo,
		RejectReason:        a.RejectReason,
		UpdatedAt:           a.UpdatedAt,
	}
}

func ToAdminApplicationResponseList(apps []Application) []AdminApplicationResponse {
	out := make([]AdminApplicationResponse, 0, len(apps))
	for i := range apps {
		out = append(out, ToAdminApplicationResponse(&apps[i]))
	}
	return out
}
