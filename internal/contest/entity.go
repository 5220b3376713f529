// AngelaMos | 2026
// entity.go

package contest

import (
	"fmt"
	"time"

	"github.com/joonyo2/yugwan/internal/core"
)

type Division string

const (
	DivisionKorean  Division = "korean"
	DivisionEnglish Division = "english"
)

var divisionLabels = map[Division]string{
	DivisionKorean:  "한국어 웅변",
	DivisionEnglish: "영어 웅변",
}

func (d Division) Label() string { return divisionLabels[d] }

type Status string

const (
	StatusSubmitted Status = "SUBMITTED"
	StatusChecking  Status = "CHECKING"
	StatusAccepted  Status = "ACCEPTED"
	StatusRejected  Status = "REJECTED"
)

var statusLabels = map[Status]string{
	StatusSubmitted: "접수완료",
	StatusChecking:  "서류검토중",
	StatusAccepted:  "참가확정",
	StatusRejected:  "반려",
}

func (s Status) Label() string { return statusLabels[s] }

func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

var gradeLabels = map[string]string{
	"초4": "초등학교 4학년",
	"초5": "초등학교 5학년",
	"초6": "초등학교 6학년",
	"중1": "중학교 1학년",
	"중2": "중학교 2학년",
	"중3": "중학교 3학년",
	"고1": "고등학교 1학년",
	"고2": "고등학교 2학년",
	"고3": "고등학교 3학년",
}

func GradeLabel(grade string) string { return gradeLabels[grade] }

type Application struct {
	ID            int64     `db:"id"`
	ContestYear   int       `db:"contest_year"`
	Name          string    `db:"name"`
	BirthDate     core.Date `db:"birth_date"`
	SchoolName    string    `db:"school_name"`
	Grade         string    `db:"grade"`
	Division      Division  `db:"division"`
	SpeechTitle   string    `db:"speech_title"`
	ParentName    string    `db:"parent_name"`
	ContactParent string    `db:"contact_parent"`
	TeacherName   string    `db:"teacher_name"`
	Email         string    `db:"email"`
	Address       string    `db:"address"`
	ScriptFile    string    `db:"script_file"`
	Status        Status    `db:"status"`
	AdminMemo     string    `db:"admin_memo"`
	RejectReason  string    `db:"reject_reason"`
	RulesAgreed   bool      `db:"rules_agreed"`
	PrivacyAgreed bool      `db:"privacy_agreed"`
	NewsAgreed    bool      `db:"news_agreed"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

// ReceiptNumber is the applicant-facing reference, e.g. "2026-0042".
func (a *Application) ReceiptNumber() string {
	return fmt.Sprintf("%d-%04d", a.ContestYear, a.ID)
}
