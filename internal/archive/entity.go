// AngelaMos | 2026
// entity.go

package archive

import (
	"time"

	"github.com/joonyo2/yugwan/internal/core"
)

type NoticeCategory string

const (
	NoticeImportant NoticeCategory = "important"
	NoticeEvent     NoticeCategory = "event"
	NoticeContest   NoticeCategory = "contest"
	NoticeGeneral   NoticeCategory = "general"
)

var noticeLabels = map[NoticeCategory]string{
	NoticeImportant: "중요",
	NoticeEvent:     "행사",
	NoticeContest:   "웅변대회",
	NoticeGeneral:   "일반",
}

func (c NoticeCategory) Label() string { return noticeLabels[c] }

type AlbumCategory string

const (
	AlbumContest   AlbumCategory = "contest"
	AlbumMemorial  AlbumCategory = "memorial"
	AlbumEducation AlbumCategory = "education"
	AlbumGlobal    AlbumCategory = "global"
	AlbumMeeting   AlbumCategory = "meeting"
)

var albumLabels = map[AlbumCategory]string{
	AlbumContest:   "웅변대회",
	AlbumMemorial:  "추모행사",
	AlbumEducation: "교육활동",
	AlbumGlobal:    "국제교류",
	AlbumMeeting:   "회의/행사",
}

func (c AlbumCategory) Label() string { return albumLabels[c] }

type Notice struct {
	ID        int64          `db:"id"`
	Category  NoticeCategory `db:"category"`
	Title     string         `db:"title"`
	Content   string         `db:"content"`
	Author    string         `db:"author"`
	Views     int            `db:"views"`
	IsPinned  bool           `db:"is_pinned"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

type News struct {
	ID            int64     `db:"id"`
	Source        string    `db:"source"`
	Title         string    `db:"title"`
	Excerpt       string    `db:"excerpt"`
	LinkURL       string    `db:"link_url"`
	ThumbnailURL  string    `db:"thumbnail_url"`
	IsFeatured    bool      `db:"is_featured"`
	PublishedDate core.Date `db:"published_date"`
	CreatedAt     time.Time `db:"created_at"`
}

type Album struct {
	ID          int64         `db:"id"`
	Category    AlbumCategory `db:"category"`
	Title       string        `db:"title"`
	Description string        `db:"description"`
	EventDate   core.Date     `db:"event_date"`
	CoverURL    string        `db:"cover_url"`
	IsFeatured  bool          `db:"is_featured"`
	Views       int           `db:"views"`
	ImageCount  int           `db:"image_count"`
	CreatedAt   time.Time     `db:"created_at"`
}

type Image struct {
	ID        int64     `db:"id"`
	AlbumID   int64     `db:"album_id"`
	ImageURL  string    `db:"image_url"`
	Caption   string    `db:"caption"`
	SortOrder int       `db:"sort_order"`
	CreatedAt time.Time `db:"created_at"`
}

type Video struct {
	ID           int64     `db:"id"`
	Title        string    `db:"title"`
	YoutubeURL   string    `db:"youtube_url"`
	ThumbnailURL string    `db:"thumbnail_url"`
	Duration     string    `db:"duration"`
	Views        int       `db:"views"`
	CreatedAt    time.Time `db:"created_at"`
}
