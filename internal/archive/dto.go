// AngelaMos | 2026
// dto.go

package archive

import (
	"time"

	"github.com/joonyo2/yugwan/internal/core"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

type Page struct {
	Page     int
	PageSize int
}

func (p *Page) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
}

func (p Page) Offset() int {
	return (p.Page - 1) * p.PageSize
}

type NoticeFilter struct {
	Page
	Category NoticeCategory
	IsPinned *bool
	Search   string
}

type NewsFilter struct {
	Page
	IsFeatured *bool
	Source     string
	Year       int
	Search     string
}

type AlbumFilter struct {
	Page
	Category   AlbumCategory
	IsFeatured *bool
}

type CreateNoticeRequest struct {
	Category NoticeCategory `json:"category"  validate:"required,oneof=important event contest general"`
	Title    string         `json:"title"     validate:"required,max=200"`
	Content  string         `json:"content"   validate:"required"`
	Author   string         `json:"author"    validate:"required,max=50"`
	IsPinned bool           `json:"is_pinned"`
}

type CreateNewsRequest struct {
	Source        string    `json:"source"         validate:"required,max=50"`
	Title         string    `json:"title"          validate:"required,max=200"`
	Excerpt       string    `json:"excerpt"        validate:"required"`
	LinkURL       string    `json:"link_url"       validate:"required,url"`
	ThumbnailURL  string    `json:"thumbnail_url"  validate:"omitempty,url"`
	IsFeatured    bool      `json:"is_featured"`
	PublishedDate core.Date `json:"published_date" validate:"required"`
}

type CreateImageRequest struct {
	ImageURL  string `json:"image_url"  validate:"required,url"`
	Caption   string `json:"caption"    validate:"max=200"`
	SortOrder int    `json:"sort_order"`
}

type CreateAlbumRequest struct {
	Category    AlbumCategory        `json:"category"    validate:"required,oneof=contest memorial education global meeting"`
	Title       string               `json:"title"       validate:"required,max=200"`
	Description string               `json:"description"`
	EventDate   core.Date            `json:"event_date"  validate:"required"`
	CoverURL    string               `json:"cover_url"   validate:"omitempty,url"`
	IsFeatured  bool                 `json:"is_featured"`
	Images      []CreateImageRequest `json:"images"      validate:"max=200,dive"`
}

type CreateVideoRequest struct {
	Title        string `json:"title"         validate:"required,max=200"`
	YoutubeURL   string `json:"youtube_url"   validate:"required,url"`
	ThumbnailURL string `json:"thumbnail_url" validate:"omitempty,url"`
	Duration     string `json:"duration"      validate:"required,max=10"`
}

type NoticeResponse struct {
	ID              int64          `json:"id"`
	Category        NoticeCategory `json:"category"`
	CategoryDisplay string         `json:"category_display"`
	Title           string         `json:"title"`
	Content         string         `json:"content,omitempty"`
	Author          string         `json:"author"`
	Views           int            `json:"views"`
	IsPinned        bool           `json:"is_pinned"`
	CreatedAt       time.Time      `json:"created_at"`
}

type AlbumResponse struct {
	ID              int64           `json:"id"`
	Category        AlbumCategory   `json:"category"`
	CategoryDisplay string          `json:"category_display"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	EventDate       core.Date       `json:"event_date"`
	CoverURL        string          `json:"cover_url"`
	IsFeatured      bool            `json:"is_featured"`
	Views           int             `json:"views"`
	ImageCount      int             `json:"image_count"`
	Images          []ImageResponse `json:"images,omitempty"`
}

type ImageResponse struct {
	ID        int64  `json:"id"`
	ImageURL  string `json:"image_url"`
	Caption   string `json:"caption"`
	SortOrder int    `json:"sort_order"`
}

type NewsResponse struct {
	ID            int64     `json:"id"`
	Source        string    `json:"source"`
	Title         string    `json:"title"`
	Excerpt       string    `json:"excerpt"`
	LinkURL       string    `json:"link_url"`
	ThumbnailURL  string    `json:"thumbnail_url"`
	IsFeatured    bool      `json:"is_featured"`
	PublishedDate core.Date `json:"published_date"`
}

type VideoResponse struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	YoutubeURL   string    `json:"youtube_url"`
	ThumbnailURL string    `json:"thumbnail_url"`
	Duration     string    `json:"duration"`
	Views        int       `json:"views"`
	CreatedAt    time.Time `json:"created_at"`
}

// ToNoticeResponse omits the body unless withContent is set, so lists stay
// small.
func ToNoticeResponse(n *Notice, withContent bool) NoticeResponse {
	resp := NoticeResponse{
		ID:              n.ID,
		Category:        n.Category,
		CategoryDisplay: n.Category.Label(),
		Title:           n.Title,
		Author:          n.Author,
		Views:           n.Views,
		IsPinned:        n.IsPinned,
		CreatedAt:       n.CreatedAt,
	}
	if withContent {
		resp.Content = n.Content
	}
	return resp
}

func ToNoticeResponseList(notices []Notice) []NoticeResponse {
	out := make([]NoticeResponse, 0, len(notices))
	for i := range notices {
		out = append(out, ToNoticeResponse(&notices[i], false))
	}
	return out
}

func ToNewsResponseList(items []News) []NewsResponse {
	out := make([]NewsResponse, 0, len(items))
	for _, n := range items {
		out = append(out, NewsResponse{
			ID:            n.ID,
			Source:        n.Source,
			Title:         n.Title,
			Excerpt:       n.Excerpt,
			LinkURL:       n.LinkURL,
			ThumbnailURL:  n.ThumbnailURL,
			IsFeatured:    n.IsFeatured,
			PublishedDate: n.PublishedDate,
		})
	}
	return out
}

func ToAlbumResponse(a *Album, images []Image) AlbumResponse {
	resp := AlbumResponse{
		ID:              a.ID,
		Category:        a.Category,
		CategoryDisplay: a.Category.Label(),
		Title:           a.Title,
		Description:     a.Description,
		EventDate:       a.EventDate,
		CoverURL:        a.CoverURL,
		IsFeatured:      a.IsFeatured,
		Views:           a.Views,
		ImageCount:      a.ImageCount,
	}
	for _, img := range images {
		resp.Images = append(resp.Images, ImageResponse{
			ID:        img.ID,
			ImageURL:  img.ImageURL,
			Caption:   img.Caption,
			SortOrder: img.SortOrder,
		})
	}
	return resp
}

func ToAlbumResponseList(albums []Album) []AlbumResponse {
	out := make([]AlbumResponse, 0, len(albums))
	for i := range albums {
		out = append(out, ToAlbumResponse(&albums[i], nil))
	}
	return out
}

func ToVideoResponseList(videos []Video) []VideoResponse {
	out := make([]VideoResponse, 0, len(videos))
	for _, v := range videos {
		out = append(out, VideoResponse(v))
	}
	return out
}
