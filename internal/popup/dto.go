// AngelaMos | 2026
// dto.go

package popup

import (
	"time"
)

type CreateRequest struct {
	Title          string    `json:"title"            validate:"required,max=100"`
	PCImageURL     string    `json:"pc_image_url"     validate:"required,url"`
	MobileImageURL string    `json:"mobile_image_url" validate:"required,url"`
	LinkURL        string    `json:"link_url"         validate:"omitempty,url"`
	StartAt        time.Time `json:"start_at"         validate:"required"`
	EndAt          time.Time `json:"end_at"           validate:"required"`
	IsActive       *bool     `json:"is_active"`
}

type UpdateRequest struct {
	Title          *string    `json:"title"            validate:"omitempty,max=100"`
	PCImageURL     *string    `json:"pc_image_url"     validate:"omitempty,url"`
	MobileImageURL *string    `json:"mobile_image_url" validate:"omitempty,url"`
	LinkURL        *string    `json:"link_url"         validate:"omitempty,url"`
	StartAt        *time.Time `json:"start_at"`
	EndAt          *time.Time `json:"end_at"`
	IsActive       *bool      `json:"is_active"`
}

type Response struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	PCImageURL     string    `json:"pc_image_url"`
	MobileImageURL string    `json:"mobile_image_url"`
	LinkURL        string    `json:"link_url"`
	StartAt        time.Time `json:"start_at"`
	EndAt          time.Time `json:"end_at"`
	IsActive       bool      `json:"is_active"`
	IsVisible      bool      `json:"is_visible"`
}

func ToResponse(p *Popup, now time.Time) Response {
	return Response{
		ID:             p.ID,
		Title:          p.Title,
		PCImageURL:     p.PCImageURL,
		MobileImageURL: p.MobileImageURL,
		LinkURL:        p.LinkURL,
		StartAt:        p.StartAt,
		EndAt:          p.EndAt,
		IsActive:       p.IsActive,
		IsVisible:      p.VisibleAt(now),
	}
}

func ToResponseList(popups []Popup, now time.Time) []Response {
	out := make([]Response, 0, len(popups))
	for i := range popups {
		out = append(out, ToResponse(&popups[i], now))
	}
	return out
}
