// AngelaMos | 2026
// entity.go

package popup

import (
	"time"
)

type Popup struct {
	ID             int64     `db:"id"`
	Title          string    `db:"title"`
	PCImageURL     string    `db:"pc_image_url"`
	MobileImageURL string    `db:"mobile_image_url"`
	LinkURL        string    `db:"link_url"`
	StartAt        time.Time `db:"start_at"`
	EndAt          time.Time `db:"end_at"`
	IsActive       bool      `db:"is_active"`
	CreatedAt      time.Time `db:"created_at"`
}

// VisibleAt reports whether p should be shown at now. Both window ends
// are inclusive.
func (p *Popup) VisibleAt(now time.Time) bool {
	return p.IsActive && !now.Before(p.StartAt) && !now.After(p.EndAt)
}

func (p *Popup) validWindow() bool {
	return p.EndAt.After(p.StartAt)
}
