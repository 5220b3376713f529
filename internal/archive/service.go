// AngelaMos | 2026
// service.go

package archive

import (
	"context"
	"fmt"
	"strings"

	"github.com/joonyo2/yugwan/internal/core"
)

type Service struct {
	repo   Repository
	tx     core.Transactor
	txRepo func(core.DBTX) Repository
}

func NewService(
	repo Repository,
	tx core.Transactor,
	txRepo func(core.DBTX) Repository,
) *Service {
	return &Service{repo: repo, tx: tx, txRepo: txRepo}
}

func (s *Service) ListNotices(ctx context.Context, f NoticeFilter) ([]Notice, int, error) {
	f.Normalize()
	f.Search = strings.TrimSpace(f.Search)
	if f.Category != "" && f.Category.Label() == "" {
		return nil, 0, fmt.Errorf("notice category %q: %w", f.Category, core.ErrInvalidInput)
	}
	return s.repo.ListNotices(ctx, f)
}

func (s *Service) GetNotice(ctx context.Context, id int64) (*Notice, error) {
	return s.repo.ViewNotice(ctx, id)
}

func (s *Service) CreateNotice(ctx context.Context, req CreateNoticeRequest) (*Notice, error) {
	n := &Notice{
		Category: req.Category,
		Title:    strings.TrimSpace(req.Title),
		Content:  req.Content,
		Author:   strings.TrimSpace(req.Author),
		IsPinned: req.IsPinned,
	}
	if err := s.repo.CreateNotice(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *Service) ListNews(ctx context.Context, f NewsFilter) ([]News, int, error) {
	f.Normalize()
	f.Search = strings.TrimSpace(f.Search)
	f.Source = strings.TrimSpace(f.Source)
	return s.repo.ListNews(ctx, f)
}

func (s *Service) CreateNews(ctx context.Context, req CreateNewsRequest) (*News, error) {
	n := &News{
		Source:        strings.TrimSpace(req.Source),
		Title:         strings.TrimSpace(req.Title),
		Excerpt:       req.Excerpt,
		LinkURL:       req.LinkURL,
		ThumbnailURL:  req.ThumbnailURL,
		IsFeatured:    req.IsFeatured,
		PublishedDate: req.PublishedDate,
	}
	if err := s.repo.CreateNews(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

func (s *Service) ListAlbums(ctx context.Context, f AlbumFilter) ([]Album, int, error) {
	f.Normalize()
	if f.Category != "" && f.Category.Label() == "" {
		return nil, 0, fmt.Errorf("album category %q: %w", f.Category, core.ErrInvalidInput)
	}
	return s.repo.ListAlbums(ctx, f)
}

func (s *Service) GetAlbum(ctx context.Context, id int64) (*Album, []Image, error) {
	return s.repo.ViewAlbum(ctx, id)
}

func (s *Service) CreateAlbum(ctx context.Context, req CreateAlbumRequest) (*Album, []Image, error) {
	a := &Album{
		Category:    req.Category,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		EventDate:   req.EventDate,
		CoverURL:    req.CoverURL,
		IsFeatured:  req.IsFeatured,
	}

	images := make([]Image, 0, len(req.Images))
	for i, img := range req.Images {
		order := img.SortOrder
		if order == 0 {
			order = i
		}
		images = append(images, Image{
			ImageURL:  img.ImageURL,
			Caption:   img.Caption,
			SortOrder: order,
		})
	}

	if a.CoverURL == "" && len(images) > 0 {
		a.CoverURL = images[0].ImageURL
	}

	err := s.tx.WithinTx(ctx, func(tx core.DBTX) error {
		return s.txRepo(tx).CreateAlbum(ctx, a, images)
	})
	if err != nil {
		return nil, nil, err
	}

	return a, images, nil
}

func (s *Service) ListVideos(ctx context.Context, p Page) ([]Video, int, error) {
	p.Normalize()
	return s.repo.ListVideos(ctx, p)
}

func (s *Service) GetVideo(ctx context.Context, id int64) (*Video, error) {
	return s.repo.ViewVideo(ctx, id)
}

func (s *Service) CreateVideo(ctx context.Context, req CreateVideoRequest) (*Video, error) {
	v := &Video{
		Title:        strings.TrimSpace(req.Title),
		YoutubeURL:   req.YoutubeURL,
		ThumbnailURL: req.ThumbnailURL,
		Duration:     req.Duration,
	}
	if err := s.repo.CreateVideo(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}
