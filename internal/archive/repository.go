// AngelaMos | 2026
// repository.go

package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/joonyo2/yugwan/internal/core"
)

type Repository interface {
	ListNotices(ctx context.Context, f NoticeFilter) ([]Notice, int, error)
	ViewNotice(ctx context.Context, id int64) (*Notice, error)
	CreateNotice(ctx context.Context, n *Notice) error

	ListNews(ctx context.Context, f NewsFilter) ([]News, int, error)
	CreateNews(ctx context.Context, n *News) error

	ListAlbums(ctx context.Context, f AlbumFilter) ([]Album, int, error)
	ViewAlbum(ctx context.Context, id int64) (*Album, []Image, error)
	CreateAlbum(ctx context.Context, a *Album, images []Image) error

	ListVideos(ctx context.Context, p Page) ([]Video, int, error)
	ViewVideo(ctx context.Context, id int64) (*Video, error)
	CreateVideo(ctx context.Context, v *Video) error
}

const (
	noticeColumns = "id, category, title, content, author, views, is_pinned, created_at, updated_at"
	newsColumns   = "id, source, title, excerpt, link_url, thumbnail_url, is_featured, published_date, created_at"
	albumColumns  = "a.id, a.category, a.title, a.description, a.event_date, a.cover_url, a.is_featured, a.views, a.created_at"
	imageColumns  = "id, album_id, image_url, caption, sort_order, created_at"
	videoColumns  = "id, title, youtube_url, thumbnail_url, duration, views, created_at"

	imageCountExpr = "(SELECT COUNT(*) FROM gallery_images i WHERE i.album_id = a.id) AS image_count"
)

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) ListNotices(ctx context.Context, f NoticeFilter) ([]Notice, int, error) {
	where := sq.And{}
	if f.Category != "" {
		where = append(where, sq.Eq{"category": f.Category})
	}
	if f.IsPinned != nil {
		where = append(where, sq.Eq{"is_pinned": *f.IsPinned})
	}
	if f.Search != "" {
		pattern := "%" + core.EscapeLike(f.Search) + "%"
		where = append(where, sq.Or{
			sq.ILike{"title": pattern},
			sq.ILike{"content": pattern},
		})
	}

	total, err := r.count(ctx, "notices", where)
	if err != nil {
		return nil, 0, fmt.Errorf("count notices: %w", err)
	}

	query, args, err := core.Psql.
		Select(noticeColumns).
		From("notices").
		Where(where).
		OrderBy("is_pinned DESC", "created_at DESC").
		Limit(uint64(f.PageSize)).  //nolint:gosec // normalized positive
		Offset(uint64(f.Offset())). //nolint:gosec // normalized positive
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build notice query: %w", err)
	}

	notices := []Notice{}
	if err := r.db.SelectContext(ctx, &notices, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list notices: %w", err)
	}

	return notices, total, nil
}

// ViewNotice bumps the view counter and returns the updated row in one
// statement so concurrent reads never lose an increment.
func (r *repository) ViewNotice(ctx context.Context, id int64) (*Notice, error) {
	query := `
		UPDATE notices SET views = views + 1
		WHERE id = $1
		RETURNING ` + noticeColumns

	var n Notice
	if err := getOne(ctx, r.db, &n, query, id); err != nil {
		return nil, fmt.Errorf("view notice: %w", err)
	}

	return &n, nil
}

func (r *repository) CreateNotice(ctx context.Context, n *Notice) error {
	query := `
		INSERT INTO notices (category, title, content, author, is_pinned)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, views, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		n.Category,
		n.Title,
		n.Content,
		n.Author,
		n.IsPinned,
	).Scan(&n.ID, &n.Views, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create notice: %w", err)
	}

	return nil
}

func (r *repository) ListNews(ctx context.Context, f NewsFilter) ([]News, int, error) {
	where := sq.And{}
	if f.IsFeatured != nil {
		where = append(where, sq.Eq{"is_featured": *f.IsFeatured})
	}
	if f.Source != "" {
		where = append(where, sq.Eq{"source": f.Source})
	}
	if f.Year > 0 {
		where = append(where, sq.Expr("EXTRACT(YEAR FROM published_date) = ?", f.Year))
	}
	if f.Search != "" {
		pattern := "%" + core.EscapeLike(f.Search) + "%"
		where = append(where, sq.Or{
			sq.ILike{"title": pattern},
			sq.ILike{"excerpt": pattern},
		})
	}

	total, err := r.count(ctx, "news", where)
	if err != nil {
		return nil, 0, fmt.Errorf("count news: %w", err)
	}

	query, args, err := core.Psql.
		Select(newsColumns).
		From("news").
		Where(where).
		OrderBy("published_date DESC", "id DESC").
		Limit(uint64(f.PageSize)).  //nolint:gosec // normalized positive
		Offset(uint64(f.Offset())). //nolint:gosec // normalized positive
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build news query: %w", err)
	}

	items := []News{}
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list news: %w", err)
	}

	return items, total, nil
}

func (r *repository) CreateNews(ctx context.Context, n *News) error {
	query := `
		INSERT INTO news (
			source, title, excerpt, link_url, thumbnail_url, is_featured,
			published_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		n.Source,
		n.Title,
		n.Excerpt,
		n.LinkURL,
		n.ThumbnailURL,
		n.IsFeatured,
		n.PublishedDate,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("create news: %w", err)
	}

	return nil
}

func (r *repository) ListAlbums(ctx context.Context, f AlbumFilter) ([]Album, int, error) {
	where := sq.And{}
	if f.Category != "" {
		where = append(where, sq.Eq{"a.category": f.Category})
	}
	if f.IsFeatured != nil {
		where = append(where, sq.Eq{"a.is_featured": *f.IsFeatured})
	}

	total, err := r.count(ctx, "gallery_albums a", where)
	if err != nil {
		return nil, 0, fmt.Errorf("count albums: %w", err)
	}

	query, args, err := core.Psql.
		Select(albumColumns, imageCountExpr).
		From("gallery_albums a").
		Where(where).
		OrderBy("a.event_date DESC", "a.id DESC").
		Limit(uint64(f.PageSize)).  //nolint:gosec // normalized positive
		Offset(uint64(f.Offset())). //nolint:gosec // normalized positive
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build album query: %w", err)
	}

	albums := []Album{}
	if err := r.db.SelectContext(ctx, &albums, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list albums: %w", err)
	}

	return albums, total, nil
}

func (r *repository) ViewAlbum(ctx context.Context, id int64) (*Album, []Image, error) {
	query := `
		UPDATE gallery_albums a SET views = views + 1
		WHERE a.id = $1
		RETURNING ` + albumColumns + `, ` + imageCountExpr

	var a Album
	if err := getOne(ctx, r.db, &a, query, id); err != nil {
		return nil, nil, fmt.Errorf("view album: %w", err)
	}

	imagesQuery := `SELECT ` + imageColumns + `
		FROM gallery_images
		WHERE album_id = $1
		ORDER BY sort_order, created_at`

	images := []Image{}
	if err := r.db.SelectContext(ctx, &images, imagesQuery, id); err != nil {
		return nil, nil, fmt.Errorf("list album images: %w", err)
	}

	return &a, images, nil
}

// CreateAlbum inserts the album and its images. Callers that need
// atomicity pass a transaction-bound repository.
func (r *repository) CreateAlbum(ctx context.Context, a *Album, images []Image) error {
	query := `
		INSERT INTO gallery_albums (
			category, title, description, event_date, cover_url, is_featured
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, views, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		a.Category,
		a.Title,
		a.Description,
		a.EventDate,
		a.CoverURL,
		a.IsFeatured,
	).Scan(&a.ID, &a.Views, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("create album: %w", err)
	}

	for i := range images {
		images[i].AlbumID = a.ID
		err := r.db.QueryRowxContext(ctx, `
			INSERT INTO gallery_images (album_id, image_url, caption, sort_order)
			VALUES ($1, $2, $3, $4)
			RETURNING id, created_at`,
			a.ID,
			images[i].ImageURL,
			images[i].Caption,
			images[i].SortOrder,
		).Scan(&images[i].ID, &images[i].CreatedAt)
		if err != nil {
			return fmt.Errorf("create album image: %w", err)
		}
	}
	a.ImageCount = len(images)

	return nil
}

func (r *repository) ListVideos(ctx context.Context, p Page) ([]Video, int, error) {
	total, err := r.count(ctx, "gallery_videos", sq.And{})
	if err != nil {
		return nil, 0, fmt.Errorf("count videos: %w", err)
	}

	query := `SELECT ` + videoColumns + `
		FROM gallery_videos
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	videos := []Video{}
	if err := r.db.SelectContext(ctx, &videos, query, p.PageSize, p.Offset()); err != nil {
		return nil, 0, fmt.Errorf("list videos: %w", err)
	}

	return videos, total, nil
}

func (r *repository) ViewVideo(ctx context.Context, id int64) (*Video, error) {
	query := `
		UPDATE gallery_videos SET views = views + 1
		WHERE id = $1
		RETURNING ` + videoColumns

	var v Video
	if err := getOne(ctx, r.db, &v, query, id); err != nil {
		return nil, fmt.Errorf("view video: %w", err)
	}

	return &v, nil
}

func (r *repository) CreateVideo(ctx context.Context, v *Video) error {
	query := `
		INSERT INTO gallery_videos (title, youtube_url, thumbnail_url, duration)
		VALUES ($1, $2, $3, $4)
		RETURNING id, views, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		v.Title,
		v.YoutubeURL,
		v.ThumbnailURL,
		v.Duration,
	).Scan(&v.ID, &v.Views, &v.CreatedAt)
	if err != nil {
		return fmt.Errorf("create video: %w", err)
	}

	return nil
}

func (r *repository) count(ctx context.Context, from string, where sq.And) (int, error) {
	query, args, err := core.Psql.
		Select("COUNT(*)").
		From(from).
		Where(where).
		ToSql()
	if err != nil {
		return 0, err
	}

	var total int
	if err := r.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, err
	}

	return total, nil
}

func getOne(ctx context.Context, db core.DBTX, dest any, query string, args ...any) error {
	err := db.GetContext(ctx, dest, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return core.ErrNotFound
	}
	return err
}
