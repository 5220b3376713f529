// AngelaMos | 2026
// handler.go

package archive

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/joonyo2/yugwan/internal/board"
	"github.com/joonyo2/yugwan/internal/core"
)

// Gate returns middleware that enforces the board policy for one board
// and access mode. board.Handler.Require satisfies it.
type Gate func(boardType string, mode board.Mode) func(http.Handler) http.Handler

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

// RegisterRoutes mounts the archive boards. Reads run behind optionalAuth
// so members-only policies can see the caller; writes require a session.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	optionalAuth, authenticator func(http.Handler) http.Handler,
	gate Gate,
) {
	mount := func(r chi.Router, path, boardType string, list, detail, create http.HandlerFunc) {
		r.Route(path, func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(optionalAuth)
				r.Use(gate(boardType, board.ModeRead))
				r.Get("/", list)
				if detail != nil {
					r.Get("/{id}", detail)
				}
			})

			r.Group(func(r chi.Router) {
				r.Use(authenticator)
				r.Use(gate(boardType, board.ModeWrite))
				r.Post("/", create)
			})
		})
	}

	r.Route("/archive", func(r chi.Router) {
		mount(r, "/notices", board.Notice, h.ListNotices, h.GetNotice, h.CreateNotice)
		mount(r, "/news", board.News, h.ListNews, nil, h.CreateNews)
		mount(r, "/gallery/albums", board.Gallery, h.ListAlbums, h.GetAlbum, h.CreateAlbum)
		mount(r, "/gallery/videos", board.Video, h.ListVideos, h.GetVideo, h.CreateVideo)
	})
}

func pageFromQuery(r *http.Request) Page {
	p := Page{
		Page:     core.QueryInt(r, "page", 1),
		PageSize: core.QueryInt(r, "page_size", defaultPageSize),
	}
	p.Normalize()
	return p
}

func (h *Handler) ListNotices(w http.ResponseWriter, r *http.Request) {
	pinned, err := core.QueryBool(r, "is_pinned")
	if err != nil {
		core.BadRequest(w, "is_pinned must be a boolean")
		return
	}

	f := NoticeFilter{
		Page:     pageFromQuery(r),
		Category: NoticeCategory(r.URL.Query().Get("category")),
		IsPinned: pinned,
		Search:   r.URL.Query().Get("search"),
	}

	notices, total, err := h.service.ListNotices(r.Context(), f)
	if err != nil {
		writeError(w, err, "notice")
		return
	}

	core.Paginated(w, ToNoticeResponseList(notices), f.Page.Page, f.PageSize, total)
}

func (h *Handler) GetNotice(w http.ResponseWriter, r *http.Request) {
	id, err := core.Int64Param(r, "id")
	if err != nil {
		core.NotFound(w, "notice")
		return
	}

	n, err := h.service.GetNotice(r.Context(), id)
	if err != nil {
		writeError(w, err, "notice")
		return
	}

	core.OK(w, ToNoticeResponse(n, true))
}

func (h *Handler) CreateNotice(w http.ResponseWriter, r *http.Request) {
	var req CreateNoticeRequest
	if !h.decode(w, r, &req) {
		return
	}

	n, err := h.service.CreateNotice(r.Context(), req)
	if err != nil {
		writeError(w, err, "notice")
		return
	}

	core.Created(w, ToNoticeResponse(n, true))
}

func (h *Handler) ListNews(w http.ResponseWriter, r *http.Request) {
	featured, err := core.QueryBool(r, "is_featured")
	if err != nil {
		core.BadRequest(w, "is_featured must be a boolean")
		return
	}

	q := r.URL.Query()
	f := NewsFilter{
		Page:       pageFromQuery(r),
		IsFeatured: featured,
		Source:     q.Get("source"),
		Year:       core.QueryInt(r, "year", 0),
		Search:     q.Get("search"),
	}

	items, total, err := h.service.ListNews(r.Context(), f)
	if err != nil {
		writeError(w, err, "news")
		return
	}

	core.Paginated(w, ToNewsResponseList(items), f.Page.Page, f.PageSize, total)
}

func (h *Handler) CreateNews(w http.ResponseWriter, r *http.Request) {
	var req CreateNewsRequest
	if !h.decode(w, r, &req) {
		return
	}

	n, err := h.service.CreateNews(r.Context(), req)
	if err != nil {
		writeError(w, err, "news")
		return
	}

	core.Created(w, ToNewsResponseList([]News{*n})[0])
}

func (h *Handler) ListAlbums(w http.ResponseWriter, r *http.Request) {
	featured, err := core.QueryBool(r, "is_featured")
	if err != nil {
		core.BadRequest(w, "is_featured must be a boolean")
		return
	}

	f := AlbumFilter{
		Page:       pageFromQuery(r),
		Category:   AlbumCategory(r.URL.Query().Get("category")),
		IsFeatured: featured,
	}

	albums, total, err := h.service.ListAlbums(r.Context(), f)
	if err != nil {
		writeError(w, err, "album")
		return
	}

	core.Paginated(w, ToAlbumResponseList(albums), f.Page.Page, f.PageSize, total)
}

func (h *Handler) GetAlbum(w http.ResponseWriter, r *http.Request) {
	id, err := core.Int64Param(r, "id")
	if err != nil {
		core.NotFound(w, "album")
		return
	}

	a, images, err := h.service.GetAlbum(r.Context(), id)
	if err != nil {
		writeError(w, err, "album")
		return
	}

	resp := ToAlbumResponse(a, images)
	if resp.Images == nil {
		resp.Images = []ImageResponse{}
	}
	core.OK(w, resp)
}

func (h *Handler) CreateAlbum(w http.ResponseWriter, r *http.Request) {
	var req CreateAlbumRequest
	if !h.decode(w, r, &req) {
		return
	}

	a, images, err := h.service.CreateAlbum(r.Context(), req)
	if err != nil {
		writeError(w, err, "album")
		return
	}

	core.Created(w, ToAlbumResponse(a, images))
}

func (h *Handler) ListVideos(w http.ResponseWriter, r *http.Request) {
	p := pageFromQuery(r)

	videos, total, err := h.service.ListVideos(r.Context(), p)
	if err != nil {
		writeError(w, err, "video")
		return
	}

	core.Paginated(w, ToVideoResponseList(videos), p.Page, p.PageSize, total)
}

func (h *Handler) GetVideo(w http.ResponseWriter, r *http.Request) {
	id, err := core.Int64Param(r, "id")
	if err != nil {
		core.NotFound(w, "video")
		return
	}

	v, err := h.service.GetVideo(r.Context(), id)
	if err != nil {
		writeError(w, err, "video")
		return
	}

	core.OK(w, VideoResponse(*v))
}

func (h *Handler) CreateVideo(w http.ResponseWriter, r *http.Request) {
	var req CreateVideoRequest
	if !h.decode(w, r, &req) {
		return
	}

	v, err := h.service.CreateVideo(r.Context(), req)
	if err != nil {
		writeError(w, err, "video")
		return
	}

	core.Created(w, VideoResponse(*v))
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		core.BadRequest(w, "invalid request body")
		return false
	}

	if err := h.validator.Struct(dst); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return false
	}

	return true
}

func writeError(w http.ResponseWriter, err error, resource string) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, resource)
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, "invalid "+resource+" filter")
	default:
		core.InternalServerError(w, err)
	}
}
