// AngelaMos | 2026
// handler.go

package contest

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/joonyo2/yugwan/internal/core"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100

	// formOverhead covers the non-file fields of an application form.
	formOverhead = 1 << 20
)

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

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly, intakeLimit func(http.Handler) http.Handler,
) {
	r.Route("/contest", func(r chi.Router) {
		r.With(intakeLimit).Post("/apply", h.Apply)
		r.Get("/my-application", h.Lookup)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Use(adminOnly)

			r.Get("/applications", h.List)
			r.Get("/applications/{id}", h.Get)
			r.Put("/applications/{id}/status", h.UpdateStatus)
		})
	})
}

func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	limit := h.service.MaxUploadBytes()
	r.Body = http.MaxBytesReader(w, r.Body, limit+formOverhead)

	if err := r.ParseMultipartForm(formOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			core.BadRequest(w, "script file exceeds the upload limit")
			return
		}
		core.BadRequest(w, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck // temp file cleanup

	req, err := applyRequestFromForm(r)
	if err != nil {
		core.BadRequest(w, err.Error())
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	file, header, err := r.FormFile("script_file")
	if err != nil {
		core.BadRequest(w, "script_file is required")
		return
	}
	defer file.Close() //nolint:errcheck // multipart temp file

	app, err := h.service.Apply(r.Context(), req, ScriptUpload{
		Name:    header.Filename,
		Size:    header.Size,
		Content: file,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, ApplyResponse{
		ID:            app.ID,
		Message:       "접수가 완료되었습니다.",
		ReceiptNumber: app.ReceiptNumber(),
	})
}

func applyRequestFromForm(r *http.Request) (ApplyRequest, error) {
	req := ApplyRequest{
		Name:          r.FormValue("name"),
		SchoolName:    r.FormValue("school_name"),
		Grade:         r.FormValue("grade"),
		Division:      Division(r.FormValue("division")),
		SpeechTitle:   r.FormValue("speech_title"),
		ParentName:    r.FormValue("parent_name"),
		ContactParent: r.FormValue("contact_parent"),
		TeacherName:   r.FormValue("teacher_name"),
		Email:         r.FormValue("email"),
		Address:       r.FormValue("address"),
		RulesAgreed:   formBool(r.FormValue("rules_agreed")),
		PrivacyAgreed: formBool(r.FormValue("privacy_agreed")),
		NewsAgreed:    formBool(r.FormValue("news_agreed")),
	}

	if raw := r.FormValue("contest_year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil || year < 2000 {
			return req, errors.New("contest_year is invalid")
		}
		req.ContestYear = year
	}

	if raw := r.FormValue("birth_date"); raw != "" {
		d, err := core.ParseDate(raw)
		if err != nil {
			return req, errors.New("birth_date must be YYYY-MM-DD")
		}
		req.BirthDate = d
	}

	return req, nil
}

func formBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "on", "1", "yes":
		return true
	default:
		return false
	}
}

func (h *Handler) Lookup(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	app, err := h.service.Lookup(r.Context(), q.Get("email"), q.Get("phone"))
	if err != nil {
		switch {
		case errors.Is(err, ErrLookupIncomplete):
			core.BadRequest(w, "email and phone are required")
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "application")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, ToApplicationResponse(app))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	f := ListFilter{
		Page:     max(core.QueryInt(r, "page", 1), 1),
		PageSize: core.QueryInt(r, "page_size", defaultPageSize),
		Year:     core.QueryInt(r, "year", 0),
		Status:   Status(strings.ToUpper(q.Get("status"))),
		Division: Division(q.Get("division")),
	}
	if f.PageSize < 1 || f.PageSize > maxPageSize {
		f.PageSize = defaultPageSize
	}

	apps, total, err := h.service.List(r.Context(), f)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Paginated(w, ToAdminApplicationResponseList(apps), f.Page, f.PageSize, total)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := core.Int64Param(r, "id")
	if err != nil {
		core.NotFound(w, "application")
		return
	}

	app, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToAdminApplicationResponse(app))
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := core.Int64Param(r, "id")
	if err != nil {
		core.NotFound(w, "application")
		return
	}

	var req UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	app, err := h.service.UpdateStatus(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToAdminApplicationResponse(app))
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrRulesNotAgreed):
		core.BadRequest(w, "rules_agreed: you must accept the contest rules")
	case errors.Is(err, ErrPrivacyNotAgreed):
		core.BadRequest(w, "privacy_agreed: you must consent to personal data collection")
	case errors.Is(err, ErrBlockedFileType):
		core.BadRequest(w, "this file type cannot be uploaded for security reasons")
	case errors.Is(err, ErrUnsupportedFileType):
		core.BadRequest(w, "only hwp, pdf, doc and docx files are accepted")
	case errors.Is(err, ErrFileTooLarge):
		core.BadRequest(w, "script file exceeds the upload limit")
	case errors.Is(err, ErrExecutableContent):
		core.BadRequest(w, "script file content is not an accepted document")
	case errors.Is(err, ErrContentMismatch):
		core.BadRequest(w, "script file content does not match its extension")
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "application")
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, "invalid filter")
	default:
		core.InternalServerError(w, err)
	}
}
