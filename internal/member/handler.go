// AngelaMos | 2026
// handler.go

package member

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/joonyo2/yugwan/internal/core"
	"github.com/joonyo2/yugwan/internal/middleware"
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

// RegisterRoutes mounts onto the /auth router.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator, adminOnly func(http.Handler) http.Handler,
) {
	r.Post("/register", h.Register)

	r.Group(func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/profile", h.GetProfile)
		r.Put("/profile", h.UpdateProfile)
		r.Post("/delete", h.DeleteAccount)

		r.Group(func(r chi.Router) {
			r.Use(adminOnly)

			r.Get("/users", h.ListMembers)
			r.Get("/users/stats", h.GetStats)
			r.Get("/users/{userID}", h.GetMember)
			r.Post("/users/{userID}/approve-supporter", h.ApproveSupporter)
			r.Post("/users/{userID}/revoke-supporter", h.RevokeSupporter)
			r.Post("/users/{userID}/assign-staff", h.AssignStaff)
			r.Post("/users/{userID}/revoke-staff", h.RevokeStaff)
		})
	})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	m, err := h.service.Register(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, RegisterResponse{
		Message: "registration complete",
		UserID:  m.ID,
		Tier:    m.Tier,
	})
}

func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	m, err := h.service.GetMe(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToMemberResponse(m))
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	m, err := h.service.UpdateMe(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToMemberResponse(m))
}

func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	var req DeleteAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	err := h.service.DeleteMe(r.Context(), middleware.GetUserID(r.Context()), req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, MessageResponse{Message: "account deleted"})
}

func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := ListParams{
		Page:     core.QueryInt(r, "page", 1),
		PageSize: core.QueryInt(r, "page_size", defaultPageSize),
		Search:   q.Get("search"),
	}

	if tier := Tier(q.Get("tier")); tier != "" {
		if !tier.Valid() {
			core.BadRequest(w, "tier must be one of [FREE SUPPORTER]")
			return
		}
		params.Tier = tier
	}

	staff, err := core.QueryBool(r, "is_staff")
	if err != nil {
		core.BadRequest(w, "is_staff must be a boolean")
		return
	}
	params.IsStaff = staff

	params.Normalize()

	members, total, err := h.service.List(r.Context(), params)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.Paginated(w, ToAdminMemberResponseList(members), params.Page, params.PageSize, total)
}

func (h *Handler) GetMember(w http.ResponseWriter, r *http.Request) {
	userID, ok := memberIDParam(w, r)
	if !ok {
		return
	}

	m, err := h.service.Get(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToAdminMemberResponse(m))
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, stats)
}

func (h *Handler) ApproveSupporter(w http.ResponseWriter, r *http.Request) {
	userID, ok := memberIDParam(w, r)
	if !ok {
		return
	}

	m, err := h.service.ApproveSupporter(r.Context(), middleware.GetUserID(r.Context()), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, TransitionResponse{
		Message:    "supporter approved",
		UserID:     m.ID,
		Tier:       m.Tier,
		ApprovedAt: m.TierApprovedAt,
	})
}

func (h *Handler) RevokeSupporter(w http.ResponseWriter, r *http.Request) {
	userID, ok := memberIDParam(w, r)
	if !ok {
		return
	}

	m, err := h.service.RevokeSupporter(r.Context(), middleware.GetUserID(r.Context()), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, TransitionResponse{
		Message: "supporter revoked",
		UserID:  m.ID,
		Tier:    m.Tier,
	})
}

func (h *Handler) AssignStaff(w http.ResponseWriter, r *http.Request) {
	userID, ok := memberIDParam(w, r)
	if !ok {
		return
	}

	m, err := h.service.AssignStaff(r.Context(), middleware.GetUserID(r.Context()), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, TransitionResponse{
		Message:    "staff assigned",
		UserID:     m.ID,
		IsStaff:    &m.IsStaff,
		AdminLevel: m.AdminLevel,
	})
}

func (h *Handler) RevokeStaff(w http.ResponseWriter, r *http.Request) {
	userID, ok := memberIDParam(w, r)
	if !ok {
		return
	}

	m, err := h.service.RevokeStaff(r.Context(), middleware.GetUserID(r.Context()), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, TransitionResponse{
		Message:    "staff revoked",
		UserID:     m.ID,
		IsStaff:    &m.IsStaff,
		AdminLevel: m.AdminLevel,
	})
}

// memberIDParam reads {userID}. Anything that is not a UUID cannot name a
// member, so it answers 404 without touching the database.
func memberIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := core.UUIDParam(r, "userID")
	if err != nil {
		core.NotFound(w, "member")
		return "", false
	}
	return id, true
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrUsernameTaken):
		core.Conflict(w, "username")
	case errors.Is(err, ErrEmailTaken):
		core.Conflict(w, "email")
	case errors.Is(err, core.ErrDuplicateKey):
		core.Conflict(w, "member")
	case errors.Is(err, ErrInvalidPassword):
		core.BadRequest(w, "password is incorrect")
	case errors.Is(err, ErrAlreadySupporter):
		core.JSONError(w, core.StateError("member is already a supporter"))
	case errors.Is(err, ErrAlreadyFree):
		core.JSONError(w, core.StateError("member is already on the free tier"))
	case errors.Is(err, ErrSuperuserProtected):
		core.Forbidden(w, "superuser accounts cannot lose staff status")
	case errors.Is(err, ErrSuperuserRequired):
		core.Forbidden(w, "superuser privileges required")
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "admin privileges required")
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "member")
	case errors.Is(err, core.ErrUnauthorized):
		core.Unauthorized(w, "")
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, invalidInputMessage(err))
	default:
		core.InternalServerError(w, err)
	}
}

func invalidInputMessage(err error) string {
	for _, target := range []error{
		core.ErrPasswordTooShort,
		core.ErrPasswordNumeric,
		core.ErrPasswordTooSimilar,
	} {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return "invalid request"
}
