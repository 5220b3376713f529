// AngelaMos | 2026
// handler.go

package join

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

func (h *Handler) RegisterRoutes(
	r chi.Router,
	optionalAuth, authenticator, adminOnly, intakeLimit func(http.Handler) http.Handler,
) {
	r.Route("/join", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(optionalAuth)
			r.Use(intakeLimit)

			r.Post("/volunteers/apply", h.ApplyVolunteer)
			r.Post("/donations", h.Donate)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Use(adminOnly)

			r.Get("/volunteers", h.ListVolunteers)
			r.Post("/volunteers/{id}/confirm", h.ConfirmVolunteer)
			r.Get("/donations", h.ListDonations)
			r.Post("/donations/{id}/confirm", h.ConfirmDonation)
		})
	})
}

func (h *Handler) ApplyVolunteer(w http.ResponseWriter, r *http.Request) {
	var req VolunteerRequest
	if !h.decode(w, r, &req) {
		return
	}

	v, err := h.service.ApplyVolunteer(r.Context(), req)
	if err != nil {
		writeError(w, err, "volunteer application")
		return
	}

	core.Created(w, VolunteerCreatedResponse{
		ID:      v.ID,
		Message: "자원봉사 신청이 완료되었습니다.",
	})
}

func (h *Handler) Donate(w http.ResponseWriter, r *http.Request) {
	var req DonationRequest
	if !h.decode(w, r, &req) {
		return
	}

	d, err := h.service.Donate(r.Context(), middleware.GetUserID(r.Context()), req)
	if err != nil {
		writeError(w, err, "donation")
		return
	}

	core.Created(w, DonationCreatedResponse{
		ID:      d.ID,
		Message: "후원 신청이 완료되었습니다.",
		Amount:  d.Amount,
	})
}

func listFilter(r *http.Request) (ListFilter, error) {
	confirmed, err := core.QueryBool(r, "is_confirmed")
	if err != nil {
		return ListFilter{}, err
	}

	return ListFilter{
		Page:         core.QueryInt(r, "page", 1),
		PageSize:     core.QueryInt(r, "page_size", defaultPageSize),
		IsConfirmed:  confirmed,
		DonationType: DonationType(r.URL.Query().Get("donation_type")),
	}, nil
}

func (h *Handler) ListVolunteers(w http.ResponseWriter, r *http.Request) {
	f, err := listFilter(r)
	if err != nil {
		core.BadRequest(w, "is_confirmed must be a boolean")
		return
	}
	f = normalize(f)

	volunteers, total, err := h.service.ListVolunteers(r.Context(), f)
	if err != nil {
		writeError(w, err, "volunteer application")
		return
	}

	core.Paginated(w, ToVolunteerResponseList(volunteers), f.Page, f.PageSize, total)
}

func (h *Handler) ListDonations(w http.ResponseWriter, r *http.Request) {
	f, err := listFilter(r)
	if err != nil {
		core.BadRequest(w, "is_confirmed must be a boolean")
		return
	}
	f = normalize(f)

	donations, total, err := h.service.ListDonations(r.Context(), f)
	if err != nil {
		writeError(w, err, "donation")
		return
	}

	core.Paginated(w, ToDonationResponseList(donations), f.Page, f.PageSize, total)
}

func (h *Handler) ConfirmVolunteer(w http.ResponseWriter, r *http.Request) {
	id, err := core.Int64Param(r, "id")
	if err != nil {
		core.NotFound(w, "volunteer application")
		return
	}

	var req ConfirmVolunteerRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			core.BadRequest(w, "invalid request body")
			return
		}
	}

	v, err := h.service.ConfirmVolunteer(r.Context(), id, req.AdminMemo)
	if err != nil {
		writeError(w, err, "volunteer application")
		return
	}

	core.OK(w, ToVolunteerResponse(v))
}

func (h *Handler) ConfirmDonation(w http.ResponseWriter, r *http.Request) {
	id, err := core.Int64Param(r, "id")
	if err != nil {
		core.NotFound(w, "donation")
		return
	}

	d, err := h.service.ConfirmDonation(r.Context(), id)
	if err != nil {
		writeError(w, err, "donation")
		return
	}

	core.OK(w, ToDonationResponse(d))
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
	case errors.Is(err, ErrPrivacyNotAgreed):
		core.BadRequest(w, "privacy_agreed: you must consent to personal data collection")
	case errors.Is(err, ErrInvalidAmount):
		core.BadRequest(w, "amount must be greater than zero")
	case errors.Is(err, ErrReceiptNameRequired):
		core.BadRequest(w, "receipt_name is required when a receipt is requested")
	case errors.Is(err, ErrAlreadyConfirmed):
		core.JSONError(w, core.StateError(resource+" is already confirmed"))
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, resource)
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, "invalid "+resource)
	default:
		core.InternalServerError(w, err)
	}
}
