// AngelaMos | 2026
// handler.go

package board

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
	authenticator, optionalAuth, adminOnly func(http.Handler) http.Handler,
) {
	r.With(optionalAuth).Get("/check-permission/{boardType}", h.CheckPermission)

	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Use(adminOnly)

		r.Get("/board-permissions", h.ListPolicies)
		r.Post("/board-permissions/{boardType}", h.UpsertPolicy)
	})
}

func (h *Handler) CheckPermission(w http.ResponseWriter, r *http.Request) {
	boardType := chi.URLParam(r, "boardType")

	caller, err := h.service.CallerFor(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	decision, err := h.service.Check(r.Context(), boardType, caller)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, decision)
}

func (h *Handler) ListPolicies(w http.ResponseWriter, r *http.Request) {
	policies, err := h.service.List(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToPolicyResponseList(policies))
}

func (h *Handler) UpsertPolicy(w http.ResponseWriter, r *http.Request) {
	boardType := chi.URLParam(r, "boardType")

	var req UpsertPolicyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	policy, created, err := h.service.Upsert(r.Context(), boardType, req)
	if err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, "invalid permission level")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	resp := UpsertPolicyResponse{
		Message: "board permission updated",
		Policy:  ToPolicyResponse(policy),
	}
	if created {
		resp.Message = "board permission created"
		core.Created(w, resp)
		return
	}

	core.OK(w, resp)
}

// Require gates a route on the board policy for boardType. It must run
// after OptionalAuth or Authenticator.
func (h *Handler) Require(boardType string, mode Mode) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, err := h.service.CallerFor(r.Context(), middleware.GetUserID(r.Context()))
			if err != nil {
				core.InternalServerError(w, err)
				return
			}

			err = h.service.Authorize(r.Context(), boardType, mode, caller)
			switch {
			case err == nil:
				next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
			case errors.Is(err, core.ErrUnauthorized):
				core.Unauthorized(w, "login required for this board")
			case errors.Is(err, core.ErrForbidden):
				core.Forbidden(w, "insufficient membership tier for this board")
			default:
				core.InternalServerError(w, err)
			}
		})
	}
}
