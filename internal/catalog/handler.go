// AngelaMos | 2026
// handler.go

package catalog

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/booking-api/internal/core"
	"github.com/carterperez-dev/booking-api/internal/middleware"
)

type Handler struct {
	catalog   *Catalog
	validator *validator.Validate
}

func NewHandler(catalog *Catalog) *Handler {
	return &Handler{
		catalog:   catalog,
		validator: core.NewValidator(),
	}
}

// RegisterRoutes mounts the public listing and the admin-only mutations.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/services", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{serviceID}", h.Get)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Use(middleware.RequireAdmin)

			r.Post("/", h.Create)
			r.Put("/{serviceID}", h.Update)
			r.Delete("/{serviceID}", h.Delete)
		})
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	services, err := h.catalog.ListActive(r.Context())
	if err != nil {
		core.InternalServerError(w, r, err)
		return
	}

	core.OK(w, services)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	svc, err := h.catalog.Get(r.Context(), chi.URLParam(r, "serviceID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	core.OK(w, svc)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateServiceRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, err)
		return
	}

	svc, err := h.catalog.Create(r.Context(), req)
	if err != nil {
		core.InternalServerError(w, r, err, "body", req)
		return
	}

	core.Created(w, svc)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateServiceRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, err)
		return
	}

	svc, err := h.catalog.Update(r.Context(), chi.URLParam(r, "serviceID"), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	core.OK(w, svc)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Deactivate(r.Context(), chi.URLParam(r, "serviceID")); err != nil {
		h.writeError(w, r, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, core.ErrNotFound) {
		core.NotFound(w, "service")
		return
	}
	core.InternalServerError(w, r, err)
}
