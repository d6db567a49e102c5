// AngelaMos | 2026
// handler.go

package booking

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/booking-api/internal/core"
	"github.com/carterperez-dev/booking-api/internal/middleware"
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

// RegisterRoutes mounts /bookings behind authenticator. createLimiter only
// wraps booking creation and may be nil.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	createLimiter func(http.Handler) http.Handler,
) {
	r.Route("/bookings", func(r chi.Router) {
		r.Use(authenticator)

		r.Group(func(r chi.Router) {
			if createLimiter != nil {
				r.Use(createLimiter)
			}
			r.Post("/", h.Create)
		})

		r.Get("/", h.List)
		r.Get("/{bookingID}", h.Get)
		r.Put("/{bookingID}/status", h.UpdateStatus)
	})
}

func actorFrom(r *http.Request) Actor {
	return Actor{
		UserID: middleware.GetUserID(r.Context()),
		Role:   middleware.GetUserRole(r.Context()),
	}
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, err)
		return
	}

	d, err := h.service.Create(r.Context(), actorFrom(r), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	core.Created(w, ToBookingResponse(d))
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListFilter(r)
	if err != nil {
		core.BadRequest(w, err.Error())
		return
	}

	list, err := h.service.List(r.Context(), actorFrom(r), filter)
	if err != nil {
		core.InternalServerError(w, r, err)
		return
	}

	core.OK(w, ToBookingResponseList(list))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.service.Get(r.Context(), actorFrom(r), chi.URLParam(r, "bookingID"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	core.OK(w, ToBookingResponse(d))
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req UpdateStatusRequest
	if err := core.DecodeJSON(r, &req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.ValidationFailed(w, err)
		return
	}

	to, err := ParseStatus(req.Status)
	if err != nil {
		core.BadRequest(w, "unknown status")
		return
	}

	d, err := h.service.UpdateStatus(
		r.Context(),
		actorFrom(r),
		chi.URLParam(r, "bookingID"),
		to,
	)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	core.OK(w, ToBookingResponse(d))
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrPastStart):
		core.BadRequest(w, "Cannot book in the past")
	case errors.Is(err, ErrServiceInactive):
		core.BadRequest(w, "Service is not active")
	case errors.Is(err, ErrServiceNotFound):
		core.NotFound(w, "service")
	case errors.Is(err, ErrOverlap):
		core.Conflict(w, "Booking time overlaps with existing booking")
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "booking")
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, "")
	case errors.Is(err, core.ErrInvalidState):
		core.JSONError(w, core.InvalidStateError(
			"booking cannot move to the requested status",
		))
	case errors.Is(err, core.ErrConflict):
		core.Conflict(w, "booking was modified concurrently, retry")
	default:
		core.InternalServerError(w, r, err)
	}
}

func parseListFilter(r *http.Request) (ListFilter, error) {
	q := r.URL.Query()
	f := ListFilter{UserID: q.Get("userId")}

	if raw := q.Get("dateFrom"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return f, errors.New("dateFrom must be an RFC 3339 timestamp")
		}
		f.DateFrom = &t
	}

	if raw := q.Get("dateTo"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return f, errors.New("dateTo must be an RFC 3339 timestamp")
		}
		f.DateTo = &t
	}

	if raw := q.Get("status"); raw != "" {
		st, err := ParseStatus(raw)
		if err != nil {
			return f, errors.New("status must be one of PENDING, CONFIRMED, CANCELED, COMPLETED")
		}
		f.Status = st
	}

	return f, nil
}
