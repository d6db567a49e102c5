// AngelaMos | 2026
// service.go

package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/booking-api/internal/catalog"
	"github.com/carterperez-dev/booking-api/internal/core"
	"github.com/carterperez-dev/booking-api/internal/metrics"
)

const tracerName = "booking-api/booking"

var (
	ErrPastStart       = fmt.Errorf("cannot book in the past: %w", core.ErrInvalidInput)
	ErrServiceNotFound = fmt.Errorf("service: %w", core.ErrNotFound)
	ErrServiceInactive = fmt.Errorf("service is not active: %w", core.ErrInvalidInput)
	ErrOverlap         = fmt.Errorf("booking time overlaps with existing booking: %w", core.ErrConflict)
)

// ServiceCatalog is satisfied by *catalog.Catalog.
type ServiceCatalog interface {
	Get(ctx context.Context, id string) (*catalog.Service, error)
}

type Service struct {
	repo     Repository
	services ServiceCatalog
	now      func() time.Time
}

func NewService(repo Repository, services ServiceCatalog) *Service {
	return &Service{
		repo:     repo,
		services: services,
		now:      time.Now,
	}
}

// Create books a service for the actor. The start time is checked before the
// service is looked up, so a past start is rejected whatever the service.
// The overlap check and insert run in one transaction holding a per-service
// advisory lock.
func (s *Service) Create(
	ctx context.Context,
	actor Actor,
	req CreateBookingRequest,
) (details *Details, err error) {
	ctx, span := core.StartSpan(ctx, tracerName, "booking.create")
	defer span.End()
	defer func() { core.SetSpanError(ctx, err) }()

	span.SetAttributes(
		attribute.String("user.id", actor.UserID),
		attribute.String("service.id", req.ServiceID),
	)

	startsAt := req.StartsAt.UTC()
	if startsAt.Before(s.now()) {
		return nil, ErrPastStart
	}

	svc, err := s.services.Get(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("get service: %w", err)
	}
	if !svc.Active {
		return nil, ErrServiceInactive
	}

	b := &Booking{
		ID:        uuid.NewString(),
		UserID:    actor.UserID,
		ServiceID: svc.ID,
		StartsAt:  startsAt,
		EndsAt:    startsAt.Add(svc.Duration()),
		Status:    StatusPending,
		Notes:     req.Notes,
	}

	err = s.repo.WithinTx(ctx, func(tx Repository) error {
		if err := tx.LockService(ctx, b.ServiceID); err != nil {
			return err
		}

		overlap, err := tx.HasOverlap(ctx, b.ServiceID, b.Interval(), "")
		if err != nil {
			return err
		}
		if overlap {
			metrics.BookingConflictsTotal.WithLabelValues("check").Inc()
			return ErrOverlap
		}

		if err := tx.Create(ctx, b); err != nil {
			if errors.Is(err, core.ErrConflict) {
				metrics.BookingConflictsTotal.WithLabelValues("constraint").Inc()
				return ErrOverlap
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.BookingsCreatedTotal.WithLabelValues(b.ServiceID).Inc()
	slog.InfoContext(ctx, "booking created",
		"booking_id", b.ID,
		"service_id", b.ServiceID,
		"user_id", b.UserID,
		"starts_at", b.StartsAt,
	)

	return s.repo.GetDetails(ctx, b.ID)
}

// List returns bookings visible to the actor. Non-admin callers only ever see
// their own, whatever user filter they pass.
func (s *Service) List(
	ctx context.Context,
	actor Actor,
	filter ListFilter,
) ([]Details, error) {
	return s.repo.List(ctx, ScopeFilter(actor, filter))
}

func (s *Service) Get(ctx context.Context, actor Actor, id string) (*Details, error) {
	d, err := s.repo.GetDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, &d.Booking); err != nil {
		return nil, err
	}
	return d, nil
}

// UpdateStatus applies one lifecycle transition. Authorization is checked
// before the lifecycle, so a stranger learns nothing about the booking's
// state. The write is conditional on the status read here.
func (s *Service) UpdateStatus(
	ctx context.Context,
	actor Actor,
	id string,
	to Status,
) (details *Details, err error) {
	ctx, span := core.StartSpan(ctx, tracerName, "booking.update_status")
	defer span.End()
	defer func() { core.SetSpanError(ctx, err) }()

	span.SetAttributes(
		attribute.String("booking.id", id),
		attribute.String("booking.status.to", to.String()),
	)

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := Authorize(actor, b); err != nil {
		return nil, err
	}

	if err := ValidateTransition(b.Status, to); err != nil {
		return nil, err
	}

	if _, err := s.repo.UpdateStatus(ctx, id, b.Status, to); err != nil {
		return nil, err
	}

	metrics.BookingTransitionsTotal.WithLabelValues(b.Status.String(), to.String()).Inc()

	return s.repo.GetDetails(ctx, id)
}

func (s *Service) CountByStatus(ctx context.Context) (map[Status]int, error) {
	return s.repo.CountByStatus(ctx)
}
