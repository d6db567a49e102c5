// AngelaMos | 2026
// service.go

package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/carterperez-dev/booking-api/internal/metrics"
)

// Catalog serves the service listing. Reads of the active list go through
// the cache when one is configured; every mutation invalidates it. Cache
// failures are logged and never fail the request.
type Catalog struct {
	repo  Repository
	cache Cache
}

func NewCatalog(repo Repository, cache Cache) *Catalog {
	return &Catalog{repo: repo, cache: cache}
}

func (c *Catalog) ListActive(ctx context.Context) ([]Service, error) {
	var (
		gen       int64
		writeBack bool
	)

	if c.cache != nil {
		services, g, ok, err := c.cache.GetActive(ctx)
		switch {
		case err != nil:
			metrics.CatalogCacheTotal.WithLabelValues("error").Inc()
			slog.WarnContext(ctx, "catalog cache read failed", "error", err)
		case ok:
			metrics.CatalogCacheTotal.WithLabelValues("hit").Inc()
			return services, nil
		default:
			metrics.CatalogCacheTotal.WithLabelValues("miss").Inc()
			gen, writeBack = g, true
		}
	}

	services, err := c.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	if writeBack {
		if err := c.cache.SetActive(ctx, gen, services); err != nil {
			slog.WarnContext(ctx, "catalog cache write failed", "error", err)
		}
	}

	return services, nil
}

func (c *Catalog) Get(ctx context.Context, id string) (*Service, error) {
	return c.repo.GetByID(ctx, id)
}

func (c *Catalog) Create(
	ctx context.Context,
	req CreateServiceRequest,
) (*Service, error) {
	svc := &Service{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		DurationMin: req.DurationMin,
		PriceCents:  req.PriceCents,
		Active:      true,
	}
	if req.Active != nil {
		svc.Active = *req.Active
	}

	if err := c.repo.Create(ctx, svc); err != nil {
		return nil, err
	}

	c.invalidate(ctx)
	return svc, nil
}

func (c *Catalog) Update(
	ctx context.Context,
	id string,
	req UpdateServiceRequest,
) (*Service, error) {
	svc, err := c.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	req.apply(svc)

	if err := c.repo.Update(ctx, svc); err != nil {
		return nil, err
	}

	c.invalidate(ctx)
	return svc, nil
}

// Deactivate hides a service from the listing. Existing bookings keep
// referencing it.
func (c *Catalog) Deactivate(ctx context.Context, id string) error {
	if err := c.repo.Deactivate(ctx, id); err != nil {
		return err
	}

	c.invalidate(ctx)
	return nil
}

// SeedDefaults inserts services only when the catalog is empty and reports
// how many were created.
func (c *Catalog) SeedDefaults(
	ctx context.Context,
	defaults []CreateServiceRequest,
) (int, error) {
	n, err := c.repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}

	for i, req := range defaults {
		if _, err := c.Create(ctx, req); err != nil {
			return i, fmt.Errorf("seed %q: %w", req.Name, err)
		}
	}

	return len(defaults), nil
}

func (c *Catalog) invalidate(ctx context.Context) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Invalidate(ctx); err != nil {
		slog.WarnContext(ctx, "catalog cache invalidation failed", "error", err)
	}
}

func strPtr(s string) *string { return &s }

// DefaultServices is the sample catalog loaded by the seed command.
var DefaultServices = []CreateServiceRequest{
	{
		Name:        "Haircut",
		Description: strPtr("Professional haircut service"),
		DurationMin: 30,
		PriceCents:  2500,
	},
	{
		Name:        "Haircut & Styling",
		Description: strPtr("Haircut with professional styling"),
		DurationMin: 60,
		PriceCents:  4000,
	},
	{
		Name:        "Beard Trim",
		Description: strPtr("Professional beard trimming"),
		DurationMin: 15,
		PriceCents:  1500,
	},
	{
		Name:        "Full Service",
		Description: strPtr("Haircut, styling, and beard trim"),
		DurationMin: 90,
		PriceCents:  5500,
	},
}
