// AngelaMos | 2026
// repository.go

package catalog

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/booking-api/internal/core"
)

type Repository interface {
	Create(ctx context.Context, svc *Service) error
	GetByID(ctx context.Context, id string) (*Service, error)
	ListActive(ctx context.Context) ([]Service, error)
	Update(ctx context.Context, svc *Service) error
	Deactivate(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const serviceColumns = `id, name, description, duration_min, price_cents, active, created_at, updated_at`

func (r *repository) Create(ctx context.Context, svc *Service) error {
	query := `
		INSERT INTO services (id, name, description, duration_min, price_cents, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		svc.ID,
		svc.Name,
		svc.Description,
		svc.DurationMin,
		svc.PriceCents,
		svc.Active,
	).Scan(&svc.CreatedAt, &svc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create service: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = $1`

	var svc Service
	err := r.db.GetContext(ctx, &svc, query, id)
	if core.IsNoRows(err) {
		return nil, fmt.Errorf("get service: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get service: %w", err)
	}

	return &svc, nil
}

func (r *repository) ListActive(ctx context.Context) ([]Service, error) {
	query := `
		SELECT ` + serviceColumns + `
		FROM services
		WHERE active = TRUE
		ORDER BY created_at DESC`

	services := []Service{}
	if err := r.db.SelectContext(ctx, &services, query); err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}

	return services, nil
}

func (r *repository) Update(ctx context.Context, svc *Service) error {
	query := `
		UPDATE services
		SET name = $2, description = $3, duration_min = $4,
		    price_cents = $5, active = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		svc.ID,
		svc.Name,
		svc.Description,
		svc.DurationMin,
		svc.PriceCents,
		svc.Active,
	).Scan(&svc.UpdatedAt)
	if core.IsNoRows(err) {
		return fmt.Errorf("update service: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update service: %w", err)
	}

	return nil
}

func (r *repository) Deactivate(ctx context.Context, id string) error {
	query := `UPDATE services SET active = FALSE, updated_at = NOW() WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if core.IsInvalidTextRepresentation(err) {
		return fmt.Errorf("deactivate service: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("deactivate service: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deactivate service: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("deactivate service: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM services`); err != nil {
		return 0, fmt.Errorf("count services: %w", err)
	}
	return n, nil
}
