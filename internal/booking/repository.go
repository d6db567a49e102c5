// AngelaMos | 2026
// repository.go

package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/booking-api/internal/core"
)

type Repository interface {
	// WithinTx runs fn against a repository bound to one transaction. Calls
	// on a repository that is already transactional run fn in place.
	WithinTx(ctx context.Context, fn func(Repository) error) error
	// LockService serializes booking writes for one service until the
	// surrounding transaction ends.
	LockService(ctx context.Context, serviceID string) error
	HasOverlap(
		ctx context.Context,
		serviceID string,
		iv Interval,
		excludeID string,
	) (bool, error)
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	GetDetails(ctx context.Context, id string) (*Details, error)
	List(ctx context.Context, f ListFilter) ([]Details, error)
	// UpdateStatus moves a booking from one status to another only if it is
	// still in from. A booking that moved in the meantime yields ErrConflict.
	UpdateStatus(ctx context.Context, id string, from, to Status) (*Booking, error)
	CountByStatus(ctx context.Context) (map[Status]int, error)
}

type repository struct {
	db   core.DBTX
	root *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db, root: db}
}

var dialect = goqu.Dialect("postgres")

const bookingColumns = `id, user_id, service_id, starts_at, ends_at, status, notes, created_at, updated_at`

func (r *repository) WithinTx(ctx context.Context, fn func(Repository) error) error {
	if r.root == nil {
		return fn(r)
	}
	return core.InTx(ctx, r.root, func(tx *sqlx.Tx) error {
		return fn(&repository{db: tx})
	})
}

func (r *repository) LockService(ctx context.Context, serviceID string) error {
	if _, err := r.db.ExecContext(
		ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1))`,
		serviceID,
	); err != nil {
		return fmt.Errorf("lock service: %w", err)
	}
	return nil
}

func (r *repository) HasOverlap(
	ctx context.Context,
	serviceID string,
	iv Interval,
	excludeID string,
) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM bookings
			WHERE service_id = $1
			  AND status <> $2
			  AND starts_at < $4
			  AND ends_at > $3`
	args := []any{serviceID, StatusCanceled, iv.Start, iv.End}

	if excludeID != "" {
		query += ` AND id <> $5`
		args = append(args, excludeID)
	}
	query += `)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, args...); err != nil {
		return false, fmt.Errorf("check overlap: %w", err)
	}

	return exists, nil
}

func (r *repository) Create(ctx context.Context, b *Booking) error {
	query := `
		INSERT INTO bookings (id, user_id, service_id, starts_at, ends_at, status, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		b.ID,
		b.UserID,
		b.ServiceID,
		b.StartsAt,
		b.EndsAt,
		b.Status,
		b.Notes,
	).Scan(&b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if core.IsExclusionViolation(err) {
			return fmt.Errorf("create booking: %w", core.ErrConflict)
		}
		return fmt.Errorf("create booking: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	var b Booking
	err := r.db.GetContext(ctx, &b, query, id)
	if core.IsNoRows(err) {
		return nil, fmt.Errorf("get booking: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}

	return &b, nil
}

func detailsQuery() *goqu.SelectDataset {
	return dialect.
		From(goqu.T("bookings").As("b")).
		Select(
			goqu.I("b.id"),
			goqu.I("b.user_id"),
			goqu.I("b.service_id"),
			goqu.I("b.starts_at"),
			goqu.I("b.ends_at"),
			goqu.I("b.status"),
			goqu.I("b.notes"),
			goqu.I("b.created_at"),
			goqu.I("b.updated_at"),
			goqu.I("s.name").As("service_name"),
			goqu.I("s.duration_min").As("service_duration_min"),
			goqu.I("s.price_cents").As("service_price_cents"),
			goqu.I("u.name").As("user_name"),
			goqu.I("u.email").As("user_email"),
		).
		Join(
			goqu.T("services").As("s"),
			goqu.On(goqu.I("s.id").Eq(goqu.I("b.service_id"))),
		).
		Join(
			goqu.T("users").As("u"),
			goqu.On(goqu.I("u.id").Eq(goqu.I("b.user_id"))),
		).
		Prepared(true)
}

func (r *repository) GetDetails(ctx context.Context, id string) (*Details, error) {
	query, args, err := detailsQuery().
		Where(goqu.I("b.id").Eq(id)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build booking query: %w", err)
	}

	var d Details
	err = r.db.GetContext(ctx, &d, query, args...)
	if core.IsNoRows(err) {
		return nil, fmt.Errorf("get booking details: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get booking details: %w", err)
	}

	return &d, nil
}

// List returns matching bookings, latest start first. DateFrom and DateTo
// bound starts_at inclusively.
func (r *repository) List(ctx context.Context, f ListFilter) ([]Details, error) {
	ds := detailsQuery()

	if f.UserID != "" {
		ds = ds.Where(goqu.I("b.user_id").Eq(f.UserID))
	}
	if f.DateFrom != nil {
		ds = ds.Where(goqu.I("b.starts_at").Gte(*f.DateFrom))
	}
	if f.DateTo != nil {
		ds = ds.Where(goqu.I("b.starts_at").Lte(*f.DateTo))
	}
	if f.Status != "" {
		ds = ds.Where(goqu.I("b.status").Eq(f.Status.String()))
	}

	query, args, err := ds.Order(goqu.I("b.starts_at").Desc()).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build booking list query: %w", err)
	}

	bookings := []Details{}
	err = r.db.SelectContext(ctx, &bookings, query, args...)
	if core.IsInvalidTextRepresentation(err) {
		// a user id that is not a uuid owns no bookings
		return []Details{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}

	return bookings, nil
}

func (r *repository) UpdateStatus(
	ctx context.Context,
	id string,
	from, to Status,
) (*Booking, error) {
	query := `
		UPDATE bookings
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
		RETURNING ` + bookingColumns

	var b Booking
	err := r.db.GetContext(ctx, &b, query, id, from, to)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update booking status: %w", core.ErrConflict)
	}
	if err != nil {
		return nil, fmt.Errorf("update booking status: %w", err)
	}

	return &b, nil
}

func (r *repository) CountByStatus(ctx context.Context) (map[Status]int, error) {
	query := `SELECT status, COUNT(*) AS count FROM bookings GROUP BY status`

	var rows []struct {
		Status Status `db:"status"`
		Count  int    `db:"count"`
	}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("count bookings: %w", err)
	}

	counts := make(map[Status]int, len(AllStatuses))
	for _, st := range AllStatuses {
		counts[st] = 0
	}
	for _, row := range rows {
		counts[row.Status] = row.Count
	}

	return counts, nil
}
