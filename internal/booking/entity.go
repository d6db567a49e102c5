// AngelaMos | 2026
// entity.go

package booking

import (
	"fmt"
	"time"

	"github.com/carterperez-dev/booking-api/internal/core"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusCanceled  Status = "CANCELED"
	StatusCompleted Status = "COMPLETED"
)

var AllStatuses = []Status{
	StatusPending,
	StatusConfirmed,
	StatusCanceled,
	StatusCompleted,
}

func ParseStatus(s string) (Status, error) {
	for _, st := range AllStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown booking status %q: %w", s, core.ErrInvalidInput)
}

func (s Status) String() string {
	return string(s)
}

// IsTerminal reports whether no transition may leave s.
func (s Status) IsTerminal() bool {
	return s == StatusCanceled || s == StatusCompleted
}

// Booking reserves a service for a user over [StartsAt, EndsAt). EndsAt is
// fixed at creation from the service duration at that moment.
type Booking struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	ServiceID string    `db:"service_id"`
	StartsAt  time.Time `db:"starts_at"`
	EndsAt    time.Time `db:"ends_at"`
	Status    Status    `db:"status"`
	Notes     *string   `db:"notes"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (b *Booking) Interval() Interval {
	return Interval{Start: b.StartsAt, End: b.EndsAt}
}

// Details is a booking joined with summaries of its service and owner.
type Details struct {
	Booking

	ServiceName        string  `db:"service_name"`
	ServiceDurationMin int     `db:"service_duration_min"`
	ServicePriceCents  int     `db:"service_price_cents"`
	UserName           *string `db:"user_name"`
	UserEmail          string  `db:"user_email"`
}

// Interval is half-open: it contains Start but not End.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether the two intervals share any instant. Intervals
// that merely touch at an endpoint do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

// Actor is the authenticated caller acting on a booking.
type Actor struct {
	UserID string
	Role   core.Role
}

// ListFilter narrows a booking listing. Zero values mean no constraint.
type ListFilter struct {
	UserID   string
	DateFrom *time.Time
	DateTo   *time.Time
	Status   Status
}
