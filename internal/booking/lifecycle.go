// AngelaMos | 2026
// lifecycle.go

package booking

import (
	"fmt"

	"github.com/carterperez-dev/booking-api/internal/core"
)

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCanceled},
	StatusConfirmed: {StatusCompleted, StatusCanceled},
}

// CanTransition reports whether from may move to to. Terminal states have no
// outgoing edges, and a status never transitions to itself.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns core.ErrInvalidState for any move outside the
// lifecycle table.
func ValidateTransition(from, to Status) error {
	if CanTransition(from, to) {
		return nil
	}
	if from.IsTerminal() {
		return fmt.Errorf("booking is %s: %w", from, core.ErrInvalidState)
	}
	return fmt.Errorf("cannot move booking from %s to %s: %w", from, to, core.ErrInvalidState)
}

// Authorize allows the booking's owner and admins.
func Authorize(actor Actor, b *Booking) error {
	if actor.Role.IsAdmin() || (actor.UserID != "" && actor.UserID == b.UserID) {
		return nil
	}
	return fmt.Errorf("booking %s: %w", b.ID, core.ErrForbidden)
}

// ScopeFilter forces non-admin listings onto the caller's own bookings,
// whatever user filter was requested.
func ScopeFilter(actor Actor, f ListFilter) ListFilter {
	if !actor.Role.IsAdmin() {
		f.UserID = actor.UserID
	}
	return f
}
