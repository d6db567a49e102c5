// AngelaMos | 2026
// lifecycle_test.go

package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/booking-api/internal/core"
)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 2, hour, minute, 0, 0, time.UTC)
}

func TestIntervalOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"identical", Interval{at(10, 0), at(10, 30)}, Interval{at(10, 0), at(10, 30)}, true},
		{"partial", Interval{at(10, 0), at(10, 30)}, Interval{at(10, 15), at(10, 45)}, true},
		{"contained", Interval{at(10, 0), at(11, 0)}, Interval{at(10, 15), at(10, 30)}, true},
		{"touching", Interval{at(10, 0), at(10, 30)}, Interval{at(10, 30), at(11, 0)}, false},
		{"disjoint", Interval{at(10, 0), at(10, 30)}, Interval{at(12, 0), at(12, 30)}, false},
		{"one minute shared", Interval{at(10, 0), at(10, 31)}, Interval{at(10, 30), at(11, 0)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Overlaps(tt.b))
			assert.Equal(t, tt.want, tt.b.Overlaps(tt.a), "overlap must be symmetric")
		})
	}
}

func TestCanTransition(t *testing.T) {
	allowed := map[[2]Status]bool{
		{StatusPending, StatusConfirmed}:   true,
		{StatusPending, StatusCanceled}:    true,
		{StatusConfirmed, StatusCompleted}: true,
		{StatusConfirmed, StatusCanceled}:  true,
	}

	for _, from := range AllStatuses {
		for _, to := range AllStatuses {
			want := allowed[[2]Status{from, to}]
			assert.Equal(t, want, CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestTerminalStatesRejectEveryTransition(t *testing.T) {
	for _, from := range []Status{StatusCanceled, StatusCompleted} {
		require.True(t, from.IsTerminal())
		for _, to := range AllStatuses {
			err := ValidateTransition(from, to)
			assert.ErrorIs(t, err, core.ErrInvalidState, "%s -> %s", from, to)
		}
	}
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("CONFIRMED")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, st)

	_, err = ParseStatus("confirmed")
	assert.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestAuthorize(t *testing.T) {
	b := &Booking{ID: "b-1", UserID: "owner"}

	tests := []struct {
		name    string
		actor   Actor
		allowed bool
	}{
		{"owner", Actor{UserID: "owner", Role: core.RoleClient}, true},
		{"admin", Actor{UserID: "someone", Role: core.RoleAdmin}, true},
		{"other client", Actor{UserID: "other", Role: core.RoleClient}, false},
		{"anonymous", Actor{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.actor, b)
			if tt.allowed {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, core.ErrForbidden)
		})
	}
}

func TestScopeFilter(t *testing.T) {
	requested := ListFilter{UserID: "B", Status: StatusPending}

	client := ScopeFilter(Actor{UserID: "A", Role: core.RoleClient}, requested)
	assert.Equal(t, "A", client.UserID)
	assert.Equal(t, StatusPending, client.Status)

	admin := ScopeFilter(Actor{UserID: "root", Role: core.RoleAdmin}, requested)
	assert.Equal(t, "B", admin.UserID)

	all := ScopeFilter(Actor{UserID: "root", Role: core.RoleAdmin}, ListFilter{})
	assert.Empty(t, all.UserID)
}
