// AngelaMos | 2026
// entity.go

package catalog

import (
	"time"
)

// Service is a bookable offering. Price is in integer minor currency units.
type Service struct {
	ID          string    `db:"id"           json:"id"`
	Name        string    `db:"name"         json:"name"`
	Description *string   `db:"description"  json:"description"`
	DurationMin int       `db:"duration_min" json:"durationMin"`
	PriceCents  int       `db:"price_cents"  json:"priceCents"`
	Active      bool      `db:"active"       json:"active"`
	CreatedAt   time.Time `db:"created_at"   json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at"   json:"updatedAt"`
}

func (s *Service) Duration() time.Duration {
	return time.Duration(s.DurationMin) * time.Minute
}
