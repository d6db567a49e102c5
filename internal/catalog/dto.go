// AngelaMos | 2026
// dto.go

package catalog

type CreateServiceRequest struct {
	Name        string  `json:"name"        validate:"required,min=1,max=120"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	DurationMin int     `json:"durationMin" validate:"required,gt=0,lte=1440"`
	PriceCents  int     `json:"priceCents"  validate:"gte=0"`
	Active      *bool   `json:"active"`
}

// UpdateServiceRequest is a partial update; nil fields are left unchanged.
type UpdateServiceRequest struct {
	Name        *string `json:"name"        validate:"omitempty,min=1,max=120"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
	DurationMin *int    `json:"durationMin" validate:"omitempty,gt=0,lte=1440"`
	PriceCents  *int    `json:"priceCents"  validate:"omitempty,gte=0"`
	Active      *bool   `json:"active"`
}

func (r UpdateServiceRequest) apply(s *Service) {
	if r.Name != nil {
		s.Name = *r.Name
	}
	if r.Description != nil {
		s.Description = r.Description
	}
	if r.DurationMin != nil {
		s.DurationMin = *r.DurationMin
	}
	if r.PriceCents != nil {
		s.PriceCents = *r.PriceCents
	}
	if r.Active != nil {
		s.Active = *r.Active
	}
}
