// AngelaMos | 2026
// dto.go

package booking

import (
	"time"
)

type CreateBookingRequest struct {
	ServiceID string    `json:"serviceId" validate:"required"`
	StartsAt  time.Time `json:"startsAt"  validate:"required"`
	Notes     *string   `json:"notes"     validate:"omitempty,max=1000"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING CONFIRMED CANCELED COMPLETED"`
}

type ServiceSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DurationMin int    `json:"durationMin"`
	PriceCents  int    `json:"priceCents"`
}

type UserSummary struct {
	ID    string  `json:"id"`
	Name  *string `json:"name"`
	Email string  `json:"email"`
}

type BookingResponse struct {
	ID        string         `json:"id"`
	UserID    string         `json:"userId"`
	ServiceID string         `json:"serviceId"`
	Service   ServiceSummary `json:"service"`
	User      UserSummary    `json:"user"`
	StartsAt  time.Time      `json:"startsAt"`
	EndsAt    time.Time      `json:"endsAt"`
	Status    Status         `json:"status"`
	Notes     *string        `json:"notes"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func ToBookingResponse(d *Details) BookingResponse {
	return BookingResponse{
		ID:        d.ID,
		UserID:    d.UserID,
		ServiceID: d.ServiceID,
		Service: ServiceSummary{
			ID:          d.ServiceID,
			Name:        d.ServiceName,
			DurationMin: d.ServiceDurationMin,
			PriceCents:  d.ServicePriceCents,
		},
		User: UserSummary{
			ID:    d.UserID,
			Name:  d.UserName,
			Email: d.UserEmail,
		},
		StartsAt:  d.StartsAt,
		EndsAt:    d.EndsAt,
		Status:    d.Status,
		Notes:     d.Notes,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func ToBookingResponseList(list []Details) []BookingResponse {
	out := make([]BookingResponse, len(list))
	for i := range list {
		out[i] = ToBookingResponse(&list[i])
	}
	return out
}

type StatsResponse struct {
	Total    int            `json:"total"`
	ByStatus map[Status]int `json:"byStatus"`
}
