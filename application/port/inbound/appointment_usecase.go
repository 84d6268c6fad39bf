package inbound

import (
	"context"

	"github.com/patrimonia/portal/domain/entity"
	"github.com/patrimonia/portal/domain/valueobject"
)

type ListAppointmentsRequest struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Statut string `json:"statut,omitempty"`
}

type ListAppointmentsResponse struct {
	Items []entity.Appointment `json:"items"`
	valueobject.Page
}

type CreateAppointmentRequest struct {
	Conseiller string `json:"conseiller"`
	Date       string `json:"date"`
	Creneau    string `json:"creneau"`
	Motif      string `json:"motif"`
}

type UpdateAppointmentRequest struct {
	Date    string `json:"date,omitempty"`
	Creneau string `json:"creneau,omitempty"`
	Motif   string `json:"motif,omitempty"`
}

type AppointmentUseCase interface {
	List(ctx context.Context, req ListAppointmentsRequest) (*ListAppointmentsResponse, error)
	Slots(ctx context.Context, conseiller, date string) ([]entity.Slot, error)
	Create(ctx context.Context, req CreateAppointmentRequest) (*entity.Appointment, error)
	Update(ctx context.Context, id string, req UpdateAppointmentRequest) (*entity.Appointment, error)
	Cancel(ctx context.Context, id string) error
}
