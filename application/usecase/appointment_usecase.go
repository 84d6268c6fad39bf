package usecase

import (
	"context"
	"net/url"
	"strconv"

	"github.com/patrimonia/portal/application/port/inbound"
	"github.com/patrimonia/portal/application/port/outbound"
	"github.com/patrimonia/portal/domain/entity"
	"github.com/patrimonia/portal/domain/valueobject"
	"github.com/patrimonia/portal/infrastructure/service/logger"
	"github.com/patrimonia/portal/pkg/apierror"
)

const appointmentsPath = "/api/appointments"

type AppointmentUseCase struct {
	client outbound.BackendClient
	logger logger.Logger
}

func NewAppointmentUseCase(client outbound.BackendClient, log logger.Logger) inbound.AppointmentUseCase {
	return &AppointmentUseCase{client: client, logger: log}
}

func (uc *AppointmentUseCase) List(ctx context.Context, req inbound.ListAppointmentsRequest) (*inbound.ListAppointmentsResponse, error) {
	page, limit := valueobject.NewPageRequest(req.Page, req.Limit)
	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(limit))
	if req.Statut != "" {
		query.Set("statut", req.Statut)
	}

	resp, err := uc.client.Get(ctx, appointmentsPath, query)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	var out inbound.ListAppointmentsResponse
	if err := resp.Decode(&out); err != nil {
		return nil, apierror.NewInternalServer("malformed appointments response")
	}
	return &out, nil
}

func (uc *AppointmentUseCase) Slots(ctx context.Context, conseiller, date string) ([]entity.Slot, error) {
	if date == "" {
		return nil, apierror.NewBadRequest("date is required")
	}
	query := url.Values{}
	query.Set("date", date)
	if conseiller != "" {
		query.Set("conseiller", conseiller)
	}

	resp, err := uc.client.Get(ctx, appointmentsPath+"/slots", query)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	var payload struct {
		Slots []entity.Slot `json:"slots"`
	}
	if err := resp.Decode(&payload); err != nil {
		return nil, apierror.NewInternalServer("malformed slots response")
	}
	return payload.Slots, nil
}

func (uc *AppointmentUseCase) Create(ctx context.Context, req inbound.CreateAppointmentRequest) (*entity.Appointment, error) {
	if req.Date == "" || req.Creneau == "" {
		return nil, apierror.NewBadRequest("date and creneau are required")
	}

	resp, err := uc.client.Post(ctx, appointmentsPath, req)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	var payload struct {
		Appointment *entity.Appointment `json:"appointment"`
	}
	if err := resp.Decode(&payload); err != nil || payload.Appointment == nil {
		return nil, apierror.NewInternalServer("malformed appointment response")
	}

	uc.logger.Info(ctx, "appointment created", map[string]interface{}{"appointment_id": payload.Appointment.ID})
	return payload.Appointment, nil
}

func (uc *AppointmentUseCase) Update(ctx context.Context, id string, req inbound.UpdateAppointmentRequest) (*entity.Appointment, error) {
	if id == "" {
		return nil, apierror.NewBadRequest("appointment id is required")
	}

	resp, err := uc.client.Put(ctx, appointmentsPath+"/"+id, req)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	var payload struct {
		Appointment *entity.Appointment `json:"appointment"`
	}
	if err := resp.Decode(&payload); err != nil || payload.Appointment == nil {
		return nil, apierror.NewInternalServer("malformed appointment response")
	}
	return payload.Appointment, nil
}

func (uc *AppointmentUseCase) Cancel(ctx context.Context, id string) error {
	if id == "" {
		return apierror.NewBadRequest("appointment id is required")
	}

	resp, err := uc.client.Delete(ctx, appointmentsPath+"/"+id)
	if err != nil {
		return err
	}
	if err := resp.Err(); err != nil {
		return err
	}

	uc.logger.Info(ctx, "appointment cancelled", map[string]interface{}{"appointment_id": id})
	return nil
}
