package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/patrimonia/portal/application/port/inbound"
	"github.com/patrimonia/portal/domain/entity"
)

type stubAppointments struct {
	inbound.AppointmentUseCase
	cancelledID string
	updatedID   string
}

func (s *stubAppointments) Cancel(_ context.Context, id string) error {
	s.cancelledID = id
	return nil
}

func (s *stubAppointments) Update(_ context.Context, id string, req inbound.UpdateAppointmentRequest) (*entity.Appointment, error) {
	s.updatedID = id
	return &entity.Appointment{ID: id, Date: req.Date}, nil
}

func TestCancelExtractsPathID(t *testing.T) {
	stub := &stubAppointments{}
	h := NewAppointmentHandler(stub)

	r := mux.NewRouter()
	r.HandleFunc("/api/appointments/{id}", h.Cancel).Methods(http.MethodDelete)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/appointments/a-7", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a-7", stub.cancelledID)
}

func TestUpdateValidatesDateFormat(t *testing.T) {
	stub := &stubAppointments{}
	h := NewAppointmentHandler(stub)

	r := mux.NewRouter()
	r.HandleFunc("/api/appointments/{id}", h.Update).Methods(http.MethodPut)

	req := httptest.NewRequest(http.MethodPut, "/api/appointments/a-7",
		strings.NewReader(`{"date":"15/09/2026"}`))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, stub.updatedID)
}
