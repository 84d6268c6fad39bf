package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/patrimonia/portal/application/port/inbound"
	"github.com/patrimonia/portal/infrastructure/http/response"
	"github.com/patrimonia/portal/infrastructure/http/validator"
)

type AppointmentHandler struct {
	appointments inbound.AppointmentUseCase
}

func NewAppointmentHandler(appointments inbound.AppointmentUseCase) *AppointmentHandler {
	return &AppointmentHandler{appointments: appointments}
}

func (h *AppointmentHandler) List(w http.ResponseWriter, r *http.Request) {
	req := inbound.ListAppointmentsRequest{
		Page:   queryInt(r, "page", 1),
		Limit:  queryInt(r, "limit", 10),
		Statut: r.URL.Query().Get("statut"),
	}

	res, err := h.appointments.List(r.Context(), req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "", res)
}

func (h *AppointmentHandler) Slots(w http.ResponseWriter, r *http.Request) {
	conseiller := r.URL.Query().Get("conseiller")
	date := r.URL.Query().Get("date")
	if !validator.ValidateRequired(conseiller) {
		response.BadRequest(w, "Advisor is required")
		return
	}
	if !validator.ValidateDate(date) {
		response.BadRequest(w, "Date must be YYYY-MM-DD")
		return
	}

	slots, err := h.appointments.Slots(r.Context(), conseiller, date)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "", slots)
}

func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req inbound.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if !validator.ValidateRequired(req.Conseiller) {
		response.BadRequest(w, "Advisor is required")
		return
	}
	if !validator.ValidateDate(req.Date) {
		response.BadRequest(w, "Date must be YYYY-MM-DD")
		return
	}
	if !validator.ValidateRequired(req.Creneau) {
		response.BadRequest(w, "Time slot is required")
		return
	}

	apt, err := h.appointments.Create(r.Context(), req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusCreated, "Appointment created", apt)
}

func (h *AppointmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req inbound.UpdateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.Date != "" && !validator.ValidateDate(req.Date) {
		response.BadRequest(w, "Date must be YYYY-MM-DD")
		return
	}

	apt, err := h.appointments.Update(r.Context(), id, req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "Appointment updated", apt)
}

func (h *AppointmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	if err := h.appointments.Cancel(r.Context(), id); err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "Appointment cancelled", nil)
}
