package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/patrimonia/portal/application/port/inbound"
	"github.com/patrimonia/portal/domain/entity"
	"github.com/patrimonia/portal/infrastructure/http/response"
	"github.com/patrimonia/portal/infrastructure/http/validator"
)

const maxMessageLength = 5000

type ContactHandler struct {
	contact inbound.ContactUseCase
}

func NewContactHandler(contact inbound.ContactUseCase) *ContactHandler {
	return &ContactHandler{contact: contact}
}

func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req entity.ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if !validator.ValidateRequired(req.Nom) {
		response.BadRequest(w, "Name is required")
		return
	}
	if !validator.ValidateEmail(req.Email) {
		response.BadRequest(w, "Invalid email format")
		return
	}
	if !validator.ValidateRequired(req.Message) {
		response.BadRequest(w, "Message is required")
		return
	}
	if !validator.ValidateMaxLength(req.Message, maxMessageLength) {
		response.BadRequest(w, "Message is too long")
		return
	}

	if err := h.contact.Submit(r.Context(), req); err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusCreated, "Contact request submitted", nil)
}

func (h *ContactHandler) StartChat(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Nom string `json:"nom"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if !validator.ValidateRequired(body.Nom) {
		response.BadRequest(w, "Name is required")
		return
	}

	res, err := h.contact.StartChat(r.Context(), body.Nom)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusCreated, "Chat session started", res)
}

func (h *ContactHandler) SendChat(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Contenu string `json:"contenu"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if !validator.ValidateRequired(body.Contenu) {
		response.BadRequest(w, "Message body is required")
		return
	}
	if !validator.ValidateMaxLength(body.Contenu, maxMessageLength) {
		response.BadRequest(w, "Message is too long")
		return
	}

	msg, err := h.contact.SendChat(r.Context(), mux.Vars(r)["id"], body.Contenu)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusCreated, "", msg)
}

func (h *ContactHandler) ChatMessages(w http.ResponseWriter, r *http.Request) {
	since := time.Time{}
	if raw := r.URL.Query().Get("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.BadRequest(w, "since must be RFC 3339")
			return
		}
		since = parsed
	}

	msgs, err := h.contact.ChatMessages(r.Context(), mux.Vars(r)["id"], since)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "", msgs)
}
