package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/patrimonia/portal/application/port/inbound"
	"github.com/patrimonia/portal/infrastructure/http/response"
	"github.com/patrimonia/portal/infrastructure/http/validator"
)

type AdminHandler struct {
	admin inbound.AdminUseCase
}

func NewAdminHandler(admin inbound.AdminUseCase) *AdminHandler {
	return &AdminHandler{admin: admin}
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	req := inbound.ListUsersRequest{
		Page:  queryInt(r, "page", 1),
		Limit: queryInt(r, "limit", 10),
		Filter: inbound.ListUsersFilter{
			Nom:  r.URL.Query().Get("nom"),
			Role: r.URL.Query().Get("role"),
		},
	}

	res, err := h.admin.ListUsers(r.Context(), req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "", res)
}

func (h *AdminHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.admin.GetUser(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "", user)
}

func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req inbound.SaveUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if !validator.ValidateEmail(req.Email) {
		response.BadRequest(w, "Invalid email format")
		return
	}
	if !validator.ValidateRequired(req.Nom) {
		response.BadRequest(w, "Name is required")
		return
	}

	user, err := h.admin.CreateUser(r.Context(), req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusCreated, "User created", user)
}

func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req inbound.SaveUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.Email != "" && !validator.ValidateEmail(req.Email) {
		response.BadRequest(w, "Invalid email format")
		return
	}

	user, err := h.admin.UpdateUser(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "User updated", user)
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.admin.DeleteUser(r.Context(), mux.Vars(r)["id"]); err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "User deleted", nil)
}
