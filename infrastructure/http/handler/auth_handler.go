package handler

import (
	"encoding/json"
	"net/http"

	"github.com/patrimonia/portal/application/port/inbound"
	"github.com/patrimonia/portal/infrastructure/http/response"
	"github.com/patrimonia/portal/infrastructure/http/validator"
)

type AuthHandler struct {
	authUseCase inbound.AuthUseCase
}

func NewAuthHandler(authUseCase inbound.AuthUseCase) *AuthHandler {
	return &AuthHandler{authUseCase: authUseCase}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req inbound.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if !validator.ValidateEmail(req.Email) {
		response.BadRequest(w, "Invalid email format")
		return
	}
	if !validator.ValidateRequired(req.Password) {
		response.BadRequest(w, "Password is required")
		return
	}

	res, err := h.authUseCase.Login(r.Context(), req)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Login successful", res)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authUseCase.Logout(r.Context()); err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "Logged out", nil)
}

func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.authUseCase.Profile(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "", user)
}

// Session reports the locally stored profile without touching the backend.
// The front end calls this on page load to decide which views to render.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	info, err := h.authUseCase.Session(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "", info)
}
