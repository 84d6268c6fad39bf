package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/patrimonia/portal/application/port/inbound"
	"github.com/patrimonia/portal/infrastructure/http/response"
)

type EducationHandler struct {
	education inbound.EducationUseCase
}

func NewEducationHandler(education inbound.EducationUseCase) *EducationHandler {
	return &EducationHandler{education: education}
}

func (h *EducationHandler) List(w http.ResponseWriter, r *http.Request) {
	req := inbound.ListArticlesRequest{
		Page:      queryInt(r, "page", 1),
		Limit:     queryInt(r, "limit", 10),
		Categorie: r.URL.Query().Get("categorie"),
	}

	res, err := h.education.List(r.Context(), req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "", res)
}

func (h *EducationHandler) Get(w http.ResponseWriter, r *http.Request) {
	article, err := h.education.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "", article)
}

func (h *EducationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req inbound.SaveArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	article, err := h.education.Create(r.Context(), req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusCreated, "Article created", article)
}

func (h *EducationHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req inbound.SaveArticleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	article, err := h.education.Update(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "Article updated", article)
}

func (h *EducationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.education.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, http.StatusOK, "Article deleted", nil)
}
