package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"library-api/internal/middleware"
	"library-api/internal/model"
	"library-api/internal/service"
	"library-api/pkg/apierror"
)

type BookHandler struct {
	service *service.CatalogService
}

func NewBookHandler(service *service.CatalogService) *BookHandler {
	return &BookHandler{service: service}
}

func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.BookRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	addedBy := ""
	if principal, ok := middleware.PrincipalFromContext(r.Context()); ok {
		addedBy = principal.Email
	}

	book, err := h.service.CreateBook(r.Context(), payload, addedBy)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, book, nil)
}

func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	book, err := h.service.GetBook(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, book, nil)
}

func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, limit := pageParams(r)
	filter := model.BookFilter{
		Title:  strings.TrimSpace(r.URL.Query().Get("title")),
		Author: strings.TrimSpace(r.URL.Query().Get("author")),
		Status: strings.TrimSpace(r.URL.Query().Get("status")),
		Skip:   skip,
		Limit:  limit,
	}

	books, meta, err := h.service.ListBooks(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, books, &meta)
}

func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.BookRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	book, err := h.service.UpdateBook(r.Context(), chi.URLParam(r, "id"), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, book, nil)
}

func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteBook(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.MessageResponse{Message: "Book deleted"}, nil)
}
