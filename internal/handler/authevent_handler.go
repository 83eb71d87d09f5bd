package handler

import (
	"net/http"

	"library-api/internal/service"
)

// AuthEventHandler serves the login audit trail to administrators.
type AuthEventHandler struct {
	service *service.AuthEventService
}

func NewAuthEventHandler(service *service.AuthEventService) *AuthEventHandler {
	return &AuthEventHandler{service: service}
}

func (h *AuthEventHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, limit := pageParams(r)

	events, meta, err := h.service.List(r.Context(), skip, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, events, &meta)
}
