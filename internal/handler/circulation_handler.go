package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"library-api/internal/model"
	"library-api/internal/service"
	"library-api/pkg/apierror"
)

// CirculationHandler serves members, staff, loans, reservations and fines.
type CirculationHandler struct {
	service *service.CirculationService
}

func NewCirculationHandler(service *service.CirculationService) *CirculationHandler {
	return &CirculationHandler{service: service}
}

func (h *CirculationHandler) CreateMember(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.MemberRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	member, err := h.service.CreateMember(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, member, nil)
}

func (h *CirculationHandler) GetMember(w http.ResponseWriter, r *http.Request) {
	member, err := h.service.GetMember(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, member, nil)
}

func (h *CirculationHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	skip, limit := pageParams(r)

	members, meta, err := h.service.ListMembers(r.Context(), skip, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, members, &meta)
}

func (h *CirculationHandler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.MemberRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	member, err := h.service.UpdateMember(r.Context(), chi.URLParam(r, "id"), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, member, nil)
}

func (h *CirculationHandler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteMember(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.MessageResponse{Message: "Member deleted"}, nil)
}

func (h *CirculationHandler) CreateStaff(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.StaffRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	staff, err := h.service.CreateStaff(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, staff, nil)
}

func (h *CirculationHandler) GetStaff(w http.ResponseWriter, r *http.Request) {
	staff, err := h.service.GetStaff(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, staff, nil)
}

func (h *CirculationHandler) ListStaff(w http.ResponseWriter, r *http.Request) {
	skip, limit := pageParams(r)

	staff, meta, err := h.service.ListStaff(r.Context(), skip, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, staff, &meta)
}

func (h *CirculationHandler) UpdateStaff(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.StaffRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	staff, err := h.service.UpdateStaff(r.Context(), chi.URLParam(r, "id"), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, staff, nil)
}

func (h *CirculationHandler) DeleteStaff(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteStaff(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.MessageResponse{Message: "Staff deleted"}, nil)
}

func (h *CirculationHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	tx, err := h.service.CreateTransaction(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, tx, nil)
}

func (h *CirculationHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	tx, err := h.service.GetTransaction(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, tx, nil)
}

func (h *CirculationHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	skip, limit := pageParams(r)

	transactions, meta, err := h.service.ListTransactions(r.Context(), skip, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, transactions, &meta)
}

func (h *CirculationHandler) UpdateTransaction(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.TransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	tx, err := h.service.UpdateTransaction(r.Context(), chi.URLParam(r, "id"), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, tx, nil)
}

func (h *CirculationHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteTransaction(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.MessageResponse{Message: "Transaction deleted"}, nil)
}

func (h *CirculationHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.ReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	res, err := h.service.CreateReservation(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, res, nil)
}

func (h *CirculationHandler) GetReservation(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.GetReservation(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, res, nil)
}

func (h *CirculationHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
	skip, limit := pageParams(r)

	reservations, meta, err := h.service.ListReservations(r.Context(), skip, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, reservations, &meta)
}

func (h *CirculationHandler) UpdateReservation(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.ReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	res, err := h.service.UpdateReservation(r.Context(), chi.URLParam(r, "id"), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, res, nil)
}

func (h *CirculationHandler) DeleteReservation(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteReservation(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.MessageResponse{Message: "Reservation deleted"}, nil)
}

func (h *CirculationHandler) CreateFine(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.FineRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	fine, err := h.service.CreateFine(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, fine, nil)
}

func (h *CirculationHandler) GetFine(w http.ResponseWriter, r *http.Request) {
	fine, err := h.service.GetFine(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, fine, nil)
}

func (h *CirculationHandler) ListFines(w http.ResponseWriter, r *http.Request) {
	skip, limit := pageParams(r)

	fines, meta, err := h.service.ListFines(r.Context(), skip, limit)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, fines, &meta)
}

func (h *CirculationHandler) UpdateFine(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.FineRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "invalid JSON body", "", http.StatusBadRequest))
		return
	}

	fine, err := h.service.UpdateFine(r.Context(), chi.URLParam(r, "id"), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, fine, nil)
}

func (h *CirculationHandler) DeleteFine(w http.ResponseWriter, r *http.Request) {
	if err := h.service.DeleteFine(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.MessageResponse{Message: "Fine deleted"}, nil)
}
