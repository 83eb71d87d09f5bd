package service

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"library-api/internal/model"
	"library-api/pkg/apierror"
)

type MemberStore interface {
	FindByID(ctx context.Context, id string) (model.Member, error)
	Create(ctx context.Context, m model.Member) error
	Update(ctx context.Context, m model.Member) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, skip int, limit int) ([]model.Member, int, error)
}

type StaffStore interface {
	FindByID(ctx context.Context, id string) (model.Staff, error)
	Create(ctx context.Context, s model.Staff) error
	Update(ctx context.Context, s model.Staff) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, skip int, limit int) ([]model.Staff, int, error)
}

type TransactionStore interface {
	FindByID(ctx context.Context, id string) (model.Transaction, error)
	Create(ctx context.Context, t model.Transaction) error
	Update(ctx context.Context, t model.Transaction) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, skip int, limit int) ([]model.Transaction, int, error)
}

type ReservationStore interface {
	FindByID(ctx context.Context, id string) (model.Reservation, error)
	Create(ctx context.Context, r model.Reservation) error
	Update(ctx context.Context, r model.Reservation) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, skip int, limit int) ([]model.Reservation, int, error)
}

type FineStore interface {
	FindByID(ctx context.Context, id string) (model.Fine, error)
	Create(ctx context.Context, f model.Fine) error
	Update(ctx context.Context, f model.Fine) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, skip int, limit int) ([]model.Fine, int, error)
}

// CirculationService covers the lending side of the library: members, staff,
// loans, reservations and fines.
type CirculationService struct {
	members      MemberStore
	staff        StaffStore
	transactions TransactionStore
	reservations ReservationStore
	fines        FineStore
}

func NewCirculationService(members MemberStore, staff StaffStore, transactions TransactionStore, reservations ReservationStore, fines FineStore) *CirculationService {
	return &CirculationService{
		members:      members,
		staff:        staff,
		transactions: transactions,
		reservations: reservations,
		fines:        fines,
	}
}

func (s *CirculationService) CreateMember(ctx context.Context, req model.MemberRequest) (model.Member, error) {
	if strings.TrimSpace(req.FullName) == "" {
		return model.Member{}, apierror.BadRequest("full_name is required", "full_name")
	}

	member := model.Member{
		ID:               uuid.NewString(),
		FullName:         strings.TrimSpace(req.FullName),
		ContactNumber:    req.ContactNumber,
		Email:            req.Email,
		Address:          req.Address,
		MembershipType:   req.MembershipType,
		StartDate:        req.StartDate,
		ExpiryDate:       req.ExpiryDate,
		BorrowingHistory: req.BorrowingHistory,
		CreatedAt:        time.Now().UTC(),
	}
	if req.FineDues != nil {
		member.FineDues = *req.FineDues
	}

	if err := s.members.Create(ctx, member); err != nil {
		return model.Member{}, err
	}
	return member, nil
}

func (s *CirculationService) GetMember(ctx context.Context, id string) (model.Member, error) {
	return s.members.FindByID(ctx, id)
}

func (s *CirculationService) ListMembers(ctx context.Context, skip int, limit int) ([]model.Member, model.Meta, error) {
	skip, limit = clampPage(skip, limit, 100, 200)
	members, total, err := s.members.List(ctx, skip, limit)
	if err != nil {
		return nil, model.Meta{}, err
	}
	return members, model.Meta{Skip: skip, Limit: limit, Total: total}, nil
}

func (s *CirculationService) UpdateMember(ctx context.Context, id string, req model.MemberRequest) (model.Member, error) {
	if strings.TrimSpace(req.FullName) == "" {
		return model.Member{}, apierror.BadRequest("full_name is required", "full_name")
	}

	existing, err := s.members.FindByID(ctx, id)
	if err != nil {
		return model.Member{}, err
	}

	existing.FullName = strings.TrimSpace(req.FullName)
	existing.ContactNumber = req.ContactNumber
	existing.Email = req.Email
	existing.Address = req.Address
	existing.MembershipType = req.MembershipType
	existing.StartDate = req.StartDate
	existing.ExpiryDate = req.ExpiryDate
	existing.BorrowingHistory = req.BorrowingHistory
	if req.FineDues != nil {
		existing.FineDues = *req.FineDues
	}

	if err := s.members.Update(ctx, existing); err != nil {
		return model.Member{}, err
	}
	return existing, nil
}

func (s *CirculationService) DeleteMember(ctx context.Context, id string) error {
	return s.members.Delete(ctx, id)
}

func (s *CirculationService) CreateStaff(ctx context.Context, req model.StaffRequest) (model.Staff, error) {
	if strings.TrimSpace(req.Name) == "" {
		return model.Staff{}, apierror.BadRequest("name is required", "name")
	}

	staff := model.Staff{
		ID:                       uuid.NewString(),
		Name:                     strings.TrimSpace(req.Name),
		Role:                     req.Role,
		ContactInfo:              req.ContactInfo,
		ShiftTimings:             req.ShiftTimings,
		AssignedResponsibilities: req.AssignedResponsibilities,
		CreatedAt:                time.Now().UTC(),
	}

	if err := s.staff.Create(ctx, staff); err != nil {
		return model.Staff{}, err
	}
	return staff, nil
}

func (s *CirculationService) GetStaff(ctx context.Context, id string) (model.Staff, error) {
	return s.staff.FindByID(ctx, id)
}

func (s *CirculationService) ListStaff(ctx context.Context, skip int, limit int) ([]model.Staff, model.Meta, error) {
	skip, limit = clampPage(skip, limit, 100, 200)
	staff, total, err := s.staff.List(ctx, skip, limit)
	if err != nil {
		return nil, model.Meta{}, err
	}
	return staff, model.Meta{Skip: skip, Limit: limit, Total: total}, nil
}

func (s *CirculationService) UpdateStaff(ctx context.Context, id string, req model.StaffRequest) (model.Staff, error) {
	if strings.TrimSpace(req.Name) == "" {
		return model.Staff{}, apierror.BadRequest("name is required", "name")
	}

	existing, err := s.staff.FindByID(ctx, id)
	if err != nil {
		return model.Staff{}, err
	}

	existing.Name = strings.TrimSpace(req.Name)
	existing.Role = req.Role
	existing.ContactInfo = req.ContactInfo
	existing.ShiftTimings = req.ShiftTimings
	existing.AssignedResponsibilities = req.AssignedResponsibilities

	if err := s.staff.Update(ctx, existing); err != nil {
		return model.Staff{}, err
	}
	return existing, nil
}

func (s *CirculationService) DeleteStaff(ctx context.Context, id string) error {
	return s.staff.Delete(ctx, id)
}

// CreateTransaction records a loan. The referenced member and book must
// exist; the due date cannot precede the issue date.
func (s *CirculationService) CreateTransaction(ctx context.Context, req model.TransactionRequest) (model.Transaction, error) {
	if strings.TrimSpace(req.TransactionID) == "" {
		return model.Transaction{}, apierror.BadRequest("transaction_id is required", "transaction_id")
	}
	if req.IssueDate.IsZero() || req.DueDate.IsZero() {
		return model.Transaction{}, apierror.BadRequest("issue_date and due_date are required", "")
	}
	if req.DueDate.Before(req.IssueDate) {
		return model.Transaction{}, apierror.BadRequest("due_date cannot be before issue_date", "due_date")
	}

	if _, err := s.members.FindByID(ctx, req.MemberID); err != nil {
		return model.Transaction{}, err
	}

	tx := model.Transaction{
		ID:            uuid.NewString(),
		TransactionID: strings.TrimSpace(req.TransactionID),
		MemberID:      req.MemberID,
		BookID:        req.BookID,
		IssueDate:     req.IssueDate,
		DueDate:       req.DueDate,
		ReturnDate:    req.ReturnDate,
		FineDetails:   req.FineDetails,
		CreatedAt:     time.Now().UTC(),
	}
	if req.RenewalCount != nil {
		tx.RenewalCount = *req.RenewalCount
	}

	if err := s.transactions.Create(ctx, tx); err != nil {
		return model.Transaction{}, err
	}
	return tx, nil
}

func (s *CirculationService) GetTransaction(ctx context.Context, id string) (model.Transaction, error) {
	return s.transactions.FindByID(ctx, id)
}

func (s *CirculationService) ListTransactions(ctx context.Context, skip int, limit int) ([]model.Transaction, model.Meta, error) {
	skip, limit = clampPage(skip, limit, 100, 200)
	transactions, total, err := s.transactions.List(ctx, skip, limit)
	if err != nil {
		return nil, model.Meta{}, err
	}
	return transactions, model.Meta{Skip: skip, Limit: limit, Total: total}, nil
}

func (s *CirculationService) UpdateTransaction(ctx context.Context, id string, req model.TransactionRequest) (model.Transaction, error) {
	existing, err := s.transactions.FindByID(ctx, id)
	if err != nil {
		return model.Transaction{}, err
	}

	if req.MemberID != "" {
		existing.MemberID = req.MemberID
	}
	if req.BookID != "" {
		existing.BookID = req.BookID
	}
	if !req.IssueDate.IsZero() {
		existing.IssueDate = req.IssueDate
	}
	if !req.DueDate.IsZero() {
		existing.DueDate = req.DueDate
	}
	if req.ReturnDate != nil {
		existing.ReturnDate = req.ReturnDate
	}
	if req.FineDetails != nil {
		existing.FineDetails = req.FineDetails
	}
	if req.RenewalCount != nil {
		existing.RenewalCount = *req.RenewalCount
	}
	if existing.DueDate.Before(existing.IssueDate) {
		return model.Transaction{}, apierror.BadRequest("due_date cannot be before issue_date", "due_date")
	}

	if err := s.transactions.Update(ctx, existing); err != nil {
		return model.Transaction{}, err
	}
	return existing, nil
}

func (s *CirculationService) DeleteTransaction(ctx context.Context, id string) error {
	return s.transactions.Delete(ctx, id)
}

func (s *CirculationService) CreateReservation(ctx context.Context, req model.ReservationRequest) (model.Reservation, error) {
	if strings.TrimSpace(req.ReservationID) == "" {
		return model.Reservation{}, apierror.BadRequest("reservation_id is required", "reservation_id")
	}
	if req.ReservationDate.IsZero() {
		return model.Reservation{}, apierror.BadRequest("reservation_date is required", "reservation_date")
	}

	if _, err := s.members.FindByID(ctx, req.MemberID); err != nil {
		return model.Reservation{}, err
	}

	status := model.ReservationStatusActive
	if req.Status != nil {
		parsed, err := reservationStatus(*req.Status)
		if err != nil {
			return model.Reservation{}, err
		}
		status = parsed
	}

	res := model.Reservation{
		ID:              uuid.NewString(),
		ReservationID:   strings.TrimSpace(req.ReservationID),
		BookID:          req.BookID,
		MemberID:        req.MemberID,
		ReservationDate: req.ReservationDate,
		Status:          status,
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.reservations.Create(ctx, res); err != nil {
		return model.Reservation{}, err
	}
	return res, nil
}

func (s *CirculationService) GetReservation(ctx context.Context, id string) (model.Reservation, error) {
	return s.reservations.FindByID(ctx, id)
}

func (s *CirculationService) ListReservations(ctx context.Context, skip int, limit int) ([]model.Reservation, model.Meta, error) {
	skip, limit = clampPage(skip, limit, 100, 200)
	reservations, total, err := s.reservations.List(ctx, skip, limit)
	if err != nil {
		return nil, model.Meta{}, err
	}
	return reservations, model.Meta{Skip: skip, Limit: limit, Total: total}, nil
}

func (s *CirculationService) UpdateReservation(ctx context.Context, id string, req model.ReservationRequest) (model.Reservation, error) {
	existing, err := s.reservations.FindByID(ctx, id)
	if err != nil {
		return model.Reservation{}, err
	}

	if req.BookID != "" {
		existing.BookID = req.BookID
	}
	if req.MemberID != "" {
		existing.MemberID = req.MemberID
	}
	if !req.ReservationDate.IsZero() {
		existing.ReservationDate = req.ReservationDate
	}
	if req.Status != nil {
		status, err := reservationStatus(*req.Status)
		if err != nil {
			return model.Reservation{}, err
		}
		existing.Status = status
	}

	if err := s.reservations.Update(ctx, existing); err != nil {
		return model.Reservation{}, err
	}
	return existing, nil
}

func (s *CirculationService) DeleteReservation(ctx context.Context, id string) error {
	return s.reservations.Delete(ctx, id)
}

func (s *CirculationService) CreateFine(ctx context.Context, req model.FineRequest) (model.Fine, error) {
	if strings.TrimSpace(req.FineID) == "" {
		return model.Fine{}, apierror.BadRequest("fine_id is required", "fine_id")
	}
	if req.Amount < 0 {
		return model.Fine{}, apierror.BadRequest("amount cannot be negative", "amount")
	}
	if strings.TrimSpace(req.Reason) == "" {
		return model.Fine{}, apierror.BadRequest("reason is required", "reason")
	}

	if _, err := s.members.FindByID(ctx, req.MemberID); err != nil {
		return model.Fine{}, err
	}

	status := model.FineStatusUnpaid
	if req.PaymentStatus != nil {
		parsed, err := fineStatus(*req.PaymentStatus)
		if err != nil {
			return model.Fine{}, err
		}
		status = parsed
	}

	fine := model.Fine{
		ID:            uuid.NewString(),
		FineID:        strings.TrimSpace(req.FineID),
		MemberID:      req.MemberID,
		Amount:        req.Amount,
		Reason:        strings.TrimSpace(req.Reason),
		PaymentStatus: status,
		PaymentDate:   req.PaymentDate,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.fines.Create(ctx, fine); err != nil {
		return model.Fine{}, err
	}
	return fine, nil
}

func (s *CirculationService) GetFine(ctx context.Context, id string) (model.Fine, error) {
	return s.fines.FindByID(ctx, id)
}

func (s *CirculationService) ListFines(ctx context.Context, skip int, limit int) ([]model.Fine, model.Meta, error) {
	skip, limit = clampPage(skip, limit, 100, 200)
	fines, total, err := s.fines.List(ctx, skip, limit)
	if err != nil {
		return nil, model.Meta{}, err
	}
	return fines, model.Meta{Skip: skip, Limit: limit, Total: total}, nil
}

func (s *CirculationService) UpdateFine(ctx context.Context, id string, req model.FineRequest) (model.Fine, error) {
	existing, err := s.fines.FindByID(ctx, id)
	if err != nil {
		return model.Fine{}, err
	}

	if req.MemberID != "" {
		existing.MemberID = req.MemberID
	}
	if req.Amount < 0 {
		return model.Fine{}, apierror.BadRequest("amount cannot be negative", "amount")
	}
	if req.Amount > 0 {
		existing.Amount = req.Amount
	}
	if strings.TrimSpace(req.Reason) != "" {
		existing.Reason = strings.TrimSpace(req.Reason)
	}
	if req.PaymentStatus != nil {
		status, err := fineStatus(*req.PaymentStatus)
		if err != nil {
			return model.Fine{}, err
		}
		existing.PaymentStatus = status
	}
	if req.PaymentDate != nil {
		existing.PaymentDate = req.PaymentDate
	}

	if err := s.fines.Update(ctx, existing); err != nil {
		return model.Fine{}, err
	}
	return existing, nil
}

func (s *CirculationService) DeleteFine(ctx context.Context, id string) error {
	return s.fines.Delete(ctx, id)
}

func reservationStatus(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "active":
		return model.ReservationStatusActive, nil
	case "fulfilled":
		return model.ReservationStatusFulfilled, nil
	case "cancelled":
		return model.ReservationStatusCancelled, nil
	}
	return "", apierror.New("BAD_REQUEST", "invalid reservation status", raw, http.StatusBadRequest)
}

func fineStatus(raw string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "unpaid":
		return model.FineStatusUnpaid, nil
	case "paid":
		return model.FineStatusPaid, nil
	case "waived":
		return model.FineStatusWaived, nil
	}
	return "", apierror.New("BAD_REQUEST", "invalid payment status", raw, http.StatusBadRequest)
}
