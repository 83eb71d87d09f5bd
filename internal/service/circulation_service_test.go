package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-api/internal/model"
	"library-api/pkg/apierror"
)

type memMemberStore struct {
	members map[string]model.Member
}

func (s *memMemberStore) FindByID(_ context.Context, id string) (model.Member, error) {
	m, ok := s.members[id]
	if !ok {
		return model.Member{}, apierror.NotFound("member not found", id)
	}
	return m, nil
}

func (s *memMemberStore) Create(_ context.Context, m model.Member) error {
	s.members[m.ID] = m
	return nil
}

func (s *memMemberStore) Update(_ context.Context, m model.Member) error {
	if _, ok := s.members[m.ID]; !ok {
		return apierror.NotFound("member not found", m.ID)
	}
	s.members[m.ID] = m
	return nil
}

func (s *memMemberStore) Delete(_ context.Context, id string) error {
	if _, ok := s.members[id]; !ok {
		return apierror.NotFound("member not found", id)
	}
	delete(s.members, id)
	return nil
}

func (s *memMemberStore) List(_ context.Context, skip int, limit int) ([]model.Member, int, error) {
	all := make([]model.Member, 0, len(s.members))
	for _, m := range s.members {
		all = append(all, m)
	}
	total := len(all)
	if skip >= len(all) {
		return nil, total, nil
	}
	all = all[skip:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, total, nil
}

type memStaffStore struct {
	staff map[string]model.Staff
}

func (s *memStaffStore) FindByID(_ context.Context, id string) (model.Staff, error) {
	st, ok := s.staff[id]
	if !ok {
		return model.Staff{}, apierror.NotFound("staff not found", id)
	}
	return st, nil
}

func (s *memStaffStore) Create(_ context.Context, st model.Staff) error {
	s.staff[st.ID] = st
	return nil
}

func (s *memStaffStore) Update(_ context.Context, st model.Staff) error {
	if _, ok := s.staff[st.ID]; !ok {
		return apierror.NotFound("staff not found", st.ID)
	}
	s.staff[st.ID] = st
	return nil
}

func (s *memStaffStore) Delete(_ context.Context, id string) error {
	delete(s.staff, id)
	return nil
}

func (s *memStaffStore) List(_ context.Context, _ int, _ int) ([]model.Staff, int, error) {
	all := make([]model.Staff, 0, len(s.staff))
	for _, st := range s.staff {
		all = append(all, st)
	}
	return all, len(all), nil
}

type memTransactionStore struct {
	transactions map[string]model.Transaction
}

func (s *memTransactionStore) FindByID(_ context.Context, id string) (model.Transaction, error) {
	tx, ok := s.transactions[id]
	if !ok {
		return model.Transaction{}, apierror.NotFound("transaction not found", id)
	}
	return tx, nil
}

func (s *memTransactionStore) Create(_ context.Context, tx model.Transaction) error {
	for _, existing := range s.transactions {
		if existing.TransactionID == tx.TransactionID {
			return apierror.AlreadyExists("transaction already exists", tx.TransactionID)
		}
	}
	s.transactions[tx.ID] = tx
	return nil
}

func (s *memTransactionStore) Update(_ context.Context, tx model.Transaction) error {
	if _, ok := s.transactions[tx.ID]; !ok {
		return apierror.NotFound("transaction not found", tx.ID)
	}
	s.transactions[tx.ID] = tx
	return nil
}

func (s *memTransactionStore) Delete(_ context.Context, id string) error {
	delete(s.transactions, id)
	return nil
}

func (s *memTransactionStore) List(_ context.Context, _ int, _ int) ([]model.Transaction, int, error) {
	all := make([]model.Transaction, 0, len(s.transactions))
	for _, tx := range s.transactions {
		all = append(all, tx)
	}
	return all, len(all), nil
}

type memReservationStore struct {
	reservations map[string]model.Reservation
}

func (s *memReservationStore) FindByID(_ context.Context, id string) (model.Reservation, error) {
	res, ok := s.reservations[id]
	if !ok {
		return model.Reservation{}, apierror.NotFound("reservation not found", id)
	}
	return res, nil
}

func (s *memReservationStore) Create(_ context.Context, res model.Reservation) error {
	s.reservations[res.ID] = res
	return nil
}

func (s *memReservationStore) Update(_ context.Context, res model.Reservation) error {
	if _, ok := s.reservations[res.ID]; !ok {
		return apierror.NotFound("reservation not found", res.ID)
	}
	s.reservations[res.ID] = res
	return nil
}

func (s *memReservationStore) Delete(_ context.Context, id string) error {
	delete(s.reservations, id)
	return nil
}

func (s *memReservationStore) List(_ context.Context, _ int, _ int) ([]model.Reservation, int, error) {
	all := make([]model.Reservation, 0, len(s.reservations))
	for _, res := range s.reservations {
		all = append(all, res)
	}
	return all, len(all), nil
}

type memFineStore struct {
	fines map[string]model.Fine
}

func (s *memFineStore) FindByID(_ context.Context, id string) (model.Fine, error) {
	fine, ok := s.fines[id]
	if !ok {
		return model.Fine{}, apierror.NotFound("fine not found", id)
	}
	return fine, nil
}

func (s *memFineStore) Create(_ context.Context, fine model.Fine) error {
	s.fines[fine.ID] = fine
	return nil
}

func (s *memFineStore) Update(_ context.Context, fine model.Fine) error {
	if _, ok := s.fines[fine.ID]; !ok {
		return apierror.NotFound("fine not found", fine.ID)
	}
	s.fines[fine.ID] = fine
	return nil
}

func (s *memFineStore) Delete(_ context.Context, id string) error {
	delete(s.fines, id)
	return nil
}

func (s *memFineStore) List(_ context.Context, _ int, _ int) ([]model.Fine, int, error) {
	all := make([]model.Fine, 0, len(s.fines))
	for _, fine := range s.fines {
		all = append(all, fine)
	}
	return all, len(all), nil
}

func newTestCirculationService() (*CirculationService, *memMemberStore, *memTransactionStore) {
	members := &memMemberStore{members: map[string]model.Member{}}
	transactions := &memTransactionStore{transactions: map[string]model.Transaction{}}
	svc := NewCirculationService(
		members,
		&memStaffStore{staff: map[string]model.Staff{}},
		transactions,
		&memReservationStore{reservations: map[string]model.Reservation{}},
		&memFineStore{fines: map[string]model.Fine{}},
	)
	return svc, members, transactions
}

func TestCreateMember(t *testing.T) {
	svc, members, _ := newTestCirculationService()

	member, err := svc.CreateMember(context.Background(), model.MemberRequest{FullName: "  Ada Lovelace "})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", member.FullName)
	assert.Zero(t, member.FineDues)
	assert.NotEmpty(t, member.ID)
	assert.Contains(t, members.members, member.ID)

	_, err = svc.CreateMember(context.Background(), model.MemberRequest{FullName: "  "})
	assert.Equal(t, http.StatusBadRequest, asAPIError(t, err).HTTPStatus)
}

func TestUpdateMemberReplacesFields(t *testing.T) {
	svc, _, _ := newTestCirculationService()

	member, err := svc.CreateMember(context.Background(), model.MemberRequest{
		FullName: "Ada",
		Email:    strPtr("ada@example.com"),
	})
	require.NoError(t, err)

	dues := 12.5
	updated, err := svc.UpdateMember(context.Background(), member.ID, model.MemberRequest{
		FullName: "Ada Lovelace",
		FineDues: &dues,
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", updated.FullName)
	assert.Equal(t, 12.5, updated.FineDues)
	assert.Nil(t, updated.Email)
	assert.Equal(t, member.CreatedAt, updated.CreatedAt)
}

func TestCreateTransactionValidation(t *testing.T) {
	svc, _, _ := newTestCirculationService()

	member, err := svc.CreateMember(context.Background(), model.MemberRequest{FullName: "Ada"})
	require.NoError(t, err)

	issue := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	_, err = svc.CreateTransaction(context.Background(), model.TransactionRequest{
		MemberID:  member.ID,
		IssueDate: issue,
		DueDate:   issue.AddDate(0, 0, 14),
	})
	assert.Equal(t, http.StatusBadRequest, asAPIError(t, err).HTTPStatus)

	_, err = svc.CreateTransaction(context.Background(), model.TransactionRequest{
		TransactionID: "TXN-1",
		MemberID:      member.ID,
		IssueDate:     issue,
		DueDate:       issue.AddDate(0, 0, -1),
	})
	assert.Equal(t, http.StatusBadRequest, asAPIError(t, err).HTTPStatus)

	_, err = svc.CreateTransaction(context.Background(), model.TransactionRequest{
		TransactionID: "TXN-1",
		MemberID:      "missing-member",
		IssueDate:     issue,
		DueDate:       issue.AddDate(0, 0, 14),
	})
	assert.Equal(t, http.StatusNotFound, asAPIError(t, err).HTTPStatus)
}

func TestCreateTransactionAndDuplicateBusinessKey(t *testing.T) {
	svc, _, _ := newTestCirculationService()

	member, err := svc.CreateMember(context.Background(), model.MemberRequest{FullName: "Ada"})
	require.NoError(t, err)

	issue := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	req := model.TransactionRequest{
		TransactionID: "TXN-1",
		MemberID:      member.ID,
		BookID:        "b1",
		IssueDate:     issue,
		DueDate:       issue.AddDate(0, 0, 14),
	}

	tx, err := svc.CreateTransaction(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "TXN-1", tx.TransactionID)
	assert.Zero(t, tx.RenewalCount)

	_, err = svc.CreateTransaction(context.Background(), req)
	apiErr := asAPIError(t, err)
	assert.Equal(t, "ALREADY_EXISTS", apiErr.Code)
}

func TestUpdateTransactionReturn(t *testing.T) {
	svc, _, _ := newTestCirculationService()

	member, err := svc.CreateMember(context.Background(), model.MemberRequest{FullName: "Ada"})
	require.NoError(t, err)

	issue := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	tx, err := svc.CreateTransaction(context.Background(), model.TransactionRequest{
		TransactionID: "TXN-1",
		MemberID:      member.ID,
		IssueDate:     issue,
		DueDate:       issue.AddDate(0, 0, 14),
	})
	require.NoError(t, err)

	returned := issue.AddDate(0, 0, 10)
	updated, err := svc.UpdateTransaction(context.Background(), tx.ID, model.TransactionRequest{
		ReturnDate: &returned,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.ReturnDate)
	assert.Equal(t, returned, *updated.ReturnDate)
	assert.Equal(t, issue, updated.IssueDate)
}

func TestCreateReservationDefaultsToActive(t *testing.T) {
	svc, _, _ := newTestCirculationService()

	member, err := svc.CreateMember(context.Background(), model.MemberRequest{FullName: "Ada"})
	require.NoError(t, err)

	res, err := svc.CreateReservation(context.Background(), model.ReservationRequest{
		ReservationID:   "RES-1",
		MemberID:        member.ID,
		BookID:          "b1",
		ReservationDate: time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.Equal(t, model.ReservationStatusActive, res.Status)

	_, err = svc.CreateReservation(context.Background(), model.ReservationRequest{
		ReservationID:   "RES-2",
		MemberID:        member.ID,
		ReservationDate: time.Now().UTC(),
		Status:          strPtr("pending"),
	})
	assert.Equal(t, http.StatusBadRequest, asAPIError(t, err).HTTPStatus)
}

func TestUpdateReservationStatusNormalized(t *testing.T) {
	svc, _, _ := newTestCirculationService()

	member, err := svc.CreateMember(context.Background(), model.MemberRequest{FullName: "Ada"})
	require.NoError(t, err)

	res, err := svc.CreateReservation(context.Background(), model.ReservationRequest{
		ReservationID:   "RES-1",
		MemberID:        member.ID,
		ReservationDate: time.Now().UTC(),
	})
	require.NoError(t, err)

	updated, err := svc.UpdateReservation(context.Background(), res.ID, model.ReservationRequest{
		Status: strPtr("FULFILLED"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.ReservationStatusFulfilled, updated.Status)
}

func TestCreateFineDefaultsToUnpaid(t *testing.T) {
	svc, _, _ := newTestCirculationService()

	member, err := svc.CreateMember(context.Background(), model.MemberRequest{FullName: "Ada"})
	require.NoError(t, err)

	fine, err := svc.CreateFine(context.Background(), model.FineRequest{
		FineID:   "FINE-1",
		MemberID: member.ID,
		Amount:   5,
		Reason:   "late return",
	})
	require.NoError(t, err)
	assert.Equal(t, model.FineStatusUnpaid, fine.PaymentStatus)

	_, err = svc.CreateFine(context.Background(), model.FineRequest{
		FineID:   "FINE-2",
		MemberID: member.ID,
		Amount:   -1,
		Reason:   "late return",
	})
	assert.Equal(t, http.StatusBadRequest, asAPIError(t, err).HTTPStatus)
}

func TestUpdateFinePayment(t *testing.T) {
	svc, _, _ := newTestCirculationService()

	member, err := svc.CreateMember(context.Background(), model.MemberRequest{FullName: "Ada"})
	require.NoError(t, err)

	fine, err := svc.CreateFine(context.Background(), model.FineRequest{
		FineID:   "FINE-1",
		MemberID: member.ID,
		Amount:   5,
		Reason:   "late return",
	})
	require.NoError(t, err)

	paidAt := time.Now().UTC()
	updated, err := svc.UpdateFine(context.Background(), fine.ID, model.FineRequest{
		PaymentStatus: strPtr("paid"),
		PaymentDate:   &paidAt,
	})
	require.NoError(t, err)
	assert.Equal(t, model.FineStatusPaid, updated.PaymentStatus)
	require.NotNil(t, updated.PaymentDate)
	assert.Equal(t, 5.0, updated.Amount)
}
