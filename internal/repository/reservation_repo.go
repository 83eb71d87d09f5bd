package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"library-api/internal/model"
	"library-api/pkg/apierror"
)

type ReservationRepository struct {
	pool *pgxpool.Pool
}

func NewReservationRepository(pool *pgxpool.Pool) *ReservationRepository {
	return &ReservationRepository{pool: pool}
}

const reservationColumns = `id, reservation_id, book_id, member_id, reservation_date, status, created_at`

func scanReservation(row pgx.Row) (model.Reservation, error) {
	var res model.Reservation
	err := row.Scan(&res.ID, &res.ReservationID, &res.BookID, &res.MemberID,
		&res.ReservationDate, &res.Status, &res.CreatedAt)
	return res, err
}

func (r *ReservationRepository) FindByID(ctx context.Context, id string) (model.Reservation, error) {
	res, err := scanReservation(r.pool.QueryRow(ctx,
		`SELECT `+reservationColumns+` FROM reservations WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Reservation{}, apierror.NotFound("reservation not found", id)
	}
	if err != nil {
		return model.Reservation{}, fmt.Errorf("find reservation by id: %w", err)
	}
	return res, nil
}

func (r *ReservationRepository) Create(ctx context.Context, res model.Reservation) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO reservations (id, reservation_id, book_id, member_id, reservation_date, status, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		res.ID, res.ReservationID, res.BookID, res.MemberID, res.ReservationDate, res.Status, res.CreatedAt)
	if isUniqueViolation(err) {
		return apierror.AlreadyExists("reservation already exists", res.ReservationID)
	}
	if err != nil {
		return fmt.Errorf("create reservation: %w", err)
	}
	return nil
}

func (r *ReservationRepository) Update(ctx context.Context, res model.Reservation) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE reservations SET book_id = $2, member_id = $3, reservation_date = $4, status = $5
		 WHERE id = $1`,
		res.ID, res.BookID, res.MemberID, res.ReservationDate, res.Status)
	if err != nil {
		return fmt.Errorf("update reservation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("reservation not found", res.ID)
	}
	return nil
}

func (r *ReservationRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete reservation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("reservation not found", id)
	}
	return nil
}

func (r *ReservationRepository) List(ctx context.Context, skip int, limit int) ([]model.Reservation, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reservations`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reservations: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+reservationColumns+` FROM reservations ORDER BY reservation_date DESC LIMIT $1 OFFSET $2`,
		limit, skip)
	if err != nil {
		return nil, 0, fmt.Errorf("list reservations: %w", err)
	}
	defer rows.Close()

	reservations := make([]model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan reservation: %w", err)
		}
		reservations = append(reservations, res)
	}
	return reservations, total, rows.Err()
}
