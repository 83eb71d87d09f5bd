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

type FineRepository struct {
	pool *pgxpool.Pool
}

func NewFineRepository(pool *pgxpool.Pool) *FineRepository {
	return &FineRepository{pool: pool}
}

const fineColumns = `id, fine_id, member_id, amount, reason, payment_status, payment_date, created_at`

func scanFine(row pgx.Row) (model.Fine, error) {
	var f model.Fine
	err := row.Scan(&f.ID, &f.FineID, &f.MemberID, &f.Amount, &f.Reason,
		&f.PaymentStatus, &f.PaymentDate, &f.CreatedAt)
	return f, err
}

func (r *FineRepository) FindByID(ctx context.Context, id string) (model.Fine, error) {
	f, err := scanFine(r.pool.QueryRow(ctx, `SELECT `+fineColumns+` FROM fines WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Fine{}, apierror.NotFound("fine not found", id)
	}
	if err != nil {
		return model.Fine{}, fmt.Errorf("find fine by id: %w", err)
	}
	return f, nil
}

func (r *FineRepository) Create(ctx context.Context, f model.Fine) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO fines (id, fine_id, member_id, amount, reason, payment_status, payment_date, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		f.ID, f.FineID, f.MemberID, f.Amount, f.Reason, f.PaymentStatus, f.PaymentDate, f.CreatedAt)
	if isUniqueViolation(err) {
		return apierror.AlreadyExists("fine already exists", f.FineID)
	}
	if err != nil {
		return fmt.Errorf("create fine: %w", err)
	}
	return nil
}

func (r *FineRepository) Update(ctx context.Context, f model.Fine) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE fines SET member_id = $2, amount = $3, reason = $4, payment_status = $5, payment_date = $6
		 WHERE id = $1`,
		f.ID, f.MemberID, f.Amount, f.Reason, f.PaymentStatus, f.PaymentDate)
	if err != nil {
		return fmt.Errorf("update fine: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("fine not found", f.ID)
	}
	return nil
}

func (r *FineRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM fines WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete fine: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("fine not found", id)
	}
	return nil
}

func (r *FineRepository) List(ctx context.Context, skip int, limit int) ([]model.Fine, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM fines`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count fines: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+fineColumns+` FROM fines ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, skip)
	if err != nil {
		return nil, 0, fmt.Errorf("list fines: %w", err)
	}
	defer rows.Close()

	fines := make([]model.Fine, 0)
	for rows.Next() {
		f, err := scanFine(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan fine: %w", err)
		}
		fines = append(fines, f)
	}
	return fines, total, rows.Err()
}
