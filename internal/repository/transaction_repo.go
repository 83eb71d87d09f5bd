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

type TransactionRepository struct {
	pool *pgxpool.Pool
}

func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `id, transaction_id, member_id, book_id, issue_date, due_date,
	return_date, fine_details, renewal_count, created_at`

func scanTransaction(row pgx.Row) (model.Transaction, error) {
	var t model.Transaction
	err := row.Scan(&t.ID, &t.TransactionID, &t.MemberID, &t.BookID, &t.IssueDate,
		&t.DueDate, &t.ReturnDate, &t.FineDetails, &t.RenewalCount, &t.CreatedAt)
	return t, err
}

func (r *TransactionRepository) FindByID(ctx context.Context, id string) (model.Transaction, error) {
	t, err := scanTransaction(r.pool.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Transaction{}, apierror.NotFound("transaction not found", id)
	}
	if err != nil {
		return model.Transaction{}, fmt.Errorf("find transaction by id: %w", err)
	}
	return t, nil
}

func (r *TransactionRepository) Create(ctx context.Context, t model.Transaction) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO transactions (id, transaction_id, member_id, book_id, issue_date, due_date,
		     return_date, fine_details, renewal_count, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		t.ID, t.TransactionID, t.MemberID, t.BookID, t.IssueDate, t.DueDate,
		t.ReturnDate, t.FineDetails, t.RenewalCount, t.CreatedAt)
	if isUniqueViolation(err) {
		return apierror.AlreadyExists("transaction already exists", t.TransactionID)
	}
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepository) Update(ctx context.Context, t model.Transaction) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE transactions SET member_id = $2, book_id = $3, issue_date = $4, due_date = $5,
		     return_date = $6, fine_details = $7, renewal_count = $8
		 WHERE id = $1`,
		t.ID, t.MemberID, t.BookID, t.IssueDate, t.DueDate, t.ReturnDate,
		t.FineDetails, t.RenewalCount)
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("transaction not found", t.ID)
	}
	return nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("transaction not found", id)
	}
	return nil
}

func (r *TransactionRepository) List(ctx context.Context, skip int, limit int) ([]model.Transaction, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+transactionColumns+` FROM transactions ORDER BY issue_date DESC LIMIT $1 OFFSET $2`,
		limit, skip)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	transactions := make([]model.Transaction, 0)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan transaction: %w", err)
		}
		transactions = append(transactions, t)
	}
	return transactions, total, rows.Err()
}
