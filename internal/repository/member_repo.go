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

type MemberRepository struct {
	pool *pgxpool.Pool
}

func NewMemberRepository(pool *pgxpool.Pool) *MemberRepository {
	return &MemberRepository{pool: pool}
}

const memberColumns = `id, full_name, contact_number, email, address, membership_type,
	start_date, expiry_date, fine_dues, borrowing_history, created_at`

func scanMember(row pgx.Row) (model.Member, error) {
	var m model.Member
	err := row.Scan(&m.ID, &m.FullName, &m.ContactNumber, &m.Email, &m.Address,
		&m.MembershipType, &m.StartDate, &m.ExpiryDate, &m.FineDues,
		&m.BorrowingHistory, &m.CreatedAt)
	return m, err
}

func (r *MemberRepository) FindByID(ctx context.Context, id string) (model.Member, error) {
	m, err := scanMember(r.pool.QueryRow(ctx, `SELECT `+memberColumns+` FROM members WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Member{}, apierror.NotFound("member not found", id)
	}
	if err != nil {
		return model.Member{}, fmt.Errorf("find member by id: %w", err)
	}
	return m, nil
}

func (r *MemberRepository) Create(ctx context.Context, m model.Member) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO members (id, full_name, contact_number, email, address, membership_type,
		     start_date, expiry_date, fine_dues, borrowing_history, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		m.ID, m.FullName, m.ContactNumber, m.Email, m.Address, m.MembershipType,
		m.StartDate, m.ExpiryDate, m.FineDues, m.BorrowingHistory, m.CreatedAt)
	if err != nil {
		return fmt.Errorf("create member: %w", err)
	}
	return nil
}

func (r *MemberRepository) Update(ctx context.Context, m model.Member) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE members SET full_name = $2, contact_number = $3, email = $4, address = $5,
		     membership_type = $6, start_date = $7, expiry_date = $8, fine_dues = $9,
		     borrowing_history = $10
		 WHERE id = $1`,
		m.ID, m.FullName, m.ContactNumber, m.Email, m.Address, m.MembershipType,
		m.StartDate, m.ExpiryDate, m.FineDues, m.BorrowingHistory)
	if err != nil {
		return fmt.Errorf("update member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("member not found", m.ID)
	}
	return nil
}

func (r *MemberRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM members WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("member not found", id)
	}
	return nil
}

func (r *MemberRepository) List(ctx context.Context, skip int, limit int) ([]model.Member, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM members`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count members: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+memberColumns+` FROM members ORDER BY full_name LIMIT $1 OFFSET $2`, limit, skip)
	if err != nil {
		return nil, 0, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	members := make([]model.Member, 0)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, m)
	}
	return members, total, rows.Err()
}
