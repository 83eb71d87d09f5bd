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

type StaffRepository struct {
	pool *pgxpool.Pool
}

func NewStaffRepository(pool *pgxpool.Pool) *StaffRepository {
	return &StaffRepository{pool: pool}
}

const staffColumns = `id, name, role, contact_info, shift_timings, assigned_responsibilities, created_at`

func scanStaff(row pgx.Row) (model.Staff, error) {
	var s model.Staff
	err := row.Scan(&s.ID, &s.Name, &s.Role, &s.ContactInfo, &s.ShiftTimings,
		&s.AssignedResponsibilities, &s.CreatedAt)
	return s, err
}

func (r *StaffRepository) FindByID(ctx context.Context, id string) (model.Staff, error) {
	s, err := scanStaff(r.pool.QueryRow(ctx, `SELECT `+staffColumns+` FROM staff WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Staff{}, apierror.NotFound("staff member not found", id)
	}
	if err != nil {
		return model.Staff{}, fmt.Errorf("find staff by id: %w", err)
	}
	return s, nil
}

func (r *StaffRepository) Create(ctx context.Context, s model.Staff) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO staff (id, name, role, contact_info, shift_timings, assigned_responsibilities, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.Name, s.Role, s.ContactInfo, s.ShiftTimings, s.AssignedResponsibilities, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("create staff: %w", err)
	}
	return nil
}

func (r *StaffRepository) Update(ctx context.Context, s model.Staff) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE staff SET name = $2, role = $3, contact_info = $4, shift_timings = $5,
		     assigned_responsibilities = $6
		 WHERE id = $1`,
		s.ID, s.Name, s.Role, s.ContactInfo, s.ShiftTimings, s.AssignedResponsibilities)
	if err != nil {
		return fmt.Errorf("update staff: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("staff member not found", s.ID)
	}
	return nil
}

func (r *StaffRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM staff WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete staff: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apierror.NotFound("staff member not found", id)
	}
	return nil
}

func (r *StaffRepository) List(ctx context.Context, skip int, limit int) ([]model.Staff, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM staff`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count staff: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+staffColumns+` FROM staff ORDER BY name LIMIT $1 OFFSET $2`, limit, skip)
	if err != nil {
		return nil, 0, fmt.Errorf("list staff: %w", err)
	}
	defer rows.Close()

	staff := make([]model.Staff, 0)
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan staff: %w", err)
		}
		staff = append(staff, s)
	}
	return staff, total, rows.Err()
}
