package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"library-api/internal/model"
)

type AuthEventRepository struct {
	pool *pgxpool.Pool
}

func NewAuthEventRepository(pool *pgxpool.Pool) *AuthEventRepository {
	return &AuthEventRepository{pool: pool}
}

func (r *AuthEventRepository) Insert(ctx context.Context, e model.AuthEvent) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO auth_events (id, user_id, email, event, role, ip_address, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.UserID, e.Email, e.Event, e.Role, e.IPAddress, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert auth event: %w", err)
	}
	return nil
}

// List returns auth events most recent first.
func (r *AuthEventRepository) List(ctx context.Context, skip int, limit int) ([]model.AuthEvent, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, email, event, role, ip_address, created_at
		 FROM auth_events
		 ORDER BY created_at DESC
		 LIMIT $1 OFFSET $2`, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("list auth events: %w", err)
	}
	defer rows.Close()

	events := make([]model.AuthEvent, 0)
	for rows.Next() {
		var e model.AuthEvent
		if err := rows.Scan(&e.ID, &e.UserID, &e.Email, &e.Event, &e.Role, &e.IPAddress, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan auth event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *AuthEventRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM auth_events`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count auth events: %w", err)
	}
	return count, nil
}
