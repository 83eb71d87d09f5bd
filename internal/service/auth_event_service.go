package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"library-api/internal/model"
)

// AuthEventStore is the slice of the auth event repository the service uses.
type AuthEventStore interface {
	Insert(ctx context.Context, e model.AuthEvent) error
	List(ctx context.Context, skip int, limit int) ([]model.AuthEvent, error)
	Count(ctx context.Context) (int, error)
}

// AuthEventService appends login attempts to the audit trail. Recording is
// best-effort: a failed insert is logged and swallowed so it can never block
// a login flow.
type AuthEventService struct {
	store AuthEventStore
}

func NewAuthEventService(store AuthEventStore) *AuthEventService {
	return &AuthEventService{store: store}
}

func (s *AuthEventService) Record(ctx context.Context, event string, userID *string, email string, role *string, ipAddress string) {
	if s == nil || s.store == nil {
		return
	}

	entry := model.AuthEvent{
		ID:        uuid.NewString(),
		UserID:    userID,
		Email:     email,
		Event:     event,
		Role:      role,
		IPAddress: ipAddress,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.store.Insert(ctx, entry); err != nil {
		slog.Warn("failed to record auth event", "event", event, "email", email, "error", err)
	}
}

// List returns auth events newest first.
func (s *AuthEventService) List(ctx context.Context, skip int, limit int) ([]model.AuthEvent, model.Meta, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	events, err := s.store.List(ctx, skip, limit)
	if err != nil {
		return nil, model.Meta{}, err
	}

	total, err := s.store.Count(ctx)
	if err != nil {
		return nil, model.Meta{}, err
	}

	return events, model.Meta{Skip: skip, Limit: limit, Total: total}, nil
}
