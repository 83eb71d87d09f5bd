package model

import "time"

const (
	AuthEventLoginSuccess = "login_success"
	AuthEventLoginFailed  = "login_failed"
)

// AuthEvent is one append-only audit record of a login attempt. UserID and
// Role are pointers because a failed lookup has neither.
type AuthEvent struct {
	ID        string    `json:"id"`
	UserID    *string   `json:"user_id"`
	Email     string    `json:"email"`
	Event     string    `json:"event"`
	Role      *string   `json:"role"`
	IPAddress string    `json:"ip_address"`
	CreatedAt time.Time `json:"created_at"`
}
