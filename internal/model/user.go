package model

import (
	"strings"
	"time"
)

const (
	RoleAdmin     = "admin"
	RoleLibrarian = "librarian"
	RoleMember    = "member"
)

// User is the stored identity record. Role is nullable because older
// deployments only carried the is_superuser flag; ResolvedRole is the single
// place the two representations are reconciled.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	IsActive     bool      `json:"is_active"`
	IsSuperuser  bool      `json:"is_superuser"`
	Role         *string   `json:"role,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ResolvedRole returns the canonical role for the user: the explicit role
// column wins, then the legacy superuser flag, then member.
func (u User) ResolvedRole() string {
	if u.Role != nil {
		if role := strings.ToLower(strings.TrimSpace(*u.Role)); role != "" {
			return role
		}
	}

	if u.IsSuperuser {
		return RoleAdmin
	}

	return RoleMember
}

func ValidRole(role string) bool {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case RoleAdmin, RoleLibrarian, RoleMember:
		return true
	}

	return false
}

// Principal is the resolved identity for an authenticated request. A nil
// *Principal means an anonymous caller on an optional-auth route.
type Principal struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	Role        string    `json:"role"`
	IsActive    bool      `json:"is_active"`
	IsSuperuser bool      `json:"is_superuser"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserView is the response shape for user records: the persisted fields plus
// the derived role. The stored User entity is never mutated to carry it.
type UserView struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	FullName    string    `json:"full_name"`
	Role        string    `json:"role"`
	IsActive    bool      `json:"is_active"`
	IsSuperuser bool      `json:"is_superuser"`
	CreatedAt   time.Time `json:"created_at"`
}

func NewUserView(u User) UserView {
	return UserView{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		Role:        u.ResolvedRole(),
		IsActive:    u.IsActive,
		IsSuperuser: u.IsSuperuser,
		CreatedAt:   u.CreatedAt,
	}
}
