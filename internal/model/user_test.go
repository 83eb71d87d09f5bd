package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string {
	return &s
}

func TestResolvedRole(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{"explicit role wins", User{Role: strPtr("librarian")}, "librarian"},
		{"explicit role wins over superuser", User{Role: strPtr("member"), IsSuperuser: true}, "member"},
		{"explicit role is lowercased", User{Role: strPtr("  ADMIN ")}, "admin"},
		{"nil role with superuser", User{IsSuperuser: true}, "admin"},
		{"nil role without superuser", User{}, "member"},
		{"empty role falls through to superuser", User{Role: strPtr(""), IsSuperuser: true}, "admin"},
		{"blank role falls through to member", User{Role: strPtr("   ")}, "member"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.ResolvedRole())
		})
	}
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole("admin"))
	assert.True(t, ValidRole("Librarian"))
	assert.True(t, ValidRole(" member "))
	assert.False(t, ValidRole(""))
	assert.False(t, ValidRole("superuser"))
}

func TestNewUserViewDerivesRole(t *testing.T) {
	view := NewUserView(User{ID: "u1", Email: "a@b.c", IsSuperuser: true})
	assert.Equal(t, "admin", view.Role)
	assert.True(t, view.IsSuperuser)
}

func TestStoredBookStatus(t *testing.T) {
	assert.Equal(t, BookStatusAvailable, StoredBookStatus("available"))
	assert.Equal(t, BookStatusBorrowed, StoredBookStatus("borrowed"))
	assert.Equal(t, BookStatusReserved, StoredBookStatus("reserved"))
	assert.Equal(t, BookStatusLost, StoredBookStatus("lost"))
	// Unknown values pass through untouched for the caller to reject.
	assert.Equal(t, "Missing", StoredBookStatus("Missing"))
}
