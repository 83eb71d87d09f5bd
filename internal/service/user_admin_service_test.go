package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-api/internal/model"
)

func boolPtr(b bool) *bool {
	return &b
}

func strPtr(s string) *string {
	return &s
}

func TestCreateUserSyncsBothRoleRepresentations(t *testing.T) {
	users := newMemUserStore()
	svc := NewUserAdminService(users)

	view, err := svc.CreateUser(context.Background(), model.CreateUserRequest{
		Email:    "admin@example.com",
		Password: "password123",
		Role:     "Admin",
	})
	require.NoError(t, err)
	assert.Equal(t, "admin", view.Role)
	assert.True(t, view.IsSuperuser)

	stored := users.users[view.ID]
	require.NotNil(t, stored.Role)
	assert.Equal(t, "admin", *stored.Role)
	assert.True(t, stored.IsSuperuser)
}

func TestCreateUserDefaultsToMember(t *testing.T) {
	users := newMemUserStore()
	svc := NewUserAdminService(users)

	view, err := svc.CreateUser(context.Background(), model.CreateUserRequest{
		Email:    "m@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, model.RoleMember, view.Role)
	assert.False(t, view.IsSuperuser)
	assert.True(t, view.IsActive)
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	svc := NewUserAdminService(newMemUserStore())

	_, err := svc.CreateUser(context.Background(), model.CreateUserRequest{
		Email:    "x@example.com",
		Password: "password123",
		Role:     "superuser",
	})
	assert.Equal(t, http.StatusBadRequest, asAPIError(t, err).HTTPStatus)
}

func TestCreateUserHonorsInactiveFlag(t *testing.T) {
	users := newMemUserStore()
	svc := NewUserAdminService(users)

	view, err := svc.CreateUser(context.Background(), model.CreateUserRequest{
		Email:    "x@example.com",
		Password: "password123",
		IsActive: boolPtr(false),
	})
	require.NoError(t, err)
	assert.False(t, view.IsActive)
}

func TestUpdateUserRoleChange(t *testing.T) {
	users := newMemUserStore()
	svc := NewUserAdminService(users)

	view, err := svc.CreateUser(context.Background(), model.CreateUserRequest{
		Email:    "m@example.com",
		Password: "password123",
		Role:     "member",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateUser(context.Background(), view.ID, model.UpdateUserRequest{Role: strPtr("admin")})
	require.NoError(t, err)
	assert.Equal(t, "admin", updated.Role)
	assert.True(t, updated.IsSuperuser)

	// And back down: the superuser flag must drop too.
	updated, err = svc.UpdateUser(context.Background(), view.ID, model.UpdateUserRequest{Role: strPtr("member")})
	require.NoError(t, err)
	assert.Equal(t, "member", updated.Role)
	assert.False(t, updated.IsSuperuser)
}

func TestUpdateUserPartial(t *testing.T) {
	users := newMemUserStore()
	svc := NewUserAdminService(users)

	view, err := svc.CreateUser(context.Background(), model.CreateUserRequest{
		Email:    "m@example.com",
		Password: "password123",
		FullName: "Before",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateUser(context.Background(), view.ID, model.UpdateUserRequest{FullName: strPtr("After")})
	require.NoError(t, err)
	assert.Equal(t, "After", updated.FullName)
	assert.Equal(t, "m@example.com", updated.Email)
	assert.Equal(t, model.RoleMember, updated.Role)
}

func TestDeleteUserForbidsSelfDelete(t *testing.T) {
	users := newMemUserStore()
	svc := NewUserAdminService(users)

	view, err := svc.CreateUser(context.Background(), model.CreateUserRequest{
		Email:    "m@example.com",
		Password: "password123",
	})
	require.NoError(t, err)

	err = svc.DeleteUser(context.Background(), view.ID, view.ID)
	apiErr := asAPIError(t, err)
	assert.Equal(t, http.StatusBadRequest, apiErr.HTTPStatus)

	// Deleting someone else works.
	other, err := svc.CreateUser(context.Background(), model.CreateUserRequest{
		Email:    "other@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteUser(context.Background(), view.ID, other.ID))
}

func TestListUsersClampsPaging(t *testing.T) {
	users := newMemUserStore()
	svc := NewUserAdminService(users)

	for _, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		_, err := svc.CreateUser(context.Background(), model.CreateUserRequest{Email: email, Password: "password123"})
		require.NoError(t, err)
	}

	views, meta, err := svc.ListUsers(context.Background(), -1, 0)
	require.NoError(t, err)
	assert.Len(t, views, 3)
	assert.Equal(t, 0, meta.Skip)
	assert.Equal(t, 100, meta.Limit)
	assert.Equal(t, 3, meta.Total)

	views, meta, err = svc.ListUsers(context.Background(), 1, 1)
	require.NoError(t, err)
	assert.Len(t, views, 1)
	assert.Equal(t, 3, meta.Total)
}
