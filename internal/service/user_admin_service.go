package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"library-api/internal/model"
	"library-api/pkg/apierror"
)

// UserAdminService implements admin provisioning and maintenance of user
// records. Role writes update both representations: the role column and the
// legacy is_superuser flag stay in sync so either schema generation reads the
// same permission level.
type UserAdminService struct {
	users UserStore
}

func NewUserAdminService(users UserStore) *UserAdminService {
	return &UserAdminService{users: users}
}

func (s *UserAdminService) CreateUser(ctx context.Context, req model.CreateUserRequest) (model.UserView, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return model.UserView{}, apierror.BadRequest("a valid email is required", "email")
	}
	if len(req.Password) < 8 {
		return model.UserView{}, apierror.BadRequest("password must be at least 8 characters", "password")
	}

	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role == "" {
		role = model.RoleMember
	}
	if !model.ValidRole(role) {
		return model.UserView{}, apierror.BadRequest("invalid role", role)
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return model.UserView{}, err
	}
	if exists {
		return model.UserView{}, apierror.AlreadyExists("email already registered", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return model.UserView{}, fmt.Errorf("hash password: %w", err)
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	user := model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(req.FullName),
		IsActive:     active,
		IsSuperuser:  role == model.RoleAdmin,
		Role:         &role,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return model.UserView{}, err
	}

	return model.NewUserView(user), nil
}

func (s *UserAdminService) GetUser(ctx context.Context, id string) (model.UserView, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return model.UserView{}, err
	}

	return model.NewUserView(user), nil
}

func (s *UserAdminService) ListUsers(ctx context.Context, skip int, limit int) ([]model.UserView, model.Meta, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = 100
	}
	if limit > 200 {
		limit = 200
	}

	users, err := s.users.List(ctx, skip, limit)
	if err != nil {
		return nil, model.Meta{}, err
	}

	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, model.Meta{}, err
	}

	views := make([]model.UserView, 0, len(users))
	for _, u := range users {
		views = append(views, model.NewUserView(u))
	}

	return views, model.Meta{Skip: skip, Limit: limit, Total: total}, nil
}

// UpdateUser applies a partial update. A role change rewrites both the role
// column and the superuser flag.
func (s *UserAdminService) UpdateUser(ctx context.Context, id string, req model.UpdateUserRequest) (model.UserView, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return model.UserView{}, err
	}

	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email == "" || !strings.Contains(email, "@") {
			return model.UserView{}, apierror.BadRequest("a valid email is required", "email")
		}
		user.Email = email
	}
	if req.FullName != nil {
		user.FullName = strings.TrimSpace(*req.FullName)
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	if req.Role != nil {
		role := strings.ToLower(strings.TrimSpace(*req.Role))
		if !model.ValidRole(role) {
			return model.UserView{}, apierror.BadRequest("invalid role", role)
		}
		user.Role = &role
		user.IsSuperuser = role == model.RoleAdmin
	}

	if err := s.users.Update(ctx, user); err != nil {
		return model.UserView{}, err
	}

	return model.NewUserView(user), nil
}

// DeleteUser removes a user record. Self-deletion is forbidden.
func (s *UserAdminService) DeleteUser(ctx context.Context, actorID string, id string) error {
	if actorID == id {
		return apierror.BadRequest("cannot delete yourself", "")
	}

	return s.users.Delete(ctx, id)
}
