package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"library-api/internal/model"
	"library-api/internal/token"
	"library-api/pkg/apierror"
)

const bcryptCost = 12

// UserStore is the slice of the user repository the auth layer depends on.
type UserStore interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, u model.User) error
	Update(ctx context.Context, u model.User) error
	UpdatePassword(ctx context.Context, userID string, passwordHash string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, skip int, limit int) ([]model.User, error)
	Count(ctx context.Context) (int, error)
}

// AuthService owns credential verification, token issuance and principal
// resolution. It is the single choke point for the role fallback logic: every
// authenticated request resolves its principal here.
type AuthService struct {
	users     UserStore
	events    *AuthEventService
	codec     *token.Codec
	keys      *token.KeyMaterial
	accessTTL time.Duration
	resetTTL  time.Duration
}

func NewAuthService(users UserStore, events *AuthEventService, keys *token.KeyMaterial, accessTTL time.Duration, resetTTL time.Duration) *AuthService {
	return &AuthService{
		users:     users,
		events:    events,
		codec:     token.NewCodec(keys),
		keys:      keys,
		accessTTL: accessTTL,
		resetTTL:  resetTTL,
	}
}

// Login verifies credentials and issues an access token carrying the user's
// resolved role. Both the not-found and wrong-password paths record a
// login_failed event and return the same error so callers cannot probe for
// registered emails.
func (s *AuthService) Login(ctx context.Context, email string, password string, clientIP string) (model.LoginResponse, error) {
	email = strings.TrimSpace(email)

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		s.events.Record(ctx, model.AuthEventLoginFailed, nil, email, nil, clientIP)
		return model.LoginResponse{}, apierror.Unauthorized("incorrect email or password")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		s.events.Record(ctx, model.AuthEventLoginFailed, &user.ID, user.Email, nil, clientIP)
		return model.LoginResponse{}, apierror.Unauthorized("incorrect email or password")
	}

	role := user.ResolvedRole()
	accessToken, err := s.codec.Issue(user.Email, role, s.accessTTL)
	if err != nil {
		return model.LoginResponse{}, fmt.Errorf("issue access token: %w", err)
	}

	s.events.Record(ctx, model.AuthEventLoginSuccess, &user.ID, user.Email, &role, clientIP)

	return model.LoginResponse{
		AccessToken: accessToken,
		TokenType:   "bearer",
		UserID:      user.ID,
		Email:       user.Email,
		Role:        role,
	}, nil
}

// Register creates a self-service account. New accounts have no explicit role
// column and no superuser flag, so they resolve to member.
func (s *AuthService) Register(ctx context.Context, email string, password string, fullName string) (model.UserView, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return model.UserView{}, apierror.BadRequest("a valid email is required", "email")
	}
	if len(password) < 8 {
		return model.UserView{}, apierror.BadRequest("password must be at least 8 characters", "password")
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return model.UserView{}, err
	}
	if exists {
		return model.UserView{}, apierror.AlreadyExists("email already registered", email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return model.UserView{}, fmt.Errorf("hash password: %w", err)
	}

	user := model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(fullName),
		IsActive:     true,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return model.UserView{}, err
	}

	return model.NewUserView(user), nil
}

const forgotPasswordAck = "If your email is registered, you will receive a password reset link"

// ForgotPassword issues a reset token for known accounts. The returned
// acknowledgment is identical whether or not the email exists.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) string {
	user, err := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return forgotPasswordAck
	}

	resetToken, err := s.codec.Issue(user.Email, user.ResolvedRole(), s.resetTTL)
	if err != nil {
		slog.Error("failed to issue password reset token", "error", err)
		return forgotPasswordAck
	}

	// Delivery would go through a mailer; the token is never returned to the
	// caller.
	slog.Info("password reset token issued", "user_id", user.ID)
	slog.Debug("password reset token", "token", resetToken)

	return forgotPasswordAck
}

func (s *AuthService) ResetPassword(ctx context.Context, rawToken string, newPassword string) error {
	claims, err := s.codec.Verify(rawToken)
	if err != nil {
		return apierror.New("INVALID_TOKEN", "invalid or expired token", "", http.StatusBadRequest)
	}

	if len(newPassword) < 8 {
		return apierror.BadRequest("password must be at least 8 characters", "new_password")
	}

	user, err := s.users.FindByEmail(ctx, claims.Subject)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.users.UpdatePassword(ctx, user.ID, string(hash))
}

// ResolvePrincipal verifies a bearer token and resolves it against the user
// store. The token must verify, its subject must exist, and the account must
// be active; an inactive account fails authentication before any role check.
func (s *AuthService) ResolvePrincipal(ctx context.Context, rawToken string) (*model.Principal, error) {
	claims, err := s.codec.Verify(rawToken)
	if err != nil {
		return nil, apierror.Unauthorized("could not validate credentials")
	}

	user, err := s.users.FindByEmail(ctx, claims.Subject)
	if err != nil {
		return nil, apierror.Unauthorized("could not validate credentials")
	}

	if !user.IsActive {
		return nil, apierror.New("UNAUTHORIZED", "inactive user", "", http.StatusBadRequest)
	}

	return &model.Principal{
		UserID:      user.ID,
		Email:       user.Email,
		FullName:    user.FullName,
		Role:        user.ResolvedRole(),
		IsActive:    user.IsActive,
		IsSuperuser: user.IsSuperuser,
		CreatedAt:   user.CreatedAt,
	}, nil
}

// PublicKeyPEM returns the verification key for clients, or empty when the
// process signs with the shared secret.
func (s *AuthService) PublicKeyPEM() string {
	return s.keys.PublicKeyPEM()
}

func (s *AuthService) SigningMode() token.SigningMode {
	return s.keys.Mode()
}
