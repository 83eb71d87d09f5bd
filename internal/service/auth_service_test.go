package service

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"library-api/internal/model"
	"library-api/internal/token"
	"library-api/pkg/apierror"
)

// memUserStore is an in-memory UserStore for tests.
type memUserStore struct {
	users map[string]model.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: map[string]model.User{}}
}

func (s *memUserStore) FindByID(_ context.Context, id string) (model.User, error) {
	user, ok := s.users[id]
	if !ok {
		return model.User{}, apierror.NotFound("user not found", id)
	}
	return user, nil
}

func (s *memUserStore) FindByEmail(_ context.Context, email string) (model.User, error) {
	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			return user, nil
		}
	}
	return model.User{}, apierror.NotFound("user not found", email)
}

func (s *memUserStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (s *memUserStore) Create(_ context.Context, u model.User) error {
	for _, user := range s.users {
		if strings.EqualFold(user.Email, u.Email) {
			return apierror.AlreadyExists("email already registered", u.Email)
		}
	}
	s.users[u.ID] = u
	return nil
}

func (s *memUserStore) Update(_ context.Context, u model.User) error {
	if _, ok := s.users[u.ID]; !ok {
		return apierror.NotFound("user not found", u.ID)
	}
	s.users[u.ID] = u
	return nil
}

func (s *memUserStore) UpdatePassword(_ context.Context, userID string, passwordHash string) error {
	user, ok := s.users[userID]
	if !ok {
		return apierror.NotFound("user not found", userID)
	}
	user.PasswordHash = passwordHash
	s.users[userID] = user
	return nil
}

func (s *memUserStore) Delete(_ context.Context, id string) error {
	if _, ok := s.users[id]; !ok {
		return apierror.NotFound("user not found", id)
	}
	delete(s.users, id)
	return nil
}

func (s *memUserStore) List(_ context.Context, skip int, limit int) ([]model.User, error) {
	all := make([]model.User, 0, len(s.users))
	for _, user := range s.users {
		all = append(all, user)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Email < all[j].Email })

	if skip >= len(all) {
		return nil, nil
	}
	all = all[skip:]
	if len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

func (s *memUserStore) Count(_ context.Context) (int, error) {
	return len(s.users), nil
}

// memEventStore is an in-memory AuthEventStore for tests.
type memEventStore struct {
	events    []model.AuthEvent
	insertErr error
}

func (s *memEventStore) Insert(_ context.Context, e model.AuthEvent) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.events = append(s.events, e)
	return nil
}

func (s *memEventStore) List(_ context.Context, skip int, limit int) ([]model.AuthEvent, error) {
	reversed := make([]model.AuthEvent, 0, len(s.events))
	for i := len(s.events) - 1; i >= 0; i-- {
		reversed = append(reversed, s.events[i])
	}

	if skip >= len(reversed) {
		return nil, nil
	}
	reversed = reversed[skip:]
	if len(reversed) > limit {
		reversed = reversed[:limit]
	}
	return reversed, nil
}

func (s *memEventStore) Count(_ context.Context) (int, error) {
	return len(s.events), nil
}

func testKeyMaterial(t *testing.T) *token.KeyMaterial {
	t.Helper()

	km, err := token.LoadKeyMaterial("", "", "unit-test-secret")
	require.NoError(t, err)
	return km
}

func seedUser(t *testing.T, store *memUserStore, user model.User, password string) model.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user.PasswordHash = string(hash)
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	store.users[user.ID] = user
	return user
}

func newTestAuthService(t *testing.T) (*AuthService, *memUserStore, *memEventStore) {
	t.Helper()

	users := newMemUserStore()
	events := &memEventStore{}
	svc := NewAuthService(users, NewAuthEventService(events), testKeyMaterial(t), 30*time.Minute, time.Hour)
	return svc, users, events
}

func asAPIError(t *testing.T, err error) *apierror.APIError {
	t.Helper()

	var apiErr *apierror.APIError
	require.ErrorAs(t, err, &apiErr)
	return apiErr
}

func TestLoginSuccess(t *testing.T) {
	svc, users, events := newTestAuthService(t)
	role := "librarian"
	seedUser(t, users, model.User{ID: "u1", Email: "lib@example.com", IsActive: true, Role: &role}, "password123")

	resp, err := svc.Login(context.Background(), "lib@example.com", "password123", "10.0.0.1")
	require.NoError(t, err)

	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, "u1", resp.UserID)
	assert.Equal(t, "lib@example.com", resp.Email)
	assert.Equal(t, "librarian", resp.Role)
	assert.NotEmpty(t, resp.AccessToken)

	require.Len(t, events.events, 1)
	event := events.events[0]
	assert.Equal(t, model.AuthEventLoginSuccess, event.Event)
	require.NotNil(t, event.UserID)
	assert.Equal(t, "u1", *event.UserID)
	require.NotNil(t, event.Role)
	assert.Equal(t, "librarian", *event.Role)
	assert.Equal(t, "10.0.0.1", event.IPAddress)
}

func TestLoginTokenCarriesResolvedRole(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	// Legacy record: no role column, superuser flag set.
	seedUser(t, users, model.User{ID: "u1", Email: "root@example.com", IsActive: true, IsSuperuser: true}, "password123")

	resp, err := svc.Login(context.Background(), "root@example.com", "password123", "")
	require.NoError(t, err)
	assert.Equal(t, "admin", resp.Role)

	claims, err := token.NewCodec(testKeyMaterial(t)).Verify(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "root@example.com", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, []string{"admin"}, claims.Scopes)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, users, events := newTestAuthService(t)
	seedUser(t, users, model.User{ID: "u1", Email: "a@example.com", IsActive: true}, "password123")

	_, err := svc.Login(context.Background(), "a@example.com", "wrong-password", "10.0.0.2")
	apiErr := asAPIError(t, err)
	assert.Equal(t, http.StatusUnauthorized, apiErr.HTTPStatus)
	assert.Equal(t, "incorrect email or password", apiErr.Message)

	require.Len(t, events.events, 1)
	event := events.events[0]
	assert.Equal(t, model.AuthEventLoginFailed, event.Event)
	require.NotNil(t, event.UserID)
	assert.Equal(t, "u1", *event.UserID)
	assert.Nil(t, event.Role)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, events := newTestAuthService(t)

	_, err := svc.Login(context.Background(), "ghost@example.com", "password123", "10.0.0.3")
	apiErr := asAPIError(t, err)
	assert.Equal(t, http.StatusUnauthorized, apiErr.HTTPStatus)
	// Same message as the wrong-password path.
	assert.Equal(t, "incorrect email or password", apiErr.Message)

	require.Len(t, events.events, 1)
	event := events.events[0]
	assert.Equal(t, model.AuthEventLoginFailed, event.Event)
	assert.Nil(t, event.UserID)
	assert.Equal(t, "ghost@example.com", event.Email)
}

func TestLoginSurvivesEventStoreFailure(t *testing.T) {
	users := newMemUserStore()
	events := &memEventStore{insertErr: errors.New("db down")}
	svc := NewAuthService(users, NewAuthEventService(events), testKeyMaterial(t), 30*time.Minute, time.Hour)
	seedUser(t, users, model.User{ID: "u1", Email: "a@example.com", IsActive: true}, "password123")

	resp, err := svc.Login(context.Background(), "a@example.com", "password123", "")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestRegister(t *testing.T) {
	svc, users, _ := newTestAuthService(t)

	view, err := svc.Register(context.Background(), " new@example.com ", "password123", "  New User ")
	require.NoError(t, err)

	assert.Equal(t, "new@example.com", view.Email)
	assert.Equal(t, "New User", view.FullName)
	assert.Equal(t, model.RoleMember, view.Role)
	assert.True(t, view.IsActive)
	assert.False(t, view.IsSuperuser)

	stored, err := users.FindByEmail(context.Background(), "new@example.com")
	require.NoError(t, err)
	assert.Nil(t, stored.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("password123")))
}

func TestRegisterValidation(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	_, err := svc.Register(context.Background(), "not-an-email", "password123", "")
	assert.Equal(t, http.StatusBadRequest, asAPIError(t, err).HTTPStatus)

	_, err = svc.Register(context.Background(), "ok@example.com", "short", "")
	assert.Equal(t, http.StatusBadRequest, asAPIError(t, err).HTTPStatus)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	seedUser(t, users, model.User{ID: "u1", Email: "taken@example.com", IsActive: true}, "password123")

	_, err := svc.Register(context.Background(), "taken@example.com", "password123", "")
	apiErr := asAPIError(t, err)
	assert.Equal(t, "ALREADY_EXISTS", apiErr.Code)
	assert.Equal(t, http.StatusBadRequest, apiErr.HTTPStatus)
}

func TestForgotPasswordSameAckEitherWay(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	seedUser(t, users, model.User{ID: "u1", Email: "known@example.com", IsActive: true}, "password123")

	known := svc.ForgotPassword(context.Background(), "known@example.com")
	unknown := svc.ForgotPassword(context.Background(), "ghost@example.com")
	assert.Equal(t, known, unknown)
	assert.NotEmpty(t, known)
}

func TestResetPasswordFlow(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	seedUser(t, users, model.User{ID: "u1", Email: "a@example.com", IsActive: true}, "old-password")

	codec := token.NewCodec(testKeyMaterial(t))
	resetToken, err := codec.Issue("a@example.com", "member", time.Hour)
	require.NoError(t, err)

	require.NoError(t, svc.ResetPassword(context.Background(), resetToken, "new-password-1"))

	stored, err := users.FindByEmail(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("new-password-1")))

	// The old password no longer works.
	_, err = svc.Login(context.Background(), "a@example.com", "old-password", "")
	require.Error(t, err)
	_, err = svc.Login(context.Background(), "a@example.com", "new-password-1", "")
	require.NoError(t, err)
}

func TestResetPasswordRejectsBadToken(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	err := svc.ResetPassword(context.Background(), "garbage", "new-password-1")
	apiErr := asAPIError(t, err)
	assert.Equal(t, "INVALID_TOKEN", apiErr.Code)
	assert.Equal(t, http.StatusBadRequest, apiErr.HTTPStatus)
}

func TestResetPasswordRejectsShortPassword(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	seedUser(t, users, model.User{ID: "u1", Email: "a@example.com", IsActive: true}, "old-password")

	codec := token.NewCodec(testKeyMaterial(t))
	resetToken, err := codec.Issue("a@example.com", "member", time.Hour)
	require.NoError(t, err)

	err = svc.ResetPassword(context.Background(), resetToken, "short")
	assert.Equal(t, http.StatusBadRequest, asAPIError(t, err).HTTPStatus)
}

func TestResolvePrincipal(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	role := "librarian"
	seedUser(t, users, model.User{ID: "u1", Email: "lib@example.com", FullName: "Lib", IsActive: true, Role: &role}, "password123")

	resp, err := svc.Login(context.Background(), "lib@example.com", "password123", "")
	require.NoError(t, err)

	principal, err := svc.ResolvePrincipal(context.Background(), resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", principal.UserID)
	assert.Equal(t, "lib@example.com", principal.Email)
	assert.Equal(t, "librarian", principal.Role)
}

func TestResolvePrincipalRejectsBadToken(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	_, err := svc.ResolvePrincipal(context.Background(), "garbage")
	apiErr := asAPIError(t, err)
	assert.Equal(t, "UNAUTHORIZED", apiErr.Code)
	assert.Equal(t, http.StatusUnauthorized, apiErr.HTTPStatus)
}

func TestResolvePrincipalRejectsDeletedUser(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	seedUser(t, users, model.User{ID: "u1", Email: "gone@example.com", IsActive: true}, "password123")

	resp, err := svc.Login(context.Background(), "gone@example.com", "password123", "")
	require.NoError(t, err)

	require.NoError(t, users.Delete(context.Background(), "u1"))

	_, err = svc.ResolvePrincipal(context.Background(), resp.AccessToken)
	assert.Equal(t, http.StatusUnauthorized, asAPIError(t, err).HTTPStatus)
}

func TestResolvePrincipalRejectsInactiveUser(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	seedUser(t, users, model.User{ID: "u1", Email: "a@example.com", IsActive: true}, "password123")

	resp, err := svc.Login(context.Background(), "a@example.com", "password123", "")
	require.NoError(t, err)

	user := users.users["u1"]
	user.IsActive = false
	users.users["u1"] = user

	_, err = svc.ResolvePrincipal(context.Background(), resp.AccessToken)
	apiErr := asAPIError(t, err)
	// Deliberately a 400, not a 401, with the UNAUTHORIZED code.
	assert.Equal(t, "UNAUTHORIZED", apiErr.Code)
	assert.Equal(t, http.StatusBadRequest, apiErr.HTTPStatus)
	assert.Equal(t, "inactive user", apiErr.Message)
}

func TestAuthEventListNewestFirstAndClamped(t *testing.T) {
	events := &memEventStore{}
	svc := NewAuthEventService(events)

	for i := 0; i < 3; i++ {
		id := string(rune('a' + i))
		svc.Record(context.Background(), model.AuthEventLoginSuccess, &id, id+"@example.com", nil, "")
	}

	listed, meta, err := svc.List(context.Background(), 0, 0)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, "c@example.com", listed[0].Email)
	assert.Equal(t, 50, meta.Limit)
	assert.Equal(t, 3, meta.Total)

	_, meta, err = svc.List(context.Background(), -5, 1000)
	require.NoError(t, err)
	assert.Equal(t, 0, meta.Skip)
	assert.Equal(t, 200, meta.Limit)
}
