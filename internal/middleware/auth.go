package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"library-api/internal/model"
	"library-api/pkg/apierror"
)

// principalResolver is implemented by the auth service: it verifies a bearer
// token and resolves it to a stored user.
type principalResolver interface {
	ResolvePrincipal(ctx context.Context, rawToken string) (*model.Principal, error)
}

type contextKey string

const principalContextKey contextKey = "principal"

type AuthMiddleware struct {
	resolver principalResolver
}

func NewAuthMiddleware(resolver principalResolver) *AuthMiddleware {
	return &AuthMiddleware{resolver: resolver}
}

// RequireAuth authenticates the request via the Authorization bearer header
// and stores the resolved principal in the request context. Failures carry a
// WWW-Authenticate challenge.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rawToken, ok := bearerToken(r)
		if !ok {
			writeAuthError(w, apierror.Unauthorized("missing or invalid authorization header"))
			return
		}

		principal, err := m.resolver.ResolvePrincipal(r.Context(), rawToken)
		if err != nil {
			writeAuthError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), principal)))
	})
}

// RequireRoles authorizes an already-authenticated request: the resolved role
// must be one of allowedRoles. Authentication always runs first, so a missing
// principal here is a wiring bug and is treated as unauthenticated.
func (m *AuthMiddleware) RequireRoles(allowedRoles ...string) func(http.Handler) http.Handler {
	roleSet := map[string]struct{}{}
	for _, role := range allowedRoles {
		roleSet[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := PrincipalFromContext(r.Context())
			if !ok {
				writeAuthError(w, apierror.Unauthorized("authentication required"))
				return
			}

			if _, allowed := roleSet[principal.Role]; !allowed {
				writeAuthError(w, apierror.Forbidden("not enough permissions"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// OptionalAuth lets anonymous callers through with no principal, but a
// present token must still verify: a bad token is rejected, never silently
// treated as anonymous.
func (m *AuthMiddleware) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := strings.TrimSpace(r.Header.Get("Authorization"))
		if header == "" {
			next.ServeHTTP(w, r)
			return
		}

		rawToken, ok := bearerToken(r)
		if !ok {
			writeAuthError(w, apierror.Unauthorized("missing or invalid authorization header"))
			return
		}

		principal, err := m.resolver.ResolvePrincipal(r.Context(), rawToken)
		if err != nil {
			writeAuthError(w, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), principal)))
	})
}

func withPrincipal(ctx context.Context, principal *model.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

// PrincipalFromContext returns the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (*model.Principal, bool) {
	principal, ok := ctx.Value(principalContextKey).(*model.Principal)
	return principal, ok && principal != nil
}

func bearerToken(r *http.Request) (string, bool) {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
		return "", false
	}

	token := strings.TrimSpace(header[7:])
	return token, token != ""
}

// writeAuthError renders an auth failure. Unauthenticated responses carry the
// bearer challenge; forbidden responses do not.
func writeAuthError(w http.ResponseWriter, err error) {
	status := http.StatusUnauthorized
	body := &model.APIError{Code: "UNAUTHORIZED", Message: "authentication required"}

	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		status = apiErr.HTTPStatus
		body.Code = apiErr.Code
		body.Message = apiErr.Message
		body.Details = apiErr.Details
	}

	// The inactive-user rejection reuses the UNAUTHORIZED code on a 400, so
	// the bearer challenge keys off the status.
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = jsonEncode(w, model.APIResponse{Success: false, Error: body})
}
