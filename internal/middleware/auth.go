package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"go-studio-booking/internal/model"
)

const bearerPrefix = "Bearer "

type tokenVerifier interface {
	Validate(token string) bool
	Subject(token string) (string, error)
}

type principalLookup interface {
	FindByEmail(ctx context.Context, email string) (model.User, error)
}

type contextKey string

const principalContextKey contextKey = "principal"

// AuthMiddleware admits requests that carry a valid bearer token whose
// subject still resolves to an account. Every rejection produces the same
// 401 body so callers cannot tell why they were refused.
type AuthMiddleware struct {
	tokens tokenVerifier
	users  principalLookup
}

func NewAuthMiddleware(tokens tokenVerifier, users principalLookup) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users}
}

func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := m.authenticate(r)
		if !ok {
			writeUnauthorized(w)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
	})
}

func (m *AuthMiddleware) authenticate(r *http.Request) (model.Principal, bool) {
	token, ok := BearerToken(r)
	if !ok || !m.tokens.Validate(token) {
		return model.Principal{}, false
	}

	subject, err := m.tokens.Subject(token)
	if err != nil {
		return model.Principal{}, false
	}

	user, err := m.users.FindByEmail(r.Context(), subject)
	if err != nil {
		if !errors.Is(err, model.ErrUserNotFound) {
			slog.Error("principal lookup failed", "error", err)
		}
		return model.Principal{}, false
	}

	return user.Principal(), true
}

// BearerToken extracts the credential from an "Authorization: Bearer <token>"
// header. The scheme is matched case-sensitively.
func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", false
	}

	token := header[len(bearerPrefix):]
	if token == "" {
		return "", false
	}
	return token, true
}

func WithPrincipal(ctx context.Context, principal model.Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}

func PrincipalFromContext(ctx context.Context) (model.Principal, bool) {
	principal, ok := ctx.Value(principalContextKey).(model.Principal)
	return principal, ok
}

func writeUnauthorized(w http.ResponseWriter) {
	writeJSONError(w, http.StatusUnauthorized, "UNAUTHORIZED", "full authentication is required")
}
