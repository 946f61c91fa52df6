package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-studio-booking/internal/model"
	"go-studio-booking/internal/repository/memory"
	"go-studio-booking/internal/service"
)

const unauthorizedBody = `{"success":false,"error":{"code":"UNAUTHORIZED","message":"full authentication is required"}}`

type failingLookup struct{}

func (failingLookup) FindByEmail(context.Context, string) (model.User, error) {
	return model.User{}, errors.New("connection refused")
}

func newGateFixture(t *testing.T) (*service.TokenService, *memory.Store, model.User) {
	t.Helper()

	tokens, err := service.NewTokenService("gate-test-secret", time.Hour)
	require.NoError(t, err)

	store := memory.New()
	user, err := store.Users().Create(context.Background(), model.User{Email: "gate@studio.test", FirstName: "Gate", LastName: "Keeper"})
	require.NoError(t, err)

	return tokens, store, user
}

func principalEcho(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFromContext(r.Context())
		require.True(t, ok)
		w.Header().Set("X-Subject", principal.Subject)
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestRequireAuthAdmitsValidToken(t *testing.T) {
	tokens, store, user := newGateFixture(t)
	gate := NewAuthMiddleware(tokens, store.Users()).RequireAuth(principalEcho(t))

	token, err := tokens.Issue(user.Principal())
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	require.Equal(t, "gate@studio.test", rec.Header().Get("X-Subject"))
}

func TestRequireAuthRejectionsAreUniform(t *testing.T) {
	tokens, store, user := newGateFixture(t)

	valid, err := tokens.Issue(user.Principal())
	require.NoError(t, err)
	orphan, err := tokens.Issue(model.Principal{Subject: "ghost@studio.test"})
	require.NoError(t, err)

	cases := map[string]string{
		"missing header":   "",
		"lowercase scheme": "bearer " + valid,
		"other scheme":     "Token " + valid,
		"no separator":     "Bearer" + valid,
		"empty token":      "Bearer ",
		"garbage token":    "Bearer not.a.jwt",
		"unknown subject":  "Bearer " + orphan,
	}

	gate := NewAuthMiddleware(tokens, store.Users()).RequireAuth(principalEcho(t))
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			gate.ServeHTTP(rec, req)

			require.Equal(t, http.StatusUnauthorized, rec.Code)
			require.JSONEq(t, unauthorizedBody, rec.Body.String())
		})
	}

	t.Run("storage failure", func(t *testing.T) {
		broken := NewAuthMiddleware(tokens, failingLookup{}).RequireAuth(principalEcho(t))

		req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
		req.Header.Set("Authorization", "Bearer "+valid)
		rec := httptest.NewRecorder()
		broken.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.JSONEq(t, unauthorizedBody, rec.Body.String())
	})
}

func TestRequireAuthRejectsDeletedAccount(t *testing.T) {
	tokens, store, user := newGateFixture(t)
	gate := NewAuthMiddleware(tokens, store.Users()).RequireAuth(principalEcho(t))

	token, err := tokens.Issue(user.Principal())
	require.NoError(t, err)
	require.NoError(t, store.Users().Delete(context.Background(), user.ID))

	req := httptest.NewRequest(http.MethodGet, "/api/session", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	gate.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	_, ok := BearerToken(req)
	require.False(t, ok)

	req.Header.Set("Authorization", "Bearer abc.def.ghi")
	token, ok := BearerToken(req)
	require.True(t, ok)
	require.Equal(t, "abc.def.ghi", token)
}
