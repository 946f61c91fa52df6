package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"go-studio-booking/internal/model"
	"go-studio-booking/internal/repository/memory"
)

func TestUserServiceDeleteOnlySelf(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.New()
	users := NewUserService(store.Users())

	alice, err := store.Users().Create(ctx, model.User{Email: "alice@studio.test", FirstName: "Alice", LastName: "Liddell"})
	require.NoError(t, err)
	bob, err := store.Users().Create(ctx, model.User{Email: "bob@studio.test", FirstName: "Bob", LastName: "Bobson"})
	require.NoError(t, err)

	err = users.Delete(ctx, bob.ID, alice.Principal())
	requireAPIError(t, err, http.StatusUnauthorized, "UNAUTHORIZED")

	_, err = users.FindByID(ctx, bob.ID)
	require.NoError(t, err)

	require.NoError(t, users.Delete(ctx, alice.ID, alice.Principal()))

	_, err = users.FindByID(ctx, alice.ID)
	requireAPIError(t, err, http.StatusNotFound, "NOT_FOUND")

	err = users.Delete(ctx, 999, alice.Principal())
	requireAPIError(t, err, http.StatusNotFound, "NOT_FOUND")
}

func TestTeacherService(t *testing.T) {
	t.Parallel()

	store := memory.New()
	store.Seed()
	teachers := NewTeacherService(store.Teachers())

	all, err := teachers.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)

	first, err := teachers.FindByID(context.Background(), all[0].ID)
	require.NoError(t, err)
	require.Equal(t, "Margot", first.FirstName)

	_, err = teachers.FindByID(context.Background(), 999)
	requireAPIError(t, err, http.StatusNotFound, "NOT_FOUND")
}
