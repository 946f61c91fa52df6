package service

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-studio-booking/internal/event"
	"go-studio-booking/internal/model"
	"go-studio-booking/internal/repository/memory"
)

func newTestSessionService(t *testing.T) (*SessionService, *memory.Store, model.Teacher, model.User) {
	t.Helper()

	store := memory.New()
	teacher := store.AddTeacher("Hélène", "THIERCELIN")
	user, err := store.Users().Create(context.Background(), model.User{Email: "s@studio.test", FirstName: "Sam", LastName: "Studio"})
	require.NoError(t, err)

	svc := NewSessionService(store.Sessions(), store.Teachers(), store.Users(), event.NewBus(), 3)
	return svc, store, teacher, user
}

func TestSessionServiceCreateAndUpdate(t *testing.T) {
	t.Parallel()

	svc, _, teacher, user := newTestSessionService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, model.SessionRequest{
		Name:        "  Pilates  ",
		Date:        "2026-05-04T18:30:00",
		TeacherID:   teacher.ID,
		Description: "Core work",
	})
	require.NoError(t, err)
	require.Equal(t, "Pilates", created.Name)
	require.True(t, time.Date(2026, 5, 4, 18, 30, 0, 0, time.UTC).Equal(created.Date))
	require.Empty(t, created.Users)

	updated, err := svc.Update(ctx, created.ID, model.SessionRequest{
		Name:        "Pilates advanced",
		Date:        "2026-05-05",
		TeacherID:   teacher.ID,
		Description: "Core work, harder",
		Users:       []int64{user.ID},
	})
	require.NoError(t, err)
	require.Equal(t, created.ID, updated.ID)
	require.Equal(t, []int64{user.ID}, updated.Users)
	require.Greater(t, updated.Version, created.Version)

	all, err := svc.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.FindByID(ctx, created.ID)
	requireAPIError(t, err, http.StatusNotFound, "NOT_FOUND")
	requireAPIError(t, svc.Delete(ctx, created.ID), http.StatusNotFound, "NOT_FOUND")
}

func TestSessionServiceValidation(t *testing.T) {
	t.Parallel()

	svc, _, teacher, user := newTestSessionService(t)
	ctx := context.Background()

	base := func() model.SessionRequest {
		return model.SessionRequest{Name: "Yin", Date: "2026-05-04T18:30:00Z", TeacherID: teacher.ID, Description: "Slow"}
	}

	cases := map[string]struct {
		mutate func(*model.SessionRequest)
		status int
	}{
		"empty name":       {func(r *model.SessionRequest) { r.Name = " " }, http.StatusBadRequest},
		"long name":        {func(r *model.SessionRequest) { r.Name = strings.Repeat("n", 51) }, http.StatusBadRequest},
		"long description": {func(r *model.SessionRequest) { r.Description = strings.Repeat("d", 2501) }, http.StatusBadRequest},
		"bad date":         {func(r *model.SessionRequest) { r.Date = "04/05/2026" }, http.StatusBadRequest},
		"missing teacher":  {func(r *model.SessionRequest) { r.TeacherID = 0 }, http.StatusBadRequest},
		"duplicate users":  {func(r *model.SessionRequest) { r.Users = []int64{user.ID, user.ID} }, http.StatusBadRequest},
		"unknown teacher":  {func(r *model.SessionRequest) { r.TeacherID = 404 }, http.StatusNotFound},
		"unknown user":     {func(r *model.SessionRequest) { r.Users = []int64{404} }, http.StatusNotFound},
	}

	for name, tc := range cases {
		req := base()
		tc.mutate(&req)

		_, err := svc.Create(ctx, req)
		require.Error(t, err, name)
		apiErr := requireAPIError(t, err, tc.status, map[int]string{400: "BAD_REQUEST", 404: "NOT_FOUND"}[tc.status])
		require.NotEmpty(t, apiErr.Message, name)
	}

	all, err := svc.FindAll(ctx)
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestSessionServiceUpdateMissing(t *testing.T) {
	t.Parallel()

	svc, _, teacher, _ := newTestSessionService(t)

	_, err := svc.Update(context.Background(), 77, model.SessionRequest{
		Name: "Ghost", Date: "2026-01-01", TeacherID: teacher.ID, Description: "none",
	})
	requireAPIError(t, err, http.StatusNotFound, "NOT_FOUND")
	require.ErrorIs(t, err, model.ErrSessionNotFound)
}
