package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"go-studio-booking/internal/model"
	"go-studio-booking/pkg/apierror"
)

type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// FindByEmail resolves the account behind a token subject.
func (s *UserService) FindByEmail(ctx context.Context, email string) (model.User, error) {
	return s.users.FindByEmail(ctx, email)
}

func (s *UserService) FindByID(ctx context.Context, id int64) (model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.User{}, errUserNotFound(id)
	}
	if err != nil {
		return model.User{}, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

// Delete removes the account id. Callers may only delete themselves.
func (s *UserService) Delete(ctx context.Context, id int64, principal model.Principal) error {
	user, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if !strings.EqualFold(user.Email, principal.Subject) {
		return apierror.Wrap(model.ErrUnauthorized, "UNAUTHORIZED", "you can only delete your own account", "", http.StatusUnauthorized)
	}

	err = s.users.Delete(ctx, id)
	if errors.Is(err, model.ErrUserNotFound) {
		return errUserNotFound(id)
	}
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	slog.Info("user deleted", "user_id", id)
	return nil
}
