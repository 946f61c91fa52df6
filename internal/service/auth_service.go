package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"go-studio-booking/internal/metrics"
	"go-studio-booking/internal/model"
	"go-studio-booking/pkg/apierror"
)

const (
	defaultPasswordCost = 12
	tokenType           = "Bearer"
)

type AuthService struct {
	users        UserStore
	tokens       *TokenService
	metrics      *metrics.Metrics
	passwordCost int
}

type AuthOption func(*AuthService)

func WithPasswordCost(cost int) AuthOption {
	return func(s *AuthService) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.passwordCost = cost
		}
	}
}

func WithAuthMetrics(m *metrics.Metrics) AuthOption {
	return func(s *AuthService) {
		s.metrics = m
	}
}

func NewAuthService(users UserStore, tokens *TokenService, opts ...AuthOption) *AuthService {
	s := &AuthService{
		users:        users,
		tokens:       tokens,
		passwordCost: defaultPasswordCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login checks the credentials and issues a bearer token. Unknown emails and
// wrong passwords produce the same error.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.JWTResponse, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return model.JWTResponse{}, errBadRequest("email and password are required", "")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.JWTResponse{}, errInvalidCredentials()
	}
	if err != nil {
		return model.JWTResponse{}, fmt.Errorf("find user by email: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return model.JWTResponse{}, errInvalidCredentials()
	}

	token, err := s.tokens.Issue(user.Principal())
	if err != nil {
		return model.JWTResponse{}, err
	}
	s.metrics.ObserveTokenIssued()

	return model.JWTResponse{
		Token:     token,
		Type:      tokenType,
		ID:        user.ID,
		Username:  user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Admin:     user.Admin,
	}, nil
}

func (s *AuthService) Register(ctx context.Context, req model.SignupRequest) (model.MessageResponse, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)

	if err := validateSignup(req); err != nil {
		return model.MessageResponse{}, err
	}

	exists, err := s.users.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return model.MessageResponse{}, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return model.MessageResponse{}, errEmailTaken()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.passwordCost)
	if err != nil {
		return model.MessageResponse{}, fmt.Errorf("hash password: %w", err)
	}

	_, err = s.users.Create(ctx, model.User{
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hash),
	})
	if errors.Is(err, model.ErrEmailTaken) {
		return model.MessageResponse{}, errEmailTaken()
	}
	if err != nil {
		return model.MessageResponse{}, fmt.Errorf("create user: %w", err)
	}

	return model.MessageResponse{Message: "User registered successfully!"}, nil
}

// EnsureAdmin creates an administrator account unless the email is already
// registered.
func (s *AuthService) EnsureAdmin(ctx context.Context, email string, password string) error {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("check admin email: %w", err)
	}
	if exists {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.passwordCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	created, err := s.users.Create(ctx, model.User{
		Email:        email,
		FirstName:    "Admin",
		LastName:     "Admin",
		PasswordHash: string(hash),
		Admin:        true,
	})
	if errors.Is(err, model.ErrEmailTaken) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}

	slog.Info("admin account created", "user_id", created.ID, "email", created.Email)
	return nil
}

func validateSignup(req model.SignupRequest) error {
	switch {
	case !validEmail(req.Email):
		return errBadRequest("email must be a valid address of at most 50 characters", "email")
	case !lengthBetween(req.FirstName, minNameLength, maxNameLength):
		return errBadRequest("firstName must be between 3 and 20 characters", "firstName")
	case !lengthBetween(req.LastName, minNameLength, maxNameLength):
		return errBadRequest("lastName must be between 3 and 20 characters", "lastName")
	case !lengthBetween(req.Password, minPasswordLength, maxPasswordLength):
		return errBadRequest("password must be between 6 and 40 characters", "password")
	}
	return nil
}

func errInvalidCredentials() error {
	return apierror.Wrap(model.ErrInvalidCredentials, "UNAUTHORIZED", "Bad credentials", "", http.StatusUnauthorized)
}

func errEmailTaken() error {
	return apierror.Wrap(model.ErrEmailTaken, "CONFLICT", "Error: Email is already taken!", "", http.StatusConflict)
}
