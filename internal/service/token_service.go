package service

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"go-studio-booking/internal/metrics"
	"go-studio-booking/internal/model"
)

// TokenFault says why a bearer token was rejected. It is only used for
// logging and metrics; callers see a plain boolean or model.ErrInvalidToken.
type TokenFault int

const (
	FaultNone TokenFault = iota
	FaultEmpty
	FaultMalformed
	FaultSignature
	FaultExpired
	FaultUnsupported
	FaultClaims
)

func (f TokenFault) String() string {
	switch f {
	case FaultNone:
		return "none"
	case FaultEmpty:
		return "empty"
	case FaultMalformed:
		return "malformed"
	case FaultSignature:
		return "signature"
	case FaultExpired:
		return "expired"
	case FaultUnsupported:
		return "unsupported"
	case FaultClaims:
		return "claims"
	default:
		return fmt.Sprintf("fault(%d)", int(f))
	}
}

var (
	signingMethod = jwt.SigningMethodHS512

	errUnsupportedAlgorithm = errors.New("unsupported signing algorithm")
)

type TokenClaims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService issues and verifies stateless HS512 bearer tokens carrying
// exactly sub, iat and exp.
type TokenService struct {
	secret  []byte
	ttl     time.Duration
	now     func() time.Time
	metrics *metrics.Metrics
}

type TokenOption func(*TokenService)

// WithClock overrides the time source used for iat, exp and expiry checks.
func WithClock(fn func() time.Time) TokenOption {
	return func(s *TokenService) {
		if fn != nil {
			s.now = fn
		}
	}
}

func WithTokenMetrics(m *metrics.Metrics) TokenOption {
	return func(s *TokenService) {
		s.metrics = m
	}
}

func NewTokenService(secret string, ttl time.Duration, opts ...TokenOption) (*TokenService, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("token secret is required")
	}
	if ttl <= 0 {
		return nil, errors.New("token validity window must be positive")
	}

	s := &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

func (s *TokenService) Issue(principal model.Principal) (string, error) {
	subject := strings.TrimSpace(principal.Subject)
	if subject == "" {
		return "", errors.New("token subject is required")
	}

	now := s.now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
	}

	signed, err := jwt.NewWithClaims(signingMethod, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Validate reports whether the token is well formed, signed with the server
// secret and not yet expired. It never panics and never touches storage.
func (s *TokenService) Validate(token string) bool {
	_, fault := s.Inspect(token)
	if fault != FaultNone {
		s.reject(fault)
		return false
	}
	return true
}

// Subject returns the sub claim. Invalid tokens yield model.ErrInvalidToken.
func (s *TokenService) Subject(token string) (string, error) {
	claims, fault := s.Inspect(token)
	if fault != FaultNone {
		return "", model.ErrInvalidToken
	}
	return claims.Subject, nil
}

// Inspect parses and verifies the token and classifies any failure.
func (s *TokenService) Inspect(token string) (TokenClaims, TokenFault) {
	if strings.TrimSpace(token) == "" {
		return TokenClaims{}, FaultEmpty
	}

	registered := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, registered, s.keyFunc,
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
		jwt.WithStrictDecoding(),
	)
	if err != nil {
		return TokenClaims{}, classify(err)
	}

	if strings.TrimSpace(registered.Subject) == "" || registered.IssuedAt == nil {
		return TokenClaims{}, FaultClaims
	}

	return TokenClaims{
		Subject:   registered.Subject,
		IssuedAt:  registered.IssuedAt.Time,
		ExpiresAt: registered.ExpiresAt.Time,
	}, FaultNone
}

func (s *TokenService) keyFunc(token *jwt.Token) (any, error) {
	if token.Method == nil || token.Method.Alg() != signingMethod.Alg() {
		return nil, errUnsupportedAlgorithm
	}
	return s.secret, nil
}

func classify(err error) TokenFault {
	switch {
	case errors.Is(err, errUnsupportedAlgorithm), errors.Is(err, jwt.ErrTokenUnverifiable):
		return FaultUnsupported
	case errors.Is(err, jwt.ErrTokenMalformed):
		return FaultMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return FaultSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return FaultExpired
	default:
		return FaultClaims
	}
}

func (s *TokenService) reject(fault TokenFault) {
	s.metrics.ObserveTokenRejection(fault.String())

	switch fault {
	case FaultSignature, FaultUnsupported:
		slog.Warn("bearer token rejected", "fault", fault.String())
	default:
		slog.Debug("bearer token rejected", "fault", fault.String())
	}
}
