package service

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-studio-booking/internal/model"
)

const testSecret = "test-secret-with-enough-entropy-for-hs512"

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func newTestTokenService(t *testing.T, clock *fakeClock) *TokenService {
	t.Helper()

	tokens, err := NewTokenService(testSecret, time.Hour, WithClock(clock.Now))
	require.NoError(t, err)
	return tokens
}

func TestNewTokenService(t *testing.T) {
	t.Parallel()

	_, err := NewTokenService("  ", time.Hour)
	require.Error(t, err)

	_, err = NewTokenService(testSecret, 0)
	require.Error(t, err)
}

func TestTokenServiceIssueAndValidate(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)}
	tokens := newTestTokenService(t, clock)

	token, err := tokens.Issue(model.Principal{ID: 7, Subject: "yoga@studio.test"})
	require.NoError(t, err)

	require.True(t, tokens.Validate(token))

	subject, err := tokens.Subject(token)
	require.NoError(t, err)
	require.Equal(t, "yoga@studio.test", subject)

	claims, fault := tokens.Inspect(token)
	require.Equal(t, FaultNone, fault)
	require.True(t, clock.now.Equal(claims.IssuedAt))
	require.Equal(t, time.Hour, claims.ExpiresAt.Sub(claims.IssuedAt))
}

func TestTokenServicePayloadCarriesOnlyStandardClaims(t *testing.T) {
	t.Parallel()

	tokens := newTestTokenService(t, &fakeClock{now: time.Now()})
	token, err := tokens.Issue(model.Principal{ID: 1, Subject: "a@b.io", FirstName: "Ann", Admin: true})
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	header, err := base64.RawURLEncoding.DecodeString(parts[0])
	require.NoError(t, err)
	require.Contains(t, string(header), `"alg":"HS512"`)

	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(raw, &payload))

	keys := make([]string, 0, len(payload))
	for k := range payload {
		keys = append(keys, k)
	}
	assert.ElementsMatch(t, []string{"sub", "iat", "exp"}, keys)
}

func TestTokenServiceRejectsEmptySubject(t *testing.T) {
	t.Parallel()

	tokens := newTestTokenService(t, &fakeClock{now: time.Now()})
	_, err := tokens.Issue(model.Principal{ID: 1})
	require.Error(t, err)
}

func TestTokenServiceExpiry(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	tokens := newTestTokenService(t, clock)

	token, err := tokens.Issue(model.Principal{Subject: "late@studio.test"})
	require.NoError(t, err)

	clock.now = clock.now.Add(59 * time.Minute)
	require.True(t, tokens.Validate(token))

	clock.now = clock.now.Add(2 * time.Minute)
	require.False(t, tokens.Validate(token))

	_, fault := tokens.Inspect(token)
	require.Equal(t, FaultExpired, fault)

	_, err = tokens.Subject(token)
	require.ErrorIs(t, err, model.ErrInvalidToken)
}

func TestTokenServiceRejectsForeignSecret(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Now()}
	tokens := newTestTokenService(t, clock)

	other, err := NewTokenService("a-completely-different-secret", time.Hour, WithClock(clock.Now))
	require.NoError(t, err)

	token, err := other.Issue(model.Principal{Subject: "x@studio.test"})
	require.NoError(t, err)

	require.False(t, tokens.Validate(token))
	_, fault := tokens.Inspect(token)
	require.Equal(t, FaultSignature, fault)
}

func TestTokenServiceRejectsTampering(t *testing.T) {
	t.Parallel()

	tokens := newTestTokenService(t, &fakeClock{now: time.Now()})
	token, err := tokens.Issue(model.Principal{Subject: "member@studio.test"})
	require.NoError(t, err)

	parts := strings.Split(token, ".")

	t.Run("signature", func(t *testing.T) {
		sig := []byte(parts[2])
		for i := range sig {
			mutated := append([]byte(nil), sig...)
			if mutated[i] == 'A' {
				mutated[i] = 'B'
			} else {
				mutated[i] = 'A'
			}
			forged := parts[0] + "." + parts[1] + "." + string(mutated)
			require.False(t, tokens.Validate(forged), "position %d", i)
		}
	})

	t.Run("signature padding bits", func(t *testing.T) {
		const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_"
		last := len(parts[2]) - 1
		for _, c := range []byte(alphabet) {
			if c == parts[2][last] {
				continue
			}
			forged := parts[0] + "." + parts[1] + "." + parts[2][:last] + string(c)
			require.False(t, tokens.Validate(forged), "final character %q", c)
		}
	})

	t.Run("payload", func(t *testing.T) {
		payload := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"admin@studio.test","iat":1,"exp":9999999999}`))
		forged := parts[0] + "." + payload + "." + parts[2]

		require.False(t, tokens.Validate(forged))
		_, fault := tokens.Inspect(forged)
		require.Equal(t, FaultSignature, fault)
	})
}

func TestTokenServiceRejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	now := time.Now()
	tokens := newTestTokenService(t, &fakeClock{now: now})
	claims := jwt.RegisteredClaims{
		Subject:   "alg@studio.test",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}

	hs256, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{"HS256": hs256, "none": none} {
		_, fault := tokens.Inspect(token)
		require.Equal(t, FaultUnsupported, fault, name)
		require.False(t, tokens.Validate(token), name)
	}
}

func TestTokenServiceRequiresExpiration(t *testing.T) {
	t.Parallel()

	now := time.Now()
	tokens := newTestTokenService(t, &fakeClock{now: now})

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:  "forever@studio.test",
		IssuedAt: jwt.NewNumericDate(now),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, fault := tokens.Inspect(token)
	require.Equal(t, FaultClaims, fault)
}

func TestTokenServiceMalformedInput(t *testing.T) {
	t.Parallel()

	tokens := newTestTokenService(t, &fakeClock{now: time.Now()})

	cases := map[string]TokenFault{
		"":               FaultEmpty,
		"   ":            FaultEmpty,
		"not-a-token":    FaultMalformed,
		"a.b.c":          FaultMalformed,
		"a.b":            FaultMalformed,
		"Bearer x.y.z":   FaultMalformed,
		"...":            FaultMalformed,
		"e30.e30.e30.e3": FaultMalformed,
	}

	for input, want := range cases {
		require.NotPanics(t, func() {
			require.False(t, tokens.Validate(input))
		})
		_, fault := tokens.Inspect(input)
		require.Equal(t, want, fault, "input %q", input)

		_, err := tokens.Subject(input)
		require.ErrorIs(t, err, model.ErrInvalidToken)
	}
}

func TestTokenFaultString(t *testing.T) {
	t.Parallel()

	require.Equal(t, "expired", FaultExpired.String())
	require.Equal(t, "unsupported", FaultUnsupported.String())
	require.Equal(t, "fault(42)", TokenFault(42).String())
}
