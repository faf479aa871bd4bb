package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"boty-storefront/internal/model"
)

func newTestTokens(t *testing.T, now func() time.Time) *Tokens {
	t.Helper()

	tokens, err := NewTokens(TokenConfig{Secret: []byte("test-secret"), Now: now})
	require.NoError(t, err)
	return tokens
}

func TestNewTokensRequiresSecret(t *testing.T) {
	t.Parallel()

	_, err := NewTokens(TokenConfig{})
	require.ErrorIs(t, err, ErrMissingSecret)

	_, err = NewTokens(TokenConfig{Secret: []byte("   ")})
	require.ErrorIs(t, err, ErrMissingSecret)
}

func TestIssueVerifyRoundTrip(t *testing.T) {
	t.Parallel()

	tokens := newTestTokens(t, nil)

	token, err := tokens.Issue("acc-1", " Admin@X.com ", model.RoleAdmin)
	require.NoError(t, err)

	claims, ok := tokens.Verify(token)
	require.True(t, ok)
	require.Equal(t, "acc-1", claims.Subject)
	require.Equal(t, "admin@x.com", claims.Email)
	require.Equal(t, model.RoleAdmin, claims.Role)
	require.WithinDuration(t, claims.IssuedAt.Add(DefaultTokenTTL), claims.ExpiresAt, time.Second)
}

func TestIssueRejectsNonAdminAndEmptyIdentity(t *testing.T) {
	t.Parallel()

	tokens := newTestTokens(t, nil)

	_, err := tokens.Issue("acc-1", "user@x.com", model.RoleUser)
	require.ErrorIs(t, err, ErrNotAdmin)

	_, err = tokens.Issue("", "admin@x.com", model.RoleAdmin)
	require.ErrorIs(t, err, ErrEmptyIdentity)

	_, err = tokens.Issue("acc-1", "  ", model.RoleAdmin)
	require.ErrorIs(t, err, ErrEmptyIdentity)
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	t.Parallel()

	tokens := newTestTokens(t, nil)
	token, err := tokens.Issue("acc-1", "admin@x.com", model.RoleAdmin)
	require.NoError(t, err)

	for i := 0; i < len(token); i++ {
		if token[i] == '.' {
			continue
		}
		flipped := []byte(token)
		if flipped[i] == 'A' {
			flipped[i] = 'B'
		} else {
			flipped[i] = 'A'
		}

		require.NotPanics(t, func() {
			_, ok := tokens.Verify(string(flipped))
			require.False(t, ok, "byte %d flipped", i)
		})
	}
}

func TestVerifyRejectsWrongRoleWithValidSignature(t *testing.T) {
	t.Parallel()

	tokens := newTestTokens(t, nil)
	now := time.Now()

	for _, role := range []string{"user", "Admin", "admin ", ""} {
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub":   "acc-1",
			"email": "admin@x.com",
			"role":  role,
			"iat":   now.Unix(),
			"exp":   now.Add(time.Hour).Unix(),
		}).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, ok := tokens.Verify(signed)
		require.False(t, ok, "role %q", role)
	}
}

func TestVerifyRejectsMissingIdentityFields(t *testing.T) {
	t.Parallel()

	tokens := newTestTokens(t, nil)
	now := time.Now()

	cases := []jwt.MapClaims{
		{"email": "admin@x.com", "role": "admin", "exp": now.Add(time.Hour).Unix()},
		{"sub": "acc-1", "role": "admin", "exp": now.Add(time.Hour).Unix()},
		{"sub": "acc-1", "email": "admin@x.com", "role": "admin"},
	}
	for _, claims := range cases {
		signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, ok := tokens.Verify(signed)
		require.False(t, ok)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	past := func() time.Time { return time.Now().Add(-8 * 24 * time.Hour) }
	issuer := newTestTokens(t, past)
	token, err := issuer.Issue("acc-1", "admin@x.com", model.RoleAdmin)
	require.NoError(t, err)

	_, ok := newTestTokens(t, nil).Verify(token)
	require.False(t, ok)
}

func TestVerifyRejectsOtherAlgorithmsAndSecrets(t *testing.T) {
	t.Parallel()

	tokens := newTestTokens(t, nil)
	claims := jwt.MapClaims{
		"sub":   "acc-1",
		"email": "admin@x.com",
		"role":  "admin",
		"exp":   time.Now().Add(time.Hour).Unix(),
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	_, ok := tokens.Verify(hs512)
	require.False(t, ok)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, ok = tokens.Verify(unsigned)
	require.False(t, ok)

	otherSecret, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("other-secret"))
	require.NoError(t, err)
	_, ok = tokens.Verify(otherSecret)
	require.False(t, ok)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	t.Parallel()

	tokens := newTestTokens(t, nil)
	for _, raw := range []string{"", "   ", "abc", "a.b.c", strings.Repeat(".", 10)} {
		_, ok := tokens.Verify(raw)
		require.False(t, ok)
	}

	var nilTokens *Tokens
	_, ok := nilTokens.Verify("a.b.c")
	require.False(t, ok)
}
