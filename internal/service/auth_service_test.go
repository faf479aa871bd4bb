package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"boty-storefront/internal/auth"
	"boty-storefront/internal/model"
)

func newTestTokens(t *testing.T) *auth.Tokens {
	t.Helper()
	tokens, err := auth.NewTokens(auth.TokenConfig{Secret: []byte("test-secret-value")})
	require.NoError(t, err)
	return tokens
}

func adminAccount(t *testing.T, password string) model.Account {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return model.Account{
		ID:           "6f1c9a52-0d7e-4a55-9b0e-3a2f1c0d9e11",
		Email:        "admin@x.com",
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		Active:       true,
		CreatedAt:    time.Now(),
	}
}

func TestValidateLogin(t *testing.T) {
	t.Parallel()

	assert.NoError(t, ValidateLogin(model.LoginRequest{Email: "admin@x.com", Password: "12345678"}))
	assert.ErrorIs(t, ValidateLogin(model.LoginRequest{Email: "not-an-email", Password: "12345678"}), model.ErrInvalidInput)
	assert.ErrorIs(t, ValidateLogin(model.LoginRequest{Email: "Admin <admin@x.com>", Password: "12345678"}), model.ErrInvalidInput)
	assert.ErrorIs(t, ValidateLogin(model.LoginRequest{Email: "admin@x.com", Password: "short"}), model.ErrInvalidInput)
	assert.ErrorIs(t, ValidateLogin(model.LoginRequest{}), model.ErrInvalidInput)
}

func TestAuthService_Login(t *testing.T) {
	t.Parallel()

	t.Run("success issues an admin token", func(t *testing.T) {
		accounts := new(mockAccounts)
		tokens := newTestTokens(t)
		account := adminAccount(t, "correct8chars")
		accounts.On("FindActiveAdminByEmail", mock.Anything, "admin@x.com").Return(account, nil)

		svc := NewAuthService(accounts, tokens)
		res, err := svc.Login(context.Background(), model.LoginRequest{Email: "  Admin@X.com ", Password: "correct8chars"})
		require.NoError(t, err)
		assert.Equal(t, model.AdminUser{ID: account.ID, Email: "admin@x.com", Role: model.RoleAdmin}, res.User)

		claims, ok := tokens.Verify(res.Token)
		require.True(t, ok)
		assert.Equal(t, account.ID, claims.Subject)
		assert.Equal(t, "admin@x.com", claims.Email)
		accounts.AssertExpectations(t)
	})

	t.Run("unknown email and wrong password are indistinguishable", func(t *testing.T) {
		accounts := new(mockAccounts)
		accounts.On("FindActiveAdminByEmail", mock.Anything, "nobody@x.com").Return(model.Account{}, model.ErrAccountNotFound)
		accounts.On("FindActiveAdminByEmail", mock.Anything, "admin@x.com").Return(adminAccount(t, "correct8chars"), nil)

		svc := NewAuthService(accounts, newTestTokens(t))

		_, unknownErr := svc.Login(context.Background(), model.LoginRequest{Email: "nobody@x.com", Password: "whatever1"})
		_, wrongErr := svc.Login(context.Background(), model.LoginRequest{Email: "admin@x.com", Password: "wrongpass"})

		require.Equal(t, model.ErrInvalidCredentials, unknownErr)
		require.Equal(t, model.ErrInvalidCredentials, wrongErr)
	})

	t.Run("invalid payload never reaches the store", func(t *testing.T) {
		accounts := new(mockAccounts)
		svc := NewAuthService(accounts, newTestTokens(t))

		_, err := svc.Login(context.Background(), model.LoginRequest{Email: "admin@x.com", Password: "short"})
		require.ErrorIs(t, err, model.ErrInvalidInput)
		accounts.AssertNotCalled(t, "FindActiveAdminByEmail", mock.Anything, mock.Anything)
	})

	t.Run("store failure is internal", func(t *testing.T) {
		accounts := new(mockAccounts)
		storeErr := errors.New("connection refused")
		accounts.On("FindActiveAdminByEmail", mock.Anything, "admin@x.com").Return(model.Account{}, storeErr)

		svc := NewAuthService(accounts, newTestTokens(t))
		_, err := svc.Login(context.Background(), model.LoginRequest{Email: "admin@x.com", Password: "correct8chars"})
		require.ErrorIs(t, err, storeErr)
		require.NotErrorIs(t, err, model.ErrInvalidCredentials)
	})

	t.Run("argon2id hashes are accepted", func(t *testing.T) {
		accounts := new(mockAccounts)
		account := adminAccount(t, "unused")
		hash, err := argon2id.CreateHash("correct8chars", &argon2id.Params{Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
		require.NoError(t, err)
		account.PasswordHash = hash
		accounts.On("FindActiveAdminByEmail", mock.Anything, "admin@x.com").Return(account, nil)

		svc := NewAuthService(accounts, newTestTokens(t))
		_, err = svc.Login(context.Background(), model.LoginRequest{Email: "admin@x.com", Password: "correct8chars"})
		require.NoError(t, err)
	})
}
