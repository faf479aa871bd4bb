package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"unicode/utf8"

	"boty-storefront/internal/auth"
	"boty-storefront/internal/metrics"
	"boty-storefront/internal/model"
)

const minPasswordLength = 8

type AccountFinder interface {
	FindActiveAdminByEmail(ctx context.Context, email string) (model.Account, error)
}

type TokenIssuer interface {
	Issue(subject string, email string, role string) (string, error)
}

type LoginResult struct {
	User  model.AdminUser
	Token string
}

type AuthService struct {
	accounts AccountFinder
	tokens   TokenIssuer
}

func NewAuthService(accounts AccountFinder, tokens TokenIssuer) *AuthService {
	return &AuthService{accounts: accounts, tokens: tokens}
}

// ValidateLogin checks the shape of a login payload: a syntactically valid
// email and a password of at least eight characters.
func ValidateLogin(req model.LoginRequest) error {
	email := strings.TrimSpace(req.Email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		return fmt.Errorf("%w: email", model.ErrInvalidInput)
	}
	if utf8.RuneCountInString(req.Password) < minPasswordLength {
		return fmt.Errorf("%w: password", model.ErrInvalidInput)
	}
	return nil
}

// Login verifies credentials against the active admin with that email and
// issues a session token. Unknown email and wrong password both return
// model.ErrInvalidCredentials after the same hashing work.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (LoginResult, error) {
	if err := ValidateLogin(req); err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_input").Inc()
		return LoginResult{}, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	account, err := s.accounts.FindActiveAdminByEmail(ctx, email)
	if errors.Is(err, model.ErrAccountNotFound) {
		auth.BurnCompare(req.Password)
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		slog.Info("admin login rejected", "email", email)
		return LoginResult{}, model.ErrInvalidCredentials
	}
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return LoginResult{}, fmt.Errorf("lookup admin: %w", err)
	}

	if !auth.ComparePassword(req.Password, account.PasswordHash) {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		slog.Info("admin login rejected", "email", email)
		return LoginResult{}, model.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(account.ID, account.Email, model.RoleAdmin)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return LoginResult{}, fmt.Errorf("issue token: %w", err)
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	slog.Info("admin logged in", "email", account.Email, "admin_id", account.ID)

	return LoginResult{
		User:  model.AdminUser{ID: account.ID, Email: strings.ToLower(account.Email), Role: model.RoleAdmin},
		Token: token,
	}, nil
}
