package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"boty-storefront/internal/model"
)

// DefaultTokenTTL matches the session cookie Max-Age.
const DefaultTokenTTL = 7 * 24 * time.Hour

var (
	ErrMissingSecret = errors.New("auth: signing secret is required")
	ErrNotAdmin      = errors.New("auth: only admin identities can be issued")
	ErrEmptyIdentity = errors.New("auth: subject and email are required")
)

type TokenConfig struct {
	Secret []byte
	TTL    time.Duration
	// Now overrides the clock for issuing and verifying. Nil means time.Now.
	Now func() time.Time
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Tokens issues and verifies admin session tokens. It holds no mutable
// state and is safe for concurrent use.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

func NewTokens(cfg TokenConfig) (*Tokens, error) {
	if len(cfg.Secret) == 0 || strings.TrimSpace(string(cfg.Secret)) == "" {
		return nil, ErrMissingSecret
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)

	return &Tokens{
		secret: secret,
		ttl:    ttl,
		now:    now,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithIssuedAt(),
			jwt.WithStrictDecoding(),
			jwt.WithTimeFunc(now),
		),
	}, nil
}

func (t *Tokens) TTL() time.Duration {
	return t.ttl
}

// Issue signs an HS256 token for an admin identity, valid for the
// configured TTL starting now.
func (t *Tokens) Issue(subject string, email string, role string) (string, error) {
	subject = strings.TrimSpace(subject)
	email = strings.ToLower(strings.TrimSpace(email))
	if role != model.RoleAdmin {
		return "", ErrNotAdmin
	}
	if subject == "" || email == "" {
		return "", ErrEmptyIdentity
	}

	now := t.now().UTC()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
		Email: email,
		Role:  model.RoleAdmin,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
}

// Verify returns the admin identity carried by token. Every failure
// (signature, algorithm, expiry, payload shape, role) yields false.
func (t *Tokens) Verify(token string) (model.AdminClaims, bool) {
	if t == nil || strings.TrimSpace(token) == "" {
		return model.AdminClaims{}, false
	}

	var claims tokenClaims
	parsed, err := t.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	})
	if err != nil || parsed == nil || !parsed.Valid {
		return model.AdminClaims{}, false
	}

	if claims.Role != model.RoleAdmin {
		return model.AdminClaims{}, false
	}
	if strings.TrimSpace(claims.Subject) == "" || strings.TrimSpace(claims.Email) == "" {
		return model.AdminClaims{}, false
	}

	out := model.AdminClaims{
		Subject: claims.Subject,
		Email:   claims.Email,
		Role:    model.RoleAdmin,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}

	return out, true
}
