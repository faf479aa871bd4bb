package model

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Account is an operator record. Only active admins may sign in.
type Account struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// AdminClaims is the verified content of a session token. Values of this
// type are only built by auth.Tokens.Verify.
type AdminClaims struct {
	Subject   string    `json:"sub"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

type AdminUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (c AdminClaims) User() AdminUser {
	return AdminUser{ID: c.Subject, Email: c.Email, Role: c.Role}
}
