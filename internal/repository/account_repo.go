package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"boty-storefront/internal/model"
)

type AccountRepository struct {
	db PoolProvider
}

func NewAccountRepository(db PoolProvider) *AccountRepository {
	return &AccountRepository{db: db}
}

// FindActiveAdminByEmail matches the email case-insensitively and only
// returns accounts that are both active and admin.
func (r *AccountRepository) FindActiveAdminByEmail(ctx context.Context, email string) (model.Account, error) {
	pool, err := r.db.Pool(ctx)
	if err != nil {
		return model.Account{}, err
	}

	var a model.Account
	err = pool.QueryRow(ctx,
		`SELECT id, name, email, password_hash, role, active, created_at, updated_at
		 FROM accounts
		 WHERE email = lower($1) AND role = 'admin' AND active`,
		strings.TrimSpace(email)).
		Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Role, &a.Active, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Account{}, model.ErrAccountNotFound
	}
	if err != nil {
		return model.Account{}, fmt.Errorf("find admin by email: %w", err)
	}
	return a, nil
}

// UpsertAdmin creates the admin account or, when the email exists, resets
// its password hash and forces role admin and active. An existing
// non-empty name is kept. created reports whether a row was inserted.
func (r *AccountRepository) UpsertAdmin(ctx context.Context, name string, email string, passwordHash string) (account model.Account, created bool, err error) {
	pool, err := r.db.Pool(ctx)
	if err != nil {
		return model.Account{}, false, err
	}

	var a model.Account
	err = pool.QueryRow(ctx,
		`INSERT INTO accounts (name, email, password_hash, role, active)
		 VALUES ($1, lower($2), $3, 'admin', true)
		 ON CONFLICT (email) DO UPDATE SET
		     password_hash = EXCLUDED.password_hash,
		     role = 'admin',
		     active = true,
		     name = CASE WHEN accounts.name = '' THEN EXCLUDED.name ELSE accounts.name END,
		     updated_at = now()
		 RETURNING id, name, email, password_hash, role, active, created_at, updated_at, (xmax = 0)`,
		strings.TrimSpace(name), strings.TrimSpace(email), passwordHash).
		Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Role, &a.Active, &a.CreatedAt, &a.UpdatedAt, &created)
	if err != nil {
		return model.Account{}, false, fmt.Errorf("upsert admin: %w", mapDBError(err, model.ErrAccountNotFound))
	}
	return a, created, nil
}
