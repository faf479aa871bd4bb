package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"boty-storefront/internal/model"
)

// PoolProvider yields the shared pool, connecting lazily on first use.
type PoolProvider interface {
	Pool(ctx context.Context) (*pgxpool.Pool, error)
}

const productSlugConstraint = "products_slug_key"

// mapDBError translates driver errors into model sentinels. notFound is
// returned for pgx.ErrNoRows. Unrecognised errors pass through unchanged.
func mapDBError(err error, notFound error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation:
		if pgErr.ConstraintName == productSlugConstraint {
			return fmt.Errorf("%w: %s", model.ErrSlugTaken, pgErr.ConstraintName)
		}
		return fmt.Errorf("%w: %s", model.ErrConflict, pgErr.ConstraintName)
	case pgerrcode.CheckViolation, pgerrcode.NotNullViolation,
		pgerrcode.InvalidTextRepresentation, pgerrcode.StringDataRightTruncationDataException,
		pgerrcode.NumericValueOutOfRange:
		return fmt.Errorf("%w: %s", model.ErrInvalidInput, pgErr.Message)
	}

	return err
}
