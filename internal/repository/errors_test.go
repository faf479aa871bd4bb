package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"boty-storefront/internal/model"
)

func TestMapDBError(t *testing.T) {
	t.Parallel()

	plain := errors.New("connection reset")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "nil", err: nil, want: nil},
		{name: "no rows", err: fmt.Errorf("query: %w", pgx.ErrNoRows), want: model.ErrProductNotFound},
		{name: "slug unique", err: &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "products_slug_key"}, want: model.ErrSlugTaken},
		{name: "other unique", err: &pgconn.PgError{Code: pgerrcode.UniqueViolation, ConstraintName: "accounts_email_key"}, want: model.ErrConflict},
		{name: "check", err: &pgconn.PgError{Code: pgerrcode.CheckViolation}, want: model.ErrInvalidInput},
		{name: "not null", err: &pgconn.PgError{Code: pgerrcode.NotNullViolation}, want: model.ErrInvalidInput},
		{name: "passthrough", err: plain, want: plain},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := mapDBError(tc.err, model.ErrProductNotFound)
			if tc.want == nil {
				require.NoError(t, got)
				return
			}
			require.ErrorIs(t, got, tc.want)
		})
	}
}

func TestEscapeLike(t *testing.T) {
	t.Parallel()

	require.Equal(t, `50\%`, escapeLike("50%"))
	require.Equal(t, `a\_b`, escapeLike("a_b"))
	require.Equal(t, `c\\d`, escapeLike(`c\d`))
	require.Equal(t, "serum", escapeLike("serum"))
}

func TestBuildProductUpdate(t *testing.T) {
	t.Parallel()

	sets, args := buildProductUpdate(model.UpdateProductRequest{
		Name:          model.Some("Serum C"),
		OriginalPrice: model.Null[float64](),
		Sizes:         model.Some([]string{"30ml"}),
	}, "admin@x.com")

	require.Equal(t, []string{
		"name = $2",
		"original_price = $3",
		"sizes = $4",
		"updated_by = $5",
		"updated_at = now()",
	}, sets)
	require.Len(t, args, 4)
	require.Equal(t, "Serum C", args[0])
	require.Nil(t, args[1])
	require.Equal(t, []string{"30ml"}, args[2])
	require.Equal(t, "admin@x.com", args[3])
}
