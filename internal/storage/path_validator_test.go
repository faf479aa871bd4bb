package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPathValidatorResolvePath(t *testing.T) {
	t.Parallel()

	validator, err := NewPathValidator(t.TempDir())
	require.NoError(t, err)

	t.Run("root path resolves to root", func(t *testing.T) {
		resolved, resolveErr := validator.ResolvePath("/")
		require.NoError(t, resolveErr)
		require.Equal(t, validator.RootAbs(), resolved)
	})

	t.Run("image path resolves inside root", func(t *testing.T) {
		resolved, resolveErr := validator.ResolvePath("products/abc.webp")
		require.NoError(t, resolveErr)
		require.Equal(t, filepath.Join(validator.RootAbs(), "products", "abc.webp"), resolved)
	})

	t.Run("traversal is rejected", func(t *testing.T) {
		_, resolveErr := validator.ResolvePath("products/../../etc/passwd")
		require.ErrorIs(t, resolveErr, ErrPathTraversal)
	})

	t.Run("backslash traversal is rejected", func(t *testing.T) {
		_, resolveErr := validator.ResolvePath(`products\..\..\secret`)
		require.ErrorIs(t, resolveErr, ErrPathTraversal)
	})

	t.Run("control characters are rejected", func(t *testing.T) {
		_, resolveErr := validator.ResolvePath("products\nimage.png")
		require.ErrorIs(t, resolveErr, ErrInvalidPath)
	})

	t.Run("null bytes are rejected", func(t *testing.T) {
		_, resolveErr := validator.ResolvePath("products\x00/image.png")
		require.ErrorIs(t, resolveErr, ErrInvalidPath)
	})

	t.Run("sibling prefix is not within root", func(t *testing.T) {
		require.False(t, isWithinRoot("/srv/uploads", "/srv/uploads-old/x.png"))
	})
}
