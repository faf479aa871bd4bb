package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ProductImageDir is the sub-directory (and URL segment) holding product
// images.
const ProductImageDir = "products"

// ImageStore persists an uploaded image under name and returns the URL the
// storefront should reference.
type ImageStore interface {
	Save(ctx context.Context, name string, contentType string, data []byte) (string, error)
}

// DiskStore writes images below a local root that is served at urlPrefix.
type DiskStore struct {
	validator *PathValidator
	urlPrefix string
}

func NewDiskStore(root string, urlPrefix string) (*DiskStore, error) {
	validator, err := NewPathValidator(root)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Join(validator.RootAbs(), ProductImageDir), 0o755); err != nil {
		return nil, fmt.Errorf("create uploads root: %w", err)
	}

	return &DiskStore{validator: validator, urlPrefix: "/" + strings.Trim(urlPrefix, "/")}, nil
}

func (s *DiskStore) RootAbs() string {
	return s.validator.RootAbs()
}

func (s *DiskStore) Save(ctx context.Context, name string, _ string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if name == "" || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, name)
	}

	rel := path.Join(ProductImageDir, name)
	resolved, err := s.validator.ResolvePath(rel)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(filepath.Dir(resolved), ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("write image: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("close image: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("chmod image: %w", err)
	}
	if err := os.Rename(tmpName, resolved); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("store image: %w", err)
	}

	return s.urlPrefix + "/" + rel, nil
}
