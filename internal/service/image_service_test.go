package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"boty-storefront/internal/model"
	"boty-storefront/internal/storage"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func gifBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewPaletted(image.Rect(0, 0, 2, 2), color.Palette{color.Black, color.White})
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, img, nil))
	return buf.Bytes()
}

func upload(name string, contentType string, data []byte) ImageUpload {
	return ImageUpload{Filename: name, ContentType: contentType, Size: int64(len(data)), Body: bytes.NewReader(data)}
}

func TestImageService_Upload(t *testing.T) {
	t.Parallel()

	t.Run("stores png under a random name", func(t *testing.T) {
		store := new(storage.MockImageStore)
		data := pngBytes(t)
		store.On("Save", mock.Anything, mock.MatchedBy(func(name string) bool {
			return strings.HasSuffix(name, ".png") && len(name) == 36+len(".png")
		}), "image/png", data).Return("/uploads/products/x.png", nil)

		svc := NewImageService(store, 0, nil)
		url, err := svc.Upload(context.Background(), upload("Foto Producto.PNG", "image/png", data), "admin@x.com")
		require.NoError(t, err)
		assert.Equal(t, "/uploads/products/x.png", url)
		store.AssertExpectations(t)
	})

	t.Run("falls back to the type extension", func(t *testing.T) {
		store := new(storage.MockImageStore)
		data := gifBytes(t)
		store.On("Save", mock.Anything, mock.MatchedBy(func(name string) bool {
			return strings.HasSuffix(name, ".gif")
		}), "image/gif", data).Return("/uploads/products/x.gif", nil)

		svc := NewImageService(store, 0, nil)
		_, err := svc.Upload(context.Background(), upload("payload.html", "image/gif", data), "admin@x.com")
		require.NoError(t, err)
		store.AssertExpectations(t)
	})

	t.Run("accepts avif by container brand", func(t *testing.T) {
		store := new(storage.MockImageStore)
		data := append([]byte{0, 0, 0, 0x1c}, []byte("ftypavif0000")...)
		store.On("Save", mock.Anything, mock.Anything, "image/avif", data).Return("/uploads/products/x.avif", nil)

		svc := NewImageService(store, 0, nil)
		_, err := svc.Upload(context.Background(), upload("a.avif", "image/avif", data), "admin@x.com")
		require.NoError(t, err)
	})

	rejections := []struct {
		name string
		in   func(t *testing.T) ImageUpload
		want error
	}{
		{"missing body", func(t *testing.T) ImageUpload { return ImageUpload{ContentType: "image/png", Size: 1} }, model.ErrImageRequired},
		{"svg not allowed", func(t *testing.T) ImageUpload { return upload("a.svg", "image/svg+xml", []byte("<svg/>")) }, model.ErrImageType},
		{"empty file", func(t *testing.T) ImageUpload { return upload("a.png", "image/png", nil) }, model.ErrImageSize},
		{"too large", func(t *testing.T) ImageUpload {
			in := upload("a.png", "image/png", pngBytes(t))
			in.Size = DefaultMaxImageBytes + 1
			return in
		}, model.ErrImageSize},
		{"not an image", func(t *testing.T) ImageUpload { return upload("a.png", "image/png", []byte("hello world")) }, model.ErrImageUndecodable},
		{"type mismatch", func(t *testing.T) ImageUpload { return upload("a.webp", "image/webp", pngBytes(t)) }, model.ErrImageUndecodable},
		{"fake avif", func(t *testing.T) ImageUpload { return upload("a.avif", "image/avif", []byte("not an avif file")) }, model.ErrImageUndecodable},
	}
	for _, tc := range rejections {
		t.Run(tc.name, func(t *testing.T) {
			store := new(storage.MockImageStore)
			svc := NewImageService(store, 0, nil)
			_, err := svc.Upload(context.Background(), tc.in(t), "admin@x.com")
			require.ErrorIs(t, err, tc.want)
			store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		})
	}

	t.Run("declared size lies about body", func(t *testing.T) {
		store := new(storage.MockImageStore)
		svc := NewImageService(store, 16, nil)
		in := upload("a.png", "image/png", pngBytes(t))
		in.Size = 10
		_, err := svc.Upload(context.Background(), in, "admin@x.com")
		require.ErrorIs(t, err, model.ErrImageSize)
	})

	t.Run("store failure is wrapped", func(t *testing.T) {
		store := new(storage.MockImageStore)
		storeErr := errors.New("disk full")
		store.On("Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", storeErr)

		svc := NewImageService(store, 0, nil)
		_, err := svc.Upload(context.Background(), upload("a.png", "image/png", pngBytes(t)), "admin@x.com")
		require.ErrorIs(t, err, storeErr)
	})
}
