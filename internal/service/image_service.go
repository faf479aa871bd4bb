package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp"

	"boty-storefront/internal/event"
	"boty-storefront/internal/metrics"
	"boty-storefront/internal/model"
	"boty-storefront/internal/storage"
	"boty-storefront/internal/util"
)

const DefaultMaxImageBytes int64 = 5 * 1024 * 1024

// allowedImageTypes maps accepted MIME types to their image package format
// name ("" when no decoder is available).
var allowedImageTypes = map[string]string{
	"image/jpeg": "jpeg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
	"image/avif": "",
}

type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type ImageService struct {
	store    storage.ImageStore
	maxBytes int64
	bus      event.Bus
}

func NewImageService(store storage.ImageStore, maxBytes int64, bus event.Bus) *ImageService {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxImageBytes
	}
	return &ImageService{store: store, maxBytes: maxBytes, bus: bus}
}

func (s *ImageService) MaxBytes() int64 {
	return s.maxBytes
}

// checkContent confirms the bytes are an image of the declared type.
func checkContent(data []byte, contentType string) error {
	if util.SniffImageMIME(data) != contentType {
		return model.ErrImageUndecodable
	}

	want := allowedImageTypes[contentType]
	if want == "" {
		return nil
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || format != want {
		return model.ErrImageUndecodable
	}
	return nil
}

// Upload validates and stores a product image under a random name and
// returns its public URL.
func (s *ImageService) Upload(ctx context.Context, in ImageUpload, actor string) (string, error) {
	url, err := s.upload(ctx, in)
	outcome := "stored"
	if err != nil {
		outcome = "rejected"
	}
	metrics.ImageUploadsTotal.WithLabelValues(outcome).Inc()

	if err == nil && s.bus != nil {
		s.bus.Publish(event.Event{Type: event.TypeImageUploaded, Payload: map[string]string{"url": url}, Actor: actor})
	}
	return url, err
}

func (s *ImageService) upload(ctx context.Context, in ImageUpload) (string, error) {
	if in.Body == nil {
		return "", model.ErrImageRequired
	}

	contentType := util.NormalizeMIME(in.ContentType)
	if _, ok := allowedImageTypes[contentType]; !ok {
		return "", model.ErrImageType
	}

	if in.Size <= 0 || in.Size > s.maxBytes {
		return "", model.ErrImageSize
	}

	data, err := io.ReadAll(io.LimitReader(in.Body, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read image: %w", err)
	}
	if len(data) == 0 || int64(len(data)) > s.maxBytes {
		return "", model.ErrImageSize
	}

	ext := util.ImageExtension(in.Filename, contentType)
	if ext == "" {
		return "", model.ErrImageExtension
	}

	if err := checkContent(data, contentType); err != nil {
		return "", err
	}

	url, err := s.store.Save(ctx, uuid.NewString()+ext, contentType, data)
	if err != nil {
		return "", fmt.Errorf("save image: %w", err)
	}
	return url, nil
}
