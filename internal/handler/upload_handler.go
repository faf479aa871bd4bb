package handler

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strings"

	"boty-storefront/internal/auth"
	"boty-storefront/internal/model"
	"boty-storefront/internal/service"
	"boty-storefront/pkg/apierror"
)

// multipartOverhead leaves room for boundaries and other form fields.
const multipartOverhead = 64 * 1024

type UploadHandler struct {
	images   *service.ImageService
	verifier auth.Verifier
}

func NewUploadHandler(images *service.ImageService, verifier auth.Verifier) *UploadHandler {
	return &UploadHandler{images: images, verifier: verifier}
}

// ProductImage stores the multipart field "file" and answers with its URL.
func (h *UploadHandler) ProductImage(w http.ResponseWriter, r *http.Request) {
	admin, ok := requireAdmin(h.verifier, w, r)
	if !ok {
		return
	}

	maxBytes := h.images.MaxBytes()
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes+multipartOverhead)

	reader, err := r.MultipartReader()
	if err != nil {
		writeError(w, model.ErrImageRequired)
		return
	}

	for {
		part, nextErr := reader.NextPart()
		if nextErr == io.EOF {
			break
		}
		if nextErr != nil {
			if isPayloadTooLarge(nextErr) {
				writeError(w, model.ErrImageSize)
				return
			}
			writeError(w, apierror.BadRequest("Formulario invalido.", ""))
			return
		}

		if part.FormName() != "file" || strings.TrimSpace(part.FileName()) == "" {
			_ = part.Close()
			continue
		}

		data, readErr := io.ReadAll(io.LimitReader(part, maxBytes+1))
		_ = part.Close()
		if readErr != nil {
			if isPayloadTooLarge(readErr) {
				writeError(w, model.ErrImageSize)
				return
			}
			writeError(w, apierror.BadRequest("Formulario invalido.", ""))
			return
		}

		url, uploadErr := h.images.Upload(r.Context(), service.ImageUpload{
			Filename:    part.FileName(),
			ContentType: part.Header.Get("Content-Type"),
			Size:        int64(len(data)),
			Body:        bytes.NewReader(data),
		}, admin.Email)
		if uploadErr != nil {
			writeError(w, uploadErr)
			return
		}

		writeJSON(w, http.StatusOK, model.UploadResponse{OK: true, URL: url})
		return
	}

	writeError(w, model.ErrImageRequired)
}

func isPayloadTooLarge(err error) bool {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return true
	}

	return strings.Contains(strings.ToLower(err.Error()), "request body too large")
}
