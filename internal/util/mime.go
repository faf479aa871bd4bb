package util

import (
	"net/http"
	"path/filepath"
	"strings"
)

// imageExtensions lists the accepted extensions per image MIME type; the
// first entry is the canonical one.
var imageExtensions = map[string][]string{
	"image/jpeg": {".jpg", ".jpeg", ".jpe", ".jfif"},
	"image/png":  {".png"},
	"image/webp": {".webp"},
	"image/gif":  {".gif"},
	"image/avif": {".avif"},
}

// NormalizeMIME lowercases a Content-Type value and drops its parameters.
func NormalizeMIME(mimeType string) string {
	base, _, _ := strings.Cut(mimeType, ";")
	return strings.ToLower(strings.TrimSpace(base))
}

func IsImageMIME(mimeType string) bool {
	return strings.HasPrefix(NormalizeMIME(mimeType), "image/")
}

// ImageExtension returns the file name's extension when it belongs to
// mimeType, otherwise the canonical extension for mimeType. It returns ""
// for types it does not know.
func ImageExtension(filename string, mimeType string) string {
	known := imageExtensions[NormalizeMIME(mimeType)]
	if len(known) == 0 {
		return ""
	}

	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(filename)))
	for _, candidate := range known {
		if ext == candidate {
			return ext
		}
	}
	return known[0]
}

func isAVIF(data []byte) bool {
	if len(data) < 12 || string(data[4:8]) != "ftyp" {
		return false
	}
	brand := string(data[8:12])
	return brand == "avif" || brand == "avis"
}

// SniffImageMIME detects the image type from the leading bytes. Non-image
// content yields the generic type reported by http.DetectContentType.
func SniffImageMIME(data []byte) string {
	if isAVIF(data) {
		return "image/avif"
	}

	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	return NormalizeMIME(http.DetectContentType(head))
}
