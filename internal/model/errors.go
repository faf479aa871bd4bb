package model

import "errors"

var (
	// Authentication
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")

	// Accounts
	ErrAccountNotFound = errors.New("account not found")

	// Products
	ErrInvalidID       = errors.New("invalid product id")
	ErrProductNotFound = errors.New("product not found")
	ErrSlugTaken       = errors.New("product slug already exists")

	// Uploads
	ErrImageRequired    = errors.New("image file is required")
	ErrImageType        = errors.New("image type not allowed")
	ErrImageSize        = errors.New("image size out of range")
	ErrImageUndecodable = errors.New("image content is not decodable")
	ErrImageExtension   = errors.New("image extension could not be determined")

	// Generic
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
)
