package model

import (
	"bytes"
	"encoding/json"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// CreateProductRequest mirrors the create payload. Pointer fields are
// optional; nil means "use the default".
type CreateProductRequest struct {
	Name          string   `json:"name"`
	Slug          string   `json:"slug"`
	Description   string   `json:"description"`
	Price         *float64 `json:"price"`
	OriginalPrice *float64 `json:"originalPrice"`
	Image         string   `json:"image"`
	Badge         *string  `json:"badge"`
	Category      string   `json:"category"`
	Sizes         []string `json:"sizes"`
	Details       string   `json:"details"`
	HowToUse      string   `json:"howToUse"`
	Ingredients   string   `json:"ingredients"`
	Delivery      string   `json:"delivery"`
	Active        *bool    `json:"active"`
}

// UpdateProductRequest is a partial update: only fields present in the
// payload are applied.
type UpdateProductRequest struct {
	Name          Optional[string]   `json:"name"`
	Slug          Optional[string]   `json:"slug"`
	Description   Optional[string]   `json:"description"`
	Price         Optional[float64]  `json:"price"`
	OriginalPrice Optional[float64]  `json:"originalPrice"`
	Image         Optional[string]   `json:"image"`
	Badge         Optional[string]   `json:"badge"`
	Category      Optional[string]   `json:"category"`
	Sizes         Optional[[]string] `json:"sizes"`
	Details       Optional[string]   `json:"details"`
	HowToUse      Optional[string]   `json:"howToUse"`
	Ingredients   Optional[string]   `json:"ingredients"`
	Delivery      Optional[string]   `json:"delivery"`
	Active        Optional[bool]     `json:"active"`
}

// Optional tracks whether a JSON field was present and whether it was null.
type Optional[T any] struct {
	Set   bool
	Null  bool
	Value T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Value: v}
}

func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}
