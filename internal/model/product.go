package model

import "time"

type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	OriginalPrice *float64  `json:"originalPrice"`
	Image         string    `json:"image"`
	Badge         *string   `json:"badge"`
	Category      string    `json:"category"`
	Sizes         []string  `json:"sizes"`
	Details       string    `json:"details"`
	HowToUse      string    `json:"howToUse"`
	Ingredients   string    `json:"ingredients"`
	Delivery      string    `json:"delivery"`
	Active        bool      `json:"active"`
	CreatedBy     *string   `json:"createdBy"`
	UpdatedBy     *string   `json:"updatedBy"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// PublicProduct is the storefront projection of an active product.
type PublicProduct struct {
	ID            string   `json:"id"`
	Slug          string   `json:"slug"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"originalPrice"`
	Image         string   `json:"image"`
	Badge         *string  `json:"badge"`
	Category      string   `json:"category"`
	ShopCategory  string   `json:"shopCategory"`
	Sizes         []string `json:"sizes"`
	Details       string   `json:"details"`
	HowToUse      string   `json:"howToUse"`
	Ingredients   string   `json:"ingredients"`
	Delivery      string   `json:"delivery"`
}

type ProductQuery struct {
	Page            int
	Limit           int
	Search          string
	IncludeInactive bool
}
