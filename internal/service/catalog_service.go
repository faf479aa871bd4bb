package service

import (
	"context"
	"strings"

	"boty-storefront/internal/model"
)

type CatalogStore interface {
	ListActive(ctx context.Context) ([]model.Product, error)
	GetActiveBySlug(ctx context.Context, slug string) (model.Product, error)
}

// CatalogService is the read-only storefront view of active products.
type CatalogService struct {
	store CatalogStore
}

func NewCatalogService(store CatalogStore) *CatalogService {
	return &CatalogService{store: store}
}

func (s *CatalogService) List(ctx context.Context) ([]model.PublicProduct, error) {
	items, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]model.PublicProduct, 0, len(items))
	for _, p := range items {
		out = append(out, ToPublic(p))
	}
	return out, nil
}

func (s *CatalogService) GetBySlug(ctx context.Context, slug string) (model.PublicProduct, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return model.PublicProduct{}, model.ErrProductNotFound
	}

	p, err := s.store.GetActiveBySlug(ctx, slug)
	if err != nil {
		return model.PublicProduct{}, err
	}
	return ToPublic(p), nil
}

func ToPublic(p model.Product) model.PublicProduct {
	sizes := p.Sizes
	if sizes == nil {
		sizes = []string{}
	}

	return model.PublicProduct{
		ID:            p.ID,
		Slug:          p.Slug,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.Price,
		OriginalPrice: p.OriginalPrice,
		Image:         p.Image,
		Badge:         p.Badge,
		Category:      p.Category,
		ShopCategory:  ShopCategory(p.Category),
		Sizes:         sizes,
		Details:       p.Details,
		HowToUse:      p.HowToUse,
		Ingredients:   p.Ingredients,
		Delivery:      p.Delivery,
	}
}

var shopCategories = []struct {
	name     string
	keywords []string
}{
	{"serums", []string{"serum", "sera", "suero"}},
	{"hidratantes", []string{"moist", "hidrat", "cream", "crema"}},
	{"limpiadores", []string{"clean", "limpi", "cleanser"}},
	{"aceites", []string{"oil", "aceite"}},
	{"mascaras", []string{"mask", "masc"}},
	{"tonicos", []string{"toner", "tonic", "tonico"}},
}

// ShopCategory buckets a free-form category into a storefront section by
// keyword. The first matching section wins; otherwise "otros".
func ShopCategory(category string) string {
	category = strings.ToLower(category)
	for _, c := range shopCategories {
		for _, kw := range c.keywords {
			if strings.Contains(category, kw) {
				return c.name
			}
		}
	}
	return "otros"
}
