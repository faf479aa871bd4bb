package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"boty-storefront/internal/event"
	"boty-storefront/internal/metrics"
	"boty-storefront/internal/model"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

type ProductStore interface {
	List(ctx context.Context, q model.ProductQuery) ([]model.Product, int, error)
	Get(ctx context.Context, id string) (model.Product, error)
	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, id string, req model.UpdateProductRequest, updatedBy string) (model.Product, error)
	Delete(ctx context.Context, id string) error
}

type ProductService struct {
	store ProductStore
	bus   event.Bus
}

func NewProductService(store ProductStore, bus event.Bus) *ProductService {
	return &ProductService{store: store, bus: bus}
}

// NormalizeQuery clamps paging: page defaults to 1, limit to 20 and is
// capped at 100.
func NormalizeQuery(q model.ProductQuery) model.ProductQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageLimit
	}
	if q.Limit > MaxPageLimit {
		q.Limit = MaxPageLimit
	}
	q.Search = strings.TrimSpace(q.Search)
	return q
}

func (s *ProductService) List(ctx context.Context, q model.ProductQuery) ([]model.Product, model.Pagination, error) {
	q = NormalizeQuery(q)

	items, total, err := s.store.List(ctx, q)
	if err != nil {
		return nil, model.Pagination{}, err
	}

	return items, model.Pagination{
		Page:       q.Page,
		Limit:      q.Limit,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(q.Limit))),
	}, nil
}

func validateID(id string) (string, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return "", model.ErrInvalidID
	}
	return parsed.String(), nil
}

func (s *ProductService) Get(ctx context.Context, id string) (model.Product, error) {
	id, err := validateID(id)
	if err != nil {
		return model.Product{}, err
	}
	return s.store.Get(ctx, id)
}

func invalid(field string) error {
	return fmt.Errorf("%w: %s", model.ErrInvalidInput, field)
}

func nonNegative(v float64) bool {
	return v >= 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

// normalizeBadge maps an empty or blank badge to null.
func normalizeBadge(badge *string) *string {
	if badge == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*badge)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func normalizeSizes(sizes []string) []string {
	if sizes == nil {
		return []string{}
	}
	return sizes
}

// ValidateCreate checks required fields and returns the normalised product
// to insert on behalf of actor.
func ValidateCreate(req model.CreateProductRequest, actor string) (model.Product, error) {
	p := model.Product{
		Name:        strings.TrimSpace(req.Name),
		Slug:        strings.ToLower(strings.TrimSpace(req.Slug)),
		Description: strings.TrimSpace(req.Description),
		Image:       strings.TrimSpace(req.Image),
		Category:    strings.ToLower(strings.TrimSpace(req.Category)),
		Sizes:       normalizeSizes(req.Sizes),
		Details:     req.Details,
		HowToUse:    req.HowToUse,
		Ingredients: req.Ingredients,
		Delivery:    req.Delivery,
		Active:      true,
		Badge:       normalizeBadge(req.Badge),
	}

	switch {
	case p.Name == "":
		return model.Product{}, invalid("name")
	case p.Slug == "":
		return model.Product{}, invalid("slug")
	case p.Description == "":
		return model.Product{}, invalid("description")
	case p.Image == "":
		return model.Product{}, invalid("image")
	case p.Category == "":
		return model.Product{}, invalid("category")
	case req.Price == nil || !nonNegative(*req.Price):
		return model.Product{}, invalid("price")
	case req.OriginalPrice != nil && !nonNegative(*req.OriginalPrice):
		return model.Product{}, invalid("originalPrice")
	}

	p.Price = *req.Price
	p.OriginalPrice = req.OriginalPrice
	if req.Active != nil {
		p.Active = *req.Active
	}

	p.ID = uuid.NewString()
	p.CreatedBy = &actor
	p.UpdatedBy = &actor

	return p, nil
}

// ValidateUpdate rejects explicit nulls on non-nullable fields and empty
// required strings, and normalises slug, category and badge in place.
func ValidateUpdate(req model.UpdateProductRequest) (model.UpdateProductRequest, error) {
	required := []struct {
		name string
		opt  *model.Optional[string]
		fold bool
	}{
		{"name", &req.Name, false},
		{"slug", &req.Slug, true},
		{"description", &req.Description, false},
		{"image", &req.Image, false},
		{"category", &req.Category, true},
	}
	for _, f := range required {
		if !f.opt.Set {
			continue
		}
		if f.opt.Null {
			return req, invalid(f.name)
		}
		f.opt.Value = strings.TrimSpace(f.opt.Value)
		if f.fold {
			f.opt.Value = strings.ToLower(f.opt.Value)
		}
		if f.opt.Value == "" {
			return req, invalid(f.name)
		}
	}

	for name, opt := range map[string]model.Optional[string]{
		"details":     req.Details,
		"howToUse":    req.HowToUse,
		"ingredients": req.Ingredients,
		"delivery":    req.Delivery,
	} {
		if opt.Set && opt.Null {
			return req, invalid(name)
		}
	}

	if req.Price.Set && (req.Price.Null || !nonNegative(req.Price.Value)) {
		return req, invalid("price")
	}
	if req.OriginalPrice.Set && !req.OriginalPrice.Null && !nonNegative(req.OriginalPrice.Value) {
		return req, invalid("originalPrice")
	}
	if req.Sizes.Set && req.Sizes.Null {
		return req, invalid("sizes")
	}
	if req.Active.Set && req.Active.Null {
		return req, invalid("active")
	}

	if req.Badge.Set && !req.Badge.Null {
		if badge := normalizeBadge(&req.Badge.Value); badge == nil {
			req.Badge = model.Null[string]()
		} else {
			req.Badge.Value = *badge
		}
	}

	return req, nil
}

func (s *ProductService) Create(ctx context.Context, req model.CreateProductRequest, actor string) (model.Product, error) {
	p, err := ValidateCreate(req, actor)
	if err != nil {
		return model.Product{}, err
	}

	created, err := s.store.Create(ctx, p)
	if err != nil {
		return model.Product{}, err
	}

	metrics.ProductMutationsTotal.WithLabelValues("create").Inc()
	s.publish(event.TypeProductCreated, created, actor)
	return created, nil
}

func (s *ProductService) Update(ctx context.Context, id string, req model.UpdateProductRequest, actor string) (model.Product, error) {
	id, err := validateID(id)
	if err != nil {
		return model.Product{}, err
	}

	req, err = ValidateUpdate(req)
	if err != nil {
		return model.Product{}, err
	}

	updated, err := s.store.Update(ctx, id, req, actor)
	if err != nil {
		return model.Product{}, err
	}

	metrics.ProductMutationsTotal.WithLabelValues("update").Inc()
	s.publish(event.TypeProductUpdated, updated, actor)
	return updated, nil
}

func (s *ProductService) Delete(ctx context.Context, id string, actor string) error {
	id, err := validateID(id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}

	metrics.ProductMutationsTotal.WithLabelValues("delete").Inc()
	s.publish(event.TypeProductDeleted, map[string]string{"id": id}, actor)
	return nil
}

func (s *ProductService) publish(t event.Type, payload any, actor string) {
	if s.bus == nil {
		return
	}
	s.bus.Publish(event.Event{Type: t, Payload: payload, Actor: actor})
}
