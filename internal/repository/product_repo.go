package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"boty-storefront/internal/model"
)

const productColumns = `id, name, slug, description, price::float8, original_price::float8, image, badge,
	category, sizes, details, how_to_use, ingredients, delivery, active,
	created_by, updated_by, created_at, updated_at`

type ProductRepository struct {
	db PoolProvider
}

func NewProductRepository(db PoolProvider) *ProductRepository {
	return &ProductRepository{db: db}
}

func scanProduct(row pgx.Row) (model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.Price, &p.OriginalPrice, &p.Image, &p.Badge,
		&p.Category, &p.Sizes, &p.Details, &p.HowToUse, &p.Ingredients, &p.Delivery, &p.Active,
		&p.CreatedBy, &p.UpdatedBy, &p.CreatedAt, &p.UpdatedAt)
	if p.Sizes == nil {
		p.Sizes = []string{}
	}
	return p, err
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// List returns one page of products, newest first, and the total number
// of matching rows. q.Page and q.Limit must already be normalised.
func (r *ProductRepository) List(ctx context.Context, q model.ProductQuery) ([]model.Product, int, error) {
	pool, err := r.db.Pool(ctx)
	if err != nil {
		return nil, 0, err
	}

	where := make([]string, 0, 2)
	args := make([]any, 0, 3)
	if !q.IncludeInactive {
		where = append(where, "active")
	}
	if search := strings.TrimSpace(q.Search); search != "" {
		args = append(args, "%"+escapeLike(search)+"%")
		n := len(args)
		where = append(where, fmt.Sprintf(
			`(name ILIKE $%d ESCAPE '\' OR slug ILIKE $%d ESCAPE '\' OR category ILIKE $%d ESCAPE '\')`, n, n, n))
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	args = append(args, q.Limit, (q.Page-1)*q.Limit)
	rows, err := pool.Query(ctx,
		fmt.Sprintf(`SELECT %s FROM products%s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
			productColumns, clause, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	items := make([]model.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		items = append(items, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate products: %w", err)
	}

	return items, total, nil
}

func (r *ProductRepository) ListActive(ctx context.Context) ([]model.Product, error) {
	pool, err := r.db.Pool(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := pool.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE active ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list active products: %w", err)
	}
	defer rows.Close()

	items := make([]model.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r *ProductRepository) Get(ctx context.Context, id string) (model.Product, error) {
	pool, err := r.db.Pool(ctx)
	if err != nil {
		return model.Product{}, err
	}

	p, err := scanProduct(pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		return model.Product{}, fmt.Errorf("get product: %w", mapDBError(err, model.ErrProductNotFound))
	}
	return p, nil
}

func (r *ProductRepository) GetActiveBySlug(ctx context.Context, slug string) (model.Product, error) {
	pool, err := r.db.Pool(ctx)
	if err != nil {
		return model.Product{}, err
	}

	p, err := scanProduct(pool.QueryRow(ctx,
		`SELECT `+productColumns+` FROM products WHERE slug = lower($1) AND active`, strings.TrimSpace(slug)))
	if err != nil {
		return model.Product{}, fmt.Errorf("get product by slug: %w", mapDBError(err, model.ErrProductNotFound))
	}
	return p, nil
}

func (r *ProductRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	pool, err := r.db.Pool(ctx)
	if err != nil {
		return model.Product{}, err
	}

	sizes := p.Sizes
	if sizes == nil {
		sizes = []string{}
	}

	created, err := scanProduct(pool.QueryRow(ctx,
		`INSERT INTO products (id, name, slug, description, price, original_price, image, badge,
		                       category, sizes, details, how_to_use, ingredients, delivery, active,
		                       created_by, updated_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		 RETURNING `+productColumns,
		p.ID, p.Name, p.Slug, p.Description, p.Price, p.OriginalPrice, p.Image, p.Badge,
		p.Category, sizes, p.Details, p.HowToUse, p.Ingredients, p.Delivery, p.Active,
		p.CreatedBy, p.UpdatedBy))
	if err != nil {
		return model.Product{}, fmt.Errorf("create product: %w", mapDBError(err, model.ErrProductNotFound))
	}
	return created, nil
}

// buildProductUpdate renders SET clauses for the fields present in req.
// Placeholders start at $2; $1 is reserved for the id.
func buildProductUpdate(req model.UpdateProductRequest, updatedBy string) ([]string, []any) {
	sets := make([]string, 0, 16)
	args := make([]any, 0, 16)

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)+1))
	}
	addString := func(column string, o model.Optional[string]) {
		if o.Set {
			add(column, o.Value)
		}
	}
	addNullable := func(column string, set bool, null bool, value any) {
		if !set {
			return
		}
		if null {
			add(column, nil)
			return
		}
		add(column, value)
	}

	addString("name", req.Name)
	addString("slug", req.Slug)
	addString("description", req.Description)
	if req.Price.Set {
		add("price", req.Price.Value)
	}
	addNullable("original_price", req.OriginalPrice.Set, req.OriginalPrice.Null, req.OriginalPrice.Value)
	addString("image", req.Image)
	addNullable("badge", req.Badge.Set, req.Badge.Null, req.Badge.Value)
	addString("category", req.Category)
	if req.Sizes.Set {
		sizes := req.Sizes.Value
		if sizes == nil {
			sizes = []string{}
		}
		add("sizes", sizes)
	}
	addString("details", req.Details)
	addString("how_to_use", req.HowToUse)
	addString("ingredients", req.Ingredients)
	addString("delivery", req.Delivery)
	if req.Active.Set {
		add("active", req.Active.Value)
	}

	add("updated_by", updatedBy)
	sets = append(sets, "updated_at = now()")

	return sets, args
}

// Update applies the fields present in req. req must already be
// validated and normalised.
func (r *ProductRepository) Update(ctx context.Context, id string, req model.UpdateProductRequest, updatedBy string) (model.Product, error) {
	pool, err := r.db.Pool(ctx)
	if err != nil {
		return model.Product{}, err
	}

	sets, args := buildProductUpdate(req, updatedBy)
	query := `UPDATE products SET ` + strings.Join(sets, ", ") + ` WHERE id = $1 RETURNING ` + productColumns

	updated, err := scanProduct(pool.QueryRow(ctx, query, append([]any{id}, args...)...))
	if err != nil {
		return model.Product{}, fmt.Errorf("update product: %w", mapDBError(err, model.ErrProductNotFound))
	}
	return updated, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	pool, err := r.db.Pool(ctx)
	if err != nil {
		return err
	}

	tag, err := pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", mapDBError(err, model.ErrProductNotFound))
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}
	return nil
}
