// AngelaMos | 2026
// repository.go

package product

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/carterperez-dev/bazaar-api/internal/core"
)

const productColumns = `id, title, description, brand, price, discount_price,
	categories, keywords, colors, stock, view_count, love_count, ratings,
	reviews, images, videos, created_by, created_at, updated_at`

type Repository interface {
	Create(ctx context.Context, product *Product) error
	GetByID(ctx context.Context, id string) (*Product, error)
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params ListProductsParams) ([]Product, int, error)
	IncrementView(ctx context.Context, id string) (int, error)
	AdjustLoveCount(ctx context.Context, id string, delta int) error
	SetReviews(
		ctx context.Context,
		id string,
		reviews []Review,
		ratings float64,
	) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, product *Product) error {
	query := `
		INSERT INTO products (id, title, description, brand, price,
		                      discount_price, categories, keywords, colors,
		                      stock, reviews, images, videos, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at`

	err := r.db.GetContext(ctx, product, query,
		product.ID,
		product.Title,
		product.Description,
		product.Brand,
		product.Price,
		product.DiscountPrice,
		product.Categories,
		product.Keywords,
		product.Colors,
		product.Stock,
		product.Reviews,
		product.Images,
		product.Videos,
		product.CreatedBy,
	)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id string,
) (*Product, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM products WHERE id = $1`,
		productColumns,
	)

	var product Product
	err := r.db.GetContext(ctx, &product, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get product: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	return &product, nil
}

func (r *repository) Update(ctx context.Context, product *Product) error {
	query := `
		UPDATE products
		SET title = $2, description = $3, brand = $4, price = $5,
		    discount_price = $6, categories = $7, keywords = $8, colors = $9,
		    stock = $10, images = $11, videos = $12, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &product.UpdatedAt, query,
		product.ID,
		product.Title,
		product.Description,
		product.Brand,
		product.Price,
		product.DiscountPrice,
		product.Categories,
		product.Keywords,
		product.Colors,
		product.Stock,
		product.Images,
		product.Videos,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update product: %w", core.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(
		ctx,
		`DELETE FROM products WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete product: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	params ListProductsParams,
) ([]Product, int, error) {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	if params.Search != "" {
		conditions = append(conditions, fmt.Sprintf(
			"(title ILIKE $%d OR description ILIKE $%d)", argIdx, argIdx))
		args = append(args, "%"+escapeLike(params.Search)+"%")
		argIdx++
	}

	if params.Category != "" {
		conditions = append(
			conditions,
			fmt.Sprintf("$%d = ANY(categories)", argIdx),
		)
		args = append(args, params.Category)
		argIdx++
	}

	if params.MinPrice > 0 {
		conditions = append(conditions, fmt.Sprintf("price >= $%d", argIdx))
		args = append(args, params.MinPrice)
		argIdx++
	}

	if params.MaxPrice > 0 {
		conditions = append(conditions, fmt.Sprintf("price <= $%d", argIdx))
		args = append(args, params.MaxPrice)
		argIdx++
	}

	whereClause := "TRUE"
	if len(conditions) > 0 {
		whereClause = strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM products WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		WHERE %s
		ORDER BY %s
		LIMIT $%d OFFSET $%d`,
		productColumns, whereClause, sortClause(params.Sort), argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var products []Product
	if err := r.db.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}

	return products, total, nil
}

// IncrementView bumps the view counter and returns the new value so
// the caller can decide on cache admission.
func (r *repository) IncrementView(
	ctx context.Context,
	id string,
) (int, error) {
	query := `
		UPDATE products
		SET view_count = view_count + 1
		WHERE id = $1
		RETURNING view_count`

	var viewCount int
	err := r.db.GetContext(ctx, &viewCount, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("increment view: %w", core.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("increment view: %w", err)
	}

	return viewCount, nil
}

// AdjustLoveCount shifts love_count by delta, never below zero.
func (r *repository) AdjustLoveCount(
	ctx context.Context,
	id string,
	delta int,
) error {
	query := `
		UPDATE products
		SET love_count = GREATEST(love_count + $2, 0)
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, delta)
	if err != nil {
		return fmt.Errorf("adjust love count: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("adjust love count: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("adjust love count: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) SetReviews(
	ctx context.Context,
	id string,
	reviews []Review,
	ratings float64,
) error {
	query := `
		UPDATE products
		SET reviews = $2, ratings = $3, updated_at = NOW()
		WHERE id = $1`

	result, err := r.db.ExecContext(
		ctx,
		query,
		id,
		core.NewJSONColumn(reviews),
		ratings,
	)
	if err != nil {
		return fmt.Errorf("set reviews: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set reviews: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("set reviews: %w", core.ErrNotFound)
	}

	return nil
}

func sortClause(sort string) string {
	switch sort {
	case "price_asc":
		return "price ASC"
	case "price_desc":
		return "price DESC"
	case "popular":
		return "view_count DESC"
	case "loved":
		return "love_count DESC"
	default:
		return "created_at DESC"
	}
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
