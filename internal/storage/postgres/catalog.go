package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/altmarket/storefront/internal/domain/errors"
	"github.com/altmarket/storefront/internal/domain/model"
	"github.com/altmarket/storefront/internal/domain/repository"
)

// --- CategoryRepository implementation ---

func (r *categoryRepository) Create(ctx context.Context, category *model.Category) error {
	const query = `INSERT INTO categories (id, name, slug, description, is_active)
                   VALUES ($1, $2, $3, $4, $5) RETURNING created_at`
	err := r.storage.pool.QueryRow(ctx, query,
		category.ID, category.Name, category.Slug, category.Description, category.IsActive,
	).Scan(&category.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*model.Category, error) {
	return r.getBy(ctx, "id", id)
}

func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*model.Category, error) {
	return r.getBy(ctx, "slug", slug)
}

func (r *categoryRepository) getBy(ctx context.Context, column, value string) (*model.Category, error) {
	query := fmt.Sprintf(`SELECT id, name, slug, description, is_active, created_at FROM categories WHERE %s=$1`, column)
	var c model.Category
	err := r.storage.pool.QueryRow(ctx, query, value).Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.IsActive, &c.CreatedAt)
	if err != nil {
		return nil, notFoundOr(err)
	}
	return &c, nil
}

func (r *categoryRepository) List(ctx context.Context, filter repository.CategoryFilter) ([]model.Category, int64, error) {
	where, args := buildCategoryWhere(filter)

	var total int64
	countQuery := `SELECT COUNT(*) FROM categories` + where
	if err := r.storage.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, name, slug, description, is_active, created_at FROM categories` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, pageLimit(filter.Limit), pageOffset(filter.Page, filter.Limit))

	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, 0, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *model.Category) error {
	const query = `UPDATE categories SET name=$2, slug=$3, description=$4, is_active=$5 WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query,
		category.ID, category.Name, category.Slug, category.Description, category.IsActive)
	if err != nil {
		if isUniqueViolation(err) {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.storage.pool.Exec(ctx, `DELETE FROM categories WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func buildCategoryWhere(filter repository.CategoryFilter) (string, []any) {
	var clauses []string
	var args []any
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		clauses = append(clauses, fmt.Sprintf("is_active=$%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		clauses = append(clauses, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// --- ProductRepository implementation ---

const productColumns = `id, name, description, sku, price, stock, category_id, is_active, created_at, updated_at`

func scanProduct(row interface{ Scan(dest ...any) error }) (*model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.SKU, &p.Price, &p.Stock,
		&p.CategoryID, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	const query = `INSERT INTO products (id, name, description, sku, price, stock, category_id, is_active)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING created_at, updated_at`
	err := r.storage.pool.QueryRow(ctx, query,
		product.ID, product.Name, product.Description, product.SKU,
		product.Price, product.Stock, product.CategoryID, product.IsActive,
	).Scan(&product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domainErrors.ErrAlreadyExists
		}
		return err
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	p, err := scanProduct(r.storage.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id=$1`, id))
	if err != nil {
		return nil, notFoundOr(err)
	}
	return p, nil
}

func (r *productRepository) GetBySKU(ctx context.Context, sku string) (*model.Product, error) {
	p, err := scanProduct(r.storage.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE sku=$1`, sku))
	if err != nil {
		return nil, notFoundOr(err)
	}
	return p, nil
}

func (r *productRepository) List(ctx context.Context, filter repository.ProductFilter) ([]model.Product, int64, error) {
	where, args := buildProductWhere(filter)

	var total int64
	if err := r.storage.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + productColumns + ` FROM products` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, pageLimit(filter.Limit), pageOffset(filter.Page, filter.Limit))

	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	const query = `UPDATE products SET name=$2, description=$3, sku=$4, price=$5, category_id=$6, is_active=$7, updated_at=NOW()
                   WHERE id=$1 RETURNING updated_at`
	err := r.storage.pool.QueryRow(ctx, query,
		product.ID, product.Name, product.Description, product.SKU,
		product.Price, product.CategoryID, product.IsActive,
	).Scan(&product.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domainErrors.ErrAlreadyExists
		}
		return notFoundOr(err)
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	const referenced = `SELECT EXISTS(SELECT 1 FROM order_items WHERE product_id=$1)`
	var inUse bool
	if err := r.storage.pool.QueryRow(ctx, referenced, id).Scan(&inUse); err != nil {
		return err
	}
	if inUse {
		return domainErrors.ErrProductInUse
	}

	tag, err := r.storage.pool.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *productRepository) AdjustStock(ctx context.Context, productID string, delta int64) (int64, error) {
	return adjustStock(ctx, r.storage.pool, productID, delta)
}

// adjustStock applies delta in a single conditional update so concurrent
// adjustments on the same product serialize on the row and stock can never
// be observed negative.
func adjustStock(ctx context.Context, q querier, productID string, delta int64) (int64, error) {
	const query = `UPDATE products SET stock = stock + $2, updated_at = NOW()
                   WHERE id=$1 AND stock + $2 >= 0 RETURNING stock`
	var stock int64
	err := q.QueryRow(ctx, query, productID, delta).Scan(&stock)
	if err == nil {
		return stock, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	var exists bool
	if probeErr := q.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM products WHERE id=$1)`, productID).Scan(&exists); probeErr != nil {
		return 0, probeErr
	}
	if !exists {
		return 0, domainErrors.ErrNotFound
	}
	return 0, domainErrors.ErrInsufficientStock
}

func buildProductWhere(filter repository.ProductFilter) (string, []any) {
	var clauses []string
	var args []any
	if filter.CategoryID != "" {
		args = append(args, filter.CategoryID)
		clauses = append(clauses, fmt.Sprintf("category_id=$%d", len(args)))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		clauses = append(clauses, fmt.Sprintf("is_active=$%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		clauses = append(clauses, fmt.Sprintf("(name ILIKE $%d OR description ILIKE $%d)", len(args), len(args)))
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func pageLimit(limit int) int {
	if limit <= 0 {
		return 10
	}
	return limit
}

func pageOffset(page, limit int) int {
	if page <= 1 {
		return 0
	}
	return (page - 1) * pageLimit(limit)
}
