package repository

import (
	"context"

	"github.com/altmarket/storefront/internal/domain/model"
)

// ProductFilter narrows product listings.
type ProductFilter struct {
	CategoryID string
	Search     string
	IsActive   *bool
	Page       int
	Limit      int
}

// ProductRepository describes persistence operations for products,
// including the stock ledger.
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id string) (*model.Product, error)
	GetBySKU(ctx context.Context, sku string) (*model.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]model.Product, int64, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id string) error

	// AdjustStock atomically applies delta to product stock and returns the
	// resulting value. Concurrent adjustments on the same product are
	// serialized; a delta that would drive stock negative fails with
	// ErrInsufficientStock and leaves the counter untouched.
	AdjustStock(ctx context.Context, productID string, delta int64) (int64, error)
}
