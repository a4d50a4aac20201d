package repository

import (
	"context"

	"github.com/altmarket/storefront/internal/domain/model"
)

// CategoryFilter narrows category listings.
type CategoryFilter struct {
	Search   string
	IsActive *bool
	Page     int
	Limit    int
}

// CategoryRepository describes persistence operations for categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	GetByID(ctx context.Context, id string) (*model.Category, error)
	GetBySlug(ctx context.Context, slug string) (*model.Category, error)
	List(ctx context.Context, filter CategoryFilter) ([]model.Category, int64, error)
	Update(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, id string) error
}
