package usecase

import (
	"context"
	"strings"

	"github.com/google/uuid"

	domainErrors "github.com/altmarket/storefront/internal/domain/errors"
	"github.com/altmarket/storefront/internal/domain/model"
	"github.com/altmarket/storefront/internal/domain/repository"
)

// CategoryInput carries fields for category creation and update.
type CategoryInput struct {
	Name        string
	Slug        string
	Description string
	IsActive    *bool
}

// CategoryUseCase manages product categories.
type CategoryUseCase struct {
	categories repository.CategoryRepository
}

// NewCategoryUseCase constructs CategoryUseCase.
func NewCategoryUseCase(categories repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{categories: categories}
}

// Create adds a category; the slug is derived from the name when omitted.
func (u *CategoryUseCase) Create(ctx context.Context, input CategoryInput) (*model.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domainErrors.ErrInvalidAmount
	}

	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		slug = Slugify(name)
	}
	if slug == "" {
		return nil, domainErrors.ErrInvalidAmount
	}

	category := &model.Category{
		ID:          uuid.NewString(),
		Name:        name,
		Slug:        slug,
		Description: input.Description,
		IsActive:    true,
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	if err := u.categories.Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// List returns a page of categories with the total match count.
func (u *CategoryUseCase) List(ctx context.Context, filter repository.CategoryFilter) ([]model.Category, int64, error) {
	return u.categories.List(ctx, filter)
}

// Get fetches a category by id.
func (u *CategoryUseCase) Get(ctx context.Context, id string) (*model.Category, error) {
	return u.categories.GetByID(ctx, id)
}

// Update modifies category fields.
func (u *CategoryUseCase) Update(ctx context.Context, id string, input CategoryInput) (*model.Category, error) {
	category, err := u.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		category.Name = name
	}
	if slug := strings.TrimSpace(input.Slug); slug != "" {
		category.Slug = slug
	}
	if input.Description != "" {
		category.Description = input.Description
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	if err := u.categories.Update(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

// Delete removes a category.
func (u *CategoryUseCase) Delete(ctx context.Context, id string) error {
	return u.categories.Delete(ctx, id)
}
