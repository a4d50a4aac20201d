package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	domainErrors "github.com/altmarket/storefront/internal/domain/errors"
	"github.com/altmarket/storefront/internal/domain/model"
	"github.com/altmarket/storefront/internal/domain/repository"
)

// ProductInput carries fields for product creation and update.
type ProductInput struct {
	Name        string
	Description string
	SKU         string
	Price       float64
	Stock       int64
	CategoryID  string
	IsActive    *bool
}

// ProductUseCase manages the product catalog and the stock ledger.
type ProductUseCase struct {
	products repository.ProductRepository
}

// NewProductUseCase constructs ProductUseCase.
func NewProductUseCase(products repository.ProductRepository) *ProductUseCase {
	return &ProductUseCase{products: products}
}

// Create adds a product with a unique SKU.
func (u *ProductUseCase) Create(ctx context.Context, input ProductInput) (*model.Product, error) {
	name := strings.TrimSpace(input.Name)
	sku := strings.TrimSpace(input.SKU)
	if name == "" || sku == "" || input.Price < 0 || input.Stock < 0 {
		return nil, domainErrors.ErrInvalidAmount
	}

	product := &model.Product{
		ID:          uuid.NewString(),
		Name:        name,
		Description: input.Description,
		SKU:         sku,
		Price:       input.Price,
		Stock:       input.Stock,
		CategoryID:  input.CategoryID,
		IsActive:    true,
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := u.products.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// List returns a page of products with the total match count.
func (u *ProductUseCase) List(ctx context.Context, filter repository.ProductFilter) ([]model.Product, int64, error) {
	return u.products.List(ctx, filter)
}

// Get fetches a product by id.
func (u *ProductUseCase) Get(ctx context.Context, id string) (*model.Product, error) {
	return u.products.GetByID(ctx, id)
}

// GetBySKU fetches a product by its SKU.
func (u *ProductUseCase) GetBySKU(ctx context.Context, sku string) (*model.Product, error) {
	return u.products.GetBySKU(ctx, sku)
}

// Update modifies product fields; stock is excluded and changes only
// through AdjustStock.
func (u *ProductUseCase) Update(ctx context.Context, id string, input ProductInput) (*model.Product, error) {
	product, err := u.products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		product.Name = name
	}
	if input.Description != "" {
		product.Description = input.Description
	}
	if sku := strings.TrimSpace(input.SKU); sku != "" && sku != product.SKU {
		if existing, err := u.products.GetBySKU(ctx, sku); err == nil && existing.ID != id {
			return nil, domainErrors.ErrAlreadyExists
		} else if err != nil && !errors.Is(err, domainErrors.ErrNotFound) {
			return nil, err
		}
		product.SKU = sku
	}
	if input.Price > 0 {
		product.Price = input.Price
	}
	if input.CategoryID != "" {
		product.CategoryID = input.CategoryID
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	if err := u.products.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// AdjustStock applies an administrative stock adjustment (restock or
// correction) through the same ledger the confirmation path uses.
func (u *ProductUseCase) AdjustStock(ctx context.Context, id string, delta int64) (*model.Product, error) {
	if delta == 0 {
		return u.products.GetByID(ctx, id)
	}
	if _, err := u.products.AdjustStock(ctx, id, delta); err != nil {
		return nil, err
	}
	return u.products.GetByID(ctx, id)
}

// Delete removes a product unless order history references it.
func (u *ProductUseCase) Delete(ctx context.Context, id string) error {
	return u.products.Delete(ctx, id)
}
