package usecase_test

import (
	"context"
	"errors"
	"testing"

	domainErrors "github.com/altmarket/storefront/internal/domain/errors"
	"github.com/altmarket/storefront/internal/domain/model"
	"github.com/altmarket/storefront/internal/test"
	"github.com/altmarket/storefront/internal/usecase"
)

func TestProductCreate_Valid(t *testing.T) {
	var stored *model.Product
	products := &test.ProductRepositoryStub{
		CreateFn: func(_ context.Context, p *model.Product) error {
			stored = p
			return nil
		},
	}
	uc := usecase.NewProductUseCase(products)

	product, err := uc.Create(context.Background(), usecase.ProductInput{
		Name: " Widget ", SKU: " W-1 ", Price: 9.99, Stock: 5,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if product.Name != "Widget" || product.SKU != "W-1" {
		t.Fatalf("expected trimmed fields, got %q / %q", product.Name, product.SKU)
	}
	if !product.IsActive {
		t.Fatal("products default to active")
	}
	if stored == nil || stored.ID == "" {
		t.Fatal("expected product persisted with generated id")
	}
}

func TestProductCreate_Invalid(t *testing.T) {
	uc := usecase.NewProductUseCase(&test.ProductRepositoryStub{})
	cases := []usecase.ProductInput{
		{Name: "", SKU: "sku"},
		{Name: "name", SKU: ""},
		{Name: "name", SKU: "sku", Price: -1},
		{Name: "name", SKU: "sku", Stock: -1},
	}
	for _, input := range cases {
		if _, err := uc.Create(context.Background(), input); !errors.Is(err, domainErrors.ErrInvalidAmount) {
			t.Fatalf("input %#v: expected ErrInvalidAmount, got %v", input, err)
		}
	}
}

func TestProductUpdate_SKUConflict(t *testing.T) {
	products := &test.ProductRepositoryStub{
		GetByIDFn: func(_ context.Context, id string) (*model.Product, error) {
			return &model.Product{ID: id, Name: "old", SKU: "OLD-1", IsActive: true}, nil
		},
		GetBySKUFn: func(_ context.Context, sku string) (*model.Product, error) {
			return &model.Product{ID: "other", SKU: sku}, nil
		},
	}
	uc := usecase.NewProductUseCase(products)

	if _, err := uc.Update(context.Background(), "prod-1", usecase.ProductInput{Name: "new", SKU: "TAKEN"}); !errors.Is(err, domainErrors.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestProductAdjustStock(t *testing.T) {
	var adjusted int64
	products := &test.ProductRepositoryStub{
		AdjustStockFn: func(_ context.Context, _ string, delta int64) (int64, error) {
			adjusted = delta
			return 7, nil
		},
		GetByIDFn: func(_ context.Context, id string) (*model.Product, error) {
			return &model.Product{ID: id, Stock: 7}, nil
		},
	}
	uc := usecase.NewProductUseCase(products)

	product, err := uc.AdjustStock(context.Background(), "prod-1", 3)
	if err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if adjusted != 3 || product.Stock != 7 {
		t.Fatalf("unexpected result: delta=%d stock=%d", adjusted, product.Stock)
	}
}

func TestProductAdjustStock_Insufficient(t *testing.T) {
	products := &test.ProductRepositoryStub{
		AdjustStockFn: func(context.Context, string, int64) (int64, error) {
			return 0, domainErrors.ErrInsufficientStock
		},
	}
	uc := usecase.NewProductUseCase(products)

	if _, err := uc.AdjustStock(context.Background(), "prod-1", -100); !errors.Is(err, domainErrors.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
}

func TestProductAdjustStock_ZeroDeltaIsRead(t *testing.T) {
	var ledgerCalls int
	products := &test.ProductRepositoryStub{
		AdjustStockFn: func(context.Context, string, int64) (int64, error) {
			ledgerCalls++
			return 0, nil
		},
	}
	uc := usecase.NewProductUseCase(products)

	if _, err := uc.AdjustStock(context.Background(), "prod-1", 0); err != nil {
		t.Fatalf("adjust: %v", err)
	}
	if ledgerCalls != 0 {
		t.Fatal("zero delta must not touch the ledger")
	}
}
