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

func TestPlaceOrder_SnapshotsPricesAndTotal(t *testing.T) {
	products := &test.ProductRepositoryStub{
		GetByIDFn: func(_ context.Context, id string) (*model.Product, error) {
			prices := map[string]float64{"prod-1": 19.99, "prod-2": 5.01}
			return &model.Product{ID: id, Price: prices[id], Stock: 10, IsActive: true}, nil
		},
	}
	var stored *model.Order
	orders := &test.OrderRepositoryStub{
		CreateFn: func(_ context.Context, o *model.Order) error {
			stored = o
			return nil
		},
	}

	uc := usecase.NewOrderUseCase(orders, products)
	order, err := uc.Place(context.Background(), "user-1", []usecase.PlaceOrderItem{
		{ProductID: "prod-1", Quantity: 2},
		{ProductID: "prod-2", Quantity: 1},
	})
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if order.Status != model.OrderStatusPending {
		t.Fatalf("unexpected status: %s", order.Status)
	}
	if order.Total != 44.99 {
		t.Fatalf("unexpected total: %v", order.Total)
	}
	if len(order.Items) != 2 || order.Items[0].UnitPrice != 19.99 {
		t.Fatal("expected unit prices captured at placement")
	}
	if stored == nil {
		t.Fatal("expected order persisted")
	}
}

func TestPlaceOrder_EmptyOrInvalidItems(t *testing.T) {
	uc := usecase.NewOrderUseCase(&test.OrderRepositoryStub{}, &test.ProductRepositoryStub{})

	if _, err := uc.Place(context.Background(), "user-1", nil); !errors.Is(err, domainErrors.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for empty order, got %v", err)
	}
	if _, err := uc.Place(context.Background(), "user-1", []usecase.PlaceOrderItem{{ProductID: "prod-1", Quantity: 0}}); !errors.Is(err, domainErrors.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for zero quantity, got %v", err)
	}
}

func TestPlaceOrder_InactiveProduct(t *testing.T) {
	products := &test.ProductRepositoryStub{
		GetByIDFn: func(_ context.Context, id string) (*model.Product, error) {
			return &model.Product{ID: id, Price: 10, Stock: 10, IsActive: false}, nil
		},
	}
	uc := usecase.NewOrderUseCase(&test.OrderRepositoryStub{}, products)

	if _, err := uc.Place(context.Background(), "user-1", []usecase.PlaceOrderItem{{ProductID: "prod-1", Quantity: 1}}); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for inactive product, got %v", err)
	}
}

func TestPlaceOrder_InsufficientStockFailsFast(t *testing.T) {
	products := &test.ProductRepositoryStub{
		GetByIDFn: func(_ context.Context, id string) (*model.Product, error) {
			return &model.Product{ID: id, Price: 10, Stock: 1, IsActive: true}, nil
		},
	}
	var created bool
	orders := &test.OrderRepositoryStub{
		CreateFn: func(context.Context, *model.Order) error {
			created = true
			return nil
		},
	}

	uc := usecase.NewOrderUseCase(orders, products)
	if _, err := uc.Place(context.Background(), "user-1", []usecase.PlaceOrderItem{{ProductID: "prod-1", Quantity: 3}}); !errors.Is(err, domainErrors.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if created {
		t.Fatal("doomed orders must not be persisted")
	}
}

func TestOrderGet_WrongOwner(t *testing.T) {
	orders := &test.OrderRepositoryStub{
		GetByIDFn: func(_ context.Context, id string) (*model.Order, error) {
			return &model.Order{ID: id, UserID: "user-1"}, nil
		},
	}
	uc := usecase.NewOrderUseCase(orders, &test.ProductRepositoryStub{})

	if _, err := uc.Get(context.Background(), "intruder", "order-1"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
