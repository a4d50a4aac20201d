package usecase

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	domainErrors "github.com/altmarket/storefront/internal/domain/errors"
	"github.com/altmarket/storefront/internal/domain/model"
	"github.com/altmarket/storefront/internal/domain/repository"
)

// PlaceOrderItem is one requested line of a new order.
type PlaceOrderItem struct {
	ProductID string
	Quantity  int64
}

// OrderUseCase encapsulates order lifecycle logic.
type OrderUseCase struct {
	orders   repository.OrderRepository
	products repository.ProductRepository
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository, products repository.ProductRepository) *OrderUseCase {
	return &OrderUseCase{orders: orders, products: products}
}

// Place creates a PENDING order, snapshotting unit prices at placement
// time. Stock is only consumed later, when the payment is confirmed; the
// availability check here fails obviously doomed orders early.
func (u *OrderUseCase) Place(ctx context.Context, userID string, items []PlaceOrderItem) (*model.Order, error) {
	if len(items) == 0 {
		return nil, domainErrors.ErrInvalidAmount
	}

	order := &model.Order{
		ID:     uuid.NewString(),
		UserID: userID,
		Status: model.OrderStatusPending,
	}

	var total float64
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, domainErrors.ErrInvalidAmount
		}
		product, err := u.products.GetByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		if !product.IsActive {
			return nil, fmt.Errorf("product %s: %w", product.ID, domainErrors.ErrNotFound)
		}
		if product.Stock < item.Quantity {
			return nil, domainErrors.ErrInsufficientStock
		}
		order.Items = append(order.Items, model.OrderItem{
			ProductID: product.ID,
			Quantity:  item.Quantity,
			UnitPrice: product.Price,
		})
		total += product.Price * float64(item.Quantity)
	}
	order.Total = math.Round(total*100) / 100

	if err := u.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// ListByUser returns the caller's orders, newest first.
func (u *OrderUseCase) ListByUser(ctx context.Context, userID string, filter repository.OrderFilter) ([]model.Order, int64, error) {
	return u.orders.ListByUser(ctx, userID, filter)
}

// Get returns an order owned by the caller.
func (u *OrderUseCase) Get(ctx context.Context, userID, orderID string) (*model.Order, error) {
	order, err := u.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, domainErrors.ErrNotFound
	}
	return order, nil
}
