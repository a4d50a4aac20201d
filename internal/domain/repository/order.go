package repository

import (
	"context"

	"github.com/altmarket/storefront/internal/domain/model"
)

// OrderFilter narrows order listings.
type OrderFilter struct {
	Status *model.OrderStatus
	Page   int
	Limit  int
}

// OrderRepository describes persistence operations with orders.
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id string) (*model.Order, error)
	ListByUser(ctx context.Context, userID string, filter OrderFilter) ([]model.Order, int64, error)

	// ReserveForPayment locks the order row and verifies it may acquire a
	// payment intent: the order belongs to userID, is in PENDING status,
	// the expected amount equals the order total and no active payment
	// exists for it. Returns the order snapshot including line items.
	ReserveForPayment(ctx context.Context, orderID, userID string, amount float64) (*model.Order, error)
}
