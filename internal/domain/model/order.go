package model

import "time"

// OrderStatus describes order lifecycle.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// OrderItem is a line of an order with the unit price captured at
// placement time.
type OrderItem struct {
	ID        int64
	OrderID   string
	ProductID string
	Quantity  int64
	UnitPrice float64
}

// Order describes a purchasing transaction placed by a user.
type Order struct {
	ID        string
	UserID    string
	Total     float64
	Status    OrderStatus
	Items     []OrderItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Payable reports whether a payment intent may be acquired for the order.
func (o *Order) Payable() bool {
	return o.Status == OrderStatusPending
}
