package dto

import "time"

// PlaceOrderRequest creates an order from a list of product lines.
type PlaceOrderRequest struct {
	Items []OrderItemRequest `json:"items" binding:"required"`
}

// OrderItemRequest is a single product line in a new order.
type OrderItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int64  `json:"quantity" binding:"required"`
}

// OrderItemResponse is a priced line of an order.
type OrderItemResponse struct {
	ProductID string  `json:"productId"`
	Quantity  int64   `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
}

// OrderResponse is the public view of an order.
type OrderResponse struct {
	ID        string              `json:"id"`
	UserID    string              `json:"userId"`
	Status    string              `json:"status"`
	Total     float64             `json:"total"`
	Items     []OrderItemResponse `json:"items"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
}
