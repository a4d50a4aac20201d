package dto

import "time"

// ProductRequest creates or updates a product.
type ProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	SKU         string  `json:"sku" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int64   `json:"stock"`
	CategoryID  string  `json:"categoryId"`
	Active      *bool   `json:"active"`
}

// AdjustStockRequest shifts product stock by a signed delta.
type AdjustStockRequest struct {
	Delta int64 `json:"delta" binding:"required"`
}

// ProductResponse is the public view of a product.
type ProductResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	SKU         string    `json:"sku"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Stock       int64     `json:"stock"`
	CategoryID  string    `json:"categoryId,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
