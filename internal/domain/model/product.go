package model

import "time"

// Product describes a sellable item with its stock projection.
// Stock is kept non-negative by the storage layer.
type Product struct {
	ID          string
	Name        string
	Description string
	SKU         string
	Price       float64
	Stock       int64
	CategoryID  string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
