package model

import "time"

// Category groups products for browsing and filtering.
type Category struct {
	ID          string
	Name        string
	Slug        string
	Description string
	IsActive    bool
	CreatedAt   time.Time
}
