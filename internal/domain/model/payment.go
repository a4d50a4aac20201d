package model

import "time"

// PaymentStatus describes payment lifecycle. COMPLETED, FAILED and
// CANCELLED are terminal.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
)

// Terminal reports whether no further transitions may leave the status.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusFailed || s == PaymentStatusCancelled
}

// Payment represents one attempt to collect funds for an order.
// Amount and currency are immutable after creation.
type Payment struct {
	ID               string
	OrderID          string
	UserID           string
	Amount           float64
	Currency         string
	Status           PaymentStatus
	PaymentMethod    string
	ProviderIntentID *string
	TransactionID    *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
