package repository

import (
	"context"
	"time"

	"github.com/altmarket/storefront/internal/domain/model"
)

// PaymentRepository is the durable state machine for payments.
//
// Valid transitions: PENDING -> COMPLETED | FAILED | CANCELLED. Terminal
// states accept no further transitions. Payments are never deleted.
type PaymentRepository interface {
	// Create persists a new PENDING payment. Fails with
	// ErrDuplicateActivePayment when the order already has a non-terminal
	// payment.
	Create(ctx context.Context, payment *model.Payment) error

	GetByID(ctx context.Context, id string) (*model.Payment, error)
	GetByProviderIntent(ctx context.Context, providerID string) (*model.Payment, error)
	GetByOrder(ctx context.Context, orderID string) (*model.Payment, error)
	ListByUser(ctx context.Context, userID string) ([]model.Payment, error)

	// AttachProviderIntent records the provider-issued intent id once the
	// remote intent has been created.
	AttachProviderIntent(ctx context.Context, paymentID, providerID string) error

	// Transition moves the payment from the expected status to the target
	// one. Re-delivering a transition with the payment already in the target
	// state returns the current record; a mismatching terminal state fails
	// with ErrInvalidTransition.
	Transition(ctx context.Context, paymentID string, from, to model.PaymentStatus, transactionID *string) (*model.Payment, error)

	// CompleteWithStock performs the confirmation in one atomic unit:
	// decrement stock for every order item, transition the payment
	// PENDING -> COMPLETED and the order PENDING -> PROCESSING. Either all
	// mutations apply or none do.
	CompleteWithStock(ctx context.Context, paymentID, orderID, transactionID string, items []model.OrderItem) (*model.Payment, error)

	// SelectStaleForReconciliation picks PENDING payments untouched for
	// longer than age, skipping rows locked by concurrent reconcilers.
	SelectStaleForReconciliation(ctx context.Context, age time.Duration, limit int) ([]model.Payment, error)
}
