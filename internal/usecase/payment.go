package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/altmarket/storefront/internal/adapter/gateway"
	domainErrors "github.com/altmarket/storefront/internal/domain/errors"
	"github.com/altmarket/storefront/internal/domain/model"
	"github.com/altmarket/storefront/internal/domain/repository"
)

// paymentMethodLabel is recorded on every payment created through the
// card-processing provider.
const paymentMethodLabel = "STRIPE"

// RetryPolicy bounds retries of transient gateway failures.
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
}

// PaymentUseCase orchestrates payment intents and their confirmation across
// the payment record, the order and product stock.
type PaymentUseCase struct {
	payments repository.PaymentRepository
	orders   repository.OrderRepository
	gateway  gateway.Client
	retry    RetryPolicy
}

// NewPaymentUseCase constructs PaymentUseCase.
func NewPaymentUseCase(payments repository.PaymentRepository, orders repository.OrderRepository, gw gateway.Client, retry RetryPolicy) *PaymentUseCase {
	if retry.Attempts <= 0 {
		retry.Attempts = 1
	}
	if retry.Backoff <= 0 {
		retry.Backoff = 100 * time.Millisecond
	}
	return &PaymentUseCase{payments: payments, orders: orders, gateway: gw, retry: retry}
}

// CreateIntent acquires a payment intent for a payable order. The order is
// validated and locked first, the local PENDING record is created next, and
// only then is the provider contacted, so a gateway failure can be
// compensated by failing the local payment.
func (u *PaymentUseCase) CreateIntent(ctx context.Context, userID, orderID string, amount float64, currency, description string) (*model.Payment, string, error) {
	if !ValidateAmount(amount) {
		return nil, "", domainErrors.ErrInvalidAmount
	}
	currency = NormalizeCurrency(currency)
	if currency == "" {
		return nil, "", domainErrors.ErrInvalidAmount
	}

	order, err := u.orders.ReserveForPayment(ctx, orderID, userID, amount)
	if err != nil {
		return nil, "", err
	}

	payment := &model.Payment{
		ID:            uuid.NewString(),
		OrderID:       order.ID,
		UserID:        userID,
		Amount:        amount,
		Currency:      currency,
		Status:        model.PaymentStatusPending,
		PaymentMethod: paymentMethodLabel,
	}
	if err := u.payments.Create(ctx, payment); err != nil {
		return nil, "", err
	}

	intent, err := u.createRemoteIntent(ctx, payment, description)
	if err != nil {
		// Compensating action: the remote intent never materialized, so
		// the local record must not stay active.
		if _, terr := u.payments.Transition(ctx, payment.ID, model.PaymentStatusPending, model.PaymentStatusFailed, nil); terr != nil {
			return nil, "", fmt.Errorf("%w (compensation failed: %v)", err, terr)
		}
		return nil, "", err
	}

	if err := u.payments.AttachProviderIntent(ctx, payment.ID, intent.ProviderID); err != nil {
		return nil, "", err
	}
	providerID := intent.ProviderID
	payment.ProviderIntentID = &providerID

	return payment, intent.ClientSecret, nil
}

func (u *PaymentUseCase) createRemoteIntent(ctx context.Context, payment *model.Payment, description string) (*model.RemoteIntent, error) {
	return u.withGatewayRetry(ctx, func() (*model.RemoteIntent, error) {
		return u.gateway.CreateIntent(ctx, gateway.CreateIntentRequest{
			Amount:      payment.Amount,
			Currency:    payment.Currency,
			Description: description,
			Metadata: map[string]string{
				"order_id":   payment.OrderID,
				"payment_id": payment.ID,
			},
		})
	})
}

// Confirm settles a payment according to the provider-reported status.
// Calling it repeatedly for a completed payment is a no-op returning the
// existing record; duplicate gateway callbacks are therefore safe.
func (u *PaymentUseCase) Confirm(ctx context.Context, userID, intentID, orderID string) (*model.Payment, error) {
	payment, err := u.lookup(ctx, intentID)
	if err != nil {
		return nil, err
	}
	if payment.UserID != userID || payment.OrderID != orderID {
		return nil, domainErrors.ErrNotFound
	}

	return u.settle(ctx, payment)
}

// Reconcile re-drives a stale pending payment through the confirmation
// logic. Payments that never obtained a provider intent are cancelled.
func (u *PaymentUseCase) Reconcile(ctx context.Context, payment *model.Payment) (*model.Payment, error) {
	if payment.Status != model.PaymentStatusPending {
		return payment, nil
	}
	if payment.ProviderIntentID == nil {
		return u.payments.Transition(ctx, payment.ID, model.PaymentStatusPending, model.PaymentStatusCancelled, nil)
	}
	return u.settle(ctx, payment)
}

func (u *PaymentUseCase) settle(ctx context.Context, payment *model.Payment) (*model.Payment, error) {
	if payment.Status == model.PaymentStatusCompleted {
		return payment, nil
	}
	if payment.Status.Terminal() {
		return nil, domainErrors.ErrInvalidTransition
	}
	if payment.ProviderIntentID == nil {
		// Never reached the provider; there is nothing to verify against.
		return nil, domainErrors.ErrInvalidTransition
	}

	remote, err := u.withGatewayRetry(ctx, func() (*model.RemoteIntent, error) {
		return u.gateway.RetrieveIntent(ctx, *payment.ProviderIntentID)
	})
	if err != nil {
		return nil, err
	}

	switch remote.Status {
	case model.RemoteStatusSucceeded:
		return u.complete(ctx, payment, remote)
	case model.RemoteStatusFailed:
		return u.payments.Transition(ctx, payment.ID, model.PaymentStatusPending, model.PaymentStatusFailed, optional(remote.TransactionID))
	case model.RemoteStatusCanceled:
		return u.payments.Transition(ctx, payment.ID, model.PaymentStatusPending, model.PaymentStatusCancelled, nil)
	default:
		// Provider still waits on the customer; no local state change.
		return payment, nil
	}
}

func (u *PaymentUseCase) complete(ctx context.Context, payment *model.Payment, remote *model.RemoteIntent) (*model.Payment, error) {
	order, err := u.orders.GetByID(ctx, payment.OrderID)
	if err != nil {
		return nil, err
	}

	completed, err := u.payments.CompleteWithStock(ctx, payment.ID, order.ID, remote.TransactionID, order.Items)
	if err == nil {
		return completed, nil
	}

	if errors.Is(err, domainErrors.ErrInsufficientStock) {
		// Money was collected but goods ran out. The payment is failed and
		// left to manual reconciliation; the order stays payable-looking
		// but holds no completed payment.
		if _, terr := u.payments.Transition(ctx, payment.ID, model.PaymentStatusPending, model.PaymentStatusFailed, optional(remote.TransactionID)); terr != nil {
			return nil, fmt.Errorf("%w (marking payment failed: %v)", err, terr)
		}
	}
	return nil, err
}

// lookup resolves a payment by provider intent id first, then by local id.
func (u *PaymentUseCase) lookup(ctx context.Context, intentID string) (*model.Payment, error) {
	payment, err := u.payments.GetByProviderIntent(ctx, intentID)
	if err == nil {
		return payment, nil
	}
	if !errors.Is(err, domainErrors.ErrNotFound) {
		return nil, err
	}
	return u.payments.GetByID(ctx, intentID)
}

// ListByUser returns the caller's payments, newest first.
func (u *PaymentUseCase) ListByUser(ctx context.Context, userID string) ([]model.Payment, error) {
	return u.payments.ListByUser(ctx, userID)
}

// Get returns a payment owned by the caller.
func (u *PaymentUseCase) Get(ctx context.Context, userID, paymentID string) (*model.Payment, error) {
	payment, err := u.lookup(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if payment.UserID != userID {
		return nil, domainErrors.ErrNotFound
	}
	return payment, nil
}

// GetByOrder returns the latest payment for the caller's order.
func (u *PaymentUseCase) GetByOrder(ctx context.Context, userID, orderID string) (*model.Payment, error) {
	payment, err := u.payments.GetByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if payment.UserID != userID {
		return nil, domainErrors.ErrNotFound
	}
	return payment, nil
}

// SelectStale exposes the reconciliation batch selection to the worker.
func (u *PaymentUseCase) SelectStale(ctx context.Context, age time.Duration, limit int) ([]model.Payment, error) {
	return u.payments.SelectStaleForReconciliation(ctx, age, limit)
}

// withGatewayRetry retries transient gateway failures with doubling backoff.
// Validation rejections are surfaced immediately.
func (u *PaymentUseCase) withGatewayRetry(ctx context.Context, fn func() (*model.RemoteIntent, error)) (*model.RemoteIntent, error) {
	backoff := u.retry.Backoff
	var lastErr error
	for attempt := 0; attempt < u.retry.Attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		intent, err := fn()
		if err == nil {
			return intent, nil
		}
		if !errors.Is(err, domainErrors.ErrGatewayUnavailable) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
