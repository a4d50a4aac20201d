package usecase_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/altmarket/storefront/internal/adapter/gateway"
	domainErrors "github.com/altmarket/storefront/internal/domain/errors"
	"github.com/altmarket/storefront/internal/domain/model"
	"github.com/altmarket/storefront/internal/test"
	"github.com/altmarket/storefront/internal/usecase"
)

func fastRetry(attempts int) usecase.RetryPolicy {
	return usecase.RetryPolicy{Attempts: attempts, Backoff: time.Millisecond}
}

func strPtr(s string) *string { return &s }

func TestCreateIntent_Success(t *testing.T) {
	orders := &test.OrderRepositoryStub{}
	var created *model.Payment
	var attachedProvider string
	payments := &test.PaymentRepositoryStub{
		CreateFn: func(_ context.Context, p *model.Payment) error {
			copied := *p
			created = &copied
			return nil
		},
		AttachProviderIntentFn: func(_ context.Context, paymentID, providerID string) error {
			attachedProvider = providerID
			return nil
		},
	}
	gw := &test.GatewayStub{
		CreateIntentFn: func(_ context.Context, req gateway.CreateIntentRequest) (*model.RemoteIntent, error) {
			return &model.RemoteIntent{
				ProviderID:   "pi_123",
				ClientSecret: "pi_123_secret",
				Status:       model.RemoteStatusRequiresAction,
			}, nil
		},
	}

	uc := usecase.NewPaymentUseCase(payments, orders, gw, fastRetry(3))
	payment, secret, err := uc.CreateIntent(context.Background(), "user-1", "order-1", 49.99, "", "two widgets")
	if err != nil {
		t.Fatalf("create intent: %v", err)
	}
	if secret != "pi_123_secret" {
		t.Fatalf("unexpected client secret: %q", secret)
	}
	if payment.Status != model.PaymentStatusPending {
		t.Fatalf("unexpected status: %s", payment.Status)
	}
	if payment.Currency != usecase.DefaultCurrency {
		t.Fatalf("unexpected currency: %q", payment.Currency)
	}
	if payment.ProviderIntentID == nil || *payment.ProviderIntentID != "pi_123" {
		t.Fatal("expected provider intent id to be attached")
	}
	if created == nil || created.PaymentMethod != "STRIPE" {
		t.Fatal("expected local payment record created before gateway call")
	}
	if attachedProvider != "pi_123" {
		t.Fatalf("unexpected attached provider id: %q", attachedProvider)
	}
	if len(gw.CreatedRequests) != 1 {
		t.Fatalf("expected exactly one gateway call, got %d", len(gw.CreatedRequests))
	}
	req := gw.CreatedRequests[0]
	if req.Metadata["order_id"] != "order-1" || req.Metadata["payment_id"] != payment.ID {
		t.Fatalf("unexpected metadata: %#v", req.Metadata)
	}
}

func TestCreateIntent_InvalidAmount(t *testing.T) {
	gw := &test.GatewayStub{}
	uc := usecase.NewPaymentUseCase(&test.PaymentRepositoryStub{}, &test.OrderRepositoryStub{}, gw, fastRetry(1))

	for _, amount := range []float64{0, -5, 10.999} {
		if _, _, err := uc.CreateIntent(context.Background(), "user-1", "order-1", amount, "usd", ""); !errors.Is(err, domainErrors.ErrInvalidAmount) {
			t.Fatalf("amount %v: expected ErrInvalidAmount, got %v", amount, err)
		}
	}
	if gw.CreateCalls != 0 {
		t.Fatalf("gateway must not be called for invalid amounts, got %d calls", gw.CreateCalls)
	}
}

func TestCreateIntent_AmountMismatchSkipsGateway(t *testing.T) {
	orders := &test.OrderRepositoryStub{
		ReserveForPaymentFn: func(context.Context, string, string, float64) (*model.Order, error) {
			return nil, domainErrors.ErrAmountMismatch
		},
	}
	var createdPayments int32
	payments := &test.PaymentRepositoryStub{
		CreateFn: func(context.Context, *model.Payment) error {
			atomic.AddInt32(&createdPayments, 1)
			return nil
		},
	}
	gw := &test.GatewayStub{}

	uc := usecase.NewPaymentUseCase(payments, orders, gw, fastRetry(3))
	_, _, err := uc.CreateIntent(context.Background(), "user-1", "order-1", 10, "usd", "")
	if !errors.Is(err, domainErrors.ErrAmountMismatch) {
		t.Fatalf("expected ErrAmountMismatch, got %v", err)
	}
	if gw.CreateCalls != 0 {
		t.Fatal("gateway must not be contacted when the amount does not match the order")
	}
	if createdPayments != 0 {
		t.Fatal("no payment record should exist after a rejected reservation")
	}
}

func TestCreateIntent_DuplicateActivePayment(t *testing.T) {
	orders := &test.OrderRepositoryStub{
		ReserveForPaymentFn: func(context.Context, string, string, float64) (*model.Order, error) {
			return nil, domainErrors.ErrDuplicateActivePayment
		},
	}
	gw := &test.GatewayStub{}
	uc := usecase.NewPaymentUseCase(&test.PaymentRepositoryStub{}, orders, gw, fastRetry(3))

	_, _, err := uc.CreateIntent(context.Background(), "user-1", "order-1", 10, "usd", "")
	if !errors.Is(err, domainErrors.ErrDuplicateActivePayment) {
		t.Fatalf("expected ErrDuplicateActivePayment, got %v", err)
	}
	if gw.CreateCalls != 0 {
		t.Fatal("gateway must not be contacted while another payment is active")
	}
}

func TestCreateIntent_GatewayRetriesThenSucceeds(t *testing.T) {
	var calls int32
	gw := &test.GatewayStub{
		CreateIntentFn: func(context.Context, gateway.CreateIntentRequest) (*model.RemoteIntent, error) {
			if atomic.AddInt32(&calls, 1) < 3 {
				return nil, domainErrors.ErrGatewayUnavailable
			}
			return &model.RemoteIntent{ProviderID: "pi_777", ClientSecret: "sec", Status: model.RemoteStatusRequiresAction}, nil
		},
	}
	uc := usecase.NewPaymentUseCase(&test.PaymentRepositoryStub{}, &test.OrderRepositoryStub{}, gw, fastRetry(3))

	payment, _, err := uc.CreateIntent(context.Background(), "user-1", "order-1", 10, "usd", "")
	if err != nil {
		t.Fatalf("create intent: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 gateway attempts, got %d", calls)
	}
	if payment.ProviderIntentID == nil || *payment.ProviderIntentID != "pi_777" {
		t.Fatal("expected provider intent from the final attempt")
	}
}

func TestCreateIntent_GatewayExhaustedFailsPayment(t *testing.T) {
	gw := &test.GatewayStub{
		CreateIntentFn: func(context.Context, gateway.CreateIntentRequest) (*model.RemoteIntent, error) {
			return nil, domainErrors.ErrGatewayUnavailable
		},
	}
	var transitionedTo model.PaymentStatus
	payments := &test.PaymentRepositoryStub{
		TransitionFn: func(_ context.Context, paymentID string, from, to model.PaymentStatus, txID *string) (*model.Payment, error) {
			if from != model.PaymentStatusPending {
				t.Fatalf("unexpected source status: %s", from)
			}
			transitionedTo = to
			return &model.Payment{ID: paymentID, Status: to}, nil
		},
	}

	uc := usecase.NewPaymentUseCase(payments, &test.OrderRepositoryStub{}, gw, fastRetry(2))
	_, _, err := uc.CreateIntent(context.Background(), "user-1", "order-1", 10, "usd", "")
	if !errors.Is(err, domainErrors.ErrGatewayUnavailable) {
		t.Fatalf("expected ErrGatewayUnavailable, got %v", err)
	}
	if gw.CreateCalls != 2 {
		t.Fatalf("expected bounded retries, got %d calls", gw.CreateCalls)
	}
	if transitionedTo != model.PaymentStatusFailed {
		t.Fatalf("expected compensating FAILED transition, got %q", transitionedTo)
	}
}

func TestCreateIntent_NonTransientGatewayErrorNotRetried(t *testing.T) {
	gw := &test.GatewayStub{
		CreateIntentFn: func(context.Context, gateway.CreateIntentRequest) (*model.RemoteIntent, error) {
			return nil, domainErrors.ErrInvalidAmount
		},
	}
	uc := usecase.NewPaymentUseCase(&test.PaymentRepositoryStub{}, &test.OrderRepositoryStub{}, gw, fastRetry(5))

	_, _, err := uc.CreateIntent(context.Background(), "user-1", "order-1", 10, "usd", "")
	if !errors.Is(err, domainErrors.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if gw.CreateCalls != 1 {
		t.Fatalf("validation rejections must not be retried, got %d calls", gw.CreateCalls)
	}
}

func TestConfirm_SucceededCompletesAtomically(t *testing.T) {
	pending := &model.Payment{
		ID:               "pay-1",
		OrderID:          "order-1",
		UserID:           "user-1",
		Amount:           20,
		Status:           model.PaymentStatusPending,
		ProviderIntentID: strPtr("pi_123"),
	}
	items := []model.OrderItem{{ProductID: "prod-1", Quantity: 2, UnitPrice: 10}}
	orders := &test.OrderRepositoryStub{
		GetByIDFn: func(_ context.Context, id string) (*model.Order, error) {
			return &model.Order{ID: id, UserID: "user-1", Total: 20, Status: model.OrderStatusPending, Items: items}, nil
		},
	}
	var completedWith []model.OrderItem
	payments := &test.PaymentRepositoryStub{
		GetByProviderIntentFn: func(context.Context, string) (*model.Payment, error) {
			copied := *pending
			return &copied, nil
		},
		CompleteWithStockFn: func(_ context.Context, paymentID, orderID, transactionID string, its []model.OrderItem) (*model.Payment, error) {
			completedWith = its
			return &model.Payment{ID: paymentID, OrderID: orderID, Status: model.PaymentStatusCompleted, TransactionID: &transactionID}, nil
		},
	}
	gw := &test.GatewayStub{
		RetrieveFn: func(_ context.Context, providerID string) (*model.RemoteIntent, error) {
			return &model.RemoteIntent{ProviderID: providerID, Status: model.RemoteStatusSucceeded, TransactionID: "txn_9"}, nil
		},
	}

	uc := usecase.NewPaymentUseCase(payments, orders, gw, fastRetry(3))
	payment, err := uc.Confirm(context.Background(), "user-1", "pi_123", "order-1")
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if payment.Status != model.PaymentStatusCompleted {
		t.Fatalf("unexpected status: %s", payment.Status)
	}
	if payment.TransactionID == nil || *payment.TransactionID != "txn_9" {
		t.Fatal("expected transaction id recorded")
	}
	if len(completedWith) != 1 || completedWith[0].Quantity != 2 {
		t.Fatal("expected order items passed to the atomic completion")
	}
}

func TestConfirm_AlreadyCompletedIsIdempotent(t *testing.T) {
	completed := &model.Payment{
		ID:               "pay-1",
		OrderID:          "order-1",
		UserID:           "user-1",
		Status:           model.PaymentStatusCompleted,
		ProviderIntentID: strPtr("pi_123"),
		TransactionID:    strPtr("txn_1"),
	}
	payments := &test.PaymentRepositoryStub{
		GetByProviderIntentFn: func(context.Context, string) (*model.Payment, error) {
			copied := *completed
			return &copied, nil
		},
	}
	gw := &test.GatewayStub{}

	uc := usecase.NewPaymentUseCase(payments, &test.OrderRepositoryStub{}, gw, fastRetry(3))
	payment, err := uc.Confirm(context.Background(), "user-1", "pi_123", "order-1")
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if payment.Status != model.PaymentStatusCompleted {
		t.Fatalf("unexpected status: %s", payment.Status)
	}
	if gw.RetrieveCalls != 0 {
		t.Fatal("completed payments must not trigger gateway calls")
	}
}

func TestConfirm_WrongOwnerHidesPayment(t *testing.T) {
	payments := &test.PaymentRepositoryStub{
		GetByProviderIntentFn: func(context.Context, string) (*model.Payment, error) {
			return &model.Payment{ID: "pay-1", OrderID: "order-1", UserID: "user-1", Status: model.PaymentStatusPending}, nil
		},
	}
	uc := usecase.NewPaymentUseCase(payments, &test.OrderRepositoryStub{}, &test.GatewayStub{}, fastRetry(1))

	if _, err := uc.Confirm(context.Background(), "intruder", "pi_123", "order-1"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign payment, got %v", err)
	}
	if _, err := uc.Confirm(context.Background(), "user-1", "pi_123", "other-order"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for mismatched order, got %v", err)
	}
}

func TestConfirm_FallsBackToLocalID(t *testing.T) {
	pending := &model.Payment{
		ID:               "pay-local",
		OrderID:          "order-1",
		UserID:           "user-1",
		Status:           model.PaymentStatusPending,
		ProviderIntentID: strPtr("pi_123"),
	}
	payments := &test.PaymentRepositoryStub{
		GetByProviderIntentFn: func(context.Context, string) (*model.Payment, error) {
			return nil, domainErrors.ErrNotFound
		},
		GetByIDFn: func(_ context.Context, id string) (*model.Payment, error) {
			if id != "pay-local" {
				return nil, domainErrors.ErrNotFound
			}
			copied := *pending
			return &copied, nil
		},
	}
	gw := &test.GatewayStub{
		RetrieveFn: func(context.Context, string) (*model.RemoteIntent, error) {
			return &model.RemoteIntent{Status: model.RemoteStatusRequiresAction}, nil
		},
	}

	uc := usecase.NewPaymentUseCase(payments, &test.OrderRepositoryStub{}, gw, fastRetry(1))
	payment, err := uc.Confirm(context.Background(), "user-1", "pay-local", "order-1")
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if payment.ID != "pay-local" {
		t.Fatalf("unexpected payment: %s", payment.ID)
	}
}

func TestConfirm_RequiresActionLeavesPending(t *testing.T) {
	pending := &model.Payment{
		ID: "pay-1", OrderID: "order-1", UserID: "user-1",
		Status: model.PaymentStatusPending, ProviderIntentID: strPtr("pi_123"),
	}
	var transitions int32
	payments := &test.PaymentRepositoryStub{
		GetByProviderIntentFn: func(context.Context, string) (*model.Payment, error) {
			copied := *pending
			return &copied, nil
		},
		TransitionFn: func(context.Context, string, model.PaymentStatus, model.PaymentStatus, *string) (*model.Payment, error) {
			atomic.AddInt32(&transitions, 1)
			return nil, nil
		},
	}
	gw := &test.GatewayStub{
		RetrieveFn: func(context.Context, string) (*model.RemoteIntent, error) {
			return &model.RemoteIntent{Status: model.RemoteStatusRequiresAction}, nil
		},
	}

	uc := usecase.NewPaymentUseCase(payments, &test.OrderRepositoryStub{}, gw, fastRetry(1))
	payment, err := uc.Confirm(context.Background(), "user-1", "pi_123", "order-1")
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if payment.Status != model.PaymentStatusPending {
		t.Fatalf("payment must stay pending, got %s", payment.Status)
	}
	if transitions != 0 {
		t.Fatal("no transition expected while the provider waits on the customer")
	}
}

func TestConfirm_ProviderFailureFailsPayment(t *testing.T) {
	pending := &model.Payment{
		ID: "pay-1", OrderID: "order-1", UserID: "user-1",
		Status: model.PaymentStatusPending, ProviderIntentID: strPtr("pi_123"),
	}
	payments := &test.PaymentRepositoryStub{
		GetByProviderIntentFn: func(context.Context, string) (*model.Payment, error) {
			copied := *pending
			return &copied, nil
		},
	}
	gw := &test.GatewayStub{
		RetrieveFn: func(context.Context, string) (*model.RemoteIntent, error) {
			return &model.RemoteIntent{Status: model.RemoteStatusFailed, TransactionID: "txn_fail"}, nil
		},
	}

	uc := usecase.NewPaymentUseCase(payments, &test.OrderRepositoryStub{}, gw, fastRetry(1))
	payment, err := uc.Confirm(context.Background(), "user-1", "pi_123", "order-1")
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if payment.Status != model.PaymentStatusFailed {
		t.Fatalf("expected FAILED, got %s", payment.Status)
	}
}

func TestConfirm_InsufficientStockFailsPaymentButSurfacesError(t *testing.T) {
	pending := &model.Payment{
		ID: "pay-1", OrderID: "order-1", UserID: "user-1",
		Status: model.PaymentStatusPending, ProviderIntentID: strPtr("pi_123"),
	}
	orders := &test.OrderRepositoryStub{
		GetByIDFn: func(_ context.Context, id string) (*model.Order, error) {
			return &model.Order{
				ID: id, UserID: "user-1", Status: model.OrderStatusPending,
				Items: []model.OrderItem{{ProductID: "prod-1", Quantity: 5, UnitPrice: 4}},
			}, nil
		},
	}
	var failedTransition bool
	payments := &test.PaymentRepositoryStub{
		GetByProviderIntentFn: func(context.Context, string) (*model.Payment, error) {
			copied := *pending
			return &copied, nil
		},
		CompleteWithStockFn: func(context.Context, string, string, string, []model.OrderItem) (*model.Payment, error) {
			return nil, domainErrors.ErrInsufficientStock
		},
		TransitionFn: func(_ context.Context, _ string, from, to model.PaymentStatus, _ *string) (*model.Payment, error) {
			if from == model.PaymentStatusPending && to == model.PaymentStatusFailed {
				failedTransition = true
			}
			return &model.Payment{ID: "pay-1", Status: to}, nil
		},
	}
	gw := &test.GatewayStub{
		RetrieveFn: func(context.Context, string) (*model.RemoteIntent, error) {
			return &model.RemoteIntent{Status: model.RemoteStatusSucceeded, TransactionID: "txn_1"}, nil
		},
	}

	uc := usecase.NewPaymentUseCase(payments, orders, gw, fastRetry(1))
	_, err := uc.Confirm(context.Background(), "user-1", "pi_123", "order-1")
	if !errors.Is(err, domainErrors.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}
	if !failedTransition {
		t.Fatal("payment must be marked FAILED when stock runs out after capture")
	}
}

func TestConfirm_GatewayDownSurfacesUnavailable(t *testing.T) {
	pending := &model.Payment{
		ID: "pay-1", OrderID: "order-1", UserID: "user-1",
		Status: model.PaymentStatusPending, ProviderIntentID: strPtr("pi_123"),
	}
	payments := &test.PaymentRepositoryStub{
		GetByProviderIntentFn: func(context.Context, string) (*model.Payment, error) {
			copied := *pending
			return &copied, nil
		},
	}
	gw := &test.GatewayStub{
		RetrieveFn: func(context.Context, string) (*model.RemoteIntent, error) {
			return nil, domainErrors.ErrGatewayUnavailable
		},
	}

	uc := usecase.NewPaymentUseCase(payments, &test.OrderRepositoryStub{}, gw, fastRetry(2))
	if _, err := uc.Confirm(context.Background(), "user-1", "pi_123", "order-1"); !errors.Is(err, domainErrors.ErrGatewayUnavailable) {
		t.Fatalf("expected ErrGatewayUnavailable, got %v", err)
	}
	if gw.RetrieveCalls != 2 {
		t.Fatalf("expected bounded retries, got %d calls", gw.RetrieveCalls)
	}
}

func TestReconcile_CancelsOrphanedPayment(t *testing.T) {
	var cancelled bool
	payments := &test.PaymentRepositoryStub{
		TransitionFn: func(_ context.Context, _ string, from, to model.PaymentStatus, _ *string) (*model.Payment, error) {
			if from == model.PaymentStatusPending && to == model.PaymentStatusCancelled {
				cancelled = true
			}
			return &model.Payment{ID: "pay-1", Status: to}, nil
		},
	}
	uc := usecase.NewPaymentUseCase(payments, &test.OrderRepositoryStub{}, &test.GatewayStub{}, fastRetry(1))

	orphan := &model.Payment{ID: "pay-1", Status: model.PaymentStatusPending}
	payment, err := uc.Reconcile(context.Background(), orphan)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if !cancelled || payment.Status != model.PaymentStatusCancelled {
		t.Fatal("payment without a provider intent must be cancelled")
	}
}

func TestReconcile_TerminalPaymentUntouched(t *testing.T) {
	gw := &test.GatewayStub{}
	uc := usecase.NewPaymentUseCase(&test.PaymentRepositoryStub{}, &test.OrderRepositoryStub{}, gw, fastRetry(1))

	done := &model.Payment{ID: "pay-1", Status: model.PaymentStatusCompleted}
	payment, err := uc.Reconcile(context.Background(), done)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if payment != done {
		t.Fatal("terminal payments must be returned unchanged")
	}
	if gw.RetrieveCalls != 0 {
		t.Fatal("terminal payments must not trigger gateway calls")
	}
}

func TestGet_WrongOwner(t *testing.T) {
	payments := &test.PaymentRepositoryStub{
		GetByProviderIntentFn: func(context.Context, string) (*model.Payment, error) {
			return &model.Payment{ID: "pay-1", UserID: "user-1"}, nil
		},
	}
	uc := usecase.NewPaymentUseCase(payments, &test.OrderRepositoryStub{}, &test.GatewayStub{}, fastRetry(1))

	if _, err := uc.Get(context.Background(), "intruder", "pay-1"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestGetByOrder_WrongOwner(t *testing.T) {
	payments := &test.PaymentRepositoryStub{
		GetByOrderFn: func(context.Context, string) (*model.Payment, error) {
			return &model.Payment{ID: "pay-1", OrderID: "order-1", UserID: "user-1"}, nil
		},
	}
	uc := usecase.NewPaymentUseCase(payments, &test.OrderRepositoryStub{}, &test.GatewayStub{}, fastRetry(1))

	if _, err := uc.GetByOrder(context.Background(), "intruder", "order-1"); !errors.Is(err, domainErrors.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
