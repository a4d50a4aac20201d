package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	domainErrors "github.com/altmarket/storefront/internal/domain/errors"
	"github.com/altmarket/storefront/internal/domain/model"
	"github.com/altmarket/storefront/internal/test"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func TestPaymentReconciler_ProcessesStaleBatch(t *testing.T) {
	var fetched int32
	facade := &test.ReconcilerFacadeStub{
		StaleFn: func(_ context.Context, age time.Duration, limit int) ([]model.Payment, error) {
			if atomic.AddInt32(&fetched, 1) > 1 {
				return nil, nil
			}
			if age != time.Minute {
				t.Errorf("unexpected stale age: %v", age)
			}
			if limit != 10 {
				t.Errorf("unexpected batch limit: %d", limit)
			}
			return []model.Payment{
				{ID: "pay-1", Status: model.PaymentStatusPending},
				{ID: "pay-2", Status: model.PaymentStatusPending},
			}, nil
		},
	}

	reconciler := NewPaymentReconciler(facade, 10*time.Millisecond, time.Minute, 10, 2, testLogger())
	reconciler.Start(context.Background())
	defer reconciler.Stop()

	waitFor(t, time.Second, func() bool { return facade.ReconciledCount() >= 2 })
}

func TestPaymentReconciler_GatewayOutageKeepsGoing(t *testing.T) {
	var polls int32
	facade := &test.ReconcilerFacadeStub{
		StaleFn: func(context.Context, time.Duration, int) ([]model.Payment, error) {
			if atomic.AddInt32(&polls, 1) == 1 {
				return []model.Payment{{ID: "pay-1", Status: model.PaymentStatusPending}}, nil
			}
			return nil, nil
		},
		ReconcileFn: func(context.Context, *model.Payment) (*model.Payment, error) {
			return nil, domainErrors.ErrGatewayUnavailable
		},
	}

	reconciler := NewPaymentReconciler(facade, 10*time.Millisecond, time.Minute, 5, 1, testLogger())
	reconciler.Start(context.Background())
	defer reconciler.Stop()

	// The outage must not stop polling.
	waitFor(t, time.Second, func() bool { return atomic.LoadInt32(&polls) >= 3 })
}

func TestPaymentReconciler_FetchErrorTolerated(t *testing.T) {
	var polls int32
	facade := &test.ReconcilerFacadeStub{
		StaleFn: func(context.Context, time.Duration, int) ([]model.Payment, error) {
			atomic.AddInt32(&polls, 1)
			return nil, errors.New("db down")
		},
	}

	reconciler := NewPaymentReconciler(facade, 10*time.Millisecond, time.Minute, 5, 1, testLogger())
	reconciler.Start(context.Background())
	defer reconciler.Stop()

	waitFor(t, time.Second, func() bool { return atomic.LoadInt32(&polls) >= 2 })
}

func TestPaymentReconciler_StopWaitsForWorkers(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	var finished int32
	facade := &test.ReconcilerFacadeStub{
		StaleFn: func(context.Context, time.Duration, int) ([]model.Payment, error) {
			return []model.Payment{{ID: "pay-1", Status: model.PaymentStatusPending}}, nil
		},
		ReconcileFn: func(_ context.Context, p *model.Payment) (*model.Payment, error) {
			select {
			case started <- struct{}{}:
			default:
			}
			<-release
			atomic.AddInt32(&finished, 1)
			return p, nil
		},
	}

	reconciler := NewPaymentReconciler(facade, 5*time.Millisecond, time.Minute, 1, 1, testLogger())
	reconciler.Start(context.Background())

	<-started
	close(release)
	reconciler.Stop()

	if atomic.LoadInt32(&finished) == 0 {
		t.Fatal("in-flight reconciliation must complete before Stop returns")
	}
}

func TestPaymentReconciler_DefaultsForInvalidSizes(t *testing.T) {
	reconciler := NewPaymentReconciler(&test.ReconcilerFacadeStub{}, time.Second, time.Minute, 0, 0, testLogger())
	if reconciler.workers != 1 || reconciler.batchSize != 1 {
		t.Fatalf("expected defaults, got workers=%d batch=%d", reconciler.workers, reconciler.batchSize)
	}
}
