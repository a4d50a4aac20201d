package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	domainErrors "github.com/altmarket/storefront/internal/domain/errors"
	"github.com/altmarket/storefront/internal/domain/model"
)

// PaymentsFacade exposes the subset of application functionality required by the worker.
type PaymentsFacade interface {
	StalePayments(ctx context.Context, age time.Duration, limit int) ([]model.Payment, error)
	ReconcilePayment(ctx context.Context, payment *model.Payment) (*model.Payment, error)
}

// PaymentReconciler polls for payments stuck in PENDING and settles them
// against the gateway concurrently.
type PaymentReconciler struct {
	facade       PaymentsFacade
	pollInterval time.Duration
	staleAge     time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.Payment
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewPaymentReconciler constructs the reconciliation worker pool.
func NewPaymentReconciler(facade PaymentsFacade, pollInterval, staleAge time.Duration, batchSize, workers int, logger *slog.Logger) *PaymentReconciler {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &PaymentReconciler{
		facade:       facade,
		pollInterval: pollInterval,
		staleAge:     staleAge,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.Payment, batchSize*workers),
	}
}

// Start launches background reconciliation.
func (p *PaymentReconciler) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(runCtx)
	}

	p.wg.Add(1)
	go p.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (p *PaymentReconciler) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *PaymentReconciler) dispatch(ctx context.Context) {
	defer p.wg.Done()
	defer close(p.jobs)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetchAndDispatch(ctx)
		}
	}
}

func (p *PaymentReconciler) fetchAndDispatch(ctx context.Context) {
	payments, err := p.facade.StalePayments(ctx, p.staleAge, p.batchSize)
	if err != nil {
		p.logger.Error("fetch stale payments failed", slog.String("error", err.Error()))
		return
	}
	for _, payment := range payments {
		select {
		case <-ctx.Done():
			return
		case p.jobs <- payment:
		}
	}
}

func (p *PaymentReconciler) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case payment, ok := <-p.jobs:
			if !ok {
				return
			}
			p.handlePayment(ctx, payment)
		}
	}
}

func (p *PaymentReconciler) handlePayment(ctx context.Context, payment model.Payment) {
	updated, err := p.facade.ReconcilePayment(ctx, &payment)
	if err != nil {
		if errors.Is(err, domainErrors.ErrGatewayUnavailable) {
			// Gateway is down; the payment stays PENDING and will be
			// picked up again once it goes stale.
			p.logger.Warn("gateway unavailable during reconciliation", slog.String("payment", payment.ID))
			return
		}
		p.logger.Error("payment reconciliation failed",
			slog.String("payment", payment.ID),
			slog.String("error", err.Error()))
		return
	}
	if updated.Status != payment.Status {
		p.logger.Info("payment reconciled",
			slog.String("payment", updated.ID),
			slog.String("status", string(updated.Status)))
	}
}
