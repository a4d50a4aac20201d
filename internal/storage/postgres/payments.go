package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/altmarket/storefront/internal/domain/errors"
	"github.com/altmarket/storefront/internal/domain/model"
)

const paymentColumns = `id, order_id, user_id, amount, currency, status, payment_method, provider_intent_id, transaction_id, created_at, updated_at`

func scanPayment(row interface{ Scan(dest ...any) error }) (*model.Payment, error) {
	var p model.Payment
	err := row.Scan(&p.ID, &p.OrderID, &p.UserID, &p.Amount, &p.Currency, &p.Status,
		&p.PaymentMethod, &p.ProviderIntentID, &p.TransactionID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	const query = `INSERT INTO payments (id, order_id, user_id, amount, currency, status, payment_method)
                   VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at, updated_at`
	err := r.storage.pool.QueryRow(ctx, query,
		payment.ID, payment.OrderID, payment.UserID, payment.Amount,
		payment.Currency, payment.Status, payment.PaymentMethod,
	).Scan(&payment.CreatedAt, &payment.UpdatedAt)
	if err != nil {
		// The partial unique index on (order_id) WHERE status='PENDING'
		// is what enforces the one-active-payment invariant under races.
		if isUniqueViolation(err) {
			return domainErrors.ErrDuplicateActivePayment
		}
		return err
	}
	return nil
}

func (r *paymentRepository) GetByID(ctx context.Context, id string) (*model.Payment, error) {
	p, err := scanPayment(r.storage.pool.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id=$1`, id))
	if err != nil {
		return nil, notFoundOr(err)
	}
	return p, nil
}

func (r *paymentRepository) GetByProviderIntent(ctx context.Context, providerID string) (*model.Payment, error) {
	p, err := scanPayment(r.storage.pool.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE provider_intent_id=$1`, providerID))
	if err != nil {
		return nil, notFoundOr(err)
	}
	return p, nil
}

func (r *paymentRepository) GetByOrder(ctx context.Context, orderID string) (*model.Payment, error) {
	const query = `SELECT ` + paymentColumns + ` FROM payments WHERE order_id=$1 ORDER BY created_at DESC LIMIT 1`
	p, err := scanPayment(r.storage.pool.QueryRow(ctx, query, orderID))
	if err != nil {
		return nil, notFoundOr(err)
	}
	return p, nil
}

func (r *paymentRepository) ListByUser(ctx context.Context, userID string) ([]model.Payment, error) {
	const query = `SELECT ` + paymentColumns + ` FROM payments WHERE user_id=$1 ORDER BY created_at DESC`
	rows, err := r.storage.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *paymentRepository) AttachProviderIntent(ctx context.Context, paymentID, providerID string) error {
	const query = `UPDATE payments SET provider_intent_id=$2, updated_at=NOW() WHERE id=$1`
	tag, err := r.storage.pool.Exec(ctx, query, paymentID, providerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *paymentRepository) Transition(ctx context.Context, paymentID string, from, to model.PaymentStatus, transactionID *string) (*model.Payment, error) {
	const query = `UPDATE payments SET status=$3, transaction_id=COALESCE($4, transaction_id), updated_at=NOW()
                   WHERE id=$1 AND status=$2 RETURNING ` + paymentColumns
	p, err := scanPayment(r.storage.pool.QueryRow(ctx, query, paymentID, from, to, transactionID))
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	// Guard did not match: resolve idempotent redelivery vs. a genuinely
	// invalid transition by looking at the current state.
	current, getErr := r.GetByID(ctx, paymentID)
	if getErr != nil {
		return nil, getErr
	}
	if current.Status == to {
		return current, nil
	}
	return nil, domainErrors.ErrInvalidTransition
}

// CompleteWithStock applies the whole confirmation as one atomic unit: every
// order line's stock decrement, the payment PENDING -> COMPLETED transition
// and the order PENDING -> PROCESSING transition commit together or roll
// back together. Lock conflicts are retried once.
func (r *paymentRepository) CompleteWithStock(ctx context.Context, paymentID, orderID, transactionID string, items []model.OrderItem) (*model.Payment, error) {
	var payment *model.Payment
	err := r.storage.withConflictRetry(ctx, func(tx pgx.Tx) error {
		payment = nil

		current, err := scanPayment(tx.QueryRow(ctx, `SELECT `+paymentColumns+` FROM payments WHERE id=$1 FOR UPDATE`, paymentID))
		if err != nil {
			return notFoundOr(err)
		}
		if current.Status == model.PaymentStatusCompleted {
			// Duplicate confirmation already applied; nothing to mutate.
			payment = current
			return nil
		}
		if current.Status != model.PaymentStatusPending {
			return domainErrors.ErrInvalidTransition
		}

		for _, item := range items {
			if _, err := adjustStock(ctx, tx, item.ProductID, -item.Quantity); err != nil {
				return err
			}
		}

		const updatePayment = `UPDATE payments SET status=$2, transaction_id=$3, updated_at=NOW()
                               WHERE id=$1 RETURNING ` + paymentColumns
		payment, err = scanPayment(tx.QueryRow(ctx, updatePayment, paymentID, model.PaymentStatusCompleted, transactionID))
		if err != nil {
			return err
		}

		const updateOrder = `UPDATE orders SET status=$2, updated_at=NOW() WHERE id=$1 AND status=$3`
		tag, err := tx.Exec(ctx, updateOrder, orderID, model.OrderStatusProcessing, model.OrderStatusPending)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domainErrors.ErrOrderNotPayable
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (r *paymentRepository) SelectStaleForReconciliation(ctx context.Context, age time.Duration, limit int) ([]model.Payment, error) {
	const selectQuery = `SELECT ` + paymentColumns + `
                         FROM payments
                         WHERE status='PENDING' AND updated_at < NOW() - make_interval(secs => $1)
                         ORDER BY updated_at
                         LIMIT $2
                         FOR UPDATE SKIP LOCKED`

	var payments []model.Payment
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectQuery, age.Seconds(), limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			p, err := scanPayment(rows)
			if err != nil {
				return err
			}
			payments = append(payments, *p)
		}
		if err := rows.Err(); err != nil {
			return err
		}

		// Bump updated_at so the next poll does not re-pick the same batch
		// while confirmations are still in flight.
		for _, p := range payments {
			if _, err := tx.Exec(ctx, `UPDATE payments SET updated_at=NOW() WHERE id=$1`, p.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payments, nil
}
