package postgres

import (
	"context"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/altmarket/storefront/internal/domain/errors"
	"github.com/altmarket/storefront/internal/domain/model"
	"github.com/altmarket/storefront/internal/domain/repository"
)

const orderColumns = `id, user_id, total, status, created_at, updated_at`

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		const insertOrder = `INSERT INTO orders (id, user_id, total, status)
                             VALUES ($1, $2, $3, $4) RETURNING created_at, updated_at`
		err := tx.QueryRow(ctx, insertOrder, order.ID, order.UserID, order.Total, order.Status).
			Scan(&order.CreatedAt, &order.UpdatedAt)
		if err != nil {
			return err
		}

		const insertItem = `INSERT INTO order_items (order_id, product_id, quantity, unit_price)
                            VALUES ($1, $2, $3, $4) RETURNING id`
		for i := range order.Items {
			item := &order.Items[i]
			item.OrderID = order.ID
			if err := tx.QueryRow(ctx, insertItem, order.ID, item.ProductID, item.Quantity, item.UnitPrice).Scan(&item.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	var o model.Order
	err := r.storage.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1`, id).
		Scan(&o.ID, &o.UserID, &o.Total, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, notFoundOr(err)
	}

	items, err := loadOrderItems(ctx, r.storage.pool, id)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID string, filter repository.OrderFilter) ([]model.Order, int64, error) {
	where := ` WHERE user_id=$1`
	args := []any{userID}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where += fmt.Sprintf(` AND status=$%d`, len(args))
	}

	var total int64
	if err := r.storage.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + orderColumns + ` FROM orders` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, pageLimit(filter.Limit), pageOffset(filter.Page, filter.Limit))

	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		var o model.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Total, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, 0, err
		}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// ReserveForPayment validates order payability under a row lock so a
// concurrent confirmation or second intent cannot slip between the check
// and the payment insert.
func (r *orderRepository) ReserveForPayment(ctx context.Context, orderID, userID string, amount float64) (*model.Order, error) {
	var order *model.Order
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		var o model.Order
		err := tx.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id=$1 FOR UPDATE`, orderID).
			Scan(&o.ID, &o.UserID, &o.Total, &o.Status, &o.CreatedAt, &o.UpdatedAt)
		if err != nil {
			return notFoundOr(err)
		}
		if o.UserID != userID {
			return domainErrors.ErrNotFound
		}
		if !o.Payable() {
			return domainErrors.ErrOrderNotPayable
		}
		if !sameAmount(amount, o.Total) {
			return domainErrors.ErrAmountMismatch
		}

		var active bool
		if err := tx.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM payments WHERE order_id=$1 AND status=$2)`,
			orderID, model.PaymentStatusPending).Scan(&active); err != nil {
			return err
		}
		if active {
			return domainErrors.ErrDuplicateActivePayment
		}

		items, err := loadOrderItems(ctx, tx, orderID)
		if err != nil {
			return err
		}
		o.Items = items
		order = &o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func loadOrderItems(ctx context.Context, q querier, orderID string) ([]model.OrderItem, error) {
	const query = `SELECT id, order_id, product_id, quantity, unit_price FROM order_items WHERE order_id=$1 ORDER BY id`
	rows, err := q.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.OrderItem
	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// sameAmount compares money values at cent precision.
func sameAmount(a, b float64) bool {
	return math.Round(a*100) == math.Round(b*100)
}
