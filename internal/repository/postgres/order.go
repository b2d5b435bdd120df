package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/healthvault/ops-api/internal/model"
)

const orderColumns = `id, user_id, patient_id, status, created_at, updated_at`

const upsertLineQuery = `
	INSERT INTO canteen_order_item (id, order_id, menu_item_id, qty, price_cents)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (order_id, menu_item_id)
	DO UPDATE SET qty = canteen_order_item.qty + EXCLUDED.qty
`

func (r *orderRepository) CreateWithItems(ctx context.Context, order *model.CanteenOrder, items []model.OrderLine) error {
	order.ID = uuid.New()
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		insertOrder := `
			INSERT INTO canteen_order (id, user_id, patient_id, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`
		if _, err := tx.ExecContext(ctx, insertOrder,
			order.ID, order.UserID, order.PatientID, order.Status,
			order.CreatedAt, order.UpdatedAt,
		); err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for i := range items {
			items[i].ID = uuid.New()
			items[i].OrderID = order.ID
			if _, err := tx.ExecContext(ctx, upsertLineQuery,
				items[i].ID, order.ID, items[i].MenuItemID,
				items[i].Qty, items[i].PriceCents,
			); err != nil {
				return fmt.Errorf("failed to add order line: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	return r.loadItems(ctx, order)
}

func (r *orderRepository) Get(ctx context.Context, id uuid.UUID) (*model.CanteenOrder, error) {
	query := `SELECT ` + orderColumns + ` FROM canteen_order WHERE id = $1`

	var order model.CanteenOrder
	if err := r.db.GetContext(ctx, &order, query, id); err != nil {
		return nil, notFoundOr(err, "order")
	}
	if err := r.loadItems(ctx, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) UpsertItem(ctx context.Context, line *model.OrderLine) error {
	line.ID = uuid.New()
	if _, err := r.db.ExecContext(ctx, upsertLineQuery,
		line.ID, line.OrderID, line.MenuItemID, line.Qty, line.PriceCents,
	); err != nil {
		return fmt.Errorf("failed to upsert order line: %w", err)
	}
	return nil
}

// UpdateStatus is a compare-and-swap: the row only moves if it is
// still in the expected prior status.
func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to model.OrderStatus) (bool, error) {
	query := `
		UPDATE canteen_order
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`
	result, err := r.db.ExecContext(ctx, query, to, time.Now(), id, from)
	if err != nil {
		return false, fmt.Errorf("failed to update order status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

func (r *orderRepository) List(ctx context.Context, filter *model.OrderFilter) ([]*model.CanteenOrder, int, error) {
	where := " FROM canteen_order WHERE 1=1"
	args := []interface{}{}
	argCount := 1

	if filter.UserID != nil {
		where += fmt.Sprintf(" AND user_id = $%d", argCount)
		args = append(args, *filter.UserID)
		argCount++
	}
	if filter.Status != nil {
		where += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, *filter.Status)
		argCount++
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*)"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	query := "SELECT " + orderColumns + where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, filter.Limit(), filter.Offset())

	orders := []*model.CanteenOrder{}
	if err := r.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}

	for _, order := range orders {
		if err := r.loadItems(ctx, order); err != nil {
			return nil, 0, err
		}
	}
	return orders, total, nil
}

// loadItems hydrates lines and the derived total. The total is
// recomputed on every read, never trusted from storage or clients.
func (r *orderRepository) loadItems(ctx context.Context, order *model.CanteenOrder) error {
	query := `
		SELECT i.id, i.order_id, i.menu_item_id, m.name AS item_name,
		       i.qty, i.price_cents
		FROM canteen_order_item i
		JOIN menu_item m ON m.id = i.menu_item_id
		WHERE i.order_id = $1
		ORDER BY m.name ASC
	`
	items := []model.OrderLine{}
	if err := r.db.SelectContext(ctx, &items, query, order.ID); err != nil {
		return fmt.Errorf("failed to load order lines: %w", err)
	}
	order.Items = items
	order.ComputeTotal()
	return nil
}
