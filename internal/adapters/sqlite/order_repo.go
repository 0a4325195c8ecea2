// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/backloop/internal/ports/secondary"
)

// OrderRepository implements secondary.OrderRepository with SQLite.
type OrderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new SQLite order repository.
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

const itemColumns = "id, order_id, name, price, quantity, returnable, return_deadline"

// List retrieves all orders with their items, newest first.
func (r *OrderRepository) List(ctx context.Context) ([]*secondary.OrderRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, order_date, status, total FROM orders ORDER BY order_date DESC, id DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	defer rows.Close()

	var orders []*secondary.OrderRecord
	byID := make(map[string]*secondary.OrderRecord)
	for rows.Next() {
		record := &secondary.OrderRecord{}
		if err := rows.Scan(&record.ID, &record.Date, &record.Status, &record.Total); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, record)
		byID[record.ID] = record
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	items, err := r.queryItems(ctx, "SELECT "+itemColumns+" FROM items ORDER BY CAST(id AS INTEGER), id")
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if order, ok := byID[item.OrderID]; ok {
			order.Items = append(order.Items, item)
		}
	}

	return orders, nil
}

// GetByID retrieves an order and its items.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*secondary.OrderRecord, error) {
	record := &secondary.OrderRecord{}
	err := r.db.QueryRowContext(ctx,
		"SELECT id, order_date, status, total FROM orders WHERE id = ?",
		id,
	).Scan(&record.ID, &record.Date, &record.Status, &record.Total)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("order %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	record.Items, err = r.queryItems(ctx,
		"SELECT "+itemColumns+" FROM items WHERE order_id = ? ORDER BY CAST(id AS INTEGER), id", id)
	if err != nil {
		return nil, err
	}

	return record, nil
}

// GetItem retrieves a single item by its ID.
func (r *OrderRepository) GetItem(ctx context.Context, id string) (*secondary.ItemRecord, error) {
	items, err := r.queryItems(ctx, "SELECT "+itemColumns+" FROM items WHERE id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("item %s not found", id)
	}
	return items[0], nil
}

func (r *OrderRepository) queryItems(ctx context.Context, query string, args ...any) ([]*secondary.ItemRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []*secondary.ItemRecord
	for rows.Next() {
		var deadline sql.NullString
		record := &secondary.ItemRecord{}
		err := rows.Scan(&record.ID, &record.OrderID, &record.Name, &record.Price,
			&record.Quantity, &record.Returnable, &deadline)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		record.ReturnDeadline = deadline.String
		items = append(items, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}

	return items, nil
}

var _ secondary.OrderRepository = (*OrderRepository)(nil)
