package db

import (
	"database/sql"
	"fmt"
	"time"
)

// SeedFixtures populates the order catalog with the demo purchase history.
// Rows that already exist are left untouched, so it is safe to run twice.
func SeedFixtures(database *sql.DB) error {
	orders := []struct {
		id, date, status string
		total            int64
	}{
		{"ORD-2025-002", "2025-06-28", "delivered", 2398},
		{"ORD-2024-001", "2024-12-15", "delivered", 5498},
	}
	for _, o := range orders {
		if _, err := database.Exec(
			"INSERT OR IGNORE INTO orders (id, order_date, status, total) VALUES (?, ?, ?, ?)",
			o.id, o.date, o.status, o.total,
		); err != nil {
			return fmt.Errorf("seed orders: %w", err)
		}
	}

	items := []struct {
		id, orderID, name string
		price             int64
		returnable        bool
		deadline          sql.NullString
	}{
		{"1", "ORD-2025-002", "MERCAPE® - 100% Pure Copper Water Bottle | Eco Friendly Water Bottle (900 ml)", 899, true, sql.NullString{String: "2025-06-30", Valid: true}},
		{"2", "ORD-2025-002", "NOBERO Men's Solid Regular Fit Cotton T-Shirt with Round Neck (Pack of 3)", 1499, true, sql.NullString{String: "2025-06-30", Valid: true}},
		{"3", "ORD-2024-001", "CreateYourTaste - Bamboo Storage Box/Jar with lid (Set of 2, 6 * 6 * 10 inches)", 2199, false, sql.NullString{}},
		{"4", "ORD-2024-001", "New Backpack | Water-resistant, Lightweight| Travel, School, Casual, Laptop", 3299, false, sql.NullString{}},
	}
	for _, it := range items {
		if _, err := database.Exec(
			"INSERT OR IGNORE INTO items (id, order_id, name, price, quantity, returnable, return_deadline) VALUES (?, ?, ?, ?, 1, ?, ?)",
			it.id, it.orderID, it.name, it.price, it.returnable, it.deadline,
		); err != nil {
			return fmt.Errorf("seed items: %w", err)
		}
	}

	return nil
}

// SetReturnDeadline moves the return deadline of every returnable item to
// the given date. Used to reopen the demo catalog's return windows.
func SetReturnDeadline(database *sql.DB, deadline time.Time) (int64, error) {
	res, err := database.Exec(
		"UPDATE items SET return_deadline = ? WHERE returnable = 1",
		deadline.UTC().Format("2006-01-02"),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to set return deadline: %w", err)
	}
	return res.RowsAffected()
}
