// Package sqlite_test contains integration tests for SQLite repositories.
//
// This file is the SINGLE POINT where the database schema is loaded for tests.
// All test setup functions use db.GetSchemaSQL() so tests run against the
// authoritative schema. Do not hardcode CREATE TABLE statements in test files;
// use setupTestDB() and the seed* helpers instead.
package sqlite_test

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/backloop/internal/db"
)

// setupTestDB creates an in-memory database with the authoritative schema.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	// Every pooled connection to :memory: is a separate database.
	testDB.SetMaxOpenConns(1)

	_, err = testDB.Exec(db.GetSchemaSQL())
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// setupSeededDB creates a test database populated with the demo catalog.
func setupSeededDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB := setupTestDB(t)
	if err := db.SeedFixtures(testDB); err != nil {
		t.Fatalf("failed to seed fixtures: %v", err)
	}
	return testDB
}

// seedOrder inserts a test order and returns its ID.
func seedOrder(t *testing.T, db *sql.DB, id, date string) string {
	t.Helper()
	if id == "" {
		id = "ORD-TEST-001"
	}
	if date == "" {
		date = "2025-01-01"
	}
	_, err := db.Exec("INSERT INTO orders (id, order_date, status, total) VALUES (?, ?, 'delivered', 0)", id, date)
	if err != nil {
		t.Fatalf("failed to seed order: %v", err)
	}
	return id
}

// seedItem inserts a test item and returns its ID.
func seedItem(t *testing.T, db *sql.DB, id, orderID string, price int64, deadline sql.NullString) string {
	t.Helper()
	_, err := db.Exec(
		"INSERT INTO items (id, order_id, name, price, quantity, returnable, return_deadline) VALUES (?, ?, ?, ?, 1, ?, ?)",
		id, orderID, "Test Item "+id, price, deadline.Valid, deadline,
	)
	if err != nil {
		t.Fatalf("failed to seed item: %v", err)
	}
	return id
}
