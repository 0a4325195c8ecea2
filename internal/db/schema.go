package db

import "database/sql"

// SchemaSQL is the complete schema for the backloop database.
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. All tests use
// this schema via GetSchemaSQL(). If repository code references a column
// that doesn't exist here, tests fail immediately with "no such column".
const SchemaSQL = `
-- Orders (purchase history shown on the orders screen)
CREATE TABLE IF NOT EXISTS orders (
	id TEXT PRIMARY KEY,
	order_date TEXT NOT NULL,
	status TEXT NOT NULL CHECK(status IN ('delivered', 'shipped', 'processing')) DEFAULT 'delivered',
	total INTEGER NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Items (order lines; return eligibility lives here)
CREATE TABLE IF NOT EXISTS items (
	id TEXT PRIMARY KEY,
	order_id TEXT NOT NULL,
	name TEXT NOT NULL,
	price INTEGER NOT NULL CHECK(price >= 0),
	quantity INTEGER NOT NULL DEFAULT 1,
	returnable INTEGER NOT NULL DEFAULT 0,
	return_deadline TEXT,
	FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_items_order ON items(order_id);

-- Confirmations (closed return requests). Request IDs carry only six
-- timestamp digits and can repeat, so rows are keyed by id.
CREATE TABLE IF NOT EXISTS confirmations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	request_id TEXT NOT NULL,
	session_id TEXT NOT NULL,
	intent TEXT NOT NULL CHECK(intent IN ('faulty', 'recycle')),
	item_id TEXT NOT NULL,
	item_name TEXT NOT NULL,
	problem_id TEXT,
	resolution TEXT CHECK(resolution IN ('exchange', 'refund')),
	condition_tier TEXT,
	has_receipt INTEGER NOT NULL DEFAULT 0,
	cart_value INTEGER NOT NULL DEFAULT 0,
	pickup_fee INTEGER NOT NULL DEFAULT 0,
	amount INTEGER NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_confirmations_request ON confirmations(request_id);
CREATE INDEX IF NOT EXISTS idx_confirmations_intent ON confirmations(intent);
CREATE INDEX IF NOT EXISTS idx_confirmations_created ON confirmations(created_at);
`

// InitSchema creates the database schema. It is idempotent.
func InitSchema(database *sql.DB) error {
	_, err := database.Exec(SchemaSQL)
	return err
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
