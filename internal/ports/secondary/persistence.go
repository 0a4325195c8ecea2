// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import "context"

// OrderRepository defines the secondary port for the order catalog.
// The catalog is read-only at runtime; it is populated by `backloop init`.
type OrderRepository interface {
	// List retrieves all orders with their items, newest first.
	List(ctx context.Context) ([]*OrderRecord, error)

	// GetByID retrieves an order and its items.
	GetByID(ctx context.Context, id string) (*OrderRecord, error)

	// GetItem retrieves a single item by its ID.
	GetItem(ctx context.Context, id string) (*ItemRecord, error)
}

// OrderRecord represents an order as stored in persistence.
type OrderRecord struct {
	ID     string
	Date   string // YYYY-MM-DD
	Status string
	Total  int64
	Items  []*ItemRecord
}

// ItemRecord represents an order line as stored in persistence.
type ItemRecord struct {
	ID             string
	OrderID        string
	Name           string
	Price          int64
	Quantity       int
	Returnable     bool
	ReturnDeadline string // YYYY-MM-DD, empty string means null
}

// ConfirmationRepository defines the secondary port for the ledger of
// closed return requests.
type ConfirmationRepository interface {
	// Create persists a new confirmation.
	Create(ctx context.Context, c *ConfirmationRecord) error

	// GetByRequestID retrieves the newest confirmation with the request ID.
	// Request IDs may repeat.
	GetByRequestID(ctx context.Context, requestID string) (*ConfirmationRecord, error)

	// List retrieves confirmations matching the given filters, newest first.
	List(ctx context.Context, filters ConfirmationFilters) ([]*ConfirmationRecord, error)
}

// ConfirmationRecord represents a closed return request as stored in persistence.
type ConfirmationRecord struct {
	RequestID  string
	SessionID  string
	Intent     string
	ItemID     string
	ItemName   string
	ProblemID  string // Empty string means null
	Resolution string // Empty string means null
	Condition  string // Empty string means null
	HasReceipt bool
	CartValue  int64
	PickupFee  int64
	Amount     int64
	CreatedAt  string
}

// ConfirmationFilters contains filter options for querying confirmations.
type ConfirmationFilters struct {
	Intent string
	Limit  int
}
