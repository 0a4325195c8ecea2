// Package catalog holds the order and line-item records the return wizard
// consumes. Records are immutable once loaded.
package catalog

import "time"

// OrderStatus is the fulfilment status shown on the order list.
type OrderStatus string

const (
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusProcessing OrderStatus = "processing"
)

// Item is a single order line item. Price is in the smallest currency unit.
type Item struct {
	ID             string
	OrderID        string
	Name           string
	Price          int64
	Quantity       int
	Returnable     bool
	ReturnDeadline *time.Time // nil when the item never had a return window
}

// Order groups the items bought together.
type Order struct {
	ID     string
	Date   time.Time
	Status OrderStatus
	Total  int64
	Items  []Item
}
