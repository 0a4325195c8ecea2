package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/example/backloop/internal/core/estimate"
	"github.com/example/backloop/internal/core/evidence"
	"github.com/example/backloop/internal/core/wizard"
	"github.com/example/backloop/internal/ports/secondary"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// mockOrderRepository implements secondary.OrderRepository for testing.
type mockOrderRepository struct {
	orders  []*secondary.OrderRecord
	listErr error
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{
		orders: []*secondary.OrderRecord{
			{
				ID: "ORD-2025-002", Date: "2025-06-28", Status: "delivered", Total: 2398,
				Items: []*secondary.ItemRecord{
					{ID: "1", OrderID: "ORD-2025-002", Name: "Copper Water Bottle", Price: 899, Quantity: 1, Returnable: true, ReturnDeadline: "2025-06-30"},
					{ID: "2", OrderID: "ORD-2025-002", Name: "Cotton T-Shirt (Pack of 3)", Price: 1499, Quantity: 1, Returnable: true, ReturnDeadline: "2025-06-30"},
				},
			},
			{
				ID: "ORD-2024-001", Date: "2024-12-15", Status: "delivered", Total: 5498,
				Items: []*secondary.ItemRecord{
					{ID: "3", OrderID: "ORD-2024-001", Name: "Bamboo Storage Box", Price: 2199, Quantity: 1},
					{ID: "4", OrderID: "ORD-2024-001", Name: "New Backpack", Price: 3299, Quantity: 1},
				},
			},
		},
	}
}

func (m *mockOrderRepository) List(ctx context.Context) ([]*secondary.OrderRecord, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.orders, nil
}

func (m *mockOrderRepository) GetByID(ctx context.Context, id string) (*secondary.OrderRecord, error) {
	for _, o := range m.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, errors.New("order not found")
}

func (m *mockOrderRepository) GetItem(ctx context.Context, id string) (*secondary.ItemRecord, error) {
	for _, o := range m.orders {
		for _, it := range o.Items {
			if it.ID == id {
				return it, nil
			}
		}
	}
	return nil, errors.New("item not found")
}

// mockConfirmationRepository implements secondary.ConfirmationRepository for testing.
type mockConfirmationRepository struct {
	confirmations map[string]*secondary.ConfirmationRecord
	createErr     error
}

func newMockConfirmationRepository() *mockConfirmationRepository {
	return &mockConfirmationRepository{
		confirmations: make(map[string]*secondary.ConfirmationRecord),
	}
}

func (m *mockConfirmationRepository) Create(ctx context.Context, c *secondary.ConfirmationRecord) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.confirmations[c.RequestID] = c
	return nil
}

func (m *mockConfirmationRepository) GetByRequestID(ctx context.Context, requestID string) (*secondary.ConfirmationRecord, error) {
	if c, ok := m.confirmations[requestID]; ok {
		return c, nil
	}
	return nil, errors.New("confirmation not found")
}

func (m *mockConfirmationRepository) List(ctx context.Context, filters secondary.ConfirmationFilters) ([]*secondary.ConfirmationRecord, error) {
	var result []*secondary.ConfirmationRecord
	for _, c := range m.confirmations {
		if filters.Intent == "" || c.Intent == filters.Intent {
			result = append(result, c)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].RequestID > result[j].RequestID })
	if filters.Limit > 0 && len(result) > filters.Limit {
		result = result[:filters.Limit]
	}
	return result, nil
}

// ============================================================================
// Test Helper
// ============================================================================

// inWindow is inside the return window of items 1 and 2.
var inWindow = time.Date(2025, 6, 29, 10, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func noWait(ctx context.Context, d time.Duration) error { return ctx.Err() }

func testWizardConfig(now time.Time) wizard.Config {
	return wizard.Config{
		Pricing:      estimate.DefaultPricing(),
		Photos:       evidence.NewPhotoInspector("image/webp", 0, noWait),
		Receipts:     evidence.NewReceiptValidator([]string{"ECO-2025-001127", "ECO-2025-789012", "ECO-2024-345678"}),
		Wait:         noWait,
		Now:          func() time.Time { return now },
		SupportPhone: "+91 9372665103",
		AddOns:       []wizard.AddOnItem{{Name: "Used Books", Price: 300}},
		CartValue:    1500,
	}
}

type testService struct {
	*ReturnServiceImpl
	orders        *mockOrderRepository
	confirmations *mockConfirmationRepository
	events        []string
}

func newTestReturnService(now time.Time) *testService {
	ts := &testService{
		orders:        newMockOrderRepository(),
		confirmations: newMockConfirmationRepository(),
	}
	executor := NewEffectExecutor(ts.confirmations, discardLogger(), func(event, sessionID string) {
		ts.events = append(ts.events, event+":"+sessionID)
	})
	ts.ReturnServiceImpl = NewReturnService(ts.orders, ts.confirmations, executor, testWizardConfig(now), discardLogger())
	return ts
}
