// Package primary defines the primary ports (driving adapters) for the application.
// These are the interfaces through which the outside world drives the application.
package primary

import "context"

// ReturnService defines the primary port for return and recycle requests.
// It owns at most one live session; the step operations act on it.
type ReturnService interface {
	// ListOrders retrieves the purchase history with the actions each item offers.
	ListOrders(ctx context.Context) ([]*Order, error)

	// GetOrder retrieves a single order with its items.
	GetOrder(ctx context.Context, orderID string) (*Order, error)

	// StartSession begins a session for an item, replacing any live session.
	StartSession(ctx context.Context, req StartSessionRequest) (*Session, error)

	// CurrentSession returns a snapshot of the live session.
	CurrentSession(ctx context.Context) (*Session, error)

	// AcceptInstructions records acknowledgment of the return guidelines.
	AcceptInstructions(ctx context.Context, accepted bool) (*StepResult, error)

	// ContinueToProblem moves Instructions → Problem.
	ContinueToProblem(ctx context.Context) (*StepResult, error)

	// SelectProblem selects a fault category.
	SelectProblem(ctx context.Context, problemID string) (*StepResult, error)

	// DescribeProblem records the problem description.
	DescribeProblem(ctx context.Context, text string) (*StepResult, error)

	// ContinueToSolution moves Problem → Solution.
	ContinueToSolution(ctx context.Context) (*StepResult, error)

	// SelectResolution selects "exchange" or "refund".
	SelectResolution(ctx context.Context, resolution string) (*StepResult, error)

	// ContinueToConfirm moves Solution → Confirm.
	ContinueToConfirm(ctx context.Context) (*StepResult, error)

	// UploadPhoto uploads and inspects a product photo. Blocks until inspected.
	UploadPhoto(ctx context.Context, req UploadPhotoRequest) (*StepResult, error)

	// RemovePhoto clears the photo and its error.
	RemovePhoto(ctx context.Context) (*StepResult, error)

	// SetCondition records the condition description.
	SetCondition(ctx context.Context, text string) (*StepResult, error)

	// SetReceiptCode records the optional receipt code.
	SetReceiptCode(ctx context.Context, code string) (*StepResult, error)

	// AddCartItem adds a configured add-on item to the cart.
	AddCartItem(ctx context.Context, name string) (*StepResult, error)

	// RequestEstimate generates the recycle estimate. Blocks until computed.
	RequestEstimate(ctx context.Context) (*StepResult, error)

	// AcceptEstimate moves Estimate → Confirm.
	AcceptEstimate(ctx context.Context) (*StepResult, error)

	// Back follows the current step's back edge.
	Back(ctx context.Context) (*StepResult, error)

	// SchedulePickup moves Confirm → Complete.
	SchedulePickup(ctx context.Context) (*StepResult, error)

	// CloseSession acknowledges a completed session, stores its confirmation
	// and discards the session.
	CloseSession(ctx context.Context) (*Confirmation, error)

	// ListConfirmations retrieves stored confirmations.
	ListConfirmations(ctx context.Context, filters ConfirmationFilters) ([]*Confirmation, error)

	// GetConfirmation retrieves the newest stored confirmation for a request ID.
	GetConfirmation(ctx context.Context, requestID string) (*Confirmation, error)
}

// StartSessionRequest contains parameters for starting a session.
type StartSessionRequest struct {
	ItemID    string
	Intent    string // "faulty" or "recycle"
	CartValue *int64 // nil uses the configured default
}

// UploadPhotoRequest contains an uploaded photo.
type UploadPhotoRequest struct {
	Filename  string
	MediaType string
	Data      []byte
}

// StepResult is the outcome of a step operation.
type StepResult struct {
	Allowed bool
	Reason  string // populated when not allowed
	Field   string // input that must change, if any
	Session *Session
}

// Order represents an order at the port boundary.
type Order struct {
	ID     string
	Date   string
	Status string
	Total  int64
	Items  []*Item
}

// Item represents an order line at the port boundary.
type Item struct {
	ID             string
	OrderID        string
	Name           string
	Price          int64
	Quantity       int
	Returnable     bool
	ReturnDeadline string
	Actions        []string // "report-fault", "recycle"
}

// Problem is a selectable fault category.
type Problem struct {
	ID          string
	Label       string
	Description string
}

// AddOnItem is an item that can be added to the cart.
type AddOnItem struct {
	Name  string
	Price int64
}

// Session is a snapshot of the live session at the port boundary.
type Session struct {
	ID       string
	Intent   string
	ItemID   string
	ItemName string
	Price    int64

	Step        string
	VisibleStep string
	StepIndex   int
	StepTotal   int
	TrackLabels []string
	Processing  bool
	Closed      bool

	// Faulty track
	Guidelines           []string
	Problems             []Problem
	InstructionsAccepted bool
	ProblemID            string
	Description          string
	Resolution           string

	// Recycle track
	PhotoName          string
	PhotoAccepted      bool
	Condition          string
	ReceiptCode        string
	CartValue          int64
	AmountToFreePickup int64
	AddOns             []AddOnItem

	PhotoError   string
	ReceiptError string
	SupportHint  string

	Estimate     *Estimate
	Confirmation *Confirmation
}

// Estimate is a computed recycle estimate at the port boundary.
type Estimate struct {
	Price               int64
	Base                float64
	Tier                string
	ConditionMultiplier float64
	ReceiptBonus        float64
	RawEstimate         int64
	CartValue           int64
	PickupFee           int64
	FinalCredit         int64
}

// Confirmation is a terminal record at the port boundary.
type Confirmation struct {
	RequestID   string
	SessionID   string
	Intent      string
	ItemID      string
	ItemName    string
	Summary     string
	AmountLabel string
	Amount      int64
	ProblemID   string
	Resolution  string
	Condition   string
	HasReceipt  bool
	CartValue   int64
	PickupFee   int64
	CreatedAt   string
}

// ConfirmationFilters contains filter options for listing confirmations.
type ConfirmationFilters struct {
	Intent string
	Limit  int
}
