package wizard

import (
	"time"

	"github.com/example/backloop/internal/core/estimate"
)

// Confirmation is the terminal record of a session. It is created once on
// reaching Complete and never mutated.
type Confirmation struct {
	RequestID string
	SessionID string
	Intent    Intent
	ItemID    string
	ItemName  string

	// Faulty track
	ProblemID  string
	Resolution Resolution

	// Recycle track
	Estimate *estimate.Result

	// Amount is the refund (item price) for Faulty or the final credit for
	// Recycle, frozen when the pickup was scheduled.
	Amount    int64
	CreatedAt time.Time
}

// AmountLabel returns how the amount should be described to the user.
func (c Confirmation) AmountLabel() string {
	if c.Intent == IntentRecycle {
		return "Expected Credit"
	}
	if c.Resolution == ResolutionExchange {
		return "Exchange"
	}
	return "Refund Amount"
}

// Summary is a one-line description of what was requested.
func (c Confirmation) Summary() string {
	if c.Intent == IntentRecycle {
		return "Recycle Return"
	}
	label := c.ProblemID
	if p, ok := LookupProblem(c.ProblemID); ok {
		label = p.Label
	}
	return c.Resolution.Label() + " - " + label
}
