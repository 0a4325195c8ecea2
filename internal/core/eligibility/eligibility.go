// Package eligibility decides which return actions an order item offers.
// This is part of the Functional Core - no I/O, only pure functions.
package eligibility

import "time"

// Action is a return action the order list can offer for an item.
type Action string

const (
	ActionReportFault Action = "report-fault"
	ActionRecycle     Action = "recycle"
)

// IsReturnWindowOpen reports whether a return deadline is still in the future.
// An absent deadline means there is no window, which is a valid input.
func IsReturnWindowOpen(deadline *time.Time, now time.Time) bool {
	if deadline == nil {
		return false
	}
	return deadline.After(now)
}

// CanReportFault evaluates whether fault reporting is offered.
// Rule: the item must be returnable and its return window must be open.
func CanReportFault(returnable bool, deadline *time.Time, now time.Time) bool {
	return returnable && IsReturnWindowOpen(deadline, now)
}

// OfferedActions returns the actions offered for an item, in display order.
// Recycling has no eligibility window and is always offered.
func OfferedActions(returnable bool, deadline *time.Time, now time.Time) []Action {
	if CanReportFault(returnable, deadline, now) {
		return []Action{ActionReportFault, ActionRecycle}
	}
	return []Action{ActionRecycle}
}
