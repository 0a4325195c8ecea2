package wizard

import "github.com/example/backloop/internal/core/effects"

// ClosePlanInput contains the data needed to plan closing a completed session.
type ClosePlanInput struct {
	SessionID    string
	Confirmation Confirmation
}

// ClosePlan represents the planned effects for closing a session.
type ClosePlan struct {
	SessionID   string
	DatabaseOps []effects.PersistEffect
	LogOps      []effects.LogEffect
	NotifyOps   []effects.NotifyEffect
}

// Effects returns all effects as a flat slice for execution.
// Persistence runs before the completion notification.
func (p ClosePlan) Effects() []effects.Effect {
	result := make([]effects.Effect, 0, len(p.DatabaseOps)+len(p.LogOps)+len(p.NotifyOps))
	for _, e := range p.DatabaseOps {
		result = append(result, e)
	}
	for _, e := range p.LogOps {
		result = append(result, e)
	}
	for _, e := range p.NotifyOps {
		result = append(result, e)
	}
	return result
}

// GenerateClosePlan plans closing a completed session: store the
// confirmation, log it, and notify the caller.
// This is a pure function - all input data must be pre-fetched.
func GenerateClosePlan(input ClosePlanInput) ClosePlan {
	c := input.Confirmation
	return ClosePlan{
		SessionID: input.SessionID,
		DatabaseOps: []effects.PersistEffect{{
			Entity:    "confirmation",
			Operation: "create",
			Data:      c,
		}},
		LogOps: []effects.LogEffect{{
			Level:   "info",
			Message: "return request closed",
			Fields: map[string]any{
				"session_id": input.SessionID,
				"request_id": c.RequestID,
				"intent":     string(c.Intent),
				"item_id":    c.ItemID,
				"amount":     c.Amount,
			},
		}},
		NotifyOps: []effects.NotifyEffect{{
			Event:     "completed",
			SessionID: input.SessionID,
		}},
	}
}
