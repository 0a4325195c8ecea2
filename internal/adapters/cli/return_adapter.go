package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/example/backloop/internal/ports/primary"
)

// RefusedError reports a step the wizard did not accept.
type RefusedError struct {
	Action string
	Field  string
	Reason string
}

func (e *RefusedError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s refused (%s): %s", e.Action, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s refused: %s", e.Action, e.Reason)
}

// ReturnAdapter is a thin adapter that translates CLI operations to ReturnService calls.
// It depends only on the ReturnService interface, enabling easy testing with mocks.
type ReturnAdapter struct {
	service      primary.ReturnService
	out          io.Writer
	currency     string
	pickupWindow string
}

// NewReturnAdapter creates a new ReturnAdapter with the given service.
func NewReturnAdapter(service primary.ReturnService, out io.Writer, currency, pickupWindow string) *ReturnAdapter {
	return &ReturnAdapter{
		service:      service,
		out:          out,
		currency:     currency,
		pickupWindow: pickupWindow,
	}
}

// ListOrders prints the purchase history with the actions each item offers.
func (a *ReturnAdapter) ListOrders(ctx context.Context) ([]*primary.Order, error) {
	orders, err := a.service.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	if len(orders) == 0 {
		fmt.Fprintln(a.out, "No orders found.")
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "Load the demo catalog:")
		fmt.Fprintln(a.out, "  backloop init")
		return orders, nil
	}

	for _, o := range orders {
		a.renderOrder(o)
		fmt.Fprintln(a.out)
	}

	return orders, nil
}

// ShowOrder prints one order with its items in full.
func (a *ReturnAdapter) ShowOrder(ctx context.Context, orderID string) (*primary.Order, error) {
	order, err := a.service.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	a.renderOrder(order)
	for _, it := range order.Items {
		fmt.Fprintf(a.out, "  %s: %s\n", it.ID, it.Name)
	}
	return order, nil
}

func (a *ReturnAdapter) renderOrder(o *primary.Order) {
	fmt.Fprintf(a.out, "%s  %s  %s  %s\n",
		color.New(color.Bold).Sprint(o.ID), o.Date, statusLabel(o.Status), a.money(o.Total))

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "  ITEM\tNAME\tPRICE\tRETURN BY\tACTIONS")
	for _, it := range o.Items {
		deadline := it.ReturnDeadline
		if deadline == "" {
			deadline = "-"
		}
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\t%s\n",
			it.ID, truncate(it.Name, 48), a.money(it.Price), deadline, strings.Join(it.Actions, ", "))
	}
	w.Flush()
}

// Start begins a session and prints its first step.
func (a *ReturnAdapter) Start(ctx context.Context, req primary.StartSessionRequest) (*primary.Session, error) {
	s, err := a.service.StartSession(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	fmt.Fprintf(a.out, "%s %s (%s)\n", color.New(color.Bold).Sprint(intentTitle(s.Intent)+":"), s.ItemName, a.money(s.Price))
	a.renderProgress(s)
	if s.Intent == "faulty" {
		fmt.Fprintln(a.out, "  Return guidelines:")
		for _, g := range s.Guidelines {
			fmt.Fprintf(a.out, "    • %s\n", g)
		}
	}
	return s, nil
}

// Do runs one step operation and prints its outcome. A refused step is
// returned as a *RefusedError after the reason is shown.
func (a *ReturnAdapter) Do(action string, op func() (*primary.StepResult, error)) (*primary.Session, error) {
	r, err := op()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}

	s := r.Session
	if !r.Allowed {
		fmt.Fprintf(a.out, "%s %s: %s\n", color.New(color.FgRed).Sprint("✗"), action, r.Reason)
		if s != nil && s.SupportHint != "" {
			fmt.Fprintf(a.out, "  Need help? Call %s\n", s.SupportHint)
		}
		return s, &RefusedError{Action: action, Field: r.Field, Reason: r.Reason}
	}

	fmt.Fprintf(a.out, "%s %s\n", color.New(color.FgGreen).Sprint("✓"), action)
	if s != nil && s.Step != "" {
		a.onStep(s)
	}
	return s, nil
}

// onStep prints what a newly entered step needs.
func (a *ReturnAdapter) onStep(s *primary.Session) {
	switch s.Step {
	case "estimate":
		a.renderProgress(s)
		if s.Estimate != nil {
			a.RenderEstimate(s.Estimate)
		}
		if s.AmountToFreePickup > 0 {
			fmt.Fprintf(a.out, "  Add %s more to your cart for free pickup.\n", a.money(s.AmountToFreePickup))
			for _, item := range s.AddOns {
				fmt.Fprintf(a.out, "    + %s (%s)\n", item.Name, a.money(item.Price))
			}
		}
	case "problem", "solution", "confirm":
		a.renderProgress(s)
	case "complete":
		a.renderProgress(s)
		if s.Confirmation != nil {
			a.RenderConfirmation(s.Confirmation)
		}
	}
}

// RenderEstimate prints the estimate breakdown.
func (a *ReturnAdapter) RenderEstimate(e *primary.Estimate) {
	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "  Item price\t%s\t\n", a.money(e.Price))
	fmt.Fprintf(w, "  Base value\t%s%.2f\t\n", a.currency, e.Base)
	fmt.Fprintf(w, "  Condition (%s)\t×%.2f\t\n", e.Tier, e.ConditionMultiplier)
	fmt.Fprintf(w, "  Receipt bonus\t×%.2f\t\n", e.ReceiptBonus)
	fmt.Fprintf(w, "  Estimated value\t%s\t\n", a.money(e.RawEstimate))
	if e.PickupFee > 0 {
		fmt.Fprintf(w, "  Pickup fee\t%s\t\n", a.money(-e.PickupFee))
	} else {
		fmt.Fprintf(w, "  Pickup fee\t%s\t\n", "FREE")
	}
	w.Flush()

	credit := color.New(color.FgGreen, color.Bold)
	if e.FinalCredit < 0 {
		credit = color.New(color.FgRed, color.Bold)
	}
	fmt.Fprintf(a.out, "  Expected credit: %s\n", credit.Sprint(a.money(e.FinalCredit)))
}

// RenderConfirmation prints a completed request.
func (a *ReturnAdapter) RenderConfirmation(c *primary.Confirmation) {
	fmt.Fprintln(a.out, color.New(color.FgGreen, color.Bold).Sprint("  Pickup scheduled"))
	fmt.Fprintf(a.out, "  Request ID:  %s\n", c.RequestID)
	fmt.Fprintf(a.out, "  Request:     %s\n", c.Summary)
	fmt.Fprintf(a.out, "  %s: %s\n", c.AmountLabel, a.money(c.Amount))
	if a.pickupWindow != "" {
		fmt.Fprintf(a.out, "  Pickup within %s.\n", a.pickupWindow)
	}
}

// Close acknowledges the completed session.
func (a *ReturnAdapter) Close(ctx context.Context) (*primary.Confirmation, error) {
	c, err := a.service.CloseSession(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to close session: %w", err)
	}
	fmt.Fprintf(a.out, "✓ Request %s saved\n", c.RequestID)
	return c, nil
}

// ListConfirmations prints stored confirmations.
func (a *ReturnAdapter) ListConfirmations(ctx context.Context, filters primary.ConfirmationFilters) ([]*primary.Confirmation, error) {
	confirmations, err := a.service.ListConfirmations(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list confirmations: %w", err)
	}

	if len(confirmations) == 0 {
		fmt.Fprintln(a.out, "No confirmations found.")
		return confirmations, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "REQUEST\tITEM\tREQUEST TYPE\tAMOUNT\tCREATED")
	fmt.Fprintln(w, "-------\t----\t------------\t------\t-------")
	for _, c := range confirmations {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			c.RequestID, c.ItemID, c.Summary, a.money(c.Amount), c.CreatedAt)
	}
	w.Flush()

	return confirmations, nil
}

// ShowConfirmation prints a stored confirmation.
func (a *ReturnAdapter) ShowConfirmation(ctx context.Context, requestID string) (*primary.Confirmation, error) {
	c, err := a.service.GetConfirmation(ctx, requestID)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "%s\n", color.New(color.Bold).Sprint(c.RequestID))
	fmt.Fprintf(a.out, "  Item:        %s %s\n", c.ItemID, c.ItemName)
	fmt.Fprintf(a.out, "  Request:     %s\n", c.Summary)
	fmt.Fprintf(a.out, "  %s: %s\n", c.AmountLabel, a.money(c.Amount))
	if c.Intent == "recycle" {
		fmt.Fprintf(a.out, "  Cart value:  %s\n", a.money(c.CartValue))
		if c.PickupFee > 0 {
			fmt.Fprintf(a.out, "  Pickup fee:  %s\n", a.money(c.PickupFee))
		}
	}
	fmt.Fprintf(a.out, "  Created:     %s\n", c.CreatedAt)
	return c, nil
}

func (a *ReturnAdapter) renderProgress(s *primary.Session) {
	parts := make([]string, len(s.TrackLabels))
	for i, label := range s.TrackLabels {
		switch {
		case i == s.StepIndex:
			parts[i] = color.New(color.FgHiCyan, color.Bold).Sprint(label)
		case i < s.StepIndex:
			parts[i] = color.New(color.FgGreen).Sprint(label)
		default:
			parts[i] = color.New(color.FgHiBlack).Sprint(label)
		}
	}
	fmt.Fprintf(a.out, "  [%d/%d] %s\n", s.StepIndex+1, s.StepTotal, strings.Join(parts, " › "))
}

func (a *ReturnAdapter) money(v int64) string {
	if v < 0 {
		return fmt.Sprintf("-%s%d", a.currency, -v)
	}
	return fmt.Sprintf("%s%d", a.currency, v)
}

func intentTitle(intent string) string {
	if intent == "faulty" {
		return "Report fault"
	}
	return "Recycle"
}

func statusLabel(status string) string {
	switch status {
	case "delivered":
		return color.New(color.FgGreen).Sprint(status)
	case "shipped":
		return color.New(color.FgHiBlue).Sprint(status)
	default:
		return color.New(color.FgYellow).Sprint(status)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
