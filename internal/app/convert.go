package app

import (
	"fmt"
	"time"

	"github.com/example/backloop/internal/core/catalog"
	"github.com/example/backloop/internal/core/eligibility"
	"github.com/example/backloop/internal/core/estimate"
	"github.com/example/backloop/internal/core/wizard"
	"github.com/example/backloop/internal/ports/primary"
	"github.com/example/backloop/internal/ports/secondary"
)

// dateLayout is how order dates and return deadlines are stored.
const dateLayout = "2006-01-02"

func recordToItem(r *secondary.ItemRecord) (catalog.Item, error) {
	item := catalog.Item{
		ID:         r.ID,
		OrderID:    r.OrderID,
		Name:       r.Name,
		Price:      r.Price,
		Quantity:   r.Quantity,
		Returnable: r.Returnable,
	}
	if r.ReturnDeadline != "" {
		d, err := time.Parse(dateLayout, r.ReturnDeadline)
		if err != nil {
			return catalog.Item{}, fmt.Errorf("item %s has invalid return deadline %q: %w", r.ID, r.ReturnDeadline, err)
		}
		item.ReturnDeadline = &d
	}
	return item, nil
}

func recordToOrder(r *secondary.OrderRecord) (catalog.Order, error) {
	date, err := time.Parse(dateLayout, r.Date)
	if err != nil {
		return catalog.Order{}, fmt.Errorf("order %s has invalid date %q: %w", r.ID, r.Date, err)
	}
	order := catalog.Order{
		ID:     r.ID,
		Date:   date,
		Status: catalog.OrderStatus(r.Status),
		Total:  r.Total,
	}
	for _, ir := range r.Items {
		item, err := recordToItem(ir)
		if err != nil {
			return catalog.Order{}, err
		}
		order.Items = append(order.Items, item)
	}
	return order, nil
}

func orderToDTO(o catalog.Order, now time.Time) *primary.Order {
	dto := &primary.Order{
		ID:     o.ID,
		Date:   o.Date.Format(dateLayout),
		Status: string(o.Status),
		Total:  o.Total,
	}
	for _, it := range o.Items {
		dto.Items = append(dto.Items, itemToDTO(it, now))
	}
	return dto
}

func itemToDTO(it catalog.Item, now time.Time) *primary.Item {
	dto := &primary.Item{
		ID:         it.ID,
		OrderID:    it.OrderID,
		Name:       it.Name,
		Price:      it.Price,
		Quantity:   it.Quantity,
		Returnable: it.Returnable,
	}
	if it.ReturnDeadline != nil {
		dto.ReturnDeadline = it.ReturnDeadline.Format(dateLayout)
	}
	for _, a := range eligibility.OfferedActions(it.Returnable, it.ReturnDeadline, now) {
		dto.Actions = append(dto.Actions, string(a))
	}
	return dto
}

func resultToDTO(r *estimate.Result) *primary.Estimate {
	if r == nil {
		return nil
	}
	return &primary.Estimate{
		Price:               r.Price,
		Base:                r.Base,
		Tier:                string(r.Tier),
		ConditionMultiplier: r.ConditionMultiplier,
		ReceiptBonus:        r.ReceiptBonus,
		RawEstimate:         r.RawEstimate,
		CartValue:           r.CartValue,
		PickupFee:           r.PickupFee,
		FinalCredit:         r.FinalCredit,
	}
}

func confirmationToRecord(c wizard.Confirmation) *secondary.ConfirmationRecord {
	record := &secondary.ConfirmationRecord{
		RequestID:  c.RequestID,
		SessionID:  c.SessionID,
		Intent:     string(c.Intent),
		ItemID:     c.ItemID,
		ItemName:   c.ItemName,
		ProblemID:  c.ProblemID,
		Resolution: string(c.Resolution),
		Amount:     c.Amount,
		CreatedAt:  c.CreatedAt.UTC().Format(time.RFC3339),
	}
	if c.Estimate != nil {
		record.Condition = string(c.Estimate.Tier)
		record.HasReceipt = c.Estimate.ReceiptBonus > 1
		record.CartValue = c.Estimate.CartValue
		record.PickupFee = c.Estimate.PickupFee
	}
	return record
}

func confirmationToDTO(c wizard.Confirmation) *primary.Confirmation {
	dto := recordToConfirmation(confirmationToRecord(c))
	dto.Summary = c.Summary()
	dto.AmountLabel = c.AmountLabel()
	return dto
}

func recordToConfirmation(r *secondary.ConfirmationRecord) *primary.Confirmation {
	c := wizard.Confirmation{
		Intent:     wizard.Intent(r.Intent),
		ProblemID:  r.ProblemID,
		Resolution: wizard.Resolution(r.Resolution),
	}
	return &primary.Confirmation{
		RequestID:   r.RequestID,
		SessionID:   r.SessionID,
		Intent:      r.Intent,
		ItemID:      r.ItemID,
		ItemName:    r.ItemName,
		Summary:     c.Summary(),
		AmountLabel: c.AmountLabel(),
		Amount:      r.Amount,
		ProblemID:   r.ProblemID,
		Resolution:  r.Resolution,
		Condition:   r.Condition,
		HasReceipt:  r.HasReceipt,
		CartValue:   r.CartValue,
		PickupFee:   r.PickupFee,
		CreatedAt:   r.CreatedAt,
	}
}

func stateToSession(s wizard.State, amountToFreePickup int64, addOns []wizard.AddOnItem) *primary.Session {
	index, total := wizard.Progress(s.Intent, s.Step)
	dto := &primary.Session{
		ID:       s.SessionID,
		Intent:   string(s.Intent),
		ItemID:   s.Item.ID,
		ItemName: s.Item.Name,
		Price:    s.Item.Price,

		Step:        string(s.Step),
		VisibleStep: string(wizard.VisibleStep(s.Step)),
		StepIndex:   index,
		StepTotal:   total,
		TrackLabels: wizard.TrackLabels(s.Intent),
		Processing:  s.Processing(),
		Closed:      s.Closed,

		CartValue:          s.CartValue,
		AmountToFreePickup: amountToFreePickup,

		PhotoError:   s.PhotoError,
		ReceiptError: s.ReceiptError,
		SupportHint:  s.SupportHint,

		Estimate: resultToDTO(s.Estimate),
	}

	switch s.Intent {
	case wizard.IntentFaulty:
		dto.Guidelines = append([]string(nil), wizard.ReturnGuidelines...)
		for _, p := range wizard.Problems() {
			dto.Problems = append(dto.Problems, primary.Problem{ID: p.ID, Label: p.Label, Description: p.Description})
		}
		dto.InstructionsAccepted = s.Evidence.InstructionsAccepted
		dto.ProblemID = s.Evidence.ProblemID
		dto.Description = s.Evidence.Description
		dto.Resolution = string(s.Evidence.Resolution)
	case wizard.IntentRecycle:
		if s.Evidence.Photo != nil {
			dto.PhotoName = s.Evidence.Photo.Filename
		}
		dto.PhotoAccepted = s.Evidence.PhotoAccepted
		dto.Condition = s.Evidence.Condition
		dto.ReceiptCode = s.Evidence.ReceiptCode
		for _, a := range addOns {
			dto.AddOns = append(dto.AddOns, primary.AddOnItem{Name: a.Name, Price: a.Price})
		}
	}

	if s.Confirmation != nil {
		dto.Confirmation = confirmationToDTO(*s.Confirmation)
	}
	return dto
}
