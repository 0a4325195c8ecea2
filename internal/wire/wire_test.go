package wire

import (
	"testing"
	"time"

	"github.com/example/backloop/internal/config"
)

func TestWizardConfig(t *testing.T) {
	c := config.Default()
	c.PickupFee = 49
	c.DefaultCartValue = 800

	wc := WizardConfig(c)

	if wc.Pricing.PickupFee != 49 {
		t.Errorf("Pricing.PickupFee = %d, want 49", wc.Pricing.PickupFee)
	}
	if wc.Pricing.BaseRatePercent != 30 || wc.Pricing.ReceiptBonusPercent != 110 {
		t.Errorf("Pricing rates = %d/%d, want 30/110", wc.Pricing.BaseRatePercent, wc.Pricing.ReceiptBonusPercent)
	}
	if wc.CartValue != 800 {
		t.Errorf("CartValue = %d, want 800", wc.CartValue)
	}
	if wc.EstimateDelay != 2*time.Second {
		t.Errorf("EstimateDelay = %v, want 2s", wc.EstimateDelay)
	}
	if len(wc.AddOns) != 3 || wc.AddOns[1].Name != "Used Books" {
		t.Errorf("AddOns = %+v, want the three defaults", wc.AddOns)
	}
	if err := wc.Receipts.ValidateReceipt("ECO-2025-789012"); err != nil {
		t.Errorf("ValidateReceipt(whitelisted) error = %v", err)
	}
	if wc.Photos == nil {
		t.Error("Photos validator not set")
	}
}
