package estimate

import "github.com/example/backloop/internal/core/catalog"

// Pricing holds the tunable constants of the estimate pipeline.
// Percentages are integers so the pipeline stays exact until the final
// rounding.
type Pricing struct {
	BaseRatePercent     int64 // share of the item price used as base value
	ReceiptBonusPercent int64 // multiplier applied when a receipt code is supplied
	PickupFee           int64 // flat fee below the threshold
	FreePickupThreshold int64 // cart value at which pickup is free
}

// DefaultPricing returns the production pricing: 30% base, +10% with
// receipt, 99 pickup fee below a cart value of 2000.
func DefaultPricing() Pricing {
	return Pricing{
		BaseRatePercent:     30,
		ReceiptBonusPercent: 110,
		PickupFee:           99,
		FreePickupThreshold: 2000,
	}
}

// Result is a computed estimate and the factors that produced it.
type Result struct {
	ItemID              string
	Price               int64
	Base                float64 // Price * base rate, unrounded, for display
	Tier                ConditionTier
	ConditionMultiplier float64
	ReceiptBonus        float64
	RawEstimate         int64
	CartValue           int64
	PickupFee           int64 // 0 when pickup is free
	FinalCredit         int64
}

// PickupFeeApplied reports whether the pickup fee was deducted.
func (r Result) PickupFeeApplied() bool {
	return r.PickupFee > 0
}

// Estimate runs the pricing pipeline. It never fails: unrecognised or empty
// condition text uses the unspecified tier. The receipt bonus depends only on
// whether a code was supplied, not on whether it validated.
//
// FinalCredit may be negative for cheap items below the free-pickup threshold;
// it is reported as computed.
func Estimate(p Pricing, item catalog.Item, condition string, hasReceipt bool, cartValue int64) Result {
	tier := ClassifyCondition(condition)

	bonusPercent := int64(100)
	if hasReceipt {
		bonusPercent = p.ReceiptBonusPercent
	}

	// price * base% * condition% * bonus%, scaled by 100^3, rounded half up.
	const scale = 100 * 100 * 100
	numerator := item.Price * p.BaseRatePercent * tier.Percent() * bonusPercent
	raw := roundHalfUp(numerator, scale)

	var fee int64
	if cartValue < p.FreePickupThreshold {
		fee = p.PickupFee
	}

	return Result{
		ItemID:              item.ID,
		Price:               item.Price,
		Base:                float64(item.Price*p.BaseRatePercent) / 100,
		Tier:                tier,
		ConditionMultiplier: tier.Multiplier(),
		ReceiptBonus:        float64(bonusPercent) / 100,
		RawEstimate:         raw,
		CartValue:           cartValue,
		PickupFee:           fee,
		FinalCredit:         raw - fee,
	}
}

// AmountToFreePickup returns how much more cart value is needed before the
// pickup fee is waived, or 0 if it already is.
func AmountToFreePickup(p Pricing, cartValue int64) int64 {
	if cartValue >= p.FreePickupThreshold {
		return 0
	}
	return p.FreePickupThreshold - cartValue
}

func roundHalfUp(num, den int64) int64 {
	if num >= 0 {
		return (num + den/2) / den
	}
	return -((-num + den/2 - 1) / den)
}
