// Package estimate computes the recycle credit offered for an item.
// This is part of the Functional Core - no I/O, only pure functions.
package estimate

import "strings"

// ConditionTier classifies a free-text condition description.
type ConditionTier string

const (
	TierExcellent   ConditionTier = "excellent"
	TierGood        ConditionTier = "good"
	TierFair        ConditionTier = "fair"
	TierPoor        ConditionTier = "poor"
	TierUnspecified ConditionTier = "unspecified"
)

// tierRule maps keywords to a tier. Rules are evaluated in order and the
// first rule with a matching keyword wins.
type tierRule struct {
	tier     ConditionTier
	keywords []string
	percent  int64
}

var tierRules = []tierRule{
	{tier: TierExcellent, keywords: []string{"excellent", "like new"}, percent: 140},
	{tier: TierGood, keywords: []string{"good"}, percent: 120},
	{tier: TierFair, keywords: []string{"fair", "average"}, percent: 100},
	{tier: TierPoor, keywords: []string{"poor", "damaged"}, percent: 60},
}

const unspecifiedPercent = 100

// ClassifyCondition returns the tier for a condition description using
// case-insensitive substring matching. Text with no keyword is unspecified.
func ClassifyCondition(condition string) ConditionTier {
	lower := strings.ToLower(condition)
	for _, rule := range tierRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.tier
			}
		}
	}
	return TierUnspecified
}

// Percent returns the tier multiplier in percent (140 for 1.40).
func (t ConditionTier) Percent() int64 {
	for _, rule := range tierRules {
		if rule.tier == t {
			return rule.percent
		}
	}
	return unspecifiedPercent
}

// Multiplier returns the tier multiplier as a factor.
func (t ConditionTier) Multiplier() float64 {
	return float64(t.Percent()) / 100
}
