package plans

import "strings"

const (
	TierNone         = "none"
	TierEssential    = "essential"
	TierProfessional = "professional"
	TierAdvanced     = "advanced"
)

var tierRank = map[string]int{
	TierNone:         0,
	TierEssential:    1,
	TierProfessional: 2,
	TierAdvanced:     3,
}

// PlanTier returns the effective tier for a plan: the stored tier when it is
// one of the known values, otherwise one inferred from the monthly price.
func PlanTier(p *Plan) string {
	if p == nil {
		return TierNone
	}

	tier := strings.ToLower(strings.TrimSpace(p.Tier))
	if _, ok := tierRank[tier]; ok && tier != TierNone {
		return tier
	}
	return inferTierFromPrice(p.PriceEUR)
}

// AtLeast reports whether p is on tier min or above.
func AtLeast(p *Plan, min string) bool {
	return tierRank[PlanTier(p)] >= tierRank[min]
}

// Plans synced before tiers were stored in Stripe metadata have no tier.
func inferTierFromPrice(priceEUR float64) string {
	switch {
	case priceEUR >= 90:
		return TierAdvanced
	case priceEUR >= 40:
		return TierProfessional
	default:
		return TierEssential
	}
}
