package plans

import "testing"

func TestPlanTier(t *testing.T) {
	tests := []struct {
		name string
		plan *Plan
		want string
	}{
		{name: "nil plan", plan: nil, want: TierNone},
		{name: "stored tier", plan: &Plan{Tier: "Professional", PriceEUR: 5}, want: TierProfessional},
		{name: "stored tier with spaces", plan: &Plan{Tier: " advanced "}, want: TierAdvanced},
		{name: "unknown tier falls back to price", plan: &Plan{Tier: "gold", PriceEUR: 95}, want: TierAdvanced},
		{name: "mid price", plan: &Plan{PriceEUR: 49}, want: TierProfessional},
		{name: "low price", plan: &Plan{PriceEUR: 9}, want: TierEssential},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PlanTier(tt.plan); got != tt.want {
				t.Errorf("PlanTier() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAtLeast(t *testing.T) {
	pro := &Plan{Tier: TierProfessional}
	if !AtLeast(pro, TierEssential) {
		t.Error("professional should satisfy essential")
	}
	if !AtLeast(pro, TierProfessional) {
		t.Error("professional should satisfy professional")
	}
	if AtLeast(pro, TierAdvanced) {
		t.Error("professional should not satisfy advanced")
	}
	if AtLeast(nil, TierEssential) {
		t.Error("nil plan should not satisfy essential")
	}
}
