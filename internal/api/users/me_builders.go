package users

import (
	"time"

	"contracts-app/internal/domain/access"
	"contracts-app/internal/domain/plans"
	"contracts-app/internal/domain/users"
	"contracts-app/internal/infra/stripe"
)

func BuildPlanDTO(p *plans.Plan) *PlanDTO {
	if p == nil {
		return nil
	}
	return &PlanDTO{
		ID:            p.ID,
		Key:           p.Name,
		Tier:          plans.PlanTier(p),
		Interval:      p.Interval,
		PriceEUR:      p.PriceEUR,
		StripePriceID: p.StripePriceID,
	}
}

func BuildSubscriptionDTO(u users.User) *SubscriptionDTO {
	if u.SubscriptionId == nil || *u.SubscriptionId == "" {
		return nil
	}
	return &SubscriptionDTO{
		Status:               stripe.NormalizeStripeStatus(u.StripeSubscriptionStatus),
		StartsAt:             u.SubscriptionStart,
		CurrentPeriodEnd:     u.CurrentPeriodEnd,
		StripeSubscriptionID: u.SubscriptionId,
	}
}

// BuildTrialDTO counts whole days left, never negative.
func BuildTrialDTO(now time.Time, start, end *time.Time) *TrialDTO {
	if start == nil || end == nil {
		return nil
	}
	days := 0
	if now.Before(*end) {
		days = int(end.Sub(now).Hours() / 24)
	}
	return &TrialDTO{StartsAt: start, EndsAt: end, DaysLeft: days}
}

func BuildAccessDTO(p access.Policy) AccessDTO {
	caps := make([]string, 0, len(p.Capabilities))
	for _, c := range p.Capabilities {
		caps = append(caps, string(c))
	}
	return AccessDTO{
		State:        string(p.State),
		EditorMode:   string(p.EditorMode),
		Tier:         p.Tier,
		Capabilities: caps,
		Limits: LimitsDTO{
			MaxUploadBytes: p.Limits.MaxUploadBytes,
			MaxImportRows:  p.Limits.MaxImportRows,
			MaxTeams:       p.Limits.MaxTeams,
		},
	}
}
