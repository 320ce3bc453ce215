package access

import (
	"time"

	"contracts-app/internal/domain/plans"
	"contracts-app/internal/domain/users"
	"contracts-app/internal/infra/stripe"
)

// Effective access for the billing owner: trial|full|limited|locked
func ComputeEffectiveAccessState(now time.Time, u users.User) AccessState {
	if u.Role == users.RoleAdmin {
		return AccessFull
	}

	if u.TrialEndAt != nil && now.Before(*u.TrialEndAt) {
		return AccessTrial
	}

	if u.SubscriptionId == nil || *u.SubscriptionId == "" {
		return AccessLocked
	}

	switch stripe.NormalizeStripeStatus(u.StripeSubscriptionStatus) {
	case stripe.StatusActive, stripe.StatusTrialing:
		return AccessFull

	case stripe.StatusPastDue, stripe.StatusIncomplete:
		return AccessLimited

	case stripe.StatusCanceled:
		// paid-through period still counts
		if u.CurrentPeriodEnd != nil && now.Before(*u.CurrentPeriodEnd) {
			return AccessFull
		}
		return AccessLocked

	default:
		return AccessLocked
	}
}

// TierOf is the plan tier the capabilities are computed from.
func TierOf(u users.User) string {
	return plans.PlanTier(u.Plan)
}
