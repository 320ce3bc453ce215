package stripewebhooks

import (
	"time"

	"contracts-app/database"
	"contracts-app/internal/domain/users"

	"github.com/stripe/stripe-go/v75"
)

// handleSubscriptionDeleted records the final status. Access continues until
// current_period_end.
func handleSubscriptionDeleted(sub *stripe.Subscription) error {
	if sub.ID == "" {
		return nil
	}

	user, ok := findSubscriber(sub)
	if !ok {
		return nil
	}
	// an older subscription replaced at checkout must not clobber the new one
	if user.SubscriptionId != nil && *user.SubscriptionId != sub.ID {
		return nil
	}

	periodEnd := time.Unix(sub.CurrentPeriodEnd, 0)
	return database.DB.Model(&users.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"stripe_subscription_status": string(sub.Status),
			"subscription_end":           periodEnd,
			"current_period_end":         periodEnd,
		}).Error
}
