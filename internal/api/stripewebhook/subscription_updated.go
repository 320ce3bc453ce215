package stripewebhooks

import (
	"fmt"
	"strconv"
	"time"

	"contracts-app/database"
	"contracts-app/internal/domain/plans"
	"contracts-app/internal/domain/users"

	"github.com/charmbracelet/log"
	"github.com/stripe/stripe-go/v75"
)

func handleSubscriptionUpdated(sub *stripe.Subscription) error {
	if sub.ID == "" || sub.Items == nil || len(sub.Items.Data) == 0 || sub.Items.Data[0].Price == nil {
		return fmt.Errorf("subscription missing id/items/price")
	}

	// unknown users and prices are acknowledged so Stripe stops retrying
	user, ok := findSubscriber(sub)
	if !ok {
		log.Warn("subscription update for unknown user", "subscription", sub.ID)
		return nil
	}
	priceID := sub.Items.Data[0].Price.ID
	var plan plans.Plan
	if err := database.DB.Where("stripe_price_id = ?", priceID).First(&plan).Error; err != nil {
		log.Warn("subscription update for unknown price", "subscription", sub.ID, "price", priceID)
		return nil
	}

	periodEnd := time.Unix(sub.CurrentPeriodEnd, 0)
	return database.DB.Model(&users.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"plan_id":                    plan.ID,
			"subscription_id":            sub.ID,
			"subscription_end":           periodEnd,
			"current_period_end":         periodEnd,
			"stripe_subscription_status": string(sub.Status),
		}).Error
}

// findSubscriber resolves the user from metadata.user_id, then from the
// stored subscription id.
func findSubscriber(sub *stripe.Subscription) (users.User, bool) {
	var user users.User
	if uid := userIDFromMetadata(sub.Metadata); uid != 0 {
		if err := database.DB.First(&user, uid).Error; err == nil {
			return user, true
		}
	}
	if err := database.DB.Where("subscription_id = ?", sub.ID).First(&user).Error; err == nil {
		return user, true
	}
	return users.User{}, false
}

func userIDFromMetadata(md map[string]string) uint {
	s := md["user_id"]
	if s == "" {
		return 0
	}
	uid, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return uint(uid)
}
