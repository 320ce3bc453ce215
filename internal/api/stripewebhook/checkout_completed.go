package stripewebhooks

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"contracts-app/database"
	"contracts-app/internal/domain/billing"
	"contracts-app/internal/domain/plans"
	"contracts-app/internal/domain/users"

	"github.com/charmbracelet/log"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/subscription"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Stripe API calls, replaced in tests.
var (
	fetchSubscription = func(id string) (*stripe.Subscription, error) {
		return subscription.Get(id, nil)
	}
	cancelSubscription = func(id string) error {
		_, err := subscription.Cancel(id, nil)
		return err
	}
)

func handleCheckoutSessionCompleted(session *stripe.CheckoutSession) error {
	if session.Subscription == nil || session.Subscription.ID == "" {
		return errors.New("checkout session missing subscription")
	}
	subscriptionID := session.Subscription.ID

	sub, err := fetchSubscription(subscriptionID)
	if err != nil {
		return fmt.Errorf("fetch subscription %s: %w", subscriptionID, err)
	}
	if sub == nil || sub.Items == nil || len(sub.Items.Data) == 0 || sub.Items.Data[0].Price == nil {
		return fmt.Errorf("subscription %s has no price", subscriptionID)
	}

	userID, err := userIDFromSubscriptionOrRef(sub, session.ClientReferenceID)
	if err != nil {
		return err
	}

	var user users.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return fmt.Errorf("user %d not found: %w", userID, err)
	}

	priceID := sub.Items.Data[0].Price.ID
	var plan plans.Plan
	if err := database.DB.Where("stripe_price_id = ?", priceID).First(&plan).Error; err != nil {
		return fmt.Errorf("plan not found for stripe price_id=%s: %w", priceID, err)
	}

	now := time.Now()
	periodEnd := time.Unix(sub.CurrentPeriodEnd, 0)
	updates := map[string]interface{}{
		"plan_id":                    plan.ID,
		"subscription_id":            subscriptionID,
		"subscription_start":         now,
		"subscription_end":           periodEnd,
		"current_period_end":         periodEnd,
		"stripe_subscription_status": string(sub.Status),
		"trial_start_at":             nil,
		"trial_end_at":               nil,
	}
	if session.Customer != nil && session.Customer.ID != "" {
		updates["stripe_customer_id"] = session.Customer.ID
	}

	payment := billing.Payment{
		UserID:               user.ID,
		PlanID:               &plan.ID,
		StripeSessionID:      session.ID,
		StripeSubscriptionID: &subscriptionID,
		AmountEUR:            float64(session.AmountTotal) / 100.0,
		Status:               string(session.PaymentStatus),
	}
	if payment.Status == "" {
		payment.Status = "paid"
	}
	if session.Invoice != nil && session.Invoice.ID != "" {
		payment.InvoiceID = &session.Invoice.ID
		if session.Invoice.HostedInvoiceURL != "" {
			payment.ReceiptURL = &session.Invoice.HostedInvoiceURL
		}
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&users.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("update user after checkout: %w", err)
		}
		// a replayed session keeps its original payment row
		return tx.Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "stripe_session_id"}}, DoNothing: true}).
			Create(&payment).Error
	})
	if err != nil {
		return err
	}

	// one live subscription per user
	if user.SubscriptionId != nil && *user.SubscriptionId != "" && *user.SubscriptionId != subscriptionID {
		if err := cancelSubscription(*user.SubscriptionId); err != nil {
			log.Warn("cancel previous subscription failed", "user_id", user.ID, "subscription", *user.SubscriptionId, "err", err)
		}
	}
	return nil
}

func userIDFromSubscriptionOrRef(sub *stripe.Subscription, clientRef string) (uint, error) {
	if uid := userIDFromMetadata(sub.Metadata); uid != 0 {
		return uid, nil
	}
	if clientRef == "" {
		return 0, errors.New("missing user_id (metadata.user_id or client_reference_id)")
	}
	uid64, err := strconv.ParseUint(clientRef, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid user_id %q: %w", clientRef, err)
	}
	return uint(uid64), nil
}
