package billing

import (
	"fmt"
	"net/http"

	"contracts-app/config"
	"contracts-app/database"
	"contracts-app/internal/apperr"
	"contracts-app/internal/domain/plans"
	"contracts-app/internal/domain/users"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	portalSession "github.com/stripe/stripe-go/v75/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v75/checkout/session"
	customer "github.com/stripe/stripe-go/v75/customer"
)

var errStripeOff = apperr.Unavailable("Billing is not configured")

func currentUser(c *gin.Context) (users.User, bool) {
	var user users.User
	userID := c.GetUint("user_id")
	if userID == 0 {
		apperr.Write(c, apperr.Unauthorized("User not identified"))
		return user, false
	}
	if err := database.DB.First(&user, userID).Error; err != nil {
		apperr.Write(c, apperr.Unauthorized("User not found"))
		return user, false
	}
	return user, true
}

func CreateCheckoutSession(c *gin.Context) {
	if config.STRIPE_SECRET_KEY == "" {
		apperr.Write(c, errStripeOff)
		return
	}

	var body struct {
		PriceID string `json:"price_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.PriceID == "" {
		apperr.Write(c, apperr.BadRequest("invalid_price", "Missing or invalid price_id"))
		return
	}

	// only prices synced into plans can be bought
	var plan plans.Plan
	if err := database.DB.Where("stripe_price_id = ?", body.PriceID).First(&plan).Error; err != nil {
		apperr.Write(c, apperr.BadRequest("unknown_price", "Unknown plan/price_id"))
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}
	if !user.IsVerified {
		apperr.Write(c, apperr.New(http.StatusForbidden, "not_verified", "Please verify your email first"))
		return
	}

	if user.StripeCustomerID == nil || *user.StripeCustomerID == "" {
		cus, err := customer.New(&stripe.CustomerParams{
			Email: stripe.String(user.Email),
			Name:  stripe.String(user.FullName()),
			Metadata: map[string]string{
				"user_id": fmt.Sprint(user.ID),
				"app_env": config.APP_ENV,
			},
		})
		if err != nil {
			log.Error("stripe customer create failed", "user_id", user.ID, "err", err)
			apperr.Write(c, apperr.New(http.StatusBadGateway, "stripe_error", "Failed to create Stripe customer"))
			return
		}
		if err := database.DB.Model(&users.User{}).
			Where("id = ?", user.ID).
			Update("stripe_customer_id", cus.ID).Error; err != nil {
			apperr.Write(c, err)
			return
		}
		user.StripeCustomerID = stripe.String(cus.ID)
	}

	params := &stripe.CheckoutSessionParams{
		SuccessURL: stripe.String(config.APP_URL + "/account?checkout=success"),
		CancelURL:  stripe.String(config.APP_URL + "/account?canceled=1"),
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer:   stripe.String(*user.StripeCustomerID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(plan.StripePriceID), Quantity: stripe.Int64(1)},
		},
		ClientReferenceID: stripe.String(fmt.Sprint(user.ID)),
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{
				"user_id": fmt.Sprint(user.ID),
				"plan_id": fmt.Sprint(plan.ID),
			},
		},
	}

	s, err := checkoutsession.New(params)
	if err != nil {
		log.Error("stripe checkout session failed", "user_id", user.ID, "err", err)
		apperr.Write(c, apperr.New(http.StatusBadGateway, "stripe_error", "Failed to create checkout session"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": s.URL})
}

func CreateBillingPortal(c *gin.Context) {
	if config.STRIPE_SECRET_KEY == "" {
		apperr.Write(c, errStripeOff)
		return
	}

	user, ok := currentUser(c)
	if !ok {
		return
	}
	if user.StripeCustomerID == nil || *user.StripeCustomerID == "" {
		apperr.Write(c, apperr.New(http.StatusConflict, "no_customer", "No Stripe customer yet (subscribe first)"))
		return
	}

	portal, err := portalSession.New(&stripe.BillingPortalSessionParams{
		Customer:  stripe.String(*user.StripeCustomerID),
		ReturnURL: stripe.String(config.APP_URL + "/account"),
	})
	if err != nil {
		log.Error("stripe portal session failed", "user_id", user.ID, "err", err)
		apperr.Write(c, apperr.New(http.StatusBadGateway, "stripe_error", "Could not create billing portal session"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": portal.URL})
}
