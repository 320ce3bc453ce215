package stripewebhooks

import (
	"encoding/json"
	"io"
	"net/http"

	"contracts-app/config"
	"contracts-app/internal/apperr"
	"contracts-app/internal/infra/idempotency"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/webhook"
)

const maxBodyBytes = 65536

// StripeWebhook verifies and applies Stripe events. Each event id is handled
// once: seen claims it before dispatch and releases it when handling fails so
// Stripe's retry is processed again. A nil seen store disables the check.
func StripeWebhook(seen *idempotency.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if config.STRIPE_WEBHOOK_SECRET == "" {
			apperr.Write(c, apperr.Unavailable("STRIPE_WEBHOOK_SECRET not configured"))
			return
		}

		payload, err := readStripeBody(c, maxBodyBytes)
		if err != nil {
			apperr.Write(c, apperr.New(http.StatusRequestEntityTooLarge, "invalid_body", "Error reading request body"))
			return
		}

		event, err := webhook.ConstructEventWithOptions(
			payload,
			c.GetHeader("Stripe-Signature"),
			config.STRIPE_WEBHOOK_SECRET,
			webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true},
		)
		if err != nil {
			log.Warn("stripe signature verification failed", "err", err)
			apperr.Write(c, apperr.BadRequest("invalid_signature", "Signature verification failed"))
			return
		}

		ctx := c.Request.Context()
		first, err := seen.Claim(ctx, event.ID)
		if err != nil {
			// handlers are upserts, so processing twice beats dropping the event
			log.Warn("stripe event claim failed", "event", event.ID, "err", err)
			first = true
		}
		if !first {
			log.Info("stripe event already handled", "event", event.ID, "type", event.Type)
			c.JSON(http.StatusOK, gin.H{"status": "duplicate"})
			return
		}

		status, err := dispatch(event)
		if err != nil {
			if rerr := seen.Release(ctx, event.ID); rerr != nil {
				log.Warn("stripe event release failed", "event", event.ID, "err", rerr)
			}
			log.Error("stripe event failed", "event", event.ID, "type", event.Type, "err", err)
			apperr.Write(c, err)
			return
		}

		log.Info("stripe event", "event", event.ID, "type", event.Type, "status", status)
		c.JSON(http.StatusOK, gin.H{"status": status})
	}
}

func dispatch(event stripe.Event) (string, error) {
	switch event.Type {
	case "checkout.session.completed":
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return "", apperr.BadRequest("invalid_event", "Failed to parse session")
		}
		return "received", handleCheckoutSessionCompleted(&session)

	case "customer.subscription.updated":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return "", apperr.BadRequest("invalid_event", "Failed to parse subscription")
		}
		return "received", handleSubscriptionUpdated(&sub)

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return "", apperr.BadRequest("invalid_event", "Failed to parse subscription")
		}
		return "received", handleSubscriptionDeleted(&sub)

	default:
		// acknowledged so Stripe stops retrying
		return "ignored", nil
	}
}

func readStripeBody(c *gin.Context, maxBytes int64) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
	return io.ReadAll(c.Request.Body)
}
