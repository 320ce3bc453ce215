package billing

import (
	"net/http"

	"contracts-app/config"
	"contracts-app/internal/apperr"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/price"
)

type StripePrice struct {
	PriceID    string  `json:"price_id"`
	ProductID  string  `json:"product_id"`
	Name       string  `json:"name"`
	Tier       string  `json:"tier"`
	Currency   string  `json:"currency"`
	UnitAmount float64 `json:"unit_amount"` // major units
	Interval   string  `json:"interval"`    // month|year
}

// ListPrices lists the active recurring prices customers can subscribe to.
// Prices with metadata visible=false are hidden.
func ListPrices(c *gin.Context) {
	if config.STRIPE_SECRET_KEY == "" {
		apperr.Write(c, errStripeOff)
		return
	}

	params := &stripe.PriceListParams{}
	params.Active = stripe.Bool(true)
	params.Type = stripe.String("recurring")
	if config.STRIPE_PRODUCT_ID != "" {
		params.Product = stripe.String(config.STRIPE_PRODUCT_ID)
	}
	params.AddExpand("data.product")

	it := price.List(params)

	out := []StripePrice{}
	for it.Next() {
		p := it.Price()
		if !p.Active || p.Recurring == nil || p.Product == nil || !p.Product.Active {
			continue
		}
		if p.Metadata["visible"] == "false" {
			continue
		}
		out = append(out, StripePrice{
			PriceID:    p.ID,
			ProductID:  p.Product.ID,
			Name:       p.Product.Name,
			Tier:       p.Metadata["tier"],
			Currency:   string(p.Currency),
			UnitAmount: float64(p.UnitAmount) / 100.0,
			Interval:   string(p.Recurring.Interval),
		})
	}

	if err := it.Err(); err != nil {
		log.Error("stripe price list failed", "err", err)
		apperr.Write(c, apperr.New(http.StatusBadGateway, "stripe_error", "Failed to fetch Stripe prices"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": out})
}
