package plans

import (
	"net/http"
	"strings"

	"contracts-app/config"
	"contracts-app/database"
	"contracts-app/internal/apperr"
	"contracts-app/internal/domain/plans"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v75"
	"github.com/stripe/stripe-go/v75/price"
	"gorm.io/gorm"
)

// PriceInfo is the subset of a Stripe price a plan is built from.
type PriceInfo struct {
	PriceID   string
	ProductID string
	Product   string
	Currency  string
	Amount    int64 // minor units
	Interval  string
	Metadata  map[string]string
}

func fromStripe(p *stripe.Price) (PriceInfo, bool) {
	if !p.Active || p.Recurring == nil || p.Product == nil || !p.Product.Active {
		return PriceInfo{}, false
	}
	return PriceInfo{
		PriceID:   p.ID,
		ProductID: p.Product.ID,
		Product:   p.Product.Name,
		Currency:  string(p.Currency),
		Amount:    p.UnitAmount,
		Interval:  string(p.Recurring.Interval),
		Metadata:  p.Metadata,
	}, true
}

// Eligible filters prices to EUR prices of the configured product that are
// not hidden with visible=false.
func Eligible(p PriceInfo, productID string) bool {
	if productID != "" && p.ProductID != productID {
		return false
	}
	if !strings.EqualFold(p.Currency, "eur") {
		return false
	}
	return p.Metadata["visible"] != "false"
}

// UpsertPlan creates or refreshes the plan for p.PriceID. The display name
// comes from metadata "plan" and the tier from "tier", falling back to
// "plan" when that names a known tier.
func UpsertPlan(db *gorm.DB, p PriceInfo) (created bool, err error) {
	name := p.Product
	if v := p.Metadata["plan"]; v != "" {
		name = v
	}
	tier := strings.ToLower(p.Metadata["tier"])
	if tier == "" {
		switch v := strings.ToLower(p.Metadata["plan"]); v {
		case plans.TierEssential, plans.TierProfessional, plans.TierAdvanced:
			tier = v
		}
	}

	var existing plans.Plan
	err = db.Where("stripe_price_id = ?", p.PriceID).First(&existing).Error
	switch {
	case err == nil:
		existing.Name = name
		existing.PriceEUR = float64(p.Amount) / 100.0
		existing.Interval = p.Interval
		existing.StripeProductID = p.ProductID
		if tier != "" {
			existing.Tier = tier
		}
		return false, db.Save(&existing).Error
	case err == gorm.ErrRecordNotFound:
		plan := plans.Plan{
			Name:            name,
			PriceEUR:        float64(p.Amount) / 100.0,
			StripePriceID:   p.PriceID,
			StripeProductID: p.ProductID,
			Interval:        p.Interval,
			Tier:            tier,
		}
		return true, db.Create(&plan).Error
	default:
		return false, err
	}
}

// SyncPlansFromStripe mirrors the active recurring prices into plans.
func SyncPlansFromStripe(c *gin.Context) {
	if config.STRIPE_SECRET_KEY == "" {
		apperr.Write(c, apperr.Unavailable("Billing is not configured"))
		return
	}

	params := &stripe.PriceListParams{}
	params.Active = stripe.Bool(true)
	params.Type = stripe.String("recurring")
	params.AddExpand("data.product")

	it := price.List(params)

	var synced, created, updated, skipped int
	for it.Next() {
		info, ok := fromStripe(it.Price())
		if !ok || !Eligible(info, config.STRIPE_PRODUCT_ID) {
			skipped++
			continue
		}
		isNew, err := UpsertPlan(database.DB, info)
		if err != nil {
			apperr.Write(c, err)
			return
		}
		if isNew {
			created++
		} else {
			updated++
		}
		synced++
	}

	if err := it.Err(); err != nil {
		log.Error("stripe price list failed", "err", err)
		apperr.Write(c, apperr.New(http.StatusBadGateway, "stripe_error", "Failed to fetch Stripe prices"))
		return
	}

	log.Info("plans synced", "synced", synced, "created", created, "updated", updated, "skipped", skipped)
	c.JSON(http.StatusOK, gin.H{
		"synced":  synced,
		"created": created,
		"updated": updated,
		"skipped": skipped,
	})
}

func ListPlans(c *gin.Context) {
	q := database.DB.Model(&plans.Plan{})
	if config.STRIPE_PRODUCT_ID != "" {
		q = q.Where("stripe_product_id = ?", config.STRIPE_PRODUCT_ID)
	}

	plansList := []plans.Plan{}
	if err := q.Order("price_eur ASC").Find(&plansList).Error; err != nil {
		apperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": plansList})
}
