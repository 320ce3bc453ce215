package billing

import (
	"contracts-app/internal/domain/plans"
	"contracts-app/internal/domain/users"
	"time"
)

type Payment struct {
	ID                   uint        `gorm:"primaryKey" json:"id"`
	UserID               uint        `gorm:"index" json:"user_id"`
	User                 users.User  `json:"-"`
	PlanID               *uint       `json:"plan_id,omitempty"`
	Plan                 *plans.Plan `json:"plan,omitempty"`
	StripeSessionID      string      `gorm:"uniqueIndex" json:"-"`
	StripeSubscriptionID *string     `json:"-"`
	AmountEUR            float64     `json:"amount_eur"`
	Status               string      `json:"status"`
	InvoiceID            *string     `json:"invoice_id,omitempty"`
	ReceiptURL           *string     `json:"receipt_url,omitempty"`
	CreatedAt            time.Time   `json:"created_at"`
}
