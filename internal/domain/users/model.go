package users

import (
	"contracts-app/internal/domain/plans"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	Name         string  `json:"name"`
	Lastname     string  `json:"lastname"`
	Tel          string  `json:"tel,omitempty"`
	Email        string  `gorm:"not null;uniqueIndex:idx_users_email" json:"email"`
	Password     *string `gorm:"" json:"-"`
	AuthProvider string  `gorm:"type:varchar(20);not null;default:'local'" json:"auth_provider"`
	GoogleSub    *string `gorm:"uniqueIndex:idx_users_google_sub" json:"-"`
	Role         string  `json:"role"`
	IsVerified   bool    `json:"is_verified"`

	PlanID *uint       `json:"plan_id,omitempty"`
	Plan   *plans.Plan `json:"plan,omitempty"`

	SubscriptionStart *time.Time `json:"subscription_start,omitempty"`
	SubscriptionEnd   *time.Time `json:"subscription_end,omitempty"`
	SubscriptionId    *string    `gorm:"column:subscription_id;uniqueIndex:idx_users_subscription_id" json:"-"`
	StripeCustomerID  *string    `gorm:"column:stripe_customer_id;uniqueIndex:idx_users_stripe_customer_id" json:"-"`
	CurrentPeriodEnd  *time.Time `gorm:"column:current_period_end" json:"current_period_end,omitempty"`

	TrialStartAt *time.Time `gorm:"column:trial_start_at" json:"trial_start_at,omitempty"`
	TrialEndAt   *time.Time `gorm:"column:trial_end_at" json:"trial_end_at,omitempty"`

	StripeSubscriptionStatus *string `gorm:"column:stripe_subscription_status" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullName joins name and lastname, skipping empty parts.
func (u User) FullName() string {
	switch {
	case u.Lastname == "":
		return u.Name
	case u.Name == "":
		return u.Lastname
	default:
		return u.Name + " " + u.Lastname
	}
}
