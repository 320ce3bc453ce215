package users

import "time"

type MeResponse struct {
	User    UserDTO    `json:"user"`
	Billing BillingDTO `json:"billing"`
	Access  AccessDTO  `json:"access"`
	Teams   []TeamDTO  `json:"teams"`
}

/* ---------- USER ---------- */

type UserDTO struct {
	ID           uint    `json:"id"`
	Email        string  `json:"email"`
	Name         string  `json:"name"`
	Lastname     string  `json:"lastname"`
	Tel          *string `json:"tel"`
	Role         string  `json:"role"`
	AuthProvider string  `json:"auth_provider"`
	IsVerified   bool    `json:"is_verified"`
}

/* ---------- BILLING ---------- */

type BillingDTO struct {
	Plan         *PlanDTO         `json:"plan"`
	Subscription *SubscriptionDTO `json:"subscription"`
	Trial        *TrialDTO        `json:"trial"`
}

type PlanDTO struct {
	ID            uint    `json:"id"`
	Key           string  `json:"key"`
	Tier          string  `json:"tier"`
	Interval      string  `json:"interval"`
	PriceEUR      float64 `json:"price_eur"`
	StripePriceID string  `json:"stripe_price_id"`
}

type SubscriptionDTO struct {
	Status               string     `json:"status"`
	StartsAt             *time.Time `json:"starts_at"`
	CurrentPeriodEnd     *time.Time `json:"current_period_end"`
	StripeSubscriptionID *string    `json:"stripe_subscription_id"`
}

type TrialDTO struct {
	StartsAt *time.Time `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at"`
	DaysLeft int        `json:"days_left"`
}

/* ---------- ACCESS ---------- */

type AccessDTO struct {
	State        string    `json:"state"`       // trial|full|limited|locked
	EditorMode   string    `json:"editor_mode"` // full|read_only
	Tier         string    `json:"tier"`
	Capabilities []string  `json:"capabilities"`
	Limits       LimitsDTO `json:"limits"`
}

type LimitsDTO struct {
	MaxUploadBytes int64 `json:"max_upload_bytes"`
	MaxImportRows  int   `json:"max_import_rows"`
	MaxTeams       int   `json:"max_teams"`
}

/* ---------- TEAMS ---------- */

type TeamDTO struct {
	ID      uint   `json:"id"`
	Name    string `json:"name"`
	URL     string `json:"url"`
	Role    string `json:"role"`
	IsOwner bool   `json:"is_owner"`
}
