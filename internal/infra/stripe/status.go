package stripe

import "strings"

const (
	StatusNone       = "none"
	StatusActive     = "active"
	StatusTrialing   = "trialing"
	StatusPastDue    = "past_due"
	StatusIncomplete = "incomplete"
	StatusCanceled   = "canceled"
)

// NormalizeStripeStatus folds Stripe subscription statuses onto the handful
// the access policy distinguishes.
func NormalizeStripeStatus(s *string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return StatusNone
	}
	switch v := strings.ToLower(strings.TrimSpace(*s)); v {
	case "active":
		return StatusActive
	case "trialing":
		return StatusTrialing
	case "past_due", "unpaid":
		return StatusPastDue
	case "incomplete", "paused":
		return StatusIncomplete
	case "canceled", "incomplete_expired":
		return StatusCanceled
	default:
		return v
	}
}
