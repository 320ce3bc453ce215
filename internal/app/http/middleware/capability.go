package middleware

import (
	"net/http"
	"time"

	"contracts-app/database"
	"contracts-app/internal/apperr"
	"contracts-app/internal/domain/access"
	"contracts-app/internal/domain/teams"
	"contracts-app/internal/domain/users"
	"contracts-app/internal/tenancy"

	"github.com/gin-gonic/gin"
)

// BillingOwner is the user whose subscription pays for the scope: the
// caller in a personal workspace, the team owner in a team.
func BillingOwner(s tenancy.Scope) (users.User, error) {
	ownerID := s.UserID
	if s.TeamID != nil {
		var team teams.Team
		if err := database.DB.Select("id", "owner_user_id").First(&team, *s.TeamID).Error; err != nil {
			return users.User{}, err
		}
		ownerID = team.OwnerUserID
	}

	var u users.User
	err := database.DB.Preload("Plan").First(&u, ownerID).Error
	return u, err
}

// policyFor computes the request policy once and caches it on the context.
func policyFor(c *gin.Context) (access.Policy, error) {
	if v, ok := c.Get(access.ContextKey); ok {
		if p, ok := v.(access.Policy); ok {
			return p, nil
		}
	}
	scope, ok := tenancy.FromContext(c)
	if !ok {
		return access.Policy{}, apperr.Unauthorized("Unauthorized")
	}
	owner, err := BillingOwner(scope)
	if err != nil {
		return access.Policy{}, err
	}
	p := access.ComputePolicy(time.Now(), owner)
	c.Set(access.ContextKey, p)
	return p, nil
}

// RequireCapability lets the request through when the billing owner's
// access policy grants capability.
func RequireCapability(capability access.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := policyFor(c)
		if err != nil {
			apperr.Write(c, err)
			return
		}
		if !p.Has(capability) {
			status := http.StatusForbidden
			if p.State == access.AccessLocked {
				status = http.StatusPaymentRequired
			}
			apperr.Write(c, apperr.WithDetails(status, "capability_required",
				"Your plan does not include this feature",
				gin.H{"capability": capability, "state": p.State}))
			return
		}
		c.Next()
	}
}
