package users

import (
	"net/http"
	"time"

	"contracts-app/database"
	"contracts-app/internal/apperr"
	"contracts-app/internal/domain/access"
	"contracts-app/internal/domain/teams"
	"contracts-app/internal/domain/users"

	"github.com/gin-gonic/gin"
)

// GetCurrentUser returns the caller's profile, billing state, personal
// access policy and team memberships.
func GetCurrentUser(c *gin.Context) {
	uid := c.GetUint("user_id")
	if uid == 0 {
		apperr.Write(c, apperr.Unauthorized("Unauthorized"))
		return
	}

	var user users.User
	if err := database.DB.Preload("Plan").First(&user, uid).Error; err != nil {
		apperr.Write(c, apperr.NotFound("User not found"))
		return
	}

	var memberships []teams.Member
	if err := database.DB.Where("user_id = ?", uid).Find(&memberships).Error; err != nil {
		apperr.Write(c, err)
		return
	}
	teamDTOs := make([]TeamDTO, 0, len(memberships))
	if len(memberships) > 0 {
		ids := make([]uint, 0, len(memberships))
		roles := make(map[uint]teams.Role, len(memberships))
		for _, m := range memberships {
			ids = append(ids, m.TeamID)
			roles[m.TeamID] = m.Role
		}
		var ts []teams.Team
		if err := database.DB.Where("id IN ?", ids).Order("name").Find(&ts).Error; err != nil {
			apperr.Write(c, err)
			return
		}
		for _, t := range ts {
			teamDTOs = append(teamDTOs, TeamDTO{
				ID:      t.ID,
				Name:    t.Name,
				URL:     t.URL,
				Role:    string(roles[t.ID]),
				IsOwner: t.OwnerUserID == uid,
			})
		}
	}

	now := time.Now()
	policy := access.ComputePolicy(now, user)

	var tel *string
	if user.Tel != "" {
		tel = &user.Tel
	}

	c.JSON(http.StatusOK, MeResponse{
		User: UserDTO{
			ID:           user.ID,
			Email:        user.Email,
			Name:         user.Name,
			Lastname:     user.Lastname,
			Tel:          tel,
			Role:         user.Role,
			AuthProvider: user.AuthProvider,
			IsVerified:   user.IsVerified,
		},
		Billing: BillingDTO{
			Plan:         BuildPlanDTO(user.Plan),
			Subscription: BuildSubscriptionDTO(user),
			Trial:        BuildTrialDTO(now, user.TrialStartAt, user.TrialEndAt),
		},
		Access: BuildAccessDTO(policy),
		Teams:  teamDTOs,
	})
}
