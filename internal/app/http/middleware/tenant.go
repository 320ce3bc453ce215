package middleware

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"contracts-app/database"
	"contracts-app/internal/apperr"
	"contracts-app/internal/domain/teams"
	"contracts-app/internal/tenancy"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TeamHeader selects the team a request acts in, by id or URL slug. Without
// it the request acts in the caller's personal workspace.
const TeamHeader = "X-Team"

func Tenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := c.GetUint("user_id")
		if uid == 0 {
			apperr.Write(c, apperr.Unauthorized("Unauthorized"))
			return
		}

		ref := strings.TrimSpace(c.GetHeader(TeamHeader))
		if ref == "" {
			tenancy.Set(c, tenancy.Personal(uid))
			c.Next()
			return
		}

		q := database.DB.Model(&teams.Member{}).
			Joins("JOIN teams ON teams.id = team_members.team_id").
			Where("team_members.user_id = ?", uid)
		if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
			q = q.Where("teams.id = ?", id)
		} else {
			q = q.Where("teams.url = ?", strings.ToLower(ref))
		}

		var m teams.Member
		if err := q.Select("team_members.*").First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				apperr.Write(c, apperr.New(http.StatusForbidden, "not_a_member", "You are not a member of this team"))
				return
			}
			apperr.Write(c, err)
			return
		}

		tenancy.Set(c, tenancy.Team(uid, m.TeamID, string(m.Role)))
		c.Next()
	}
}

// RequireTeamAction rejects team members whose role does not allow action.
// The personal workspace allows everything.
func RequireTeamAction(action teams.Action) gin.HandlerFunc {
	return func(c *gin.Context) {
		scope, ok := tenancy.FromContext(c)
		if !ok {
			apperr.Write(c, apperr.Unauthorized("Unauthorized"))
			return
		}
		if !teams.Can(teams.Role(scope.TeamRole), action) {
			apperr.Write(c, apperr.WithDetails(http.StatusForbidden, "insufficient_role",
				"Your team role does not allow this action",
				gin.H{"role": scope.TeamRole, "action": action}))
			return
		}
		c.Next()
	}
}
