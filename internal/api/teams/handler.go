// Package teams manages shared workspaces and their members.
package teams

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"contracts-app/database"
	"contracts-app/internal/apperr"
	"contracts-app/internal/domain/access"
	"contracts-app/internal/domain/records"
	"contracts-app/internal/domain/teams"
	"contracts-app/internal/domain/users"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func mustUserID(c *gin.Context) (uint, bool) {
	uid := c.GetUint("user_id")
	if uid == 0 {
		apperr.Write(c, apperr.Unauthorized("Unauthorized"))
		return 0, false
	}
	return uid, true
}

type teamResponse struct {
	teams.Team
	Role teams.Role `json:"role"`
}

// membership loads the team and the caller's membership. Non-members get
// 404 so team ids are not probed.
func membership(c *gin.Context, uid uint) (teams.Team, teams.Member, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apperr.Write(c, apperr.NotFound("Team not found"))
		return teams.Team{}, teams.Member{}, false
	}

	var m teams.Member
	err = database.DB.Where("team_id = ? AND user_id = ?", id, uid).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			err = apperr.NotFound("Team not found")
		}
		apperr.Write(c, err)
		return teams.Team{}, teams.Member{}, false
	}
	var t teams.Team
	if err := database.DB.First(&t, id).Error; err != nil {
		apperr.Write(c, err)
		return teams.Team{}, teams.Member{}, false
	}
	return t, m, true
}

func requireAction(c *gin.Context, m teams.Member, action teams.Action) bool {
	if teams.Can(m.Role, action) {
		return true
	}
	apperr.Write(c, apperr.WithDetails(http.StatusForbidden, "insufficient_role",
		"Your team role does not allow this action", gin.H{"role": m.Role, "action": action}))
	return false
}

type nameRequest struct {
	Name string `json:"name" binding:"required,max=120"`
}

// POST /teams. The creator's own plan must include teams.
func CreateTeam(c *gin.Context) {
	uid, ok := mustUserID(c)
	if !ok {
		return
	}
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Write(c, apperr.Invalid(err))
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		apperr.Write(c, apperr.BadRequest("invalid_input", "name is required"))
		return
	}

	var u users.User
	if err := database.DB.Preload("Plan").First(&u, uid).Error; err != nil {
		apperr.Write(c, err)
		return
	}
	policy := access.ComputePolicy(time.Now(), u)
	if !policy.Has(access.CapTeams) {
		apperr.Write(c, apperr.WithDetails(http.StatusForbidden, "capability_required",
			"Your plan does not include teams", gin.H{"capability": access.CapTeams, "state": policy.State}))
		return
	}

	var owned int64
	if err := database.DB.Model(&teams.Team{}).Where("owner_user_id = ?", uid).Count(&owned).Error; err != nil {
		apperr.Write(c, err)
		return
	}
	if u.Role != users.RoleAdmin && int(owned) >= policy.Limits.MaxTeams {
		apperr.Write(c, apperr.New(http.StatusForbidden, "team_limit", "Your plan does not allow more teams"))
		return
	}

	var team teams.Team
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		slug, err := teams.UniqueSlug(tx, name)
		if err != nil {
			return err
		}
		team = teams.Team{Name: name, URL: slug, OwnerUserID: uid}
		if err := tx.Create(&team).Error; err != nil {
			return err
		}
		return tx.Create(&teams.Member{TeamID: team.ID, UserID: uid, Role: teams.RoleAdmin}).Error
	})
	if err != nil {
		apperr.Write(c, err)
		return
	}

	log.Info("team created", "team_id", team.ID, "owner", uid)
	c.JSON(http.StatusCreated, teamResponse{Team: team, Role: teams.RoleAdmin})
}

// GET /teams lists the caller's teams with their role in each.
func ListTeams(c *gin.Context) {
	uid, ok := mustUserID(c)
	if !ok {
		return
	}
	var ms []teams.Member
	if err := database.DB.Where("user_id = ?", uid).Order("created_at ASC").Find(&ms).Error; err != nil {
		apperr.Write(c, err)
		return
	}
	ids := make([]uint, len(ms))
	roles := make(map[uint]teams.Role, len(ms))
	for i, m := range ms {
		ids[i] = m.TeamID
		roles[m.TeamID] = m.Role
	}

	var ts []teams.Team
	if len(ids) > 0 {
		if err := database.DB.Where("id IN ?", ids).Order("name ASC").Find(&ts).Error; err != nil {
			apperr.Write(c, err)
			return
		}
	}
	out := make([]teamResponse, len(ts))
	for i, t := range ts {
		out[i] = teamResponse{Team: t, Role: roles[t.ID]}
	}
	c.JSON(http.StatusOK, gin.H{"data": out})
}

// GET /teams/:id
func GetTeam(c *gin.Context) {
	uid, ok := mustUserID(c)
	if !ok {
		return
	}
	t, m, ok := membership(c, uid)
	if !ok {
		return
	}
	if err := database.DB.Preload("User").Where("team_id = ?", t.ID).Order("created_at ASC").Find(&t.Members).Error; err != nil {
		apperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, teamResponse{Team: t, Role: m.Role})
}

// PUT /teams/:id renames the team. The URL slug is kept.
func RenameTeam(c *gin.Context) {
	uid, ok := mustUserID(c)
	if !ok {
		return
	}
	t, m, ok := membership(c, uid)
	if !ok || !requireAction(c, m, teams.ActionManageTeam) {
		return
	}
	var req nameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Write(c, apperr.Invalid(err))
		return
	}
	t.Name = strings.TrimSpace(req.Name)
	if t.Name == "" {
		apperr.Write(c, apperr.BadRequest("invalid_input", "name is required"))
		return
	}
	if err := database.DB.Model(&t).Update("name", t.Name).Error; err != nil {
		apperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, teamResponse{Team: t, Role: m.Role})
}

// DELETE /teams/:id removes the team and everything it owns.
func DeleteTeam(c *gin.Context) {
	uid, ok := mustUserID(c)
	if !ok {
		return
	}
	t, _, ok := membership(c, uid)
	if !ok {
		return
	}
	if t.OwnerUserID != uid {
		apperr.Write(c, apperr.Forbidden("Only the team owner can delete the team"))
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := records.PurgeTeam(tx, t.ID); err != nil {
			return err
		}
		if err := tx.Where("team_id = ?", t.ID).Delete(&teams.Member{}).Error; err != nil {
			return err
		}
		return tx.Delete(&t).Error
	})
	if err != nil {
		apperr.Write(c, err)
		return
	}

	log.Info("team deleted", "team_id", t.ID, "owner", uid)
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
