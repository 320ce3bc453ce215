package teams

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"contracts-app/database"
	"contracts-app/internal/apperr"
	"contracts-app/internal/domain/records"
	"contracts-app/internal/domain/teams"
	"contracts-app/internal/domain/users"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GET /teams/:id/members
func ListMembers(c *gin.Context) {
	uid, ok := mustUserID(c)
	if !ok {
		return
	}
	t, _, ok := membership(c, uid)
	if !ok {
		return
	}
	var ms []teams.Member
	if err := database.DB.Preload("User").Where("team_id = ?", t.ID).Order("created_at ASC").Find(&ms).Error; err != nil {
		apperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": ms})
}

type addMemberRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role"`
}

// POST /teams/:id/members adds an existing user by email.
func AddMember(c *gin.Context) {
	uid, ok := mustUserID(c)
	if !ok {
		return
	}
	t, m, ok := membership(c, uid)
	if !ok || !requireAction(c, m, teams.ActionManageMember) {
		return
	}
	var req addMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Write(c, apperr.Invalid(err))
		return
	}
	role := teams.RoleMember
	if req.Role != "" {
		r, ok := teams.NormalizeRole(req.Role)
		if !ok {
			apperr.Write(c, apperr.BadRequest("invalid_role", "role must be member, manager or admin"))
			return
		}
		role = r
	}

	var u users.User
	err := database.DB.Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(req.Email))).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		apperr.Write(c, apperr.New(http.StatusNotFound, "user_not_found", "No account uses this email"))
		return
	}
	if err != nil {
		apperr.Write(c, err)
		return
	}

	var n int64
	if err := database.DB.Model(&teams.Member{}).Where("team_id = ? AND user_id = ?", t.ID, u.ID).Count(&n).Error; err != nil {
		apperr.Write(c, err)
		return
	}
	if n > 0 {
		apperr.Write(c, apperr.New(http.StatusConflict, "already_member", "User is already a member"))
		return
	}

	member := teams.Member{TeamID: t.ID, UserID: u.ID, Role: role}
	if err := database.DB.Create(&member).Error; err != nil {
		apperr.Write(c, err)
		return
	}
	member.User = u
	c.JSON(http.StatusCreated, member)
}

func targetUserID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("userId"), 10, 64)
	if err != nil {
		apperr.Write(c, apperr.NotFound("Member not found"))
		return 0, false
	}
	return uint(id), true
}

type roleRequest struct {
	Role string `json:"role" binding:"required"`
}

// PUT /teams/:id/members/:userId changes a member's role. The owner always
// stays admin.
func UpdateMemberRole(c *gin.Context) {
	uid, ok := mustUserID(c)
	if !ok {
		return
	}
	t, m, ok := membership(c, uid)
	if !ok || !requireAction(c, m, teams.ActionManageMember) {
		return
	}
	target, ok := targetUserID(c)
	if !ok {
		return
	}
	var req roleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Write(c, apperr.Invalid(err))
		return
	}
	role, valid := teams.NormalizeRole(req.Role)
	if !valid {
		apperr.Write(c, apperr.BadRequest("invalid_role", "role must be member, manager or admin"))
		return
	}
	if target == t.OwnerUserID && role != teams.RoleAdmin {
		apperr.Write(c, apperr.BadRequest("owner_role", "The team owner must stay admin"))
		return
	}

	var member teams.Member
	if err := database.DB.Where("team_id = ? AND user_id = ?", t.ID, target).First(&member).Error; err != nil {
		apperr.Write(c, err)
		return
	}
	if err := database.DB.Model(&member).Update("role", role).Error; err != nil {
		apperr.Write(c, err)
		return
	}
	member.Role = role
	c.JSON(http.StatusOK, member)
}

// DELETE /teams/:id/members/:userId removes a member. Members may remove
// themselves; the owner cannot be removed.
func RemoveMember(c *gin.Context) {
	uid, ok := mustUserID(c)
	if !ok {
		return
	}
	t, m, ok := membership(c, uid)
	if !ok {
		return
	}
	target, ok := targetUserID(c)
	if !ok {
		return
	}
	if target != uid && !requireAction(c, m, teams.ActionManageMember) {
		return
	}
	if target == t.OwnerUserID {
		apperr.Write(c, apperr.BadRequest("owner_cannot_be_removed", "The team owner cannot be removed"))
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("team_id = ? AND user_id = ?", t.ID, target).Delete(&teams.Member{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("Member not found")
		}
		return tx.Model(&records.Task{}).
			Where("team_id = ? AND assignee_id = ?", t.ID, target).
			Update("assignee_id", nil).Error
	})
	if err != nil {
		apperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
