// Package tenancy scopes rows to a user's personal workspace or to a team.
package tenancy

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Ownership is embedded by every tenant-owned model.
type Ownership struct {
	TeamID *uint `gorm:"index" json:"team_id,omitempty"`
	UserID *uint `gorm:"index" json:"user_id,omitempty"`
}

// SetOwner stamps the row with the scope it is created in.
func (o *Ownership) SetOwner(s Scope) {
	uid := s.UserID
	o.UserID = &uid
	if s.TeamID != nil {
		tid := *s.TeamID
		o.TeamID = &tid
	} else {
		o.TeamID = nil
	}
}

// Owned is satisfied by any model embedding Ownership.
type Owned interface {
	SetOwner(s Scope)
}

// Scope is the tenant a request acts in: a team when TeamID is set,
// otherwise the user's personal workspace.
type Scope struct {
	UserID   uint
	TeamID   *uint
	TeamRole string
}

func Personal(userID uint) Scope {
	return Scope{UserID: userID}
}

func Team(userID, teamID uint, role string) Scope {
	return Scope{UserID: userID, TeamID: &teamID, TeamRole: role}
}

func (s Scope) IsTeam() bool { return s.TeamID != nil }

// Query restricts db to rows visible in the scope. table may be empty when
// the query has no joins.
func (s Scope) Query(db *gorm.DB, table string) *gorm.DB {
	prefix := ""
	if table != "" {
		prefix = table + "."
	}
	if s.TeamID != nil {
		return db.Where(prefix+"team_id = ?", *s.TeamID)
	}
	return db.Where(prefix+"user_id = ? AND "+prefix+"team_id IS NULL", s.UserID)
}

// KeyPrefix is the object storage prefix owned by the scope.
func (s Scope) KeyPrefix() string {
	if s.TeamID != nil {
		return fmt.Sprintf("team-%d/", *s.TeamID)
	}
	return fmt.Sprintf("user-%d/", s.UserID)
}

const contextKey = "tenancy.scope"

// Set stores the scope on the gin context. Called by the tenant middleware.
func Set(c *gin.Context, s Scope) {
	c.Set(contextKey, s)
	if s.TeamID != nil {
		c.Set("team_id", *s.TeamID)
	}
}

// FromContext returns the scope resolved for the request, falling back to the
// caller's personal workspace.
func FromContext(c *gin.Context) (Scope, bool) {
	if v, ok := c.Get(contextKey); ok {
		if s, ok := v.(Scope); ok {
			return s, true
		}
	}
	uid := c.GetUint("user_id")
	if uid == 0 {
		return Scope{}, false
	}
	return Personal(uid), true
}
