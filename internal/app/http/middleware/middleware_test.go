package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"contracts-app/config"
	"contracts-app/internal/dbtest"
	"contracts-app/internal/domain/access"
	"contracts-app/internal/domain/teams"
	"contracts-app/internal/domain/users"
	"contracts-app/internal/tenancy"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// engine authenticates from X-Test-User and echoes the resolved scope.
func engine(chain ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		id, _ := strconv.ParseUint(c.GetHeader("X-Test-User"), 10, 64)
		if id > 0 {
			c.Set("user_id", uint(id))
		}
	})
	handlers := append(chain, func(c *gin.Context) {
		s, _ := tenancy.FromContext(c)
		c.JSON(http.StatusOK, gin.H{"user_id": s.UserID, "team_id": s.TeamID, "role": s.TeamRole})
	})
	r.GET("/x", handlers...)
	return r
}

func get(r *gin.Engine, as uint, team string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("X-Test-User", strconv.FormatUint(uint64(as), 10))
	if team != "" {
		req.Header.Set(TeamHeader, team)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func code(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct{ Code string }
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return body.Code
}

func TestTenantResolvesScope(t *testing.T) {
	db := dbtest.Open(t)
	owner := dbtest.User(t, db, "owner@example.com")
	member := dbtest.User(t, db, "member@example.com")
	outsider := dbtest.User(t, db, "out@example.com")
	team := dbtest.Team(t, db, owner, "north-label")
	dbtest.AddMember(t, db, team, member, teams.RoleMember)

	r := engine(Tenant())

	w := get(r, member.ID, "")
	var out struct {
		TeamID *uint `json:"team_id"`
		Role   string
	}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	if w.Code != http.StatusOK || out.TeamID != nil {
		t.Fatalf("personal: %d %s", w.Code, w.Body)
	}

	for _, ref := range []string{strconv.FormatUint(uint64(team.ID), 10), "North-Label"} {
		w = get(r, member.ID, ref)
		out = struct {
			TeamID *uint `json:"team_id"`
			Role   string
		}{}
		_ = json.Unmarshal(w.Body.Bytes(), &out)
		if w.Code != http.StatusOK || out.TeamID == nil || *out.TeamID != team.ID || out.Role != "member" {
			t.Fatalf("team by %q: %d %s", ref, w.Code, w.Body)
		}
	}

	w = get(r, outsider.ID, "north-label")
	if w.Code != http.StatusForbidden || code(t, w) != "not_a_member" {
		t.Fatalf("outsider: %d %s", w.Code, w.Body)
	}

	if w := get(r, 0, ""); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous: %d", w.Code)
	}
}

func TestRequireTeamAction(t *testing.T) {
	db := dbtest.Open(t)
	owner := dbtest.User(t, db, "owner@example.com")
	member := dbtest.User(t, db, "member@example.com")
	team := dbtest.Team(t, db, owner, "crew")
	dbtest.AddMember(t, db, team, member, teams.RoleMember)

	r := engine(Tenant(), RequireTeamAction(teams.ActionBulk))

	if w := get(r, member.ID, "crew"); w.Code != http.StatusForbidden || code(t, w) != "insufficient_role" {
		t.Fatalf("member bulk: %d %s", w.Code, w.Body)
	}
	if w := get(r, owner.ID, "crew"); w.Code != http.StatusOK {
		t.Fatalf("admin bulk: %d", w.Code)
	}
	if w := get(r, member.ID, ""); w.Code != http.StatusOK {
		t.Fatalf("personal bulk: %d", w.Code)
	}
}

func setTrial(t *testing.T, db *gorm.DB, u users.User, end time.Time) {
	t.Helper()
	start := end.Add(-14 * 24 * time.Hour)
	if err := db.Model(&u).Updates(map[string]any{"trial_start_at": start, "trial_end_at": end}).Error; err != nil {
		t.Fatal(err)
	}
}

func TestRequireCapability(t *testing.T) {
	db := dbtest.Open(t)
	active := dbtest.User(t, db, "active@example.com")
	lapsed := dbtest.User(t, db, "lapsed@example.com")
	setTrial(t, db, active, time.Now().Add(72*time.Hour))
	setTrial(t, db, lapsed, time.Now().Add(-time.Hour))

	r := engine(Tenant(), RequireCapability(access.CapEdit))

	if w := get(r, active.ID, ""); w.Code != http.StatusOK {
		t.Fatalf("trial user: %d %s", w.Code, w.Body)
	}
	w := get(r, lapsed.ID, "")
	if w.Code != http.StatusPaymentRequired || code(t, w) != "capability_required" {
		t.Fatalf("lapsed user: %d %s", w.Code, w.Body)
	}

	teamsOnly := engine(Tenant(), RequireCapability(access.CapTeams))
	if w := get(teamsOnly, active.ID, ""); w.Code != http.StatusForbidden {
		t.Fatalf("trial without professional plan should lack teams: %d", w.Code)
	}
}

func TestRequireCapabilityUsesTeamOwnerPlan(t *testing.T) {
	db := dbtest.Open(t)
	owner := dbtest.User(t, db, "owner@example.com")
	member := dbtest.User(t, db, "member@example.com")
	setTrial(t, db, owner, time.Now().Add(72*time.Hour))
	setTrial(t, db, member, time.Now().Add(-time.Hour))
	team := dbtest.Team(t, db, owner, "paid")
	dbtest.AddMember(t, db, team, member, teams.RoleMember)

	r := engine(Tenant(), RequireCapability(access.CapEdit))

	if w := get(r, member.ID, "paid"); w.Code != http.StatusOK {
		t.Fatalf("team scope should use owner's trial: %d %s", w.Code, w.Body)
	}
	if w := get(r, member.ID, ""); w.Code != http.StatusPaymentRequired {
		t.Fatalf("personal scope should use member's lapsed trial: %d", w.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	prev := config.JWT_SECRET
	config.JWT_SECRET = "test-secret"
	t.Cleanup(func() { config.JWT_SECRET = prev })

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", AuthMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetUint("user_id")})
	})

	sign := func(claims jwt.MapClaims) string {
		s, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		return s
	}
	call := func(header string) int {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	valid := sign(jwt.MapClaims{"user_id": 7, "email": "a@b.c", "role": "user", "exp": time.Now().Add(time.Hour).Unix()})
	if got := call("Bearer " + valid); got != http.StatusOK {
		t.Fatalf("valid token: %d", got)
	}
	if got := call(""); got != http.StatusUnauthorized {
		t.Fatalf("missing header: %d", got)
	}
	if got := call(valid); got != http.StatusUnauthorized {
		t.Fatalf("missing bearer prefix: %d", got)
	}
	expired := sign(jwt.MapClaims{"user_id": 7, "exp": time.Now().Add(-time.Hour).Unix()})
	if got := call("Bearer " + expired); got != http.StatusUnauthorized {
		t.Fatalf("expired token: %d", got)
	}
	noUser := sign(jwt.MapClaims{"email": "a@b.c", "exp": time.Now().Add(time.Hour).Unix()})
	if got := call("Bearer " + noUser); got != http.StatusUnauthorized {
		t.Fatalf("token without user_id: %d", got)
	}
}
