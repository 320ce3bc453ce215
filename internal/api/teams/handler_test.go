package teams

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"contracts-app/internal/dbtest"
	"contracts-app/internal/domain/plans"
	"contracts-app/internal/domain/records"
	"contracts-app/internal/domain/teams"
	"contracts-app/internal/domain/users"
	"contracts-app/internal/tenancy"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func engine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		id, _ := strconv.ParseUint(c.GetHeader("X-Test-User"), 10, 64)
		c.Set("user_id", uint(id))
	})
	r.POST("/teams", CreateTeam)
	r.GET("/teams", ListTeams)
	r.GET("/teams/:id", GetTeam)
	r.PUT("/teams/:id", RenameTeam)
	r.DELETE("/teams/:id", DeleteTeam)
	r.GET("/teams/:id/members", ListMembers)
	r.POST("/teams/:id/members", AddMember)
	r.PUT("/teams/:id/members/:userId", UpdateMemberRole)
	r.DELETE("/teams/:id/members/:userId", RemoveMember)
	return r
}

func call(t *testing.T, r *gin.Engine, as uint, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Test-User", strconv.FormatUint(uint64(as), 10))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func proUser(t *testing.T, db *gorm.DB, email string) users.User {
	t.Helper()
	plan := plans.Plan{Name: "Pro " + email, StripePriceID: "price_" + email, Tier: plans.TierProfessional, PriceEUR: 49}
	if err := db.Create(&plan).Error; err != nil {
		t.Fatal(err)
	}
	u := dbtest.User(t, db, email)
	end := time.Now().Add(7 * 24 * time.Hour)
	if err := db.Model(&u).Updates(map[string]any{"plan_id": plan.ID, "trial_end_at": end}).Error; err != nil {
		t.Fatal(err)
	}
	return u
}

func createTeam(t *testing.T, r *gin.Engine, owner uint, name string) teamResponse {
	t.Helper()
	w := call(t, r, owner, http.MethodPost, "/teams", gin.H{"name": name})
	if w.Code != http.StatusCreated {
		t.Fatalf("create team: %d %s", w.Code, w.Body)
	}
	var out teamResponse
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	return out
}

func TestCreateTeamNeedsTeamsCapability(t *testing.T) {
	db := dbtest.Open(t)
	u := dbtest.User(t, db, "plain@example.com")
	r := engine()

	w := call(t, r, u.ID, http.MethodPost, "/teams", gin.H{"name": "Sello"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("status = %d body=%s", w.Code, w.Body)
	}
}

func TestCreateTeamMakesOwnerAdmin(t *testing.T) {
	db := dbtest.Open(t)
	owner := proUser(t, db, "owner@example.com")
	r := engine()

	team := createTeam(t, r, owner.ID, "Fily Box Récords")
	if team.URL != "fily-box-records" || team.Role != teams.RoleAdmin || team.OwnerUserID != owner.ID {
		t.Fatalf("team = %+v", team)
	}

	w := call(t, r, owner.ID, http.MethodPost, "/teams", gin.H{"name": "Second"})
	if w.Code != http.StatusCreated {
		t.Fatalf("second team within limit: %d", w.Code)
	}
	w = call(t, r, owner.ID, http.MethodPost, "/teams", gin.H{"name": "Third"})
	if w.Code != http.StatusCreated {
		t.Fatalf("third team within limit: %d", w.Code)
	}
	w = call(t, r, owner.ID, http.MethodPost, "/teams", gin.H{"name": "Fourth"})
	if w.Code != http.StatusForbidden {
		t.Fatalf("fourth team over limit: %d", w.Code)
	}
}

func TestMembersLifecycle(t *testing.T) {
	db := dbtest.Open(t)
	owner := proUser(t, db, "owner@example.com")
	other := dbtest.User(t, db, "member@example.com")
	r := engine()
	team := createTeam(t, r, owner.ID, "Sello")
	base := fmt.Sprintf("/teams/%d", team.ID)

	if w := call(t, r, other.ID, http.MethodGet, base, nil); w.Code != http.StatusNotFound {
		t.Fatalf("non-member get: %d", w.Code)
	}

	w := call(t, r, owner.ID, http.MethodPost, base+"/members", gin.H{"email": "MEMBER@example.com"})
	if w.Code != http.StatusCreated {
		t.Fatalf("add member: %d %s", w.Code, w.Body)
	}
	if w := call(t, r, owner.ID, http.MethodPost, base+"/members", gin.H{"email": "member@example.com"}); w.Code != http.StatusConflict {
		t.Fatalf("duplicate member: %d", w.Code)
	}
	if w := call(t, r, owner.ID, http.MethodPost, base+"/members", gin.H{"email": "ghost@example.com"}); w.Code != http.StatusNotFound {
		t.Fatalf("unknown email: %d", w.Code)
	}

	w = call(t, r, other.ID, http.MethodGet, "/teams", nil)
	var list struct {
		Data []teamResponse `json:"data"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if len(list.Data) != 1 || list.Data[0].Role != teams.RoleMember {
		t.Fatalf("member teams = %+v", list.Data)
	}

	if w := call(t, r, other.ID, http.MethodPut, base, gin.H{"name": "Mine"}); w.Code != http.StatusForbidden {
		t.Fatalf("member rename: %d", w.Code)
	}
	if w := call(t, r, owner.ID, http.MethodPut, base, gin.H{"name": "Renamed"}); w.Code != http.StatusOK {
		t.Fatalf("admin rename: %d", w.Code)
	}

	ownerPath := fmt.Sprintf("%s/members/%d", base, owner.ID)
	if w := call(t, r, owner.ID, http.MethodDelete, ownerPath, nil); w.Code != http.StatusBadRequest {
		t.Fatalf("remove owner: %d", w.Code)
	}
	if w := call(t, r, owner.ID, http.MethodPut, ownerPath, gin.H{"role": "member"}); w.Code != http.StatusBadRequest {
		t.Fatalf("demote owner: %d", w.Code)
	}

	memberPath := fmt.Sprintf("%s/members/%d", base, other.ID)
	if w := call(t, r, owner.ID, http.MethodPut, memberPath, gin.H{"role": "manager"}); w.Code != http.StatusOK {
		t.Fatalf("promote: %d %s", w.Code, w.Body)
	}
	var m teams.Member
	db.Where("team_id = ? AND user_id = ?", team.ID, other.ID).First(&m)
	if m.Role != teams.RoleManager {
		t.Fatalf("role = %s", m.Role)
	}

	if w := call(t, r, other.ID, http.MethodDelete, memberPath, nil); w.Code != http.StatusOK {
		t.Fatalf("leave: %d %s", w.Code, w.Body)
	}
	if w := call(t, r, other.ID, http.MethodGet, base, nil); w.Code != http.StatusNotFound {
		t.Fatalf("after leaving: %d", w.Code)
	}
}

func TestDeleteTeamOwnerOnlyAndPurges(t *testing.T) {
	db := dbtest.Open(t)
	owner := proUser(t, db, "owner@example.com")
	admin := dbtest.User(t, db, "admin@example.com")
	r := engine()
	team := createTeam(t, r, owner.ID, "Sello")
	dbtest.AddMember(t, db, teams.Team{ID: team.ID}, admin, teams.RoleAdmin)

	scope := tenancy.Team(owner.ID, team.ID, string(teams.RoleAdmin))
	artist := records.Artist{Name: "Luna"}
	artist.SetOwner(scope)
	db.Create(&artist)
	c := records.Contract{Title: "Deal", Status: records.ContractActive, IsPossibleToExpand: records.ExpansionNo}
	c.SetOwner(scope)
	db.Create(&c)
	if err := db.Model(&c).Association("Artists").Append(&artist); err != nil {
		t.Fatal(err)
	}
	personal := records.Contract{Title: "Mine", Status: records.ContractActive, IsPossibleToExpand: records.ExpansionNo}
	personal.SetOwner(tenancy.Personal(owner.ID))
	db.Create(&personal)

	base := fmt.Sprintf("/teams/%d", team.ID)
	if w := call(t, r, admin.ID, http.MethodDelete, base, nil); w.Code != http.StatusForbidden {
		t.Fatalf("admin delete: %d", w.Code)
	}
	if w := call(t, r, owner.ID, http.MethodDelete, base, nil); w.Code != http.StatusOK {
		t.Fatalf("owner delete: %d %s", w.Code, w.Body)
	}

	var n int64
	db.Unscoped().Model(&records.Contract{}).Where("team_id = ?", team.ID).Count(&n)
	if n != 0 {
		t.Fatalf("team contracts left: %d", n)
	}
	db.Model(&records.Contract{}).Where("id = ?", personal.ID).Count(&n)
	if n != 1 {
		t.Fatal("personal contract was purged")
	}
	db.Model(&teams.Member{}).Where("team_id = ?", team.ID).Count(&n)
	if n != 0 {
		t.Fatalf("members left: %d", n)
	}
}

func TestAddMemberReportsLookupFailure(t *testing.T) {
	db := dbtest.Open(t)
	owner := proUser(t, db, "owner@example.com")
	other := dbtest.User(t, db, "member@example.com")
	r := engine()
	team := createTeam(t, r, owner.ID, "Sello")

	// fail only the already-a-member count
	err := db.Callback().Query().Before("gorm:query").Register("test:fail_member_count", func(tx *gorm.DB) {
		if _, counting := tx.Statement.Dest.(*int64); counting && tx.Statement.Table == "team_members" {
			_ = tx.AddError(errors.New("connection reset"))
		}
	})
	if err != nil {
		t.Fatal(err)
	}

	w := call(t, r, owner.ID, http.MethodPost, fmt.Sprintf("/teams/%d/members", team.ID), gin.H{"email": other.Email})
	if err := db.Callback().Query().Remove("test:fail_member_count"); err != nil {
		t.Fatal(err)
	}
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d body=%s", w.Code, w.Body)
	}

	var n int64
	db.Model(&teams.Member{}).Where("team_id = ? AND user_id = ?", team.ID, other.ID).Count(&n)
	if n != 0 {
		t.Fatalf("member created despite failed lookup: %d", n)
	}
}
