// Package dbtest opens a migrated in-memory SQLite database for tests and
// installs it as database.DB.
package dbtest

import (
	"fmt"
	"strings"
	"testing"

	"contracts-app/database"
	"contracts-app/internal/domain/teams"
	"contracts-app/internal/domain/users"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a fresh database private to t.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	prev := database.DB
	database.DB = db
	t.Cleanup(func() {
		database.DB = prev
		_ = sqlDB.Close()
	})
	return db
}

// User inserts a verified user with an active trial.
func User(t *testing.T, db *gorm.DB, email string) users.User {
	t.Helper()
	u := users.User{Name: "Test", Email: email, Role: users.RoleUser, IsVerified: true, AuthProvider: "local"}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

// Team creates a team owned by owner with owner as admin.
func Team(t *testing.T, db *gorm.DB, owner users.User, slug string) teams.Team {
	t.Helper()
	team := teams.Team{Name: slug, URL: slug, OwnerUserID: owner.ID}
	if err := db.Create(&team).Error; err != nil {
		t.Fatalf("create team: %v", err)
	}
	AddMember(t, db, team, owner, teams.RoleAdmin)
	return team
}

func AddMember(t *testing.T, db *gorm.DB, team teams.Team, u users.User, role teams.Role) {
	t.Helper()
	m := teams.Member{TeamID: team.ID, UserID: u.ID, Role: role}
	if err := db.Create(&m).Error; err != nil {
		t.Fatalf("add member: %v", err)
	}
}
