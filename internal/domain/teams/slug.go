package teams

import (
	"fmt"
	"regexp"
	"strings"

	"contracts-app/internal/textfold"

	"gorm.io/gorm"
)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// MakeSlug turns a team name into a URL-safe slug.
// Every run of other characters becomes one dash.
// Example: "Fily Box Récords" -> "fily-box-records"
func MakeSlug(name string) string {
	base := strings.ToLower(textfold.StripAccents(name))
	base = nonSlug.ReplaceAllString(base, "-")
	base = strings.Trim(base, "-")

	if base == "" {
		base = "team"
	}
	if len(base) > 48 {
		base = strings.Trim(base[:48], "-")
	}
	return base
}

// UniqueSlug returns MakeSlug(name), suffixed with -2, -3, ... until no team
// uses it.
func UniqueSlug(db *gorm.DB, name string) (string, error) {
	if db == nil {
		return "", fmt.Errorf("db is nil")
	}
	base := MakeSlug(name)
	slug := base
	for i := 2; i < 1000; i++ {
		var count int64
		if err := db.Model(&Team{}).Where("url = ?", slug).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
	return "", fmt.Errorf("no free slug for %q", name)
}
