package crud

import (
	"fmt"
	"strings"

	"contracts-app/internal/apperr"
	"contracts-app/internal/domain/records"
	"contracts-app/internal/tenancy"

	"gorm.io/gorm"
)

// ResolveArtists loads artists by id and finds or creates artists by name,
// all inside scope. The result has no duplicates and keeps input order;
// rows read back later list their artists by name.
func ResolveArtists(tx *gorm.DB, scope tenancy.Scope, names, ids []string) ([]records.Artist, error) {
	out := make([]records.Artist, 0, len(names)+len(ids))
	seen := map[string]bool{}

	if len(ids) > 0 {
		var found []records.Artist
		if err := scope.Query(tx.Model(&records.Artist{}), "").Where("id IN ?", ids).Find(&found).Error; err != nil {
			return nil, err
		}
		byID := make(map[string]records.Artist, len(found))
		for _, a := range found {
			byID[a.ID] = a
		}
		for _, id := range ids {
			a, ok := byID[id]
			if !ok {
				return nil, apperr.BadRequest("unknown_artist", fmt.Sprintf("artist %s not found", id))
			}
			if !seen[a.ID] {
				seen[a.ID] = true
				out = append(out, a)
			}
		}
	}

	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		var a records.Artist
		err := scope.Query(tx.Model(&records.Artist{}), "").
			Where("LOWER(name) = ?", strings.ToLower(name)).
			Order("created_at ASC").
			First(&a).Error
		switch {
		case err == gorm.ErrRecordNotFound:
			a = records.Artist{Name: name}
			a.SetOwner(scope)
			if err := tx.Create(&a).Error; err != nil {
				return nil, err
			}
		case err != nil:
			return nil, err
		}
		if !seen[a.ID] {
			seen[a.ID] = true
			out = append(out, a)
		}
	}
	return out, nil
}

// ArtistNames lists artist names for CSV cells.
func ArtistNames(artists []records.Artist) []string {
	out := make([]string, len(artists))
	for i, a := range artists {
		out[i] = a.Name
	}
	return out
}
