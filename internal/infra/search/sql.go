package search

import (
	"strings"

	"contracts-app/internal/domain/records"
	"contracts-app/internal/tenancy"

	"gorm.io/gorm"
)

type sqlSource struct {
	typ      ResultType
	model    any
	title    string
	subtitle string
}

var sqlSources = []sqlSource{
	{TypeContract, &records.Contract{}, "title", "artists_display"},
	{TypeRelease, &records.Release{}, "title", "artist_display"},
	{TypeArtist, &records.Artist{}, "name", "real_name"},
	{TypeDocument, &records.Document{}, "title", "file_name"},
	{TypeEvent, &records.Event{}, "name", "venue"},
	{TypeTask, &records.Task{}, "title", "label"},
	{TypeWriter, &records.Writer{}, "name", "publisher"},
}

// SQL searches every indexed table with LIKE. It is slow on large tenants but
// needs nothing beyond the database.
type SQL struct {
	db *gorm.DB
}

func NewSQL(db *gorm.DB) *SQL { return &SQL{db: db} }

func (s *SQL) Search(scope tenancy.Scope, q Query) ([]Result, int, error) {
	pattern := "%" + strings.ToLower(strings.TrimSpace(q.Text)) + "%"
	results := []Result{}

	for _, src := range sqlSources {
		if q.Type != "" && q.Type != src.typ {
			continue
		}
		var rows []struct {
			ID       string
			Title    string
			Subtitle string
		}
		tx := scope.Query(s.db.Model(src.model), "").
			Select("id, "+src.title+" AS title, "+src.subtitle+" AS subtitle").
			Where("LOWER("+src.title+") LIKE ? OR LOWER("+src.subtitle+") LIKE ?", pattern, pattern).
			Order("created_at DESC").
			Limit(q.Limit)
		if err := tx.Scan(&rows).Error; err != nil {
			return nil, 0, err
		}
		for _, r := range rows {
			results = append(results, Result{Type: src.typ, ID: r.ID, Title: r.Title, Subtitle: r.Subtitle})
		}
	}

	if len(results) > q.Limit {
		results = results[:q.Limit]
	}
	return results, len(results), nil
}
