package search

import (
	"testing"

	"contracts-app/internal/dbtest"
	"contracts-app/internal/domain/records"
	"contracts-app/internal/tenancy"
)

func TestServiceFallsBackToSQL(t *testing.T) {
	db := dbtest.Open(t)
	u := dbtest.User(t, db, "search@example.com")
	other := dbtest.User(t, db, "other@example.com")
	team := dbtest.Team(t, db, u, "label")

	personal := tenancy.Personal(u.ID)
	teamScope := tenancy.Team(u.ID, team.ID, "admin")

	mk := func(s tenancy.Scope, title, artists string) {
		c := records.Contract{Title: title, ArtistsDisplay: artists}
		c.SetOwner(s)
		if err := db.Create(&c).Error; err != nil {
			t.Fatalf("create contract: %v", err)
		}
	}
	mk(personal, "Licencia Rosa", "Rosa")
	mk(teamScope, "Licencia equipo", "Banda")
	mk(tenancy.Personal(other.ID), "Licencia ajena", "Nadie")

	a := records.Artist{Name: "Rosalia Vega"}
	a.SetOwner(personal)
	if err := db.Create(&a).Error; err != nil {
		t.Fatalf("create artist: %v", err)
	}

	svc := NewService(nil, db)

	resp, err := svc.Search(personal, Query{Text: "ROS"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.Engine != "sql" {
		t.Errorf("engine = %q, want sql", resp.Engine)
	}
	if resp.Total != 2 {
		t.Fatalf("total = %d, want 2 (%+v)", resp.Total, resp.Results)
	}

	resp, err = svc.Search(personal, Query{Text: "licencia", Type: TypeContract})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.Total != 1 || resp.Results[0].Title != "Licencia Rosa" {
		t.Fatalf("personal scope leaked rows: %+v", resp.Results)
	}

	resp, err = svc.Search(teamScope, Query{Text: "licencia"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.Total != 1 || resp.Results[0].Title != "Licencia equipo" {
		t.Fatalf("team scope = %+v", resp.Results)
	}
}

func TestSQLFallbackCoversEveryType(t *testing.T) {
	db := dbtest.Open(t)
	u := dbtest.User(t, db, "types@example.com")
	scope := tenancy.Personal(u.ID)

	e := records.Event{Name: "Gira Norte", Venue: "Sala Apolo"}
	e.SetOwner(scope)
	tk := records.Task{Title: "Enviar norte", Status: records.TaskTodo, Priority: records.PriorityMedium}
	tk.SetOwner(scope)
	w := records.Writer{Name: "Norte Ruiz", Publisher: "Ed. Sur"}
	w.SetOwner(scope)
	for _, row := range []any{&e, &tk, &w} {
		if err := db.Create(row).Error; err != nil {
			t.Fatalf("create %T: %v", row, err)
		}
	}

	svc := NewService(nil, db)
	for _, typ := range []ResultType{TypeEvent, TypeTask, TypeWriter} {
		resp, err := svc.Search(scope, Query{Text: "norte", Type: typ})
		if err != nil {
			t.Fatalf("Search(%s): %v", typ, err)
		}
		if resp.Total != 1 || resp.Results[0].Type != typ {
			t.Errorf("Search(%s) = %+v", typ, resp.Results)
		}
	}
}

func TestNilServiceIndexing(t *testing.T) {
	var svc *Service
	svc.Index(Record{ID: "x"})
	svc.Remove("x")
	svc.Close()
}

func TestScopeKey(t *testing.T) {
	if got := ScopeKey(tenancy.Team(1, 7, "member")); got != "team-7" {
		t.Errorf("ScopeKey(team) = %q", got)
	}
	if got := ScopeKey(tenancy.Personal(3)); got != "user-3" {
		t.Errorf("ScopeKey(personal) = %q", got)
	}
}
