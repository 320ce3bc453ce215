package tustreams

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"contracts-app/internal/api/crud"
	"contracts-app/internal/dbtest"
	"contracts-app/internal/domain/records"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type fixture struct {
	db     *gorm.DB
	engine *gin.Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := dbtest.Open(t)
	u := dbtest.User(t, db, "streams@example.com")

	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("user_id", u.ID) })
	New().Register(r.Group("/"), db, crud.Guards{})
	return &fixture{db: db, engine: r}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func (f *fixture) count(t *testing.T, table string) int64 {
	t.Helper()
	var n int64
	if err := f.db.Table(table).Count(&n).Error; err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func (f *fixture) create(t *testing.T, title string, artists ...string) records.TuStreams {
	t.Helper()
	w := f.do(t, http.MethodPost, "/tustreams", gin.H{"title": title, "artists": artists, "total": 10.5})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body)
	}
	var row records.TuStreams
	if err := json.Unmarshal(w.Body.Bytes(), &row); err != nil {
		t.Fatal(err)
	}
	return row
}

func TestHardDeleteDropsArtistLinks(t *testing.T) {
	f := newFixture(t)

	a := f.create(t, "Luz", "Ana", "Bo")
	b := f.create(t, "Sombra", "Ana")
	keep := f.create(t, "Niebla", "Bo")
	if got := f.count(t, "tu_streams_artists"); got != 4 {
		t.Fatalf("links after create = %d, want 4", got)
	}

	w := f.do(t, http.MethodPost, "/tustreams/bulk-delete", gin.H{"ids": []string{a.ID, b.ID}})
	var res struct{ Deleted int }
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil || res.Deleted != 2 {
		t.Fatalf("bulk delete: %d %s", w.Code, w.Body)
	}

	if w := f.do(t, http.MethodDelete, "/tustreams/"+keep.ID, nil); w.Code != http.StatusOK {
		t.Fatalf("delete: %d", w.Code)
	}

	var rows int64
	f.db.Unscoped().Model(&records.TuStreams{}).Count(&rows)
	if rows != 0 {
		t.Fatalf("tu_streams rows left = %d, want hard delete", rows)
	}
	if got := f.count(t, "tu_streams_artists"); got != 0 {
		t.Fatalf("artist links left = %d", got)
	}
	// the artists themselves belong to the workspace, not to the row
	var artists int64
	f.db.Model(&records.Artist{}).Count(&artists)
	if artists != 2 {
		t.Fatalf("artists = %d, want 2", artists)
	}
}

func TestImportSemicolonReport(t *testing.T) {
	f := newFixture(t)

	csvData := "Título;Artistas;Importe;Fecha;Tipo\n" +
		"Luz;Ana;1.234,56;02/01/2024;Sencillo\n" +
		"Sombra;Bo & Ana;12,5;2024-03-01;EP\n" +
		";Ana;3;;\n" +
		"Mala;Ana;abc;;\n"

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "tustreams.csv")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = part.Write([]byte(csvData))
	_ = mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/tustreams/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("import: %d %s", w.Code, w.Body)
	}

	var res struct {
		Created int
		Errors  []struct{ Line int }
	}
	if err := json.Unmarshal(w.Body.Bytes(), &res); err != nil {
		t.Fatal(err)
	}
	if res.Created != 2 || len(res.Errors) != 2 || res.Errors[0].Line != 4 || res.Errors[1].Line != 5 {
		t.Fatalf("import result = %s", w.Body)
	}

	var luz records.TuStreams
	if err := f.db.Preload("Artists").Where("title = ?", "Luz").First(&luz).Error; err != nil {
		t.Fatal(err)
	}
	if luz.Total == nil || *luz.Total != 1234.56 {
		t.Errorf("total = %v, want 1234.56", luz.Total)
	}
	if luz.Date == nil || luz.Date.Format("2006-01-02") != "2024-01-02" {
		t.Errorf("date = %v, want day-first 2024-01-02", luz.Date)
	}
	if luz.ReleaseType != records.ReleaseSingle {
		t.Errorf("release type = %q", luz.ReleaseType)
	}

	var sombra records.TuStreams
	if err := f.db.Preload("Artists").Where("title = ?", "Sombra").First(&sombra).Error; err != nil {
		t.Fatal(err)
	}
	if sombra.Total == nil || *sombra.Total != 12.5 || sombra.ReleaseType != records.ReleaseEP {
		t.Errorf("sombra = %+v", sombra)
	}
	if len(sombra.Artists) != 2 {
		t.Errorf("sombra artists = %+v", sombra.Artists)
	}
}
