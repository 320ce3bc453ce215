package contracts

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
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
	ana    uint
	ben    uint
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := dbtest.Open(t)
	f := &fixture{
		db:  db,
		ana: dbtest.User(t, db, "ana@example.com").ID,
		ben: dbtest.User(t, db, "ben@example.com").ID,
	}

	r := gin.New()
	r.Use(func(c *gin.Context) {
		id, _ := strconv.ParseUint(c.GetHeader("X-Test-User"), 10, 64)
		c.Set("user_id", uint(id))
	})
	New().Register(r.Group("/"), db, crud.Guards{})
	f.engine = r
	return f
}

func (f *fixture) send(t *testing.T, as uint, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	req.Header.Set("X-Test-User", strconv.FormatUint(uint64(as), 10))
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func (f *fixture) upload(t *testing.T, as uint, path, csvData string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "import.csv")
	if err != nil {
		t.Fatal(err)
	}
	_, _ = part.Write([]byte(csvData))
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return f.send(t, as, req)
}

func (f *fixture) json(t *testing.T, as uint, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return f.send(t, as, req)
}

func decode[V any](t *testing.T, w *httptest.ResponseRecorder) V {
	t.Helper()
	var v V
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", w.Body, err)
	}
	return v
}

type page struct {
	Data      []records.Contract `json:"data"`
	Total     int64              `json:"total"`
	PageCount int                `json:"page_count"`
}

func TestCreateUpdateDelete(t *testing.T) {
	f := newFixture(t)

	w := f.json(t, f.ana, http.MethodPost, "/contracts", gin.H{
		"title":      "Management deal",
		"status":     "active",
		"start_date": "2024-02-01",
		"artists":    []string{"Sol", "Luna"},
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", w.Code, w.Body)
	}
	c := decode[records.Contract](t, w)
	if c.ArtistsDisplay != "Sol, Luna" {
		t.Fatalf("display %q keeps the credit as typed", c.ArtistsDisplay)
	}
	if len(c.Artists) != 2 || c.Artists[0].Name != "Luna" || c.Artists[1].Name != "Sol" {
		t.Fatalf("artists should be listed by name: %+v", c.Artists)
	}
	if c.IsPossibleToExpand != records.ExpansionUnspecified {
		t.Fatalf("default expansion %q", c.IsPossibleToExpand)
	}

	w = f.json(t, f.ana, http.MethodPut, "/contracts/"+c.ID, gin.H{"summary": "renegotiated"})
	if w.Code != http.StatusOK {
		t.Fatalf("update: %d %s", w.Code, w.Body)
	}
	u := decode[records.Contract](t, w)
	if u.Title != "Management deal" || u.Status != records.ContractActive || u.Summary != "renegotiated" {
		t.Fatalf("partial update touched other fields: %+v", u)
	}
	if len(u.Artists) != 2 {
		t.Fatalf("artists dropped by update without artists field: %d", len(u.Artists))
	}

	if w := f.json(t, f.ana, http.MethodPut, "/contracts/"+c.ID, gin.H{"status": "paused"}); w.Code != http.StatusBadRequest {
		t.Fatalf("invalid enum: %d", w.Code)
	}
	if w := f.json(t, f.ana, http.MethodPost, "/contracts", gin.H{"summary": "no title"}); w.Code != http.StatusBadRequest {
		t.Fatalf("missing title: %d", w.Code)
	}

	if w := f.json(t, f.ana, http.MethodDelete, "/contracts/"+c.ID, nil); w.Code != http.StatusOK {
		t.Fatalf("delete: %d", w.Code)
	}
	if w := f.json(t, f.ana, http.MethodGet, "/contracts/"+c.ID, nil); w.Code != http.StatusNotFound {
		t.Fatalf("get after delete: %d", w.Code)
	}

	// soft delete keeps the row
	var n int64
	f.db.Unscoped().Model(&records.Contract{}).Where("id = ?", c.ID).Count(&n)
	if n != 1 {
		t.Fatalf("contract should be soft deleted, found %d", n)
	}
}

func TestListFilterSortPaginate(t *testing.T) {
	f := newFixture(t)

	w := f.json(t, f.ana, http.MethodPost, "/contracts/batch", gin.H{"rows": []gin.H{
		{"title": "Charlie", "status": "active"},
		{"title": "alpha", "status": "finished"},
		{"title": "Bravo", "status": "active"},
		{"title": "Delta", "status": "active", "summary": "Publishing split"},
	}})
	if w.Code != http.StatusCreated {
		t.Fatalf("batch: %d %s", w.Code, w.Body)
	}

	w = f.json(t, f.ana, http.MethodGet, "/contracts?filter[status]=active&sort=title.asc&per_page=2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list: %d %s", w.Code, w.Body)
	}
	p := decode[page](t, w)
	if p.Total != 3 || p.PageCount != 2 || len(p.Data) != 2 {
		t.Fatalf("page %+v", p)
	}
	if p.Data[0].Title != "Bravo" || p.Data[1].Title != "Charlie" {
		t.Fatalf("order %q %q", p.Data[0].Title, p.Data[1].Title)
	}

	p = decode[page](t, f.json(t, f.ana, http.MethodGet, "/contracts?filter[status]=active&sort=title.asc&per_page=2&page=2", nil))
	if len(p.Data) != 1 || p.Data[0].Title != "Delta" {
		t.Fatalf("second page %+v", p.Data)
	}

	p = decode[page](t, f.json(t, f.ana, http.MethodGet, "/contracts?q=PUBLISHING", nil))
	if p.Total != 1 || p.Data[0].Title != "Delta" {
		t.Fatalf("search %+v", p)
	}

	for _, bad := range []string{"sort=salary.desc", "filter[salary]=1", "filter[status]=paused", "page=0"} {
		if w := f.json(t, f.ana, http.MethodGet, "/contracts?"+bad, nil); w.Code != http.StatusBadRequest {
			t.Fatalf("%s: %d", bad, w.Code)
		}
	}
}

func TestBatchIsAllOrNothing(t *testing.T) {
	f := newFixture(t)

	w := f.json(t, f.ana, http.MethodPost, "/contracts/batch", gin.H{"rows": []gin.H{
		{"title": "Ok"},
		{"summary": "missing title"},
	}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("batch: %d", w.Code)
	}
	body := decode[struct {
		Code    string
		Details struct{ Index int }
	}](t, w)
	if body.Code != "invalid_row" || body.Details.Index != 1 {
		t.Fatalf("error body %+v", body)
	}

	var n int64
	f.db.Model(&records.Contract{}).Count(&n)
	if n != 0 {
		t.Fatalf("batch left %d rows", n)
	}
}

func TestTenantIsolation(t *testing.T) {
	f := newFixture(t)

	c := decode[records.Contract](t, f.json(t, f.ana, http.MethodPost, "/contracts", gin.H{"title": "Private"}))

	if w := f.json(t, f.ben, http.MethodGet, "/contracts/"+c.ID, nil); w.Code != http.StatusNotFound {
		t.Fatalf("other user get: %d", w.Code)
	}
	if w := f.json(t, f.ben, http.MethodPut, "/contracts/"+c.ID, gin.H{"title": "Mine"}); w.Code != http.StatusNotFound {
		t.Fatalf("other user update: %d", w.Code)
	}
	w := f.json(t, f.ben, http.MethodPost, "/contracts/bulk-delete", gin.H{"ids": []string{c.ID}})
	if got := decode[struct{ Deleted int }](t, w); got.Deleted != 0 {
		t.Fatalf("other user bulk delete removed %d", got.Deleted)
	}
	if p := decode[page](t, f.json(t, f.ben, http.MethodGet, "/contracts", nil)); p.Total != 0 {
		t.Fatalf("other user sees %d rows", p.Total)
	}

	w = f.json(t, f.ana, http.MethodPost, "/contracts/bulk-delete", gin.H{"ids": []string{c.ID, "not-a-uuid"}})
	if got := decode[struct{ Deleted int }](t, w); got.Deleted != 1 {
		t.Fatalf("owner bulk delete removed %d", got.Deleted)
	}
}

func TestImportAndExport(t *testing.T) {
	f := newFixture(t)

	csvData := "\ufeffTítulo;Estado;Fecha de inicio;Artistas;Color\n" +
		"Acuerdo Luna;VIGENTE;01/02/2024;Luna;azul\n" +
		";FINALIZADO;;;\n" +
		"Acuerdo Sol;Finalizado;2023-05-10;Sol;rojo\n"

	w := f.upload(t, f.ana, "/contracts/import", csvData)
	if w.Code != http.StatusOK {
		t.Fatalf("import: %d %s", w.Code, w.Body)
	}
	res := decode[struct {
		Created  int
		Skipped  int
		Errors   []struct{ Line int }
		Unmapped []string `json:"unmapped_columns"`
	}](t, w)
	if res.Created != 2 || res.Skipped != 1 || len(res.Errors) != 1 || res.Errors[0].Line != 3 {
		t.Fatalf("import result %+v", res)
	}
	if len(res.Unmapped) != 1 {
		t.Fatalf("unmapped %v", res.Unmapped)
	}

	p := decode[page](t, f.json(t, f.ana, http.MethodGet, "/contracts?sort=title.asc", nil))
	if p.Total != 2 || p.Data[0].Status != records.ContractActive || p.Data[1].Status != records.ContractFinished {
		t.Fatalf("imported rows %+v", p.Data)
	}
	if p.Data[0].StartDate == nil || p.Data[0].StartDate.Format("2006-01-02") != "2024-02-01" {
		t.Fatalf("day-first date parsed as %v", p.Data[0].StartDate)
	}

	w = f.json(t, f.ana, http.MethodGet, "/contracts/export?filter[status]=active", nil)
	if w.Code != http.StatusOK || !strings.HasPrefix(w.Header().Get("Content-Type"), "text/csv") {
		t.Fatalf("export: %d %s", w.Code, w.Header().Get("Content-Type"))
	}
	lines := strings.Split(strings.TrimSpace(strings.TrimPrefix(w.Body.String(), "\ufeff")), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "id,title,") || !strings.Contains(lines[1], "Acuerdo Luna") {
		t.Fatalf("export body %q", w.Body.String())
	}
}

func TestImportWithEveryColumnMapped(t *testing.T) {
	f := newFixture(t)

	w := f.upload(t, f.ana, "/contracts/import", "title,status\nDeal,active\n")
	if w.Code != http.StatusOK {
		t.Fatalf("import: %d %s", w.Code, w.Body)
	}
	raw := decode[map[string]json.RawMessage](t, w)
	if string(raw["unmapped_columns"]) != "[]" || string(raw["errors"]) != "[]" {
		t.Fatalf("empty lists should render as []: %s", w.Body)
	}
}
