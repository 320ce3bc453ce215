package crud

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"contracts-app/database"
	"contracts-app/internal/api/table"
	"contracts-app/internal/apperr"
	"contracts-app/internal/domain/access"
	"contracts-app/internal/importer"
	"contracts-app/internal/tenancy"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	maxBulkIDs        = 1000
	maxBatchRows      = 1000
	maxImportBytes    = 10 << 20
	defaultImportRows = 2000
)

// MustScope writes 401 when the request has no tenant scope.
func MustScope(c *gin.Context) (tenancy.Scope, bool) {
	scope, ok := tenancy.FromContext(c)
	if !ok {
		apperr.Write(c, apperr.Unauthorized("Unauthorized"))
		return tenancy.Scope{}, false
	}
	return scope, true
}

func (r *Resource[T, PT, In]) scoped(db *gorm.DB, scope tenancy.Scope) *gorm.DB {
	return scope.Query(db.Model(new(T)), "")
}

// preload attaches the resource's relations. Artists are listed by name.
func (r *Resource[T, PT, In]) preload(q *gorm.DB) *gorm.DB {
	for _, assoc := range r.Preload {
		if assoc == "Artists" {
			q = q.Preload(assoc, func(db *gorm.DB) *gorm.DB { return db.Order("name ASC") })
			continue
		}
		q = q.Preload(assoc)
	}
	return q
}

func (r *Resource[T, PT, In]) load(db *gorm.DB, scope tenancy.Scope, id string) (*T, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, apperr.NotFound("Record not found")
	}
	q := r.preload(r.scoped(db, scope))
	row := new(T)
	if err := q.Where("id = ?", id).First(row).Error; err != nil {
		return nil, err
	}
	return row, nil
}

// GET /<entity>
func (r *Resource[T, PT, In]) List(c *gin.Context) {
	scope, ok := MustScope(c)
	if !ok {
		return
	}
	p, err := table.ParseParams(c.Request.URL.Query(), r.Columns)
	if err != nil {
		apperr.Write(c, err)
		return
	}

	page, err := table.Paginate[T](p.Filter(r.scoped(database.DB, scope), r.Columns), p, "", r.preload)
	if err != nil {
		apperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GET /<entity>/:id
func (r *Resource[T, PT, In]) Get(c *gin.Context) {
	scope, ok := MustScope(c)
	if !ok {
		return
	}
	row, err := r.load(database.DB, scope, c.Param("id"))
	if err != nil {
		apperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, row)
}

// create inserts one validated row with its artists. The caller owns tx.
func (r *Resource[T, PT, In]) create(tx *gorm.DB, scope tenancy.Scope, in In) (*T, error) {
	if err := in.Validate(true); err != nil {
		return nil, apperr.Invalid(err)
	}
	row := new(T)
	in.ApplyTo(row)
	PT(row).SetOwner(scope)
	if r.BeforeSave != nil {
		if err := r.BeforeSave(tx, scope, row); err != nil {
			return nil, err
		}
	}

	if err := tx.Omit(clause.Associations).Create(row).Error; err != nil {
		return nil, err
	}
	if err := r.attachArtists(tx, scope, row, in); err != nil {
		return nil, err
	}
	return row, nil
}

// POST /<entity>
func (r *Resource[T, PT, In]) Create(c *gin.Context) {
	scope, ok := MustScope(c)
	if !ok {
		return
	}
	var in In
	if err := c.ShouldBindJSON(&in); err != nil {
		apperr.Write(c, apperr.Invalid(err))
		return
	}

	var out *T
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		row, err := r.create(tx, scope, in)
		if err != nil {
			return err
		}
		out, err = r.load(tx, scope, PT(row).GetID())
		return err
	})
	if err != nil {
		apperr.Write(c, err)
		return
	}

	r.index(scope, out)
	c.JSON(http.StatusCreated, out)
}

// PUT /<entity>/:id applies only the fields present in the body.
func (r *Resource[T, PT, In]) Update(c *gin.Context) {
	scope, ok := MustScope(c)
	if !ok {
		return
	}
	var in In
	if err := c.ShouldBindJSON(&in); err != nil {
		apperr.Write(c, apperr.Invalid(err))
		return
	}
	if err := in.Validate(false); err != nil {
		apperr.Write(c, apperr.Invalid(err))
		return
	}

	var out *T
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		row, err := r.load(tx, scope, c.Param("id"))
		if err != nil {
			return err
		}
		in.ApplyTo(row)
		if r.BeforeSave != nil {
			if err := r.BeforeSave(tx, scope, row); err != nil {
				return err
			}
		}
		if err := tx.Omit(clause.Associations).Save(row).Error; err != nil {
			return err
		}
		if err := r.attachArtists(tx, scope, row, in); err != nil {
			return err
		}
		out, err = r.load(tx, scope, PT(row).GetID())
		return err
	})
	if err != nil {
		apperr.Write(c, err)
		return
	}

	r.index(scope, out)
	c.JSON(http.StatusOK, out)
}

// deleteIDs removes the rows of ids visible in scope and returns the ids it
// actually deleted. Hard-deleted rows drop their artist links first.
func (r *Resource[T, PT, In]) deleteIDs(tx *gorm.DB, scope tenancy.Scope, ids []string) ([]string, error) {
	var rows []T
	if err := r.scoped(tx, scope).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	deleted := make([]string, len(rows))
	for i := range rows {
		deleted[i] = PT(&rows[i]).GetID()
	}

	del := tx
	if r.Artists && !r.softDelete {
		del = tx.Select("Artists")
	}
	if err := del.Delete(&rows).Error; err != nil {
		return nil, err
	}
	return deleted, nil
}

// DELETE /<entity>/:id
func (r *Resource[T, PT, In]) Delete(c *gin.Context) {
	scope, ok := MustScope(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		apperr.Write(c, apperr.NotFound("Record not found"))
		return
	}

	var deleted []string
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		deleted, err = r.deleteIDs(tx, scope, []string{id})
		if err != nil {
			return err
		}
		if len(deleted) == 0 {
			return apperr.NotFound("Record not found")
		}
		return nil
	})
	if err != nil {
		apperr.Write(c, err)
		return
	}

	r.unindex(deleted...)
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

type bulkDeleteRequest struct {
	IDs []string `json:"ids" binding:"required,min=1"`
}

// POST /<entity>/bulk-delete
func (r *Resource[T, PT, In]) BulkDelete(c *gin.Context) {
	scope, ok := MustScope(c)
	if !ok {
		return
	}
	var req bulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Write(c, apperr.Invalid(err))
		return
	}
	if len(req.IDs) > maxBulkIDs {
		apperr.Write(c, apperr.BadRequest("too_many_ids", fmt.Sprintf("at most %d ids per request", maxBulkIDs)))
		return
	}

	ids := make([]string, 0, len(req.IDs))
	for _, id := range req.IDs {
		if _, err := uuid.Parse(id); err == nil {
			ids = append(ids, id)
		}
	}

	var deleted []string
	if len(ids) > 0 {
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			var err error
			deleted, err = r.deleteIDs(tx, scope, ids)
			return err
		})
		if err != nil {
			apperr.Write(c, err)
			return
		}
	}

	r.unindex(deleted...)
	c.JSON(http.StatusOK, gin.H{"status": "deleted", "deleted": len(deleted)})
}

type batchRequest[In any] struct {
	Rows []In `json:"rows" binding:"required,min=1"`
}

// POST /<entity>/batch creates every row or none.
func (r *Resource[T, PT, In]) Batch(c *gin.Context) {
	scope, ok := MustScope(c)
	if !ok {
		return
	}
	var req batchRequest[In]
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Write(c, apperr.Invalid(err))
		return
	}
	if len(req.Rows) > maxBatchRows {
		apperr.Write(c, apperr.BadRequest("too_many_rows", fmt.Sprintf("at most %d rows per batch", maxBatchRows)))
		return
	}
	for i, in := range req.Rows {
		if err := in.Validate(true); err != nil {
			apperr.Write(c, apperr.WithDetails(http.StatusBadRequest, "invalid_row",
				fmt.Sprintf("row %d: %v", i, err), gin.H{"index": i}))
			return
		}
	}

	created := make([]*T, 0, len(req.Rows))
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		for _, in := range req.Rows {
			row, err := r.create(tx, scope, in)
			if err != nil {
				return err
			}
			created = append(created, row)
		}
		return nil
	})
	if err != nil {
		apperr.Write(c, err)
		return
	}

	r.index(scope, created...)
	c.JSON(http.StatusCreated, gin.H{"created": len(created), "data": created})
}

func importLimit(c *gin.Context) int {
	if v, ok := c.Get(access.ContextKey); ok {
		if p, ok := v.(access.Policy); ok && p.Limits.MaxImportRows > 0 {
			return p.Limits.MaxImportRows
		}
	}
	return defaultImportRows
}

// POST /<entity>/import takes a multipart "file" and creates every row that
// maps cleanly. Rejected rows are reported by line.
func (r *Resource[T, PT, In]) Import(c *gin.Context) {
	scope, ok := MustScope(c)
	if !ok {
		return
	}
	if r.FromCSV == nil {
		apperr.Write(c, apperr.NotFound("Import not supported"))
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		apperr.Write(c, apperr.BadRequest("missing_file", "multipart field \"file\" is required"))
		return
	}
	if fh.Size > maxImportBytes {
		apperr.Write(c, apperr.New(http.StatusRequestEntityTooLarge, "file_too_large", "CSV files are limited to 10 MB"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		apperr.Write(c, err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxImportBytes))
	if err != nil {
		apperr.Write(c, err)
		return
	}

	sheet, err := importer.Parse(data, r.Aliases)
	if err != nil {
		apperr.Write(c, apperr.BadRequest("invalid_csv", err.Error()))
		return
	}
	if limit := importLimit(c); len(sheet.Rows) > limit {
		apperr.Write(c, apperr.BadRequest("too_many_rows", fmt.Sprintf("this plan imports at most %d rows per file", limit)))
		return
	}

	var rowErrs []importer.RowError
	valid := make([]In, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		in := r.FromCSV(row)
		if err := row.Err(); err != nil {
			rowErrs = append(rowErrs, importer.RowError{Line: row.Line, Error: err.Error()})
			continue
		}
		if err := in.Validate(true); err != nil {
			rowErrs = append(rowErrs, importer.RowError{Line: row.Line, Error: err.Error()})
			continue
		}
		valid = append(valid, in)
	}

	created := make([]*T, 0, len(valid))
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		for _, in := range valid {
			row, err := r.create(tx, scope, in)
			if err != nil {
				return err
			}
			created = append(created, row)
		}
		return nil
	})
	if err != nil {
		apperr.Write(c, err)
		return
	}

	r.index(scope, created...)
	if rowErrs == nil {
		rowErrs = []importer.RowError{}
	}
	unmapped := sheet.Unmapped
	if unmapped == nil {
		unmapped = []string{}
	}
	c.JSON(http.StatusOK, gin.H{
		"created":          len(created),
		"skipped":          len(rowErrs),
		"errors":           rowErrs,
		"mapped_columns":   sheet.Mapped,
		"unmapped_columns": unmapped,
	})
}

// GET /<entity>/export streams the filtered, sorted rows as CSV.
func (r *Resource[T, PT, In]) Export(c *gin.Context) {
	scope, ok := MustScope(c)
	if !ok {
		return
	}
	if r.ExportRow == nil {
		apperr.Write(c, apperr.NotFound("Export not supported"))
		return
	}
	p, err := table.ParseParams(c.Request.URL.Query(), r.Columns)
	if err != nil {
		apperr.Write(c, err)
		return
	}

	q := r.preload(p.Filter(r.scoped(database.DB, scope), r.Columns))
	var rows []T
	if err := p.Order(q, "").Limit(table.ExportLimit).Find(&rows).Error; err != nil {
		apperr.Write(c, err)
		return
	}

	out := make([][]string, len(rows))
	for i := range rows {
		out[i] = r.ExportRow(&rows[i])
	}
	if err := table.WriteCSV(c, table.FileName(r.Name, time.Now()), r.ExportHeader, out); err != nil {
		_ = c.Error(errors.Join(errors.New("export write"), err))
	}
}
