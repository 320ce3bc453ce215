// Package documents serves uploaded files: presigned upload and download,
// registration of uploaded objects and the AI extraction controls.
package documents

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"contracts-app/database"
	"contracts-app/internal/api/crud"
	"contracts-app/internal/api/table"
	"contracts-app/internal/apperr"
	"contracts-app/internal/domain/access"
	"contracts-app/internal/domain/records"
	"contracts-app/internal/infra/search"
	"contracts-app/internal/infra/storage"
	"contracts-app/internal/jobs"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	uploadURLExpiry   = 15 * time.Minute
	downloadURLExpiry = 15 * time.Minute
)

// Input is the update payload; the object itself never changes.
type Input struct {
	Title    *string `json:"title"`
	FileName *string `json:"file_name"`
}

func (in Input) Validate(create bool) error {
	return crud.Required("title", in.Title, create)
}

func (in Input) ApplyTo(d *records.Document) {
	crud.Set(&d.Title, in.Title)
	crud.Set(&d.FileName, in.FileName)
}

var Columns = table.Base(
	table.TextCol("title"),
	table.TextCol("file_name"),
	table.TextCol("content_type"),
	table.NumberCol("size_bytes"),
	table.EnumCol("upload_status", "pending", "uploaded"),
	table.EnumCol("extraction_status", "none", "queued", "processing", "completed", "error"),
	table.DateCol("extracted_at"),
)

var exportHeader = []string{"id", "title", "file_name", "content_type", "size_bytes", "upload_status", "extraction_status", "extraction_error", "created_at"}

func exportRow(d *records.Document) []string {
	size := d.SizeBytes
	return []string{
		d.ID, d.Title, d.FileName, d.ContentType, table.FmtInt(&size), string(d.UploadStatus),
		string(d.ExtractionStatus), d.ExtractionError, table.FmtTime(d.CreatedAt),
	}
}

func resource() *crud.Resource[records.Document, *records.Document, Input] {
	return &crud.Resource[records.Document, *records.Document, Input]{
		Name:         "documents",
		Columns:      Columns,
		NoCreate:     true,
		ExportHeader: exportHeader,
		ExportRow:    exportRow,
		SearchType:   search.TypeDocument,
		SearchText: func(d *records.Document) (string, string) {
			return d.Title, d.FileName
		},
	}
}

// Handler carries the storage and queue clients. Jobs may be nil when Redis
// is not configured; extraction then answers 503.
type Handler struct {
	Store storage.Store
	Jobs  jobs.Enqueuer

	res *crud.Resource[records.Document, *records.Document, Input]
}

func New(store storage.Store, q jobs.Enqueuer) *Handler {
	return &Handler{Store: store, Jobs: q, res: resource()}
}

// Register mounts the document routes. upload guards presign and register,
// extract guards the extraction triggers.
func (h *Handler) Register(g *gin.RouterGroup, db *gorm.DB, guards crud.Guards, upload, extract []gin.HandlerFunc) {
	rg := h.res.Register(g, db, guards)
	rg.POST("/upload-url", crud.With(upload, h.UploadURL)...)
	rg.POST("", crud.With(upload, h.Create)...)
	rg.GET("/:id/download-url", h.DownloadURL)
	rg.GET("/:id/extraction", h.Extraction)
	rg.POST("/:id/extract", crud.With(extract, h.Extract)...)
	rg.POST("/:id/retry", crud.With(extract, h.Retry)...)
}

func uploadLimit(c *gin.Context) int64 {
	if v, ok := c.Get(access.ContextKey); ok {
		if p, ok := v.(access.Policy); ok {
			return p.Limits.MaxUploadBytes
		}
	}
	return 0
}

func tooLarge(c *gin.Context, size int64) bool {
	limit := uploadLimit(c)
	if limit > 0 && size > limit {
		apperr.Write(c, apperr.New(http.StatusRequestEntityTooLarge, "file_too_large", "file exceeds the upload limit of your plan"))
		return true
	}
	return false
}

type uploadURLRequest struct {
	FileName    string `json:"file_name" binding:"required"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// POST /documents/upload-url
func (h *Handler) UploadURL(c *gin.Context) {
	scope, ok := crud.MustScope(c)
	if !ok {
		return
	}
	var req uploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Write(c, apperr.Invalid(err))
		return
	}
	if tooLarge(c, req.Size) {
		return
	}

	key := storage.BuildKey(scope.KeyPrefix(), req.FileName)
	u, err := h.Store.PresignPut(c.Request.Context(), key, uploadURLExpiry)
	if err != nil {
		apperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"object_key": key,
		"upload_url": u.String(),
		"expires_at": time.Now().Add(uploadURLExpiry).UTC(),
	})
}

type createRequest struct {
	Title       string `json:"title"`
	ObjectKey   string `json:"object_key" binding:"required"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
}

// POST /documents registers an object the client has uploaded.
func (h *Handler) Create(c *gin.Context) {
	scope, ok := crud.MustScope(c)
	if !ok {
		return
	}
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperr.Write(c, apperr.Invalid(err))
		return
	}
	if !strings.HasPrefix(req.ObjectKey, scope.KeyPrefix()) || strings.Contains(req.ObjectKey, "..") {
		apperr.Write(c, apperr.Forbidden("object key is outside your workspace"))
		return
	}

	info, err := h.Store.Stat(c.Request.Context(), req.ObjectKey)
	if errors.Is(err, storage.ErrNotFound) {
		apperr.Write(c, apperr.New(http.StatusNotFound, "object_missing", "the file has not been uploaded"))
		return
	}
	if err != nil {
		apperr.Write(c, err)
		return
	}
	if tooLarge(c, info.Size) {
		return
	}

	var n int64
	if err := database.DB.Model(&records.Document{}).Unscoped().Where("object_key = ?", req.ObjectKey).Count(&n).Error; err != nil {
		apperr.Write(c, err)
		return
	}
	if n > 0 {
		apperr.Write(c, apperr.New(http.StatusConflict, "already_registered", "this file is already registered"))
		return
	}

	fileName := req.FileName
	if fileName == "" {
		fileName = req.ObjectKey[strings.LastIndex(req.ObjectKey, "/")+1:]
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = fileName
	}
	contentType := info.ContentType
	if contentType == "" {
		contentType = req.ContentType
	}

	doc := records.Document{
		Title:            title,
		FileName:         fileName,
		ObjectKey:        req.ObjectKey,
		ContentType:      contentType,
		SizeBytes:        info.Size,
		UploadStatus:     records.UploadUploaded,
		ExtractionStatus: records.ExtractionNone,
	}
	doc.SetOwner(scope)
	if err := database.DB.Create(&doc).Error; err != nil {
		apperr.Write(c, err)
		return
	}

	h.res.Indexed(scope, &doc)
	c.JSON(http.StatusCreated, doc)
}

// GET /documents/:id/download-url
func (h *Handler) DownloadURL(c *gin.Context) {
	scope, ok := crud.MustScope(c)
	if !ok {
		return
	}
	doc, err := h.res.Load(database.DB, scope, c.Param("id"))
	if err != nil {
		apperr.Write(c, err)
		return
	}
	u, err := h.Store.PresignGet(c.Request.Context(), doc.ObjectKey, doc.FileName, downloadURLExpiry)
	if err != nil {
		apperr.Write(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"url":        u.String(),
		"expires_at": time.Now().Add(downloadURLExpiry).UTC(),
	})
}

// GET /documents/:id/extraction is polled by the client while a job runs.
func (h *Handler) Extraction(c *gin.Context) {
	scope, ok := crud.MustScope(c)
	if !ok {
		return
	}
	doc, err := h.res.Load(database.DB, scope, c.Param("id"))
	if err != nil {
		apperr.Write(c, err)
		return
	}

	var contractID *string
	var contract records.Contract
	err = scope.Query(database.DB.Model(&records.Contract{}), "").
		Select("id").Where("document_id = ?", doc.ID).First(&contract).Error
	switch {
	case err == nil:
		contractID = &contract.ID
	case !errors.Is(err, gorm.ErrRecordNotFound):
		apperr.Write(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"document_id":       doc.ID,
		"extraction_status": doc.ExtractionStatus,
		"extraction_error":  doc.ExtractionError,
		"extracted_at":      doc.ExtractedAt,
		"contract_id":       contractID,
	})
}

// POST /documents/:id/extract
func (h *Handler) Extract(c *gin.Context) {
	h.enqueue(c, func(s records.ExtractionStatus) bool {
		return s != records.ExtractionQueued && s != records.ExtractionProcessing
	})
}

// POST /documents/:id/retry reruns a finished or failed extraction.
func (h *Handler) Retry(c *gin.Context) {
	h.enqueue(c, func(s records.ExtractionStatus) bool {
		return s == records.ExtractionError || s == records.ExtractionCompleted
	})
}

func (h *Handler) enqueue(c *gin.Context, allowed func(records.ExtractionStatus) bool) {
	scope, ok := crud.MustScope(c)
	if !ok {
		return
	}
	if h.Jobs == nil {
		apperr.Write(c, apperr.Unavailable("extraction is not available"))
		return
	}
	doc, err := h.res.Load(database.DB, scope, c.Param("id"))
	if err != nil {
		apperr.Write(c, err)
		return
	}
	if doc.UploadStatus != records.UploadUploaded {
		apperr.Write(c, apperr.New(http.StatusConflict, "not_uploaded", "the file has not been uploaded"))
		return
	}
	if !allowed(doc.ExtractionStatus) {
		apperr.Write(c, apperr.New(http.StatusConflict, "invalid_state", "extraction is "+string(doc.ExtractionStatus)))
		return
	}

	// Claim the transition so two clicks do not enqueue twice.
	res := database.DB.Model(&records.Document{}).
		Where("id = ? AND extraction_status = ?", doc.ID, doc.ExtractionStatus).
		Updates(map[string]any{"extraction_status": records.ExtractionQueued, "extraction_error": ""})
	if res.Error != nil {
		apperr.Write(c, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		apperr.Write(c, apperr.New(http.StatusConflict, "invalid_state", "extraction already started"))
		return
	}

	if err := h.Jobs.EnqueueExtraction(c.Request.Context(), doc.ID); err != nil {
		log.Error("enqueue extraction", "document_id", doc.ID, "err", err)
		restore := map[string]any{"extraction_status": doc.ExtractionStatus, "extraction_error": doc.ExtractionError}
		if err := database.DB.Model(&records.Document{}).Where("id = ?", doc.ID).Updates(restore).Error; err != nil {
			log.Error("restore extraction status", "document_id", doc.ID, "err", err)
		}
		apperr.Write(c, apperr.Unavailable("could not queue extraction"))
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"document_id": doc.ID, "extraction_status": records.ExtractionQueued})
}
