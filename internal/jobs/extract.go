package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"contracts-app/internal/api/crud"
	"contracts-app/internal/domain/records"
	"contracts-app/internal/importer"
	"contracts-app/internal/infra/llm"
	"contracts-app/internal/infra/pdftext"
	"contracts-app/internal/infra/search"
	"contracts-app/internal/infra/storage"
	"contracts-app/internal/tenancy"

	"github.com/charmbracelet/log"
	"github.com/hibiken/asynq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const maxDocumentBytes = 100 << 20

// ContractExtractor is the model call; *llm.Client satisfies it.
type ContractExtractor interface {
	ExtractContract(ctx context.Context, fileName, text string) (llm.ContractFields, error)
}

// Extraction turns an uploaded contract PDF into a Contract row linked to
// the document.
type Extraction struct {
	DB      *gorm.DB
	Store   storage.Store
	LLM     ContractExtractor
	Indexer search.Indexer

	// Text extracts the PDF text layer; pdftext.Extract when nil.
	Text func(data []byte) (string, error)
}

// ProcessTask is the asynq handler. Failures that cannot succeed on retry
// are wrapped in asynq.SkipRetry; the document is marked failed once no
// retry is left.
func (e *Extraction) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var p extractPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}

	err := e.Run(ctx, p.DocumentID)
	if err == nil {
		return nil
	}

	retried, _ := asynq.GetRetryCount(ctx)
	maxRetry, ok := asynq.GetMaxRetry(ctx)
	if !ok {
		maxRetry = extractMaxRetry
	}
	final := errors.Is(err, asynq.SkipRetry) || retried >= maxRetry
	log.Warn("extraction failed", "document_id", p.DocumentID, "attempt", retried+1, "final", final, "err", err)
	if final {
		e.Fail(p.DocumentID, err)
	}
	return err
}

// Run performs one attempt.
func (e *Extraction) Run(ctx context.Context, documentID string) error {
	var doc records.Document
	if err := e.DB.WithContext(ctx).Where("id = ?", documentID).First(&doc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("document %s gone: %w", documentID, asynq.SkipRetry)
		}
		return err
	}
	if doc.UserID == nil {
		return fmt.Errorf("document %s has no owner: %w", documentID, asynq.SkipRetry)
	}
	scope := tenancy.Scope{UserID: *doc.UserID, TeamID: doc.TeamID}

	if err := e.setStatus(ctx, doc.ID, records.ExtractionProcessing, ""); err != nil {
		return err
	}
	log.Info("extraction started", "document_id", doc.ID, "key", doc.ObjectKey)

	data, err := e.Store.Read(ctx, doc.ObjectKey, maxDocumentBytes)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("object missing: %w", asynq.SkipRetry)
		}
		return fmt.Errorf("download: %w", err)
	}

	extract := e.Text
	if extract == nil {
		extract = pdftext.Extract
	}
	text, err := extract(data)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	fields, err := e.LLM.ExtractContract(ctx, doc.FileName, text)
	if err != nil {
		if errors.Is(err, llm.ErrNotConfigured) {
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return fmt.Errorf("llm: %w", err)
	}

	var contract records.Contract
	err = e.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		contract, err = upsertContract(tx, scope, &doc, fields)
		if err != nil {
			return err
		}
		now := time.Now()
		return tx.Model(&records.Document{}).Where("id = ?", doc.ID).Updates(map[string]any{
			"extraction_status": records.ExtractionCompleted,
			"extraction_error":  "",
			"extracted_at":      &now,
		}).Error
	})
	if err != nil {
		return fmt.Errorf("save contract: %w", err)
	}

	if e.Indexer != nil {
		e.Indexer.Index(search.Record{
			ID:       contract.ID,
			Type:     search.TypeContract,
			Title:    contract.Title,
			Subtitle: strings.TrimSpace(contract.ArtistsDisplay + " " + string(contract.Status)),
			Scope:    search.ScopeKey(scope),
		})
	}
	log.Info("extraction completed", "document_id", doc.ID, "contract_id", contract.ID)
	return nil
}

// Fail records the terminal error on the document.
func (e *Extraction) Fail(documentID string, cause error) {
	msg := cause.Error()
	msg = strings.TrimSuffix(msg, ": "+asynq.SkipRetry.Error())
	if err := e.setStatus(context.Background(), documentID, records.ExtractionError, msg); err != nil {
		log.Error("extraction: mark failed", "document_id", documentID, "err", err)
	}
}

func (e *Extraction) setStatus(ctx context.Context, id string, status records.ExtractionStatus, msg string) error {
	return e.DB.WithContext(ctx).Model(&records.Document{}).Where("id = ?", id).Updates(map[string]any{
		"extraction_status": status,
		"extraction_error":  msg,
	}).Error
}

// upsertContract updates the contract already linked to doc, or creates one.
// Fields the model left empty keep their current value.
func upsertContract(tx *gorm.DB, scope tenancy.Scope, doc *records.Document, f llm.ContractFields) (records.Contract, error) {
	var c records.Contract
	err := scope.Query(tx.Model(&records.Contract{}), "").Where("document_id = ?", doc.ID).First(&c).Error
	isNew := errors.Is(err, gorm.ErrRecordNotFound)
	if err != nil && !isNew {
		return c, err
	}
	if isNew {
		id := doc.ID
		c = records.Contract{DocumentID: &id, FileName: doc.FileName}
		c.SetOwner(scope)
	}

	setText(&c.Title, f.Title)
	if c.Title == "" {
		c.Title = doc.Title
	}
	setText(&c.PossibleExtensionTime, f.PossibleExtensionTime)
	setText(&c.Summary, f.Summary)
	if t, err := importer.ParseDate(f.StartDate); err == nil && t != nil {
		c.StartDate = t
	}
	if t, err := importer.ParseDate(f.EndDate); err == nil && t != nil {
		c.EndDate = t
	}
	if v, err := importer.ContractStatus.Parse(f.Status); err == nil && (isNew || strings.TrimSpace(f.Status) != "") {
		c.Status = records.ContractStatus(v)
	}
	if v, err := importer.Expansion.Parse(f.IsPossibleToExpand); err == nil && (isNew || strings.TrimSpace(f.IsPossibleToExpand) != "") {
		c.IsPossibleToExpand = records.Expansion(v)
	}

	names := make([]string, 0, len(f.Artists))
	for _, a := range f.Artists {
		if a = strings.TrimSpace(a); a != "" {
			names = append(names, a)
		}
	}
	if len(names) > 0 {
		c.ArtistsDisplay = strings.Join(names, ", ")
	}

	if isNew {
		err = tx.Omit(clause.Associations).Create(&c).Error
	} else {
		err = tx.Omit(clause.Associations).Save(&c).Error
	}
	if err != nil {
		return c, err
	}

	if len(names) > 0 {
		artists, err := crud.ResolveArtists(tx, scope, names, nil)
		if err != nil {
			return c, err
		}
		if err := tx.Model(&c).Association("Artists").Replace(artists); err != nil {
			return c, err
		}
	}
	return c, nil
}

func setText(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}
