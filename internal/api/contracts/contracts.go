package contracts

import (
	"errors"
	"strings"

	"contracts-app/internal/api/crud"
	"contracts-app/internal/api/table"
	"contracts-app/internal/apperr"
	"contracts-app/internal/domain/records"
	"contracts-app/internal/importer"
	"contracts-app/internal/infra/search"
	"contracts-app/internal/tenancy"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Input struct {
	Title                 *string                 `json:"title"`
	FileName              *string                 `json:"file_name"`
	ArtistsDisplay        *string                 `json:"artists_display"`
	StartDate             *crud.Date              `json:"start_date"`
	EndDate               *crud.Date              `json:"end_date"`
	IsPossibleToExpand    *records.Expansion      `json:"is_possible_to_expand"`
	PossibleExtensionTime *string                 `json:"possible_extension_time"`
	Status                *records.ContractStatus `json:"status"`
	Summary               *string                 `json:"summary"`
	DocumentID            *string                 `json:"document_id"`
	crud.ArtistFields
}

func (in Input) Validate(create bool) error {
	return crud.First(
		crud.Required("title", in.Title, create),
		crud.OneOf("status", in.Status, records.ContractActive, records.ContractFinished, records.ContractUnspecified),
		crud.OneOf("is_possible_to_expand", in.IsPossibleToExpand, records.ExpansionYes, records.ExpansionNo, records.ExpansionUnspecified),
		validDocumentID(in.DocumentID),
	)
}

func validDocumentID(id *string) error {
	if id == nil || *id == "" {
		return nil
	}
	if _, err := uuid.Parse(*id); err != nil {
		return errors.New("document_id must be a UUID")
	}
	return nil
}

func (in Input) ApplyTo(c *records.Contract) {
	crud.Set(&c.Title, in.Title)
	crud.Set(&c.FileName, in.FileName)
	crud.Set(&c.ArtistsDisplay, in.ArtistsDisplay)
	crud.SetDate(&c.StartDate, in.StartDate)
	crud.SetDate(&c.EndDate, in.EndDate)
	crud.Set(&c.IsPossibleToExpand, in.IsPossibleToExpand)
	crud.Set(&c.PossibleExtensionTime, in.PossibleExtensionTime)
	crud.Set(&c.Status, in.Status)
	crud.Set(&c.Summary, in.Summary)
	if in.DocumentID != nil {
		if *in.DocumentID == "" {
			c.DocumentID = nil
		} else {
			crud.SetPtr(&c.DocumentID, in.DocumentID)
		}
	}

	if c.Status == "" {
		c.Status = records.ContractUnspecified
	}
	if c.IsPossibleToExpand == "" {
		c.IsPossibleToExpand = records.ExpansionUnspecified
	}
	if c.ArtistsDisplay == "" && in.Artists != nil {
		c.ArtistsDisplay = table.JoinNames(*in.Artists)
	}
}

var Columns = table.Base(
	table.TextCol("title"),
	table.TextCol("file_name"),
	table.TextCol("artists_display"),
	table.DateCol("start_date"),
	table.DateCol("end_date"),
	table.EnumCol("is_possible_to_expand", "yes", "no", "unspecified"),
	table.TextCol("possible_extension_time"),
	table.EnumCol("status", "active", "finished", "unspecified"),
	table.TextCol("summary"),
)

var exportHeader = []string{
	"id", "title", "artists", "artists_display", "start_date", "end_date", "status",
	"is_possible_to_expand", "possible_extension_time", "file_name", "summary", "created_at",
}

func exportRow(c *records.Contract) []string {
	return []string{
		c.ID, c.Title, table.JoinNames(crud.ArtistNames(c.Artists)), c.ArtistsDisplay,
		table.FmtDate(c.StartDate), table.FmtDate(c.EndDate), string(c.Status),
		string(c.IsPossibleToExpand), c.PossibleExtensionTime, c.FileName, c.Summary,
		table.FmtTime(c.CreatedAt),
	}
}

var aliases = importer.NewAliases(map[string][]string{
	"title":                   {"titulo", "contrato", "nombre", "name", "contract"},
	"file_name":               {"archivo", "file", "nombre de archivo"},
	"artists":                 {"artistas", "artista", "artist"},
	"artists_display":         {"artistas display", "credito", "credit"},
	"start_date":              {"fecha de inicio", "inicio", "fecha inicio", "start", "desde", "fecha de firma"},
	"end_date":                {"fecha de fin", "fin", "fecha fin", "fecha de termino", "end", "hasta", "vencimiento"},
	"status":                  {"estado", "estatus", "situacion"},
	"is_possible_to_expand":   {"renovable", "prorrogable", "posible ampliacion", "ampliable", "expandable", "se puede ampliar"},
	"possible_extension_time": {"tiempo de ampliacion", "prorroga", "extension", "tiempo de prorroga"},
	"summary":                 {"resumen", "notas", "notes", "descripcion", "description"},
})

func fromCSV(r *importer.Row) Input {
	return Input{
		Title:                 crud.CSVString(r, "title"),
		FileName:              crud.CSVString(r, "file_name"),
		ArtistsDisplay:        crud.CSVString(r, "artists_display"),
		StartDate:             crud.CSVDate(r, "start_date"),
		EndDate:               crud.CSVDate(r, "end_date"),
		IsPossibleToExpand:    crud.CSVEnum[records.Expansion](r, "is_possible_to_expand", importer.Expansion),
		PossibleExtensionTime: crud.CSVString(r, "possible_extension_time"),
		Status:                crud.CSVEnum[records.ContractStatus](r, "status", importer.ContractStatus),
		Summary:               crud.CSVString(r, "summary"),
		ArtistFields:          crud.CSVArtists(r, "artists"),
	}
}

func checkDocument(tx *gorm.DB, scope tenancy.Scope, c *records.Contract) error {
	if c.DocumentID == nil {
		return nil
	}
	var n int64
	err := scope.Query(tx.Model(&records.Document{}), "").Where("id = ?", *c.DocumentID).Count(&n).Error
	if err != nil {
		return err
	}
	if n == 0 {
		return apperr.BadRequest("unknown_document", "document not found")
	}
	return nil
}

func New() *crud.Resource[records.Contract, *records.Contract, Input] {
	return &crud.Resource[records.Contract, *records.Contract, Input]{
		Name:         "contracts",
		Columns:      Columns,
		Preload:      []string{"Artists"},
		Artists:      true,
		ExportHeader: exportHeader,
		ExportRow:    exportRow,
		Aliases:      aliases,
		FromCSV:      fromCSV,
		BeforeSave:   checkDocument,
		SearchType:   search.TypeContract,
		SearchText: func(c *records.Contract) (string, string) {
			return c.Title, strings.TrimSpace(c.ArtistsDisplay + " " + string(c.Status))
		},
	}
}
