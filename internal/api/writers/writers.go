package writers

import (
	"contracts-app/internal/api/crud"
	"contracts-app/internal/api/table"
	"contracts-app/internal/domain/records"
	"contracts-app/internal/importer"
	"contracts-app/internal/infra/search"
)

type Input struct {
	Name         *string  `json:"name"`
	IPI          *string  `json:"ipi"`
	PRO          *string  `json:"pro"`
	Publisher    *string  `json:"publisher"`
	SharePercent *float64 `json:"share_percent"`
	Email        *string  `json:"email"`
}

func (in Input) Validate(create bool) error {
	return crud.First(
		crud.Required("name", in.Name, create),
		crud.Range("share_percent", in.SharePercent, 0, 100),
	)
}

func (in Input) ApplyTo(w *records.Writer) {
	crud.Set(&w.Name, in.Name)
	crud.Set(&w.IPI, in.IPI)
	crud.Set(&w.PRO, in.PRO)
	crud.Set(&w.Publisher, in.Publisher)
	crud.SetPtr(&w.SharePercent, in.SharePercent)
	crud.Set(&w.Email, in.Email)
}

var Columns = table.Base(
	table.TextCol("name"),
	table.TextCol("ipi"),
	table.TextCol("pro"),
	table.TextCol("publisher"),
	table.NumberCol("share_percent"),
	table.TextCol("email"),
)

var exportHeader = []string{"id", "name", "ipi", "pro", "publisher", "share_percent", "email"}

func exportRow(w *records.Writer) []string {
	return []string{w.ID, w.Name, w.IPI, w.PRO, w.Publisher, table.FmtFloat(w.SharePercent), w.Email}
}

var aliases = importer.NewAliases(map[string][]string{
	"name":          {"nombre", "autor", "compositor", "writer", "songwriter"},
	"ipi":           {"ipi/cae", "cae", "ipi number"},
	"pro":           {"sociedad", "sociedad de gestion", "society", "pro society"},
	"publisher":     {"editorial", "editora", "publishing"},
	"share_percent": {"porcentaje", "share", "% share", "participacion", "split"},
	"email":         {"correo", "mail", "e-mail"},
})

func fromCSV(r *importer.Row) Input {
	return Input{
		Name:         crud.CSVString(r, "name"),
		IPI:          crud.CSVString(r, "ipi"),
		PRO:          crud.CSVString(r, "pro"),
		Publisher:    crud.CSVString(r, "publisher"),
		SharePercent: crud.CSVFloat(r, "share_percent"),
		Email:        crud.CSVString(r, "email"),
	}
}

func New() *crud.Resource[records.Writer, *records.Writer, Input] {
	return &crud.Resource[records.Writer, *records.Writer, Input]{
		Name:         "writers",
		Columns:      Columns,
		ExportHeader: exportHeader,
		ExportRow:    exportRow,
		Aliases:      aliases,
		FromCSV:      fromCSV,
		SearchType:   search.TypeWriter,
		SearchText: func(w *records.Writer) (string, string) {
			return w.Name, w.Publisher
		},
	}
}
