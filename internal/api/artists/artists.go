package artists

import (
	"contracts-app/internal/api/crud"
	"contracts-app/internal/api/table"
	"contracts-app/internal/domain/records"
	"contracts-app/internal/importer"
	"contracts-app/internal/infra/search"
)

type Input struct {
	Name     *string `json:"name"`
	RealName *string `json:"real_name"`
	Email    *string `json:"email"`
	Country  *string `json:"country"`
	URL      *string `json:"url"`
	Notes    *string `json:"notes"`
}

func (in Input) Validate(create bool) error {
	return crud.Required("name", in.Name, create)
}

func (in Input) ApplyTo(a *records.Artist) {
	crud.Set(&a.Name, in.Name)
	crud.Set(&a.RealName, in.RealName)
	crud.Set(&a.Email, in.Email)
	crud.Set(&a.Country, in.Country)
	crud.Set(&a.URL, in.URL)
	crud.Set(&a.Notes, in.Notes)
}

var Columns = table.Base(
	table.TextCol("name"),
	table.TextCol("real_name"),
	table.TextCol("email"),
	table.TextCol("country"),
	table.TextCol("url"),
	table.TextCol("notes"),
)

var exportHeader = []string{"id", "name", "real_name", "email", "country", "url", "notes", "created_at"}

func exportRow(a *records.Artist) []string {
	return []string{a.ID, a.Name, a.RealName, a.Email, a.Country, a.URL, a.Notes, table.FmtTime(a.CreatedAt)}
}

var aliases = importer.NewAliases(map[string][]string{
	"name":      {"nombre", "artista", "artist", "nombre artistico", "stage name"},
	"real_name": {"nombre real", "nombre legal", "legal name"},
	"email":     {"correo", "mail", "e-mail", "correo electronico"},
	"country":   {"pais", "nacionalidad"},
	"url":       {"web", "website", "link", "enlace"},
	"notes":     {"notas", "observaciones", "comentarios"},
})

func fromCSV(r *importer.Row) Input {
	return Input{
		Name:     crud.CSVString(r, "name"),
		RealName: crud.CSVString(r, "real_name"),
		Email:    crud.CSVString(r, "email"),
		Country:  crud.CSVString(r, "country"),
		URL:      crud.CSVString(r, "url"),
		Notes:    crud.CSVString(r, "notes"),
	}
}

func New() *crud.Resource[records.Artist, *records.Artist, Input] {
	return &crud.Resource[records.Artist, *records.Artist, Input]{
		Name:         "artists",
		Columns:      Columns,
		ExportHeader: exportHeader,
		ExportRow:    exportRow,
		Aliases:      aliases,
		FromCSV:      fromCSV,
		SearchType:   search.TypeArtist,
		SearchText: func(a *records.Artist) (string, string) {
			return a.Name, a.RealName
		},
	}
}
