package events

import (
	"errors"

	"contracts-app/internal/api/crud"
	"contracts-app/internal/api/table"
	"contracts-app/internal/domain/records"
	"contracts-app/internal/importer"
	"contracts-app/internal/infra/search"
)

type Input struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Venue       *string    `json:"venue"`
	City        *string    `json:"city"`
	Beginning   *crud.Date `json:"beginning"`
	End         *crud.Date `json:"end"`
	ImageURL    *string    `json:"image_url"`
	Published   *bool      `json:"published"`
	crud.ArtistFields
}

func (in Input) Validate(create bool) error {
	if err := crud.Required("name", in.Name, create); err != nil {
		return err
	}
	if in.Beginning != nil && in.End != nil && in.Beginning.T != nil && in.End.T != nil && in.End.T.Before(*in.Beginning.T) {
		return errors.New("end must not be before beginning")
	}
	return nil
}

func (in Input) ApplyTo(e *records.Event) {
	crud.Set(&e.Name, in.Name)
	crud.Set(&e.Description, in.Description)
	crud.Set(&e.Venue, in.Venue)
	crud.Set(&e.City, in.City)
	crud.SetDate(&e.Beginning, in.Beginning)
	crud.SetDate(&e.End, in.End)
	crud.Set(&e.ImageURL, in.ImageURL)
	crud.Set(&e.Published, in.Published)
}

var Columns = table.Base(
	table.TextCol("name"),
	table.TextCol("description"),
	table.TextCol("venue"),
	table.TextCol("city"),
	table.DateCol("beginning"),
	table.DateCol("ends_at"),
	table.BoolCol("published"),
)

var exportHeader = []string{"id", "name", "artists", "venue", "city", "beginning", "end", "published", "image_url", "description"}

func exportRow(e *records.Event) []string {
	return []string{
		e.ID, e.Name, table.JoinNames(crud.ArtistNames(e.Artists)), e.Venue, e.City,
		table.FmtDate(e.Beginning), table.FmtDate(e.End), table.FmtBool(e.Published), e.ImageURL, e.Description,
	}
}

var aliases = importer.NewAliases(map[string][]string{
	"name":        {"nombre", "evento", "event", "titulo", "title"},
	"description": {"descripcion", "detalle", "notas"},
	"venue":       {"sala", "lugar", "recinto", "location"},
	"city":        {"ciudad", "localidad"},
	"beginning":   {"inicio", "fecha", "fecha de inicio", "start", "date"},
	"end":         {"fin", "fecha de fin", "ends", "end date"},
	"image_url":   {"imagen", "image", "cartel", "poster"},
	"published":   {"publicado", "publicada", "visible"},
	"artists":     {"artista", "artistas", "artist", "line up", "lineup", "cartel artistas"},
})

func fromCSV(r *importer.Row) Input {
	return Input{
		Name:         crud.CSVString(r, "name"),
		Description:  crud.CSVString(r, "description"),
		Venue:        crud.CSVString(r, "venue"),
		City:         crud.CSVString(r, "city"),
		Beginning:    crud.CSVDate(r, "beginning"),
		End:          crud.CSVDate(r, "end"),
		ImageURL:     crud.CSVString(r, "image_url"),
		Published:    crud.CSVBool(r, "published"),
		ArtistFields: crud.CSVArtists(r, "artists"),
	}
}

func New() *crud.Resource[records.Event, *records.Event, Input] {
	return &crud.Resource[records.Event, *records.Event, Input]{
		Name:         "events",
		Columns:      Columns,
		Preload:      []string{"Artists"},
		Artists:      true,
		ExportHeader: exportHeader,
		ExportRow:    exportRow,
		Aliases:      aliases,
		FromCSV:      fromCSV,
		SearchType:   search.TypeEvent,
		SearchText: func(e *records.Event) (string, string) {
			return e.Name, e.Venue + " " + e.City
		},
	}
}
