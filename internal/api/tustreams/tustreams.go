package tustreams

import (
	"contracts-app/internal/api/crud"
	"contracts-app/internal/api/table"
	"contracts-app/internal/domain/records"
	"contracts-app/internal/importer"
)

type Input struct {
	ArtistDisplay *string              `json:"artist_display"`
	Title         *string              `json:"title"`
	UPC           *string              `json:"upc"`
	ReleaseType   *records.ReleaseType `json:"release_type"`
	Total         *float64             `json:"total"`
	Date          *crud.Date           `json:"date"`
	crud.ArtistFields
}

func (in Input) Validate(create bool) error {
	return crud.First(
		crud.Required("title", in.Title, create),
		crud.OneOf("release_type", in.ReleaseType, records.ReleaseSingle, records.ReleaseEP, records.ReleaseAlbum, records.ReleaseUnspecified),
	)
}

func (in Input) ApplyTo(t *records.TuStreams) {
	crud.Set(&t.ArtistDisplay, in.ArtistDisplay)
	crud.Set(&t.Title, in.Title)
	crud.Set(&t.UPC, in.UPC)
	crud.Set(&t.ReleaseType, in.ReleaseType)
	crud.SetPtr(&t.Total, in.Total)
	crud.SetDate(&t.Date, in.Date)

	if t.ReleaseType == "" {
		t.ReleaseType = records.ReleaseUnspecified
	}
	if t.ArtistDisplay == "" && in.Artists != nil {
		t.ArtistDisplay = table.JoinNames(*in.Artists)
	}
}

var Columns = table.Base(
	table.TextCol("artist_display"),
	table.TextCol("title"),
	table.TextCol("upc"),
	table.EnumCol("release_type", "single", "ep", "album", "unspecified"),
	table.NumberCol("total"),
	table.DateCol("date"),
)

var exportHeader = []string{"id", "date", "title", "artists", "artist_display", "upc", "release_type", "total"}

func exportRow(t *records.TuStreams) []string {
	return []string{
		t.ID, table.FmtDate(t.Date), t.Title, table.JoinNames(crud.ArtistNames(t.Artists)),
		t.ArtistDisplay, t.UPC, string(t.ReleaseType), table.FmtFloat(t.Total),
	}
}

var aliases = importer.NewAliases(map[string][]string{
	"artist_display": {"artista display", "credito"},
	"artists":        {"artista", "artistas", "artist"},
	"title":          {"titulo", "lanzamiento", "release", "nombre"},
	"upc":            {"ean", "codigo de barras", "upc/ean"},
	"release_type":   {"tipo", "formato", "type"},
	"total":          {"importe", "ingresos", "revenue", "amount", "ganancias", "earnings"},
	"date":           {"fecha", "mes", "periodo", "period"},
})

func fromCSV(r *importer.Row) Input {
	return Input{
		ArtistDisplay: crud.CSVString(r, "artist_display"),
		Title:         crud.CSVString(r, "title"),
		UPC:           crud.CSVString(r, "upc"),
		ReleaseType:   crud.CSVEnum[records.ReleaseType](r, "release_type", importer.ReleaseType),
		Total:         crud.CSVFloat(r, "total"),
		Date:          crud.CSVDate(r, "date"),
		ArtistFields:  crud.CSVArtists(r, "artists"),
	}
}

func New() *crud.Resource[records.TuStreams, *records.TuStreams, Input] {
	return &crud.Resource[records.TuStreams, *records.TuStreams, Input]{
		Name:         "tustreams",
		Columns:      Columns,
		Preload:      []string{"Artists"},
		Artists:      true,
		ExportHeader: exportHeader,
		ExportRow:    exportRow,
		Aliases:      aliases,
		FromCSV:      fromCSV,
	}
}
