package lpm

import (
	"strings"

	"contracts-app/internal/api/crud"
	"contracts-app/internal/api/table"
	"contracts-app/internal/domain/records"
	"contracts-app/internal/importer"
)

type Input struct {
	ProductID           *string    `json:"product_id"`
	ProductType         *string    `json:"product_type"`
	ProductTitle        *string    `json:"product_title"`
	ProductVersion      *string    `json:"product_version"`
	DisplayArtist       *string    `json:"display_artist"`
	ParentLabel         *string    `json:"parent_label"`
	Label               *string    `json:"label"`
	OriginalReleaseDate *crud.Date `json:"original_release_date"`
	ReleaseDate         *crud.Date `json:"release_date"`
	UPC                 *string    `json:"upc"`
	CatalogNumber       *string    `json:"catalog_number"`
	PriceTier           *string    `json:"price_tier"`
	Genre               *string    `json:"genre"`
	SubmissionStatus    *string    `json:"submission_status"`
	CLine               *string    `json:"c_line"`
	PLine               *string    `json:"p_line"`
	TrackTitle          *string    `json:"track_title"`
	TrackVersion        *string    `json:"track_version"`
	ISRC                *string    `json:"isrc"`
	TrackNumber         *int64     `json:"track_number"`
	Volume              *int64     `json:"volume"`
	Explicit            *bool      `json:"explicit"`
	Language            *string    `json:"language"`
}

func (in Input) Validate(create bool) error {
	return crud.Required("product_title", in.ProductTitle, create)
}

func (in Input) ApplyTo(l *records.Lpm) {
	crud.Set(&l.ProductID, in.ProductID)
	crud.Set(&l.ProductType, in.ProductType)
	crud.Set(&l.ProductTitle, in.ProductTitle)
	crud.Set(&l.ProductVersion, in.ProductVersion)
	crud.Set(&l.DisplayArtist, in.DisplayArtist)
	crud.Set(&l.ParentLabel, in.ParentLabel)
	crud.Set(&l.Label, in.Label)
	crud.SetDate(&l.OriginalReleaseDate, in.OriginalReleaseDate)
	crud.SetDate(&l.ReleaseDate, in.ReleaseDate)
	crud.Set(&l.UPC, in.UPC)
	crud.Set(&l.CatalogNumber, in.CatalogNumber)
	crud.Set(&l.PriceTier, in.PriceTier)
	crud.Set(&l.Genre, in.Genre)
	crud.Set(&l.SubmissionStatus, in.SubmissionStatus)
	crud.Set(&l.CLine, in.CLine)
	crud.Set(&l.PLine, in.PLine)
	crud.Set(&l.TrackTitle, in.TrackTitle)
	crud.Set(&l.TrackVersion, in.TrackVersion)
	crud.Set(&l.ISRC, in.ISRC)
	crud.SetPtr(&l.TrackNumber, in.TrackNumber)
	crud.SetPtr(&l.Volume, in.Volume)
	crud.Set(&l.Explicit, in.Explicit)
	crud.Set(&l.Language, in.Language)

	l.ISRC = strings.ToUpper(strings.TrimSpace(l.ISRC))
}

var Columns = table.Base(
	table.TextCol("product_id"),
	table.TextCol("product_type"),
	table.TextCol("product_title"),
	table.TextCol("product_version"),
	table.TextCol("display_artist"),
	table.TextCol("parent_label"),
	table.TextCol("label"),
	table.DateCol("original_release_date"),
	table.DateCol("release_date"),
	table.TextCol("upc"),
	table.TextCol("catalog_number"),
	table.TextCol("price_tier"),
	table.TextCol("genre"),
	table.TextCol("submission_status"),
	table.TextCol("c_line"),
	table.TextCol("p_line"),
	table.TextCol("track_title"),
	table.TextCol("track_version"),
	table.TextCol("isrc"),
	table.NumberCol("track_number"),
	table.NumberCol("volume"),
	table.BoolCol("explicit"),
	table.TextCol("language"),
)

var exportHeader = []string{
	"id", "product_id", "product_type", "product_title", "product_version", "display_artist",
	"parent_label", "label", "original_release_date", "release_date", "upc", "catalog_number",
	"price_tier", "genre", "submission_status", "c_line", "p_line", "track_title", "track_version",
	"isrc", "track_number", "volume", "explicit", "language",
}

func exportRow(l *records.Lpm) []string {
	return []string{
		l.ID, l.ProductID, l.ProductType, l.ProductTitle, l.ProductVersion, l.DisplayArtist,
		l.ParentLabel, l.Label, table.FmtDate(l.OriginalReleaseDate), table.FmtDate(l.ReleaseDate),
		l.UPC, l.CatalogNumber, l.PriceTier, l.Genre, l.SubmissionStatus, l.CLine, l.PLine,
		l.TrackTitle, l.TrackVersion, l.ISRC, table.FmtInt(l.TrackNumber), table.FmtInt(l.Volume),
		table.FmtBool(l.Explicit), l.Language,
	}
}

var aliases = importer.NewAliases(map[string][]string{
	"product_id":            {"product id", "id producto", "release id"},
	"product_type":          {"tipo de producto", "format", "formato", "configuration"},
	"product_title":         {"product", "producto", "release title", "album", "titulo del producto", "titulo del lanzamiento"},
	"product_version":       {"version del producto", "release version"},
	"display_artist":        {"artist", "artista", "primary artist", "artista principal", "product artist"},
	"parent_label":          {"sello matriz", "parent label name"},
	"label":                 {"sello", "label name", "imprint"},
	"original_release_date": {"fecha de lanzamiento original", "original release", "original date"},
	"release_date":          {"fecha de lanzamiento", "release", "street date", "fecha"},
	"upc":                   {"ean", "upc/ean", "barcode", "codigo de barras"},
	"catalog_number":        {"catalog", "catalogue number", "cat no", "cat#", "numero de catalogo"},
	"price_tier":            {"precio", "price", "price code"},
	"genre":                 {"genero", "primary genre"},
	"submission_status":     {"estado", "status", "delivery status"},
	"c_line":                {"(c) line", "c line", "copyright", "linea c"},
	"p_line":                {"(p) line", "p line", "phonographic copyright", "linea p"},
	"track_title":           {"track", "titulo de la pista", "song", "cancion", "tema"},
	"track_version":         {"version", "version de la pista", "mix"},
	"isrc":                  {"isrc code", "codigo isrc"},
	"track_number":          {"track no", "track #", "numero de pista", "pista", "n pista"},
	"volume":                {"disc", "disco", "volume number", "volumen"},
	"explicit":              {"parental advisory", "explicito", "explicit content"},
	"language":              {"idioma", "lengua", "lyrics language"},
})

func fromCSV(r *importer.Row) Input {
	return Input{
		ProductID:           crud.CSVString(r, "product_id"),
		ProductType:         crud.CSVString(r, "product_type"),
		ProductTitle:        crud.CSVString(r, "product_title"),
		ProductVersion:      crud.CSVString(r, "product_version"),
		DisplayArtist:       crud.CSVString(r, "display_artist"),
		ParentLabel:         crud.CSVString(r, "parent_label"),
		Label:               crud.CSVString(r, "label"),
		OriginalReleaseDate: crud.CSVDate(r, "original_release_date"),
		ReleaseDate:         crud.CSVDate(r, "release_date"),
		UPC:                 crud.CSVString(r, "upc"),
		CatalogNumber:       crud.CSVString(r, "catalog_number"),
		PriceTier:           crud.CSVString(r, "price_tier"),
		Genre:               crud.CSVString(r, "genre"),
		SubmissionStatus:    crud.CSVString(r, "submission_status"),
		CLine:               crud.CSVString(r, "c_line"),
		PLine:               crud.CSVString(r, "p_line"),
		TrackTitle:          crud.CSVString(r, "track_title"),
		TrackVersion:        crud.CSVString(r, "track_version"),
		ISRC:                crud.CSVString(r, "isrc"),
		TrackNumber:         crud.CSVInt(r, "track_number"),
		Volume:              crud.CSVInt(r, "volume"),
		Explicit:            crud.CSVBool(r, "explicit"),
		Language:            crud.CSVString(r, "language"),
	}
}

func New() *crud.Resource[records.Lpm, *records.Lpm, Input] {
	return &crud.Resource[records.Lpm, *records.Lpm, Input]{
		Name:         "lpm",
		Columns:      Columns,
		ExportHeader: exportHeader,
		ExportRow:    exportRow,
		Aliases:      aliases,
		FromCSV:      fromCSV,
	}
}
