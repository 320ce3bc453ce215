package isrcsongs

import (
	"errors"
	"regexp"
	"strings"

	"contracts-app/internal/api/crud"
	"contracts-app/internal/api/table"
	"contracts-app/internal/domain/records"
	"contracts-app/internal/importer"
)

// isrcPattern accepts the 12-character code with or without hyphens.
var isrcPattern = regexp.MustCompile(`^[A-Z]{2}-?[A-Z0-9]{3}-?\d{2}-?\d{5}$`)

type Input struct {
	Date          *crud.Date `json:"date"`
	ISRC          *string    `json:"isrc"`
	ArtistDisplay *string    `json:"artist_display"`
	Duration      *string    `json:"duration"`
	TrackName     *string    `json:"track_name"`
	Title         *string    `json:"title"`
	License       *string    `json:"license"`
	crud.ArtistFields
}

func (in Input) Validate(create bool) error {
	if err := crud.Required("isrc", in.ISRC, create); err != nil {
		return err
	}
	if in.ISRC != nil && !isrcPattern.MatchString(normalizeISRC(*in.ISRC)) {
		return errors.New("isrc must look like CC-XXX-YY-NNNNN")
	}
	return nil
}

func normalizeISRC(s string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
}

func (in Input) ApplyTo(s *records.IsrcSong) {
	crud.SetDate(&s.Date, in.Date)
	if in.ISRC != nil {
		s.ISRC = normalizeISRC(*in.ISRC)
	}
	crud.Set(&s.ArtistDisplay, in.ArtistDisplay)
	crud.Set(&s.Duration, in.Duration)
	crud.Set(&s.TrackName, in.TrackName)
	crud.Set(&s.Title, in.Title)
	crud.Set(&s.License, in.License)

	if s.ArtistDisplay == "" && in.Artists != nil {
		s.ArtistDisplay = table.JoinNames(*in.Artists)
	}
}

var Columns = table.Base(
	table.DateCol("date"),
	table.TextCol("isrc"),
	table.TextCol("artist_display"),
	table.TextCol("duration"),
	table.TextCol("track_name"),
	table.TextCol("title"),
	table.TextCol("license"),
)

var exportHeader = []string{"id", "date", "isrc", "artists", "artist_display", "track_name", "title", "duration", "license"}

func exportRow(s *records.IsrcSong) []string {
	return []string{
		s.ID, table.FmtDate(s.Date), s.ISRC, table.JoinNames(crud.ArtistNames(s.Artists)),
		s.ArtistDisplay, s.TrackName, s.Title, s.Duration, s.License,
	}
}

var aliases = importer.NewAliases(map[string][]string{
	"date":           {"fecha", "fecha de alta", "registered"},
	"isrc":           {"codigo isrc", "isrc code"},
	"artist_display": {"artista display", "credito"},
	"artists":        {"artista", "artistas", "artist", "interprete"},
	"duration":       {"duracion", "length", "tiempo"},
	"track_name":     {"track", "pista", "nombre de pista", "cancion", "song"},
	"title":          {"titulo", "obra", "work"},
	"license":        {"licencia", "licensor", "licenciatario"},
})

func fromCSV(r *importer.Row) Input {
	return Input{
		Date:          crud.CSVDate(r, "date"),
		ISRC:          crud.CSVString(r, "isrc"),
		ArtistDisplay: crud.CSVString(r, "artist_display"),
		Duration:      crud.CSVString(r, "duration"),
		TrackName:     crud.CSVString(r, "track_name"),
		Title:         crud.CSVString(r, "title"),
		License:       crud.CSVString(r, "license"),
		ArtistFields:  crud.CSVArtists(r, "artists"),
	}
}

func New() *crud.Resource[records.IsrcSong, *records.IsrcSong, Input] {
	return &crud.Resource[records.IsrcSong, *records.IsrcSong, Input]{
		Name:         "isrc-songs",
		Columns:      Columns,
		Preload:      []string{"Artists"},
		Artists:      true,
		ExportHeader: exportHeader,
		ExportRow:    exportRow,
		Aliases:      aliases,
		FromCSV:      fromCSV,
	}
}
