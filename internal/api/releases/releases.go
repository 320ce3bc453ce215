package releases

import (
	"contracts-app/internal/api/crud"
	"contracts-app/internal/api/table"
	"contracts-app/internal/domain/records"
	"contracts-app/internal/importer"
	"contracts-app/internal/infra/search"
)

type Input struct {
	Date          *crud.Date            `json:"date"`
	ArtistDisplay *string               `json:"artist_display"`
	Title         *string               `json:"title"`
	ReleaseType   *records.ReleaseType  `json:"release_type"`
	Focus         *records.ReleaseFocus `json:"focus"`
	StreamingLink *string               `json:"streaming_link"`

	Assets         *bool `json:"assets"`
	Canvas         *bool `json:"canvas"`
	Cover          *bool `json:"cover"`
	AudioWAV       *bool `json:"audio_wav"`
	Video          *bool `json:"video"`
	Banners        *bool `json:"banners"`
	Pitch          *bool `json:"pitch"`
	EPKUpdates     *bool `json:"epk_updates"`
	WebsiteUpdates *bool `json:"website_updates"`
	Biography      *bool `json:"biography"`

	crud.ArtistFields
}

func (in Input) Validate(create bool) error {
	return crud.First(
		crud.Required("title", in.Title, create),
		crud.OneOf("release_type", in.ReleaseType, records.ReleaseSingle, records.ReleaseEP, records.ReleaseAlbum, records.ReleaseUnspecified),
		crud.OneOf("focus", in.Focus, records.FocusSoft, records.FocusFocus, records.FocusUnspecified),
	)
}

func (in Input) ApplyTo(r *records.Release) {
	crud.SetDate(&r.Date, in.Date)
	crud.Set(&r.ArtistDisplay, in.ArtistDisplay)
	crud.Set(&r.Title, in.Title)
	crud.Set(&r.ReleaseType, in.ReleaseType)
	crud.Set(&r.Focus, in.Focus)
	crud.Set(&r.StreamingLink, in.StreamingLink)

	crud.Set(&r.Assets, in.Assets)
	crud.Set(&r.Canvas, in.Canvas)
	crud.Set(&r.Cover, in.Cover)
	crud.Set(&r.AudioWAV, in.AudioWAV)
	crud.Set(&r.Video, in.Video)
	crud.Set(&r.Banners, in.Banners)
	crud.Set(&r.Pitch, in.Pitch)
	crud.Set(&r.EPKUpdates, in.EPKUpdates)
	crud.Set(&r.WebsiteUpdates, in.WebsiteUpdates)
	crud.Set(&r.Biography, in.Biography)

	if r.ReleaseType == "" {
		r.ReleaseType = records.ReleaseUnspecified
	}
	if r.Focus == "" {
		r.Focus = records.FocusUnspecified
	}
	if r.ArtistDisplay == "" && in.Artists != nil {
		r.ArtistDisplay = table.JoinNames(*in.Artists)
	}
}

var checklist = []string{
	"assets", "canvas", "cover", "audio_wav", "video",
	"banners", "pitch", "epk_updates", "website_updates", "biography",
}

var Columns = func() table.Columns {
	cols := table.Base(
		table.DateCol("date"),
		table.TextCol("artist_display"),
		table.TextCol("title"),
		table.EnumCol("release_type", "single", "ep", "album", "unspecified"),
		table.EnumCol("focus", "soft", "focus", "unspecified"),
		table.TextCol("streaming_link"),
	)
	for _, name := range checklist {
		cols = append(cols, table.BoolCol(name))
	}
	return cols
}()

var exportHeader = append([]string{
	"id", "date", "title", "artists", "artist_display", "release_type", "focus", "streaming_link",
}, checklist...)

func exportRow(r *records.Release) []string {
	return []string{
		r.ID, table.FmtDate(r.Date), r.Title, table.JoinNames(crud.ArtistNames(r.Artists)),
		r.ArtistDisplay, string(r.ReleaseType), string(r.Focus), r.StreamingLink,
		table.FmtBool(r.Assets), table.FmtBool(r.Canvas), table.FmtBool(r.Cover),
		table.FmtBool(r.AudioWAV), table.FmtBool(r.Video), table.FmtBool(r.Banners),
		table.FmtBool(r.Pitch), table.FmtBool(r.EPKUpdates), table.FmtBool(r.WebsiteUpdates),
		table.FmtBool(r.Biography),
	}
}

var aliases = importer.NewAliases(map[string][]string{
	"date":            {"fecha", "fecha de lanzamiento", "release date", "lanzamiento"},
	"artist_display":  {"artista display", "credito", "credit"},
	"artists":         {"artista", "artistas", "artist"},
	"title":           {"titulo", "nombre", "release", "tema", "cancion"},
	"release_type":    {"tipo", "tipo de lanzamiento", "type", "formato"},
	"focus":           {"foco", "enfoque", "prioridad"},
	"streaming_link":  {"link", "enlace", "url", "smartlink", "spotify"},
	"assets":          {"recursos"},
	"canvas":          {"spotify canvas"},
	"cover":           {"portada", "artwork", "caratula"},
	"audio_wav":       {"wav", "audio", "master"},
	"video":           {"videoclip"},
	"banners":         {"banner"},
	"pitch":           {"pitching"},
	"epk_updates":     {"epk", "actualizacion epk"},
	"website_updates": {"web", "website", "actualizacion web"},
	"biography":       {"bio", "biografia"},
})

func fromCSV(r *importer.Row) Input {
	return Input{
		Date:           crud.CSVDate(r, "date"),
		ArtistDisplay:  crud.CSVString(r, "artist_display"),
		Title:          crud.CSVString(r, "title"),
		ReleaseType:    crud.CSVEnum[records.ReleaseType](r, "release_type", importer.ReleaseType),
		Focus:          crud.CSVEnum[records.ReleaseFocus](r, "focus", importer.ReleaseFocus),
		StreamingLink:  crud.CSVString(r, "streaming_link"),
		Assets:         crud.CSVBool(r, "assets"),
		Canvas:         crud.CSVBool(r, "canvas"),
		Cover:          crud.CSVBool(r, "cover"),
		AudioWAV:       crud.CSVBool(r, "audio_wav"),
		Video:          crud.CSVBool(r, "video"),
		Banners:        crud.CSVBool(r, "banners"),
		Pitch:          crud.CSVBool(r, "pitch"),
		EPKUpdates:     crud.CSVBool(r, "epk_updates"),
		WebsiteUpdates: crud.CSVBool(r, "website_updates"),
		Biography:      crud.CSVBool(r, "biography"),
		ArtistFields:   crud.CSVArtists(r, "artists"),
	}
}

func New() *crud.Resource[records.Release, *records.Release, Input] {
	return &crud.Resource[records.Release, *records.Release, Input]{
		Name:         "releases",
		Columns:      Columns,
		Preload:      []string{"Artists"},
		Artists:      true,
		ExportHeader: exportHeader,
		ExportRow:    exportRow,
		Aliases:      aliases,
		FromCSV:      fromCSV,
		SearchType:   search.TypeRelease,
		SearchText: func(r *records.Release) (string, string) {
			return r.Title, r.ArtistDisplay
		},
	}
}
