// Package crud serves the data-grid protocol for any tenant-owned record:
// list, get, create, update, delete, bulk delete, batch create, CSV import
// and CSV export.
package crud

import (
	"contracts-app/internal/api/table"
	"contracts-app/internal/importer"
	"contracts-app/internal/infra/search"
	"contracts-app/internal/tenancy"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Row is the pointer type of a record model.
type Row[T any] interface {
	*T
	tenancy.Owned
	GetID() string
}

// Input is a create/update payload. Fields are pointers so that update only
// touches what the client sent.
type Input[T any] interface {
	Validate(create bool) error
	ApplyTo(row *T)
}

// ArtistInput is implemented by payloads that credit artists. set is false
// when the client sent neither artists nor artist_ids.
type ArtistInput interface {
	ArtistRefs() (names, ids []string, set bool)
}

// ArtistFields is embedded by payloads of records with an Artists relation.
type ArtistFields struct {
	Artists   *[]string `json:"artists"`
	ArtistIDs *[]string `json:"artist_ids"`
}

func (a ArtistFields) ArtistRefs() (names, ids []string, set bool) {
	if a.Artists == nil && a.ArtistIDs == nil {
		return nil, nil, false
	}
	if a.Artists != nil {
		names = *a.Artists
	}
	if a.ArtistIDs != nil {
		ids = *a.ArtistIDs
	}
	return names, ids, true
}

type Resource[T any, PT Row[T], In Input[T]] struct {
	// Name is the route segment and export file prefix.
	Name    string
	Columns table.Columns
	Preload []string
	// Artists marks models with an Artists many2many relation.
	Artists bool

	ExportHeader []string
	ExportRow    func(row *T) []string

	Aliases importer.Aliases
	FromCSV func(r *importer.Row) In

	// BeforeSave checks references that need the database, after the input
	// has been applied.
	BeforeSave func(tx *gorm.DB, scope tenancy.Scope, row *T) error

	// NoCreate drops the create, batch and import routes for resources whose
	// rows come from another flow.
	NoCreate bool

	// Search is optional; rows without it are not indexed.
	SearchType search.ResultType
	SearchText func(row *T) (title, subtitle string)

	softDelete bool
}

// Indexer receives created, updated and deleted rows. Nil disables indexing.
var Indexer search.Indexer

// Guards are the middleware chains placed in front of each route class.
type Guards struct {
	Write  []gin.HandlerFunc
	Bulk   []gin.HandlerFunc
	Import []gin.HandlerFunc
	Export []gin.HandlerFunc
}

// With appends h to a copy of chain.
func With(chain []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(chain)+1)
	return append(append(out, chain...), h)
}

// Register mounts the resource under /<Name> and returns the group so
// callers can add routes of their own.
func (r *Resource[T, PT, In]) Register(g *gin.RouterGroup, db *gorm.DB, guards Guards) *gin.RouterGroup {
	r.softDelete = hasSoftDelete(db, new(T))

	rg := g.Group("/" + r.Name)
	rg.GET("", r.List)
	rg.GET("/export", With(guards.Export, r.Export)...)
	rg.POST("/bulk-delete", With(guards.Bulk, r.BulkDelete)...)
	if !r.NoCreate {
		rg.POST("/batch", With(guards.Write, r.Batch)...)
		rg.POST("/import", With(guards.Import, r.Import)...)
		rg.POST("", With(guards.Write, r.Create)...)
	}
	rg.GET("/:id", r.Get)
	rg.PUT("/:id", With(guards.Write, r.Update)...)
	rg.DELETE("/:id", With(guards.Write, r.Delete)...)
	return rg
}

// Load returns the row with id inside scope, preloading the resource's
// relations.
func (r *Resource[T, PT, In]) Load(db *gorm.DB, scope tenancy.Scope, id string) (*T, error) {
	return r.load(db, scope, id)
}

// Indexed pushes rows to the search index.
func (r *Resource[T, PT, In]) Indexed(scope tenancy.Scope, rows ...*T) {
	r.index(scope, rows...)
}

func hasSoftDelete(db *gorm.DB, model any) bool {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return false
	}
	return stmt.Schema.LookUpField("DeletedAt") != nil
}

func (r *Resource[T, PT, In]) index(scope tenancy.Scope, rows ...*T) {
	if Indexer == nil || r.SearchText == nil {
		return
	}
	for _, row := range rows {
		title, subtitle := r.SearchText(row)
		Indexer.Index(search.Record{
			ID:       PT(row).GetID(),
			Type:     r.SearchType,
			Title:    title,
			Subtitle: subtitle,
			Scope:    search.ScopeKey(scope),
		})
	}
}

func (r *Resource[T, PT, In]) unindex(ids ...string) {
	if Indexer == nil || r.SearchText == nil {
		return
	}
	Indexer.Remove(ids...)
}

// attachArtists replaces the Artists relation when the payload carries one.
func (r *Resource[T, PT, In]) attachArtists(tx *gorm.DB, scope tenancy.Scope, row *T, in In) error {
	if !r.Artists {
		return nil
	}
	refs, ok := any(in).(ArtistInput)
	if !ok {
		return nil
	}
	names, ids, set := refs.ArtistRefs()
	if !set {
		return nil
	}
	artists, err := ResolveArtists(tx, scope, names, ids)
	if err != nil {
		return err
	}
	return tx.Model(row).Association("Artists").Replace(artists)
}
